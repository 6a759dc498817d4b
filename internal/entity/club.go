package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	ClubRoleAdmin  = "admin"
	ClubRoleCoach  = "coach"
	ClubRolePlayer = "player"
	ClubRoleFan    = "fan"
)

type Club struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Name      string    `gorm:"size:100;not null" json:"name"`
	CreatedBy uuid.UUID `gorm:"type:uuid;not null" json:"created_by"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (c *Club) TableName() string {
	return "clubs"
}

func (c *Club) BeforeCreate(tx *gorm.DB) (err error) {
	if c.ID == uuid.Nil {
		c.ID, err = uuid.NewV7()
	}
	return
}

type ClubMember struct {
	ClubID   uuid.UUID `gorm:"type:uuid;primaryKey" json:"club_id"`
	UserID   uuid.UUID `gorm:"type:uuid;primaryKey;index" json:"user_id"`
	Role     string    `gorm:"size:20;not null" json:"role"`
	JoinedAt time.Time `gorm:"autoCreateTime" json:"joined_at"`
}

func (m *ClubMember) TableName() string {
	return "club_members"
}

// CanManage reports whether the member may run trainings and publish club content.
func (m *ClubMember) CanManage() bool {
	return m.Role == ClubRoleAdmin || m.Role == ClubRoleCoach
}

const (
	MatchScheduled = "scheduled"
	MatchLive      = "live"
	MatchFinished  = "finished"
	MatchPostponed = "postponed"
)

type Match struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	ClubID    uuid.UUID `gorm:"type:uuid;not null;index" json:"club_id"`
	Opponent  string    `gorm:"size:100;not null" json:"opponent"`
	KickoffAt time.Time `gorm:"not null" json:"kickoff_at"`
	HomeScore int       `gorm:"not null" json:"home_score"`
	AwayScore int       `gorm:"not null" json:"away_score"`
	Status    string    `gorm:"size:20;not null" json:"status"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (m *Match) TableName() string {
	return "matches"
}

func (m *Match) BeforeCreate(tx *gorm.DB) (err error) {
	if m.ID == uuid.Nil {
		m.ID, err = uuid.NewV7()
	}
	return
}

// Player is a transfer-market listing.
type Player struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	OwnerID     uuid.UUID `gorm:"type:uuid;not null;index" json:"owner_id"`
	Name        string    `gorm:"size:100;not null" json:"name"`
	Position    string    `gorm:"size:30" json:"position"`
	MarketValue int64     `gorm:"not null" json:"market_value"`
	ListedAt    time.Time `gorm:"autoCreateTime" json:"listed_at"`
}

func (p *Player) TableName() string {
	return "players"
}

func (p *Player) BeforeCreate(tx *gorm.DB) (err error) {
	if p.ID == uuid.Nil {
		p.ID, err = uuid.NewV7()
	}
	return
}
