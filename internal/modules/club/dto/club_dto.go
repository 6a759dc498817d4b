package dto

import (
	"time"

	"anoa.com/squadhub/internal/entity"
	"github.com/google/uuid"
)

type CreateClubRequest struct {
	Name string `json:"name" binding:"required,max=100"`
}

type ClubResponse struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	CreatedBy uuid.UUID `json:"created_by"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
}

type AddMemberRequest struct {
	UserID uuid.UUID `json:"user_id" binding:"required"`
	Role   string    `json:"role" binding:"required,oneof=admin coach player fan"`
}

type MemberResponse struct {
	ClubID   uuid.UUID `json:"club_id"`
	UserID   uuid.UUID `json:"user_id"`
	Role     string    `json:"role"`
	JoinedAt time.Time `json:"joined_at"`
}

type PublishNewsRequest struct {
	Title   string `json:"title" binding:"required,max=150"`
	Message string `json:"message" binding:"required,max=2000"`
}

// BroadcastResponse reports how many notifications a fan-out stored.
type BroadcastResponse struct {
	Recipients int `json:"recipients"`
}

type CreateMatchRequest struct {
	Opponent  string    `json:"opponent" binding:"required,max=100"`
	KickoffAt time.Time `json:"kickoff_at" binding:"required"`
}

// MatchUpdateRequest changes any subset of the score and status.
type MatchUpdateRequest struct {
	HomeScore *int    `json:"home_score" binding:"omitempty,min=0"`
	AwayScore *int    `json:"away_score" binding:"omitempty,min=0"`
	Status    *string `json:"status" binding:"omitempty,oneof=scheduled live finished postponed"`
}

func (r MatchUpdateRequest) IsEmpty() bool {
	return r.HomeScore == nil && r.AwayScore == nil && r.Status == nil
}

type MatchResponse struct {
	ID        uuid.UUID `json:"id"`
	ClubID    uuid.UUID `json:"club_id"`
	Opponent  string    `json:"opponent"`
	KickoffAt time.Time `json:"kickoff_at"`
	HomeScore int       `json:"home_score"`
	AwayScore int       `json:"away_score"`
	Status    string    `json:"status"`
	UpdatedAt time.Time `json:"updated_at"`
}

type ListPlayerRequest struct {
	Name        string `json:"name" binding:"required,max=100"`
	Position    string `json:"position" binding:"max=30"`
	MarketValue int64  `json:"market_value" binding:"min=0"`
}

type PlayerResponse struct {
	ID          uuid.UUID `json:"id"`
	OwnerID     uuid.UUID `json:"owner_id"`
	Name        string    `json:"name"`
	Position    string    `json:"position"`
	MarketValue int64     `json:"market_value"`
	ListedAt    time.Time `json:"listed_at"`
}

func ToClubResponse(c *entity.Club, role string) *ClubResponse {
	return &ClubResponse{
		ID:        c.ID,
		Name:      c.Name,
		CreatedBy: c.CreatedBy,
		Role:      role,
		CreatedAt: c.CreatedAt,
	}
}

func ToMemberResponse(m *entity.ClubMember) *MemberResponse {
	return &MemberResponse{
		ClubID:   m.ClubID,
		UserID:   m.UserID,
		Role:     m.Role,
		JoinedAt: m.JoinedAt,
	}
}

func ToMatchResponse(m *entity.Match) *MatchResponse {
	return &MatchResponse{
		ID:        m.ID,
		ClubID:    m.ClubID,
		Opponent:  m.Opponent,
		KickoffAt: m.KickoffAt,
		HomeScore: m.HomeScore,
		AwayScore: m.AwayScore,
		Status:    m.Status,
		UpdatedAt: m.UpdatedAt,
	}
}

func ToPlayerResponse(p *entity.Player) *PlayerResponse {
	return &PlayerResponse{
		ID:          p.ID,
		OwnerID:     p.OwnerID,
		Name:        p.Name,
		Position:    p.Position,
		MarketValue: p.MarketValue,
		ListedAt:    p.ListedAt,
	}
}
