package entity

import (
	"time"

	"github.com/google/uuid"
)

// Profile is the local view of an authenticated user. ID is the token subject issued by the
// auth provider.
type Profile struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Username  string    `gorm:"size:50" json:"username"`
	Language  string    `gorm:"size:35" json:"language"`
	FCMToken  string    `gorm:"type:text" json:"-"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (p *Profile) TableName() string {
	return "profiles"
}
