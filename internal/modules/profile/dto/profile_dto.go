package dto

import (
	"time"

	"anoa.com/squadhub/internal/entity"
	"github.com/google/uuid"
)

// UpdateProfileInput is a partial update. Session start sends the device token and language.
type UpdateProfileInput struct {
	Username *string `json:"username" binding:"omitempty,min=3,max=50"`
	Language *string `json:"language" binding:"omitempty,max=35"`
	FCMToken *string `json:"fcm_token" binding:"omitempty,max=4096"`
}

type ProfileResponse struct {
	ID             uuid.UUID `json:"id"`
	Username       string    `json:"username"`
	Language       string    `json:"language"`
	HasDeviceToken bool      `json:"has_device_token"`
	UpdatedAt      time.Time `json:"updated_at"`
}

func ToProfileResponse(p *entity.Profile) *ProfileResponse {
	return &ProfileResponse{
		ID:             p.ID,
		Username:       p.Username,
		Language:       p.Language,
		HasDeviceToken: p.FCMToken != "",
		UpdatedAt:      p.UpdatedAt,
	}
}
