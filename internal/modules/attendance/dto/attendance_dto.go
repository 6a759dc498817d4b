package dto

import (
	"time"

	"anoa.com/squadhub/internal/entity"
	"github.com/google/uuid"
)

type CreateTrainingRequest struct {
	Title    string    `json:"title" binding:"required,max=150"`
	StartsAt time.Time `json:"starts_at" binding:"required"`
}

type TrainingResponse struct {
	ID        uuid.UUID `json:"id"`
	ClubID    uuid.UUID `json:"club_id"`
	Title     string    `json:"title"`
	StartsAt  time.Time `json:"starts_at"`
	CreatedAt time.Time `json:"created_at"`
}

type SetStatusRequest struct {
	Status entity.AttendanceStatus `json:"status" binding:"required,oneof=present absent late"`
}

type AttendanceResponse struct {
	TrainingID uuid.UUID               `json:"training_id"`
	PlayerID   uuid.UUID               `json:"player_id"`
	Status     entity.AttendanceStatus `json:"status"`
	UpdatedAt  time.Time               `json:"updated_at"`
}

type PlayerStatus struct {
	PlayerID  uuid.UUID               `json:"player_id"`
	Username  string                  `json:"username"`
	Status    entity.AttendanceStatus `json:"status"`
	UpdatedAt *time.Time              `json:"updated_at,omitempty"`
}

// AttendanceCounts are derived from the current records on every read.
type AttendanceCounts struct {
	Present int64 `json:"present"`
	Absent  int64 `json:"absent"`
	Late    int64 `json:"late"`
	Unknown int64 `json:"unknown"`
}

type SummaryResponse struct {
	Training TrainingResponse `json:"training"`
	Players  []PlayerStatus   `json:"players"`
	Counts   AttendanceCounts `json:"counts"`
}

func ToTrainingResponse(t *entity.Training) TrainingResponse {
	return TrainingResponse{
		ID:        t.ID,
		ClubID:    t.ClubID,
		Title:     t.Title,
		StartsAt:  t.StartsAt,
		CreatedAt: t.CreatedAt,
	}
}

func ToAttendanceResponse(r *entity.AttendanceRecord) *AttendanceResponse {
	return &AttendanceResponse{
		TrainingID: r.TrainingID,
		PlayerID:   r.PlayerID,
		Status:     r.Status,
		UpdatedAt:  r.UpdatedAt,
	}
}
