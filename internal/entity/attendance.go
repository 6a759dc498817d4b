package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type AttendanceStatus string

const (
	AttendancePresent AttendanceStatus = "present"
	AttendanceAbsent  AttendanceStatus = "absent"
	AttendanceLate    AttendanceStatus = "late"
	// AttendanceUnknown is never stored; it is the status of a player without a record.
	AttendanceUnknown AttendanceStatus = "unknown"
)

func (s AttendanceStatus) Assignable() bool {
	return s == AttendancePresent || s == AttendanceAbsent || s == AttendanceLate
}

type Training struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	ClubID    uuid.UUID `gorm:"type:uuid;not null;index" json:"club_id"`
	Title     string    `gorm:"size:150;not null" json:"title"`
	StartsAt  time.Time `gorm:"not null" json:"starts_at"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (t *Training) TableName() string {
	return "trainings"
}

func (t *Training) BeforeCreate(tx *gorm.DB) (err error) {
	if t.ID == uuid.Nil {
		t.ID, err = uuid.NewV7()
	}
	return
}

// AttendanceRecord is the single current status of a player for a training.
type AttendanceRecord struct {
	TrainingID uuid.UUID        `gorm:"type:uuid;primaryKey" json:"training_id"`
	PlayerID   uuid.UUID        `gorm:"type:uuid;primaryKey" json:"player_id"`
	Status     AttendanceStatus `gorm:"size:10;not null" json:"status"`
	UpdatedAt  time.Time        `gorm:"autoUpdateTime" json:"updated_at"`
}

func (a *AttendanceRecord) TableName() string {
	return "attendance_records"
}
