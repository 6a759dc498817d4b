package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type NotificationKind string

const (
	KindMessage        NotificationKind = "message"
	KindFollow         NotificationKind = "follow"
	KindMarketActivity NotificationKind = "market_activity"
	KindPostReaction   NotificationKind = "post_reaction"
	KindMatchUpdate    NotificationKind = "match_update"
	KindClubNews       NotificationKind = "club_news"
	KindSystem         NotificationKind = "system"
)

func (k NotificationKind) Valid() bool {
	switch k {
	case KindMessage, KindFollow, KindMarketActivity, KindPostReaction, KindMatchUpdate, KindClubNews, KindSystem:
		return true
	}
	return false
}

// TargetKind tells clients where a notification routes to.
type TargetKind string

const (
	TargetPost     TargetKind = "post"
	TargetComment  TargetKind = "comment"
	TargetMatch    TargetKind = "match"
	TargetProfile  TargetKind = "profile"
	TargetPlayer   TargetKind = "player"
	TargetClub     TargetKind = "club"
	TargetTraining TargetKind = "training"
)

type Notification struct {
	ID          uuid.UUID        `gorm:"type:uuid;primaryKey" json:"id"`
	RecipientID uuid.UUID        `gorm:"type:uuid;not null;index:idx_notifications_recipient_read,priority:1;index:idx_notifications_recipient_created,priority:1" json:"recipient_id"`
	SenderID    *uuid.UUID       `gorm:"type:uuid" json:"sender_id,omitempty"` // nil for system-originated events
	Kind        NotificationKind `gorm:"size:30;not null" json:"kind"`
	Title       string           `gorm:"size:200;not null" json:"title"`
	Message     string           `gorm:"type:text" json:"message"`
	IsRead      bool             `gorm:"not null;index:idx_notifications_recipient_read,priority:2" json:"is_read"`
	TargetID    *uuid.UUID       `gorm:"type:uuid" json:"target_id,omitempty"`
	TargetKind  *TargetKind      `gorm:"size:20" json:"target_kind,omitempty"`
	CreatedAt   time.Time        `gorm:"autoCreateTime;index:idx_notifications_recipient_created,priority:2" json:"created_at"`
}

func (n *Notification) TableName() string {
	return "notifications"
}

func (n *Notification) BeforeCreate(tx *gorm.DB) (err error) {
	if n.ID == uuid.Nil {
		n.ID, err = uuid.NewV7()
	}
	return
}
