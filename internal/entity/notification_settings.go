package entity

import (
	"time"

	"github.com/google/uuid"
)

// NotificationSettings holds one toggle per notification kind. A user without a row gets
// DefaultNotificationSettings.
type NotificationSettings struct {
	UserID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"-"`
	Messages      bool      `gorm:"not null" json:"messages"`
	Followers     bool      `gorm:"not null" json:"followers"`
	Market        bool      `gorm:"not null" json:"market"`
	PostReactions bool      `gorm:"not null" json:"post_reactions"`
	MatchUpdates  bool      `gorm:"not null" json:"match_updates"`
	ClubNews      bool      `gorm:"not null" json:"club_news"`
	System        bool      `gorm:"not null" json:"system"`
	UpdatedAt     time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (s *NotificationSettings) TableName() string {
	return "notification_settings"
}

func DefaultNotificationSettings(userID uuid.UUID) NotificationSettings {
	return NotificationSettings{
		UserID:        userID,
		Messages:      true,
		Followers:     true,
		Market:        true,
		PostReactions: true,
		MatchUpdates:  true,
		ClubNews:      true,
		System:        true,
	}
}

// NotificationSettingsPatch is a partial update; nil fields keep their stored value.
type NotificationSettingsPatch struct {
	Messages      *bool `json:"messages"`
	Followers     *bool `json:"followers"`
	Market        *bool `json:"market"`
	PostReactions *bool `json:"post_reactions"`
	MatchUpdates  *bool `json:"match_updates"`
	ClubNews      *bool `json:"club_news"`
	System        *bool `json:"system"`
}

func (p NotificationSettingsPatch) Empty() bool {
	return p.Messages == nil && p.Followers == nil && p.Market == nil && p.PostReactions == nil &&
		p.MatchUpdates == nil && p.ClubNews == nil && p.System == nil
}

// Apply merges p onto s.
func (s *NotificationSettings) Apply(p NotificationSettingsPatch) {
	set := func(dst *bool, src *bool) {
		if src != nil {
			*dst = *src
		}
	}
	set(&s.Messages, p.Messages)
	set(&s.Followers, p.Followers)
	set(&s.Market, p.Market)
	set(&s.PostReactions, p.PostReactions)
	set(&s.MatchUpdates, p.MatchUpdates)
	set(&s.ClubNews, p.ClubNews)
	set(&s.System, p.System)
}

// Allows reports whether deliveries of kind are switched on.
func (s NotificationSettings) Allows(kind NotificationKind) bool {
	switch kind {
	case KindMessage:
		return s.Messages
	case KindFollow:
		return s.Followers
	case KindMarketActivity:
		return s.Market
	case KindPostReaction:
		return s.PostReactions
	case KindMatchUpdate:
		return s.MatchUpdates
	case KindClubNews:
		return s.ClubNews
	case KindSystem:
		return s.System
	}
	return false
}
