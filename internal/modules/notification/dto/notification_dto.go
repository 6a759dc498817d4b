package dto

import (
	"time"

	"anoa.com/squadhub/internal/entity"
	"anoa.com/squadhub/pkg/dto"
	"anoa.com/squadhub/pkg/timeago"
	"github.com/google/uuid"
	"golang.org/x/text/language"
)

type NotificationResponse struct {
	ID         uuid.UUID               `json:"id"`
	SenderID   *uuid.UUID              `json:"sender_id,omitempty"`
	Kind       entity.NotificationKind `json:"kind"`
	Title      string                  `json:"title"`
	Message    string                  `json:"message"`
	IsRead     bool                    `json:"is_read"`
	TargetID   *uuid.UUID              `json:"target_id,omitempty"`
	TargetKind *entity.TargetKind      `json:"target_kind,omitempty"`
	CreatedAt  time.Time               `json:"created_at"`
	Timestamp  string                  `json:"timestamp"`
}

type NotificationListResponse struct {
	Data []NotificationResponse `json:"data"`
	Meta dto.PaginationMeta     `json:"meta"`
}

type MarkReadRequest struct {
	NotificationID uuid.UUID `json:"notification_id" binding:"required"`
}

type UnreadCountResponse struct {
	Count int64 `json:"count"`
}

type MarkReadResponse struct {
	Success bool `json:"success"`
}

type MarkAllReadResponse struct {
	Success bool  `json:"success"`
	Updated int64 `json:"updated"`
}

func ToNotificationResponse(n entity.Notification, now time.Time, tag language.Tag) NotificationResponse {
	return NotificationResponse{
		ID:         n.ID,
		SenderID:   n.SenderID,
		Kind:       n.Kind,
		Title:      n.Title,
		Message:    n.Message,
		IsRead:     n.IsRead,
		TargetID:   n.TargetID,
		TargetKind: n.TargetKind,
		CreatedAt:  n.CreatedAt,
		Timestamp:  timeago.Humanize(n.CreatedAt, now, tag),
	}
}
