package dto

import (
	"anoa.com/squadhub/internal/entity"
	"github.com/google/uuid"
)

// ToggleRequest flips one relation. ActorID is optional and must match the caller when given.
type ToggleRequest struct {
	ActorID  *uuid.UUID          `json:"actor_id"`
	TargetID uuid.UUID           `json:"target_id" binding:"required"`
	Kind     entity.RelationKind `json:"kind" binding:"required,oneof=post_like comment_like watch follow"`
}

type ToggleResponse struct {
	Active bool   `json:"active"`
	Count  *int64 `json:"count,omitempty"`
}

type StatusQuery struct {
	TargetID string `form:"target_id" binding:"required,uuid"`
	Kind     string `form:"kind" binding:"required,oneof=post_like comment_like watch follow"`
}

type StatusResponse struct {
	Active bool `json:"active"`
}
