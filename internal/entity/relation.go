package entity

import (
	"time"

	"github.com/google/uuid"
)

type RelationKind string

const (
	RelationPostLike    RelationKind = "post_like"
	RelationCommentLike RelationKind = "comment_like"
	RelationWatch       RelationKind = "watch"
	RelationFollow      RelationKind = "follow"
)

func (k RelationKind) Valid() bool {
	switch k {
	case RelationPostLike, RelationCommentLike, RelationWatch, RelationFollow:
		return true
	}
	return false
}

// CounterTable names the table whose like_count mirrors this relation, or "" when the relation
// guards no counter.
func (k RelationKind) CounterTable() string {
	switch k {
	case RelationPostLike:
		return "posts"
	case RelationCommentLike:
		return "comments"
	}
	return ""
}

// TargetTable names the table the target id must exist in.
func (k RelationKind) TargetTable() string {
	switch k {
	case RelationPostLike:
		return "posts"
	case RelationCommentLike:
		return "comments"
	case RelationWatch:
		return "players"
	case RelationFollow:
		return "profiles"
	}
	return ""
}

// Relation is a membership row of a toggle relation. At most one row exists per
// (actor, target, kind).
type Relation struct {
	ID        uuid.UUID    `gorm:"type:uuid;primaryKey" json:"id"`
	ActorID   uuid.UUID    `gorm:"type:uuid;not null;uniqueIndex:idx_relations_pair,priority:1" json:"actor_id"`
	TargetID  uuid.UUID    `gorm:"type:uuid;not null;uniqueIndex:idx_relations_pair,priority:2;index:idx_relations_target,priority:1" json:"target_id"`
	Kind      RelationKind `gorm:"size:20;not null;uniqueIndex:idx_relations_pair,priority:3;index:idx_relations_target,priority:2" json:"kind"`
	CreatedAt time.Time    `gorm:"autoCreateTime" json:"created_at"`
}

func (r *Relation) TableName() string {
	return "relations"
}
