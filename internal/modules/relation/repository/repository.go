package repository

import (
	"context"
	"database/sql"
	stderrors "errors"
	"fmt"
	"time"

	"anoa.com/squadhub/internal/entity"
	"anoa.com/squadhub/pkg/apperror"
	"anoa.com/squadhub/pkg/database"
	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// ToggleResult is the state after a toggle. Count is set for relations that guard a counter.
type ToggleResult struct {
	Active bool
	Count  *int64
}

type RelationRepository interface {
	// Toggle flips membership of (actor, target, kind) and adjusts the guarded counter in the same
	// transaction. Concurrent toggles of one pair are applied one after another.
	Toggle(ctx context.Context, actorID, targetID uuid.UUID, kind entity.RelationKind) (*ToggleResult, error)
	Exists(ctx context.Context, actorID, targetID uuid.UUID, kind entity.RelationKind) (bool, error)
	ActiveTargets(ctx context.Context, actorID uuid.UUID, kind entity.RelationKind, targetIDs []uuid.UUID) (map[uuid.UUID]bool, error)
	// Actors lists who holds the relation towards target, for example a user's followers.
	Actors(ctx context.Context, targetID uuid.UUID, kind entity.RelationKind) ([]uuid.UUID, error)
	// TargetOwner returns the user notified about activity on the target.
	TargetOwner(ctx context.Context, targetID uuid.UUID, kind entity.RelationKind) (uuid.UUID, error)
}

type relationRepository struct {
	db *gorm.DB
}

func NewRelationRepository(db *gorm.DB) RelationRepository {
	return &relationRepository{db: db}
}

func targetNotFound() *apperror.AppError {
	return apperror.NotFound(apperror.CodeTargetNotFound, "target not found")
}

func pairFilter(actorID, targetID uuid.UUID, kind entity.RelationKind) sq.Eq {
	return sq.Eq{"actor_id": actorID, "target_id": targetID, "kind": string(kind)}
}

func (r *relationRepository) Toggle(ctx context.Context, actorID, targetID uuid.UUID, kind entity.RelationKind) (*ToggleResult, error) {
	wrapMsg := "unable to toggle the relation"
	result := &ToggleResult{}

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		lockKey := fmt.Sprintf("%s:%s:%s", kind, actorID, targetID)
		if err := tx.Exec("SELECT pg_advisory_xact_lock(hashtext(?))", lockKey).Error; err != nil {
			return err
		}

		// Counter kinds find a missing target through the counter update below.
		if kind.CounterTable() == "" {
			if err := lockTarget(tx, targetID, kind); err != nil {
				return err
			}
		}

		statement, args, err := sq.Delete("relations").Where(pairFilter(actorID, targetID, kind)).ToSql()
		if err != nil {
			return errors.Wrap(err, "unable to build the delete statement")
		}
		deleted := tx.Exec(statement, args...)
		if deleted.Error != nil {
			return deleted.Error
		}

		delta := -1
		if deleted.RowsAffected == 0 {
			id, err := uuid.NewV7()
			if err != nil {
				return err
			}
			statement, args, err = sq.Insert("relations").
				Columns("id", "actor_id", "target_id", "kind", "created_at").
				Values(id, actorID, targetID, string(kind), time.Now().UTC()).
				ToSql()
			if err != nil {
				return errors.Wrap(err, "unable to build the insert statement")
			}
			if err := tx.Exec(statement, args...).Error; err != nil {
				return err
			}
			result.Active = true
			delta = 1
		}

		table := kind.CounterTable()
		if table == "" {
			return nil
		}

		statement, args, err = sq.Update(table).
			Set("like_count", sq.Expr("like_count + ?", delta)).
			Where(sq.Eq{"id": targetID}).
			Suffix("RETURNING like_count").
			ToSql()
		if err != nil {
			return errors.Wrap(err, "unable to build the counter statement")
		}

		var count int64
		if err := tx.Raw(statement, args...).Row().Scan(&count); err != nil {
			if stderrors.Is(err, sql.ErrNoRows) {
				return targetNotFound()
			}
			return err
		}
		result.Count = &count
		return nil
	})
	if err != nil {
		return nil, database.Classify(err, wrapMsg, nil)
	}

	return result, nil
}

// lockTarget holds a share lock on the target row until the toggle commits, so the target cannot
// be deleted underneath a new relation.
func lockTarget(tx *gorm.DB, targetID uuid.UUID, kind entity.RelationKind) error {
	statement, args, err := sq.Select("1").
		From(kind.TargetTable()).
		Where(sq.Eq{"id": targetID}).
		Suffix("FOR SHARE").
		ToSql()
	if err != nil {
		return errors.Wrap(err, "unable to build the target statement")
	}

	var found int
	if err := tx.Raw(statement, args...).Row().Scan(&found); err != nil {
		if stderrors.Is(err, sql.ErrNoRows) {
			return targetNotFound()
		}
		return err
	}
	return nil
}

func (r *relationRepository) Exists(ctx context.Context, actorID, targetID uuid.UUID, kind entity.RelationKind) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&entity.Relation{}).
		Where("actor_id = ? AND target_id = ? AND kind = ?", actorID, targetID, kind).
		Count(&count).Error
	if err != nil {
		return false, database.Classify(err, "unable to read the relation", nil)
	}
	return count > 0, nil
}

func (r *relationRepository) ActiveTargets(ctx context.Context, actorID uuid.UUID, kind entity.RelationKind, targetIDs []uuid.UUID) (map[uuid.UUID]bool, error) {
	active := make(map[uuid.UUID]bool, len(targetIDs))
	if len(targetIDs) == 0 {
		return active, nil
	}

	var ids []uuid.UUID
	err := r.db.WithContext(ctx).
		Model(&entity.Relation{}).
		Where("actor_id = ? AND kind = ? AND target_id IN ?", actorID, kind, targetIDs).
		Pluck("target_id", &ids).Error
	if err != nil {
		return nil, database.Classify(err, "unable to read relations", nil)
	}
	for _, id := range ids {
		active[id] = true
	}
	return active, nil
}

func (r *relationRepository) Actors(ctx context.Context, targetID uuid.UUID, kind entity.RelationKind) ([]uuid.UUID, error) {
	actors := []uuid.UUID{}
	err := r.db.WithContext(ctx).
		Model(&entity.Relation{}).
		Where("target_id = ? AND kind = ?", targetID, kind).
		Order("created_at asc").
		Pluck("actor_id", &actors).Error
	if err != nil {
		return nil, database.Classify(err, "unable to list relation actors", nil)
	}
	return actors, nil
}

var ownerColumns = map[entity.RelationKind]string{
	entity.RelationPostLike:    "author_id",
	entity.RelationCommentLike: "author_id",
	entity.RelationWatch:       "owner_id",
	entity.RelationFollow:      "id",
}

func (r *relationRepository) TargetOwner(ctx context.Context, targetID uuid.UUID, kind entity.RelationKind) (uuid.UUID, error) {
	wrapMsg := "unable to resolve the relation target"

	column, ok := ownerColumns[kind]
	if !ok {
		return uuid.Nil, apperror.InvalidInput("unknown relation kind")
	}

	statement, args, err := sq.Select(column).
		From(kind.TargetTable()).
		Where(sq.Eq{"id": targetID}).
		ToSql()
	if err != nil {
		return uuid.Nil, errors.Wrap(err, wrapMsg)
	}

	var owner uuid.UUID
	if err := r.db.WithContext(ctx).Raw(statement, args...).Row().Scan(&owner); err != nil {
		if stderrors.Is(err, sql.ErrNoRows) {
			return uuid.Nil, targetNotFound()
		}
		return uuid.Nil, database.Classify(err, wrapMsg, nil)
	}
	return owner, nil
}
