package repository

import (
	"context"

	"anoa.com/squadhub/internal/entity"
	"anoa.com/squadhub/pkg/apperror"
	"anoa.com/squadhub/pkg/database"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const anonymousName = "Someone"

type ProfileRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Profile, error)
	// Upsert creates the profile or overwrites only the named columns of an existing one.
	Upsert(ctx context.Context, profile *entity.Profile, columns []string) error
	DeviceTokens(ctx context.Context, userIDs []uuid.UUID) (map[uuid.UUID]string, error)
	DisplayName(ctx context.Context, userID uuid.UUID) string
}

type profileRepository struct {
	db *gorm.DB
}

func NewProfileRepository(db *gorm.DB) ProfileRepository {
	return &profileRepository{db: db}
}

func (r *profileRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Profile, error) {
	var profile entity.Profile
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&profile).Error
	if err != nil {
		return nil, database.Classify(err, "unable to load the profile", apperror.NotFound(apperror.CodeNotFound, "profile not found"))
	}
	return &profile, nil
}

func (r *profileRepository) Upsert(ctx context.Context, profile *entity.Profile, columns []string) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// a device token belongs to whoever registered it last
		if profile.FCMToken != "" {
			if err := tx.Model(&entity.Profile{}).
				Where("fcm_token = ? AND id <> ?", profile.FCMToken, profile.ID).
				Update("fcm_token", "").Error; err != nil {
				return err
			}
		}

		conflict := clause.OnConflict{Columns: []clause.Column{{Name: "id"}}, DoNothing: true}
		if len(columns) > 0 {
			conflict = clause.OnConflict{
				Columns:   []clause.Column{{Name: "id"}},
				DoUpdates: clause.AssignmentColumns(append(columns, "updated_at")),
			}
		}
		return tx.Clauses(conflict).Create(profile).Error
	})
	return database.Classify(err, "unable to save the profile", nil)
}

func (r *profileRepository) DeviceTokens(ctx context.Context, userIDs []uuid.UUID) (map[uuid.UUID]string, error) {
	tokens := make(map[uuid.UUID]string, len(userIDs))
	if len(userIDs) == 0 {
		return tokens, nil
	}

	var rows []entity.Profile
	err := r.db.WithContext(ctx).
		Select("id", "fcm_token").
		Where("id IN ? AND fcm_token <> ''", userIDs).
		Find(&rows).Error
	if err != nil {
		return nil, database.Classify(err, "unable to load device tokens", nil)
	}
	for _, row := range rows {
		tokens[row.ID] = row.FCMToken
	}
	return tokens, nil
}

func (r *profileRepository) DisplayName(ctx context.Context, userID uuid.UUID) string {
	var usernames []string
	err := r.db.WithContext(ctx).
		Model(&entity.Profile{}).
		Where("id = ?", userID).
		Limit(1).
		Pluck("username", &usernames).Error
	if err != nil || len(usernames) == 0 || usernames[0] == "" {
		return anonymousName
	}
	return usernames[0]
}
