package repository

import (
	"context"

	"anoa.com/squadhub/internal/entity"
	"anoa.com/squadhub/pkg/apperror"
	"anoa.com/squadhub/pkg/database"
	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type NotificationRepository interface {
	CreateBatch(ctx context.Context, notifications []*entity.Notification) error
	ListByRecipient(ctx context.Context, recipientID uuid.UUID, limit, offset int) ([]entity.Notification, int64, error)
	MarkAsRead(ctx context.Context, id, recipientID uuid.UUID) error
	MarkAllAsRead(ctx context.Context, recipientID uuid.UUID) (int64, error)
	CountUnread(ctx context.Context, recipientID uuid.UUID) (int64, error)

	// FindSettings returns stored settings keyed by user. Users without a row are absent.
	FindSettings(ctx context.Context, userIDs []uuid.UUID) (map[uuid.UUID]entity.NotificationSettings, error)
	UpdateSettings(ctx context.Context, userID uuid.UUID, patch entity.NotificationSettingsPatch) (*entity.NotificationSettings, error)
}

type notificationRepository struct {
	db *gorm.DB
}

func NewNotificationRepository(db *gorm.DB) NotificationRepository {
	return &notificationRepository{db: db}
}

func (r *notificationRepository) CreateBatch(ctx context.Context, notifications []*entity.Notification) error {
	if len(notifications) == 0 {
		return nil
	}
	err := r.db.WithContext(ctx).CreateInBatches(notifications, 100).Error
	return database.Classify(err, "unable to create notifications", nil)
}

func (r *notificationRepository) ListByRecipient(ctx context.Context, recipientID uuid.UUID, limit, offset int) ([]entity.Notification, int64, error) {
	wrapMsg := "unable to list notifications"

	var total int64
	err := r.db.WithContext(ctx).
		Model(&entity.Notification{}).
		Where("recipient_id = ?", recipientID).
		Count(&total).Error
	if err != nil {
		return nil, 0, database.Classify(err, wrapMsg, nil)
	}

	notifications := []entity.Notification{}
	if total == 0 {
		return notifications, 0, nil
	}

	err = r.db.WithContext(ctx).
		Where("recipient_id = ?", recipientID).
		Order("created_at desc").
		Order("id desc").
		Limit(limit).
		Offset(offset).
		Find(&notifications).Error
	if err != nil {
		return nil, 0, database.Classify(err, wrapMsg, nil)
	}

	return notifications, total, nil
}

// MarkAsRead flips is_read for a notification owned by recipientID. Rows already read still
// match, so repeating the call succeeds.
func (r *notificationRepository) MarkAsRead(ctx context.Context, id, recipientID uuid.UUID) error {
	result := r.db.WithContext(ctx).
		Model(&entity.Notification{}).
		Where("id = ? AND recipient_id = ?", id, recipientID).
		Update("is_read", true)
	if result.Error != nil {
		return database.Classify(result.Error, "unable to mark the notification as read", nil)
	}
	if result.RowsAffected == 0 {
		return apperror.NotFound(apperror.CodeNotificationNotFound, "notification not found")
	}
	return nil
}

func (r *notificationRepository) MarkAllAsRead(ctx context.Context, recipientID uuid.UUID) (int64, error) {
	result := r.db.WithContext(ctx).
		Model(&entity.Notification{}).
		Where("recipient_id = ? AND is_read = ?", recipientID, false).
		Update("is_read", true)
	if result.Error != nil {
		return 0, database.Classify(result.Error, "unable to mark notifications as read", nil)
	}
	return result.RowsAffected, nil
}

func (r *notificationRepository) CountUnread(ctx context.Context, recipientID uuid.UUID) (int64, error) {
	wrapMsg := "unable to count unread notifications"

	statement, args, err := sq.Select("count(*)").
		From("notifications").
		Where(sq.Eq{"recipient_id": recipientID, "is_read": false}).
		ToSql()
	if err != nil {
		return 0, errors.Wrap(err, wrapMsg)
	}

	var count int64
	if err := r.db.WithContext(ctx).Raw(statement, args...).Scan(&count).Error; err != nil {
		return 0, database.Classify(err, wrapMsg, nil)
	}
	return count, nil
}

func (r *notificationRepository) FindSettings(ctx context.Context, userIDs []uuid.UUID) (map[uuid.UUID]entity.NotificationSettings, error) {
	found := make(map[uuid.UUID]entity.NotificationSettings, len(userIDs))
	if len(userIDs) == 0 {
		return found, nil
	}

	var rows []entity.NotificationSettings
	if err := r.db.WithContext(ctx).Where("user_id IN ?", userIDs).Find(&rows).Error; err != nil {
		return nil, database.Classify(err, "unable to load notification settings", nil)
	}
	for _, row := range rows {
		found[row.UserID] = row
	}
	return found, nil
}

// UpdateSettings merges patch onto the stored row, creating it from defaults first. The row lock
// keeps concurrent partial updates from overwriting each other's fields.
func (r *notificationRepository) UpdateSettings(ctx context.Context, userID uuid.UUID, patch entity.NotificationSettingsPatch) (*entity.NotificationSettings, error) {
	var current entity.NotificationSettings

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		defaults := entity.DefaultNotificationSettings(userID)
		if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&defaults).Error; err != nil {
			return err
		}

		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("user_id = ?", userID).
			First(&current).Error; err != nil {
			return err
		}

		current.Apply(patch)
		return tx.Save(&current).Error
	})
	if err != nil {
		return nil, database.Classify(err, "unable to update notification settings", nil)
	}

	return &current, nil
}
