package repository

import (
	"context"

	"anoa.com/squadhub/internal/entity"
	"anoa.com/squadhub/pkg/apperror"
	"anoa.com/squadhub/pkg/database"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type PostRepository interface {
	Create(ctx context.Context, post *entity.Post) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Post, error)
	// CreateComment stores the comment and bumps the post's comment_count atomically.
	CreateComment(ctx context.Context, comment *entity.Comment) error
	FindComments(ctx context.Context, postID uuid.UUID, offset, limit int) ([]*entity.Comment, int64, error)
}

type postRepository struct {
	db *gorm.DB
}

func NewPostRepository(db *gorm.DB) PostRepository {
	return &postRepository{db: db}
}

func postNotFound() *apperror.AppError {
	return apperror.NotFound(apperror.CodePostNotFound, "post not found")
}

func (r *postRepository) Create(ctx context.Context, post *entity.Post) error {
	err := r.db.WithContext(ctx).Create(post).Error
	return database.Classify(err, "unable to create the post", nil)
}

func (r *postRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Post, error) {
	var post entity.Post
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&post).Error; err != nil {
		return nil, database.Classify(err, "unable to load the post", postNotFound())
	}
	return &post, nil
}

func (r *postRepository) CreateComment(ctx context.Context, comment *entity.Comment) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// Increment post comment_count
		result := tx.Model(&entity.Post{}).Where("id = ?", comment.PostID).
			UpdateColumn("comment_count", gorm.Expr("comment_count + ?", 1))
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return postNotFound()
		}
		return tx.Create(comment).Error
	})
	return database.Classify(err, "unable to create the comment", nil)
}

func (r *postRepository) FindComments(ctx context.Context, postID uuid.UUID, offset, limit int) ([]*entity.Comment, int64, error) {
	wrapMsg := "unable to list comments"
	var comments []*entity.Comment
	var total int64

	query := r.db.WithContext(ctx).Model(&entity.Comment{}).Where("post_id = ?", postID)
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, database.Classify(err, wrapMsg, nil)
	}
	if total == 0 {
		return []*entity.Comment{}, 0, nil
	}

	err := r.db.WithContext(ctx).
		Where("post_id = ?", postID).
		Order("created_at asc").
		Order("id asc").
		Offset(offset).
		Limit(limit).
		Find(&comments).Error
	if err != nil {
		return nil, 0, database.Classify(err, wrapMsg, nil)
	}
	return comments, total, nil
}
