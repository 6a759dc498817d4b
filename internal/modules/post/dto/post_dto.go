package dto

import (
	"time"

	"anoa.com/squadhub/internal/entity"
	commonDto "anoa.com/squadhub/pkg/dto"
	"github.com/google/uuid"
)

type CreatePostRequest struct {
	Content string     `json:"content" binding:"required,max=5000"`
	ClubID  *uuid.UUID `json:"club_id"`
}

type CreateCommentRequest struct {
	Content string `json:"content" binding:"required,max=2000"`
}

type AuthorResponse struct {
	ID       uuid.UUID `json:"id"`
	Username string    `json:"username"`
}

type PostResponse struct {
	ID           uuid.UUID      `json:"id"`
	ClubID       *uuid.UUID     `json:"club_id,omitempty"`
	Content      string         `json:"content"`
	Author       AuthorResponse `json:"author"`
	LikeCount    int64          `json:"like_count"`
	CommentCount int64          `json:"comment_count"`
	IsLiked      bool           `json:"is_liked"`
	CreatedAt    time.Time      `json:"created_at"`
}

type CommentResponse struct {
	ID        uuid.UUID      `json:"id"`
	PostID    uuid.UUID      `json:"post_id"`
	Content   string         `json:"content"`
	Author    AuthorResponse `json:"author"`
	LikeCount int64          `json:"like_count"`
	IsLiked   bool           `json:"is_liked"`
	CreatedAt time.Time      `json:"created_at"`
}

type PaginatedCommentResponse struct {
	Data []CommentResponse        `json:"data"`
	Meta commonDto.PaginationMeta `json:"meta"`
}

func ToPostResponse(p *entity.Post, author string, liked bool) *PostResponse {
	return &PostResponse{
		ID:           p.ID,
		ClubID:       p.ClubID,
		Content:      p.Content,
		Author:       AuthorResponse{ID: p.AuthorID, Username: author},
		LikeCount:    p.LikeCount,
		CommentCount: p.CommentCount,
		IsLiked:      liked,
		CreatedAt:    p.CreatedAt,
	}
}

func ToCommentResponse(c *entity.Comment, author string, liked bool) CommentResponse {
	return CommentResponse{
		ID:        c.ID,
		PostID:    c.PostID,
		Content:   c.Content,
		Author:    AuthorResponse{ID: c.AuthorID, Username: author},
		LikeCount: c.LikeCount,
		IsLiked:   liked,
		CreatedAt: c.CreatedAt,
	}
}
