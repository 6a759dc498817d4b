package post

import (
	"context"
	"time"

	"anoa.com/squadhub/internal/entity"
	notifService "anoa.com/squadhub/internal/modules/notification/service"
	postDto "anoa.com/squadhub/internal/modules/post/dto"
	postRepo "anoa.com/squadhub/internal/modules/post/repository"
	"anoa.com/squadhub/pkg/apperror"
	"anoa.com/squadhub/pkg/dto"
	"anoa.com/squadhub/pkg/ratelimiter"
	"anoa.com/squadhub/pkg/sanitize"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

// LikeReader answers whether the viewer currently likes targets.
type LikeReader interface {
	Exists(ctx context.Context, actorID, targetID uuid.UUID, kind entity.RelationKind) (bool, error)
	ActiveTargets(ctx context.Context, actorID uuid.UUID, kind entity.RelationKind, targetIDs []uuid.UUID) (map[uuid.UUID]bool, error)
}

type NameResolver interface {
	DisplayName(ctx context.Context, userID uuid.UUID) string
}

type PostService interface {
	CreatePost(ctx context.Context, userID uuid.UUID, req postDto.CreatePostRequest) (*postDto.PostResponse, error)
	GetPostByID(ctx context.Context, postID, viewerID uuid.UUID) (*postDto.PostResponse, error)
	CreateComment(ctx context.Context, userID, postID uuid.UUID, req postDto.CreateCommentRequest) (*postDto.CommentResponse, error)
	GetComments(ctx context.Context, postID, viewerID uuid.UUID, query dto.PageQuery) (*postDto.PaginatedCommentResponse, error)
}

type postService struct {
	postRepo            postRepo.PostRepository
	likes               LikeReader
	names               NameResolver
	notificationService notifService.NotificationService
	redisClient         *redis.Client
	commentLimit        time.Duration
}

func NewPostService(postRepo postRepo.PostRepository, likes LikeReader, names NameResolver, notificationService notifService.NotificationService, redisClient *redis.Client, commentLimit time.Duration) PostService {
	return &postService{
		postRepo:            postRepo,
		likes:               likes,
		names:               names,
		notificationService: notificationService,
		redisClient:         redisClient,
		commentLimit:        commentLimit,
	}
}

func (s *postService) CreatePost(ctx context.Context, userID uuid.UUID, req postDto.CreatePostRequest) (*postDto.PostResponse, error) {
	content := sanitize.Text(req.Content)
	if content == "" {
		return nil, apperror.InvalidInput("content is required")
	}

	post := &entity.Post{
		AuthorID: userID,
		ClubID:   req.ClubID,
		Content:  content,
	}
	if err := s.postRepo.Create(ctx, post); err != nil {
		return nil, err
	}

	return postDto.ToPostResponse(post, s.names.DisplayName(ctx, userID), false), nil
}

func (s *postService) GetPostByID(ctx context.Context, postID, viewerID uuid.UUID) (*postDto.PostResponse, error) {
	post, err := s.postRepo.FindByID(ctx, postID)
	if err != nil {
		return nil, err
	}

	liked, err := s.likes.Exists(ctx, viewerID, postID, entity.RelationPostLike)
	if err != nil {
		return nil, err
	}

	return postDto.ToPostResponse(post, s.names.DisplayName(ctx, post.AuthorID), liked), nil
}

func (s *postService) CreateComment(ctx context.Context, userID, postID uuid.UUID, req postDto.CreateCommentRequest) (*postDto.CommentResponse, error) {
	content := sanitize.Text(req.Content)
	if content == "" {
		return nil, apperror.InvalidInput("content is required")
	}

	if err := ratelimiter.Guard(ctx, s.redisClient, userID, "comment", s.commentLimit); err != nil {
		return nil, err
	}

	// Defer rollback in case of creation failure
	creationFailed := true
	defer func() {
		if creationFailed {
			_ = ratelimiter.ClearRateLimit(ctx, s.redisClient, userID, "comment")
		}
	}()

	post, err := s.postRepo.FindByID(ctx, postID)
	if err != nil {
		return nil, err
	}

	comment := &entity.Comment{
		PostID:   postID,
		AuthorID: userID,
		Content:  content,
	}
	if err := s.postRepo.CreateComment(ctx, comment); err != nil {
		return nil, err
	}
	creationFailed = false

	author := s.names.DisplayName(ctx, userID)
	if post.AuthorID != userID && s.notificationService != nil {
		target := entity.TargetPost
		_, err := s.notificationService.Notify(ctx, notifService.NotifyInput{
			SenderID:   &userID,
			Recipients: []uuid.UUID{post.AuthorID},
			Kind:       entity.KindPostReaction,
			Title:      "New comment",
			Message:    author + " commented: " + sanitize.Truncate(content, 80),
			TargetID:   &postID,
			TargetKind: &target,
		})
		if err != nil {
			logrus.WithError(err).WithFields(logrus.Fields{
				"recipient_id": post.AuthorID,
				"kind":         entity.KindPostReaction,
			}).Error("unable to notify post author")
		}
	}

	resp := postDto.ToCommentResponse(comment, author, false)
	return &resp, nil
}

func (s *postService) GetComments(ctx context.Context, postID, viewerID uuid.UUID, query dto.PageQuery) (*postDto.PaginatedCommentResponse, error) {
	query = query.Normalize()

	if _, err := s.postRepo.FindByID(ctx, postID); err != nil {
		return nil, err
	}

	comments, total, err := s.postRepo.FindComments(ctx, postID, query.Offset(), query.Limit)
	if err != nil {
		return nil, err
	}

	ids := make([]uuid.UUID, 0, len(comments))
	for _, c := range comments {
		ids = append(ids, c.ID)
	}
	liked, err := s.likes.ActiveTargets(ctx, viewerID, entity.RelationCommentLike, ids)
	if err != nil {
		return nil, err
	}

	names := map[uuid.UUID]string{}
	data := make([]postDto.CommentResponse, 0, len(comments))
	for _, c := range comments {
		name, ok := names[c.AuthorID]
		if !ok {
			name = s.names.DisplayName(ctx, c.AuthorID)
			names[c.AuthorID] = name
		}
		data = append(data, postDto.ToCommentResponse(c, name, liked[c.ID]))
	}

	return &postDto.PaginatedCommentResponse{
		Data: data,
		Meta: dto.NewPaginationMeta(query, total),
	}, nil
}
