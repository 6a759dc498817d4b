package service

import (
	"context"

	"anoa.com/squadhub/internal/entity"
	notifService "anoa.com/squadhub/internal/modules/notification/service"
	relationDto "anoa.com/squadhub/internal/modules/relation/dto"
	relationRepo "anoa.com/squadhub/internal/modules/relation/repository"
	"anoa.com/squadhub/pkg/apperror"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// NameResolver renders a user for notification text.
type NameResolver interface {
	DisplayName(ctx context.Context, userID uuid.UUID) string
}

type RelationService interface {
	Toggle(ctx context.Context, actorID uuid.UUID, req relationDto.ToggleRequest) (*relationDto.ToggleResponse, error)
	Status(ctx context.Context, actorID, targetID uuid.UUID, kind entity.RelationKind) (*relationDto.StatusResponse, error)
}

type relationService struct {
	repo                relationRepo.RelationRepository
	notificationService notifService.NotificationService
	names               NameResolver
}

func NewRelationService(repo relationRepo.RelationRepository, notificationService notifService.NotificationService, names NameResolver) RelationService {
	return &relationService{
		repo:                repo,
		notificationService: notificationService,
		names:               names,
	}
}

func (s *relationService) Toggle(ctx context.Context, actorID uuid.UUID, req relationDto.ToggleRequest) (*relationDto.ToggleResponse, error) {
	if req.ActorID != nil && *req.ActorID != actorID {
		return nil, apperror.Forbidden("relations can only be toggled for yourself")
	}
	if !req.Kind.Valid() {
		return nil, apperror.InvalidInput("unknown relation kind")
	}
	if req.Kind == entity.RelationFollow && req.TargetID == actorID {
		return nil, apperror.InvalidInput("you cannot follow yourself")
	}

	owner, err := s.repo.TargetOwner(ctx, req.TargetID, req.Kind)
	if err != nil {
		return nil, err
	}

	result, err := s.repo.Toggle(ctx, actorID, req.TargetID, req.Kind)
	if err != nil {
		return nil, err
	}

	if result.Active && owner != actorID {
		s.notifyOwner(ctx, actorID, owner, req.TargetID, req.Kind)
	}

	return &relationDto.ToggleResponse{Active: result.Active, Count: result.Count}, nil
}

// notifyOwner runs after the toggle committed; a failure here leaves the relation in place.
func (s *relationService) notifyOwner(ctx context.Context, actorID, ownerID, targetID uuid.UUID, kind entity.RelationKind) {
	if s.notificationService == nil {
		return
	}

	name := "Someone"
	if s.names != nil {
		name = s.names.DisplayName(ctx, actorID)
	}

	input := notifService.NotifyInput{
		SenderID:   &actorID,
		Recipients: []uuid.UUID{ownerID},
		TargetID:   &targetID,
	}

	var target entity.TargetKind
	switch kind {
	case entity.RelationPostLike:
		input.Kind = entity.KindPostReaction
		input.Title = "New like"
		input.Message = name + " liked your post"
		target = entity.TargetPost
	case entity.RelationCommentLike:
		input.Kind = entity.KindPostReaction
		input.Title = "New like"
		input.Message = name + " liked your comment"
		target = entity.TargetComment
	case entity.RelationFollow:
		input.Kind = entity.KindFollow
		input.Title = "New follower"
		input.Message = name + " started following you"
		input.TargetID = &actorID
		target = entity.TargetProfile
	case entity.RelationWatch:
		input.Kind = entity.KindMarketActivity
		input.Title = "Player on watchlist"
		input.Message = name + " is watching your player"
		target = entity.TargetPlayer
	default:
		return
	}
	input.TargetKind = &target

	if _, err := s.notificationService.Notify(ctx, input); err != nil {
		logrus.WithError(err).WithFields(logrus.Fields{
			"recipient_id": ownerID,
			"kind":         input.Kind,
		}).Error("unable to notify relation target owner")
	}
}

func (s *relationService) Status(ctx context.Context, actorID, targetID uuid.UUID, kind entity.RelationKind) (*relationDto.StatusResponse, error) {
	if !kind.Valid() {
		return nil, apperror.InvalidInput("unknown relation kind")
	}
	active, err := s.repo.Exists(ctx, actorID, targetID, kind)
	if err != nil {
		return nil, err
	}
	return &relationDto.StatusResponse{Active: active}, nil
}
