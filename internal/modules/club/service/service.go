package club

import (
	"context"
	"fmt"
	"time"

	"anoa.com/squadhub/internal/entity"
	clubDto "anoa.com/squadhub/internal/modules/club/dto"
	clubRepo "anoa.com/squadhub/internal/modules/club/repository"
	notifService "anoa.com/squadhub/internal/modules/notification/service"
	"anoa.com/squadhub/pkg/apperror"
	"anoa.com/squadhub/pkg/ratelimiter"
	"anoa.com/squadhub/pkg/sanitize"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

const broadcastAction = "broadcast"

// FollowerReader lists the users following someone.
type FollowerReader interface {
	Actors(ctx context.Context, targetID uuid.UUID, kind entity.RelationKind) ([]uuid.UUID, error)
}

type NameResolver interface {
	DisplayName(ctx context.Context, userID uuid.UUID) string
}

type ClubService interface {
	CreateClub(ctx context.Context, userID uuid.UUID, req clubDto.CreateClubRequest) (*clubDto.ClubResponse, error)
	AddMember(ctx context.Context, actorID, clubID uuid.UUID, req clubDto.AddMemberRequest) (*clubDto.MemberResponse, error)
	PublishNews(ctx context.Context, actorID, clubID uuid.UUID, req clubDto.PublishNewsRequest) (*clubDto.BroadcastResponse, error)
	CreateMatch(ctx context.Context, actorID, clubID uuid.UUID, req clubDto.CreateMatchRequest) (*clubDto.MatchResponse, error)
	PostMatchUpdate(ctx context.Context, actorID, matchID uuid.UUID, req clubDto.MatchUpdateRequest) (*clubDto.MatchResponse, error)
	ListPlayer(ctx context.Context, ownerID uuid.UUID, req clubDto.ListPlayerRequest) (*clubDto.PlayerResponse, error)
}

type clubService struct {
	repo                clubRepo.ClubRepository
	followers           FollowerReader
	names               NameResolver
	notificationService notifService.NotificationService
	redisClient         *redis.Client
	broadcastLimit      time.Duration
}

func NewClubService(repo clubRepo.ClubRepository, followers FollowerReader, names NameResolver, notificationService notifService.NotificationService, redisClient *redis.Client, broadcastLimit time.Duration) ClubService {
	return &clubService{
		repo:                repo,
		followers:           followers,
		names:               names,
		notificationService: notificationService,
		redisClient:         redisClient,
		broadcastLimit:      broadcastLimit,
	}
}

func (s *clubService) CreateClub(ctx context.Context, userID uuid.UUID, req clubDto.CreateClubRequest) (*clubDto.ClubResponse, error) {
	name := sanitize.Text(req.Name)
	if name == "" {
		return nil, apperror.InvalidInput("club name is required")
	}

	club := &entity.Club{Name: name, CreatedBy: userID}
	if err := s.repo.CreateClub(ctx, club); err != nil {
		return nil, err
	}
	return clubDto.ToClubResponse(club, entity.ClubRoleAdmin), nil
}

// membership loads the club and the actor's role in it, failing with 403 when the actor is not a member.
func (s *clubService) membership(ctx context.Context, clubID, actorID uuid.UUID) (*entity.Club, *entity.ClubMember, error) {
	club, err := s.repo.FindClub(ctx, clubID)
	if err != nil {
		return nil, nil, err
	}
	member, err := s.repo.FindMember(ctx, clubID, actorID)
	if err != nil {
		return nil, nil, err
	}
	if member == nil {
		return nil, nil, apperror.Forbidden("you are not a member of this club")
	}
	return club, member, nil
}

func (s *clubService) requireManager(ctx context.Context, clubID, actorID uuid.UUID) (*entity.Club, error) {
	club, member, err := s.membership(ctx, clubID, actorID)
	if err != nil {
		return nil, err
	}
	if !member.CanManage() {
		return nil, apperror.Forbidden("only coaches and admins can do this")
	}
	return club, nil
}

func (s *clubService) AddMember(ctx context.Context, actorID, clubID uuid.UUID, req clubDto.AddMemberRequest) (*clubDto.MemberResponse, error) {
	_, actor, err := s.membership(ctx, clubID, actorID)
	if err != nil {
		return nil, err
	}
	if actor.Role != entity.ClubRoleAdmin {
		return nil, apperror.Forbidden("only admins can manage members")
	}
	if req.UserID == actorID {
		return nil, apperror.InvalidInput("admins cannot change their own role")
	}

	member := &entity.ClubMember{ClubID: clubID, UserID: req.UserID, Role: req.Role}
	if err := s.repo.UpsertMember(ctx, member); err != nil {
		return nil, err
	}
	return clubDto.ToMemberResponse(member), nil
}

// broadcast fans a system-originated notification out to every club member except the actor.
func (s *clubService) broadcast(ctx context.Context, clubID, actorID uuid.UUID, input notifService.NotifyInput) ([]entity.Notification, error) {
	members, err := s.repo.MemberIDs(ctx, clubID)
	if err != nil {
		return nil, err
	}
	recipients := make([]uuid.UUID, 0, len(members))
	for _, id := range members {
		if id != actorID {
			recipients = append(recipients, id)
		}
	}
	input.Recipients = recipients
	return s.notificationService.Notify(ctx, input)
}

func (s *clubService) PublishNews(ctx context.Context, actorID, clubID uuid.UUID, req clubDto.PublishNewsRequest) (*clubDto.BroadcastResponse, error) {
	if _, err := s.requireManager(ctx, clubID, actorID); err != nil {
		return nil, err
	}

	if err := ratelimiter.Guard(ctx, s.redisClient, actorID, broadcastAction, s.broadcastLimit); err != nil {
		return nil, err
	}

	publishFailed := true
	defer func() {
		if publishFailed {
			_ = ratelimiter.ClearRateLimit(ctx, s.redisClient, actorID, broadcastAction)
		}
	}()

	target := entity.TargetClub
	created, err := s.broadcast(ctx, clubID, actorID, notifService.NotifyInput{
		Kind:       entity.KindClubNews,
		Title:      req.Title,
		Message:    req.Message,
		TargetID:   &clubID,
		TargetKind: &target,
	})
	if err != nil {
		return nil, err
	}
	publishFailed = false

	return &clubDto.BroadcastResponse{Recipients: len(created)}, nil
}

func (s *clubService) CreateMatch(ctx context.Context, actorID, clubID uuid.UUID, req clubDto.CreateMatchRequest) (*clubDto.MatchResponse, error) {
	if _, err := s.requireManager(ctx, clubID, actorID); err != nil {
		return nil, err
	}

	opponent := sanitize.Text(req.Opponent)
	if opponent == "" {
		return nil, apperror.InvalidInput("opponent is required")
	}

	match := &entity.Match{
		ClubID:    clubID,
		Opponent:  opponent,
		KickoffAt: req.KickoffAt.UTC(),
		Status:    entity.MatchScheduled,
	}
	if err := s.repo.CreateMatch(ctx, match); err != nil {
		return nil, err
	}
	return clubDto.ToMatchResponse(match), nil
}

func (s *clubService) PostMatchUpdate(ctx context.Context, actorID, matchID uuid.UUID, req clubDto.MatchUpdateRequest) (*clubDto.MatchResponse, error) {
	if req.IsEmpty() {
		return nil, apperror.InvalidInput("nothing to update")
	}

	match, err := s.repo.FindMatch(ctx, matchID)
	if err != nil {
		return nil, err
	}
	club, err := s.requireManager(ctx, match.ClubID, actorID)
	if err != nil {
		return nil, err
	}

	if err := ratelimiter.Guard(ctx, s.redisClient, actorID, broadcastAction, s.broadcastLimit); err != nil {
		return nil, err
	}

	if req.HomeScore != nil {
		match.HomeScore = *req.HomeScore
	}
	if req.AwayScore != nil {
		match.AwayScore = *req.AwayScore
	}
	if req.Status != nil {
		match.Status = *req.Status
	}
	if err := s.repo.UpdateMatchState(ctx, match); err != nil {
		_ = ratelimiter.ClearRateLimit(ctx, s.redisClient, actorID, broadcastAction)
		return nil, err
	}

	// The score is already stored, so a failed fan-out is logged rather than returned.
	target := entity.TargetMatch
	_, err = s.broadcast(ctx, match.ClubID, actorID, notifService.NotifyInput{
		Kind:       entity.KindMatchUpdate,
		Title:      "Match update",
		Message:    scoreLine(club.Name, match),
		TargetID:   &match.ID,
		TargetKind: &target,
	})
	if err != nil {
		logrus.WithError(err).WithFields(logrus.Fields{
			"match_id": match.ID,
			"kind":     entity.KindMatchUpdate,
		}).Error("unable to fan out match update")
	}

	return clubDto.ToMatchResponse(match), nil
}

func scoreLine(clubName string, m *entity.Match) string {
	return fmt.Sprintf("%s %d - %d %s (%s)", clubName, m.HomeScore, m.AwayScore, m.Opponent, m.Status)
}

func (s *clubService) ListPlayer(ctx context.Context, ownerID uuid.UUID, req clubDto.ListPlayerRequest) (*clubDto.PlayerResponse, error) {
	name := sanitize.Text(req.Name)
	if name == "" {
		return nil, apperror.InvalidInput("player name is required")
	}

	player := &entity.Player{
		OwnerID:     ownerID,
		Name:        name,
		Position:    sanitize.Text(req.Position),
		MarketValue: req.MarketValue,
	}
	if err := s.repo.CreatePlayer(ctx, player); err != nil {
		return nil, err
	}

	s.notifyFollowers(ctx, ownerID, player)

	return clubDto.ToPlayerResponse(player), nil
}

func (s *clubService) notifyFollowers(ctx context.Context, ownerID uuid.UUID, player *entity.Player) {
	followers, err := s.followers.Actors(ctx, ownerID, entity.RelationFollow)
	if err != nil {
		logrus.WithError(err).WithField("owner_id", ownerID).Error("unable to load followers")
		return
	}
	if len(followers) == 0 {
		return
	}

	target := entity.TargetPlayer
	_, err = s.notificationService.Notify(ctx, notifService.NotifyInput{
		SenderID:   &ownerID,
		Recipients: followers,
		Kind:       entity.KindMarketActivity,
		Title:      "New market listing",
		Message:    s.names.DisplayName(ctx, ownerID) + " listed " + player.Name,
		TargetID:   &player.ID,
		TargetKind: &target,
	})
	if err != nil {
		logrus.WithError(err).WithFields(logrus.Fields{
			"owner_id": ownerID,
			"kind":     entity.KindMarketActivity,
		}).Error("unable to notify followers")
	}
}
