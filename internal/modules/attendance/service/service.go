package attendance

import (
	"context"
	"time"

	"anoa.com/squadhub/internal/entity"
	attendanceDto "anoa.com/squadhub/internal/modules/attendance/dto"
	attendanceRepo "anoa.com/squadhub/internal/modules/attendance/repository"
	"anoa.com/squadhub/pkg/apperror"
	"anoa.com/squadhub/pkg/sanitize"
	"github.com/google/uuid"
)

// Roster answers club membership questions.
type Roster interface {
	FindMember(ctx context.Context, clubID, userID uuid.UUID) (*entity.ClubMember, error)
}

type NameResolver interface {
	DisplayName(ctx context.Context, userID uuid.UUID) string
}

type AttendanceService interface {
	CreateTraining(ctx context.Context, actorID, clubID uuid.UUID, req attendanceDto.CreateTrainingRequest) (*attendanceDto.TrainingResponse, error)
	SetStatus(ctx context.Context, actorID, trainingID, playerID uuid.UUID, status entity.AttendanceStatus) (*attendanceDto.AttendanceResponse, error)
	Summary(ctx context.Context, viewerID, trainingID uuid.UUID) (*attendanceDto.SummaryResponse, error)
}

type attendanceService struct {
	repo   attendanceRepo.AttendanceRepository
	roster Roster
	names  NameResolver
	now    func() time.Time
}

func NewAttendanceService(repo attendanceRepo.AttendanceRepository, roster Roster, names NameResolver) AttendanceService {
	return &attendanceService{
		repo:   repo,
		roster: roster,
		names:  names,
		now:    time.Now,
	}
}

func (s *attendanceService) requireManager(ctx context.Context, clubID, actorID uuid.UUID) error {
	member, err := s.roster.FindMember(ctx, clubID, actorID)
	if err != nil {
		return err
	}
	if member == nil || !member.CanManage() {
		return apperror.Forbidden("only coaches and admins can manage attendance")
	}
	return nil
}

func (s *attendanceService) CreateTraining(ctx context.Context, actorID, clubID uuid.UUID, req attendanceDto.CreateTrainingRequest) (*attendanceDto.TrainingResponse, error) {
	title := sanitize.Text(req.Title)
	if title == "" {
		return nil, apperror.InvalidInput("title is required")
	}
	if err := s.requireManager(ctx, clubID, actorID); err != nil {
		return nil, err
	}

	training := &entity.Training{
		ClubID:   clubID,
		Title:    title,
		StartsAt: req.StartsAt.UTC(),
	}
	if err := s.repo.CreateTraining(ctx, training); err != nil {
		return nil, err
	}

	resp := attendanceDto.ToTrainingResponse(training)
	return &resp, nil
}

func (s *attendanceService) SetStatus(ctx context.Context, actorID, trainingID, playerID uuid.UUID, status entity.AttendanceStatus) (*attendanceDto.AttendanceResponse, error) {
	if !status.Assignable() {
		return nil, apperror.InvalidInput("status must be one of present, absent, late")
	}

	training, err := s.repo.FindTraining(ctx, trainingID)
	if err != nil {
		return nil, err
	}
	if err := s.requireManager(ctx, training.ClubID, actorID); err != nil {
		return nil, err
	}

	player, err := s.roster.FindMember(ctx, training.ClubID, playerID)
	if err != nil {
		return nil, err
	}
	if player == nil || player.Role != entity.ClubRolePlayer {
		return nil, apperror.NotFound(apperror.CodePlayerNotFound, "player is not in this club's squad")
	}

	record := &entity.AttendanceRecord{
		TrainingID: trainingID,
		PlayerID:   playerID,
		Status:     status,
		UpdatedAt:  s.now().UTC(),
	}
	if err := s.repo.Upsert(ctx, record); err != nil {
		return nil, err
	}
	return attendanceDto.ToAttendanceResponse(record), nil
}

func (s *attendanceService) Summary(ctx context.Context, viewerID, trainingID uuid.UUID) (*attendanceDto.SummaryResponse, error) {
	training, err := s.repo.FindTraining(ctx, trainingID)
	if err != nil {
		return nil, err
	}
	viewer, err := s.roster.FindMember(ctx, training.ClubID, viewerID)
	if err != nil {
		return nil, err
	}
	if viewer == nil {
		return nil, apperror.Forbidden("you are not a member of this club")
	}

	snapshot, err := s.repo.Snapshot(ctx, training)
	if err != nil {
		return nil, err
	}

	records := make(map[uuid.UUID]*entity.AttendanceRecord, len(snapshot.Records))
	for _, r := range snapshot.Records {
		records[r.PlayerID] = r
	}

	players := make([]attendanceDto.PlayerStatus, 0, len(snapshot.Players))
	for _, id := range snapshot.Players {
		item := attendanceDto.PlayerStatus{
			PlayerID: id,
			Username: s.names.DisplayName(ctx, id),
			Status:   entity.AttendanceUnknown,
		}
		if r, ok := records[id]; ok {
			updatedAt := r.UpdatedAt
			item.Status = r.Status
			item.UpdatedAt = &updatedAt
		}
		players = append(players, item)
	}

	counts := attendanceDto.AttendanceCounts{
		Present: snapshot.Counts[entity.AttendancePresent],
		Absent:  snapshot.Counts[entity.AttendanceAbsent],
		Late:    snapshot.Counts[entity.AttendanceLate],
	}
	counts.Unknown = int64(len(snapshot.Players)) - counts.Present - counts.Absent - counts.Late
	if counts.Unknown < 0 {
		counts.Unknown = 0
	}

	return &attendanceDto.SummaryResponse{
		Training: attendanceDto.ToTrainingResponse(training),
		Players:  players,
		Counts:   counts,
	}, nil
}
