package repository

import (
	"context"
	"errors"

	"anoa.com/squadhub/internal/entity"
	"anoa.com/squadhub/pkg/apperror"
	"anoa.com/squadhub/pkg/database"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ClubRepository interface {
	// CreateClub stores the club and makes its creator an admin member.
	CreateClub(ctx context.Context, club *entity.Club) error
	FindClub(ctx context.Context, id uuid.UUID) (*entity.Club, error)
	// FindMember returns nil without error when the user is not a member.
	FindMember(ctx context.Context, clubID, userID uuid.UUID) (*entity.ClubMember, error)
	UpsertMember(ctx context.Context, member *entity.ClubMember) error
	// MemberIDs lists members in join order, restricted to roles when any are given.
	MemberIDs(ctx context.Context, clubID uuid.UUID, roles ...string) ([]uuid.UUID, error)
	CreateMatch(ctx context.Context, match *entity.Match) error
	FindMatch(ctx context.Context, id uuid.UUID) (*entity.Match, error)
	UpdateMatchState(ctx context.Context, match *entity.Match) error
	CreatePlayer(ctx context.Context, player *entity.Player) error
}

type clubRepository struct {
	db *gorm.DB
}

func NewClubRepository(db *gorm.DB) ClubRepository {
	return &clubRepository{db: db}
}

func clubNotFound() *apperror.AppError {
	return apperror.NotFound(apperror.CodeClubNotFound, "club not found")
}

func matchNotFound() *apperror.AppError {
	return apperror.NotFound(apperror.CodeMatchNotFound, "match not found")
}

func (r *clubRepository) CreateClub(ctx context.Context, club *entity.Club) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(club).Error; err != nil {
			return err
		}
		return tx.Create(&entity.ClubMember{
			ClubID: club.ID,
			UserID: club.CreatedBy,
			Role:   entity.ClubRoleAdmin,
		}).Error
	})
	return database.Classify(err, "unable to create the club", nil)
}

func (r *clubRepository) FindClub(ctx context.Context, id uuid.UUID) (*entity.Club, error) {
	var club entity.Club
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&club).Error; err != nil {
		return nil, database.Classify(err, "unable to load the club", clubNotFound())
	}
	return &club, nil
}

func (r *clubRepository) FindMember(ctx context.Context, clubID, userID uuid.UUID) (*entity.ClubMember, error) {
	var member entity.ClubMember
	err := r.db.WithContext(ctx).
		Where("club_id = ? AND user_id = ?", clubID, userID).
		Take(&member).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, database.Classify(err, "unable to load the club member", nil)
	}
	return &member, nil
}

func (r *clubRepository) UpsertMember(ctx context.Context, member *entity.ClubMember) error {
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "club_id"}, {Name: "user_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"role"}),
		}).
		Create(member).Error
	return database.Classify(err, "unable to save the club member", nil)
}

func (r *clubRepository) MemberIDs(ctx context.Context, clubID uuid.UUID, roles ...string) ([]uuid.UUID, error) {
	ids := []uuid.UUID{}
	query := r.db.WithContext(ctx).Model(&entity.ClubMember{}).Where("club_id = ?", clubID)
	if len(roles) > 0 {
		query = query.Where("role IN ?", roles)
	}
	if err := query.Order("joined_at asc").Pluck("user_id", &ids).Error; err != nil {
		return nil, database.Classify(err, "unable to list club members", nil)
	}
	return ids, nil
}

func (r *clubRepository) CreateMatch(ctx context.Context, match *entity.Match) error {
	err := r.db.WithContext(ctx).Create(match).Error
	return database.Classify(err, "unable to create the match", nil)
}

func (r *clubRepository) FindMatch(ctx context.Context, id uuid.UUID) (*entity.Match, error) {
	var match entity.Match
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&match).Error; err != nil {
		return nil, database.Classify(err, "unable to load the match", matchNotFound())
	}
	return &match, nil
}

func (r *clubRepository) UpdateMatchState(ctx context.Context, match *entity.Match) error {
	result := r.db.WithContext(ctx).
		Model(&entity.Match{}).
		Where("id = ?", match.ID).
		Updates(map[string]interface{}{
			"home_score": match.HomeScore,
			"away_score": match.AwayScore,
			"status":     match.Status,
		})
	if result.Error != nil {
		return database.Classify(result.Error, "unable to update the match", nil)
	}
	if result.RowsAffected == 0 {
		return matchNotFound()
	}
	return nil
}

func (r *clubRepository) CreatePlayer(ctx context.Context, player *entity.Player) error {
	err := r.db.WithContext(ctx).Create(player).Error
	return database.Classify(err, "unable to list the player", nil)
}
