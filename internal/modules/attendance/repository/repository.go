package repository

import (
	"context"
	"database/sql"

	"anoa.com/squadhub/internal/entity"
	"anoa.com/squadhub/pkg/apperror"
	"anoa.com/squadhub/pkg/database"
	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Snapshot is one consistent read of a training's squad and its attendance.
type Snapshot struct {
	Players []uuid.UUID
	Records []*entity.AttendanceRecord
	Counts  map[entity.AttendanceStatus]int64
}

type AttendanceRepository interface {
	CreateTraining(ctx context.Context, training *entity.Training) error
	FindTraining(ctx context.Context, id uuid.UUID) (*entity.Training, error)
	// Upsert overwrites the single current status of the (training, player) pair.
	Upsert(ctx context.Context, record *entity.AttendanceRecord) error
	Snapshot(ctx context.Context, training *entity.Training) (*Snapshot, error)
}

type attendanceRepository struct {
	db *gorm.DB
}

func NewAttendanceRepository(db *gorm.DB) AttendanceRepository {
	return &attendanceRepository{db: db}
}

func (r *attendanceRepository) CreateTraining(ctx context.Context, training *entity.Training) error {
	err := r.db.WithContext(ctx).Create(training).Error
	return database.Classify(err, "unable to create the training", nil)
}

func (r *attendanceRepository) FindTraining(ctx context.Context, id uuid.UUID) (*entity.Training, error) {
	var training entity.Training
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&training).Error; err != nil {
		return nil, database.Classify(err, "unable to load the training",
			apperror.NotFound(apperror.CodeTrainingNotFound, "training not found"))
	}
	return &training, nil
}

func (r *attendanceRepository) Upsert(ctx context.Context, record *entity.AttendanceRecord) error {
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "training_id"}, {Name: "player_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"status", "updated_at"}),
		}).
		Create(record).Error
	return database.Classify(err, "unable to save the attendance status", nil)
}

type statusCount struct {
	Status entity.AttendanceStatus
	Count  int64
}

// squadRecords restricts attendance rows to current players of the training's club.
func squadRecords(columns ...string) sq.SelectBuilder {
	return sq.Select(columns...).
		From("attendance_records ar").
		Join("trainings t ON t.id = ar.training_id").
		Join("club_members cm ON cm.club_id = t.club_id AND cm.user_id = ar.player_id")
}

func (r *attendanceRepository) Snapshot(ctx context.Context, training *entity.Training) (*Snapshot, error) {
	wrapMsg := "unable to load attendance"
	filter := sq.Eq{"ar.training_id": training.ID, "cm.role": entity.ClubRolePlayer}

	recordsSQL, recordsArgs, err := squadRecords("ar.*").Where(filter).OrderBy("ar.updated_at asc").ToSql()
	if err != nil {
		return nil, errors.Wrap(err, wrapMsg)
	}
	countsSQL, countsArgs, err := squadRecords("ar.status", "count(*) AS count").Where(filter).GroupBy("ar.status").ToSql()
	if err != nil {
		return nil, errors.Wrap(err, wrapMsg)
	}

	snapshot := &Snapshot{
		Players: []uuid.UUID{},
		Records: []*entity.AttendanceRecord{},
		Counts:  map[entity.AttendanceStatus]int64{},
	}

	readOnly := &sql.TxOptions{Isolation: sql.LevelRepeatableRead, ReadOnly: true}
	err = r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Model(&entity.ClubMember{}).
			Where("club_id = ? AND role = ?", training.ClubID, entity.ClubRolePlayer).
			Order("joined_at asc").
			Pluck("user_id", &snapshot.Players).Error
		if err != nil {
			return err
		}

		if err := tx.Raw(recordsSQL, recordsArgs...).Scan(&snapshot.Records).Error; err != nil {
			return err
		}

		var counts []statusCount
		if err := tx.Raw(countsSQL, countsArgs...).Scan(&counts).Error; err != nil {
			return err
		}
		for _, c := range counts {
			snapshot.Counts[c.Status] = c.Count
		}
		return nil
	}, readOnly)
	if err != nil {
		return nil, database.Classify(err, wrapMsg, nil)
	}
	return snapshot, nil
}
