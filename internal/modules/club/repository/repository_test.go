package repository

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"anoa.com/squadhub/internal/entity"
	"anoa.com/squadhub/pkg/apperror"
	"anoa.com/squadhub/pkg/database"
	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMockRepository(t *testing.T) (ClubRepository, sqlmock.Sqlmock) {
	t.Helper()

	conn, mock, err := sqlmock.New()
	require.NoError(t, err, "unable to open the mock database connection")
	t.Cleanup(func() { conn.Close() })

	db, err := database.OpenWithConn(conn)
	require.NoError(t, err)

	return NewClubRepository(db), mock
}

func TestCreateClubAddsAdmin(t *testing.T) {
	repo, mock := newMockRepository(t)
	creator := uuid.New()

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO "clubs" ("id","name","created_by","created_at")`)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO "club_members" ("club_id","user_id","role","joined_at")`)).
		WithArgs(sqlmock.AnyArg(), creator, entity.ClubRoleAdmin, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	club := &entity.Club{Name: "Riverside FC", CreatedBy: creator}
	require.NoError(t, repo.CreateClub(context.Background(), club))
	assert.NotEqual(t, uuid.Nil, club.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateClubRollsBack(t *testing.T) {
	repo, mock := newMockRepository(t)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO "clubs"`)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO "club_members"`)).
		WillReturnError(errors.New("connection reset"))
	mock.ExpectRollback()

	err := repo.CreateClub(context.Background(), &entity.Club{Name: "Riverside FC", CreatedBy: uuid.New()})
	assert.ErrorIs(t, err, apperror.ErrBackend)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFindClubMissing(t *testing.T) {
	repo, mock := newMockRepository(t)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "clubs" WHERE id = $1`)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := repo.FindClub(context.Background(), uuid.New())
	assert.Equal(t, apperror.CodeClubNotFound, apperror.CodeOf(err))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFindMember(t *testing.T) {
	assert := assert.New(t)
	repo, mock := newMockRepository(t)
	clubID, userID := uuid.New(), uuid.New()

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "club_members" WHERE club_id = $1 AND user_id = $2`)).
		WillReturnRows(sqlmock.NewRows([]string{"club_id", "user_id", "role"}).
			AddRow(clubID.String(), userID.String(), entity.ClubRoleCoach))
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "club_members" WHERE club_id = $1 AND user_id = $2`)).
		WillReturnRows(sqlmock.NewRows([]string{"club_id"}))

	member, err := repo.FindMember(context.Background(), clubID, userID)
	assert.NoError(err)
	if assert.NotNil(member) {
		assert.True(member.CanManage())
	}

	member, err = repo.FindMember(context.Background(), clubID, uuid.New())
	assert.NoError(err)
	assert.Nil(member)
	assert.NoError(mock.ExpectationsWereMet())
}

func TestUpsertMemberUpdatesRole(t *testing.T) {
	repo, mock := newMockRepository(t)

	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO "club_members" ("club_id","user_id","role","joined_at") VALUES ($1,$2,$3,$4) ON CONFLICT ("club_id","user_id") DO UPDATE SET "role"="excluded"."role"`)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.UpsertMember(context.Background(), &entity.ClubMember{ClubID: uuid.New(), UserID: uuid.New(), Role: entity.ClubRolePlayer})
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMemberIDsByRole(t *testing.T) {
	repo, mock := newMockRepository(t)
	clubID, player := uuid.New(), uuid.New()

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT "user_id" FROM "club_members" WHERE club_id = $1 AND role IN ($2) ORDER BY joined_at asc`)).
		WithArgs(clubID, entity.ClubRolePlayer).
		WillReturnRows(sqlmock.NewRows([]string{"user_id"}).AddRow(player.String()))

	ids, err := repo.MemberIDs(context.Background(), clubID, entity.ClubRolePlayer)
	assert.NoError(t, err)
	assert.Equal(t, []uuid.UUID{player}, ids)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateMatchStateMissing(t *testing.T) {
	repo, mock := newMockRepository(t)

	mock.ExpectExec(regexp.QuoteMeta(`UPDATE "matches" SET`)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.UpdateMatchState(context.Background(), &entity.Match{ID: uuid.New(), HomeScore: 1, Status: entity.MatchLive})
	assert.Equal(t, apperror.CodeMatchNotFound, apperror.CodeOf(err))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreatePlayer(t *testing.T) {
	repo, mock := newMockRepository(t)

	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO "players" ("id","owner_id","name","position","market_value","listed_at")`)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	player := &entity.Player{OwnerID: uuid.New(), Name: "J. Silva", Position: "ST", MarketValue: 1500000}
	require.NoError(t, repo.CreatePlayer(context.Background(), player))
	assert.NotEqual(t, uuid.Nil, player.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}
