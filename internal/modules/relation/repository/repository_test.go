package repository

import (
	"context"
	"errors"
	"fmt"
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

const (
	lockQuery    = `SELECT pg_advisory_xact_lock(hashtext($1))`
	deleteQuery  = `DELETE FROM relations WHERE actor_id = $1 AND kind = $2 AND target_id = $3`
	insertQuery  = `INSERT INTO relations (id,actor_id,target_id,kind,created_at) VALUES ($1,$2,$3,$4,$5)`
	counterQuery = `SET like_count = like_count + $1 WHERE id = $2 RETURNING like_count`
	targetQuery  = `SELECT 1 FROM %s WHERE id = $1 FOR SHARE`
)

func newMockRepository(t *testing.T) (RelationRepository, sqlmock.Sqlmock) {
	t.Helper()

	conn, mock, err := sqlmock.New()
	require.NoError(t, err, "unable to open the mock database connection")
	t.Cleanup(func() { conn.Close() })

	db, err := database.OpenWithConn(conn)
	require.NoError(t, err)

	return NewRelationRepository(db), mock
}

func TestToggleActivatesPostLike(t *testing.T) {
	assert := assert.New(t)
	repo, mock := newMockRepository(t)
	actor, post := uuid.New(), uuid.New()

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(lockQuery)).
		WithArgs("post_like:" + actor.String() + ":" + post.String()).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta(deleteQuery)).
		WithArgs(actor, "post_like", post).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(regexp.QuoteMeta(insertQuery)).
		WithArgs(sqlmock.AnyArg(), actor, post, "post_like", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(regexp.QuoteMeta(`UPDATE posts ` + counterQuery)).
		WithArgs(1, post).
		WillReturnRows(sqlmock.NewRows([]string{"like_count"}).AddRow(1))
	mock.ExpectCommit()

	result, err := repo.Toggle(context.Background(), actor, post, entity.RelationPostLike)
	require.NoError(t, err)

	assert.True(result.Active)
	require.NotNil(t, result.Count)
	assert.Equal(int64(1), *result.Count)
	assert.NoError(mock.ExpectationsWereMet(), "not all mock expectations were met")
}

func TestToggleDeactivatesCommentLike(t *testing.T) {
	assert := assert.New(t)
	repo, mock := newMockRepository(t)
	actor, comment := uuid.New(), uuid.New()

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(lockQuery)).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta(deleteQuery)).
		WithArgs(actor, "comment_like", comment).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(regexp.QuoteMeta(`UPDATE comments ` + counterQuery)).
		WithArgs(-1, comment).
		WillReturnRows(sqlmock.NewRows([]string{"like_count"}).AddRow(0))
	mock.ExpectCommit()

	result, err := repo.Toggle(context.Background(), actor, comment, entity.RelationCommentLike)
	require.NoError(t, err)

	assert.False(result.Active)
	require.NotNil(t, result.Count)
	assert.Zero(*result.Count)
	assert.NoError(mock.ExpectationsWereMet())
}

func TestToggleWatchHasNoCounter(t *testing.T) {
	assert := assert.New(t)
	repo, mock := newMockRepository(t)
	player := uuid.New()

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(lockQuery)).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(regexp.QuoteMeta(fmt.Sprintf(targetQuery, "players"))).
		WithArgs(player).
		WillReturnRows(sqlmock.NewRows([]string{"?column?"}).AddRow(1))
	mock.ExpectExec(regexp.QuoteMeta(deleteQuery)).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(regexp.QuoteMeta(insertQuery)).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	result, err := repo.Toggle(context.Background(), uuid.New(), player, entity.RelationWatch)
	require.NoError(t, err)

	assert.True(result.Active)
	assert.Nil(result.Count)
	assert.NoError(mock.ExpectationsWereMet())
}

func TestToggleFollowOfDeletedProfileRollsBack(t *testing.T) {
	assert := assert.New(t)
	repo, mock := newMockRepository(t)
	profile := uuid.New()

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(lockQuery)).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(regexp.QuoteMeta(fmt.Sprintf(targetQuery, "profiles"))).
		WithArgs(profile).
		WillReturnRows(sqlmock.NewRows([]string{"?column?"}))
	mock.ExpectRollback()

	_, err := repo.Toggle(context.Background(), uuid.New(), profile, entity.RelationFollow)
	assert.ErrorIs(err, apperror.ErrNotFound)
	assert.Equal(apperror.CodeTargetNotFound, apperror.CodeOf(err))
	assert.NoError(mock.ExpectationsWereMet(), "no relation row may be written")
}

func TestToggleMissingCounterTargetRollsBack(t *testing.T) {
	assert := assert.New(t)
	repo, mock := newMockRepository(t)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(lockQuery)).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta(deleteQuery)).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(regexp.QuoteMeta(insertQuery)).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(regexp.QuoteMeta(`UPDATE posts ` + counterQuery)).
		WillReturnRows(sqlmock.NewRows([]string{"like_count"}))
	mock.ExpectRollback()

	_, err := repo.Toggle(context.Background(), uuid.New(), uuid.New(), entity.RelationPostLike)
	assert.ErrorIs(err, apperror.ErrNotFound)
	assert.Equal(apperror.CodeTargetNotFound, apperror.CodeOf(err))
	assert.NoError(mock.ExpectationsWereMet())
}

func TestToggleBackendFailureRollsBack(t *testing.T) {
	assert := assert.New(t)
	repo, mock := newMockRepository(t)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(lockQuery)).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(regexp.QuoteMeta(fmt.Sprintf(targetQuery, "profiles"))).
		WillReturnRows(sqlmock.NewRows([]string{"?column?"}).AddRow(1))
	mock.ExpectExec(regexp.QuoteMeta(deleteQuery)).WillReturnError(errors.New("connection reset"))
	mock.ExpectRollback()

	_, err := repo.Toggle(context.Background(), uuid.New(), uuid.New(), entity.RelationFollow)
	assert.ErrorIs(err, apperror.ErrBackend)
	assert.Equal(apperror.CodeBackendUnavailable, apperror.CodeOf(err))
	assert.NoError(mock.ExpectationsWereMet())
}

func TestExists(t *testing.T) {
	assert := assert.New(t)
	repo, mock := newMockRepository(t)
	actor, target := uuid.New(), uuid.New()

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT count(*) FROM "relations" WHERE actor_id = $1 AND target_id = $2 AND kind = $3`)).
		WithArgs(actor, target, "follow").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	active, err := repo.Exists(context.Background(), actor, target, entity.RelationFollow)
	assert.NoError(err)
	assert.True(active)
	assert.NoError(mock.ExpectationsWereMet())
}

func TestActiveTargets(t *testing.T) {
	assert := assert.New(t)
	repo, mock := newMockRepository(t)
	actor, liked, other := uuid.New(), uuid.New(), uuid.New()

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT "target_id" FROM "relations" WHERE actor_id = $1 AND kind = $2 AND target_id IN ($3,$4)`)).
		WillReturnRows(sqlmock.NewRows([]string{"target_id"}).AddRow(liked.String()))

	active, err := repo.ActiveTargets(context.Background(), actor, entity.RelationCommentLike, []uuid.UUID{liked, other})
	assert.NoError(err)
	assert.True(active[liked])
	assert.False(active[other])
	assert.NoError(mock.ExpectationsWereMet())
}

func TestActors(t *testing.T) {
	assert := assert.New(t)
	repo, mock := newMockRepository(t)
	owner, follower := uuid.New(), uuid.New()

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT "actor_id" FROM "relations" WHERE target_id = $1 AND kind = $2 ORDER BY created_at asc`)).
		WithArgs(owner, "follow").
		WillReturnRows(sqlmock.NewRows([]string{"actor_id"}).AddRow(follower.String()))

	actors, err := repo.Actors(context.Background(), owner, entity.RelationFollow)
	assert.NoError(err)
	assert.Equal([]uuid.UUID{follower}, actors)
	assert.NoError(mock.ExpectationsWereMet())
}

func TestTargetOwner(t *testing.T) {
	tests := []struct {
		kind  entity.RelationKind
		query string
	}{
		{entity.RelationPostLike, `SELECT author_id FROM posts WHERE id = $1`},
		{entity.RelationCommentLike, `SELECT author_id FROM comments WHERE id = $1`},
		{entity.RelationWatch, `SELECT owner_id FROM players WHERE id = $1`},
		{entity.RelationFollow, `SELECT id FROM profiles WHERE id = $1`},
	}

	for _, tt := range tests {
		t.Run(string(tt.kind), func(t *testing.T) {
			repo, mock := newMockRepository(t)
			target, owner := uuid.New(), uuid.New()

			mock.ExpectQuery(regexp.QuoteMeta(tt.query)).
				WithArgs(target).
				WillReturnRows(sqlmock.NewRows([]string{"owner"}).AddRow(owner.String()))

			got, err := repo.TargetOwner(context.Background(), target, tt.kind)
			assert.NoError(t, err)
			assert.Equal(t, owner, got)
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestTargetOwnerMissing(t *testing.T) {
	repo, mock := newMockRepository(t)

	mock.ExpectQuery(`SELECT author_id FROM posts`).
		WillReturnRows(sqlmock.NewRows([]string{"author_id"}))

	_, err := repo.TargetOwner(context.Background(), uuid.New(), entity.RelationPostLike)
	assert.Equal(t, apperror.CodeTargetNotFound, apperror.CodeOf(err))
	assert.NoError(t, mock.ExpectationsWereMet())
}
