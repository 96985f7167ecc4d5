package repository

import (
	"context"
	"errors"
	"testing"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTxRunnerCommits(t *testing.T) {
	db, mock, cleanup := newLessonRepoMock(t)
	defer cleanup()
	runner := NewTxRunner(db)
	repo := NewLessonRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec(`DELETE FROM lessons`).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := runner.RunInTx(context.Background(), nil, func(ctx context.Context, tx sqlx.ExtContext) error {
		_, err := repo.DeleteByIDs(ctx, tx, []string{"a"})
		return err
	})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTxRunnerRollsBackOnError(t *testing.T) {
	db, mock, cleanup := newLessonRepoMock(t)
	defer cleanup()
	runner := NewTxRunner(db)
	repo := NewLessonRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec(`DELETE FROM lessons`).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectRollback()

	mismatch := errors.New("deleted fewer rows than requested")
	err := runner.RunInTx(context.Background(), nil, func(ctx context.Context, tx sqlx.ExtContext) error {
		if _, err := repo.DeleteByIDs(ctx, tx, []string{"a", "b"}); err != nil {
			return err
		}
		return mismatch
	})
	assert.ErrorIs(t, err, mismatch)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTxRunnerBeginFailure(t *testing.T) {
	db, mock, cleanup := newLessonRepoMock(t)
	defer cleanup()
	runner := NewTxRunner(db)

	mock.ExpectBegin().WillReturnError(errors.New("pool exhausted"))

	called := false
	err := runner.RunInTx(context.Background(), nil, func(ctx context.Context, tx sqlx.ExtContext) error {
		called = true
		return nil
	})
	require.Error(t, err)
	assert.False(t, called)
	assert.NoError(t, mock.ExpectationsWereMet())
}
