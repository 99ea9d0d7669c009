package postgres_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	pgxmock "github.com/pashagolub/pgxmock/v2"
	"github.com/stretchr/testify/require"

	"github.com/heartmarshall/membership-backend/internal/adapter/postgres"
	"github.com/heartmarshall/membership-backend/internal/domain"
)

func newMockConn(t *testing.T) pgxmock.PgxConnIface {
	t.Helper()
	mock, err := pgxmock.NewConn()
	require.NoError(t, err)
	t.Cleanup(func() { _ = mock.Close(context.Background()) })
	return mock
}

func TestRunInTx_Commit(t *testing.T) {
	t.Parallel()
	mock := newMockConn(t)
	tm := postgres.NewTxManager(mock)

	mock.ExpectBegin()
	mock.ExpectExec(`DELETE FROM associations`).
		WillReturnResult(pgxmock.NewResult("DELETE", 3))
	mock.ExpectCommit()

	err := tm.RunInTx(context.Background(), func(ctx context.Context) error {
		_, err := postgres.QuerierFromCtx(ctx, mock).Exec(ctx, `DELETE FROM associations`)
		return err
	})
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRunInTx_RollbackOnError(t *testing.T) {
	t.Parallel()
	mock := newMockConn(t)
	tm := postgres.NewTxManager(mock)
	sentinel := errors.New("sequence reset failed")

	mock.ExpectBegin()
	mock.ExpectRollback()

	err := tm.RunInTx(context.Background(), func(ctx context.Context) error {
		return sentinel
	})
	require.ErrorIs(t, err, sentinel)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRunInTx_RollbackFailureKeepsBothErrors(t *testing.T) {
	t.Parallel()
	mock := newMockConn(t)
	tm := postgres.NewTxManager(mock)
	rbErr := errors.New("rollback: conn closed")

	mock.ExpectBegin()
	mock.ExpectRollback().WillReturnError(rbErr)

	err := tm.RunInTx(context.Background(), func(ctx context.Context) error {
		return fmt.Errorf("purge associations: %w", domain.ErrTableUnreachable)
	})
	require.ErrorIs(t, err, rbErr)
	require.ErrorIs(t, err, domain.ErrTableUnreachable)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRunInTx_RollbackOnPanic(t *testing.T) {
	t.Parallel()
	mock := newMockConn(t)
	tm := postgres.NewTxManager(mock)

	mock.ExpectBegin()
	mock.ExpectRollback()

	defer func() {
		r := recover()
		require.Equal(t, "test panic", r)
		require.NoError(t, mock.ExpectationsWereMet())
	}()

	_ = tm.RunInTx(context.Background(), func(ctx context.Context) error {
		panic("test panic")
	})
}

func TestRunInTx_BeginFailureIsMapped(t *testing.T) {
	t.Parallel()
	mock := newMockConn(t)
	tm := postgres.NewTxManager(mock)

	mock.ExpectBegin().WillReturnError(errors.New("conn busy"))

	called := false
	err := tm.RunInTx(context.Background(), func(ctx context.Context) error {
		called = true
		return nil
	})
	require.ErrorIs(t, err, domain.ErrStoreWrite)
	require.False(t, called)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestQuerierFromCtx_FallsBackOutsideTx(t *testing.T) {
	t.Parallel()
	mock := newMockConn(t)

	q := postgres.QuerierFromCtx(context.Background(), mock)
	require.Equal(t, mock, q)
}
