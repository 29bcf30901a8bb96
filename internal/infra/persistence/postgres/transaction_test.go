package postgres

import (
	"context"
	"database/sql"
	"testing"

	domainerrors "bioauth/internal/domain/errors"
	"bioauth/internal/domain/repository"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	"gorm.io/gorm/utils/tests"
)

var errNoStatements = errors.New("statements are not supported")

// stubConn satisfies gorm.ConnPool without executing anything.
type stubConn struct{}

func (stubConn) PrepareContext(context.Context, string) (*sql.Stmt, error) {
	return nil, errNoStatements
}

func (stubConn) ExecContext(context.Context, string, ...any) (sql.Result, error) {
	return nil, errNoStatements
}

func (stubConn) QueryContext(context.Context, string, ...any) (*sql.Rows, error) {
	return nil, errNoStatements
}

func (stubConn) QueryRowContext(context.Context, string, ...any) *sql.Row {
	return nil
}

type stubTx struct {
	stubConn

	commitErr   error
	rollbackErr error
	committed   bool
	rolledBack  bool
}

func (t *stubTx) Commit() error {
	t.committed = true

	return t.commitErr
}

func (t *stubTx) Rollback() error {
	t.rolledBack = true

	return t.rollbackErr
}

type stubPool struct {
	stubConn

	beginErr error
	tx       *stubTx
}

func (p *stubPool) BeginTx(context.Context, *sql.TxOptions) (gorm.ConnPool, error) {
	if p.beginErr != nil {
		return nil, p.beginErr
	}

	return p.tx, nil
}

func newStubDB(t *testing.T, pool *stubPool) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(tests.DummyDialector{}, &gorm.Config{
		ConnPool: pool,
		Logger:   logger.Discard,
	})
	require.NoError(t, err)

	return db
}

func assertPersistenceCode(t *testing.T, err error) {
	t.Helper()

	require.Error(t, err)
	assert.True(t, errors.Is(err, domainerrors.ErrPersistence))

	var appErr domainerrors.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, "PERSISTENCE_ERROR", appErr.ErrorCode())
}

func TestTransactionManager_Execute(t *testing.T) {
	ctx := context.Background()
	noop := func(repository.RepositoryFactory) error { return nil }

	t.Run("commits on success", func(t *testing.T) {
		pool := &stubPool{tx: &stubTx{}}
		tm := NewTransactionManager(newStubDB(t, pool))

		called := false
		err := tm.Execute(ctx, func(f repository.RepositoryFactory) error {
			called = true
			assert.NotNil(t, f.NewUserRepository())

			return nil
		})

		require.NoError(t, err)
		assert.True(t, called)
		assert.True(t, pool.tx.committed)
		assert.False(t, pool.tx.rolledBack)
	})

	t.Run("begin failure is a persistence error", func(t *testing.T) {
		cause := errors.New("connection refused")
		tm := NewTransactionManager(newStubDB(t, &stubPool{beginErr: cause}))

		err := tm.Execute(ctx, func(repository.RepositoryFactory) error {
			t.Fatal("callback must not run without a transaction")

			return nil
		})

		assertPersistenceCode(t, err)
		assert.True(t, errors.Is(err, cause))
	})

	t.Run("commit failure is a persistence error", func(t *testing.T) {
		cause := errors.New("could not serialize access")
		pool := &stubPool{tx: &stubTx{commitErr: cause}}
		tm := NewTransactionManager(newStubDB(t, pool))

		err := tm.Execute(ctx, noop)

		assertPersistenceCode(t, err)
		assert.True(t, errors.Is(err, cause))
		assert.True(t, pool.tx.committed)
	})

	t.Run("callback error rolls back and is returned as is", func(t *testing.T) {
		pool := &stubPool{tx: &stubTx{}}
		tm := NewTransactionManager(newStubDB(t, pool))

		err := tm.Execute(ctx, func(repository.RepositoryFactory) error {
			return domainerrors.ErrDuplicateEmail
		})

		assert.True(t, errors.Is(err, domainerrors.ErrDuplicateEmail))
		assert.True(t, pool.tx.rolledBack)
		assert.False(t, pool.tx.committed)
	})

	t.Run("rollback failure keeps a classified error", func(t *testing.T) {
		pool := &stubPool{tx: &stubTx{rollbackErr: errors.New("connection lost")}}
		tm := NewTransactionManager(newStubDB(t, pool))

		err := tm.Execute(ctx, func(repository.RepositoryFactory) error {
			return domainerrors.ErrUserNotFound
		})

		var appErr domainerrors.AppError
		require.True(t, errors.As(err, &appErr))
		assert.Equal(t, "USER_NOT_FOUND", appErr.ErrorCode())
		assert.Contains(t, err.Error(), "connection lost")
	})

	t.Run("rollback failure on an unclassified error is a persistence error", func(t *testing.T) {
		cause := errors.New("scan failed")
		pool := &stubPool{tx: &stubTx{rollbackErr: errors.New("connection lost")}}
		tm := NewTransactionManager(newStubDB(t, pool))

		err := tm.Execute(ctx, func(repository.RepositoryFactory) error {
			return cause
		})

		assertPersistenceCode(t, err)
		assert.True(t, errors.Is(err, cause))
	})
}
