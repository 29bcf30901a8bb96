package memory

import (
	"context"
	"sync"
	"testing"

	"bioauth/internal/domain/entity"
	"bioauth/internal/domain/repository"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newUser(username, email string) *entity.User {
	return &entity.User{
		Username:     username,
		Email:        email,
		PasswordHash: "hash",
		Salt:         "salt",
		ExternalID:   uuid.New(),
	}
}

func create(t *testing.T, tm repository.TransactionManager, u *entity.User) {
	t.Helper()

	err := tm.Execute(context.Background(), func(f repository.RepositoryFactory) error {
		return f.NewUserRepository().Create(context.Background(), u)
	})
	require.NoError(t, err)
}

func TestUserRepository_CreateAndFind(t *testing.T) {
	tm := NewTransactionManager(NewStore())
	ctx := context.Background()

	alice := newUser("alice", "alice@example.com")
	bob := newUser("bob", "bob@example.com")
	create(t, tm, alice)
	create(t, tm, bob)

	assert.Equal(t, int64(1), alice.ID)
	assert.Equal(t, int64(2), bob.ID)
	assert.False(t, alice.CreatedAt.IsZero())

	err := tm.Execute(ctx, func(f repository.RepositoryFactory) error {
		repo := f.NewUserRepository()

		got, err := repo.FindByID(ctx, bob.ID)
		require.NoError(t, err)
		assert.Equal(t, "bob", got.Username)

		got, err = repo.FindByEmail(ctx, "alice@example.com")
		require.NoError(t, err)
		assert.Equal(t, alice.ID, got.ID)

		got, err = repo.FindByUsername(ctx, "bob")
		require.NoError(t, err)
		assert.Equal(t, bob.ID, got.ID)

		got, err = repo.FindByUsernameOrEmail(ctx, "bob@example.com")
		require.NoError(t, err)
		assert.Equal(t, bob.ID, got.ID)

		got, err = repo.FindByUsernameOrEmail(ctx, "alice")
		require.NoError(t, err)
		assert.Equal(t, alice.ID, got.ID)

		_, err = repo.FindByUsernameOrEmail(ctx, "carol")
		assert.ErrorIs(t, err, repository.ErrUserNotFound)

		_, err = repo.FindByID(ctx, 99)
		assert.ErrorIs(t, err, repository.ErrUserNotFound)

		return nil
	})
	require.NoError(t, err)
}

func TestUserRepository_UsernameMatchWinsOverEmail(t *testing.T) {
	tm := NewTransactionManager(NewStore())
	ctx := context.Background()

	first := newUser("mallory", "x@example.com")
	second := newUser("x@example.com", "second@example.com")
	create(t, tm, first)
	create(t, tm, second)

	_ = tm.Execute(ctx, func(f repository.RepositoryFactory) error {
		got, err := f.NewUserRepository().FindByUsernameOrEmail(ctx, "x@example.com")
		require.NoError(t, err)
		assert.Equal(t, second.ID, got.ID)

		return nil
	})
}

func TestUserRepository_UniqueConstraints(t *testing.T) {
	tm := NewTransactionManager(NewStore())
	ctx := context.Background()

	create(t, tm, newUser("alice", "alice@example.com"))

	tests := []struct {
		name string
		user *entity.User
		want error
	}{
		{name: "email", user: newUser("alice2", "alice@example.com"), want: repository.ErrDuplicateEmail},
		{name: "username", user: newUser("alice", "other@example.com"), want: repository.ErrDuplicateUsername},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tm.Execute(ctx, func(f repository.RepositoryFactory) error {
				return f.NewUserRepository().Create(ctx, tt.user)
			})
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestTransactionManager_RollbackRestoresState(t *testing.T) {
	tm := NewTransactionManager(NewStore())
	ctx := context.Background()

	alice := newUser("alice", "alice@example.com")
	create(t, tm, alice)

	boom := errors.New("boom")
	err := tm.Execute(ctx, func(f repository.RepositoryFactory) error {
		repo := f.NewUserRepository()
		require.NoError(t, repo.UpdateBiometricData(ctx, alice.ID, []byte{1, 2, 3}))
		require.NoError(t, repo.Create(ctx, newUser("bob", "bob@example.com")))
		require.NoError(t, repo.Delete(ctx, alice.ID))

		return boom
	})
	assert.ErrorIs(t, err, boom)

	_ = tm.Execute(ctx, func(f repository.RepositoryFactory) error {
		repo := f.NewUserRepository()

		got, err := repo.FindByID(ctx, alice.ID)
		require.NoError(t, err)
		assert.Nil(t, got.BiometricData)

		_, err = repo.FindByUsername(ctx, "bob")
		assert.ErrorIs(t, err, repository.ErrUserNotFound)

		return nil
	})

	// The id consumed by the rolled back insert is handed out again.
	bob := newUser("bob", "bob@example.com")
	create(t, tm, bob)
	assert.Equal(t, int64(2), bob.ID)
}

func TestTransactionManager_CanceledContext(t *testing.T) {
	tm := NewTransactionManager(NewStore())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	called := false
	err := tm.Execute(ctx, func(repository.RepositoryFactory) error {
		called = true
		return nil
	})
	assert.ErrorIs(t, err, context.Canceled)
	assert.False(t, called)
}

func TestUserRepository_Biometrics(t *testing.T) {
	tm := NewTransactionManager(NewStore())
	ctx := context.Background()

	alice := newUser("alice", "alice@example.com")
	bob := newUser("bob", "bob@example.com")
	carol := newUser("carol", "carol@example.com")
	create(t, tm, alice)
	create(t, tm, bob)
	create(t, tm, carol)

	face := []byte("face-bytes")
	err := tm.Execute(ctx, func(f repository.RepositoryFactory) error {
		repo := f.NewUserRepository()

		require.NoError(t, repo.UpdateBiometricData(ctx, carol.ID, face))
		require.NoError(t, repo.UpdateBiometricData(ctx, bob.ID, face))

		got, err := repo.FindByBiometricData(ctx, face)
		require.NoError(t, err)
		assert.Equal(t, bob.ID, got.ID, "lowest id wins on identical data")

		_, err = repo.FindByBiometricData(ctx, []byte("face-byte"))
		assert.ErrorIs(t, err, repository.ErrUserNotFound)

		_, err = repo.FindByBiometricData(ctx, nil)
		assert.ErrorIs(t, err, repository.ErrUserNotFound)

		assert.ErrorIs(t, repo.UpdateBiometricData(ctx, 404, face), repository.ErrUserNotFound)

		return nil
	})
	require.NoError(t, err)

	// Mutating the caller's slice must not reach the stored copy.
	face[0] = 'X'
	_ = tm.Execute(ctx, func(f repository.RepositoryFactory) error {
		got, err := f.NewUserRepository().FindByID(ctx, bob.ID)
		require.NoError(t, err)
		assert.Equal(t, []byte("face-bytes"), got.BiometricData)

		return nil
	})
}

func TestTransactionManager_ConcurrentCreatesStayUnique(t *testing.T) {
	tm := NewTransactionManager(NewStore())
	ctx := context.Background()

	const workers = 16
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		successes int
	)
	for range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := tm.Execute(ctx, func(f repository.RepositoryFactory) error {
				return f.NewUserRepository().Create(ctx, newUser("same", "same@example.com"))
			})
			if err == nil {
				mu.Lock()
				successes++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, successes)
}
