// Package memory keeps the user directory in process memory. It serves local
// runs without PostgreSQL and the service and handler tests.
package memory

import (
	"bytes"
	"context"
	"slices"
	"sync"
	"time"

	"bioauth/internal/domain/entity"
	"bioauth/internal/domain/repository"

	"github.com/pkg/errors"
)

// Store holds users keyed by id. Only one transaction touches it at a time.
type Store struct {
	mu     sync.Mutex
	users  map[int64]*entity.User
	nextID int64
	now    func() time.Time
}

// NewStore returns an empty store.
func NewStore() *Store {
	return &Store{
		users:  make(map[int64]*entity.User),
		nextID: 1,
		now:    time.Now,
	}
}

type txManager struct {
	store *Store
}

// NewTransactionManager returns a TransactionManager over store. Transactions are
// serialized; a failed one restores the state that existed before it started.
func NewTransactionManager(store *Store) repository.TransactionManager {
	return &txManager{store: store}
}

func (tm *txManager) Execute(ctx context.Context, fn func(repoFactory repository.RepositoryFactory) error) error {
	if err := ctx.Err(); err != nil {
		return errors.Wrap(err, "failed to begin transaction")
	}

	s := tm.store
	s.mu.Lock()
	defer s.mu.Unlock()

	snapshot := s.snapshot()
	committed := false
	defer func() {
		if !committed {
			s.restore(snapshot)
		}
	}()

	if err := fn(&repositoryFactory{store: s}); err != nil {
		return err
	}
	committed = true

	return nil
}

type storeSnapshot struct {
	users  map[int64]*entity.User
	nextID int64
}

func (s *Store) snapshot() storeSnapshot {
	users := make(map[int64]*entity.User, len(s.users))
	for id, u := range s.users {
		users[id] = cloneUser(u)
	}

	return storeSnapshot{users: users, nextID: s.nextID}
}

func (s *Store) restore(snap storeSnapshot) {
	s.users = snap.users
	s.nextID = snap.nextID
}

type repositoryFactory struct {
	store *Store
}

func (f *repositoryFactory) NewUserRepository() repository.UserRepository {
	return &userRepository{store: f.store}
}

// userRepository must only be used inside txManager.Execute, which holds the store lock.
type userRepository struct {
	store *Store
}

func (r *userRepository) FindByID(_ context.Context, id int64) (*entity.User, error) {
	u, ok := r.store.users[id]
	if !ok {
		return nil, repository.ErrUserNotFound
	}

	return cloneUser(u), nil
}

func (r *userRepository) FindByEmail(_ context.Context, email string) (*entity.User, error) {
	return r.findFirst(func(u *entity.User) bool { return u.Email == email })
}

func (r *userRepository) FindByUsername(_ context.Context, username string) (*entity.User, error) {
	return r.findFirst(func(u *entity.User) bool { return u.Username == username })
}

func (r *userRepository) FindByUsernameOrEmail(_ context.Context, identifier string) (*entity.User, error) {
	if u, err := r.findFirst(func(u *entity.User) bool { return u.Username == identifier }); err == nil {
		return u, nil
	}

	return r.findFirst(func(u *entity.User) bool { return u.Email == identifier })
}

func (r *userRepository) FindByBiometricData(_ context.Context, data []byte) (*entity.User, error) {
	if len(data) == 0 {
		return nil, repository.ErrUserNotFound
	}

	return r.findFirst(func(u *entity.User) bool {
		return u.HasBiometricData() && bytes.Equal(u.BiometricData, data)
	})
}

func (r *userRepository) Create(_ context.Context, user *entity.User) error {
	for _, existing := range r.store.users {
		switch {
		case existing.Username == user.Username:
			return errors.WithStack(repository.ErrDuplicateUsername)
		case existing.Email == user.Email:
			return errors.WithStack(repository.ErrDuplicateEmail)
		case existing.ExternalID == user.ExternalID:
			return errors.WithStack(repository.ErrDuplicateExternalID)
		}
	}

	user.ID = r.store.nextID
	r.store.nextID++
	if user.CreatedAt.IsZero() {
		user.CreatedAt = r.store.now()
	}
	r.store.users[user.ID] = cloneUser(user)

	return nil
}

func (r *userRepository) UpdateBiometricData(_ context.Context, id int64, data []byte) error {
	u, ok := r.store.users[id]
	if !ok {
		return repository.ErrUserNotFound
	}
	u.BiometricData = slices.Clone(data)

	return nil
}

func (r *userRepository) Delete(_ context.Context, id int64) error {
	if _, ok := r.store.users[id]; !ok {
		return repository.ErrUserNotFound
	}
	delete(r.store.users, id)

	return nil
}

// findFirst scans in id order so that ties resolve to the lowest id, like the SQL queries.
func (r *userRepository) findFirst(match func(*entity.User) bool) (*entity.User, error) {
	var found *entity.User
	for _, u := range r.store.users {
		if match(u) && (found == nil || u.ID < found.ID) {
			found = u
		}
	}
	if found == nil {
		return nil, repository.ErrUserNotFound
	}

	return cloneUser(found), nil
}

func cloneUser(u *entity.User) *entity.User {
	cloned := *u
	cloned.BiometricData = slices.Clone(u.BiometricData)

	return &cloned
}
