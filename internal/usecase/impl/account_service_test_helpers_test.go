package impl

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"bioauth/config"
	"bioauth/internal/domain/entity"
	"bioauth/internal/domain/repository"
	"bioauth/internal/domain/service"
	"bioauth/internal/infra/auth"
	"bioauth/internal/infra/persistence/memory"
	"bioauth/internal/usecase"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

const testTokenSecret = "test_secret_key_very_long_for_testing"

func newDiscardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestConfig(requireDeleteOwnership bool) *config.Config {
	return &config.Config{
		Token: &config.TokenConfig{
			Secret:             testTokenSecret,
			Issuer:             "bioauth-test",
			AccessTTL:          2 * time.Hour,
			RefreshTTL:         7 * 24 * time.Hour,
			RefreshedAccessTTL: 60 * time.Minute,
		},
		Auth: &config.AuthConfig{
			BcryptCost:             bcrypt.MinCost,
			RequireDeleteOwnership: requireDeleteOwnership,
		},
		PasswordPolicy: &config.PasswordPolicyConfig{
			MinLength: 8,
		},
	}
}

// recordingPublisher keeps every published event in memory.
type recordingPublisher struct {
	mu     sync.Mutex
	events []*entity.AccountEvent
}

func (p *recordingPublisher) PublishAccountEvent(_ context.Context, event *entity.AccountEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)

	return nil
}

func (p *recordingPublisher) Close() error {
	return nil
}

func (p *recordingPublisher) types() []entity.AccountEventType {
	p.mu.Lock()
	defer p.mu.Unlock()

	out := make([]entity.AccountEventType, 0, len(p.events))
	for _, e := range p.events {
		out = append(out, e.Type)
	}

	return out
}

// accountFixtures wires the service against the in-memory store and real crypto.
type accountFixtures struct {
	service      usecase.AccountUsecase
	txManager    repository.TransactionManager
	tokenService service.TokenService
	publisher    *recordingPublisher
}

func newAccountFixtures(t *testing.T, requireDeleteOwnership bool) accountFixtures {
	t.Helper()

	cfg := newTestConfig(requireDeleteOwnership)
	tokenService, err := auth.NewJWTService(cfg)
	require.NoError(t, err)

	txManager := memory.NewTransactionManager(memory.NewStore())
	publisher := &recordingPublisher{}

	svc := NewAccountService(AccountServiceParams{
		TxManager:    txManager,
		Hasher:       auth.NewBcryptHasherWithCost(bcrypt.MinCost),
		TokenService: tokenService,
		Publisher:    publisher,
		Config:       cfg,
		Logger:       newDiscardLogger(),
	})

	return accountFixtures{
		service:      svc,
		txManager:    txManager,
		tokenService: tokenService,
		publisher:    publisher,
	}
}

func (f accountFixtures) register(t *testing.T, username, email, password string) *usecase.AuthOutput {
	t.Helper()

	out, err := f.service.Register(context.Background(), &usecase.RegisterInput{
		Username: username,
		Email:    email,
		Password: password,
	})
	require.NoError(t, err)

	return out
}

func (f accountFixtures) countUsers(t *testing.T, email string) int {
	t.Helper()

	count := 0
	err := f.txManager.Execute(context.Background(), func(repoFactory repository.RepositoryFactory) error {
		_, findErr := repoFactory.NewUserRepository().FindByEmail(context.Background(), email)
		if findErr == nil {
			count = 1
		}

		return nil
	})
	require.NoError(t, err)

	return count
}
