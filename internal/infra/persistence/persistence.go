// Package persistence selects the user directory backend configured by storage.driver.
package persistence

import (
	"log/slog"

	"bioauth/config"
	"bioauth/internal/domain/repository"
	"bioauth/internal/infra/persistence/memory"
	"bioauth/internal/infra/persistence/postgres"

	"github.com/pkg/errors"
	"go.uber.org/fx"
)

// Params defines the required parameters
type Params struct {
	fx.In
	fx.Lifecycle

	Config *config.Config
	Logger *slog.Logger
}

// NewTransactionManager opens the configured backend and returns its transaction manager.
func NewTransactionManager(params Params) (repository.TransactionManager, error) {
	driver := config.StorageDriverPostgres
	if params.Config.Storage != nil && params.Config.Storage.Driver != "" {
		driver = params.Config.Storage.Driver
	}

	switch driver {
	case config.StorageDriverMemory:
		params.Logger.Warn("Using in-memory storage, accounts are lost on restart")

		return memory.NewTransactionManager(memory.NewStore()), nil
	case config.StorageDriverPostgres:
		db, err := postgres.New(postgres.Params{
			Lifecycle: params.Lifecycle,
			Config:    params.Config,
			Logger:    params.Logger,
		})
		if err != nil {
			return nil, err
		}

		return postgres.NewTransactionManager(db), nil
	default:
		return nil, errors.Errorf("unknown storage driver: %s", driver)
	}
}
