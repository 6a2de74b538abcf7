// Package persistence selects the storage backend from configuration.
package persistence

import (
	"context"
	"log/slog"

	"portal/config"
	"portal/internal/domain/lifecycle"
	"portal/internal/domain/repository"
	"portal/internal/errors"
	"portal/internal/infra/persistence/document"
	"portal/internal/infra/persistence/memory"
	"portal/internal/infra/persistence/postgres"
	"portal/internal/infra/persistence/redis"
	"portal/internal/infra/persistence/sqlite"

	"go.uber.org/fx"
	"gorm.io/gorm"
)

// Params defines the dependencies of the storage providers.
type Params struct {
	fx.In
	fx.Lifecycle

	Config *config.Config
	Logger *slog.Logger
	DB     *gorm.DB `optional:"true"`
}

// NewDocumentStore opens the DocumentStore named by storage.driver.
func NewDocumentStore(params Params) (repository.DocumentStore, error) {
	driver := params.Config.Storage.Driver
	logger := params.Logger.With(slog.String("component", "storage"), slog.String("driver", driver))

	ctx, cancel := context.WithTimeout(context.Background(), lifecycle.DefaultTimeout)
	defer cancel()

	switch driver {
	case config.StorageDriverMemory:
		logger.Warn("Using in-memory document store, data is lost on restart")

		return memory.NewStore(), nil

	case config.StorageDriverSQLite:
		store, err := sqlite.Open(ctx, params.Config.Storage.SQLitePath, logger)
		if err != nil {
			return nil, err
		}
		params.Append(fx.StopHook(store.Close))

		return store, nil

	case config.StorageDriverRedis:
		store, err := redis.Open(ctx, params.Config.Storage.RedisURL, params.Config.Storage.KeyPrefix, logger)
		if err != nil {
			return nil, err
		}
		params.Append(fx.StopHook(store.Close))

		return store, nil

	case config.StorageDriverPostgres:
		if params.DB == nil {
			return nil, errors.New("postgres document store requested without a database connection")
		}

		return postgres.NewDocumentStore(params.DB), nil

	default:
		return nil, errors.Errorf("unknown storage driver %q", driver)
	}
}

// NewUserRepository keeps accounts in PostgreSQL when it is configured and in the
// document store otherwise.
func NewUserRepository(params Params, store repository.DocumentStore) repository.UserRepository {
	if params.DB != nil {
		return postgres.NewUserRepository(params.DB)
	}

	return document.NewUserRepository(store, params.Logger)
}

// NewNotificationRepository builds the notification repository on the document store.
func NewNotificationRepository(store repository.DocumentStore, logger *slog.Logger) repository.NotificationRepository {
	return document.NewNotificationRepository(store, logger)
}

// NewDeviceRepository builds the device repository on the document store.
func NewDeviceRepository(store repository.DocumentStore, logger *slog.Logger) repository.DeviceRepository {
	return document.NewDeviceRepository(store, logger)
}
