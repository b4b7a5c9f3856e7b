package main

import (
	"context"
	"fmt"

	"github.com/okian/wordscore/internal/adapters/repository"
	"github.com/okian/wordscore/internal/adapters/repository/sqlstore"
	"github.com/okian/wordscore/internal/config"
)

// openStore builds the score store selected by cfg.StorageDriver.
func openStore(ctx context.Context, cfg *config.Config) (repository.Store, error) {
	switch cfg.StorageDriver {
	case config.DriverMemory:
		return repository.NewMemoryStore(), nil
	case config.DriverSQLite, config.DriverPostgres:
		store, err := openSQLStore(ctx, cfg)
		if err != nil {
			return nil, err
		}
		if cfg.AutoMigrate {
			if err := store.Migrate(ctx); err != nil {
				_ = store.Close()
				return nil, err
			}
		}
		return store, nil
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.StorageDriver)
	}
}

// openSQLStore opens the sqlite or postgres store without migrating it.
func openSQLStore(ctx context.Context, cfg *config.Config) (*sqlstore.Store, error) {
	switch cfg.StorageDriver {
	case config.DriverSQLite:
		return sqlstore.OpenSQLite(ctx, cfg.SQLitePath)
	case config.DriverPostgres:
		return sqlstore.OpenPostgres(ctx, cfg.Postgres())
	default:
		return nil, fmt.Errorf("storage driver %q has no SQL schema", cfg.StorageDriver)
	}
}
