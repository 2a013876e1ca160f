// Package factory constructs the store driver selected by configuration.
package factory

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/clinicalscribe/scribe-service/internal/config"
	"github.com/clinicalscribe/scribe-service/internal/store"
	"github.com/clinicalscribe/scribe-service/internal/store/postgres"
	"github.com/clinicalscribe/scribe-service/internal/store/sqlite"
)

// NewStore opens the configured database and returns the store plus the
// underlying handle so the caller can close it on shutdown.
func NewStore(ctx context.Context, cfg *config.Config) (store.Store, *sql.DB, error) {
	switch cfg.DBDriver {
	case "sqlite":
		db, err := sqlite.Open(cfg.SQLitePath)
		if err != nil {
			return nil, nil, fmt.Errorf("open sqlite store: %w", err)
		}
		return sqlite.NewWithDB(db), db, nil
	case "postgres":
		db, err := postgres.Open(cfg.PostgresDSN)
		if err != nil {
			return nil, nil, fmt.Errorf("open postgres store: %w", err)
		}
		if err := postgres.EnsureSchema(ctx, db); err != nil {
			_ = db.Close()
			return nil, nil, fmt.Errorf("apply postgres schema: %w", err)
		}
		return postgres.NewWithDB(db), db, nil
	default:
		return nil, nil, fmt.Errorf("unsupported DB_DRIVER: %s", cfg.DBDriver)
	}
}
