package book

import (
	"context"
	"fmt"

	"booksapi/internal/config"
	"booksapi/internal/platform/database"
)

// Store is a Repository whose backing database can be health-checked.
type Store interface {
	Repository
	Ping(ctx context.Context) error
}

// OpenStore connects the configured backend, applying migrations when asked
// to. The returned func releases the connection.
func OpenStore(ctx context.Context, cfg config.DatabaseConfig) (Store, func(), error) {
	switch cfg.Driver {
	case database.DriverSQLite:
		db, err := database.OpenSQLite(ctx, cfg.SQLitePath)
		if err != nil {
			return nil, nil, err
		}
		// An in-memory database starts empty every run.
		if cfg.AutoMigrate || cfg.SQLitePath == ":memory:" {
			if err := database.Migrate(ctx, database.DriverSQLite, db); err != nil {
				db.Close()
				return nil, nil, err
			}
		}
		return NewSQLiteRepo(db, cfg.QueryTimeout), func() { _ = db.Close() }, nil

	case database.DriverPostgres:
		pool, err := database.OpenPostgres(ctx, cfg.DSN)
		if err != nil {
			return nil, nil, err
		}
		if cfg.AutoMigrate {
			sqlDB := database.StdlibDB(pool)
			err := database.Migrate(ctx, database.DriverPostgres, sqlDB)
			_ = sqlDB.Close()
			if err != nil {
				pool.Close()
				return nil, nil, err
			}
		}
		return NewPostgresRepo(pool, cfg.QueryTimeout), pool.Close, nil

	default:
		return nil, nil, fmt.Errorf("unknown store driver %q", cfg.Driver)
	}
}
