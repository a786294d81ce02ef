package main

import (
	"context"
	"database/sql"
	"flag"

	"booksapi/internal/config"
	"booksapi/internal/platform/database"
	"booksapi/internal/platform/logger"

	"github.com/pressly/goose/v3"
	"github.com/rs/zerolog/log"
)

func main() {
	var (
		command = flag.String("command", "up", "Migration command: up, down, status, create")
		name    = flag.String("name", "", "Name for 'create' command")
	)
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("load config")
	}
	logger.Init(cfg.App.Environment, cfg.App.LogLevel)
	driver := cfg.Database.Driver

	if *command == "create" {
		if *name == "" {
			log.Fatal().Msg("name is required for 'create' command")
		}
		dir := migrationsDir(driver)
		if err := goose.Create(nil, dir, *name, "sql"); err != nil {
			log.Fatal().Err(err).Msg("create migration")
		}
		log.Info().Str("dir", dir).Str("name", *name).Msg("migration created")
		return
	}

	ctx := context.Background()
	db, closeDB, err := openDB(ctx, cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Str("driver", driver).Msg("connect to database")
	}
	defer closeDB()

	fsys, _, err := database.Migrations(driver)
	if err != nil {
		log.Fatal().Err(err).Msg("load migrations")
	}
	goose.SetBaseFS(fsys)
	if err := goose.SetDialect(gooseDialect(driver)); err != nil {
		log.Fatal().Err(err).Msg("set dialect")
	}

	switch *command {
	case "up":
		if err := goose.UpContext(ctx, db, "."); err != nil {
			log.Fatal().Err(err).Msg("run migrations")
		}
		log.Info().Msg("migrations applied successfully")
	case "down":
		if err := goose.DownContext(ctx, db, "."); err != nil {
			log.Fatal().Err(err).Msg("rollback migrations")
		}
		log.Info().Msg("migrations rolled back successfully")
	case "status":
		if err := goose.StatusContext(ctx, db, "."); err != nil {
			log.Fatal().Err(err).Msg("check migration status")
		}
	default:
		log.Fatal().Msgf("unknown command: %s. Use: up, down, status, create", *command)
	}
}

func openDB(ctx context.Context, cfg config.DatabaseConfig) (*sql.DB, func(), error) {
	if cfg.Driver == database.DriverSQLite {
		db, err := database.OpenSQLite(ctx, cfg.SQLitePath)
		if err != nil {
			return nil, nil, err
		}
		return db, func() { _ = db.Close() }, nil
	}

	pool, err := database.OpenPostgres(ctx, cfg.DSN)
	if err != nil {
		return nil, nil, err
	}
	db := database.StdlibDB(pool)
	return db, func() {
		_ = db.Close()
		pool.Close()
	}, nil
}
