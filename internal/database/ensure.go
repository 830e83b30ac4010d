package database

import (
	"context"
	"database/sql"
	"fmt"
	"regexp"

	"yatube/internal/config"
	"yatube/internal/middleware"

	// registers the "pgx" database/sql driver
	_ "github.com/jackc/pgx/v5/stdlib"
)

var safeDBName = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]{0,62}$`)

// EnsurePostgresDatabase connects to the "postgres" maintenance database and
// creates cfg.DBName when it does not exist yet. Other drivers are left alone.
func EnsurePostgresDatabase(ctx context.Context, cfg *config.Config) error {
	if cfg.DBDriver != "" && cfg.DBDriver != "postgres" {
		return nil
	}
	if !safeDBName.MatchString(cfg.DBName) {
		return fmt.Errorf("refusing to create database with name %q", cfg.DBName)
	}

	sqlDB, err := sql.Open("pgx", PostgresDSN(cfg, "postgres"))
	if err != nil {
		return fmt.Errorf("open maintenance db: %w", err)
	}
	defer sqlDB.Close()

	var exists bool
	if err := sqlDB.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM pg_database WHERE datname = $1)`, cfg.DBName,
	).Scan(&exists); err != nil {
		return fmt.Errorf("check database %s: %w", cfg.DBName, err)
	}
	if exists {
		return nil
	}

	if _, err := sqlDB.ExecContext(ctx, `CREATE DATABASE `+cfg.DBName); err != nil {
		return fmt.Errorf("create database %s: %w", cfg.DBName, err)
	}
	middleware.Logger.InfoContext(ctx, "created database", "name", cfg.DBName)
	return nil
}
