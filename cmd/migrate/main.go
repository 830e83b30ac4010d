// Command migrate runs schema operations for the backend.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"strings"

	"yatube/internal/cache"
	"yatube/internal/config"
	"yatube/internal/database"
	"yatube/internal/repository"
	"yatube/internal/seed"
	"yatube/internal/service"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func usage() error {
	return fmt.Errorf("usage: go run ./cmd/migrate <up|groups|groups-delete SLUG>")
}

func run() error {
	flag.Parse()
	if flag.NArg() < 1 {
		return usage()
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	ctx := context.Background()
	if err := database.EnsurePostgresDatabase(ctx, cfg); err != nil {
		return fmt.Errorf("ensure database: %w", err)
	}

	db, err := database.Connect(cfg)
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}

	switch strings.ToLower(strings.TrimSpace(flag.Arg(0))) {
	case "up":
		if err := database.Migrate(db); err != nil {
			return err
		}
		log.Println("schema migrated")
	case "groups":
		if err := seed.Groups(ctx, repository.NewGroupRepository(db)); err != nil {
			return fmt.Errorf("seed groups: %w", err)
		}
		log.Println("default groups upserted")
	case "groups-delete":
		slug := strings.TrimSpace(flag.Arg(1))
		if slug == "" {
			return usage()
		}
		cache.InitRedis(cfg.RedisURL)
		n, err := service.NewGroupService(repository.NewGroupRepository(db)).DeleteGroup(ctx, slug)
		if err != nil {
			return fmt.Errorf("delete group %q: %w", slug, err)
		}
		log.Printf("group %q deleted, %d posts detached", slug, n)
	default:
		return usage()
	}
	return nil
}
