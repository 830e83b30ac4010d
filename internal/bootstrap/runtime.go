// Package bootstrap wires the runtime dependencies shared by the commands.
package bootstrap

import (
	"context"
	"fmt"

	"yatube/internal/cache"
	"yatube/internal/config"
	"yatube/internal/database"
	"yatube/internal/repository"
	"yatube/internal/seed"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Options control runtime initialization behavior.
type Options struct {
	// SeedGroups upserts the default groups after connecting.
	SeedGroups bool
}

// InitRuntime connects to the database and Redis. Redis is optional: when it
// is unreachable the returned client is nil and caching, rate limiting and
// the live feed degrade to no-ops.
func InitRuntime(ctx context.Context, cfg *config.Config, opts Options) (*gorm.DB, *redis.Client, error) {
	db, err := database.Connect(cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("database connection failed: %w", err)
	}

	cache.InitRedis(cfg.RedisURL)
	rdb := cache.GetClient()

	if opts.SeedGroups {
		if err := seed.Groups(ctx, repository.NewGroupRepository(db)); err != nil {
			return nil, nil, fmt.Errorf("failed to seed default groups: %w", err)
		}
	}

	return db, rdb, nil
}
