// Package bootstrap connects the runtime dependencies shared by the server and CLIs.
package bootstrap

import (
	"context"
	"fmt"
	"log"
	"strings"

	"noticeboard/internal/cache"
	"noticeboard/internal/config"
	"noticeboard/internal/database"
	"noticeboard/internal/models"
	"noticeboard/internal/repository"
	"noticeboard/internal/seed"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Options control runtime initialization behavior.
type Options struct {
	// SeedDemo fills an empty board with generated demo data.
	SeedDemo bool
}

// InitRuntime connects to DB and Redis and optionally runs demo seeding.
func InitRuntime(cfg *config.Config, opts Options) (*gorm.DB, *redis.Client, error) {
	db, err := database.Connect(cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("database connection failed: %w", err)
	}

	// Init Redis (may result in nil client if unreachable)
	r := cache.InitRedis(cfg.RedisURL)

	if err := ensureDevAdmin(context.Background(), cfg, db); err != nil {
		return nil, nil, fmt.Errorf("failed to bootstrap development admin: %w", err)
	}

	if opts.SeedDemo {
		if err := seedIfEmpty(db); err != nil {
			return nil, nil, fmt.Errorf("failed to seed demo board: %w", err)
		}
	}

	return db, r, nil
}

// ensureDevAdmin promotes DEV_ADMIN_USER_ID to admin in development, creating
// the user row when the identity has never written anything.
func ensureDevAdmin(ctx context.Context, cfg *config.Config, db *gorm.DB) error {
	if cfg == nil || db == nil {
		return nil
	}
	id := strings.TrimSpace(cfg.DevAdminUserID)
	if !strings.EqualFold(cfg.Env, "development") || id == "" {
		return nil
	}

	users := repository.NewUserRepository(db)
	if err := users.EnsureExists(ctx, id, ""); err != nil {
		return err
	}
	if err := users.SetRole(ctx, id, models.RoleAdmin); err != nil {
		return err
	}

	cache.InvalidateProfile(ctx, cache.GetClient(), id)
	log.Printf("development admin bootstrap ensured for user %s", id)
	return nil
}

// seedIfEmpty seeds the default demo board unless entries already exist.
func seedIfEmpty(db *gorm.DB) error {
	var count int64
	if err := db.Model(&models.Entry{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		log.Printf("skipping demo seed: %d entries already present", count)
		return nil
	}
	_, err := seed.Seed(db, seed.DefaultOptions())
	return err
}
