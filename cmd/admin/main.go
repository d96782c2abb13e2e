// Package main provides role management utilities for the board.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"

	"noticeboard/internal/cache"
	"noticeboard/internal/config"
	"noticeboard/internal/database"
	"noticeboard/internal/models"
	"noticeboard/internal/repository"
	"noticeboard/internal/service"
)

const usage = `Usage:
  admin promote <user_id>     - Promote user to admin
  admin demote <user_id>      - Demote user from admin
  admin list-admins           - List all admins`

var errUsage = errors.New(usage)

func main() {
	if len(os.Args) < 2 {
		fmt.Println(usage)
		os.Exit(1)
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	// Redis is only needed to drop the cached profile of the changed user.
	rdb := cache.InitRedis(cfg.RedisURL)

	users := repository.NewUserRepository(db)
	directory := service.NewProfileDirectory(users, nil, rdb, cache.ProfileTTL)
	roles := service.NewEntryService(repository.NewEntryRepository(db), users, directory, nil)

	if err := run(context.Background(), roles, users, os.Args[1:], os.Stdout); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

// roleManager is the slice of EntryService the CLI needs.
type roleManager interface {
	SetRole(ctx context.Context, userID string, role models.Role) error
	ListAdmins(ctx context.Context) ([]models.User, error)
}

func run(ctx context.Context, roles roleManager, users repository.UserRepository, args []string, out io.Writer) error {
	if len(args) == 0 {
		return errUsage
	}

	switch args[0] {
	case "promote":
		if len(args) < 2 {
			return errUsage
		}
		return setRole(ctx, roles, users, args[1], models.RoleAdmin, out)
	case "demote":
		if len(args) < 2 {
			return errUsage
		}
		return setRole(ctx, roles, users, args[1], models.RoleUser, out)
	case "list-admins":
		return listAdmins(ctx, roles, out)
	default:
		return fmt.Errorf("unknown command: %s\n%s", args[0], usage)
	}
}

func setRole(ctx context.Context, roles roleManager, users repository.UserRepository, userID string, role models.Role, out io.Writer) error {
	user, err := users.GetByID(ctx, userID)
	if err != nil {
		if models.IsCode(err, models.CodeNotFound) {
			return errors.New("user not found; they must sign in and perform a write action once")
		}
		return fmt.Errorf("database error: %w", err)
	}

	if user.Role == role {
		_, _ = fmt.Fprintf(out, "User %s already has role %s\n", userID, role)
		return nil
	}

	if err := roles.SetRole(ctx, userID, role); err != nil {
		return fmt.Errorf("failed to set role: %w", err)
	}

	_, _ = fmt.Fprintf(out, "✅ Successfully set %s to %s\n", userID, role)
	return nil
}

func listAdmins(ctx context.Context, roles roleManager, out io.Writer) error {
	admins, err := roles.ListAdmins(ctx)
	if err != nil {
		return fmt.Errorf("failed to fetch admins: %w", err)
	}

	if len(admins) == 0 {
		_, _ = fmt.Fprintln(out, "No admins found in the system")
		return nil
	}

	_, _ = fmt.Fprintln(out, "\n📋 Current Admins:")
	_, _ = fmt.Fprintln(out, "─────────────────────────────────────")
	for _, admin := range admins {
		name := ""
		if admin.DisplayName != nil {
			name = *admin.DisplayName
		}
		_, _ = fmt.Fprintf(out, "ID: %s | Display name: %s\n", admin.ID, name)
	}
	_, _ = fmt.Fprintln(out, "─────────────────────────────────────")
	return nil
}
