package database

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"noticeboard/internal/config"
	"noticeboard/internal/middleware"

	"gorm.io/gorm"
)

const (
	SchemaModeHybrid = "hybrid"
	SchemaModeSQL    = "sql"
	SchemaModeAuto   = "auto"
)

// ErrSchemaIntegrity is returned when the live schema lacks a constraint the board relies on.
var ErrSchemaIntegrity = errors.New("board schema integrity check failed")

// SchemaPlan is what ApplySchema will do for a given environment and mode.
type SchemaPlan struct {
	Mode    string
	RunSQL  bool
	RunAuto bool
}

// SchemaStatus describes the migration state and constraint health of a database.
type SchemaStatus struct {
	SchemaPlan
	Environment       string
	AppliedVersions   []int
	PendingMigrations []Migration
	Constraints       []ConstraintCheck
}

// Healthy reports whether every required constraint is present.
func (s *SchemaStatus) Healthy() bool {
	return len(failedChecks(s.Constraints)) == 0
}

func isProdLikeEnv(env string) bool {
	switch strings.ToLower(strings.TrimSpace(env)) {
	case "production", "prod", "staging", "stage":
		return true
	}
	return false
}

func normalizedSchemaMode(cfg *config.Config) string {
	if mode := strings.ToLower(strings.TrimSpace(cfg.DBSchemaMode)); mode != "" {
		return mode
	}
	return SchemaModeHybrid
}

// PlanSchema resolves DB_SCHEMA_MODE against the environment.
// SQL migrations are the source of truth; AutoMigrate only fills gaps outside production
// unless the operator explicitly allows it.
func PlanSchema(cfg *config.Config) (SchemaPlan, error) {
	plan := SchemaPlan{Mode: normalizedSchemaMode(cfg)}
	prodLike := isProdLikeEnv(cfg.Env)

	switch plan.Mode {
	case SchemaModeSQL:
		plan.RunSQL = true
	case SchemaModeAuto:
		if prodLike && !cfg.DBAutoMigrateAllowDestructive {
			return SchemaPlan{}, fmt.Errorf("refusing DB_SCHEMA_MODE=auto in %q without DB_AUTOMIGRATE_ALLOW_DESTRUCTIVE=true", cfg.Env)
		}
		plan.RunAuto = true
	case SchemaModeHybrid:
		plan.RunSQL = true
		plan.RunAuto = !prodLike
	default:
		return SchemaPlan{}, fmt.Errorf("unsupported DB_SCHEMA_MODE %q", plan.Mode)
	}
	return plan, nil
}

// ApplySchema brings the database up to date and refuses to continue when the
// upvote primary key or the entry cascades are missing afterwards.
func ApplySchema(ctx context.Context, db *gorm.DB, cfg *config.Config) error {
	plan, err := PlanSchema(cfg)
	if err != nil {
		return err
	}

	if plan.RunSQL {
		if err := RunMigrations(ctx, db); err != nil {
			return fmt.Errorf("run sql migrations: %w", err)
		}
	}

	if plan.RunAuto {
		if plan.Mode == SchemaModeAuto && cfg.DBAutoMigrateAllowDestructive {
			middleware.Logger.Warn("DB_AUTOMIGRATE_ALLOW_DESTRUCTIVE=true set for DB_SCHEMA_MODE=auto; review schema diffs before production deployment")
		}
		middleware.Logger.Info("Running GORM AutoMigrate", slog.String("mode", plan.Mode), slog.String("env", cfg.Env))
		if err := db.WithContext(ctx).AutoMigrate(PersistentModels()...); err != nil {
			return fmt.Errorf("auto-migrate: %w", err)
		}
	}

	return RequireIntegrity(ctx, db)
}

// RequireIntegrity returns ErrSchemaIntegrity naming every missing constraint.
func RequireIntegrity(ctx context.Context, db *gorm.DB) error {
	checks, err := VerifyIntegrity(ctx, db)
	if err != nil {
		return err
	}

	failed := failedChecks(checks)
	if len(failed) == 0 {
		return nil
	}

	names := make([]string, 0, len(failed))
	for _, c := range failed {
		middleware.Logger.Error("schema constraint missing",
			slog.String("constraint", c.Name),
			slog.String("table", c.Table),
			slog.String("detail", c.Detail),
		)
		names = append(names, c.Name)
	}
	return fmt.Errorf("%w: missing %s", ErrSchemaIntegrity, strings.Join(names, ", "))
}

// GetSchemaStatus reports the plan, the migration state and the constraint checks.
func GetSchemaStatus(ctx context.Context, db *gorm.DB, cfg *config.Config) (*SchemaStatus, error) {
	plan, err := PlanSchema(cfg)
	if err != nil {
		return nil, err
	}

	status := &SchemaStatus{SchemaPlan: plan, Environment: cfg.Env}

	if plan.RunSQL {
		applied, err := NewMigrationStore(db).GetAppliedMigrations(ctx)
		if err != nil {
			return nil, err
		}
		status.AppliedVersions = applied
		status.PendingMigrations = pendingMigrations(applied, GetMigrations())
	}

	checks, err := VerifyIntegrity(ctx, db)
	if err != nil {
		return nil, err
	}
	status.Constraints = checks

	return status, nil
}

func failedChecks(checks []ConstraintCheck) []ConstraintCheck {
	var failed []ConstraintCheck
	for _, c := range checks {
		if !c.OK {
			failed = append(failed, c)
		}
	}
	return failed
}
