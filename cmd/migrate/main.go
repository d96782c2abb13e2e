// Command migrate applies, inspects, verifies and rolls back the board schema.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"strconv"
	"strings"

	"noticeboard/internal/config"
	"noticeboard/internal/database"

	"gorm.io/gorm"
)

const usage = `Usage:
  migrate up                 - Apply pending SQL migrations and verify constraints
  migrate auto               - Run GORM AutoMigrate and verify constraints
  migrate status             - Show schema mode, migration state and constraint health
  migrate verify             - Check the upvote key and entry cascades only
  migrate list               - List embedded migrations
  migrate down <version>     - Roll back the latest applied migration`

var errUsage = errors.New(usage)

func main() {
	args := os.Args[1:]
	if len(args) == 0 {
		fmt.Println(usage)
		os.Exit(1)
	}

	// list needs no database.
	if strings.EqualFold(args[0], "list") {
		if err := run(context.Background(), nil, nil, args, os.Stdout); err != nil {
			log.Fatal(err)
		}
		return
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	db, err := database.ConnectWithOptions(cfg, database.ConnectOptions{ApplySchema: false})
	if err != nil {
		log.Fatalf("connect database: %v", err)
	}

	if err := run(context.Background(), db, cfg, args, os.Stdout); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func run(ctx context.Context, db *gorm.DB, cfg *config.Config, args []string, out io.Writer) error {
	if len(args) == 0 {
		return errUsage
	}

	switch strings.ToLower(strings.TrimSpace(args[0])) {
	case "list":
		for _, m := range database.GetMigrations() {
			_, _ = fmt.Fprintln(out, m.String())
		}
		return nil
	case "up":
		if err := database.RunMigrations(ctx, db); err != nil {
			return fmt.Errorf("sql migrations failed: %w", err)
		}
		if err := database.RequireIntegrity(ctx, db); err != nil {
			return err
		}
		_, _ = fmt.Fprintln(out, "sql migrations applied")
		return nil
	case "auto":
		cfg.DBSchemaMode = database.SchemaModeAuto
		if err := database.ApplySchema(ctx, db, cfg); err != nil {
			return fmt.Errorf("auto schema apply failed: %w", err)
		}
		_, _ = fmt.Fprintln(out, "automigrations applied")
		return nil
	case "status":
		return printStatus(ctx, db, cfg, out)
	case "verify":
		checks, err := database.VerifyIntegrity(ctx, db)
		if err != nil {
			return fmt.Errorf("verify failed: %w", err)
		}
		if !printChecks(checks, out) {
			return database.ErrSchemaIntegrity
		}
		return nil
	case "down":
		if len(args) < 2 {
			return errUsage
		}
		version, err := strconv.Atoi(args[1])
		if err != nil {
			return fmt.Errorf("invalid version %q: %w", args[1], err)
		}
		if database.GetMigrationByVersion(version) == nil {
			return fmt.Errorf("unknown migration version %d", version)
		}
		if err := database.RollbackMigration(ctx, db, version); err != nil {
			return fmt.Errorf("rollback failed: %w", err)
		}
		_, _ = fmt.Fprintf(out, "rolled back migration %06d\n", version)
		return nil
	default:
		return fmt.Errorf("unknown command: %s\n%s", args[0], usage)
	}
}

func printStatus(ctx context.Context, db *gorm.DB, cfg *config.Config, out io.Writer) error {
	status, err := database.GetSchemaStatus(ctx, db, cfg)
	if err != nil {
		return fmt.Errorf("schema status failed: %w", err)
	}

	_, _ = fmt.Fprintf(out, "mode=%s env=%s run_sql=%t run_auto=%t applied=%d pending=%d\n",
		status.Mode, status.Environment, status.RunSQL, status.RunAuto,
		len(status.AppliedVersions), len(status.PendingMigrations))
	for _, m := range status.PendingMigrations {
		_, _ = fmt.Fprintf(out, "pending: %s\n", m.String())
	}
	printChecks(status.Constraints, out)
	return nil
}

// printChecks writes one line per constraint and reports whether all passed.
func printChecks(checks []database.ConstraintCheck, out io.Writer) bool {
	healthy := true
	for _, c := range checks {
		mark := "ok     "
		if !c.OK {
			mark = "MISSING"
			healthy = false
		}
		_, _ = fmt.Fprintf(out, "%s %-24s %s\n", mark, c.Name, c.Detail)
	}
	return healthy
}
