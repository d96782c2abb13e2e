// Command main runs the demo data seeder for the board.
package main

import (
	"flag"
	"log"

	"noticeboard/internal/config"
	"noticeboard/internal/database"
	"noticeboard/internal/seed"
)

func main() {
	defaults := seed.DefaultOptions()

	numUsers := flag.Int("users", defaults.NumUsers, "Number of users to create")
	numEntries := flag.Int("entries", defaults.NumEntries, "Number of entries to create")
	numAdmins := flag.Int("admins", defaults.NumAdmins, "How many of the users are admins")
	maxUpvotes := flag.Int("max-upvotes", defaults.MaxUpvotesPerEntry, "Maximum upvotes per entry")
	maxComments := flag.Int("max-comments", defaults.MaxCommentsPerEntry, "Maximum comments per entry")
	maxDays := flag.Int("days", defaults.MaxDays, "Spread entries over this many past days")
	randomSeed := flag.Int64("seed", 0, "Random seed (0 picks one from the clock)")
	shouldClean := flag.Bool("clean", true, "Clean database before seeding")
	dryRun := flag.Bool("dry-run", false, "Generate data without writing it")
	flag.Parse()

	log.Println("🌱 Board Seeder")
	log.Println("===============")

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if cfg.IsProduction() {
		log.Fatal("❌ Refusing to seed a production database")
	}

	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	summary, err := seed.Seed(db, seed.Options{
		NumUsers:            *numUsers,
		NumEntries:          *numEntries,
		NumAdmins:           *numAdmins,
		MaxUpvotesPerEntry:  *maxUpvotes,
		MaxCommentsPerEntry: *maxComments,
		MaxDays:             *maxDays,
		BatchSize:           defaults.BatchSize,
		RandomSeed:          *randomSeed,
		ShouldClean:         *shouldClean,
		DryRun:              *dryRun,
	})
	if err != nil {
		log.Fatalf("❌ Seeding failed: %v", err)
	}

	log.Printf("✨ All done! users=%d entries=%d upvotes=%d comments=%d",
		summary.Users, summary.Entries, summary.Upvotes, summary.Comments)
}
