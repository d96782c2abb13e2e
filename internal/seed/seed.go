package seed

import (
	"fmt"
	"log"

	"noticeboard/internal/models"

	"gorm.io/gorm"
)

// Options configuration for the seeder
type Options struct {
	NumUsers            int
	NumEntries          int
	NumAdmins           int
	MaxUpvotesPerEntry  int
	MaxCommentsPerEntry int
	MaxDays             int
	BatchSize           int
	RandomSeed          int64
	ShouldClean         bool
	DryRun              bool
}

// DefaultOptions returns a small demo board.
func DefaultOptions() Options {
	return Options{
		NumUsers:            25,
		NumEntries:          60,
		NumAdmins:           1,
		MaxUpvotesPerEntry:  15,
		MaxCommentsPerEntry: 6,
		MaxDays:             60,
		BatchSize:           100,
	}
}

// Summary counts what a seeding run wrote.
type Summary struct {
	Users    int
	Entries  int
	Upvotes  int
	Comments int
}

// Tag weights for generated entries; they sum to 10.
var defaultDistribution = map[models.Tag]int{
	models.TagEvent:         5,
	models.TagProgram:       3,
	models.TagTipsAndTricks: 2,
}

// computeTagCounts splits n entries across tags by weight. Rounding remainders
// go to events so the counts always sum to n.
func computeTagCounts(n int, weights map[models.Tag]int) map[models.Tag]int {
	total := 0
	for _, w := range weights {
		total += w
	}
	counts := make(map[models.Tag]int, len(weights))
	if total == 0 || n <= 0 {
		return counts
	}
	assigned := 0
	for tag, w := range weights {
		c := n * w / total
		counts[tag] = c
		assigned += c
	}
	counts[models.TagEvent] += n - assigned
	return counts
}

// Seed populates the database with demo users, entries, upvotes and comments.
func Seed(db *gorm.DB, opts Options) (*Summary, error) {
	log.Printf("🌱 Starting board seeding with %d users and %d entries...", opts.NumUsers, opts.NumEntries)

	if opts.NumUsers <= 0 {
		return nil, fmt.Errorf("at least one user is required to seed entries")
	}

	if opts.ShouldClean && !opts.DryRun {
		if err := clearData(db); err != nil {
			return nil, fmt.Errorf("failed to clear existing data: %w", err)
		}
	}

	f := NewFactory(db, opts)
	summary := &Summary{}

	users := make([]*models.User, 0, opts.NumUsers)
	for i := 0; i < opts.NumUsers; i++ {
		admin := i < opts.NumAdmins
		user, err := f.CreateUser(func(u *models.User) {
			if admin {
				u.Role = models.RoleAdmin
			}
		})
		if err != nil {
			return nil, fmt.Errorf("failed to create user: %w", err)
		}
		users = append(users, user)
	}
	summary.Users = len(users)
	log.Printf("✓ %d users created", summary.Users)

	entries := make([]*models.Entry, 0, opts.NumEntries)
	for tag, count := range computeTagCounts(opts.NumEntries, defaultDistribution) {
		for i := 0; i < count; i++ {
			author := users[f.faker.Number(0, len(users)-1)]
			entries = append(entries, f.BuildEntry(author, tag))
		}
	}
	if err := f.CreateEntriesBatch(entries); err != nil {
		return nil, fmt.Errorf("failed to create entries: %w", err)
	}
	summary.Entries = len(entries)
	log.Printf("✓ %d entries created", summary.Entries)

	for _, entry := range entries {
		n, err := seedUpvotes(f, users, entry, opts.MaxUpvotesPerEntry)
		if err != nil {
			return nil, err
		}
		summary.Upvotes += n

		for i := f.faker.Number(0, max(opts.MaxCommentsPerEntry, 0)); i > 0; i-- {
			author := users[f.faker.Number(0, len(users)-1)]
			if _, err := f.CreateComment(author, entry); err != nil {
				return nil, fmt.Errorf("failed to create comment: %w", err)
			}
			summary.Comments++
		}
	}
	log.Printf("✓ %d upvotes and %d comments created", summary.Upvotes, summary.Comments)

	log.Println("🎉 Board seeding completed successfully!")
	return summary, nil
}

// seedUpvotes gives entry upvotes from distinct users.
func seedUpvotes(f *Factory, users []*models.User, entry *models.Entry, maxPerEntry int) (int, error) {
	limit := min(maxPerEntry, len(users))
	if limit <= 0 {
		return 0, nil
	}
	want := f.faker.Number(0, limit)
	picked := 0
	for _, idx := range f.faker.Rand.Perm(len(users)) {
		if picked == want {
			break
		}
		if err := f.CreateUpvote(users[idx], entry); err != nil {
			return picked, fmt.Errorf("failed to create upvote: %w", err)
		}
		picked++
	}
	return picked, nil
}

func clearData(db *gorm.DB) error {
	log.Println("🗑️  Clearing existing data...")
	if db.Dialector.Name() == "postgres" {
		return db.Exec(`TRUNCATE TABLE comments, upvotes, entries, users CASCADE;`).Error
	}
	return db.Transaction(func(tx *gorm.DB) error {
		for _, table := range []string{"comments", "upvotes", "entries", "users"} {
			if err := tx.Exec("DELETE FROM " + table).Error; err != nil {
				return err
			}
		}
		return nil
	})
}
