// Package seed provides helpers to create test and demo data for the
// application database. These helpers are intended for development and
// testing only.
package seed

import (
	"fmt"
	"log"
	"time"

	"noticeboard/internal/models"

	"github.com/brianvoe/gofakeit/v6"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Factory builds board entities and persists them to the database.
// It is a thin helper used by Seed and tests.
type Factory struct {
	db    *gorm.DB
	opts  Options
	faker *gofakeit.Faker
	now   func() time.Time
}

// NewFactory creates a new Factory bound to the provided Gorm DB. A zero
// opts.RandomSeed draws a time-based seed.
func NewFactory(db *gorm.DB, opts Options) *Factory {
	seed := opts.RandomSeed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &Factory{db: db, opts: opts, faker: gofakeit.New(seed), now: time.Now}
}

// BuildUser returns an unsaved user shaped like an identity-provider account.
func (f *Factory) BuildUser(overrides ...func(*models.User)) *models.User {
	name := f.faker.Name()
	user := &models.User{
		ID:          "user_" + f.faker.LetterN(24),
		Role:        models.RoleUser,
		DisplayName: &name,
	}
	// Some accounts never set a display name and fall back to the id label.
	if f.faker.Number(1, 10) == 1 {
		user.DisplayName = nil
	}
	for _, override := range overrides {
		override(user)
	}
	return user
}

// CreateUser constructs and persists a sample user.
func (f *Factory) CreateUser(overrides ...func(*models.User)) (*models.User, error) {
	user := f.BuildUser(overrides...)
	if f.opts.DryRun {
		log.Printf("[dry-run] CreateUser: %s", user.ID)
		return user, nil
	}
	if err := f.db.Create(user).Error; err != nil {
		return nil, err
	}
	return user, nil
}

// BuildEntry returns an unsaved entry of the given tag authored by author,
// with created_at spread over the last opts.MaxDays days.
func (f *Factory) BuildEntry(author *models.User, tag models.Tag, overrides ...func(*models.Entry)) *models.Entry {
	entry := &models.Entry{
		Title:       f.titleFor(tag),
		Description: f.faker.Paragraph(1, 3, 12, " "),
		Tag:         tag,
		AuthorID:    author.ID,
		CreatedAt:   f.pastTime(),
	}
	for _, override := range overrides {
		override(entry)
	}
	return entry
}

func (f *Factory) titleFor(tag models.Tag) string {
	switch tag {
	case models.TagEvent:
		return fmt.Sprintf("%s at the %s", f.faker.RandomString(eventKinds), f.faker.RandomString(venues))
	case models.TagProgram:
		return fmt.Sprintf("%s program: %s", f.faker.RandomString(programKinds), f.faker.Sentence(3))
	default:
		return fmt.Sprintf("Tip: %s", f.faker.Sentence(6))
	}
}

func (f *Factory) pastTime() time.Time {
	maxDays := f.opts.MaxDays
	if maxDays <= 0 {
		maxDays = 90
	}
	back := time.Duration(f.faker.Number(0, maxDays-1))*24*time.Hour +
		time.Duration(f.faker.Number(0, 23))*time.Hour +
		time.Duration(f.faker.Number(0, 59))*time.Minute
	return f.now().Add(-back)
}

// CreateEntriesBatch persists entries in chunks of opts.BatchSize.
func (f *Factory) CreateEntriesBatch(entries []*models.Entry) error {
	if len(entries) == 0 {
		return nil
	}
	if f.opts.DryRun {
		log.Printf("[dry-run] CreateEntriesBatch: %d entries (no DB write)", len(entries))
		return nil
	}
	batch := f.opts.BatchSize
	if batch <= 0 {
		batch = 100
	}
	return f.db.Omit(clause.Associations).CreateInBatches(entries, batch).Error
}

// CreateComment constructs and persists a sample comment by author on entry.
func (f *Factory) CreateComment(author *models.User, entry *models.Entry, overrides ...func(*models.Comment)) (*models.Comment, error) {
	comment := &models.Comment{
		Content:   f.faker.Sentence(f.faker.Number(4, 20)),
		AuthorID:  author.ID,
		EntryID:   entry.ID,
		CreatedAt: entry.CreatedAt.Add(time.Duration(f.faker.Number(1, 48*60)) * time.Minute),
	}
	if comment.CreatedAt.After(f.now()) {
		comment.CreatedAt = f.now()
	}
	for _, override := range overrides {
		override(comment)
	}
	if f.opts.DryRun {
		return comment, nil
	}
	if err := f.db.Omit(clause.Associations).Create(comment).Error; err != nil {
		return nil, err
	}
	return comment, nil
}

// CreateUpvote persists an upvote from user on entry. Existing upvotes are left alone.
func (f *Factory) CreateUpvote(user *models.User, entry *models.Entry) error {
	if f.opts.DryRun {
		return nil
	}
	upvote := &models.Upvote{UserID: user.ID, EntryID: entry.ID}
	return f.db.Omit(clause.Associations).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(upvote).Error
}

var (
	eventKinds = []string{
		"Potluck", "Book swap", "Garden cleanup", "Open mic", "Movie night",
		"Blood drive", "Yard sale", "Chess meetup", "Choir practice", "Running club",
	}

	venues = []string{
		"community hall", "library", "park pavilion", "school gym", "rec center", "church basement",
	}

	programKinds = []string{
		"Mentoring", "Tutoring", "Meal delivery", "Language exchange", "Job readiness", "Youth sports",
	}
)
