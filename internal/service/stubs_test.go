package service

import (
	"context"
	"errors"
	"sync"
	"testing"

	"noticeboard/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// userRepoStub is a stub for repository.UserRepository.
type userRepoStub struct {
	ensureExistsFn func(context.Context, string, string) error
	getByIDFn      func(context.Context, string) (*models.User, error)
	listByIDsFn    func(context.Context, []string) ([]models.User, error)
	listByRoleFn   func(context.Context, models.Role) ([]models.User, error)
	setRoleFn      func(context.Context, string, models.Role) error
}

func (s *userRepoStub) EnsureExists(ctx context.Context, id, displayName string) error {
	return s.ensureExistsFn(ctx, id, displayName)
}
func (s *userRepoStub) GetByID(ctx context.Context, id string) (*models.User, error) {
	return s.getByIDFn(ctx, id)
}
func (s *userRepoStub) ListByIDs(ctx context.Context, ids []string) ([]models.User, error) {
	return s.listByIDsFn(ctx, ids)
}
func (s *userRepoStub) ListByRole(ctx context.Context, role models.Role) ([]models.User, error) {
	return s.listByRoleFn(ctx, role)
}
func (s *userRepoStub) SetRole(ctx context.Context, id string, role models.Role) error {
	return s.setRoleFn(ctx, id, role)
}

func noopUserRepo() *userRepoStub {
	return &userRepoStub{
		ensureExistsFn: func(_ context.Context, _, _ string) error { return nil },
		getByIDFn: func(_ context.Context, _ string) (*models.User, error) {
			return nil, models.NewNotFoundError("User")
		},
		listByIDsFn:  func(_ context.Context, _ []string) ([]models.User, error) { return nil, nil },
		listByRoleFn: func(_ context.Context, _ models.Role) ([]models.User, error) { return nil, nil },
		setRoleFn:    func(_ context.Context, _ string, _ models.Role) error { return nil },
	}
}

// entryRepoStub is a stub for repository.EntryRepository.
type entryRepoStub struct {
	createFn  func(context.Context, *models.Entry, string) error
	listFn    func(context.Context, string, int, int) ([]*models.Entry, error)
	deleteFn  func(context.Context, string) error
}

func (s *entryRepoStub) Create(ctx context.Context, entry *models.Entry, displayName string) error {
	return s.createFn(ctx, entry, displayName)
}
func (s *entryRepoStub) List(ctx context.Context, sort string, limit, offset int) ([]*models.Entry, error) {
	return s.listFn(ctx, sort, limit, offset)
}
func (s *entryRepoStub) Delete(ctx context.Context, id string) error {
	return s.deleteFn(ctx, id)
}

func noopEntryRepo() *entryRepoStub {
	return &entryRepoStub{
		createFn: func(_ context.Context, e *models.Entry, _ string) error {
			e.ID = "generated-id"
			return nil
		},
		listFn:    func(_ context.Context, _ string, _, _ int) ([]*models.Entry, error) { return nil, nil },
		deleteFn:  func(_ context.Context, _ string) error { return nil },
	}
}

// upvoteRepoStub is a stub for repository.UpvoteRepository.
type upvoteRepoStub struct {
	toggleFn func(context.Context, string, string, string) (string, int64, error)
}

func (s *upvoteRepoStub) Toggle(ctx context.Context, userID, displayName, entryID string) (string, int64, error) {
	return s.toggleFn(ctx, userID, displayName, entryID)
}

// commentRepoStub is a stub for repository.CommentRepository.
type commentRepoStub struct {
	createFn      func(context.Context, *models.Comment, string) error
	listByEntryFn func(context.Context, string) ([]*models.Comment, error)
}

func (s *commentRepoStub) Create(ctx context.Context, comment *models.Comment, displayName string) error {
	return s.createFn(ctx, comment, displayName)
}
func (s *commentRepoStub) ListByEntry(ctx context.Context, entryID string) ([]*models.Comment, error) {
	return s.listByEntryFn(ctx, entryID)
}

func noopCommentRepo() *commentRepoStub {
	return &commentRepoStub{
		createFn:      func(_ context.Context, _ *models.Comment, _ string) error { return nil },
		listByEntryFn: func(_ context.Context, _ string) ([]*models.Comment, error) { return nil, nil },
	}
}

// eventRecorder captures published events.
type eventRecorder struct {
	mu     sync.Mutex
	events []string
	err    error
}

func (r *eventRecorder) Publish(_ context.Context, eventType string, _ map[string]interface{}) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, eventType)
	return r.err
}

func (r *eventRecorder) types() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.events...)
}

func strPtr(s string) *string { return &s }

// assertAppError asserts that err is an AppError with the given code.
func assertAppError(t *testing.T, err error, code string) {
	t.Helper()
	require.Error(t, err)
	var appErr *models.AppError
	require.True(t, errors.As(err, &appErr), "expected AppError, got %T: %v", err, err)
	assert.Equal(t, code, appErr.Code)
}

// assertValidationError asserts that err is an AppError with code VALIDATION_ERROR.
func assertValidationError(t *testing.T, err error) {
	t.Helper()
	assertAppError(t, err, models.CodeValidation)
}

// assertUnauthorizedError asserts that err is an AppError with code UNAUTHORIZED.
func assertUnauthorizedError(t *testing.T, err error) {
	t.Helper()
	assertAppError(t, err, models.CodeUnauthorized)
}
