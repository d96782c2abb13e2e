package service

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"noticeboard/internal/cache"
	"noticeboard/internal/models"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newLocalProfiles(t *testing.T) *cache.Local[models.Profile] {
	t.Helper()
	l, err := cache.NewLocal[models.Profile](100, time.Minute)
	require.NoError(t, err)
	return l
}

func countingUserRepo(calls *int32, users ...models.User) *userRepoStub {
	repo := noopUserRepo()
	repo.listByIDsFn = func(_ context.Context, ids []string) ([]models.User, error) {
		atomic.AddInt32(calls, 1)
		want := make(map[string]bool, len(ids))
		for _, id := range ids {
			want[id] = true
		}
		var out []models.User
		for _, u := range users {
			if want[u.ID] {
				out = append(out, u)
			}
		}
		return out, nil
	}
	return repo
}

func TestAuthorLabel(t *testing.T) {
	t.Parallel()
	profiles := map[string]models.Profile{
		"user_2abcdefgh": {ID: "user_2abcdefgh", DisplayName: "Dana"},
		"user_2xyz1234":  {ID: "user_2xyz1234"},
		"abc":            {ID: "abc"},
		"abcdefg":        {ID: "abcdefg"},
	}

	tests := []struct {
		name string
		id   string
		want string
	}{
		{"Display Name", "user_2abcdefgh", "Dana"},
		{"Fallback From Id", "user_2xyz1234", "User 2xyz"},
		{"Short Id", "abc", "User "},
		{"Partially Clamped", "abcdefg", "User fg"},
		{"Missing", "ghost", UnknownAuthor},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, AuthorLabel(profiles, tt.id))
		})
	}
	assert.Equal(t, UnknownAuthor, AuthorLabel(nil, "anyone"))
}

func TestProfileDirectory_LookupTiers(t *testing.T) {
	t.Parallel()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	var calls int32
	repo := countingUserRepo(&calls,
		models.User{ID: "a", DisplayName: strPtr("Ann"), Role: models.RoleUser},
		models.User{ID: "b", Role: models.RoleAdmin},
	)
	local := newLocalProfiles(t)
	dir := NewProfileDirectory(repo, local, rdb, time.Minute)
	ctx := context.Background()

	got, err := dir.Lookup(ctx, []string{"a", "b", "a", "ghost"})
	require.NoError(t, err)
	assert.Len(t, got, 2)
	assert.Equal(t, "Ann", got["a"].DisplayName)
	assert.EqualValues(t, 1, atomic.LoadInt32(&calls))
	assert.True(t, mr.Exists(cache.ProfileKey("a")))

	// Served from the local tier.
	_, err = dir.Lookup(ctx, []string{"a", "b"})
	require.NoError(t, err)
	assert.EqualValues(t, 1, atomic.LoadInt32(&calls))

	// Served from Redis after the local tier drops the entry.
	local.Delete("a")
	got, err = dir.Lookup(ctx, []string{"a"})
	require.NoError(t, err)
	assert.Equal(t, "Ann", got["a"].DisplayName)
	assert.EqualValues(t, 1, atomic.LoadInt32(&calls))

	// Invalidate drops both tiers.
	dir.Invalidate(ctx, "a")
	assert.False(t, mr.Exists(cache.ProfileKey("a")))
	_, err = dir.Lookup(ctx, []string{"a"})
	require.NoError(t, err)
	assert.EqualValues(t, 2, atomic.LoadInt32(&calls))
}

func TestProfileDirectory_RedisDownFallsThrough(t *testing.T) {
	t.Parallel()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	mr.Close()

	var calls int32
	repo := countingUserRepo(&calls, models.User{ID: "a", DisplayName: strPtr("Ann")})
	dir := NewProfileDirectory(repo, nil, rdb, time.Minute)

	got, err := dir.Lookup(context.Background(), []string{"a"})
	require.NoError(t, err)
	assert.Equal(t, "Ann", got["a"].DisplayName)
	assert.EqualValues(t, 1, atomic.LoadInt32(&calls))
}

func TestProfileDirectory_ResolveAuthorsDegrades(t *testing.T) {
	t.Parallel()
	repo := noopUserRepo()
	repo.listByIDsFn = func(_ context.Context, _ []string) ([]models.User, error) {
		return nil, errors.New("db down")
	}
	dir := NewProfileDirectory(repo, nil, nil, time.Minute)

	labels := dir.resolveAuthors(context.Background(), []string{"a", "b"})
	assert.Equal(t, map[string]string{"a": UnknownAuthor, "b": UnknownAuthor}, labels)

	var nilDir *ProfileDirectory
	labels = nilDir.resolveAuthors(context.Background(), []string{"a"})
	assert.Equal(t, UnknownAuthor, labels["a"])
}
