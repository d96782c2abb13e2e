package service

import (
	"context"
	"log/slog"
	"time"

	"noticeboard/internal/cache"
	"noticeboard/internal/middleware"
	"noticeboard/internal/models"
	"noticeboard/internal/observability"
	"noticeboard/internal/repository"

	"github.com/redis/go-redis/v9"
)

// UnknownAuthor labels authors whose profile cannot be resolved.
const UnknownAuthor = "Unknown User"

// ProfileDirectory resolves user ids to public profiles through an in-process
// LRU, then Redis, then the store. It is only used for display labels; role
// checks always read the store directly.
type ProfileDirectory struct {
	users repository.UserRepository
	local *cache.Local[models.Profile]
	rdb   *redis.Client
	ttl   time.Duration
}

// NewProfileDirectory creates a directory. local and rdb may be nil to skip that tier.
func NewProfileDirectory(users repository.UserRepository, local *cache.Local[models.Profile], rdb *redis.Client, ttl time.Duration) *ProfileDirectory {
	if ttl <= 0 {
		ttl = cache.ProfileTTL
	}
	return &ProfileDirectory{users: users, local: local, rdb: rdb, ttl: ttl}
}

// Lookup returns the profiles found for ids. Ids without a user row are absent from the map.
func (d *ProfileDirectory) Lookup(ctx context.Context, ids []string) (map[string]models.Profile, error) {
	found := make(map[string]models.Profile, len(ids))
	var missing []string
	seen := make(map[string]struct{}, len(ids))

	for _, id := range ids {
		if _, dup := seen[id]; dup || id == "" {
			continue
		}
		seen[id] = struct{}{}

		if d.local != nil {
			if p, ok := d.local.Get(id); ok {
				observability.ProfileCacheLookups.WithLabelValues("local", "hit").Inc()
				found[id] = p
				continue
			}
			observability.ProfileCacheLookups.WithLabelValues("local", "miss").Inc()
		}

		if d.rdb != nil {
			var p models.Profile
			hit, err := cache.GetJSON(ctx, d.rdb, cache.ProfileKey(id), &p)
			if err != nil {
				middleware.Logger.WarnContext(ctx, "profile cache read failed",
					slog.String("user_id", id),
					slog.String("error", err.Error()),
				)
			}
			if hit {
				observability.ProfileCacheLookups.WithLabelValues("redis", "hit").Inc()
				found[id] = p
				if d.local != nil {
					d.local.Set(id, p)
				}
				continue
			}
			observability.ProfileCacheLookups.WithLabelValues("redis", "miss").Inc()
		}

		missing = append(missing, id)
	}

	if len(missing) == 0 {
		return found, nil
	}

	users, err := d.users.ListByIDs(ctx, missing)
	if err != nil {
		return nil, err
	}
	for _, u := range users {
		p := models.Profile{ID: u.ID, Role: u.Role}
		if u.DisplayName != nil {
			p.DisplayName = *u.DisplayName
		}
		found[u.ID] = p
		d.store(ctx, p)
	}
	return found, nil
}

func (d *ProfileDirectory) store(ctx context.Context, p models.Profile) {
	if d.local != nil {
		d.local.Set(p.ID, p)
	}
	if err := cache.SetJSON(ctx, d.rdb, cache.ProfileKey(p.ID), p, d.ttl); err != nil {
		middleware.Logger.WarnContext(ctx, "profile cache write failed",
			slog.String("user_id", p.ID),
			slog.String("error", err.Error()),
		)
	}
}

// Invalidate drops the cached profile from every tier.
func (d *ProfileDirectory) Invalidate(ctx context.Context, id string) {
	if d == nil {
		return
	}
	if d.local != nil {
		d.local.Delete(id)
	}
	cache.InvalidateProfile(ctx, d.rdb, id)
}

// AuthorLabel picks the display label for id from resolved profiles.
func AuthorLabel(profiles map[string]models.Profile, id string) string {
	p, ok := profiles[id]
	if !ok {
		return UnknownAuthor
	}
	if p.DisplayName != "" {
		return p.DisplayName
	}
	return "User " + clampSlice(id, 5, 9)
}

func clampSlice(s string, from, to int) string {
	r := []rune(s)
	if from > len(r) {
		from = len(r)
	}
	if to > len(r) {
		to = len(r)
	}
	return string(r[from:to])
}

// resolveAuthors returns a label per author id. Directory failures degrade to
// UnknownAuthor for everyone rather than failing the read.
func (d *ProfileDirectory) resolveAuthors(ctx context.Context, ids []string) map[string]string {
	labels := make(map[string]string, len(ids))
	var profiles map[string]models.Profile
	if d != nil {
		var err error
		profiles, err = d.Lookup(ctx, ids)
		if err != nil {
			middleware.Logger.WarnContext(ctx, "author lookup failed; using fallback labels",
				slog.Int("authors", len(ids)),
				slog.String("error", err.Error()),
			)
			profiles = nil
		}
	}
	for _, id := range ids {
		labels[id] = AuthorLabel(profiles, id)
	}
	return labels
}
