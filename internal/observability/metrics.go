// Package observability provides metrics and tracing.
package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// UpvoteToggles counts completed toggles by resulting action.
	UpvoteToggles = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "noticeboard_upvote_toggles_total",
		Help: "Total number of upvote toggles by action",
	}, []string{"action"})

	// EntriesCreated counts created entries by tag.
	EntriesCreated = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "noticeboard_entries_created_total",
		Help: "Total number of entries created by tag",
	}, []string{"tag"})

	// EntriesDeleted counts admin deletions.
	EntriesDeleted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "noticeboard_entries_deleted_total",
		Help: "Total number of entries deleted by admins",
	})

	// CommentsCreated counts created comments.
	CommentsCreated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "noticeboard_comments_created_total",
		Help: "Total number of comments created",
	})

	// ForbiddenDeletes counts delete attempts rejected by the admin gate.
	ForbiddenDeletes = promauto.NewCounter(prometheus.CounterOpts{
		Name: "noticeboard_forbidden_deletes_total",
		Help: "Total number of entry deletions rejected for insufficient role",
	})

	// StoreErrors counts store failures by operation.
	StoreErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "noticeboard_store_errors_total",
		Help: "Total number of persistent store errors by operation",
	}, []string{"operation"})

	// RedisErrors counts Redis errors by command.
	RedisErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "noticeboard_redis_errors_total",
		Help: "Total number of Redis errors by command",
	}, []string{"command"})

	// ProfileCacheLookups counts profile lookups by tier and result.
	ProfileCacheLookups = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "noticeboard_profile_cache_lookups_total",
		Help: "Profile directory lookups by cache tier and result",
	}, []string{"tier", "result"})
)
