package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const ProfileKeyPrefix = "profile:%s"

const ProfileTTL = 5 * time.Minute

func ProfileKey(userID string) string {
	return fmt.Sprintf(ProfileKeyPrefix, userID)
}

// Invalidate removes the given keys. It is a no-op without a client.
func Invalidate(ctx context.Context, rdb *redis.Client, keys ...string) {
	if rdb == nil || len(keys) == 0 {
		return
	}
	rdb.Del(ctx, keys...)
}

func InvalidateProfile(ctx context.Context, rdb *redis.Client, userID string) {
	Invalidate(ctx, rdb, ProfileKey(userID))
}
