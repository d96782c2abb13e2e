package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type cachedProfile struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

func newTestRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb, err := NewClient(mr.Addr())
	require.NoError(t, err)
	t.Cleanup(func() { _ = rdb.Close() })
	return mr, rdb
}

func TestNewClient_ParsesURL(t *testing.T) {
	t.Parallel()

	rdb, err := NewClient("redis://localhost:6380/2")
	require.NoError(t, err)
	defer rdb.Close()
	assert.Equal(t, "localhost:6380", rdb.Options().Addr)
	assert.Equal(t, 2, rdb.Options().DB)

	_, err = NewClient("redis://%zz")
	assert.Error(t, err)
}

func TestJSONRoundTrip(t *testing.T) {
	t.Parallel()
	mr, rdb := newTestRedis(t)
	ctx := context.Background()

	var miss cachedProfile
	found, err := GetJSON(ctx, rdb, ProfileKey("u1"), &miss)
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, SetJSON(ctx, rdb, ProfileKey("u1"), cachedProfile{ID: "u1", Name: "Ann"}, time.Minute))
	assert.True(t, mr.Exists("profile:u1"))

	var hit cachedProfile
	found, err = GetJSON(ctx, rdb, ProfileKey("u1"), &hit)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "Ann", hit.Name)

	mr.FastForward(2 * time.Minute)
	found, err = GetJSON(ctx, rdb, ProfileKey("u1"), &hit)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestJSON_NilClient(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	var dest cachedProfile
	found, err := GetJSON(ctx, nil, "k", &dest)
	assert.NoError(t, err)
	assert.False(t, found)
	assert.NoError(t, SetJSON(ctx, nil, "k", dest, time.Minute))
	Invalidate(ctx, nil, "k")
}

func TestLocal(t *testing.T) {
	t.Parallel()

	c, err := NewLocal[string](2, time.Minute)
	require.NoError(t, err)

	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	c.setClock(func() time.Time { return now })

	c.Set("a", "A")
	c.Set("b", "B")
	v, ok := c.Get("a")
	assert.True(t, ok)
	assert.Equal(t, "A", v)

	// "b" is least recently used and gets evicted.
	c.Set("c", "C")
	_, ok = c.Get("b")
	assert.False(t, ok)
	assert.Equal(t, 2, c.Len())

	c.Delete("a")
	_, ok = c.Get("a")
	assert.False(t, ok)

	now = now.Add(2 * time.Minute)
	_, ok = c.Get("c")
	assert.False(t, ok)
	assert.Equal(t, 0, c.Len())
}

func TestLocal_InvalidSize(t *testing.T) {
	t.Parallel()
	_, err := NewLocal[int](0, time.Minute)
	assert.Error(t, err)
}
