package server

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"noticeboard/internal/cache"
	"noticeboard/internal/config"
	"noticeboard/internal/models"
	"noticeboard/internal/testutil"

	"github.com/alicebob/miniredis/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

const testSecret = "test-secret-at-least-32-characters!!"

func testConfig() *config.Config {
	return &config.Config{
		Env:                    "test",
		Port:                   "0",
		JWTSecret:              testSecret,
		ProfileCacheSize:       100,
		ProfileCacheTTLSeconds: 60,
	}
}

func newTestServer(t *testing.T, rdb *redis.Client) (*fiber.App, *gorm.DB) {
	t.Helper()
	db := testutil.NewSQLiteDB(t)
	s, err := NewServerWithDeps(testConfig(), db, rdb)
	require.NoError(t, err)
	return s.App(), db
}

func mintToken(t *testing.T, sub, username string) string {
	t.Helper()
	claims := jwt.MapClaims{
		"sub": sub,
		"exp": time.Now().Add(time.Hour).Unix(),
	}
	if username != "" {
		claims["username"] = username
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	require.NoError(t, err)
	return signed
}

func doRequest(t *testing.T, app *fiber.App, method, path, token string, body any) (*http.Response, []byte) {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, raw
}

func TestAuthRequired(t *testing.T) {
	app, _ := newTestServer(t, nil)
	payload := map[string]string{"title": "t", "description": "d", "tag": "EVENT"}

	tests := []struct {
		name  string
		token string
	}{
		{"missing token", ""},
		{"garbage token", "not-a-jwt"},
		{"wrong secret", func() string {
			signed, _ := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
				"sub": "user-1",
				"exp": time.Now().Add(time.Hour).Unix(),
			}).SignedString([]byte("some-other-secret-of-sufficient-size"))
			return signed
		}()},
		{"subject wider than user id", mintToken(t, strings.Repeat("x", 65), "")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, raw := doRequest(t, app, http.MethodPost, "/api/entries", tt.token, payload)
			assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

			var body models.ErrorResponse
			require.NoError(t, json.Unmarshal(raw, &body))
			assert.Equal(t, "Authentication required", body.Error)
			assert.Equal(t, models.CodeUnauthorized, body.Code)
		})
	}
}

func TestCreateAndListEntries(t *testing.T) {
	app, _ := newTestServer(t, nil)
	token := mintToken(t, "user_2abcdefghij", "")

	resp, raw := doRequest(t, app, http.MethodPost, "/api/entries", token, map[string]string{
		"title":       "Potluck",
		"description": "Bring a dish",
		"tag":         "EVENT",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(raw))

	var created models.Entry
	require.NoError(t, json.Unmarshal(raw, &created))
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, "user_2abcdefghij", created.AuthorID)
	assert.Equal(t, models.TagEvent, created.Tag)

	resp, raw = doRequest(t, app, http.MethodPost, "/api/entries", token, map[string]string{
		"title": "No tag",
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Contains(t, string(raw), "Missing required fields or invalid tag")

	resp, _ = doRequest(t, app, http.MethodPost, "/api/entries", token, map[string]string{
		"title":       "Rave",
		"description": "All night",
		"tag":         "PARTY",
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, raw = doRequest(t, app, http.MethodGet, "/api/entries?sort=top", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var feed []models.Entry
	require.NoError(t, json.Unmarshal(raw, &feed))
	require.Len(t, feed, 1)
	require.NotNil(t, feed[0].Author)
	assert.Equal(t, "User 2abc", feed[0].Author.Username)
	assert.Equal(t, int64(0), feed[0].UpvoteCount)
}

func TestListEntries_EmptyFeedIsArray(t *testing.T) {
	app, _ := newTestServer(t, nil)

	resp, raw := doRequest(t, app, http.MethodGet, "/api/entries", "", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `[]`, string(raw))
}

func TestToggleUpvote(t *testing.T) {
	app, db := newTestServer(t, nil)
	testutil.SeedUser(t, db, "author", models.RoleUser, "Author")
	entry := testutil.SeedEntry(t, db, "author", "Garden day")
	token := mintToken(t, "voter", "Voter")
	path := "/api/entries/" + entry.ID + "/upvote"

	resp, raw := doRequest(t, app, http.MethodPost, path, token, nil)
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(raw))
	assert.JSONEq(t, `{"message":"Upvote added","upvoteCount":1}`, string(raw))

	resp, raw = doRequest(t, app, http.MethodPost, path, token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode, string(raw))
	assert.JSONEq(t, `{"message":"Upvote removed","upvoteCount":0}`, string(raw))

	resp, _ = doRequest(t, app, http.MethodPost, "/api/entries/missing-entry/upvote", token, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, raw = doRequest(t, app, http.MethodPost, "/api/entries/bad$id/upvote", token, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Contains(t, string(raw), "Invalid entry ID")
}

func TestDeleteEntry_StoreRoleGate(t *testing.T) {
	app, db := newTestServer(t, nil)
	testutil.SeedUser(t, db, "admin-1", models.RoleAdmin, "Ada")
	testutil.SeedUser(t, db, "member-1", models.RoleUser, "Max")
	entry := testutil.SeedEntry(t, db, "member-1", "Lost cat")

	resp, raw := doRequest(t, app, http.MethodDelete, "/api/entries/"+entry.ID, mintToken(t, "member-1", ""), nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	assert.Contains(t, string(raw), `"error":"Forbidden"`)

	// Callers without a stored user row are never admins.
	resp, _ = doRequest(t, app, http.MethodDelete, "/api/entries/"+entry.ID, mintToken(t, "stranger", ""), nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	adminToken := mintToken(t, "admin-1", "")
	resp, raw = doRequest(t, app, http.MethodDelete, "/api/entries/"+entry.ID, adminToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode, string(raw))
	assert.JSONEq(t, `{"message":"Entry deleted successfully"}`, string(raw))

	resp, _ = doRequest(t, app, http.MethodDelete, "/api/entries/"+entry.ID, adminToken, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestComments(t *testing.T) {
	app, db := newTestServer(t, nil)
	testutil.SeedUser(t, db, "author", models.RoleUser, "Author")
	entry := testutil.SeedEntry(t, db, "author", "Book swap")
	token := mintToken(t, "reader", "Reader")

	resp, raw := doRequest(t, app, http.MethodPost, "/api/comments", token, map[string]string{
		"entryId": entry.ID,
		"content": "Count me in",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(raw))

	var created models.Comment
	require.NoError(t, json.Unmarshal(raw, &created))
	assert.Equal(t, entry.ID, created.EntryID)
	require.NotNil(t, created.Author)
	assert.Equal(t, "Reader", created.Author.Username)

	resp, _ = doRequest(t, app, http.MethodPost, "/api/comments", token, map[string]string{
		"entryId": entry.ID,
		"content": strings.Repeat("x", models.MaxCommentLength+1),
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, _ = doRequest(t, app, http.MethodPost, "/api/comments", token, map[string]string{
		"entryId": "no-such-entry",
		"content": "hello",
	})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, raw = doRequest(t, app, http.MethodGet, "/api/comments?entryId="+entry.ID, "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var listed []models.Comment
	require.NoError(t, json.Unmarshal(raw, &listed))
	require.Len(t, listed, 1)
	assert.Equal(t, "Count me in", listed[0].Content)

	resp, raw = doRequest(t, app, http.MethodGet, "/api/comments", "", nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Contains(t, string(raw), "Entry ID is required")
}

func TestHealthChecks(t *testing.T) {
	t.Run("liveness", func(t *testing.T) {
		app, _ := newTestServer(t, nil)
		resp, _ := doRequest(t, app, http.MethodGet, "/health/live", "", nil)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
	})

	t.Run("readiness without redis", func(t *testing.T) {
		app, _ := newTestServer(t, nil)
		resp, raw := doRequest(t, app, http.MethodGet, "/health/ready", "", nil)
		assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
		assert.Contains(t, string(raw), `"redis":"unavailable"`)
	})

	t.Run("readiness with redis", func(t *testing.T) {
		mr := miniredis.RunT(t)
		rdb, err := cache.NewClient(mr.Addr())
		require.NoError(t, err)
		defer func() { _ = rdb.Close() }()

		app, _ := newTestServer(t, rdb)
		resp, raw := doRequest(t, app, http.MethodGet, "/health/ready", "", nil)
		assert.Equal(t, http.StatusOK, resp.StatusCode, string(raw))
	})
}

func TestWriteActionsPublishEvents(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb, err := cache.NewClient(mr.Addr())
	require.NoError(t, err)
	defer func() { _ = rdb.Close() }()

	app, db := newTestServer(t, rdb)
	testutil.SeedUser(t, db, "author", models.RoleUser, "Author")
	entry := testutil.SeedEntry(t, db, "author", "Choir practice")

	sub := rdb.Subscribe(t.Context(), "notifications:broadcast")
	defer func() { _ = sub.Close() }()
	_, err = sub.Receive(t.Context())
	require.NoError(t, err)

	resp, _ := doRequest(t, app, http.MethodPost, "/api/entries/"+entry.ID+"/upvote", mintToken(t, "voter", ""), nil)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	select {
	case msg := <-sub.Channel():
		assert.Contains(t, msg.Payload, `"type":"entry_upvoted"`)
	case <-time.After(2 * time.Second):
		t.Fatal("no event published")
	}
}
