package api_test

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/shelfd/shelfd/internal/api"
	"github.com/shelfd/shelfd/internal/auth"
	"github.com/shelfd/shelfd/internal/bookmarks"
	"github.com/shelfd/shelfd/internal/store"
	"github.com/shelfd/shelfd/internal/testutil"
)

// testEnv holds all stores and helpers needed for API integration tests.
type testEnv struct {
	Router        http.Handler
	BookmarkStore *store.BookmarkStore
	TagStore      *store.TagStore
	UserStore     *store.UserStore
	TokenStore    *auth.SQLTokenStore
	Service       *bookmarks.Service
}

// newTestEnv creates an in-memory SQLite test database, runs migrations,
// and wires up the full API router with real stores.
func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	db := testutil.NewTestDB(t)

	bs := store.NewBookmarkStore(db)
	tags := store.NewTagStore(db)
	us := store.NewUserStore(db)
	ts := auth.NewSQLTokenStore(db)
	svc := bookmarks.NewService(bs, tags)

	sessions := auth.NewSessionManager(db, "sqlite3", time.Hour, false)
	bearer := auth.NewBearerTokenMiddleware(ts, us)
	mw := auth.NewMiddleware(sessions, us, bearer)

	router := api.NewAPIRouter(api.Deps{
		Auth:       mw,
		Bookmarks:  svc,
		TagStore:   tags,
		TokenStore: ts,
	})

	return &testEnv{
		// LoadAndSave mirrors the outer router so session fallback works.
		Router:        sessions.LoadAndSave(router),
		BookmarkStore: bs,
		TagStore:      tags,
		UserStore:     us,
		TokenStore:    ts,
		Service:       svc,
	}
}

// seedUser creates a user and returns the user record.
func seedUser(t *testing.T, env *testEnv, email string) *store.User {
	t.Helper()
	u, err := env.UserStore.Upsert(context.Background(), "test", "sub-"+email, email, "Test User")
	if err != nil {
		t.Fatalf("seed user: %v", err)
	}
	return u
}

// seedToken creates a real API token for a user and returns the plaintext Bearer value.
func seedToken(t *testing.T, env *testEnv, userID string) string {
	t.Helper()
	plaintext, hash, err := auth.GenerateToken()
	if err != nil {
		t.Fatalf("generate token: %v", err)
	}
	_, err = env.TokenStore.Create(context.Background(), userID, "test-token", hash, nil)
	if err != nil {
		t.Fatalf("create token: %v", err)
	}
	return plaintext
}

// seedBookmark creates a bookmark owned by userID.
func seedBookmark(t *testing.T, env *testEnv, userID, url, title string) *store.Bookmark {
	t.Helper()
	b, err := env.Service.Create(context.Background(), userID, bookmarks.CreateInput{URL: url, Title: title})
	if err != nil {
		t.Fatalf("seed bookmark: %v", err)
	}
	return b
}

// authRequest adds a Bearer token to the request.
func authRequest(r *http.Request, token string) *http.Request {
	r.Header.Set("Authorization", "Bearer "+token)
	return r
}
