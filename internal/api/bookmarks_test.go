package api_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/shelfd/shelfd/internal/api"
)

func doJSON(t *testing.T, env *testEnv, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	if token != "" {
		req = authRequest(req, token)
	}
	rec := httptest.NewRecorder()
	env.Router.ServeHTTP(rec, req)
	return rec
}

func decodeBody[T any](t *testing.T, rec *httptest.ResponseRecorder) *T {
	t.Helper()
	var v T
	if err := json.NewDecoder(rec.Body).Decode(&v); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return &v
}

func TestBookmarksAPI_Unauthenticated(t *testing.T) {
	env := newTestEnv(t)

	rec := doJSON(t, env, "GET", "/bookmarks", "", nil)
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusUnauthorized)
	}
}

func TestBookmarksAPI_Create(t *testing.T) {
	env := newTestEnv(t)
	user := seedUser(t, env, "alice@example.com")
	token := seedToken(t, env, user.ID)

	rec := doJSON(t, env, "POST", "/bookmarks", token, map[string]string{
		"url":   "https://example.com/article",
		"title": "An Article",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want %d: %s", rec.Code, http.StatusCreated, rec.Body.String())
	}

	b := decodeBody[api.BookmarkResponse](t, rec)
	if b.URL != "https://example.com/article" {
		t.Errorf("URL = %q", b.URL)
	}
	if b.Title != "An Article" {
		t.Errorf("Title = %q", b.Title)
	}
	if b.Status != "processing" {
		t.Errorf("Status = %q, want %q", b.Status, "processing")
	}
	if b.ID == "" {
		t.Error("expected non-empty ID")
	}
}

func TestBookmarksAPI_Create_TitleDefaultsToURL(t *testing.T) {
	env := newTestEnv(t)
	user := seedUser(t, env, "alice@example.com")
	token := seedToken(t, env, user.ID)

	rec := doJSON(t, env, "POST", "/bookmarks", token, map[string]string{
		"url": "https://example.com/untitled",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusCreated)
	}

	b := decodeBody[api.BookmarkResponse](t, rec)
	if b.Title != "https://example.com/untitled" {
		t.Errorf("Title = %q, want URL fallback", b.Title)
	}
}

func TestBookmarksAPI_Create_Validation(t *testing.T) {
	env := newTestEnv(t)
	user := seedUser(t, env, "alice@example.com")
	token := seedToken(t, env, user.ID)

	cases := []struct {
		name string
		body map[string]string
	}{
		{"missing url", map[string]string{"title": "no url"}},
		{"relative url", map[string]string{"url": "/just/a/path"}},
		{"bad scheme", map[string]string{"url": "ftp://example.com/file"}},
		{"title too long", map[string]string{"url": "https://example.com", "title": strings.Repeat("x", 201)}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := doJSON(t, env, "POST", "/bookmarks", token, tc.body)
			if rec.Code != http.StatusBadRequest {
				t.Errorf("status = %d, want %d", rec.Code, http.StatusBadRequest)
			}
		})
	}
}

func TestBookmarksAPI_GetOwnership(t *testing.T) {
	env := newTestEnv(t)
	alice := seedUser(t, env, "alice@example.com")
	bob := seedUser(t, env, "bob@example.com")
	aliceToken := seedToken(t, env, alice.ID)
	bobToken := seedToken(t, env, bob.ID)

	b := seedBookmark(t, env, alice.ID, "https://example.com/mine", "Mine")

	rec := doJSON(t, env, "GET", "/bookmarks/"+b.ID, aliceToken, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("owner get: status = %d, want %d", rec.Code, http.StatusOK)
	}

	// Another user's bookmark is indistinguishable from a missing one.
	rec = doJSON(t, env, "GET", "/bookmarks/"+b.ID, bobToken, nil)
	if rec.Code != http.StatusNotFound {
		t.Errorf("cross-user get: status = %d, want %d", rec.Code, http.StatusNotFound)
	}

	rec = doJSON(t, env, "GET", "/bookmarks/nonexistent-id", aliceToken, nil)
	if rec.Code != http.StatusNotFound {
		t.Errorf("missing get: status = %d, want %d", rec.Code, http.StatusNotFound)
	}
}

func TestBookmarksAPI_List_Pagination(t *testing.T) {
	env := newTestEnv(t)
	user := seedUser(t, env, "alice@example.com")
	token := seedToken(t, env, user.ID)

	for i := 0; i < 25; i++ {
		seedBookmark(t, env, user.ID, fmt.Sprintf("https://example.com/%d", i), fmt.Sprintf("Bookmark %d", i))
	}

	rec := doJSON(t, env, "GET", "/bookmarks?page=2&limit=10", token, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}
	resp := decodeBody[api.BookmarkListResponse](t, rec)
	if len(resp.Bookmarks) != 10 {
		t.Errorf("page 2 len = %d, want 10", len(resp.Bookmarks))
	}
	if resp.Total != 25 {
		t.Errorf("total = %d, want 25", resp.Total)
	}
	if resp.Page != 2 || resp.Limit != 10 {
		t.Errorf("page/limit = %d/%d, want 2/10", resp.Page, resp.Limit)
	}

	rec = doJSON(t, env, "GET", "/bookmarks?page=3&limit=10", token, nil)
	resp = decodeBody[api.BookmarkListResponse](t, rec)
	if len(resp.Bookmarks) != 5 {
		t.Errorf("page 3 len = %d, want 5", len(resp.Bookmarks))
	}

	// Beyond the last page: empty list, same total.
	rec = doJSON(t, env, "GET", "/bookmarks?page=4&limit=10", token, nil)
	resp = decodeBody[api.BookmarkListResponse](t, rec)
	if len(resp.Bookmarks) != 0 {
		t.Errorf("page 4 len = %d, want 0", len(resp.Bookmarks))
	}
	if resp.Total != 25 {
		t.Errorf("page 4 total = %d, want 25", resp.Total)
	}
}

func TestBookmarksAPI_List_Defaults(t *testing.T) {
	env := newTestEnv(t)
	user := seedUser(t, env, "alice@example.com")
	token := seedToken(t, env, user.ID)

	for i := 0; i < 25; i++ {
		seedBookmark(t, env, user.ID, fmt.Sprintf("https://example.com/%d", i), "")
	}

	rec := doJSON(t, env, "GET", "/bookmarks", token, nil)
	resp := decodeBody[api.BookmarkListResponse](t, rec)
	if len(resp.Bookmarks) != 20 {
		t.Errorf("default page len = %d, want 20", len(resp.Bookmarks))
	}
	if resp.Page != 1 || resp.Limit != 20 {
		t.Errorf("page/limit = %d/%d, want 1/20", resp.Page, resp.Limit)
	}
}

func TestBookmarksAPI_List_BadPagination(t *testing.T) {
	env := newTestEnv(t)
	user := seedUser(t, env, "alice@example.com")
	token := seedToken(t, env, user.ID)

	for _, q := range []string{
		"page=0",
		"page=-1",
		"page=abc",
		"limit=0",
		"limit=101",
		"limit=abc",
	} {
		rec := doJSON(t, env, "GET", "/bookmarks?"+q, token, nil)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("%s: status = %d, want %d", q, rec.Code, http.StatusBadRequest)
		}
	}
}

func TestBookmarksAPI_List_Isolation(t *testing.T) {
	env := newTestEnv(t)
	alice := seedUser(t, env, "alice@example.com")
	bob := seedUser(t, env, "bob@example.com")
	aliceToken := seedToken(t, env, alice.ID)
	bobToken := seedToken(t, env, bob.ID)

	seedBookmark(t, env, alice.ID, "https://example.com/a1", "")
	seedBookmark(t, env, alice.ID, "https://example.com/a2", "")
	seedBookmark(t, env, bob.ID, "https://example.com/b1", "")

	rec := doJSON(t, env, "GET", "/bookmarks", aliceToken, nil)
	resp := decodeBody[api.BookmarkListResponse](t, rec)
	if resp.Total != 2 || len(resp.Bookmarks) != 2 {
		t.Errorf("alice total/len = %d/%d, want 2/2", resp.Total, len(resp.Bookmarks))
	}

	rec = doJSON(t, env, "GET", "/bookmarks", bobToken, nil)
	resp = decodeBody[api.BookmarkListResponse](t, rec)
	if resp.Total != 1 || len(resp.Bookmarks) != 1 {
		t.Errorf("bob total/len = %d/%d, want 1/1", resp.Total, len(resp.Bookmarks))
	}
}

func TestBookmarksAPI_Update(t *testing.T) {
	env := newTestEnv(t)
	user := seedUser(t, env, "alice@example.com")
	token := seedToken(t, env, user.ID)
	b := seedBookmark(t, env, user.ID, "https://example.com/old", "Old Title")

	rec := doJSON(t, env, "PATCH", "/bookmarks/"+b.ID, token, map[string]string{
		"title":  "New Title",
		"status": "completed",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d: %s", rec.Code, http.StatusOK, rec.Body.String())
	}

	got := decodeBody[api.BookmarkResponse](t, rec)
	if got.Title != "New Title" {
		t.Errorf("Title = %q, want %q", got.Title, "New Title")
	}
	if got.Status != "completed" {
		t.Errorf("Status = %q, want %q", got.Status, "completed")
	}
	// Unspecified fields are untouched.
	if got.URL != "https://example.com/old" {
		t.Errorf("URL = %q, want unchanged", got.URL)
	}
}

func TestBookmarksAPI_Update_InvalidStatus(t *testing.T) {
	env := newTestEnv(t)
	user := seedUser(t, env, "alice@example.com")
	token := seedToken(t, env, user.ID)
	b := seedBookmark(t, env, user.ID, "https://example.com/x", "")

	rec := doJSON(t, env, "PATCH", "/bookmarks/"+b.ID, token, map[string]string{
		"status": "archived",
	})
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusBadRequest)
	}
}

func TestBookmarksAPI_Update_CrossUser(t *testing.T) {
	env := newTestEnv(t)
	alice := seedUser(t, env, "alice@example.com")
	bob := seedUser(t, env, "bob@example.com")
	bobToken := seedToken(t, env, bob.ID)
	b := seedBookmark(t, env, alice.ID, "https://example.com/a", "Alice's")

	rec := doJSON(t, env, "PATCH", "/bookmarks/"+b.ID, bobToken, map[string]string{
		"title": "Hijacked",
	})
	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusNotFound)
	}
}

func TestBookmarksAPI_Delete(t *testing.T) {
	env := newTestEnv(t)
	user := seedUser(t, env, "alice@example.com")
	token := seedToken(t, env, user.ID)
	b := seedBookmark(t, env, user.ID, "https://example.com/doomed", "Doomed")

	rec := doJSON(t, env, "DELETE", "/bookmarks/"+b.ID, token, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}
	got := decodeBody[api.BookmarkResponse](t, rec)
	if got.ID != b.ID {
		t.Errorf("deleted ID = %q, want %q", got.ID, b.ID)
	}

	// Gone now.
	rec = doJSON(t, env, "GET", "/bookmarks/"+b.ID, token, nil)
	if rec.Code != http.StatusNotFound {
		t.Errorf("get after delete: status = %d, want %d", rec.Code, http.StatusNotFound)
	}

	// Delete is not idempotent.
	rec = doJSON(t, env, "DELETE", "/bookmarks/"+b.ID, token, nil)
	if rec.Code != http.StatusNotFound {
		t.Errorf("second delete: status = %d, want %d", rec.Code, http.StatusNotFound)
	}
}

func TestBookmarksAPI_Delete_CrossUser(t *testing.T) {
	env := newTestEnv(t)
	alice := seedUser(t, env, "alice@example.com")
	bob := seedUser(t, env, "bob@example.com")
	aliceToken := seedToken(t, env, alice.ID)
	bobToken := seedToken(t, env, bob.ID)
	b := seedBookmark(t, env, alice.ID, "https://example.com/a", "Alice's")

	rec := doJSON(t, env, "DELETE", "/bookmarks/"+b.ID, bobToken, nil)
	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusNotFound)
	}

	// Still there for the owner.
	rec = doJSON(t, env, "GET", "/bookmarks/"+b.ID, aliceToken, nil)
	if rec.Code != http.StatusOK {
		t.Errorf("owner get after failed delete: status = %d, want %d", rec.Code, http.StatusOK)
	}
}
