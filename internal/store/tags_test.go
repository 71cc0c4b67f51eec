package store_test

import (
	"context"
	"testing"

	"github.com/shelfd/shelfd/internal/store"
	"github.com/shelfd/shelfd/internal/testutil"
)

func newTagTestEnv(t *testing.T) (*store.TagStore, *store.BookmarkStore, *store.UserStore) {
	t.Helper()
	db := testutil.NewTestDB(t)
	return store.NewTagStore(db), store.NewBookmarkStore(db), store.NewUserStore(db)
}

func seedTagUser(t *testing.T, us *store.UserStore, email string) string {
	t.Helper()
	u, err := us.Upsert(context.Background(), "test", "sub-"+email, email, "Test User")
	if err != nil {
		t.Fatalf("seed user: %v", err)
	}
	return u.ID
}

func TestTagStore_Upsert_Idempotent(t *testing.T) {
	ts, _, us := newTagTestEnv(t)
	ctx := context.Background()
	userID := seedTagUser(t, us, "alice@example.com")

	first, err := ts.Upsert(ctx, userID, "golang")
	if err != nil {
		t.Fatalf("Upsert: %v", err)
	}
	second, err := ts.Upsert(ctx, userID, "golang")
	if err != nil {
		t.Fatalf("second Upsert: %v", err)
	}
	if first.ID != second.ID {
		t.Errorf("IDs differ: %q vs %q, want same tag", first.ID, second.ID)
	}

	trimmed, err := ts.Upsert(ctx, userID, "  golang  ")
	if err != nil {
		t.Fatalf("trimmed Upsert: %v", err)
	}
	if trimmed.ID != first.ID {
		t.Errorf("trimmed name created a new tag: %q vs %q", trimmed.ID, first.ID)
	}
}

func TestTagStore_Upsert_PerUserNamespace(t *testing.T) {
	ts, _, us := newTagTestEnv(t)
	ctx := context.Background()
	alice := seedTagUser(t, us, "alice@example.com")
	bob := seedTagUser(t, us, "bob@example.com")

	ta, err := ts.Upsert(ctx, alice, "reading")
	if err != nil {
		t.Fatalf("Upsert alice: %v", err)
	}
	tb, err := ts.Upsert(ctx, bob, "reading")
	if err != nil {
		t.Fatalf("Upsert bob: %v", err)
	}
	if ta.ID == tb.ID {
		t.Error("same tag row shared across users, want per-user rows")
	}

	aliceTags, err := ts.ListByUser(ctx, alice)
	if err != nil {
		t.Fatalf("ListByUser: %v", err)
	}
	if len(aliceTags) != 1 || aliceTags[0].ID != ta.ID {
		t.Errorf("alice tags = %+v, want only her own", aliceTags)
	}
}

func TestTagStore_SetForBookmark_Replace(t *testing.T) {
	ts, bs, us := newTagTestEnv(t)
	ctx := context.Background()
	userID := seedTagUser(t, us, "alice@example.com")

	b, err := bs.Create(ctx, userID, "https://example.com/x", "")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	if err := ts.SetForBookmark(ctx, b.ID, userID, []string{"one", "two"}); err != nil {
		t.Fatalf("SetForBookmark: %v", err)
	}
	if err := ts.SetForBookmark(ctx, b.ID, userID, []string{"three"}); err != nil {
		t.Fatalf("second SetForBookmark: %v", err)
	}

	tags, err := ts.ListForBookmark(ctx, b.ID)
	if err != nil {
		t.Fatalf("ListForBookmark: %v", err)
	}
	if len(tags) != 1 || tags[0].Name != "three" {
		t.Errorf("tags = %+v, want only three", tags)
	}

	// The replaced tag rows themselves survive in the user's namespace.
	all, err := ts.ListByUser(ctx, userID)
	if err != nil {
		t.Fatalf("ListByUser: %v", err)
	}
	if len(all) != 3 {
		t.Errorf("user tags = %d, want 3", len(all))
	}
}

func TestTagStore_SetForBookmark_SkipsBlank(t *testing.T) {
	ts, bs, us := newTagTestEnv(t)
	ctx := context.Background()
	userID := seedTagUser(t, us, "alice@example.com")

	b, err := bs.Create(ctx, userID, "https://example.com/x", "")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	if err := ts.SetForBookmark(ctx, b.ID, userID, []string{"real", "", "   "}); err != nil {
		t.Fatalf("SetForBookmark: %v", err)
	}

	tags, err := ts.ListForBookmark(ctx, b.ID)
	if err != nil {
		t.Fatalf("ListForBookmark: %v", err)
	}
	if len(tags) != 1 || tags[0].Name != "real" {
		t.Errorf("tags = %+v, want only real", tags)
	}
}

func TestTagStore_DeleteOwned(t *testing.T) {
	ts, bs, us := newTagTestEnv(t)
	ctx := context.Background()
	alice := seedTagUser(t, us, "alice@example.com")
	bob := seedTagUser(t, us, "bob@example.com")

	b, err := bs.Create(ctx, alice, "https://example.com/x", "")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := ts.SetForBookmark(ctx, b.ID, alice, []string{"keep", "drop"}); err != nil {
		t.Fatalf("SetForBookmark: %v", err)
	}

	tags, err := ts.ListByUser(ctx, alice)
	if err != nil {
		t.Fatalf("ListByUser: %v", err)
	}
	var dropID string
	for _, tag := range tags {
		if tag.Name == "drop" {
			dropID = tag.ID
		}
	}

	// Non-owner delete fails and leaves the tag alone.
	if err := ts.DeleteOwned(ctx, dropID, bob); err != store.ErrNotFound {
		t.Errorf("DeleteOwned by non-owner = %v, want ErrNotFound", err)
	}

	if err := ts.DeleteOwned(ctx, dropID, alice); err != nil {
		t.Fatalf("DeleteOwned: %v", err)
	}

	// The association cascaded away; the bookmark keeps its other tag.
	remaining, err := ts.ListForBookmark(ctx, b.ID)
	if err != nil {
		t.Fatalf("ListForBookmark: %v", err)
	}
	if len(remaining) != 1 || remaining[0].Name != "keep" {
		t.Errorf("remaining tags = %+v, want only keep", remaining)
	}
	if _, err := bs.GetByID(ctx, b.ID); err != nil {
		t.Errorf("bookmark should survive tag deletion: %v", err)
	}
}

func TestTagStore_ListForBookmark_SortedByName(t *testing.T) {
	ts, bs, us := newTagTestEnv(t)
	ctx := context.Background()
	userID := seedTagUser(t, us, "alice@example.com")

	b, err := bs.Create(ctx, userID, "https://example.com/x", "")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := ts.SetForBookmark(ctx, b.ID, userID, []string{"zebra", "apple", "mango"}); err != nil {
		t.Fatalf("SetForBookmark: %v", err)
	}

	tags, err := ts.ListForBookmark(ctx, b.ID)
	if err != nil {
		t.Fatalf("ListForBookmark: %v", err)
	}
	want := []string{"apple", "mango", "zebra"}
	for i, w := range want {
		if tags[i].Name != w {
			t.Errorf("tags[%d] = %q, want %q", i, tags[i].Name, w)
		}
	}
}
