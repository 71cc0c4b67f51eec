// Package bookmarks holds the service layer for bookmark access. It is the
// only place that decides whether a bookmark is visible or mutable for a
// given caller; neither the stores below it nor the HTTP handlers above it
// repeat that decision.
package bookmarks

import (
	"context"
	"strings"

	"github.com/shelfd/shelfd/internal/store"
)

// Pagination bounds for List. Out-of-contract values are clamped rather than
// rejected — the HTTP layer rejects them before they get here, but the
// service never trusts that.
const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// Page is one window of a user's bookmarks together with the total count.
// The window and the count are two independent reads over the same committed
// state: under concurrent writes they may observe different snapshots. That
// relaxation is deliberate; see List.
type Page struct {
	Bookmarks []*store.Bookmark
	Total     int
	Page      int
	Limit     int
}

// CreateInput carries the caller-supplied fields of a create request. The
// owner is never part of it — it always comes from the authenticated caller.
type CreateInput struct {
	URL   string
	Title string
}

// Service enforces ownership and pagination semantics over the bookmark and
// tag stores.
type Service struct {
	bookmarks store.BookmarkStoreIface
	tags      store.TagStoreIface
}

func NewService(bookmarks store.BookmarkStoreIface, tags store.TagStoreIface) *Service {
	return &Service{bookmarks: bookmarks, tags: tags}
}

// List returns the page-th window of userID's bookmarks plus the total count.
// page is 1-indexed; limit is clamped to [1, MaxPageSize]. The window fetch
// and the count are issued as two separate statements without a shared
// transaction, so a concurrent delete can make them disagree by a row or two.
// Callers get eventual consistency between the two, not a snapshot.
func (s *Service) List(ctx context.Context, userID string, page, limit int) (*Page, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = DefaultPageSize
	}
	if limit > MaxPageSize {
		limit = MaxPageSize
	}
	offset := (page - 1) * limit

	items, err := s.bookmarks.ListByUser(ctx, userID, limit, offset)
	if err != nil {
		return nil, err
	}
	total, err := s.bookmarks.CountByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	return &Page{Bookmarks: items, Total: total, Page: page, Limit: limit}, nil
}

// authorize fetches id and applies the single ownership guard shared by Get,
// Update, Delete, and the tag operations: a bookmark that does not exist and
// a bookmark owned by someone else both come back as ErrNotFound, so a caller
// can never learn whether another user's bookmark exists.
func (s *Service) authorize(ctx context.Context, id, userID string) (*store.Bookmark, error) {
	b, err := s.bookmarks.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if b.UserID != userID {
		return nil, store.ErrNotFound
	}
	return b, nil
}

// Get returns the bookmark if it exists and belongs to userID, else
// store.ErrNotFound.
func (s *Service) Get(ctx context.Context, id, userID string) (*store.Bookmark, error) {
	return s.authorize(ctx, id, userID)
}

// Create saves a new bookmark for userID. An absent or blank title defaults
// to the URL.
func (s *Service) Create(ctx context.Context, userID string, in CreateInput) (*store.Bookmark, error) {
	title := strings.TrimSpace(in.Title)
	if title == "" {
		title = in.URL
	}
	return s.bookmarks.Create(ctx, userID, in.URL, title)
}

// Update applies the patch to the bookmark if it belongs to userID. The
// ownership check runs first for the anti-leak contract, and the predicate is
// additionally folded into the UPDATE itself so a bookmark deleted between
// check and write surfaces as ErrNotFound instead of a silent lost update.
func (s *Service) Update(ctx context.Context, id, userID string, patch store.BookmarkPatch) (*store.Bookmark, error) {
	if _, err := s.authorize(ctx, id, userID); err != nil {
		return nil, err
	}
	return s.bookmarks.UpdateOwned(ctx, id, userID, patch)
}

// Delete removes the bookmark if it belongs to userID and returns the removed
// record. Association rows cascade away with it.
func (s *Service) Delete(ctx context.Context, id, userID string) (*store.Bookmark, error) {
	if _, err := s.authorize(ctx, id, userID); err != nil {
		return nil, err
	}
	return s.bookmarks.DeleteOwned(ctx, id, userID)
}

// SetTags replaces the tag set on a bookmark owned by userID.
func (s *Service) SetTags(ctx context.Context, id, userID string, names []string) ([]*store.Tag, error) {
	if _, err := s.authorize(ctx, id, userID); err != nil {
		return nil, err
	}
	if err := s.tags.SetForBookmark(ctx, id, userID, names); err != nil {
		return nil, err
	}
	return s.tags.ListForBookmark(ctx, id)
}

// ListTags returns the tags on a bookmark owned by userID.
func (s *Service) ListTags(ctx context.Context, id, userID string) ([]*store.Tag, error) {
	if _, err := s.authorize(ctx, id, userID); err != nil {
		return nil, err
	}
	return s.tags.ListForBookmark(ctx, id)
}
