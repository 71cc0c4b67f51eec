package store

import (
	"context"
	"errors"
	"strings"
)

// ErrNotFound is returned when a requested entity does not exist.
var ErrNotFound = errors.New("not found")

// BookmarkStoreIface exposes all bookmark data operations.
// No handler MAY query the DB directly; all access goes through this interface.
// The store carries no authorization logic — owner-scoped statements exist
// only so the service can fold the ownership predicate into the mutation.
type BookmarkStoreIface interface {
	Create(ctx context.Context, userID, url, title string) (*Bookmark, error)
	GetByID(ctx context.Context, id string) (*Bookmark, error)
	ListByUser(ctx context.Context, userID string, limit, offset int) ([]*Bookmark, error)
	CountByUser(ctx context.Context, userID string) (int, error)
	Update(ctx context.Context, id string, patch BookmarkPatch) (*Bookmark, error)
	UpdateOwned(ctx context.Context, id, userID string, patch BookmarkPatch) (*Bookmark, error)
	Delete(ctx context.Context, id string) (*Bookmark, error)
	DeleteOwned(ctx context.Context, id, userID string) (*Bookmark, error)
}

// TagStoreIface exposes tag operations. Tag names are scoped per user, not
// globally unique.
type TagStoreIface interface {
	Upsert(ctx context.Context, userID, name string) (*Tag, error)
	SetForBookmark(ctx context.Context, bookmarkID, userID string, names []string) error
	ListForBookmark(ctx context.Context, bookmarkID string) ([]*Tag, error)
	ListByUser(ctx context.Context, userID string) ([]*Tag, error)
	DeleteOwned(ctx context.Context, id, userID string) error
}

// isUniqueConstraintError reports whether err is a unique-constraint violation
// from any of the supported drivers.
func isUniqueConstraintError(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "unique constraint") || // SQLite & PostgreSQL
		strings.Contains(msg, "duplicate key") || // PostgreSQL
		strings.Contains(msg, "duplicate entry") // MySQL
}
