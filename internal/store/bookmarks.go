package store

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

// Bookmark statuses. A bookmark starts as "processing" and is moved to
// "completed" or "failed" by the ingestion pipeline; the store only persists
// whatever value it is given.
const (
	StatusProcessing = "processing"
	StatusCompleted  = "completed"
	StatusFailed     = "failed"
)

// Bookmark represents a row in the bookmarks table.
type Bookmark struct {
	ID            string         `db:"id"`
	UserID        string         `db:"user_id"`
	URL           string         `db:"url"`
	Title         string         `db:"title"`
	Content       sql.NullString `db:"content"`
	Summary       sql.NullString `db:"summary"`
	OGImage       sql.NullString `db:"og_image"`
	OGDescription sql.NullString `db:"og_description"`
	Status        string         `db:"status"`
	CreatedAt     time.Time      `db:"created_at"`
	UpdatedAt     time.Time      `db:"updated_at"`
}

// BookmarkPatch carries the mutable fields of an update. Nil fields are left
// untouched; id, user_id, and created_at can never be patched.
type BookmarkPatch struct {
	URL           *string
	Title         *string
	Content       *string
	Summary       *string
	OGImage       *string
	OGDescription *string
	Status        *string
}

func (p BookmarkPatch) clauses() (sets []string, args []interface{}) {
	add := func(col string, v *string) {
		if v != nil {
			sets = append(sets, col+" = ?")
			args = append(args, *v)
		}
	}
	add("url", p.URL)
	add("title", p.Title)
	add("content", p.Content)
	add("summary", p.Summary)
	add("og_image", p.OGImage)
	add("og_description", p.OGDescription)
	add("status", p.Status)
	return sets, args
}

// BookmarkStore is the sqlx-backed implementation of BookmarkStoreIface.
type BookmarkStore struct {
	db *sqlx.DB
}

func NewBookmarkStore(db *sqlx.DB) *BookmarkStore {
	return &BookmarkStore{db: db}
}

// q rebinds ? placeholders to the driver's native format ($1,$2,... for PostgreSQL).
func (s *BookmarkStore) q(query string) string { return s.db.Rebind(query) }

// Create inserts a new bookmark owned by userID. The id and both timestamps
// are assigned here; status starts as "processing".
func (s *BookmarkStore) Create(ctx context.Context, userID, url, title string) (*Bookmark, error) {
	id := uuid.New().String()
	now := time.Now().UTC()
	_, err := s.db.ExecContext(ctx, s.q(`
		INSERT INTO bookmarks (id, user_id, url, title, status, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`), id, userID, url, title, StatusProcessing, now, now)
	if err != nil {
		return nil, err
	}
	return s.GetByID(ctx, id)
}

// GetByID returns the bookmark matching id, or ErrNotFound. No ownership
// filtering happens at this layer.
func (s *BookmarkStore) GetByID(ctx context.Context, id string) (*Bookmark, error) {
	var b Bookmark
	err := s.db.GetContext(ctx, &b, s.q(`SELECT * FROM bookmarks WHERE id = ?`), id)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &b, nil
}

// ListByUser returns one window of userID's bookmarks, most recent first.
// Ties on created_at fall back to id so the order stays stable across reads.
// An empty window is not an error.
func (s *BookmarkStore) ListByUser(ctx context.Context, userID string, limit, offset int) ([]*Bookmark, error) {
	bookmarks := []*Bookmark{}
	err := s.db.SelectContext(ctx, &bookmarks, s.q(`
		SELECT * FROM bookmarks
		WHERE user_id = ?
		ORDER BY created_at DESC, id DESC
		LIMIT ? OFFSET ?
	`), userID, limit, offset)
	if err != nil {
		return nil, err
	}
	return bookmarks, nil
}

// CountByUser returns the total number of bookmarks owned by userID,
// independent of any pagination window.
func (s *BookmarkStore) CountByUser(ctx context.Context, userID string) (int, error) {
	var total int
	err := s.db.GetContext(ctx, &total, s.q(`SELECT COUNT(*) FROM bookmarks WHERE user_id = ?`), userID)
	if err != nil {
		return 0, err
	}
	return total, nil
}

// Update merges the given patch into the bookmark and refreshes updated_at.
// id, user_id, and created_at are never altered.
func (s *BookmarkStore) Update(ctx context.Context, id string, patch BookmarkPatch) (*Bookmark, error) {
	return s.update(ctx, id, "", patch)
}

// UpdateOwned is Update with the owner predicate folded into the statement:
// the row is only written if it still belongs to userID at execution time.
func (s *BookmarkStore) UpdateOwned(ctx context.Context, id, userID string, patch BookmarkPatch) (*Bookmark, error) {
	return s.update(ctx, id, userID, patch)
}

func (s *BookmarkStore) update(ctx context.Context, id, userID string, patch BookmarkPatch) (*Bookmark, error) {
	sets, args := patch.clauses()
	sets = append(sets, "updated_at = ?")
	args = append(args, time.Now().UTC(), id)

	query := `UPDATE bookmarks SET ` + strings.Join(sets, ", ") + ` WHERE id = ?`
	if userID != "" {
		query += ` AND user_id = ?`
		args = append(args, userID)
	}

	res, err := s.db.ExecContext(ctx, s.q(query), args...)
	if err != nil {
		return nil, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return nil, err
	}
	if n == 0 {
		return nil, ErrNotFound
	}
	return s.GetByID(ctx, id)
}

// Delete removes a bookmark by id and returns the removed record.
// Foreign-key cascades clear its bookmark_tags rows.
func (s *BookmarkStore) Delete(ctx context.Context, id string) (*Bookmark, error) {
	return s.delete(ctx, id, "")
}

// DeleteOwned is Delete with the owner predicate folded into the statement.
func (s *BookmarkStore) DeleteOwned(ctx context.Context, id, userID string) (*Bookmark, error) {
	return s.delete(ctx, id, userID)
}

func (s *BookmarkStore) delete(ctx context.Context, id, userID string) (*Bookmark, error) {
	b, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	query := `DELETE FROM bookmarks WHERE id = ?`
	args := []interface{}{id}
	if userID != "" {
		query += ` AND user_id = ?`
		args = append(args, userID)
	}

	res, err := s.db.ExecContext(ctx, s.q(query), args...)
	if err != nil {
		return nil, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return nil, err
	}
	// The row vanished (or changed hands) between the read and the delete.
	if n == 0 {
		return nil, ErrNotFound
	}
	return b, nil
}

// CountAll returns the total number of bookmarks across all users. Used by
// the metrics refresher only.
func (s *BookmarkStore) CountAll(ctx context.Context) (int, error) {
	var total int
	err := s.db.GetContext(ctx, &total, `SELECT COUNT(*) FROM bookmarks`)
	if err != nil {
		return 0, err
	}
	return total, nil
}
