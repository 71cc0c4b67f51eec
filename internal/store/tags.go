package store

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

// Tag represents a row in the tags table. Names are unique per user, so two
// users can each have their own "golang" tag.
type Tag struct {
	ID        string    `db:"id"`
	UserID    string    `db:"user_id"`
	Name      string    `db:"name"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

// TagStore is the sqlx-backed implementation of TagStoreIface.
type TagStore struct {
	db *sqlx.DB
}

func NewTagStore(db *sqlx.DB) *TagStore {
	return &TagStore{db: db}
}

func (s *TagStore) q(query string) string { return s.db.Rebind(query) }

// Upsert creates the tag for userID if it doesn't exist, or returns the
// existing one. Matching is by (user_id, name) after trimming whitespace.
func (s *TagStore) Upsert(ctx context.Context, userID, name string) (*Tag, error) {
	name = strings.TrimSpace(name)

	var existing Tag
	err := s.db.GetContext(ctx, &existing, s.q(`SELECT * FROM tags WHERE user_id = ? AND name = ?`), userID, name)
	if err == nil {
		return &existing, nil
	}
	if err != sql.ErrNoRows {
		return nil, err
	}

	id := uuid.New().String()
	now := time.Now().UTC()
	_, err = s.db.ExecContext(ctx, s.q(`
		INSERT INTO tags (id, user_id, name, created_at, updated_at) VALUES (?, ?, ?, ?, ?)
	`), id, userID, name, now, now)
	if err != nil {
		// Race: another request inserted first. Re-fetch.
		if isUniqueConstraintError(err) {
			err = s.db.GetContext(ctx, &existing, s.q(`SELECT * FROM tags WHERE user_id = ? AND name = ?`), userID, name)
			if err != nil {
				return nil, err
			}
			return &existing, nil
		}
		return nil, err
	}

	return &Tag{ID: id, UserID: userID, Name: name, CreatedAt: now, UpdatedAt: now}, nil
}

// upsertTx is the transactional variant used by SetForBookmark.
func (s *TagStore) upsertTx(ctx context.Context, tx *sqlx.Tx, userID, name string) (*Tag, error) {
	name = strings.TrimSpace(name)

	var existing Tag
	err := tx.GetContext(ctx, &existing, tx.Rebind(`SELECT * FROM tags WHERE user_id = ? AND name = ?`), userID, name)
	if err == nil {
		return &existing, nil
	}
	if err != sql.ErrNoRows {
		return nil, err
	}

	id := uuid.New().String()
	now := time.Now().UTC()
	_, err = tx.ExecContext(ctx, tx.Rebind(`
		INSERT INTO tags (id, user_id, name, created_at, updated_at) VALUES (?, ?, ?, ?, ?)
	`), id, userID, name, now, now)
	if err != nil {
		if isUniqueConstraintError(err) {
			err = tx.GetContext(ctx, &existing, tx.Rebind(`SELECT * FROM tags WHERE user_id = ? AND name = ?`), userID, name)
			if err != nil {
				return nil, err
			}
			return &existing, nil
		}
		return nil, err
	}

	return &Tag{ID: id, UserID: userID, Name: name, CreatedAt: now, UpdatedAt: now}, nil
}

// SetForBookmark replaces the tag set on a bookmark. Tags are upserted per
// user by name; blank names are dropped. The whole replace runs in one
// transaction so a failed upsert never leaves the bookmark half-tagged.
func (s *TagStore) SetForBookmark(ctx context.Context, bookmarkID, userID string, names []string) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, tx.Rebind(`DELETE FROM bookmark_tags WHERE bookmark_id = ?`), bookmarkID)
	if err != nil {
		return err
	}

	for _, name := range names {
		if strings.TrimSpace(name) == "" {
			continue
		}
		tag, err := s.upsertTx(ctx, tx, userID, name)
		if err != nil {
			return err
		}
		_, err = tx.ExecContext(ctx, tx.Rebind(`
			INSERT INTO bookmark_tags (bookmark_id, tag_id) VALUES (?, ?)
		`), bookmarkID, tag.ID)
		if err != nil {
			return err
		}
	}

	return tx.Commit()
}

// ListForBookmark returns all tags associated with a bookmark, ordered by name.
func (s *TagStore) ListForBookmark(ctx context.Context, bookmarkID string) ([]*Tag, error) {
	tags := []*Tag{}
	err := s.db.SelectContext(ctx, &tags, s.q(`
		SELECT t.* FROM tags t
		INNER JOIN bookmark_tags bt ON bt.tag_id = t.id
		WHERE bt.bookmark_id = ?
		ORDER BY t.name ASC
	`), bookmarkID)
	if err != nil {
		return nil, err
	}
	return tags, nil
}

// ListByUser returns all of userID's tags ordered by name.
func (s *TagStore) ListByUser(ctx context.Context, userID string) ([]*Tag, error) {
	tags := []*Tag{}
	err := s.db.SelectContext(ctx, &tags, s.q(`
		SELECT * FROM tags WHERE user_id = ? ORDER BY name ASC
	`), userID)
	if err != nil {
		return nil, err
	}
	return tags, nil
}

// DeleteOwned removes a tag if it belongs to userID. Association rows cascade
// away; bookmarks themselves are untouched.
func (s *TagStore) DeleteOwned(ctx context.Context, id, userID string) error {
	res, err := s.db.ExecContext(ctx, s.q(`DELETE FROM tags WHERE id = ? AND user_id = ?`), id, userID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// CountForBookmark returns the number of association rows for a bookmark.
func (s *TagStore) CountForBookmark(ctx context.Context, bookmarkID string) (int, error) {
	var n int
	err := s.db.GetContext(ctx, &n, s.q(`SELECT COUNT(*) FROM bookmark_tags WHERE bookmark_id = ?`), bookmarkID)
	if err != nil {
		return 0, err
	}
	return n, nil
}
