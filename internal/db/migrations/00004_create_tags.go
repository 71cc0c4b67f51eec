package migrations

// Tags and the bookmark_tags association. Tag names are unique per user, not
// globally. Deleting a bookmark or a tag cascades to the association rows, so
// no orphaned pair can exist.

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/pressly/goose/v3"
)

func init() {
	goose.AddMigrationContext(upCreateTags, downCreateTags)
}

func upCreateTags(ctx context.Context, tx *sql.Tx) error {
	var tagsDDL, assocDDL string
	switch dialect {
	case "mysql":
		tagsDDL = `CREATE TABLE IF NOT EXISTS tags (
    id         VARCHAR(36) PRIMARY KEY,
    user_id    VARCHAR(36) NOT NULL,
    name       VARCHAR(100) NOT NULL,
    created_at TIMESTAMP(6) NOT NULL,
    updated_at TIMESTAMP(6) NOT NULL,
    UNIQUE KEY tags_user_id_name_key (user_id, name),
    CONSTRAINT tags_user_fk FOREIGN KEY (user_id) REFERENCES users (id) ON DELETE CASCADE
)`
		assocDDL = `CREATE TABLE IF NOT EXISTS bookmark_tags (
    bookmark_id VARCHAR(36) NOT NULL,
    tag_id      VARCHAR(36) NOT NULL,
    PRIMARY KEY (bookmark_id, tag_id),
    CONSTRAINT bookmark_tags_bookmark_fk FOREIGN KEY (bookmark_id) REFERENCES bookmarks (id) ON DELETE CASCADE,
    CONSTRAINT bookmark_tags_tag_fk FOREIGN KEY (tag_id) REFERENCES tags (id) ON DELETE CASCADE
)`
	case "postgres":
		tagsDDL = `CREATE TABLE IF NOT EXISTS tags (
    id         TEXT PRIMARY KEY,
    user_id    TEXT NOT NULL REFERENCES users (id) ON DELETE CASCADE,
    name       TEXT NOT NULL,
    created_at TIMESTAMPTZ NOT NULL,
    updated_at TIMESTAMPTZ NOT NULL,
    UNIQUE (user_id, name)
)`
		assocDDL = `CREATE TABLE IF NOT EXISTS bookmark_tags (
    bookmark_id TEXT NOT NULL REFERENCES bookmarks (id) ON DELETE CASCADE,
    tag_id      TEXT NOT NULL REFERENCES tags (id) ON DELETE CASCADE,
    PRIMARY KEY (bookmark_id, tag_id)
)`
	default: // sqlite3
		tagsDDL = `CREATE TABLE IF NOT EXISTS tags (
    id         TEXT PRIMARY KEY,
    user_id    TEXT NOT NULL REFERENCES users (id) ON DELETE CASCADE,
    name       TEXT NOT NULL,
    created_at TIMESTAMP NOT NULL,
    updated_at TIMESTAMP NOT NULL,
    UNIQUE (user_id, name)
)`
		assocDDL = `CREATE TABLE IF NOT EXISTS bookmark_tags (
    bookmark_id TEXT NOT NULL REFERENCES bookmarks (id) ON DELETE CASCADE,
    tag_id      TEXT NOT NULL REFERENCES tags (id) ON DELETE CASCADE,
    PRIMARY KEY (bookmark_id, tag_id)
)`
	}

	if _, err := tx.ExecContext(ctx, tagsDDL); err != nil {
		return fmt.Errorf("create tags table: %w", err)
	}
	if _, err := tx.ExecContext(ctx, assocDDL); err != nil {
		return fmt.Errorf("create bookmark_tags table: %w", err)
	}

	indexes := []string{
		`CREATE INDEX IF NOT EXISTS tags_user_id_idx ON tags (user_id)`,
		`CREATE INDEX IF NOT EXISTS bookmark_tags_tag_id_idx ON bookmark_tags (tag_id)`,
	}
	for _, stmt := range indexes {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}

func downCreateTags(ctx context.Context, tx *sql.Tx) error {
	if _, err := tx.ExecContext(ctx, `DROP TABLE IF EXISTS bookmark_tags`); err != nil {
		return err
	}
	_, err := tx.ExecContext(ctx, `DROP TABLE IF EXISTS tags`)
	return err
}
