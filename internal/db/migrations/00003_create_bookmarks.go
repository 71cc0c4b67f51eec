package migrations

// The bookmarks table. status is TEXT plus a CHECK constraint instead of a
// native enum so the same shape works on all three backends. Deleting a user
// cascades to their bookmarks.

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/pressly/goose/v3"
)

func init() {
	goose.AddMigrationContext(upCreateBookmarks, downCreateBookmarks)
}

func upCreateBookmarks(ctx context.Context, tx *sql.Tx) error {
	var ddl string
	switch dialect {
	case "mysql":
		ddl = `CREATE TABLE IF NOT EXISTS bookmarks (
    id             VARCHAR(36) PRIMARY KEY,
    user_id        VARCHAR(36) NOT NULL,
    url            VARCHAR(2048) NOT NULL,
    title          VARCHAR(200) NOT NULL,
    content        MEDIUMTEXT,
    summary        TEXT,
    og_image       VARCHAR(2048),
    og_description TEXT,
    status         VARCHAR(16) NOT NULL DEFAULT 'processing',
    created_at     TIMESTAMP(6) NOT NULL,
    updated_at     TIMESTAMP(6) NOT NULL,
    CONSTRAINT bookmarks_status_chk CHECK (status IN ('processing', 'completed', 'failed')),
    CONSTRAINT bookmarks_user_fk FOREIGN KEY (user_id) REFERENCES users (id) ON DELETE CASCADE
)`
	case "postgres":
		ddl = `CREATE TABLE IF NOT EXISTS bookmarks (
    id             TEXT PRIMARY KEY,
    user_id        TEXT NOT NULL REFERENCES users (id) ON DELETE CASCADE,
    url            TEXT NOT NULL,
    title          TEXT NOT NULL,
    content        TEXT,
    summary        TEXT,
    og_image       TEXT,
    og_description TEXT,
    status         TEXT NOT NULL DEFAULT 'processing'
                   CHECK (status IN ('processing', 'completed', 'failed')),
    created_at     TIMESTAMPTZ NOT NULL,
    updated_at     TIMESTAMPTZ NOT NULL
)`
	default: // sqlite3
		ddl = `CREATE TABLE IF NOT EXISTS bookmarks (
    id             TEXT PRIMARY KEY,
    user_id        TEXT NOT NULL REFERENCES users (id) ON DELETE CASCADE,
    url            TEXT NOT NULL,
    title          TEXT NOT NULL,
    content        TEXT,
    summary        TEXT,
    og_image       TEXT,
    og_description TEXT,
    status         TEXT NOT NULL DEFAULT 'processing'
                   CHECK (status IN ('processing', 'completed', 'failed')),
    created_at     TIMESTAMP NOT NULL,
    updated_at     TIMESTAMP NOT NULL
)`
	}
	if _, err := tx.ExecContext(ctx, ddl); err != nil {
		return fmt.Errorf("create bookmarks table: %w", err)
	}

	indexes := []string{
		`CREATE INDEX IF NOT EXISTS bookmarks_user_id_idx ON bookmarks (user_id)`,
		`CREATE INDEX IF NOT EXISTS bookmarks_user_id_created_at_idx ON bookmarks (user_id, created_at)`,
		`CREATE INDEX IF NOT EXISTS bookmarks_status_idx ON bookmarks (status)`,
	}
	for _, stmt := range indexes {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}

func downCreateBookmarks(ctx context.Context, tx *sql.Tx) error {
	_, err := tx.ExecContext(ctx, `DROP TABLE IF EXISTS bookmarks`)
	return err
}
