package migrations

// Personal access tokens for the REST API. Only the SHA-256 hash of a token
// is stored; revocation is a soft delete via revoked_at.

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/pressly/goose/v3"
)

func init() {
	goose.AddMigrationContext(upCreateAPITokens, downCreateAPITokens)
}

func upCreateAPITokens(ctx context.Context, tx *sql.Tx) error {
	var ddl string
	switch dialect {
	case "mysql":
		ddl = `CREATE TABLE IF NOT EXISTS api_tokens (
    id           VARCHAR(36) PRIMARY KEY,
    user_id      VARCHAR(36) NOT NULL,
    name         VARCHAR(255) NOT NULL,
    token_hash   VARCHAR(64) NOT NULL,
    last_used_at TIMESTAMP(6) NULL,
    expires_at   TIMESTAMP(6) NULL,
    created_at   TIMESTAMP(6) NOT NULL,
    revoked_at   TIMESTAMP(6) NULL,
    UNIQUE KEY api_tokens_token_hash_key (token_hash),
    CONSTRAINT api_tokens_user_fk FOREIGN KEY (user_id) REFERENCES users (id) ON DELETE CASCADE
)`
	case "postgres":
		ddl = `CREATE TABLE IF NOT EXISTS api_tokens (
    id           TEXT PRIMARY KEY,
    user_id      TEXT NOT NULL REFERENCES users (id) ON DELETE CASCADE,
    name         TEXT NOT NULL,
    token_hash   TEXT NOT NULL UNIQUE,
    last_used_at TIMESTAMPTZ,
    expires_at   TIMESTAMPTZ,
    created_at   TIMESTAMPTZ NOT NULL,
    revoked_at   TIMESTAMPTZ
)`
	default: // sqlite3
		ddl = `CREATE TABLE IF NOT EXISTS api_tokens (
    id           TEXT PRIMARY KEY,
    user_id      TEXT NOT NULL REFERENCES users (id) ON DELETE CASCADE,
    name         TEXT NOT NULL,
    token_hash   TEXT NOT NULL UNIQUE,
    last_used_at TIMESTAMP,
    expires_at   TIMESTAMP,
    created_at   TIMESTAMP NOT NULL,
    revoked_at   TIMESTAMP
)`
	}
	if _, err := tx.ExecContext(ctx, ddl); err != nil {
		return fmt.Errorf("create api_tokens table: %w", err)
	}
	_, err := tx.ExecContext(ctx, `CREATE INDEX IF NOT EXISTS api_tokens_user_id_idx ON api_tokens (user_id)`)
	return err
}

func downCreateAPITokens(ctx context.Context, tx *sql.Tx) error {
	_, err := tx.ExecContext(ctx, `DROP TABLE IF EXISTS api_tokens`)
	return err
}
