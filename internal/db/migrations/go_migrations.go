// Package migrations contains dialect-aware Go database migrations. They are
// written in Go rather than SQL because column types differ per database
// (TEXT vs VARCHAR keys, BLOB vs BYTEA session data, timestamp flavors).
package migrations

// dialect is set by the parent db package before migrations are applied.
var dialect string

// SetDialect configures the SQL dialect for Go migrations.
// Must be called before goose.Up. Valid values: "sqlite3", "postgres", "mysql".
func SetDialect(d string) {
	dialect = d
}
