package database

import (
	"database/sql"
	"regexp"
	"strconv"
)

// Dialect abstracts over the supported SQL backends. Queries are written
// with ? placeholders and rewritten per dialect.
type Dialect interface {
	// DriverName returns the driver name for sql.Open
	DriverName() string

	// DSN returns the data source name for the connection
	DSN(cfg DialectConfig) string

	// RewriteQuery converts placeholder syntax if needed (e.g. ? to $1 for postgres)
	RewriteQuery(query string) string

	// SupportsLastInsertID reports whether the driver implements LastInsertId
	SupportsLastInsertID() bool

	// MigrationsSubdir returns the subdirectory name for migrations (e.g., "sqlite", "postgres")
	MigrationsSubdir() string

	// CreateMigrationsTableQuery returns the SQL to create the migrations tracking table
	CreateMigrationsTableQuery() string

	// ConfigureConnection applies any backend-specific connection settings
	ConfigureConnection(db *sql.DB) error
}

// DialectConfig holds connection parameters for a dialect.
type DialectConfig struct {
	// Path is the database file, for SQLite.
	Path string

	// URL is the connection string, for PostgreSQL and MySQL.
	URL string
}

var placeholderPattern = regexp.MustCompile(`\?`)

// numberPlaceholders converts ? placeholders to $1, $2, ...
func numberPlaceholders(query string) string {
	n := 0
	return placeholderPattern.ReplaceAllStringFunc(query, func(string) string {
		n++
		return "$" + strconv.Itoa(n)
	})
}
