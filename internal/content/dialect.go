package content

import (
	"database/sql"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	_ "github.com/go-sql-driver/mysql"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
)

// Dialect hides the differences between the supported catalog databases.
type Dialect interface {
	// DriverName returns the driver name for sql.Open.
	DriverName() string

	// RewriteQuery converts ? placeholders where the driver needs it.
	RewriteQuery(query string) string

	// ConfigureConnection applies pool settings and pragmas.
	ConfigureConnection(db *sql.DB) error

	// MigrationsSubdir names the directory holding this dialect's schema.
	MigrationsSubdir() string

	// CreateMigrationsTableQuery creates the applied-migrations ledger.
	CreateMigrationsTableQuery() string

	// UpsertParagraphQuery inserts or replaces one paragraph row.
	UpsertParagraphQuery() string
}

// DialectFor maps a DB_DRIVER value to its dialect.
func DialectFor(driver string) (Dialect, error) {
	switch strings.ToLower(strings.TrimSpace(driver)) {
	case "sqlite", "sqlite3", "":
		return SQLite{}, nil
	case "postgres", "postgresql":
		return Postgres{}, nil
	case "mysql":
		return MySQL{}, nil
	}
	return nil, fmt.Errorf("unsupported database driver: %s", driver)
}

var placeholderRegexp = regexp.MustCompile(`\?`)

// rewritePlaceholdersToNumbered converts ? placeholders to $1, $2, ...
func rewritePlaceholdersToNumbered(query string) string {
	n := 0
	return placeholderRegexp.ReplaceAllStringFunc(query, func(string) string {
		n++
		return "$" + strconv.Itoa(n)
	})
}

func configurePool(db *sql.DB) {
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)
	db.SetConnMaxIdleTime(1 * time.Minute)
}

// SQLite is the default, file-backed catalog.
type SQLite struct{}

func (SQLite) DriverName() string { return "sqlite3" }

func (SQLite) RewriteQuery(q string) string { return q }

func (SQLite) ConfigureConnection(db *sql.DB) error {
	configurePool(db)
	if _, err := db.Exec(`PRAGMA foreign_keys = ON; PRAGMA journal_mode = WAL;`); err != nil {
		return fmt.Errorf("set pragmas: %w", err)
	}
	return nil
}

func (SQLite) MigrationsSubdir() string { return "sqlite" }

func (SQLite) CreateMigrationsTableQuery() string {
	return `CREATE TABLE IF NOT EXISTS _migrations (name TEXT PRIMARY KEY)`
}

func (SQLite) UpsertParagraphQuery() string {
	return `INSERT INTO paragraphs (id, puzzle_date, title, body, hidden_words)
	        VALUES (?, ?, ?, ?, ?)
	        ON CONFLICT(id) DO UPDATE SET
	            puzzle_date = excluded.puzzle_date, title = excluded.title,
	            body = excluded.body, hidden_words = excluded.hidden_words`
}

// Postgres uses numbered placeholders.
type Postgres struct{}

func (Postgres) DriverName() string { return "postgres" }

func (Postgres) RewriteQuery(q string) string { return rewritePlaceholdersToNumbered(q) }

func (Postgres) ConfigureConnection(db *sql.DB) error {
	configurePool(db)
	return nil
}

func (Postgres) MigrationsSubdir() string { return "postgres" }

func (Postgres) CreateMigrationsTableQuery() string {
	return `CREATE TABLE IF NOT EXISTS _migrations (name TEXT PRIMARY KEY)`
}

func (Postgres) UpsertParagraphQuery() string {
	return `INSERT INTO paragraphs (id, puzzle_date, title, body, hidden_words)
	        VALUES (?, ?, ?, ?, ?)
	        ON CONFLICT (id) DO UPDATE SET
	            puzzle_date = EXCLUDED.puzzle_date, title = EXCLUDED.title,
	            body = EXCLUDED.body, hidden_words = EXCLUDED.hidden_words`
}

// MySQL needs bounded key columns and its own upsert syntax.
type MySQL struct{}

func (MySQL) DriverName() string { return "mysql" }

func (MySQL) RewriteQuery(q string) string { return q }

func (MySQL) ConfigureConnection(db *sql.DB) error {
	configurePool(db)
	return nil
}

func (MySQL) MigrationsSubdir() string { return "mysql" }

func (MySQL) CreateMigrationsTableQuery() string {
	return `CREATE TABLE IF NOT EXISTS _migrations (name VARCHAR(255) PRIMARY KEY)`
}

func (MySQL) UpsertParagraphQuery() string {
	return `INSERT INTO paragraphs (id, puzzle_date, title, body, hidden_words)
	        VALUES (?, ?, ?, ?, ?)
	        ON DUPLICATE KEY UPDATE
	            puzzle_date = VALUES(puzzle_date), title = VALUES(title),
	            body = VALUES(body), hidden_words = VALUES(hidden_words)`
}
