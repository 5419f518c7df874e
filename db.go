// db.go
//
// Database helpers for the ParaSight server.
// Responsibilities:
//   - Opening the paragraph catalog database for the configured dialect.
//   - SQLite: creating the parent directory and setting busy timeout + WAL;
//     :memory: becomes a named shared-cache database so the pool agrees.
//   - Applying migrations from MIGRATIONS_PATH, or the embedded set.

package main

import (
	"context"
	"database/sql"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/robalobadob/parasight/internal/config"
	"github.com/robalobadob/parasight/internal/content"
	"github.com/robalobadob/parasight/migrations"
)

// openDB opens the catalog database and applies pool settings.
func openDB(ctx context.Context, cfg *config.Config) (*sql.DB, content.Dialect, error) {
	d, err := content.DialectFor(cfg.DBDriver)
	if err != nil {
		return nil, nil, err
	}

	dsn := cfg.DBDSN
	memory := d.DriverName() == "sqlite3" && isMemoryDSN(dsn)
	if memory {
		// Plain :memory: gives every pooled connection its own empty database.
		dsn = "file:parasight-" + uuid.NewString() + "?mode=memory&cache=shared&_busy_timeout=5000"
	} else if d.DriverName() == "sqlite3" {
		// Ensure directory exists for ./data/app.db, etc.
		dir := filepath.Dir(dsn)
		if dir != "." && dir != "" {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, nil, fmt.Errorf("mkdir %s: %w", dir, err)
			}
		}
		if !strings.Contains(dsn, "?") {
			dsn += "?_busy_timeout=5000&_journal_mode=WAL"
		}
	}

	db, err := sql.Open(d.DriverName(), dsn)
	if err != nil {
		return nil, nil, err
	}
	if err := d.ConfigureConnection(db); err != nil {
		db.Close()
		return nil, nil, err
	}
	if memory {
		// The shared database lives only while a connection is open.
		db.SetConnMaxLifetime(0)
		db.SetConnMaxIdleTime(0)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, nil, fmt.Errorf("ping %s: %w", d.DriverName(), err)
	}
	return db, d, nil
}

func isMemoryDSN(dsn string) bool {
	return dsn == ":memory:" || strings.HasPrefix(dsn, "file::memory:")
}

// migrate applies the schema for d.
func migrate(ctx context.Context, db *sql.DB, d content.Dialect, path string) error {
	var fsys fs.FS = migrations.FS
	if path != "" {
		fsys = os.DirFS(path)
	}
	return content.Migrate(ctx, db, d, fsys)
}
