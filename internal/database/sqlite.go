package database

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	"github.com/Istiaq-Edu/bookmark-folder-organizer/internal/config"
	"github.com/Istiaq-Edu/bookmark-folder-organizer/internal/database/migrations"

	_ "github.com/mattn/go-sqlite3" // SQLite driver
)

// Open opens the bookmark database described by the store config and brings
// its schema up to date. type "memory" opens an in-memory database, which is
// mainly useful for tests and dry runs.
func Open(cfg config.StoreConfig) (*sql.DB, error) {
	var path string
	switch cfg.Type {
	case "sqlite", "":
		if cfg.Path == "" {
			return nil, fmt.Errorf("sqlite store requires path to be set")
		}
		if err := os.MkdirAll(filepath.Dir(cfg.Path), 0755); err != nil {
			return nil, fmt.Errorf("creating database directory: %w", err)
		}
		path = cfg.Path
	case "memory":
		path = ":memory:"
	default:
		return nil, fmt.Errorf("unknown store type: %s", cfg.Type)
	}

	db, err := OpenConnection(path)
	if err != nil {
		return nil, err
	}

	// Each pooled connection to :memory: would open its own empty database,
	// so the in-memory store must stick to a single connection.
	if path == ":memory:" {
		db.SetMaxOpenConns(1)
	}

	if err := migrations.MigrateUp(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrating database: %w", err)
	}

	return db, nil
}

// OpenConnection opens and configures a SQLite connection with appropriate PRAGMAs.
// Exported for tests that need a properly configured connection.
// path can be a file path or ":memory:" for an in-memory database.
func OpenConnection(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Enable foreign key constraints (SQLite default is OFF for backward compatibility)
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	// Wait for locks instead of failing immediately; position renumbering
	// issues several statements per transaction.
	if _, err := db.Exec("PRAGMA busy_timeout = 5000"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to set busy timeout: %w", err)
	}

	return db, nil
}
