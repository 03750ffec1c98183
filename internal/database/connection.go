package database

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
	"github.com/pkg/errors"
)

// DatabaseFile is the SQLite file created inside the data directory
const DatabaseFile = "gateforge.db"

// Connect opens PostgreSQL when databaseURL is a postgres URL and a SQLite
// file under dataDir otherwise, then makes sure the schema exists
func Connect(dataDir, databaseURL string) (*sqlx.DB, error) {
	if isPostgres(databaseURL) {
		db, err := sqlx.Connect("postgres", databaseURL)
		if err != nil {
			return nil, errors.Wrap(err, "failed to connect to postgres")
		}
		return db, initializeSchema(db)
	}

	// Create data directory if it doesn't exist
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return nil, errors.Wrap(err, "failed to create data directory")
	}

	db, err := sqlx.Connect("sqlite3", filepath.Join(dataDir, DatabaseFile))
	if err != nil {
		return nil, errors.Wrap(err, "failed to connect to sqlite")
	}

	// SQLite doesn't support multiple writers
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	return db, initializeSchema(db)
}

// OpenMemory opens a private in-memory SQLite database
func OpenMemory() (*sqlx.DB, error) {
	db, err := sqlx.Connect("sqlite3", ":memory:")
	if err != nil {
		return nil, errors.Wrap(err, "failed to open in-memory sqlite")
	}
	// every new connection would get its own empty database
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	return db, initializeSchema(db)
}

func isPostgres(url string) bool {
	return strings.HasPrefix(url, "postgres://") || strings.HasPrefix(url, "postgresql://")
}

// initializeSchema creates the key-value table if it doesn't exist
func initializeSchema(db *sqlx.DB) error {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS kv_store (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL,
			updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return errors.Wrap(err, "failed to create kv_store table")
	}
	return nil
}
