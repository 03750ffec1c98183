package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/example/gateforge/internal/calendar"
	"github.com/example/gateforge/internal/logger"
)

// Store is a synchronous key-value store of JSON documents. Saving through
// Save also refreshes the backup snapshot.
type Store struct {
	db  *sqlx.DB
	log *logger.Logger
	loc *time.Location

	// Clock returns the current time; replaced in tests
	Clock func() time.Time
}

// NewStore creates a store on top of an open database
func NewStore(db *sqlx.DB, log *logger.Logger, loc *time.Location) *Store {
	if loc == nil {
		loc = time.Local
	}
	return &Store{
		db:    db,
		log:   log,
		loc:   loc,
		Clock: time.Now,
	}
}

// Now returns the current time in the store's location
func (s *Store) Now() time.Time {
	return s.Clock().In(s.loc)
}

// Today returns the current calendar day in the store's location
func (s *Store) Today() calendar.Date {
	return calendar.Today(s.Now())
}

// Close closes the underlying database
func (s *Store) Close() error {
	return s.db.Close()
}

// GetRaw returns the stored document for key and whether it exists
func (s *Store) GetRaw(ctx context.Context, key string) (json.RawMessage, bool, error) {
	var value string
	err := s.db.GetContext(ctx, &value, s.db.Rebind(`SELECT value FROM kv_store WHERE key = ?`), key)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, errors.Wrapf(err, "failed to read %s", key)
	}
	return json.RawMessage(value), true, nil
}

// Get decodes the document stored under key into dst.
// It reports false and leaves dst untouched when the key is absent.
func (s *Store) Get(ctx context.Context, key string, dst interface{}) (bool, error) {
	raw, ok, err := s.GetRaw(ctx, key)
	if err != nil || !ok {
		return false, err
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return false, errors.Wrapf(err, "failed to decode %s", key)
	}
	return true, nil
}

// PutRaw stores a JSON document under key without touching the backup
func (s *Store) PutRaw(ctx context.Context, key string, value json.RawMessage) error {
	query := s.db.Rebind(`
		INSERT INTO kv_store (key, value, updated_at) VALUES (?, ?, ?)
		ON CONFLICT (key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at
	`)
	if _, err := s.db.ExecContext(ctx, query, key, string(value), s.Clock().UTC()); err != nil {
		return errors.Wrapf(err, "failed to write %s", key)
	}
	return nil
}

// Put encodes v and stores it under key without touching the backup
func (s *Store) Put(ctx context.Context, key string, v interface{}) error {
	data, err := json.Marshal(v)
	if err != nil {
		return errors.Wrapf(err, "failed to encode %s", key)
	}
	return s.PutRaw(ctx, key, data)
}

// Save stores v under key and refreshes the backup snapshot.
// A failing backup is logged and does not fail the save.
func (s *Store) Save(ctx context.Context, key string, v interface{}) error {
	if err := s.Put(ctx, key, v); err != nil {
		return err
	}
	if err := s.CreateBackup(ctx); err != nil {
		s.log.Errorf("Auto-backup failed after saving %s: %v", key, err)
	}
	return nil
}

// Delete removes key
func (s *Store) Delete(ctx context.Context, key string) error {
	if _, err := s.db.ExecContext(ctx, s.db.Rebind(`DELETE FROM kv_store WHERE key = ?`), key); err != nil {
		return errors.Wrapf(err, "failed to delete %s", key)
	}
	return nil
}

// Keys lists every stored key in order
func (s *Store) Keys(ctx context.Context) ([]string, error) {
	var keys []string
	if err := s.db.SelectContext(ctx, &keys, `SELECT key FROM kv_store ORDER BY key`); err != nil {
		return nil, errors.Wrap(err, "failed to list keys")
	}
	return keys, nil
}

// ClearAll removes every data key. The backup snapshot is kept so the
// data can still be restored.
func (s *Store) ClearAll(ctx context.Context) error {
	for _, key := range DataKeys {
		if err := s.Delete(ctx, key); err != nil {
			return err
		}
	}
	s.log.Infof("Cleared %d storage keys", len(DataKeys))
	return nil
}
