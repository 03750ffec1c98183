package backup

import (
	"context"
	"encoding/json"
	"io"
	"os"

	"github.com/pkg/errors"

	"github.com/example/gateforge/internal/database"
	"github.com/example/gateforge/internal/planner"
)

// Version is written into every exported file
const Version = "1.5"

// ErrInvalidFormat is returned for files that are not a backup document
var ErrInvalidFormat = errors.New("invalid backup file format")

// Export writes the whole state as indented JSON
func Export(ctx context.Context, store *database.Store, w io.Writer) error {
	snap, err := store.BuildSnapshot(ctx)
	if err != nil {
		return errors.Wrap(err, "failed to collect data for export")
	}
	snap.Version = Version

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(snap); err != nil {
		return errors.Wrap(err, "failed to write export")
	}
	return nil
}

// Decode reads and validates a backup document without storing it
func Decode(r io.Reader) (*database.Snapshot, error) {
	var snap database.Snapshot
	if err := json.NewDecoder(r).Decode(&snap); err != nil {
		return nil, errors.Wrap(ErrInvalidFormat, err.Error())
	}
	if snap.Timestamp == "" {
		return nil, errors.Wrap(ErrInvalidFormat, "missing timestamp")
	}
	if snap.Schedule != nil {
		if err := planner.ValidateSchedule(snap.Schedule); err != nil {
			return nil, errors.Wrap(err, "invalid schedule in backup")
		}
	}
	return &snap, nil
}

// Import replaces every section present in the document and refreshes
// the automatic backup. Nothing is written when validation fails.
func Import(ctx context.Context, store *database.Store, r io.Reader) (*database.Snapshot, error) {
	snap, err := Decode(r)
	if err != nil {
		return nil, err
	}
	if err := store.ApplySnapshot(ctx, snap); err != nil {
		return nil, errors.Wrap(err, "file import failed")
	}
	if err := store.CreateBackup(ctx); err != nil {
		return nil, errors.Wrap(err, "failed to refresh backup after import")
	}
	return snap, nil
}

// ExportFile writes the export to path
func ExportFile(ctx context.Context, store *database.Store, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrap(err, "failed to create export file")
	}
	if err := Export(ctx, store, f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// ImportFile reads an export from path
func ImportFile(ctx context.Context, store *database.Store, path string) (*database.Snapshot, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "failed to open backup file")
	}
	defer f.Close()
	return Import(ctx, store, f)
}
