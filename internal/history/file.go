// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// file.go implements the client-side persisted history. The file holds a
// JSON object laid out like the browser extension's local storage area:
// the history array lives under StorageKey and any other keys are kept
// untouched across rewrites.
package history

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/gofrs/flock"

	"promptpolish/internal/models"
)

// lockRetryDelay is the polling interval while another process holds the
// write lock.
const lockRetryDelay = 10 * time.Millisecond

// FileLog persists history to a single JSON file. Every mutation rewrites
// the file through a temporary file and a rename, so readers never observe
// a partial write. Writers hold an advisory lock on a sidecar ".lock" file
// for the whole read-modify-write, so concurrent processes sharing the file
// never lose an update.
type FileLog struct {
	path string
	mu   sync.Mutex
}

// NewFileLog returns a log stored at path. The file and its directory are
// created on the first write.
func NewFileLog(path string) *FileLog {
	return &FileLog{path: path}
}

// DefaultFilePath returns the per-user storage file location.
func DefaultFilePath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("history file path: %w", err)
	}
	return filepath.Join(dir, "promptpolish", "storage.json"), nil
}

// Path returns the backing file location.
func (f *FileLog) Path() string { return f.path }

func (f *FileLog) Append(ctx context.Context, rec models.HistoryRecord) (models.HistoryRecord, error) {
	rec = Normalize(rec)

	err := f.update(ctx, func(area map[string]json.RawMessage, records []models.HistoryRecord) error {
		rec.ID = ClaimID(records, rec.ID)
		return f.save(area, Prepend(records, rec))
	})
	if err != nil {
		return models.HistoryRecord{}, err
	}
	return rec, nil
}

func (f *FileLog) List(_ context.Context) ([]models.HistoryRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	_, records, err := f.load()
	if err != nil {
		return nil, err
	}
	if records == nil {
		records = []models.HistoryRecord{}
	}
	return records, nil
}

func (f *FileLog) Get(_ context.Context, id string) (models.HistoryRecord, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	_, records, err := f.load()
	if err != nil {
		return models.HistoryRecord{}, false, err
	}
	rec, ok := Find(records, id)
	return rec, ok, nil
}

func (f *FileLog) Remove(ctx context.Context, id string) error {
	return f.update(ctx, func(area map[string]json.RawMessage, records []models.HistoryRecord) error {
		records, found := Without(records, id)
		if !found {
			return nil
		}
		return f.save(area, records)
	})
}

func (f *FileLog) Clear(ctx context.Context) error {
	return f.update(ctx, func(area map[string]json.RawMessage, _ []models.HistoryRecord) error {
		return f.save(area, nil)
	})
}

// update loads the storage area and runs mutate while holding both the
// in-process mutex and the cross-process file lock.
func (f *FileLog) update(ctx context.Context, mutate func(map[string]json.RawMessage, []models.HistoryRecord) error) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(f.path), 0o755); err != nil {
		return fmt.Errorf("history file mkdir: %w", err)
	}
	lock := flock.New(f.path + ".lock")
	locked, err := lock.TryLockContext(ctx, lockRetryDelay)
	if err != nil {
		return fmt.Errorf("history file lock: %w", err)
	}
	if !locked {
		return fmt.Errorf("history file lock: %s is held by another process", lock.Path())
	}
	defer lock.Unlock()

	area, records, err := f.load()
	if err != nil {
		return err
	}
	return mutate(area, records)
}

// load reads the storage area. A missing file is an empty area. An
// unreadable history value is logged and treated as empty so a damaged file
// does not lock the user out of the log.
func (f *FileLog) load() (map[string]json.RawMessage, []models.HistoryRecord, error) {
	area := map[string]json.RawMessage{}

	data, err := os.ReadFile(f.path)
	if errors.Is(err, fs.ErrNotExist) {
		return area, nil, nil
	}
	if err != nil {
		return nil, nil, fmt.Errorf("history file read: %w", err)
	}

	if err := json.Unmarshal(data, &area); err != nil {
		slog.Warn("history file is not a JSON object, starting fresh", "path", f.path, "error", err)
		return map[string]json.RawMessage{}, nil, nil
	}

	raw, ok := area[StorageKey]
	if !ok {
		return area, nil, nil
	}
	var records []models.HistoryRecord
	if err := json.Unmarshal(raw, &records); err != nil {
		slog.Warn("history entry unreadable, starting fresh", "path", f.path, "error", err)
		return area, nil, nil
	}
	Sort(records)
	if len(records) > MaxRecords {
		records = records[:MaxRecords]
	}
	return area, records, nil
}

func (f *FileLog) save(area map[string]json.RawMessage, records []models.HistoryRecord) error {
	if records == nil {
		records = []models.HistoryRecord{}
	}
	raw, err := json.Marshal(records)
	if err != nil {
		return fmt.Errorf("history file encode: %w", err)
	}
	area[StorageKey] = raw

	data, err := json.MarshalIndent(area, "", "  ")
	if err != nil {
		return fmt.Errorf("history file encode: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(f.path), ".storage-*.json")
	if err != nil {
		return fmt.Errorf("history file temp: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("history file write: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("history file sync: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("history file close: %w", err)
	}
	if err := os.Rename(tmpName, f.path); err != nil {
		return fmt.Errorf("history file rename: %w", err)
	}
	return nil
}
