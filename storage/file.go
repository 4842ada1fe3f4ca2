package storage

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"sync"

	"taskly-api/domain"
)

// FileStore persists the board as one JSON file. Writes go through a
// temporary file, fsync and rename so a crash mid-save leaves the
// previous blob intact.
type FileStore struct {
	mu   sync.Mutex
	path string
}

// NewFileStore creates a store writing to path. The parent directory is
// created on first save.
func NewFileStore(path string) *FileStore {
	if path == "" {
		panic("storage.NewFileStore: path is required")
	}
	return &FileStore{path: path}
}

// Save atomically replaces the persisted blob.
func (f *FileStore) Save(ctx context.Context, b domain.PersistedBoard) error {
	data, err := json.Marshal(b)
	if err != nil {
		return err
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return err
	}
	dir := filepath.Dir(f.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	tmp := f.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return err
	}
	if err := syncFile(tmp); err != nil {
		return err
	}
	if err := os.Rename(tmp, f.path); err != nil {
		return err
	}
	return syncDir(dir)
}

// Load reads the persisted blob. A missing file reports ok=false with no
// error; a malformed file reports ok=false with the decode error so the
// caller can log it and start empty.
func (f *FileStore) Load(ctx context.Context) (domain.PersistedBoard, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return nil, false, err
	}
	data, err := os.ReadFile(f.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, false, nil
		}
		return nil, false, err
	}
	var b domain.PersistedBoard
	if err := json.Unmarshal(data, &b); err != nil {
		return nil, false, err
	}
	return b, true, nil
}

func syncFile(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return f.Sync()
}

func syncDir(path string) error {
	dir, err := os.Open(path)
	if err != nil {
		return err
	}
	defer dir.Close()
	return dir.Sync()
}
