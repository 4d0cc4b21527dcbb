package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"

	"ammcore/internal/model"
)

// FileStore keeps the pool snapshot in a local JSON file. Writes go to a
// temporary file first and are renamed into place, under an advisory lock
// on path+".lock" shared by every process using the file.
type FileStore struct {
	path string
}

type poolRecord struct {
	Pool      model.PoolInfo `json:"pool"`
	UpdatedAt string         `json:"updated_at"`
}

const lockRetryDelay = 20 * time.Millisecond

func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

func (s *FileStore) LoadPool(_ context.Context) (model.PoolInfo, bool, error) {
	return s.read()
}

func (s *FileStore) read() (model.PoolInfo, bool, error) {
	stat, err := os.Stat(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return model.PoolInfo{}, false, nil
		}
		return model.PoolInfo{}, false, fmt.Errorf("stat pool state: %w", err)
	}
	if stat.IsDir() {
		return model.PoolInfo{}, false, fmt.Errorf("pool state path is a directory")
	}

	data, err := os.ReadFile(s.path)
	if err != nil {
		return model.PoolInfo{}, false, fmt.Errorf("read pool state: %w", err)
	}

	var rec poolRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return model.PoolInfo{}, false, fmt.Errorf("parse pool state: %w", err)
	}
	if err := rec.Pool.Validate(); err != nil {
		return model.PoolInfo{}, false, fmt.Errorf("stored pool state: %w", err)
	}

	return rec.Pool, true, nil
}

func (s *FileStore) SavePool(ctx context.Context, expected *model.PoolInfo, info model.PoolInfo) error {
	dir := filepath.Dir(s.path)
	if dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create pool state dir: %w", err)
		}
	}

	lock := flock.New(s.path + ".lock")
	locked, err := lock.TryLockContext(ctx, lockRetryDelay)
	if err != nil {
		return fmt.Errorf("lock pool state: %w", err)
	}
	if !locked {
		return fmt.Errorf("lock pool state: %s is held", lock.Path())
	}
	defer lock.Unlock()

	current, stored, err := s.read()
	if err != nil {
		return err
	}
	if err := checkExpected(expected, current, stored); err != nil {
		return err
	}

	rec := poolRecord{
		Pool:      info,
		UpdatedAt: time.Now().UTC().Format(time.RFC3339Nano),
	}
	data, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal pool state: %w", err)
	}

	tmpPath := s.path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0o644); err != nil {
		return fmt.Errorf("write pool state tmp: %w", err)
	}
	if err := os.Rename(tmpPath, s.path); err != nil {
		return fmt.Errorf("rename pool state: %w", err)
	}

	return nil
}
