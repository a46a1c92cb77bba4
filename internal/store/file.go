package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/nwestbury/lucky-draw-backend/internal/draw"
)

// FileStore keeps the aggregate in one JSON file. Writes go to a temp file in
// the same directory followed by a rename, so a crash mid-save leaves the old
// record intact.
type FileStore struct {
	path string
}

func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

func (f *FileStore) Load() (draw.State, error) {
	data, err := os.ReadFile(f.path)
	if os.IsNotExist(err) {
		s := draw.NewEmptyState()
		if err := f.Save(s); err != nil {
			return draw.State{}, err
		}
		return s, nil
	}
	if err != nil {
		return draw.State{}, fmt.Errorf("read state file: %w", err)
	}

	var s draw.State
	if err := json.Unmarshal(data, &s); err != nil {
		return draw.State{}, fmt.Errorf("decode state file: %w", err)
	}
	return s, nil
}

func (f *FileStore) Save(s draw.State) error {
	data, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("encode state: %w", err)
	}

	dir := filepath.Dir(f.path)
	tmp, err := os.CreateTemp(dir, ".draw-state-*")
	if err != nil {
		return fmt.Errorf("create temp state file: %w", err)
	}

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("write temp state file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("close temp state file: %w", err)
	}

	if err := os.Rename(tmp.Name(), f.path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("replace state file: %w", err)
	}
	return nil
}
