package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/julianstephens/nowaste/internal/models"
)

// JSONStore keeps the snapshot in a single JSON document using the same keys
// as the browser version's local storage, so its exports load unchanged.
//
// The counters mean something slightly different here. The browser stores the
// next id to hand out and starts at 0; nowaste stores the last id handed out
// and starts at 1. Loading a browser document is safe because the engine only
// ever moves a counter up past the highest stored id. A document written here
// is not safe to load back into the browser without adding one to each
// counter.
type JSONStore struct {
	path string
}

func NewJSONStore(configPath string) *JSONStore {
	return &JSONStore{
		path: configPath,
	}
}

// Init creates the file with an empty snapshot. An existing file is kept.
func (s *JSONStore) Init() error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	if _, err := os.Stat(s.path); err == nil {
		return nil
	}

	return s.Save(models.Snapshot{})
}

func (s *JSONStore) Load() (models.Snapshot, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return models.Snapshot{}, ErrNotInitialized
		}
		return models.Snapshot{}, fmt.Errorf("failed to read storage: %w", err)
	}

	var snap models.Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return models.Snapshot{}, fmt.Errorf("failed to parse storage: %w", err)
	}

	return snap.Normalize(), nil
}

// Save writes to a temporary file and renames it over the old one so a crash
// never leaves a half-written document.
func (s *JSONStore) Save(snap models.Snapshot) error {
	data, err := json.MarshalIndent(snap.Clone(), "", "  ")
	if err != nil {
		return fmt.Errorf("failed to serialize storage: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.path), filepath.Base(s.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to write storage: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write storage: %w", err)
	}
	if err := tmp.Chmod(0600); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write storage: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to write storage: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("failed to write storage: %w", err)
	}

	return nil
}

func (s *JSONStore) Close() error {
	return nil
}

func (s *JSONStore) GetConfigPath() string {
	return s.path
}
