package bbolt

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.etcd.io/bbolt"

	"github.com/julianstephens/nowaste/internal/models"
	"github.com/julianstephens/nowaste/internal/storage"
)

const (
	stateBucket = "state"
	snapshotKey = "snapshot"
	versionKey  = "format_version"

	// formatVersion is bumped when the stored JSON layout changes.
	formatVersion = "1"
)

// Store keeps the snapshot as one JSON value in a BoltDB file. Every save is
// a single bolt transaction, so a snapshot is never partially written.
type Store struct {
	path string
	db   *bbolt.DB
}

func NewStore(path string) *Store {
	return &Store{path: path}
}

func (s *Store) open() error {
	if s.db != nil {
		return nil
	}
	if strings.TrimSpace(s.path) == "" {
		return fmt.Errorf("storage path is required")
	}

	db, err := bbolt.Open(filepath.Clean(s.path), 0o600, &bbolt.Options{Timeout: time.Second})
	if err != nil {
		return fmt.Errorf("open storage db: %w", err)
	}
	s.db = db
	return nil
}

func (s *Store) Init() error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if err := s.open(); err != nil {
		return err
	}
	return s.ensureBuckets()
}

func (s *Store) ensureBuckets() error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		bucket, err := tx.CreateBucketIfNotExists([]byte(stateBucket))
		if err != nil {
			return fmt.Errorf("create state bucket: %w", err)
		}
		if bucket.Get([]byte(versionKey)) == nil {
			return bucket.Put([]byte(versionKey), []byte(formatVersion))
		}
		return nil
	})
}

func (s *Store) Load() (models.Snapshot, error) {
	if s.db == nil {
		if _, err := os.Stat(s.path); errors.Is(err, fs.ErrNotExist) {
			return models.Snapshot{}, storage.ErrNotInitialized
		}
		if err := s.open(); err != nil {
			return models.Snapshot{}, err
		}
	}

	var snap models.Snapshot
	err := s.db.View(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket([]byte(stateBucket))
		if bucket == nil {
			return storage.ErrNotInitialized
		}
		if v := bucket.Get([]byte(versionKey)); v != nil && string(v) != formatVersion {
			return fmt.Errorf("unsupported storage format version %s", v)
		}
		payload := bucket.Get([]byte(snapshotKey))
		if payload == nil {
			return nil
		}
		if err := json.Unmarshal(payload, &snap); err != nil {
			return fmt.Errorf("unmarshal snapshot: %w", err)
		}
		return nil
	})
	if err != nil {
		return models.Snapshot{}, err
	}
	return snap.Normalize(), nil
}

func (s *Store) Save(snap models.Snapshot) error {
	if s.db == nil {
		return fmt.Errorf("storage is not configured")
	}

	payload, err := json.Marshal(snap.Clone())
	if err != nil {
		return fmt.Errorf("marshal snapshot: %w", err)
	}

	return s.db.Update(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket([]byte(stateBucket))
		if bucket == nil {
			return fmt.Errorf("state bucket is missing")
		}
		return bucket.Put([]byte(snapshotKey), payload)
	})
}

// Close closes the underlying BoltDB database.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	err := s.db.Close()
	s.db = nil
	return err
}

func (s *Store) GetConfigPath() string {
	return s.path
}
