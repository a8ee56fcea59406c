package storage

import (
	"errors"

	"github.com/julianstephens/nowaste/internal/models"
)

// ErrNotInitialized is returned by Load when the store has never been created.
var ErrNotInitialized = errors.New("storage not initialized, run 'nowaste init' first")

// Provider persists the whole application snapshot. Load returns normalized
// data; Save replaces everything that was stored before in one step.
type Provider interface {
	// Lifecycle
	Init() error
	Load() (models.Snapshot, error)
	Save(models.Snapshot) error
	Close() error

	// Utils
	GetConfigPath() string
}

// SchemaReporter is implemented by stores with a versioned schema.
type SchemaReporter interface {
	SchemaVersion() (current, latest int, err error)
}
