// Package lock keeps a second nowaste process from writing the same store.
package lock

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/mitchellh/go-ps"

	"github.com/julianstephens/nowaste/internal/constants"
	"github.com/julianstephens/nowaste/internal/logger"
)

// writeGrace is how long a lock file without a pid is assumed to belong to a
// process that created it and has not written its pid yet.
const writeGrace = 2 * time.Second

var (
	findProcessFunc = ps.FindProcess
	getpid          = os.Getpid
	now             = time.Now
)

// HeldError is returned when a live process already owns the lock.
type HeldError struct {
	Path string
	PID  int
}

func (e *HeldError) Error() string {
	if e.PID <= 0 {
		return fmt.Sprintf("store is in use by another nowaste process (lock %s)", e.Path)
	}
	return fmt.Sprintf("store is in use by another nowaste process (pid %d, lock %s)", e.PID, e.Path)
}

// Lock is a pid file next to the store.
type Lock struct {
	path string
	pid  int
}

// PathFor returns the lock file used for a store living in dir.
func PathFor(dir string) string {
	return filepath.Join(dir, constants.LockfileName)
}

// Acquire creates the lock file in dir. A lock left behind by a process that
// is no longer running is taken over.
func Acquire(dir string) (*Lock, error) {
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("failed to create lock directory: %w", err)
	}
	path := PathFor(dir)
	pid := getpid()

	for attempt := 0; attempt < 2; attempt++ {
		f, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o600)
		if err == nil {
			_, werr := f.WriteString(strconv.Itoa(pid))
			cerr := f.Close()
			if werr != nil || cerr != nil {
				_ = os.Remove(path)
				return nil, fmt.Errorf("failed to write lock file: %w", errors.Join(werr, cerr))
			}
			return &Lock{path: path, pid: pid}, nil
		}
		if !errors.Is(err, os.ErrExist) {
			return nil, fmt.Errorf("failed to create lock file: %w", err)
		}

		owner, alive := holder(path)
		if alive && owner != pid {
			return nil, &HeldError{Path: path, PID: owner}
		}
		logger.Warn("Removing stale lock", "path", path, "pid", owner)
		if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("failed to remove stale lock: %w", err)
		}
	}
	return nil, fmt.Errorf("failed to acquire lock %s", path)
}

// holder reads the pid in the lock file and reports whether it is running.
// A file without a valid pid is held while it is younger than writeGrace and
// stale after that.
func holder(path string) (int, bool) {
	info, err := os.Stat(path)
	if err != nil {
		return 0, false
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, false
	}
	pid, err := strconv.Atoi(strings.TrimSpace(string(data)))
	if err != nil || pid <= 0 {
		return 0, now().Sub(info.ModTime()) < writeGrace
	}
	proc, err := findProcessFunc(pid)
	if err != nil || proc == nil {
		return pid, false
	}
	return pid, true
}

// Release removes the lock file if it still belongs to this lock.
func (l *Lock) Release() error {
	if l == nil {
		return nil
	}
	data, err := os.ReadFile(l.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to read lock file: %w", err)
	}
	if strings.TrimSpace(string(data)) != strconv.Itoa(l.pid) {
		return nil
	}
	if err := os.Remove(l.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to remove lock file: %w", err)
	}
	return nil
}

func (l *Lock) Path() string {
	return l.path
}
