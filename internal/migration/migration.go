// Package migration brings a nowaste SQL store's schema up to the version
// embedded in the binary. Migrations are NNN_name.sql files; the applied
// version lives in a single-row schema_version table.
package migration

import (
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/julianstephens/nowaste/internal/logger"
)

type Migration struct {
	Version int
	Name    string
	SQL     string
}

// VersionError reports a store whose schema does not match the binary.
type VersionError struct {
	Dialect string
	Current int
	Latest  int
}

func (e *VersionError) Newer() bool {
	return e.Current > e.Latest
}

func (e *VersionError) Error() string {
	if e.Newer() {
		return fmt.Sprintf("%s schema version (%d) is newer than supported version (%d)", e.Dialect, e.Current, e.Latest)
	}
	return fmt.Sprintf("%s schema version (%d) is behind this nowaste build (%d): migrations incomplete", e.Dialect, e.Current, e.Latest)
}

// CompareVersions returns a *VersionError unless current equals latest.
func CompareVersions(dialect string, current, latest int) error {
	if current == latest {
		return nil
	}
	return &VersionError{Dialect: dialect, Current: current, Latest: latest}
}

// execer is satisfied by both *sql.DB and *sql.Tx.
type execer interface {
	Exec(query string, args ...any) (sql.Result, error)
}

// Runner applies the migrations in fsys to db. dialect names the store in
// log lines and errors.
type Runner struct {
	db      *sql.DB
	fs      fs.FS
	dialect string
}

func NewRunner(db *sql.DB, fsys fs.FS, dialect string) *Runner {
	return &Runner{db: db, fs: fsys, dialect: dialect}
}

func (r *Runner) ensureTable() error {
	if _, err := r.db.Exec(`CREATE TABLE IF NOT EXISTS schema_version (version INTEGER PRIMARY KEY)`); err != nil {
		return fmt.Errorf("failed to create schema_version table: %w", err)
	}
	return nil
}

// CurrentVersion is the applied schema version, 0 for a fresh database.
func (r *Runner) CurrentVersion() (int, error) {
	if err := r.ensureTable(); err != nil {
		return 0, err
	}
	var version int
	err := r.db.QueryRow("SELECT version FROM schema_version").Scan(&version)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("failed to read %s schema version: %w", r.dialect, err)
	}
	return version, nil
}

// recordVersion replaces the stored version. The statement is formatted
// rather than bound so it works with both placeholder styles.
func recordVersion(x execer, version int) error {
	if _, err := x.Exec("DELETE FROM schema_version"); err != nil {
		return fmt.Errorf("failed to clear schema version: %w", err)
	}
	if _, err := x.Exec(fmt.Sprintf("INSERT INTO schema_version (version) VALUES (%d)", version)); err != nil {
		return fmt.Errorf("failed to record schema version %d: %w", version, err)
	}
	return nil
}

// SetVersion overwrites the stored version without running anything.
func (r *Runner) SetVersion(version int) error {
	if err := r.ensureTable(); err != nil {
		return err
	}
	return recordVersion(r.db, version)
}

// parseName splits "001_tasks.sql" into 1 and "tasks".
func parseName(file string) (int, string, error) {
	num, name, ok := strings.Cut(strings.TrimSuffix(file, ".sql"), "_")
	if !ok {
		return 0, "", fmt.Errorf("invalid migration filename format: %s (expected NNN_name.sql)", file)
	}
	version, err := strconv.Atoi(num)
	if err != nil {
		return 0, "", fmt.Errorf("invalid version number in filename %s: %w", file, err)
	}
	if version < 1 {
		return 0, "", fmt.Errorf("invalid version number in filename %s: version must be at least 1", file)
	}
	return version, name, nil
}

// Migrations returns the embedded migrations in version order.
func (r *Runner) Migrations() ([]Migration, error) {
	entries, err := fs.ReadDir(r.fs, ".")
	if err != nil {
		return nil, fmt.Errorf("failed to read %s migrations: %w", r.dialect, err)
	}

	var out []Migration
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".sql") {
			continue
		}
		version, name, err := parseName(e.Name())
		if err != nil {
			return nil, err
		}
		body, err := fs.ReadFile(r.fs, e.Name())
		if err != nil {
			return nil, fmt.Errorf("failed to read migration %s: %w", e.Name(), err)
		}
		out = append(out, Migration{Version: version, Name: name, SQL: string(body)})
	}

	slices.SortFunc(out, func(a, b Migration) int { return a.Version - b.Version })
	for i := 1; i < len(out); i++ {
		if out[i].Version == out[i-1].Version {
			return nil, fmt.Errorf("duplicate migration version %d", out[i].Version)
		}
	}
	return out, nil
}

// LatestVersion is the highest embedded migration version.
func (r *Runner) LatestVersion() (int, error) {
	ms, err := r.Migrations()
	if err != nil || len(ms) == 0 {
		return 0, err
	}
	return ms[len(ms)-1].Version, nil
}

// Versions returns the applied and the latest embedded version.
func (r *Runner) Versions() (current, latest int, err error) {
	if current, err = r.CurrentVersion(); err != nil {
		return 0, 0, err
	}
	if latest, err = r.LatestVersion(); err != nil {
		return 0, 0, err
	}
	return current, latest, nil
}

// Apply runs every pending migration, each in its own transaction together
// with its version bump, and returns how many ran. A database newer than the
// binary is left alone.
func (r *Runner) Apply() (int, error) {
	current, err := r.CurrentVersion()
	if err != nil {
		return 0, err
	}
	ms, err := r.Migrations()
	if err != nil {
		return 0, err
	}
	if len(ms) == 0 {
		logger.Warn("No schema migrations embedded", "store", r.dialect)
		return 0, nil
	}
	latest := ms[len(ms)-1].Version
	if current > latest {
		return 0, CompareVersions(r.dialect, current, latest)
	}
	if current == latest {
		logger.Debug("Schema up to date", "store", r.dialect, "version", current)
		return 0, nil
	}

	logger.Info("Migrating nowaste schema", "store", r.dialect, "from", current, "to", latest)
	start := time.Now()
	applied := 0
	for _, m := range ms {
		if m.Version <= current {
			continue
		}
		if err := r.applyOne(m); err != nil {
			return applied, err
		}
		applied++
		logger.Info("Applied migration", "store", r.dialect, "version", m.Version, "name", m.Name)
	}
	logger.Info("Schema migrated", "store", r.dialect, "applied", applied, "took", time.Since(start))
	return applied, nil
}

func (r *Runner) applyOne(m Migration) error {
	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin migration %d: %w", m.Version, err)
	}
	if _, err := tx.Exec(m.SQL); err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("failed to apply migration %d (%s): %w", m.Version, m.Name, err)
	}
	if err := recordVersion(tx, m.Version); err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("migration %d: %w", m.Version, err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit migration %d: %w", m.Version, err)
	}
	return nil
}

// ValidateVersion fails with a *VersionError unless the schema is exactly at
// the latest embedded version.
func (r *Runner) ValidateVersion() error {
	current, latest, err := r.Versions()
	if err != nil {
		return err
	}
	return CompareVersions(r.dialect, current, latest)
}
