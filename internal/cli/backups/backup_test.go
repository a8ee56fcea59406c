package backups

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/julianstephens/nowaste/internal/backup"
	"github.com/julianstephens/nowaste/internal/cli"
	"github.com/julianstephens/nowaste/internal/config"
	"github.com/julianstephens/nowaste/internal/models"
	"github.com/julianstephens/nowaste/internal/storage"
	"github.com/julianstephens/nowaste/internal/storage/sqlite"
)

func setupContext(t *testing.T, input string) (*cli.Context, *bytes.Buffer) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "nowaste.db")
	store := sqlite.NewStore(path)
	require.NoError(t, store.Init())
	t.Cleanup(func() { _ = store.Close() })

	out := &bytes.Buffer{}
	ctx := &cli.Context{
		Config: config.Config{ConfigPath: path, Timezone: "UTC"},
		Store:  store,
		Out:    out,
		In:     strings.NewReader(input),
	}
	require.NoError(t, ctx.Load())
	return ctx, out
}

func TestBackupCreateAndList(t *testing.T) {
	ctx, out := setupContext(t, "")

	require.NoError(t, (&BackupListCmd{}).Run(ctx))
	assert.Contains(t, out.String(), "No backups found.")

	out.Reset()
	require.NoError(t, (&BackupCreateCmd{}).Run(ctx))
	assert.Contains(t, out.String(), "✓ Backup created: nowaste-")

	out.Reset()
	require.NoError(t, (&BackupListCmd{}).Run(ctx))
	assert.Contains(t, out.String(), "Available backups (1 total, keeping most recent 14)")
}

func TestBackupRestoreCmd(t *testing.T) {
	ctx, out := setupContext(t, "y\n")
	require.NoError(t, ctx.Store.Save(models.Snapshot{Score: 42}))

	mgr := backup.NewManager(ctx.Store.GetConfigPath())
	path, err := mgr.CreateBackup()
	require.NoError(t, err)
	require.NoError(t, ctx.Store.Save(models.Snapshot{Score: 1}))

	require.NoError(t, (&BackupRestoreCmd{BackupFile: filepath.Base(path)}).Run(ctx))
	assert.Contains(t, out.String(), "✓ Database restored")

	reopened := sqlite.NewStore(ctx.Store.GetConfigPath())
	defer reopened.Close()
	snap, err := reopened.Load()
	require.NoError(t, err)
	assert.Equal(t, 42, snap.Score)
}

func TestBackupRestoreCmd_Cancelled(t *testing.T) {
	ctx, out := setupContext(t, "no\n")
	path, err := backup.NewManager(ctx.Store.GetConfigPath()).CreateBackup()
	require.NoError(t, err)

	require.NoError(t, (&BackupRestoreCmd{BackupFile: path}).Run(ctx))
	assert.Contains(t, out.String(), "Restore cancelled.")
}

func TestBackupRequiresSQLite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json")
	store := storage.NewJSONStore(path)
	require.NoError(t, store.Init())
	ctx := &cli.Context{Config: config.Config{ConfigPath: path}, Store: store, Out: &bytes.Buffer{}}

	assert.ErrorIs(t, (&BackupCreateCmd{}).Run(ctx), errNotSQLite)
	assert.ErrorIs(t, (&BackupListCmd{}).Run(ctx), errNotSQLite)
}
