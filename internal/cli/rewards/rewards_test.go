package rewards

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/julianstephens/nowaste/internal/cli"
	"github.com/julianstephens/nowaste/internal/config"
	"github.com/julianstephens/nowaste/internal/engine"
	"github.com/julianstephens/nowaste/internal/storage/bbolt"
)

func setupContext(t *testing.T) (*cli.Context, *bytes.Buffer) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "state.bolt")
	store := bbolt.NewStore(path)
	require.NoError(t, store.Init())
	t.Cleanup(func() { _ = store.Close() })

	out := &bytes.Buffer{}
	ctx := &cli.Context{
		Config: config.Config{ConfigPath: path, Timezone: "UTC"},
		Store:  store,
		Out:    out,
	}
	require.NoError(t, ctx.Load())
	return ctx, out
}

func TestRewardAddCmd(t *testing.T) {
	ctx, out := setupContext(t)

	require.NoError(t, (&RewardAddCmd{Name: "bubble tea", Score: 20}).Run(ctx))
	assert.Contains(t, out.String(), "Added reward: #1 bubble tea (20 pts, normal tier, unclaimed)")
	assert.Contains(t, out.String(), "19 reward slot(s) left")

	err := (&RewardAddCmd{Name: "odd", Score: 30}).Run(ctx)
	var verr *engine.ValidationError
	assert.True(t, errors.As(err, &verr))
}

func TestRewardAddCmd_Capacity(t *testing.T) {
	ctx, _ := setupContext(t)
	for i := 0; i < 20; i++ {
		require.NoError(t, (&RewardAddCmd{Name: fmt.Sprintf("r%d", i), Score: 10}).Run(ctx))
	}

	err := (&RewardAddCmd{Name: "one too many", Score: 10}).Run(ctx)
	var capErr *engine.CapacityError
	require.True(t, errors.As(err, &capErr))
	assert.Equal(t, 20, capErr.Unclaimed)
}

func TestRewardBatchCmd(t *testing.T) {
	ctx, out := setupContext(t)

	file := filepath.Join(t.TempDir(), "rewards.json")
	require.NoError(t, os.WriteFile(file, []byte(`[{"name":"spa day","requiredScore":100},{"name":"snack"}]`), 0o600))

	cmd := &RewardBatchCmd{File: file, Rows: []string{"movie|50", "bad|abc", "|", "sticker|10"}}
	require.NoError(t, cmd.Validate())
	require.NoError(t, cmd.Run(ctx))

	s := out.String()
	assert.Contains(t, s, "Added 4 reward(s)")
	assert.Contains(t, s, "#2 snack (20 pts, normal tier, unclaimed)")
	assert.Contains(t, s, "Skipped 1 row(s)")
	assert.Contains(t, s, "row 4: invalid requiredScore")
	assert.Contains(t, s, "16 reward slot(s) left")
}

func TestRewardBatchCmd_ZeroScore(t *testing.T) {
	ctx, out := setupContext(t)

	cmd := &RewardBatchCmd{Rows: []string{"free lunch|0", "nap|"}}
	require.NoError(t, cmd.Run(ctx))

	s := out.String()
	assert.Contains(t, s, "Added 1 reward(s)")
	assert.Contains(t, s, "nap (20 pts")
	assert.Contains(t, s, "row 1: invalid requiredScore")
	rewards := ctx.Engine.ListRewards()
	require.Len(t, rewards, 1)
	assert.Equal(t, "nap", rewards[0].Name)
}

func TestRewardListCmd(t *testing.T) {
	ctx, out := setupContext(t)
	require.NoError(t, (&RewardListCmd{}).Run(ctx))
	assert.Contains(t, out.String(), "No rewards found.")

	_, err := ctx.Engine.CreateRewards([]engine.RewardInput{{Name: "a", RequiredScore: engine.Required(10)}, {Name: "b", RequiredScore: engine.Required(50)}})
	require.NoError(t, err)

	out.Reset()
	require.NoError(t, (&RewardListCmd{Unclaimed: true}).Run(ctx))
	assert.Contains(t, out.String(), "#1 a (10 pts, normal tier, unclaimed)")
	assert.Contains(t, out.String(), "#2 b (50 pts, luxury tier, unclaimed)")
	assert.Contains(t, out.String(), "2 of 20 unclaimed slots used")
}
