package engine

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/julianstephens/nowaste/internal/constants"
	"github.com/julianstephens/nowaste/internal/models"
)

func TestCreateReward(t *testing.T) {
	e, store := newTestEngine(t, models.Snapshot{})

	r, err := e.CreateReward(RewardInput{Name: " bubble tea "})
	require.NoError(t, err)
	assert.Equal(t, 1, r.ID)
	assert.Equal(t, "bubble tea", r.Name)
	assert.Equal(t, 20, r.RequiredScore)
	assert.False(t, r.Claimed)
	assert.Len(t, store.saved, 1)

	r, err = e.CreateReward(RewardInput{Name: "trip", RequiredScore: Required(100)})
	require.NoError(t, err)
	assert.Equal(t, 2, r.ID)
	assert.Equal(t, 100, r.RequiredScore)
}

func TestCreateRewardValidation(t *testing.T) {
	tests := []struct {
		name  string
		input RewardInput
		field string
	}{
		{"empty name", RewardInput{Name: " ", RequiredScore: Required(10)}, "name"},
		{"off tier score", RewardInput{Name: "x", RequiredScore: Required(30)}, "requiredScore"},
		{"negative score", RewardInput{Name: "x", RequiredScore: Required(-10)}, "requiredScore"},
		{"explicit zero score", RewardInput{Name: "x", RequiredScore: Required(0)}, "requiredScore"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e, store := newTestEngine(t, models.Snapshot{})
			_, err := e.CreateReward(tt.input)

			var verr *ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, tt.field, verr.Field)
			assert.Empty(t, store.saved)
		})
	}
}

func fullCatalog(n int, claimed int) models.Snapshot {
	var s models.Snapshot
	for i := 1; i <= n; i++ {
		s.Rewards = append(s.Rewards, models.Reward{
			ID:            i,
			Name:          fmt.Sprintf("reward %d", i),
			RequiredScore: 20,
			Claimed:       i <= claimed,
		})
	}
	s.RewardIDCounter = n
	return s
}

func TestCreateRewardCapacity(t *testing.T) {
	e, store := newTestEngine(t, fullCatalog(constants.MaxUnclaimedRewards, 0))

	_, err := e.CreateReward(RewardInput{Name: "one more"})
	var cerr *CapacityError
	require.ErrorAs(t, err, &cerr)
	assert.Equal(t, 20, cerr.Limit)
	assert.Equal(t, 20, cerr.Unclaimed)
	assert.Empty(t, store.saved)
	assert.Zero(t, e.RemainingRewardSlots())
}

func TestClaimedRewardsDoNotCountTowardCapacity(t *testing.T) {
	e, _ := newTestEngine(t, fullCatalog(25, 6))

	assert.Equal(t, 1, e.RemainingRewardSlots())
	_, err := e.CreateReward(RewardInput{Name: "last slot"})
	require.NoError(t, err)

	_, err = e.CreateReward(RewardInput{Name: "too many"})
	var cerr *CapacityError
	assert.ErrorAs(t, err, &cerr)
}

func TestCreateRewardsBatchCapacity(t *testing.T) {
	e, store := newTestEngine(t, fullCatalog(18, 0))

	res, err := e.CreateRewards([]RewardInput{
		{Name: "a", RequiredScore: Required(10)},
		{},
		{Name: "", RequiredScore: Required(50)},
		{Name: "b", RequiredScore: Required(50)},
		{Name: "c", RequiredScore: Required(100)},
		{Name: "d", RequiredScore: Required(15)},
	})
	require.NoError(t, err)

	require.Len(t, res.Added, 2)
	assert.Equal(t, "a", res.Added[0].Name)
	assert.Equal(t, "b", res.Added[1].Name)

	require.Len(t, res.Errors, 3)
	rows := []int{res.Errors[0].Row, res.Errors[1].Row, res.Errors[2].Row}
	assert.Equal(t, []int{3, 5, 6}, rows)

	var verr *ValidationError
	assert.ErrorAs(t, res.Errors[0], &verr)
	var cerr *CapacityError
	assert.ErrorAs(t, res.Errors[1], &cerr)
	assert.ErrorAs(t, res.Errors[2], &verr)

	snap := e.Snapshot()
	assert.Equal(t, 20, snap.UnclaimedRewards())
	assert.Equal(t, 20, snap.RewardIDCounter)
	assert.Len(t, store.saved, 1)
}

func TestUnclaimedNeverExceedsCap(t *testing.T) {
	e, _ := newTestEngine(t, models.Snapshot{})

	for i := 0; i < 30; i++ {
		if i%3 == 0 {
			var rows []RewardInput
			for j := 0; j < 4; j++ {
				rows = append(rows, RewardInput{Name: fmt.Sprintf("batch %d-%d", i, j), RequiredScore: Required(10)})
			}
			_, err := e.CreateRewards(rows)
			require.NoError(t, err)
		} else {
			_, _ = e.CreateReward(RewardInput{Name: fmt.Sprintf("single %d", i)})
		}
		require.LessOrEqual(t, e.Snapshot().UnclaimedRewards(), constants.MaxUnclaimedRewards)
	}
}

func TestParseRewardScore(t *testing.T) {
	n, err := ParseRewardScore(" 50 ")
	require.NoError(t, err)
	require.NotNil(t, n)
	assert.Equal(t, 50, *n)

	n, err = ParseRewardScore("")
	require.NoError(t, err)
	assert.Nil(t, n, "blank means the default tier")

	n, err = ParseRewardScore("0")
	require.NoError(t, err)
	require.NotNil(t, n)
	assert.Zero(t, *n)

	_, err = ParseRewardScore("lots")
	var verr *ValidationError
	assert.ErrorAs(t, err, &verr)
}
