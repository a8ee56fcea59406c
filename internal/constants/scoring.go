package constants

const (
	// Score deltas applied when a task is completed.
	OnTimeCompletionPoints = 2
	LateCompletionPoints   = -1

	// MaxUnclaimedRewards caps how many rewards may wait to be drawn.
	MaxUnclaimedRewards = 20

	// DefaultRequiredScore is used for rewards saved without a score.
	DefaultRequiredScore = 20

	// Gacha tier costs
	NormalDrawCost  = 20
	LuxuryDrawCost  = 50
	PremiumDrawCost = 100
)

// RewardScores lists the allowed reward tiers in ascending order.
var RewardScores = []int{10, 20, 50, 100}

// Feelings are the preset completion feelings offered by the CLI and TUI.
// Any non-empty free text is accepted as well.
var Feelings = []string{"easy", "smooth", "tired", "stressed", "procrastinated", "overwhelmed"}
