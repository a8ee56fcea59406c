package models

import (
	"slices"

	"github.com/julianstephens/nowaste/internal/constants"
)

type Reward struct {
	ID            int    `json:"id" yaml:"id"`
	Name          string `json:"name" yaml:"name"`
	RequiredScore int    `json:"requiredScore,omitempty" yaml:"requiredScore,omitempty"`
	Claimed       bool   `json:"claimed" yaml:"claimed"`
}

// IsValidRequiredScore reports whether score is one of the reward tiers.
func IsValidRequiredScore(score int) bool {
	return slices.Contains(constants.RewardScores, score)
}
