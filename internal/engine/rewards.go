package engine

import (
	"strconv"
	"strings"

	"github.com/julianstephens/nowaste/internal/constants"
	"github.com/julianstephens/nowaste/internal/logger"
	"github.com/julianstephens/nowaste/internal/models"
)

// RewardInput describes a reward to add. A nil RequiredScore means the
// default tier; an explicit zero is rejected like any other off-tier value.
type RewardInput struct {
	Name          string `json:"name" yaml:"name"`
	RequiredScore *int   `json:"requiredScore,omitempty" yaml:"requiredScore,omitempty"`
}

// Required returns a pointer to n for RewardInput.RequiredScore.
func Required(n int) *int {
	return &n
}

// ParseRewardScore converts user input to a reward score. Blank input yields
// nil, which validation turns into the default.
func ParseRewardScore(s string) (*int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return nil, &ValidationError{Field: "requiredScore", Reason: scoreReason}
	}
	return &n, nil
}

var scoreReason = "must be one of " + joinScores()

func joinScores() string {
	parts := make([]string, len(constants.RewardScores))
	for i, n := range constants.RewardScores {
		parts[i] = strconv.Itoa(n)
	}
	return strings.Join(parts, ", ")
}

func (in RewardInput) blank() bool {
	return strings.TrimSpace(in.Name) == "" && in.RequiredScore == nil
}

type validReward struct {
	name  string
	score int
}

func (in RewardInput) validate() (validReward, error) {
	out := validReward{name: strings.TrimSpace(in.Name), score: constants.DefaultRequiredScore}
	if out.name == "" {
		return validReward{}, &ValidationError{Field: "name", Reason: "must not be empty"}
	}
	if in.RequiredScore != nil {
		out.score = *in.RequiredScore
	}
	if !models.IsValidRequiredScore(out.score) {
		return validReward{}, &ValidationError{Field: "requiredScore", Reason: scoreReason}
	}
	return out, nil
}

// CreateReward adds an unclaimed reward unless the catalog is full.
func (e *Engine) CreateReward(in RewardInput) (models.Reward, error) {
	valid, err := in.validate()
	if err != nil {
		return models.Reward{}, err
	}
	if unclaimed := e.state.UnclaimedRewards(); unclaimed >= constants.MaxUnclaimedRewards {
		return models.Reward{}, &CapacityError{Limit: constants.MaxUnclaimedRewards, Unclaimed: unclaimed}
	}

	next := e.state.Clone()
	reward := appendReward(&next, valid)
	if err := e.commit(next); err != nil {
		return models.Reward{}, err
	}

	logger.Debug("Reward created", "id", reward.ID, "required_score", reward.RequiredScore)
	return reward, nil
}

// CreateRewards adds every valid row in one persist. Rows past the remaining
// capacity fail with a CapacityError even when they are otherwise valid.
func (e *Engine) CreateRewards(rows []RewardInput) (BatchResult[models.Reward], error) {
	var res BatchResult[models.Reward]
	next := e.state.Clone()
	unclaimed := next.UnclaimedRewards()

	for i, row := range rows {
		if row.blank() {
			continue
		}
		valid, err := row.validate()
		if err != nil {
			res.Errors = append(res.Errors, &RowError{Row: i + 1, Err: err})
			continue
		}
		if unclaimed >= constants.MaxUnclaimedRewards {
			res.Errors = append(res.Errors, &RowError{
				Row: i + 1,
				Err: &CapacityError{Limit: constants.MaxUnclaimedRewards, Unclaimed: unclaimed},
			})
			continue
		}
		res.Added = append(res.Added, appendReward(&next, valid))
		unclaimed++
	}

	if len(res.Added) == 0 {
		return res, nil
	}
	if err := e.commit(next); err != nil {
		return BatchResult[models.Reward]{}, err
	}

	logger.Debug("Reward batch created", "added", len(res.Added), "failed", len(res.Errors))
	return res, nil
}

func appendReward(s *models.Snapshot, in validReward) models.Reward {
	s.RewardIDCounter++
	reward := models.Reward{
		ID:            s.RewardIDCounter,
		Name:          in.name,
		RequiredScore: in.score,
	}
	s.Rewards = append(s.Rewards, reward)
	return reward
}

// ListRewards returns all rewards in insertion order.
func (e *Engine) ListRewards() []models.Reward {
	out := make([]models.Reward, len(e.state.Rewards))
	copy(out, e.state.Rewards)
	return out
}

// RemainingRewardSlots is how many more unclaimed rewards can be added.
func (e *Engine) RemainingRewardSlots() int {
	return max(0, constants.MaxUnclaimedRewards-e.state.UnclaimedRewards())
}
