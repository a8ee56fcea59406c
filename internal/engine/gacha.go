package engine

import (
	"errors"
	"fmt"
	"strings"

	"github.com/julianstephens/nowaste/internal/constants"
	"github.com/julianstephens/nowaste/internal/logger"
	"github.com/julianstephens/nowaste/internal/models"
)

type Tier string

const (
	TierNormal  Tier = "normal"
	TierLuxury  Tier = "luxury"
	TierPremium Tier = "premium"
)

// Tiers lists the draw tiers from cheapest to most expensive.
var Tiers = []Tier{TierNormal, TierLuxury, TierPremium}

// ParseTier normalizes and validates a tier name.
func ParseTier(s string) (Tier, error) {
	t := Tier(strings.ToLower(strings.TrimSpace(s)))
	if _, ok := t.cost(); !ok {
		return "", &ValidationError{Field: "tier", Reason: "must be one of normal, luxury, premium"}
	}
	return t, nil
}

func (t Tier) cost() (int, bool) {
	switch t {
	case TierNormal:
		return constants.NormalDrawCost, true
	case TierLuxury:
		return constants.LuxuryDrawCost, true
	case TierPremium:
		return constants.PremiumDrawCost, true
	}
	return 0, false
}

// Cost is the fixed number of points a draw of this tier deducts.
func (t Tier) Cost() int {
	c, _ := t.cost()
	return c
}

// Admits reports whether a reward with the given score belongs to the tier.
// The normal tier admits 10 and 20 point rewards and charges 20 for both.
func (t Tier) Admits(requiredScore int) bool {
	switch t {
	case TierNormal:
		return requiredScore == 10 || requiredScore == 20
	case TierLuxury:
		return requiredScore == 50
	case TierPremium:
		return requiredScore == 100
	}
	return false
}

// TierForScore returns the tier a reward with requiredScore is drawn from.
func TierForScore(requiredScore int) (Tier, bool) {
	for _, t := range Tiers {
		if t.Admits(requiredScore) {
			return t, true
		}
	}
	return "", false
}

// TierAvailability is the derived state of one draw tier.
type TierAvailability struct {
	Tier     Tier
	Cost     int
	Eligible int
	Score    int
}

// Enabled reports whether a draw of this tier would succeed.
func (a TierAvailability) Enabled() bool {
	return a.Eligible > 0 && a.Score >= a.Cost
}

// DrawResult describes a successful draw.
type DrawResult struct {
	Reward models.Reward
	Tier   Tier
	Cost   int
	Score  int
}

func (e *Engine) eligible(s *models.Snapshot, t Tier) []int {
	var idx []int
	for i, r := range s.Rewards {
		if !r.Claimed && t.Admits(r.RequiredScore) {
			idx = append(idx, i)
		}
	}
	return idx
}

// TierStatus computes the availability of a tier from the current state.
func (e *Engine) TierStatus(t Tier) (TierAvailability, error) {
	cost, ok := t.cost()
	if !ok {
		return TierAvailability{}, &ValidationError{Field: "tier", Reason: fmt.Sprintf("unknown tier %q", t)}
	}
	return TierAvailability{
		Tier:     t,
		Cost:     cost,
		Eligible: len(e.eligible(&e.state, t)),
		Score:    e.state.Score,
	}, nil
}

// TierStatuses returns the availability of every tier.
func (e *Engine) TierStatuses() []TierAvailability {
	out := make([]TierAvailability, 0, len(Tiers))
	for _, t := range Tiers {
		a, _ := e.TierStatus(t)
		out = append(out, a)
	}
	return out
}

// Draw claims one eligible reward of the tier, chosen uniformly at random, and
// deducts the tier cost. The claim and the deduction are persisted together.
// When the tier is both empty and unaffordable the error joins a
// NoEligibleRewardError and an InsufficientScoreError.
func (e *Engine) Draw(t Tier) (DrawResult, error) {
	cost, ok := t.cost()
	if !ok {
		return DrawResult{}, &ValidationError{Field: "tier", Reason: fmt.Sprintf("unknown tier %q", t)}
	}

	next := e.state.Clone()
	idx := e.eligible(&next, t)

	var errs []error
	if len(idx) == 0 {
		errs = append(errs, &NoEligibleRewardError{Tier: t})
	}
	if next.Score < cost {
		errs = append(errs, &InsufficientScoreError{Tier: t, Required: cost, Score: next.Score})
	}
	if len(errs) > 0 {
		logger.Debug("Draw rejected", "tier", t, "eligible", len(idx), "score", next.Score)
		return DrawResult{}, errors.Join(errs...)
	}

	pick := idx[e.rng.IntN(len(idx))]
	next.Rewards[pick].Claimed = true
	next.Score -= cost

	if err := e.commit(next); err != nil {
		return DrawResult{}, err
	}

	reward := e.state.Rewards[pick]
	logger.Debug("Draw succeeded", "tier", t, "reward_id", reward.ID, "cost", cost, "score", next.Score)
	return DrawResult{Reward: reward, Tier: t, Cost: cost, Score: next.Score}, nil
}
