package models

import "github.com/julianstephens/nowaste/internal/constants"

// Snapshot is the complete persisted state of the application.
type Snapshot struct {
	Tasks           []Task   `json:"tasks" yaml:"tasks"`
	Rewards         []Reward `json:"rewards" yaml:"rewards"`
	Score           int      `json:"score" yaml:"score"`
	TaskIDCounter   int      `json:"taskIdCounter" yaml:"taskIdCounter"`
	RewardIDCounter int      `json:"rewardIdCounter" yaml:"rewardIdCounter"`
}

// Normalize fills defaults for data written by older versions: missing
// collections become empty and rewards without a score get the default tier.
// Every storage backend calls it on load, so nothing downstream has to.
func (s Snapshot) Normalize() Snapshot {
	n := s.Clone()
	for i := range n.Rewards {
		if n.Rewards[i].RequiredScore == 0 {
			n.Rewards[i].RequiredScore = constants.DefaultRequiredScore
		}
	}
	return n
}

// Clone returns a deep copy that shares no memory with s. Collections are
// never nil in the copy.
func (s Snapshot) Clone() Snapshot {
	c := s
	c.Tasks = make([]Task, len(s.Tasks))
	for i, t := range s.Tasks {
		c.Tasks[i] = t.Clone()
	}
	c.Rewards = make([]Reward, len(s.Rewards))
	copy(c.Rewards, s.Rewards)
	return c
}

// UnclaimedRewards counts rewards still waiting to be drawn.
func (s Snapshot) UnclaimedRewards() int {
	n := 0
	for _, r := range s.Rewards {
		if !r.Claimed {
			n++
		}
	}
	return n
}
