package engine

import "github.com/julianstephens/nowaste/internal/constants"

// Score returns the current score. It can be negative.
func (e *Engine) Score() int {
	return e.state.Score
}

// completionDelta is the only place completion points are decided.
func completionDelta(onTime bool) int {
	if onTime {
		return constants.OnTimeCompletionPoints
	}
	return constants.LateCompletionPoints
}
