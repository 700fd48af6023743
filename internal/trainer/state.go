package trainer

import "github.com/born-ml/digitnet/internal/metrics"

// State is the mutable progress of a session.
//
// Score and Cursor reset at the start of each phase; Cursor also resets at
// every epoch boundary.
type State struct {
	Phase  Phase
	Epoch  int             // completed training epochs
	Cursor int             // next sample position within the current epoch or test pass
	Score  metrics.Counter // predictions of the current epoch or test pass
	Cost   float64

	CostSum       float64   // sum of sample costs in the current epoch or test pass
	EpochAccuracy []float64 // one entry per completed epoch
	EpochCost     []float64 // mean cost per completed epoch
	Predictions   []int     // predicted class per test sample, filled while Testing
}

// resetPass clears the per-phase and per-epoch counters.
func (s *State) resetPass() {
	s.Cursor = 0
	s.Score.Reset()
	s.CostSum = 0
}
