package optim

import (
	"github.com/born-ml/digitnet/internal/matrix"
)

// Accumulator sums gradients over several samples so one averaged update can
// be applied per batch.
type Accumulator struct {
	sums  []*matrix.Matrix
	count int
}

// Add adds one sample's gradients. The first call fixes the layout; later
// calls must pass the same number of gradients with the same shapes.
func (a *Accumulator) Add(grads []*matrix.Matrix) {
	if a.sums == nil {
		a.sums = make([]*matrix.Matrix, len(grads))
		for i, g := range grads {
			a.sums[i] = g.Clone()
		}
		a.count = 1
		return
	}
	for i, g := range grads {
		matrix.AddInPlace(a.sums[i], g)
	}
	a.count++
}

// Count returns how many gradient sets have been added since the last Reset.
func (a *Accumulator) Count() int {
	return a.count
}

// Mean returns the averaged gradients, or nil if nothing was added.
func (a *Accumulator) Mean() []*matrix.Matrix {
	if a.count == 0 {
		return nil
	}
	mean := make([]*matrix.Matrix, len(a.sums))
	for i, s := range a.sums {
		mean[i] = matrix.Scale(s, 1/float64(a.count))
	}
	return mean
}

// Reset clears the accumulated sums.
func (a *Accumulator) Reset() {
	a.sums = nil
	a.count = 0
}
