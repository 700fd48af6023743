// Package optim implements the parameter update step.
//
// This package provides:
//   - Optimizer interface: applies one set of gradients to the parameters
//   - SGD: plain gradient descent, param -= lr * grad
//   - Accumulator: sums gradients across a batch for a single averaged update
//
// Example usage:
//
//	optimizer := optim.NewSGD(optim.SGDConfig{LR: 0.01})
//
//	act := net.Forward(input)
//	grads := net.Backward(act, target)
//	optimizer.Step(net.Parameters(), grads.List())
package optim

import (
	"fmt"

	"github.com/born-ml/digitnet/internal/matrix"
	"github.com/born-ml/digitnet/internal/nn"
)

// Optimizer updates parameters in place from their gradients.
type Optimizer interface {
	// Step applies grads[i] to params[i]. Both slices must have the same
	// length and pairwise shapes.
	Step(params []*nn.Parameter, grads []*matrix.Matrix) error

	// GetLR returns the current learning rate.
	GetLR() float64
}

func checkPairs(params []*nn.Parameter, grads []*matrix.Matrix) error {
	if len(params) != len(grads) {
		return fmt.Errorf("optim: %d parameters but %d gradients", len(params), len(grads))
	}
	for i, p := range params {
		if grads[i] == nil {
			return fmt.Errorf("optim: missing gradient for %s", p.Name())
		}
		if grads[i].Shape() != p.Value().Shape() {
			return fmt.Errorf("optim: gradient for %s: %w", p.Name(), &matrix.DimensionError{
				Op:  "step",
				A:   p.Value().Shape(),
				B:   grads[i].Shape(),
				Err: matrix.ErrDimensionMismatch,
			})
		}
	}
	return nil
}
