package optim

import (
	"github.com/born-ml/digitnet/internal/matrix"
	"github.com/born-ml/digitnet/internal/nn"
)

// DefaultLR is the learning rate used when SGDConfig.LR is zero.
const DefaultLR = 0.01

// SGD implements plain Stochastic Gradient Descent.
//
// Update rule:
//
//	param = param - lr * gradient
//
// There is no momentum and no per-parameter state.
type SGD struct {
	lr float64
}

// SGDConfig holds configuration for SGD optimizer.
type SGDConfig struct {
	LR float64 // Learning rate (default: 0.01)
}

// NewSGD creates a new SGD optimizer.
func NewSGD(config SGDConfig) *SGD {
	if config.LR == 0 {
		config.LR = DefaultLR
	}
	return &SGD{lr: config.LR}
}

// Step performs a single optimization step: param -= lr * grad for every pair.
//
// Shapes are checked before anything is written, so a failed step leaves
// every parameter untouched.
func (s *SGD) Step(params []*nn.Parameter, grads []*matrix.Matrix) error {
	if err := checkPairs(params, grads); err != nil {
		return err
	}
	for i, p := range params {
		matrix.SubInPlace(p.Value(), matrix.Scale(grads[i], s.lr))
	}
	return nil
}

// GetLR returns the current learning rate.
func (s *SGD) GetLR() float64 {
	return s.lr
}

// SetLR updates the learning rate.
func (s *SGD) SetLR(lr float64) {
	s.lr = lr
}
