package trainer

import (
	"errors"
	"fmt"

	"github.com/born-ml/digitnet/internal/nn"
)

// BatchMode selects how gradients inside a batch are applied.
type BatchMode string

// Supported batch modes.
const (
	// PerSample applies every sample's gradients immediately; the batch size
	// only groups samples for iteration.
	PerSample BatchMode = "per-sample"
	// Accumulate averages the gradients of a whole batch and applies them once.
	Accumulate BatchMode = "accumulate"
)

// EvalMode selects what the testing phase does after the forward pass.
type EvalMode string

// Supported evaluation modes.
const (
	// Inference only predicts; parameters are left untouched.
	Inference EvalMode = "inference"
	// UpdateDuringEval runs the backward pass and updates parameters on test
	// samples exactly like training does.
	UpdateDuringEval EvalMode = "update"
)

// Config is the immutable configuration of a training session.
type Config struct {
	Sizes           nn.Sizes
	LearningRate    float64
	Epochs          int
	BatchSize       int
	BatchesPerEpoch int // 0 means as many full batches as the training set holds
	BatchMode       BatchMode
	EvalMode        EvalMode
	InputScale      float64 // pixel multiplier applied when building the input column
	LogEvery        int     // log progress every N samples, 0 disables
}

// DefaultConfig returns the reference settings: 784-100-10, learning rate
// 0.01, per-sample updates, raw pixel magnitudes.
func DefaultConfig() Config {
	return Config{
		Sizes:        nn.DefaultSizes,
		LearningRate: 0.01,
		Epochs:       3,
		BatchSize:    10,
		BatchMode:    PerSample,
		EvalMode:     Inference,
		InputScale:   1.0,
		LogEvery:     10000,
	}
}

// Validate verifies the config is runnable.
func (c Config) Validate() error {
	if c.Sizes.Input <= 0 || c.Sizes.Hidden <= 0 || c.Sizes.Output <= 0 {
		return fmt.Errorf("layer sizes must be > 0 (got %d-%d-%d)", c.Sizes.Input, c.Sizes.Hidden, c.Sizes.Output)
	}
	if c.LearningRate <= 0 {
		return fmt.Errorf("learning rate must be > 0 (got %g)", c.LearningRate)
	}
	if c.Epochs < 0 {
		return fmt.Errorf("epochs must be >= 0 (got %d)", c.Epochs)
	}
	if c.BatchSize <= 0 {
		return fmt.Errorf("batch size must be > 0 (got %d)", c.BatchSize)
	}
	if c.BatchesPerEpoch < 0 {
		return fmt.Errorf("batches per epoch must be >= 0 (got %d)", c.BatchesPerEpoch)
	}
	if c.InputScale <= 0 {
		return fmt.Errorf("input scale must be > 0 (got %g)", c.InputScale)
	}
	switch c.BatchMode {
	case PerSample, Accumulate:
	default:
		return fmt.Errorf("unknown batch mode %q", c.BatchMode)
	}
	switch c.EvalMode {
	case Inference, UpdateDuringEval:
	default:
		return fmt.Errorf("unknown eval mode %q", c.EvalMode)
	}
	return nil
}

// ErrNotEnoughSamples is returned when an epoch needs more samples than the
// training set holds.
var ErrNotEnoughSamples = errors.New("not enough training samples")

// samplesPerEpoch returns batches × batch size for a training set of n samples.
func (c Config) samplesPerEpoch(n int) (int, error) {
	batches := c.BatchesPerEpoch
	if batches == 0 {
		batches = n / c.BatchSize
	}
	total := batches * c.BatchSize
	if total == 0 || total > n {
		return 0, fmt.Errorf("%w: %d batches of %d need %d, have %d",
			ErrNotEnoughSamples, batches, c.BatchSize, total, n)
	}
	return total, nil
}
