package nn

import (
	"fmt"
	"math"
	"math/rand"
	"strings"

	"github.com/born-ml/digitnet/internal/matrix"
)

// Initializer fills a freshly allocated weight matrix.
//
// fanIn and fanOut are the input and output widths of the layer that owns
// the weights.
type Initializer interface {
	Init(w *matrix.Matrix, fanIn, fanOut int)
	Name() string
}

// Zero leaves every weight at 0.
//
// Hidden units start identical and receive identical updates, so the hidden
// layer cannot differentiate them. Kept for reproducing the reference run.
type Zero struct{}

// Init implements Initializer.
func (Zero) Init(w *matrix.Matrix, _, _ int) {
	matrix.Fill(w, 0)
}

// Name implements Initializer.
func (Zero) Name() string { return "zero" }

// Uniform draws weights from U(-Bound, Bound).
type Uniform struct {
	Bound float64
	Rand  *rand.Rand
}

// Init implements Initializer.
func (u Uniform) Init(w *matrix.Matrix, _, _ int) {
	data := w.Data()
	for i := range data {
		data[i] = (u.Rand.Float64()*2.0 - 1.0) * u.Bound
	}
}

// Name implements Initializer.
func (Uniform) Name() string { return "uniform" }

// Gaussian draws weights from N(0, Std²).
type Gaussian struct {
	Std  float64
	Rand *rand.Rand
}

// Init implements Initializer.
func (g Gaussian) Init(w *matrix.Matrix, _, _ int) {
	data := w.Data()
	for i := range data {
		data[i] = g.Rand.NormFloat64() * g.Std
	}
}

// Name implements Initializer.
func (Gaussian) Name() string { return "gaussian" }

// Xavier (Glorot) initialization.
//
// Weights are drawn from U(-sqrt(6/(fan_in + fan_out)), sqrt(6/(fan_in + fan_out))),
// which keeps the activation variance roughly constant across layers.
type Xavier struct {
	Rand *rand.Rand
}

// Init implements Initializer.
func (x Xavier) Init(w *matrix.Matrix, fanIn, fanOut int) {
	bound := math.Sqrt(6.0 / float64(fanIn+fanOut))
	Uniform{Bound: bound, Rand: x.Rand}.Init(w, fanIn, fanOut)
}

// Name implements Initializer.
func (Xavier) Name() string { return "xavier" }

// Default scales for the random initializers.
const (
	DefaultUniformBound = 0.05
	DefaultGaussianStd  = 0.05
)

// InitializerNames lists the names accepted by NewInitializer.
var InitializerNames = []string{"zero", "uniform", "gaussian", "xavier"}

// NewInitializer returns the initializer registered under name, seeded with seed.
// scale sets the bound (uniform) or standard deviation (gaussian); 0 selects
// the package default. Other strategies ignore it.
func NewInitializer(name string, scale float64, seed int64) (Initializer, error) {
	//nolint:gosec // Using math/rand for weight initialization (not security-critical)
	rng := rand.New(rand.NewSource(seed))
	switch strings.ToLower(name) {
	case "zero", "zeros":
		return Zero{}, nil
	case "uniform":
		if scale == 0 {
			scale = DefaultUniformBound
		}
		return Uniform{Bound: scale, Rand: rng}, nil
	case "gaussian", "normal":
		if scale == 0 {
			scale = DefaultGaussianStd
		}
		return Gaussian{Std: scale, Rand: rng}, nil
	case "xavier", "glorot":
		return Xavier{Rand: rng}, nil
	default:
		return nil, fmt.Errorf("unknown initializer %q (want one of %s)", name, strings.Join(InitializerNames, ", "))
	}
}
