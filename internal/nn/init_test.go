package nn_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/born-ml/digitnet/internal/matrix"
	"github.com/born-ml/digitnet/internal/nn"
)

func TestNewInitializer_Names(t *testing.T) {
	for _, name := range nn.InitializerNames {
		init, err := nn.NewInitializer(name, 0, 1)
		require.NoError(t, err, name)
		assert.Equal(t, name, init.Name())
	}

	_, err := nn.NewInitializer("he", 0, 1)
	assert.ErrorContains(t, err, "unknown initializer")
}

func TestInitializers_Bounds(t *testing.T) {
	tests := []struct {
		name  string
		scale float64
		bound float64
	}{
		{"zero", 0, 0},
		{"uniform", 0.2, 0.2},
		{"uniform", 0, nn.DefaultUniformBound},
		{"xavier", 0, math.Sqrt(6.0 / (100 + 10))},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			init, err := nn.NewInitializer(tt.name, tt.scale, 42)
			require.NoError(t, err)

			w, err := matrix.New(10, 100)
			require.NoError(t, err)
			init.Init(w, 100, 10)

			for _, v := range w.Data() {
				assert.LessOrEqual(t, math.Abs(v), tt.bound)
			}
		})
	}
}

func TestGaussian_Moments(t *testing.T) {
	init, err := nn.NewInitializer("gaussian", 0.5, 7)
	require.NoError(t, err)

	w, err := matrix.New(100, 100)
	require.NoError(t, err)
	init.Init(w, 100, 100)

	mean := matrix.Sum(w) / float64(w.Len())
	variance := 0.0
	for _, v := range w.Data() {
		variance += (v - mean) * (v - mean)
	}
	variance /= float64(w.Len())

	assert.InDelta(t, 0, mean, 0.02)
	assert.InDelta(t, 0.25, variance, 0.02)
}

func TestInitializers_Seeded(t *testing.T) {
	a, _ := nn.NewInitializer("uniform", 0, 99)
	b, _ := nn.NewInitializer("uniform", 0, 99)

	wa, _ := matrix.New(4, 4)
	wb, _ := matrix.New(4, 4)
	a.Init(wa, 4, 4)
	b.Init(wb, 4, 4)

	assert.True(t, wa.Equal(wb), "same seed must give the same weights")
}
