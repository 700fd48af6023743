package nn

import (
	"math"

	"github.com/born-ml/digitnet/internal/matrix"
)

// Bounds of the sigmoid in float64. 1/(1+exp(-x)) rounds to exactly 1 for
// x above ~37 and to 0 below ~-745.
var (
	sigmoidMin = math.Nextafter(0, 1)
	sigmoidMax = math.Nextafter(1, 0)
)

// sigmoid is the logistic function σ(x) = 1 / (1 + exp(-x)), kept inside the
// open interval (0, 1).
func sigmoid(x float64) float64 {
	return math.Min(math.Max(1.0/(1.0+math.Exp(-x)), sigmoidMin), sigmoidMax)
}

// Sigmoid applies σ(x) = 1 / (1 + exp(-x)) elementwise.
//
// Values are squashed into the open range (0, 1).
func Sigmoid(m *matrix.Matrix) *matrix.Matrix {
	return matrix.Apply(m, sigmoid)
}

// SigmoidGrad returns a*(1-a) elementwise, the derivative of the sigmoid
// expressed through its own output.
//
// The input must already be activated; the sigmoid is not applied again.
func SigmoidGrad(activated *matrix.Matrix) *matrix.Matrix {
	return matrix.Apply(activated, func(a float64) float64 {
		return a * (1 - a)
	})
}

// Softmax normalizes exp(x) over every element of m so the result sums to 1.
//
// The maximum is subtracted before exponentiation; the result is unchanged
// and large inputs no longer overflow.
func Softmax(m *matrix.Matrix) *matrix.Matrix {
	peak := matrix.Max(m)
	exp := matrix.Apply(m, func(x float64) float64 {
		return math.Exp(x - peak)
	})
	return matrix.Scale(exp, 1/matrix.Sum(exp))
}
