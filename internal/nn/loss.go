package nn

import (
	"github.com/born-ml/digitnet/internal/matrix"
)

// MeanSquaredError computes Σ (target - output)² / size.
//
// Both matrices must have the same shape; a mismatch panics with a
// *matrix.DimensionError.
func MeanSquaredError(output, target *matrix.Matrix) float64 {
	diff := matrix.Sub(target, output)
	return matrix.Sum(matrix.Mul(diff, diff)) / float64(diff.Len())
}
