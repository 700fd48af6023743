// Package matrix implements the dense float64 matrix used by the network.
//
// A Matrix stores its elements in a flat row-major buffer. Element (x, y)
// lives in column x of row y, at linear index y*cols + x.
//
// Constructors return errors for invalid dimensions. Arithmetic on operands
// with incompatible shapes panics with a *DimensionError, the same way a
// compute backend rejects malformed operands; use Guard to turn such a panic
// back into an error at a call boundary.
//
// Example:
//
//	a, _ := matrix.FromSlice(2, 2, []float64{1, 2, 3, 4})
//	b, _ := matrix.Column([]float64{5, 6})
//	c := matrix.MatMul(a, b) // [[17] [39]]
package matrix
