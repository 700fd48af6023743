package matrix

import (
	"errors"
	"fmt"
)

// Common errors.
var (
	ErrInvalidDimension  = errors.New("invalid matrix dimension")
	ErrDimensionMismatch = errors.New("matrix dimension mismatch")
)

// Shape is the (rows, cols) pair of a matrix.
type Shape struct {
	Rows int
	Cols int
}

// Size returns the number of elements of the shape.
func (s Shape) Size() int {
	return s.Rows * s.Cols
}

// String formats the shape as rows×cols.
func (s Shape) String() string {
	return fmt.Sprintf("%dx%d", s.Rows, s.Cols)
}

// Validate checks that both dimensions are positive.
func (s Shape) Validate() error {
	if s.Rows <= 0 || s.Cols <= 0 {
		return &DimensionError{Op: "create", A: s, Err: ErrInvalidDimension}
	}
	return nil
}

// DimensionError reports operands whose shapes violate an operation's contract.
type DimensionError struct {
	Op  string // Operation name (e.g. "matmul", "add")
	A   Shape  // First operand
	B   Shape  // Second operand, zero for unary checks
	Err error  // ErrInvalidDimension or ErrDimensionMismatch
}

// Error implements the error interface.
func (e *DimensionError) Error() string {
	if e.B == (Shape{}) {
		return fmt.Sprintf("%s: %v: %s", e.Op, e.Err, e.A)
	}
	return fmt.Sprintf("%s: %v: %s and %s", e.Op, e.Err, e.A, e.B)
}

// Unwrap returns the sentinel error.
func (e *DimensionError) Unwrap() error {
	return e.Err
}

func mismatch(op string, a, b Shape) *DimensionError {
	return &DimensionError{Op: op, A: a, B: b, Err: ErrDimensionMismatch}
}

func requireSameShape(op string, a, b *Matrix) {
	if a.rows != b.rows || a.cols != b.cols {
		panic(mismatch(op, a.Shape(), b.Shape()))
	}
}

// Guard runs fn and converts a *DimensionError panic into a returned error.
// Any other panic is re-raised.
func Guard(fn func()) (err error) {
	defer func() {
		r := recover()
		if r == nil {
			return
		}
		dimErr, ok := r.(*DimensionError)
		if !ok {
			panic(r)
		}
		err = dimErr
	}()
	fn()
	return nil
}
