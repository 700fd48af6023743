package matrix

import (
	"fmt"
	"math"
	"strings"
)

// Matrix is a dense row-major matrix of float64 values.
//
// The dimensions are fixed at construction. Element values may be changed
// through Set and the *InPlace helpers; every other operation in this package
// returns a new Matrix and leaves its operands untouched.
type Matrix struct {
	rows int
	cols int
	data []float64
}

// New creates a zero-filled matrix with the given dimensions.
func New(rows, cols int) (*Matrix, error) {
	shape := Shape{Rows: rows, Cols: cols}
	if err := shape.Validate(); err != nil {
		return nil, err
	}
	return &Matrix{
		rows: rows,
		cols: cols,
		data: make([]float64, rows*cols),
	}, nil
}

// FromSlice creates a matrix from row-major values.
// The slice is copied.
func FromSlice(rows, cols int, data []float64) (*Matrix, error) {
	m, err := New(rows, cols)
	if err != nil {
		return nil, err
	}
	if len(data) != rows*cols {
		return nil, &DimensionError{
			Op:  "from_slice",
			A:   Shape{Rows: rows, Cols: cols},
			B:   Shape{Rows: len(data), Cols: 1},
			Err: ErrDimensionMismatch,
		}
	}
	copy(m.data, data)
	return m, nil
}

// Column creates a len(values)×1 column matrix.
func Column(values []float64) (*Matrix, error) {
	return FromSlice(len(values), 1, values)
}

// OneHot creates a size×1 column with a single 1 at index.
func OneHot(index, size int) (*Matrix, error) {
	m, err := New(size, 1)
	if err != nil {
		return nil, err
	}
	if index < 0 || index >= size {
		return nil, fmt.Errorf("one-hot index %d out of range [0, %d)", index, size)
	}
	m.data[index] = 1
	return m, nil
}

// zerosLike allocates a matrix with the shape of m.
func zerosLike(m *Matrix) *Matrix {
	return &Matrix{rows: m.rows, cols: m.cols, data: make([]float64, len(m.data))}
}

// Rows returns the row count.
func (m *Matrix) Rows() int { return m.rows }

// Cols returns the column count.
func (m *Matrix) Cols() int { return m.cols }

// Len returns the number of elements.
func (m *Matrix) Len() int { return len(m.data) }

// Shape returns the matrix dimensions.
func (m *Matrix) Shape() Shape {
	return Shape{Rows: m.rows, Cols: m.cols}
}

// Data returns the backing buffer. Writes through it are visible in m.
func (m *Matrix) Data() []float64 {
	return m.data
}

func (m *Matrix) index(x, y int) int {
	return y*m.cols + x
}

// At returns the element in column x of row y.
func (m *Matrix) At(x, y int) float64 {
	m.checkBounds(x, y)
	return m.data[m.index(x, y)]
}

// Set stores v in column x of row y.
func (m *Matrix) Set(x, y int, v float64) {
	m.checkBounds(x, y)
	m.data[m.index(x, y)] = v
}

func (m *Matrix) checkBounds(x, y int) {
	if x < 0 || x >= m.cols || y < 0 || y >= m.rows {
		panic(fmt.Sprintf("matrix: element (%d, %d) out of range for %s", x, y, m.Shape()))
	}
}

// Clone returns a deep copy.
func (m *Matrix) Clone() *Matrix {
	out := zerosLike(m)
	copy(out.data, m.data)
	return out
}

// Equal reports whether both matrices have the same shape and elements.
func (m *Matrix) Equal(other *Matrix) bool {
	return m.ApproxEqual(other, 0)
}

// ApproxEqual reports whether both matrices have the same shape and every
// pair of elements differs by at most eps.
func (m *Matrix) ApproxEqual(other *Matrix, eps float64) bool {
	if m.rows != other.rows || m.cols != other.cols {
		return false
	}
	for i, v := range m.data {
		if math.Abs(v-other.data[i]) > eps {
			return false
		}
	}
	return true
}

// String renders the matrix one row per line.
func (m *Matrix) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s\n", m.Shape())
	for y := 0; y < m.rows; y++ {
		b.WriteString("[ ")
		for x := 0; x < m.cols; x++ {
			fmt.Fprintf(&b, "%g ", m.data[m.index(x, y)])
		}
		b.WriteString("]\n")
	}
	return b.String()
}
