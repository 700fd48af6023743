package matrix_test

import (
	"errors"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"github.com/born-ml/digitnet/internal/matrix"
)

func mustFromSlice(t *testing.T, rows, cols int, data []float64) *matrix.Matrix {
	t.Helper()
	m, err := matrix.FromSlice(rows, cols, data)
	require.NoError(t, err)
	return m
}

func randomMatrix(t *testing.T, rng *rand.Rand, rows, cols int) *matrix.Matrix {
	t.Helper()
	data := make([]float64, rows*cols)
	for i := range data {
		data[i] = rng.Float64()*2 - 1
	}
	return mustFromSlice(t, rows, cols, data)
}

func TestNew(t *testing.T) {
	m, err := matrix.New(3, 4)
	require.NoError(t, err)

	assert.Equal(t, 3, m.Rows())
	assert.Equal(t, 4, m.Cols())
	assert.Equal(t, 12, m.Len())
	for _, v := range m.Data() {
		assert.Zero(t, v)
	}
}

func TestNew_InvalidDimensions(t *testing.T) {
	tests := []struct {
		name       string
		rows, cols int
	}{
		{"zero rows", 0, 3},
		{"zero cols", 3, 0},
		{"negative", -1, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := matrix.New(tt.rows, tt.cols)
			require.Error(t, err)
			assert.True(t, errors.Is(err, matrix.ErrInvalidDimension))

			var dimErr *matrix.DimensionError
			require.ErrorAs(t, err, &dimErr)
			assert.Equal(t, "create", dimErr.Op)
		})
	}
}

func TestFromSlice_LengthMismatch(t *testing.T) {
	_, err := matrix.FromSlice(2, 2, []float64{1, 2, 3})
	assert.ErrorIs(t, err, matrix.ErrDimensionMismatch)
}

func TestIndexing_RowMajor(t *testing.T) {
	m := mustFromSlice(t, 2, 3, []float64{1, 2, 3, 4, 5, 6})

	// (x, y) is column x of row y.
	assert.Equal(t, 2.0, m.At(1, 0))
	assert.Equal(t, 4.0, m.At(0, 1))
	assert.Equal(t, 6.0, m.At(2, 1))

	m.Set(2, 0, 9)
	assert.Equal(t, 9.0, m.Data()[2])
	assert.Panics(t, func() { m.At(3, 0) })
}

func TestOneHot(t *testing.T) {
	m, err := matrix.OneHot(3, 10)
	require.NoError(t, err)

	assert.Equal(t, matrix.Shape{Rows: 10, Cols: 1}, m.Shape())
	assert.Equal(t, 1.0, matrix.Sum(m))
	assert.Equal(t, 1.0, m.At(0, 3))

	_, err = matrix.OneHot(10, 10)
	assert.Error(t, err)
}

func TestElementwise(t *testing.T) {
	a := mustFromSlice(t, 2, 2, []float64{1, 2, 3, 4})
	b := mustFromSlice(t, 2, 2, []float64{5, 6, 7, 8})

	assert.Equal(t, []float64{6, 8, 10, 12}, matrix.Add(a, b).Data())
	assert.Equal(t, []float64{-4, -4, -4, -4}, matrix.Sub(a, b).Data())
	assert.Equal(t, []float64{5, 12, 21, 32}, matrix.Mul(a, b).Data())
	assert.Equal(t, []float64{2, 4, 6, 8}, matrix.Scale(a, 2).Data())

	// Operands are untouched.
	assert.Equal(t, []float64{1, 2, 3, 4}, a.Data())
	assert.Equal(t, []float64{5, 6, 7, 8}, b.Data())
}

func TestElementwise_ShapeMismatch(t *testing.T) {
	a := mustFromSlice(t, 2, 2, []float64{1, 2, 3, 4})
	b := mustFromSlice(t, 4, 1, []float64{1, 2, 3, 4})

	for name, op := range map[string]func(){
		"add": func() { matrix.Add(a, b) },
		"sub": func() { matrix.Sub(a, b) },
		"mul": func() { matrix.Mul(a, b) },
	} {
		t.Run(name, func(t *testing.T) {
			err := matrix.Guard(op)
			require.Error(t, err)
			assert.ErrorIs(t, err, matrix.ErrDimensionMismatch)
		})
	}
}

func TestAddScaleNegativeIsZero(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	m := randomMatrix(t, rng, 5, 3)

	zero := matrix.Add(m, matrix.Scale(m, -1))
	assert.Equal(t, m.Shape(), zero.Shape())
	for _, v := range zero.Data() {
		assert.InDelta(t, 0, v, 1e-12)
	}
}

func TestTranspose(t *testing.T) {
	m := mustFromSlice(t, 2, 3, []float64{1, 2, 3, 4, 5, 6})

	tr := matrix.Transpose(m)
	assert.Equal(t, matrix.Shape{Rows: 3, Cols: 2}, tr.Shape())
	assert.Equal(t, []float64{1, 4, 2, 5, 3, 6}, tr.Data())
	for y := 0; y < m.Rows(); y++ {
		for x := 0; x < m.Cols(); x++ {
			assert.Equal(t, m.At(x, y), tr.At(y, x))
		}
	}
}

func TestTranspose_Involution(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	for _, shape := range []matrix.Shape{
		{Rows: 1, Cols: 1}, {Rows: 1, Cols: 7}, {Rows: 7, Cols: 1}, {Rows: 4, Cols: 9}, {Rows: 100, Cols: 10},
	} {
		m := randomMatrix(t, rng, shape.Rows, shape.Cols)
		assert.True(t, matrix.Transpose(matrix.Transpose(m)).Equal(m), "shape %s", shape)
	}
}

func TestMatMul_Known(t *testing.T) {
	a := mustFromSlice(t, 2, 2, []float64{1, 2, 3, 4})
	b := mustFromSlice(t, 2, 1, []float64{5, 6})

	c := matrix.MatMul(a, b)
	assert.Equal(t, matrix.Shape{Rows: 2, Cols: 1}, c.Shape())
	assert.Equal(t, []float64{17, 39}, c.Data())
}

func TestMatMul_ShapeMismatch(t *testing.T) {
	a := mustFromSlice(t, 2, 3, make([]float64, 6))
	b := mustFromSlice(t, 2, 3, make([]float64, 6))

	err := matrix.Guard(func() { matrix.MatMul(a, b) })
	require.Error(t, err)
	assert.ErrorIs(t, err, matrix.ErrDimensionMismatch)
	assert.Contains(t, err.Error(), "matmul")
	assert.Contains(t, err.Error(), "2x3")
}

func TestMatMul_AgainstGonum(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	shapes := [][3]int{{1, 1, 1}, {3, 4, 2}, {10, 100, 1}, {100, 784, 1}, {7, 5, 9}}

	for _, s := range shapes {
		m, k, n := s[0], s[1], s[2]
		a := randomMatrix(t, rng, m, k)
		b := randomMatrix(t, rng, k, n)

		got := matrix.MatMul(a, b)
		require.Equal(t, matrix.Shape{Rows: m, Cols: n}, got.Shape())

		var want mat.Dense
		want.Mul(
			mat.NewDense(m, k, append([]float64(nil), a.Data()...)),
			mat.NewDense(k, n, append([]float64(nil), b.Data()...)),
		)
		for y := 0; y < m; y++ {
			for x := 0; x < n; x++ {
				assert.InDelta(t, want.At(y, x), got.At(x, y), 1e-9)
			}
		}
	}
}

func TestTranspose_AgainstGonum(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	a := randomMatrix(t, rng, 6, 4)

	want := mat.DenseCopyOf(mat.NewDense(6, 4, append([]float64(nil), a.Data()...)).T())
	got := matrix.Transpose(a)
	assert.Equal(t, want.RawMatrix().Data, got.Data())
}

func TestInPlace(t *testing.T) {
	dst := mustFromSlice(t, 1, 3, []float64{1, 2, 3})
	src := mustFromSlice(t, 1, 3, []float64{1, 1, 1})

	matrix.SubInPlace(dst, src)
	assert.Equal(t, []float64{0, 1, 2}, dst.Data())

	matrix.AddInPlace(dst, src)
	matrix.AddInPlace(dst, src)
	assert.Equal(t, []float64{2, 3, 4}, dst.Data())

	matrix.Fill(dst, 0)
	assert.Equal(t, []float64{0, 0, 0}, dst.Data())

	bad := mustFromSlice(t, 3, 1, []float64{1, 1, 1})
	assert.ErrorIs(t, matrix.Guard(func() { matrix.SubInPlace(dst, bad) }), matrix.ErrDimensionMismatch)
}

func TestReductions(t *testing.T) {
	m := mustFromSlice(t, 4, 1, []float64{0.2, 0.5, 0.5, 0.1})

	assert.InDelta(t, 1.3, matrix.Sum(m), 1e-12)
	assert.Equal(t, 1, matrix.Argmax(m), "ties resolve to the lowest index")
	assert.Equal(t, 0.5, matrix.Max(m))

	neg := mustFromSlice(t, 1, 3, []float64{-3, -1, -2})
	assert.Equal(t, 1, matrix.Argmax(neg))
}

func TestGuard_RepanicsOtherValues(t *testing.T) {
	assert.PanicsWithValue(t, "boom", func() {
		_ = matrix.Guard(func() { panic("boom") })
	})
	assert.NoError(t, matrix.Guard(func() {}))
}

func TestCloneAndString(t *testing.T) {
	m := mustFromSlice(t, 2, 2, []float64{1, 2, 3, 4})
	c := m.Clone()
	c.Set(0, 0, 10)

	assert.Equal(t, 1.0, m.At(0, 0))
	assert.False(t, m.Equal(c))
	assert.True(t, m.ApproxEqual(matrix.Add(m, matrix.Scale(m, 1e-12)), 1e-9))
	assert.Equal(t, "2x2\n[ 1 2 ]\n[ 3 4 ]\n", m.String())
}
