package matrix

// Add returns a + b elementwise.
func Add(a, b *Matrix) *Matrix {
	requireSameShape("add", a, b)
	out := zerosLike(a)
	for i := range out.data {
		out.data[i] = a.data[i] + b.data[i]
	}
	return out
}

// Sub returns a - b elementwise.
func Sub(a, b *Matrix) *Matrix {
	requireSameShape("sub", a, b)
	out := zerosLike(a)
	for i := range out.data {
		out.data[i] = a.data[i] - b.data[i]
	}
	return out
}

// Mul returns the elementwise (Hadamard) product of a and b.
func Mul(a, b *Matrix) *Matrix {
	requireSameShape("mul", a, b)
	out := zerosLike(a)
	for i := range out.data {
		out.data[i] = a.data[i] * b.data[i]
	}
	return out
}

// Scale returns a with every element multiplied by k.
func Scale(a *Matrix, k float64) *Matrix {
	out := zerosLike(a)
	for i, v := range a.data {
		out.data[i] = v * k
	}
	return out
}

// Apply returns a new matrix with f applied to every element of a.
func Apply(a *Matrix, f func(float64) float64) *Matrix {
	out := zerosLike(a)
	for i, v := range a.data {
		out.data[i] = f(v)
	}
	return out
}

// Transpose returns the cols×rows matrix with out[x,y] = a[y,x].
func Transpose(a *Matrix) *Matrix {
	out := &Matrix{rows: a.cols, cols: a.rows, data: make([]float64, len(a.data))}
	for y := 0; y < out.rows; y++ {
		for x := 0; x < out.cols; x++ {
			out.data[out.index(x, y)] = a.data[a.index(y, x)]
		}
	}
	return out
}

// MatMul returns the matrix product a·b.
// For a (M, K) and b (K, N) the result is (M, N) with
// out[c,r] = Σ_i a[i,r] * b[c,i].
func MatMul(a, b *Matrix) *Matrix {
	if a.cols != b.rows {
		panic(mismatch("matmul", a.Shape(), b.Shape()))
	}

	out := &Matrix{rows: a.rows, cols: b.cols, data: make([]float64, a.rows*b.cols)}
	for r := 0; r < a.rows; r++ {
		for c := 0; c < b.cols; c++ {
			sum := 0.0
			for i := 0; i < a.cols; i++ {
				sum += a.data[a.index(i, r)] * b.data[b.index(c, i)]
			}
			out.data[out.index(c, r)] = sum
		}
	}
	return out
}

// AddInPlace adds src into dst elementwise.
func AddInPlace(dst, src *Matrix) {
	requireSameShape("add_inplace", dst, src)
	for i, v := range src.data {
		dst.data[i] += v
	}
}

// SubInPlace subtracts src from dst elementwise.
func SubInPlace(dst, src *Matrix) {
	requireSameShape("sub_inplace", dst, src)
	for i, v := range src.data {
		dst.data[i] -= v
	}
}

// Fill sets every element of m to v.
func Fill(m *Matrix, v float64) {
	for i := range m.data {
		m.data[i] = v
	}
}
