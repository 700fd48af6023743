package matrix

// Sum returns the sum of all elements.
func Sum(a *Matrix) float64 {
	sum := 0.0
	for _, v := range a.data {
		sum += v
	}
	return sum
}

// Max returns the largest element.
func Max(a *Matrix) float64 {
	return a.data[Argmax(a)]
}

// Argmax returns the flat index of the largest element.
// Ties resolve to the lowest index.
func Argmax(a *Matrix) int {
	best := 0
	for i := 1; i < len(a.data); i++ {
		if a.data[i] > a.data[best] {
			best = i
		}
	}
	return best
}
