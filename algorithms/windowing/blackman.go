package windowing

import "math"

// generateBlackman creates Blackman window coefficients
func generateBlackman(size int, symmetric bool) []float64 {
	coefficients := make([]float64, size)
	if size == 1 {
		coefficients[0] = 1.0
		return coefficients
	}

	denominator := float64(size)
	if symmetric {
		denominator = float64(size - 1)
	}

	a0, a1, a2 := 0.42, 0.5, 0.08

	for i := range size {
		arg := 2 * math.Pi * float64(i) / denominator
		coefficients[i] = a0 - a1*math.Cos(arg) + a2*math.Cos(2*arg)
	}

	return coefficients
}
