package windowing

import "math"

// generateGamma creates a reflected Gamma-function window. The bandwidth
// parameter is chosen so the maximum value falls at the requested peak. If
// peak is below 1 it is a ratio of the size, otherwise a sample index.
func generateGamma(size, order int, peak float64) []float64 {
	coefficients := make([]float64, size)
	if size == 1 {
		coefficients[0] = 1.0
		return coefficients
	}

	if peak < 1 {
		peak = peak * float64(size)
	}

	var alpha float64
	offset := 0
	if order > 1 {
		alpha = float64(order-1) / (float64(size) - peak)
		offset = 1
	} else {
		// align alpha roughly with a support of size samples
		alpha = 5.0 / float64(size)
	}

	logNorm := float64(order)*math.Log(alpha) - logFactorial(order-1)
	for i := offset; i < size; i++ {
		t := float64(i)
		coefficients[i] = math.Exp(float64(order-1)*math.Log(t) - alpha*t + logNorm)
	}
	if offset == 0 {
		coefficients[0] = math.Exp(logNorm) // t^0 at t=0 for order 1
	}

	// reflect so the window decays toward the frame start
	for i, j := 0, size-1; i < j; i, j = i+1, j-1 {
		coefficients[i], coefficients[j] = coefficients[j], coefficients[i]
	}

	return coefficients
}

func logFactorial(n int) float64 {
	sum := 0.0
	for i := 2; i <= n; i++ {
		sum += math.Log(float64(i))
	}
	return sum
}
