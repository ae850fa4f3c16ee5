package windowing

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAllTypes(t *testing.T) {
	types := []WindowType{
		WindowHann,
		WindowHamming,
		WindowBlackman,
		WindowRectangular,
		WindowGamma,
	}

	for _, typ := range types {
		t.Run(string(typ), func(t *testing.T) {
			cfg := DefaultConfig(64)
			cfg.Type = typ

			w, err := Generate(cfg)
			require.NoError(t, err)
			require.Equal(t, 64, w.GetSize())
			require.Equal(t, typ, w.GetType())

			coeffs := w.GetCoefficients()
			require.Len(t, coeffs, 64)
			for i, v := range coeffs {
				assert.Falsef(t, math.IsNaN(v) || math.IsInf(v, 0), "coefficient[%d] invalid: %v", i, v)
			}
		})
	}
}

func TestGenerateRejectsBadConfig(t *testing.T) {
	_, err := Generate(&Config{Type: WindowHann, Size: 0})
	assert.Error(t, err)

	_, err = Generate(&Config{Type: "not_a_window", Size: 16})
	assert.Error(t, err)

	_, err = Generate(nil)
	assert.Error(t, err)
}

func TestHannSymmetric(t *testing.T) {
	w, err := Generate(&Config{Type: WindowHann, Size: 33, Symmetric: true})
	require.NoError(t, err)

	coeffs := w.GetCoefficients()
	assert.InDelta(t, 0.0, coeffs[0], 1e-12)
	assert.InDelta(t, 1.0, coeffs[16], 1e-12)
	for i := range 16 {
		assert.InDeltaf(t, coeffs[i], coeffs[32-i], 1e-12, "asymmetric at %d", i)
	}
}

func TestApplyLengthMismatch(t *testing.T) {
	w, err := Generate(DefaultConfig(8))
	require.NoError(t, err)

	assert.Nil(t, w.Apply(make([]float64, 7)))
	assert.Error(t, w.ApplyInPlace(make([]float64, 9)))
}

func TestApplyInPlaceMatchesApply(t *testing.T) {
	w, err := Generate(&Config{Type: WindowHamming, Size: 16, Symmetric: true})
	require.NoError(t, err)

	signal := make([]float64, 16)
	for i := range signal {
		signal[i] = math.Sin(float64(i) * 0.3)
	}

	applied := w.Apply(signal)
	require.NoError(t, w.ApplyInPlace(signal))
	assert.Equal(t, applied, signal)
}

func TestGammaPeakPosition(t *testing.T) {
	w, err := Generate(&Config{Type: WindowGamma, Size: 100, Order: 4, Peak: 0.75})
	require.NoError(t, err)

	coeffs := w.GetCoefficients()
	maxIdx := 0
	for i, v := range coeffs {
		if v > coeffs[maxIdx] {
			maxIdx = i
		}
	}
	// reflected gamma peaks near (1 - peak) of the window
	assert.InDelta(t, 25, maxIdx, 2)
}
