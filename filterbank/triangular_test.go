package filterbank

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/RyanBlaney/sonido-features/algorithms/common"
	"github.com/RyanBlaney/sonido-features/algorithms/scales"
)

func newTestBank(t *testing.T, params TriangularParams) *Triangular {
	t.Helper()
	bank, err := NewTriangular(scales.NewMel(), params)
	require.NoError(t, err)
	return bank
}

func TestCentersMonotonic(t *testing.T) {
	for _, scale := range []scales.Scale{scales.NewMel(), scales.NewBark(), scales.NewLinear()} {
		bank, err := NewTriangular(scale, TriangularParams{
			NumFilters: 40,
			LowHz:      20,
			HighHz:     8000,
			SampleRate: 16000,
		})
		require.NoError(t, err)

		centers := bank.CentersHz()
		require.Len(t, centers, 40)
		for i := 1; i < len(centers); i++ {
			assert.GreaterOrEqualf(t, centers[i], centers[i-1], "scale %s filter %d", scale.Name(), i)
		}
	}
}

func TestResponseZeroOutsideSupport(t *testing.T) {
	bank := newTestBank(t, TriangularParams{
		NumFilters: 20,
		LowHz:      100,
		HighHz:     7000,
		SampleRate: 16000,
	})

	const dftSize = 512
	supports := bank.SupportsHz()
	for idx := range bank.NumFilters() {
		response := bank.FrequencyResponse(idx, dftSize)
		require.Len(t, response, dftSize/2+1)

		low, high := supports[idx][0], supports[idx][1]
		for k, w := range response {
			hz := 16000.0 * float64(k) / dftSize
			if hz < low || hz > high {
				assert.Zerof(t, w, "filter %d bin %d (%.1f Hz) outside [%.1f, %.1f]", idx, k, hz, low, high)
			}
		}
	}
}

func TestNormalizedWeightsSumToOne(t *testing.T) {
	bank := newTestBank(t, TriangularParams{
		NumFilters: 40,
		LowHz:      20,
		HighHz:     8000,
		SampleRate: 16000,
		Normalize:  true,
	})

	for idx := range bank.NumFilters() {
		_, weights := bank.TruncatedResponse(idx, 512)
		sum := 0.0
		for _, w := range weights {
			sum += w
		}
		assert.InDeltaf(t, 1.0, sum, 1e-9, "filter %d", idx)
	}
}

func TestDegenerateFilterSingleBin(t *testing.T) {
	// 40 filters over a narrow band at a tiny DFT size: filters collapse to
	// single bins instead of failing
	bank := newTestBank(t, TriangularParams{
		NumFilters: 40,
		LowHz:      100,
		HighHz:     200,
		SampleRate: 16000,
	})

	for idx := range bank.NumFilters() {
		_, weights := bank.TruncatedResponse(idx, 32)
		nonzero := 0
		for _, w := range weights {
			if w != 0 {
				nonzero++
			}
		}
		assert.GreaterOrEqualf(t, nonzero, 1, "filter %d has no nonzero bins", idx)
	}
}

func TestTruncatedMatchesFullResponse(t *testing.T) {
	bank := newTestBank(t, TriangularParams{
		NumFilters: 26,
		LowHz:      20,
		HighHz:     8000,
		SampleRate: 16000,
	})

	const dftSize = 256
	for idx := range bank.NumFilters() {
		full := bank.FrequencyResponse(idx, dftSize)
		start, weights := bank.TruncatedResponse(idx, dftSize)

		rebuilt := make([]float64, len(full))
		for i, w := range weights {
			if start+i < len(rebuilt) {
				rebuilt[start+i] = w
			}
		}
		assert.Equal(t, full, rebuilt)
	}
}

func TestConstructionErrors(t *testing.T) {
	mel := scales.NewMel()

	cases := []struct {
		name   string
		params TriangularParams
	}{
		{"zero filters", TriangularParams{NumFilters: 0, LowHz: 20, HighHz: 8000, SampleRate: 16000}},
		{"negative low", TriangularParams{NumFilters: 10, LowHz: -5, HighHz: 8000, SampleRate: 16000}},
		{"low above high", TriangularParams{NumFilters: 10, LowHz: 4000, HighHz: 100, SampleRate: 16000}},
		{"above nyquist", TriangularParams{NumFilters: 10, LowHz: 20, HighHz: 9000, SampleRate: 16000}},
		{"bad rate", TriangularParams{NumFilters: 10, LowHz: 20, HighHz: 8000, SampleRate: 0}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewTriangular(mel, tc.params)
			require.Error(t, err)

			var cfgErr *common.ConfigError
			assert.ErrorAs(t, err, &cfgErr)
		})
	}
}

func TestNonFiniteScaleBoundRejected(t *testing.T) {
	// 0 Hz is a valid frequency but the octave scale warps it to -Inf;
	// construction must fail instead of producing NaN vertices
	_, err := NewTriangular(scales.NewOctave(1000), TriangularParams{
		NumFilters: 10,
		LowHz:      0,
		HighHz:     8000,
		SampleRate: 16000,
	})
	require.Error(t, err)

	var cfgErr *common.ConfigError
	assert.ErrorAs(t, err, &cfgErr)
	assert.Contains(t, err.Error(), "non-finite")

	// the same layout away from 0 Hz stays fine
	bank, err := NewTriangular(scales.NewOctave(1000), TriangularParams{
		NumFilters: 10,
		LowHz:      50,
		HighHz:     8000,
		SampleRate: 16000,
	})
	require.NoError(t, err)
	for idx, center := range bank.CentersHz() {
		assert.Falsef(t, math.IsNaN(center), "filter %d center is NaN", idx)
	}
}

func TestDefaultHighHzIsNyquist(t *testing.T) {
	bank := newTestBank(t, TriangularParams{
		NumFilters: 10,
		LowHz:      20,
		SampleRate: 16000,
	})

	supports := bank.SupportsHz()
	top := supports[len(supports)-1][1]
	assert.InDelta(t, 8000.0, top, 1e-6)
}

func TestMinLength(t *testing.T) {
	bank := newTestBank(t, TriangularParams{
		NumFilters: 10,
		LowHz:      100,
		HighHz:     8000,
		SampleRate: 16000,
	})

	minLen := bank.MinLength()
	require.Greater(t, minLen, 0)

	// at the minimum length every filter catches at least one bin without
	// needing the degenerate fallback
	supports := bank.SupportsHz()
	for idx := range bank.NumFilters() {
		start, weights := bank.TruncatedResponse(idx, minLen)
		hz := 16000.0 * float64(start) / float64(minLen)
		assert.GreaterOrEqual(t, hz, supports[idx][0]-1e-9)
		assert.NotEmpty(t, weights)
	}
}
