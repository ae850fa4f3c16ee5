// Package filterbank constructs fixed sets of frequency-domain filters laid
// out along a warped frequency scale. Banks are immutable after construction
// and safe to share read-only across any number of frame computers.
package filterbank

import (
	"math"

	"github.com/RyanBlaney/sonido-features/algorithms/common"
	"github.com/RyanBlaney/sonido-features/algorithms/scales"
)

// Bank is an ordered collection of frequency-domain filters, lowest center
// frequency first.
type Bank interface {
	// NumFilters returns the number of filters in the bank
	NumFilters() int

	// SampleRate returns the sampling rate of the target recordings
	SampleRate() float64

	// CentersHz returns the point of maximum gain of each filter, in Hz
	CentersHz() []float64

	// SupportsHz returns the [low, high] Hz boundaries outside of which each
	// filter's response is exactly zero
	SupportsHz() [][2]float64

	// FrequencyResponse samples filter filtIdx over the non-redundant bins of
	// a DFT of the given size (dftSize/2 + 1 values)
	FrequencyResponse(filtIdx, dftSize int) []float64

	// TruncatedResponse returns the nonzero region of the filter's sampled
	// response as a starting bin index plus the weights from that bin on
	TruncatedResponse(filtIdx, dftSize int) (int, []float64)

	// MinLength returns the smallest DFT size at which every filter in the
	// bank captures at least one frequency bin
	MinLength() int
}

// scaleEdges splits the scale-space interval between lowHz and highHz into
// numFilters+1 equal steps and maps the numFilters+2 break points back to Hz.
// Scales that warp a valid bound to a non-finite value (octave at 0 Hz) are
// rejected here so no bank is ever built on NaN vertices.
func scaleEdges(scale scales.Scale, numFilters int, lowHz, highHz float64) ([]float64, error) {
	scaleLow, err := scale.HzToScale(lowHz)
	if err != nil {
		return nil, err
	}
	scaleHigh, err := scale.HzToScale(highHz)
	if err != nil {
		return nil, err
	}
	if math.IsInf(scaleLow, 0) || math.IsNaN(scaleLow) {
		return nil, common.Configf(
			"filter bank: low_hz %.2f maps to a non-finite value on the %s scale", lowHz, scale.Name())
	}
	if math.IsInf(scaleHigh, 0) || math.IsNaN(scaleHigh) {
		return nil, common.Configf(
			"filter bank: high_hz %.2f maps to a non-finite value on the %s scale", highHz, scale.Name())
	}

	scaleDelta := (scaleHigh - scaleLow) / float64(numFilters+1)
	edges := make([]float64, numFilters+2)
	for idx := range edges {
		edges[idx] = scale.ScaleToHz(scaleLow + scaleDelta*float64(idx))
	}
	return edges, nil
}
