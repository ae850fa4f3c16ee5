package filterbank

import (
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/RyanBlaney/sonido-features/algorithms/common"
	"github.com/RyanBlaney/sonido-features/algorithms/scales"
	"github.com/RyanBlaney/sonido-features/logging"
)

// TriangularParams contains parameters for triangular bank construction
type TriangularParams struct {
	NumFilters int     `json:"num_filters"` // Number of filters in the bank (default: 40)
	LowHz      float64 `json:"low_hz"`      // Bottommost edge of the filters (default: 20)
	HighHz     float64 `json:"high_hz"`     // Topmost edge of the filters (default: Nyquist)
	SampleRate float64 `json:"sample_rate"` // Sample rate of target recordings (default: 16000)
	Normalize  bool    `json:"normalize"`   // Scale each filter's weights to sum to one
}

// DefaultTriangularParams returns sensible defaults for speech features
func DefaultTriangularParams() TriangularParams {
	return TriangularParams{
		NumFilters: 40,
		LowHz:      20.0,
		HighHz:     0, // filled in with Nyquist
		SampleRate: 16000,
		Normalize:  false,
	}
}

// Triangular is a bank of overlapping triangular filters whose vertices are
// sampled uniformly along a warped frequency scale. With mel warping this is
// the classic HTK/Kaldi-style mel filter bank. If the scale is nonlinear the
// triangles are asymmetrical in Hz.
type Triangular struct {
	vertices  []float64 // numFilters + 2 edges in Hz, ascending
	rate      float64
	normalize bool
}

// NewTriangular creates a triangular overlapping filter bank laid out along
// the given scale. The scale-space interval between HzToScale(LowHz) and
// HzToScale(HighHz) is split into NumFilters+1 equal steps; each filter's
// left/center/right vertices are three consecutive break points mapped back
// to Hz.
func NewTriangular(scale scales.Scale, params TriangularParams) (*Triangular, error) {
	if params.NumFilters < 1 {
		return nil, common.Configf("triangular bank: num_filters must be >= 1, got %d", params.NumFilters)
	}
	if params.SampleRate <= 0 {
		return nil, common.Configf("triangular bank: sample_rate must be positive, got %.2f", params.SampleRate)
	}

	nyquist := params.SampleRate / 2
	highHz := params.HighHz
	if highHz == 0 {
		highHz = nyquist
	}
	if params.LowHz < 0 || highHz <= params.LowHz || highHz > nyquist {
		return nil, common.Configf(
			"triangular bank: invalid frequency range (%.2f, %.2f) for sample rate %.1f",
			params.LowHz, highHz, params.SampleRate)
	}

	vertices, err := scaleEdges(scale, params.NumFilters, params.LowHz, highHz)
	if err != nil {
		return nil, err
	}

	logging.Debug("triangular filter bank constructed", logging.Fields{
		"scale":       scale.Name(),
		"num_filters": params.NumFilters,
		"low_hz":      params.LowHz,
		"high_hz":     highHz,
		"sample_rate": params.SampleRate,
	})

	return &Triangular{
		vertices:  vertices,
		rate:      params.SampleRate,
		normalize: params.Normalize,
	}, nil
}

// NumFilters returns the number of filters in the bank
func (b *Triangular) NumFilters() int {
	return len(b.vertices) - 2
}

// SampleRate returns the sampling rate of the target recordings
func (b *Triangular) SampleRate() float64 {
	return b.rate
}

// CentersHz returns the point of maximum gain of each filter, in Hz
func (b *Triangular) CentersHz() []float64 {
	centers := make([]float64, b.NumFilters())
	copy(centers, b.vertices[1:len(b.vertices)-1])
	return centers
}

// SupportsHz returns the support boundaries of each filter, in Hz
func (b *Triangular) SupportsHz() [][2]float64 {
	supports := make([][2]float64, b.NumFilters())
	for idx := range supports {
		supports[idx] = [2]float64{b.vertices[idx], b.vertices[idx+2]}
	}
	return supports
}

// MinLength returns the smallest DFT size at which every filter captures at
// least one frequency bin
func (b *Triangular) MinLength() int {
	minWidth := math.Inf(1)
	for idx := 0; idx < b.NumFilters(); idx++ {
		width := b.vertices[idx+2] - b.vertices[idx]
		if width < minWidth {
			minWidth = width
		}
	}
	if minWidth <= 0 || math.IsInf(minWidth, 1) {
		return 1
	}
	return int(math.Ceil(b.rate / minWidth))
}

// FrequencyResponse samples filter filtIdx over the non-redundant half
// spectrum of a DFT of the given size
func (b *Triangular) FrequencyResponse(filtIdx, dftSize int) []float64 {
	bins := dftSize/2 + 1
	response := make([]float64, bins)

	startBin, weights := b.TruncatedResponse(filtIdx, dftSize)
	for i, w := range weights {
		if startBin+i < bins {
			response[startBin+i] = w
		}
	}
	return response
}

// TruncatedResponse returns the nonzero region of the filter's sampled
// response. If the filter's support is narrower than the bin spacing the
// filter degenerates to a single non-zero bin at its center; this is a
// documented edge case at low spectral resolution, not a failure.
func (b *Triangular) TruncatedResponse(filtIdx, dftSize int) (int, []float64) {
	left := b.vertices[filtIdx]
	mid := b.vertices[filtIdx+1]
	right := b.vertices[filtIdx+2]

	bins := dftSize/2 + 1
	leftIdx := int(math.Ceil(float64(dftSize) * left / b.rate))
	rightIdx := int(float64(dftSize) * right / b.rate)
	if leftIdx < 0 {
		leftIdx = 0
	}
	if rightIdx > bins-1 {
		rightIdx = bins - 1
	}

	var weights []float64
	if rightIdx >= leftIdx {
		weights = make([]float64, rightIdx-leftIdx+1)
		for k := leftIdx; k <= rightIdx; k++ {
			hz := b.rate * float64(k) / float64(dftSize)
			var w float64
			switch {
			case hz < left || hz > right:
				w = 0
			case hz <= mid:
				if mid > left {
					w = (hz - left) / (mid - left)
				} else {
					w = 1
				}
			default:
				if right > mid {
					w = (right - hz) / (right - mid)
				} else {
					w = 1
				}
			}
			weights[k-leftIdx] = w
		}
	}

	sum := 0.0
	if len(weights) > 0 {
		sum = floats.Sum(weights)
	}
	if sum == 0 {
		// degenerate filter: collapse onto the bin nearest the center
		center := int(math.Round(float64(dftSize) * mid / b.rate))
		if center > bins-1 {
			center = bins - 1
		}
		if center < 0 {
			center = 0
		}
		return center, []float64{1}
	}

	if b.normalize {
		floats.Scale(1/sum, weights)
	}
	return leftIdx, weights
}
