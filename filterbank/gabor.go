package filterbank

import (
	"math"

	"github.com/RyanBlaney/sonido-features/algorithms/common"
	"github.com/RyanBlaney/sonido-features/algorithms/scales"
	"github.com/RyanBlaney/sonido-features/logging"
)

// Boundary adjustment modes for banks whose filters can spill past 0 Hz or
// the Nyquist frequency.
const (
	// BoundaryWrap leaves boundary filters alone and lets their response
	// wrap around the DFT
	BoundaryWrap = "wrap"
	// BoundaryEdges iteratively narrows boundary filters until their
	// effective support fits inside [0, Nyquist]
	BoundaryEdges = "edges"
)

// effectiveSupportThreshold is the absolute value below which a filter's
// response counts as zero when computing supports.
const effectiveSupportThreshold = 5e-4

// GaborParams contains parameters for Gabor bank construction
type GaborParams struct {
	NumFilters   int     `json:"num_filters"`   // Number of filters in the bank (default: 40)
	LowHz        float64 `json:"low_hz"`        // Bottommost edge of the filters (default: 60)
	HighHz       float64 `json:"high_hz"`       // Topmost edge of the filters (default: Nyquist)
	SampleRate   float64 `json:"sample_rate"`   // Sample rate of target recordings (default: 16000)
	BoundaryMode string  `json:"boundary_mode"` // "wrap" or "edges" (default: wrap)
}

// DefaultGaborParams returns the conventional Gabor bank layout
func DefaultGaborParams() GaborParams {
	return GaborParams{
		NumFilters:   40,
		LowHz:        60.0,
		HighHz:       0, // filled in with Nyquist
		SampleRate:   16000,
		BoundaryMode: BoundaryWrap,
	}
}

// Gabor is a bank of filters with Gaussian envelopes in both the time and
// frequency domains. Pairs of scale-space edges place each filter: the center
// frequency sits at the midpoint and the bandwidth is set so the equivalent
// rectangular bandwidth matches the edge distance. Gaussians never truly
// reach zero, so supports are effective supports: the region where the
// response exceeds the support threshold.
type Gabor struct {
	rate        float64
	centersAng  []float64
	stds        []float64
	supportsAng []float64
	wrapsAng    []float64
}

// NewGabor creates a Gabor filter bank laid out along the given scale.
func NewGabor(scale scales.Scale, params GaborParams) (*Gabor, error) {
	if params.NumFilters < 1 {
		return nil, common.Configf("gabor bank: num_filters must be >= 1, got %d", params.NumFilters)
	}
	if params.SampleRate <= 0 {
		return nil, common.Configf("gabor bank: sample_rate must be positive, got %.2f", params.SampleRate)
	}
	if params.BoundaryMode == "" {
		params.BoundaryMode = BoundaryWrap
	}
	if params.BoundaryMode != BoundaryWrap && params.BoundaryMode != BoundaryEdges {
		return nil, common.Configf("gabor bank: unknown boundary mode %q", params.BoundaryMode)
	}

	nyquist := params.SampleRate / 2
	highHz := params.HighHz
	if highHz == 0 {
		highHz = nyquist
	}
	if params.LowHz < 0 || highHz <= params.LowHz || highHz > nyquist {
		return nil, common.Configf(
			"gabor bank: invalid frequency range (%.2f, %.2f) for sample rate %.1f",
			params.LowHz, highHz, params.SampleRate)
	}

	edges, err := scaleEdges(scale, params.NumFilters, params.LowHz, highHz)
	if err != nil {
		return nil, err
	}

	// support bound constants for a Gaussian tail at the threshold
	a := 2 * math.Log(effectiveSupportThreshold)
	a -= math.Ln2 + 0.5*math.Log(math.Pi)

	b := &Gabor{
		rate:        params.SampleRate,
		centersAng:  make([]float64, params.NumFilters),
		stds:        make([]float64, params.NumFilters),
		supportsAng: make([]float64, params.NumFilters),
		wrapsAng:    make([]float64, params.NumFilters),
	}

	const maxSteps = 100
	lastLow, lastHigh := 0.0, 0.0
	for idx := 0; idx < params.NumFilters; idx++ {
		low := math.Max(lastLow, hertzToAngular(edges[idx], params.SampleRate))
		high := math.Max(hertzToAngular(edges[idx+2], params.SampleRate), lastHigh)

		var center, std, suppLow, suppHigh float64
		// in edges mode the boundary filters are narrowed in fractional
		// steps until the effective support fits; the step fraction grows
		// each round so the loop terminates
		for steps, resolved := 0, false; !resolved; steps++ {
			resolved = true
			center = (low + high) / 2
			std = math.Sqrt(math.Pi) / (high - low)
			diff := math.Sqrt(math.Log(std)-a) / std
			suppLow = center - diff
			suppHigh = center + diff
			// the jump fraction reaches 1 on the final step, which moves
			// the boundary by the full difference and forces convergence
			fraction := float64(maxSteps - steps)
			if fraction < 1 {
				fraction = 1
			}
			if suppLow < 0 && params.BoundaryMode == BoundaryEdges {
				lowInc := -suppLow / fraction
				if low+lowInc > high {
					low = (low + high) / 2
				} else {
					low += lowInc
				}
				resolved = false
			}
			if suppHigh > math.Pi && params.BoundaryMode == BoundaryEdges {
				highDec := (suppHigh - math.Pi) / fraction
				if high-highDec < low {
					high = (high + low) / 2
				} else {
					high -= highDec
				}
				resolved = false
			}
		}
		lastLow, lastHigh = low, high

		b.centersAng[idx] = center
		b.stds[idx] = std
		b.supportsAng[idx] = suppHigh - suppLow
		// extra angular width for the tail to decay to half the threshold
		b.wrapsAng[idx] = math.Sqrt2 * math.Ln2 / std
	}

	logging.Debug("gabor filter bank constructed", logging.Fields{
		"scale":         scale.Name(),
		"num_filters":   params.NumFilters,
		"low_hz":        params.LowHz,
		"high_hz":       highHz,
		"sample_rate":   params.SampleRate,
		"boundary_mode": params.BoundaryMode,
	})
	return b, nil
}

// NumFilters returns the number of filters in the bank
func (b *Gabor) NumFilters() int {
	return len(b.centersAng)
}

// SampleRate returns the sampling rate of the target recordings
func (b *Gabor) SampleRate() float64 {
	return b.rate
}

// CentersHz returns the point of maximum gain of each filter, in Hz
func (b *Gabor) CentersHz() []float64 {
	centers := make([]float64, b.NumFilters())
	for idx, ang := range b.centersAng {
		centers[idx] = angularToHertz(ang, b.rate)
	}
	return centers
}

// SupportsHz returns the effective support boundaries of each filter, in Hz
func (b *Gabor) SupportsHz() [][2]float64 {
	supports := make([][2]float64, b.NumFilters())
	for idx := range supports {
		center := angularToHertz(b.centersAng[idx], b.rate)
		width := angularToHertz(b.supportsAng[idx], b.rate)
		supports[idx] = [2]float64{center - width/2, center + width/2}
	}
	return supports
}

// MinLength returns the smallest DFT size at which every filter's effective
// support spans at least one frequency bin
func (b *Gabor) MinLength() int {
	minWidth := math.Inf(1)
	for idx := range b.supportsAng {
		width := angularToHertz(b.supportsAng[idx], b.rate)
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
// spectrum of a DFT of the given size. The response is periodized: Gaussian
// tails that pass 0 Hz or the Nyquist alias back into the spectrum.
func (b *Gabor) FrequencyResponse(filtIdx, dftSize int) []float64 {
	bins := dftSize/2 + 1
	response := make([]float64, bins)
	for idx := 0; idx < bins; idx++ {
		response[idx] = b.periodizedGain(filtIdx, idx, dftSize, 1)
	}
	return response
}

// TruncatedResponse returns the effective-support region of the filter's
// sampled response. If periodized tails overlap their own support the full
// response is returned starting at bin zero.
func (b *Gabor) TruncatedResponse(filtIdx, dftSize int) (int, []float64) {
	supportHz := angularToHertz(b.supportsAng[filtIdx], b.rate)
	wrapHz := angularToHertz(b.wrapsAng[filtIdx], b.rate)
	if int(math.Ceil(float64(dftSize)*(supportHz+wrapHz)/b.rate)) >= dftSize {
		return 0, b.FrequencyResponse(filtIdx, dftSize)
	}

	centerHz := angularToHertz(b.centersAng[filtIdx], b.rate)
	lowHz := centerHz - supportHz/2
	highHz := centerHz + supportHz/2
	leftIdx := int(math.Ceil(float64(dftSize) * lowHz / b.rate))
	rightIdx := int(float64(dftSize) * highHz / b.rate)

	weights := make([]float64, 1+rightIdx-leftIdx)
	for idx := leftIdx; idx <= rightIdx; idx++ {
		weights[idx-leftIdx] = b.periodizedGain(filtIdx, idx, dftSize, 0)
	}

	startBin := ((leftIdx % dftSize) + dftSize) % dftSize
	return startBin, weights
}

// periodizedGain evaluates the Gaussian frequency response at DFT bin idx,
// summing the aliases whose tails reach into [0, 2Pi). extraPeriods widens
// the alias range by one on each side for full-spectrum sampling.
func (b *Gabor) periodizedGain(filtIdx, idx, dftSize, extraPeriods int) float64 {
	centerAng := b.centersAng[filtIdx]
	std := b.stds[filtIdx]
	lowestAng := centerAng - b.supportsAng[filtIdx]/2
	highestAng := centerAng + b.supportsAng[filtIdx]/2

	constTerm := 0.5*math.Log(2*std) + 0.25*math.Log(math.Pi)
	numTerm := std * std / 2

	firstPeriod := -int(math.Max(-lowestAng, 0)/(2*math.Pi)) - extraPeriods
	lastPeriod := int(highestAng/(2*math.Pi)) + extraPeriods

	sum := 0.0
	for period := firstPeriod; period <= lastPeriod; period++ {
		omega := (float64(idx)/float64(dftSize) + float64(period)) * 2 * math.Pi
		delta := centerAng - omega
		sum += math.Exp(-numTerm*delta*delta + constTerm)
	}
	return sum
}

func hertzToAngular(hz, rate float64) float64 {
	return hz * 2 * math.Pi / rate
}

func angularToHertz(ang, rate float64) float64 {
	return ang * rate / (2 * math.Pi)
}
