package feature

import (
	"math"

	"github.com/RyanBlaney/sonido-features/algorithms/common"
	"github.com/RyanBlaney/sonido-features/algorithms/spectral"
	"github.com/RyanBlaney/sonido-features/algorithms/windowing"
	"github.com/RyanBlaney/sonido-features/filterbank"
	"github.com/RyanBlaney/sonido-features/logging"
)

// STFTParams contains framing parameters for short-time spectral computers
type STFTParams struct {
	FrameLength   int                `json:"frame_length"`   // Samples per frame (default: 400)
	FrameShift    int                `json:"frame_shift"`    // Samples between frame starts (default: 160)
	TransformSize int                `json:"transform_size"` // DFT size >= frame length (default: next power of two)
	Window        *windowing.Config  `json:"window"`         // Window function (default: symmetric Hann)
	IncludeEnergy bool               `json:"include_energy"` // Append raw frame energy as an extra coefficient
	UsePower      bool               `json:"use_power"`      // Power spectrum instead of magnitude
	UseLog        bool               `json:"use_log"`        // Natural-log compression with a floor
}

// DefaultSTFTParams returns the conventional 25ms/10ms framing at 16kHz
func DefaultSTFTParams() STFTParams {
	return STFTParams{
		FrameLength: 400,
		FrameShift:  160,
		UsePower:    true,
		UseLog:      true,
	}
}

func (p *STFTParams) fillDefaults() error {
	if p.FrameLength <= 0 {
		return common.Configf("stft computer: frame_length must be positive, got %d", p.FrameLength)
	}
	if p.FrameShift <= 0 {
		return common.Configf("stft computer: frame_shift must be positive, got %d", p.FrameShift)
	}
	if p.TransformSize == 0 {
		p.TransformSize = common.NextPowerOfTwo(p.FrameLength)
	}
	if p.TransformSize < p.FrameLength {
		return common.Configf("stft computer: transform_size %d is below frame_length %d",
			p.TransformSize, p.FrameLength)
	}
	if p.Window == nil {
		p.Window = windowing.DefaultConfig(p.FrameLength)
	}
	p.Window.Size = p.FrameLength
	return nil
}

// filterResponse is a bank filter sampled at the transform size
type filterResponse struct {
	startBin int
	weights  []float64
}

// STFTComputer computes filter-bank energies frame by frame: window, zero-pad
// to the transform size, real DFT, magnitude or power, weighted summation per
// filter, optional log compression and appended energy term.
type STFTComputer struct {
	params    STFTParams
	bank      filterbank.Bank
	window    *windowing.Window
	fft       *spectral.FFT
	responses []filterResponse
	numCoeffs int

	padded []float64 // scratch frame of transform size
	eng    engine
}

// NewSTFT creates a frame computer that aggregates spectral energy through
// the given filter bank.
func NewSTFT(bank filterbank.Bank, params STFTParams) (*STFTComputer, error) {
	if bank == nil {
		return nil, common.Configf("stft computer: a filter bank is required")
	}
	if err := params.fillDefaults(); err != nil {
		return nil, err
	}

	window, err := windowing.Generate(params.Window)
	if err != nil {
		return nil, err
	}

	responses := make([]filterResponse, bank.NumFilters())
	for idx := range responses {
		start, weights := bank.TruncatedResponse(idx, params.TransformSize)
		responses[idx] = filterResponse{startBin: start, weights: weights}
	}

	numCoeffs := bank.NumFilters()
	if params.IncludeEnergy {
		numCoeffs++
	}

	c := &STFTComputer{
		params:    params,
		bank:      bank,
		window:    window,
		fft:       spectral.NewFFT(),
		responses: responses,
		numCoeffs: numCoeffs,
		padded:    make([]float64, params.TransformSize),
	}
	c.eng = engine{
		frameLength: params.FrameLength,
		frameShift:  params.FrameShift,
		frameFn:     c.computeFrame,
	}

	logging.Debug("stft computer constructed", logging.Fields{
		"frame_length":   params.FrameLength,
		"frame_shift":    params.FrameShift,
		"transform_size": params.TransformSize,
		"num_filters":    bank.NumFilters(),
		"window":         params.Window.Type,
	})
	return c, nil
}

// FrameLength returns the number of samples per analysis frame
func (c *STFTComputer) FrameLength() int { return c.params.FrameLength }

// FrameShift returns the number of samples between frame starts
func (c *STFTComputer) FrameShift() int { return c.params.FrameShift }

// NumCoeffs returns the width of each emitted feature vector
func (c *STFTComputer) NumCoeffs() int { return c.numCoeffs }

// SampleRate returns the sampling rate of the underlying bank
func (c *STFTComputer) SampleRate() float64 { return c.bank.SampleRate() }

// Bank returns the filter bank the computer aggregates with
func (c *STFTComputer) Bank() filterbank.Bank { return c.bank }

// computeFrame runs the per-frame pipeline shared by the batch and streaming
// paths. frame aliases caller storage and is not retained.
func (c *STFTComputer) computeFrame(frame []float64) []float64 {
	var energy float64
	if c.params.IncludeEnergy {
		energy = common.SumSquares(frame)
	}

	copy(c.padded, frame)
	for i := c.params.FrameLength; i < c.params.TransformSize; i++ {
		c.padded[i] = 0
	}
	// window only the live samples; the padding stays zero
	_ = c.window.ApplyInPlace(c.padded[:c.params.FrameLength])

	dft := c.fft.Compute(c.padded)

	var bins []float64
	if c.params.UsePower {
		bins = spectral.PowerSpectrum(dft)
	} else {
		bins = spectral.MagnitudeSpectrum(dft)
	}

	coeffs := make([]float64, c.numCoeffs)
	for idx, resp := range c.responses {
		sum := 0.0
		for i, w := range resp.weights {
			if bin := resp.startBin + i; bin < len(bins) {
				sum += w * bins[bin]
			}
		}
		if c.params.UseLog {
			sum = math.Log(math.Max(sum, LogFloor))
		}
		coeffs[idx] = sum
	}

	if c.params.IncludeEnergy {
		if c.params.UseLog {
			energy = math.Log(math.Max(energy, LogFloor))
		}
		coeffs[c.numCoeffs-1] = energy
	}
	return coeffs
}

// ComputeFull computes the whole feature matrix for a signal in one call
func (c *STFTComputer) ComputeFull(signal []float64) ([][]float64, error) {
	return c.eng.computeFull(signal)
}

// Start (re)initializes streaming state to empty
func (c *STFTComputer) Start() {
	c.eng.start()
}

// ConsumeChunk buffers samples and emits complete feature vectors
func (c *STFTComputer) ConsumeChunk(chunk []float64) ([][]float64, error) {
	return c.eng.consumeChunk(chunk)
}

// Finalize discards any trailing fragment and releases streaming state
func (c *STFTComputer) Finalize() ([][]float64, error) {
	return c.eng.finalize()
}
