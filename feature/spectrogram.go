package feature

import (
	"math"

	"github.com/RyanBlaney/sonido-features/algorithms/common"
	"github.com/RyanBlaney/sonido-features/algorithms/spectral"
	"github.com/RyanBlaney/sonido-features/algorithms/windowing"
	"github.com/RyanBlaney/sonido-features/logging"
)

// SpectrogramComputer emits the raw half spectrum of each frame with no bank
// aggregation: transformSize/2 + 1 bins per frame, plus the optional energy
// coefficient.
type SpectrogramComputer struct {
	params     STFTParams
	sampleRate float64
	window     *windowing.Window
	fft        *spectral.FFT
	numCoeffs  int

	padded []float64
	eng    engine
}

// NewSpectrogram creates a raw spectral frame computer for signals at the
// given sampling rate.
func NewSpectrogram(sampleRate float64, params STFTParams) (*SpectrogramComputer, error) {
	if sampleRate <= 0 {
		return nil, common.Configf("spectrogram computer: sample_rate must be positive, got %.2f", sampleRate)
	}
	if err := params.fillDefaults(); err != nil {
		return nil, err
	}

	window, err := windowing.Generate(params.Window)
	if err != nil {
		return nil, err
	}

	numCoeffs := spectral.HalfSpectrumBins(params.TransformSize)
	if params.IncludeEnergy {
		numCoeffs++
	}

	c := &SpectrogramComputer{
		params:     params,
		sampleRate: sampleRate,
		window:     window,
		fft:        spectral.NewFFT(),
		numCoeffs:  numCoeffs,
		padded:     make([]float64, params.TransformSize),
	}
	c.eng = engine{
		frameLength: params.FrameLength,
		frameShift:  params.FrameShift,
		frameFn:     c.computeFrame,
	}

	logging.Debug("spectrogram computer constructed", logging.Fields{
		"frame_length":   params.FrameLength,
		"frame_shift":    params.FrameShift,
		"transform_size": params.TransformSize,
		"sample_rate":    sampleRate,
	})
	return c, nil
}

// FrameLength returns the number of samples per analysis frame
func (c *SpectrogramComputer) FrameLength() int { return c.params.FrameLength }

// FrameShift returns the number of samples between frame starts
func (c *SpectrogramComputer) FrameShift() int { return c.params.FrameShift }

// NumCoeffs returns the width of each emitted feature vector
func (c *SpectrogramComputer) NumCoeffs() int { return c.numCoeffs }

// SampleRate returns the sampling rate the computer was configured for
func (c *SpectrogramComputer) SampleRate() float64 { return c.sampleRate }

func (c *SpectrogramComputer) computeFrame(frame []float64) []float64 {
	var energy float64
	if c.params.IncludeEnergy {
		energy = common.SumSquares(frame)
	}

	copy(c.padded, frame)
	for i := c.params.FrameLength; i < c.params.TransformSize; i++ {
		c.padded[i] = 0
	}
	_ = c.window.ApplyInPlace(c.padded[:c.params.FrameLength])

	dft := c.fft.Compute(c.padded)

	var bins []float64
	if c.params.UsePower {
		bins = spectral.PowerSpectrum(dft)
	} else {
		bins = spectral.MagnitudeSpectrum(dft)
	}

	coeffs := make([]float64, c.numCoeffs)
	for i, v := range bins {
		if c.params.UseLog {
			v = math.Log(math.Max(v, LogFloor))
		}
		coeffs[i] = v
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
func (c *SpectrogramComputer) ComputeFull(signal []float64) ([][]float64, error) {
	return c.eng.computeFull(signal)
}

// Start (re)initializes streaming state to empty
func (c *SpectrogramComputer) Start() {
	c.eng.start()
}

// ConsumeChunk buffers samples and emits complete feature vectors
func (c *SpectrogramComputer) ConsumeChunk(chunk []float64) ([][]float64, error) {
	return c.eng.consumeChunk(chunk)
}

// Finalize discards any trailing fragment and releases streaming state
func (c *SpectrogramComputer) Finalize() ([][]float64, error) {
	return c.eng.finalize()
}
