package windowing

import (
	"fmt"

	"github.com/RyanBlaney/sonido-features/algorithms/common"
)

// WindowType represents different window function types
type WindowType string

const (
	WindowHann        WindowType = "hann"
	WindowHamming     WindowType = "hamming"
	WindowBlackman    WindowType = "blackman"
	WindowRectangular WindowType = "rectangular"
	WindowGamma       WindowType = "gamma"
)

// Config holds window configuration parameters
type Config struct {
	Type      WindowType `json:"type"`
	Size      int        `json:"size"`
	Symmetric bool       `json:"symmetric"` // Symmetric vs periodic window
	Order     int        `json:"order"`     // Gamma window order
	Peak      float64    `json:"peak"`      // Gamma window peak position (ratio or sample index)
}

// DefaultConfig returns a default window configuration
func DefaultConfig(size int) *Config {
	return &Config{
		Type:      WindowHann,
		Size:      size,
		Symmetric: true,
		Order:     4,
		Peak:      0.75,
	}
}

// Window holds the coefficients of a generated window function
type Window struct {
	windowType   WindowType
	size         int
	coefficients []float64
}

// Generate creates a window with the specified configuration
func Generate(config *Config) (*Window, error) {
	if config == nil {
		return nil, common.Configf("window: nil configuration")
	}
	if config.Size <= 0 {
		return nil, common.Configf("window: size must be positive, got %d", config.Size)
	}

	var coefficients []float64
	switch config.Type {
	case WindowHann:
		coefficients = generateHann(config.Size, config.Symmetric)
	case WindowHamming:
		coefficients = generateHamming(config.Size, config.Symmetric)
	case WindowBlackman:
		coefficients = generateBlackman(config.Size, config.Symmetric)
	case WindowRectangular:
		coefficients = generateRectangular(config.Size)
	case WindowGamma:
		order := config.Order
		if order <= 0 {
			order = 4
		}
		peak := config.Peak
		if peak <= 0 {
			peak = 0.75
		}
		coefficients = generateGamma(config.Size, order, peak)
	default:
		return nil, common.Configf("window: unknown window type %q", config.Type)
	}

	return &Window{
		windowType:   config.Type,
		size:         config.Size,
		coefficients: coefficients,
	}, nil
}

// Apply applies the window to a signal (creates new array)
func (w *Window) Apply(signal []float64) []float64 {
	if len(signal) != w.size {
		return nil
	}

	windowed := make([]float64, w.size)
	for i := range signal {
		windowed[i] = signal[i] * w.coefficients[i]
	}

	return windowed
}

// ApplyInPlace applies the window to a signal in-place
func (w *Window) ApplyInPlace(signal []float64) error {
	if len(signal) != w.size {
		return fmt.Errorf("signal length (%d) doesn't match window size (%d)", len(signal), w.size)
	}

	for i := range signal {
		signal[i] *= w.coefficients[i]
	}

	return nil
}

// GetCoefficients returns a copy of the window coefficients
func (w *Window) GetCoefficients() []float64 {
	coeffs := make([]float64, len(w.coefficients))
	copy(coeffs, w.coefficients)
	return coeffs
}

// GetSize returns the window size
func (w *Window) GetSize() int {
	return w.size
}

// GetType returns the window type
func (w *Window) GetType() WindowType {
	return w.windowType
}
