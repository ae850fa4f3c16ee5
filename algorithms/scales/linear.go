package scales

import (
	"github.com/RyanBlaney/sonido-features/algorithms/common"
)

// Linear is the identity warping. Useful for banks laid out uniformly in Hz.
type Linear struct{}

// NewLinear creates a new linear scale converter
func NewLinear() *Linear {
	return &Linear{}
}

// Name returns the canonical registry name of the scale
func (l *Linear) Name() string {
	return "linear"
}

// HzToScale converts frequency in Hz to the (identical) linear scale
func (l *Linear) HzToScale(hz float64) (float64, error) {
	if hz < 0 {
		return 0, common.Domainf("linear scale: negative frequency %.2f Hz", hz)
	}
	return hz, nil
}

// ScaleToHz converts the linear scale back to frequency in Hz
func (l *Linear) ScaleToHz(s float64) float64 {
	return s
}
