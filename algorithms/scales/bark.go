package scales

import (
	"github.com/RyanBlaney/sonido-features/algorithms/common"
)

// Bark is the bark frequency scale, based on the critical bands of human
// auditory perception. Uses the Traunmüller (1990) formula.
type Bark struct {
	// No state needed - stateless conversion functions
}

// NewBark creates a new bark scale converter
func NewBark() *Bark {
	return &Bark{}
}

// Name returns the canonical registry name of the scale
func (b *Bark) Name() string {
	return "bark"
}

// HzToScale converts frequency in Hz to bark scale
func (b *Bark) HzToScale(hz float64) (float64, error) {
	if hz < 0 {
		return 0, common.Domainf("bark scale: negative frequency %.2f Hz", hz)
	}
	return (26.81 * hz / (1960.0 + hz)) - 0.53, nil
}

// ScaleToHz converts bark scale to frequency in Hz
// Exact inverse of the Traunmüller formula
func (b *Bark) ScaleToHz(bark float64) float64 {
	return 1960.0 * (bark + 0.53) / (26.28 - bark)
}
