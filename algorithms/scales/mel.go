package scales

import (
	"math"

	"github.com/RyanBlaney/sonido-features/algorithms/common"
)

// Mel is the mel frequency scale, which spaces filters roughly linearly below
// 1kHz and logarithmically above. Essential for speech-oriented filter banks.
type Mel struct {
	// No state needed - stateless conversion functions
}

// NewMel creates a new mel scale converter
func NewMel() *Mel {
	return &Mel{}
}

// Name returns the canonical registry name of the scale
func (m *Mel) Name() string {
	return "mel"
}

// HzToScale converts frequency in Hz to mel scale
func (m *Mel) HzToScale(hz float64) (float64, error) {
	if hz < 0 {
		return 0, common.Domainf("mel scale: negative frequency %.2f Hz", hz)
	}
	return 2595.0 * math.Log10(1.0+hz/700.0), nil
}

// ScaleToHz converts mel scale to frequency in Hz
func (m *Mel) ScaleToHz(mel float64) float64 {
	return 700.0 * (math.Pow(10.0, mel/2595.0) - 1.0)
}
