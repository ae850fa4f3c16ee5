package scales

import (
	"math"

	"github.com/RyanBlaney/sonido-features/algorithms/common"
)

// Octave is a logarithmic warping measuring octaves above a reference
// frequency. 0 Hz maps to negative infinity, which round-trips back to 0 Hz.
type Octave struct {
	refHz float64
}

// NewOctave creates a new octave scale converter with the given reference
// frequency. A non-positive reference falls back to the default of 1000 Hz.
func NewOctave(refHz float64) *Octave {
	if refHz <= 0 {
		refHz = 1000.0
	}
	return &Octave{refHz: refHz}
}

// Name returns the canonical registry name of the scale
func (o *Octave) Name() string {
	return "octave"
}

// ReferenceHz returns the frequency that maps to 0 on the octave axis
func (o *Octave) ReferenceHz() float64 {
	return o.refHz
}

// HzToScale converts frequency in Hz to octaves above the reference
func (o *Octave) HzToScale(hz float64) (float64, error) {
	if hz < 0 {
		return 0, common.Domainf("octave scale: negative frequency %.2f Hz", hz)
	}
	if hz == 0 {
		return math.Inf(-1), nil
	}
	return math.Log2(hz / o.refHz), nil
}

// ScaleToHz converts octaves above the reference back to frequency in Hz
func (o *Octave) ScaleToHz(s float64) float64 {
	return o.refHz * math.Exp2(s)
}
