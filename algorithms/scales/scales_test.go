package scales

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/RyanBlaney/sonido-features/algorithms/common"
)

func allScales() []Scale {
	return []Scale{NewMel(), NewBark(), NewLinear(), NewOctave(1000)}
}

func TestRoundTrip(t *testing.T) {
	for _, s := range allScales() {
		t.Run(s.Name(), func(t *testing.T) {
			for hz := 0.0; hz <= 20000.0; hz += 12.5 {
				warped, err := s.HzToScale(hz)
				require.NoError(t, err)

				back := s.ScaleToHz(warped)
				tol := 1e-6 * math.Max(1.0, hz)
				assert.InDeltaf(t, hz, back, tol, "%s round trip at %.1f Hz", s.Name(), hz)
			}
		})
	}
}

func TestMonotonic(t *testing.T) {
	for _, s := range allScales() {
		t.Run(s.Name(), func(t *testing.T) {
			prev := math.Inf(-1)
			for hz := 1.0; hz <= 20000.0; hz += 25.0 {
				warped, err := s.HzToScale(hz)
				require.NoError(t, err)
				assert.Greater(t, warped, prev)
				prev = warped
			}
		})
	}
}

func TestNegativeFrequencyRejected(t *testing.T) {
	for _, s := range allScales() {
		t.Run(s.Name(), func(t *testing.T) {
			_, err := s.HzToScale(-1.0)
			require.Error(t, err)

			var domainErr *common.DomainError
			assert.ErrorAs(t, err, &domainErr)
		})
	}
}

func TestMelReferencePoint(t *testing.T) {
	// The HTK mel formula places 1000 Hz at almost exactly 1000 mel
	mel, err := NewMel().HzToScale(1000.0)
	require.NoError(t, err)
	assert.InDelta(t, 1000.0, mel, 1.0)
}

func TestOctaveZeroHz(t *testing.T) {
	o := NewOctave(440)

	warped, err := o.HzToScale(0)
	require.NoError(t, err)
	assert.True(t, math.IsInf(warped, -1))
	assert.Equal(t, 0.0, o.ScaleToHz(warped))

	// doubling adds one octave
	low, err := o.HzToScale(440)
	require.NoError(t, err)
	high, err := o.HzToScale(880)
	require.NoError(t, err)
	assert.InDelta(t, 1.0, high-low, 1e-12)
}
