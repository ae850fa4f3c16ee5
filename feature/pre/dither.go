package pre

import (
	"math/rand"
)

// Dither adds low-amplitude triangular-PDF noise to the signal, breaking up
// exact zero runs that would otherwise hit the log floor all at once. The
// noise source is seeded, so a given seed yields a reproducible signal.
type Dither struct {
	amplitude float64
	seed      int64
	rng       *rand.Rand
}

// NewDither creates a dither transform with the given peak noise amplitude
// and RNG seed
func NewDither(amplitude float64, seed int64) *Dither {
	return &Dither{
		amplitude: amplitude,
		seed:      seed,
		rng:       rand.New(rand.NewSource(seed)),
	}
}

// Name returns the canonical registry name of the transform
func (d *Dither) Name() string {
	return "dither"
}

// Amplitude returns the peak noise amplitude
func (d *Dither) Amplitude() float64 {
	return d.amplitude
}

// Apply adds one TPDF noise draw to each sample
func (d *Dither) Apply(samples []float64) []float64 {
	out := make([]float64, len(samples))
	for i, x := range samples {
		// difference of two uniform draws gives a triangular PDF on (-1, 1)
		noise := d.rng.Float64() - d.rng.Float64()
		out[i] = x + d.amplitude*noise
	}
	return out
}

// Reset reseeds the noise source so the same noise sequence replays
func (d *Dither) Reset() {
	d.rng = rand.New(rand.NewSource(d.seed))
}
