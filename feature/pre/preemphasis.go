package pre

// PreEmphasis implements the first-order high-pass filter conventionally
// applied before spectral analysis of speech:
//
//	y[n] = x[n] - α*x[n-1]
//
// The previous input sample is carried across chunks, so streaming and batch
// application produce identical output. Typical coefficients are 0.95-0.97.
type PreEmphasis struct {
	coefficient float64
	lastSample  float64
}

// NewPreEmphasis creates a pre-emphasis filter with the given coefficient
func NewPreEmphasis(coefficient float64) *PreEmphasis {
	return &PreEmphasis{coefficient: coefficient}
}

// NewPreEmphasisDefault creates a pre-emphasis filter with the standard
// speech coefficient of 0.97
func NewPreEmphasisDefault() *PreEmphasis {
	return NewPreEmphasis(0.97)
}

// Name returns the canonical registry name of the transform
func (p *PreEmphasis) Name() string {
	return "preemphasis"
}

// Coefficient returns the filter coefficient α
func (p *PreEmphasis) Coefficient() float64 {
	return p.coefficient
}

// Apply filters one chunk of samples
func (p *PreEmphasis) Apply(samples []float64) []float64 {
	out := make([]float64, len(samples))
	prev := p.lastSample
	for i, x := range samples {
		out[i] = x - p.coefficient*prev
		prev = x
	}
	p.lastSample = prev
	return out
}

// Reset clears the filter memory
func (p *PreEmphasis) Reset() {
	p.lastSample = 0
}
