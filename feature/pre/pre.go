// Package pre provides sample-domain transforms applied to the raw signal
// before framing. Transforms preserve sample count and carry whatever small
// state they need across chunks, so applying them chunk-at-a-time matches
// applying them to the whole signal.
package pre

// Transform is a length-preserving operation over raw samples.
type Transform interface {
	// Name returns the canonical registry name of the transform
	Name() string

	// Apply processes one chunk of samples, returning a new slice of the
	// same length. Internal state (if any) advances across calls.
	Apply(samples []float64) []float64

	// Reset returns the transform to its initial state
	Reset()
}

// Chain applies an ordered sequence of transforms.
type Chain []Transform

// Apply runs every transform in order over the chunk
func (c Chain) Apply(samples []float64) []float64 {
	for _, t := range c {
		samples = t.Apply(samples)
	}
	return samples
}

// Reset resets every transform in the chain
func (c Chain) Reset() {
	for _, t := range c {
		t.Reset()
	}
}
