package scales

// Scale is a monotonic warping between linear frequency in Hz and a
// perceptual or engineering axis. Implementations are stateless and safe to
// share across any number of frame computers.
//
// HzToScale must reject negative frequencies with a DomainError. ScaleToHz is
// the inverse of HzToScale on the admissible domain: ScaleToHz(HzToScale(hz))
// recovers hz within floating-point tolerance for all hz >= 0.
type Scale interface {
	// Name returns the canonical registry name of the scale
	Name() string

	// HzToScale converts a frequency in Hz to the warped axis
	HzToScale(hz float64) (float64, error)

	// ScaleToHz converts a value on the warped axis back to Hz
	ScaleToHz(s float64) float64
}
