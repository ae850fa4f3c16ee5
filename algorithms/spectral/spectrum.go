package spectral

import (
	"math/cmplx"
)

// HalfSpectrumBins returns the number of non-redundant bins of a real DFT of
// the given size (DC through Nyquist).
func HalfSpectrumBins(dftSize int) int {
	return dftSize/2 + 1
}

// MagnitudeSpectrum extracts the magnitude of the positive-frequency bins of
// a DFT result, including DC and Nyquist.
func MagnitudeSpectrum(dft []complex128) []float64 {
	if len(dft) == 0 {
		return []float64{}
	}

	bins := HalfSpectrumBins(len(dft))
	magnitude := make([]float64, bins)
	for i := range bins {
		magnitude[i] = cmplx.Abs(dft[i])
	}

	return magnitude
}

// PowerSpectrum extracts the squared magnitude of the positive-frequency bins
// of a DFT result, including DC and Nyquist.
func PowerSpectrum(dft []complex128) []float64 {
	if len(dft) == 0 {
		return []float64{}
	}

	bins := HalfSpectrumBins(len(dft))
	power := make([]float64, bins)
	for i := range bins {
		re := real(dft[i])
		im := imag(dft[i])
		power[i] = re*re + im*im
	}

	return power
}
