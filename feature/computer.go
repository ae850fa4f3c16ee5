// Package feature turns fixed-rate sample streams into sequences of feature
// vectors. Computers expose a batch path and an incremental streaming path
// that are guaranteed to produce identical output for any chunking of the
// same signal.
package feature

// LogFloor is the smallest value fed to the natural log when log compression
// is enabled, guarding against log(0) on silent frames.
const LogFloor = 1e-10

// Computer converts a sample stream into a feature matrix. Implementations
// hold immutable configuration plus, between Start and Finalize, the
// streaming state for exactly one stream. A Computer must not be shared
// across concurrent streams; construct one per stream instead (banks and
// windows are shared read-only).
type Computer interface {
	// FrameLength returns the number of samples per analysis frame
	FrameLength() int

	// FrameShift returns the number of samples between frame starts
	FrameShift() int

	// NumCoeffs returns the width of each emitted feature vector
	NumCoeffs() int

	// SampleRate returns the sampling rate the computer was configured for
	SampleRate() float64

	// ComputeFull computes the whole feature matrix for a signal in one call.
	// It retains no state and fails with a StateError while a stream started
	// with Start is still active.
	ComputeFull(signal []float64) ([][]float64, error)

	// Start (re)initializes streaming state to empty
	Start()

	// ConsumeChunk buffers samples and emits zero or more complete feature
	// vectors in temporal order. Fails with a StateError before Start.
	ConsumeChunk(chunk []float64) ([][]float64, error)

	// Finalize releases streaming state. A trailing fragment shorter than a
	// frame is discarded, matching batch behavior; no padding occurs. The
	// second and later calls are no-ops.
	Finalize() ([][]float64, error)
}

// NumFrames returns the number of complete frames in a signal of n samples:
// floor((n - length)/shift) + 1 when n >= length, else 0. Trailing samples
// that do not fill a frame are never padded into one.
func NumFrames(n, length, shift int) int {
	if n < length {
		return 0
	}
	return (n-length)/shift + 1
}
