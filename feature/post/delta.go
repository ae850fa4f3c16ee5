package post

import (
	"github.com/RyanBlaney/sonido-features/algorithms/common"
)

// Deltas appends time-derivative coefficient blocks to each frame, computed
// with the standard regression formula over a fixed window:
//
//	d[t] = sum_{n=1}^{N} n*(c[t+n] - c[t-n]) / (2 * sum_{n=1}^{N} n^2)
//
// Frame indices are clamped at the matrix edges. Order 1 appends deltas,
// order 2 appends deltas and delta-deltas: width D becomes (1+order)*D.
type Deltas struct {
	order  int
	window int
}

// NewDeltas creates a delta transform. Order is the number of derivative
// blocks to append; window is the regression half-width N.
func NewDeltas(order, window int) (*Deltas, error) {
	if order < 1 {
		return nil, common.Configf("deltas: order must be >= 1, got %d", order)
	}
	if window < 1 {
		return nil, common.Configf("deltas: window must be >= 1, got %d", window)
	}
	return &Deltas{order: order, window: window}, nil
}

// Name returns the canonical registry name of the transform
func (d *Deltas) Name() string {
	return "deltas"
}

// OutputWidth returns (1+order) times the input width
func (d *Deltas) OutputWidth(inputWidth int) (int, error) {
	if inputWidth <= 0 {
		return 0, common.Shapef("deltas: input width must be positive, got %d", inputWidth)
	}
	return (1 + d.order) * inputWidth, nil
}

// Streamable reports false only for whole-matrix transforms; the regression
// window is local, so deltas stream (with edge clamping per call)
func (d *Deltas) Streamable() bool {
	return true
}

// Apply appends the derivative blocks to every frame
func (d *Deltas) Apply(feats [][]float64) ([][]float64, error) {
	numFrames := len(feats)
	if numFrames == 0 {
		return feats, nil
	}

	dim := len(feats[0])
	blocks := make([][][]float64, d.order+1)
	blocks[0] = feats
	for b := 1; b <= d.order; b++ {
		blocks[b] = d.regress(blocks[b-1])
	}

	out := make([][]float64, numFrames)
	for t := range numFrames {
		row := make([]float64, 0, (1+d.order)*dim)
		for _, block := range blocks {
			row = append(row, block[t]...)
		}
		out[t] = row
	}
	return out, nil
}

// regress computes one derivative pass with index clamping at the edges
func (d *Deltas) regress(feats [][]float64) [][]float64 {
	numFrames := len(feats)
	dim := len(feats[0])

	denom := 0.0
	for n := 1; n <= d.window; n++ {
		denom += float64(n * n)
	}
	denom *= 2.0

	out := make([][]float64, numFrames)
	for t := range numFrames {
		out[t] = make([]float64, dim)
		for j := range dim {
			num := 0.0
			for n := 1; n <= d.window; n++ {
				ahead := min(t+n, numFrames-1)
				behind := max(t-n, 0)
				num += float64(n) * (feats[ahead][j] - feats[behind][j])
			}
			out[t][j] = num / denom
		}
	}
	return out
}
