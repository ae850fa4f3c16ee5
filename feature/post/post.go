// Package post provides transforms over emitted feature matrices: appending
// delta coefficients, mean/variance normalization, and ordered composition
// with assembly-time shape checking.
package post

import (
	"github.com/RyanBlaney/sonido-features/algorithms/common"
)

// Transform is an operation over a frames × width feature matrix.
type Transform interface {
	// Name returns the canonical registry name of the transform
	Name() string

	// OutputWidth returns the width of the matrix the transform emits for
	// the given input width, or a ShapeError if the width is unacceptable
	OutputWidth(inputWidth int) (int, error)

	// Streamable reports whether the transform can run on partial matrices.
	// Whole-matrix statistics (e.g. mean/variance normalization) cannot.
	Streamable() bool

	// Apply transforms the feature matrix. The input is not modified.
	Apply(feats [][]float64) ([][]float64, error)
}

// Chain is an ordered sequence of feature transforms whose widths have been
// verified to compose.
type Chain struct {
	stages     []Transform
	inputWidth int
	width      int
	streamable bool
}

// NewChain verifies at assembly time that each stage accepts the width the
// previous stage emits, starting from inputWidth.
func NewChain(inputWidth int, stages ...Transform) (*Chain, error) {
	if inputWidth <= 0 {
		return nil, common.Shapef("transform chain: input width must be positive, got %d", inputWidth)
	}

	width := inputWidth
	streamable := true
	for _, stage := range stages {
		next, err := stage.OutputWidth(width)
		if err != nil {
			return nil, err
		}
		if !stage.Streamable() {
			streamable = false
		}
		width = next
	}

	return &Chain{
		stages:     stages,
		inputWidth: inputWidth,
		width:      width,
		streamable: streamable,
	}, nil
}

// InputWidth returns the feature width the chain was assembled for
func (c *Chain) InputWidth() int { return c.inputWidth }

// OutputWidth returns the feature width the chain emits
func (c *Chain) OutputWidth() int { return c.width }

// Streamable reports whether every stage can run on partial matrices
func (c *Chain) Streamable() bool { return c.streamable }

// Len returns the number of stages
func (c *Chain) Len() int { return len(c.stages) }

// Apply runs every stage in order. The width of feats must match the width
// the chain was assembled for.
func (c *Chain) Apply(feats [][]float64) ([][]float64, error) {
	if len(feats) > 0 && len(feats[0]) != c.inputWidth {
		return nil, common.Shapef("transform chain: got width %d, assembled for %d",
			len(feats[0]), c.inputWidth)
	}

	var err error
	for _, stage := range c.stages {
		feats, err = stage.Apply(feats)
		if err != nil {
			return nil, err
		}
	}
	return feats, nil
}
