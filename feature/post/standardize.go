package post

import (
	"github.com/RyanBlaney/sonido-features/algorithms/common"
)

// varianceFloor guards division by the standard deviation of a constant
// column.
const varianceFloor = 1e-10

// Standardize normalizes each feature column to zero mean and, optionally,
// unit variance over the whole emitted matrix. The statistics are global, so
// this is inherently a batch-only transform: assembling it into a streaming
// pipeline is a StateError.
type Standardize struct {
	scaleVariance bool
}

// NewStandardize creates a mean/variance normalization transform
func NewStandardize(scaleVariance bool) *Standardize {
	return &Standardize{scaleVariance: scaleVariance}
}

// Name returns the canonical registry name of the transform
func (s *Standardize) Name() string {
	return "standardize"
}

// OutputWidth returns the input width unchanged
func (s *Standardize) OutputWidth(inputWidth int) (int, error) {
	if inputWidth <= 0 {
		return 0, common.Shapef("standardize: input width must be positive, got %d", inputWidth)
	}
	return inputWidth, nil
}

// Streamable reports false: the statistics cover the whole matrix
func (s *Standardize) Streamable() bool {
	return false
}

// Apply normalizes every column of the matrix
func (s *Standardize) Apply(feats [][]float64) ([][]float64, error) {
	numFrames := len(feats)
	if numFrames == 0 {
		return feats, nil
	}
	dim := len(feats[0])

	column := make([]float64, numFrames)
	out := make([][]float64, numFrames)
	for t := range out {
		out[t] = make([]float64, dim)
	}

	for j := range dim {
		for t := range numFrames {
			column[t] = feats[t][j]
		}

		mean := common.Mean(column)
		std := 1.0
		if s.scaleVariance {
			std = common.StandardDeviation(column)
			if std < varianceFloor {
				std = 1.0
			}
		}

		for t := range numFrames {
			out[t][j] = (feats[t][j] - mean) / std
		}
	}
	return out, nil
}
