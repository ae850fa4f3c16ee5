package post

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/RyanBlaney/sonido-features/algorithms/common"
)

func constantMatrix(frames, width int, value float64) [][]float64 {
	m := make([][]float64, frames)
	for t := range m {
		m[t] = make([]float64, width)
		for j := range m[t] {
			m[t][j] = value
		}
	}
	return m
}

func TestDeltasWidth(t *testing.T) {
	d, err := NewDeltas(2, 2)
	require.NoError(t, err)

	width, err := d.OutputWidth(13)
	require.NoError(t, err)
	assert.Equal(t, 39, width)

	out, err := d.Apply(constantMatrix(10, 13, 1.5))
	require.NoError(t, err)
	require.Len(t, out, 10)
	assert.Len(t, out[0], 39)
}

func TestDeltasOfConstantAreZero(t *testing.T) {
	d, err := NewDeltas(1, 2)
	require.NoError(t, err)

	out, err := d.Apply(constantMatrix(8, 4, 3.0))
	require.NoError(t, err)

	for t2, row := range out {
		for j := 0; j < 4; j++ {
			assert.Equal(t, 3.0, row[j])
		}
		for j := 4; j < 8; j++ {
			assert.Zerof(t, row[j], "frame %d delta %d", t2, j)
		}
	}
}

func TestDeltasOfRampAreConstant(t *testing.T) {
	d, err := NewDeltas(1, 2)
	require.NoError(t, err)

	feats := make([][]float64, 20)
	for i := range feats {
		feats[i] = []float64{float64(i)}
	}

	out, err := d.Apply(feats)
	require.NoError(t, err)

	// away from the clamped edges the slope of t is exactly 1
	for i := 2; i < 18; i++ {
		assert.InDeltaf(t, 1.0, out[i][1], 1e-12, "frame %d", i)
	}
}

func TestDeltasRejectsBadParams(t *testing.T) {
	_, err := NewDeltas(0, 2)
	assert.Error(t, err)
	_, err = NewDeltas(1, 0)
	assert.Error(t, err)
}

func TestStandardizeColumns(t *testing.T) {
	s := NewStandardize(true)

	feats := make([][]float64, 50)
	for i := range feats {
		feats[i] = []float64{float64(i), math.Sin(float64(i))}
	}

	out, err := s.Apply(feats)
	require.NoError(t, err)
	require.Len(t, out, 50)

	for j := range 2 {
		column := make([]float64, len(out))
		for t2 := range out {
			column[t2] = out[t2][j]
		}
		assert.InDeltaf(t, 0.0, common.Mean(column), 1e-9, "column %d mean", j)
		assert.InDeltaf(t, 1.0, common.StandardDeviation(column), 1e-9, "column %d std", j)
	}
}

func TestStandardizeConstantColumn(t *testing.T) {
	s := NewStandardize(true)

	out, err := s.Apply(constantMatrix(10, 3, 7.0))
	require.NoError(t, err)

	// centered but not divided by the (floored) zero deviation
	for _, row := range out {
		for _, v := range row {
			assert.Zero(t, v)
		}
	}
}

func TestChainWidthPropagation(t *testing.T) {
	d, err := NewDeltas(2, 2)
	require.NoError(t, err)

	chain, err := NewChain(13, d, NewStandardize(true))
	require.NoError(t, err)

	assert.Equal(t, 13, chain.InputWidth())
	assert.Equal(t, 39, chain.OutputWidth())
	assert.False(t, chain.Streamable())

	out, err := chain.Apply(constantMatrix(5, 13, 2.0))
	require.NoError(t, err)
	assert.Len(t, out[0], 39)
}

func TestChainRejectsWrongWidthAtApply(t *testing.T) {
	chain, err := NewChain(13, NewStandardize(false))
	require.NoError(t, err)

	_, err = chain.Apply(constantMatrix(5, 7, 1.0))
	require.Error(t, err)

	var shapeErr *common.ShapeError
	assert.ErrorAs(t, err, &shapeErr)
}

func TestChainRejectsBadAssembly(t *testing.T) {
	_, err := NewChain(0, NewStandardize(false))
	require.Error(t, err)

	var shapeErr *common.ShapeError
	assert.ErrorAs(t, err, &shapeErr)
}

func TestChainStreamableWithoutGlobalStats(t *testing.T) {
	d, err := NewDeltas(1, 2)
	require.NoError(t, err)

	chain, err := NewChain(26, d)
	require.NoError(t, err)
	assert.True(t, chain.Streamable())
}

func TestEmptyMatrixPassthrough(t *testing.T) {
	d, err := NewDeltas(2, 2)
	require.NoError(t, err)

	out, err := d.Apply(nil)
	require.NoError(t, err)
	assert.Empty(t, out)

	out, err = NewStandardize(true).Apply(nil)
	require.NoError(t, err)
	assert.Empty(t, out)
}
