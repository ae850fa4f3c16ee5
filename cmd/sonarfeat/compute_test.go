package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/RyanBlaney/sonido-features/algorithms/common"
	"github.com/RyanBlaney/sonido-features/feature/post"
)

func TestCheckStreamable(t *testing.T) {
	deltas, err := post.NewDeltas(1, 2)
	require.NoError(t, err)

	streamable, err := post.NewChain(13, deltas)
	require.NoError(t, err)
	assert.NoError(t, checkStreamable(streamable))

	batchOnly, err := post.NewChain(13, deltas, post.NewStandardize(true))
	require.NoError(t, err)

	err = checkStreamable(batchOnly)
	require.Error(t, err)
	var stateErr *common.StateError
	assert.ErrorAs(t, err, &stateErr)
}
