package nn

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/onehead-ml/onehead/internal/backend/cpu"
	"github.com/onehead-ml/onehead/internal/tensor"
)

func TestEmbeddingForward(t *testing.T) {
	backend := cpu.New()
	emb := NewEmbedding(10, 4, newTestRNG(1), backend)

	idx, err := tensor.FromSlice([]int32{3, 7, 3}, tensor.Shape{1, 3}, backend)
	require.NoError(t, err)

	out := emb.Forward(idx)
	require.True(t, out.Shape().Equal(tensor.Shape{1, 3, 4}))

	// Same token id, same vector.
	for c := 0; c < 4; c++ {
		assert.Equal(t, out.At(0, 0, c), out.At(0, 2, c))
		assert.Equal(t, emb.Weight().At(3, c), out.At(0, 0, c))
	}
}

func TestEmbeddingOutOfRangePanics(t *testing.T) {
	backend := cpu.New()
	emb := NewEmbedding(4, 2, newTestRNG(1), backend)

	idx, err := tensor.FromSlice([]int32{4}, tensor.Shape{1}, backend)
	require.NoError(t, err)

	assert.Panics(t, func() { emb.Forward(idx) })
}
