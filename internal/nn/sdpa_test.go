package nn

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/onehead-ml/onehead/internal/backend/cpu"
	"github.com/onehead-ml/onehead/internal/tensor"
)

func TestScaledDotProductAttentionBasic(t *testing.T) {
	backend := cpu.New()

	// batch=1, seq=2, head_dim=2 with identity Q and K.
	q, err := tensor.FromSlice([]float32{1, 0, 0, 1}, tensor.Shape{1, 2, 2}, backend)
	require.NoError(t, err)
	k, err := tensor.FromSlice([]float32{1, 0, 0, 1}, tensor.Shape{1, 2, 2}, backend)
	require.NoError(t, err)
	v, err := tensor.FromSlice([]float32{2, 0, 0, 2}, tensor.Shape{1, 2, 2}, backend)
	require.NoError(t, err)

	output, weights := ScaledDotProductAttention(q, k, v, nil, 0)

	require.True(t, output.Shape().Equal(tensor.Shape{1, 2, 2}))
	require.True(t, weights.Shape().Equal(tensor.Shape{1, 2, 2}))

	// Weight rows are distributions.
	wData := weights.Data()
	assert.InDelta(t, 1.0, wData[0]+wData[1], 1e-5)
	assert.InDelta(t, 1.0, wData[2]+wData[3], 1e-5)

	// Matching q/k rows score highest, so each row prefers its own value.
	assert.Greater(t, wData[0], wData[1])
	assert.Greater(t, wData[3], wData[2])
}

func TestScaledDotProductAttentionCausalMask(t *testing.T) {
	backend := cpu.New()
	seqLen := 4

	q := tensor.RandnSource[float32](tensor.Shape{1, seqLen, 8}, newTestRNG(1), backend)
	k := tensor.RandnSource[float32](tensor.Shape{1, seqLen, 8}, newTestRNG(2), backend)
	v := tensor.RandnSource[float32](tensor.Shape{1, seqLen, 8}, newTestRNG(3), backend)

	_, weights := ScaledDotProductAttention(q, k, v, CausalMask(seqLen, backend), 0)

	for i := 0; i < seqLen; i++ {
		for j := i + 1; j < seqLen; j++ {
			assert.Zero(t, weights.At(0, i, j), "position %d attends to future %d", i, j)
		}
	}
}

func TestScaledDotProductAttentionAutoScale(t *testing.T) {
	backend := cpu.New()
	headDim := 16

	q := tensor.RandnSource[float32](tensor.Shape{1, 4, headDim}, newTestRNG(1), backend)
	k := tensor.RandnSource[float32](tensor.Shape{1, 4, headDim}, newTestRNG(2), backend)
	v := tensor.RandnSource[float32](tensor.Shape{1, 4, headDim}, newTestRNG(3), backend)

	scale := float32(1.0 / math.Sqrt(float64(headDim)))
	autoOut, _ := ScaledDotProductAttention(q, k, v, nil, 0)
	explicitOut, _ := ScaledDotProductAttention(q, k, v, nil, scale)

	aData, eData := autoOut.Data(), explicitOut.Data()
	for i := range aData {
		assert.Equal(t, eData[i], aData[i])
	}
}

func TestHeadMatchesScaledDotProductAttention(t *testing.T) {
	backend := cpu.New()
	seqLen, embedDim, headSize := 4, 16, 8

	head := NewHead(embedDim, headSize, seqLen, newTestRNG(42), backend)
	x := tensor.RandnSource[float32](tensor.Shape{2, seqLen, embedDim}, newTestRNG(43), backend)

	headOut, headWeights := head.Forward(x)

	// The head is nothing more than SDPA over its own projections.
	q := head.query.Forward(x)
	k := head.key.Forward(x)
	v := head.value.Forward(x)
	sdpaOut, sdpaWeights := ScaledDotProductAttention(q, k, v, CausalMask(seqLen, backend), 0)

	hw, sw := headWeights.Data(), sdpaWeights.Data()
	for i := range hw {
		assert.InDelta(t, sw[i], hw[i], 1e-5, "weights index %d", i)
	}
	ho, so := headOut.Data(), sdpaOut.Data()
	for i := range ho {
		assert.InDelta(t, so[i], ho[i], 1e-5, "output index %d", i)
	}
}

func TestScaledDotProductAttentionRankMismatchPanics(t *testing.T) {
	backend := cpu.New()

	q := tensor.RandnSource[float32](tensor.Shape{4, 8}, newTestRNG(1), backend)
	assert.Panics(t, func() {
		ScaledDotProductAttention(q, q, q, nil, 0)
	})
}
