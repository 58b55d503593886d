package nn

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/onehead-ml/onehead/internal/tensor"
)

// Head is version 4 of the derivation: a single self-attention head.
//
// Where versions 1-3 average with fixed uniform weights, the head lets the
// data decide. Each position emits a query ("what am I looking for") and a
// key ("what do I contain"); their scaled dot product scores every
// (query, key) pair, future positions are masked out, and a row softmax
// turns the surviving scores into aggregation weights over the values.
//
//	wei = softmax(mask(q @ k.T / sqrt(headSize)))
//	out = wei @ v
type Head[B tensor.Backend] struct {
	embedDim  int
	headSize  int
	blockSize int

	key   *Linear[B]
	query *Linear[B]
	value *Linear[B]

	// Future-position mask for the configured block size, built once.
	future *tensor.Tensor[bool, B]

	backend B
}

// NewHead creates a single attention head.
//
// Parameters:
//   - embedDim: input channels C
//   - headSize: dimension of the query/key/value projections
//   - blockSize: maximum sequence length the head will see
//   - rng: random source for projection init (reproducibility)
//   - backend: tensor backend
func NewHead[B tensor.Backend](embedDim, headSize, blockSize int, rng *rand.Rand, backend B) *Head[B] {
	return &Head[B]{
		embedDim:  embedDim,
		headSize:  headSize,
		blockSize: blockSize,
		key:       NewLinear(embedDim, headSize, rng, backend),
		query:     NewLinear(embedDim, headSize, rng, backend),
		value:     NewLinear(embedDim, headSize, rng, backend),
		future:    FutureMask(blockSize, backend),
		backend:   backend,
	}
}

// HeadSize returns the projection dimension.
func (h *Head[B]) HeadSize() int {
	return h.headSize
}

// Forward runs the head over a [batch, T, embedDim] input.
//
// Returns:
//   - out: attended values [batch, T, headSize]
//   - weights: attention weights [batch, T, T]; row t is a distribution
//     over positions 0..t and exactly zero beyond t.
func (h *Head[B]) Forward(x *tensor.Tensor[float32, B]) (*tensor.Tensor[float32, B], *tensor.Tensor[float32, B]) {
	shape := x.Shape()
	if len(shape) != 3 {
		panic(fmt.Sprintf("Head.Forward: expected 3D input [batch, time, channels], got shape %v", shape))
	}
	if shape[2] != h.embedDim {
		panic(fmt.Sprintf("Head.Forward: expected %d channels, got %d", h.embedDim, shape[2]))
	}
	seqLen := shape[1]
	if seqLen > h.blockSize {
		panic(fmt.Sprintf("Head.Forward: sequence length %d exceeds block size %d", seqLen, h.blockSize))
	}

	k := h.key.Forward(x)   // [B, T, head]
	q := h.query.Forward(x) // [B, T, head]
	v := h.value.Forward(x) // [B, T, head]

	// Affinity scores: q @ k.T, scaled to keep unit variance.
	scale := float32(1.0 / math.Sqrt(float64(h.headSize)))
	scores := q.BatchMatMul(k.Transpose(0, 2, 1)).MulScalar(scale) // [B, T, T]

	mask := h.future
	if seqLen != h.blockSize {
		mask = FutureMask(seqLen, h.backend)
	}

	masked := scores.MaskedFill(mask, float32(math.Inf(-1)))
	weights := masked.Softmax(-1)

	out := weights.BatchMatMul(v) // [B, T, head]
	return out, weights
}
