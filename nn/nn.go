// Copyright 2026 OneHead Project. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package nn provides the public API for the attention building blocks:
// the causal weight matrices, the bias-free linear projection, the token
// embedding table, and the single attention head they combine into.
//
// Example:
//
//	backend := cpu.New()
//	rng := rand.New(rand.NewSource(1337))
//	head := nn.NewHead(32, 16, 8, rng, backend)
//	out, weights := head.Forward(x) // x is [batch, seq, 32]
package nn

import (
	"math/rand"

	"github.com/onehead-ml/onehead/internal/nn"
	"github.com/onehead-ml/onehead/tensor"
)

// AverageLoops computes causal prefix averages with plain nested loops.
// It is the slowest and clearest form of the communication pattern the
// rest of the package reproduces with tensor operations.
func AverageLoops(x []float32, batch, seqLen, channels int) []float32 {
	return nn.AverageLoops(x, batch, seqLen, channels)
}

// UniformWeights returns the [seqLen, seqLen] causal averaging matrix:
// a lower triangular matrix with each row normalized to sum to 1.
func UniformWeights[B tensor.Backend](seqLen int, backend B) *tensor.Tensor[float32, B] {
	return nn.UniformWeights(seqLen, backend)
}

// SoftmaxWeights builds the same matrix as UniformWeights by masking
// zero scores with -inf and taking a row softmax.
func SoftmaxWeights[B tensor.Backend](seqLen int, backend B) *tensor.Tensor[float32, B] {
	return nn.SoftmaxWeights(seqLen, backend)
}

// FutureMask returns a boolean [seqLen, seqLen] matrix that is true
// strictly above the diagonal, marking the positions to silence.
func FutureMask[B tensor.Backend](seqLen int, backend B) *tensor.Tensor[bool, B] {
	return nn.FutureMask(seqLen, backend)
}

// CausalMask returns the additive form of the causal mask: zeros on and
// below the diagonal, -inf above.
func CausalMask[B tensor.Backend](seqLen int, backend B) *tensor.Tensor[float32, B] {
	return nn.CausalMask(seqLen, backend)
}

// Linear is a bias-free linear projection.
type Linear[B tensor.Backend] = nn.Linear[B]

// NewLinear creates a linear projection with weights drawn from rng.
func NewLinear[B tensor.Backend](inFeatures, outFeatures int, rng *rand.Rand, backend B) *Linear[B] {
	return nn.NewLinear(inFeatures, outFeatures, rng, backend)
}

// Embedding is a learned lookup table from token ids to vectors.
type Embedding[B tensor.Backend] = nn.Embedding[B]

// NewEmbedding creates an embedding table with rows drawn from rng.
func NewEmbedding[B tensor.Backend](numEmbeddings, embedDim int, rng *rand.Rand, backend B) *Embedding[B] {
	return nn.NewEmbedding(numEmbeddings, embedDim, rng, backend)
}

// Head is a single head of causal self-attention.
type Head[B tensor.Backend] = nn.Head[B]

// NewHead creates a head with query, key and value projections from
// embedDim to headSize, accepting sequences up to blockSize positions.
func NewHead[B tensor.Backend](embedDim, headSize, blockSize int, rng *rand.Rand, backend B) *Head[B] {
	return nn.NewHead(embedDim, headSize, blockSize, rng, backend)
}

// ScaledDotProductAttention is the general attention form the head is a
// special case of. A zero scale means 1/sqrt(head dimension); a nil mask
// means full bidirectional attention.
func ScaledDotProductAttention[B tensor.Backend](
	query, key, value, mask *tensor.Tensor[float32, B], scale float32,
) (*tensor.Tensor[float32, B], *tensor.Tensor[float32, B]) {
	return nn.ScaledDotProductAttention(query, key, value, mask, scale)
}
