package nn

import (
	"math"

	"github.com/onehead-ml/onehead/internal/tensor"
)

// UniformWeights is version 2 of the derivation: the causal averaging
// operator as a T×T matrix. Row t of a lower-triangular ones matrix is
// divided by its sum, so multiplying against a [B, T, C] batch computes
// exactly the loop average of AverageLoops.
//
// Example for T=3:
//
//	[[1,    0,   0  ],
//	 [0.5,  0.5, 0  ],
//	 [0.33, 0.33, 0.33]]
func UniformWeights[B tensor.Backend](seqLen int, backend B) *tensor.Tensor[float32, B] {
	tril := tensor.Tril[float32](seqLen, backend)
	rowSums := tril.SumDim(1, true)
	return tril.Div(rowSums)
}

// SoftmaxWeights is version 3 of the derivation: the same weight matrix as
// UniformWeights, but produced the way attention produces it. Start from
// all-zero scores, fill future positions with -inf, and row-softmax.
// Equal scores among the allowed positions give equal weights, so the
// result is numerically identical to version 2.
//
// The payoff is the form: once weights come from a softmax over scores,
// the scores are free to become data-dependent.
func SoftmaxWeights[B tensor.Backend](seqLen int, backend B) *tensor.Tensor[float32, B] {
	scores := tensor.Zeros[float32](tensor.Shape{seqLen, seqLen}, backend)
	masked := scores.MaskedFill(FutureMask(seqLen, backend), float32(math.Inf(-1)))
	return masked.Softmax(-1)
}

// FutureMask returns a T×T bool tensor that is true strictly above the main
// diagonal: exactly the (query, key) pairs where the key lies in the
// query's future.
func FutureMask[B tensor.Backend](seqLen int, backend B) *tensor.Tensor[bool, B] {
	mask := tensor.Zeros[bool](tensor.Shape{seqLen, seqLen}, backend)
	for i := 0; i < seqLen; i++ {
		for j := i + 1; j < seqLen; j++ {
			mask.Set(true, i, j)
		}
	}
	return mask
}

// CausalMask returns the additive form of the causal mask: a T×T float
// tensor with 0 on and below the diagonal and -inf above it. Adding it to
// scores before softmax is equivalent to MaskedFill with FutureMask.
//
// Example for T=4:
//
//	[[0,   -inf, -inf, -inf],
//	 [0,   0,    -inf, -inf],
//	 [0,   0,    0,    -inf],
//	 [0,   0,    0,    0   ]]
func CausalMask[B tensor.Backend](seqLen int, backend B) *tensor.Tensor[float32, B] {
	mask := tensor.Zeros[float32](tensor.Shape{seqLen, seqLen}, backend)
	negInf := float32(math.Inf(-1))
	for i := 0; i < seqLen; i++ {
		for j := i + 1; j < seqLen; j++ {
			mask.Set(negInf, i, j)
		}
	}
	return mask
}
