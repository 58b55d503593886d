package nn

import (
	"fmt"
	"math"

	"github.com/onehead-ml/onehead/internal/tensor"
)

// ScaledDotProductAttention is the general mechanism the head reduces to:
//
//	Attention(Q, K, V) = softmax(QK^T * scale + mask) @ V
//
// Parameters:
//   - query: [batch, seq_q, head_dim]
//   - key: [batch, seq_k, head_dim]
//   - value: [batch, seq_k, head_dim]
//   - mask: optional additive mask, nil or [seq_q, seq_k] (-inf for masked
//     positions; broadcasts over the batch)
//   - scale: scaling factor, 0 for auto-compute as 1/sqrt(head_dim)
//
// Returns:
//   - output: attended values [batch, seq_q, head_dim]
//   - weights: attention weights [batch, seq_q, seq_k]
func ScaledDotProductAttention[B tensor.Backend](
	query, key, value *tensor.Tensor[float32, B],
	mask *tensor.Tensor[float32, B],
	scale float32,
) (*tensor.Tensor[float32, B], *tensor.Tensor[float32, B]) {
	validateAttentionInputs(query, key, value)

	headDim := query.Shape()[2]
	if scale == 0 {
		scale = float32(1.0 / math.Sqrt(float64(headDim)))
	}

	// 1. Affinity scores: Q @ K^T.
	kT := key.Transpose(0, 2, 1)
	scores := query.BatchMatMul(kT)

	// 2. Scale before masking so -inf stays -inf.
	scores = scores.MulScalar(scale)

	// 3. Additive mask.
	if mask != nil {
		scores = scores.Add(mask)
	}

	// 4. Softmax over keys.
	weights := scores.Softmax(-1)

	// 5. Weighted aggregation of values.
	output := weights.BatchMatMul(value)

	return output, weights
}

func validateAttentionInputs[B tensor.Backend](
	query, key, value *tensor.Tensor[float32, B],
) {
	if len(query.Shape()) != 3 {
		panic("ScaledDotProductAttention: query must be 3D [batch, seq_q, head_dim]")
	}
	if len(key.Shape()) != 3 {
		panic("ScaledDotProductAttention: key must be 3D [batch, seq_k, head_dim]")
	}
	if len(value.Shape()) != 3 {
		panic("ScaledDotProductAttention: value must be 3D [batch, seq_k, head_dim]")
	}

	if query.Shape()[2] != key.Shape()[2] {
		panic(fmt.Sprintf("ScaledDotProductAttention: query and key head_dim mismatch: %d vs %d",
			query.Shape()[2], key.Shape()[2]))
	}
	if key.Shape()[1] != value.Shape()[1] {
		panic(fmt.Sprintf("ScaledDotProductAttention: key and value seq length mismatch: %d vs %d",
			key.Shape()[1], value.Shape()[1]))
	}
}
