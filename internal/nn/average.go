// Package nn implements the building blocks of the attention derivation:
// causal averaging in its loop, matrix and softmax forms, bias-free linear
// projections, token embeddings and the single self-attention head they
// combine into.
package nn

// AverageLoops is version 1 of the derivation: for every batch element and
// every position t, the output channels are the plain average of the input
// channels at positions 0..t. Nothing later than t contributes.
//
// It operates on a flattened [batch * seqLen * channels] slice so every
// index computation is visible; the matrix forms in weights.go must
// reproduce these numbers exactly.
//
// Parameters:
//   - x: input tensor [batch * seqLen * channels] (flattened, row-major)
//   - batch, seqLen, channels: dimensions of x
//
// Returns a flattened [batch * seqLen * channels] slice.
func AverageLoops(x []float32, batch, seqLen, channels int) []float32 {
	out := make([]float32, batch*seqLen*channels)

	for b := 0; b < batch; b++ {
		for t := 0; t < seqLen; t++ {
			// Average channels over positions 0..t (inclusive).
			for c := 0; c < channels; c++ {
				sum := float32(0)
				for prev := 0; prev <= t; prev++ {
					sum += x[b*seqLen*channels+prev*channels+c]
				}
				out[b*seqLen*channels+t*channels+c] = sum / float32(t+1)
			}
		}
	}

	return out
}
