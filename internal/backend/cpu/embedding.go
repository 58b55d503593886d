package cpu

import (
	"fmt"

	"github.com/onehead-ml/onehead/internal/tensor"
)

// Embedding looks up rows of weight [V, C] by int32 indices and returns a
// tensor of shape indices.Shape() + [C]. This is how the lesson turns token
// ids into the (B, T, C) batches the derivation operates on.
func (cpu *CPUBackend) Embedding(weight, indices *tensor.RawTensor) *tensor.RawTensor {
	wShape := weight.Shape()
	if len(wShape) != 2 {
		panic(fmt.Sprintf("embedding: weight must be 2D [vocab, channels], got %v", wShape))
	}
	if indices.DType() != tensor.Int32 {
		panic(fmt.Sprintf("embedding: indices dtype is %s, want int32", indices.DType()))
	}

	vocab, channels := wShape[0], wShape[1]
	idx := indices.AsInt32()

	outShape := append(indices.Shape().Clone(), channels)
	result, err := tensor.NewRaw(outShape, weight.DType(), cpu.device)
	if err != nil {
		panic(fmt.Sprintf("embedding: %v", err))
	}

	switch weight.DType() {
	case tensor.Float32:
		lookupRows(result.AsFloat32(), weight.AsFloat32(), idx, vocab, channels)
	case tensor.Float64:
		lookupRows(result.AsFloat64(), weight.AsFloat64(), idx, vocab, channels)
	default:
		panic(fmt.Sprintf("embedding: unsupported weight dtype %s", weight.DType()))
	}

	return result
}

func lookupRows[T float32 | float64](dst, weight []T, indices []int32, vocab, channels int) {
	for i, id := range indices {
		if id < 0 || int(id) >= vocab {
			panic(fmt.Sprintf("embedding: index %d out of range for vocab size %d", id, vocab))
		}
		copy(dst[i*channels:(i+1)*channels], weight[int(id)*channels:(int(id)+1)*channels])
	}
}
