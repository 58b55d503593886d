package cpu

import (
	"fmt"
	"math"

	"github.com/onehead-ml/onehead/internal/parallel"
	"github.com/onehead-ml/onehead/internal/tensor"
)

// Softmax computes softmax along the specified dimension:
// Softmax(x_i) = exp(x_i - max) / sum_j exp(x_j - max).
// The max subtraction keeps exp() finite even when masked scores are -inf.
func (cpu *CPUBackend) Softmax(x *tensor.RawTensor, dim int) *tensor.RawTensor {
	shape := x.Shape()
	ndim := len(shape)

	if dim < 0 {
		dim = ndim + dim
	}
	if dim < 0 || dim >= ndim {
		panic(fmt.Sprintf("softmax: dimension %d out of range for tensor of rank %d", dim, ndim))
	}

	result, err := tensor.NewRaw(shape, x.DType(), cpu.device)
	if err != nil {
		panic(fmt.Sprintf("softmax: %v", err))
	}

	switch x.DType() {
	case tensor.Float32:
		softmaxRows(result.AsFloat32(), x.AsFloat32(), shape, dim, cpu.parallel)
	case tensor.Float64:
		softmaxRows(result.AsFloat64(), x.AsFloat64(), shape, dim, cpu.parallel)
	default:
		panic(fmt.Sprintf("softmax: unsupported dtype %s (only float32/float64 supported)", x.DType()))
	}

	return result
}

func softmaxRows[T float32 | float64](dst, src []T, shape tensor.Shape, dim int, cfg parallel.Config) {
	strides := shape.ComputeStrides()
	dimSize := shape[dim]
	dimStride := strides[dim]

	numRows := 1
	for i := range shape {
		if i != dim {
			numRows *= shape[i]
		}
	}

	parallel.For(numRows, func(row int) {
		// Base flat index of this row: decode the non-dim coordinates.
		baseIdx := 0
		remaining := row
		for i := len(shape) - 1; i >= 0; i-- {
			if i == dim {
				continue
			}
			coord := remaining % shape[i]
			remaining /= shape[i]
			baseIdx += coord * strides[i]
		}

		maxVal := T(math.Inf(-1))
		for i := 0; i < dimSize; i++ {
			if v := src[baseIdx+i*dimStride]; v > maxVal {
				maxVal = v
			}
		}

		var sum T
		for i := 0; i < dimSize; i++ {
			e := T(math.Exp(float64(src[baseIdx+i*dimStride] - maxVal)))
			dst[baseIdx+i*dimStride] = e
			sum += e
		}

		for i := 0; i < dimSize; i++ {
			dst[baseIdx+i*dimStride] /= sum
		}
	}, cfg)
}
