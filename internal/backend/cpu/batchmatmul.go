package cpu

import (
	"fmt"

	"github.com/onehead-ml/onehead/internal/parallel"
	"github.com/onehead-ml/onehead/internal/tensor"
)

// BatchMatMul performs batched matrix multiplication over the last two
// dimensions.
//
//	[B, M, K] @ [B, K, N] -> [B, M, N]
//	[B, H, M, K] @ [B, H, K, N] -> [B, H, M, N]
//
// A 2D operand is broadcast across the other operand's batch dimensions:
//
//	[M, K] @ [B, K, N] -> [B, M, N]
//	[B, M, K] @ [K, N] -> [B, M, N]
//
// The 2D broadcast is what lets a single [T, T] weight matrix aggregate a
// whole [B, T, C] batch, the way the averaging trick is written.
func (cpu *CPUBackend) BatchMatMul(a, b *tensor.RawTensor) *tensor.RawTensor {
	aShape := a.Shape()
	bShape := b.Shape()

	if len(aShape) < 2 || len(bShape) < 2 {
		panic(fmt.Sprintf("BatchMatMul: inputs must be at least 2D, got %dD and %dD", len(aShape), len(bShape)))
	}
	if len(aShape) == 2 && len(bShape) == 2 {
		return cpu.MatMul(a, b)
	}

	// Batch dims come from the higher-rank operand; a 2D operand repeats.
	var batchDims tensor.Shape
	switch {
	case len(aShape) == 2:
		batchDims = bShape[:len(bShape)-2]
	case len(bShape) == 2:
		batchDims = aShape[:len(aShape)-2]
	default:
		if len(aShape) != len(bShape) {
			panic(fmt.Sprintf("BatchMatMul: rank mismatch %dD vs %dD (only 2D operands broadcast)",
				len(aShape), len(bShape)))
		}
		for i := 0; i < len(aShape)-2; i++ {
			if aShape[i] != bShape[i] {
				panic(fmt.Sprintf("BatchMatMul: batch dimension mismatch at dim %d: %d vs %d", i, aShape[i], bShape[i]))
			}
		}
		batchDims = aShape[:len(aShape)-2]
	}

	m := aShape[len(aShape)-2]
	k1 := aShape[len(aShape)-1]
	k2 := bShape[len(bShape)-2]
	n := bShape[len(bShape)-1]
	if k1 != k2 {
		panic(fmt.Sprintf("BatchMatMul: inner dimension mismatch: %d vs %d", k1, k2))
	}

	batchSize := batchDims.NumElements()

	outShape := make(tensor.Shape, 0, len(batchDims)+2)
	outShape = append(outShape, batchDims...)
	outShape = append(outShape, m, n)

	result, err := tensor.NewRaw(outShape, a.DType(), cpu.device)
	if err != nil {
		panic(fmt.Sprintf("BatchMatMul: failed to create result tensor: %v", err))
	}

	// A 2D operand has stride 0 across batches.
	aStride := m * k1
	if len(aShape) == 2 {
		aStride = 0
	}
	bStride := k1 * n
	if len(bShape) == 2 {
		bStride = 0
	}

	switch a.DType() {
	case tensor.Float32:
		batchMatmul(result.AsFloat32(), a.AsFloat32(), b.AsFloat32(), batchSize, m, k1, n, aStride, bStride, cpu.parallel)
	case tensor.Float64:
		batchMatmul(result.AsFloat64(), a.AsFloat64(), b.AsFloat64(), batchSize, m, k1, n, aStride, bStride, cpu.parallel)
	default:
		panic(fmt.Sprintf("BatchMatMul: unsupported dtype %s", a.DType()))
	}

	return result
}

// batchMatmul runs one independent matrix row per worker iteration.
func batchMatmul[T float32 | float64](
	c, a, b []T,
	batchSize, m, k, n int,
	aStride, bStride int,
	cfg parallel.Config,
) {
	parallel.ForRows(batchSize, m, func(batch, i int) {
		aOff := batch*aStride + i*k
		bOff := batch * bStride
		cOff := batch*m*n + i*n

		for j := 0; j < n; j++ {
			var sum T
			for kIdx := 0; kIdx < k; kIdx++ {
				sum += a[aOff+kIdx] * b[bOff+kIdx*n+j]
			}
			c[cOff+j] = sum
		}
	}, cfg)
}
