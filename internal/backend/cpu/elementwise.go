package cpu

import (
	"fmt"

	"github.com/onehead-ml/onehead/internal/tensor"
)

// Element-wise binary kernels. Same-shape inputs take the vectorized fast
// path; mismatched shapes go through the stride-walking broadcast path.

type binaryKernel func(op string, dst, a, b *tensor.RawTensor, outShape tensor.Shape, broadcast bool)

func (cpu *CPUBackend) binaryOp(op string, a, b *tensor.RawTensor, kernel binaryKernel) *tensor.RawTensor {
	outShape, needsBroadcast, err := tensor.BroadcastShapes(a.Shape(), b.Shape())
	if err != nil {
		panic(fmt.Sprintf("%s: %v", op, err))
	}

	result, err := tensor.NewRaw(outShape, a.DType(), cpu.device)
	if err != nil {
		panic(fmt.Sprintf("%s: failed to create result tensor: %v", op, err))
	}

	kernel(op, result, a, b, outShape, needsBroadcast)
	return result
}

func addKernel(op string, dst, a, b *tensor.RawTensor, outShape tensor.Shape, broadcast bool) {
	dispatchBinary(op, dst, a, b, outShape, broadcast,
		func(x, y float32) float32 { return x + y },
		func(x, y float64) float64 { return x + y },
		func(x, y int32) int32 { return x + y })
}

func subKernel(op string, dst, a, b *tensor.RawTensor, outShape tensor.Shape, broadcast bool) {
	dispatchBinary(op, dst, a, b, outShape, broadcast,
		func(x, y float32) float32 { return x - y },
		func(x, y float64) float64 { return x - y },
		func(x, y int32) int32 { return x - y })
}

func mulKernel(op string, dst, a, b *tensor.RawTensor, outShape tensor.Shape, broadcast bool) {
	dispatchBinary(op, dst, a, b, outShape, broadcast,
		func(x, y float32) float32 { return x * y },
		func(x, y float64) float64 { return x * y },
		func(x, y int32) int32 { return x * y })
}

func divKernel(op string, dst, a, b *tensor.RawTensor, outShape tensor.Shape, broadcast bool) {
	dispatchBinary(op, dst, a, b, outShape, broadcast,
		func(x, y float32) float32 { return x / y },
		func(x, y float64) float64 { return x / y },
		func(x, y int32) int32 { return x / y })
}

func dispatchBinary(
	op string,
	dst, a, b *tensor.RawTensor,
	outShape tensor.Shape,
	broadcast bool,
	f32 func(float32, float32) float32,
	f64 func(float64, float64) float64,
	i32 func(int32, int32) int32,
) {
	switch a.DType() {
	case tensor.Float32:
		applyBinary(dst.AsFloat32(), a.AsFloat32(), b.AsFloat32(), a.Shape(), b.Shape(), outShape, broadcast, f32)
	case tensor.Float64:
		applyBinary(dst.AsFloat64(), a.AsFloat64(), b.AsFloat64(), a.Shape(), b.Shape(), outShape, broadcast, f64)
	case tensor.Int32:
		applyBinary(dst.AsInt32(), a.AsInt32(), b.AsInt32(), a.Shape(), b.Shape(), outShape, broadcast, i32)
	default:
		panic(fmt.Sprintf("%s: unsupported dtype %s", op, a.DType()))
	}
}

func applyBinary[T float32 | float64 | int32](
	dst, a, b []T,
	aShape, bShape, outShape tensor.Shape,
	broadcast bool,
	f func(T, T) T,
) {
	if !broadcast {
		// Vectorized fast path: identical layouts.
		for i := range dst {
			dst[i] = f(a[i], b[i])
		}
		return
	}

	aIdx := newBroadcastWalker(outShape, aShape)
	bIdx := newBroadcastWalker(outShape, bShape)
	for i := range dst {
		dst[i] = f(a[aIdx.index(i)], b[bIdx.index(i)])
	}
}

// broadcastWalker maps flat output indices to flat source indices for a
// source shape broadcast up to the output shape.
type broadcastWalker struct {
	outShape   tensor.Shape
	outStrides []int
	srcStrides []int // Aligned to outShape; 0 stride for broadcast dims.
}

func newBroadcastWalker(outShape, srcShape tensor.Shape) *broadcastWalker {
	outStrides := outShape.ComputeStrides()
	srcStrides := srcShape.ComputeStrides()
	aligned := make([]int, len(outShape))
	offset := len(outShape) - len(srcShape)

	for d := range outShape {
		srcDim := d - offset
		if srcDim < 0 || srcShape[srcDim] == 1 {
			aligned[d] = 0
		} else {
			aligned[d] = srcStrides[srcDim]
		}
	}

	return &broadcastWalker{
		outShape:   outShape,
		outStrides: outStrides,
		srcStrides: aligned,
	}
}

func (w *broadcastWalker) index(flatIdx int) int {
	srcIdx := 0
	for d := range w.outShape {
		coord := (flatIdx / w.outStrides[d]) % w.outShape[d]
		srcIdx += coord * w.srcStrides[d]
	}
	return srcIdx
}
