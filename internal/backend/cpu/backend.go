// Package cpu implements the pure-Go CPU backend for the onehead tensor core.
package cpu

import (
	"fmt"

	"github.com/onehead-ml/onehead/internal/parallel"
	"github.com/onehead-ml/onehead/internal/tensor"
)

// CPUBackend implements tensor operations on CPU.
// Batched kernels parallelize over independent rows via internal/parallel.
type CPUBackend struct {
	device   tensor.Device
	parallel parallel.Config
}

// New creates a new CPU backend.
func New() *CPUBackend {
	return &CPUBackend{
		device:   tensor.CPU,
		parallel: parallel.DefaultConfig(),
	}
}

// Name returns the backend name.
func (cpu *CPUBackend) Name() string {
	return "CPU"
}

// Device returns the compute device.
func (cpu *CPUBackend) Device() tensor.Device {
	return cpu.device
}

// Add performs element-wise addition with NumPy-style broadcasting.
func (cpu *CPUBackend) Add(a, b *tensor.RawTensor) *tensor.RawTensor {
	return cpu.binaryOp("add", a, b, addKernel)
}

// Sub performs element-wise subtraction with broadcasting.
func (cpu *CPUBackend) Sub(a, b *tensor.RawTensor) *tensor.RawTensor {
	return cpu.binaryOp("sub", a, b, subKernel)
}

// Mul performs element-wise multiplication with broadcasting.
func (cpu *CPUBackend) Mul(a, b *tensor.RawTensor) *tensor.RawTensor {
	return cpu.binaryOp("mul", a, b, mulKernel)
}

// Div performs element-wise division with broadcasting.
func (cpu *CPUBackend) Div(a, b *tensor.RawTensor) *tensor.RawTensor {
	return cpu.binaryOp("div", a, b, divKernel)
}

// Reshape returns a tensor with the same data but a different shape.
// The underlying buffer is shared (zero-copy view).
func (cpu *CPUBackend) Reshape(t *tensor.RawTensor, newShape tensor.Shape) *tensor.RawTensor {
	if err := newShape.Validate(); err != nil {
		panic(fmt.Sprintf("reshape: invalid shape: %v", err))
	}
	if t.NumElements() != newShape.NumElements() {
		panic(fmt.Sprintf("reshape: incompatible shapes: %v -> %v (different number of elements)",
			t.Shape(), newShape))
	}
	return t.WithShape(newShape)
}

// Transpose transposes the tensor by permuting its dimensions.
func (cpu *CPUBackend) Transpose(t *tensor.RawTensor, axes ...int) *tensor.RawTensor {
	shape := t.Shape()
	ndim := len(shape)

	// Default: reverse all dimensions.
	if len(axes) == 0 {
		axes = make([]int, ndim)
		for i := range axes {
			axes[i] = ndim - 1 - i
		}
	}

	if len(axes) != ndim {
		panic(fmt.Sprintf("transpose: axes length %d != ndim %d", len(axes), ndim))
	}
	seen := make([]bool, ndim)
	for _, ax := range axes {
		if ax < 0 || ax >= ndim {
			panic(fmt.Sprintf("transpose: invalid axis %d for %dD tensor", ax, ndim))
		}
		if seen[ax] {
			panic(fmt.Sprintf("transpose: duplicate axis %d", ax))
		}
		seen[ax] = true
	}

	newShape := make(tensor.Shape, ndim)
	for i, ax := range axes {
		newShape[i] = shape[ax]
	}

	result, err := tensor.NewRaw(newShape, t.DType(), t.Device())
	if err != nil {
		panic(fmt.Sprintf("transpose: %v", err))
	}

	transposeData(result, t, axes)
	return result
}

// transposeData copies src into dst with the given axis permutation.
func transposeData(dst, src *tensor.RawTensor, axes []int) {
	srcShape := src.Shape()
	srcStrides := srcShape.ComputeStrides()
	dstShape := dst.Shape()
	n := src.NumElements()

	// Stride in the source for each destination dimension.
	permStrides := make([]int, len(axes))
	for i, ax := range axes {
		permStrides[i] = srcStrides[ax]
	}

	copyIndexed := func(copyElem func(dstIdx, srcIdx int)) {
		coords := make([]int, len(dstShape))
		for dstIdx := 0; dstIdx < n; dstIdx++ {
			srcIdx := 0
			for d, c := range coords {
				srcIdx += c * permStrides[d]
			}
			copyElem(dstIdx, srcIdx)

			for d := len(coords) - 1; d >= 0; d-- {
				coords[d]++
				if coords[d] < dstShape[d] {
					break
				}
				coords[d] = 0
			}
		}
	}

	switch src.DType() {
	case tensor.Float32:
		s, d := src.AsFloat32(), dst.AsFloat32()
		copyIndexed(func(di, si int) { d[di] = s[si] })
	case tensor.Float64:
		s, d := src.AsFloat64(), dst.AsFloat64()
		copyIndexed(func(di, si int) { d[di] = s[si] })
	case tensor.Int32:
		s, d := src.AsInt32(), dst.AsInt32()
		copyIndexed(func(di, si int) { d[di] = s[si] })
	case tensor.Bool:
		s, d := src.AsBool(), dst.AsBool()
		copyIndexed(func(di, si int) { d[di] = s[si] })
	default:
		panic(fmt.Sprintf("transpose: unsupported dtype %s", src.DType()))
	}
}
