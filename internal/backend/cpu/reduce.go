package cpu

import (
	"fmt"

	"github.com/onehead-ml/onehead/internal/tensor"
)

// Sum computes the total sum of all elements, returning a single-element tensor.
func (cpu *CPUBackend) Sum(x *tensor.RawTensor) *tensor.RawTensor {
	result, err := tensor.NewRaw(tensor.Shape{1}, x.DType(), cpu.device)
	if err != nil {
		panic(fmt.Sprintf("sum: %v", err))
	}

	switch x.DType() {
	case tensor.Float32:
		var sum float32
		for _, v := range x.AsFloat32() {
			sum += v
		}
		result.AsFloat32()[0] = sum
	case tensor.Float64:
		var sum float64
		for _, v := range x.AsFloat64() {
			sum += v
		}
		result.AsFloat64()[0] = sum
	case tensor.Int32:
		var sum int32
		for _, v := range x.AsInt32() {
			sum += v
		}
		result.AsInt32()[0] = sum
	default:
		panic(fmt.Sprintf("sum: unsupported dtype %s", x.DType()))
	}

	return result
}

// SumDim sums tensor elements along the specified dimension.
func (cpu *CPUBackend) SumDim(x *tensor.RawTensor, dim int, keepDim bool) *tensor.RawTensor {
	return cpu.reduceDim("sumDim", x, dim, keepDim, func(sum float64, _ int) float64 {
		return sum
	})
}

// MeanDim computes the mean of tensor elements along the specified dimension.
func (cpu *CPUBackend) MeanDim(x *tensor.RawTensor, dim int, keepDim bool) *tensor.RawTensor {
	return cpu.reduceDim("meanDim", x, dim, keepDim, func(sum float64, n int) float64 {
		return sum / float64(n)
	})
}

// VarDim computes the population variance of tensor elements along the
// specified dimension. Used by the walkthrough to show how unscaled q·k
// variance grows with head size.
func (cpu *CPUBackend) VarDim(x *tensor.RawTensor, dim int, keepDim bool) *tensor.RawTensor {
	shape := x.Shape()
	ndim := len(shape)
	dim = normalizeDim("varDim", dim, ndim)

	mean := cpu.MeanDim(x, dim, true)
	// E[(x - mean)²] along dim.
	centered := cpu.Sub(x, mean)
	squared := cpu.Mul(centered, centered)
	return cpu.MeanDim(squared, dim, keepDim)
}

// reduceDim walks every slice along dim, accumulates a float64 sum, and
// lets finish turn the sum into the reduced value.
func (cpu *CPUBackend) reduceDim(
	op string,
	x *tensor.RawTensor,
	dim int,
	keepDim bool,
	finish func(sum float64, n int) float64,
) *tensor.RawTensor {
	shape := x.Shape()
	ndim := len(shape)
	dim = normalizeDim(op, dim, ndim)

	outShape := reducedShape(shape, dim, keepDim)
	result, err := tensor.NewRaw(outShape, x.DType(), cpu.device)
	if err != nil {
		panic(fmt.Sprintf("%s: %v", op, err))
	}

	switch x.DType() {
	case tensor.Float32:
		reduceRows(result.AsFloat32(), x.AsFloat32(), shape, dim, finish)
	case tensor.Float64:
		reduceRows(result.AsFloat64(), x.AsFloat64(), shape, dim, finish)
	default:
		panic(fmt.Sprintf("%s: unsupported dtype %s", op, x.DType()))
	}

	return result
}

func reduceRows[T float32 | float64](dst, src []T, shape tensor.Shape, dim int, finish func(float64, int) float64) {
	strides := shape.ComputeStrides()
	dimSize := shape[dim]
	dimStride := strides[dim]

	numRows := len(dst)
	for row := 0; row < numRows; row++ {
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

		sum := 0.0
		for i := 0; i < dimSize; i++ {
			sum += float64(src[baseIdx+i*dimStride])
		}
		dst[row] = T(finish(sum, dimSize))
	}
}

func normalizeDim(op string, dim, ndim int) int {
	if dim < 0 {
		dim = ndim + dim
	}
	if dim < 0 || dim >= ndim {
		panic(fmt.Sprintf("%s: dimension %d out of range for tensor of rank %d", op, dim, ndim))
	}
	return dim
}

func reducedShape(shape tensor.Shape, dim int, keepDim bool) tensor.Shape {
	out := make(tensor.Shape, 0, len(shape))
	for i, d := range shape {
		switch {
		case i != dim:
			out = append(out, d)
		case keepDim:
			out = append(out, 1)
		}
	}
	if len(out) == 0 {
		out = tensor.Shape{1}
	}
	return out
}
