package cpu

import (
	"fmt"

	"github.com/onehead-ml/onehead/internal/tensor"
)

// MaskedFill returns a copy of x where elements at positions where the bool
// mask is true are replaced by value. The mask's shape must equal the
// trailing dimensions of x; leading dimensions of x repeat the mask.
//
// This is the masking step of the derivation: fill the upper triangle of
// the score matrix with -inf so softmax sends future weights to zero.
func (cpu *CPUBackend) MaskedFill(x, mask *tensor.RawTensor, value any) *tensor.RawTensor {
	if mask.DType() != tensor.Bool {
		panic(fmt.Sprintf("maskedFill: mask dtype is %s, want bool", mask.DType()))
	}

	xShape := x.Shape()
	mShape := mask.Shape()
	if len(mShape) > len(xShape) {
		panic(fmt.Sprintf("maskedFill: mask rank %d exceeds input rank %d", len(mShape), len(xShape)))
	}
	offset := len(xShape) - len(mShape)
	for i, dim := range mShape {
		if xShape[offset+i] != dim {
			panic(fmt.Sprintf("maskedFill: mask shape %v does not match trailing dims of %v", mShape, xShape))
		}
	}

	result := x.Clone()
	maskData := mask.AsBool()
	maskLen := len(maskData)

	switch x.DType() {
	case tensor.Float32:
		fillMasked(result.AsFloat32(), maskData, maskLen, value.(float32))
	case tensor.Float64:
		fillMasked(result.AsFloat64(), maskData, maskLen, value.(float64))
	case tensor.Int32:
		fillMasked(result.AsInt32(), maskData, maskLen, value.(int32))
	default:
		panic(fmt.Sprintf("maskedFill: unsupported dtype %s", x.DType()))
	}

	return result
}

// fillMasked tiles the mask over the data; trailing-dim alignment makes the
// repeat a plain modulo.
func fillMasked[T float32 | float64 | int32](data []T, mask []bool, maskLen int, value T) {
	for i := range data {
		if mask[i%maskLen] {
			data[i] = value
		}
	}
}
