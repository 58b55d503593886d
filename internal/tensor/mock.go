package tensor

import (
	"fmt"
	"math"
)

// Verify that MockBackend implements Backend.
var _ Backend = (*MockBackend)(nil)

// MockBackend is a simple backend for testing the tensor package without
// importing a real backend (which would create an import cycle).
// Every operation is implemented naively via float64 for correctness only.
type MockBackend struct{}

// NewMockBackend creates a new MockBackend.
func NewMockBackend() *MockBackend {
	return &MockBackend{}
}

// Name returns the backend name.
func (m *MockBackend) Name() string {
	return "mock"
}

// Device returns the device type.
func (m *MockBackend) Device() Device {
	return CPU
}

// Add performs element-wise addition with broadcasting.
func (m *MockBackend) Add(a, b *RawTensor) *RawTensor {
	return m.elementWise(a, b, func(x, y float64) float64 { return x + y })
}

// Sub performs element-wise subtraction with broadcasting.
func (m *MockBackend) Sub(a, b *RawTensor) *RawTensor {
	return m.elementWise(a, b, func(x, y float64) float64 { return x - y })
}

// Mul performs element-wise multiplication with broadcasting.
func (m *MockBackend) Mul(a, b *RawTensor) *RawTensor {
	return m.elementWise(a, b, func(x, y float64) float64 { return x * y })
}

// Div performs element-wise division with broadcasting.
func (m *MockBackend) Div(a, b *RawTensor) *RawTensor {
	return m.elementWise(a, b, func(x, y float64) float64 { return x / y })
}

func (m *MockBackend) elementWise(a, b *RawTensor, op func(float64, float64) float64) *RawTensor {
	outShape, _, err := BroadcastShapes(a.Shape(), b.Shape())
	if err != nil {
		panic(err)
	}

	result, err := NewRaw(outShape, a.DType(), m.Device())
	if err != nil {
		panic(err)
	}

	aData := m.toFloat64(a)
	bData := m.toFloat64(b)
	out := make([]float64, outShape.NumElements())

	for i := range out {
		out[i] = op(aData[m.broadcastIndex(i, outShape, a.Shape())],
			bData[m.broadcastIndex(i, outShape, b.Shape())])
	}

	m.fromFloat64(out, result)
	return result
}

// broadcastIndex maps a flat index in the output shape to a flat index in
// the (possibly smaller) source shape.
func (m *MockBackend) broadcastIndex(flatIdx int, outShape, srcShape Shape) int {
	outStrides := outShape.ComputeStrides()
	srcStrides := srcShape.ComputeStrides()
	offset := len(outShape) - len(srcShape)

	srcIdx := 0
	for dim := 0; dim < len(outShape); dim++ {
		coord := (flatIdx / outStrides[dim]) % outShape[dim]
		srcDim := dim - offset
		if srcDim < 0 {
			continue
		}
		if srcShape[srcDim] == 1 {
			coord = 0
		}
		srcIdx += coord * srcStrides[srcDim]
	}
	return srcIdx
}

// MatMul performs naive 2D matrix multiplication.
func (m *MockBackend) MatMul(a, b *RawTensor) *RawTensor {
	aShape, bShape := a.Shape(), b.Shape()
	if len(aShape) != 2 || len(bShape) != 2 || aShape[1] != bShape[0] {
		panic(fmt.Sprintf("mock matmul: incompatible shapes %v @ %v", aShape, bShape))
	}
	mm, k, n := aShape[0], aShape[1], bShape[1]

	result, err := NewRaw(Shape{mm, n}, a.DType(), m.Device())
	if err != nil {
		panic(err)
	}

	aData, bData := m.toFloat64(a), m.toFloat64(b)
	out := make([]float64, mm*n)
	for i := 0; i < mm; i++ {
		for j := 0; j < n; j++ {
			sum := 0.0
			for kk := 0; kk < k; kk++ {
				sum += aData[i*k+kk] * bData[kk*n+j]
			}
			out[i*n+j] = sum
		}
	}

	m.fromFloat64(out, result)
	return result
}

// BatchMatMul is unimplemented in the mock.
func (m *MockBackend) BatchMatMul(_, _ *RawTensor) *RawTensor {
	panic("BatchMatMul not implemented in MockBackend")
}

// Reshape copies the data into a tensor with the new shape.
func (m *MockBackend) Reshape(t *RawTensor, newShape Shape) *RawTensor {
	if t.NumElements() != newShape.NumElements() {
		panic(fmt.Sprintf("mock reshape: incompatible shapes %v -> %v", t.Shape(), newShape))
	}
	return t.Clone().WithShape(newShape)
}

// Transpose is unimplemented in the mock.
func (m *MockBackend) Transpose(_ *RawTensor, _ ...int) *RawTensor {
	panic("Transpose not implemented in MockBackend")
}

// MulScalar multiplies each element by a scalar.
func (m *MockBackend) MulScalar(x *RawTensor, scalar any) *RawTensor {
	s := toFloat64Scalar(scalar)
	return m.unary(x, func(v float64) float64 { return v * s })
}

// AddScalar adds a scalar to each element.
func (m *MockBackend) AddScalar(x *RawTensor, scalar any) *RawTensor {
	s := toFloat64Scalar(scalar)
	return m.unary(x, func(v float64) float64 { return v + s })
}

// SubScalar subtracts a scalar from each element.
func (m *MockBackend) SubScalar(x *RawTensor, scalar any) *RawTensor {
	s := toFloat64Scalar(scalar)
	return m.unary(x, func(v float64) float64 { return v - s })
}

// DivScalar divides each element by a scalar.
func (m *MockBackend) DivScalar(x *RawTensor, scalar any) *RawTensor {
	s := toFloat64Scalar(scalar)
	return m.unary(x, func(v float64) float64 { return v / s })
}

// Exp computes e^x element-wise.
func (m *MockBackend) Exp(x *RawTensor) *RawTensor {
	return m.unary(x, math.Exp)
}

// Sqrt computes sqrt(x) element-wise.
func (m *MockBackend) Sqrt(x *RawTensor) *RawTensor {
	return m.unary(x, math.Sqrt)
}

func (m *MockBackend) unary(x *RawTensor, op func(float64) float64) *RawTensor {
	result, err := NewRaw(x.Shape(), x.DType(), m.Device())
	if err != nil {
		panic(err)
	}
	data := m.toFloat64(x)
	out := make([]float64, len(data))
	for i, v := range data {
		out[i] = op(v)
	}
	m.fromFloat64(out, result)
	return result
}

// Softmax is unimplemented in the mock.
func (m *MockBackend) Softmax(_ *RawTensor, _ int) *RawTensor {
	panic("Softmax not implemented in MockBackend")
}

// MaskedFill is unimplemented in the mock.
func (m *MockBackend) MaskedFill(_, _ *RawTensor, _ any) *RawTensor {
	panic("MaskedFill not implemented in MockBackend")
}

// Sum computes the total sum, returning a single-element tensor.
func (m *MockBackend) Sum(x *RawTensor) *RawTensor {
	result, err := NewRaw(Shape{1}, x.DType(), m.Device())
	if err != nil {
		panic(err)
	}
	sum := 0.0
	for _, v := range m.toFloat64(x) {
		sum += v
	}
	m.fromFloat64([]float64{sum}, result)
	return result
}

// SumDim is unimplemented in the mock.
func (m *MockBackend) SumDim(_ *RawTensor, _ int, _ bool) *RawTensor {
	panic("SumDim not implemented in MockBackend")
}

// MeanDim is unimplemented in the mock.
func (m *MockBackend) MeanDim(_ *RawTensor, _ int, _ bool) *RawTensor {
	panic("MeanDim not implemented in MockBackend")
}

// VarDim is unimplemented in the mock.
func (m *MockBackend) VarDim(_ *RawTensor, _ int, _ bool) *RawTensor {
	panic("VarDim not implemented in MockBackend")
}

// Embedding is unimplemented in the mock.
func (m *MockBackend) Embedding(_, _ *RawTensor) *RawTensor {
	panic("Embedding not implemented in MockBackend")
}

func (m *MockBackend) toFloat64(t *RawTensor) []float64 {
	switch t.DType() {
	case Float32:
		src := t.AsFloat32()
		out := make([]float64, len(src))
		for i, v := range src {
			out[i] = float64(v)
		}
		return out
	case Float64:
		return append([]float64(nil), t.AsFloat64()...)
	default:
		panic(fmt.Sprintf("mock backend supports float types only, got %s", t.DType()))
	}
}

func (m *MockBackend) fromFloat64(data []float64, t *RawTensor) {
	switch t.DType() {
	case Float32:
		dst := t.AsFloat32()
		for i, v := range data {
			dst[i] = float32(v)
		}
	case Float64:
		copy(t.AsFloat64(), data)
	default:
		panic(fmt.Sprintf("mock backend supports float types only, got %s", t.DType()))
	}
}

func toFloat64Scalar(scalar any) float64 {
	switch v := scalar.(type) {
	case float32:
		return float64(v)
	case float64:
		return v
	case int32:
		return float64(v)
	default:
		panic(fmt.Sprintf("unsupported scalar type %T", scalar))
	}
}
