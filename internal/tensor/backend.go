package tensor

// Backend defines the interface that compute backends must implement.
// Backends handle the actual computation for tensor operations; the typed
// Tensor[T, B] methods are thin wrappers around these.
type Backend interface {
	// Element-wise binary operations with NumPy-style broadcasting.
	Add(a, b *RawTensor) *RawTensor
	Sub(a, b *RawTensor) *RawTensor
	Mul(a, b *RawTensor) *RawTensor
	Div(a, b *RawTensor) *RawTensor

	// Matrix operations.
	MatMul(a, b *RawTensor) *RawTensor

	// BatchMatMul performs batched matrix multiplication.
	// For 3D: [B, M, K] @ [B, K, N] -> [B, M, N].
	// A 2D operand is broadcast across the other operand's batch dims,
	// so [T, T] @ [B, T, C] -> [B, T, C] works the way the averaging
	// trick needs it to.
	BatchMatMul(a, b *RawTensor) *RawTensor

	// Shape operations.
	Reshape(t *RawTensor, newShape Shape) *RawTensor
	Transpose(t *RawTensor, axes ...int) *RawTensor

	// Scalar operations (element-wise with scalar).
	MulScalar(x *RawTensor, scalar any) *RawTensor
	AddScalar(x *RawTensor, scalar any) *RawTensor
	SubScalar(x *RawTensor, scalar any) *RawTensor
	DivScalar(x *RawTensor, scalar any) *RawTensor

	// Math operations (element-wise).
	Exp(x *RawTensor) *RawTensor
	Sqrt(x *RawTensor) *RawTensor

	// Softmax along a dimension, with max subtraction for stability.
	Softmax(x *RawTensor, dim int) *RawTensor

	// MaskedFill returns a copy of x where elements at positions where the
	// bool mask is true are replaced by value. The mask's shape must match
	// the trailing dimensions of x; leading dimensions of x broadcast.
	MaskedFill(x, mask *RawTensor, value any) *RawTensor

	// Reduction operations.
	Sum(x *RawTensor) *RawTensor
	SumDim(x *RawTensor, dim int, keepDim bool) *RawTensor
	MeanDim(x *RawTensor, dim int, keepDim bool) *RawTensor
	VarDim(x *RawTensor, dim int, keepDim bool) *RawTensor

	// Embedding looks up rows of weight [V, C] by int32 indices [..] and
	// returns a tensor of shape indices.Shape() + [C].
	Embedding(weight, indices *RawTensor) *RawTensor

	// Metadata.
	Name() string
	Device() Device
}
