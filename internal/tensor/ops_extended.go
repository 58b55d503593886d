package tensor

// Typed wrappers for the remaining backend operations: scalar arithmetic,
// element-wise math, softmax, masking and reductions.

// MulScalar multiplies each element of the tensor by a scalar value.
func (t *Tensor[T, B]) MulScalar(scalar T) *Tensor[T, B] {
	result := t.backend.MulScalar(t.raw, scalar)
	return New[T, B](result, t.backend)
}

// AddScalar adds a scalar value to each element of the tensor.
func (t *Tensor[T, B]) AddScalar(scalar T) *Tensor[T, B] {
	result := t.backend.AddScalar(t.raw, scalar)
	return New[T, B](result, t.backend)
}

// SubScalar subtracts a scalar value from each element of the tensor.
func (t *Tensor[T, B]) SubScalar(scalar T) *Tensor[T, B] {
	result := t.backend.SubScalar(t.raw, scalar)
	return New[T, B](result, t.backend)
}

// DivScalar divides each element of the tensor by a scalar value.
func (t *Tensor[T, B]) DivScalar(scalar T) *Tensor[T, B] {
	result := t.backend.DivScalar(t.raw, scalar)
	return New[T, B](result, t.backend)
}

// Exp computes the exponential (e^x) of each element.
func (t *Tensor[T, B]) Exp() *Tensor[T, B] {
	result := t.backend.Exp(t.raw)
	return New[T, B](result, t.backend)
}

// Sqrt computes the square root of each element.
func (t *Tensor[T, B]) Sqrt() *Tensor[T, B] {
	result := t.backend.Sqrt(t.raw)
	return New[T, B](result, t.backend)
}

// Softmax computes softmax along the given dimension (negative dims count
// from the end). Each slice along dim becomes a distribution summing to 1.
//
// Example:
//
//	scores := tensor.Randn[float32](Shape{4, 8, 8}, backend)
//	weights := scores.Softmax(-1) // rows sum to 1
func (t *Tensor[T, B]) Softmax(dim int) *Tensor[T, B] {
	result := t.backend.Softmax(t.raw, dim)
	return New[T, B](result, t.backend)
}

// MaskedFill returns a copy of the tensor where elements at positions where
// mask is true are replaced by value. The mask's shape must match the
// trailing dimensions of the tensor; leading dimensions broadcast.
//
// Example:
//
//	future := attention scores [B, T, T]
//	masked := scores.MaskedFill(upperTriangular, float32(math.Inf(-1)))
func (t *Tensor[T, B]) MaskedFill(mask *Tensor[bool, B], value T) *Tensor[T, B] {
	result := t.backend.MaskedFill(t.raw, mask.raw, value)
	return New[T, B](result, t.backend)
}

// Sum computes the total sum of all elements, returning a single-element tensor.
func (t *Tensor[T, B]) Sum() *Tensor[T, B] {
	result := t.backend.Sum(t.raw)
	return New[T, B](result, t.backend)
}

// SumDim sums along the given dimension.
// If keepDim is true the reduced dimension is kept with size 1.
func (t *Tensor[T, B]) SumDim(dim int, keepDim bool) *Tensor[T, B] {
	result := t.backend.SumDim(t.raw, dim, keepDim)
	return New[T, B](result, t.backend)
}

// MeanDim averages along the given dimension.
// If keepDim is true the reduced dimension is kept with size 1.
func (t *Tensor[T, B]) MeanDim(dim int, keepDim bool) *Tensor[T, B] {
	result := t.backend.MeanDim(t.raw, dim, keepDim)
	return New[T, B](result, t.backend)
}

// VarDim computes the population variance along the given dimension.
// If keepDim is true the reduced dimension is kept with size 1.
func (t *Tensor[T, B]) VarDim(dim int, keepDim bool) *Tensor[T, B] {
	result := t.backend.VarDim(t.raw, dim, keepDim)
	return New[T, B](result, t.backend)
}
