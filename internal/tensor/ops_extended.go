package tensor

// MulScalar multiplies each element by a scalar.
func (t *Tensor[T, B]) MulScalar(scalar T) *Tensor[T, B] {
	result := t.backend.MulScalar(t.raw, scalar)
	return New[T, B](result, t.backend)
}

// AddScalar adds a scalar to each element.
func (t *Tensor[T, B]) AddScalar(scalar T) *Tensor[T, B] {
	result := t.backend.AddScalar(t.raw, scalar)
	return New[T, B](result, t.backend)
}

// DivScalar divides each element by a scalar.
func (t *Tensor[T, B]) DivScalar(scalar T) *Tensor[T, B] {
	result := t.backend.DivScalar(t.raw, scalar)
	return New[T, B](result, t.backend)
}

// Exp computes the element-wise exponential.
func (t *Tensor[T, B]) Exp() *Tensor[T, B] {
	result := t.backend.Exp(t.raw)
	return New[T, B](result, t.backend)
}

// Sqrt computes the element-wise square root.
func (t *Tensor[T, B]) Sqrt() *Tensor[T, B] {
	result := t.backend.Sqrt(t.raw)
	return New[T, B](result, t.backend)
}

// Rsqrt computes the element-wise reciprocal square root: 1/sqrt(x).
func (t *Tensor[T, B]) Rsqrt() *Tensor[T, B] {
	result := t.backend.Rsqrt(t.raw)
	return New[T, B](result, t.backend)
}

// Tanh computes the element-wise hyperbolic tangent.
func (t *Tensor[T, B]) Tanh() *Tensor[T, B] {
	result := t.backend.Tanh(t.raw)
	return New[T, B](result, t.backend)
}

// Softmax applies softmax along the given dimension.
// Supports negative dim indexing (-1 = last dimension).
func (t *Tensor[T, B]) Softmax(dim int) *Tensor[T, B] {
	result := t.backend.Softmax(t.raw, dim)
	return New[T, B](result, t.backend)
}

// GreaterEqual performs element-wise a >= b, returning a bool tensor.
func (t *Tensor[T, B]) GreaterEqual(other *Tensor[T, B]) *Tensor[bool, B] {
	result := t.backend.GreaterEqual(t.raw, other.raw)
	return New[bool, B](result, t.backend)
}

// Ge is shorthand for GreaterEqual.
func (t *Tensor[T, B]) Ge(other *Tensor[T, B]) *Tensor[bool, B] {
	return t.GreaterEqual(other)
}

// Sum computes the total sum of all elements (scalar result, shape [1]).
func (t *Tensor[T, B]) Sum() *Tensor[T, B] {
	result := t.backend.Sum(t.raw)
	return New[T, B](result, t.backend)
}

// SumDim sums along a dimension. With keepDim the reduced dimension is
// kept with size 1, otherwise it is removed.
func (t *Tensor[T, B]) SumDim(dim int, keepDim bool) *Tensor[T, B] {
	result := t.backend.SumDim(t.raw, dim, keepDim)
	return New[T, B](result, t.backend)
}

// MeanDim averages along a dimension.
func (t *Tensor[T, B]) MeanDim(dim int, keepDim bool) *Tensor[T, B] {
	result := t.backend.MeanDim(t.raw, dim, keepDim)
	return New[T, B](result, t.backend)
}

// Argmax returns the index of the maximum value along a dimension.
func (t *Tensor[T, B]) Argmax(dim int) *Tensor[int32, B] {
	result := t.backend.Argmax(t.raw, dim)
	return New[int32, B](result, t.backend)
}

// Float32 casts the tensor to float32.
func (t *Tensor[T, B]) Float32() *Tensor[float32, B] {
	result := t.backend.Cast(t.raw, Float32)
	return New[float32, B](result, t.backend)
}

// Int32 casts the tensor to int32.
func (t *Tensor[T, B]) Int32() *Tensor[int32, B] {
	result := t.backend.Cast(t.raw, Int32)
	return New[int32, B](result, t.backend)
}
