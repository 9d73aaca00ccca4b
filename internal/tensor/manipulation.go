package tensor

// Pad2D zero-pads the bottom/right of the two trailing spatial dimensions
// of a 4D [N, C, H, W] tensor.
//
// Example:
//
//	x := tensor.Randn[float32](Shape{2, 8, 7, 7}, backend)
//	y := x.Pad2D(1, 1) // Shape: [2, 8, 8, 8]
func (t *Tensor[T, B]) Pad2D(padH, padW int) *Tensor[T, B] {
	result := t.backend.Pad2D(t.raw, padH, padW)
	return New[T, B](result, t.backend)
}

// Crop2D keeps the top-left newH x newW region of the two trailing spatial
// dimensions of a 4D [N, C, H, W] tensor.
func (t *Tensor[T, B]) Crop2D(newH, newW int) *Tensor[T, B] {
	result := t.backend.Crop2D(t.raw, newH, newW)
	return New[T, B](result, t.backend)
}

// Conv2D applies a 2D convolution with the given kernel.
// Input must be [N, C_in, H, W] and kernel [C_out, C_in, K_h, K_w].
func (t *Tensor[T, B]) Conv2D(kernel *Tensor[T, B], stride, padding int) *Tensor[T, B] {
	result := t.backend.Conv2D(t.raw, kernel.raw, stride, padding)
	return New[T, B](result, t.backend)
}
