package cpu

import (
	"fmt"

	"github.com/tnt-ml/tnt/internal/tensor"
)

// Reshape returns a view of the tensor under a new shape (zero-copy).
func (c *Backend) Reshape(t *tensor.RawTensor, newShape tensor.Shape) *tensor.RawTensor {
	if err := newShape.Validate(); err != nil {
		panic(fmt.Sprintf("reshape: invalid shape: %v", err))
	}
	if t.NumElements() != newShape.NumElements() {
		panic(fmt.Sprintf("reshape: incompatible shapes: %v -> %v (different number of elements)",
			t.Shape(), newShape))
	}
	return t.WithShape(newShape)
}

// Transpose permutes the tensor's dimensions, materializing the result.
// With no axes, all dimensions are reversed.
func (c *Backend) Transpose(t *tensor.RawTensor, axes ...int) *tensor.RawTensor {
	shape := t.Shape()
	ndim := len(shape)

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

	if t.DType() != tensor.Float32 {
		panic(fmt.Sprintf("transpose: unsupported dtype %s", t.DType()))
	}

	src := t.AsFloat32()
	dst := result.AsFloat32()
	srcStrides := shape.ComputeStrides()
	dstStrides := newShape.ComputeStrides()

	// Walk output positions, gathering from the permuted source index.
	for i := range dst {
		srcIdx := 0
		rem := i
		for d := 0; d < ndim; d++ {
			coord := rem / dstStrides[d]
			rem %= dstStrides[d]
			srcIdx += coord * srcStrides[axes[d]]
		}
		dst[i] = src[srcIdx]
	}

	return result
}

// Unsqueeze adds a dimension of size 1 at the given position.
func (c *Backend) Unsqueeze(x *tensor.RawTensor, dim int) *tensor.RawTensor {
	shape := x.Shape()
	ndim := len(shape)
	if dim < 0 {
		dim = ndim + 1 + dim
	}
	if dim < 0 || dim > ndim {
		panic(fmt.Sprintf("unsqueeze: dimension %d out of range for %dD tensor", dim, ndim))
	}

	newShape := make(tensor.Shape, 0, ndim+1)
	newShape = append(newShape, shape[:dim]...)
	newShape = append(newShape, 1)
	newShape = append(newShape, shape[dim:]...)
	return x.WithShape(newShape)
}

// Squeeze removes a dimension of size 1 at the given position.
func (c *Backend) Squeeze(x *tensor.RawTensor, dim int) *tensor.RawTensor {
	shape := x.Shape()
	ndim := len(shape)
	if dim < 0 {
		dim = ndim + dim
	}
	if dim < 0 || dim >= ndim {
		panic(fmt.Sprintf("squeeze: dimension %d out of range for %dD tensor", dim, ndim))
	}
	if shape[dim] != 1 {
		panic(fmt.Sprintf("squeeze: dimension %d has size %d, expected 1", dim, shape[dim]))
	}

	newShape := make(tensor.Shape, 0, ndim-1)
	newShape = append(newShape, shape[:dim]...)
	newShape = append(newShape, shape[dim+1:]...)
	return x.WithShape(newShape)
}

// Pad2D zero-pads the bottom/right spatial edges of a 4D [N, C, H, W] tensor.
func (c *Backend) Pad2D(x *tensor.RawTensor, padH, padW int) *tensor.RawTensor {
	shape := x.Shape()
	if len(shape) != 4 {
		panic(fmt.Sprintf("pad2d: input must be 4D [N,C,H,W], got %dD", len(shape)))
	}
	if padH < 0 || padW < 0 {
		panic(fmt.Sprintf("pad2d: negative padding (%d, %d)", padH, padW))
	}
	if padH == 0 && padW == 0 {
		return x.Clone()
	}

	n, ch, h, w := shape[0], shape[1], shape[2], shape[3]
	newH, newW := h+padH, w+padW

	result, err := tensor.NewRaw(tensor.Shape{n, ch, newH, newW}, x.DType(), x.Device())
	if err != nil {
		panic(fmt.Sprintf("pad2d: %v", err))
	}

	src := x.AsFloat32()
	dst := result.AsFloat32()
	for plane := 0; plane < n*ch; plane++ {
		for y := 0; y < h; y++ {
			srcRow := src[(plane*h+y)*w : (plane*h+y+1)*w]
			dstOff := (plane*newH + y) * newW
			copy(dst[dstOff:dstOff+w], srcRow)
		}
	}

	return result
}

// Crop2D keeps the top-left newH x newW spatial region of a 4D tensor.
func (c *Backend) Crop2D(x *tensor.RawTensor, newH, newW int) *tensor.RawTensor {
	shape := x.Shape()
	if len(shape) != 4 {
		panic(fmt.Sprintf("crop2d: input must be 4D [N,C,H,W], got %dD", len(shape)))
	}

	n, ch, h, w := shape[0], shape[1], shape[2], shape[3]
	if newH <= 0 || newH > h || newW <= 0 || newW > w {
		panic(fmt.Sprintf("crop2d: region %dx%d out of bounds for %dx%d input", newH, newW, h, w))
	}
	if newH == h && newW == w {
		return x.Clone()
	}

	result, err := tensor.NewRaw(tensor.Shape{n, ch, newH, newW}, x.DType(), x.Device())
	if err != nil {
		panic(fmt.Sprintf("crop2d: %v", err))
	}

	src := x.AsFloat32()
	dst := result.AsFloat32()
	for plane := 0; plane < n*ch; plane++ {
		for y := 0; y < newH; y++ {
			srcOff := (plane*h + y) * w
			dstOff := (plane*newH + y) * newW
			copy(dst[dstOff:dstOff+newW], src[srcOff:srcOff+newW])
		}
	}

	return result
}
