package cpu

import (
	"fmt"
	"math"

	"github.com/tnt-ml/tnt/internal/tensor"
)

// Sum computes the total sum of all elements. Shape of the result is [1].
func (c *Backend) Sum(x *tensor.RawTensor) *tensor.RawTensor {
	if x.DType() != tensor.Float32 {
		panic(fmt.Sprintf("sum: unsupported dtype %s", x.DType()))
	}

	result, err := tensor.NewRaw(tensor.Shape{1}, x.DType(), c.device)
	if err != nil {
		panic(fmt.Sprintf("sum: %v", err))
	}

	var sum float32
	for _, v := range x.AsFloat32() {
		sum += v
	}
	result.AsFloat32()[0] = sum
	return result
}

// SumDim sums along a dimension. With keepDim the reduced dimension is
// kept with size 1, otherwise it is dropped.
func (c *Backend) SumDim(x *tensor.RawTensor, dim int, keepDim bool) *tensor.RawTensor {
	shape := x.Shape()
	ndim := len(shape)
	if dim < 0 {
		dim = ndim + dim
	}
	if dim < 0 || dim >= ndim {
		panic(fmt.Sprintf("sumdim: dimension %d out of range for tensor of rank %d", dim, ndim))
	}
	if x.DType() != tensor.Float32 {
		panic(fmt.Sprintf("sumdim: unsupported dtype %s", x.DType()))
	}

	// Reduce into a keepDim-shaped buffer first; drop the dim afterwards.
	outShape := shape.Clone()
	outShape[dim] = 1

	result, err := tensor.NewRaw(outShape, x.DType(), c.device)
	if err != nil {
		panic(fmt.Sprintf("sumdim: %v", err))
	}

	src := x.AsFloat32()
	dst := result.AsFloat32()
	strides := shape.ComputeStrides()
	outStrides := outShape.ComputeStrides()

	for i, v := range src {
		outIdx := 0
		rem := i
		for d := 0; d < ndim; d++ {
			coord := rem / strides[d]
			rem %= strides[d]
			if d != dim {
				outIdx += coord * outStrides[d]
			}
		}
		dst[outIdx] += v
	}

	if !keepDim {
		squeezed := make(tensor.Shape, 0, ndim-1)
		squeezed = append(squeezed, outShape[:dim]...)
		squeezed = append(squeezed, outShape[dim+1:]...)
		return result.WithShape(squeezed)
	}
	return result
}

// MeanDim averages along a dimension.
func (c *Backend) MeanDim(x *tensor.RawTensor, dim int, keepDim bool) *tensor.RawTensor {
	result := c.SumDim(x, dim, keepDim)

	shape := x.Shape()
	ndim := len(shape)
	if dim < 0 {
		dim = ndim + dim
	}

	divisor := float32(shape[dim])
	data := result.AsFloat32()
	for i := range data {
		data[i] /= divisor
	}

	return result
}

// Argmax returns int32 indices of the maximum value along a dimension.
// The reduced dimension is dropped from the output shape.
func (c *Backend) Argmax(x *tensor.RawTensor, dim int) *tensor.RawTensor {
	shape := x.Shape()
	ndim := len(shape)
	if dim < 0 {
		dim = ndim + dim
	}
	if dim < 0 || dim >= ndim {
		panic(fmt.Sprintf("argmax: dimension %d out of range for tensor of rank %d", dim, ndim))
	}
	if x.DType() != tensor.Float32 {
		panic(fmt.Sprintf("argmax: unsupported dtype %s", x.DType()))
	}

	outShape := make(tensor.Shape, 0, ndim-1)
	outShape = append(outShape, shape[:dim]...)
	outShape = append(outShape, shape[dim+1:]...)
	if len(outShape) == 0 {
		outShape = tensor.Shape{1}
	}

	result, err := tensor.NewRaw(outShape, tensor.Int32, c.device)
	if err != nil {
		panic(fmt.Sprintf("argmax: %v", err))
	}

	src := x.AsFloat32()
	dst := result.AsInt32()
	strides := shape.ComputeStrides()
	dimSize := shape[dim]
	dimStride := strides[dim]

	numRows := 1
	for i := range shape {
		if i != dim {
			numRows *= shape[i]
		}
	}

	for row := 0; row < numRows; row++ {
		baseIdx := 0
		remaining := row
		for i := 0; i < ndim; i++ {
			if i == dim {
				continue
			}
			coord := remaining % shape[i]
			remaining /= shape[i]
			baseIdx += coord * strides[i]
		}

		outIdx := packedRowIndex(row, shape, dim)

		best := float32(math.Inf(-1))
		bestIdx := int32(0)
		for i := 0; i < dimSize; i++ {
			if v := src[baseIdx+i*dimStride]; v > best {
				best = v
				bestIdx = int32(i)
			}
		}
		dst[outIdx] = bestIdx
	}

	return result
}

// packedRowIndex converts a row ordinal (enumerated right-to-left over the
// non-reduced dimensions) into a flat index of the reduced-shape output.
func packedRowIndex(row int, shape tensor.Shape, dim int) int {
	ndim := len(shape)
	coords := make([]int, ndim)
	remaining := row
	for i := 0; i < ndim; i++ {
		if i == dim {
			continue
		}
		coords[i] = remaining % shape[i]
		remaining /= shape[i]
	}

	outShape := make(tensor.Shape, 0, ndim-1)
	outCoords := make([]int, 0, ndim-1)
	for i := 0; i < ndim; i++ {
		if i == dim {
			continue
		}
		outShape = append(outShape, shape[i])
		outCoords = append(outCoords, coords[i])
	}

	strides := outShape.ComputeStrides()
	idx := 0
	for i, coord := range outCoords {
		idx += coord * strides[i]
	}
	return idx
}
