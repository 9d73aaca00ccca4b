package cpu

import (
	"fmt"
	"math"

	"github.com/tnt-ml/tnt/internal/tensor"
)

// Softmax computes softmax along the specified dimension.
// Softmax(x_i) = exp(x_i - max) / sum_j exp(x_j - max), the max shift
// keeping the exponentials in range.
func (c *Backend) Softmax(x *tensor.RawTensor, dim int) *tensor.RawTensor {
	shape := x.Shape()
	ndim := len(shape)

	if dim < 0 {
		dim = ndim + dim
	}
	if dim < 0 || dim >= ndim {
		panic(fmt.Sprintf("softmax: dimension %d out of range for tensor of rank %d", dim, ndim))
	}
	if x.DType() != tensor.Float32 {
		panic(fmt.Sprintf("softmax: unsupported dtype %s (only float32 supported)", x.DType()))
	}

	result, err := tensor.NewRaw(shape, x.DType(), c.device)
	if err != nil {
		panic(fmt.Sprintf("softmax: %v", err))
	}

	src := x.AsFloat32()
	dst := result.AsFloat32()
	strides := shape.ComputeStrides()
	dimSize := shape[dim]
	dimStride := strides[dim]

	// Groups of elements that share one softmax normalization.
	numRows := 1
	for i := range shape {
		if i != dim {
			numRows *= shape[i]
		}
	}

	for row := 0; row < numRows; row++ {
		// Base flat index for this row.
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

		maxVal := float32(math.Inf(-1))
		for i := 0; i < dimSize; i++ {
			if v := src[baseIdx+i*dimStride]; v > maxVal {
				maxVal = v
			}
		}

		var sum float32
		for i := 0; i < dimSize; i++ {
			idx := baseIdx + i*dimStride
			expVal := float32(math.Exp(float64(src[idx] - maxVal)))
			dst[idx] = expVal
			sum += expVal
		}

		for i := 0; i < dimSize; i++ {
			dst[baseIdx+i*dimStride] /= sum
		}
	}

	return result
}
