package cpu

import (
	"fmt"
	"math"

	"github.com/tnt-ml/tnt/internal/tensor"
)

// Exp computes the element-wise exponential.
func (c *Backend) Exp(x *tensor.RawTensor) *tensor.RawTensor {
	return c.unaryOp("exp", x, func(v float32) float32 {
		return float32(math.Exp(float64(v)))
	})
}

// Sqrt computes the element-wise square root.
func (c *Backend) Sqrt(x *tensor.RawTensor) *tensor.RawTensor {
	return c.unaryOp("sqrt", x, func(v float32) float32 {
		return float32(math.Sqrt(float64(v)))
	})
}

// Rsqrt computes the element-wise reciprocal square root: 1/sqrt(x).
func (c *Backend) Rsqrt(x *tensor.RawTensor) *tensor.RawTensor {
	return c.unaryOp("rsqrt", x, func(v float32) float32 {
		return float32(1.0 / math.Sqrt(float64(v)))
	})
}

// Tanh computes the element-wise hyperbolic tangent.
func (c *Backend) Tanh(x *tensor.RawTensor) *tensor.RawTensor {
	return c.unaryOp("tanh", x, func(v float32) float32 {
		return float32(math.Tanh(float64(v)))
	})
}

// unaryOp applies op to every element of x.
func (c *Backend) unaryOp(name string, x *tensor.RawTensor, op func(v float32) float32) *tensor.RawTensor {
	if x.DType() != tensor.Float32 {
		panic(fmt.Sprintf("%s: unsupported dtype %s (only float32 supported)", name, x.DType()))
	}

	result, err := tensor.NewRaw(x.Shape(), x.DType(), c.device)
	if err != nil {
		panic(fmt.Sprintf("%s: failed to create result tensor: %v", name, err))
	}

	src := x.AsFloat32()
	dst := result.AsFloat32()
	for i := range dst {
		dst[i] = op(src[i])
	}

	return result
}
