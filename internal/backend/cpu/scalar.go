package cpu

import (
	"fmt"

	"github.com/tnt-ml/tnt/internal/tensor"
)

// MulScalar multiplies each element of the tensor by a scalar value.
func (c *Backend) MulScalar(x *tensor.RawTensor, scalar any) *tensor.RawTensor {
	s := asFloat32Scalar("mulScalar", x, scalar)
	return c.unaryOp("mulScalar", x, func(v float32) float32 { return v * s })
}

// AddScalar adds a scalar value to each element of the tensor.
func (c *Backend) AddScalar(x *tensor.RawTensor, scalar any) *tensor.RawTensor {
	s := asFloat32Scalar("addScalar", x, scalar)
	return c.unaryOp("addScalar", x, func(v float32) float32 { return v + s })
}

// DivScalar divides each element of the tensor by a scalar value.
func (c *Backend) DivScalar(x *tensor.RawTensor, scalar any) *tensor.RawTensor {
	s := asFloat32Scalar("divScalar", x, scalar)
	if s == 0 {
		panic("divScalar: division by zero")
	}
	return c.unaryOp("divScalar", x, func(v float32) float32 { return v / s })
}

// asFloat32Scalar validates the scalar's type against the tensor dtype.
func asFloat32Scalar(name string, x *tensor.RawTensor, scalar any) float32 {
	if x.DType() != tensor.Float32 {
		panic(fmt.Sprintf("%s: unsupported dtype %s (only float32 supported)", name, x.DType()))
	}
	s, ok := scalar.(float32)
	if !ok {
		panic(fmt.Sprintf("%s: scalar must be float32 for a float32 tensor, got %T", name, scalar))
	}
	return s
}
