// Package cpu implements the pure-Go reference backend.
package cpu

import (
	"fmt"

	"github.com/tnt-ml/tnt/internal/tensor"
)

// Backend implements tensor operations on the CPU.
type Backend struct {
	device tensor.Device
}

// New creates a new CPU backend.
func New() *Backend {
	return &Backend{
		device: tensor.CPU,
	}
}

// Name returns the backend name.
func (c *Backend) Name() string {
	return "CPU"
}

// Device returns the compute device.
func (c *Backend) Device() tensor.Device {
	return c.device
}

// Add performs element-wise addition with NumPy-style broadcasting.
func (c *Backend) Add(a, b *tensor.RawTensor) *tensor.RawTensor {
	return c.binaryOp("add", a, b, func(x, y float32) float32 { return x + y })
}

// Sub performs element-wise subtraction with broadcasting.
func (c *Backend) Sub(a, b *tensor.RawTensor) *tensor.RawTensor {
	return c.binaryOp("sub", a, b, func(x, y float32) float32 { return x - y })
}

// Mul performs element-wise multiplication with broadcasting.
func (c *Backend) Mul(a, b *tensor.RawTensor) *tensor.RawTensor {
	return c.binaryOp("mul", a, b, func(x, y float32) float32 { return x * y })
}

// Div performs element-wise division with broadcasting.
func (c *Backend) Div(a, b *tensor.RawTensor) *tensor.RawTensor {
	return c.binaryOp("div", a, b, func(x, y float32) float32 { return x / y })
}

// binaryOp applies op element-wise, with a fast path for identical shapes
// and a stride-walking slow path for broadcasting.
func (c *Backend) binaryOp(name string, a, b *tensor.RawTensor, op func(x, y float32) float32) *tensor.RawTensor {
	if a.DType() != tensor.Float32 || b.DType() != tensor.Float32 {
		panic(fmt.Sprintf("%s: unsupported dtypes %s, %s (only float32 supported)", name, a.DType(), b.DType()))
	}

	outShape, needsBroadcast, err := tensor.BroadcastShapes(a.Shape(), b.Shape())
	if err != nil {
		panic(fmt.Sprintf("%s: %v", name, err))
	}

	result, err := tensor.NewRaw(outShape, a.DType(), c.device)
	if err != nil {
		panic(fmt.Sprintf("%s: failed to create result tensor: %v", name, err))
	}

	dst := result.AsFloat32()
	srcA := a.AsFloat32()
	srcB := b.AsFloat32()

	if !needsBroadcast && a.Shape().Equal(b.Shape()) {
		for i := range dst {
			dst[i] = op(srcA[i], srcB[i])
		}
		return result
	}

	outStrides := outShape.ComputeStrides()
	aStrides := broadcastStrides(a.Shape(), outShape)
	bStrides := broadcastStrides(b.Shape(), outShape)

	for i := range dst {
		dst[i] = op(srcA[flatIndex(i, outStrides, aStrides)], srcB[flatIndex(i, outStrides, bStrides)])
	}

	return result
}
