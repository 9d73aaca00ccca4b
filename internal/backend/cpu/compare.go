package cpu

import (
	"fmt"

	"github.com/tnt-ml/tnt/internal/tensor"
)

// GreaterEqual performs element-wise a >= b with broadcasting,
// returning a bool tensor.
func (c *Backend) GreaterEqual(a, b *tensor.RawTensor) *tensor.RawTensor {
	if a.DType() != tensor.Float32 || b.DType() != tensor.Float32 {
		panic(fmt.Sprintf("greaterEqual: unsupported dtypes %s, %s", a.DType(), b.DType()))
	}

	outShape, _, err := tensor.BroadcastShapes(a.Shape(), b.Shape())
	if err != nil {
		panic(fmt.Sprintf("greaterEqual: %v", err))
	}

	result, rawErr := tensor.NewRaw(outShape, tensor.Bool, c.device)
	if rawErr != nil {
		panic(fmt.Sprintf("greaterEqual: %v", rawErr))
	}

	srcA := a.AsFloat32()
	srcB := b.AsFloat32()
	dst := result.AsBool()
	outStrides := outShape.ComputeStrides()
	aStrides := broadcastStrides(a.Shape(), outShape)
	bStrides := broadcastStrides(b.Shape(), outShape)

	for i := range dst {
		dst[i] = srcA[flatIndex(i, outStrides, aStrides)] >= srcB[flatIndex(i, outStrides, bStrides)]
	}

	return result
}

// Where selects elements from x where condition is true, from y otherwise.
// Condition, x, and y broadcast to a common shape.
func (c *Backend) Where(condition, x, y *tensor.RawTensor) *tensor.RawTensor {
	if condition.DType() != tensor.Bool {
		panic(fmt.Sprintf("where: condition must be bool, got %s", condition.DType()))
	}
	if x.DType() != y.DType() {
		panic(fmt.Sprintf("where: dtype mismatch %s vs %s", x.DType(), y.DType()))
	}

	outShape, _, err := tensor.BroadcastShapes(condition.Shape(), x.Shape())
	if err != nil {
		panic(fmt.Sprintf("where: %v", err))
	}
	outShape, _, err = tensor.BroadcastShapes(outShape, y.Shape())
	if err != nil {
		panic(fmt.Sprintf("where: %v", err))
	}

	result, rawErr := tensor.NewRaw(outShape, x.DType(), c.device)
	if rawErr != nil {
		panic(fmt.Sprintf("where: %v", rawErr))
	}

	cond := condition.AsBool()
	srcX := x.AsFloat32()
	srcY := y.AsFloat32()
	dst := result.AsFloat32()
	outStrides := outShape.ComputeStrides()
	cStrides := broadcastStrides(condition.Shape(), outShape)
	xStrides := broadcastStrides(x.Shape(), outShape)
	yStrides := broadcastStrides(y.Shape(), outShape)

	for i := range dst {
		if cond[flatIndex(i, outStrides, cStrides)] {
			dst[i] = srcX[flatIndex(i, outStrides, xStrides)]
		} else {
			dst[i] = srcY[flatIndex(i, outStrides, yStrides)]
		}
	}

	return result
}

// Cast converts the tensor to a different data type.
func (c *Backend) Cast(x *tensor.RawTensor, dtype tensor.DataType) *tensor.RawTensor {
	if x.DType() == dtype {
		return x.Clone()
	}

	result, err := tensor.NewRaw(x.Shape(), dtype, c.device)
	if err != nil {
		panic(fmt.Sprintf("cast: %v", err))
	}

	switch {
	case x.DType() == tensor.Uint8 && dtype == tensor.Float32:
		src := x.AsUint8()
		dst := result.AsFloat32()
		for i, v := range src {
			dst[i] = float32(v)
		}
	case x.DType() == tensor.Float32 && dtype == tensor.Int32:
		src := x.AsFloat32()
		dst := result.AsInt32()
		for i, v := range src {
			dst[i] = int32(v)
		}
	case x.DType() == tensor.Int32 && dtype == tensor.Float32:
		src := x.AsInt32()
		dst := result.AsFloat32()
		for i, v := range src {
			dst[i] = float32(v)
		}
	default:
		panic(fmt.Sprintf("cast: unsupported conversion %s -> %s", x.DType(), dtype))
	}

	return result
}
