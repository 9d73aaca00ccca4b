//go:build windows

package webgpu

import (
	"fmt"
	"unsafe"

	"github.com/tnt-ml/tnt/internal/tensor"
)

// float32Bytes reinterprets a float32 slice as its backing bytes.
func float32Bytes(s []float32) []byte {
	if len(s) == 0 {
		return nil
	}
	return unsafe.Slice((*byte)(unsafe.Pointer(&s[0])), len(s)*4)
}

// gpuEligible reports whether a binary op can run on the GPU directly:
// both operands float32 with identical shapes (broadcasting falls back).
func gpuEligible(a, b *tensor.RawTensor) bool {
	return a.DType() == tensor.Float32 && b.DType() == tensor.Float32 &&
		a.Shape().Equal(b.Shape())
}

// Add performs element-wise addition.
func (b *Backend) Add(x, y *tensor.RawTensor) *tensor.RawTensor {
	if !gpuEligible(x, y) {
		return b.host.Add(x, y)
	}
	return b.runBinary("add", binaryShader("+"), x, y)
}

// Sub performs element-wise subtraction.
func (b *Backend) Sub(x, y *tensor.RawTensor) *tensor.RawTensor {
	if !gpuEligible(x, y) {
		return b.host.Sub(x, y)
	}
	return b.runBinary("sub", binaryShader("-"), x, y)
}

// Mul performs element-wise multiplication.
func (b *Backend) Mul(x, y *tensor.RawTensor) *tensor.RawTensor {
	if !gpuEligible(x, y) {
		return b.host.Mul(x, y)
	}
	return b.runBinary("mul", binaryShader("*"), x, y)
}

// Div performs element-wise division.
func (b *Backend) Div(x, y *tensor.RawTensor) *tensor.RawTensor {
	if !gpuEligible(x, y) {
		return b.host.Div(x, y)
	}
	return b.runBinary("div", binaryShader("/"), x, y)
}

// MatMul performs 2D matrix multiplication on the GPU.
func (b *Backend) MatMul(x, y *tensor.RawTensor) *tensor.RawTensor {
	if x.DType() != tensor.Float32 || y.DType() != tensor.Float32 {
		return b.host.MatMul(x, y)
	}
	xs, ys := x.Shape(), y.Shape()
	if len(xs) != 2 || len(ys) != 2 {
		panic(fmt.Sprintf("matmul requires 2D tensors, got %v and %v", xs, ys))
	}
	if xs[1] != ys[0] {
		panic(fmt.Sprintf("matmul dimension mismatch: %v x %v", xs, ys))
	}
	return b.runMatMul(x, y, xs[0], xs[1], ys[1])
}

// BatchMatMul multiplies batched matrices, one GPU matmul per batch entry.
func (b *Backend) BatchMatMul(x, y *tensor.RawTensor) *tensor.RawTensor {
	if x.DType() != tensor.Float32 || y.DType() != tensor.Float32 {
		return b.host.BatchMatMul(x, y)
	}
	xs, ys := x.Shape(), y.Shape()
	if len(xs) != len(ys) || (len(xs) != 3 && len(xs) != 4) {
		panic(fmt.Sprintf("batchmatmul requires matching 3D or 4D tensors, got %v and %v", xs, ys))
	}

	batch := 1
	for _, d := range xs[:len(xs)-2] {
		batch *= d
	}
	m, k, n := xs[len(xs)-2], xs[len(xs)-1], ys[len(ys)-1]
	if k != ys[len(ys)-2] {
		panic(fmt.Sprintf("batchmatmul dimension mismatch: %v x %v", xs, ys))
	}

	outShape := append(xs[:len(xs)-2].Clone(), m, n)
	out, err := tensor.NewRaw(outShape, tensor.Float32, tensor.WebGPU)
	if err != nil {
		panic(fmt.Sprintf("webgpu: batchmatmul output: %v", err))
	}

	xData, yData, outData := x.AsFloat32(), y.AsFloat32(), out.AsFloat32()
	for i := 0; i < batch; i++ {
		xSlab, errX := tensor.NewRawFromBytes(
			float32Bytes(xData[i*m*k:(i+1)*m*k]), tensor.Shape{m, k}, tensor.Float32, tensor.WebGPU)
		ySlab, errY := tensor.NewRawFromBytes(
			float32Bytes(yData[i*k*n:(i+1)*k*n]), tensor.Shape{k, n}, tensor.Float32, tensor.WebGPU)
		if errX != nil || errY != nil {
			panic("webgpu: batchmatmul slab construction failed")
		}
		res := b.runMatMul(xSlab, ySlab, m, k, n)
		copy(outData[i*m*n:(i+1)*m*n], res.AsFloat32())
	}
	return out
}

// Softmax normalizes along a dimension. The GPU kernel handles the
// contiguous last dimension; other dims fall back to the host.
func (b *Backend) Softmax(x *tensor.RawTensor, dim int) *tensor.RawTensor {
	shape := x.Shape()
	if dim < 0 {
		dim += len(shape)
	}
	if x.DType() != tensor.Float32 || dim != len(shape)-1 {
		return b.host.Softmax(x, dim)
	}
	dimSize := shape[dim]
	return b.runSoftmax(x, x.NumElements()/dimSize, dimSize)
}

// MulScalar multiplies every element by a scalar.
func (b *Backend) MulScalar(x *tensor.RawTensor, scalar any) *tensor.RawTensor {
	s, ok := scalarFloat32(scalar)
	if !ok || x.DType() != tensor.Float32 {
		return b.host.MulScalar(x, scalar)
	}
	return b.runScalar("mul_scalar", scalarShader("*"), x, s)
}

// AddScalar adds a scalar to every element.
func (b *Backend) AddScalar(x *tensor.RawTensor, scalar any) *tensor.RawTensor {
	s, ok := scalarFloat32(scalar)
	if !ok || x.DType() != tensor.Float32 {
		return b.host.AddScalar(x, scalar)
	}
	return b.runScalar("add_scalar", scalarShader("+"), x, s)
}

// DivScalar divides every element by a scalar.
func (b *Backend) DivScalar(x *tensor.RawTensor, scalar any) *tensor.RawTensor {
	s, ok := scalarFloat32(scalar)
	if !ok || x.DType() != tensor.Float32 {
		return b.host.DivScalar(x, scalar)
	}
	if s == 0 {
		panic("division by zero scalar")
	}
	return b.runScalar("div_scalar", scalarShader("/"), x, s)
}

// Host-delegated operations. These run on CPU; the forward pass keeps its
// heavy arithmetic on the shaders above.

func (b *Backend) Conv2D(input, kernel *tensor.RawTensor, stride, padding int) *tensor.RawTensor {
	return b.host.Conv2D(input, kernel, stride, padding)
}

func (b *Backend) Reshape(t *tensor.RawTensor, newShape tensor.Shape) *tensor.RawTensor {
	return b.host.Reshape(t, newShape)
}

func (b *Backend) Transpose(t *tensor.RawTensor, axes ...int) *tensor.RawTensor {
	return b.host.Transpose(t, axes...)
}

func (b *Backend) Unsqueeze(x *tensor.RawTensor, dim int) *tensor.RawTensor {
	return b.host.Unsqueeze(x, dim)
}

func (b *Backend) Squeeze(x *tensor.RawTensor, dim int) *tensor.RawTensor {
	return b.host.Squeeze(x, dim)
}

func (b *Backend) Pad2D(x *tensor.RawTensor, padH, padW int) *tensor.RawTensor {
	return b.host.Pad2D(x, padH, padW)
}

func (b *Backend) Crop2D(x *tensor.RawTensor, newH, newW int) *tensor.RawTensor {
	return b.host.Crop2D(x, newH, newW)
}

func (b *Backend) Exp(x *tensor.RawTensor) *tensor.RawTensor {
	return b.host.Exp(x)
}

func (b *Backend) Sqrt(x *tensor.RawTensor) *tensor.RawTensor {
	return b.host.Sqrt(x)
}

func (b *Backend) Rsqrt(x *tensor.RawTensor) *tensor.RawTensor {
	return b.host.Rsqrt(x)
}

func (b *Backend) Tanh(x *tensor.RawTensor) *tensor.RawTensor {
	return b.host.Tanh(x)
}

func (b *Backend) GreaterEqual(x, y *tensor.RawTensor) *tensor.RawTensor {
	return b.host.GreaterEqual(x, y)
}

func (b *Backend) Where(condition, x, y *tensor.RawTensor) *tensor.RawTensor {
	return b.host.Where(condition, x, y)
}

func (b *Backend) Sum(x *tensor.RawTensor) *tensor.RawTensor {
	return b.host.Sum(x)
}

func (b *Backend) SumDim(x *tensor.RawTensor, dim int, keepDim bool) *tensor.RawTensor {
	return b.host.SumDim(x, dim, keepDim)
}

func (b *Backend) MeanDim(x *tensor.RawTensor, dim int, keepDim bool) *tensor.RawTensor {
	return b.host.MeanDim(x, dim, keepDim)
}

func (b *Backend) Argmax(x *tensor.RawTensor, dim int) *tensor.RawTensor {
	return b.host.Argmax(x, dim)
}

func (b *Backend) Cast(x *tensor.RawTensor, dtype tensor.DataType) *tensor.RawTensor {
	return b.host.Cast(x, dtype)
}

// scalarFloat32 converts a numeric scalar to float32 for the shader uniform.
func scalarFloat32(scalar any) (float32, bool) {
	switch v := scalar.(type) {
	case float32:
		return v, true
	case float64:
		return float32(v), true
	case int:
		return float32(v), true
	default:
		return 0, false
	}
}
