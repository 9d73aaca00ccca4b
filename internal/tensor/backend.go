package tensor

// Backend defines the interface that all compute backends must implement.
// Backends handle the actual computation for tensor operations.
//
// Implementations:
//   - CPU: pure Go reference implementation
//   - WebGPU: GPU compute via WGSL shaders, CPU delegation elsewhere
type Backend interface {
	// Element-wise binary operations (NumPy-style broadcasting)
	Add(a, b *RawTensor) *RawTensor
	Sub(a, b *RawTensor) *RawTensor
	Mul(a, b *RawTensor) *RawTensor
	Div(a, b *RawTensor) *RawTensor

	// Matrix operations
	MatMul(a, b *RawTensor) *RawTensor

	// BatchMatMul performs batched matrix multiplication for 3D/4D tensors.
	// For 3D: [B, M, K] @ [B, K, N] -> [B, M, N]
	// For 4D: [B, H, M, K] @ [B, H, K, N] -> [B, H, M, N]
	BatchMatMul(a, b *RawTensor) *RawTensor

	// Conv2D performs 2D convolution.
	// Input [N, C_in, H, W], kernel [C_out, C_in, K_h, K_w].
	Conv2D(input, kernel *RawTensor, stride, padding int) *RawTensor

	// Shape operations
	Reshape(t *RawTensor, newShape Shape) *RawTensor
	Transpose(t *RawTensor, axes ...int) *RawTensor
	Unsqueeze(x *RawTensor, dim int) *RawTensor
	Squeeze(x *RawTensor, dim int) *RawTensor

	// Pad2D zero-pads the two trailing spatial dimensions of a 4D [N, C, H, W]
	// tensor on the bottom/right. Crop2D removes bottom/right rows/columns.
	// Used to align convolution feature maps to an exact sub-patch grid.
	Pad2D(x *RawTensor, padH, padW int) *RawTensor
	Crop2D(x *RawTensor, newH, newW int) *RawTensor

	// Scalar operations (element-wise with scalar)
	MulScalar(x *RawTensor, scalar any) *RawTensor
	AddScalar(x *RawTensor, scalar any) *RawTensor
	DivScalar(x *RawTensor, scalar any) *RawTensor

	// Math operations (element-wise)
	Exp(x *RawTensor) *RawTensor
	Sqrt(x *RawTensor) *RawTensor
	Rsqrt(x *RawTensor) *RawTensor // reciprocal square root (1/sqrt(x))
	Tanh(x *RawTensor) *RawTensor

	// Softmax along a dimension
	Softmax(x *RawTensor, dim int) *RawTensor

	// Comparison (element-wise, returns bool tensor)
	GreaterEqual(a, b *RawTensor) *RawTensor

	// Where performs conditional element selection.
	Where(condition, x, y *RawTensor) *RawTensor

	// Reduction operations
	Sum(x *RawTensor) *RawTensor
	SumDim(x *RawTensor, dim int, keepDim bool) *RawTensor
	MeanDim(x *RawTensor, dim int, keepDim bool) *RawTensor
	Argmax(x *RawTensor, dim int) *RawTensor

	// Type conversion
	Cast(x *RawTensor, dtype DataType) *RawTensor

	// Metadata
	Name() string
	Device() Device
}
