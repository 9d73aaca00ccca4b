package nn

import (
	"github.com/tnt-ml/tnt/internal/tensor"
)

// LayerNorm applies Layer Normalization over the last dimension.
//
// Formula: Y = gamma * (X - mean(X)) / sqrt(var(X) + eps) + beta
//
// Mean and variance are computed along the last (feature) dimension.
// Gamma and beta are learnable per-feature scale and shift vectors.
// LayerNorm is applied before every attention and MLP sub-layer of the
// transformer blocks (pre-norm).
type LayerNorm[B tensor.Backend] struct {
	Gamma   *Parameter[B] // learnable scale [d_model]
	Beta    *Parameter[B] // learnable shift [d_model]
	Epsilon float32       // numerical stability constant
	backend B
}

// NewLayerNorm creates a new LayerNorm layer over the given feature size.
//
// Gamma is initialized to ones, beta to zeros. Epsilon is typically
// 1e-5 or 1e-6.
func NewLayerNorm[B tensor.Backend](normalizedShape int, epsilon float32, backend B) *LayerNorm[B] {
	gamma := tensor.Ones[float32](tensor.Shape{normalizedShape}, backend)
	beta := tensor.Zeros[float32](tensor.Shape{normalizedShape}, backend)

	return &LayerNorm[B]{
		Gamma:   NewParameter("gamma", gamma),
		Beta:    NewParameter("beta", beta),
		Epsilon: epsilon,
		backend: backend,
	}
}

// Forward applies LayerNorm to the input tensor.
//
// Shapes:
//   - input: [..., d_model]
//   - output: [..., d_model]
func (l *LayerNorm[B]) Forward(x *tensor.Tensor[float32, B]) *tensor.Tensor[float32, B] {
	// Normalize along the last dimension (keepdim for broadcasting).
	mean := x.MeanDim(-1, true)
	xCentered := x.Sub(mean)
	variance := xCentered.Mul(xCentered).MeanDim(-1, true)

	// x_norm = (x - mean) / sqrt(var + eps)
	invStd := variance.AddScalar(l.Epsilon).Rsqrt()
	xNorm := xCentered.Mul(invStd)

	// Scale and shift; gamma/beta broadcast from [d_model] against [..., d_model].
	gamma := l.Gamma.Tensor()
	beta := l.Beta.Tensor()
	for i := 0; i < len(x.Shape())-1; i++ {
		gamma = gamma.Unsqueeze(0)
		beta = beta.Unsqueeze(0)
	}

	return xNorm.Mul(gamma).Add(beta)
}

// Parameters returns the learnable parameters (gamma and beta).
func (l *LayerNorm[B]) Parameters() []*Parameter[B] {
	return []*Parameter[B]{l.Gamma, l.Beta}
}
