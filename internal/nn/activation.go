package nn

import (
	"math"

	"github.com/tnt-ml/tnt/internal/tensor"
)

// GELU is a Gaussian Error Linear Unit activation module.
//
// Uses the tanh approximation:
//
//	gelu(x) = 0.5 * x * (1 + tanh(sqrt(2/pi) * (x + 0.044715 * x^3)))
//
// GELU is the standard activation in transformer MLP blocks.
type GELU[B tensor.Backend] struct{}

// NewGELU creates a new GELU activation module.
func NewGELU[B tensor.Backend]() *GELU[B] {
	return &GELU[B]{}
}

// Forward applies GELU element-wise.
func (g *GELU[B]) Forward(input *tensor.Tensor[float32, B]) *tensor.Tensor[float32, B] {
	return Gelu(input)
}

// Parameters returns an empty slice (GELU has no trainable parameters).
func (g *GELU[B]) Parameters() []*Parameter[B] {
	return nil
}

// Gelu applies the tanh-approximated GELU to a tensor.
func Gelu[B tensor.Backend](x *tensor.Tensor[float32, B]) *tensor.Tensor[float32, B] {
	c := float32(math.Sqrt(2.0 / math.Pi))

	// inner = sqrt(2/pi) * (x + 0.044715 * x^3)
	x3 := x.Mul(x).Mul(x)
	inner := x.Add(x3.MulScalar(float32(0.044715))).MulScalar(c)

	// 0.5 * x * (1 + tanh(inner))
	return x.Mul(inner.Tanh().AddScalar(float32(1.0))).MulScalar(float32(0.5))
}

// Sigmoid is a logistic activation module: f(x) = 1 / (1 + exp(-x)).
type Sigmoid[B tensor.Backend] struct{}

// NewSigmoid creates a new Sigmoid activation module.
func NewSigmoid[B tensor.Backend]() *Sigmoid[B] {
	return &Sigmoid[B]{}
}

// Forward applies the logistic function element-wise, computed as
// 0.5 * (1 + tanh(x/2)) to reuse the backend's tanh kernel.
func (s *Sigmoid[B]) Forward(input *tensor.Tensor[float32, B]) *tensor.Tensor[float32, B] {
	return input.DivScalar(float32(2.0)).Tanh().AddScalar(float32(1.0)).MulScalar(float32(0.5))
}

// Parameters returns an empty slice (Sigmoid has no trainable parameters).
func (s *Sigmoid[B]) Parameters() []*Parameter[B] {
	return nil
}

// ReLU is a Rectified Linear Unit activation module: f(x) = max(0, x).
type ReLU[B tensor.Backend] struct{}

// NewReLU creates a new ReLU activation module.
func NewReLU[B tensor.Backend]() *ReLU[B] {
	return &ReLU[B]{}
}

// Forward applies ReLU element-wise.
func (r *ReLU[B]) Forward(input *tensor.Tensor[float32, B]) *tensor.Tensor[float32, B] {
	zeros := tensor.Zeros[float32](input.Shape(), input.Backend())
	mask := input.Ge(zeros)
	return tensor.Where(mask, input, zeros)
}

// Parameters returns an empty slice (ReLU has no trainable parameters).
func (r *ReLU[B]) Parameters() []*Parameter[B] {
	return nil
}
