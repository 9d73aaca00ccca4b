package nn

import (
	"fmt"

	"github.com/tnt-ml/tnt/internal/tensor"
)

// Dropout randomly zeroes elements of the input during training.
//
// Each element is kept with probability 1-p and scaled by 1/(1-p) so the
// expected activation magnitude is unchanged (inverted dropout). During
// evaluation the module is the identity.
//
// Example:
//
//	drop := nn.NewDropout[B](0.1)
//	drop.SetTraining(true)
//	out := drop.Forward(x) // ~10% of elements zeroed, rest scaled by 1/0.9
type Dropout[B tensor.Backend] struct {
	p        float32
	training bool
}

// NewDropout creates a Dropout module with drop probability p in [0, 1).
func NewDropout[B tensor.Backend](p float32) *Dropout[B] {
	if p < 0 || p >= 1 {
		panic(fmt.Sprintf("dropout: probability must be in [0, 1), got %v", p))
	}
	return &Dropout[B]{p: p}
}

// SetTraining switches between train (masking) and eval (identity) behavior.
func (d *Dropout[B]) SetTraining(training bool) {
	d.training = training
}

// Training reports whether the module is in training mode.
func (d *Dropout[B]) Training() bool {
	return d.training
}

// P returns the drop probability.
func (d *Dropout[B]) P() float32 {
	return d.p
}

// Forward applies dropout to the input.
//
// In eval mode, or with p=0, the input is returned unchanged.
func (d *Dropout[B]) Forward(input *tensor.Tensor[float32, B]) *tensor.Tensor[float32, B] {
	if !d.training || d.p == 0 {
		return input
	}

	backend := input.Backend()

	// Bernoulli keep mask: uniform(0,1) >= p keeps the element.
	u := tensor.Rand[float32](input.Shape(), backend)
	threshold := tensor.Full[float32](input.Shape(), d.p, backend)
	keep := u.Ge(threshold)

	scaled := input.MulScalar(1.0 / (1.0 - d.p))
	zeros := tensor.Zeros[float32](input.Shape(), backend)
	return tensor.Where(keep, scaled, zeros)
}

// Parameters returns an empty slice (Dropout has no trainable parameters).
func (d *Dropout[B]) Parameters() []*Parameter[B] {
	return nil
}
