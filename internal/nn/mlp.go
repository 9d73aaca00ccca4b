package nn

import (
	"github.com/tnt-ml/tnt/internal/tensor"
)

// Mlp implements the transformer feed-forward block.
//
// Architecture:
//
//	Mlp(x) = Drop(Linear2(Drop(GELU(Linear1(x)))))
//
// Where:
//   - Linear1: [embed_dim -> hidden_dim] (expansion, typically 4x)
//   - Linear2: [hidden_dim -> embed_dim] (projection back)
//
// Both the inner and outer transformers of a TNT block carry an Mlp
// after their attention sub-layer.
type Mlp[B tensor.Backend] struct {
	Linear1 *Linear[B]  // [embed_dim -> hidden_dim]
	Linear2 *Linear[B]  // [hidden_dim -> embed_dim]
	Act     *GELU[B]    // activation between the projections
	Drop    *Dropout[B] // applied after each projection
	backend B
}

// NewMlp creates a feed-forward block.
//
// Parameters:
//   - embedDim: input/output dimension
//   - hiddenDim: expansion dimension (typically 4 * embedDim)
//   - drop: dropout probability applied after each projection
//   - backend: computation backend
func NewMlp[B tensor.Backend](embedDim, hiddenDim int, drop float32, backend B) *Mlp[B] {
	return &Mlp[B]{
		Linear1: NewLinear[B](embedDim, hiddenDim, backend),
		Linear2: NewLinear[B](hiddenDim, embedDim, backend),
		Act:     NewGELU[B](),
		Drop:    NewDropout[B](drop),
		backend: backend,
	}
}

// Forward computes the feed-forward output.
//
// Shapes:
//   - input: [batch, seq, embed_dim] (3D) or [batch, embed_dim] (2D)
//   - output: same shape as input
func (f *Mlp[B]) Forward(x *tensor.Tensor[float32, B]) *tensor.Tensor[float32, B] {
	// Linear layers expect 2D input, flatten leading dims if needed.
	origShape := x.Shape()
	is3D := len(origShape) == 3
	if is3D {
		x = x.Reshape(origShape[0]*origShape[1], origShape[2])
	}

	x = f.Linear1.Forward(x)
	x = f.Act.Forward(x)
	x = f.Drop.Forward(x)
	x = f.Linear2.Forward(x)
	x = f.Drop.Forward(x)

	if is3D {
		x = x.Reshape(origShape[0], origShape[1], origShape[2])
	}
	return x
}

// SetTraining propagates the training flag to the dropout layer.
func (f *Mlp[B]) SetTraining(training bool) {
	f.Drop.SetTraining(training)
}

// Parameters returns all parameters of the two linear layers.
func (f *Mlp[B]) Parameters() []*Parameter[B] {
	params := make([]*Parameter[B], 0, 4)
	params = append(params, f.Linear1.Parameters()...)
	params = append(params, f.Linear2.Parameters()...)
	return params
}
