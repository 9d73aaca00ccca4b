// Package nn implements the neural network building blocks for the TNT
// (Transformer in Transformer) vision model.
//
// This package provides:
//   - Module interface: base interface for all NN components
//   - Parameter: named weight tensors
//   - Linear, Conv2D: projection layers
//   - LayerNorm: normalization over the feature dimension
//   - MultiHeadAttention: self-attention with optional dropout
//   - Mlp: transformer feed-forward block with GELU
//   - Dropout: train-time regularization
//
// Design inspired by PyTorch's nn.Module but adapted for Go generics.
package nn

import (
	"github.com/tnt-ml/tnt/internal/tensor"
)

// Module is the base interface for all neural network components.
//
// Every NN module must implement:
//   - Forward: compute output from input
//   - Parameters: return all weight parameters
//
// Type parameter B must satisfy the tensor.Backend interface.
type Module[B tensor.Backend] interface {
	// Forward computes the output of the module given an input tensor.
	//
	// The input tensor should have the appropriate shape for this module.
	// For example, Linear expects [batch_size, in_features].
	Forward(input *tensor.Tensor[float32, B]) *tensor.Tensor[float32, B]

	// Parameters returns all weight parameters of this module,
	// including nested module parameters. Returns an empty slice for
	// modules without weights (e.g. activation functions).
	Parameters() []*Parameter[B]
}

// TrainableModule is implemented by modules whose forward pass differs
// between training and inference, such as Dropout.
type TrainableModule interface {
	// SetTraining switches the module between train and eval behavior.
	SetTraining(training bool)
}
