// Copyright 2026 TNT ML. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package nn

import (
	"github.com/tnt-ml/tnt/internal/nn"
	"github.com/tnt-ml/tnt/internal/tensor"
)

// Module is the common interface for all neural network modules.
type Module[B tensor.Backend] = nn.Module[B]

// Parameter represents a named weight tensor in a neural network.
type Parameter[B tensor.Backend] = nn.Parameter[B]

// NewParameter creates a new parameter with the given name and tensor.
func NewParameter[B tensor.Backend](name string, t *tensor.Tensor[float32, B]) *Parameter[B] {
	return nn.NewParameter(name, t)
}

// Layers

// Linear represents a fully connected (dense) layer.
type Linear[B tensor.Backend] = nn.Linear[B]

// NewLinear creates a new linear layer with Xavier initialization.
//
// Example:
//
//	backend := cpu.New()
//	layer := nn.NewLinear(96, 24, backend)
func NewLinear[B tensor.Backend](inFeatures, outFeatures int, backend B) *Linear[B] {
	return nn.NewLinear(inFeatures, outFeatures, backend)
}

// NewLinearNoBias creates a linear layer without a bias term.
func NewLinearNoBias[B tensor.Backend](inFeatures, outFeatures int, backend B) *Linear[B] {
	return nn.NewLinearNoBias(inFeatures, outFeatures, backend)
}

// Conv2D represents a 2D convolutional layer.
type Conv2D[B tensor.Backend] = nn.Conv2D[B]

// NewConv2D creates a new 2D convolutional layer.
//
// Example:
//
//	backend := cpu.New()
//	conv := nn.NewConv2D(3, 24, 7, 7, 4, 3, true, backend)
func NewConv2D[B tensor.Backend](
	inChannels, outChannels int,
	kernelH, kernelW int,
	stride, padding int,
	useBias bool,
	backend B,
) *Conv2D[B] {
	return nn.NewConv2D(inChannels, outChannels, kernelH, kernelW, stride, padding, useBias, backend)
}

// LayerNorm applies layer normalization over the last dimension.
type LayerNorm[B tensor.Backend] = nn.LayerNorm[B]

// NewLayerNorm creates a new LayerNorm layer.
func NewLayerNorm[B tensor.Backend](normalizedShape int, epsilon float32, backend B) *LayerNorm[B] {
	return nn.NewLayerNorm[B](normalizedShape, epsilon, backend)
}

// MultiHeadAttention implements multi-head self-attention.
type MultiHeadAttention[B tensor.Backend] = nn.MultiHeadAttention[B]

// NewMultiHeadAttention creates a multi-head attention module.
//
// Example:
//
//	mha := nn.NewMultiHeadAttention[B](64, 4, 0.0, 0.1, backend)
func NewMultiHeadAttention[B tensor.Backend](
	embedDim, numHeads int,
	attnDrop, projDrop float32,
	backend B,
) *MultiHeadAttention[B] {
	return nn.NewMultiHeadAttention[B](embedDim, numHeads, attnDrop, projDrop, backend)
}

// Mlp implements the transformer feed-forward block.
type Mlp[B tensor.Backend] = nn.Mlp[B]

// NewMlp creates a feed-forward block with GELU activation.
func NewMlp[B tensor.Backend](embedDim, hiddenDim int, drop float32, backend B) *Mlp[B] {
	return nn.NewMlp[B](embedDim, hiddenDim, drop, backend)
}

// Dropout randomly zeroes elements during training.
type Dropout[B tensor.Backend] = nn.Dropout[B]

// NewDropout creates a Dropout module with drop probability p.
func NewDropout[B tensor.Backend](p float32) *Dropout[B] {
	return nn.NewDropout[B](p)
}

// Activations

// GELU is the Gaussian Error Linear Unit activation.
type GELU[B tensor.Backend] = nn.GELU[B]

// NewGELU creates a new GELU activation layer.
func NewGELU[B tensor.Backend]() *GELU[B] {
	return nn.NewGELU[B]()
}

// ReLU is the Rectified Linear Unit activation.
type ReLU[B tensor.Backend] = nn.ReLU[B]

// NewReLU creates a new ReLU activation layer.
func NewReLU[B tensor.Backend]() *ReLU[B] {
	return nn.NewReLU[B]()
}

// Sigmoid is the logistic activation.
type Sigmoid[B tensor.Backend] = nn.Sigmoid[B]

// NewSigmoid creates a new Sigmoid activation layer.
func NewSigmoid[B tensor.Backend]() *Sigmoid[B] {
	return nn.NewSigmoid[B]()
}

// Attention primitives

// ScaledDotProductAttention computes softmax(QK^T/sqrt(d_k))V.
//
// Pass scale=0 to auto-compute 1/sqrt(head_dim). Returns the attended
// values and the attention weights.
func ScaledDotProductAttention[B tensor.Backend](
	query, key, value *tensor.Tensor[float32, B],
	scale float32,
) (*tensor.Tensor[float32, B], *tensor.Tensor[float32, B]) {
	return nn.ScaledDotProductAttention(query, key, value, scale)
}

// Initialization helpers

// Xavier initializes a tensor with Glorot uniform values.
func Xavier[B tensor.Backend](fanIn, fanOut int, shape tensor.Shape, backend B) *tensor.Tensor[float32, B] {
	return nn.Xavier(fanIn, fanOut, shape, backend)
}

// TruncNormal initializes a tensor from a truncated normal distribution.
func TruncNormal[B tensor.Backend](shape tensor.Shape, std float32, backend B) *tensor.Tensor[float32, B] {
	return nn.TruncNormal(shape, std, backend)
}
