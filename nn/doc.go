// Copyright 2026 TNT ML. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package nn provides the neural network layers the TNT model is built
// from: linear and convolutional projections, layer normalization,
// multi-head attention, feed-forward blocks, activations, and dropout.
//
// Example:
//
//	backend := cpu.New()
//	layer := nn.NewLinear(96, 24, backend)
//	out := layer.Forward(x)
package nn
