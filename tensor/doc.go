// Copyright 2026 TNT ML. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package tensor provides type-safe tensor operations for the TNT model.
//
// The package defines the core types for building and running the model:
//   - Tensor[T, B]: high-level generic tensor with type safety
//   - RawTensor: low-level dtype-erased tensor for backend implementations
//   - Backend: interface for device-specific compute implementations
//   - Shape, DataType, Device: core type definitions
//
// Example:
//
//	backend := cpu.New()
//	x := tensor.Zeros[float32](tensor.Shape{2, 3}, backend)
//	y := tensor.Ones[float32](tensor.Shape{2, 3}, backend)
//	z := x.Add(y) // Element-wise addition
package tensor
