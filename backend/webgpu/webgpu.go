//go:build windows

// Copyright 2026 TNT ML. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package webgpu provides the WebGPU backend for GPU-accelerated tensor
// operations, backed by the wgpu_native library through go-webgpu.
//
// Example:
//
//	import (
//	    "github.com/tnt-ml/tnt/backend/webgpu"
//	    "github.com/tnt-ml/tnt/tensor"
//	)
//
//	func main() {
//	    gpu, err := webgpu.New()
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//	    defer gpu.Release()
//
//	    x := tensor.Randn[float32](tensor.Shape{1024, 1024}, gpu)
//	}
package webgpu

import (
	internalwebgpu "github.com/tnt-ml/tnt/internal/backend/webgpu"
	"github.com/tnt-ml/tnt/tensor"
)

// Backend is the WebGPU backend implementation.
//
// Element-wise arithmetic, matrix multiplication and softmax run as WGSL
// compute shaders; remaining operations fall back to the CPU backend.
type Backend = internalwebgpu.Backend

// Compile-time check that Backend implements tensor.Backend.
var _ tensor.Backend = (*Backend)(nil)

// New creates a new WebGPU backend.
// Returns an error if no compatible GPU adapter is available.
func New() (*Backend, error) {
	return internalwebgpu.New()
}
