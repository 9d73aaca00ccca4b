// Copyright 2026 TNT ML. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package tensor

import "github.com/tnt-ml/tnt/internal/tensor"

// Backend defines the interface that all compute backends must implement.
// Backends handle the actual computation for tensor operations.
//
// Implementations:
//   - backend/cpu: pure Go reference implementation
//   - backend/webgpu: GPU compute via WGSL shaders (Windows)
//
// Example:
//
//	import (
//	    "github.com/tnt-ml/tnt/tensor"
//	    "github.com/tnt-ml/tnt/backend/cpu"
//	)
//
//	backend := cpu.New()
//	x := tensor.Zeros[float32](tensor.Shape{2, 3}, backend)
//	y := tensor.Ones[float32](tensor.Shape{2, 3}, backend)
//	z := x.Add(y) // Uses backend.Add under the hood
type Backend = tensor.Backend
