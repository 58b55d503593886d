// Copyright 2026 OneHead Project. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package tensor

import "github.com/onehead-ml/onehead/internal/tensor"

// RawTensor is the untyped tensor representation: a byte buffer plus
// shape, strides, dtype and device. Backends operate on RawTensors;
// Tensor[T, B] is the typed view on top.
type RawTensor = tensor.RawTensor

// Backend defines the interface that compute backends implement.
// Backends handle the actual computation for tensor operations.
//
// Implementations:
//   - backend/cpu: pure Go, optionally parallel across rows
//
// Example:
//
//	backend := cpu.New()
//	x := tensor.Zeros[float32](tensor.Shape{2, 3}, backend)
//	y := tensor.Ones[float32](tensor.Shape{2, 3}, backend)
//	z := x.Add(y)  // Uses backend.Add under the hood
type Backend = tensor.Backend
