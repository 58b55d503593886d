// Copyright 2026 OneHead Project. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package cpu provides the pure Go CPU backend for tensor operations.
//
// The backend implements every operation the attention walkthrough
// needs: broadcast element-wise arithmetic, batched matrix multiply,
// row softmax, boolean masking, reductions and embedding lookup. Row
// loops in the heavier kernels fan out across goroutines.
package cpu

import (
	internalcpu "github.com/onehead-ml/onehead/internal/backend/cpu"
	"github.com/onehead-ml/onehead/tensor"
)

// Backend is the CPU backend implementation.
type Backend = internalcpu.CPUBackend

// Compile-time check that Backend implements tensor.Backend.
var _ tensor.Backend = (*Backend)(nil)

// New creates a new CPU backend.
//
// Example:
//
//	backend := cpu.New()
//	x := tensor.Zeros[float32](tensor.Shape{2, 3}, backend)
func New() *Backend {
	return internalcpu.New()
}
