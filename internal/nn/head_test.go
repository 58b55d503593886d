package nn

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/onehead-ml/onehead/internal/backend/cpu"
	"github.com/onehead-ml/onehead/internal/tensor"
)

func TestHeadForwardShapes(t *testing.T) {
	backend := cpu.New()
	head := NewHead(32, 16, 8, newTestRNG(1337), backend)

	x := tensor.RandnSource[float32](tensor.Shape{4, 8, 32}, newTestRNG(1), backend)
	out, weights := head.Forward(x)

	assert.True(t, out.Shape().Equal(tensor.Shape{4, 8, 16}), "out shape = %v", out.Shape())
	assert.True(t, weights.Shape().Equal(tensor.Shape{4, 8, 8}), "weights shape = %v", weights.Shape())
}

func TestHeadWeightsAreCausal(t *testing.T) {
	backend := cpu.New()
	seqLen := 8
	head := NewHead(32, 16, seqLen, newTestRNG(1337), backend)

	x := tensor.RandnSource[float32](tensor.Shape{2, seqLen, 32}, newTestRNG(1), backend)
	_, weights := head.Forward(x)

	for b := 0; b < 2; b++ {
		for i := 0; i < seqLen; i++ {
			for j := 0; j < seqLen; j++ {
				w := weights.At(b, i, j)
				if j > i {
					assert.Zero(t, w, "position %d attends to future %d", i, j)
				} else {
					assert.GreaterOrEqual(t, w, float32(0))
				}
			}
		}
	}
}

func TestHeadWeightRowsSumToOne(t *testing.T) {
	backend := cpu.New()
	head := NewHead(16, 8, 4, newTestRNG(2), backend)

	x := tensor.RandnSource[float32](tensor.Shape{3, 4, 16}, newTestRNG(3), backend)
	_, weights := head.Forward(x)

	sums := weights.SumDim(-1, false)
	for i, s := range sums.Data() {
		assert.InDelta(t, 1.0, s, 1e-5, "row %d", i)
	}
}

func TestHeadWeightsDataDependent(t *testing.T) {
	backend := cpu.New()
	head := NewHead(16, 8, 4, newTestRNG(2), backend)

	a := tensor.RandnSource[float32](tensor.Shape{1, 4, 16}, newTestRNG(10), backend)
	b := tensor.RandnSource[float32](tensor.Shape{1, 4, 16}, newTestRNG(11), backend)

	_, wa := head.Forward(a)
	_, wb := head.Forward(b)

	// Unlike the uniform averaging versions, different inputs must give
	// different weights somewhere below the diagonal.
	different := false
	for i := 1; i < 4 && !different; i++ {
		for j := 0; j <= i; j++ {
			if math.Abs(float64(wa.At(0, i, j)-wb.At(0, i, j))) > 1e-6 {
				different = true
				break
			}
		}
	}
	assert.True(t, different, "attention weights ignore the input")
}

func TestHeadSinglePosition(t *testing.T) {
	backend := cpu.New()
	head := NewHead(8, 4, 4, newTestRNG(5), backend)

	// T=1: the only weight row is [[1]].
	x := tensor.RandnSource[float32](tensor.Shape{1, 1, 8}, newTestRNG(6), backend)
	out, weights := head.Forward(x)

	require.True(t, out.Shape().Equal(tensor.Shape{1, 1, 4}))
	assert.InDelta(t, 1.0, weights.At(0, 0, 0), 1e-6)
}

func TestHeadShorterSequenceThanBlock(t *testing.T) {
	backend := cpu.New()
	head := NewHead(8, 4, 16, newTestRNG(5), backend)

	x := tensor.RandnSource[float32](tensor.Shape{1, 3, 8}, newTestRNG(6), backend)
	out, weights := head.Forward(x)

	assert.True(t, out.Shape().Equal(tensor.Shape{1, 3, 4}))
	assert.True(t, weights.Shape().Equal(tensor.Shape{1, 3, 3}))
	assert.Zero(t, weights.At(0, 0, 2))
}

func TestHeadSequenceTooLongPanics(t *testing.T) {
	backend := cpu.New()
	head := NewHead(8, 4, 2, newTestRNG(5), backend)

	x := tensor.RandnSource[float32](tensor.Shape{1, 3, 8}, newTestRNG(6), backend)
	assert.Panics(t, func() { head.Forward(x) })
}

func TestHeadDeterministicForSeed(t *testing.T) {
	backend := cpu.New()

	build := func() (*tensor.Tensor[float32, *cpu.CPUBackend], *tensor.Tensor[float32, *cpu.CPUBackend]) {
		head := NewHead(16, 8, 4, newTestRNG(42), backend)
		x := tensor.RandnSource[float32](tensor.Shape{2, 4, 16}, newTestRNG(43), backend)
		return head.Forward(x)
	}

	out1, _ := build()
	out2, _ := build()

	d1, d2 := out1.Data(), out2.Data()
	for i := range d1 {
		require.Equal(t, d1[i], d2[i], "same seeds produced different outputs")
	}
}
