package nn

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/onehead-ml/onehead/internal/backend/cpu"
	"github.com/onehead-ml/onehead/internal/tensor"
)

func TestAverageLoopsFirstPositionIsIdentity(t *testing.T) {
	// t=0 has nothing earlier to average with.
	x := []float32{
		1, 2, // t=0
		3, 4, // t=1
	}
	out := AverageLoops(x, 1, 2, 2)

	assert.Equal(t, float32(1), out[0])
	assert.Equal(t, float32(2), out[1])
}

func TestAverageLoopsKnownValues(t *testing.T) {
	x := []float32{
		2, 0,
		4, 2,
		6, 4,
	}
	out := AverageLoops(x, 1, 3, 2)

	want := []float32{
		2, 0, // t=0: x[0]
		3, 1, // t=1: mean of rows 0..1
		4, 2, // t=2: mean of rows 0..2
	}
	for i := range want {
		assert.InDelta(t, want[i], out[i], 1e-6, "index %d", i)
	}
}

func TestAverageLoopsBatchesIndependent(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	batch, seqLen, channels := 3, 4, 2

	x := make([]float32, batch*seqLen*channels)
	for i := range x {
		x[i] = rng.Float32()
	}

	full := AverageLoops(x, batch, seqLen, channels)
	// Each batch element alone must produce the same rows.
	for b := 0; b < batch; b++ {
		single := AverageLoops(x[b*seqLen*channels:(b+1)*seqLen*channels], 1, seqLen, channels)
		for i, v := range single {
			assert.InDelta(t, v, full[b*seqLen*channels+i], 1e-6)
		}
	}
}

func TestAverageLoopsMatchesMatMulForm(t *testing.T) {
	backend := cpu.New()
	rng := rand.New(rand.NewSource(1337))
	batch, seqLen, channels := 4, 8, 2

	x := tensor.RandnSource[float32](tensor.Shape{batch, seqLen, channels}, rng, backend)

	loops := AverageLoops(x.Data(), batch, seqLen, channels)

	weights := UniformWeights(seqLen, backend)
	matmul := weights.BatchMatMul(x)

	require.True(t, matmul.Shape().Equal(tensor.Shape{batch, seqLen, channels}))
	for i, v := range matmul.Data() {
		assert.InDelta(t, loops[i], v, 1e-5, "index %d", i)
	}
}
