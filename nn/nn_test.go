package nn_test

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/onehead-ml/onehead/backend/cpu"
	"github.com/onehead-ml/onehead/nn"
	"github.com/onehead-ml/onehead/tensor"
)

func TestFacadeHeadForward(t *testing.T) {
	backend := cpu.New()
	rng := rand.New(rand.NewSource(1337))

	head := nn.NewHead(32, 16, 8, rng, backend)
	x := tensor.RandnSource[float32](tensor.Shape{4, 8, 32}, rng, backend)

	out, weights := head.Forward(x)
	require.True(t, out.Shape().Equal(tensor.Shape{4, 8, 16}))
	require.True(t, weights.Shape().Equal(tensor.Shape{4, 8, 8}))

	for i := 0; i < 8; i++ {
		for j := i + 1; j < 8; j++ {
			assert.Zero(t, weights.At(0, i, j))
		}
	}
}

func TestFacadeWeightFormsAgree(t *testing.T) {
	backend := cpu.New()

	uniform := nn.UniformWeights(6, backend)
	viaSoftmax := nn.SoftmaxWeights(6, backend)

	u, s := uniform.Data(), viaSoftmax.Data()
	for i := range u {
		assert.InDelta(t, u[i], s[i], 1e-6)
	}
}
