package nn

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/onehead-ml/onehead/internal/tensor"
)

// Linear is a bias-free fully connected projection: y = x @ W.T.
//
// The head's query, key and value maps are all instances of this, matching
// the derivation where the projections carry no bias term.
//
// W has shape [out_features, in_features] and is initialized from a scaled
// normal distribution (std = 1/sqrt(in_features)) so activations keep unit
// variance. The random source is caller-provided to keep runs reproducible.
type Linear[B tensor.Backend] struct {
	inFeatures  int
	outFeatures int
	weight      *tensor.Tensor[float32, B]
	backend     B
}

// NewLinear creates a bias-free linear projection.
func NewLinear[B tensor.Backend](inFeatures, outFeatures int, rng *rand.Rand, backend B) *Linear[B] {
	weight := tensor.RandnSource[float32](tensor.Shape{outFeatures, inFeatures}, rng, backend)
	scale := float32(1.0 / math.Sqrt(float64(inFeatures)))

	return &Linear[B]{
		inFeatures:  inFeatures,
		outFeatures: outFeatures,
		weight:      weight.MulScalar(scale),
		backend:     backend,
	}
}

// Weight returns the projection matrix [out_features, in_features].
func (l *Linear[B]) Weight() *tensor.Tensor[float32, B] {
	return l.weight
}

// Forward applies the projection to the last dimension of the input.
//
// Input shape: [..., in_features] (2D or 3D).
// Output shape: [..., out_features].
func (l *Linear[B]) Forward(input *tensor.Tensor[float32, B]) *tensor.Tensor[float32, B] {
	shape := input.Shape()
	if len(shape) != 2 && len(shape) != 3 {
		panic(fmt.Sprintf("Linear.Forward: expected 2D or 3D input, got shape %v", shape))
	}
	if shape[len(shape)-1] != l.inFeatures {
		panic(fmt.Sprintf("Linear.Forward: expected input with %d features, got %d", l.inFeatures, shape[len(shape)-1]))
	}

	wT := l.weight.T() // [in_features, out_features]

	if len(shape) == 2 {
		return input.MatMul(wT)
	}

	// 3D: flatten batch and time, project, restore.
	flat := input.Reshape(shape[0]*shape[1], l.inFeatures)
	out := flat.MatMul(wT)
	return out.Reshape(shape[0], shape[1], l.outFeatures)
}
