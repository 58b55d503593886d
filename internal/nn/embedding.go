package nn

import (
	"fmt"
	"math/rand"

	"github.com/onehead-ml/onehead/internal/tensor"
)

// Embedding maps int32 token ids to dense vectors via table lookup.
// The walkthrough uses it to turn tokenized text into the [B, T, C] batches
// the derivation operates on; the table is random because nothing here is
// trained.
type Embedding[B tensor.Backend] struct {
	numEmbeddings int
	embedDim      int
	weight        *tensor.Tensor[float32, B]
	backend       B
}

// NewEmbedding creates an embedding table [numEmbeddings, embedDim] with
// N(0, 1) entries drawn from rng.
func NewEmbedding[B tensor.Backend](numEmbeddings, embedDim int, rng *rand.Rand, backend B) *Embedding[B] {
	return &Embedding[B]{
		numEmbeddings: numEmbeddings,
		embedDim:      embedDim,
		weight:        tensor.RandnSource[float32](tensor.Shape{numEmbeddings, embedDim}, rng, backend),
		backend:       backend,
	}
}

// Weight returns the embedding table [numEmbeddings, embedDim].
func (e *Embedding[B]) Weight() *tensor.Tensor[float32, B] {
	return e.weight
}

// Forward looks up embeddings for the given indices.
//
// Input shape: any int32 tensor, typically [batch, seqLen].
// Output shape: indices.Shape() + [embedDim].
func (e *Embedding[B]) Forward(indices *tensor.Tensor[int32, B]) *tensor.Tensor[float32, B] {
	for _, id := range indices.Data() {
		if int(id) >= e.numEmbeddings || id < 0 {
			panic(fmt.Sprintf("Embedding.Forward: index %d out of range for table size %d", id, e.numEmbeddings))
		}
	}
	raw := e.backend.Embedding(e.weight.Raw(), indices.Raw())
	return tensor.New[float32, B](raw, e.backend)
}
