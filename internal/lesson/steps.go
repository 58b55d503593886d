package lesson

import (
	"fmt"
	"math"

	"github.com/onehead-ml/onehead/internal/backend/cpu"
	"github.com/onehead-ml/onehead/internal/nn"
	"github.com/onehead-ml/onehead/internal/tensor"
	"github.com/onehead-ml/onehead/internal/tokenizer"
)

// The toy batch every early step works on: 4 sequences of 8 positions
// with 2 channels each. Small enough to print, big enough to show the
// triangular structure.
const (
	toyBatchSize = 4
	toySeqLen    = 8
	toyChannels  = 2
)

func toyBatch(c *Context) *tensor.Tensor[float32, *cpu.CPUBackend] {
	return tensor.RandnSource[float32](
		tensor.Shape{toyBatchSize, toySeqLen, toyChannels}, c.RNG(), c.Backend)
}

func runToyBatch(c *Context) error {
	x := toyBatch(c)

	c.printf("Start with a batch of shape %v: %d independent sequences,\n", x.Shape(), toyBatchSize)
	c.printf("%d positions each, %d channels per position. The channels stand in\n", toySeqLen, toyChannels)
	c.printf("for whatever information the model keeps about each token.\n\n")
	writeBatchSlice(c.W, "x", x, 0)
	c.printf("\nTokens at different positions do not talk to each other yet.\n")
	c.printf("The goal of the next steps: let position t gather information\n")
	c.printf("from positions 0..t, and never from the future.\n")
	return nil
}

func runLoopAverage(c *Context) error {
	x := toyBatch(c)

	avg := nn.AverageLoops(x.Data(), toyBatchSize, toySeqLen, toyChannels)
	xbow, err := tensor.FromSlice(avg, x.Shape(), c.Backend)
	if err != nil {
		return err
	}

	c.printf("The crudest way for a position to see its past is to average it.\n")
	c.printf("For every (batch, position t), replace the channels with the mean\n")
	c.printf("of channels at positions 0..t. Three nested loops, nothing clever.\n\n")
	writeBatchSlice(c.W, "x", x, 0)
	c.printf("\n")
	writeBatchSlice(c.W, "xbow", xbow, 0)
	c.printf("\nRow 0 is unchanged (nothing before it), and each later row is the\n")
	c.printf("running mean of everything above it. Averaging throws information\n")
	c.printf("away, but the causal wiring is already exactly right.\n")
	return nil
}

func runMatmulTrick(c *Context) error {
	x := toyBatch(c)

	weights := nn.UniformWeights(toySeqLen, c.Backend)
	xbow := weights.BatchMatMul(x)

	avg := nn.AverageLoops(x.Data(), toyBatchSize, toySeqLen, toyChannels)
	looped, err := tensor.FromSlice(avg, x.Shape(), c.Backend)
	if err != nil {
		return err
	}

	c.printf("The loops hide a matrix multiply. Take a lower triangular matrix\n")
	c.printf("of ones and normalize each row to sum to 1:\n\n")
	writeMatrix(c.W, "weights", weights)
	c.printf("\nRow t holds the averaging weights for position t. Multiplying\n")
	c.printf("weights [%d,%d] against x [%d,%d,%d] reproduces the loop version:\n\n",
		toySeqLen, toySeqLen, toyBatchSize, toySeqLen, toyChannels)
	writeBatchSlice(c.W, "weights @ x", xbow, 0)
	c.printf("\nmax |loops - matmul| = %.2e\n", maxAbsDiff(looped, xbow))
	c.printf("\nThe matrix IS the communication pattern: entry (t, s) says how\n")
	c.printf("much position t listens to position s. Zeros above the diagonal\n")
	c.printf("keep the future silent.\n")
	return nil
}

func runMaskedSoftmax(c *Context) error {
	zeros := tensor.Zeros[float32](tensor.Shape{toySeqLen, toySeqLen}, c.Backend)
	future := nn.FutureMask(toySeqLen, c.Backend)
	masked := zeros.MaskedFill(future, float32(math.Inf(-1)))
	weights := masked.Softmax(-1)

	uniform := nn.UniformWeights(toySeqLen, c.Backend)

	c.printf("The same matrix can be built a different way, and the detour is\n")
	c.printf("the whole point. Start from all zeros, set every future position\n")
	c.printf("to -inf, then softmax each row:\n\n")
	writeMatrix(c.W, "masked", masked)
	c.printf("\n")
	writeMatrix(c.W, "softmax(masked)", weights)
	c.printf("\nmax |softmax form - normalized tril| = %.2e\n", maxAbsDiff(weights, uniform))
	c.printf("\nSoftmax turns -inf into weight 0 and normalizes the rest of the\n")
	c.printf("row to sum to 1. Equal scores give equal weights, which is why\n")
	c.printf("this collapses to plain averaging. But the zeros were a choice:\n")
	c.printf("replace them with data-dependent scores and the same masking and\n")
	c.printf("normalization machinery yields attention.\n")
	return nil
}

func runScaling(c *Context) error {
	const seqLen, headSize = 8, 16

	rng := c.RNG()
	q := tensor.RandnSource[float32](tensor.Shape{seqLen, headSize}, rng, c.Backend)
	k := tensor.RandnSource[float32](tensor.Shape{seqLen, headSize}, rng, c.Backend)

	scores := q.MatMul(k.T())
	scale := float32(1.0 / math.Sqrt(headSize))
	scaled := scores.MulScalar(scale)

	n := scores.NumElements()
	rawVar := scores.Reshape(1, n).VarDim(-1, false).Item()
	scaledVar := scaled.Reshape(1, n).VarDim(-1, false).Item()

	c.printf("Scores will come from dot products of unit-variance vectors with\n")
	c.printf("%d dimensions, and a sum of %d products has variance about %d.\n", headSize, headSize, headSize)
	c.printf("Measured on random q and k:\n\n")
	c.printf("  var(q @ kT)                    = %6.3f\n", rawVar)
	c.printf("  var(q @ kT / sqrt(%d))         = %6.3f\n\n", headSize, scaledVar)

	rawRow, err := tensor.FromSlice(rowOf(scores, 0), tensor.Shape{1, seqLen}, c.Backend)
	if err != nil {
		return err
	}
	scaledRow, err := tensor.FromSlice(rowOf(scaled, 0), tensor.Shape{1, seqLen}, c.Backend)
	if err != nil {
		return err
	}

	c.printf("Variance matters because softmax exaggerates gaps. The same row\n")
	c.printf("of scores, before and after scaling:\n\n")
	writeMatrix(c.W, "softmax(raw row)", rawRow.Softmax(-1))
	c.printf("\n")
	writeMatrix(c.W, "softmax(scaled row)", scaledRow.Softmax(-1))
	c.printf("\nUnscaled scores push softmax toward a one-hot pick, so every\n")
	c.printf("position listens to a single other position. Dividing by\n")
	c.printf("sqrt(head size) keeps the weights diffuse.\n")
	return nil
}

func runAttentionHead(c *Context) error {
	const (
		embedDim = 32
		headSize = 16
		seqLen   = 8
		text     = "Attention lets every token look back at its own past. " +
			"A query asks, a key answers, and a value is what gets carried " +
			"forward once the two agree."
	)

	ids, pieces, vocabSize := tokenIDs(c, text)

	// Chunk the ids into seqLen windows; each window is one batch entry.
	batch := len(ids) / seqLen
	if batch == 0 {
		return fmt.Errorf("text too short: %d tokens, need at least %d", len(ids), seqLen)
	}
	ids = ids[:batch*seqLen]

	c.printf("Everything assembled. The input is real text this time:\n\n")
	c.printf("  %q\n\n", text)
	c.printf("%d tokens, chunked into %d windows of %d. The first window:\n\n", len(ids), batch, seqLen)
	for i := 0; i < seqLen; i++ {
		c.printf(" [%d]%q", ids[i], pieces[i])
	}
	c.printf("\n\n")

	rng := c.RNG()
	idx, err := tensor.FromSlice(ids, tensor.Shape{batch, seqLen}, c.Backend)
	if err != nil {
		return err
	}

	embed := nn.NewEmbedding(vocabSize, embedDim, rng, c.Backend)
	head := nn.NewHead(embedDim, headSize, seqLen, rng, c.Backend)

	x := embed.Forward(idx)
	out, weights := head.Forward(x)

	c.printf("Each token id picks a learned %d-channel vector from an embedding\n", embedDim)
	c.printf("table, giving x with shape %v. The head projects x to queries,\n", x.Shape())
	c.printf("keys and values, scores every pair with q @ kT / sqrt(%d), masks\n", headSize)
	c.printf("the future, softmaxes, and averages the values:\n\n")
	writeBatchSlice(c.W, "attention weights", weights, 0)
	c.printf("\noutput shape: %v\n", out.Shape())
	c.printf("\nCompare with the uniform triangle from the earlier steps: still\n")
	c.printf("causal, still rows summing to 1, but now the weights depend on\n")
	c.printf("the tokens. That difference is self-attention.\n")
	return nil
}

// tokenIDs encodes text with cl100k_base, falling back to synthetic ids
// when the encoding cannot be loaded (no network).
func tokenIDs(c *Context, text string) ([]int32, []string, int) {
	tok, err := tokenizer.New(tokenizer.EncodingCL100kBase)
	if err != nil {
		c.printf("note: %v; using synthetic token ids instead\n\n", err)
		const fallbackLen, fallbackVocab = 24, 1000
		rng := c.RNG()
		ids := make([]int32, fallbackLen)
		pieces := make([]string, fallbackLen)
		for i := range ids {
			ids[i] = int32(rng.Intn(fallbackVocab))
			pieces[i] = fmt.Sprintf("<%d>", ids[i])
		}
		return ids, pieces, fallbackVocab
	}

	ids := tok.Encode(text)
	pieces := make([]string, len(ids))
	for i, id := range ids {
		pieces[i] = tok.DecodeToken(id)
	}
	return ids, pieces, tok.VocabSize() + 2
}

func rowOf(t *tensor.Tensor[float32, *cpu.CPUBackend], row int) []float32 {
	cols := t.Shape()[len(t.Shape())-1]
	out := make([]float32, cols)
	for j := 0; j < cols; j++ {
		out[j] = t.At(row, j)
	}
	return out
}
