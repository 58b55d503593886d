// Package lesson walks through the derivation of single-head
// self-attention, one step at a time. Each step prints prose and the
// intermediate tensors to a writer, so the whole derivation can be
// replayed from the command line.
package lesson

import (
	"fmt"
	"io"
	"math/rand"
	"strconv"
	"strings"

	"github.com/onehead-ml/onehead/internal/backend/cpu"
)

// Context carries the shared state every step runs against.
type Context struct {
	W       io.Writer
	Backend *cpu.CPUBackend
	Seed    int64
}

// NewContext builds a context with a fresh CPU backend.
func NewContext(w io.Writer, seed int64) *Context {
	return &Context{
		W:       w,
		Backend: cpu.New(),
		Seed:    seed,
	}
}

// RNG returns a fresh generator from the context seed. Every step draws
// from its own generator so steps stay deterministic when run alone.
func (c *Context) RNG() *rand.Rand {
	return rand.New(rand.NewSource(c.Seed))
}

func (c *Context) printf(format string, args ...any) {
	fmt.Fprintf(c.W, format, args...)
}

// Step is one stage of the derivation.
type Step struct {
	Name  string
	Title string
	Run   func(*Context) error
}

// Steps returns the derivation in order.
func Steps() []Step {
	return []Step{
		{Name: "toy-batch", Title: "A toy batch of token channels", Run: runToyBatch},
		{Name: "loop-average", Title: "Causal averaging with loops", Run: runLoopAverage},
		{Name: "matmul-trick", Title: "The triangular matmul trick", Run: runMatmulTrick},
		{Name: "masked-softmax", Title: "Masking and softmax", Run: runMaskedSoftmax},
		{Name: "scaling", Title: "Why scores are scaled", Run: runScaling},
		{Name: "attention-head", Title: "A full attention head", Run: runAttentionHead},
	}
}

// Find resolves a step by 1-based number or by name.
func Find(key string) (Step, error) {
	steps := Steps()

	if n, err := strconv.Atoi(key); err == nil {
		if n < 1 || n > len(steps) {
			return Step{}, fmt.Errorf("step %d out of range 1..%d", n, len(steps))
		}
		return steps[n-1], nil
	}

	for _, s := range steps {
		if s.Name == key {
			return s, nil
		}
	}
	return Step{}, fmt.Errorf("unknown step %q", key)
}

// RunAll runs every step in order against the context.
func RunAll(c *Context) error {
	for i, s := range Steps() {
		if i > 0 {
			c.printf("\n")
		}
		if err := RunOne(c, i+1, s); err != nil {
			return err
		}
	}
	return nil
}

// RunOne runs a single step with its banner.
func RunOne(c *Context, number int, s Step) error {
	banner := fmt.Sprintf("step %d: %s", number, s.Title)
	c.printf("%s\n%s\n", banner, strings.Repeat("-", len(banner)))

	if err := s.Run(c); err != nil {
		return fmt.Errorf("step %q: %w", s.Name, err)
	}
	return nil
}
