package lesson

import (
	"fmt"
	"io"
	"strings"

	"github.com/onehead-ml/onehead/internal/backend/cpu"
	"github.com/onehead-ml/onehead/internal/tensor"
)

// writeMatrix prints a labeled 2D tensor with fixed-width cells so the
// triangular structure of the weight matrices is visible at a glance.
func writeMatrix(w io.Writer, label string, t *tensor.Tensor[float32, *cpu.CPUBackend]) {
	shape := t.Shape()
	if len(shape) != 2 {
		panic(fmt.Sprintf("writeMatrix expects a 2D tensor, got shape %v", shape))
	}

	fmt.Fprintf(w, "%s  [%dx%d]\n", label, shape[0], shape[1])
	for i := 0; i < shape[0]; i++ {
		var sb strings.Builder
		sb.WriteString("  [")
		for j := 0; j < shape[1]; j++ {
			if j > 0 {
				sb.WriteString("  ")
			}
			sb.WriteString(formatCell(t.At(i, j)))
		}
		sb.WriteString("]\n")
		io.WriteString(w, sb.String())
	}
}

// writeBatchSlice prints batch b of a 3D tensor as a matrix.
func writeBatchSlice(w io.Writer, label string, t *tensor.Tensor[float32, *cpu.CPUBackend], b int) {
	shape := t.Shape()
	if len(shape) != 3 {
		panic(fmt.Sprintf("writeBatchSlice expects a 3D tensor, got shape %v", shape))
	}

	fmt.Fprintf(w, "%s  [batch %d of %d, %dx%d]\n", label, b, shape[0], shape[1], shape[2])
	for i := 0; i < shape[1]; i++ {
		var sb strings.Builder
		sb.WriteString("  [")
		for j := 0; j < shape[2]; j++ {
			if j > 0 {
				sb.WriteString("  ")
			}
			sb.WriteString(formatCell(t.At(b, i, j)))
		}
		sb.WriteString("]\n")
		io.WriteString(w, sb.String())
	}
}

func formatCell(v float32) string {
	return fmt.Sprintf("%7.4f", v)
}

// maxAbsDiff reports how far apart two same-shaped tensors are.
func maxAbsDiff(a, b *tensor.Tensor[float32, *cpu.CPUBackend]) float64 {
	aData, bData := a.Data(), b.Data()
	var max float64
	for i := range aData {
		d := float64(aData[i] - bData[i])
		if d < 0 {
			d = -d
		}
		if d > max {
			max = d
		}
	}
	return max
}
