package cpu

import (
	"math"
	"testing"

	"github.com/onehead-ml/onehead/internal/tensor"
)

func TestSoftmaxRowsSumToOne(t *testing.T) {
	backend := New()

	x := fromSlice(t, []float32{1, 2, 3, 4, 5, 6}, tensor.Shape{2, 3})
	y := backend.Softmax(x, -1)

	data := y.AsFloat32()
	for row := 0; row < 2; row++ {
		sum := float32(0)
		for j := 0; j < 3; j++ {
			sum += data[row*3+j]
		}
		if math.Abs(float64(sum-1.0)) > 1e-5 {
			t.Errorf("row %d sum = %v, want 1.0", row, sum)
		}
	}
}

func TestSoftmaxNegInfBecomesZero(t *testing.T) {
	backend := New()

	negInf := float32(math.Inf(-1))
	x := fromSlice(t, []float32{0, negInf, negInf, 1, 2, negInf}, tensor.Shape{2, 3})
	y := backend.Softmax(x, -1)

	data := y.AsFloat32()
	// Row 0: only first position unmasked.
	if data[0] != 1 || data[1] != 0 || data[2] != 0 {
		t.Errorf("row 0 = %v, want [1 0 0]", data[:3])
	}
	// Row 1: masked tail is exactly zero.
	if data[5] != 0 {
		t.Errorf("masked weight = %v, want 0", data[5])
	}
	if data[3] <= 0 || data[4] <= 0 {
		t.Errorf("unmasked weights = %v %v, want > 0", data[3], data[4])
	}
}

func TestSoftmaxLargeValuesStable(t *testing.T) {
	backend := New()

	// Without max subtraction exp(1000) overflows float32.
	x := fromSlice(t, []float32{1000, 1001, 1002}, tensor.Shape{1, 3})
	y := backend.Softmax(x, -1)

	sum := float32(0)
	for _, v := range y.AsFloat32() {
		if math.IsNaN(float64(v)) || math.IsInf(float64(v), 0) {
			t.Fatalf("softmax produced %v", v)
		}
		sum += v
	}
	if math.Abs(float64(sum-1.0)) > 1e-5 {
		t.Errorf("sum = %v, want 1.0", sum)
	}
}

func TestSoftmaxSharpensWithScale(t *testing.T) {
	backend := New()

	// The scaling lesson: multiplying scores by a large factor pushes
	// softmax toward one-hot.
	x := fromSlice(t, []float32{0.1, 0.2, 0.3, 0.4}, tensor.Shape{1, 4})
	soft := backend.Softmax(x, -1).AsFloat32()
	sharp := backend.Softmax(backend.MulScalar(x, float32(100)), -1).AsFloat32()

	if sharp[3] < soft[3] {
		t.Errorf("scaled max weight %v not sharper than %v", sharp[3], soft[3])
	}
	if sharp[3] < 0.99 {
		t.Errorf("scaled softmax max weight = %v, want near one-hot", sharp[3])
	}
}

func TestSoftmaxMiddleDim(t *testing.T) {
	backend := New()

	x := fromSlice(t, []float32{
		1, 2,
		3, 4,
	}, tensor.Shape{2, 2})
	y := backend.Softmax(x, 0)

	data := y.AsFloat32()
	// Columns sum to 1 when reducing dim 0.
	for col := 0; col < 2; col++ {
		sum := data[col] + data[2+col]
		if math.Abs(float64(sum-1.0)) > 1e-5 {
			t.Errorf("column %d sum = %v, want 1.0", col, sum)
		}
	}
}

func TestSoftmaxBadDimPanics(t *testing.T) {
	backend := New()
	x := fromSlice(t, []float32{1, 2}, tensor.Shape{2})

	defer func() {
		if recover() == nil {
			t.Error("expected panic for out-of-range dim")
		}
	}()
	backend.Softmax(x, 3)
}
