package cpu

import (
	"math"
	"testing"

	"github.com/onehead-ml/onehead/internal/tensor"
)

func TestSum(t *testing.T) {
	backend := New()

	x := fromSlice(t, []float32{1, 2, 3, 4}, tensor.Shape{2, 2})
	s := backend.Sum(x)

	if s.AsFloat32()[0] != 10 {
		t.Errorf("sum = %v, want 10", s.AsFloat32()[0])
	}
}

func TestSumDim(t *testing.T) {
	backend := New()

	x := fromSlice(t, []float32{
		1, 2, 3,
		4, 5, 6,
	}, tensor.Shape{2, 3})

	rows := backend.SumDim(x, 1, false)
	if !rows.Shape().Equal(tensor.Shape{2}) {
		t.Fatalf("shape = %v, want [2]", rows.Shape())
	}
	want := []float32{6, 15}
	for i, v := range rows.AsFloat32() {
		if v != want[i] {
			t.Errorf("data[%d] = %v, want %v", i, v, want[i])
		}
	}

	cols := backend.SumDim(x, 0, false)
	wantCols := []float32{5, 7, 9}
	for i, v := range cols.AsFloat32() {
		if v != wantCols[i] {
			t.Errorf("cols[%d] = %v, want %v", i, v, wantCols[i])
		}
	}
}

func TestSumDimKeepDim(t *testing.T) {
	backend := New()

	x := fromSlice(t, []float32{1, 2, 3, 4, 5, 6}, tensor.Shape{2, 3})
	s := backend.SumDim(x, 1, true)

	if !s.Shape().Equal(tensor.Shape{2, 1}) {
		t.Errorf("shape = %v, want [2 1]", s.Shape())
	}
}

func TestMeanDim(t *testing.T) {
	backend := New()

	x := fromSlice(t, []float32{
		1, 2, 3,
		4, 5, 6,
	}, tensor.Shape{2, 3})

	m := backend.MeanDim(x, -1, false)
	want := []float32{2, 5}
	for i, v := range m.AsFloat32() {
		if v != want[i] {
			t.Errorf("data[%d] = %v, want %v", i, v, want[i])
		}
	}
}

func TestMeanDim3D(t *testing.T) {
	backend := New()

	x := fromSlice(t, []float32{
		1, 2,
		3, 4,

		5, 6,
		7, 8,
	}, tensor.Shape{2, 2, 2})

	m := backend.MeanDim(x, 1, false)
	if !m.Shape().Equal(tensor.Shape{2, 2}) {
		t.Fatalf("shape = %v, want [2 2]", m.Shape())
	}
	want := []float32{2, 3, 6, 7}
	for i, v := range m.AsFloat32() {
		if v != want[i] {
			t.Errorf("data[%d] = %v, want %v", i, v, want[i])
		}
	}
}

func TestVarDim(t *testing.T) {
	backend := New()

	x := fromSlice(t, []float32{
		1, 2, 3, 4,
		2, 2, 2, 2,
	}, tensor.Shape{2, 4})

	v := backend.VarDim(x, -1, false)
	data := v.AsFloat32()

	// Population variance of 1,2,3,4 is 1.25; constant row is 0.
	if math.Abs(float64(data[0]-1.25)) > 1e-6 {
		t.Errorf("var row 0 = %v, want 1.25", data[0])
	}
	if data[1] != 0 {
		t.Errorf("var row 1 = %v, want 0", data[1])
	}
}

func TestVarDimKeepDim(t *testing.T) {
	backend := New()

	x := fromSlice(t, []float32{1, 2, 3, 4}, tensor.Shape{2, 2})
	v := backend.VarDim(x, 1, true)

	if !v.Shape().Equal(tensor.Shape{2, 1}) {
		t.Errorf("shape = %v, want [2 1]", v.Shape())
	}
}
