package tensor

import (
	"math"
	"math/rand"
	"testing"
)

func TestZerosAndOnes(t *testing.T) {
	backend := NewMockBackend()

	z := Zeros[float32](Shape{2, 3}, backend)
	if !z.Shape().Equal(Shape{2, 3}) {
		t.Errorf("Zeros shape = %v, want [2 3]", z.Shape())
	}
	for i, v := range z.Data() {
		if v != 0 {
			t.Fatalf("Zeros data[%d] = %v, want 0", i, v)
		}
	}

	o := Ones[float32](Shape{2, 3}, backend)
	for i, v := range o.Data() {
		if v != 1 {
			t.Fatalf("Ones data[%d] = %v, want 1", i, v)
		}
	}
}

func TestFull(t *testing.T) {
	backend := NewMockBackend()
	f := Full[float64](Shape{4}, 2.5, backend)
	for i, v := range f.Data() {
		if v != 2.5 {
			t.Fatalf("Full data[%d] = %v, want 2.5", i, v)
		}
	}
}

func TestTril(t *testing.T) {
	backend := NewMockBackend()
	tril := Tril[float32](3, backend)

	want := []float32{
		1, 0, 0,
		1, 1, 0,
		1, 1, 1,
	}
	data := tril.Data()
	for i := range want {
		if data[i] != want[i] {
			t.Errorf("Tril data[%d] = %v, want %v", i, data[i], want[i])
		}
	}
}

func TestTrilBool(t *testing.T) {
	backend := NewMockBackend()
	tril := Tril[bool](2, backend)

	want := []bool{true, false, true, true}
	data := tril.Data()
	for i := range want {
		if data[i] != want[i] {
			t.Errorf("Tril data[%d] = %v, want %v", i, data[i], want[i])
		}
	}
}

func TestRandnSourceDeterministic(t *testing.T) {
	backend := NewMockBackend()

	a := RandnSource[float32](Shape{32}, rand.New(rand.NewSource(1337)), backend)
	b := RandnSource[float32](Shape{32}, rand.New(rand.NewSource(1337)), backend)

	aData, bData := a.Data(), b.Data()
	for i := range aData {
		if aData[i] != bData[i] {
			t.Fatalf("same seed produced different values at %d: %v vs %v", i, aData[i], bData[i])
		}
	}
}

func TestRandnDistribution(t *testing.T) {
	backend := NewMockBackend()
	x := RandnSource[float64](Shape{100, 50}, rand.New(rand.NewSource(42)), backend)

	data := x.Data()
	sum := 0.0
	for _, v := range data {
		sum += v
	}
	mean := sum / float64(len(data))
	if math.Abs(mean) > 0.1 {
		t.Errorf("Randn mean = %v, want close to 0", mean)
	}

	sumSq := 0.0
	for _, v := range data {
		sumSq += (v - mean) * (v - mean)
	}
	std := math.Sqrt(sumSq / float64(len(data)))
	if math.Abs(std-1.0) > 0.1 {
		t.Errorf("Randn std = %v, want close to 1", std)
	}
}
