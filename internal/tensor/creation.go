package tensor

import (
	"math"
	"math/rand"
)

// Zeros creates a tensor filled with zeros.
//
// Example:
//
//	backend := cpu.New()
//	t := tensor.Zeros[float32](Shape{3, 4}, backend)
func Zeros[T DType, B Backend](shape Shape, b B) *Tensor[T, B] {
	var dummy T
	dtype := inferDataType(dummy)

	raw, err := NewRaw(shape, dtype, b.Device())
	if err != nil {
		panic(err) // Shape validation should prevent this
	}

	// Data is already zero-initialized by make()
	return New[T, B](raw, b)
}

// Ones creates a tensor filled with ones.
func Ones[T DType, B Backend](shape Shape, b B) *Tensor[T, B] {
	return Full(shape, oneValue[T](), b)
}

// Full creates a tensor filled with a specific value.
//
// Example:
//
//	t := tensor.Full[float32](Shape{3, 3}, 3.14, backend)
func Full[T DType, B Backend](shape Shape, value T, b B) *Tensor[T, B] {
	t := Zeros[T, B](shape, b)
	data := t.Data()
	for i := range data {
		data[i] = value
	}
	return t
}

// Randn creates a tensor with random values from a normal distribution
// (mean=0, std=1), drawn from the shared math/rand source.
// Only works with float types.
func Randn[T DType, B Backend](shape Shape, b B) *Tensor[T, B] {
	t := Zeros[T, B](shape, b)
	fillNormal(t, nil)
	return t
}

// RandnSource is Randn with a caller-provided random source.
// The walkthrough uses this to keep every run reproducible for a fixed seed.
//
// Example:
//
//	rng := rand.New(rand.NewSource(1337))
//	x := tensor.RandnSource[float32](Shape{4, 8, 2}, rng, backend)
func RandnSource[T DType, B Backend](shape Shape, rng *rand.Rand, b B) *Tensor[T, B] {
	t := Zeros[T, B](shape, b)
	fillNormal(t, rng)
	return t
}

// fillNormal fills a float tensor with N(0, 1) samples using the Box-Muller
// transform. A nil rng falls back to the shared math/rand source.
// Note: math/rand (not crypto/rand) is intentional for reproducibility.
func fillNormal[T DType, B Backend](t *Tensor[T, B], rng *rand.Rand) {
	uniform := rand.Float64
	if rng != nil {
		uniform = rng.Float64
	}

	sample := func() (float64, float64) {
		u1 := uniform() //nolint:gosec // G404: statistical sampling, not security
		u2 := uniform() //nolint:gosec // G404: statistical sampling, not security
		r := math.Sqrt(-2.0 * math.Log(u1))
		return r * math.Cos(2.0*math.Pi*u2), r * math.Sin(2.0*math.Pi*u2)
	}

	data := t.Data()
	switch dataF := any(data).(type) {
	case []float32:
		for i := 0; i < len(dataF); i += 2 {
			z0, z1 := sample()
			dataF[i] = float32(z0)
			if i+1 < len(dataF) {
				dataF[i+1] = float32(z1)
			}
		}
	case []float64:
		for i := 0; i < len(dataF); i += 2 {
			z0, z1 := sample()
			dataF[i] = z0
			if i+1 < len(dataF) {
				dataF[i+1] = z1
			}
		}
	default:
		panic("Randn only supports float32 and float64 types")
	}
}

// Tril creates a 2D tensor of size n×n with ones on and below the main
// diagonal and zeros above it. This is the raw causal weighting mask: row t
// marks the positions token t is allowed to aggregate.
//
// Example:
//
//	// Tril[float32](3, backend):
//	// [[1, 0, 0],
//	//  [1, 1, 0],
//	//  [1, 1, 1]]
func Tril[T DType, B Backend](n int, b B) *Tensor[T, B] {
	t := Zeros[T, B](Shape{n, n}, b)
	one := oneValue[T]()
	for i := 0; i < n; i++ {
		for j := 0; j <= i; j++ {
			t.Set(one, i, j)
		}
	}
	return t
}

// oneValue returns the multiplicative identity for T (true for bool).
func oneValue[T DType]() T {
	var dummy T
	var one any
	switch any(dummy).(type) {
	case float32:
		one = float32(1)
	case float64:
		one = float64(1)
	case int32:
		one = int32(1)
	case bool:
		one = true
	}
	return one.(T)
}
