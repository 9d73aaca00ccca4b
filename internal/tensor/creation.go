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
	return Full[T, B](shape, oneValue[T](), b)
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
// (mean=0, std=1) using the Box-Muller transform. Float32 only.
// Note: uses math/rand (not crypto/rand) - appropriate for ML purposes.
func Randn[T DType, B Backend](shape Shape, b B) *Tensor[T, B] {
	t := Zeros[T, B](shape, b)
	data := t.Data()

	var dummy T
	if _, ok := any(dummy).(float32); !ok {
		panic("Randn only supports float32")
	}

	dataF32 := any(data).([]float32)
	for i := 0; i < len(dataF32); i += 2 {
		u1 := rand.Float64() //nolint:gosec // G404: math/rand is intentional for reproducible init
		u2 := rand.Float64() //nolint:gosec // G404: math/rand is intentional for reproducible init
		z0 := math.Sqrt(-2.0*math.Log(u1)) * math.Cos(2.0*math.Pi*u2)
		z1 := math.Sqrt(-2.0*math.Log(u1)) * math.Sin(2.0*math.Pi*u2)
		dataF32[i] = float32(z0)
		if i+1 < len(dataF32) {
			dataF32[i+1] = float32(z1)
		}
	}
	return t
}

// Rand creates a tensor with random values uniformly distributed in [0, 1).
// Float32 only.
func Rand[T DType, B Backend](shape Shape, b B) *Tensor[T, B] {
	t := Zeros[T, B](shape, b)
	data := t.Data()

	var dummy T
	if _, ok := any(dummy).(float32); !ok {
		panic("Rand only supports float32")
	}

	dataF32 := any(data).([]float32)
	for i := range dataF32 {
		dataF32[i] = float32(rand.Float64()) //nolint:gosec // G404: math/rand is intentional
	}
	return t
}

// oneValue returns the multiplicative identity for the element type.
func oneValue[T DType]() T {
	var dummy T
	var one any
	switch any(dummy).(type) {
	case float32:
		one = float32(1)
	case int32:
		one = int32(1)
	case uint8:
		one = uint8(1)
	case bool:
		one = true
	}
	return one.(T)
}
