package nn

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/tnt-ml/tnt/internal/tensor"
)

func TestGeluKnownValues(t *testing.T) {
	backend := testBackend()

	inputs := []float32{-2, -1, 0, 0.5, 1, 3}
	x := fromSlice(t, inputs, tensor.Shape{6}, backend)

	out := Gelu(x).Data()
	for i, v := range inputs {
		want := geluRef(v)
		if math.Abs(float64(out[i]-want)) > 1e-4 {
			t.Errorf("gelu(%v) = %v, want %v", v, out[i], want)
		}
	}
}

func TestGeluZeroAtZero(t *testing.T) {
	backend := testBackend()
	x := fromSlice(t, []float32{0}, tensor.Shape{1}, backend)

	assert.Zero(t, Gelu(x).Data()[0])
}

func TestMlpShape2D(t *testing.T) {
	backend := testBackend()
	mlp := NewMlp[Backend](8, 32, 0, backend)

	input := tensor.Randn[float32](tensor.Shape{4, 8}, backend)
	output := mlp.Forward(input)

	assert.Equal(t, tensor.Shape{4, 8}, output.Shape())
}

func TestMlpShape3D(t *testing.T) {
	backend := testBackend()
	mlp := NewMlp[Backend](8, 32, 0, backend)

	input := tensor.Randn[float32](tensor.Shape{2, 5, 8}, backend)
	output := mlp.Forward(input)

	assert.Equal(t, tensor.Shape{2, 5, 8}, output.Shape())
}

func TestMlpParameters(t *testing.T) {
	backend := testBackend()
	mlp := NewMlp[Backend](4, 16, 0, backend)

	// Two linear layers, weight+bias each.
	assert.Len(t, mlp.Parameters(), 4)
}

func TestReLUClampsNegatives(t *testing.T) {
	backend := testBackend()
	relu := NewReLU[Backend]()

	x := fromSlice(t, []float32{-2, -0.5, 0, 0.5, 2}, tensor.Shape{5}, backend)
	out := relu.Forward(x)

	assert.Equal(t, []float32{0, 0, 0, 0.5, 2}, out.Data())
}

func TestSigmoidKnownValues(t *testing.T) {
	backend := testBackend()
	sigmoid := NewSigmoid[Backend]()

	x := fromSlice(t, []float32{-10, -1, 0, 1, 10}, tensor.Shape{5}, backend)
	out := sigmoid.Forward(x).Data()

	assert.InDelta(t, 0.0, out[0], 1e-4)
	assert.InDelta(t, 0.26894, out[1], 1e-4)
	assert.InDelta(t, 0.5, out[2], 1e-6)
	assert.InDelta(t, 0.73106, out[3], 1e-4)
	assert.InDelta(t, 1.0, out[4], 1e-4)
}
