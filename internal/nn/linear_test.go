package nn

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tnt-ml/tnt/internal/tensor"
)

func TestLinearForwardKnownWeights(t *testing.T) {
	backend := testBackend()
	layer := NewLinear[Backend](3, 2, backend)

	// Overwrite the random init with known values.
	// W = [[1, 0, 1], [0, 2, 0]], b = [1, -1]
	copy(layer.Weight().Tensor().Data(), []float32{1, 0, 1, 0, 2, 0})
	copy(layer.Bias().Tensor().Data(), []float32{1, -1})

	input := fromSlice(t, []float32{1, 2, 3}, tensor.Shape{1, 3}, backend)
	output := layer.Forward(input)

	require.Equal(t, tensor.Shape{1, 2}, output.Shape())
	// y0 = 1*1 + 0*2 + 1*3 + 1 = 5, y1 = 0*1 + 2*2 + 0*3 - 1 = 3
	assert.InDelta(t, 5.0, output.Data()[0], 1e-5)
	assert.InDelta(t, 3.0, output.Data()[1], 1e-5)
}

func TestLinearOutputShape(t *testing.T) {
	backend := testBackend()
	layer := NewLinear[Backend](8, 4, backend)

	input := tensor.Randn[float32](tensor.Shape{16, 8}, backend)
	output := layer.Forward(input)

	assert.Equal(t, tensor.Shape{16, 4}, output.Shape())
}

func TestLinearNoBias(t *testing.T) {
	backend := testBackend()
	layer := NewLinearNoBias[Backend](4, 4, backend)

	assert.Nil(t, layer.Bias())
	assert.Len(t, layer.Parameters(), 1)

	// Zero input maps to zero output without a bias.
	input := tensor.Zeros[float32](tensor.Shape{2, 4}, backend)
	output := layer.Forward(input)
	for _, v := range output.Data() {
		assert.Zero(t, v)
	}
}

func TestLinearRejectsWrongFeatureCount(t *testing.T) {
	backend := testBackend()
	layer := NewLinear[Backend](3, 2, backend)

	input := tensor.Randn[float32](tensor.Shape{1, 4}, backend)
	assert.Panics(t, func() { layer.Forward(input) })
}

func TestLinearParameters(t *testing.T) {
	backend := testBackend()
	layer := NewLinear[Backend](3, 2, backend)

	params := layer.Parameters()
	require.Len(t, params, 2)
	assert.Equal(t, "weight", params[0].Name())
	assert.Equal(t, "bias", params[1].Name())
	assert.Equal(t, 6, params[0].NumElements())
	assert.Equal(t, 2, params[1].NumElements())
}
