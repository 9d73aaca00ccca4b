package nn

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tnt-ml/tnt/internal/tensor"
)

func TestScaledDotProductAttentionShapes(t *testing.T) {
	backend := testBackend()

	q := tensor.Randn[float32](tensor.Shape{2, 4, 5, 8}, backend)
	k := tensor.Randn[float32](tensor.Shape{2, 4, 5, 8}, backend)
	v := tensor.Randn[float32](tensor.Shape{2, 4, 5, 8}, backend)

	output, weights := ScaledDotProductAttention(q, k, v, 0)

	assert.Equal(t, tensor.Shape{2, 4, 5, 8}, output.Shape())
	assert.Equal(t, tensor.Shape{2, 4, 5, 5}, weights.Shape())
}

func TestScaledDotProductAttentionWeightsNormalized(t *testing.T) {
	backend := testBackend()

	q := tensor.Randn[float32](tensor.Shape{1, 2, 3, 4}, backend)
	k := tensor.Randn[float32](tensor.Shape{1, 2, 3, 4}, backend)
	v := tensor.Randn[float32](tensor.Shape{1, 2, 3, 4}, backend)

	_, weights := ScaledDotProductAttention(q, k, v, 0)

	// Every attention row is a distribution over keys.
	data := weights.Data()
	rows := weights.NumElements() / 3
	for row := 0; row < rows; row++ {
		sum := float32(0)
		for col := 0; col < 3; col++ {
			sum += data[row*3+col]
		}
		require.InDelta(t, 1.0, sum, 1e-5, "attention row %d", row)
	}
}

func TestScaledDotProductAttentionUniformKeys(t *testing.T) {
	backend := testBackend()

	// Identical keys make attention uniform, so the output is the mean
	// of the values.
	q := tensor.Randn[float32](tensor.Shape{1, 1, 1, 2}, backend)
	k := tensor.Ones[float32](tensor.Shape{1, 1, 3, 2}, backend)
	v, err := tensor.FromSlice([]float32{0, 0, 3, 3, 6, 6}, tensor.Shape{1, 1, 3, 2}, backend)
	require.NoError(t, err)

	output, _ := ScaledDotProductAttention(q, k, v, 0)

	for _, got := range output.Data() {
		assert.InDelta(t, 3.0, got, 1e-4)
	}
}

func TestMultiHeadAttentionShape(t *testing.T) {
	backend := testBackend()
	mha := NewMultiHeadAttention[Backend](16, 4, 0, 0, backend)

	x := tensor.Randn[float32](tensor.Shape{2, 6, 16}, backend)
	output := mha.Forward(x, x, x)

	assert.Equal(t, tensor.Shape{2, 6, 16}, output.Shape())
}

func TestMultiHeadAttentionFiniteOutput(t *testing.T) {
	backend := testBackend()
	mha := NewMultiHeadAttention[Backend](8, 2, 0, 0, backend)

	x := tensor.Randn[float32](tensor.Shape{1, 4, 8}, backend)
	output := mha.Forward(x, x, x)

	for i, v := range output.Data() {
		if math.IsNaN(float64(v)) || math.IsInf(float64(v), 0) {
			t.Fatalf("element %d is not finite: %v", i, v)
		}
	}
}

func TestMultiHeadAttentionHeadDivisibility(t *testing.T) {
	backend := testBackend()

	assert.Panics(t, func() {
		NewMultiHeadAttention[Backend](10, 3, 0, 0, backend)
	})
}

func TestMultiHeadAttentionParameters(t *testing.T) {
	backend := testBackend()
	mha := NewMultiHeadAttention[Backend](8, 2, 0, 0, backend)

	// Three bias-free QKV projections plus weight+bias of the output
	// projection.
	params := mha.Parameters()
	assert.Len(t, params, 5)
}
