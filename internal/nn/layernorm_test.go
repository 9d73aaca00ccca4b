package nn

import (
	"math"
	"testing"

	"github.com/tnt-ml/tnt/internal/tensor"
)

func TestLayerNormBasic(t *testing.T) {
	backend := testBackend()
	layernorm := NewLayerNorm[Backend](3, 1e-5, backend)

	// Input: [2, 3] = [[1, 2, 3], [4, 5, 6]]
	input := fromSlice(t, []float32{1, 2, 3, 4, 5, 6}, tensor.Shape{2, 3}, backend)
	output := layernorm.Forward(input)

	// For row [1, 2, 3]: mean=2, var=2/3, normalized ≈ [-1.2247, 0, 1.2247].
	// Row [4, 5, 6] has the same centered values, so the same output.
	expected := []float32{-1.2247, 0, 1.2247, -1.2247, 0, 1.2247}
	data := output.Data()
	for i, exp := range expected {
		if math.Abs(float64(data[i]-exp)) > 0.01 {
			t.Errorf("element %d = %v, want %v", i, data[i], exp)
		}
	}

	if !output.Shape().Equal(input.Shape()) {
		t.Errorf("LayerNorm changed shape: %v -> %v", input.Shape(), output.Shape())
	}
}

func TestLayerNormRowStatistics(t *testing.T) {
	backend := testBackend()
	layernorm := NewLayerNorm[Backend](8, 1e-5, backend)

	input := tensor.Randn[float32](tensor.Shape{4, 8}, backend)
	output := layernorm.Forward(input)

	// Each normalized row should have mean ~0 and variance ~1.
	data := output.Data()
	for row := 0; row < 4; row++ {
		mean, sq := float32(0), float32(0)
		for col := 0; col < 8; col++ {
			v := data[row*8+col]
			mean += v
			sq += v * v
		}
		mean /= 8
		variance := sq/8 - mean*mean

		if math.Abs(float64(mean)) > 1e-4 {
			t.Errorf("row %d mean = %v, want ~0", row, mean)
		}
		if math.Abs(float64(variance)-1) > 1e-2 {
			t.Errorf("row %d variance = %v, want ~1", row, variance)
		}
	}
}

func TestLayerNormGammaBeta(t *testing.T) {
	backend := testBackend()
	layernorm := NewLayerNorm[Backend](2, 1e-5, backend)

	// gamma=2, beta=10 rescales the normalized output.
	copy(layernorm.Gamma.Tensor().Data(), []float32{2, 2})
	copy(layernorm.Beta.Tensor().Data(), []float32{10, 10})

	input := fromSlice(t, []float32{-1, 1}, tensor.Shape{1, 2}, backend)
	output := layernorm.Forward(input)

	// normalized = [-1, 1] (mean 0, var 1), scaled: [8, 12]
	data := output.Data()
	if math.Abs(float64(data[0]-8)) > 0.01 || math.Abs(float64(data[1]-12)) > 0.01 {
		t.Errorf("output = %v, want [8 12]", data)
	}
}

func TestLayerNorm3DInput(t *testing.T) {
	backend := testBackend()
	layernorm := NewLayerNorm[Backend](4, 1e-5, backend)

	input := tensor.Randn[float32](tensor.Shape{2, 3, 4}, backend)
	output := layernorm.Forward(input)

	if !output.Shape().Equal(tensor.Shape{2, 3, 4}) {
		t.Errorf("3D LayerNorm shape = %v, want [2 3 4]", output.Shape())
	}
}
