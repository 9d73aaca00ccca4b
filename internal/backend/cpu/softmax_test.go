package cpu

import (
	"math"
	"testing"

	"github.com/tnt-ml/tnt/internal/tensor"
)

func TestSoftmaxRowsSumToOne(t *testing.T) {
	x := fromSlice(t, []float32{
		1, 2, 3, 4,
		-1, 0, 1, 2,
		100, 100, 100, 100,
	}, tensor.Shape{3, 4})

	out := x.Softmax(-1)
	data := out.Data()

	for row := 0; row < 3; row++ {
		sum := float32(0)
		for col := 0; col < 4; col++ {
			v := data[row*4+col]
			if v < 0 || v > 1 {
				t.Errorf("softmax[%d,%d] = %v outside [0, 1]", row, col, v)
			}
			sum += v
		}
		if math.Abs(float64(sum-1)) > 1e-5 {
			t.Errorf("row %d sums to %v, want 1", row, sum)
		}
	}
}

func TestSoftmaxKnownValues(t *testing.T) {
	x := fromSlice(t, []float32{0, float32(math.Log(3))}, tensor.Shape{1, 2})

	// softmax(0, ln 3) = (1/4, 3/4)
	out := x.Softmax(-1)
	assertFloats(t, out.Data(), []float32{0.25, 0.75}, 1e-5, "softmax")
}

func TestSoftmaxUniform(t *testing.T) {
	x := fromSlice(t, []float32{7, 7, 7, 7}, tensor.Shape{4})

	out := x.Softmax(0)
	assertFloats(t, out.Data(), []float32{0.25, 0.25, 0.25, 0.25}, 1e-6, "uniform softmax")
}

func TestSoftmaxMiddleDim(t *testing.T) {
	// Softmax over dim 1 of [1, 2, 2]: columns normalize across the
	// middle dimension.
	x := fromSlice(t, []float32{
		0, 0,
		0, float32(math.Log(3)),
	}, tensor.Shape{1, 2, 2})

	out := x.Softmax(1)
	assertFloats(t, out.Data(), []float32{0.5, 0.25, 0.5, 0.75}, 1e-5, "softmax dim 1")
}

func TestSoftmaxNumericalStability(t *testing.T) {
	// Large logits must not overflow to NaN.
	x := fromSlice(t, []float32{1000, 1001}, tensor.Shape{1, 2})

	out := x.Softmax(-1)
	for i, v := range out.Data() {
		if math.IsNaN(float64(v)) {
			t.Errorf("element %d is NaN", i)
		}
	}
}
