package cpu

import (
	"testing"

	"github.com/tnt-ml/tnt/internal/tensor"
)

func TestConv2DSumKernel(t *testing.T) {
	backend := New()

	// 3x3 input, single channel; 2x2 kernel of ones sums each window.
	input := fromSlice(t, []float32{
		1, 2, 3,
		4, 5, 6,
		7, 8, 9,
	}, tensor.Shape{1, 1, 3, 3})
	kernel := fromSlice(t, []float32{1, 1, 1, 1}, tensor.Shape{1, 1, 2, 2})

	out := tensor.New[float32](backend.Conv2D(input.Raw(), kernel.Raw(), 1, 0), backend)
	if !out.Shape().Equal(tensor.Shape{1, 1, 2, 2}) {
		t.Fatalf("conv shape = %v, want [1 1 2 2]", out.Shape())
	}
	assertFloats(t, out.Data(), []float32{12, 16, 24, 28}, 1e-5, "window sums")
}

func TestConv2DStride(t *testing.T) {
	backend := New()

	// 4x4 input, 2x2 ones kernel, stride 2: four disjoint quadrant sums.
	input := fromSlice(t, []float32{
		1, 1, 2, 2,
		1, 1, 2, 2,
		3, 3, 4, 4,
		3, 3, 4, 4,
	}, tensor.Shape{1, 1, 4, 4})
	kernel := fromSlice(t, []float32{1, 1, 1, 1}, tensor.Shape{1, 1, 2, 2})

	out := tensor.New[float32](backend.Conv2D(input.Raw(), kernel.Raw(), 2, 0), backend)
	if !out.Shape().Equal(tensor.Shape{1, 1, 2, 2}) {
		t.Fatalf("conv shape = %v, want [1 1 2 2]", out.Shape())
	}
	assertFloats(t, out.Data(), []float32{4, 8, 12, 16}, 1e-5, "quadrant sums")
}

func TestConv2DPadding(t *testing.T) {
	backend := New()

	// 1x1 kernel with padding 1 surrounds the input with zeros.
	input := fromSlice(t, []float32{5}, tensor.Shape{1, 1, 1, 1})
	kernel := fromSlice(t, []float32{1}, tensor.Shape{1, 1, 1, 1})

	out := tensor.New[float32](backend.Conv2D(input.Raw(), kernel.Raw(), 1, 1), backend)
	if !out.Shape().Equal(tensor.Shape{1, 1, 3, 3}) {
		t.Fatalf("conv shape = %v, want [1 1 3 3]", out.Shape())
	}
	assertFloats(t, out.Data(), []float32{
		0, 0, 0,
		0, 5, 0,
		0, 0, 0,
	}, 1e-5, "padded conv")
}

func TestConv2DMultiChannel(t *testing.T) {
	backend := New()

	// Two input channels, kernel sums both: output = ch0 + ch1.
	input := fromSlice(t, []float32{
		1, 2, 3, 4, // channel 0
		10, 20, 30, 40, // channel 1
	}, tensor.Shape{1, 2, 2, 2})
	kernel := fromSlice(t, []float32{1, 1}, tensor.Shape{1, 2, 1, 1})

	out := tensor.New[float32](backend.Conv2D(input.Raw(), kernel.Raw(), 1, 0), backend)
	assertFloats(t, out.Data(), []float32{11, 22, 33, 44}, 1e-5, "channel sum")
}
