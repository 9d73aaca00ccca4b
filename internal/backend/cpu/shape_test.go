package cpu

import (
	"testing"

	"github.com/tnt-ml/tnt/internal/tensor"
)

func TestTranspose2D(t *testing.T) {
	x := fromSlice(t, []float32{1, 2, 3, 4, 5, 6}, tensor.Shape{2, 3})

	xT := x.T()
	if !xT.Shape().Equal(tensor.Shape{3, 2}) {
		t.Fatalf("transpose shape = %v, want [3 2]", xT.Shape())
	}
	assertFloats(t, xT.Data(), []float32{1, 4, 2, 5, 3, 6}, 0, "transpose")
}

func TestTransposePermutation(t *testing.T) {
	// [2, 1, 3] -> axes (1, 2, 0) -> [1, 3, 2]
	x := fromSlice(t, []float32{1, 2, 3, 4, 5, 6}, tensor.Shape{2, 1, 3})

	perm := x.Transpose(1, 2, 0)
	if !perm.Shape().Equal(tensor.Shape{1, 3, 2}) {
		t.Fatalf("permuted shape = %v, want [1 3 2]", perm.Shape())
	}
	assertFloats(t, perm.Data(), []float32{1, 4, 2, 5, 3, 6}, 0, "permutation")
}

func TestTransposeRoundTrip(t *testing.T) {
	// The attention pattern: split heads, transpose, transpose back.
	x := fromSlice(t, []float32{
		1, 2, 3, 4, 5, 6, 7, 8,
		9, 10, 11, 12, 13, 14, 15, 16,
	}, tensor.Shape{2, 2, 2, 2})

	back := x.Transpose(0, 2, 1, 3).Transpose(0, 2, 1, 3)
	assertFloats(t, back.Data(), x.Data(), 0, "round trip")
}

func TestReshapeView(t *testing.T) {
	x := fromSlice(t, []float32{1, 2, 3, 4, 5, 6}, tensor.Shape{2, 3})

	y := x.Reshape(3, 2)
	if !y.Shape().Equal(tensor.Shape{3, 2}) {
		t.Fatalf("reshape shape = %v, want [3 2]", y.Shape())
	}
	assertFloats(t, y.Data(), []float32{1, 2, 3, 4, 5, 6}, 0, "reshape preserves order")
}

func TestSqueezeUnsqueeze(t *testing.T) {
	x := fromSlice(t, []float32{1, 2, 3}, tensor.Shape{3})

	up := x.Unsqueeze(0)
	if !up.Shape().Equal(tensor.Shape{1, 3}) {
		t.Fatalf("unsqueeze shape = %v, want [1 3]", up.Shape())
	}

	down := up.Squeeze(0)
	if !down.Shape().Equal(tensor.Shape{3}) {
		t.Fatalf("squeeze shape = %v, want [3]", down.Shape())
	}

	neg := x.Unsqueeze(-1)
	if !neg.Shape().Equal(tensor.Shape{3, 1}) {
		t.Fatalf("unsqueeze(-1) shape = %v, want [3 1]", neg.Shape())
	}
}

func TestPad2D(t *testing.T) {
	x := fromSlice(t, []float32{1, 2, 3, 4}, tensor.Shape{1, 1, 2, 2})

	padded := x.Pad2D(1, 1)
	if !padded.Shape().Equal(tensor.Shape{1, 1, 3, 3}) {
		t.Fatalf("pad shape = %v, want [1 1 3 3]", padded.Shape())
	}
	assertFloats(t, padded.Data(), []float32{
		1, 2, 0,
		3, 4, 0,
		0, 0, 0,
	}, 0, "bottom/right zero pad")
}

func TestCrop2D(t *testing.T) {
	x := fromSlice(t, []float32{
		1, 2, 3,
		4, 5, 6,
		7, 8, 9,
	}, tensor.Shape{1, 1, 3, 3})

	cropped := x.Crop2D(2, 2)
	if !cropped.Shape().Equal(tensor.Shape{1, 1, 2, 2}) {
		t.Fatalf("crop shape = %v, want [1 1 2 2]", cropped.Shape())
	}
	assertFloats(t, cropped.Data(), []float32{1, 2, 4, 5}, 0, "top-left crop")
}

func TestPadCropRoundTrip(t *testing.T) {
	x := fromSlice(t, []float32{1, 2, 3, 4}, tensor.Shape{1, 1, 2, 2})

	back := x.Pad2D(2, 2).Crop2D(2, 2)
	assertFloats(t, back.Data(), x.Data(), 0, "pad then crop")
}
