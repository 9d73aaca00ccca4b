package cpu

import (
	"testing"

	"github.com/tnt-ml/tnt/internal/tensor"
)

func TestSum(t *testing.T) {
	x := fromSlice(t, []float32{1, 2, 3, 4, 5, 6}, tensor.Shape{2, 3})

	out := x.Sum()
	if !out.Shape().Equal(tensor.Shape{1}) {
		t.Fatalf("sum shape = %v, want [1]", out.Shape())
	}
	assertFloats(t, out.Data(), []float32{21}, 1e-5, "sum")
}

func TestSumDim(t *testing.T) {
	x := fromSlice(t, []float32{1, 2, 3, 4, 5, 6}, tensor.Shape{2, 3})

	rows := x.SumDim(1, false)
	if !rows.Shape().Equal(tensor.Shape{2}) {
		t.Fatalf("sumdim shape = %v, want [2]", rows.Shape())
	}
	assertFloats(t, rows.Data(), []float32{6, 15}, 1e-5, "row sums")

	cols := x.SumDim(0, true)
	if !cols.Shape().Equal(tensor.Shape{1, 3}) {
		t.Fatalf("sumdim keepdim shape = %v, want [1 3]", cols.Shape())
	}
	assertFloats(t, cols.Data(), []float32{5, 7, 9}, 1e-5, "col sums")
}

func TestMeanDim(t *testing.T) {
	x := fromSlice(t, []float32{1, 2, 3, 4, 5, 6}, tensor.Shape{2, 3})

	mean := x.MeanDim(-1, true)
	if !mean.Shape().Equal(tensor.Shape{2, 1}) {
		t.Fatalf("meandim shape = %v, want [2 1]", mean.Shape())
	}
	assertFloats(t, mean.Data(), []float32{2, 5}, 1e-5, "row means")
}

func TestMeanDimMiddle(t *testing.T) {
	// Mean over the token dimension of [2, 2, 2], as the classifier
	// pools patch tokens.
	x := fromSlice(t, []float32{
		1, 2, 3, 4,
		10, 20, 30, 40,
	}, tensor.Shape{2, 2, 2})

	mean := x.MeanDim(1, false)
	if !mean.Shape().Equal(tensor.Shape{2, 2}) {
		t.Fatalf("meandim shape = %v, want [2 2]", mean.Shape())
	}
	assertFloats(t, mean.Data(), []float32{2, 3, 20, 30}, 1e-5, "token pool")
}

func TestArgmax(t *testing.T) {
	x := fromSlice(t, []float32{
		0.1, 0.7, 0.2,
		0.5, 0.2, 0.3,
	}, tensor.Shape{2, 3})

	idx := x.Argmax(-1)
	if !idx.Shape().Equal(tensor.Shape{2}) {
		t.Fatalf("argmax shape = %v, want [2]", idx.Shape())
	}
	got := idx.Data()
	if got[0] != 1 || got[1] != 0 {
		t.Errorf("argmax = %v, want [1 0]", got)
	}
}

func TestArgmaxLeadingDim(t *testing.T) {
	x := fromSlice(t, []float32{
		1, 9,
		5, 2,
	}, tensor.Shape{2, 2})

	idx := x.Argmax(0)
	got := idx.Data()
	if got[0] != 1 || got[1] != 0 {
		t.Errorf("argmax dim 0 = %v, want [1 0]", got)
	}
}
