package cpu

import (
	"testing"

	"github.com/tnt-ml/tnt/internal/tensor"
)

func TestMatMul2D(t *testing.T) {
	// [2, 3] @ [3, 2]
	a := fromSlice(t, []float32{1, 2, 3, 4, 5, 6}, tensor.Shape{2, 3})
	b := fromSlice(t, []float32{7, 8, 9, 10, 11, 12}, tensor.Shape{3, 2})

	c := a.MatMul(b)
	if !c.Shape().Equal(tensor.Shape{2, 2}) {
		t.Fatalf("matmul shape = %v, want [2 2]", c.Shape())
	}
	// Row 0: 1*7+2*9+3*11 = 58, 1*8+2*10+3*12 = 64
	// Row 1: 4*7+5*9+6*11 = 139, 4*8+5*10+6*12 = 154
	assertFloats(t, c.Data(), []float32{58, 64, 139, 154}, 1e-5, "matmul")
}

func TestMatMulIdentity(t *testing.T) {
	a := fromSlice(t, []float32{1, 2, 3, 4}, tensor.Shape{2, 2})
	eye := fromSlice(t, []float32{1, 0, 0, 1}, tensor.Shape{2, 2})

	assertFloats(t, a.MatMul(eye).Data(), []float32{1, 2, 3, 4}, 0, "A @ I")
	assertFloats(t, eye.MatMul(a).Data(), []float32{1, 2, 3, 4}, 0, "I @ A")
}

func TestMatMulDimensionMismatchPanics(t *testing.T) {
	a := fromSlice(t, []float32{1, 2, 3, 4}, tensor.Shape{2, 2})
	b := fromSlice(t, []float32{1, 2, 3}, tensor.Shape{3, 1})

	defer func() {
		if recover() == nil {
			t.Error("mismatched inner dims should panic")
		}
	}()
	a.MatMul(b)
}

func TestBatchMatMul3D(t *testing.T) {
	// Two independent [2, 2] @ [2, 2] multiplications.
	a := fromSlice(t, []float32{
		1, 2, 3, 4, // batch 0
		1, 0, 0, 1, // batch 1: identity
	}, tensor.Shape{2, 2, 2})
	b := fromSlice(t, []float32{
		5, 6, 7, 8, // batch 0
		9, 10, 11, 12, // batch 1
	}, tensor.Shape{2, 2, 2})

	c := a.BatchMatMul(b)
	if !c.Shape().Equal(tensor.Shape{2, 2, 2}) {
		t.Fatalf("batchmatmul shape = %v, want [2 2 2]", c.Shape())
	}
	assertFloats(t, c.Data(), []float32{
		19, 22, 43, 50, // [1 2;3 4] @ [5 6;7 8]
		9, 10, 11, 12, // identity passes batch 1 through
	}, 1e-5, "batchmatmul")
}

func TestBatchMatMul4D(t *testing.T) {
	// [1, 2, 1, 3] @ [1, 2, 3, 1]: per-head dot products.
	a := fromSlice(t, []float32{1, 2, 3, 4, 5, 6}, tensor.Shape{1, 2, 1, 3})
	b := fromSlice(t, []float32{1, 1, 1, 2, 2, 2}, tensor.Shape{1, 2, 3, 1})

	c := a.BatchMatMul(b)
	if !c.Shape().Equal(tensor.Shape{1, 2, 1, 1}) {
		t.Fatalf("batchmatmul shape = %v, want [1 2 1 1]", c.Shape())
	}
	assertFloats(t, c.Data(), []float32{6, 30}, 1e-5, "batchmatmul 4D")
}
