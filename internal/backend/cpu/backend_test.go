package cpu

import (
	"testing"

	"github.com/tnt-ml/tnt/internal/tensor"
)

func fromSlice(t *testing.T, data []float32, shape tensor.Shape) *tensor.Tensor[float32, *Backend] {
	t.Helper()
	x, err := tensor.FromSlice(data, shape, New())
	if err != nil {
		t.Fatalf("FromSlice failed: %v", err)
	}
	return x
}

func assertFloats(t *testing.T, got, want []float32, tol float32, msg string) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("%s: length %d, want %d", msg, len(got), len(want))
	}
	for i := range want {
		d := got[i] - want[i]
		if d < -tol || d > tol {
			t.Errorf("%s: element %d = %v, want %v", msg, i, got[i], want[i])
		}
	}
}

func TestAddSameShape(t *testing.T) {
	a := fromSlice(t, []float32{1, 2, 3, 4}, tensor.Shape{2, 2})
	b := fromSlice(t, []float32{10, 20, 30, 40}, tensor.Shape{2, 2})

	c := a.Add(b)
	assertFloats(t, c.Data(), []float32{11, 22, 33, 44}, 0, "add")
}

func TestSubMulDiv(t *testing.T) {
	a := fromSlice(t, []float32{4, 9, 16, 25}, tensor.Shape{4})
	b := fromSlice(t, []float32{2, 3, 4, 5}, tensor.Shape{4})

	assertFloats(t, a.Sub(b).Data(), []float32{2, 6, 12, 20}, 0, "sub")
	assertFloats(t, a.Mul(b).Data(), []float32{8, 27, 64, 125}, 0, "mul")
	assertFloats(t, a.Div(b).Data(), []float32{2, 3, 4, 5}, 0, "div")
}

func TestAddBroadcastRow(t *testing.T) {
	// [2, 3] + [1, 3]: the row vector is added to each row.
	a := fromSlice(t, []float32{1, 2, 3, 4, 5, 6}, tensor.Shape{2, 3})
	b := fromSlice(t, []float32{10, 20, 30}, tensor.Shape{1, 3})

	c := a.Add(b)
	if !c.Shape().Equal(tensor.Shape{2, 3}) {
		t.Fatalf("broadcast add shape = %v, want [2 3]", c.Shape())
	}
	assertFloats(t, c.Data(), []float32{11, 22, 33, 14, 25, 36}, 0, "broadcast add")
}

func TestMulBroadcastBothSides(t *testing.T) {
	// [2, 1] * [1, 3] -> [2, 3] outer product.
	a := fromSlice(t, []float32{2, 3}, tensor.Shape{2, 1})
	b := fromSlice(t, []float32{1, 10, 100}, tensor.Shape{1, 3})

	c := a.Mul(b)
	assertFloats(t, c.Data(), []float32{2, 20, 200, 3, 30, 300}, 0, "broadcast mul")
}

func TestAddShapeMismatchPanics(t *testing.T) {
	a := fromSlice(t, []float32{1, 2, 3, 4}, tensor.Shape{2, 2})
	b := fromSlice(t, []float32{1, 2, 3, 4, 5, 6}, tensor.Shape{2, 3})

	defer func() {
		if recover() == nil {
			t.Error("incompatible shapes should panic")
		}
	}()
	a.Add(b)
}

func TestScalarOps(t *testing.T) {
	x := fromSlice(t, []float32{1, 2, 3}, tensor.Shape{3})

	assertFloats(t, x.MulScalar(2).Data(), []float32{2, 4, 6}, 0, "mul scalar")
	assertFloats(t, x.AddScalar(0.5).Data(), []float32{1.5, 2.5, 3.5}, 0, "add scalar")
	assertFloats(t, x.DivScalar(2).Data(), []float32{0.5, 1, 1.5}, 0, "div scalar")
}

func TestDivScalarZeroPanics(t *testing.T) {
	x := fromSlice(t, []float32{1}, tensor.Shape{1})

	defer func() {
		if recover() == nil {
			t.Error("division by zero scalar should panic")
		}
	}()
	x.DivScalar(0)
}

func TestBackendMetadata(t *testing.T) {
	b := New()
	if b.Name() != "CPU" {
		t.Errorf("Name = %q, want CPU", b.Name())
	}
	if b.Device() != tensor.CPU {
		t.Errorf("Device = %v, want CPU", b.Device())
	}
}
