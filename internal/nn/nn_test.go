package nn

import (
	"math"
	"testing"

	"github.com/tnt-ml/tnt/internal/backend/cpu"
	"github.com/tnt-ml/tnt/internal/tensor"
)

// Backend is the backend type used throughout the nn tests.
type Backend = *cpu.Backend

func testBackend() Backend {
	return cpu.New()
}

func fromSlice(t *testing.T, data []float32, shape tensor.Shape, backend Backend) *tensor.Tensor[float32, Backend] {
	t.Helper()
	x, err := tensor.FromSlice(data, shape, backend)
	if err != nil {
		t.Fatalf("FromSlice failed: %v", err)
	}
	return x
}

// geluRef computes GELU (tanh approximation) for testing.
func geluRef(x float32) float32 {
	sqrt2pi := float32(math.Sqrt(2.0 / math.Pi))
	c := float32(0.044715)
	inner := sqrt2pi * (x + c*x*x*x)
	return 0.5 * x * (1.0 + float32(math.Tanh(float64(inner))))
}
