package cpu

import (
	"fmt"

	"github.com/tnt-ml/tnt/internal/parallel"
	"github.com/tnt-ml/tnt/internal/tensor"
)

// MatMul performs 2D matrix multiplication: (M, K) @ (K, N) -> (M, N).
// Rows of the output are computed in parallel.
func (c *Backend) MatMul(a, b *tensor.RawTensor) *tensor.RawTensor {
	aShape := a.Shape()
	bShape := b.Shape()

	if len(aShape) != 2 || len(bShape) != 2 {
		panic(fmt.Sprintf("matmul: only 2D tensors supported, got %dD and %dD", len(aShape), len(bShape)))
	}
	if a.DType() != tensor.Float32 || b.DType() != tensor.Float32 {
		panic(fmt.Sprintf("matmul: unsupported dtypes %s, %s", a.DType(), b.DType()))
	}

	m, k := aShape[0], aShape[1]
	kAlt, n := bShape[0], bShape[1]

	if k != kAlt {
		panic(fmt.Sprintf("matmul: shape mismatch [%d,%d] @ [%d,%d]", m, k, kAlt, n))
	}

	result, err := tensor.NewRaw(tensor.Shape{m, n}, a.DType(), c.device)
	if err != nil {
		panic(fmt.Sprintf("matmul: failed to create result tensor: %v", err))
	}

	matmulFloat32(result.AsFloat32(), a.AsFloat32(), b.AsFloat32(), m, k, n)
	return result
}

// matmulFloat32 computes C[i,j] = sum_k A[i,k] * B[k,j].
// The k-loop is innermost over contiguous rows of B for cache locality.
func matmulFloat32(dst, a, b []float32, m, k, n int) {
	parallel.For(m, func(i int) {
		row := dst[i*n : (i+1)*n]
		for j := range row {
			row[j] = 0
		}
		for kIdx := 0; kIdx < k; kIdx++ {
			aik := a[i*k+kIdx]
			if aik == 0 {
				continue
			}
			bRow := b[kIdx*n : (kIdx+1)*n]
			for j, bv := range bRow {
				row[j] += aik * bv
			}
		}
	})
}

// BatchMatMul performs batched matrix multiplication over the two trailing
// dimensions of 3D/4D tensors.
//
// For 3D: [B, M, K] @ [B, K, N] -> [B, M, N]
// For 4D: [B, H, M, K] @ [B, H, K, N] -> [B, H, M, N]
func (c *Backend) BatchMatMul(a, b *tensor.RawTensor) *tensor.RawTensor {
	aShape := a.Shape()
	bShape := b.Shape()
	ndim := len(aShape)

	if ndim < 3 {
		panic(fmt.Sprintf("batchmatmul: inputs must be at least 3D, got %dD", ndim))
	}
	if len(bShape) != ndim {
		panic(fmt.Sprintf("batchmatmul: dimension mismatch, got %dD and %dD", ndim, len(bShape)))
	}
	for i := 0; i < ndim-2; i++ {
		if aShape[i] != bShape[i] {
			panic(fmt.Sprintf("batchmatmul: batch dimension mismatch at dim %d: %d vs %d", i, aShape[i], bShape[i]))
		}
	}

	m := aShape[ndim-2]
	k := aShape[ndim-1]
	if bShape[ndim-2] != k {
		panic(fmt.Sprintf("batchmatmul: inner dimension mismatch: %d vs %d", k, bShape[ndim-2]))
	}
	n := bShape[ndim-1]

	batchSize := 1
	for i := 0; i < ndim-2; i++ {
		batchSize *= aShape[i]
	}

	outShape := make(tensor.Shape, ndim)
	copy(outShape, aShape[:ndim-2])
	outShape[ndim-2] = m
	outShape[ndim-1] = n

	result, err := tensor.NewRaw(outShape, a.DType(), c.device)
	if err != nil {
		panic(fmt.Sprintf("batchmatmul: failed to create result tensor: %v", err))
	}

	dst := result.AsFloat32()
	srcA := a.AsFloat32()
	srcB := b.AsFloat32()

	parallel.For(batchSize, func(batch int) {
		aOff := batch * m * k
		bOff := batch * k * n
		cOff := batch * m * n
		for i := 0; i < m; i++ {
			row := dst[cOff+i*n : cOff+(i+1)*n]
			for j := range row {
				row[j] = 0
			}
			for kIdx := 0; kIdx < k; kIdx++ {
				aik := srcA[aOff+i*k+kIdx]
				bRow := srcB[bOff+kIdx*n : bOff+(kIdx+1)*n]
				for j, bv := range bRow {
					row[j] += aik * bv
				}
			}
		}
	})

	return result
}
