package cpu

import (
	"github.com/tnt-ml/tnt/internal/tensor"
)

// broadcastStrides computes strides for reading inShape as if it had
// outShape. Broadcast dimensions (size 1 or missing) get stride 0.
func broadcastStrides(inShape, outShape tensor.Shape) []int {
	outDim := len(outShape)
	strides := make([]int, outDim)

	inDim := len(inShape)
	offset := outDim - inDim
	origStrides := inShape.ComputeStrides()

	for i := 0; i < outDim; i++ {
		inIdx := i - offset
		switch {
		case inIdx < 0 || inIdx >= inDim:
			strides[i] = 0 // Padded dimension
		case inShape[inIdx] == 1:
			strides[i] = 0 // Broadcast dimension
		default:
			strides[i] = origStrides[inIdx]
		}
	}

	return strides
}

// flatIndex maps a flat output index to the flat source index using
// broadcast-adjusted source strides.
func flatIndex(outIdx int, outStrides, inStrides []int) int {
	idx := 0
	for i := range outStrides {
		coord := outIdx / outStrides[i]
		outIdx %= outStrides[i]
		idx += coord * inStrides[i]
	}
	return idx
}
