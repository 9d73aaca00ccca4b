package cpu

import (
	"fmt"

	"github.com/tnt-ml/tnt/internal/parallel"
	"github.com/tnt-ml/tnt/internal/tensor"
)

// Conv2D performs 2D convolution using the im2col algorithm.
//
// Input shape: [N, C_in, H, W]
// Kernel shape: [C_out, C_in, K_h, K_w]
// Output shape: [N, C_out, H_out, W_out]
//
// Im2col lowers the convolution to a matrix multiplication: input patches
// become columns, the kernel becomes a [C_out, C_in*K_h*K_w] matrix, and
// the product yields all output positions at once.
func (c *Backend) Conv2D(input, kernel *tensor.RawTensor, stride, padding int) *tensor.RawTensor {
	inputShape := input.Shape()
	kernelShape := kernel.Shape()

	if len(inputShape) != 4 {
		panic(fmt.Sprintf("conv2d: input must be 4D [N,C,H,W], got %dD", len(inputShape)))
	}
	if len(kernelShape) != 4 {
		panic(fmt.Sprintf("conv2d: kernel must be 4D [C_out,C_in,K_h,K_w], got %dD", len(kernelShape)))
	}
	if stride <= 0 {
		panic(fmt.Sprintf("conv2d: stride must be positive, got %d", stride))
	}

	n := inputShape[0]
	cIn := inputShape[1]
	h := inputShape[2]
	w := inputShape[3]
	cOut := kernelShape[0]
	kh := kernelShape[2]
	kw := kernelShape[3]

	if cIn != kernelShape[1] {
		panic(fmt.Sprintf("conv2d: input channels %d != kernel channels %d", cIn, kernelShape[1]))
	}

	hOut := (h+2*padding-kh)/stride + 1
	wOut := (w+2*padding-kw)/stride + 1
	if hOut <= 0 || wOut <= 0 {
		panic(fmt.Sprintf("conv2d: invalid output dimensions: out_h=%d, out_w=%d (check stride/padding)", hOut, wOut))
	}

	output, err := tensor.NewRaw(tensor.Shape{n, cOut, hOut, wOut}, input.DType(), c.device)
	if err != nil {
		panic(fmt.Sprintf("conv2d: failed to create output tensor: %v", err))
	}

	inputData := input.AsFloat32()
	kernelData := kernel.AsFloat32()
	outputData := output.AsFloat32()

	colWidth := cIn * kh * kw
	colBuf := make([]float32, n*hOut*wOut*colWidth)
	im2col(colBuf, inputData, n, cIn, h, w, kh, kw, hOut, wOut, stride, padding)

	// kernel is already laid out as [C_out, C_in*K_h*K_w] in row-major order.
	// output[b, co, oy, ox] = sum_k kernel[co, k] * col[(b*hOut*wOut + oy*wOut + ox), k]
	positions := hOut * wOut
	parallel.For(n*cOut, func(idx int) {
		b := idx / cOut
		co := idx % cOut
		kRow := kernelData[co*colWidth : (co+1)*colWidth]
		outOff := b*cOut*positions + co*positions
		colOff := b * positions * colWidth
		for p := 0; p < positions; p++ {
			col := colBuf[colOff+p*colWidth : colOff+(p+1)*colWidth]
			sum := float32(0)
			for k, kv := range kRow {
				sum += kv * col[k]
			}
			outputData[outOff+p] = sum
		}
	})

	return output
}

// im2col expands input patches into rows of colBuf.
// colBuf layout: [N * H_out * W_out, C_in * K_h * K_w].
func im2col(colBuf, input []float32, n, cIn, h, w, kh, kw, hOut, wOut, stride, padding int) {
	colWidth := cIn * kh * kw
	for b := 0; b < n; b++ {
		for oy := 0; oy < hOut; oy++ {
			for ox := 0; ox < wOut; ox++ {
				rowOff := ((b*hOut+oy)*wOut + ox) * colWidth
				col := 0
				for ch := 0; ch < cIn; ch++ {
					chOff := (b*cIn + ch) * h * w
					for ky := 0; ky < kh; ky++ {
						iy := oy*stride + ky - padding
						for kx := 0; kx < kw; kx++ {
							ix := ox*stride + kx - padding
							if iy >= 0 && iy < h && ix >= 0 && ix < w {
								colBuf[rowOff+col] = input[chOff+iy*w+ix]
							}
							// Out-of-bounds positions stay zero (padding).
							col++
						}
					}
				}
			}
		}
	}
}
