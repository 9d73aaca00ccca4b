package model

import (
	"fmt"

	"github.com/tnt-ml/tnt/internal/nn"
	"github.com/tnt-ml/tnt/internal/tensor"
)

// posEmbedStd is the truncated-normal std for learned position tables.
const posEmbedStd = 0.02

// PixelEmbed turns raw images into pixel tokens.
//
// A strided convolution produces a local feature map; the map is split
// into non-overlapping sub-patch cells, one cell per pixel token, grouped
// by the outer patch that contains them. Each cell vector is linearly
// projected to InnerDim and offset by a learned position embedding
// indexed by the cell's position within its parent patch.
//
// Output shape: [batch*numPatches, pixelsPerPatch, InnerDim].
//
// When the stride does not divide the patch size, the sub-patch grid is
// derived by ceiling division and the convolution feature map is aligned
// to the grid by cropping surplus rows/columns on the bottom/right edge
// (or zero-padding a shortfall there).
type PixelEmbed[B tensor.Backend] struct {
	conv *nn.Conv2D[B]
	proj *nn.Linear[B]
	pos  *nn.Parameter[B] // [pixelsPerPatch, InnerDim]

	patchesPerAxis int
	innerGrid      int // sub-patch cells per patch axis
	innerDim       int
	convPadding    int

	backend B
}

// NewPixelEmbed creates the pixel embedder for the given configuration.
func NewPixelEmbed[B tensor.Backend](cfg Config, backend B) *PixelEmbed[B] {
	n := cfg.InnerGridSize()
	patchesPerAxis := cfg.ImageSize / cfg.PatchSize

	// Padding that keeps the feature map at least ceil(ImageSize/Stride)
	// on each axis, so alignment only has to trim or pad the far edge.
	fm := (cfg.ImageSize + cfg.Stride - 1) / cfg.Stride
	need := (fm-1)*cfg.Stride + cfg.ConvKernel - cfg.ImageSize
	padding := 0
	if need > 0 {
		padding = (need + 1) / 2
	}

	conv := nn.NewConv2D[B](
		cfg.Channels, cfg.InnerDim,
		cfg.ConvKernel, cfg.ConvKernel,
		cfg.Stride, padding,
		true, backend,
	)
	proj := nn.NewLinear[B](cfg.InnerDim, cfg.InnerDim, backend)
	pos := nn.NewParameter("pixel_pos",
		nn.TruncNormal[B](tensor.Shape{n * n, cfg.InnerDim}, posEmbedStd, backend))

	return &PixelEmbed[B]{
		conv:           conv,
		proj:           proj,
		pos:            pos,
		patchesPerAxis: patchesPerAxis,
		innerGrid:      n,
		innerDim:       cfg.InnerDim,
		convPadding:    padding,
		backend:        backend,
	}
}

// Forward embeds a batch of images into pixel tokens.
//
// Input: [batch, channels, height, width]
// Output: [batch*numPatches, pixelsPerPatch, innerDim]
func (p *PixelEmbed[B]) Forward(images *tensor.Tensor[float32, B]) *tensor.Tensor[float32, B] {
	shape := images.Shape()
	if len(shape) != 4 {
		panic(fmt.Sprintf("PixelEmbed.Forward: expected 4D input [N,C,H,W], got shape %v", shape))
	}
	batch := shape[0]

	// 1. Strided convolution: [batch, innerDim, fh, fw]
	x := p.conv.Forward(images)

	// 2. Align the feature map to the exact sub-patch grid.
	target := p.patchesPerAxis * p.innerGrid
	x = p.align(x, target)

	// 3. Group cells by parent patch:
	// [batch, D, pa*n, pa*n] -> [batch, D, pa, n, pa, n]
	// -> [batch, pa, pa, n, n, D] -> [batch*numPatches, n*n, D]
	pa, n, d := p.patchesPerAxis, p.innerGrid, p.innerDim
	x = x.Reshape(batch, d, pa, n, pa, n)
	x = x.Transpose(0, 2, 4, 3, 5, 1)
	x = x.Reshape(batch*pa*pa, n*n, d)

	// 4. Per-cell projection to innerDim.
	x = p.proj.Forward(x.Reshape(batch*pa*pa*n*n, d))
	x = x.Reshape(batch*pa*pa, n*n, d)

	// 5. Learned pixel-position embedding, broadcast over the token groups.
	return x.Add(p.pos.Tensor().Unsqueeze(0))
}

// align crops or zero-pads the trailing spatial dims of x to target.
func (p *PixelEmbed[B]) align(x *tensor.Tensor[float32, B], target int) *tensor.Tensor[float32, B] {
	fh, fw := x.Shape()[2], x.Shape()[3]
	if fh > target || fw > target {
		h, w := min(fh, target), min(fw, target)
		x = x.Crop2D(h, w)
		fh, fw = h, w
	}
	if fh < target || fw < target {
		x = x.Pad2D(target-fh, target-fw)
	}
	return x
}

// NumPatches returns the number of outer patch tokens.
func (p *PixelEmbed[B]) NumPatches() int {
	return p.patchesPerAxis * p.patchesPerAxis
}

// PixelsPerPatch returns the number of pixel tokens per patch.
func (p *PixelEmbed[B]) PixelsPerPatch() int {
	return p.innerGrid * p.innerGrid
}

// InnerGrid returns the sub-patch grid geometry (rows, cols).
func (p *PixelEmbed[B]) InnerGrid() (rows, cols int) {
	return p.innerGrid, p.innerGrid
}

// SetTraining is a no-op; the pixel embedder has no train-time behavior.
func (p *PixelEmbed[B]) SetTraining(bool) {}

// Parameters returns the convolution, projection and position parameters.
func (p *PixelEmbed[B]) Parameters() []*nn.Parameter[B] {
	params := make([]*nn.Parameter[B], 0, 5)
	params = append(params, p.conv.Parameters()...)
	params = append(params, p.proj.Parameters()...)
	params = append(params, p.pos)
	return params
}
