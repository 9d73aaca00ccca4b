package model

import (
	"fmt"

	"github.com/tnt-ml/tnt/internal/nn"
	"github.com/tnt-ml/tnt/internal/tensor"
)

// Block is one TNT layer: an inner transformer over pixel tokens, a
// fusion step that projects the refined pixel tokens into the patch
// stream, and an outer transformer over patch tokens.
//
// Both sub-transformers are pre-norm: LayerNorm feeds the attention/MLP
// sub-layer and the result is residual-added onto the stream. The block
// preserves the shapes of both inputs, so blocks chain freely.
//
// Each block owns its parameters exclusively; stacked blocks share
// nothing.
type Block[B tensor.Backend] struct {
	// Inner transformer (pixel tokens within one patch).
	innerNorm1 *nn.LayerNorm[B]
	innerAttn  *nn.MultiHeadAttention[B]
	innerNorm2 *nn.LayerNorm[B]
	innerMlp   *nn.Mlp[B]

	// Fusion of pixel detail into the patch stream.
	fuseNorm *nn.LayerNorm[B] // over the flattened pixel vector
	fuseProj *nn.Linear[B]    // [pixelsPerPatch*innerDim -> outerDim]

	// Outer transformer (patch tokens across the image).
	outerNorm1 *nn.LayerNorm[B]
	outerAttn  *nn.MultiHeadAttention[B]
	outerNorm2 *nn.LayerNorm[B]
	outerMlp   *nn.Mlp[B]

	numPatches     int
	pixelsPerPatch int
	innerDim       int
	outerDim       int

	backend B
}

// BlockConfig carries the geometry and widths one TNT block needs.
// Model construction derives it from Config; tests can build blocks
// directly for arbitrary geometries.
type BlockConfig struct {
	NumPatches     int
	PixelsPerPatch int
	InnerDim       int
	OuterDim       int
	InnerHeads     int
	OuterHeads     int
	MLPRatio       int
	DropRate       float32
	AttnDropRate   float32
}

// NewBlock creates one TNT block.
func NewBlock[B tensor.Backend](cfg BlockConfig, backend B) *Block[B] {
	flatDim := cfg.PixelsPerPatch * cfg.InnerDim

	return &Block[B]{
		innerNorm1: nn.NewLayerNorm[B](cfg.InnerDim, 1e-5, backend),
		innerAttn: nn.NewMultiHeadAttention[B](
			cfg.InnerDim, cfg.InnerHeads, cfg.AttnDropRate, cfg.DropRate, backend),
		innerNorm2: nn.NewLayerNorm[B](cfg.InnerDim, 1e-5, backend),
		innerMlp:   nn.NewMlp[B](cfg.InnerDim, cfg.MLPRatio*cfg.InnerDim, cfg.DropRate, backend),

		fuseNorm: nn.NewLayerNorm[B](flatDim, 1e-5, backend),
		fuseProj: nn.NewLinear[B](flatDim, cfg.OuterDim, backend),

		outerNorm1: nn.NewLayerNorm[B](cfg.OuterDim, 1e-5, backend),
		outerAttn: nn.NewMultiHeadAttention[B](
			cfg.OuterDim, cfg.OuterHeads, cfg.AttnDropRate, cfg.DropRate, backend),
		outerNorm2: nn.NewLayerNorm[B](cfg.OuterDim, 1e-5, backend),
		outerMlp:   nn.NewMlp[B](cfg.OuterDim, cfg.MLPRatio*cfg.OuterDim, cfg.DropRate, backend),

		numPatches:     cfg.NumPatches,
		pixelsPerPatch: cfg.PixelsPerPatch,
		innerDim:       cfg.InnerDim,
		outerDim:       cfg.OuterDim,
		backend:        backend,
	}
}

// Forward refines both token streams.
//
// Shapes (preserved exactly):
//   - pixels: [batch*numPatches, pixelsPerPatch, innerDim]
//   - patches: [batch, numPatches, outerDim]
func (b *Block[B]) Forward(
	pixels, patches *tensor.Tensor[float32, B],
) (*tensor.Tensor[float32, B], *tensor.Tensor[float32, B]) {
	b.validate(pixels, patches)
	batch := patches.Shape()[0]

	// 1. Inner transformer over pixel tokens within each patch.
	attnIn := b.innerNorm1.Forward(pixels)
	pixels = pixels.Add(b.innerAttn.Forward(attnIn, attnIn, attnIn))
	pixels = pixels.Add(b.innerMlp.Forward(b.innerNorm2.Forward(pixels)))

	// 2. Fusion: flatten refined pixels per patch and add into patches.
	flat := pixels.Reshape(batch, b.numPatches, b.pixelsPerPatch*b.innerDim)
	flat = b.fuseNorm.Forward(flat)
	fused := b.fuseProj.Forward(flat.Reshape(batch*b.numPatches, b.pixelsPerPatch*b.innerDim))
	patches = patches.Add(fused.Reshape(batch, b.numPatches, b.outerDim))

	// 3. Outer transformer over patch tokens across the image.
	attnIn = b.outerNorm1.Forward(patches)
	patches = patches.Add(b.outerAttn.Forward(attnIn, attnIn, attnIn))
	patches = patches.Add(b.outerMlp.Forward(b.outerNorm2.Forward(patches)))

	return pixels, patches
}

func (b *Block[B]) validate(pixels, patches *tensor.Tensor[float32, B]) {
	ps, qs := pixels.Shape(), patches.Shape()
	if len(ps) != 3 || ps[1] != b.pixelsPerPatch || ps[2] != b.innerDim {
		panic(fmt.Sprintf("Block.Forward: pixel shape %v does not match [*, %d, %d]",
			ps, b.pixelsPerPatch, b.innerDim))
	}
	if len(qs) != 3 || qs[1] != b.numPatches || qs[2] != b.outerDim {
		panic(fmt.Sprintf("Block.Forward: patch shape %v does not match [*, %d, %d]",
			qs, b.numPatches, b.outerDim))
	}
	if ps[0] != qs[0]*b.numPatches {
		panic(fmt.Sprintf("Block.Forward: pixel groups %d inconsistent with batch %d x numPatches %d",
			ps[0], qs[0], b.numPatches))
	}
}

// SetTraining propagates the training flag to all dropout layers.
func (b *Block[B]) SetTraining(training bool) {
	b.innerAttn.SetTraining(training)
	b.innerMlp.SetTraining(training)
	b.outerAttn.SetTraining(training)
	b.outerMlp.SetTraining(training)
}

// Parameters returns all parameters of the block.
func (b *Block[B]) Parameters() []*nn.Parameter[B] {
	var params []*nn.Parameter[B]
	params = append(params, b.innerNorm1.Parameters()...)
	params = append(params, b.innerAttn.Parameters()...)
	params = append(params, b.innerNorm2.Parameters()...)
	params = append(params, b.innerMlp.Parameters()...)
	params = append(params, b.fuseNorm.Parameters()...)
	params = append(params, b.fuseProj.Parameters()...)
	params = append(params, b.outerNorm1.Parameters()...)
	params = append(params, b.outerAttn.Parameters()...)
	params = append(params, b.outerNorm2.Parameters()...)
	params = append(params, b.outerMlp.Parameters()...)
	return params
}
