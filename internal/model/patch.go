package model

import (
	"fmt"

	"github.com/tnt-ml/tnt/internal/nn"
	"github.com/tnt-ml/tnt/internal/tensor"
)

// PatchEmbed folds pixel tokens into one vector per patch.
//
// All pixel vectors belonging to a patch are flattened into a single
// vector of size pixelsPerPatch*InnerDim, normalized, projected to
// OuterDim, normalized again, offset by a learned per-patch position
// embedding, and regularized with dropout.
//
// Output shape: [batch, numPatches, OuterDim].
type PatchEmbed[B tensor.Backend] struct {
	norm1 *nn.LayerNorm[B] // over the flattened pixel vector
	proj  *nn.Linear[B]    // [pixelsPerPatch*innerDim -> outerDim]
	norm2 *nn.LayerNorm[B] // over the projected patch vector
	pos   *nn.Parameter[B] // [numPatches, outerDim]
	drop  *nn.Dropout[B]

	numPatches int
	flatDim    int // pixelsPerPatch * innerDim
	outerDim   int

	backend B
}

// NewPatchEmbed creates the patch embedder for the given configuration.
func NewPatchEmbed[B tensor.Backend](cfg Config, backend B) *PatchEmbed[B] {
	numPatches := cfg.NumPatches()
	flatDim := cfg.PixelsPerPatch() * cfg.InnerDim

	return &PatchEmbed[B]{
		norm1: nn.NewLayerNorm[B](flatDim, 1e-5, backend),
		proj:  nn.NewLinear[B](flatDim, cfg.OuterDim, backend),
		norm2: nn.NewLayerNorm[B](cfg.OuterDim, 1e-5, backend),
		pos: nn.NewParameter("patch_pos",
			nn.TruncNormal[B](tensor.Shape{numPatches, cfg.OuterDim}, posEmbedStd, backend)),
		drop:       nn.NewDropout[B](cfg.DropRate),
		numPatches: numPatches,
		flatDim:    flatDim,
		outerDim:   cfg.OuterDim,
		backend:    backend,
	}
}

// Forward folds pixel tokens into patch tokens.
//
// Input: [batch*numPatches, pixelsPerPatch, innerDim]
// Output: [batch, numPatches, outerDim]
func (p *PatchEmbed[B]) Forward(pixels *tensor.Tensor[float32, B]) *tensor.Tensor[float32, B] {
	shape := pixels.Shape()
	if len(shape) != 3 {
		panic(fmt.Sprintf("PatchEmbed.Forward: expected 3D input, got shape %v", shape))
	}
	if shape[0]%p.numPatches != 0 {
		panic(fmt.Sprintf("PatchEmbed.Forward: leading dim %d not a multiple of numPatches %d", shape[0], p.numPatches))
	}
	if shape[1]*shape[2] != p.flatDim {
		panic(fmt.Sprintf("PatchEmbed.Forward: pixel volume %dx%d does not fold into %d", shape[1], shape[2], p.flatDim))
	}
	batch := shape[0] / p.numPatches

	// Fold: [batch*numPatches, pixels, innerDim] -> [batch, numPatches, flat]
	x := pixels.Reshape(batch, p.numPatches, p.flatDim)
	x = p.norm1.Forward(x)

	// Project to outer dimension.
	x = p.proj.Forward(x.Reshape(batch*p.numPatches, p.flatDim))
	x = x.Reshape(batch, p.numPatches, p.outerDim)
	x = p.norm2.Forward(x)

	// Learned per-patch position embedding, then dropout.
	x = x.Add(p.pos.Tensor().Unsqueeze(0))
	return p.drop.Forward(x)
}

// NumPatches returns the number of patch tokens.
func (p *PatchEmbed[B]) NumPatches() int {
	return p.numPatches
}

// SetTraining propagates the training flag to the dropout layer.
func (p *PatchEmbed[B]) SetTraining(training bool) {
	p.drop.SetTraining(training)
}

// Parameters returns all parameters of the embedder.
func (p *PatchEmbed[B]) Parameters() []*nn.Parameter[B] {
	params := make([]*nn.Parameter[B], 0, 7)
	params = append(params, p.norm1.Parameters()...)
	params = append(params, p.proj.Parameters()...)
	params = append(params, p.norm2.Parameters()...)
	params = append(params, p.pos)
	return params
}
