// Package model implements the TNT (Transformer in Transformer)
// image-classification architecture.
//
// A TNT model refines two token streams in parallel: pixel tokens, which
// capture local structure inside each image patch, and patch tokens, which
// capture global structure across the image. Each block runs an inner
// transformer over the pixel tokens, fuses the result into the patch
// stream, and runs an outer transformer over the patch tokens.
//
// Pipeline: PixelEmbed -> PatchEmbed -> Depth x Block -> LayerNorm ->
// mean pool over patches -> classification head.
package model

import (
	"fmt"
)

// Config holds the hyperparameters of a TNT model.
//
// The configuration is immutable once passed to New; all tensor shapes
// are fixed at construction time and never resized.
type Config struct {
	ImageSize int // input height and width (square images)
	PatchSize int // outer patch height and width; must divide ImageSize
	Stride    int // pixel embedder convolution stride
	Channels  int // input channel depth, must be 3

	InnerDim int // pixel token embedding dimension
	OuterDim int // patch token embedding dimension

	Depth      int // number of stacked TNT blocks
	InnerHeads int // attention heads of the inner transformer
	OuterHeads int // attention heads of the outer transformer
	MLPRatio   int // feed-forward expansion ratio (typically 4)

	ConvKernel int // pixel embedder convolution kernel size

	DropRate     float32 // dropout after embeddings and MLP projections
	AttnDropRate float32 // dropout on attention weights

	NumClasses int // classification head output size
}

// DefaultConfig returns a small TNT configuration suitable for
// 32x32 RGB benchmark datasets such as CIFAR-10.
func DefaultConfig() Config {
	return Config{
		ImageSize:    32,
		PatchSize:    8,
		Stride:       4,
		Channels:     3,
		InnerDim:     24,
		OuterDim:     96,
		Depth:        4,
		InnerHeads:   4,
		OuterHeads:   6,
		MLPRatio:     4,
		ConvKernel:   7,
		DropRate:     0.1,
		AttnDropRate: 0.0,
		NumClasses:   10,
	}
}

// Validate checks the configuration invariants.
func (c Config) Validate() error {
	if c.ImageSize <= 0 {
		return fmt.Errorf("image size must be positive, got %d", c.ImageSize)
	}
	if c.PatchSize <= 0 {
		return fmt.Errorf("patch size must be positive, got %d", c.PatchSize)
	}
	if c.ImageSize%c.PatchSize != 0 {
		return fmt.Errorf("image size %d must be divisible by patch size %d", c.ImageSize, c.PatchSize)
	}
	if c.Stride <= 0 || c.Stride > c.PatchSize {
		return fmt.Errorf("stride must be in [1, patch size], got %d", c.Stride)
	}
	if c.Channels != 3 {
		return fmt.Errorf("channel depth must be 3, got %d", c.Channels)
	}
	if c.InnerDim <= 0 || c.OuterDim <= 0 {
		return fmt.Errorf("embedding dims must be positive, got inner=%d outer=%d", c.InnerDim, c.OuterDim)
	}
	if c.Depth <= 0 {
		return fmt.Errorf("depth must be positive, got %d", c.Depth)
	}
	if c.InnerHeads <= 0 || c.InnerDim%c.InnerHeads != 0 {
		return fmt.Errorf("inner dim %d must be divisible by inner heads %d", c.InnerDim, c.InnerHeads)
	}
	if c.OuterHeads <= 0 || c.OuterDim%c.OuterHeads != 0 {
		return fmt.Errorf("outer dim %d must be divisible by outer heads %d", c.OuterDim, c.OuterHeads)
	}
	if c.MLPRatio <= 0 {
		return fmt.Errorf("mlp ratio must be positive, got %d", c.MLPRatio)
	}
	if c.ConvKernel <= 0 {
		return fmt.Errorf("conv kernel must be positive, got %d", c.ConvKernel)
	}
	if c.DropRate < 0 || c.DropRate >= 1 {
		return fmt.Errorf("drop rate must be in [0, 1), got %v", c.DropRate)
	}
	if c.AttnDropRate < 0 || c.AttnDropRate >= 1 {
		return fmt.Errorf("attention drop rate must be in [0, 1), got %v", c.AttnDropRate)
	}
	if c.NumClasses <= 0 {
		return fmt.Errorf("num classes must be positive, got %d", c.NumClasses)
	}
	return nil
}

// NumPatches returns the number of outer patch tokens,
// (ImageSize/PatchSize) squared.
func (c Config) NumPatches() int {
	perAxis := c.ImageSize / c.PatchSize
	return perAxis * perAxis
}

// InnerGridSize returns the side length of the sub-patch grid inside one
// patch, ceil(PatchSize/Stride).
func (c Config) InnerGridSize() int {
	return (c.PatchSize + c.Stride - 1) / c.Stride
}

// PixelsPerPatch returns the number of pixel tokens per patch,
// InnerGridSize squared.
func (c Config) PixelsPerPatch() int {
	n := c.InnerGridSize()
	return n * n
}
