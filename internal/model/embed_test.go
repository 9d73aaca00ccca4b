package model

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/tnt-ml/tnt/internal/backend/cpu"
	"github.com/tnt-ml/tnt/internal/tensor"
)

// Backend is the backend type used throughout the model tests.
type Backend = *cpu.Backend

func testBackend() Backend {
	return cpu.New()
}

func TestPixelEmbedShape(t *testing.T) {
	backend := testBackend()
	cfg := DefaultConfig() // 32x32, patch 8, stride 4 -> 16 patches, 4 pixels each
	embed := NewPixelEmbed[Backend](cfg, backend)

	images := tensor.Randn[float32](tensor.Shape{2, 3, 32, 32}, backend)
	pixels := embed.Forward(images)

	assert.Equal(t, tensor.Shape{32, 4, cfg.InnerDim}, pixels.Shape())
	assert.Equal(t, 16, embed.NumPatches())
	assert.Equal(t, 4, embed.PixelsPerPatch())
}

func TestPixelEmbedShapeAcrossBatchSizes(t *testing.T) {
	backend := testBackend()
	cfg := DefaultConfig()
	embed := NewPixelEmbed[Backend](cfg, backend)

	for _, batch := range []int{1, 2, 5} {
		images := tensor.Randn[float32](tensor.Shape{batch, 3, 32, 32}, backend)
		pixels := embed.Forward(images)

		shape := pixels.Shape()
		assert.Len(t, shape, 3)
		assert.Equal(t, batch*embed.NumPatches(), shape[0])
		assert.Equal(t, embed.PixelsPerPatch(), shape[1])
		assert.Equal(t, cfg.InnerDim, shape[2])
	}
}

func TestPixelEmbedNonDividingStride(t *testing.T) {
	backend := testBackend()
	cfg := DefaultConfig()
	cfg.Stride = 3 // ceil(8/3) = 3 cells per patch axis

	embed := NewPixelEmbed[Backend](cfg, backend)
	images := tensor.Randn[float32](tensor.Shape{1, 3, 32, 32}, backend)
	pixels := embed.Forward(images)

	assert.Equal(t, tensor.Shape{16, 9, cfg.InnerDim}, pixels.Shape())
	rows, cols := embed.InnerGrid()
	assert.Equal(t, 3, rows)
	assert.Equal(t, 3, cols)
}

func TestPixelEmbedRejectsNon4D(t *testing.T) {
	backend := testBackend()
	embed := NewPixelEmbed[Backend](DefaultConfig(), backend)

	input := tensor.Randn[float32](tensor.Shape{3, 32, 32}, backend)
	assert.Panics(t, func() { embed.Forward(input) })
}

func TestPatchEmbedShape(t *testing.T) {
	backend := testBackend()
	cfg := DefaultConfig()
	embed := NewPatchEmbed[Backend](cfg, backend)

	// 2 images x 16 patches, 4 pixel tokens of InnerDim each.
	pixels := tensor.Randn[float32](tensor.Shape{32, 4, cfg.InnerDim}, backend)
	patches := embed.Forward(pixels)

	assert.Equal(t, tensor.Shape{2, 16, cfg.OuterDim}, patches.Shape())
}

func TestPatchEmbedRejectsBadShapes(t *testing.T) {
	backend := testBackend()
	cfg := DefaultConfig()
	embed := NewPatchEmbed[Backend](cfg, backend)

	// Leading dim not a multiple of the patch count.
	bad := tensor.Randn[float32](tensor.Shape{30, 4, cfg.InnerDim}, backend)
	assert.Panics(t, func() { embed.Forward(bad) })

	// Pixel volume does not fold into the flattened dimension.
	bad = tensor.Randn[float32](tensor.Shape{32, 5, cfg.InnerDim}, backend)
	assert.Panics(t, func() { embed.Forward(bad) })
}

func TestEmbedPipelineShapes(t *testing.T) {
	backend := testBackend()
	cfg := DefaultConfig()

	pixelEmbed := NewPixelEmbed[Backend](cfg, backend)
	patchEmbed := NewPatchEmbed[Backend](cfg, backend)

	images := tensor.Randn[float32](tensor.Shape{2, 3, 32, 32}, backend)
	pixels := pixelEmbed.Forward(images)
	patches := patchEmbed.Forward(pixels)

	assert.Equal(t, tensor.Shape{32, 4, cfg.InnerDim}, pixels.Shape())
	assert.Equal(t, tensor.Shape{2, 16, cfg.OuterDim}, patches.Shape())
}
