package model

import (
	"fmt"

	"github.com/tnt-ml/tnt/internal/nn"
	"github.com/tnt-ml/tnt/internal/tensor"
)

// Model is a full TNT image classifier.
//
// Forward pipeline: PixelEmbed -> PatchEmbed -> Depth x Block ->
// LayerNorm -> mean pool over patch tokens -> Linear -> Softmax.
type Model[B tensor.Backend] struct {
	cfg Config

	pixelEmbed *PixelEmbed[B]
	patchEmbed *PatchEmbed[B]
	blocks     []*Block[B]
	norm       *nn.LayerNorm[B]
	head       *nn.Linear[B]

	backend B
}

// New builds a TNT model from the configuration.
// All parameter shapes are fixed here and never resized.
func New[B tensor.Backend](cfg Config, backend B) (*Model[B], error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	blockCfg := BlockConfig{
		NumPatches:     cfg.NumPatches(),
		PixelsPerPatch: cfg.PixelsPerPatch(),
		InnerDim:       cfg.InnerDim,
		OuterDim:       cfg.OuterDim,
		InnerHeads:     cfg.InnerHeads,
		OuterHeads:     cfg.OuterHeads,
		MLPRatio:       cfg.MLPRatio,
		DropRate:       cfg.DropRate,
		AttnDropRate:   cfg.AttnDropRate,
	}

	blocks := make([]*Block[B], cfg.Depth)
	for i := range blocks {
		blocks[i] = NewBlock[B](blockCfg, backend)
	}

	return &Model[B]{
		cfg:        cfg,
		pixelEmbed: NewPixelEmbed[B](cfg, backend),
		patchEmbed: NewPatchEmbed[B](cfg, backend),
		blocks:     blocks,
		norm:       nn.NewLayerNorm[B](cfg.OuterDim, 1e-5, backend),
		head:       nn.NewLinear[B](cfg.OuterDim, cfg.NumClasses, backend),
		backend:    backend,
	}, nil
}

// Config returns the model configuration.
func (m *Model[B]) Config() Config {
	return m.cfg
}

// Logits computes unnormalized class scores.
//
// Input: [batch, channels, imageSize, imageSize]
// Output: [batch, numClasses]
func (m *Model[B]) Logits(images *tensor.Tensor[float32, B]) *tensor.Tensor[float32, B] {
	pixels := m.pixelEmbed.Forward(images)
	patches := m.patchEmbed.Forward(pixels)

	for _, block := range m.blocks {
		pixels, patches = block.Forward(pixels, patches)
	}

	// Final norm, then average over patch tokens: [batch, outerDim].
	patches = m.norm.Forward(patches)
	pooled := patches.MeanDim(1, false)

	return m.head.Forward(pooled)
}

// Forward computes class probabilities: softmax over the logits.
// Each row is a distribution over NumClasses summing to 1.
func (m *Model[B]) Forward(images *tensor.Tensor[float32, B]) *tensor.Tensor[float32, B] {
	return m.Logits(images).Softmax(-1)
}

// Predict returns the most likely class index per image, shape [batch].
func (m *Model[B]) Predict(images *tensor.Tensor[float32, B]) *tensor.Tensor[int32, B] {
	return m.Logits(images).Argmax(-1)
}

// SetTraining switches all dropout layers between train and eval mode.
func (m *Model[B]) SetTraining(training bool) {
	m.pixelEmbed.SetTraining(training)
	m.patchEmbed.SetTraining(training)
	for _, block := range m.blocks {
		block.SetTraining(training)
	}
}

// Parameters returns every parameter of the model.
func (m *Model[B]) Parameters() []*nn.Parameter[B] {
	var params []*nn.Parameter[B]
	params = append(params, m.pixelEmbed.Parameters()...)
	params = append(params, m.patchEmbed.Parameters()...)
	for _, block := range m.blocks {
		params = append(params, block.Parameters()...)
	}
	params = append(params, m.norm.Parameters()...)
	params = append(params, m.head.Parameters()...)
	return params
}

// NumParameters returns the total scalar parameter count.
func (m *Model[B]) NumParameters() int {
	total := 0
	for _, p := range m.Parameters() {
		total += p.NumElements()
	}
	return total
}
