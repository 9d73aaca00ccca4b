// Copyright 2026 TNT ML. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package tnt provides the public API for the TNT (Transformer in
// Transformer) image classifier.
//
// A TNT model attends at two levels: an inner transformer refines pixel
// tokens within each image patch, an outer transformer refines patch
// tokens across the image, and each block fuses the pixel detail into
// the patch stream.
//
// Example:
//
//	backend := cpu.New()
//	model, err := tnt.New(tnt.DefaultConfig(), backend)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	probs := model.Forward(images)    // [batch, numClasses] probabilities
//	classes := model.Predict(images)  // [batch] class indices
package tnt

import (
	"github.com/tnt-ml/tnt/internal/model"
	"github.com/tnt-ml/tnt/internal/tensor"
)

// Config holds the hyperparameters of a TNT model.
type Config = model.Config

// DefaultConfig returns a small configuration for 32x32 RGB datasets.
func DefaultConfig() Config {
	return model.DefaultConfig()
}

// Model is a full TNT image classifier.
type Model[B tensor.Backend] = model.Model[B]

// New builds a TNT model from the configuration.
// Returns an error if the configuration violates a shape invariant.
func New[B tensor.Backend](cfg Config, backend B) (*Model[B], error) {
	return model.New[B](cfg, backend)
}

// PixelEmbed turns raw images into pixel tokens.
type PixelEmbed[B tensor.Backend] = model.PixelEmbed[B]

// NewPixelEmbed creates the pixel embedder for the given configuration.
func NewPixelEmbed[B tensor.Backend](cfg Config, backend B) *PixelEmbed[B] {
	return model.NewPixelEmbed[B](cfg, backend)
}

// PatchEmbed folds pixel tokens into patch tokens.
type PatchEmbed[B tensor.Backend] = model.PatchEmbed[B]

// NewPatchEmbed creates the patch embedder for the given configuration.
func NewPatchEmbed[B tensor.Backend](cfg Config, backend B) *PatchEmbed[B] {
	return model.NewPatchEmbed[B](cfg, backend)
}

// Block is one TNT layer: inner transformer, fusion, outer transformer.
type Block[B tensor.Backend] = model.Block[B]

// BlockConfig carries the geometry and widths one TNT block needs.
type BlockConfig = model.BlockConfig

// NewBlock creates one TNT block.
func NewBlock[B tensor.Backend](cfg BlockConfig, backend B) *Block[B] {
	return model.NewBlock[B](cfg, backend)
}
