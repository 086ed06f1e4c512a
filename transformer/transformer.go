// Copyright 2025 Loom ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package transformer provides the public API for the encoder-decoder
// transformer model of the Loom framework.
//
// Example:
//
//	backend := cpu.New()
//	cfg := transformer.DefaultConfig()
//	cfg.SrcVocabSize = 32000
//	cfg.TgtVocabSize = 32000
//	model, err := transformer.New(cfg, backend)
package transformer

import (
	"github.com/loom-ml/loom/internal/tensor"
	"github.com/loom-ml/loom/internal/transformer"
)

// Config holds the hyperparameters of an encoder-decoder transformer.
type Config = transformer.Config

// DefaultConfig returns the factory defaults: a 6-layer model with a
// compact 64-dimensional representation. Vocabulary sizes must still be
// set by the caller.
func DefaultConfig() Config {
	return transformer.DefaultConfig()
}

// EncoderDecoder is the full transformer model.
type EncoderDecoder[B tensor.Backend] = transformer.EncoderDecoder[B]

// Encoder is the stack of encoder layers with a final normalization.
type Encoder[B tensor.Backend] = transformer.Encoder[B]

// Decoder is the stack of decoder layers with a final normalization.
type Decoder[B tensor.Backend] = transformer.Decoder[B]

// EncoderLayer is one encoder block.
type EncoderLayer[B tensor.Backend] = transformer.EncoderLayer[B]

// DecoderLayer is one decoder block.
type DecoderLayer[B tensor.Backend] = transformer.DecoderLayer[B]

// New builds an encoder-decoder transformer from the configuration.
// Returns a *nn.ConfigError if the configuration is invalid.
func New[B tensor.Backend](cfg Config, backend B) (*EncoderDecoder[B], error) {
	return transformer.New(cfg, backend)
}

// PaddingMask builds a [batch, 1, 1, seqLen] attention mask that is false
// exactly where tokens equal padID.
func PaddingMask[B tensor.Backend](tokens *tensor.Tensor[int32, B], padID int32) *tensor.Tensor[bool, B] {
	return transformer.PaddingMask(tokens, padID)
}

// TargetMask builds the [batch, 1, seqLen, seqLen] decoder self-attention
// mask combining padding and causal constraints.
func TargetMask[B tensor.Backend](tokens *tensor.Tensor[int32, B], padID int32) *tensor.Tensor[bool, B] {
	return transformer.TargetMask(tokens, padID)
}
