// Copyright 2025 Loom ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package nn provides the public API for the neural network modules of the
// Loom framework: linear layers, layer normalization, attention, and the
// supporting pieces of the transformer architecture.
package nn

import (
	"math/rand"

	"github.com/loom-ml/loom/internal/nn"
	"github.com/loom-ml/loom/internal/tensor"
)

// Module interface defines the common interface for all neural network modules.
type Module[B tensor.Backend] = nn.Module[B]

// Parameter represents a learnable parameter in a neural network.
type Parameter[B tensor.Backend] = nn.Parameter[B]

// NewParameter creates a new parameter with the given name and tensor.
func NewParameter[B tensor.Backend](name string, t *tensor.Tensor[float32, B]) *Parameter[B] {
	return nn.NewParameter(name, t)
}

// ConfigError indicates an invalid module configuration.
type ConfigError = nn.ConfigError

// Initialization

// Xavier initializes a tensor with Xavier/Glorot uniform values drawn
// from rng.
func Xavier[B tensor.Backend](rng *rand.Rand, fanIn, fanOut int, shape tensor.Shape, backend B) *tensor.Tensor[float32, B] {
	return nn.Xavier(rng, fanIn, fanOut, shape, backend)
}

// Layers

// Linear represents a fully connected (dense) layer.
type Linear[B tensor.Backend] = nn.Linear[B]

// NewLinear creates a new linear layer with Xavier-initialized weights.
//
// Example:
//
//	rng := rand.New(rand.NewSource(42))
//	layer := nn.NewLinear(rng, 512, 2048, backend)
func NewLinear[B tensor.Backend](rng *rand.Rand, inFeatures, outFeatures int, backend B) *Linear[B] {
	return nn.NewLinear(rng, inFeatures, outFeatures, backend)
}

// LayerNorm represents layer normalization over the last dimension.
type LayerNorm[B tensor.Backend] = nn.LayerNorm[B]

// DefaultLayerNormEps is the default variance floor for LayerNorm.
const DefaultLayerNormEps = nn.DefaultLayerNormEps

// NewLayerNorm creates a layer normalization module.
func NewLayerNorm[B tensor.Backend](features int, eps float32, backend B) *LayerNorm[B] {
	return nn.NewLayerNorm(features, eps, backend)
}

// Activations and regularization

// ReLU represents the rectified linear unit activation.
type ReLU[B tensor.Backend] = nn.ReLU[B]

// NewReLU creates a new ReLU activation module.
func NewReLU[B tensor.Backend]() *ReLU[B] {
	return nn.NewReLU[B]()
}

// Dropout randomly zeroes inputs during training (inverted dropout).
type Dropout[B tensor.Backend] = nn.Dropout[B]

// NewDropout creates a dropout module with drop probability p.
func NewDropout[B tensor.Backend](p float32, rng *rand.Rand) *Dropout[B] {
	return nn.NewDropout[B](p, rng)
}

// Attention

// MultiHeadAttention represents multi-head scaled dot-product attention.
type MultiHeadAttention[B tensor.Backend] = nn.MultiHeadAttention[B]

// NewMultiHeadAttention creates a multi-head attention module. Returns a
// *ConfigError if dModel is not divisible by numHeads.
//
// Example:
//
//	rng := rand.New(rand.NewSource(42))
//	mha, err := nn.NewMultiHeadAttention(rng, 512, 8, 0.1, backend)
func NewMultiHeadAttention[B tensor.Backend](rng *rand.Rand, dModel, numHeads int, dropoutP float32, backend B) (*MultiHeadAttention[B], error) {
	return nn.NewMultiHeadAttention(rng, dModel, numHeads, dropoutP, backend)
}

// ScaledDotProductAttention computes softmax(Q @ K.T / sqrt(d_k)) @ V,
// returning the output and the post-softmax attention weights.
func ScaledDotProductAttention[B tensor.Backend](
	q, k, v *tensor.Tensor[float32, B],
	mask *tensor.Tensor[bool, B],
	dropout *Dropout[B],
	training bool,
) (*tensor.Tensor[float32, B], *tensor.Tensor[float32, B]) {
	return nn.ScaledDotProductAttention(q, k, v, mask, dropout, training)
}

// SubsequentMask builds the [1, 1, seqLen, seqLen] causal mask: element
// (i, j) is true iff j <= i.
func SubsequentMask[B tensor.Backend](seqLen int, backend B) *tensor.Tensor[bool, B] {
	return nn.SubsequentMask(seqLen, backend)
}

// Transformer building blocks

// PositionwiseFeedForward is the two-layer position-wise MLP.
type PositionwiseFeedForward[B tensor.Backend] = nn.PositionwiseFeedForward[B]

// NewPositionwiseFeedForward creates a position-wise feed-forward network.
func NewPositionwiseFeedForward[B tensor.Backend](rng *rand.Rand, dModel, dff int, dropoutP float32, backend B) *PositionwiseFeedForward[B] {
	return nn.NewPositionwiseFeedForward(rng, dModel, dff, dropoutP, backend)
}

// SublayerConnection applies a pre-norm residual connection around a sublayer.
type SublayerConnection[B tensor.Backend] = nn.SublayerConnection[B]

// NewSublayerConnection creates a pre-norm residual wrapper.
func NewSublayerConnection[B tensor.Backend](features int, dropoutP float32, rng *rand.Rand, backend B) *SublayerConnection[B] {
	return nn.NewSublayerConnection(features, dropoutP, rng, backend)
}

// Embedding maps token IDs to scaled dense vectors.
type Embedding[B tensor.Backend] = nn.Embedding[B]

// NewEmbedding creates an embedding table with Xavier-initialized rows.
func NewEmbedding[B tensor.Backend](rng *rand.Rand, vocabSize, dModel int, backend B) *Embedding[B] {
	return nn.NewEmbedding(rng, vocabSize, dModel, backend)
}

// SinusoidalPositionalEncoding adds fixed sinusoidal position information.
type SinusoidalPositionalEncoding[B tensor.Backend] = nn.SinusoidalPositionalEncoding[B]

// NewSinusoidalPositionalEncoding precomputes the encoding table for
// positions [0, maxLen).
func NewSinusoidalPositionalEncoding[B tensor.Backend](dModel, maxLen int, dropoutP float32, rng *rand.Rand, backend B) *SinusoidalPositionalEncoding[B] {
	return nn.NewSinusoidalPositionalEncoding(dModel, maxLen, dropoutP, rng, backend)
}

// Generator projects decoder states to vocabulary log-probabilities.
type Generator[B tensor.Backend] = nn.Generator[B]

// NewGenerator creates the output projection module.
func NewGenerator[B tensor.Backend](rng *rand.Rand, dModel, vocabSize int, backend B) *Generator[B] {
	return nn.NewGenerator(rng, dModel, vocabSize, backend)
}
