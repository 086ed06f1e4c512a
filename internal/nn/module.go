// Package nn implements neural network modules for the Loom framework.
//
// This package provides the building blocks of the transformer architecture:
//   - Module interface: Base interface for all NN components
//   - Parameter: Named weight tensors
//   - Linear: Fully connected layer
//   - LayerNorm: Layer normalization
//   - MultiHeadAttention, ScaledDotProductAttention
//   - PositionwiseFeedForward, SublayerConnection
//   - Embedding, SinusoidalPositionalEncoding, Generator
//
// Design inspired by PyTorch's nn.Module but adapted for Go generics.
package nn

import (
	"github.com/loom-ml/loom/internal/tensor"
)

// Module is the base interface for all neural network components.
//
// Forward signatures vary per module (attention takes a mask, dropout takes
// a training flag), so the interface covers only parameter enumeration.
// Composite modules return their own parameters followed by the parameters
// of every submodule, in deterministic construction order.
//
// Type parameter B must satisfy the tensor.Backend interface.
type Module[B tensor.Backend] interface {
	// Parameters returns all trainable parameters of this module.
	//
	// This includes weights, biases, and any nested module parameters.
	// Returns an empty slice for modules without trainable parameters.
	Parameters() []*Parameter[B]
}
