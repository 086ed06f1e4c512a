package nn

import (
	"math/rand"

	"github.com/loom-ml/loom/internal/tensor"
)

// SublayerConnection wraps a sublayer with a pre-norm residual connection:
//
//	out = x + dropout(sublayer(norm(x)))
//
// Normalization is applied to the input of the sublayer rather than its
// output (pre-norm). The residual addition requires the sublayer to
// preserve the model dimension.
type SublayerConnection[B tensor.Backend] struct {
	norm    *LayerNorm[B]
	dropout *Dropout[B]
}

// NewSublayerConnection creates a residual wrapper for sublayers operating
// on vectors of the given size.
func NewSublayerConnection[B tensor.Backend](features int, dropoutP float32, rng *rand.Rand, backend B) *SublayerConnection[B] {
	return &SublayerConnection[B]{
		norm:    NewLayerNorm(features, DefaultLayerNormEps, backend),
		dropout: NewDropout[B](dropoutP, rng),
	}
}

// Forward applies the pre-norm residual pattern around sublayer.
func (sc *SublayerConnection[B]) Forward(
	x *tensor.Tensor[float32, B],
	training bool,
	sublayer func(*tensor.Tensor[float32, B]) *tensor.Tensor[float32, B],
) *tensor.Tensor[float32, B] {
	return x.Add(sc.dropout.Forward(sublayer(sc.norm.Forward(x)), training))
}

// Parameters returns the layer norm parameters.
func (sc *SublayerConnection[B]) Parameters() []*Parameter[B] {
	return sc.norm.Parameters()
}
