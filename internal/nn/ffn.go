package nn

import (
	"math/rand"

	"github.com/loom-ml/loom/internal/tensor"
)

// PositionwiseFeedForward implements the two-layer MLP applied
// independently at every sequence position:
//
//	FFN(x) = W2 @ dropout(ReLU(W1 @ x + b1)) + b2
//
// The inner dimension d_ff is conventionally larger than dModel
// (4x in the original architecture).
type PositionwiseFeedForward[B tensor.Backend] struct {
	w1      *Linear[B] // dModel -> dff
	w2      *Linear[B] // dff -> dModel
	relu    *ReLU[B]
	dropout *Dropout[B]
}

// NewPositionwiseFeedForward creates a position-wise feed-forward network.
func NewPositionwiseFeedForward[B tensor.Backend](rng *rand.Rand, dModel, dff int, dropoutP float32, backend B) *PositionwiseFeedForward[B] {
	return &PositionwiseFeedForward[B]{
		w1:      NewLinear(rng, dModel, dff, backend),
		w2:      NewLinear(rng, dff, dModel, backend),
		relu:    NewReLU[B](),
		dropout: NewDropout[B](dropoutP, rng),
	}
}

// Forward applies the feed-forward network position-wise.
//
// Input shape: [batch, seq, dModel]; output has the same shape.
func (ffn *PositionwiseFeedForward[B]) Forward(x *tensor.Tensor[float32, B], training bool) *tensor.Tensor[float32, B] {
	hidden := ffn.relu.Forward(ffn.w1.Forward(x))
	hidden = ffn.dropout.Forward(hidden, training)
	return ffn.w2.Forward(hidden)
}

// Parameters returns the parameters of both projections.
func (ffn *PositionwiseFeedForward[B]) Parameters() []*Parameter[B] {
	var params []*Parameter[B]
	params = append(params, ffn.w1.Parameters()...)
	params = append(params, ffn.w2.Parameters()...)
	return params
}
