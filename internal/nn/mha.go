package nn

import (
	"fmt"
	"math/rand"

	"github.com/loom-ml/loom/internal/tensor"
)

// MultiHeadAttention implements multi-head scaled dot-product attention.
//
// The model dimension is split across numHeads heads of size
// d_k = dModel / numHeads. Query, key, and value are each projected with
// their own Linear layer, reshaped into heads, attended independently,
// concatenated, and projected back to dModel:
//
//	MultiHead(Q, K, V) = Concat(head_1, ..., head_h) @ W_O
//	head_i = Attention(Q @ W_Q_i, K @ W_K_i, V @ W_V_i)
//
// The same module serves encoder self-attention (query = key = value),
// decoder self-attention (plus a causal mask), and encoder-decoder
// cross-attention (query from the decoder, key/value from the encoder).
type MultiHeadAttention[B tensor.Backend] struct {
	dModel   int
	numHeads int
	dk       int // dModel / numHeads

	wq *Linear[B]
	wk *Linear[B]
	wv *Linear[B]
	wo *Linear[B]

	dropout *Dropout[B]

	// attnWeights holds the post-softmax weights of the most recent
	// Forward call, for inspection and visualization.
	attnWeights *tensor.Tensor[float32, B]
}

// NewMultiHeadAttention creates a multi-head attention module.
//
// Returns a *ConfigError if dModel is not divisible by numHeads.
func NewMultiHeadAttention[B tensor.Backend](rng *rand.Rand, dModel, numHeads int, dropoutP float32, backend B) (*MultiHeadAttention[B], error) {
	if numHeads <= 0 {
		return nil, &ConfigError{
			Component: "MultiHeadAttention",
			Field:     "numHeads",
			Message:   fmt.Sprintf("must be positive, got %d", numHeads),
		}
	}
	if dModel%numHeads != 0 {
		return nil, &ConfigError{
			Component: "MultiHeadAttention",
			Field:     "dModel",
			Message:   fmt.Sprintf("must be divisible by numHeads: %d %% %d != 0", dModel, numHeads),
		}
	}

	return &MultiHeadAttention[B]{
		dModel:   dModel,
		numHeads: numHeads,
		dk:       dModel / numHeads,
		wq:       NewLinear(rng, dModel, dModel, backend),
		wk:       NewLinear(rng, dModel, dModel, backend),
		wv:       NewLinear(rng, dModel, dModel, backend),
		wo:       NewLinear(rng, dModel, dModel, backend),
		dropout:  NewDropout[B](dropoutP, rng),
	}, nil
}

// Forward computes multi-head attention.
//
// query has shape [batch, qLen, dModel]; key and value share
// [batch, kLen, dModel]. mask is optional and must broadcast to
// [batch, heads, qLen, kLen]; true marks allowed positions.
//
// Returns [batch, qLen, dModel]. Forward stores the attention weights for
// AttentionWeights, so concurrent calls on one module race on that field;
// share the model, not the module, across goroutines.
func (mha *MultiHeadAttention[B]) Forward(
	query, key, value *tensor.Tensor[float32, B],
	mask *tensor.Tensor[bool, B],
	training bool,
) *tensor.Tensor[float32, B] {
	qShape := query.Shape()
	if len(qShape) != 3 {
		panic(fmt.Sprintf("MultiHeadAttention.Forward: expected 3D query [batch, seq, dModel], got %v", qShape))
	}

	batch, qLen := qShape[0], qShape[1]

	q := mha.projectHeads(mha.wq, query)
	k := mha.projectHeads(mha.wk, key)
	v := mha.projectHeads(mha.wv, value)

	attended, weights := ScaledDotProductAttention(q, k, v, mask, mha.dropout, training)
	mha.attnWeights = weights

	// [batch, heads, qLen, d_k] -> [batch, qLen, heads, d_k] -> [batch, qLen, dModel]
	merged := attended.Transpose(0, 2, 1, 3).Reshape(batch, qLen, mha.dModel)

	return mha.wo.Forward(merged)
}

// projectHeads applies a projection and splits the result into heads:
// [batch, seq, dModel] -> [batch, heads, seq, d_k].
func (mha *MultiHeadAttention[B]) projectHeads(proj *Linear[B], x *tensor.Tensor[float32, B]) *tensor.Tensor[float32, B] {
	shape := x.Shape()
	batch, seqLen := shape[0], shape[1]

	projected := proj.Forward(x)
	return projected.Reshape(batch, seqLen, mha.numHeads, mha.dk).Transpose(0, 2, 1, 3)
}

// AttentionWeights returns the post-softmax attention weights from the most
// recent Forward call, shaped [batch, heads, qLen, kLen]. Returns nil
// before the first call.
func (mha *MultiHeadAttention[B]) AttentionWeights() *tensor.Tensor[float32, B] {
	return mha.attnWeights
}

// NumHeads returns the number of attention heads.
func (mha *MultiHeadAttention[B]) NumHeads() int {
	return mha.numHeads
}

// HeadDim returns the per-head dimension d_k.
func (mha *MultiHeadAttention[B]) HeadDim() int {
	return mha.dk
}

// Parameters returns the parameters of the four projections in
// query, key, value, output order.
func (mha *MultiHeadAttention[B]) Parameters() []*Parameter[B] {
	var params []*Parameter[B]
	params = append(params, mha.wq.Parameters()...)
	params = append(params, mha.wk.Parameters()...)
	params = append(params, mha.wv.Parameters()...)
	params = append(params, mha.wo.Parameters()...)
	return params
}
