package nn

import (
	"fmt"
	"math"

	"github.com/loom-ml/loom/internal/tensor"
)

// maskFill is the additive sentinel substituted for forbidden attention
// scores before the softmax. After row-wise max subtraction a score of
// -1e9 underflows to a weight of exactly zero without producing NaN the
// way a literal -Inf can when an entire row is masked.
const maskFill = -1e9

// ScaledDotProductAttention computes softmax(Q @ K.T / sqrt(d_k)) @ V.
//
// q, k, v have shape [batch, heads, seqLen, d_k] (k and v share their
// sequence length, q may differ for cross-attention). mask is an optional
// boolean tensor broadcastable to the score shape
// [batch, heads, qLen, kLen]; true marks positions allowed to attend,
// false marks forbidden ones. dropout, when non-nil, is applied to the
// attention weights after the softmax.
//
// Returns the attention output [batch, heads, qLen, d_k] and the
// post-softmax attention weights [batch, heads, qLen, kLen]. Each weight
// row sums to 1 and forbidden positions receive (numerically) zero weight.
// A row with every position masked degenerates to uniform weights over all
// positions rather than NaN: after max subtraction the sentinel cancels out
// and the softmax sees a constant row.
func ScaledDotProductAttention[B tensor.Backend](
	q, k, v *tensor.Tensor[float32, B],
	mask *tensor.Tensor[bool, B],
	dropout *Dropout[B],
	training bool,
) (*tensor.Tensor[float32, B], *tensor.Tensor[float32, B]) {
	qShape, kShape, vShape := q.Shape(), k.Shape(), v.Shape()

	if len(qShape) != 4 || len(kShape) != 4 || len(vShape) != 4 {
		panic(fmt.Sprintf("attention: q, k, v must be 4D [batch, heads, seq, d_k], got %v, %v, %v",
			qShape, kShape, vShape))
	}
	if qShape[3] != kShape[3] {
		panic(&tensor.ShapeError{Op: "attention", A: qShape, B: kShape,
			Details: "q and k must have the same head dimension"})
	}
	if kShape[2] != vShape[2] {
		panic(&tensor.ShapeError{Op: "attention", A: kShape, B: vShape,
			Details: "k and v must have the same sequence length"})
	}

	dk := qShape[3]
	scale := float32(1.0 / math.Sqrt(float64(dk)))

	// [batch, heads, qLen, d_k] @ [batch, heads, d_k, kLen] -> [batch, heads, qLen, kLen]
	scores := q.BatchMatMul(k.Transpose(0, 1, 3, 2)).MulScalar(scale)

	if mask != nil {
		fill := tensor.Full[float32](scores.Shape(), maskFill, q.Backend())
		scores = tensor.Where(mask, scores, fill)
	}

	weights := scores.Softmax(-1)

	if dropout != nil {
		weights = dropout.Forward(weights, training)
	}

	// [batch, heads, qLen, kLen] @ [batch, heads, kLen, d_k] -> [batch, heads, qLen, d_k]
	output := weights.BatchMatMul(v)

	return output, weights
}

// SubsequentMask builds the causal mask for autoregressive decoding.
//
// The result has shape [1, 1, seqLen, seqLen] with element (i, j) true
// iff j <= i: each position may attend to itself and everything before
// it, never to later positions. The two leading singleton dimensions
// broadcast over batch and heads.
func SubsequentMask[B tensor.Backend](seqLen int, backend B) *tensor.Tensor[bool, B] {
	if seqLen <= 0 {
		panic(fmt.Sprintf("SubsequentMask: seqLen must be positive, got %d", seqLen))
	}

	mask := tensor.Zeros[bool](tensor.Shape{1, 1, seqLen, seqLen}, backend)
	data := mask.Data()
	for i := 0; i < seqLen; i++ {
		for j := 0; j <= i; j++ {
			data[i*seqLen+j] = true
		}
	}
	return mask
}
