package transformer

import (
	"github.com/loom-ml/loom/internal/nn"
	"github.com/loom-ml/loom/internal/tensor"
)

// PaddingMask builds an attention mask hiding padding tokens.
//
// tokens has shape [batch, seqLen]; positions equal to padID become false
// (forbidden), all others true. The result has shape
// [batch, 1, 1, seqLen] so it broadcasts over heads and query positions.
func PaddingMask[B tensor.Backend](tokens *tensor.Tensor[int32, B], padID int32) *tensor.Tensor[bool, B] {
	pad := tensor.Full[int32](tensor.Shape{1}, padID, tokens.Backend())
	return tokens.NotEqual(pad).Unsqueeze(1).Unsqueeze(1)
}

// TargetMask builds the decoder self-attention mask: the conjunction of
// the padding mask for tokens and the causal mask, so a position attends
// only to non-padding positions at or before itself.
//
// tokens has shape [batch, seqLen]; the result has shape
// [batch, 1, seqLen, seqLen].
func TargetMask[B tensor.Backend](tokens *tensor.Tensor[int32, B], padID int32) *tensor.Tensor[bool, B] {
	seqLen := tokens.Shape()[1]
	padding := PaddingMask(tokens, padID)
	causal := nn.SubsequentMask(seqLen, tokens.Backend())
	return padding.And(causal)
}
