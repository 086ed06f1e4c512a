package transformer

import (
	"math/rand"

	"github.com/loom-ml/loom/internal/nn"
	"github.com/loom-ml/loom/internal/tensor"
)

// EncoderLayer is one encoder block: self-attention followed by a
// position-wise feed-forward network, each wrapped in a pre-norm residual
// connection.
type EncoderLayer[B tensor.Backend] struct {
	selfAttn  *nn.MultiHeadAttention[B]
	ffn       *nn.PositionwiseFeedForward[B]
	sublayers [2]*nn.SublayerConnection[B]
}

// NewEncoderLayer creates one encoder block.
func NewEncoderLayer[B tensor.Backend](rng *rand.Rand, cfg Config, backend B) (*EncoderLayer[B], error) {
	selfAttn, err := nn.NewMultiHeadAttention(rng, cfg.ModelDim, cfg.NumHeads, cfg.Dropout, backend)
	if err != nil {
		return nil, err
	}

	return &EncoderLayer[B]{
		selfAttn: selfAttn,
		ffn:      nn.NewPositionwiseFeedForward(rng, cfg.ModelDim, cfg.FFNDim, cfg.Dropout, backend),
		sublayers: [2]*nn.SublayerConnection[B]{
			nn.NewSublayerConnection(cfg.ModelDim, cfg.Dropout, rng, backend),
			nn.NewSublayerConnection(cfg.ModelDim, cfg.Dropout, rng, backend),
		},
	}, nil
}

// Forward runs the block on x with an optional source padding mask.
//
// Input and output shape: [batch, srcLen, dModel].
func (el *EncoderLayer[B]) Forward(x *tensor.Tensor[float32, B], srcMask *tensor.Tensor[bool, B], training bool) *tensor.Tensor[float32, B] {
	x = el.sublayers[0].Forward(x, training, func(y *tensor.Tensor[float32, B]) *tensor.Tensor[float32, B] {
		return el.selfAttn.Forward(y, y, y, srcMask, training)
	})
	return el.sublayers[1].Forward(x, training, func(y *tensor.Tensor[float32, B]) *tensor.Tensor[float32, B] {
		return el.ffn.Forward(y, training)
	})
}

// SelfAttention exposes the self-attention module, e.g. for reading its
// attention weights after a forward pass.
func (el *EncoderLayer[B]) SelfAttention() *nn.MultiHeadAttention[B] {
	return el.selfAttn
}

// Parameters returns all parameters of the block.
func (el *EncoderLayer[B]) Parameters() []*nn.Parameter[B] {
	var params []*nn.Parameter[B]
	params = append(params, el.selfAttn.Parameters()...)
	params = append(params, el.ffn.Parameters()...)
	for _, sl := range el.sublayers {
		params = append(params, sl.Parameters()...)
	}
	return params
}

// Encoder stacks N identical encoder layers with a final layer
// normalization. The final norm compensates for the pre-norm layout, which
// otherwise leaves the last residual stream unnormalized.
type Encoder[B tensor.Backend] struct {
	layers []*EncoderLayer[B]
	norm   *nn.LayerNorm[B]
}

// NewEncoder creates an encoder stack of cfg.NumLayers blocks.
func NewEncoder[B tensor.Backend](rng *rand.Rand, cfg Config, backend B) (*Encoder[B], error) {
	layers := make([]*EncoderLayer[B], cfg.NumLayers)
	for i := range layers {
		layer, err := NewEncoderLayer(rng, cfg, backend)
		if err != nil {
			return nil, err
		}
		layers[i] = layer
	}

	return &Encoder[B]{
		layers: layers,
		norm:   nn.NewLayerNorm(cfg.ModelDim, nn.DefaultLayerNormEps, backend),
	}, nil
}

// Forward passes x through every layer in order, then normalizes.
//
// Input and output shape: [batch, srcLen, dModel].
func (e *Encoder[B]) Forward(x *tensor.Tensor[float32, B], srcMask *tensor.Tensor[bool, B], training bool) *tensor.Tensor[float32, B] {
	for _, layer := range e.layers {
		x = layer.Forward(x, srcMask, training)
	}
	return e.norm.Forward(x)
}

// Layers returns the encoder layers in order.
func (e *Encoder[B]) Layers() []*EncoderLayer[B] {
	return e.layers
}

// Parameters returns the parameters of every layer plus the final norm.
func (e *Encoder[B]) Parameters() []*nn.Parameter[B] {
	var params []*nn.Parameter[B]
	for _, layer := range e.layers {
		params = append(params, layer.Parameters()...)
	}
	params = append(params, e.norm.Parameters()...)
	return params
}
