package transformer

import (
	"math/rand"

	"github.com/loom-ml/loom/internal/nn"
	"github.com/loom-ml/loom/internal/tensor"
)

// DecoderLayer is one decoder block with three sublayers, in order:
//
//  1. masked self-attention over the target sequence (causal + padding)
//  2. cross-attention: queries from the decoder, keys and values from the
//     encoder memory
//  3. position-wise feed-forward network
//
// Each sublayer is wrapped in a pre-norm residual connection. The order
// matters: self-attention must refine the target representation before it
// queries the source.
type DecoderLayer[B tensor.Backend] struct {
	selfAttn  *nn.MultiHeadAttention[B]
	crossAttn *nn.MultiHeadAttention[B]
	ffn       *nn.PositionwiseFeedForward[B]
	sublayers [3]*nn.SublayerConnection[B]
}

// NewDecoderLayer creates one decoder block.
func NewDecoderLayer[B tensor.Backend](rng *rand.Rand, cfg Config, backend B) (*DecoderLayer[B], error) {
	selfAttn, err := nn.NewMultiHeadAttention(rng, cfg.ModelDim, cfg.NumHeads, cfg.Dropout, backend)
	if err != nil {
		return nil, err
	}
	crossAttn, err := nn.NewMultiHeadAttention(rng, cfg.ModelDim, cfg.NumHeads, cfg.Dropout, backend)
	if err != nil {
		return nil, err
	}

	return &DecoderLayer[B]{
		selfAttn:  selfAttn,
		crossAttn: crossAttn,
		ffn:       nn.NewPositionwiseFeedForward(rng, cfg.ModelDim, cfg.FFNDim, cfg.Dropout, backend),
		sublayers: [3]*nn.SublayerConnection[B]{
			nn.NewSublayerConnection(cfg.ModelDim, cfg.Dropout, rng, backend),
			nn.NewSublayerConnection(cfg.ModelDim, cfg.Dropout, rng, backend),
			nn.NewSublayerConnection(cfg.ModelDim, cfg.Dropout, rng, backend),
		},
	}, nil
}

// Forward runs the block.
//
// x is the target representation [batch, tgtLen, dModel]; memory is the
// encoder output [batch, srcLen, dModel]. srcMask masks source padding in
// cross-attention; tgtMask combines target padding with the causal mask
// in self-attention.
func (dl *DecoderLayer[B]) Forward(
	x, memory *tensor.Tensor[float32, B],
	srcMask, tgtMask *tensor.Tensor[bool, B],
	training bool,
) *tensor.Tensor[float32, B] {
	x = dl.sublayers[0].Forward(x, training, func(y *tensor.Tensor[float32, B]) *tensor.Tensor[float32, B] {
		return dl.selfAttn.Forward(y, y, y, tgtMask, training)
	})
	x = dl.sublayers[1].Forward(x, training, func(y *tensor.Tensor[float32, B]) *tensor.Tensor[float32, B] {
		return dl.crossAttn.Forward(y, memory, memory, srcMask, training)
	})
	return dl.sublayers[2].Forward(x, training, func(y *tensor.Tensor[float32, B]) *tensor.Tensor[float32, B] {
		return dl.ffn.Forward(y, training)
	})
}

// SelfAttention exposes the masked self-attention module.
func (dl *DecoderLayer[B]) SelfAttention() *nn.MultiHeadAttention[B] {
	return dl.selfAttn
}

// CrossAttention exposes the encoder-decoder attention module.
func (dl *DecoderLayer[B]) CrossAttention() *nn.MultiHeadAttention[B] {
	return dl.crossAttn
}

// Parameters returns all parameters of the block.
func (dl *DecoderLayer[B]) Parameters() []*nn.Parameter[B] {
	var params []*nn.Parameter[B]
	params = append(params, dl.selfAttn.Parameters()...)
	params = append(params, dl.crossAttn.Parameters()...)
	params = append(params, dl.ffn.Parameters()...)
	for _, sl := range dl.sublayers {
		params = append(params, sl.Parameters()...)
	}
	return params
}

// Decoder stacks N identical decoder layers with a final layer
// normalization.
type Decoder[B tensor.Backend] struct {
	layers []*DecoderLayer[B]
	norm   *nn.LayerNorm[B]
}

// NewDecoder creates a decoder stack of cfg.NumLayers blocks.
func NewDecoder[B tensor.Backend](rng *rand.Rand, cfg Config, backend B) (*Decoder[B], error) {
	layers := make([]*DecoderLayer[B], cfg.NumLayers)
	for i := range layers {
		layer, err := NewDecoderLayer(rng, cfg, backend)
		if err != nil {
			return nil, err
		}
		layers[i] = layer
	}

	return &Decoder[B]{
		layers: layers,
		norm:   nn.NewLayerNorm(cfg.ModelDim, nn.DefaultLayerNormEps, backend),
	}, nil
}

// Forward passes x through every layer in order, then normalizes.
//
// Input and output shape: [batch, tgtLen, dModel].
func (d *Decoder[B]) Forward(
	x, memory *tensor.Tensor[float32, B],
	srcMask, tgtMask *tensor.Tensor[bool, B],
	training bool,
) *tensor.Tensor[float32, B] {
	for _, layer := range d.layers {
		x = layer.Forward(x, memory, srcMask, tgtMask, training)
	}
	return d.norm.Forward(x)
}

// Layers returns the decoder layers in order.
func (d *Decoder[B]) Layers() []*DecoderLayer[B] {
	return d.layers
}

// Parameters returns the parameters of every layer plus the final norm.
func (d *Decoder[B]) Parameters() []*nn.Parameter[B] {
	var params []*nn.Parameter[B]
	for _, layer := range d.layers {
		params = append(params, layer.Parameters()...)
	}
	params = append(params, d.norm.Parameters()...)
	return params
}
