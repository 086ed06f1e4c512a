package transformer

import (
	"math/rand"

	"github.com/loom-ml/loom/internal/nn"
	"github.com/loom-ml/loom/internal/tensor"
)

// EncoderDecoder is the full transformer model: source and target
// embeddings with positional encoding, an encoder stack, a decoder stack,
// and a generator projecting decoder states to vocabulary
// log-probabilities.
//
// The generator is owned by the model but applied explicitly through
// Generator(), so callers keep access to raw decoder states.
//
// All construction randomness flows from Config.Seed: two models built
// from equal configs have identical weights.
type EncoderDecoder[B tensor.Backend] struct {
	config Config

	srcEmbed *nn.Embedding[B]
	tgtEmbed *nn.Embedding[B]
	srcPos   *nn.SinusoidalPositionalEncoding[B]
	tgtPos   *nn.SinusoidalPositionalEncoding[B]

	encoder   *Encoder[B]
	decoder   *Decoder[B]
	generator *nn.Generator[B]
}

// New builds an encoder-decoder transformer from the configuration.
//
// Returns a *nn.ConfigError if the configuration is invalid. Components
// are constructed in a fixed order from a seeded RNG, which makes the
// initial weights a pure function of the config.
func New[B tensor.Backend](cfg Config, backend B) (*EncoderDecoder[B], error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	rng := rand.New(rand.NewSource(cfg.Seed))

	srcEmbed := nn.NewEmbedding(rng, cfg.SrcVocabSize, cfg.ModelDim, backend)
	tgtEmbed := nn.NewEmbedding(rng, cfg.TgtVocabSize, cfg.ModelDim, backend)
	srcPos := nn.NewSinusoidalPositionalEncoding(cfg.ModelDim, cfg.MaxLen, cfg.Dropout, rng, backend)
	tgtPos := nn.NewSinusoidalPositionalEncoding(cfg.ModelDim, cfg.MaxLen, cfg.Dropout, rng, backend)

	encoder, err := NewEncoder(rng, cfg, backend)
	if err != nil {
		return nil, err
	}
	decoder, err := NewDecoder(rng, cfg, backend)
	if err != nil {
		return nil, err
	}

	generator := nn.NewGenerator(rng, cfg.ModelDim, cfg.TgtVocabSize, backend)

	return &EncoderDecoder[B]{
		config:    cfg,
		srcEmbed:  srcEmbed,
		tgtEmbed:  tgtEmbed,
		srcPos:    srcPos,
		tgtPos:    tgtPos,
		encoder:   encoder,
		decoder:   decoder,
		generator: generator,
	}, nil
}

// Encode embeds the source tokens and runs the encoder stack.
//
// src has shape [batch, srcLen]; srcMask is the source padding mask (may
// be nil when no padding is present). Returns the encoder memory
// [batch, srcLen, dModel].
func (m *EncoderDecoder[B]) Encode(src *tensor.Tensor[int32, B], srcMask *tensor.Tensor[bool, B], training bool) *tensor.Tensor[float32, B] {
	x := m.srcPos.Forward(m.srcEmbed.Forward(src), training)
	return m.encoder.Forward(x, srcMask, training)
}

// Decode embeds the target tokens and runs the decoder stack against the
// encoder memory.
//
// tgt has shape [batch, tgtLen]; memory is the output of Encode. Returns
// decoder states [batch, tgtLen, dModel]; apply Generator() to obtain
// log-probabilities.
func (m *EncoderDecoder[B]) Decode(
	memory *tensor.Tensor[float32, B],
	srcMask *tensor.Tensor[bool, B],
	tgt *tensor.Tensor[int32, B],
	tgtMask *tensor.Tensor[bool, B],
	training bool,
) *tensor.Tensor[float32, B] {
	x := m.tgtPos.Forward(m.tgtEmbed.Forward(tgt), training)
	return m.decoder.Forward(x, memory, srcMask, tgtMask, training)
}

// Forward runs the full encode-decode pass, returning decoder states
// [batch, tgtLen, dModel].
func (m *EncoderDecoder[B]) Forward(
	src, tgt *tensor.Tensor[int32, B],
	srcMask, tgtMask *tensor.Tensor[bool, B],
	training bool,
) *tensor.Tensor[float32, B] {
	memory := m.Encode(src, srcMask, training)
	return m.Decode(memory, srcMask, tgt, tgtMask, training)
}

// Generator returns the output projection module.
func (m *EncoderDecoder[B]) Generator() *nn.Generator[B] {
	return m.generator
}

// Encoder returns the encoder stack.
func (m *EncoderDecoder[B]) Encoder() *Encoder[B] {
	return m.encoder
}

// Decoder returns the decoder stack.
func (m *EncoderDecoder[B]) Decoder() *Decoder[B] {
	return m.decoder
}

// Config returns the configuration the model was built with.
func (m *EncoderDecoder[B]) Config() Config {
	return m.config
}

// Parameters returns every learnable parameter of the model: embeddings,
// encoder, decoder, and generator, in construction order. Positional
// encoding tables are fixed and excluded.
func (m *EncoderDecoder[B]) Parameters() []*nn.Parameter[B] {
	var params []*nn.Parameter[B]
	params = append(params, m.srcEmbed.Parameters()...)
	params = append(params, m.tgtEmbed.Parameters()...)
	params = append(params, m.encoder.Parameters()...)
	params = append(params, m.decoder.Parameters()...)
	params = append(params, m.generator.Parameters()...)
	return params
}
