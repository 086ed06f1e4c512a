// Package transformer assembles the encoder-decoder transformer
// architecture from the modules in the nn package.
package transformer

import (
	"fmt"

	"github.com/loom-ml/loom/internal/nn"
)

// Config holds the hyperparameters of an encoder-decoder transformer.
type Config struct {
	SrcVocabSize int     // source vocabulary size
	TgtVocabSize int     // target vocabulary size
	NumLayers    int     // encoder and decoder layer count (N)
	ModelDim     int     // model dimension (d_model)
	FFNDim       int     // feed-forward inner dimension (d_ff)
	NumHeads     int     // attention head count (h)
	Dropout      float32 // dropout probability
	MaxLen       int     // maximum sequence length for positional encoding
	Seed         int64   // RNG seed for weight initialization and dropout
}

// DefaultConfig returns the factory defaults: a 6-layer model with a
// compact 64-dimensional representation. Vocabulary sizes must still be
// set by the caller.
func DefaultConfig() Config {
	return Config{
		NumLayers: 6,
		ModelDim:  64,
		FFNDim:    128,
		NumHeads:  8,
		Dropout:   0.1,
		MaxLen:    5000,
	}
}

// Validate checks the configuration, returning a *nn.ConfigError describing
// the first problem found.
func (c Config) Validate() error {
	check := func(field, msg string) error {
		return &nn.ConfigError{Component: "transformer.Config", Field: field, Message: msg}
	}

	if c.SrcVocabSize <= 0 {
		return check("SrcVocabSize", fmt.Sprintf("must be positive, got %d", c.SrcVocabSize))
	}
	if c.TgtVocabSize <= 0 {
		return check("TgtVocabSize", fmt.Sprintf("must be positive, got %d", c.TgtVocabSize))
	}
	if c.NumLayers <= 0 {
		return check("NumLayers", fmt.Sprintf("must be positive, got %d", c.NumLayers))
	}
	if c.ModelDim <= 0 {
		return check("ModelDim", fmt.Sprintf("must be positive, got %d", c.ModelDim))
	}
	if c.FFNDim <= 0 {
		return check("FFNDim", fmt.Sprintf("must be positive, got %d", c.FFNDim))
	}
	if c.NumHeads <= 0 {
		return check("NumHeads", fmt.Sprintf("must be positive, got %d", c.NumHeads))
	}
	if c.ModelDim%c.NumHeads != 0 {
		return check("ModelDim", fmt.Sprintf("must be divisible by NumHeads: %d %% %d != 0", c.ModelDim, c.NumHeads))
	}
	if c.Dropout < 0 || c.Dropout >= 1 {
		return check("Dropout", fmt.Sprintf("must be in [0, 1), got %v", c.Dropout))
	}
	if c.MaxLen <= 0 {
		return check("MaxLen", fmt.Sprintf("must be positive, got %d", c.MaxLen))
	}

	return nil
}
