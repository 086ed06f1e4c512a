package nn

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/loom-ml/loom/internal/tensor"
)

// Embedding maps token IDs to dense vectors via table lookup, scaling the
// result by sqrt(dModel) so embedding magnitudes match the scale of the
// positional encodings added immediately afterwards.
type Embedding[B tensor.Backend] struct {
	vocabSize int
	dModel    int
	weight    *Parameter[B] // [vocabSize, dModel]
	scale     float32
	backend   B
}

// NewEmbedding creates an embedding table with Xavier-initialized rows.
func NewEmbedding[B tensor.Backend](rng *rand.Rand, vocabSize, dModel int, backend B) *Embedding[B] {
	shape := tensor.Shape{vocabSize, dModel}
	weight := NewParameter("weight", Xavier(rng, vocabSize, dModel, shape, backend))

	return &Embedding[B]{
		vocabSize: vocabSize,
		dModel:    dModel,
		weight:    weight,
		scale:     float32(math.Sqrt(float64(dModel))),
		backend:   backend,
	}
}

// Forward looks up the embedding rows for each token ID and scales them
// by sqrt(dModel).
//
// Input shape: [batch, seq] of token IDs in [0, vocabSize).
// Output shape: [batch, seq, dModel]. Out-of-range IDs panic.
func (e *Embedding[B]) Forward(tokens *tensor.Tensor[int32, B]) *tensor.Tensor[float32, B] {
	if len(tokens.Shape()) != 2 {
		panic(fmt.Sprintf("Embedding.Forward: expected 2D token tensor [batch, seq], got %v", tokens.Shape()))
	}

	raw := e.backend.Embedding(e.weight.Tensor().Raw(), tokens.Raw())
	embedded := tensor.New[float32, B](raw, e.backend)

	return embedded.MulScalar(e.scale)
}

// VocabSize returns the vocabulary size.
func (e *Embedding[B]) VocabSize() int {
	return e.vocabSize
}

// Parameters returns [weight].
func (e *Embedding[B]) Parameters() []*Parameter[B] {
	return []*Parameter[B]{e.weight}
}
