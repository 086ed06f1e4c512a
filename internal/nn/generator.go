package nn

import (
	"math/rand"

	"github.com/loom-ml/loom/internal/tensor"
)

// Generator is the final projection from decoder states to vocabulary
// log-probabilities: LogSoftmax(x @ W.T + b) over the last dimension.
//
// It is owned by the model but applied explicitly by the caller, so
// intermediate decoder states remain available for inspection or reuse.
type Generator[B tensor.Backend] struct {
	proj *Linear[B] // dModel -> vocabSize
}

// NewGenerator creates a generator projecting dModel features to
// vocabSize log-probabilities.
func NewGenerator[B tensor.Backend](rng *rand.Rand, dModel, vocabSize int, backend B) *Generator[B] {
	return &Generator[B]{
		proj: NewLinear(rng, dModel, vocabSize, backend),
	}
}

// Forward maps decoder states to log-probabilities.
//
// Input shape: [batch, seq, dModel].
// Output shape: [batch, seq, vocabSize]; each row is a valid
// log-probability distribution (its exponentials sum to 1).
func (g *Generator[B]) Forward(x *tensor.Tensor[float32, B]) *tensor.Tensor[float32, B] {
	return g.proj.Forward(x).LogSoftmax(-1)
}

// VocabSize returns the output vocabulary size.
func (g *Generator[B]) VocabSize() int {
	return g.proj.OutFeatures()
}

// Parameters returns the projection parameters.
func (g *Generator[B]) Parameters() []*Parameter[B] {
	return g.proj.Parameters()
}
