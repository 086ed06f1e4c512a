package nn

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/loom-ml/loom/internal/tensor"
)

// SinusoidalPositionalEncoding adds fixed (non-learned) position
// information to embedded sequences:
//
//	PE(pos, 2i)   = sin(pos / 10000^(2i/dModel))
//	PE(pos, 2i+1) = cos(pos / 10000^(2i/dModel))
//
// Even feature indices carry the sine, odd indices the cosine of the same
// frequency. The full table for maxLen positions is precomputed at
// construction time; Forward only slices and adds, followed by dropout.
//
// The table is excluded from Parameters: it is deterministic, not learned.
type SinusoidalPositionalEncoding[B tensor.Backend] struct {
	dModel  int
	maxLen  int
	table   *tensor.Tensor[float32, B] // [maxLen, dModel]
	dropout *Dropout[B]
	backend B
}

// NewSinusoidalPositionalEncoding precomputes the encoding table for
// positions [0, maxLen).
func NewSinusoidalPositionalEncoding[B tensor.Backend](dModel, maxLen int, dropoutP float32, rng *rand.Rand, backend B) *SinusoidalPositionalEncoding[B] {
	if maxLen <= 0 {
		panic(fmt.Sprintf("NewSinusoidalPositionalEncoding: maxLen must be positive, got %d", maxLen))
	}

	table := tensor.Zeros[float32](tensor.Shape{maxLen, dModel}, backend)
	data := table.Data()

	for pos := 0; pos < maxLen; pos++ {
		for i := 0; i < dModel; i++ {
			// Paired sin/cos features share the frequency of the even index.
			exponent := float64(2*(i/2)) / float64(dModel)
			angle := float64(pos) / math.Pow(10000, exponent)
			if i%2 == 0 {
				data[pos*dModel+i] = float32(math.Sin(angle))
			} else {
				data[pos*dModel+i] = float32(math.Cos(angle))
			}
		}
	}

	return &SinusoidalPositionalEncoding[B]{
		dModel:  dModel,
		maxLen:  maxLen,
		table:   table,
		dropout: NewDropout[B](dropoutP, rng),
		backend: backend,
	}
}

// Forward adds positional encodings to x and applies dropout.
//
// Input shape: [batch, seq, dModel] with seq <= maxLen; the encodings for
// positions [0, seq) broadcast over the batch dimension.
func (pe *SinusoidalPositionalEncoding[B]) Forward(x *tensor.Tensor[float32, B], training bool) *tensor.Tensor[float32, B] {
	shape := x.Shape()
	if len(shape) != 3 {
		panic(fmt.Sprintf("SinusoidalPositionalEncoding.Forward: expected 3D input [batch, seq, dModel], got %v", shape))
	}

	seqLen := shape[1]
	if seqLen > pe.maxLen {
		panic(fmt.Sprintf("SinusoidalPositionalEncoding.Forward: sequence length %d exceeds maxLen %d", seqLen, pe.maxLen))
	}
	if shape[2] != pe.dModel {
		panic(fmt.Sprintf("SinusoidalPositionalEncoding.Forward: expected model dimension %d, got %d", pe.dModel, shape[2]))
	}

	out := x.Add(pe.Encoding(seqLen))
	return pe.dropout.Forward(out, training)
}

// Encoding returns the positional encodings for positions [0, seqLen) as
// a [1, seqLen, dModel] tensor.
func (pe *SinusoidalPositionalEncoding[B]) Encoding(seqLen int) *tensor.Tensor[float32, B] {
	if seqLen <= 0 || seqLen > pe.maxLen {
		panic(fmt.Sprintf("SinusoidalPositionalEncoding.Encoding: seqLen %d out of range (0, %d]", seqLen, pe.maxLen))
	}

	// The first seqLen rows of the table are contiguous, so the slice is
	// a straight prefix copy.
	slice := tensor.Zeros[float32](tensor.Shape{1, seqLen, pe.dModel}, pe.backend)
	copy(slice.Data(), pe.table.Data()[:seqLen*pe.dModel])
	return slice
}

// MaxLen returns the maximum supported sequence length.
func (pe *SinusoidalPositionalEncoding[B]) MaxLen() int {
	return pe.maxLen
}

// Parameters returns an empty slice; the encoding table is fixed.
func (pe *SinusoidalPositionalEncoding[B]) Parameters() []*Parameter[B] {
	return nil
}
