package nn

import (
	"fmt"
	"math/rand"

	"github.com/loom-ml/loom/internal/tensor"
)

// Dropout randomly zeroes elements of the input with probability p during
// training, scaling the survivors by 1/(1-p) so the expected activation
// is unchanged (inverted dropout).
//
// In inference mode (training=false) the input passes through untouched.
// A Dropout with p=0 is also a no-op; model builders use that to make
// forward passes fully deterministic.
//
// The module draws from its own *rand.Rand, so a seeded model produces
// reproducible dropout masks. Forward in training mode advances the RNG
// and is therefore not safe for concurrent use; inference mode is.
type Dropout[B tensor.Backend] struct {
	p   float32
	rng *rand.Rand
}

// NewDropout creates a Dropout module with drop probability p.
// Panics if p is outside [0, 1).
func NewDropout[B tensor.Backend](p float32, rng *rand.Rand) *Dropout[B] {
	if p < 0 || p >= 1 {
		panic(fmt.Sprintf("NewDropout: probability must be in [0, 1), got %v", p))
	}
	return &Dropout[B]{p: p, rng: rng}
}

// Forward applies dropout to x when training is true.
func (d *Dropout[B]) Forward(x *tensor.Tensor[float32, B], training bool) *tensor.Tensor[float32, B] {
	if !training || d.p == 0 {
		return x
	}

	out := x.Clone()
	data := out.Data()
	scale := 1.0 / (1.0 - d.p)

	for i := range data {
		if d.rng.Float64() < float64(d.p) {
			data[i] = 0
		} else {
			data[i] *= scale
		}
	}

	return out
}

// P returns the drop probability.
func (d *Dropout[B]) P() float32 {
	return d.p
}

// Parameters returns an empty slice; dropout has no trainable parameters.
func (d *Dropout[B]) Parameters() []*Parameter[B] {
	return nil
}
