package nn

import (
	"fmt"

	"github.com/loom-ml/loom/internal/tensor"
)

// LayerNorm implements layer normalization over the last dimension.
//
// For each feature vector x:
//
//	y = gain * (x - mean) / sqrt(variance + eps) + bias
//
// where mean and variance are computed per vector over the feature
// dimension, gain is initialized to ones and bias to zeros. eps keeps the
// division finite for zero-variance inputs.
type LayerNorm[B tensor.Backend] struct {
	features int
	eps      float32
	gain     *Parameter[B] // [features]
	bias     *Parameter[B] // [features]
}

// DefaultLayerNormEps is the variance floor used when no explicit epsilon
// is given.
const DefaultLayerNormEps = 1e-6

// NewLayerNorm creates a LayerNorm over vectors of the given size.
func NewLayerNorm[B tensor.Backend](features int, eps float32, backend B) *LayerNorm[B] {
	return &LayerNorm[B]{
		features: features,
		eps:      eps,
		gain:     NewParameter("gain", Ones(tensor.Shape{features}, backend)),
		bias:     NewParameter("bias", Zeros(tensor.Shape{features}, backend)),
	}
}

// Forward normalizes the last dimension of x.
//
// Input shape: [..., features]. The output has the same shape.
func (ln *LayerNorm[B]) Forward(x *tensor.Tensor[float32, B]) *tensor.Tensor[float32, B] {
	shape := x.Shape()
	if shape[len(shape)-1] != ln.features {
		panic(fmt.Sprintf("LayerNorm.Forward: expected last dimension %d, got %d", ln.features, shape[len(shape)-1]))
	}

	mean := x.MeanDim(-1, true)
	centered := x.Sub(mean)

	// Biased variance estimator (divide by N, not N-1).
	variance := centered.Mul(centered).MeanDim(-1, true)
	invStd := variance.AddScalar(ln.eps).Rsqrt()

	normalized := centered.Mul(invStd)
	return normalized.Mul(ln.gain.Tensor()).Add(ln.bias.Tensor())
}

// Parameters returns [gain, bias].
func (ln *LayerNorm[B]) Parameters() []*Parameter[B] {
	return []*Parameter[B]{ln.gain, ln.bias}
}

// Features returns the normalized vector size.
func (ln *LayerNorm[B]) Features() int {
	return ln.features
}
