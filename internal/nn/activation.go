package nn

import (
	"github.com/loom-ml/loom/internal/tensor"
)

// reluBackend is the optional capability interface for backends with a
// fused ReLU kernel.
type reluBackend interface {
	ReLU(x *tensor.RawTensor) *tensor.RawTensor
}

// ReLU applies the rectified linear unit activation: max(0, x).
type ReLU[B tensor.Backend] struct{}

// NewReLU creates a new ReLU activation module.
func NewReLU[B tensor.Backend]() *ReLU[B] {
	return &ReLU[B]{}
}

// Forward computes max(0, x) element-wise.
//
// Uses the backend's fused kernel when available, otherwise falls back to
// a direct element-wise pass over a copy of the data.
func (r *ReLU[B]) Forward(input *tensor.Tensor[float32, B]) *tensor.Tensor[float32, B] {
	backend := input.Backend()
	if rb, ok := any(backend).(reluBackend); ok {
		return tensor.New[float32, B](rb.ReLU(input.Raw()), backend)
	}

	out := input.Clone()
	data := out.Data()
	for i, v := range data {
		if v < 0 {
			data[i] = 0
		}
	}
	return out
}

// Parameters returns an empty slice; ReLU has no trainable parameters.
func (r *ReLU[B]) Parameters() []*Parameter[B] {
	return nil
}
