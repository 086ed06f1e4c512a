package tensor

// Unsqueeze adds a dimension of size 1 at the specified position.
//
// Supports negative dim indexing. This is a view operation (no data copy).
//
// Example:
//
//	x := tensor.Randn[float32](Shape{2, 3}, backend)
//	y := x.Unsqueeze(1)  // Shape: [2, 1, 3]
//	z := x.Unsqueeze(-1) // Shape: [2, 3, 1]
func (t *Tensor[T, B]) Unsqueeze(dim int) *Tensor[T, B] {
	result := t.backend.Unsqueeze(t.raw, dim)
	return New[T, B](result, t.backend)
}

// Squeeze removes a dimension of size 1 at the specified position.
//
// Panics if the dimension size is not 1. Supports negative dim indexing.
// This is a view operation (no data copy).
func (t *Tensor[T, B]) Squeeze(dim int) *Tensor[T, B] {
	result := t.backend.Squeeze(t.raw, dim)
	return New[T, B](result, t.backend)
}

// Expand broadcasts the tensor to a new shape.
//
// The new shape must be compatible with the current shape according to
// NumPy broadcasting rules. Dimensions of size 1 can be broadcast to any size.
//
// Example:
//
//	x := tensor.Randn[float32](Shape{1, 3}, backend)
//	y := x.Expand(Shape{5, 3})
func (t *Tensor[T, B]) Expand(shape Shape) *Tensor[T, B] {
	result := t.backend.Expand(t.raw, shape)
	return New[T, B](result, t.backend)
}

// Where selects elements from x or y based on condition.
//
// For each element:
//   - If condition is true, select from x
//   - If condition is false, select from y
//
// Supports broadcasting between condition, x, and y. This is the masking
// primitive used by attention: forbidden score positions are replaced by a
// large negative sentinel before the softmax.
//
// Example:
//
//	cond := tensor.Full[bool](Shape{3}, true, backend)
//	x := tensor.Full[float32](Shape{3}, 1.0, backend)
//	y := tensor.Full[float32](Shape{3}, 0.0, backend)
//	result := tensor.Where(cond, x, y) // [1.0, 1.0, 1.0]
func Where[T DType, B Backend](cond *Tensor[bool, B], x, y *Tensor[T, B]) *Tensor[T, B] {
	result := x.backend.Where(cond.raw, x.raw, y.raw)
	return New[T, B](result, x.backend)
}

// The logical operations below are meaningful only for bool tensors.
// Methods cannot constrain the receiver's element type further, so they are
// declared for every T; the backend panics unless the operands hold Bool
// data.

// Or computes element-wise logical OR between two boolean tensors.
// Supports broadcasting between tensors of different shapes.
func (t *Tensor[T, B]) Or(other *Tensor[T, B]) *Tensor[T, B] {
	result := t.backend.Or(t.raw, other.raw)
	return New[T, B](result, t.backend)
}

// And computes element-wise logical AND between two boolean tensors.
// Supports broadcasting between tensors of different shapes.
//
// Example:
//
//	padMask := tensor.Full[bool](Shape{1, 1, 1, 4}, true, backend)
//	causal := tensor.Full[bool](Shape{1, 1, 4, 4}, true, backend)
//	tgtMask := padMask.And(causal) // Shape: [1, 1, 4, 4]
func (t *Tensor[T, B]) And(other *Tensor[T, B]) *Tensor[T, B] {
	result := t.backend.And(t.raw, other.raw)
	return New[T, B](result, t.backend)
}

// Not computes element-wise logical NOT of a boolean tensor.
func (t *Tensor[T, B]) Not() *Tensor[T, B] {
	result := t.backend.Not(t.raw)
	return New[T, B](result, t.backend)
}
