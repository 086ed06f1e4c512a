package cpu

import (
	"fmt"

	"github.com/loom-ml/loom/internal/tensor"
)

// Unsqueeze adds a dimension of size 1 at the specified position.
// Supports negative dim indexing. Zero-copy view.
func (cpu *CPUBackend) Unsqueeze(x *tensor.RawTensor, dim int) *tensor.RawTensor {
	shape := x.Shape()
	ndim := len(shape)

	if dim < 0 {
		dim += ndim + 1
	}
	if dim < 0 || dim > ndim {
		panic(fmt.Sprintf("unsqueeze: invalid dim %d for %dD tensor", dim, ndim))
	}

	newShape := make(tensor.Shape, 0, ndim+1)
	newShape = append(newShape, shape[:dim]...)
	newShape = append(newShape, 1)
	newShape = append(newShape, shape[dim:]...)

	return x.WithShape(newShape)
}

// Squeeze removes a dimension of size 1 at the specified position.
// Supports negative dim indexing. Zero-copy view.
func (cpu *CPUBackend) Squeeze(x *tensor.RawTensor, dim int) *tensor.RawTensor {
	shape := x.Shape()
	ndim := len(shape)

	if dim < 0 {
		dim += ndim
	}
	if dim < 0 || dim >= ndim {
		panic(fmt.Sprintf("squeeze: invalid dim %d for %dD tensor", dim, ndim))
	}
	if shape[dim] != 1 {
		panic(fmt.Sprintf("squeeze: dimension %d has size %d, expected 1", dim, shape[dim]))
	}

	newShape := make(tensor.Shape, 0, ndim-1)
	newShape = append(newShape, shape[:dim]...)
	newShape = append(newShape, shape[dim+1:]...)
	if len(newShape) == 0 {
		newShape = tensor.Shape{1}
	}

	return x.WithShape(newShape)
}

// Expand materializes a broadcast of x to the target shape.
//
// The target must be broadcast-compatible with x's shape: each existing
// dimension must either match or have size 1.
func (cpu *CPUBackend) Expand(x *tensor.RawTensor, shape tensor.Shape) *tensor.RawTensor {
	srcShape := x.Shape()

	offset := len(shape) - len(srcShape)
	if offset < 0 {
		panic(&tensor.ShapeError{Op: "expand", A: srcShape, B: shape,
			Details: "target has fewer dimensions than source"})
	}
	for i, dim := range srcShape {
		if dim != 1 && dim != shape[offset+i] {
			panic(&tensor.ShapeError{Op: "expand", A: srcShape, B: shape,
				Details: fmt.Sprintf("dimension %d: cannot expand %d to %d", i, dim, shape[offset+i])})
		}
	}

	result, err := tensor.NewRaw(shape, x.DType(), cpu.device)
	if err != nil {
		panic(fmt.Sprintf("expand: failed to create result tensor: %v", err))
	}

	switch x.DType() {
	case tensor.Float32:
		expandKernel(result.AsFloat32(), x.AsFloat32(), srcShape, shape)
	case tensor.Float64:
		expandKernel(result.AsFloat64(), x.AsFloat64(), srcShape, shape)
	case tensor.Int32:
		expandKernel(result.AsInt32(), x.AsInt32(), srcShape, shape)
	case tensor.Int64:
		expandKernel(result.AsInt64(), x.AsInt64(), srcShape, shape)
	case tensor.Bool:
		expandKernel(result.AsBool(), x.AsBool(), srcShape, shape)
	default:
		panic(fmt.Sprintf("expand: unsupported dtype %s", x.DType()))
	}

	return result
}

func expandKernel[T tensor.DType](dst, src []T, srcShape, outShape tensor.Shape) {
	srcStrides := computeBroadcastStridesForShape(srcShape, outShape)
	outStrides := outShape.ComputeStrides()

	for i := range dst {
		dst[i] = src[computeFlatIndex(i, outStrides, srcStrides)]
	}
}
