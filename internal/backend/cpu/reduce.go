package cpu

import (
	"fmt"

	"github.com/loom-ml/loom/internal/tensor"
)

// Sum computes the total sum of all elements, returning a scalar tensor
// of shape [1].
func (cpu *CPUBackend) Sum(x *tensor.RawTensor) *tensor.RawTensor {
	result, err := tensor.NewRaw(tensor.Shape{1}, x.DType(), cpu.device)
	if err != nil {
		panic(fmt.Sprintf("sum: failed to create result tensor: %v", err))
	}

	switch x.DType() {
	case tensor.Float32:
		sumAllKernel(result.AsFloat32(), x.AsFloat32())
	case tensor.Float64:
		sumAllKernel(result.AsFloat64(), x.AsFloat64())
	case tensor.Int32:
		sumAllKernel(result.AsInt32(), x.AsInt32())
	case tensor.Int64:
		sumAllKernel(result.AsInt64(), x.AsInt64())
	default:
		panic(fmt.Sprintf("sum: unsupported dtype %s", x.DType()))
	}

	return result
}

func sumAllKernel[T number](dst, src []T) {
	var total T
	for _, v := range src {
		total += v
	}
	dst[0] = total
}

// SumDim sums along the given dimension. With keepDim the reduced
// dimension is retained with size 1; otherwise it is removed.
func (cpu *CPUBackend) SumDim(x *tensor.RawTensor, dim int, keepDim bool) *tensor.RawTensor {
	return cpu.reduceDim("sum_dim", x, dim, keepDim, false)
}

// MeanDim computes the mean along the given dimension. With keepDim the
// reduced dimension is retained with size 1; otherwise it is removed.
// Only floating-point dtypes are supported.
func (cpu *CPUBackend) MeanDim(x *tensor.RawTensor, dim int, keepDim bool) *tensor.RawTensor {
	if x.DType() != tensor.Float32 && x.DType() != tensor.Float64 {
		panic(fmt.Sprintf("mean_dim: unsupported dtype %s", x.DType()))
	}
	return cpu.reduceDim("mean_dim", x, dim, keepDim, true)
}

func (cpu *CPUBackend) reduceDim(name string, x *tensor.RawTensor, dim int, keepDim, mean bool) *tensor.RawTensor {
	shape := x.Shape()
	ndim := len(shape)

	if dim < 0 {
		dim += ndim
	}
	if dim < 0 || dim >= ndim {
		panic(fmt.Sprintf("%s: invalid dim %d for %dD tensor", name, dim, ndim))
	}

	outer := 1
	for i := 0; i < dim; i++ {
		outer *= shape[i]
	}
	size := shape[dim]
	inner := 1
	for i := dim + 1; i < ndim; i++ {
		inner *= shape[i]
	}

	var outShape tensor.Shape
	if keepDim {
		outShape = shape.Clone()
		outShape[dim] = 1
	} else {
		outShape = make(tensor.Shape, 0, ndim-1)
		outShape = append(outShape, shape[:dim]...)
		outShape = append(outShape, shape[dim+1:]...)
		if len(outShape) == 0 {
			outShape = tensor.Shape{1}
		}
	}

	result, err := tensor.NewRaw(outShape, x.DType(), cpu.device)
	if err != nil {
		panic(fmt.Sprintf("%s: failed to create result tensor: %v", name, err))
	}

	switch x.DType() {
	case tensor.Float32:
		reduceDimKernel(result.AsFloat32(), x.AsFloat32(), outer, size, inner, mean)
	case tensor.Float64:
		reduceDimKernel(result.AsFloat64(), x.AsFloat64(), outer, size, inner, mean)
	case tensor.Int32:
		reduceDimKernel(result.AsInt32(), x.AsInt32(), outer, size, inner, mean)
	case tensor.Int64:
		reduceDimKernel(result.AsInt64(), x.AsInt64(), outer, size, inner, mean)
	default:
		panic(fmt.Sprintf("%s: unsupported dtype %s", name, x.DType()))
	}

	return result
}

// reduceDimKernel reduces each lane of length size with stride inner.
func reduceDimKernel[T number](dst, src []T, outer, size, inner int, mean bool) {
	for o := 0; o < outer; o++ {
		for in := 0; in < inner; in++ {
			base := o*size*inner + in

			var total T
			for i := 0; i < size; i++ {
				total += src[base+i*inner]
			}
			if mean {
				total /= T(size)
			}
			dst[o*inner+in] = total
		}
	}
}
