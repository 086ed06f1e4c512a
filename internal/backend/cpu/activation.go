package cpu

import (
	"fmt"
	"math"

	"github.com/loom-ml/loom/internal/tensor"
)

// float constrains kernels to the floating-point element types.
type float interface {
	~float32 | ~float64
}

// Softmax computes the softmax along the given dimension.
//
// The maximum of each row is subtracted before exponentiation, so rows
// containing large-magnitude values (including the -1e9 masking sentinel)
// never overflow. Supports negative dim indexing.
func (cpu *CPUBackend) Softmax(x *tensor.RawTensor, dim int) *tensor.RawTensor {
	return cpu.softmaxOp("softmax", x, dim, false)
}

// LogSoftmax computes log(softmax(x)) along the given dimension using the
// log-sum-exp formulation, which is more numerically stable than composing
// Log and Softmax.
func (cpu *CPUBackend) LogSoftmax(x *tensor.RawTensor, dim int) *tensor.RawTensor {
	return cpu.softmaxOp("log_softmax", x, dim, true)
}

func (cpu *CPUBackend) softmaxOp(name string, x *tensor.RawTensor, dim int, logVariant bool) *tensor.RawTensor {
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

	result, err := tensor.NewRaw(shape, x.DType(), cpu.device)
	if err != nil {
		panic(fmt.Sprintf("%s: failed to create result tensor: %v", name, err))
	}

	switch x.DType() {
	case tensor.Float32:
		softmaxKernel(result.AsFloat32(), x.AsFloat32(), outer, size, inner, logVariant)
	case tensor.Float64:
		softmaxKernel(result.AsFloat64(), x.AsFloat64(), outer, size, inner, logVariant)
	default:
		panic(fmt.Sprintf("%s: unsupported dtype %s", name, x.DType()))
	}

	return result
}

// softmaxKernel normalizes each lane of length size with stride inner.
func softmaxKernel[T float](dst, src []T, outer, size, inner int, logVariant bool) {
	for o := 0; o < outer; o++ {
		for in := 0; in < inner; in++ {
			base := o*size*inner + in

			maxVal := src[base]
			for i := 1; i < size; i++ {
				if v := src[base+i*inner]; v > maxVal {
					maxVal = v
				}
			}

			var sum float64
			for i := 0; i < size; i++ {
				sum += math.Exp(float64(src[base+i*inner] - maxVal))
			}

			if logVariant {
				logSum := T(math.Log(sum))
				for i := 0; i < size; i++ {
					idx := base + i*inner
					dst[idx] = src[idx] - maxVal - logSum
				}
			} else {
				for i := 0; i < size; i++ {
					idx := base + i*inner
					dst[idx] = T(math.Exp(float64(src[idx]-maxVal)) / sum)
				}
			}
		}
	}
}

// ReLU computes max(0, x) element-wise.
//
// Not part of the core Backend interface; callers discover it through a
// capability assertion and fall back to a composed implementation otherwise.
func (cpu *CPUBackend) ReLU(x *tensor.RawTensor) *tensor.RawTensor {
	result, err := tensor.NewRaw(x.Shape(), x.DType(), cpu.device)
	if err != nil {
		panic(fmt.Sprintf("relu: failed to create result tensor: %v", err))
	}

	switch x.DType() {
	case tensor.Float32:
		reluKernel(result.AsFloat32(), x.AsFloat32())
	case tensor.Float64:
		reluKernel(result.AsFloat64(), x.AsFloat64())
	case tensor.Int32:
		reluKernel(result.AsInt32(), x.AsInt32())
	case tensor.Int64:
		reluKernel(result.AsInt64(), x.AsInt64())
	default:
		panic(fmt.Sprintf("relu: unsupported dtype %s", x.DType()))
	}

	return result
}

func reluKernel[T number](dst, src []T) {
	for i, v := range src {
		if v > 0 {
			dst[i] = v
		}
	}
}
