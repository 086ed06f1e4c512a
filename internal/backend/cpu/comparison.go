package cpu

import (
	"fmt"

	"github.com/loom-ml/loom/internal/tensor"
)

// Equal performs element-wise equality comparison with broadcasting,
// returning a Bool tensor.
func (cpu *CPUBackend) Equal(a, b *tensor.RawTensor) *tensor.RawTensor {
	return cpu.compareOp("equal", a, b, true)
}

// NotEqual performs element-wise inequality comparison with broadcasting,
// returning a Bool tensor.
func (cpu *CPUBackend) NotEqual(a, b *tensor.RawTensor) *tensor.RawTensor {
	return cpu.compareOp("not_equal", a, b, false)
}

func (cpu *CPUBackend) compareOp(name string, a, b *tensor.RawTensor, wantEqual bool) *tensor.RawTensor {
	if a.DType() != b.DType() {
		panic(fmt.Sprintf("%s: dtype mismatch: %s vs %s", name, a.DType(), b.DType()))
	}

	outShape, _, err := tensor.BroadcastShapes(a.Shape(), b.Shape())
	if err != nil {
		panic(err)
	}

	result, err := tensor.NewRaw(outShape, tensor.Bool, cpu.device)
	if err != nil {
		panic(fmt.Sprintf("%s: failed to create result tensor: %v", name, err))
	}

	switch a.DType() {
	case tensor.Float32:
		compareKernel(result.AsBool(), a.AsFloat32(), b.AsFloat32(), a.Shape(), b.Shape(), outShape, wantEqual)
	case tensor.Float64:
		compareKernel(result.AsBool(), a.AsFloat64(), b.AsFloat64(), a.Shape(), b.Shape(), outShape, wantEqual)
	case tensor.Int32:
		compareKernel(result.AsBool(), a.AsInt32(), b.AsInt32(), a.Shape(), b.Shape(), outShape, wantEqual)
	case tensor.Int64:
		compareKernel(result.AsBool(), a.AsInt64(), b.AsInt64(), a.Shape(), b.Shape(), outShape, wantEqual)
	case tensor.Bool:
		compareKernel(result.AsBool(), a.AsBool(), b.AsBool(), a.Shape(), b.Shape(), outShape, wantEqual)
	default:
		panic(fmt.Sprintf("%s: unsupported dtype %s", name, a.DType()))
	}

	return result
}

func compareKernel[T comparable](dst []bool, a, b []T, aShape, bShape, outShape tensor.Shape, wantEqual bool) {
	aStrides := computeBroadcastStridesForShape(aShape, outShape)
	bStrides := computeBroadcastStridesForShape(bShape, outShape)
	outStrides := outShape.ComputeStrides()

	for i := range dst {
		av := a[computeFlatIndex(i, outStrides, aStrides)]
		bv := b[computeFlatIndex(i, outStrides, bStrides)]
		dst[i] = (av == bv) == wantEqual
	}
}
