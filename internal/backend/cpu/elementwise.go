package cpu

import (
	"fmt"

	"github.com/loom-ml/loom/internal/tensor"
)

// number constrains kernels to the arithmetic element types.
type number interface {
	~float32 | ~float64 | ~int32 | ~int64
}

type binOp int

const (
	opAdd binOp = iota
	opSub
	opMul
	opDiv
)

func (op binOp) String() string {
	switch op {
	case opAdd:
		return "add"
	case opSub:
		return "sub"
	case opMul:
		return "mul"
	case opDiv:
		return "div"
	default:
		return "unknown"
	}
}

// binaryOp dispatches an element-wise binary operation with broadcasting.
func (cpu *CPUBackend) binaryOp(op binOp, a, b *tensor.RawTensor) *tensor.RawTensor {
	if a.DType() != b.DType() {
		panic(fmt.Sprintf("%s: dtype mismatch: %s vs %s", op, a.DType(), b.DType()))
	}

	outShape, needsBroadcast, err := tensor.BroadcastShapes(a.Shape(), b.Shape())
	if err != nil {
		panic(err)
	}

	result, err := tensor.NewRaw(outShape, a.DType(), cpu.device)
	if err != nil {
		panic(fmt.Sprintf("%s: failed to create result tensor: %v", op, err))
	}

	switch a.DType() {
	case tensor.Float32:
		applyBinary(op, result.AsFloat32(), a.AsFloat32(), b.AsFloat32(), a.Shape(), b.Shape(), outShape, needsBroadcast)
	case tensor.Float64:
		applyBinary(op, result.AsFloat64(), a.AsFloat64(), b.AsFloat64(), a.Shape(), b.Shape(), outShape, needsBroadcast)
	case tensor.Int32:
		applyBinary(op, result.AsInt32(), a.AsInt32(), b.AsInt32(), a.Shape(), b.Shape(), outShape, needsBroadcast)
	case tensor.Int64:
		applyBinary(op, result.AsInt64(), a.AsInt64(), b.AsInt64(), a.Shape(), b.Shape(), outShape, needsBroadcast)
	default:
		panic(fmt.Sprintf("%s: unsupported dtype %s", op, a.DType()))
	}

	return result
}

// applyBinary runs the fast same-shape path or the strided broadcast path.
func applyBinary[T number](op binOp, dst, a, b []T, aShape, bShape, outShape tensor.Shape, broadcast bool) {
	if !broadcast {
		zipKernel(op, dst, a, b)
		return
	}
	broadcastKernel(op, dst, a, b, aShape, bShape, outShape)
}

// zipKernel computes dst = a <op> b for equal-length operands.
func zipKernel[T number](op binOp, dst, a, b []T) {
	switch op {
	case opAdd:
		for i := range dst {
			dst[i] = a[i] + b[i]
		}
	case opSub:
		for i := range dst {
			dst[i] = a[i] - b[i]
		}
	case opMul:
		for i := range dst {
			dst[i] = a[i] * b[i]
		}
	case opDiv:
		for i := range dst {
			dst[i] = a[i] / b[i]
		}
	}
}

// broadcastKernel computes dst = a <op> b using zero-stride index arithmetic
// for broadcast dimensions.
func broadcastKernel[T number](op binOp, dst, a, b []T, aShape, bShape, outShape tensor.Shape) {
	aStrides := computeBroadcastStridesForShape(aShape, outShape)
	bStrides := computeBroadcastStridesForShape(bShape, outShape)
	outStrides := outShape.ComputeStrides()

	for i := range dst {
		av := a[computeFlatIndex(i, outStrides, aStrides)]
		bv := b[computeFlatIndex(i, outStrides, bStrides)]
		switch op {
		case opAdd:
			dst[i] = av + bv
		case opSub:
			dst[i] = av - bv
		case opMul:
			dst[i] = av * bv
		case opDiv:
			dst[i] = av / bv
		}
	}
}

// transposeData permutes src into dst according to axes.
func transposeData[T tensor.DType](dst, src []T, shape tensor.Shape, axes []int) {
	ndim := len(shape)
	inStrides := shape.ComputeStrides()

	outShape := make(tensor.Shape, ndim)
	for i, ax := range axes {
		outShape[i] = shape[ax]
	}
	outStrides := outShape.ComputeStrides()

	for outIdx := range dst {
		// Decompose the output index and accumulate the source offset.
		srcIdx := 0
		remaining := outIdx
		for d := 0; d < ndim; d++ {
			coord := remaining / outStrides[d]
			remaining %= outStrides[d]
			srcIdx += coord * inStrides[axes[d]]
		}
		dst[outIdx] = src[srcIdx]
	}
}
