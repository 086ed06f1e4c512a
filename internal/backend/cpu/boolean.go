package cpu

import (
	"fmt"

	"github.com/loom-ml/loom/internal/tensor"
)

// Or performs element-wise logical OR on Bool tensors with broadcasting.
func (cpu *CPUBackend) Or(a, b *tensor.RawTensor) *tensor.RawTensor {
	return cpu.booleanOp("or", a, b, func(x, y bool) bool { return x || y })
}

// And performs element-wise logical AND on Bool tensors with broadcasting.
func (cpu *CPUBackend) And(a, b *tensor.RawTensor) *tensor.RawTensor {
	return cpu.booleanOp("and", a, b, func(x, y bool) bool { return x && y })
}

// Not performs element-wise logical NOT on a Bool tensor.
func (cpu *CPUBackend) Not(x *tensor.RawTensor) *tensor.RawTensor {
	if x.DType() != tensor.Bool {
		panic(fmt.Sprintf("not: requires Bool tensor, got %s", x.DType()))
	}

	result, err := tensor.NewRaw(x.Shape(), tensor.Bool, cpu.device)
	if err != nil {
		panic(fmt.Sprintf("not: failed to create result tensor: %v", err))
	}

	src := x.AsBool()
	dst := result.AsBool()
	for i, v := range src {
		dst[i] = !v
	}

	return result
}

func (cpu *CPUBackend) booleanOp(name string, a, b *tensor.RawTensor, f func(x, y bool) bool) *tensor.RawTensor {
	if a.DType() != tensor.Bool || b.DType() != tensor.Bool {
		panic(fmt.Sprintf("%s: requires Bool tensors, got %s and %s", name, a.DType(), b.DType()))
	}

	outShape, needsBroadcast, err := tensor.BroadcastShapes(a.Shape(), b.Shape())
	if err != nil {
		panic(err)
	}

	result, err := tensor.NewRaw(outShape, tensor.Bool, cpu.device)
	if err != nil {
		panic(fmt.Sprintf("%s: failed to create result tensor: %v", name, err))
	}

	aData := a.AsBool()
	bData := b.AsBool()
	dst := result.AsBool()

	if !needsBroadcast {
		for i := range dst {
			dst[i] = f(aData[i], bData[i])
		}
		return result
	}

	aStrides := computeBroadcastStridesForShape(a.Shape(), outShape)
	bStrides := computeBroadcastStridesForShape(b.Shape(), outShape)
	outStrides := outShape.ComputeStrides()

	for i := range dst {
		av := aData[computeFlatIndex(i, outStrides, aStrides)]
		bv := bData[computeFlatIndex(i, outStrides, bStrides)]
		dst[i] = f(av, bv)
	}

	return result
}
