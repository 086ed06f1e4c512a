package cpu

import (
	"fmt"

	"github.com/loom-ml/loom/internal/tensor"
)

type scalarOp int

const (
	opAddScalar scalarOp = iota
	opSubScalar
	opMulScalar
	opDivScalar
)

func (op scalarOp) String() string {
	switch op {
	case opAddScalar:
		return "add_scalar"
	case opSubScalar:
		return "sub_scalar"
	case opMulScalar:
		return "mul_scalar"
	case opDivScalar:
		return "div_scalar"
	default:
		return "unknown"
	}
}

// AddScalar adds a scalar to every element.
func (cpu *CPUBackend) AddScalar(x *tensor.RawTensor, scalar any) *tensor.RawTensor {
	return cpu.scalarOp(opAddScalar, x, scalar)
}

// SubScalar subtracts a scalar from every element.
func (cpu *CPUBackend) SubScalar(x *tensor.RawTensor, scalar any) *tensor.RawTensor {
	return cpu.scalarOp(opSubScalar, x, scalar)
}

// MulScalar multiplies every element by a scalar.
func (cpu *CPUBackend) MulScalar(x *tensor.RawTensor, scalar any) *tensor.RawTensor {
	return cpu.scalarOp(opMulScalar, x, scalar)
}

// DivScalar divides every element by a scalar.
func (cpu *CPUBackend) DivScalar(x *tensor.RawTensor, scalar any) *tensor.RawTensor {
	return cpu.scalarOp(opDivScalar, x, scalar)
}

func (cpu *CPUBackend) scalarOp(op scalarOp, x *tensor.RawTensor, scalar any) *tensor.RawTensor {
	s, err := scalarToFloat64(scalar)
	if err != nil {
		panic(fmt.Sprintf("%s: %v", op, err))
	}

	result, err := tensor.NewRaw(x.Shape(), x.DType(), cpu.device)
	if err != nil {
		panic(fmt.Sprintf("%s: failed to create result tensor: %v", op, err))
	}

	switch x.DType() {
	case tensor.Float32:
		scalarKernel(op, result.AsFloat32(), x.AsFloat32(), float32(s))
	case tensor.Float64:
		scalarKernel(op, result.AsFloat64(), x.AsFloat64(), s)
	case tensor.Int32:
		scalarKernel(op, result.AsInt32(), x.AsInt32(), int32(s))
	case tensor.Int64:
		scalarKernel(op, result.AsInt64(), x.AsInt64(), int64(s))
	default:
		panic(fmt.Sprintf("%s: unsupported dtype %s", op, x.DType()))
	}

	return result
}

func scalarKernel[T number](op scalarOp, dst, src []T, s T) {
	switch op {
	case opAddScalar:
		for i, v := range src {
			dst[i] = v + s
		}
	case opSubScalar:
		for i, v := range src {
			dst[i] = v - s
		}
	case opMulScalar:
		for i, v := range src {
			dst[i] = v * s
		}
	case opDivScalar:
		for i, v := range src {
			dst[i] = v / s
		}
	}
}

// scalarToFloat64 normalizes the supported scalar argument types.
func scalarToFloat64(scalar any) (float64, error) {
	switch v := scalar.(type) {
	case float64:
		return v, nil
	case float32:
		return float64(v), nil
	case int:
		return float64(v), nil
	case int32:
		return float64(v), nil
	case int64:
		return float64(v), nil
	default:
		return 0, fmt.Errorf("unsupported scalar type %T", scalar)
	}
}
