package cpu

import (
	"fmt"

	"github.com/loom-ml/loom/internal/tensor"
)

// MatMul performs 2D matrix multiplication: [M, K] @ [K, N] -> [M, N].
func (cpu *CPUBackend) MatMul(a, b *tensor.RawTensor) *tensor.RawTensor {
	if a.DType() != b.DType() {
		panic(fmt.Sprintf("matmul: dtype mismatch: %s vs %s", a.DType(), b.DType()))
	}

	aShape := a.Shape()
	bShape := b.Shape()

	if len(aShape) != 2 || len(bShape) != 2 {
		panic(&tensor.ShapeError{Op: "matmul", A: aShape, B: bShape,
			Details: "both operands must be 2D"})
	}
	if aShape[1] != bShape[0] {
		panic(&tensor.ShapeError{Op: "matmul", A: aShape, B: bShape,
			Details: fmt.Sprintf("inner dimensions must match: %d != %d", aShape[1], bShape[0])})
	}

	m, k, n := aShape[0], aShape[1], bShape[1]
	outShape := tensor.Shape{m, n}

	result, err := tensor.NewRaw(outShape, a.DType(), cpu.device)
	if err != nil {
		panic(fmt.Sprintf("matmul: failed to create result tensor: %v", err))
	}

	switch a.DType() {
	case tensor.Float32:
		matmulKernel(result.AsFloat32(), a.AsFloat32(), b.AsFloat32(), m, k, n)
	case tensor.Float64:
		matmulKernel(result.AsFloat64(), a.AsFloat64(), b.AsFloat64(), m, k, n)
	case tensor.Int32:
		matmulKernel(result.AsInt32(), a.AsInt32(), b.AsInt32(), m, k, n)
	case tensor.Int64:
		matmulKernel(result.AsInt64(), a.AsInt64(), b.AsInt64(), m, k, n)
	default:
		panic(fmt.Sprintf("matmul: unsupported dtype %s", a.DType()))
	}

	return result
}

// matmulKernel computes dst = a @ b for row-major matrices.
//
// The loop order (i, l, j) streams rows of b sequentially, which is
// considerably more cache-friendly than the naive (i, j, l) order.
func matmulKernel[T number](dst, a, b []T, m, k, n int) {
	for i := 0; i < m; i++ {
		dstRow := dst[i*n : (i+1)*n]
		for l := 0; l < k; l++ {
			av := a[i*k+l]
			if av == 0 {
				continue
			}
			bRow := b[l*n : (l+1)*n]
			for j, bv := range bRow {
				dstRow[j] += av * bv
			}
		}
	}
}
