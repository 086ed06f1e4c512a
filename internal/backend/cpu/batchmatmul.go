package cpu

import (
	"fmt"

	"github.com/loom-ml/loom/internal/parallel"
	"github.com/loom-ml/loom/internal/tensor"
)

// BatchMatMul performs batched matrix multiplication for 3D and 4D tensors.
//
// For 3D: [B, M, K] @ [B, K, N] -> [B, M, N]
// For 4D: [B, H, M, K] @ [B, H, K, N] -> [B, H, M, N]
//
// Each batch (or batch/head) slice is an independent 2D matmul, so the
// slices are distributed across worker goroutines. Every worker writes
// only its own output slice; results are identical to sequential execution.
func (cpu *CPUBackend) BatchMatMul(a, b *tensor.RawTensor) *tensor.RawTensor {
	if a.DType() != b.DType() {
		panic(fmt.Sprintf("batchmatmul: dtype mismatch: %s vs %s", a.DType(), b.DType()))
	}

	aShape := a.Shape()
	bShape := b.Shape()

	ndim := len(aShape)
	if ndim != 3 && ndim != 4 {
		panic(&tensor.ShapeError{Op: "batchmatmul", A: aShape, B: bShape,
			Details: "operands must be 3D or 4D"})
	}
	if len(bShape) != ndim {
		panic(&tensor.ShapeError{Op: "batchmatmul", A: aShape, B: bShape,
			Details: "operands must have the same number of dimensions"})
	}

	// All leading (batch) dimensions must match exactly.
	for i := 0; i < ndim-2; i++ {
		if aShape[i] != bShape[i] {
			panic(&tensor.ShapeError{Op: "batchmatmul", A: aShape, B: bShape,
				Details: fmt.Sprintf("batch dimension %d must match: %d != %d", i, aShape[i], bShape[i])})
		}
	}

	m, k := aShape[ndim-2], aShape[ndim-1]
	if bShape[ndim-2] != k {
		panic(&tensor.ShapeError{Op: "batchmatmul", A: aShape, B: bShape,
			Details: fmt.Sprintf("inner dimensions must match: %d != %d", k, bShape[ndim-2])})
	}
	n := bShape[ndim-1]

	batches := 1
	for i := 0; i < ndim-2; i++ {
		batches *= aShape[i]
	}

	outShape := make(tensor.Shape, ndim)
	copy(outShape, aShape[:ndim-2])
	outShape[ndim-2] = m
	outShape[ndim-1] = n

	result, err := tensor.NewRaw(outShape, a.DType(), cpu.device)
	if err != nil {
		panic(fmt.Sprintf("batchmatmul: failed to create result tensor: %v", err))
	}

	switch a.DType() {
	case tensor.Float32:
		batchMatmulKernel(result.AsFloat32(), a.AsFloat32(), b.AsFloat32(), batches, m, k, n, cpu.parallel)
	case tensor.Float64:
		batchMatmulKernel(result.AsFloat64(), a.AsFloat64(), b.AsFloat64(), batches, m, k, n, cpu.parallel)
	case tensor.Int32:
		batchMatmulKernel(result.AsInt32(), a.AsInt32(), b.AsInt32(), batches, m, k, n, cpu.parallel)
	case tensor.Int64:
		batchMatmulKernel(result.AsInt64(), a.AsInt64(), b.AsInt64(), batches, m, k, n, cpu.parallel)
	default:
		panic(fmt.Sprintf("batchmatmul: unsupported dtype %s", a.DType()))
	}

	return result
}

// batchMatmulKernel runs one 2D matmul per batch slice, fanned out over
// worker goroutines.
func batchMatmulKernel[T number](dst, a, b []T, batches, m, k, n int, cfg parallel.Config) {
	aSize := m * k
	bSize := k * n
	dstSize := m * n

	// Per-slice matmuls disjointly partition dst, so cfg.MinWork is
	// overridden: even a couple of large slices are worth fanning out.
	cfg.MinWork = min(cfg.MinWork, 2)

	parallel.For(batches, func(batch int) {
		aSlice := a[batch*aSize : (batch+1)*aSize]
		bSlice := b[batch*bSize : (batch+1)*bSize]
		dstSlice := dst[batch*dstSize : (batch+1)*dstSize]
		matmulKernel(dstSlice, aSlice, bSlice, m, k, n)
	}, cfg)
}
