package cpu

import (
	"testing"

	"github.com/loom-ml/loom/internal/tensor"
)

func TestBatchMatMul_3D(t *testing.T) {
	backend := New()

	// Two independent 2x2 matmuls.
	a := fromSlice(t, []float32{
		1, 2, 3, 4, // batch 0
		5, 6, 7, 8, // batch 1
	}, tensor.Shape{2, 2, 2}, backend)
	b := fromSlice(t, []float32{
		1, 0, 0, 1, // identity
		2, 0, 0, 2, // 2*identity
	}, tensor.Shape{2, 2, 2}, backend)

	c := a.BatchMatMul(b)
	if !c.Shape().Equal(tensor.Shape{2, 2, 2}) {
		t.Fatalf("shape = %v, want [2 2 2]", c.Shape())
	}
	assertAllClose(t, c.Data(), []float32{1, 2, 3, 4, 10, 12, 14, 16}, 1e-5)
}

func TestBatchMatMul_4DShape(t *testing.T) {
	backend := New()

	q := tensor.Randn[float32](tensor.Shape{2, 8, 10, 16}, backend)
	k := tensor.Randn[float32](tensor.Shape{2, 8, 16, 10}, backend)

	s := q.BatchMatMul(k)
	if !s.Shape().Equal(tensor.Shape{2, 8, 10, 10}) {
		t.Fatalf("shape = %v, want [2 8 10 10]", s.Shape())
	}
}

// TestBatchMatMul_ParallelMatchesSequential verifies the core concurrency
// invariant: fanning batch slices out over workers produces bit-identical
// results to sequential execution.
func TestBatchMatMul_ParallelMatchesSequential(t *testing.T) {
	parallelBackend := New()
	sequentialBackend := NewSequential()

	data := make([]float32, 4*8*12*16)
	for i := range data {
		data[i] = float32(i%17) * 0.25
	}

	makeInputs := func(backend *CPUBackend) (*tensor.Tensor[float32, *CPUBackend], *tensor.Tensor[float32, *CPUBackend]) {
		a := fromSlice(t, data, tensor.Shape{4, 8, 12, 16}, backend)
		b := fromSlice(t, data, tensor.Shape{4, 8, 16, 12}, backend)
		return a, b
	}

	ap, bp := makeInputs(parallelBackend)
	as, bs := makeInputs(sequentialBackend)

	parallelOut := ap.BatchMatMul(bp).Data()
	sequentialOut := as.BatchMatMul(bs).Data()

	for i := range sequentialOut {
		if parallelOut[i] != sequentialOut[i] {
			t.Fatalf("parallel and sequential results differ at index %d: %v vs %v",
				i, parallelOut[i], sequentialOut[i])
		}
	}
}

func TestBatchMatMul_BatchMismatchPanics(t *testing.T) {
	backend := New()
	a := tensor.Zeros[float32](tensor.Shape{2, 3, 4}, backend)
	b := tensor.Zeros[float32](tensor.Shape{3, 4, 5}, backend)

	defer func() {
		if r := recover(); r == nil {
			t.Fatal("expected panic for batch dimension mismatch")
		}
	}()
	a.BatchMatMul(b)
}
