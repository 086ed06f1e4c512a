// Copyright 2025 Loom ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package tensor_test

import (
	"testing"

	"github.com/loom-ml/loom/backend/cpu"
	"github.com/loom-ml/loom/tensor"
)

// TestPublicAPI exercises the facade end to end the way a user would.
func TestPublicAPI(t *testing.T) {
	backend := cpu.New()

	x := tensor.Zeros[float32](tensor.Shape{2, 3}, backend)
	y := tensor.Ones[float32](tensor.Shape{2, 3}, backend)

	z := x.Add(y)
	for i, v := range z.Data() {
		if v != 1 {
			t.Fatalf("z[%d] = %v, want 1", i, v)
		}
	}

	w := z.MulScalar(3).Reshape(3, 2)
	if !w.Shape().Equal(tensor.Shape{3, 2}) {
		t.Fatalf("shape = %v, want [3 2]", w.Shape())
	}
}

func TestPublicAPI_FromSliceAndMatMul(t *testing.T) {
	backend := cpu.New()

	a, err := tensor.FromSlice([]float32{1, 2, 3, 4}, tensor.Shape{2, 2}, backend)
	if err != nil {
		t.Fatal(err)
	}

	identity, err := tensor.FromSlice([]float32{1, 0, 0, 1}, tensor.Shape{2, 2}, backend)
	if err != nil {
		t.Fatal(err)
	}

	b := a.MatMul(identity)
	for i, v := range b.Data() {
		if v != a.Data()[i] {
			t.Fatalf("matmul with identity changed value at %d", i)
		}
	}
}

func TestPublicAPI_Where(t *testing.T) {
	backend := cpu.New()

	cond, err := tensor.FromSlice([]bool{true, false, true}, tensor.Shape{3}, backend)
	if err != nil {
		t.Fatal(err)
	}
	x := tensor.Full[float32](tensor.Shape{3}, 1, backend)
	y := tensor.Full[float32](tensor.Shape{3}, -1, backend)

	got := tensor.Where(cond, x, y).Data()
	want := []float32{1, -1, 1}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("Where[%d] = %v, want %v", i, got[i], want[i])
		}
	}
}
