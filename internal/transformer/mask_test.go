package transformer

import (
	"testing"

	"github.com/loom-ml/loom/internal/backend/cpu"
	"github.com/loom-ml/loom/internal/tensor"
)

func TestPaddingMask(t *testing.T) {
	backend := cpu.New()

	tokens, err := tensor.FromSlice([]int32{4, 7, 0, 0}, tensor.Shape{1, 4}, backend)
	if err != nil {
		t.Fatal(err)
	}

	mask := PaddingMask(tokens, 0)
	if !mask.Shape().Equal(tensor.Shape{1, 1, 1, 4}) {
		t.Fatalf("shape = %v, want [1 1 1 4]", mask.Shape())
	}

	expected := []bool{true, true, false, false}
	for i, want := range expected {
		if mask.Data()[i] != want {
			t.Errorf("mask[%d] = %v, want %v", i, mask.Data()[i], want)
		}
	}
}

func TestPaddingMask_CustomPadID(t *testing.T) {
	backend := cpu.New()

	tokens, err := tensor.FromSlice([]int32{9, 1, 9}, tensor.Shape{1, 3}, backend)
	if err != nil {
		t.Fatal(err)
	}

	mask := PaddingMask(tokens, 9)
	expected := []bool{false, true, false}
	for i, want := range expected {
		if mask.Data()[i] != want {
			t.Errorf("mask[%d] = %v, want %v", i, mask.Data()[i], want)
		}
	}
}

func TestTargetMask_CombinesPaddingAndCausal(t *testing.T) {
	backend := cpu.New()

	// Last position is padding.
	tokens, err := tensor.FromSlice([]int32{5, 6, 0}, tensor.Shape{1, 3}, backend)
	if err != nil {
		t.Fatal(err)
	}

	mask := TargetMask(tokens, 0)
	if !mask.Shape().Equal(tensor.Shape{1, 1, 3, 3}) {
		t.Fatalf("shape = %v, want [1 1 3 3]", mask.Shape())
	}

	// Causal lower triangle, with column 2 (the pad position) forced false.
	expected := []bool{
		true, false, false,
		true, true, false,
		true, true, false,
	}
	data := mask.Data()
	for i, want := range expected {
		if data[i] != want {
			t.Errorf("mask[%d] = %v, want %v", i, data[i], want)
		}
	}
}

func TestTargetMask_BatchShapes(t *testing.T) {
	backend := cpu.New()

	tokens, err := tensor.FromSlice([]int32{1, 2, 3, 4, 5, 0, 0, 0}, tensor.Shape{2, 4}, backend)
	if err != nil {
		t.Fatal(err)
	}

	mask := TargetMask(tokens, 0)
	if !mask.Shape().Equal(tensor.Shape{2, 1, 4, 4}) {
		t.Fatalf("shape = %v, want [2 1 4 4]", mask.Shape())
	}
}
