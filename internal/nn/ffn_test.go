package nn

import (
	"testing"

	"github.com/loom-ml/loom/internal/backend/cpu"
	"github.com/loom-ml/loom/internal/tensor"
)

func TestPositionwiseFeedForward_ShapePreserved(t *testing.T) {
	backend := cpu.New()
	ffn := NewPositionwiseFeedForward(newRng(), 16, 64, 0, backend)

	x := tensor.Randn[float32](tensor.Shape{2, 5, 16}, backend)
	out := ffn.Forward(x, false)

	if !out.Shape().Equal(tensor.Shape{2, 5, 16}) {
		t.Fatalf("shape = %v, want [2 5 16]", out.Shape())
	}
}

func TestPositionwiseFeedForward_ParameterCount(t *testing.T) {
	backend := cpu.New()
	ffn := NewPositionwiseFeedForward(newRng(), 16, 64, 0, backend)

	params := ffn.Parameters()
	if len(params) != 4 {
		t.Errorf("expected 4 parameters (two weights, two biases), got %d", len(params))
	}

	total := 0
	for _, p := range params {
		total += p.Tensor().Shape().NumElements()
	}
	expected := 16*64 + 64 + 64*16 + 16
	if total != expected {
		t.Errorf("expected %d parameter elements, got %d", expected, total)
	}
}

// TestPositionwiseFeedForward_PositionIndependence verifies the same
// vector at different positions produces the same output.
func TestPositionwiseFeedForward_PositionIndependence(t *testing.T) {
	backend := cpu.New()
	ffn := NewPositionwiseFeedForward(newRng(), 8, 32, 0, backend)

	vec := []float32{1, -2, 3, -4, 5, -6, 7, -8}
	data := append(append([]float32{}, vec...), vec...)

	x, err := tensor.FromSlice(data, tensor.Shape{1, 2, 8}, backend)
	if err != nil {
		t.Fatal(err)
	}

	out := ffn.Forward(x, false).Data()
	for i := 0; i < 8; i++ {
		if out[i] != out[8+i] {
			t.Fatalf("positions differ at feature %d: %v vs %v", i, out[i], out[8+i])
		}
	}
}
