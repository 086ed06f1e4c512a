package nn

import (
	"math"
	"math/rand"
	"testing"

	"github.com/loom-ml/loom/internal/backend/cpu"
	"github.com/loom-ml/loom/internal/tensor"
)

func TestDropout_InferencePassesThrough(t *testing.T) {
	backend := cpu.New()
	d := NewDropout[Backend](0.5, newRng())

	x := tensor.Randn[float32](tensor.Shape{4, 8}, backend)
	out := d.Forward(x, false)

	xData, outData := x.Data(), out.Data()
	for i := range xData {
		if outData[i] != xData[i] {
			t.Fatalf("inference output differs at index %d", i)
		}
	}
}

func TestDropout_ZeroProbabilityIsIdentity(t *testing.T) {
	backend := cpu.New()
	d := NewDropout[Backend](0, newRng())

	x := tensor.Randn[float32](tensor.Shape{4, 8}, backend)
	out := d.Forward(x, true)

	xData, outData := x.Data(), out.Data()
	for i := range xData {
		if outData[i] != xData[i] {
			t.Fatalf("p=0 training output differs at index %d", i)
		}
	}
}

func TestDropout_TrainingDropsAndScales(t *testing.T) {
	backend := cpu.New()
	p := float32(0.5)
	d := NewDropout[Backend](p, newRng())

	n := 10000
	x := tensor.Ones[float32](tensor.Shape{n}, backend)
	out := d.Forward(x, true)

	zeros := 0
	for _, v := range out.Data() {
		switch v {
		case 0:
			zeros++
		case 2: // survivors of p=0.5 scale by 1/(1-p) = 2
		default:
			t.Fatalf("unexpected value %v, want 0 or 2", v)
		}
	}

	fraction := float64(zeros) / float64(n)
	if math.Abs(fraction-0.5) > 0.05 {
		t.Errorf("dropped fraction = %v, want ~0.5", fraction)
	}
}

func TestDropout_DoesNotMutateInput(t *testing.T) {
	backend := cpu.New()
	d := NewDropout[Backend](0.5, newRng())

	x := tensor.Ones[float32](tensor.Shape{100}, backend)
	d.Forward(x, true)

	for i, v := range x.Data() {
		if v != 1 {
			t.Fatalf("input mutated at index %d: %v", i, v)
		}
	}
}

func TestDropout_SeededMasksAreReproducible(t *testing.T) {
	backend := cpu.New()

	d1 := NewDropout[Backend](0.3, rand.New(rand.NewSource(7)))
	d2 := NewDropout[Backend](0.3, rand.New(rand.NewSource(7)))

	x := tensor.Ones[float32](tensor.Shape{256}, backend)
	o1 := d1.Forward(x, true).Data()
	o2 := d2.Forward(x, true).Data()

	for i := range o1 {
		if o1[i] != o2[i] {
			t.Fatalf("masks differ at index %d", i)
		}
	}
}

func TestNewDropout_InvalidProbabilityPanics(t *testing.T) {
	defer func() {
		if r := recover(); r == nil {
			t.Fatal("expected panic for p=1")
		}
	}()
	NewDropout[Backend](1.0, newRng())
}
