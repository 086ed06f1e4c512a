package nn

import (
	"math"
	"math/rand"
	"testing"

	"github.com/loom-ml/loom/internal/backend/cpu"
	"github.com/loom-ml/loom/internal/tensor"
)

type Backend = *cpu.CPUBackend

func newRng() *rand.Rand {
	return rand.New(rand.NewSource(42))
}

// TestScaledDotProductAttention_WeightsSumToOne verifies every attention
// row is a probability distribution.
func TestScaledDotProductAttention_WeightsSumToOne(t *testing.T) {
	backend := cpu.New()

	q := tensor.Randn[float32](tensor.Shape{2, 4, 5, 8}, backend)
	k := tensor.Randn[float32](tensor.Shape{2, 4, 5, 8}, backend)
	v := tensor.Randn[float32](tensor.Shape{2, 4, 5, 8}, backend)

	output, weights := ScaledDotProductAttention(q, k, v, nil, nil, false)

	if !output.Shape().Equal(tensor.Shape{2, 4, 5, 8}) {
		t.Fatalf("output shape = %v, want [2 4 5 8]", output.Shape())
	}
	if !weights.Shape().Equal(tensor.Shape{2, 4, 5, 5}) {
		t.Fatalf("weights shape = %v, want [2 4 5 5]", weights.Shape())
	}

	data := weights.Data()
	rows := 2 * 4 * 5
	for r := 0; r < rows; r++ {
		var sum float64
		for c := 0; c < 5; c++ {
			sum += float64(data[r*5+c])
		}
		if math.Abs(sum-1.0) > 1e-5 {
			t.Fatalf("weight row %d sums to %v, want 1", r, sum)
		}
	}
}

// TestScaledDotProductAttention_MaskedPositionsZero verifies forbidden
// positions get (numerically) zero weight.
func TestScaledDotProductAttention_MaskedPositionsZero(t *testing.T) {
	backend := cpu.New()
	seq := 4

	q := tensor.Randn[float32](tensor.Shape{1, 1, seq, 8}, backend)
	k := tensor.Randn[float32](tensor.Shape{1, 1, seq, 8}, backend)
	v := tensor.Randn[float32](tensor.Shape{1, 1, seq, 8}, backend)

	mask := SubsequentMask(seq, backend)
	_, weights := ScaledDotProductAttention(q, k, v, mask, nil, false)

	data := weights.Data()
	for i := 0; i < seq; i++ {
		for j := 0; j < seq; j++ {
			w := data[i*seq+j]
			if j > i && w != 0 {
				t.Errorf("future position (%d, %d) has weight %v, want 0", i, j, w)
			}
			if math.IsNaN(float64(w)) {
				t.Fatalf("weight (%d, %d) is NaN", i, j)
			}
		}
	}

	// Each row still sums to 1 over the allowed prefix.
	for i := 0; i < seq; i++ {
		var sum float64
		for j := 0; j <= i; j++ {
			sum += float64(data[i*seq+j])
		}
		if math.Abs(sum-1.0) > 1e-5 {
			t.Errorf("row %d sums to %v over allowed positions, want 1", i, sum)
		}
	}
}

// TestSubsequentMask_Pattern checks the lower-triangular layout for L=3.
func TestSubsequentMask_Pattern(t *testing.T) {
	backend := cpu.New()

	mask := SubsequentMask(3, backend)
	if !mask.Shape().Equal(tensor.Shape{1, 1, 3, 3}) {
		t.Fatalf("shape = %v, want [1 1 3 3]", mask.Shape())
	}

	expected := []bool{
		true, false, false,
		true, true, false,
		true, true, true,
	}
	data := mask.Data()
	for i, want := range expected {
		if data[i] != want {
			t.Errorf("mask[%d] = %v, want %v", i, data[i], want)
		}
	}
}

// TestScaledDotProductAttention_UniformValues checks a hand-computable
// case: identical keys give uniform weights, so the output is the mean
// of the values.
func TestScaledDotProductAttention_UniformValues(t *testing.T) {
	backend := cpu.New()

	q := tensor.Ones[float32](tensor.Shape{1, 1, 1, 2}, backend)
	k := tensor.Ones[float32](tensor.Shape{1, 1, 3, 2}, backend)
	v, err := tensor.FromSlice([]float32{1, 2, 4, 8, 16, 32}, tensor.Shape{1, 1, 3, 2}, backend)
	if err != nil {
		t.Fatal(err)
	}

	output, weights := ScaledDotProductAttention(q, k, v, nil, nil, false)

	for i, w := range weights.Data() {
		if math.Abs(float64(w)-1.0/3.0) > 1e-5 {
			t.Errorf("weight[%d] = %v, want 1/3", i, w)
		}
	}

	want := []float32{(1 + 4 + 16) / 3.0, (2 + 8 + 32) / 3.0}
	out := output.Data()
	for i := range want {
		if math.Abs(float64(out[i]-want[i])) > 1e-4 {
			t.Errorf("output[%d] = %v, want %v", i, out[i], want[i])
		}
	}
}

// TestScaledDotProductAttention_FullyMaskedRow verifies the degenerate
// case: a row with every position forbidden falls back to uniform weights
// instead of NaN.
func TestScaledDotProductAttention_FullyMaskedRow(t *testing.T) {
	backend := cpu.New()
	seq := 3

	q := tensor.Randn[float32](tensor.Shape{1, 1, seq, 8}, backend)
	k := tensor.Randn[float32](tensor.Shape{1, 1, seq, 8}, backend)
	v := tensor.Randn[float32](tensor.Shape{1, 1, seq, 8}, backend)

	mask := tensor.Zeros[bool](tensor.Shape{1, 1, seq, seq}, backend)
	output, weights := ScaledDotProductAttention(q, k, v, mask, nil, false)

	for i, w := range weights.Data() {
		if math.IsNaN(float64(w)) {
			t.Fatalf("weight[%d] is NaN", i)
		}
		if math.Abs(float64(w)-1.0/float64(seq)) > 1e-5 {
			t.Errorf("weight[%d] = %v, want uniform 1/%d", i, w, seq)
		}
	}
	for i, o := range output.Data() {
		if math.IsNaN(float64(o)) {
			t.Fatalf("output[%d] is NaN", i)
		}
	}
}

// TestScaledDotProductAttention_NonFourDPanics verifies input rank checking.
func TestScaledDotProductAttention_NonFourDPanics(t *testing.T) {
	backend := cpu.New()
	q := tensor.Randn[float32](tensor.Shape{2, 5, 8}, backend)

	defer func() {
		if r := recover(); r == nil {
			t.Fatal("expected panic for 3D input")
		}
	}()
	ScaledDotProductAttention(q, q, q, nil, nil, false)
}
