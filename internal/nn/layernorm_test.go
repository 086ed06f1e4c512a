package nn

import (
	"math"
	"testing"

	"github.com/loom-ml/loom/internal/backend/cpu"
	"github.com/loom-ml/loom/internal/tensor"
)

// TestLayerNorm_MeanAndVariance verifies each normalized vector has
// mean ~0 and standard deviation ~1 before gain/bias.
func TestLayerNorm_MeanAndVariance(t *testing.T) {
	backend := cpu.New()
	features := 16

	ln := NewLayerNorm(features, DefaultLayerNormEps, backend)
	x := tensor.Randn[float32](tensor.Shape{2, 3, features}, backend)

	out := ln.Forward(x)
	if !out.Shape().Equal(x.Shape()) {
		t.Fatalf("shape = %v, want %v", out.Shape(), x.Shape())
	}

	data := out.Data()
	vectors := 2 * 3
	for v := 0; v < vectors; v++ {
		var sum float64
		for f := 0; f < features; f++ {
			sum += float64(data[v*features+f])
		}
		mean := sum / float64(features)
		if math.Abs(mean) > 1e-4 {
			t.Errorf("vector %d mean = %v, want ~0", v, mean)
		}

		var variance float64
		for f := 0; f < features; f++ {
			d := float64(data[v*features+f]) - mean
			variance += d * d
		}
		variance /= float64(features)
		if math.Abs(math.Sqrt(variance)-1.0) > 1e-2 {
			t.Errorf("vector %d std = %v, want ~1", v, math.Sqrt(variance))
		}
	}
}

// TestLayerNorm_GainBias verifies the affine transform is applied after
// normalization.
func TestLayerNorm_GainBias(t *testing.T) {
	backend := cpu.New()
	features := 4

	ln := NewLayerNorm(features, DefaultLayerNormEps, backend)

	// gain = 2, bias = 3.
	gainData := ln.Parameters()[0].Tensor().Data()
	biasData := ln.Parameters()[1].Tensor().Data()
	for i := range gainData {
		gainData[i] = 2
		biasData[i] = 3
	}

	x, err := tensor.FromSlice([]float32{1, 2, 3, 4}, tensor.Shape{1, features}, backend)
	if err != nil {
		t.Fatal(err)
	}

	out := ln.Forward(x).Data()

	// After normalization the vector has mean 0 and std ~1, so the output
	// mean must be the bias and the output std twice the normalized one.
	var sum float64
	for _, v := range out {
		sum += float64(v)
	}
	mean := sum / float64(features)
	if math.Abs(mean-3.0) > 1e-4 {
		t.Errorf("output mean = %v, want 3", mean)
	}
}

// TestLayerNorm_ConstantInput verifies zero-variance vectors stay finite.
func TestLayerNorm_ConstantInput(t *testing.T) {
	backend := cpu.New()
	features := 8

	ln := NewLayerNorm(features, DefaultLayerNormEps, backend)
	x := tensor.Full[float32](tensor.Shape{1, features}, 5.0, backend)

	out := ln.Forward(x).Data()
	for i, v := range out {
		if math.IsNaN(float64(v)) || math.IsInf(float64(v), 0) {
			t.Fatalf("output[%d] = %v for constant input", i, v)
		}
	}
}

// TestLayerNorm_WrongFeatureDimPanics verifies the input check.
func TestLayerNorm_WrongFeatureDimPanics(t *testing.T) {
	backend := cpu.New()
	ln := NewLayerNorm(16, DefaultLayerNormEps, backend)
	x := tensor.Randn[float32](tensor.Shape{2, 8}, backend)

	defer func() {
		if r := recover(); r == nil {
			t.Fatal("expected panic for mismatched feature dimension")
		}
	}()
	ln.Forward(x)
}
