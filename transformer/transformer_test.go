// Copyright 2025 Loom ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package transformer_test

import (
	"testing"

	"github.com/loom-ml/loom/backend/cpu"
	"github.com/loom-ml/loom/tensor"
	"github.com/loom-ml/loom/transformer"
)

// TestEndToEnd builds a small model through the public API and runs a
// full encode-decode-generate pass.
func TestEndToEnd(t *testing.T) {
	backend := cpu.New()

	cfg := transformer.DefaultConfig()
	cfg.SrcVocabSize = 11
	cfg.TgtVocabSize = 11
	cfg.NumLayers = 2
	cfg.ModelDim = 32
	cfg.FFNDim = 64
	cfg.NumHeads = 4
	cfg.Dropout = 0
	cfg.MaxLen = 32
	cfg.Seed = 1

	model, err := transformer.New(cfg, backend)
	if err != nil {
		t.Fatal(err)
	}

	src, err := tensor.FromSlice([]int32{1, 2, 3, 4, 0}, tensor.Shape{1, 5}, backend)
	if err != nil {
		t.Fatal(err)
	}
	tgt, err := tensor.FromSlice([]int32{1, 5, 6}, tensor.Shape{1, 3}, backend)
	if err != nil {
		t.Fatal(err)
	}

	srcMask := transformer.PaddingMask(src, 0)
	tgtMask := transformer.TargetMask(tgt, 0)

	states := model.Forward(src, tgt, srcMask, tgtMask, false)
	logProbs := model.Generator().Forward(states)

	if !logProbs.Shape().Equal(tensor.Shape{1, 3, 11}) {
		t.Fatalf("log-probs shape = %v, want [1 3 11]", logProbs.Shape())
	}
}

func TestDefaultConfig(t *testing.T) {
	cfg := transformer.DefaultConfig()
	if cfg.NumLayers != 6 || cfg.ModelDim != 64 || cfg.FFNDim != 128 || cfg.NumHeads != 8 {
		t.Errorf("unexpected defaults: %+v", cfg)
	}
	if cfg.Dropout != 0.1 {
		t.Errorf("default Dropout = %v, want 0.1", cfg.Dropout)
	}
	if cfg.ModelDim%cfg.NumHeads != 0 {
		t.Error("default ModelDim must be divisible by NumHeads")
	}
}
