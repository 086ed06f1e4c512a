package parallel

import (
	"sync/atomic"
	"testing"
)

func TestFor_Sequential(t *testing.T) {
	cfg := Config{Enabled: false}

	results := make([]int, 100)
	For(100, func(i int) {
		results[i] = i * 2
	}, cfg)

	for i, v := range results {
		if v != i*2 {
			t.Fatalf("results[%d] = %d, want %d", i, v, i*2)
		}
	}
}

func TestFor_Parallel(t *testing.T) {
	cfg := Config{Enabled: true, NumWorkers: 4, MinWork: 1}

	results := make([]int, 1000)
	For(1000, func(i int) {
		results[i] = i * 3
	}, cfg)

	for i, v := range results {
		if v != i*3 {
			t.Fatalf("results[%d] = %d, want %d", i, v, i*3)
		}
	}
}

func TestFor_EveryIndexExactlyOnce(t *testing.T) {
	cfg := Config{Enabled: true, NumWorkers: 8, MinWork: 1}

	var counter int64
	calls := make([]int32, 500)
	For(500, func(i int) {
		atomic.AddInt64(&counter, 1)
		atomic.AddInt32(&calls[i], 1)
	}, cfg)

	if counter != 500 {
		t.Fatalf("counter = %d, want 500", counter)
	}
	for i, c := range calls {
		if c != 1 {
			t.Fatalf("index %d invoked %d times", i, c)
		}
	}
}

func TestFor_BelowMinWorkRunsSequentially(t *testing.T) {
	cfg := Config{Enabled: true, NumWorkers: 4, MinWork: 100}

	// With n < MinWork, f runs on the calling goroutine in order.
	var order []int
	For(10, func(i int) {
		order = append(order, i)
	}, cfg)

	for i, v := range order {
		if v != i {
			t.Fatalf("order[%d] = %d, want %d", i, v, i)
		}
	}
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.NumWorkers < 1 {
		t.Errorf("NumWorkers = %d, want >= 1", cfg.NumWorkers)
	}
	if cfg.MinWork <= 0 {
		t.Errorf("MinWork = %d, want > 0", cfg.MinWork)
	}
}
