package tensor

import (
	"errors"
	"testing"
)

func TestShape_NumElements(t *testing.T) {
	tests := []struct {
		shape    Shape
		expected int
	}{
		{Shape{}, 1},
		{Shape{5}, 5},
		{Shape{2, 3}, 6},
		{Shape{2, 3, 4}, 24},
	}

	for _, tt := range tests {
		if got := tt.shape.NumElements(); got != tt.expected {
			t.Errorf("Shape%v.NumElements() = %d, want %d", tt.shape, got, tt.expected)
		}
	}
}

func TestShape_ComputeStrides(t *testing.T) {
	strides := Shape{2, 3, 4}.ComputeStrides()
	expected := []int{12, 4, 1}
	for i := range expected {
		if strides[i] != expected[i] {
			t.Errorf("strides = %v, want %v", strides, expected)
			break
		}
	}
}

func TestShape_Validate(t *testing.T) {
	if err := (Shape{2, 3}).Validate(); err != nil {
		t.Errorf("valid shape rejected: %v", err)
	}
	if err := (Shape{2, 0}).Validate(); err == nil {
		t.Error("expected error for zero dimension")
	}
	if err := (Shape{-1, 3}).Validate(); err == nil {
		t.Error("expected error for negative dimension")
	}
}

func TestBroadcastShapes(t *testing.T) {
	tests := []struct {
		name      string
		a, b      Shape
		expected  Shape
		broadcast bool
	}{
		{"same shape", Shape{3, 5}, Shape{3, 5}, Shape{3, 5}, false},
		{"size-1 dim", Shape{3, 1}, Shape{3, 5}, Shape{3, 5}, true},
		{"missing dims", Shape{5}, Shape{3, 5}, Shape{3, 5}, true},
		{"mask over scores", Shape{2, 1, 1, 7}, Shape{2, 8, 7, 7}, Shape{2, 8, 7, 7}, true},
		{"causal over batch", Shape{1, 1, 4, 4}, Shape{2, 8, 4, 4}, Shape{2, 8, 4, 4}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, broadcast, err := BroadcastShapes(tt.a, tt.b)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !result.Equal(tt.expected) {
				t.Errorf("BroadcastShapes(%v, %v) = %v, want %v", tt.a, tt.b, result, tt.expected)
			}
			if broadcast != tt.broadcast {
				t.Errorf("broadcast flag = %v, want %v", broadcast, tt.broadcast)
			}
		})
	}
}

func TestBroadcastShapes_Incompatible(t *testing.T) {
	_, _, err := BroadcastShapes(Shape{3, 4}, Shape{3, 5})
	if err == nil {
		t.Fatal("expected error for incompatible shapes")
	}

	var shapeErr *ShapeError
	if !errors.As(err, &shapeErr) {
		t.Fatalf("expected *ShapeError, got %T", err)
	}
	if shapeErr.Op != "broadcast" {
		t.Errorf("Op = %q, want %q", shapeErr.Op, "broadcast")
	}
}
