package cpu

import (
	"fmt"

	"github.com/loom-ml/loom/internal/tensor"
)

// Where selects elements from x where condition is true, and from y where
// it is false. Condition, x, and y broadcast together to a common shape.
func (cpu *CPUBackend) Where(condition, x, y *tensor.RawTensor) *tensor.RawTensor {
	if condition.DType() != tensor.Bool {
		panic(fmt.Sprintf("where: condition must be Bool, got %s", condition.DType()))
	}
	if x.DType() != y.DType() {
		panic(fmt.Sprintf("where: dtype mismatch: %s vs %s", x.DType(), y.DType()))
	}

	partial, _, err := tensor.BroadcastShapes(condition.Shape(), x.Shape())
	if err != nil {
		panic(err)
	}
	outShape, _, err := tensor.BroadcastShapes(partial, y.Shape())
	if err != nil {
		panic(err)
	}

	result, err := tensor.NewRaw(outShape, x.DType(), cpu.device)
	if err != nil {
		panic(fmt.Sprintf("where: failed to create result tensor: %v", err))
	}

	cond := condition.AsBool()
	condShape := condition.Shape()

	switch x.DType() {
	case tensor.Float32:
		whereKernel(result.AsFloat32(), cond, x.AsFloat32(), y.AsFloat32(), condShape, x.Shape(), y.Shape(), outShape)
	case tensor.Float64:
		whereKernel(result.AsFloat64(), cond, x.AsFloat64(), y.AsFloat64(), condShape, x.Shape(), y.Shape(), outShape)
	case tensor.Int32:
		whereKernel(result.AsInt32(), cond, x.AsInt32(), y.AsInt32(), condShape, x.Shape(), y.Shape(), outShape)
	case tensor.Int64:
		whereKernel(result.AsInt64(), cond, x.AsInt64(), y.AsInt64(), condShape, x.Shape(), y.Shape(), outShape)
	case tensor.Bool:
		whereKernel(result.AsBool(), cond, x.AsBool(), y.AsBool(), condShape, x.Shape(), y.Shape(), outShape)
	default:
		panic(fmt.Sprintf("where: unsupported dtype %s", x.DType()))
	}

	return result
}

func whereKernel[T tensor.DType](dst []T, cond []bool, x, y []T, condShape, xShape, yShape, outShape tensor.Shape) {
	condStrides := computeBroadcastStridesForShape(condShape, outShape)
	xStrides := computeBroadcastStridesForShape(xShape, outShape)
	yStrides := computeBroadcastStridesForShape(yShape, outShape)
	outStrides := outShape.ComputeStrides()

	for i := range dst {
		if cond[computeFlatIndex(i, outStrides, condStrides)] {
			dst[i] = x[computeFlatIndex(i, outStrides, xStrides)]
		} else {
			dst[i] = y[computeFlatIndex(i, outStrides, yStrides)]
		}
	}
}

// Embedding gathers rows of weight by index.
//
// weight has shape [vocabSize, embedDim]; indices is an integer tensor of
// any shape. The result has shape indices.Shape() + [embedDim]. Out-of-range
// indices panic.
func (cpu *CPUBackend) Embedding(weight, indices *tensor.RawTensor) *tensor.RawTensor {
	wShape := weight.Shape()
	if len(wShape) != 2 {
		panic(&tensor.ShapeError{Op: "embedding", A: wShape,
			Details: "weight must be 2D [vocabSize, embedDim]"})
	}

	vocabSize, embedDim := wShape[0], wShape[1]

	var idx []int
	switch indices.DType() {
	case tensor.Int32:
		src := indices.AsInt32()
		idx = make([]int, len(src))
		for i, v := range src {
			idx[i] = int(v)
		}
	case tensor.Int64:
		src := indices.AsInt64()
		idx = make([]int, len(src))
		for i, v := range src {
			idx[i] = int(v)
		}
	default:
		panic(fmt.Sprintf("embedding: indices must be Int32 or Int64, got %s", indices.DType()))
	}

	for i, v := range idx {
		if v < 0 || v >= vocabSize {
			panic(fmt.Sprintf("embedding: index %d at position %d out of range [0, %d)", v, i, vocabSize))
		}
	}

	outShape := make(tensor.Shape, 0, len(indices.Shape())+1)
	outShape = append(outShape, indices.Shape()...)
	outShape = append(outShape, embedDim)

	result, err := tensor.NewRaw(outShape, weight.DType(), cpu.device)
	if err != nil {
		panic(fmt.Sprintf("embedding: failed to create result tensor: %v", err))
	}

	switch weight.DType() {
	case tensor.Float32:
		embeddingKernel(result.AsFloat32(), weight.AsFloat32(), idx, embedDim)
	case tensor.Float64:
		embeddingKernel(result.AsFloat64(), weight.AsFloat64(), idx, embedDim)
	default:
		panic(fmt.Sprintf("embedding: unsupported weight dtype %s", weight.DType()))
	}

	return result
}

func embeddingKernel[T float](dst, weight []T, idx []int, embedDim int) {
	for i, v := range idx {
		copy(dst[i*embedDim:(i+1)*embedDim], weight[v*embedDim:(v+1)*embedDim])
	}
}
