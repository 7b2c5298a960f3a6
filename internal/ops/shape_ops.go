package ops

import (
	"fmt"

	"github.com/born-ml/opset/internal/ir"
	"github.com/born-ml/opset/internal/tensor"
)

// Transpose permutes dimensions by the order attribute. An empty order
// reverses them.
var Transpose = ir.MustDescriptor("Transpose", 1, 1, Opset1, inferTranspose,
	ir.WithBackendAttrs(Opset1, ir.AttrSpec{Name: "order", Kind: ir.AttrInts}),
)

// Identity forwards its input unchanged.
var Identity = ir.MustDescriptor("Identity", 1, 1, Opset1, ir.CopyShape)

func shapeOps() []*ir.Descriptor {
	return []*ir.Descriptor{Transpose, Identity}
}

func inferTranspose(attrs ir.Attributes, inputs []tensor.Shape) ([]tensor.Shape, error) {
	if len(inputs) != 1 {
		return nil, fmt.Errorf("transpose requires 1 input, got %d", len(inputs))
	}
	in := inputs[0]
	order := attrs.Ints("order")

	if len(order) == 0 {
		out := make(tensor.Shape, len(in))
		for i := range in {
			out[i] = in[len(in)-1-i]
		}
		return []tensor.Shape{out}, nil
	}

	if len(order) != len(in) {
		return nil, fmt.Errorf("transpose order %v does not match rank %d", order, len(in))
	}
	seen := make([]bool, len(in))
	out := make(tensor.Shape, len(in))
	for i, axis := range order {
		if axis < 0 || int(axis) >= len(in) || seen[axis] {
			return nil, fmt.Errorf("transpose order %v is not a permutation", order)
		}
		seen[axis] = true
		out[i] = in[axis]
	}
	return []tensor.Shape{out}, nil
}
