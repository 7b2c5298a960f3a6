package ops

import (
	"fmt"

	"github.com/born-ml/opset/internal/ir"
	"github.com/born-ml/opset/internal/tensor"
)

// Broadcast modes of binary element-wise operators.
const (
	BroadcastNumpy = "numpy"
	BroadcastNone  = "none"
)

func binaryOp(name string) *ir.Descriptor {
	return ir.MustDescriptor(name, 2, 1, Opset1, inferBroadcast,
		ir.WithDefault("auto_broadcast", ir.String(BroadcastNumpy)),
		ir.WithBackendAttrs(Opset1, ir.AttrSpec{Name: "auto_broadcast", Kind: ir.AttrString}),
	)
}

// Binary element-wise arithmetic.
var (
	Add      = binaryOp("Add")
	Subtract = binaryOp("Subtract")
	Multiply = binaryOp("Multiply")
	Divide   = binaryOp("Divide")
	Mod      = binaryOp("Mod")
)

func mathOps() []*ir.Descriptor {
	return []*ir.Descriptor{Add, Subtract, Multiply, Divide, Mod}
}

func inferBroadcast(attrs ir.Attributes, inputs []tensor.Shape) ([]tensor.Shape, error) {
	if len(inputs) != 2 {
		return nil, fmt.Errorf("broadcast requires 2 inputs, got %d", len(inputs))
	}
	switch mode := attrs.String("auto_broadcast", BroadcastNumpy); mode {
	case BroadcastNone:
		if !inputs[0].Equal(inputs[1]) {
			return nil, fmt.Errorf("auto_broadcast none: shapes differ: %v vs %v", inputs[0], inputs[1])
		}
		return []tensor.Shape{inputs[0].Clone()}, nil
	case BroadcastNumpy:
		out, err := tensor.BroadcastShapes(inputs[0], inputs[1])
		if err != nil {
			return nil, err
		}
		return []tensor.Shape{out}, nil
	default:
		return nil, fmt.Errorf("unsupported auto_broadcast mode %q", mode)
	}
}
