package ops

import (
	"fmt"

	"github.com/born-ml/opset/internal/ir"
	"github.com/born-ml/opset/internal/tensor"
)

// Gelu approximation modes.
const (
	GeluModeErf  = "ERF"
	GeluModeTanh = "TANH"
)

// Gelu is the Gaussian error linear unit. Only opset7 exposes the
// approximation mode to backends.
var Gelu = ir.MustDescriptor("Gelu", 1, 1, Opset7, ir.CopyShape,
	ir.WithDefault("approximation_mode", ir.String(GeluModeErf)),
	ir.WithBackendAttrs(Opset7, ir.AttrSpec{Name: "approximation_mode", Kind: ir.AttrString}),
)

// Unary element-wise activations without attributes.
var (
	Relu    = ir.MustDescriptor("Relu", 1, 1, Opset1, ir.CopyShape)
	Sigmoid = ir.MustDescriptor("Sigmoid", 1, 1, Opset1, ir.CopyShape)
	Tanh    = ir.MustDescriptor("Tanh", 1, 1, Opset1, ir.CopyShape)
	Exp     = ir.MustDescriptor("Exp", 1, 1, Opset1, ir.CopyShape)
)

// Elu is the exponential linear unit.
var Elu = ir.MustDescriptor("Elu", 1, 1, Opset1, ir.CopyShape,
	ir.WithDefault("alpha", ir.Float(1.0)),
	ir.WithBackendAttrs(Opset1, ir.AttrSpec{Name: "alpha", Kind: ir.AttrFloat}),
)

// Softmax normalizes along axis.
var Softmax = ir.MustDescriptor("Softmax", 1, 1, Opset8, inferSoftmax,
	ir.WithDefault("axis", ir.Int(1)),
	ir.WithBackendAttrs(Opset1, ir.AttrSpec{Name: "axis", Kind: ir.AttrInt}),
	ir.WithBackendAttrs(Opset8, ir.AttrSpec{Name: "axis", Kind: ir.AttrInt}),
)

// Clamp limits values to [min, max].
var Clamp = ir.MustDescriptor("Clamp", 1, 1, Opset1, ir.CopyShape,
	ir.WithBackendAttrs(Opset1,
		ir.AttrSpec{Name: "min", Kind: ir.AttrFloat},
		ir.AttrSpec{Name: "max", Kind: ir.AttrFloat},
	),
)

// Selu takes alpha and lambda as inputs; the output follows the data input.
var Selu = ir.MustDescriptor("Selu", 3, 1, Opset1, inferFirst)

func activations() []*ir.Descriptor {
	return []*ir.Descriptor{Gelu, Relu, Sigmoid, Tanh, Exp, Elu, Softmax, Clamp, Selu}
}

// inferFirst gives the single output the shape of the first input.
func inferFirst(_ ir.Attributes, inputs []tensor.Shape) ([]tensor.Shape, error) {
	if len(inputs) == 0 {
		return nil, fmt.Errorf("no inputs")
	}
	return []tensor.Shape{inputs[0].Clone()}, nil
}

func inferSoftmax(attrs ir.Attributes, inputs []tensor.Shape) ([]tensor.Shape, error) {
	rank := int64(len(inputs[0]))
	axis := attrs.Int("axis", 1)
	if axis < -rank || axis >= rank {
		return nil, fmt.Errorf("softmax axis %d out of range for rank %d", axis, rank)
	}
	return []tensor.Shape{inputs[0].Clone()}, nil
}
