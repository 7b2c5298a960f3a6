package ops

import (
	"github.com/born-ml/opset/internal/ir"
	"github.com/born-ml/opset/internal/tensor"
)

var ioAttrs = []ir.AttrSpec{
	{Name: "shape", Kind: ir.AttrInts},
	{Name: "element_type", Kind: ir.AttrString},
}

// Graph boundary operators.
var (
	Parameter = ir.MustDescriptor(ir.OpParameter, 0, 1, Opset1, inferFromShapeAttr,
		ir.WithDefault("element_type", ir.String(tensor.Float32.String())),
		ir.WithBackendAttrs(Opset1, ioAttrs...),
	)
	Const = ir.MustDescriptor(ir.OpConst, 0, 1, Opset1, inferFromShapeAttr,
		ir.WithDefault("element_type", ir.String(tensor.Float32.String())),
		ir.WithBackendAttrs(Opset1, ioAttrs...),
	)
	Result = ir.MustDescriptor(ir.OpResult, 1, 0, Opset1, inferNone)
)

func graphOps() []*ir.Descriptor {
	return []*ir.Descriptor{Parameter, Const, Result}
}

func inferFromShapeAttr(attrs ir.Attributes, _ []tensor.Shape) ([]tensor.Shape, error) {
	return []tensor.Shape{ir.ShapeFromInts(attrs.Ints("shape"))}, nil
}

func inferNone(_ ir.Attributes, _ []tensor.Shape) ([]tensor.Shape, error) {
	return nil, nil
}
