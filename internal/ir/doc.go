// Package ir implements the operator descriptor registry and shape inference
// dispatch of the model optimizer IR.
//
// A Descriptor is the immutable static contract of one operator kind: its name,
// input and output port counts, the opset version new nodes are created with,
// a pure shape inference function, attribute defaults and, per opset version,
// the ordered list of attributes exposed to backends.
//
// Descriptors are registered in an explicitly constructed Registry during
// startup. Graph nodes reference descriptors by name; a Dispatcher resolves the
// descriptor and runs its inference function to propagate shapes.
//
// Example:
//
//	r := ir.NewRegistry()
//	r.MustRegister(ir.MustDescriptor("Gelu", 1, 1, "opset7", ir.CopyShape,
//	    ir.WithDefault("approximation_mode", ir.String("ERF")),
//	    ir.WithBackendAttrs("opset7", ir.AttrSpec{Name: "approximation_mode", Kind: ir.AttrString}),
//	))
//	r.Seal()
//
//	node, _ := ir.NewNode(r, "gelu0", "Gelu", nil)
//	node.SetInputShapes(tensor.Shape{1, 128, 768})
//	_ = ir.NewDispatcher(r).Infer(node)
//	fmt.Println(node.OutputShapes())     // [[1 128 768]]
//	fmt.Println(node.BackendAttributes()) // [approximation_mode]
package ir
