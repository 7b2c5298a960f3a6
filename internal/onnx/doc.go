// Package onnx reads ONNX models into the IR graph.
//
// Models are decoded with the protobuf wire-format primitives from
// google.golang.org/protobuf/encoding/protowire into a reduced set of message
// structs: only what graph construction and shape inference need is kept
// (weights are reduced to their shapes).
//
// Key components:
//   - ModelProto: Top-level ONNX model structure with metadata and graph
//   - GraphProto: Computation graph with nodes, inputs, outputs, and initializers
//   - NodeProto: Single operation in the graph (e.g., Gelu, MatMul, Relu)
//   - BuildGraph: Converts a parsed model into an ir.Graph
//
// Example usage:
//
//	model, err := onnx.ParseFile("bert.onnx")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	g, err := onnx.BuildGraph(model, registry, onnx.DefaultBuildOptions())
//	if err != nil {
//	    log.Fatal(err)
//	}
//	err = ir.NewDispatcher(registry).InferShapes(g)
package onnx
