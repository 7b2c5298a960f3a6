// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package onnx imports ONNX models into operator graphs.
//
// Models are decoded from their protobuf form, every node is bound to a
// registered operator descriptor and shapes are propagated from the graph
// inputs. No tensor data is loaded or computed.
//
// # Example Usage
//
//	import (
//	    "github.com/born-ml/opset/ir"
//	    "github.com/born-ml/opset/onnx"
//	    "github.com/born-ml/opset/tensor"
//	)
//
//	registry := ir.DefaultRegistry()
//	opts := onnx.DefaultBuildOptions()
//	opts.InputShapes = map[string]tensor.Shape{"input_ids": {1, 128}}
//
//	g, err := onnx.Load("model.onnx", registry, opts)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	for _, n := range g.Nodes() {
//	    fmt.Println(n.Name(), n.OutputShapes())
//	}
//
// # Operator Mapping
//
// ONNX operator types are looked up in the registry by name, after renaming
// through [DefaultOpMap] (Mul, Sub and Div become Multiply, Subtract and
// Divide). Nodes whose operator is not registered are skipped together with
// their consumers unless BuildOptions.Strict is set.
package onnx

import (
	"errors"

	"github.com/born-ml/opset/internal/ir"
	internalonnx "github.com/born-ml/opset/internal/onnx"
)

// ModelProto is a decoded ONNX model.
type ModelProto = internalonnx.ModelProto

// BuildOptions configures graph construction.
type BuildOptions = internalonnx.BuildOptions

// SkippedNodeError lists nodes left out of a lenient build.
type SkippedNodeError = internalonnx.SkippedNodeError

// ErrNoGraph is returned when a model carries no graph.
var ErrNoGraph = internalonnx.ErrNoGraph

// DefaultOpMap renames ONNX operator types to registry names.
var DefaultOpMap = internalonnx.DefaultOpMap

// DefaultBuildOptions returns the default build options: lenient, with input
// shapes taken from the model.
func DefaultBuildOptions() BuildOptions {
	return internalonnx.DefaultBuildOptions()
}

// Parse decodes an ONNX model.
func Parse(data []byte) (*ModelProto, error) {
	return internalonnx.Parse(data)
}

// ParseFile decodes the ONNX model stored at path.
func ParseFile(path string) (*ModelProto, error) {
	return internalonnx.ParseFile(path)
}

// BuildGraph converts model into a graph resolving operators through registry.
// In lenient mode the graph is returned together with a *SkippedNodeError when
// nodes had to be dropped.
func BuildGraph(model *ModelProto, registry *ir.Registry, opts BuildOptions) (*ir.Graph, error) {
	return internalonnx.BuildGraph(model, registry, opts)
}

// Load parses the model at path, builds its graph and infers all shapes.
// Skipped nodes are reported the same way as by BuildGraph.
func Load(path string, registry *ir.Registry, opts BuildOptions) (*ir.Graph, error) {
	model, err := ParseFile(path)
	if err != nil {
		return nil, err
	}

	g, buildErr := BuildGraph(model, registry, opts)
	var skipped *SkippedNodeError
	if buildErr != nil && !errors.As(buildErr, &skipped) {
		return nil, buildErr
	}

	if err := ir.NewDispatcher(registry).InferShapes(g); err != nil {
		return nil, err
	}
	return g, buildErr
}
