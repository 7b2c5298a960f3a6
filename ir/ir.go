// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package ir provides operator descriptors, the operator registry and shape
// inference for computation graphs.
//
// # Overview
//
// Every operator kind is described once by an immutable [Descriptor]: its
// port counts, its opset version, its default properties, the function
// computing output shapes from input shapes and, per opset version, the
// attributes a backend receives. Descriptors live in a [Registry] that is
// filled at startup and then sealed. A [Dispatcher] runs inference for nodes
// and whole graphs.
//
// # Example Usage
//
//	registry := ir.DefaultRegistry()
//	registry.Seal()
//
//	gelu, err := ir.NewNode(registry, "gelu", "Gelu", nil)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	gelu.SetInputShapes(tensor.Shape{1, 128, 768})
//	if err := ir.NewDispatcher(registry).Infer(gelu); err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(gelu.OutputShapes())                                 // [[1 128 768]]
//	fmt.Println(ir.ResolveBackendAttributes(gelu.Descriptor(), "opset7")) // [approximation_mode]
//
// Custom operators are registered with [NewDescriptor]:
//
//	swish := ir.MustDescriptor("Swish", 1, 1, "opset4", ir.CopyShape,
//	    ir.WithDefault("beta", ir.Float(1)),
//	    ir.WithBackendAttrs("opset4", ir.AttrSpec{Name: "beta", Kind: ir.AttrFloat}),
//	)
//	if err := registry.Register(swish); err != nil {
//	    log.Fatal(err)
//	}
package ir

import (
	"github.com/born-ml/opset/internal/ir"
	"github.com/born-ml/opset/internal/ops"
)

// Type aliases for public API

// Descriptor is the immutable description of an operator kind.
type Descriptor = ir.Descriptor

// DescriptorOption configures a descriptor under construction.
type DescriptorOption = ir.DescriptorOption

// InferFunc computes output shapes from input shapes.
type InferFunc = ir.InferFunc

// Registry maps operator names to descriptors.
type Registry = ir.Registry

// Dispatcher runs descriptor inference functions for nodes.
type Dispatcher = ir.Dispatcher

// Node is one operation in a graph.
type Node = ir.Node

// Graph is a computation graph of named nodes.
type Graph = ir.Graph

// PortRef addresses an output port of a node.
type PortRef = ir.PortRef

// Attributes maps property names to values.
type Attributes = ir.Attributes

// AttrValue is an immutable attribute value.
type AttrValue = ir.AttrValue

// AttrKind identifies the variant held by an AttrValue.
type AttrKind = ir.AttrKind

// AttrSpec declares a backend attribute and its kind.
type AttrSpec = ir.AttrSpec

// Error types.
type (
	DuplicateOperatorError = ir.DuplicateOperatorError
	UnknownOperatorError   = ir.UnknownOperatorError
	ShapeMismatchError     = ir.ShapeMismatchError
	AttributeTypeError     = ir.AttributeTypeError
)

// Attribute kinds.
const (
	AttrInt     = ir.AttrInt
	AttrFloat   = ir.AttrFloat
	AttrString  = ir.AttrString
	AttrInts    = ir.AttrInts
	AttrFloats  = ir.AttrFloats
	AttrStrings = ir.AttrStrings
)

// Sentinel errors.
var (
	ErrDuplicateOperator = ir.ErrDuplicateOperator
	ErrUnknownOperator   = ir.ErrUnknownOperator
	ErrShapeMismatch     = ir.ErrShapeMismatch
	ErrInvalidDescriptor = ir.ErrInvalidDescriptor
	ErrRegistrySealed    = ir.ErrRegistrySealed
)

// Attribute value constructors.
var (
	Int     = ir.Int
	Float   = ir.Float
	String  = ir.String
	Ints    = ir.Ints
	Floats  = ir.Floats
	Strings = ir.Strings
)

// Descriptor options.
var (
	WithDefault      = ir.WithDefault
	WithBackendAttrs = ir.WithBackendAttrs
)

// CopyShape is the inference of element-wise unary operators.
var CopyShape InferFunc = ir.CopyShape

// NewDescriptor creates and validates a descriptor.
func NewDescriptor(name string, in, out int, version string, infer InferFunc, opts ...DescriptorOption) (*Descriptor, error) {
	return ir.NewDescriptor(name, in, out, version, infer, opts...)
}

// MustDescriptor is like NewDescriptor but panics on error.
func MustDescriptor(name string, in, out int, version string, infer InferFunc, opts ...DescriptorOption) *Descriptor {
	return ir.MustDescriptor(name, in, out, version, infer, opts...)
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return ir.NewRegistry()
}

// DefaultRegistry creates a registry holding the built-in operators. The
// registry is not sealed so callers can add their own operators first.
func DefaultRegistry() *Registry {
	return ops.NewRegistry()
}

// NewDispatcher creates a dispatcher resolving descriptors through registry.
func NewDispatcher(registry *Registry) *Dispatcher {
	return ir.NewDispatcher(registry)
}

// NewNode creates a detached node of op.
func NewNode(registry *Registry, name, op string, attrs Attributes) (*Node, error) {
	return ir.NewNode(registry, name, op, attrs)
}

// NewGraph creates an empty graph resolving operators through registry.
func NewGraph(name string, registry *Registry) *Graph {
	return ir.NewGraph(name, registry)
}

// ResolveBackendAttributes returns the attribute names d exposes to version.
// Versions without an entry yield an empty slice.
func ResolveBackendAttributes(d *Descriptor, version string) []string {
	return ir.ResolveBackendAttributes(d, version)
}

// BackendData returns the backend-visible attribute values of node for version.
func BackendData(node *Node, version string) Attributes {
	return ir.BackendData(node, version)
}
