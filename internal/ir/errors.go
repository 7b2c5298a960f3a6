package ir

import (
	"errors"
	"fmt"
)

// Common errors.
var (
	ErrDuplicateOperator = errors.New("operator already registered with a different definition")
	ErrUnknownOperator   = errors.New("unknown operator")
	ErrShapeMismatch     = errors.New("shape arity mismatch")
	ErrInvalidDescriptor = errors.New("invalid operator descriptor")
	ErrRegistrySealed    = errors.New("registry is sealed")
	ErrReservedAttribute = errors.New("attribute is reserved by the descriptor")
	ErrAttributeType     = errors.New("attribute has the wrong type")
	ErrDuplicateNode     = errors.New("duplicate node name")
	ErrUnknownNode       = errors.New("unknown node")
	ErrGraphCycle        = errors.New("graph contains a cycle")
)

// DuplicateOperatorError is returned when a name is registered twice with
// differing definitions.
type DuplicateOperatorError struct {
	Name string
}

// Error implements the error interface.
func (e *DuplicateOperatorError) Error() string {
	return fmt.Sprintf("operator %q: %v", e.Name, ErrDuplicateOperator)
}

// Unwrap returns ErrDuplicateOperator.
func (e *DuplicateOperatorError) Unwrap() error { return ErrDuplicateOperator }

// UnknownOperatorError is returned by a registry lookup miss.
type UnknownOperatorError struct {
	Name string
}

// Error implements the error interface.
func (e *UnknownOperatorError) Error() string {
	return fmt.Sprintf("%v: %q", ErrUnknownOperator, e.Name)
}

// Unwrap returns ErrUnknownOperator.
func (e *UnknownOperatorError) Unwrap() error { return ErrUnknownOperator }

// ShapeMismatchError reports a port count that does not match the descriptor.
type ShapeMismatchError struct {
	Op        string // Operator name
	Node      string // Node name, empty when inferring outside a graph
	Direction string // "input" or "output"
	Want      int    // Declared port count
	Got       int    // Number of shapes supplied or produced
}

// Error implements the error interface.
func (e *ShapeMismatchError) Error() string {
	if e.Node != "" {
		return fmt.Sprintf("%v: node %q (%s) declares %d %s ports, got %d shapes",
			ErrShapeMismatch, e.Node, e.Op, e.Want, e.Direction, e.Got)
	}
	return fmt.Sprintf("%v: %s declares %d %s ports, got %d shapes",
		ErrShapeMismatch, e.Op, e.Want, e.Direction, e.Got)
}

// Unwrap returns ErrShapeMismatch.
func (e *ShapeMismatchError) Unwrap() error { return ErrShapeMismatch }

// AttributeTypeError reports an attribute whose kind differs from the schema.
type AttributeTypeError struct {
	Op   string
	Name string
	Want AttrKind
	Got  AttrKind
}

// Error implements the error interface.
func (e *AttributeTypeError) Error() string {
	return fmt.Sprintf("%s: attribute %q: %v: want %s, got %s", e.Op, e.Name, ErrAttributeType, e.Want, e.Got)
}

// Unwrap returns ErrAttributeType.
func (e *AttributeTypeError) Unwrap() error { return ErrAttributeType }
