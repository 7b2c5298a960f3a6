// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package tensor

import (
	"github.com/born-ml/opset/internal/tensor"
)

// Type aliases for public API

// Shape represents the dimensions of a tensor.
// Example: Shape{1, 128, 768} is a batch of one sequence of 128 tokens.
type Shape = tensor.Shape

// Dynamic marks a dimension whose size is unknown until run time.
const Dynamic = tensor.Dynamic

// DataType represents the element type of a tensor.
type DataType = tensor.DataType

// Data type constants.
const (
	Undefined DataType = tensor.Undefined
	Float32   DataType = tensor.Float32
	Float16   DataType = tensor.Float16
	Float64   DataType = tensor.Float64
	Int8      DataType = tensor.Int8
	Int32     DataType = tensor.Int32
	Int64     DataType = tensor.Int64
	Uint8     DataType = tensor.Uint8
	Bool      DataType = tensor.Bool
)

// ParseShape parses a comma separated dimension list such as "1,128,768".
// "?" and "-1" denote dynamic dimensions.
func ParseShape(text string) (Shape, error) {
	return tensor.ParseShape(text)
}

// ParseDataType parses an element type name such as "f32".
func ParseDataType(name string) (DataType, error) {
	return tensor.ParseDataType(name)
}

// BroadcastShapes computes the result shape of broadcasting a with b.
func BroadcastShapes(a, b Shape) (Shape, error) {
	return tensor.BroadcastShapes(a, b)
}
