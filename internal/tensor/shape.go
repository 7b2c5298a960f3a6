// Package tensor provides the tensor shape type shared by the IR and its frontends.
package tensor

import (
	"fmt"
	"strconv"
	"strings"
)

// Dynamic marks a dimension whose extent is unknown until runtime.
const Dynamic = -1

// Shape represents the dimensions of a tensor.
type Shape []int

// NumElements returns the total number of elements in the tensor.
// Returns -1 if any dimension is dynamic.
func (s Shape) NumElements() int {
	if len(s) == 0 {
		return 1 // Scalar has 1 element
	}
	n := 1
	for _, dim := range s {
		if dim == Dynamic {
			return Dynamic
		}
		n *= dim
	}
	return n
}

// Validate checks if the shape is valid (all dimensions > 0).
func (s Shape) Validate() error {
	for i, dim := range s {
		if dim <= 0 {
			return fmt.Errorf("invalid dimension at index %d: %d (must be > 0)", i, dim)
		}
	}
	return nil
}

// ValidateDynamic accepts Dynamic and zero-sized dimensions on top of what
// Validate accepts.
func (s Shape) ValidateDynamic() error {
	for i, dim := range s {
		if dim < 0 && dim != Dynamic {
			return fmt.Errorf("invalid dimension at index %d: %d (must be >= 0 or %d)", i, dim, Dynamic)
		}
	}
	return nil
}

// IsStatic reports whether every dimension is known.
func (s Shape) IsStatic() bool {
	for _, dim := range s {
		if dim == Dynamic {
			return false
		}
	}
	return true
}

// Equal checks if two shapes are equal.
func (s Shape) Equal(other Shape) bool {
	if len(s) != len(other) {
		return false
	}
	for i := range s {
		if s[i] != other[i] {
			return false
		}
	}
	return true
}

// Clone returns a copy of the shape.
func (s Shape) Clone() Shape {
	if s == nil {
		return nil
	}
	clone := make(Shape, len(s))
	copy(clone, s)
	return clone
}

// String formats the shape as [d0 d1 ...], with "?" for dynamic dimensions.
func (s Shape) String() string {
	parts := make([]string, len(s))
	for i, dim := range s {
		if dim == Dynamic {
			parts[i] = "?"
			continue
		}
		parts[i] = strconv.Itoa(dim)
	}
	return "[" + strings.Join(parts, " ") + "]"
}

// ParseShape parses a comma separated dimension list such as "1,128,768".
// "?" and "-1" denote dynamic dimensions. An empty string is a scalar.
func ParseShape(text string) (Shape, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return Shape{}, nil
	}
	fields := strings.Split(text, ",")
	shape := make(Shape, len(fields))
	for i, f := range fields {
		f = strings.TrimSpace(f)
		if f == "?" {
			shape[i] = Dynamic
			continue
		}
		dim, err := strconv.Atoi(f)
		if err != nil {
			return nil, fmt.Errorf("invalid dimension %q at index %d: %w", f, i, err)
		}
		shape[i] = dim
	}
	if err := shape.ValidateDynamic(); err != nil {
		return nil, err
	}
	return shape, nil
}

// BroadcastShapes implements NumPy-style broadcasting rules.
//
// Rules:
// 1. Compare shapes element-wise from right to left
// 2. Dimensions are compatible if:
//   - They are equal, OR
//   - One of them is 1
//
// 3. Missing dimensions are treated as 1
//
// A dynamic dimension paired with 1 stays dynamic; paired with a known extent it
// resolves to that extent.
//
// Examples:
//
//	(3, 1) + (3, 5) → (3, 5), nil
//	(1, 5) + (3, 5) → (3, 5), nil
//	(3, 4) + (3, 5) → nil, Error
func BroadcastShapes(a, b Shape) (Shape, error) {
	maxLen := max(len(a), len(b))
	result := make(Shape, maxLen)

	for i := 0; i < maxLen; i++ {
		aIdx := len(a) - 1 - i
		bIdx := len(b) - 1 - i

		aDim := 1
		if aIdx >= 0 {
			aDim = a[aIdx]
		}

		bDim := 1
		if bIdx >= 0 {
			bDim = b[bIdx]
		}

		switch {
		case aDim == bDim:
			result[maxLen-1-i] = aDim
		case aDim == 1:
			result[maxLen-1-i] = bDim
		case bDim == 1:
			result[maxLen-1-i] = aDim
		case aDim == Dynamic:
			result[maxLen-1-i] = bDim
		case bDim == Dynamic:
			result[maxLen-1-i] = aDim
		default:
			return nil, fmt.Errorf("shapes not compatible for broadcasting: %v vs %v (dimension %d: %d vs %d)",
				a, b, maxLen-1-i, aDim, bDim)
		}
	}

	return result, nil
}
