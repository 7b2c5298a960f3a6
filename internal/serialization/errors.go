package serialization

import (
	"errors"
	"fmt"
)

// Common errors.
var (
	ErrNotInferred        = errors.New("node has no inferred shapes")
	ErrUnsupportedVersion = errors.New("unsupported format version")
	ErrInvalidDocument    = errors.New("invalid IR document")
)

// ValidationError provides detailed information about an invalid document.
type ValidationError struct {
	Type    string // Type of error (e.g., "duplicate_layer", "dangling_edge")
	Layer   string // Layer name involved, if any
	Details string // Additional details
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	if e.Layer != "" {
		return fmt.Sprintf("%s: layer %q: %s", e.Type, e.Layer, e.Details)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Details)
}

// Unwrap returns ErrInvalidDocument.
func (e *ValidationError) Unwrap() error { return ErrInvalidDocument }
