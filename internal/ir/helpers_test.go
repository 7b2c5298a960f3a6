package ir

import (
	"testing"

	"github.com/born-ml/opset/internal/tensor"
	"github.com/stretchr/testify/require"
)

func newGelu(t *testing.T) *Descriptor {
	t.Helper()
	d, err := NewDescriptor("Gelu", 1, 1, "opset7", CopyShape,
		WithDefault("approximation_mode", String("ERF")),
		WithBackendAttrs("opset7", AttrSpec{Name: "approximation_mode", Kind: AttrString}),
	)
	require.NoError(t, err)
	return d
}

// newTestRegistry returns a registry with Gelu and the graph boundary operators.
func newTestRegistry(t *testing.T) *Registry {
	t.Helper()
	r := NewRegistry()
	require.NoError(t, r.Register(newGelu(t)))
	require.NoError(t, r.Register(MustDescriptor(OpParameter, 0, 1, "opset1", shapeFromAttr)))
	require.NoError(t, r.Register(MustDescriptor(OpResult, 1, 0, "opset1", noOutputs)))
	return r
}

func shapeFromAttr(attrs Attributes, _ []tensor.Shape) ([]tensor.Shape, error) {
	return []tensor.Shape{ShapeFromInts(attrs.Ints("shape"))}, nil
}

func noOutputs(_ Attributes, _ []tensor.Shape) ([]tensor.Shape, error) {
	return nil, nil
}
