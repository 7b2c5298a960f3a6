package ir

import (
	"testing"

	"github.com/born-ml/opset/internal/tensor"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewNodeMergesDefaults(t *testing.T) {
	r := newTestRegistry(t)

	node, err := NewNode(r, "g", "Gelu", Attributes{"approximation_mode": String("TANH")})
	require.NoError(t, err)

	attrs := node.Attrs()
	assert.Equal(t, "TANH", attrs.String("approximation_mode", ""))
	assert.Equal(t, int64(1), attrs.Int(PropInPortsCount, 0))
	assert.Equal(t, "opset7", node.Version())
	assert.Equal(t, []string{"approximation_mode"}, node.BackendAttributes())
}

func TestNewNodeRejectsReservedOverride(t *testing.T) {
	r := newTestRegistry(t)

	for _, prop := range []string{PropType, PropOp, PropInPortsCount, PropOutPortsCount} {
		_, err := NewNode(r, "g", "Gelu", Attributes{prop: Int(2)})
		assert.ErrorIs(t, err, ErrReservedAttribute, prop)
	}
}

func TestNewNodeVersionOverride(t *testing.T) {
	r := newTestRegistry(t)

	node, err := NewNode(r, "g", "Gelu", Attributes{PropVersion: String("opset1")})
	require.NoError(t, err)
	assert.Equal(t, "opset1", node.Version())
	assert.Empty(t, node.BackendAttributes())
	assert.Empty(t, BackendData(node, ""))

	_, err = NewNode(r, "g", "Gelu", Attributes{PropVersion: Int(7)})
	assert.ErrorIs(t, err, ErrAttributeType)
}

func TestNewNodeSchemaTypeCheck(t *testing.T) {
	r := newTestRegistry(t)

	_, err := NewNode(r, "g", "Gelu", Attributes{"approximation_mode": Int(1)})
	var typeErr *AttributeTypeError
	require.ErrorAs(t, err, &typeErr)
	assert.Equal(t, "approximation_mode", typeErr.Name)
	assert.Equal(t, AttrString, typeErr.Want)

	// Outside the opset7 schema the attribute is not checked.
	_, err = NewNode(r, "g", "Gelu", Attributes{"approximation_mode": Int(1), PropVersion: String("opset1")})
	require.NoError(t, err)
}

func TestBackendData(t *testing.T) {
	r := newTestRegistry(t)
	node, err := NewNode(r, "g", "Gelu", Attributes{"internal_flag": Int(1)})
	require.NoError(t, err)

	data := BackendData(node, "")
	assert.Equal(t, []string{"approximation_mode"}, data.Names())
	assert.Equal(t, "ERF", data.String("approximation_mode", ""))

	assert.Empty(t, BackendData(node, "opset1"))
}

func TestGraphAddNodeErrors(t *testing.T) {
	r := newTestRegistry(t)
	g := NewGraph("g", r)
	_, err := g.AddParameter("x", tensor.Shape{2, 3}, tensor.Float32)
	require.NoError(t, err)

	_, err = g.AddNode("x", "Gelu", []PortRef{{Node: "x"}}, nil)
	assert.ErrorIs(t, err, ErrDuplicateNode)

	_, err = g.AddNode("y", "Nope", nil, nil)
	assert.ErrorIs(t, err, ErrUnknownOperator)

	_, err = g.AddNode("y", "Gelu", []PortRef{{Node: "missing"}}, nil)
	assert.ErrorIs(t, err, ErrUnknownNode)

	_, err = g.AddNode("y", "Gelu", []PortRef{{Node: "x", Port: 1}}, nil)
	assert.Error(t, err)

	_, err = g.AddNode("y", "Gelu", []PortRef{{Node: "x"}, {Node: "x"}}, nil)
	assert.ErrorIs(t, err, ErrShapeMismatch)

	_, err = g.AddNode("", "Gelu", []PortRef{{Node: "x"}}, nil)
	assert.Error(t, err)

	_, err = g.AddParameter("bad", tensor.Shape{0}, tensor.Float32)
	assert.Error(t, err)

	assert.Equal(t, 1, g.Len())
}

func TestGraphTopologicalOrder(t *testing.T) {
	r := newTestRegistry(t)
	g := NewGraph("g", r)
	_, err := g.AddParameter("x", tensor.Shape{2}, tensor.Float32)
	require.NoError(t, err)
	_, err = g.AddNode("a", "Gelu", []PortRef{{Node: "x"}}, nil)
	require.NoError(t, err)
	_, err = g.AddNode("b", "Gelu", []PortRef{{Node: "a"}}, nil)
	require.NoError(t, err)

	// Rewire a to depend on b to build a cycle the public API cannot create.
	a, err := g.Node("a")
	require.NoError(t, err)
	a.inputs = []PortRef{{Node: "b"}}

	_, err = g.TopologicalOrder()
	assert.ErrorIs(t, err, ErrGraphCycle)
}
