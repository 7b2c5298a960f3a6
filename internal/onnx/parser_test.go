package onnx

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/born-ml/opset/internal/onnx/onnxtest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseGeluModel(t *testing.T) {
	m, err := Parse(onnxtest.GeluModel("tanh"))
	require.NoError(t, err)

	assert.Equal(t, int64(9), m.IRVersion)
	assert.Equal(t, "pytorch", m.ProducerName)
	assert.Equal(t, "2.3", m.ProducerVersion)
	assert.Equal(t, int64(20), m.OpsetVersion())

	require.NotNil(t, m.Graph)
	assert.Equal(t, "gelu-graph", m.Graph.Name)
	require.Len(t, m.Graph.Nodes, 1)

	n := m.Graph.Nodes[0]
	assert.Equal(t, "Gelu", n.OpType)
	assert.Equal(t, []string{"x"}, n.Inputs)
	assert.Equal(t, []string{"y"}, n.Outputs)
	require.Len(t, n.Attributes, 1)
	assert.Equal(t, "approximate", n.Attributes[0].Name)
	assert.Equal(t, int32(AttributeProtoString), n.Attributes[0].Type)
	assert.Equal(t, "tanh", string(n.Attributes[0].S))

	require.Len(t, m.Graph.Inputs, 1)
	in := m.Graph.Inputs[0]
	assert.Equal(t, int32(TensorProtoFloat), in.ElemType)
	require.True(t, in.HasShape)
	require.Len(t, in.Shape, 3)
	assert.Equal(t, "batch", in.Shape[0].DimParam)
	assert.Equal(t, int64(768), in.Shape[2].DimValue)
}

func TestParseInitializerAndAttributes(t *testing.T) {
	m, err := Parse(onnxtest.MixedModel())
	require.NoError(t, err)

	require.Len(t, m.Graph.Initializers, 1)
	w := m.Graph.Initializers[0]
	assert.Equal(t, "W", w.Name)
	assert.Equal(t, int32(TensorProtoFloat), w.DataType)
	assert.Equal(t, []int64{4, 1}, w.Dims)

	transpose := m.Graph.Nodes[0]
	require.Len(t, transpose.Attributes, 1)
	assert.Equal(t, []int64{1, 0}, transpose.Attributes[0].Ints)

	lrn := m.Graph.Nodes[3]
	require.Len(t, lrn.Attributes, 1)
	assert.InDelta(t, 0.0001, lrn.Attributes[0].F, 1e-9)
}

func TestParseUnpackedInts(t *testing.T) {
	attr := onnxtest.Msg{}.Str(1, "axes").Varint(8, 0).Varint(8, -1).Varint(20, AttributeProtoInts)
	g := onnxtest.Msg{}.Sub(1, onnxtest.Node("u", "Unsqueeze", []string{"x"}, []string{"y"}, attr))

	m, err := Parse(onnxtest.Model(g))
	require.NoError(t, err)
	assert.Equal(t, []int64{0, -1}, m.Graph.Nodes[0].Attributes[0].Ints)
}

func TestParseSkipsUnknownFields(t *testing.T) {
	data := onnxtest.Msg{}.Varint(99, 7).Str(100, "ignored")
	data = append(data, onnxtest.Model(onnxtest.Msg{}.Str(2, "g"))...)

	m, err := Parse(data)
	require.NoError(t, err)
	assert.Equal(t, "g", m.Graph.Name)
}

func TestParseTruncated(t *testing.T) {
	data := onnxtest.GeluModel("")
	_, err := Parse(data[:len(data)-3])
	require.Error(t, err)
}

func TestParseFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "gelu.onnx")
	require.NoError(t, os.WriteFile(path, onnxtest.GeluModel(""), 0o600))

	m, err := ParseFile(path)
	require.NoError(t, err)
	assert.Equal(t, "gelu-graph", m.Graph.Name)

	_, err = ParseFile(filepath.Join(t.TempDir(), "missing.onnx"))
	require.Error(t, err)
}
