package serialization

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/born-ml/opset/internal/ir"
	"github.com/born-ml/opset/internal/ops"
	"github.com/born-ml/opset/internal/tensor"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// geluGraph builds x -> Gelu -> Result, inferred unless skipInfer is set.
func geluGraph(t *testing.T, skipInfer bool) (*ir.Graph, *ir.Registry) {
	t.Helper()
	registry := ops.NewRegistry()
	g := ir.NewGraph("gelu-graph", registry)

	_, err := g.AddParameter("x", tensor.Shape{1, 128, 768}, tensor.Float32)
	require.NoError(t, err)
	_, err = g.AddNode("gelu", "Gelu", []ir.PortRef{{Node: "x"}}, ir.Attributes{
		"approximation_mode": ir.String(ops.GeluModeTanh),
	})
	require.NoError(t, err)
	_, err = g.AddResult("y", ir.PortRef{Node: "gelu"})
	require.NoError(t, err)

	if !skipInfer {
		require.NoError(t, ir.NewDispatcher(registry).InferShapes(g))
	}
	return g, registry
}

func TestEncodeGeluGraph(t *testing.T) {
	g, _ := geluGraph(t, false)

	doc, err := Encode(g, DefaultWriteOptions())
	require.NoError(t, err)
	assert.Equal(t, "gelu-graph", doc.Name)
	assert.Equal(t, FormatVersion, doc.FormatVersion)
	require.Len(t, doc.Layers, 3)

	gelu := doc.Layers[1]
	assert.Equal(t, 1, gelu.ID)
	assert.Equal(t, "Gelu", gelu.Type)
	assert.Equal(t, ops.Opset7, gelu.Version)
	assert.Equal(t, Data{{Key: "approximation_mode", Value: "TANH"}}, gelu.Data)
	assert.Equal(t, []Port{{ID: 0, Shape: []int{1, 128, 768}}}, gelu.Inputs)
	assert.Equal(t, []Port{{ID: 1, Shape: []int{1, 128, 768}}}, gelu.Outputs)

	result := doc.Layers[2]
	assert.Empty(t, result.Data)
	assert.Empty(t, result.Outputs)

	assert.Equal(t, []Edge{
		{FromLayer: 0, FromPort: 0, ToLayer: 1, ToPort: 0},
		{FromLayer: 1, FromPort: 1, ToLayer: 2, ToPort: 0},
	}, doc.Edges)
}

func TestEncodeTargetVersion(t *testing.T) {
	g, _ := geluGraph(t, false)

	opts := DefaultWriteOptions()
	opts.TargetVersion = "opset1"
	doc, err := Encode(g, opts)
	require.NoError(t, err)

	gelu := doc.Layers[1]
	assert.Equal(t, "opset1", gelu.Version)
	assert.Empty(t, gelu.Data)

	opts.TargetVersion = "experimental"
	doc, err = Encode(g, opts)
	require.NoError(t, err)
	for _, l := range doc.Layers {
		assert.Empty(t, l.Data, l.Name)
	}
}

func TestEncodeRequiresShapes(t *testing.T) {
	g, _ := geluGraph(t, true)

	_, err := Encode(g, DefaultWriteOptions())
	require.ErrorIs(t, err, ErrNotInferred)

	opts := DefaultWriteOptions()
	opts.RequireShapes = false
	doc, err := Encode(g, opts)
	require.NoError(t, err)
	assert.Nil(t, doc.Layers[1].Outputs[0].Shape)
}

func TestWriteYAML(t *testing.T) {
	g, _ := geluGraph(t, false)

	var buf bytes.Buffer
	opts := DefaultWriteOptions()
	opts.Producer = "opset-test"
	require.NoError(t, Write(&buf, g, opts))

	out := buf.String()
	assert.True(t, strings.HasPrefix(out, "name: gelu-graph\n"), out)
	assert.Contains(t, out, "producer: opset-test")
	assert.Contains(t, out, "approximation_mode: TANH")
	assert.Contains(t, out, "shape: [1, 128, 768]")
	assert.Contains(t, out, "element_type: f32")
}

func TestWriteReadRoundTrip(t *testing.T) {
	g, registry := geluGraph(t, false)
	path := filepath.Join(t.TempDir(), "gelu.yaml")
	require.NoError(t, WriteFile(path, g, DefaultWriteOptions()))

	doc, err := ReadFile(path)
	require.NoError(t, err)
	require.NoError(t, CheckRegistry(doc, registry))

	want, err := Encode(g, DefaultWriteOptions())
	require.NoError(t, err)
	assert.Equal(t, want.Edges, doc.Edges)
	require.Len(t, doc.Layers, len(want.Layers))
	for i := range want.Layers {
		assert.Equal(t, want.Layers[i].Name, doc.Layers[i].Name)
		assert.Equal(t, want.Layers[i].Inputs, doc.Layers[i].Inputs)
		assert.Equal(t, want.Layers[i].Outputs, doc.Layers[i].Outputs)
	}

	mode, ok := doc.Layers[1].Data.Get("approximation_mode")
	require.True(t, ok)
	assert.Equal(t, "TANH", mode)
}

func TestReadRejectsInvalidDocuments(t *testing.T) {
	tests := []struct {
		name string
		doc  string
		kind string
	}{
		{
			name: "duplicate id",
			doc: `name: g
format_version: 1
layers:
  - {id: 0, name: a, type: Parameter, version: opset1}
  - {id: 0, name: b, type: Parameter, version: opset1}
edges: []
`,
			kind: "duplicate_layer",
		},
		{
			name: "dangling edge",
			doc: `name: g
format_version: 1
layers:
  - {id: 0, name: a, type: Parameter, version: opset1, output: [{id: 0, shape: [1]}]}
edges:
  - {from_layer: 0, from_port: 0, to_layer: 7, to_port: 0}
`,
			kind: "dangling_edge",
		},
		{
			name: "missing type",
			doc: `name: g
format_version: 1
layers:
  - {id: 0, name: a, version: opset1}
edges: []
`,
			kind: "missing_type",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Read(strings.NewReader(tt.doc))
			require.ErrorIs(t, err, ErrInvalidDocument)

			var verr *ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, tt.kind, verr.Type)
		})
	}
}

func TestReadUnsupportedVersion(t *testing.T) {
	_, err := Read(strings.NewReader("name: g\nformat_version: 9\nlayers: []\nedges: []\n"))
	require.ErrorIs(t, err, ErrUnsupportedVersion)
}

func TestCheckRegistryRejectsForeignAttributes(t *testing.T) {
	doc := &Document{
		Name:          "g",
		FormatVersion: FormatVersion,
		Layers: []Layer{{
			ID: 0, Name: "gelu", Type: "Gelu", Version: "opset1",
			Data:    Data{{Key: "approximation_mode", Value: "ERF"}},
			Inputs:  []Port{{ID: 0}},
			Outputs: []Port{{ID: 1}},
		}},
	}
	err := CheckRegistry(doc, ops.NewRegistry())
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "unexpected_attribute", verr.Type)

	doc.Layers[0].Version = ops.Opset7
	require.NoError(t, CheckRegistry(doc, ops.NewRegistry()))

	doc.Layers[0].Type = "Nope"
	require.ErrorIs(t, CheckRegistry(doc, ops.NewRegistry()), ir.ErrUnknownOperator)
}

func TestWriteFileBadPath(t *testing.T) {
	g, _ := geluGraph(t, false)
	err := WriteFile(filepath.Join(t.TempDir(), "missing", "out.yaml"), g, DefaultWriteOptions())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to create file")
}
