package onnx

import (
	"testing"

	"github.com/born-ml/opset/internal/ir"
	"github.com/born-ml/opset/internal/onnx/onnxtest"
	"github.com/born-ml/opset/internal/ops"
	"github.com/born-ml/opset/internal/tensor"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildAndInfer(t *testing.T, data []byte, opt BuildOptions) (*ir.Graph, error) {
	t.Helper()
	m, err := Parse(data)
	require.NoError(t, err)

	registry := ops.NewRegistry()
	g, buildErr := BuildGraph(m, registry, opt)
	if g == nil {
		return nil, buildErr
	}
	require.NoError(t, ir.NewDispatcher(registry).InferShapes(g))
	return g, buildErr
}

func TestBuildGraphGelu(t *testing.T) {
	opt := DefaultBuildOptions()
	opt.InputShapes = map[string]tensor.Shape{"x": {1, 128, 768}}

	g, err := buildAndInfer(t, onnxtest.GeluModel(""), opt)
	require.NoError(t, err)
	assert.Equal(t, "gelu-graph", g.Name())
	assert.Equal(t, 3, g.Len())

	gelu, err := g.Node("gelu")
	require.NoError(t, err)
	assert.Equal(t, "Gelu", gelu.Op())
	assert.Equal(t, []tensor.Shape{{1, 128, 768}}, gelu.OutputShapes())
	assert.Equal(t, []string{"approximation_mode"}, gelu.BackendAttributes())
	assert.Equal(t, ir.String(ops.GeluModeErf), ir.BackendData(gelu, "")["approximation_mode"])

	result, err := g.Node("y/sink_port_0")
	require.NoError(t, err)
	assert.Equal(t, ir.OpResult, result.Op())
	assert.Equal(t, []tensor.Shape{{1, 128, 768}}, result.InputShapes())
}

func TestBuildGraphDynamicBatch(t *testing.T) {
	g, err := buildAndInfer(t, onnxtest.GeluModel("tanh"), DefaultBuildOptions())
	require.NoError(t, err)

	gelu, err := g.Node("gelu")
	require.NoError(t, err)
	out := gelu.OutputShapes()
	require.Len(t, out, 1)
	assert.Equal(t, tensor.Shape{tensor.Dynamic, 128, 768}, out[0])
	assert.False(t, out[0].IsStatic())

	mode, ok := gelu.Attrs()["approximation_mode"].AsString()
	require.True(t, ok)
	assert.Equal(t, ops.GeluModeTanh, mode)
}

func TestBuildGraphLenientSkipsUnsupported(t *testing.T) {
	g, err := buildAndInfer(t, onnxtest.MixedModel(), DefaultBuildOptions())

	var skipped *SkippedNodeError
	require.ErrorAs(t, err, &skipped)
	assert.Equal(t, []string{"lrn", "after"}, skipped.Nodes)
	require.NotNil(t, g)

	mul, err := g.Node("mul")
	require.NoError(t, err)
	assert.Equal(t, "Multiply", mul.Op())
	assert.Equal(t, []tensor.Shape{{4, 3}}, mul.OutputShapes())

	w, err := g.Node("W")
	require.NoError(t, err)
	assert.Equal(t, ir.OpConst, w.Op())
	assert.Equal(t, []tensor.Shape{{4, 1}}, w.OutputShapes())

	tr, err := g.Node("t")
	require.NoError(t, err)
	assert.Equal(t, []int64{1, 0}, tr.Attrs().Ints("order"))
	assert.Equal(t, []tensor.Shape{{3, 4}}, tr.OutputShapes())

	_, err = g.Node("z/sink_port_0")
	require.NoError(t, err)
	_, err = g.Node("q/sink_port_0")
	require.ErrorIs(t, err, ir.ErrUnknownNode)
}

func TestBuildGraphUnnamedNode(t *testing.T) {
	g, _ := buildAndInfer(t, onnxtest.MixedModel(), DefaultBuildOptions())
	require.NotNil(t, g)

	var relus []*ir.Node
	for _, n := range g.Nodes() {
		if n.Op() == "Relu" {
			relus = append(relus, n)
		}
	}
	require.Len(t, relus, 1)
	assert.Contains(t, relus[0].Name(), "Relu_")
}

func TestBuildGraphStrictUnknownOperator(t *testing.T) {
	m, err := Parse(onnxtest.MixedModel())
	require.NoError(t, err)

	opt := DefaultBuildOptions()
	opt.Strict = true
	g, err := BuildGraph(m, ops.NewRegistry(), opt)
	require.Error(t, err)
	assert.Nil(t, g)
	assert.ErrorIs(t, err, ir.ErrUnknownOperator)

	var unknown *ir.UnknownOperatorError
	require.ErrorAs(t, err, &unknown)
	assert.Equal(t, "LRN", unknown.Name)
}

func TestBuildGraphMissingInputShape(t *testing.T) {
	g := onnxtest.Msg{}.
		Sub(1, onnxtest.Node("r", "Relu", []string{"x"}, []string{"y"})).
		Sub(11, onnxtest.Msg{}.Str(1, "x"))
	m, err := Parse(onnxtest.Model(g))
	require.NoError(t, err)

	_, err = BuildGraph(m, ops.NewRegistry(), DefaultBuildOptions())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "shape unknown")

	opt := DefaultBuildOptions()
	opt.InputShapes = map[string]tensor.Shape{"x": {2, 2}}
	built, err := BuildGraph(m, ops.NewRegistry(), opt)
	require.NoError(t, err)
	assert.Equal(t, 2, built.Len())
}

func TestBuildGraphCustomOpMap(t *testing.T) {
	g := onnxtest.Msg{}.
		Sub(1, onnxtest.Node("act", "Swish", []string{"x"}, []string{"y"})).
		Sub(11, onnxtest.ValueInfo("x", 2, 5)).
		Sub(12, onnxtest.ValueInfo("y"))

	opt := DefaultBuildOptions()
	opt.OpMap = map[string]string{"Swish": "Sigmoid"}
	built, err := buildAndInfer(t, onnxtest.Model(g), opt)
	require.NoError(t, err)

	act, err := built.Node("act")
	require.NoError(t, err)
	assert.Equal(t, "Sigmoid", act.Op())
	assert.Equal(t, []tensor.Shape{{2, 5}}, act.OutputShapes())
}

func TestBuildGraphSeluAttributesBecomeConsts(t *testing.T) {
	g := onnxtest.Msg{}.
		Sub(1, onnxtest.Node("selu", "Selu", []string{"x"}, []string{"y"}, onnxtest.FloatAttr("alpha", 2))).
		Sub(11, onnxtest.ValueInfo("x", 2, 5)).
		Sub(12, onnxtest.ValueInfo("y"))

	built, err := buildAndInfer(t, onnxtest.Model(g), DefaultBuildOptions())
	require.NoError(t, err)
	assert.Equal(t, 5, built.Len())

	selu, err := built.Node("selu")
	require.NoError(t, err)
	assert.Equal(t, []ir.PortRef{{Node: "x"}, {Node: "selu/alpha"}, {Node: "selu/gamma"}}, selu.Inputs())
	assert.Equal(t, []tensor.Shape{{2, 5}}, selu.OutputShapes())
	_, hasAlpha := selu.Attrs()["alpha"]
	assert.False(t, hasAlpha)

	alpha, err := built.Node("selu/alpha")
	require.NoError(t, err)
	assert.Equal(t, ir.OpConst, alpha.Op())
	assert.Equal(t, ir.Floats(2), alpha.Attrs()["value"])
	assert.Equal(t, []tensor.Shape{{}}, alpha.OutputShapes())

	gamma, err := built.Node("selu/gamma")
	require.NoError(t, err)
	assert.Equal(t, ir.Floats(DefaultConstInputs["Selu"][1].Default), gamma.Attrs()["value"])
}

func TestBuildGraphSoftmaxDefaultAxis(t *testing.T) {
	softmax := func(attrs ...onnxtest.Msg) onnxtest.Msg {
		return onnxtest.Msg{}.
			Sub(1, onnxtest.Node("sm", "Softmax", []string{"x"}, []string{"y"}, attrs...)).
			Sub(11, onnxtest.ValueInfo("x", 1, 128, 768)).
			Sub(12, onnxtest.ValueInfo("y"))
	}
	tests := []struct {
		name  string
		model []byte
		want  int64
	}{
		{"opset 20 without axis", onnxtest.Model(softmax()), -1},
		{"opset 11 without axis", onnxtest.ModelWithOpset(softmax(), 11), 1},
		{"explicit axis", onnxtest.Model(softmax(onnxtest.IntAttr("axis", 2))), 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			built, err := buildAndInfer(t, tt.model, DefaultBuildOptions())
			require.NoError(t, err)

			sm, err := built.Node("sm")
			require.NoError(t, err)
			assert.Equal(t, ir.Int(tt.want), ir.BackendData(sm, "")["axis"])
			assert.Equal(t, []tensor.Shape{{1, 128, 768}}, sm.OutputShapes())
		})
	}
}

func TestBuildGraphZeroSizedDimension(t *testing.T) {
	g := onnxtest.Msg{}.
		Sub(1, onnxtest.Node("r", "Relu", []string{"x"}, []string{"y"})).
		Sub(11, onnxtest.ValueInfo("x", -1, 0, 3)).
		Sub(12, onnxtest.ValueInfo("y"))

	built, err := buildAndInfer(t, onnxtest.Model(g), DefaultBuildOptions())
	require.NoError(t, err)

	r, err := built.Node("r")
	require.NoError(t, err)
	assert.Equal(t, []tensor.Shape{{tensor.Dynamic, 0, 3}}, r.OutputShapes())
}

func TestDimsToShape(t *testing.T) {
	shape := dimsToShape([]DimensionProto{
		{DimValue: 4, HasValue: true},
		{DimValue: 0, HasValue: true},
		{DimParam: "seq"},
		{},
	})
	assert.Equal(t, tensor.Shape{4, 0, tensor.Dynamic, tensor.Dynamic}, shape)
}

func TestBuildGraphNoGraph(t *testing.T) {
	_, err := BuildGraph(&ModelProto{}, ops.NewRegistry(), DefaultBuildOptions())
	require.ErrorIs(t, err, ErrNoGraph)

	_, err = BuildGraph(nil, ops.NewRegistry(), DefaultBuildOptions())
	require.ErrorIs(t, err, ErrNoGraph)
}

func TestTopologicalSortOrdersProducersFirst(t *testing.T) {
	nodes := []NodeProto{
		{Name: "c", Inputs: []string{"b_out"}, Outputs: []string{"c_out"}},
		{Name: "b", Inputs: []string{"a_out"}, Outputs: []string{"b_out"}},
		{Name: "a", Inputs: []string{"x"}, Outputs: []string{"a_out"}},
	}
	sorted := topologicalSort(nodes)

	names := make([]string, len(sorted))
	for i, n := range sorted {
		names[i] = n.Name
	}
	assert.Equal(t, []string{"a", "b", "c"}, names)
}
