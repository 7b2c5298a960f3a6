// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package onnx_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/born-ml/opset/internal/onnx/onnxtest"
	"github.com/born-ml/opset/ir"
	"github.com/born-ml/opset/onnx"
	"github.com/born-ml/opset/tensor"
)

func writeModel(t *testing.T, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "model.onnx")
	if err := os.WriteFile(path, data, 0o600); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
	return path
}

// TestLoadGelu verifies Load builds and infers a complete graph.
func TestLoadGelu(t *testing.T) {
	opts := onnx.DefaultBuildOptions()
	opts.InputShapes = map[string]tensor.Shape{"x": {1, 128, 768}}

	g, err := onnx.Load(writeModel(t, onnxtest.GeluModel("")), ir.DefaultRegistry(), opts)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	gelu, err := g.Node("gelu")
	if err != nil {
		t.Fatalf("Node(gelu) error = %v", err)
	}
	out := gelu.OutputShapes()
	if len(out) != 1 || !out[0].Equal(tensor.Shape{1, 128, 768}) {
		t.Errorf("OutputShapes() = %v, want [[1 128 768]]", out)
	}
}

// TestLoadReportsSkippedNodes verifies lenient loads still infer what remains.
func TestLoadReportsSkippedNodes(t *testing.T) {
	g, err := onnx.Load(writeModel(t, onnxtest.MixedModel()), ir.DefaultRegistry(), onnx.DefaultBuildOptions())

	var skipped *onnx.SkippedNodeError
	if !errors.As(err, &skipped) {
		t.Fatalf("Load() error = %v, want *SkippedNodeError", err)
	}
	if len(skipped.Nodes) != 2 {
		t.Errorf("skipped = %v, want 2 nodes", skipped.Nodes)
	}
	if g == nil {
		t.Fatal("Load() graph = nil, want partial graph")
	}

	mul, err := g.Node("mul")
	if err != nil {
		t.Fatalf("Node(mul) error = %v", err)
	}
	if out := mul.OutputShapes(); len(out) != 1 || !out[0].Equal(tensor.Shape{4, 3}) {
		t.Errorf("mul OutputShapes() = %v, want [[4 3]]", out)
	}
}

// TestLoadStrict verifies strict loads fail on unknown operators.
func TestLoadStrict(t *testing.T) {
	opts := onnx.DefaultBuildOptions()
	opts.Strict = true

	_, err := onnx.Load(writeModel(t, onnxtest.MixedModel()), ir.DefaultRegistry(), opts)
	if !errors.Is(err, ir.ErrUnknownOperator) {
		t.Errorf("Load() error = %v, want ErrUnknownOperator", err)
	}
}

// TestParse verifies the model header is exposed.
func TestParse(t *testing.T) {
	m, err := onnx.Parse(onnxtest.GeluModel(""))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if m.ProducerName != "pytorch" {
		t.Errorf("ProducerName = %q, want pytorch", m.ProducerName)
	}
	if v := m.OpsetVersion(); v != 20 {
		t.Errorf("OpsetVersion() = %d, want 20", v)
	}

	if _, err := onnx.BuildGraph(&onnx.ModelProto{}, ir.DefaultRegistry(), onnx.DefaultBuildOptions()); !errors.Is(err, onnx.ErrNoGraph) {
		t.Errorf("BuildGraph(empty) error = %v, want ErrNoGraph", err)
	}
}
