package onnx

import (
	"errors"
	"fmt"
	"maps"

	"github.com/born-ml/opset/internal/ir"
	"github.com/born-ml/opset/internal/tensor"
	"k8s.io/klog/v2"
)

// ErrNoGraph is returned when a model carries no graph.
var ErrNoGraph = errors.New("model has no graph")

// DefaultOpMap renames ONNX operator types to IR operator names where they differ.
var DefaultOpMap = map[string]string{
	"Mul": "Multiply",
	"Sub": "Subtract",
	"Div": "Divide",
}

// AttrMapper rewrites the attributes of an ONNX node into IR attributes.
// opset is the version of the default ONNX domain imported by the model.
type AttrMapper func(attrs ir.Attributes, opset int64) ir.Attributes

// DefaultAttrMappers translate attribute names and values for IR operators.
var DefaultAttrMappers = map[string]AttrMapper{
	"Transpose": func(a ir.Attributes, _ int64) ir.Attributes {
		return renameAttr(a, "perm", "order")
	},
	"Gelu": func(a ir.Attributes, _ int64) ir.Attributes {
		out := a.Clone()
		if mode, ok := a["approximate"].AsString(); ok {
			delete(out, "approximate")
			if mode == "tanh" {
				out["approximation_mode"] = ir.String("TANH")
			} else {
				out["approximation_mode"] = ir.String("ERF")
			}
		}
		return out
	},
	"Softmax": func(a ir.Attributes, opset int64) ir.Attributes {
		out := a.Clone()
		// The default axis moved from 1 to the last dimension in opset 13.
		if _, ok := a["axis"]; !ok && opset >= 13 {
			out["axis"] = ir.Int(-1)
		}
		return out
	},
}

// ConstInput turns a node attribute into a scalar Const feeding the next
// input port of the IR operator.
type ConstInput struct {
	Attr    string
	Default float32
}

// DefaultConstInputs lists, per IR operator, the ONNX attributes it takes as
// inputs, in port order.
var DefaultConstInputs = map[string][]ConstInput{
	"Selu": {
		{Attr: "alpha", Default: 1.67326319217681884765625},
		{Attr: "gamma", Default: 1.05070102214813232421875},
	},
}

func renameAttr(a ir.Attributes, from, to string) ir.Attributes {
	out := a.Clone()
	if v, ok := out[from]; ok {
		delete(out, from)
		out[to] = v
	}
	return out
}

// BuildOptions configures graph construction.
type BuildOptions struct {
	// Strict fails on operators missing from the registry instead of skipping
	// them (and everything depending on them).
	Strict bool

	// InputShapes overrides the shapes declared for graph inputs.
	InputShapes map[string]tensor.Shape

	// OpMap, AttrMappers and ConstInputs are merged over their defaults.
	OpMap       map[string]string
	AttrMappers map[string]AttrMapper
	ConstInputs map[string][]ConstInput
}

// DefaultBuildOptions returns default build options.
func DefaultBuildOptions() BuildOptions {
	return BuildOptions{
		Strict:      false,
		InputShapes: nil,
	}
}

// SkippedNodeError lists nodes left out of a lenient build.
type SkippedNodeError struct {
	Nodes []string
}

// Error implements the error interface.
func (e *SkippedNodeError) Error() string {
	return fmt.Sprintf("skipped %d unsupported nodes: %v", len(e.Nodes), e.Nodes)
}

// builder carries the state of one BuildGraph call.
type builder struct {
	graph       *ir.Graph
	opt         BuildOptions
	opMap       map[string]string
	attrMappers map[string]AttrMapper
	constInputs map[string][]ConstInput
	opset       int64
	sources     map[string]ir.PortRef // tensor name -> producing port
	skipped     []string
}

// BuildGraph converts model into an IR graph resolving operators through
// registry. In lenient mode the graph is returned together with a
// *SkippedNodeError when nodes had to be dropped.
func BuildGraph(model *ModelProto, registry *ir.Registry, opt BuildOptions) (*ir.Graph, error) {
	if model == nil || model.Graph == nil {
		return nil, ErrNoGraph
	}
	gp := model.Graph

	b := &builder{
		graph:       ir.NewGraph(gp.Name, registry),
		opt:         opt,
		opMap:       maps.Clone(DefaultOpMap),
		attrMappers: maps.Clone(DefaultAttrMappers),
		constInputs: maps.Clone(DefaultConstInputs),
		opset:       model.OpsetVersion(),
		sources:     make(map[string]ir.PortRef),
	}
	maps.Copy(b.opMap, opt.OpMap)
	maps.Copy(b.attrMappers, opt.AttrMappers)
	maps.Copy(b.constInputs, opt.ConstInputs)

	if err := b.addInitializers(gp); err != nil {
		return nil, err
	}
	if err := b.addInputs(gp); err != nil {
		return nil, err
	}
	for _, node := range topologicalSort(gp.Nodes) {
		if err := b.addNode(node); err != nil {
			return nil, err
		}
	}
	if err := b.addOutputs(gp); err != nil {
		return nil, err
	}

	if len(b.skipped) > 0 {
		return b.graph, &SkippedNodeError{Nodes: b.skipped}
	}
	return b.graph, nil
}

func (b *builder) addInitializers(gp *GraphProto) error {
	for i := range gp.Initializers {
		init := &gp.Initializers[i]
		name := b.uniqueName(init.Name)
		_, err := b.graph.AddNode(name, ir.OpConst, nil, ir.Attributes{
			"shape":        ir.Ints(init.Dims...),
			"element_type": ir.String(protoTypeToDataType(init.DataType).String()),
		})
		if err != nil {
			return fmt.Errorf("initializer %s: %w", init.Name, err)
		}
		b.sources[init.Name] = ir.PortRef{Node: name}
	}
	return nil
}

func (b *builder) addInputs(gp *GraphProto) error {
	for i := range gp.Inputs {
		in := &gp.Inputs[i]
		if _, isWeight := b.sources[in.Name]; isWeight {
			continue
		}

		shape, ok := b.opt.InputShapes[in.Name]
		if !ok {
			if !in.HasShape {
				return fmt.Errorf("input %s: shape unknown, pass it explicitly", in.Name)
			}
			shape = dimsToShape(in.Shape)
		}

		name := b.uniqueName(in.Name)
		if _, err := b.graph.AddParameter(name, shape, protoTypeToDataType(in.ElemType)); err != nil {
			return fmt.Errorf("input %s: %w", in.Name, err)
		}
		b.sources[in.Name] = ir.PortRef{Node: name}
	}
	return nil
}

func (b *builder) addNode(node NodeProto) error {
	nodeName := node.Name
	if nodeName == "" {
		nodeName = fmt.Sprintf("%s_%d", node.OpType, b.graph.Len())
	}
	nodeName = b.uniqueName(nodeName)

	op := node.OpType
	if mapped, ok := b.opMap[op]; ok {
		op = mapped
	}

	if !b.graph.Registry().Has(op) {
		if b.opt.Strict {
			return fmt.Errorf("node %s: %w", nodeName, &ir.UnknownOperatorError{Name: op})
		}
		klog.V(2).InfoS("skipping unsupported operator", "node", nodeName, "op", node.OpType)
		b.skipped = append(b.skipped, nodeName)
		return nil
	}

	inputs := make([]ir.PortRef, 0, len(node.Inputs))
	for _, in := range node.Inputs {
		if in == "" {
			continue // Optional input not provided
		}
		ref, ok := b.sources[in]
		if !ok {
			if b.opt.Strict {
				return fmt.Errorf("node %s: input %s has no producer", nodeName, in)
			}
			klog.V(2).InfoS("skipping node fed by a skipped producer", "node", nodeName, "input", in)
			b.skipped = append(b.skipped, nodeName)
			return nil
		}
		inputs = append(inputs, ref)
	}

	attrs := attributesFromProto(node.Attributes)
	if mapper, ok := b.attrMappers[op]; ok {
		attrs = mapper(attrs, b.opset)
	}
	for _, ci := range b.constInputs[op] {
		ref, err := b.addConstInput(nodeName, ci, attrs)
		if err != nil {
			return err
		}
		inputs = append(inputs, ref)
		delete(attrs, ci.Attr)
	}

	if _, err := b.graph.AddNode(nodeName, op, inputs, attrs); err != nil {
		return fmt.Errorf("node %s (%s): %w", nodeName, node.OpType, err)
	}
	for port, out := range node.Outputs {
		if out != "" {
			b.sources[out] = ir.PortRef{Node: nodeName, Port: port}
		}
	}
	return nil
}

// addConstInput adds a scalar Const holding the value of attribute ci.Attr of
// node, or ci.Default when the node does not set it.
func (b *builder) addConstInput(node string, ci ConstInput, attrs ir.Attributes) (ir.PortRef, error) {
	name := b.uniqueName(node + "/" + ci.Attr)
	_, err := b.graph.AddNode(name, ir.OpConst, nil, ir.Attributes{
		"shape":        ir.Ints(),
		"element_type": ir.String(tensor.Float32.String()),
		"value":        ir.Floats(attrs.Float(ci.Attr, ci.Default)),
	})
	if err != nil {
		return ir.PortRef{}, fmt.Errorf("node %s: attribute %s: %w", node, ci.Attr, err)
	}
	return ir.PortRef{Node: name}, nil
}

func (b *builder) addOutputs(gp *GraphProto) error {
	for i := range gp.Outputs {
		out := &gp.Outputs[i]
		ref, ok := b.sources[out.Name]
		if !ok {
			if b.opt.Strict {
				return fmt.Errorf("output %s has no producer", out.Name)
			}
			continue
		}
		if _, err := b.graph.AddResult(b.uniqueName(out.Name+"/sink_port_0"), ref); err != nil {
			return fmt.Errorf("output %s: %w", out.Name, err)
		}
	}
	return nil
}

// uniqueName returns name, suffixed when a node with that name already exists.
func (b *builder) uniqueName(name string) string {
	candidate := name
	for i := 1; ; i++ {
		if _, err := b.graph.Node(candidate); err != nil {
			return candidate
		}
		candidate = fmt.Sprintf("%s_%d", name, i)
	}
}

// attributesFromProto converts ONNX attributes to IR attribute values.
// Tensor and graph attributes have no IR counterpart and are dropped.
func attributesFromProto(protos []AttributeProto) ir.Attributes {
	attrs := make(ir.Attributes, len(protos))
	for i := range protos {
		a := &protos[i]
		switch a.Type {
		case AttributeProtoFloat:
			attrs[a.Name] = ir.Float(a.F)
		case AttributeProtoInt:
			attrs[a.Name] = ir.Int(a.I)
		case AttributeProtoString:
			attrs[a.Name] = ir.String(string(a.S))
		case AttributeProtoFloats:
			attrs[a.Name] = ir.Floats(a.Floats...)
		case AttributeProtoInts:
			attrs[a.Name] = ir.Ints(a.Ints...)
		case AttributeProtoStrings:
			strs := make([]string, len(a.Strings))
			for j, s := range a.Strings {
				strs[j] = string(s)
			}
			attrs[a.Name] = ir.Strings(strs...)
		}
	}
	return attrs
}

// dimsToShape converts ONNX dimensions; symbolic or unset dims become dynamic.
func dimsToShape(dims []DimensionProto) tensor.Shape {
	shape := make(tensor.Shape, len(dims))
	for i, d := range dims {
		if d.DimParam != "" || !d.HasValue || d.DimValue < 0 {
			shape[i] = tensor.Dynamic
			continue
		}
		shape[i] = int(d.DimValue)
	}
	return shape
}

// protoTypeToDataType converts ONNX data type to tensor.DataType.
func protoTypeToDataType(onnxType int32) tensor.DataType {
	switch onnxType {
	case TensorProtoFloat:
		return tensor.Float32
	case TensorProtoFloat16:
		return tensor.Float16
	case TensorProtoDouble:
		return tensor.Float64
	case TensorProtoInt8:
		return tensor.Int8
	case TensorProtoInt32:
		return tensor.Int32
	case TensorProtoInt64:
		return tensor.Int64
	case TensorProtoUint8:
		return tensor.Uint8
	case TensorProtoBool:
		return tensor.Bool
	default:
		return tensor.Float32 // Default fallback
	}
}

// topologicalSort sorts nodes in execution order.
// Ensures dependencies are visited before dependents.
func topologicalSort(nodes []NodeProto) []NodeProto {
	// Build output-to-node map
	outputToNode := make(map[string]int)
	for i := range nodes {
		for _, output := range nodes[i].Outputs {
			outputToNode[output] = i
		}
	}

	visited := make([]bool, len(nodes))
	result := make([]NodeProto, 0, len(nodes))

	var visit func(i int)
	visit = func(i int) {
		if visited[i] {
			return
		}
		visited[i] = true

		for _, input := range nodes[i].Inputs {
			if depIdx, ok := outputToNode[input]; ok {
				visit(depIdx)
			}
		}

		result = append(result, nodes[i])
	}

	for i := range nodes {
		visit(i)
	}

	return result
}
