// Package onnxtest builds ONNX protobuf payloads for tests.
package onnxtest

import (
	"math"

	"google.golang.org/protobuf/encoding/protowire"
)

// Enum values of the ONNX schema used by the builders.
const (
	tensorFloat = 1
	attrFloat   = 1
	attrInt     = 2
	attrString  = 3
	attrInts    = 7
)

// Msg is a protobuf message under construction.
type Msg []byte

// Str appends a length-delimited string field.
func (m Msg) Str(num protowire.Number, s string) Msg {
	b := protowire.AppendTag(m, num, protowire.BytesType)
	return protowire.AppendString(b, s)
}

// Varint appends a varint field.
func (m Msg) Varint(num protowire.Number, v int64) Msg {
	b := protowire.AppendTag(m, num, protowire.VarintType)
	return protowire.AppendVarint(b, uint64(v))
}

// Float appends a fixed32 float field.
func (m Msg) Float(num protowire.Number, v float32) Msg {
	b := protowire.AppendTag(m, num, protowire.Fixed32Type)
	return protowire.AppendFixed32(b, math.Float32bits(v))
}

// Sub appends an embedded message.
func (m Msg) Sub(num protowire.Number, sub Msg) Msg {
	b := protowire.AppendTag(m, num, protowire.BytesType)
	return protowire.AppendBytes(b, sub)
}

// Packed appends a packed repeated varint field.
func (m Msg) Packed(num protowire.Number, vals ...int64) Msg {
	var payload []byte
	for _, v := range vals {
		payload = protowire.AppendVarint(payload, uint64(v))
	}
	b := protowire.AppendTag(m, num, protowire.BytesType)
	return protowire.AppendBytes(b, payload)
}

// ValueInfo encodes a float tensor ValueInfoProto. A negative dim becomes a
// symbolic "batch" dimension.
func ValueInfo(name string, dims ...int64) Msg {
	var shape Msg
	for _, d := range dims {
		if d < 0 {
			shape = shape.Sub(1, Msg{}.Str(2, "batch"))
			continue
		}
		shape = shape.Sub(1, Msg{}.Varint(1, d))
	}
	tensorType := Msg{}.Varint(1, tensorFloat).Sub(2, shape)
	return Msg{}.Str(1, name).Sub(2, Msg{}.Sub(1, tensorType))
}

// Node encodes a NodeProto.
func Node(name, opType string, inputs, outputs []string, attrs ...Msg) Msg {
	n := Msg{}
	for _, in := range inputs {
		n = n.Str(1, in)
	}
	for _, out := range outputs {
		n = n.Str(2, out)
	}
	n = n.Str(3, name).Str(4, opType)
	for _, a := range attrs {
		n = n.Sub(5, a)
	}
	return n
}

// StringAttr encodes a string AttributeProto.
func StringAttr(name, value string) Msg {
	return Msg{}.Str(1, name).Str(4, value).Varint(20, attrString)
}

// IntAttr encodes an integer AttributeProto.
func IntAttr(name string, v int64) Msg {
	return Msg{}.Str(1, name).Varint(3, v).Varint(20, attrInt)
}

// IntsAttr encodes an integer list AttributeProto.
func IntsAttr(name string, vals ...int64) Msg {
	return Msg{}.Str(1, name).Packed(8, vals...).Varint(20, attrInts)
}

// FloatAttr encodes a float AttributeProto.
func FloatAttr(name string, v float32) Msg {
	return Msg{}.Str(1, name).Float(2, v).Varint(20, attrFloat)
}

// Model wraps graph in a ModelProto importing opset 20.
func Model(graph Msg) []byte {
	return ModelWithOpset(graph, 20)
}

// ModelWithOpset wraps graph in a ModelProto importing the given version of
// the default ONNX domain.
func ModelWithOpset(graph Msg, version int64) []byte {
	opset := Msg{}.Str(1, "").Varint(2, version)
	return Msg{}.
		Varint(1, 9).
		Str(2, "pytorch").
		Str(3, "2.3").
		Sub(7, graph).
		Sub(8, opset)
}

// GeluModel encodes y = Gelu(x) with x: [batch, 128, 768].
func GeluModel(approximate string) []byte {
	var attrs []Msg
	if approximate != "" {
		attrs = append(attrs, StringAttr("approximate", approximate))
	}
	g := Msg{}.
		Sub(1, Node("gelu", "Gelu", []string{"x"}, []string{"y"}, attrs...)).
		Str(2, "gelu-graph").
		Sub(11, ValueInfo("x", -1, 128, 768)).
		Sub(12, ValueInfo("y"))
	return Model(g)
}

// MixedModel encodes z = Transpose(Relu(x) * W) followed by an unsupported
// op and a node depending on it. Nodes are stored out of order.
func MixedModel() []byte {
	weight := Msg{}.Packed(1, 4, 1).Varint(2, tensorFloat).Str(8, "W")
	g := Msg{}.
		Sub(1, Node("t", "Transpose", []string{"m"}, []string{"z"}, IntsAttr("perm", 1, 0))).
		Sub(1, Node("", "Relu", []string{"x"}, []string{"r"})).
		Sub(1, Node("mul", "Mul", []string{"r", "W"}, []string{"m"})).
		Sub(1, Node("lrn", "LRN", []string{"z"}, []string{"n"}, FloatAttr("alpha", 0.0001))).
		Sub(1, Node("after", "Relu", []string{"n"}, []string{"q"})).
		Str(2, "mixed").
		Sub(5, weight).
		Sub(11, ValueInfo("x", 4, 3)).
		Sub(11, ValueInfo("W", 4, 1)).
		Sub(12, ValueInfo("z")).
		Sub(12, ValueInfo("q"))
	return Model(g)
}
