package onnx

import (
	"fmt"
	"math"
	"os"

	"google.golang.org/protobuf/encoding/protowire"
)

// ParseFile parses an ONNX model from file.
//
//nolint:gosec // G304: Path is provided by user, file inclusion is intentional for ONNX model loading
func ParseFile(path string) (*ModelProto, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}
	return Parse(data)
}

// Parse parses an ONNX model from bytes.
func Parse(data []byte) (*ModelProto, error) {
	model := &ModelProto{}
	if err := readModelProto(data, model); err != nil {
		return nil, fmt.Errorf("failed to parse model: %w", err)
	}
	return model, nil
}

// field is one decoded protobuf field. Only the member matching typ is set.
type field struct {
	num     protowire.Number
	typ     protowire.Type
	varint  uint64
	fixed32 uint32
	bytes   []byte
}

func (f field) str() string { return string(f.bytes) }

func (f field) asInt64() int64 { return int64(f.varint) } //nolint:gosec // two's complement is the wire encoding

func (f field) asInt32() int32 { return int32(f.varint) } //nolint:gosec // two's complement is the wire encoding

// forEachField decodes data field by field. Unknown wire types are skipped.
func forEachField(data []byte, visit func(f field) error) error {
	for len(data) > 0 {
		num, typ, n := protowire.ConsumeTag(data)
		if n < 0 {
			return fmt.Errorf("reading tag: %w", protowire.ParseError(n))
		}
		data = data[n:]

		f := field{num: num, typ: typ}
		switch typ {
		case protowire.VarintType:
			f.varint, n = protowire.ConsumeVarint(data)
		case protowire.Fixed32Type:
			f.fixed32, n = protowire.ConsumeFixed32(data)
		case protowire.BytesType:
			f.bytes, n = protowire.ConsumeBytes(data)
		default:
			n = protowire.ConsumeFieldValue(num, typ, data)
		}
		if n < 0 {
			return fmt.Errorf("field %d: %w", num, protowire.ParseError(n))
		}
		data = data[n:]

		if err := visit(f); err != nil {
			return err
		}
	}
	return nil
}

// appendInt64s decodes a repeated int64 field in packed or unpacked form.
func appendInt64s(dst []int64, f field) ([]int64, error) {
	if f.typ == protowire.VarintType {
		return append(dst, f.asInt64()), nil
	}
	data := f.bytes
	for len(data) > 0 {
		v, n := protowire.ConsumeVarint(data)
		if n < 0 {
			return nil, fmt.Errorf("packed field %d: %w", f.num, protowire.ParseError(n))
		}
		dst = append(dst, int64(v)) //nolint:gosec // two's complement is the wire encoding
		data = data[n:]
	}
	return dst, nil
}

// appendFloats decodes a repeated float field in packed or unpacked form.
func appendFloats(dst []float32, f field) ([]float32, error) {
	if f.typ == protowire.Fixed32Type {
		return append(dst, math.Float32frombits(f.fixed32)), nil
	}
	data := f.bytes
	for len(data) > 0 {
		v, n := protowire.ConsumeFixed32(data)
		if n < 0 {
			return nil, fmt.Errorf("packed field %d: %w", f.num, protowire.ParseError(n))
		}
		dst = append(dst, math.Float32frombits(v))
		data = data[n:]
	}
	return dst, nil
}

func readModelProto(data []byte, m *ModelProto) error {
	return forEachField(data, func(f field) error {
		switch f.num {
		case 1: // ir_version
			m.IRVersion = f.asInt64()
		case 2: // producer_name
			m.ProducerName = f.str()
		case 3: // producer_version
			m.ProducerVersion = f.str()
		case 4: // domain
			m.Domain = f.str()
		case 5: // model_version
			m.ModelVersion = f.asInt64()
		case 6: // doc_string
			m.DocString = f.str()
		case 7: // graph
			m.Graph = &GraphProto{}
			if err := readGraphProto(f.bytes, m.Graph); err != nil {
				return fmt.Errorf("graph: %w", err)
			}
		case 8: // opset_import
			var opset OperatorSetID
			if err := readOperatorSetID(f.bytes, &opset); err != nil {
				return fmt.Errorf("opset_import: %w", err)
			}
			m.OpsetImport = append(m.OpsetImport, opset)
		}
		return nil
	})
}

func readOperatorSetID(data []byte, o *OperatorSetID) error {
	return forEachField(data, func(f field) error {
		switch f.num {
		case 1: // domain
			o.Domain = f.str()
		case 2: // version
			o.Version = f.asInt64()
		}
		return nil
	})
}

func readGraphProto(data []byte, g *GraphProto) error {
	return forEachField(data, func(f field) error {
		switch f.num {
		case 1: // node
			var node NodeProto
			if err := readNodeProto(f.bytes, &node); err != nil {
				return fmt.Errorf("node %d: %w", len(g.Nodes), err)
			}
			g.Nodes = append(g.Nodes, node)
		case 2: // name
			g.Name = f.str()
		case 5: // initializer
			var t TensorProto
			if err := readTensorProto(f.bytes, &t); err != nil {
				return fmt.Errorf("initializer: %w", err)
			}
			g.Initializers = append(g.Initializers, t)
		case 10: // doc_string
			g.DocString = f.str()
		case 11, 12, 13: // input, output, value_info
			var vi ValueInfoProto
			if err := readValueInfoProto(f.bytes, &vi); err != nil {
				return fmt.Errorf("value info: %w", err)
			}
			switch f.num {
			case 11:
				g.Inputs = append(g.Inputs, vi)
			case 12:
				g.Outputs = append(g.Outputs, vi)
			default:
				g.ValueInfo = append(g.ValueInfo, vi)
			}
		}
		return nil
	})
}

func readNodeProto(data []byte, n *NodeProto) error {
	return forEachField(data, func(f field) error {
		switch f.num {
		case 1: // input
			n.Inputs = append(n.Inputs, f.str())
		case 2: // output
			n.Outputs = append(n.Outputs, f.str())
		case 3: // name
			n.Name = f.str()
		case 4: // op_type
			n.OpType = f.str()
		case 5: // attribute
			var attr AttributeProto
			if err := readAttributeProto(f.bytes, &attr); err != nil {
				return fmt.Errorf("attribute: %w", err)
			}
			n.Attributes = append(n.Attributes, attr)
		case 6: // doc_string
			n.DocString = f.str()
		case 7: // domain
			n.Domain = f.str()
		}
		return nil
	})
}

func readAttributeProto(data []byte, a *AttributeProto) error {
	return forEachField(data, func(f field) error {
		var err error
		switch f.num {
		case 1: // name
			a.Name = f.str()
		case 2: // f
			a.F = math.Float32frombits(f.fixed32)
		case 3: // i
			a.I = f.asInt64()
		case 4: // s
			a.S = append([]byte(nil), f.bytes...)
		case 7: // floats
			a.Floats, err = appendFloats(a.Floats, f)
		case 8: // ints
			a.Ints, err = appendInt64s(a.Ints, f)
		case 9: // strings
			a.Strings = append(a.Strings, append([]byte(nil), f.bytes...))
		case 20: // type
			a.Type = f.asInt32()
		}
		return err
	})
}

func readTensorProto(data []byte, t *TensorProto) error {
	return forEachField(data, func(f field) error {
		var err error
		switch f.num {
		case 1: // dims
			t.Dims, err = appendInt64s(t.Dims, f)
		case 2: // data_type
			t.DataType = f.asInt32()
		case 8: // name
			t.Name = f.str()
		}
		return err
	})
}

func readValueInfoProto(data []byte, vi *ValueInfoProto) error {
	return forEachField(data, func(f field) error {
		switch f.num {
		case 1: // name
			vi.Name = f.str()
		case 2: // type
			return readTypeProto(f.bytes, vi)
		case 3: // doc_string
			vi.DocString = f.str()
		}
		return nil
	})
}

// readTypeProto reads TypeProto.tensor_type into vi; other type kinds are ignored.
func readTypeProto(data []byte, vi *ValueInfoProto) error {
	return forEachField(data, func(f field) error {
		if f.num != 1 { // tensor_type
			return nil
		}
		return forEachField(f.bytes, func(tf field) error {
			switch tf.num {
			case 1: // elem_type
				vi.ElemType = tf.asInt32()
			case 2: // shape
				vi.HasShape = true
				vi.Shape = []DimensionProto{}
				return forEachField(tf.bytes, func(sf field) error {
					if sf.num != 1 { // dim
						return nil
					}
					var dim DimensionProto
					err := forEachField(sf.bytes, func(df field) error {
						switch df.num {
						case 1: // dim_value
							dim.DimValue = df.asInt64()
							dim.HasValue = true
						case 2: // dim_param
							dim.DimParam = df.str()
						}
						return nil
					})
					vi.Shape = append(vi.Shape, dim)
					return err
				})
			}
			return nil
		})
	})
}
