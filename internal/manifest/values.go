package manifest

import (
	"fmt"

	"github.com/born-ml/opset/internal/ir"
)

// attrValue converts a decoded YAML value. With an undefined kind the kind
// follows the YAML type; empty lists become integer lists.
func attrValue(v any, kind ir.AttrKind) (ir.AttrValue, error) {
	if kind == ir.AttrUndefined {
		kind = kindOf(v)
	}
	switch kind {
	case ir.AttrInt:
		if i, ok := v.(int); ok {
			return ir.Int(int64(i)), nil
		}
	case ir.AttrFloat:
		if f, ok := toFloat(v); ok {
			return ir.Float(f), nil
		}
	case ir.AttrString:
		if s, ok := v.(string); ok {
			return ir.String(s), nil
		}
	case ir.AttrInts:
		if list, ok := v.([]any); ok {
			ints := make([]int64, len(list))
			for i, item := range list {
				n, ok := item.(int)
				if !ok {
					return ir.AttrValue{}, fmt.Errorf("item %d: %v is not an int", i, item)
				}
				ints[i] = int64(n)
			}
			return ir.Ints(ints...), nil
		}
	case ir.AttrFloats:
		if list, ok := v.([]any); ok {
			floats := make([]float32, len(list))
			for i, item := range list {
				f, ok := toFloat(item)
				if !ok {
					return ir.AttrValue{}, fmt.Errorf("item %d: %v is not a number", i, item)
				}
				floats[i] = f
			}
			return ir.Floats(floats...), nil
		}
	case ir.AttrStrings:
		if list, ok := v.([]any); ok {
			strs := make([]string, len(list))
			for i, item := range list {
				s, ok := item.(string)
				if !ok {
					return ir.AttrValue{}, fmt.Errorf("item %d: %v is not a string", i, item)
				}
				strs[i] = s
			}
			return ir.Strings(strs...), nil
		}
	}
	return ir.AttrValue{}, fmt.Errorf("value %v (%T) cannot be used as %s", v, v, kind)
}

func kindOf(v any) ir.AttrKind {
	switch val := v.(type) {
	case int:
		return ir.AttrInt
	case float64:
		return ir.AttrFloat
	case string:
		return ir.AttrString
	case []any:
		if len(val) == 0 {
			return ir.AttrInts
		}
		switch kindOf(val[0]) {
		case ir.AttrInt:
			return ir.AttrInts
		case ir.AttrFloat:
			return ir.AttrFloats
		case ir.AttrString:
			return ir.AttrStrings
		}
		return ir.AttrUndefined
	default:
		return ir.AttrUndefined
	}
}

func toFloat(v any) (float32, bool) {
	switch n := v.(type) {
	case float64:
		return float32(n), true
	case int:
		return float32(n), true
	default:
		return 0, false
	}
}
