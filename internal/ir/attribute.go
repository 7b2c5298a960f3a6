package ir

import (
	"fmt"
	"slices"
	"sort"
	"strings"
)

// AttrKind identifies the variant held by an AttrValue.
type AttrKind int

// Attribute kinds.
const (
	AttrUndefined AttrKind = iota
	AttrInt
	AttrFloat
	AttrString
	AttrInts
	AttrFloats
	AttrStrings
)

// String returns the schema name of the kind.
func (k AttrKind) String() string {
	switch k {
	case AttrInt:
		return "int"
	case AttrFloat:
		return "float"
	case AttrString:
		return "string"
	case AttrInts:
		return "ints"
	case AttrFloats:
		return "floats"
	case AttrStrings:
		return "strings"
	default:
		return "undefined"
	}
}

// ParseAttrKind is the inverse of AttrKind.String.
func ParseAttrKind(name string) (AttrKind, error) {
	for k := AttrInt; k <= AttrStrings; k++ {
		if k.String() == name {
			return k, nil
		}
	}
	return AttrUndefined, fmt.Errorf("unknown attribute kind %q", name)
}

// AttrValue is an immutable attribute value. The zero value is undefined.
type AttrValue struct {
	kind    AttrKind
	i       int64
	f       float32
	s       string
	ints    []int64
	floats  []float32
	strings []string
}

// Int returns an integer attribute value.
func Int(v int64) AttrValue { return AttrValue{kind: AttrInt, i: v} }

// Float returns a float attribute value.
func Float(v float32) AttrValue { return AttrValue{kind: AttrFloat, f: v} }

// String returns a string attribute value.
func String(v string) AttrValue { return AttrValue{kind: AttrString, s: v} }

// Ints returns an integer list attribute value. The slice is copied.
func Ints(v ...int64) AttrValue { return AttrValue{kind: AttrInts, ints: slices.Clone(v)} }

// Floats returns a float list attribute value. The slice is copied.
func Floats(v ...float32) AttrValue { return AttrValue{kind: AttrFloats, floats: slices.Clone(v)} }

// Strings returns a string list attribute value. The slice is copied.
func Strings(v ...string) AttrValue { return AttrValue{kind: AttrStrings, strings: slices.Clone(v)} }

// Kind returns the variant held by the value.
func (v AttrValue) Kind() AttrKind { return v.kind }

// AsInt returns the integer value.
func (v AttrValue) AsInt() (int64, bool) { return v.i, v.kind == AttrInt }

// AsFloat returns the float value. Integers are widened.
func (v AttrValue) AsFloat() (float32, bool) {
	switch v.kind {
	case AttrFloat:
		return v.f, true
	case AttrInt:
		return float32(v.i), true
	default:
		return 0, false
	}
}

// AsString returns the string value.
func (v AttrValue) AsString() (string, bool) { return v.s, v.kind == AttrString }

// AsInts returns a copy of the integer list.
func (v AttrValue) AsInts() ([]int64, bool) {
	if v.kind != AttrInts {
		return nil, false
	}
	return slices.Clone(v.ints), true
}

// AsFloats returns a copy of the float list.
func (v AttrValue) AsFloats() ([]float32, bool) {
	if v.kind != AttrFloats {
		return nil, false
	}
	return slices.Clone(v.floats), true
}

// AsStrings returns a copy of the string list.
func (v AttrValue) AsStrings() ([]string, bool) {
	if v.kind != AttrStrings {
		return nil, false
	}
	return slices.Clone(v.strings), true
}

// Equal reports whether both values hold the same variant and contents.
func (v AttrValue) Equal(other AttrValue) bool {
	if v.kind != other.kind {
		return false
	}
	switch v.kind {
	case AttrInt:
		return v.i == other.i
	case AttrFloat:
		return v.f == other.f
	case AttrString:
		return v.s == other.s
	case AttrInts:
		return slices.Equal(v.ints, other.ints)
	case AttrFloats:
		return slices.Equal(v.floats, other.floats)
	case AttrStrings:
		return slices.Equal(v.strings, other.strings)
	default:
		return true
	}
}

// Interface returns the value as a plain Go value for encoders.
func (v AttrValue) Interface() any {
	switch v.kind {
	case AttrInt:
		return v.i
	case AttrFloat:
		return v.f
	case AttrString:
		return v.s
	case AttrInts:
		return slices.Clone(v.ints)
	case AttrFloats:
		return slices.Clone(v.floats)
	case AttrStrings:
		return slices.Clone(v.strings)
	default:
		return nil
	}
}

// String formats the value the way IR files spell attribute data.
// Lists are comma separated.
func (v AttrValue) String() string {
	switch v.kind {
	case AttrInt:
		return fmt.Sprint(v.i)
	case AttrFloat:
		return fmt.Sprint(v.f)
	case AttrString:
		return v.s
	case AttrInts:
		return joinValues(v.ints)
	case AttrFloats:
		return joinValues(v.floats)
	case AttrStrings:
		return strings.Join(v.strings, ",")
	default:
		return ""
	}
}

func joinValues[T int64 | float32](vals []T) string {
	parts := make([]string, len(vals))
	for i, x := range vals {
		parts[i] = fmt.Sprint(x)
	}
	return strings.Join(parts, ",")
}

// AttrSpec declares one attribute of an operator version schema.
type AttrSpec struct {
	Name string
	Kind AttrKind
}

// Attributes maps attribute names to values.
type Attributes map[string]AttrValue

// Clone returns a shallow copy. Values are immutable so this is a full copy.
func (a Attributes) Clone() Attributes {
	out := make(Attributes, len(a))
	for k, v := range a {
		out[k] = v
	}
	return out
}

// Merge returns a new map holding a with over applied on top.
func (a Attributes) Merge(over Attributes) Attributes {
	out := a.Clone()
	for k, v := range over {
		out[k] = v
	}
	return out
}

// Names returns the attribute names in sorted order.
func (a Attributes) Names() []string {
	names := make([]string, 0, len(a))
	for k := range a {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

// Equal reports whether both maps hold equal values under the same names.
func (a Attributes) Equal(other Attributes) bool {
	if len(a) != len(other) {
		return false
	}
	for k, v := range a {
		ov, ok := other[k]
		if !ok || !v.Equal(ov) {
			return false
		}
	}
	return true
}

// Int returns an integer attribute or default value.
func (a Attributes) Int(name string, defaultVal int64) int64 {
	if v, ok := a[name].AsInt(); ok {
		return v
	}
	return defaultVal
}

// Float returns a float attribute or default value.
func (a Attributes) Float(name string, defaultVal float32) float32 {
	if v, ok := a[name].AsFloat(); ok {
		return v
	}
	return defaultVal
}

// String returns a string attribute or default value.
func (a Attributes) String(name, defaultVal string) string {
	if v, ok := a[name].AsString(); ok {
		return v
	}
	return defaultVal
}

// Ints returns an integer list attribute, nil when absent.
func (a Attributes) Ints(name string) []int64 {
	v, _ := a[name].AsInts()
	return v
}
