package tensor

import "fmt"

// DataType is the element type carried by a port.
type DataType int

// Supported element types.
const (
	Undefined DataType = iota
	Float32
	Float16
	Float64
	Int8
	Int32
	Int64
	Uint8
	Bool
)

var dataTypeNames = map[DataType]string{
	Undefined: "undefined",
	Float32:   "f32",
	Float16:   "f16",
	Float64:   "f64",
	Int8:      "i8",
	Int32:     "i32",
	Int64:     "i64",
	Uint8:     "u8",
	Bool:      "boolean",
}

// String returns the IR name of the data type (f32, i64, ...).
func (dt DataType) String() string {
	if name, ok := dataTypeNames[dt]; ok {
		return name
	}
	return "unknown"
}

// ParseDataType is the inverse of DataType.String.
func ParseDataType(name string) (DataType, error) {
	for dt, n := range dataTypeNames {
		if n == name {
			return dt, nil
		}
	}
	return Undefined, fmt.Errorf("unknown data type %q", name)
}
