package tensor

// DType is the compile-time constraint for tensor element types.
//
// The model core works in float32; int32 covers class indices and
// argmax results, uint8 covers raw image bytes, bool covers masks.
type DType interface {
	float32 | int32 | uint8 | bool
}

// DataType is the runtime tag for a tensor's element type.
type DataType int

// Supported data types.
const (
	Float32 DataType = iota
	Int32
	Uint8
	Bool
)

// Size returns the element size in bytes.
func (d DataType) Size() int {
	switch d {
	case Float32, Int32:
		return 4
	case Uint8, Bool:
		return 1
	default:
		panic("unknown data type")
	}
}

// String returns a human-readable type name.
func (d DataType) String() string {
	switch d {
	case Float32:
		return "float32"
	case Int32:
		return "int32"
	case Uint8:
		return "uint8"
	case Bool:
		return "bool"
	default:
		return "unknown"
	}
}

// inferDataType maps a Go value to its runtime DataType tag.
func inferDataType(v any) DataType {
	switch v.(type) {
	case float32:
		return Float32
	case int32:
		return Int32
	case uint8:
		return Uint8
	case bool:
		return Bool
	default:
		panic("unsupported element type")
	}
}
