package qtlib

import "fmt"

// VariantKind is the type tag of a Variant. The numeric values are shared
// with goqtbridge_variant.kind.
type VariantKind int32

const (
	VariantInvalid VariantKind = iota
	VariantBool
	VariantInt
	VariantDouble
	VariantString
)

func (k VariantKind) String() string {
	switch k {
	case VariantInvalid:
		return "invalid"
	case VariantBool:
		return "bool"
	case VariantInt:
		return "int"
	case VariantDouble:
		return "double"
	case VariantString:
		return "string"
	default:
		return fmt.Sprintf("VariantKind(%d)", int32(k))
	}
}

// Variant is the Go view of a QVariant restricted to the kinds the bridge can
// carry. Variants cross the boundary by deep copy.
type Variant struct {
	kind    VariantKind
	boolean bool
	integer int64
	real    float64
	text    string
}

func BoolVariant(value bool) Variant { return Variant{kind: VariantBool, boolean: value} }
func IntVariant(value int64) Variant { return Variant{kind: VariantInt, integer: value} }
func DoubleVariant(value float64) Variant { return Variant{kind: VariantDouble, real: value} }
func StringVariant(value string) Variant { return Variant{kind: VariantString, text: value} }
func (v Variant) Kind() VariantKind { return v.kind }
func (v Variant) IsValid() bool { return v.kind != VariantInvalid }

// Bool returns the boolean payload and whether the variant holds one.
func (v Variant) Bool() (bool, bool) { return v.boolean, v.kind == VariantBool }

// Int returns the integer payload and whether the variant holds one.
func (v Variant) Int() (int64, bool) { return v.integer, v.kind == VariantInt }

// Double returns the floating point payload and whether the variant holds one.
func (v Variant) Double() (float64, bool) { return v.real, v.kind == VariantDouble }

// Text returns the string payload and whether the variant holds one.
func (v Variant) Text() (string, bool) { return v.text, v.kind == VariantString }

// RawVariant is the field-by-field image of goqtbridge_variant. String data is
// kept as UTF-16 code units, exactly as QString stores it.
type RawVariant struct {
	Kind   int32
	Bool   bool
	Int    int64
	Double float64
	String []uint16
}

// Clone returns a deep copy, so the result shares no memory with r.
func (r RawVariant) Clone() RawVariant {
	clone := r
	if r.String != nil {
		clone.String = append([]uint16(nil), r.String...)
	}
	return clone
}

// VariantFromRaw deep-copies a raw variant received from native code.
// Unknown kinds produce an invalid variant.
func VariantFromRaw(raw RawVariant) Variant {
	switch VariantKind(raw.Kind) {
	case VariantBool:
		return BoolVariant(raw.Bool)
	case VariantInt:
		return IntVariant(raw.Int)
	case VariantDouble:
		return DoubleVariant(raw.Double)
	case VariantString:
		return StringVariant(StringFromUTF16(raw.String))
	default:
		return Variant{}
	}
}

// Raw returns the image handed to native code. The string payload is a fresh
// slice the caller may copy into native memory.
func (v Variant) Raw() RawVariant {
	raw := RawVariant{Kind: int32(v.kind)}
	switch v.kind {
	case VariantBool:
		raw.Bool = v.boolean
	case VariantInt:
		raw.Int = v.integer
	case VariantDouble:
		raw.Double = v.real
	case VariantString:
		raw.String = StringToUTF16(v.text)
	}
	return raw
}
