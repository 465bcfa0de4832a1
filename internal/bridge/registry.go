// Package bridge is the closed table of value types that may cross between a
// generated Qt class and its Go state, together with how each one crosses.
package bridge

import (
	"errors"
	"fmt"
	"regexp"
	"sort"
	"strings"
)

// The import path generated shims use for the Go side value types.
const RuntimePackage = "goqtbridge/qtlib"

// Kind is the marshaling strategy of a TypeBridge.
type Kind int

const (
	// TrivialCopy values have the same bits on both sides and are passed by value.
	TrivialCopy Kind = iota
	// Constructed values cross as raw components and are rebuilt on the other side.
	Constructed
	// OwnedOpaque values are native object handles whose ownership moves with the value.
	OwnedOpaque
	// Cloned values are deep copied at every crossing.
	Cloned
)

func (k Kind) String() string {
	switch k {
	case TrivialCopy:
		return "trivial-copy"
	case Constructed:
		return "constructed"
	case OwnedOpaque:
		return "owned-opaque"
	case Cloned:
		return "cloned"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Direction is a set of crossing directions.
type Direction uint8

const (
	NativeToSafe Direction = 1 << iota
	SafeToNative

	Both = NativeToSafe | SafeToNative
)

func (d Direction) String() string {
	switch d {
	case NativeToSafe:
		return "native to Go"
	case SafeToNative:
		return "Go to native"
	case Both:
		return "both directions"
	default:
		return "no direction"
	}
}

// GoType names the Go side of a bridge. Path is empty for predeclared types.
type GoType struct {
	Path    string
	Name    string
	Pointer bool
}

func (t GoType) String() string {
	var builder strings.Builder
	if t.Pointer {
		builder.WriteString("*")
	}
	if t.Path != "" {
		builder.WriteString(t.Path[strings.LastIndex(t.Path, "/")+1:])
		builder.WriteString(".")
	}
	builder.WriteString(t.Name)
	return builder.String()
}

// TypeBridge describes one registered value type.
type TypeBridge struct {
	Identity   string
	NativeType string // Qt spelling, e.g. QString
	AbiType    string // C spelling used at the extern "C" boundary
	GoType     GoType
	Kind       Kind
	Directions Direction
	Include    string // native header providing NativeType
	ByValue    bool   // native parameters are passed by value instead of const reference
	Size       int    // native storage size in bytes (LP64)
	Align      int
	Object     string // referenced bridged object, owned-opaque only
	// Fields names the members of the ABI struct in component order, for
	// struct-shaped ABI types. Codecs and generated adapters follow it.
	Fields []string
	Codec  Codec
}

// Supports reports whether values of this type may cross in every direction of d.
func (b TypeBridge) Supports(d Direction) bool {
	return b.Directions&d == d
}

// Mirrored reports whether properties of this type keep a native copy of their value.
func (b TypeBridge) Mirrored() bool {
	switch b.Kind {
	case TrivialCopy, Constructed:
		return true
	case OwnedOpaque, Cloned:
		return false
	default:
		panic(fmt.Sprintf("unhandled marshaling kind %v", b.Kind))
	}
}

// ErrNotRegistered is returned by Lookup for identities outside the table.
var ErrNotRegistered = errors.New("type is not registered")

var ownedIdentity = regexp.MustCompile(`^\*([A-Z][A-Za-z0-9]*)$`)

var registry = buildRegistry()

// Lookup returns the bridge registered for identity. Identities of the form
// "*Name" denote ownership of another bridged object named Name.
func Lookup(identity string) (TypeBridge, error) {
	if entry, found := registry[identity]; found {
		return entry, nil
	}

	if match := ownedIdentity.FindStringSubmatch(identity); match != nil {
		return ownedBridge(match[1]), nil
	}

	return TypeBridge{}, fmt.Errorf("%q: %w", identity, ErrNotRegistered)
}

// Identities lists the fixed table entries in sorted order.
func Identities() []string {
	identities := make([]string, 0, len(registry))
	for identity := range registry {
		identities = append(identities, identity)
	}
	sort.Strings(identities)
	return identities
}

func ownedBridge(object string) TypeBridge {
	return TypeBridge{
		Identity:   "*" + object,
		NativeType: object + "*",
		AbiType:    "void*",
		GoType:     GoType{Path: RuntimePackage, Name: "Owned", Pointer: true},
		Kind:       OwnedOpaque,
		Directions: Both,
		ByValue:    true,
		Size:       8,
		Align:      8,
		Object:     object,
		Codec:      ownedCodec(),
	}
}

func numeric(identity, native, abi, include string, size int, sample func() interface{}) TypeBridge {
	return TypeBridge{
		Identity:   identity,
		NativeType: native,
		AbiType:    abi,
		GoType:     GoType{Name: identity},
		Kind:       TrivialCopy,
		Directions: Both,
		Include:    include,
		ByValue:    true,
		Size:       size,
		Align:      size,
		Codec:      trivialCodec(size, sample),
	}
}

func buildRegistry() map[string]TypeBridge {
	entries := []TypeBridge{
		numeric("bool", "bool", "bool", "", 1, func() interface{} { return new(bool) }),
		numeric("int8", "qint8", "int8_t", "QtCore/QtGlobal", 1, func() interface{} { return new(int8) }),
		numeric("int16", "qint16", "int16_t", "QtCore/QtGlobal", 2, func() interface{} { return new(int16) }),
		numeric("int32", "qint32", "int32_t", "QtCore/QtGlobal", 4, func() interface{} { return new(int32) }),
		numeric("int64", "qint64", "int64_t", "QtCore/QtGlobal", 8, func() interface{} { return new(int64) }),
		numeric("uint8", "quint8", "uint8_t", "QtCore/QtGlobal", 1, func() interface{} { return new(uint8) }),
		numeric("uint16", "quint16", "uint16_t", "QtCore/QtGlobal", 2, func() interface{} { return new(uint16) }),
		numeric("uint32", "quint32", "uint32_t", "QtCore/QtGlobal", 4, func() interface{} { return new(uint32) }),
		numeric("uint64", "quint64", "uint64_t", "QtCore/QtGlobal", 8, func() interface{} { return new(uint64) }),
		numeric("float32", "float", "float", "", 4, func() interface{} { return new(float32) }),
		numeric("float64", "double", "double", "", 8, func() interface{} { return new(float64) }),
		{
			Identity:   "PointF",
			NativeType: "QPointF",
			AbiType:    "goqtbridge_pointf",
			GoType:     GoType{Path: RuntimePackage, Name: "PointF"},
			Kind:       TrivialCopy,
			Directions: Both,
			Include:    "QtCore/QPointF",
			Size:       16,
			Align:      8,
			Fields:     []string{"x", "y"},
			Codec:      trivialCodec(16, newPointF),
		},
		{
			Identity:   "SizeF",
			NativeType: "QSizeF",
			AbiType:    "goqtbridge_sizef",
			GoType:     GoType{Path: RuntimePackage, Name: "SizeF"},
			Kind:       TrivialCopy,
			Directions: Both,
			Include:    "QtCore/QSizeF",
			Size:       16,
			Align:      8,
			Fields:     []string{"width", "height"},
			Codec:      trivialCodec(16, newSizeF),
		},
		{
			Identity:   "string",
			NativeType: "QString",
			AbiType:    "goqtbridge_string",
			GoType:     GoType{Name: "string"},
			Kind:       Constructed,
			Directions: Both,
			Include:    "QtCore/QString",
			Size:       24,
			Align:      8,
			Codec:      stringCodec(Both),
		},
		{
			Identity:   "StringView",
			NativeType: "QStringView",
			AbiType:    "goqtbridge_string",
			GoType:     GoType{Name: "string"},
			Kind:       Constructed,
			Directions: NativeToSafe,
			Include:    "QtCore/QStringView",
			Size:       16,
			Align:      8,
			Codec:      stringCodec(NativeToSafe),
		},
		{
			Identity:   "MarginsF",
			NativeType: "QMarginsF",
			AbiType:    "goqtbridge_marginsf",
			GoType:     GoType{Path: RuntimePackage, Name: "MarginsF"},
			Kind:       Constructed,
			Directions: Both,
			Include:    "QtCore/QMarginsF",
			Size:       32,
			Align:      8,
			Fields:     []string{"left", "top", "right", "bottom"},
			Codec:      marginsCodec(),
		},
		{
			Identity:   "Color",
			NativeType: "QColor",
			AbiType:    "goqtbridge_color",
			GoType:     GoType{Path: RuntimePackage, Name: "Color"},
			Kind:       Constructed,
			Directions: Both,
			Include:    "QtGui/QColor",
			Size:       16,
			Align:      4,
			Fields:     []string{"red", "green", "blue", "alpha"},
			Codec:      colorCodec(),
		},
		{
			Identity:   "Variant",
			NativeType: "QVariant",
			AbiType:    "goqtbridge_variant",
			GoType:     GoType{Path: RuntimePackage, Name: "Variant"},
			Kind:       Cloned,
			Directions: Both,
			Include:    "QtCore/QVariant",
			Size:       32,
			Align:      8,
			Codec:      variantCodec(),
		},
	}

	table := make(map[string]TypeBridge, len(entries))
	for _, entry := range entries {
		if _, duplicate := table[entry.Identity]; duplicate {
			panic(fmt.Sprintf("type %q registered twice", entry.Identity))
		}
		table[entry.Identity] = entry
	}
	return table
}
