package generation

import (
	"fmt"
	"strings"

	"goqtbridge/internal/bridge"
)

// abiOfNative maps Qt spellings back to their C spelling. The native emitter
// derives its extern "C" declarations from it, independently of the Go
// emitter which starts from the type identities.
var abiOfNative = func() map[string]string {
	spellings := make(map[string]string)
	for _, identity := range bridge.Identities() {
		entry, err := bridge.Lookup(identity)
		if err != nil {
			panic(err)
		}
		spellings[entry.NativeType] = entry.AbiType
	}
	return spellings
}()

func abiSpelling(native string) string {
	if strings.HasSuffix(native, "*") {
		return objectType
	}
	abi, found := abiOfNative[native]
	if !found {
		panic(fmt.Sprintf("no C spelling for native type %s", native))
	}
	return abi
}

// nativeNames spells bridged types the way the generated class sees them.
type nativeNames struct {
	namespaces map[string]string
}

// class returns the fully qualified name of a bridged object.
func (n nativeNames) class(object string) string {
	if namespace := n.namespaces[object]; namespace != "" {
		return "::" + namespace + "::" + object
	}
	return "::" + object
}

func (n nativeNames) typeOf(entry bridge.TypeBridge) string {
	if entry.Kind == bridge.OwnedOpaque {
		return n.class(entry.Object) + "*"
	}
	return entry.NativeType
}

// param is the spelling of a parameter of this type.
func (n nativeNames) param(entry bridge.TypeBridge) string {
	if entry.ByValue {
		return n.typeOf(entry)
	}
	return "const " + n.typeOf(entry) + "&"
}

// getter is the result of a property read. Mirrored values are returned by
// reference to the mirror.
func (n nativeNames) getter(entry bridge.TypeBridge) string {
	if entry.Mirrored() {
		return n.param(entry)
	}
	return n.typeOf(entry)
}

// primitive reports arithmetic types, which convert implicitly.
func primitive(entry bridge.TypeBridge) bool {
	return entry.Kind == bridge.TrivialCopy && !strings.HasPrefix(entry.AbiType, "goqtbridge_")
}

// toAbi converts a native expression before it is handed to Go.
func toAbi(entry bridge.TypeBridge, expression string) string {
	switch entry.Kind {
	case bridge.TrivialCopy:
		if primitive(entry) {
			return expression
		}
		return fmt.Sprintf("::goqtbridge::bitCast<%s>(%s)", entry.AbiType, expression)
	case bridge.Constructed, bridge.Cloned:
		return fmt.Sprintf("::goqtbridge::toAbi(%s)", expression)
	case bridge.OwnedOpaque:
		return fmt.Sprintf("static_cast<void*>(%s)", expression)
	default:
		panic(fmt.Sprintf("unhandled marshaling kind %v", entry.Kind))
	}
}

// fromAbi converts a value received from Go, taking ownership of any
// allocation it carries.
func fromAbi(entry bridge.TypeBridge, native, expression string) string {
	switch entry.Kind {
	case bridge.TrivialCopy:
		if primitive(entry) {
			return expression
		}
		return fmt.Sprintf("::goqtbridge::bitCast<%s>(%s)", native, expression)
	case bridge.Constructed:
		if entry.AbiType == "goqtbridge_string" {
			return fmt.Sprintf("::goqtbridge::takeString(%s)", expression)
		}
		return fmt.Sprintf("::goqtbridge::fromAbi(%s)", expression)
	case bridge.Cloned:
		return fmt.Sprintf("::goqtbridge::takeVariant(%s)", expression)
	case bridge.OwnedOpaque:
		return fmt.Sprintf("static_cast<%s>(%s)", native, expression)
	default:
		panic(fmt.Sprintf("unhandled marshaling kind %v", entry.Kind))
	}
}

// lookup resolves a validated type identity.
func lookup(identity string) bridge.TypeBridge {
	entry, err := bridge.Lookup(identity)
	if err != nil {
		panic(fmt.Sprintf("emitting unvalidated type %q: %v", identity, err))
	}
	return entry
}

// sourceWriter accumulates C++ text line by line.
type sourceWriter struct {
	builder strings.Builder
}

func (w *sourceWriter) line(format string, args ...interface{}) {
	if len(args) == 0 {
		w.builder.WriteString(format)
	} else {
		fmt.Fprintf(&w.builder, format, args...)
	}
	w.builder.WriteByte('\n')
}

func (w *sourceWriter) blank() {
	w.builder.WriteByte('\n')
}

func (w *sourceWriter) bytes() []byte {
	return []byte(w.builder.String())
}
