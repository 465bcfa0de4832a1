package generation

import "goqtbridge/internal/ir"

// symbols names every C function generated for one object.
type symbols struct {
	prefix string
}

func symbolsOf(object *ir.BridgedObject) symbols {
	return symbols{prefix: ir.SymbolPrefix(object.Name)}
}

func (s symbols) create() string { return s.prefix + "_create" }
func (s symbols) createWith() string { return s.prefix + "_create_with" }
func (s symbols) initialize() string { return s.prefix + "_initialize" }
func (s symbols) drop() string { return s.prefix + "_drop" }
func (s symbols) get(property string) string { return s.prefix + "_get_" + property }
func (s symbols) set(property string) string { return s.prefix + "_set_" + property }
func (s symbols) invoke(invokable string) string { return s.prefix + "_invoke_" + invokable }
func (s symbols) static(invokable string) string { return s.prefix + "_static_" + invokable }
func (s symbols) nativeSet(property string) string { return s.prefix + "_qt_set_" + property }
func (s symbols) emit(signal string) string { return s.prefix + "_qt_emit_" + signal }

// C spellings of the two handles crossing the boundary.
const (
	handleType = "uintptr_t"
	objectType = "void*"
)
