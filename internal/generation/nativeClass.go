package generation

import (
	"sort"
	"strings"

	"goqtbridge/internal/bridge"
	"goqtbridge/internal/ir"
	"goqtbridge/internal/layout"
)

const generatedNotice = "// Code generated by goqtbridge. DO NOT EDIT."

// nativeEmitter writes the header and source of the generated QObject subclass.
type nativeEmitter struct {
	object  *ir.BridgedObject
	plan    *layout.StoragePlan
	guarded bool
	names   nativeNames
	symbols symbols
	writes  map[string]writePath
	// settable properties in declaration order, the keys of writes
	settable []ir.Property

	boundary boundary
}

func newNativeEmitter(object *ir.BridgedObject, plan *layout.StoragePlan, options Options) *nativeEmitter {
	emitter := &nativeEmitter{
		object:  object,
		plan:    plan,
		guarded: options.GuardInitialization,
		names:   nativeNames{namespaces: map[string]string{object.Name: object.Namespace}},
		symbols: symbolsOf(object),
		writes:  make(map[string]writePath),
	}
	for class, namespace := range options.Namespaces {
		if class != object.Name {
			emitter.names.namespaces[class] = namespace
		}
	}
	for _, property := range object.Properties {
		if settable(property, plan) {
			emitter.writes[property.Name] = planWrite(object, property, plan)
			emitter.settable = append(emitter.settable, property)
		}
	}
	emitter.collectBoundary()
	return emitter
}

func (e *nativeEmitter) native(identity string) string {
	return e.names.typeOf(lookup(identity))
}

// abiParams spells parameters at the boundary, starting from their Qt type.
func (e *nativeEmitter) abiParams(parameters []ir.Parameter) []boundaryParam {
	params := make([]boundaryParam, 0, len(parameters))
	for _, parameter := range parameters {
		params = append(params, boundaryParam{Name: parameter.Name, Type: abiSpelling(e.native(parameter.Type))})
	}
	return params
}

func (e *nativeEmitter) abiResult(identity string) string {
	if identity == "" {
		return "void"
	}
	return abiSpelling(e.native(identity))
}

func (e *nativeEmitter) collectBoundary() {
	s := e.symbols
	handle := boundaryParam{Name: "handle", Type: handleType}
	obj := boundaryParam{Name: "obj", Type: objectType}

	exports := []boundaryFunction{{Name: s.create(), Result: handleType, Params: []boundaryParam{obj}}}
	if e.object.Constructor != nil {
		params := append([]boundaryParam{obj}, e.abiParams(e.object.Constructor.Arguments)...)
		exports = append(exports, boundaryFunction{Name: s.createWith(), Result: handleType, Params: params})
	}
	if e.object.RequiresInit {
		exports = append(exports, boundaryFunction{Name: s.initialize(), Result: "void", Params: []boundaryParam{handle}})
	}
	exports = append(exports, boundaryFunction{Name: s.drop(), Result: "void", Params: []boundaryParam{handle}})

	for _, property := range e.object.Properties {
		abi := abiSpelling(e.native(property.Type))
		exports = append(exports, boundaryFunction{Name: s.get(property.Name), Result: abi, Params: []boundaryParam{handle}})
		if property.Writable() {
			exports = append(exports, boundaryFunction{
				Name:   s.set(property.Name),
				Result: "void",
				Params: []boundaryParam{handle, {Name: "value", Type: abi}},
			})
		}
	}

	for _, invokable := range e.object.Invokables {
		if invokable.Static {
			exports = append(exports, boundaryFunction{
				Name:   s.static(invokable.Name),
				Result: e.abiResult(invokable.Returns),
				Params: e.abiParams(invokable.Parameters),
			})
			continue
		}
		exports = append(exports, boundaryFunction{
			Name:   s.invoke(invokable.Name),
			Result: e.abiResult(invokable.Returns),
			Params: append([]boundaryParam{handle}, e.abiParams(invokable.Parameters)...),
		})
	}

	natives := make([]boundaryFunction, 0)
	for _, property := range e.settable {
		natives = append(natives, boundaryFunction{
			Name:   s.nativeSet(property.Name),
			Result: "void",
			Params: []boundaryParam{obj, {Name: "value", Type: abiSpelling(e.native(property.Type))}},
		})
	}
	for _, signal := range e.object.Signals {
		natives = append(natives, boundaryFunction{
			Name:   s.emit(signal.Name),
			Result: "void",
			Params: append([]boundaryParam{obj}, e.abiParams(signal.Parameters)...),
		})
	}

	e.boundary = boundary{goExports: exports, nativeExports: natives}
}

// private reports writes Go performs through writeMember.
func (e *nativeEmitter) private(write writePath) bool {
	return e.guarded || !write.Property.Writable()
}

// privateSetters returns the native exports befriended by the class to reach
// a private write routine. The setters Go calls come first among the native
// exports, in the order of settable.
func (e *nativeEmitter) privateSetters() []boundaryFunction {
	setters := make([]boundaryFunction, 0)
	for i, property := range e.settable {
		if e.private(e.writes[property.Name]) {
			setters = append(setters, e.boundary.nativeExports[i])
		}
	}
	return setters
}

func (e *nativeEmitter) hasSetters() bool {
	for _, property := range e.object.Properties {
		if property.Writable() {
			return true
		}
	}
	return false
}

// includes returns the Qt headers the class needs, sorted.
func (e *nativeEmitter) includes() []string {
	set := map[string]bool{"QtCore/QObject": true}
	for _, identity := range e.object.Types() {
		if include := lookup(identity).Include; include != "" {
			set[include] = true
		}
	}
	includes := make([]string, 0, len(set))
	for include := range set {
		includes = append(includes, include)
	}
	sort.Strings(includes)
	return includes
}

// ownedClasses returns the bridged objects referenced through owned
// pointers, in order of first use.
func (e *nativeEmitter) ownedClasses() []string {
	classes := make([]string, 0)
	for _, identity := range e.object.Types() {
		entry := lookup(identity)
		if entry.Kind == bridge.OwnedOpaque && entry.Object != e.object.Name {
			classes = append(classes, entry.Object)
		}
	}
	return classes
}

func (e *nativeEmitter) openNamespace(w *sourceWriter) {
	if e.object.Namespace == "" {
		return
	}
	w.line("namespace %s {", e.object.Namespace)
	w.blank()
}

func (e *nativeEmitter) closeNamespace(w *sourceWriter) {
	if e.object.Namespace == "" {
		return
	}
	w.line("} // namespace %s", e.object.Namespace)
}

func (e *nativeEmitter) parameterList(parameters []ir.Parameter) string {
	list := make([]string, 0, len(parameters))
	for _, parameter := range parameters {
		list = append(list, e.names.param(lookup(parameter.Type))+" "+parameter.Name)
	}
	return strings.Join(list, ", ")
}

func (e *nativeEmitter) returnType(identity string) string {
	if identity == "" {
		return "void"
	}
	return e.native(identity)
}

func comment(w *sourceWriter, indent, doc string) {
	doc = strings.TrimSpace(doc)
	if doc == "" {
		return
	}
	for _, line := range strings.Split(doc, "\n") {
		w.line("%s// %s", indent, strings.TrimSpace(line))
	}
}

func (e *nativeEmitter) header() []byte {
	w := &sourceWriter{}
	name := e.object.Name

	w.line(generatedNotice)
	w.line("#pragma once")
	w.blank()
	for _, include := range e.includes() {
		w.line("#include <%s>", include)
	}
	w.blank()
	if e.guarded {
		w.line("#include <atomic>")
	}
	w.line("#include <cstdint>")
	w.line("#include <memory>")
	w.blank()
	w.line("#include \"%s\"", AbiHeader)
	w.blank()

	if owned := e.ownedClasses(); len(owned) > 0 {
		for _, class := range owned {
			if namespace := e.names.namespaces[class]; namespace != "" {
				w.line("namespace %s { class %s; }", namespace, class)
			} else {
				w.line("class %s;", class)
			}
		}
		w.blank()
	}

	privateSetters := e.privateSetters()
	if len(privateSetters) > 0 {
		w.line("extern \"C\" {")
		for _, function := range privateSetters {
			w.line(function.declaration())
		}
		w.line("}")
		w.blank()
	}

	e.openNamespace(w)

	comment(w, "", e.object.Doc)
	w.line("class %s : public QObject", name)
	w.line("{")
	w.line("  Q_OBJECT")
	for _, property := range e.object.Properties {
		declaration := "  Q_PROPERTY(" + e.native(property.Type) + " " + property.Name + " READ " + property.Read
		if property.Writable() {
			declaration += " WRITE " + property.Write
		}
		if property.NotifyName != "" {
			declaration += " NOTIFY " + property.NotifyName
		}
		w.line(declaration + ")")
	}
	w.blank()

	w.line("public:")
	w.line("  explicit %s(QObject* parent = nullptr);", name)
	if e.object.Constructor != nil {
		arguments := e.parameterList(e.object.Constructor.Arguments)
		w.line("  explicit %s(%s, QObject* parent = nullptr);", name, arguments)
	}
	w.line("  ~%s() override;", name)

	if len(e.object.Properties) > 0 {
		w.blank()
		for _, property := range e.object.Properties {
			comment(w, "  ", property.Doc)
			w.line("  %s %s() const;", e.names.getter(lookup(property.Type)), property.Read)
		}
	}

	if len(e.object.Invokables) > 0 {
		w.blank()
		for _, invokable := range e.object.Invokables {
			comment(w, "  ", invokable.Doc)
			switch {
			case invokable.Static:
				w.line("  static %s %s(%s);", e.returnType(invokable.Returns), invokable.Name, e.parameterList(invokable.Parameters))
			case invokable.Mutable:
				w.line("  Q_INVOKABLE %s %s(%s);", e.returnType(invokable.Returns), invokable.Name, e.parameterList(invokable.Parameters))
			default:
				w.line("  Q_INVOKABLE %s %s(%s) const;", e.returnType(invokable.Returns), invokable.Name, e.parameterList(invokable.Parameters))
			}
		}
	}

	if e.hasSetters() {
		w.blank()
		w.line("public Q_SLOTS:")
		for _, property := range e.object.Properties {
			if property.Writable() {
				w.line("  void %s(%s value);", property.Write, e.names.param(lookup(property.Type)))
			}
		}
	}

	if len(e.object.Signals) > 0 {
		w.blank()
		w.line("Q_SIGNALS:")
		for _, signal := range e.object.Signals {
			comment(w, "  ", signal.Doc)
			w.line("  void %s(%s);", signal.Name, e.parameterList(signal.Parameters))
		}
	}

	w.blank()
	w.line("private:")
	if len(privateSetters) > 0 {
		for _, function := range privateSetters {
			w.line("  friend %s ::%s;", function.Result, function.signature())
		}
		for _, property := range e.settable {
			if write := e.writes[property.Name]; e.private(write) {
				w.line("  void %s(%s value);", write.writeMember(), e.names.param(write.Entry))
			}
		}
		w.blank()
	}
	handle, flag := e.plan.Handle(), e.plan.Flag()
	w.line("  %s %s;", handle.NativeType, handle.Member)
	if e.guarded {
		w.line("  %s %s{ false };", flag.NativeType, flag.Member)
	} else {
		w.line("  %s %s = false;", flag.NativeType, flag.Member)
	}
	for _, mirror := range e.plan.Mirrors() {
		w.line("  %s %s{};", mirror.NativeType, mirror.Member)
	}
	w.line("};")
	w.blank()

	w.line("std::unique_ptr<%s>", name)
	w.line("new%s();", name)
	if e.object.QML != nil {
		w.blank()
		w.line("void")
		w.line("register%sType();", name)
	}

	if e.object.Namespace != "" {
		w.blank()
		e.closeNamespace(w)
	}
	return w.bytes()
}
