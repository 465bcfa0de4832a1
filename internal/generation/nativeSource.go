package generation

import (
	"fmt"
	"strings"

	"goqtbridge/internal/bridge"
	"goqtbridge/internal/ir"
)

func (e *nativeEmitter) source() []byte {
	w := &sourceWriter{}
	name := e.object.Name
	s := e.symbols

	w.line(generatedNotice)
	w.line("#include \"%s.h\"", s.prefix)
	w.blank()
	if e.object.QML != nil {
		w.line("#include <QtQml/QQmlEngine>")
		w.blank()
	}

	w.line("extern \"C\" {")
	for _, function := range e.boundary.goExports {
		w.line(function.declaration())
	}
	w.line("}")
	w.blank()

	if asserts := e.layoutAsserts(); len(asserts) > 0 {
		for _, assert := range asserts {
			w.line(assert)
		}
		w.blank()
	}

	e.openNamespace(w)

	w.line("%s::%s(QObject* parent)", name, name)
	w.line("  : QObject(parent)")
	w.line("  , m_goObj(%s(this))", s.create())
	e.constructorBody(w)

	if e.object.Constructor != nil {
		arguments := e.object.Constructor.Arguments
		forwarded := "this"
		for _, argument := range arguments {
			forwarded += ", " + toAbi(lookup(argument.Type), argument.Name)
		}
		w.blank()
		w.line("%s::%s(%s, QObject* parent)", name, name, e.parameterList(arguments))
		w.line("  : QObject(parent)")
		w.line("  , m_goObj(%s(%s))", s.createWith(), forwarded)
		e.constructorBody(w)
	}

	w.blank()
	w.line("%s::~%s()", name, name)
	w.line("{")
	w.line("  %s(m_goObj);", s.drop())
	w.line("}")

	for _, property := range e.object.Properties {
		e.getter(w, property)
	}
	for _, property := range e.settable {
		e.setter(w, e.writes[property.Name])
	}
	for _, invokable := range e.object.Invokables {
		e.invokable(w, invokable)
	}

	w.blank()
	w.line("std::unique_ptr<%s>", name)
	w.line("new%s()", name)
	w.line("{")
	w.line("  return std::make_unique<%s>();", name)
	w.line("}")

	if qml := e.object.QML; qml != nil {
		w.blank()
		w.line("void")
		w.line("register%sType()", name)
		w.line("{")
		w.line("  qmlRegisterType<%s>(\"%s\", %d, %d, \"%s\");", name, qml.URI, qml.Major, qml.Minor, name)
		w.line("}")
	}

	if e.object.Namespace != "" {
		w.blank()
		e.closeNamespace(w)
	}

	e.nativeExports(w)
	return w.bytes()
}

// layoutAsserts checks at compile time that trivially copied values have the
// same size on both sides.
func (e *nativeEmitter) layoutAsserts() []string {
	asserts := make([]string, 0)
	for _, identity := range e.object.Types() {
		entry := lookup(identity)
		if entry.Kind != bridge.TrivialCopy || primitive(entry) {
			continue
		}
		asserts = append(asserts, fmt.Sprintf(
			"static_assert(sizeof(%s) == sizeof(%s), \"%s does not match %s\");",
			entry.NativeType, entry.AbiType, entry.NativeType, entry.AbiType))
	}
	return asserts
}

func (e *nativeEmitter) constructorBody(w *sourceWriter) {
	w.line("{")
	for _, mirror := range e.plan.Mirrors() {
		entry := lookup(e.propertyNamed(mirror.Property).Type)
		read := fmt.Sprintf("%s(m_goObj)", e.symbols.get(mirror.Property))
		w.line("  %s = %s;", mirror.Member, fromAbi(entry, e.names.typeOf(entry), read))
	}
	if e.object.RequiresInit {
		w.line("  %s(m_goObj);", e.symbols.initialize())
	}
	w.line("  %s = true;", e.plan.Flag().Member)
	w.line("}")
}

func (e *nativeEmitter) propertyNamed(name string) ir.Property {
	for _, property := range e.object.Properties {
		if property.Name == name {
			return property
		}
	}
	panic(fmt.Sprintf("%s has no property %s", e.object.Name, name))
}

// guard refuses calls arriving before the constructor finished.
func (e *nativeEmitter) guard(w *sourceWriter, member, fallback string) {
	if !e.guarded {
		return
	}
	w.line("  if (!%s) {", e.plan.Flag().Member)
	w.line("    qWarning(\"%s::%s called before initialization completed\");", e.object.Name, member)
	w.line("    %s;", fallback)
	w.line("  }")
}

func (e *nativeEmitter) getter(w *sourceWriter, property ir.Property) {
	entry := lookup(property.Type)
	w.blank()
	w.line("%s", e.names.getter(entry))
	w.line("%s::%s() const", e.object.Name, property.Read)
	w.line("{")
	if mirror, found := e.plan.Mirror(property.Name); found {
		w.line("  return %s;", mirror.Member)
	} else {
		e.guard(w, property.Read, "return {}")
		read := fmt.Sprintf("%s(m_goObj)", e.symbols.get(property.Name))
		w.line("  return %s;", fromAbi(entry, e.names.typeOf(entry), read))
	}
	w.line("}")
}

// setter defines the public setter of a writable property and the private
// write routine Go reaches when it cannot use that setter.
func (e *nativeEmitter) setter(w *sourceWriter, write writePath) {
	param := e.names.param(write.Entry)
	if write.Property.Writable() {
		w.blank()
		w.line("void")
		w.line("%s::%s(%s value)", e.object.Name, write.Property.Write, param)
		w.line("{")
		if e.private(write) {
			e.guard(w, write.Property.Write, "return")
			w.line("  %s(value);", write.writeMember())
		} else {
			write.render(w, e.symbols)
		}
		w.line("}")
	}
	if !e.private(write) {
		return
	}

	w.blank()
	w.line("void")
	w.line("%s::%s(%s value)", e.object.Name, write.writeMember(), param)
	w.line("{")
	write.render(w, e.symbols)
	w.line("}")
}

func (e *nativeEmitter) invokable(w *sourceWriter, invokable ir.Invokable) {
	arguments := make([]string, 0, len(invokable.Parameters)+1)
	function := e.symbols.static(invokable.Name)
	if !invokable.Static {
		arguments = append(arguments, "m_goObj")
		function = e.symbols.invoke(invokable.Name)
	}
	for _, parameter := range invokable.Parameters {
		arguments = append(arguments, toAbi(lookup(parameter.Type), parameter.Name))
	}
	call := fmt.Sprintf("%s(%s)", function, strings.Join(arguments, ", "))

	qualifier := ""
	if !invokable.Static && !invokable.Mutable {
		qualifier = " const"
	}

	w.blank()
	w.line("%s", e.returnType(invokable.Returns))
	w.line("%s::%s(%s)%s", e.object.Name, invokable.Name, e.parameterList(invokable.Parameters), qualifier)
	w.line("{")
	if invokable.Returns == "" {
		if !invokable.Static {
			e.guard(w, invokable.Name, "return")
		}
		w.line("  %s;", call)
	} else {
		if !invokable.Static {
			e.guard(w, invokable.Name, "return {}")
		}
		entry := lookup(invokable.Returns)
		w.line("  return %s;", fromAbi(entry, e.names.typeOf(entry), call))
	}
	w.line("}")
}

// nativeExports defines the functions Go calls to set properties and emit
// signals on the native object.
func (e *nativeEmitter) nativeExports(w *sourceWriter) {
	class := e.names.class(e.object.Name)
	for i, function := range e.boundary.nativeExports {
		w.blank()
		w.line("extern \"C\" %s", function.Result)
		w.line("%s", function.signature())
		w.line("{")
		if i < len(e.settable) {
			write := e.writes[e.settable[i].Name]
			setter := write.Property.Write
			if e.private(write) {
				setter = write.writeMember()
			}
			value := fromAbi(write.Entry, e.names.typeOf(write.Entry), "value")
			w.line("  static_cast<%s*>(obj)->%s(%s);", class, setter, value)
		} else {
			signal := e.object.Signals[i-len(e.settable)]
			arguments := make([]string, 0, len(signal.Parameters))
			for _, parameter := range signal.Parameters {
				entry := lookup(parameter.Type)
				arguments = append(arguments, fromAbi(entry, e.names.typeOf(entry), parameter.Name))
			}
			w.line("  Q_EMIT static_cast<%s*>(obj)->%s(%s);", class, signal.Name, strings.Join(arguments, ", "))
		}
		w.line("}")
	}
}
