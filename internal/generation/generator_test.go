package generation

import (
	"bytes"
	"errors"
	"go/parser"
	"go/token"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"goqtbridge/internal/bridge"
	"goqtbridge/internal/diagnostic"
	"goqtbridge/internal/ir"
	"goqtbridge/internal/metadata"
	"goqtbridge/internal/validation"
	"goqtbridge/qtlib"
)

func counter() metadata.Object {
	return metadata.Object{
		Name:       "Counter",
		Properties: []metadata.Property{{Name: "count", Type: "int32", Writable: true}},
		Invokables: []metadata.Invokable{{Name: "increment", Mutable: true}},
		Signals:    []metadata.Signal{{Name: "countChanged"}},
	}
}

func translate(t *testing.T, object metadata.Object, options Options) *Artifacts {
	t.Helper()
	if options.PackageName == "" {
		options.PackageName = "bridge"
	}
	artifacts, err := Translate(object, validation.KnownObjects{object.Name: true}, options)
	if err != nil {
		t.Fatalf("translate %s: %v", object.Name, err)
	}
	return artifacts
}

func mustExtract(t *testing.T, object metadata.Object) *ir.BridgedObject {
	t.Helper()
	bridged, err := ir.Extract(object)
	if err != nil {
		t.Fatalf("extract %s: %v", object.Name, err)
	}
	return bridged
}

func assertContains(t *testing.T, artifact string, content []byte, expected ...string) {
	t.Helper()
	for _, fragment := range expected {
		if !strings.Contains(string(content), fragment) {
			t.Errorf("%s does not contain %q:\n%s", artifact, fragment, content)
		}
	}
}

func assertValidGo(t *testing.T, shim []byte) {
	t.Helper()
	if _, err := parser.ParseFile(token.NewFileSet(), "shim.go", shim, parser.ParseComments); err != nil {
		t.Fatalf("shim is not valid Go: %v\n%s", err, shim)
	}
}

func TestCounter(t *testing.T) {
	artifacts := translate(t, counter(), Options{})

	if artifacts.Prefix != "counter" {
		t.Errorf("unexpected prefix %q", artifacts.Prefix)
	}

	assertContains(t, "header", artifacts.Header,
		"class Counter : public QObject",
		"Q_PROPERTY(qint32 count READ getCount WRITE setCount NOTIFY countChanged)",
		"  qint32 getCount() const;\n",
		"  Q_INVOKABLE void increment();\n",
		"public Q_SLOTS:\n  void setCount(qint32 value);\n",
		"Q_SIGNALS:\n  void countChanged();\n",
		"  std::uintptr_t m_goObj;\n",
		"  bool m_initialised = false;\n",
		"  qint32 m_count{};\n",
		"std::unique_ptr<Counter>\nnewCounter();\n",
	)

	assertContains(t, "source", artifacts.Source,
		"#include \"counter.h\"",
		"uintptr_t counter_create(void* obj);",
		"int32_t counter_get_count(uintptr_t handle);",
		"void counter_set_count(uintptr_t handle, int32_t value);",
		"void counter_invoke_increment(uintptr_t handle);",
		"  , m_goObj(counter_create(this))\n{\n  m_count = counter_get_count(m_goObj);\n  m_initialised = true;\n}\n",
		"Counter::~Counter()\n{\n  counter_drop(m_goObj);\n}\n",
		"qint32\nCounter::getCount() const\n{\n  return m_count;\n}\n",
		"void\nCounter::setCount(qint32 value)\n{\n  counter_set_count(m_goObj, value);\n  m_count = value;\n  Q_EMIT countChanged();\n}\n",
		"void\nCounter::increment()\n{\n  counter_invoke_increment(m_goObj);\n}\n",
		"extern \"C\" void\ncounter_qt_set_count(void* obj, int32_t value)\n{\n  static_cast<::Counter*>(obj)->setCount(value);\n}\n",
		"Q_EMIT static_cast<::Counter*>(obj)->countChanged();",
	)

	assertValidGo(t, artifacts.Shim)
	assertContains(t, "shim", artifacts.Shim,
		"// Code generated by goqtbridge. DO NOT EDIT.",
		"package bridge",
		"import \"C\"",
		"extern void counter_qt_set_count(void* obj, int32_t value);",
		"extern void counter_qt_emit_countChanged(void* obj);",
		"type CounterImpl interface {",
		"Count() int32",
		"SetCount(value int32)",
		"Increment(q *CounterQObject)",
		"func RegisterCounter(factory func() CounterImpl)",
		"//export counter_create\nfunc counter_create(obj unsafe.Pointer) C.uintptr_t {",
		"//export counter_get_count\nfunc counter_get_count(handle C.uintptr_t) C.int32_t {",
		"//export counter_set_count\nfunc counter_set_count(handle C.uintptr_t, value C.int32_t) {",
		"counterStateOf(handle).impl.SetCount(int32(value))",
		"state.impl.Increment(state.qobject)",
		"func (q *CounterQObject) SetCount(value int32) {",
		"C.counter_qt_set_count(q.ptr, C.int32_t(value))",
		"func (q *CounterQObject) EmitCountChanged() {",
		"cgo.Handle(handle).Delete()",
	)
}

func TestTranslationIsDeterministic(t *testing.T) {
	definition := metadata.Object{
		Name:      "Gallery",
		Namespace: "app::ui",
		Properties: []metadata.Property{
			{Name: "title", Type: "string", Writable: true},
			{Name: "margins", Type: "MarginsF", Writable: true},
			{Name: "payload", Type: "Variant", Writable: true},
			{Name: "accent", Type: "Color"},
		},
		Invokables: []metadata.Invokable{
			{Name: "describe", Parameters: []metadata.Parameter{{Name: "at", Type: "PointF"}}, Returns: "string"},
		},
		Signals: []metadata.Signal{
			{Name: "titleChanged"}, {Name: "marginsChanged"}, {Name: "payloadChanged"},
			{Name: "failed", Parameters: []metadata.Parameter{{Name: "reason", Type: "string"}}},
		},
	}

	first := translate(t, definition, Options{})
	for i := 0; i < 5; i++ {
		again := translate(t, definition, Options{})
		for j, file := range first.Files() {
			if !bytes.Equal(file.Content, again.Files()[j].Content) {
				t.Fatalf("%s differs between runs", file.Name)
			}
		}
	}
	assertValidGo(t, first.Shim)
}

func TestDeclarationOrderIsPreserved(t *testing.T) {
	definition := metadata.Object{
		Name: "Ordered",
		Properties: []metadata.Property{
			{Name: "zeta", Type: "int32"},
			{Name: "alpha", Type: "int32"},
			{Name: "mid", Type: "bool"},
		},
		Invokables: []metadata.Invokable{{Name: "second"}, {Name: "first"}},
	}
	artifacts := translate(t, definition, Options{})

	inOrder := func(artifact string, content []byte, fragments ...string) {
		t.Helper()
		last := -1
		for _, fragment := range fragments {
			index := strings.Index(string(content), fragment)
			if index < 0 || index < last {
				t.Errorf("%s: %q is missing or out of order", artifact, fragment)
			}
			last = index
		}
	}

	inOrder("header", artifacts.Header, "Q_PROPERTY(qint32 zeta", "Q_PROPERTY(qint32 alpha", "Q_PROPERTY(bool mid", "second()", "first()")
	inOrder("source", artifacts.Source, "m_zeta = ", "m_alpha = ", "m_mid = ")
	inOrder("shim", artifacts.Shim, "Zeta() int32", "Alpha() int32", "Mid() bool", "Second()", "First()")
}

func TestEverySetterNotifiesOnce(t *testing.T) {
	definition := metadata.Object{
		Name: "Settings",
		Properties: []metadata.Property{
			{Name: "count", Type: "int32", Writable: true},
			{Name: "name", Type: "string", Writable: true},
			{Name: "origin", Type: "PointF", Writable: true},
			{Name: "extra", Type: "Variant", Writable: true, Notify: "changed"},
			{Name: "child", Type: "*Settings", Writable: true, Notify: "changed"},
			{Name: "version", Type: "int32"},
		},
		Signals: []metadata.Signal{{Name: "countChanged"}, {Name: "nameChanged"}, {Name: "originChanged"}, {Name: "changed"}},
	}
	artifacts := translate(t, definition, Options{})
	emitter := newNativeEmitter(mustExtract(t, definition), artifacts.Layout, Options{})

	if len(emitter.writes) != 6 {
		t.Fatalf("expected 6 write paths, got %d", len(emitter.writes))
	}
	if steps := emitter.writes["version"].Steps; len(steps) != 1 || steps[0] != storeMirror {
		t.Errorf("read-only version: unexpected steps %v", steps)
	}

	for name, write := range emitter.writes {
		if !write.Property.Writable() {
			continue
		}
		var mirror string
		var forwarded, emitted []string
		for _, step := range write.Steps {
			switch step {
			case forwardToGo:
				forwarded = append(forwarded, "value")
			case storeMirror:
				if len(emitted) > 0 {
					t.Errorf("%s: mirror stored after notification", name)
				}
				mirror = "value"
			case notifyChange:
				if len(forwarded) == 0 {
					t.Errorf("%s: notified before Go saw the value", name)
				}
				emitted = append(emitted, write.Notify)
			}
		}

		if len(forwarded) != 1 {
			t.Errorf("%s: value forwarded %d times", name, len(forwarded))
		}
		if len(emitted) != 1 || emitted[0] != definition.Signals[emitter.object.Properties[indexOf(t, emitter, name)].Notify].Name {
			t.Errorf("%s: emitted %v", name, emitted)
		}
		_, mirrored := artifacts.Layout.Mirror(name)
		if mirrored != (mirror == "value") {
			t.Errorf("%s: mirrored %v but mirror written %v", name, mirrored, mirror == "value")
		}
		assertContains(t, "source", artifacts.Source, "  Q_EMIT "+write.Notify+"();\n}\n")
	}
}

func indexOf(t *testing.T, emitter *nativeEmitter, property string) int {
	t.Helper()
	for i, candidate := range emitter.object.Properties {
		if candidate.Name == property {
			return i
		}
	}
	t.Fatalf("no property %s", property)
	return -1
}

func TestReadOnlyMirrorsAreRefreshedFromGo(t *testing.T) {
	definition := metadata.Object{
		Name: "Meter",
		Properties: []metadata.Property{
			{Name: "level", Type: "int32", Notify: "levelChanged"},
			{Name: "label", Type: "string"},
			{Name: "payload", Type: "Variant"},
		},
		Signals: []metadata.Signal{{Name: "levelChanged"}},
	}
	artifacts := translate(t, definition, Options{})

	assertContains(t, "header", artifacts.Header,
		"Q_PROPERTY(qint32 level READ getLevel NOTIFY levelChanged)",
		"extern \"C\" {\nvoid meter_qt_set_level(void* obj, int32_t value);\nvoid meter_qt_set_label(void* obj, goqtbridge_string value);\n}",
		"  friend void ::meter_qt_set_level(void* obj, int32_t value);\n",
		"  void writeLevel(qint32 value);\n",
		"  void writeLabel(const QString& value);\n",
	)
	if strings.Contains(string(artifacts.Header), "Q_SLOTS") {
		t.Errorf("read-only properties got public setters")
	}

	assertContains(t, "source", artifacts.Source,
		"void\nMeter::writeLevel(qint32 value)\n{\n  m_level = value;\n  Q_EMIT levelChanged();\n}\n",
		"void\nMeter::writeLabel(const QString& value)\n{\n  m_label = value;\n}\n",
		"static_cast<::Meter*>(obj)->writeLevel(value);",
		"static_cast<::Meter*>(obj)->writeLabel(::goqtbridge::takeString(value));",
	)
	if strings.Contains(string(artifacts.Source), "meter_set_level") {
		t.Errorf("read-only level is forwarded to Go")
	}

	assertValidGo(t, artifacts.Shim)
	assertContains(t, "shim", artifacts.Shim,
		"extern void meter_qt_set_level(void* obj, int32_t value);",
		"func (q *MeterQObject) SetLevel(value int32) {",
		"C.meter_qt_set_level(q.ptr, C.int32_t(value))",
		"func (q *MeterQObject) SetLabel(value string) {",
		"func (q *MeterQObject) EmitLevelChanged() {",
	)
	for _, absent := range []string{"\tSetLevel(value int32)\n", "meter_qt_set_payload", "SetPayload"} {
		if strings.Contains(string(artifacts.Shim), absent) {
			t.Errorf("shim contains %q", absent)
		}
	}
}

func TestMissingNotificationSignalRejectsObject(t *testing.T) {
	definition := counter()
	definition.Signals = nil

	artifacts, err := Translate(definition, validation.KnownObjects{"Counter": true}, Options{PackageName: "bridge"})
	if artifacts != nil {
		t.Errorf("artifacts produced for a malformed definition")
	}

	var malformed *diagnostic.MalformedDefinition
	if !errors.As(err, &malformed) {
		t.Fatalf("expected a malformed definition, got %v", err)
	}
	if len(malformed.Violations) != 1 || malformed.Count(diagnostic.MissingNotification) != 1 {
		t.Errorf("expected exactly one missing notification, got %v", malformed.Violations)
	}
}

func TestBatchKeepsGoodObjects(t *testing.T) {
	directory := t.TempDir()
	generator := NewGenerator("bridge", directory, nil)
	generator.EmitLayout = true

	broken := metadata.Object{Name: "Broken", Properties: []metadata.Property{{Name: "when", Type: "time.Time"}}}
	generator.RegisterObject(counter())
	generator.RegisterObject(broken)
	generator.RegisterObject(metadata.Object{Name: "Other", Properties: []metadata.Property{{Name: "label", Type: "string"}}})

	results, err := generator.Generate()
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if len(results) != 3 {
		t.Fatalf("expected 3 results, got %d", len(results))
	}

	for _, result := range results {
		switch result.Object {
		case "Broken":
			if result.Err == nil || result.Artifacts != nil {
				t.Errorf("Broken was accepted")
			}
		default:
			if result.Err != nil {
				t.Errorf("%s rejected: %v", result.Object, result.Err)
			}
		}
	}

	for _, name := range []string{AbiHeader, "counter.h", "counter.cpp", "counter_bridge.go", "counter_layout.yaml", "other.h", "other.cpp", "other_bridge.go"} {
		if _, err := os.Stat(filepath.Join(directory, name)); err != nil {
			t.Errorf("%s was not written: %v", name, err)
		}
	}
	for _, name := range []string{"broken.h", "broken.cpp", "broken_bridge.go"} {
		if _, err := os.Stat(filepath.Join(directory, name)); !errors.Is(err, os.ErrNotExist) {
			t.Errorf("%s was written for a rejected object", name)
		}
	}
}

func TestObjectsCollidingByCase(t *testing.T) {
	generator := NewGenerator("bridge", t.TempDir(), nil)
	generator.RegisterObject(counter())
	second := counter()
	second.Name = "COUNTER"
	second.Pos = metadata.Position{Line: 12, Column: 3}
	generator.RegisterObject(second)

	results := generator.Translate()
	if results[0].Err != nil {
		t.Fatalf("first object rejected: %v", results[0].Err)
	}

	var malformed *diagnostic.MalformedDefinition
	if !errors.As(results[1].Err, &malformed) || malformed.Count(diagnostic.DuplicateName) != 1 {
		t.Fatalf("expected a duplicate name, got %v", results[1].Err)
	}
	if malformed.Violations[0].Line != 12 {
		t.Errorf("violation not located at the later object: %v", malformed.Violations[0])
	}
}

func TestGuardedInitialization(t *testing.T) {
	definition := counter()
	definition.RequiresInit = true
	definition.Properties = append(definition.Properties, metadata.Property{Name: "payload", Type: "Variant"})
	definition.Invokables = append(definition.Invokables, metadata.Invokable{Name: "total", Returns: "int64"})
	artifacts := translate(t, definition, Options{GuardInitialization: true})

	assertContains(t, "header", artifacts.Header,
		"#include <atomic>",
		"extern \"C\" {\nvoid counter_qt_set_count(void* obj, int32_t value);\n}",
		"  friend void ::counter_qt_set_count(void* obj, int32_t value);\n",
		"  void writeCount(qint32 value);\n",
		"  std::atomic_bool m_initialised{ false };\n",
	)
	assertContains(t, "source", artifacts.Source,
		"  counter_initialize(m_goObj);\n  m_initialised = true;\n",
		"  if (!m_initialised) {\n    qWarning(\"Counter::setCount called before initialization completed\");\n    return;\n  }\n  writeCount(value);\n",
		"void\nCounter::writeCount(qint32 value)\n{\n  counter_set_count(m_goObj, value);\n  m_count = value;\n  Q_EMIT countChanged();\n}\n",
		"    qWarning(\"Counter::getPayload called before initialization completed\");\n    return {};\n",
		"    qWarning(\"Counter::total called before initialization completed\");\n    return {};\n",
		"static_cast<::Counter*>(obj)->writeCount(value);",
	)
	assertContains(t, "shim", artifacts.Shim,
		"Initialize(q *CounterQObject)",
		"//export counter_initialize",
		"state.impl.Initialize(state.qobject)",
	)

	unguarded := translate(t, definition, Options{})
	if strings.Contains(string(unguarded.Source), "qWarning") || strings.Contains(string(unguarded.Header), "friend") {
		t.Errorf("guards emitted without the option")
	}
}

func TestOwnedObjects(t *testing.T) {
	parent := metadata.Object{
		Name:      "Window",
		Namespace: "app",
		Properties: []metadata.Property{
			{Name: "content", Type: "*Panel", Writable: true},
		},
		Invokables: []metadata.Invokable{
			{Name: "detach", Returns: "*Panel", Mutable: true},
			{Name: "adopt", Parameters: []metadata.Parameter{{Name: "panel", Type: "*Panel"}}, Mutable: true},
		},
		Signals: []metadata.Signal{{Name: "contentChanged"}},
	}
	options := Options{PackageName: "bridge", Namespaces: map[string]string{"Panel": "app::widgets"}}
	artifacts, err := Translate(parent, validation.KnownObjects{"Window": true, "Panel": true}, options)
	if err != nil {
		t.Fatalf("translate: %v", err)
	}

	assertContains(t, "header", artifacts.Header,
		"namespace app::widgets { class Panel; }",
		"namespace app {",
		"Q_PROPERTY(::app::widgets::Panel* content READ getContent WRITE setContent NOTIFY contentChanged)",
		"  ::app::widgets::Panel* getContent() const;\n",
		"  void setContent(::app::widgets::Panel* value);\n",
		"} // namespace app",
	)
	if strings.Contains(string(artifacts.Header), "m_content") {
		t.Errorf("owned property must not be mirrored")
	}
	assertContains(t, "source", artifacts.Source,
		"return static_cast<::app::widgets::Panel*>(window_get_content(m_goObj));",
		"window_set_content(m_goObj, static_cast<void*>(value));",
		"window_invoke_adopt(m_goObj, static_cast<void*>(panel));",
		"static_cast<::app::Window*>(obj)->setContent(static_cast<::app::widgets::Panel*>(value));",
	)

	assertValidGo(t, artifacts.Shim)
	assertContains(t, "shim", artifacts.Shim,
		"Content() *qtlib.Owned",
		"SetContent(value *qtlib.Owned)",
		"Detach(q *WindowQObject) *qtlib.Owned",
		"Adopt(q *WindowQObject, panel *qtlib.Owned)",
		"return result.Pointer()",
		"return result.Release()",
		"qtlib.NewOwned(panel)",
		"C.window_qt_set_content(q.ptr, value.Release())",
	)
}

func TestStaticsAndConstructor(t *testing.T) {
	definition := counter()
	definition.Constructor = &metadata.Constructor{Arguments: []metadata.Parameter{
		{Name: "start", Type: "int32"},
		{Name: "label", Type: "StringView"},
	}}
	definition.Invokables = append(definition.Invokables, metadata.Invokable{
		Name:       "format",
		Parameters: []metadata.Parameter{{Name: "margins", Type: "MarginsF"}},
		Returns:    "string",
		Static:     true,
	})
	artifacts := translate(t, definition, Options{})

	assertContains(t, "header", artifacts.Header,
		"  explicit Counter(qint32 start, const QStringView& label, QObject* parent = nullptr);\n",
		"  static QString format(const QMarginsF& margins);\n",
	)
	assertContains(t, "source", artifacts.Source,
		"uintptr_t counter_create_with(void* obj, int32_t start, goqtbridge_string label);",
		"  , m_goObj(counter_create_with(this, start, ::goqtbridge::toAbi(label)))\n",
		"goqtbridge_string counter_static_format(goqtbridge_marginsf margins);",
		"QString\nCounter::format(const QMarginsF& margins)\n{\n  return ::goqtbridge::takeString(counter_static_format(::goqtbridge::toAbi(margins)));\n}\n",
	)

	assertValidGo(t, artifacts.Shim)
	assertContains(t, "shim", artifacts.Shim,
		"type CounterStatics interface {",
		"Format(margins qtlib.MarginsF) string",
		"func RegisterCounterConstructor(constructor func(start int32, label string) CounterImpl)",
		"func RegisterCounterStatics(statics CounterStatics)",
		"counterConstructor(int32(start), counterStringFromAbi(label))",
		"counterStatics.Format(counterMarginsFFromAbi(margins))",
		"return counterStringToAbi(result)",
		"func counterUnitsToAbi(units []uint16) C.goqtbridge_string {",
	)
	if strings.Contains(string(artifacts.Shim), "Format(margins qtlib.MarginsF) string\n\tIncrement") {
		t.Errorf("static invokable leaked into the instance interface")
	}
}

func TestQMLRegistration(t *testing.T) {
	definition := counter()
	definition.QML = &metadata.QML{URI: "com.example.counter", Version: "2.3"}
	artifacts := translate(t, definition, Options{})

	assertContains(t, "header", artifacts.Header, "void\nregisterCounterType();\n")
	assertContains(t, "source", artifacts.Source,
		"#include <QtQml/QQmlEngine>",
		"  qmlRegisterType<Counter>(\"com.example.counter\", 2, 3, \"Counter\");\n",
	)
}

func TestTrivialStructsAreCheckedAtCompileTime(t *testing.T) {
	definition := metadata.Object{
		Name:       "Canvas",
		Properties: []metadata.Property{{Name: "origin", Type: "PointF", Writable: true}, {Name: "size", Type: "SizeF"}},
		Signals:    []metadata.Signal{{Name: "originChanged"}},
	}
	artifacts := translate(t, definition, Options{})

	assertContains(t, "source", artifacts.Source,
		"static_assert(sizeof(QPointF) == sizeof(goqtbridge_pointf), \"QPointF does not match goqtbridge_pointf\");",
		"static_assert(sizeof(QSizeF) == sizeof(goqtbridge_sizef), \"QSizeF does not match goqtbridge_sizef\");",
		"m_origin = ::goqtbridge::bitCast<QPointF>(canvas_get_origin(m_goObj));",
		"canvas_set_origin(m_goObj, ::goqtbridge::bitCast<goqtbridge_pointf>(value));",
	)
	assertValidGo(t, artifacts.Shim)
	assertContains(t, "shim", artifacts.Shim,
		"return *(*C.goqtbridge_pointf)(unsafe.Pointer(&result))",
		"SetOrigin(*(*qtlib.PointF)(unsafe.Pointer(&value)))",
	)
}

func TestBoundaryMismatchIsReported(t *testing.T) {
	native := boundary{goExports: []boundaryFunction{
		{Name: "counter_get_count", Result: "int32_t", Params: []boundaryParam{{Name: "handle", Type: handleType}}},
	}}
	safe := boundary{goExports: []boundaryFunction{
		{Name: "counter_get_count", Result: "int64_t", Params: []boundaryParam{{Name: "handle", Type: handleType}}},
	}}

	if err := checkBoundary("Counter", native, native); err != nil {
		t.Errorf("identical boundaries rejected: %v", err)
	}

	err := checkBoundary("Counter", native, safe)
	var mismatch *SignatureMismatch
	if !errors.As(err, &mismatch) {
		t.Fatalf("expected a signature mismatch, got %v", err)
	}
	if mismatch.Function != "counter_get_count" || !strings.Contains(mismatch.Go, "int64_t") {
		t.Errorf("unexpected mismatch %+v", mismatch)
	}

	err = checkBoundary("Counter", native, boundary{})
	if !errors.As(err, &mismatch) || mismatch.Go != "<missing>" {
		t.Errorf("missing Go function not reported: %v", err)
	}
}

func TestAbiHeaderIsWrittenOnce(t *testing.T) {
	header := string(abiHeader())
	for _, declaration := range []string{
		"} goqtbridge_pointf;", "} goqtbridge_sizef;", "} goqtbridge_marginsf;",
		"} goqtbridge_color;", "} goqtbridge_string;", "} goqtbridge_variant;",
	} {
		if strings.Count(header, declaration) != 1 {
			t.Errorf("%s declared %d times", declaration, strings.Count(header, declaration))
		}
	}
	if !strings.HasPrefix(header, generatedNotice) {
		t.Errorf("ABI header is not marked as generated")
	}
}

// structFields returns the members of a typedef struct of the ABI header.
func structFields(t *testing.T, header, name string) []string {
	t.Helper()
	end := strings.Index(header, "} "+name+";")
	if end < 0 {
		t.Fatalf("%s is not declared", name)
	}
	start := strings.LastIndex(header[:end], "{")
	fields := make([]string, 0)
	for _, line := range strings.Split(strings.TrimSpace(header[start+1:end]), "\n") {
		parts := strings.Fields(line)
		fields = append(fields, strings.TrimSuffix(parts[len(parts)-1], ";"))
	}
	return fields
}

func TestComponentsFollowAbiFieldOrder(t *testing.T) {
	header := string(abiHeader())
	for _, identity := range bridge.Identities() {
		entry, err := bridge.Lookup(identity)
		if err != nil {
			t.Fatalf("lookup %s: %v", identity, err)
		}
		if len(entry.Fields) == 0 {
			continue
		}
		if got := structFields(t, header, entry.AbiType); strings.Join(got, ",") != strings.Join(entry.Fields, ",") {
			t.Errorf("%s: header declares %v, registry has %v", entry.AbiType, got, entry.Fields)
		}
	}

	// Trivial values are bit copies: the Go fields must line up with the C ones.
	for identity, sample := range map[string]interface{}{"PointF": qtlib.PointF{}, "SizeF": qtlib.SizeF{}} {
		entry, _ := bridge.Lookup(identity)
		goType := reflect.TypeOf(sample)
		if goType.NumField() != len(entry.Fields) {
			t.Fatalf("%s has %d fields, ABI has %d", identity, goType.NumField(), len(entry.Fields))
		}
		for i, field := range entry.Fields {
			if strings.ToLower(goType.Field(i).Name) != field {
				t.Errorf("%s field %d is %s, ABI has %s", identity, i, goType.Field(i).Name, field)
			}
		}
	}

	// The codec images and the generated adapters pass components positionally.
	color, _ := bridge.Lookup("Color")
	image, err := color.Codec.ToNative(qtlib.ColorFromComponents(1, 2, 3, 4))
	if err != nil || image != [4]int32{1, 2, 3, 4} {
		t.Errorf("color codec image %v, %v", image, err)
	}
	margins, _ := bridge.Lookup("MarginsF")
	image, err = margins.Codec.ToNative(qtlib.MarginsFFromComponents(1, 2, 3, 4))
	if err != nil || image != [4]float64{1, 2, 3, 4} {
		t.Errorf("margins codec image %v, %v", image, err)
	}

	artifacts := translate(t, metadata.Object{
		Name: "Frame",
		Properties: []metadata.Property{
			{Name: "accent", Type: "Color", Writable: true},
			{Name: "padding", Type: "MarginsF", Writable: true},
		},
		Signals: []metadata.Signal{{Name: "accentChanged"}, {Name: "paddingChanged"}},
	}, Options{})
	assertValidGo(t, artifacts.Shim)
	assertContains(t, "shim", artifacts.Shim,
		"qtlib.ColorFromComponents(int32(value.red), int32(value.green), int32(value.blue), int32(value.alpha))",
		"red, green, blue, alpha := value.Components()",
		"qtlib.MarginsFFromComponents(float64(value.left), float64(value.top), float64(value.right), float64(value.bottom))",
		"left, top, right, bottom := value.Components()",
	)
}

func TestUnbridgedVariantsWarn(t *testing.T) {
	assertContains(t, "ABI header", abiHeader(),
		"    case QMetaType::UnknownType:\n      break;\n",
		"qWarning(\"goqtbridge: QVariant of type %s is not bridged\", value.typeName());",
		"if (value.toULongLong() > static_cast<qulonglong>(std::numeric_limits<qint64>::max())) {",
		"#include <limits>",
	)
}
