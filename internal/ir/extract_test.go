package ir

import (
	"errors"
	"reflect"
	"testing"

	"goqtbridge/internal/diagnostic"
	"goqtbridge/internal/metadata"
)

func counterDefinition() metadata.Object {
	return metadata.Object{
		Name: "Counter",
		Properties: []metadata.Property{
			{Name: "count", Type: "int32", Writable: true},
		},
		Invokables: []metadata.Invokable{
			{Name: "increment", Mutable: true},
		},
		Signals: []metadata.Signal{
			{Name: "countChanged"},
		},
	}
}

func TestExtractCounter(t *testing.T) {
	object, err := Extract(counterDefinition())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	property := object.Properties[0]
	if property.Read != "getCount" || property.Write != "setCount" || property.NotifyName != "countChanged" {
		t.Errorf("unexpected accessors %+v", property)
	}
	if property.Notify != 0 || property.NotifyUnresolved() {
		t.Errorf("notify signal not resolved: %+v", property)
	}
	if !object.Invokables[0].Mutable || object.Invokables[0].Returns != "" {
		t.Errorf("unexpected invokable %+v", object.Invokables[0])
	}
}

func TestExtractMarksMissingSignal(t *testing.T) {
	definition := counterDefinition()
	definition.Signals = nil

	object, err := Extract(definition)
	if err != nil {
		t.Fatalf("a missing signal is a validation problem, got %v", err)
	}
	if !object.Properties[0].NotifyUnresolved() {
		t.Error("expected unresolved notify signal")
	}
}

func TestExtractReadOnlyPropertyNeedsNoSignal(t *testing.T) {
	object, err := Extract(metadata.Object{
		Name:       "Reader",
		Properties: []metadata.Property{{Name: "label", Type: "string"}},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	property := object.Properties[0]
	if property.Writable() || property.NotifyName != "" || property.NotifyUnresolved() {
		t.Errorf("unexpected read-only property %+v", property)
	}
}

func TestExtractCustomAccessors(t *testing.T) {
	object, err := Extract(metadata.Object{
		Name: "Custom",
		Properties: []metadata.Property{
			{Name: "level", Type: "float64", Read: "currentLevel", Write: "changeLevel", Notify: "levelUpdated"},
		},
		Signals: []metadata.Signal{{Name: "levelUpdated"}},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	property := object.Properties[0]
	if property.Read != "currentLevel" || property.Write != "changeLevel" || property.Notify != 0 {
		t.Errorf("custom accessors not kept: %+v", property)
	}
}

func TestExtractQMLVersion(t *testing.T) {
	definition := counterDefinition()
	definition.QML = &metadata.QML{URI: "com.example.app", Version: "2.3"}

	object, err := Extract(definition)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if object.QML.Major != 2 || object.QML.Minor != 3 {
		t.Errorf("unexpected QML version %d.%d", object.QML.Major, object.QML.Minor)
	}
}

func TestExtractNormalizesVoid(t *testing.T) {
	definition := counterDefinition()
	definition.Invokables[0].Returns = "void"

	object, err := Extract(definition)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if object.Invokables[0].Returns != "" {
		t.Errorf("void return kept as %q", object.Invokables[0].Returns)
	}
}

func TestExtractReportsEveryStructuralProblem(t *testing.T) {
	definition := metadata.Object{
		Name:      "lowercase",
		Namespace: "bad namespace",
		Properties: []metadata.Property{
			{Name: "Upper", Type: "int32"},
			{Name: "untyped"},
		},
		Invokables: []metadata.Invokable{
			{Name: "run", Parameters: []metadata.Parameter{{Name: "handle", Type: "int32"}, {Type: "int32"}}},
		},
	}

	_, err := Extract(definition)
	var malformed *diagnostic.MalformedDefinition
	if !errors.As(err, &malformed) {
		t.Fatalf("expected MalformedDefinition, got %v", err)
	}

	want := map[diagnostic.Kind]int{
		diagnostic.InvalidName:      3, // object, property Upper, unnamed parameter
		diagnostic.InvalidAttribute: 1,
		diagnostic.MissingType:      1,
		diagnostic.ReservedName:     1,
	}
	for kind, count := range want {
		if got := malformed.Count(kind); got != count {
			t.Errorf("%v: got %d, want %d (%v)", kind, got, count, malformed.Violations)
		}
	}
	if len(malformed.Violations) != 6 {
		t.Errorf("expected 6 violations, got %d: %v", len(malformed.Violations), malformed.Violations)
	}
}

func TestExtractRejectsNamesThatBreakGeneratedSymbols(t *testing.T) {
	tests := []struct {
		name       string
		definition metadata.Object
		want       diagnostic.Kind
	}{
		{
			name:       "underscore in object name",
			definition: metadata.Object{Name: "A_get_b"},
			want:       diagnostic.InvalidName,
		},
		{
			name: "parameter shadowing the handle",
			definition: metadata.Object{
				Name:       "Gauge",
				Invokables: []metadata.Invokable{{Name: "reset", Parameters: []metadata.Parameter{{Name: "m_goObj", Type: "int32"}}}},
			},
			want: diagnostic.ReservedName,
		},
		{
			name: "parameter shadowing a mirror",
			definition: metadata.Object{
				Name:        "Gauge",
				Constructor: &metadata.Constructor{Arguments: []metadata.Parameter{{Name: "m_level", Type: "int32"}}},
			},
			want: diagnostic.ReservedName,
		},
	}

	for _, test := range tests {
		_, err := Extract(test.definition)
		var malformed *diagnostic.MalformedDefinition
		if !errors.As(err, &malformed) {
			t.Errorf("%s: expected MalformedDefinition, got %v", test.name, err)
			continue
		}
		if len(malformed.Violations) != 1 || malformed.Count(test.want) != 1 {
			t.Errorf("%s: expected one %v, got %v", test.name, test.want, malformed.Violations)
		}
	}
}

func TestTypesInDeclarationOrder(t *testing.T) {
	object, err := Extract(metadata.Object{
		Name:        "Mixed",
		Constructor: &metadata.Constructor{Arguments: []metadata.Parameter{{Name: "seed", Type: "int64"}}},
		Properties:  []metadata.Property{{Name: "label", Type: "string"}},
		Invokables: []metadata.Invokable{
			{Name: "move", Parameters: []metadata.Parameter{{Name: "to", Type: "PointF"}}, Returns: "string"},
		},
		Signals: []metadata.Signal{{Name: "failed", Parameters: []metadata.Parameter{{Name: "reason", Type: "Variant"}}}},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []string{"int64", "string", "PointF", "Variant"}
	if got := object.Types(); !reflect.DeepEqual(got, want) {
		t.Errorf("Types() = %v, want %v", got, want)
	}
}

func TestNames(t *testing.T) {
	tests := []struct {
		got, want string
	}{
		{Exported("countChanged"), "CountChanged"},
		{Exported("x"), "X"},
		{Unexported("MyObject"), "myObject"},
		{SymbolPrefix("MyObject"), "myobject"},
		{GetterName("count"), "getCount"},
		{SetterName("fullName"), "setFullName"},
		{NotifyName("count"), "countChanged"},
	}

	for _, test := range tests {
		if test.got != test.want {
			t.Errorf("got %q, want %q", test.got, test.want)
		}
	}
}
