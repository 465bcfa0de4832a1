package ir

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/hashicorp/go-version"

	"goqtbridge/internal/diagnostic"
	"goqtbridge/internal/metadata"
)

var (
	objectName    = regexp.MustCompile(`^[A-Z][A-Za-z0-9]*$`)
	memberName    = regexp.MustCompile(`^[a-z][A-Za-z0-9_]*$`)
	parameterName = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)
	namespacePath = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*(::[A-Za-z_][A-Za-z0-9_]*)*$`)
	qmlURI        = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*(\.[A-Za-z_][A-Za-z0-9_]*)*$`)
)

// Parameter names that would shadow generated code or cannot be spelled in Go or C++.
var reservedParameters = map[string]bool{
	// generated locals
	"handle": true, "state": true, "obj": true, "result": true, "self": true, "q": true,
	"parent": true, "C": true, "unsafe": true, "cgo": true, "qtlib": true,
	// Go predeclared identifiers used by conversions
	"int8": true, "int16": true, "int32": true, "int64": true, "uint8": true, "uint16": true,
	"uint32": true, "uint64": true, "float32": true, "float64": true, "string": true,
	"nil": true, "true": true, "false": true,
	// Go
	"break": true, "case": true, "chan": true, "const": true, "continue": true, "default": true,
	"defer": true, "else": true, "fallthrough": true, "for": true, "func": true, "go": true,
	"goto": true, "if": true, "import": true, "interface": true, "map": true, "package": true,
	"range": true, "return": true, "select": true, "struct": true, "switch": true, "type": true,
	"var": true,
	// C++
	"auto": true, "bool": true, "char": true, "class": true, "delete": true, "double": true,
	"enum": true, "explicit": true, "extern": true, "float": true, "friend": true, "int": true,
	"long": true, "namespace": true, "new": true, "operator": true, "private": true,
	"protected": true, "public": true, "short": true, "signed": true, "sizeof": true,
	"static": true, "template": true, "this": true, "throw": true, "try": true, "typedef": true,
	"typename": true, "union": true, "unsigned": true, "using": true, "virtual": true,
	"void": true, "volatile": true, "while": true,
}

// Extract turns one syntax tree object into IR. Every structural problem is
// reported at once through a *diagnostic.MalformedDefinition.
func Extract(object metadata.Object) (*BridgedObject, error) {
	violations := diagnostic.NewList(object.Name)
	bridged := ExtractInto(object, violations)
	if err := violations.Err(); err != nil {
		return nil, err
	}
	return bridged, nil
}

// ExtractInto is Extract for callers that keep collecting violations for the
// same object afterwards. The returned object is complete even when
// violations were recorded, so later checks can still inspect it.
func ExtractInto(object metadata.Object, violations *diagnostic.List) *BridgedObject {
	e := extractor{violations: violations}
	return e.object(object)
}

type extractor struct {
	violations *diagnostic.List
}

func (e *extractor) object(object metadata.Object) *BridgedObject {
	bridged := &BridgedObject{
		Name:         object.Name,
		Namespace:    object.Namespace,
		RequiresInit: object.RequiresInit,
		Doc:          object.Doc,
		Pos:          object.Pos,
		Properties:   make([]Property, 0, len(object.Properties)),
		Invokables:   make([]Invokable, 0, len(object.Invokables)),
		Signals:      make([]Signal, 0, len(object.Signals)),
	}

	switch {
	case object.Name == "":
		e.report(diagnostic.InvalidName, "", object.Pos, "object has no name")
	case !objectName.MatchString(object.Name):
		e.report(diagnostic.InvalidName, "", object.Pos, "object name %q must start with an upper-case letter and contain only letters and digits", object.Name)
	}

	if object.Namespace != "" && !namespacePath.MatchString(object.Namespace) {
		e.report(diagnostic.InvalidAttribute, "", object.Pos, "namespace %q is not a C++ namespace path", object.Namespace)
	}

	if object.QML != nil {
		bridged.QML = e.qml(*object.QML, object.Pos)
	}

	if object.Constructor != nil {
		bridged.Constructor = &Constructor{
			Arguments: e.parameters(object.Constructor.Arguments, "constructor"),
			Pos:       object.Constructor.Pos,
		}
	}

	// Signals first: properties resolve their notify signal against them.
	for _, signal := range object.Signals {
		bridged.Signals = append(bridged.Signals, e.signal(signal))
	}
	for _, property := range object.Properties {
		bridged.Properties = append(bridged.Properties, e.property(property, bridged))
	}
	for _, invokable := range object.Invokables {
		bridged.Invokables = append(bridged.Invokables, e.invokable(invokable))
	}

	return bridged
}

func (e *extractor) qml(qml metadata.QML, pos metadata.Position) *QMLRegistration {
	registration := &QMLRegistration{URI: qml.URI, Major: 1}

	if !qmlURI.MatchString(qml.URI) {
		e.report(diagnostic.InvalidAttribute, "", pos, "QML URI %q is not a dotted identifier", qml.URI)
	}

	if qml.Version != "" {
		parsed, err := version.NewVersion(qml.Version)
		if err != nil {
			e.report(diagnostic.InvalidAttribute, "", pos, "QML version %q: %v", qml.Version, err)
			return registration
		}
		segments := parsed.Segments()
		registration.Major, registration.Minor = segments[0], segments[1]
	}
	return registration
}

func (e *extractor) property(property metadata.Property, object *BridgedObject) Property {
	member := "property " + property.Name
	e.checkMember(property.Name, member, property.Pos)
	e.checkType(property.Type, member, property.Pos)

	extracted := Property{
		Name:   property.Name,
		Type:   property.Type,
		Read:   property.Read,
		Write:  property.Write,
		Notify: -1,
		Doc:    property.Doc,
		Pos:    property.Pos,
	}

	if extracted.Read == "" {
		extracted.Read = GetterName(property.Name)
	} else {
		e.checkAccessor(extracted.Read, member, property.Pos)
	}

	if property.Writable || property.Write != "" {
		if extracted.Write == "" {
			extracted.Write = SetterName(property.Name)
		} else {
			e.checkAccessor(extracted.Write, member, property.Pos)
		}
	}

	switch {
	case property.Notify != "":
		extracted.NotifyName = property.Notify
	case extracted.Writable():
		extracted.NotifyName = NotifyName(property.Name)
	}
	if extracted.NotifyName != "" {
		extracted.Notify = object.SignalNamed(extracted.NotifyName)
	}

	return extracted
}

func (e *extractor) invokable(invokable metadata.Invokable) Invokable {
	member := "invokable " + invokable.Name
	e.checkMember(invokable.Name, member, invokable.Pos)

	returns := invokable.Returns
	if returns == "void" {
		returns = ""
	}

	return Invokable{
		Name:       invokable.Name,
		Parameters: e.parameters(invokable.Parameters, member),
		Returns:    returns,
		Mutable:    invokable.Mutable,
		Static:     invokable.Static,
		Doc:        invokable.Doc,
		Pos:        invokable.Pos,
	}
}

func (e *extractor) signal(signal metadata.Signal) Signal {
	member := "signal " + signal.Name
	e.checkMember(signal.Name, member, signal.Pos)

	return Signal{
		Name:       signal.Name,
		Parameters: e.parameters(signal.Parameters, member),
		Doc:        signal.Doc,
		Pos:        signal.Pos,
	}
}

func (e *extractor) parameters(parameters []metadata.Parameter, member string) []Parameter {
	extracted := make([]Parameter, 0, len(parameters))
	for i, parameter := range parameters {
		switch {
		case parameter.Name == "":
			e.report(diagnostic.InvalidName, member, parameter.Pos, "parameter %d has no name", i)
		case !parameterName.MatchString(parameter.Name):
			e.report(diagnostic.InvalidName, member, parameter.Pos, "parameter name %q is not an identifier", parameter.Name)
		case reservedParameters[parameter.Name]:
			e.report(diagnostic.ReservedName, member, parameter.Pos, "parameter name %q is reserved", parameter.Name)
		case strings.HasPrefix(parameter.Name, "m_"):
			e.report(diagnostic.ReservedName, member, parameter.Pos, "parameter name %q would shadow a member of the generated class", parameter.Name)
		}
		e.checkType(parameter.Type, fmt.Sprintf("%s parameter %s", member, parameter.Name), parameter.Pos)

		extracted = append(extracted, Parameter{Name: parameter.Name, Type: parameter.Type, Pos: parameter.Pos})
	}
	return extracted
}

func (e *extractor) checkMember(name, member string, pos metadata.Position) {
	switch {
	case name == "":
		e.report(diagnostic.InvalidName, member, pos, "member has no name")
	case !memberName.MatchString(name):
		e.report(diagnostic.InvalidName, member, pos, "name %q must be an identifier starting with a lower-case letter", name)
	}
}

func (e *extractor) checkAccessor(name, member string, pos metadata.Position) {
	if !memberName.MatchString(name) {
		e.report(diagnostic.InvalidName, member, pos, "accessor name %q must be an identifier starting with a lower-case letter", name)
	}
}

func (e *extractor) checkType(identity, member string, pos metadata.Position) {
	if identity == "" {
		e.report(diagnostic.MissingType, member, pos, "no type declared")
	}
}

func (e *extractor) report(kind diagnostic.Kind, member string, pos metadata.Position, format string, args ...interface{}) {
	e.violations.Addf(kind, member, pos.Line, pos.Column, format, args...)
}
