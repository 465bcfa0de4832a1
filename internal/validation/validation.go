// Package validation rejects objects whose shape cannot be bridged safely,
// before anything is emitted for them.
package validation

import (
	"errors"
	"fmt"

	"goqtbridge/internal/bridge"
	"goqtbridge/internal/diagnostic"
	"goqtbridge/internal/ir"
	"goqtbridge/internal/metadata"
)

// KnownObjects is the set of object identifiers in the compilation unit.
// Owned-opaque types may only refer to these.
type KnownObjects map[string]bool

// Names of QObject members a generated class must not redeclare.
var reservedNative = map[string]bool{
	"blockSignals": true, "childEvent": true, "children": true, "connect": true,
	"connectNotify": true, "customEvent": true, "deleteLater": true, "destroyed": true,
	"disconnect": true, "disconnectNotify": true, "dumpObjectInfo": true, "dumpObjectTree": true,
	"dynamicPropertyNames": true, "event": true, "eventFilter": true, "findChild": true,
	"findChildren": true, "inherits": true, "installEventFilter": true, "isSignalConnected": true,
	"isWidgetType": true, "isWindowType": true, "killTimer": true, "metaObject": true,
	"moveToThread": true, "objectName": true, "objectNameChanged": true, "parent": true,
	"property": true, "receivers": true, "removeEventFilter": true, "sender": true,
	"senderSignalIndex": true, "setObjectName": true, "setParent": true, "setProperty": true,
	"signalsBlocked": true, "startTimer": true, "staticMetaObject": true, "thread": true,
	"timerEvent": true, "tr": true,
}

// Go method names the generated Impl interface already gives a meaning to.
var reservedGo = map[string]bool{
	"Initialize": true,
}

// Validate checks obj against the registry and returns every violation found.
func Validate(obj *ir.BridgedObject, known KnownObjects) []diagnostic.Violation {
	violations := diagnostic.NewList(obj.Name)
	ValidateInto(obj, known, violations)
	return violations.Items()
}

// ValidateInto appends the violations of obj to violations.
func ValidateInto(obj *ir.BridgedObject, known KnownObjects, violations *diagnostic.List) {
	v := validator{object: obj, known: known, violations: violations}

	if obj.Constructor != nil {
		v.parameters(obj.Constructor.Arguments, "constructor", bridge.NativeToSafe)
	}
	for _, property := range obj.Properties {
		v.property(property)
	}
	for _, invokable := range obj.Invokables {
		v.invokable(invokable)
	}
	for _, signal := range obj.Signals {
		v.parameters(signal.Parameters, "signal "+signal.Name, bridge.SafeToNative)
	}

	v.duplicates()
	v.namespaces()
}

type validator struct {
	object     *ir.BridgedObject
	known      KnownObjects
	violations *diagnostic.List
}

func (v *validator) property(property ir.Property) {
	member := "property " + property.Name
	v.typeUse(property.Type, member, property.Pos, bridge.Both)

	switch {
	case property.NotifyUnresolved() && property.Writable():
		v.report(diagnostic.MissingNotification, member, property.Pos,
			"writable property has no notification signal %q; declare a signal without parameters", property.NotifyName)
	case property.NotifyUnresolved():
		v.report(diagnostic.MissingNotification, member, property.Pos,
			"notification signal %q is not declared", property.NotifyName)
	case property.Notify >= 0 && len(v.object.Signals[property.Notify].Parameters) > 0:
		v.report(diagnostic.NotificationSignature, member, property.Pos,
			"notification signal %q must not take parameters", property.NotifyName)
	}
}

func (v *validator) invokable(invokable ir.Invokable) {
	member := "invokable " + invokable.Name

	if invokable.Static && invokable.Mutable {
		v.report(diagnostic.InvalidQualifiers, member, invokable.Pos, "a static invokable has no instance to mutate")
	}

	v.parameters(invokable.Parameters, member, bridge.NativeToSafe)
	if invokable.Returns != "" {
		v.typeUse(invokable.Returns, member+" result", invokable.Pos, bridge.SafeToNative)
	}
}

func (v *validator) parameters(parameters []ir.Parameter, member string, direction bridge.Direction) {
	for _, parameter := range parameters {
		v.typeUse(parameter.Type, fmt.Sprintf("%s parameter %s", member, parameter.Name), parameter.Pos, direction)
	}
}

// typeUse checks one occurrence of a type that must cross in direction.
// Missing types were already reported during extraction.
func (v *validator) typeUse(identity, member string, pos metadata.Position, direction bridge.Direction) {
	if identity == "" {
		return
	}

	entry, err := bridge.Lookup(identity)
	switch {
	case errors.Is(err, bridge.ErrNotRegistered):
		v.report(diagnostic.UnsupportedType, member, pos, "type %q has no registered bridge", identity)
	case err != nil:
		v.report(diagnostic.UnsupportedType, member, pos, "type %q: %v", identity, err)
	case entry.Kind == bridge.OwnedOpaque && !v.known[entry.Object]:
		v.report(diagnostic.UnknownObject, member, pos, "owned object %q is not defined in this compilation unit", entry.Object)
	case !entry.Supports(direction):
		v.report(diagnostic.UnsupportedDirection, member, pos,
			"type %q only crosses %s, this use needs %s", identity, entry.Directions, direction)
	}
}

func (v *validator) duplicates() {
	check := func(kind string, names []string, positions []metadata.Position) {
		seen := make(map[string]bool)
		for i, name := range names {
			if name == "" {
				continue
			}
			if seen[name] {
				v.report(diagnostic.DuplicateName, kind+" "+name, positions[i],
					"%s %q is declared more than once; overloads are not supported", kind, name)
			}
			seen[name] = true
		}
	}

	names, positions := make([]string, 0), make([]metadata.Position, 0)
	for _, property := range v.object.Properties {
		names, positions = append(names, property.Name), append(positions, property.Pos)
	}
	check("property", names, positions)

	names, positions = names[:0], positions[:0]
	for _, invokable := range v.object.Invokables {
		names, positions = append(names, invokable.Name), append(positions, invokable.Pos)
	}
	check("invokable", names, positions)

	names, positions = names[:0], positions[:0]
	for _, signal := range v.object.Signals {
		names, positions = append(names, signal.Name), append(positions, signal.Pos)
	}
	check("signal", names, positions)

	checkParameters := func(member string, parameters []ir.Parameter) {
		seen := make(map[string]bool)
		for _, parameter := range parameters {
			if parameter.Name != "" && seen[parameter.Name] {
				v.report(diagnostic.DuplicateName, member, parameter.Pos, "parameter %q is declared more than once", parameter.Name)
			}
			seen[parameter.Name] = true
		}
	}
	if v.object.Constructor != nil {
		checkParameters("constructor", v.object.Constructor.Arguments)
	}
	for _, invokable := range v.object.Invokables {
		checkParameters("invokable "+invokable.Name, invokable.Parameters)
	}
	for _, signal := range v.object.Signals {
		checkParameters("signal "+signal.Name, signal.Parameters)
	}
}
