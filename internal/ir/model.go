// Package ir is the validated, language neutral description of a bridgeable
// object. It is produced once per definition and never mutated afterwards.
package ir

import "goqtbridge/internal/metadata"

// BridgedObject is one user defined type exposed to Qt.
type BridgedObject struct {
	Name         string
	Namespace    string
	QML          *QMLRegistration
	RequiresInit bool
	Constructor  *Constructor
	Properties   []Property
	Invokables   []Invokable
	Signals      []Signal
	Doc          string
	Pos          metadata.Position
}

// QMLRegistration registers the class as a QML element.
type QMLRegistration struct {
	URI   string
	Major int
	Minor int
}

// Constructor is an additional native constructor whose arguments are
// forwarded to the Go factory.
type Constructor struct {
	Arguments []Parameter
	Pos       metadata.Position
}

type Property struct {
	Name  string
	Type  string
	Read  string
	Write string // empty for read-only properties
	// NotifyName is the signal the property is wired to. Notify indexes it in
	// BridgedObject.Signals, or is -1 when no such signal was declared.
	NotifyName string
	Notify     int
	Doc        string
	Pos        metadata.Position
}

func (p Property) Writable() bool {
	return p.Write != ""
}

// NotifyUnresolved reports a notify name that does not match any declared signal.
func (p Property) NotifyUnresolved() bool {
	return p.NotifyName != "" && p.Notify < 0
}

type Invokable struct {
	Name       string
	Parameters []Parameter
	Returns    string // empty when nothing is returned
	Mutable    bool
	Static     bool
	Doc        string
	Pos        metadata.Position
}

type Signal struct {
	Name       string
	Parameters []Parameter
	Doc        string
	Pos        metadata.Position
}

type Parameter struct {
	Name string
	Type string
	Pos  metadata.Position
}

// SignalNamed returns the index of the signal with the given name or -1.
func (o *BridgedObject) SignalNamed(name string) int {
	for i, signal := range o.Signals {
		if signal.Name == name {
			return i
		}
	}
	return -1
}

// Statics returns the static invokables in declaration order.
func (o *BridgedObject) Statics() []Invokable {
	statics := make([]Invokable, 0)
	for _, invokable := range o.Invokables {
		if invokable.Static {
			statics = append(statics, invokable)
		}
	}
	return statics
}

// Types returns every type identity the object uses, in declaration order
// and without repetition.
func (o *BridgedObject) Types() []string {
	seen := make(map[string]bool)
	types := make([]string, 0)
	add := func(identity string) {
		if identity != "" && !seen[identity] {
			seen[identity] = true
			types = append(types, identity)
		}
	}
	addParameters := func(parameters []Parameter) {
		for _, parameter := range parameters {
			add(parameter.Type)
		}
	}

	if o.Constructor != nil {
		addParameters(o.Constructor.Arguments)
	}
	for _, property := range o.Properties {
		add(property.Type)
	}
	for _, invokable := range o.Invokables {
		addParameters(invokable.Parameters)
		add(invokable.Returns)
	}
	for _, signal := range o.Signals {
		addParameters(signal.Parameters)
	}
	return types
}
