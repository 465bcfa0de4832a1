package metadata

import "gopkg.in/yaml.v3"

// Position of a syntax node in the definition file.
type Position struct {
	Line   int
	Column int
}

// Document is one definition file: a compilation unit of bridgeable objects.
type Document struct {
	SchemaVersion string   `yaml:"schemaVersion"`
	Objects       []Object `yaml:"objects"`
}

type Object struct {
	Name         string       `yaml:"name"`
	Namespace    string       `yaml:"namespace,omitempty"`
	QML          *QML         `yaml:"qml,omitempty"`
	RequiresInit bool         `yaml:"requiresInit,omitempty"`
	Constructor  *Constructor `yaml:"constructor,omitempty"`
	Properties   []Property   `yaml:"properties,omitempty"`
	Invokables   []Invokable  `yaml:"invokables,omitempty"`
	Signals      []Signal     `yaml:"signals,omitempty"`
	Doc          string       `yaml:"doc,omitempty"`
	Pos          Position     `yaml:"-"`
}

type QML struct {
	URI     string `yaml:"uri"`
	Version string `yaml:"version"`
}

type Constructor struct {
	Arguments []Parameter `yaml:"arguments,omitempty"`
	Pos       Position    `yaml:"-"`
}

type Property struct {
	Name     string   `yaml:"name"`
	Type     string   `yaml:"type"`
	Writable bool     `yaml:"writable,omitempty"`
	Read     string   `yaml:"read,omitempty"`
	Write    string   `yaml:"write,omitempty"`
	Notify   string   `yaml:"notify,omitempty"`
	Doc      string   `yaml:"doc,omitempty"`
	Pos      Position `yaml:"-"`
}

type Invokable struct {
	Name       string      `yaml:"name"`
	Parameters []Parameter `yaml:"parameters,omitempty"`
	Returns    string      `yaml:"returns,omitempty"`
	Mutable    bool        `yaml:"mutable,omitempty"`
	Static     bool        `yaml:"static,omitempty"`
	Doc        string      `yaml:"doc,omitempty"`
	Pos        Position    `yaml:"-"`
}

type Signal struct {
	Name       string      `yaml:"name"`
	Parameters []Parameter `yaml:"parameters,omitempty"`
	Doc        string      `yaml:"doc,omitempty"`
	Pos        Position    `yaml:"-"`
}

type Parameter struct {
	Name string   `yaml:"name"`
	Type string   `yaml:"type"`
	Pos  Position `yaml:"-"`
}

func positionOf(node *yaml.Node) Position {
	return Position{Line: node.Line, Column: node.Column}
}

// The UnmarshalYAML methods below record where each node starts so that
// diagnostics can point back into the definition file.

func (o *Object) UnmarshalYAML(node *yaml.Node) error {
	type plain Object
	if err := node.Decode((*plain)(o)); err != nil {
		return err
	}
	o.Pos = positionOf(node)
	return nil
}

func (c *Constructor) UnmarshalYAML(node *yaml.Node) error {
	type plain Constructor
	if err := node.Decode((*plain)(c)); err != nil {
		return err
	}
	c.Pos = positionOf(node)
	return nil
}

func (p *Property) UnmarshalYAML(node *yaml.Node) error {
	type plain Property
	if err := node.Decode((*plain)(p)); err != nil {
		return err
	}
	p.Pos = positionOf(node)
	return nil
}

func (i *Invokable) UnmarshalYAML(node *yaml.Node) error {
	type plain Invokable
	if err := node.Decode((*plain)(i)); err != nil {
		return err
	}
	i.Pos = positionOf(node)
	return nil
}

func (s *Signal) UnmarshalYAML(node *yaml.Node) error {
	type plain Signal
	if err := node.Decode((*plain)(s)); err != nil {
		return err
	}
	s.Pos = positionOf(node)
	return nil
}

func (p *Parameter) UnmarshalYAML(node *yaml.Node) error {
	type plain Parameter
	if err := node.Decode((*plain)(p)); err != nil {
		return err
	}
	p.Pos = positionOf(node)
	return nil
}
