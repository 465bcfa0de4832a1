package generation

import (
	"goqtbridge/internal"
	"goqtbridge/internal/diagnostic"
	"goqtbridge/internal/ir"
	"goqtbridge/internal/layout"
	"goqtbridge/internal/metadata"
	"goqtbridge/internal/validation"
)

type Options struct {
	// PackageName is the Go package of the generated shims.
	PackageName string
	// RuntimePackage is the import path of the value types used by the shims.
	// Defaults to bridge.RuntimePackage.
	RuntimePackage string
	// GuardInitialization makes calls arriving before construction completed
	// return early instead of reaching the Go state.
	GuardInitialization bool
	// Namespaces maps the other bridged objects to their C++ namespace.
	Namespaces map[string]string
}

// File is one generated file.
type File struct {
	Name    string
	Content []byte
}

// Artifacts is everything generated for one object.
type Artifacts struct {
	Object string
	Prefix string
	Header []byte
	Source []byte
	Shim   []byte
	Layout *layout.StoragePlan
}

// Files lists the artifacts in the order they are written.
func (a *Artifacts) Files() []File {
	return []File{
		{Name: a.Prefix + ".h", Content: a.Header},
		{Name: a.Prefix + ".cpp", Content: a.Source},
		{Name: a.Prefix + "_bridge.go", Content: a.Shim},
	}
}

// Translate checks one definition and generates its artifacts. A definition
// with violations yields a *diagnostic.MalformedDefinition listing all of them.
func Translate(object metadata.Object, known validation.KnownObjects, options Options) (*Artifacts, error) {
	violations := diagnostic.NewList(object.Name)
	bridged := ir.ExtractInto(object, violations)
	validation.ValidateInto(bridged, known, violations)
	if err := violations.Err(); err != nil {
		return nil, err
	}
	return Emit(bridged, options)
}

// Emit generates the artifacts of a validated object. The only error it
// returns is a *SignatureMismatch.
func Emit(object *ir.BridgedObject, options Options) (*Artifacts, error) {
	plan := layout.Plan(object, layout.Options{AtomicFlag: options.GuardInitialization})

	native := newNativeEmitter(object, plan, options)
	safe := newGoEmitter(object, options)
	shim, err := safe.render()
	internal.PanicOnError(err)

	if err := checkBoundary(object.Name, native.boundary, safe.boundary); err != nil {
		return nil, err
	}

	return &Artifacts{
		Object: object.Name,
		Prefix: ir.SymbolPrefix(object.Name),
		Header: native.header(),
		Source: native.source(),
		Shim:   shim,
		Layout: plan,
	}, nil
}
