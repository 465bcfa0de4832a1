package generation

import (
	"fmt"
	"strings"
)

// boundaryFunction is one C function crossing between the native class and
// the Go shim, as seen by one of the two emitters.
type boundaryFunction struct {
	Name   string
	Result string // C type, "void" when nothing is returned
	Params []boundaryParam
}

type boundaryParam struct {
	Name string
	Type string
}

func (f boundaryFunction) prototype() string {
	params := make([]string, 0, len(f.Params))
	for _, param := range f.Params {
		params = append(params, param.Type)
	}
	return fmt.Sprintf("%s %s(%s)", f.Result, f.Name, strings.Join(params, ", "))
}

// signature renders the name and named parameters.
func (f boundaryFunction) signature() string {
	params := make([]string, 0, len(f.Params))
	for _, param := range f.Params {
		params = append(params, param.Type+" "+param.Name)
	}
	return fmt.Sprintf("%s(%s)", f.Name, strings.Join(params, ", "))
}

func (f boundaryFunction) declaration() string {
	return f.Result + " " + f.signature() + ";"
}

// boundary is everything one emitter believes crosses the C ABI.
type boundary struct {
	// implemented in Go, called by the native class
	goExports []boundaryFunction
	// implemented by the native class, called from Go
	nativeExports []boundaryFunction
}

// SignatureMismatch means the two emitters disagree about a boundary
// function. It is a generator bug, never a problem with the definition.
type SignatureMismatch struct {
	Object   string
	Function string
	Native   string
	Go       string
}

func (e *SignatureMismatch) Error() string {
	return fmt.Sprintf("internal error: %s: native and Go disagree on %s: native %q, Go %q", e.Object, e.Function, e.Native, e.Go)
}

// checkBoundary compares the native and Go views function by function, in order.
func checkBoundary(object string, native, safe boundary) error {
	if err := compareFunctions(object, native.goExports, safe.goExports); err != nil {
		return err
	}
	return compareFunctions(object, native.nativeExports, safe.nativeExports)
}

func compareFunctions(object string, native, safe []boundaryFunction) error {
	for i := 0; i < len(native) || i < len(safe); i++ {
		switch {
		case i >= len(native):
			return &SignatureMismatch{Object: object, Function: safe[i].Name, Native: "<missing>", Go: safe[i].prototype()}
		case i >= len(safe):
			return &SignatureMismatch{Object: object, Function: native[i].Name, Native: native[i].prototype(), Go: "<missing>"}
		case native[i].prototype() != safe[i].prototype():
			return &SignatureMismatch{Object: object, Function: native[i].Name, Native: native[i].prototype(), Go: safe[i].prototype()}
		}
	}
	return nil
}
