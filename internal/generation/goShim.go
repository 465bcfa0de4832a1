package generation

import (
	"bytes"
	"fmt"

	"github.com/dave/jennifer/jen"

	"goqtbridge/internal/bridge"
	"goqtbridge/internal/ir"
)

type adapter int

const (
	stringFromAbi adapter = iota
	stringToAbi
	unitsToAbi
	marginsFromAbi
	marginsToAbi
	colorFromAbi
	colorToAbi
	variantFromAbi
	variantToAbi
	adapterCount
)

// goEmitter writes the cgo shim of one object: the interface the Go state
// implements, the handle to the native object and the exported entry points.
type goEmitter struct {
	object  *ir.BridgedObject
	options Options
	symbols symbols
	lower   string
	needed  [adapterCount]bool

	boundary boundary
}

func newGoEmitter(object *ir.BridgedObject, options Options) *goEmitter {
	return &goEmitter{
		object:  object,
		options: options,
		symbols: symbolsOf(object),
		lower:   ir.Unexported(object.Name),
	}
}

func (g *goEmitter) implName() string { return g.object.Name + "Impl" }
func (g *goEmitter) staticsName() string { return g.object.Name + "Statics" }
func (g *goEmitter) qobjectName() string { return g.object.Name + "QObject" }
func (g *goEmitter) stateName() string { return g.lower + "State" }
func (g *goEmitter) stateOf() string { return g.lower + "StateOf" }
func (g *goEmitter) newState() string { return g.lower + "NewState" }

func (g *goEmitter) runtime() string {
	if g.options.RuntimePackage != "" {
		return g.options.RuntimePackage
	}
	return bridge.RuntimePackage
}

func (g *goEmitter) goType(entry bridge.TypeBridge) *jen.Statement {
	statement := jen.Null()
	if entry.GoType.Pointer {
		statement = jen.Op("*")
	}
	if entry.GoType.Path == "" {
		return statement.Id(entry.GoType.Name)
	}
	path := entry.GoType.Path
	if path == bridge.RuntimePackage {
		path = g.runtime()
	}
	return statement.Qual(path, entry.GoType.Name)
}

func cType(abi string) *jen.Statement {
	if abi == objectType {
		return jen.Qual("unsafe", "Pointer")
	}
	return jen.Qual("C", abi)
}

func (g *goEmitter) use(a adapter) string {
	g.needed[a] = true
	if a == stringToAbi || a == variantToAbi {
		g.needed[unitsToAbi] = true
	}
	return g.lower + [...]string{
		"StringFromAbi", "StringToAbi", "UnitsToAbi",
		"MarginsFFromAbi", "MarginsFToAbi",
		"ColorFromAbi", "ColorToAbi",
		"VariantFromAbi", "VariantToAbi",
	}[a]
}

// fromC converts the C value in variable name to its Go type.
func (g *goEmitter) fromC(entry bridge.TypeBridge, name string) *jen.Statement {
	switch entry.Kind {
	case bridge.TrivialCopy:
		if entry.GoType.Path == "" {
			return jen.Id(entry.GoType.Name).Call(jen.Id(name))
		}
		return jen.Op("*").Parens(jen.Op("*").Add(g.goType(entry))).Call(jen.Qual("unsafe", "Pointer").Call(jen.Op("&").Id(name)))
	case bridge.Constructed, bridge.Cloned:
		switch entry.AbiType {
		case "goqtbridge_string":
			return jen.Id(g.use(stringFromAbi)).Call(jen.Id(name))
		case "goqtbridge_marginsf":
			return jen.Id(g.use(marginsFromAbi)).Call(jen.Id(name))
		case "goqtbridge_color":
			return jen.Id(g.use(colorFromAbi)).Call(jen.Id(name))
		case "goqtbridge_variant":
			return jen.Id(g.use(variantFromAbi)).Call(jen.Id(name))
		}
	case bridge.OwnedOpaque:
		return jen.Qual(g.runtime(), "NewOwned").Call(jen.Id(name))
	}
	panic(fmt.Sprintf("no Go conversion from %s", entry.AbiType))
}

// toC converts the Go value in variable name for the native side. Owned
// references are released when transfer is set and borrowed otherwise.
func (g *goEmitter) toC(entry bridge.TypeBridge, name string, transfer bool) *jen.Statement {
	switch entry.Kind {
	case bridge.TrivialCopy:
		if entry.GoType.Path == "" {
			return jen.Qual("C", entry.AbiType).Call(jen.Id(name))
		}
		return jen.Op("*").Parens(jen.Op("*").Qual("C", entry.AbiType)).Call(jen.Qual("unsafe", "Pointer").Call(jen.Op("&").Id(name)))
	case bridge.Constructed, bridge.Cloned:
		switch entry.AbiType {
		case "goqtbridge_string":
			return jen.Id(g.use(stringToAbi)).Call(jen.Id(name))
		case "goqtbridge_marginsf":
			return jen.Id(g.use(marginsToAbi)).Call(jen.Id(name))
		case "goqtbridge_color":
			return jen.Id(g.use(colorToAbi)).Call(jen.Id(name))
		case "goqtbridge_variant":
			return jen.Id(g.use(variantToAbi)).Call(jen.Id(name))
		}
	case bridge.OwnedOpaque:
		if transfer {
			return jen.Id(name).Dot("Release").Call()
		}
		return jen.Id(name).Dot("Pointer").Call()
	}
	panic(fmt.Sprintf("no C conversion to %s", entry.AbiType))
}

func (g *goEmitter) goParams(parameters []ir.Parameter) []jen.Code {
	params := make([]jen.Code, 0, len(parameters))
	for _, parameter := range parameters {
		params = append(params, jen.Id(parameter.Name).Add(g.goType(lookup(parameter.Type))))
	}
	return params
}

// cParams declares exported parameters and records them at the boundary.
func (g *goEmitter) cParams(function *boundaryFunction, parameters []ir.Parameter) []jen.Code {
	params := make([]jen.Code, 0, len(parameters))
	for _, parameter := range parameters {
		abi := lookup(parameter.Type).AbiType
		function.Params = append(function.Params, boundaryParam{Name: parameter.Name, Type: abi})
		params = append(params, jen.Id(parameter.Name).Add(cType(abi)))
	}
	return params
}

func (g *goEmitter) goArguments(parameters []ir.Parameter) []jen.Code {
	arguments := make([]jen.Code, 0, len(parameters))
	for _, parameter := range parameters {
		arguments = append(arguments, g.fromC(lookup(parameter.Type), parameter.Name))
	}
	return arguments
}

func (g *goEmitter) render() ([]byte, error) {
	f := jen.NewFile(g.options.PackageName)
	f.HeaderComment("Code generated by goqtbridge. DO NOT EDIT.")
	f.ImportName(g.runtime(), "qtlib")

	g.interfaces(f)
	g.qobject(f)
	g.state(f)
	g.exports(f)
	g.adapters(f)
	f.CgoPreamble(g.preamble())

	var buffer bytes.Buffer
	if err := f.Render(&buffer); err != nil {
		return nil, fmt.Errorf("rendering Go shim of %s: %w", g.object.Name, err)
	}
	return buffer.Bytes(), nil
}

func (g *goEmitter) preamble() string {
	var buffer bytes.Buffer
	buffer.WriteString("#include <stdlib.h>\n")
	fmt.Fprintf(&buffer, "#include \"%s\"\n", AbiHeader)
	if len(g.boundary.nativeExports) > 0 {
		buffer.WriteString("\n")
	}
	for _, function := range g.boundary.nativeExports {
		buffer.WriteString("extern " + function.declaration() + "\n")
	}
	return buffer.String()
}

func (g *goEmitter) interfaces(f *jen.File) {
	qobject := jen.Id("q").Op("*").Id(g.qobjectName())

	methods := make([]jen.Code, 0)
	if g.object.RequiresInit {
		methods = append(methods, jen.Comment("Initialize runs once the native object is fully constructed."))
		methods = append(methods, jen.Id("Initialize").Params(qobject.Clone()))
	}
	for _, property := range g.object.Properties {
		goType := g.goType(lookup(property.Type))
		if property.Doc != "" {
			methods = append(methods, jen.Comment(property.Doc))
		}
		methods = append(methods, jen.Id(ir.Exported(property.Name)).Params().Add(goType.Clone()))
		if property.Writable() {
			methods = append(methods, jen.Id("Set"+ir.Exported(property.Name)).Params(jen.Id("value").Add(goType.Clone())))
		}
	}
	for _, invokable := range g.object.Invokables {
		if invokable.Static {
			continue
		}
		params := g.goParams(invokable.Parameters)
		if invokable.Mutable {
			params = append([]jen.Code{qobject.Clone()}, params...)
		}
		if invokable.Doc != "" {
			methods = append(methods, jen.Comment(invokable.Doc))
		}
		methods = append(methods, jen.Id(ir.Exported(invokable.Name)).Params(params...).Add(g.result(invokable.Returns)))
	}

	f.Commentf("%s is the Go state behind every native %s.", g.implName(), g.object.Name)
	f.Type().Id(g.implName()).Interface(methods...)

	if statics := g.object.Statics(); len(statics) > 0 {
		methods := make([]jen.Code, 0, len(statics))
		for _, invokable := range statics {
			methods = append(methods, jen.Id(ir.Exported(invokable.Name)).Params(g.goParams(invokable.Parameters)...).Add(g.result(invokable.Returns)))
		}
		f.Line()
		f.Commentf("%s implements the static invokables of %s.", g.staticsName(), g.object.Name)
		f.Type().Id(g.staticsName()).Interface(methods...)
	}
}

func (g *goEmitter) result(identity string) *jen.Statement {
	if identity == "" {
		return jen.Null()
	}
	return g.goType(lookup(identity))
}

func (g *goEmitter) qobject(f *jen.File) {
	name := g.qobjectName()
	f.Line()
	f.Commentf("%s is the native %s a Go state belongs to.", name, g.object.Name)
	f.Type().Id(name).Struct(jen.Id("ptr").Qual("unsafe", "Pointer"))

	f.Line()
	f.Func().Params(jen.Id("q").Op("*").Id(name)).Id("Pointer").Params().Qual("unsafe", "Pointer").Block(
		jen.Return(jen.Id("q").Dot("ptr")),
	)

	obj := boundaryParam{Name: "obj", Type: objectType}
	for _, property := range g.object.Properties {
		entry := lookup(property.Type)
		if !property.Writable() && !entry.Mirrored() {
			continue
		}
		function := boundaryFunction{
			Name:   g.symbols.nativeSet(property.Name),
			Result: "void",
			Params: []boundaryParam{obj, {Name: "value", Type: entry.AbiType}},
		}
		g.boundary.nativeExports = append(g.boundary.nativeExports, function)

		f.Line()
		if property.Writable() {
			f.Commentf("Set%s writes %s through the native setter, which notifies observers.", ir.Exported(property.Name), property.Name)
		} else {
			f.Commentf("Set%s publishes a new value of the read-only %s to native readers.", ir.Exported(property.Name), property.Name)
		}
		f.Func().Params(jen.Id("q").Op("*").Id(name)).Id("Set"+ir.Exported(property.Name)).Params(jen.Id("value").Add(g.goType(entry))).Block(
			jen.Qual("C", function.Name).Call(jen.Id("q").Dot("ptr"), g.toC(entry, "value", true)),
		)
	}

	for _, signal := range g.object.Signals {
		function := boundaryFunction{Name: g.symbols.emit(signal.Name), Result: "void", Params: []boundaryParam{obj}}
		arguments := []jen.Code{jen.Id("q").Dot("ptr")}
		for _, parameter := range signal.Parameters {
			entry := lookup(parameter.Type)
			function.Params = append(function.Params, boundaryParam{Name: parameter.Name, Type: entry.AbiType})
			arguments = append(arguments, g.toC(entry, parameter.Name, true))
		}
		g.boundary.nativeExports = append(g.boundary.nativeExports, function)

		f.Line()
		f.Func().Params(jen.Id("q").Op("*").Id(name)).Id("Emit"+ir.Exported(signal.Name)).Params(g.goParams(signal.Parameters)...).Block(
			jen.Qual("C", function.Name).Call(arguments...),
		)
	}
}

func (g *goEmitter) state(f *jen.File) {
	factory := g.lower + "Factory"
	constructor := g.lower + "Constructor"
	statics := g.lower + "Statics"

	f.Line()
	f.Type().Id(g.stateName()).Struct(
		jen.Id("impl").Id(g.implName()),
		jen.Id("qobject").Op("*").Id(g.qobjectName()),
	)

	vars := []jen.Code{jen.Id(factory).Func().Params().Id(g.implName())}
	if g.object.Constructor != nil {
		vars = append(vars, jen.Id(constructor).Func().Params(g.goParams(g.object.Constructor.Arguments)...).Id(g.implName()))
	}
	if len(g.object.Statics()) > 0 {
		vars = append(vars, jen.Id(statics).Id(g.staticsName()))
	}
	f.Line()
	f.Var().Defs(vars...)

	f.Line()
	f.Commentf("Register%s sets the factory creating the Go state of every new %s.", g.object.Name, g.object.Name)
	f.Func().Id("Register"+g.object.Name).Params(jen.Id("factory").Func().Params().Id(g.implName())).Block(
		jen.Id(factory).Op("=").Id("factory"),
	)

	if g.object.Constructor != nil {
		f.Line()
		f.Commentf("Register%sConstructor sets the factory used by the native constructor taking arguments.", g.object.Name)
		f.Func().Id("Register"+g.object.Name+"Constructor").Params(
			jen.Id("constructor").Func().Params(g.goParams(g.object.Constructor.Arguments)...).Id(g.implName()),
		).Block(
			jen.Id(constructor).Op("=").Id("constructor"),
		)
	}

	if len(g.object.Statics()) > 0 {
		f.Line()
		f.Func().Id("Register"+g.object.Name+"Statics").Params(jen.Id("statics").Id(g.staticsName())).Block(
			jen.Id(statics).Op("=").Id("statics"),
		)
	}

	f.Line()
	f.Func().Id(g.stateOf()).Params(jen.Id("handle").Qual("C", handleType)).Op("*").Id(g.stateName()).Block(
		jen.Return(jen.Qual("runtime/cgo", "Handle").Call(jen.Id("handle")).Dot("Value").Call().Assert(jen.Op("*").Id(g.stateName()))),
	)

	f.Line()
	f.Func().Id(g.newState()).Params(jen.Id("obj").Qual("unsafe", "Pointer"), jen.Id("impl").Id(g.implName())).Qual("C", handleType).Block(
		jen.Id("state").Op(":=").Op("&").Id(g.stateName()).Values(jen.Dict{
			jen.Id("impl"):    jen.Id("impl"),
			jen.Id("qobject"): jen.Op("&").Id(g.qobjectName()).Values(jen.Dict{jen.Id("ptr"): jen.Id("obj")}),
		}),
		jen.Return(jen.Qual("C", handleType).Call(jen.Qual("runtime/cgo", "NewHandle").Call(jen.Id("state")))),
	)
}

func (g *goEmitter) export(f *jen.File, function boundaryFunction, params []jen.Code, body ...jen.Code) {
	g.boundary.goExports = append(g.boundary.goExports, function)

	result := jen.Null()
	if function.Result != "void" {
		result = cType(function.Result)
	}
	f.Line()
	f.Comment("//export " + function.Name)
	f.Func().Id(function.Name).Params(params...).Add(result).Block(body...)
}

func missing(register, object string) jen.Code {
	return jen.Panic(jen.Lit(fmt.Sprintf("goqtbridge: %s was not called before creating a %s", register, object)))
}

func (g *goEmitter) exports(f *jen.File) {
	s := g.symbols
	name := g.object.Name
	handle := boundaryParam{Name: "handle", Type: handleType}
	handleParam := jen.Id("handle").Qual("C", handleType)
	obj := boundaryParam{Name: "obj", Type: objectType}
	objParam := jen.Id("obj").Qual("unsafe", "Pointer")
	state := jen.Id("state").Op(":=").Id(g.stateOf()).Call(jen.Id("handle"))

	g.export(f,
		boundaryFunction{Name: s.create(), Result: handleType, Params: []boundaryParam{obj}},
		[]jen.Code{objParam},
		jen.If(jen.Id(g.lower+"Factory").Op("==").Nil()).Block(missing("Register"+name, name)),
		jen.Return(jen.Id(g.newState()).Call(jen.Id("obj"), jen.Id(g.lower+"Factory").Call())),
	)

	if g.object.Constructor != nil {
		function := boundaryFunction{Name: s.createWith(), Result: handleType, Params: []boundaryParam{obj}}
		params := append([]jen.Code{objParam.Clone()}, g.cParams(&function, g.object.Constructor.Arguments)...)
		g.export(f, function, params,
			jen.If(jen.Id(g.lower+"Constructor").Op("==").Nil()).Block(missing("Register"+name+"Constructor", name)),
			jen.Return(jen.Id(g.newState()).Call(
				jen.Id("obj"),
				jen.Id(g.lower+"Constructor").Call(g.goArguments(g.object.Constructor.Arguments)...),
			)),
		)
	}

	if g.object.RequiresInit {
		g.export(f,
			boundaryFunction{Name: s.initialize(), Result: "void", Params: []boundaryParam{handle}},
			[]jen.Code{handleParam.Clone()},
			state.Clone(),
			jen.Id("state").Dot("impl").Dot("Initialize").Call(jen.Id("state").Dot("qobject")),
		)
	}

	g.export(f,
		boundaryFunction{Name: s.drop(), Result: "void", Params: []boundaryParam{handle}},
		[]jen.Code{handleParam.Clone()},
		jen.Qual("runtime/cgo", "Handle").Call(jen.Id("handle")).Dot("Delete").Call(),
	)

	for _, property := range g.object.Properties {
		entry := lookup(property.Type)
		g.export(f,
			boundaryFunction{Name: s.get(property.Name), Result: entry.AbiType, Params: []boundaryParam{handle}},
			[]jen.Code{handleParam.Clone()},
			jen.Id("result").Op(":=").Id(g.stateOf()).Call(jen.Id("handle")).Dot("impl").Dot(ir.Exported(property.Name)).Call(),
			jen.Return(g.toC(entry, "result", false)),
		)
		if property.Writable() {
			g.export(f,
				boundaryFunction{Name: s.set(property.Name), Result: "void", Params: []boundaryParam{handle, {Name: "value", Type: entry.AbiType}}},
				[]jen.Code{handleParam.Clone(), jen.Id("value").Add(cType(entry.AbiType))},
				jen.Id(g.stateOf()).Call(jen.Id("handle")).Dot("impl").Dot("Set"+ir.Exported(property.Name)).Call(g.fromC(entry, "value")),
			)
		}
	}

	for _, invokable := range g.object.Invokables {
		g.invokable(f, invokable, handle, handleParam, state)
	}
}

func (g *goEmitter) invokable(f *jen.File, invokable ir.Invokable, handle boundaryParam, handleParam, state *jen.Statement) {
	function := boundaryFunction{Result: "void"}
	if invokable.Returns != "" {
		function.Result = lookup(invokable.Returns).AbiType
	}

	params := make([]jen.Code, 0, len(invokable.Parameters)+1)
	body := make([]jen.Code, 0, 3)
	arguments := g.goArguments(invokable.Parameters)
	var call *jen.Statement

	if invokable.Static {
		function.Name = g.symbols.static(invokable.Name)
		statics := g.lower + "Statics"
		body = append(body, jen.If(jen.Id(statics).Op("==").Nil()).Block(missing("Register"+g.object.Name+"Statics", g.object.Name)))
		call = jen.Id(statics).Dot(ir.Exported(invokable.Name)).Call(arguments...)
	} else {
		function.Name = g.symbols.invoke(invokable.Name)
		function.Params = append(function.Params, handle)
		params = append(params, handleParam.Clone())
		body = append(body, state.Clone())
		if invokable.Mutable {
			arguments = append([]jen.Code{jen.Id("state").Dot("qobject")}, arguments...)
		}
		call = jen.Id("state").Dot("impl").Dot(ir.Exported(invokable.Name)).Call(arguments...)
	}
	params = append(params, g.cParams(&function, invokable.Parameters)...)

	if invokable.Returns == "" {
		body = append(body, call)
	} else {
		body = append(body,
			jen.Id("result").Op(":=").Add(call),
			jen.Return(g.toC(lookup(invokable.Returns), "result", true)),
		)
	}
	g.export(f, function, params, body...)
}

func (g *goEmitter) adapters(f *jen.File) {
	units := func(value *jen.Statement) *jen.Statement {
		return jen.Qual("unsafe", "Slice").Call(
			jen.Parens(jen.Op("*").Uint16()).Call(jen.Qual("unsafe", "Pointer").Call(value.Clone().Dot("data"))),
			jen.Int().Call(value.Clone().Dot("len")),
		)
	}
	value := jen.Id("value")
	stringType := jen.Qual("C", "goqtbridge_string")

	// Components cross in the field order of the registry entry, which is
	// also the argument order of the qtlib component functions.
	componentsFromAbi := func(name, identity string, convert func() *jen.Statement) {
		entry := lookup(identity)
		arguments := make([]jen.Code, 0, len(entry.Fields))
		for _, field := range entry.Fields {
			arguments = append(arguments, convert().Call(value.Clone().Dot(field)))
		}
		f.Func().Id(name).Params(jen.Id("value").Qual("C", entry.AbiType)).Qual(g.runtime(), entry.GoType.Name).Block(
			jen.Return(jen.Qual(g.runtime(), entry.GoType.Name+"FromComponents").Call(arguments...)),
		)
	}
	componentsToAbi := func(name, identity, component string) {
		entry := lookup(identity)
		names := make([]jen.Code, 0, len(entry.Fields))
		fields := jen.Dict{}
		for _, field := range entry.Fields {
			names = append(names, jen.Id(field))
			fields[jen.Id(field)] = jen.Qual("C", component).Call(jen.Id(field))
		}
		f.Func().Id(name).Params(jen.Id("value").Qual(g.runtime(), entry.GoType.Name)).Qual("C", entry.AbiType).Block(
			jen.List(names...).Op(":=").Id("value").Dot("Components").Call(),
			jen.Return(jen.Qual("C", entry.AbiType).Values(fields)),
		)
	}

	definitions := [adapterCount]func(name string){
		stringFromAbi: func(name string) {
			f.Func().Id(name).Params(jen.Id("value").Add(stringType.Clone())).String().Block(
				jen.If(value.Clone().Dot("len").Op("==").Lit(0)).Block(jen.Return(jen.Lit(""))),
				jen.Return(jen.Qual(g.runtime(), "StringFromUTF16").Call(units(value))),
			)
		},
		stringToAbi: func(name string) {
			f.Func().Id(name).Params(jen.Id("value").String()).Add(stringType.Clone()).Block(
				jen.Return(jen.Id(g.lower+"UnitsToAbi").Call(jen.Qual(g.runtime(), "StringToUTF16").Call(jen.Id("value")))),
			)
		},
		unitsToAbi: func(name string) {
			f.Comment("The receiver frees data.")
			f.Func().Id(name).Params(jen.Id("units").Index().Uint16()).Add(stringType.Clone()).Block(
				jen.If(jen.Len(jen.Id("units")).Op("==").Lit(0)).Block(jen.Return(stringType.Clone().Values())),
				jen.Id("data").Op(":=").Parens(jen.Op("*").Qual("C", "uint16_t")).Call(
					jen.Qual("C", "malloc").Call(jen.Qual("C", "size_t").Call(jen.Len(jen.Id("units")).Op("*").Lit(2))),
				),
				jen.Copy(
					jen.Qual("unsafe", "Slice").Call(jen.Parens(jen.Op("*").Uint16()).Call(jen.Qual("unsafe", "Pointer").Call(jen.Id("data"))), jen.Len(jen.Id("units"))),
					jen.Id("units"),
				),
				jen.Return(stringType.Clone().Values(jen.Dict{
					jen.Id("data"): jen.Id("data"),
					jen.Id("len"):  jen.Qual("C", "ptrdiff_t").Call(jen.Len(jen.Id("units"))),
				})),
			)
		},
		marginsFromAbi: func(name string) { componentsFromAbi(name, "MarginsF", jen.Float64) },
		marginsToAbi:   func(name string) { componentsToAbi(name, "MarginsF", "double") },
		colorFromAbi:   func(name string) { componentsFromAbi(name, "Color", jen.Int32) },
		colorToAbi:     func(name string) { componentsToAbi(name, "Color", "int32_t") },
		variantFromAbi: func(name string) {
			payload := value.Clone().Dot("string")
			f.Comment("The string payload is copied and freed.")
			f.Func().Id(name).Params(jen.Id("value").Qual("C", "goqtbridge_variant")).Qual(g.runtime(), "Variant").Block(
				jen.Id("raw").Op(":=").Qual(g.runtime(), "RawVariant").Values(jen.Dict{
					jen.Id("Kind"):   jen.Int32().Call(value.Clone().Dot("kind")),
					jen.Id("Bool"):   jen.Bool().Call(value.Clone().Dot("boolean")),
					jen.Id("Int"):    jen.Int64().Call(value.Clone().Dot("integer")),
					jen.Id("Double"): jen.Float64().Call(value.Clone().Dot("real")),
				}),
				jen.If(payload.Clone().Dot("len").Op(">").Lit(0)).Block(
					jen.Id("raw").Dot("String").Op("=").Add(units(payload)),
				),
				jen.Id("variant").Op(":=").Qual(g.runtime(), "VariantFromRaw").Call(jen.Id("raw")),
				jen.Qual("C", "free").Call(jen.Qual("unsafe", "Pointer").Call(payload.Clone().Dot("data"))),
				jen.Return(jen.Id("variant")),
			)
		},
		variantToAbi: func(name string) {
			f.Func().Id(name).Params(jen.Id("value").Qual(g.runtime(), "Variant")).Qual("C", "goqtbridge_variant").Block(
				jen.Id("raw").Op(":=").Id("value").Dot("Raw").Call(),
				jen.Return(jen.Qual("C", "goqtbridge_variant").Values(jen.Dict{
					jen.Id("kind"):    jen.Qual("C", "int32_t").Call(jen.Id("raw").Dot("Kind")),
					jen.Id("boolean"): jen.Qual("C", "bool").Call(jen.Id("raw").Dot("Bool")),
					jen.Id("integer"): jen.Qual("C", "int64_t").Call(jen.Id("raw").Dot("Int")),
					jen.Id("real"):    jen.Qual("C", "double").Call(jen.Id("raw").Dot("Double")),
					jen.Id("string"):  jen.Id(g.lower + "UnitsToAbi").Call(jen.Id("raw").Dot("String")),
				})),
			)
		},
	}

	for a := adapter(0); a < adapterCount; a++ {
		if !g.needed[a] {
			continue
		}
		f.Line()
		definitions[a](g.use(a))
	}
}
