package analysis

import (
	"strings"

	"github.com/Myriad-Dreamin/tinymist-sub003/foundations"
	"github.com/Myriad-Dreamin/tinymist-sub003/syntax"
	"github.com/Myriad-Dreamin/tinymist-sub003/ty"
	"github.com/Myriad-Dreamin/tinymist-sub003/util"
)

// Signature describes a resolved function signature, either primary or
// partially applied.
type Signature interface {
	// Primary is the underlying full signature.
	Primary() *PrimarySignature
	// Bindings are the argument lists bound by partial application, oldest
	// first.
	Bindings() []ArgsInfo
	// ParamShift counts the positional slots consumed by the bindings.
	ParamShift() int
}

// PrimarySignature is a full function signature.
type PrimarySignature struct {
	// Docs is the function's documentation.
	Docs string
	// ParamSpecs holds positional parameters, then named parameters in
	// name order, then the rest parameter.
	ParamSpecs []*ty.ParamSpec
	// HasFillOrSizeOrStroke reports whether a named parameter is one of
	// fill, stroke or size.
	HasFillOrSizeOrStroke bool
	// SigTy is the signature type.
	SigTy *ty.SigTy
	// Broken marks a malformed declaration, such as a second rest
	// parameter.
	Broken bool
}

func (sig *PrimarySignature) Primary() *PrimarySignature { return sig }
func (sig *PrimarySignature) Bindings() []ArgsInfo       { return nil }
func (sig *PrimarySignature) ParamShift() int            { return 0 }

// PosSize is the number of positional parameters.
func (sig *PrimarySignature) PosSize() int { return sig.SigTy.NameStarted }

// Pos returns the positional parameter specs.
func (sig *PrimarySignature) Pos() []*ty.ParamSpec {
	return sig.ParamSpecs[:sig.PosSize()]
}

// GetPos returns the positional parameter spec at offset, nil if out of
// range.
func (sig *PrimarySignature) GetPos(offset int) *ty.ParamSpec {
	if offset < 0 || offset >= sig.PosSize() {
		return nil
	}
	return sig.ParamSpecs[offset]
}

// Named returns the named parameter specs in name order.
func (sig *PrimarySignature) Named() []*ty.ParamSpec {
	return sig.ParamSpecs[sig.PosSize() : sig.PosSize()+sig.SigTy.Names.Len()]
}

// GetNamed looks a named parameter spec up by name.
func (sig *PrimarySignature) GetNamed(name string) *ty.ParamSpec {
	idx, ok := sig.SigTy.Names.Find(name)
	if !ok {
		return nil
	}
	return sig.Named()[idx]
}

// Rest returns the rest parameter spec, nil if the function takes none.
func (sig *PrimarySignature) Rest() *ty.ParamSpec {
	if !sig.SigTy.SpreadRight {
		return nil
	}
	return sig.ParamSpecs[sig.PosSize()+sig.SigTy.Names.Len()]
}

// ArgInfo is one argument bound by a partial application.
type ArgInfo struct {
	// Name is set for named arguments.
	Name string
	// Term is the argument's value type, nil if unknown.
	Term ty.Ty
}

// ArgsInfo is one bound argument list.
type ArgsInfo struct {
	Items []ArgInfo
}

// PartialSignature is a signature with `fn.with(..)` argument lists bound
// onto it.
type PartialSignature struct {
	Sig *PrimarySignature
	// WithStack holds the bound argument lists, oldest first.
	WithStack []ArgsInfo
}

func (sig *PartialSignature) Primary() *PrimarySignature { return sig.Sig }
func (sig *PartialSignature) Bindings() []ArgsInfo       { return sig.WithStack }

func (sig *PartialSignature) ParamShift() int {
	shift := 0
	for _, ws := range sig.WithStack {
		shift += len(ws.Items)
	}
	return shift
}

// FuncSignature resolves the signature of a function value, unwrapping any
// partial-application chain.
func FuncSignature(fn *foundations.Func) Signature {
	var chain []*foundations.Args
	for {
		inner, args, ok := fn.Applied()
		if !ok {
			break
		}
		chain = append(chain, args)
		fn = inner
	}
	// Unwrapping visits the newest application first.
	var withStack []ArgsInfo
	for args := range util.Reverse(chain) {
		items := make([]ArgInfo, 0, len(args.Items))
		for _, arg := range args.Items {
			info := ArgInfo{Name: arg.Name}
			if arg.Value != nil {
				info.Term = ty.NewValue(arg.Value)
			}
			items = append(items, info)
		}
		withStack = append(withStack, ArgsInfo{Items: items})
	}

	collector := newParamCollector()
	var retTy ty.Ty
	if native, ok := fn.Native(); ok {
		for _, param := range native.Params {
			collector.add(nativeParamSpec(fn, param))
		}
		if native.Ret != nil {
			retTy = ty.FromReturnSite(fn, native.Ret)
		}
	} else if closure, ok := fn.Closure(); ok {
		collectClosureParams(closure, collector)
	}

	sig := collector.finish(fn, retTy)
	if len(withStack) == 0 {
		return sig
	}
	return &PartialSignature{Sig: sig, WithStack: withStack}
}

type paramCollector struct {
	posTys     []ty.Ty
	namedTys   []ty.RecordField
	restTy     ty.Ty
	posSpecs   []*ty.ParamSpec
	namedSpecs map[string]*ty.ParamSpec
	restSpec   *ty.ParamSpec

	broken                bool
	hasFillOrSizeOrStroke bool
}

func newParamCollector() *paramCollector {
	return &paramCollector{namedSpecs: map[string]*ty.ParamSpec{}}
}

func (c *paramCollector) add(spec *ty.ParamSpec) {
	if spec.Attrs.Named {
		switch spec.Name {
		case "fill", "stroke", "size":
			c.hasFillOrSizeOrStroke = true
		}
		c.namedTys = append(c.namedTys, ty.RecordField{Name: spec.Name, Ty: spec.Ty})
		c.namedSpecs[spec.Name] = spec
	}

	switch {
	case spec.Attrs.Variadic:
		if c.restTy != nil {
			c.broken = true
		} else {
			c.restTy = spec.Ty
			c.restSpec = spec
		}
	case spec.Attrs.Positional:
		c.posTys = append(c.posTys, spec.Ty)
		c.posSpecs = append(c.posSpecs, spec)
	}
}

func (c *paramCollector) finish(fn *foundations.Func, retTy ty.Ty) *PrimarySignature {
	sigTy := ty.NewSigTy(c.posTys, c.namedTys, c.restTy, retTy)

	specs := make([]*ty.ParamSpec, 0, len(c.posSpecs)+len(c.namedTys)+1)
	specs = append(specs, c.posSpecs...)
	for _, name := range sigTy.Names.Names {
		if spec, ok := c.namedSpecs[name]; ok {
			specs = append(specs, spec)
		}
	}
	if c.restSpec != nil {
		specs = append(specs, c.restSpec)
	}

	var docs string
	if native, ok := fn.Native(); ok {
		docs = native.Docs
	}
	return &PrimarySignature{
		Docs:                  docs,
		ParamSpecs:            specs,
		HasFillOrSizeOrStroke: c.hasFillOrSizeOrStroke,
		SigTy:                 sigTy,
		Broken:                c.broken,
	}
}

func nativeParamSpec(fn *foundations.Func, param *foundations.ParamInfo) *ty.ParamSpec {
	var dflt string
	if param.Default != nil {
		dflt = truncatedRepr(param.Default())
	}
	return &ty.ParamSpec{
		Name:    param.Name,
		Docs:    param.Docs,
		Default: dflt,
		Ty:      ty.FromParamSite(fn, param),
		Attrs: ty.ParamAttrs{
			Positional: param.Positional,
			Named:      param.Named,
			Variadic:   param.Variadic,
			Settable:   param.Settable,
		},
	}
}

func collectClosureParams(node *syntax.Node, c *paramCollector) {
	closure, ok := syntax.AsClosure(node)
	if !ok {
		return
	}
	for _, param := range closure.Params() {
		switch param.Kind() {
		case syntax.Named:
			named, ok := syntax.AsNamed(param)
			if !ok {
				continue
			}
			dflt := unwrapParens(named.Expr()).Text()
			c.add(&ty.ParamSpec{
				Name:    named.Name().Text(),
				Docs:    "Default value: " + dflt,
				Default: dflt,
				Ty:      ty.Any,
				Attrs:   ty.ParamAttrs{Named: true},
			})
		case syntax.Spread:
			spread, ok := syntax.AsSpread(param)
			if !ok {
				continue
			}
			name := ""
			if sink := spread.SinkIdent(); sink != nil {
				name = sink.Text()
			}
			c.add(ty.RestSpec(name, ty.Any))
		default:
			c.add(ty.PositionalSpec(patternRepr(param), ty.Any))
		}
	}
}

// patternRepr renders a parameter pattern for display.
func patternRepr(node *syntax.Node) string {
	switch node.Kind() {
	case syntax.Ident:
		return node.Text()
	case syntax.Underscore:
		return "_"
	case syntax.Parenthesized, syntax.Array, syntax.Dict:
		var parts []string
		for _, child := range node.Children() {
			switch child.Kind() {
			case syntax.Ident, syntax.Underscore, syntax.Parenthesized,
				syntax.Array, syntax.Dict:
				parts = append(parts, patternRepr(child))
			case syntax.Named:
				if named, ok := syntax.AsNamed(child); ok {
					parts = append(parts, named.Name().Text()+": "+unwrapParens(named.Expr()).Text())
				}
			case syntax.Spread:
				if spread, ok := syntax.AsSpread(child); ok {
					name := ""
					if sink := spread.SinkIdent(); sink != nil {
						name = sink.Text()
					}
					parts = append(parts, ".."+name)
				}
			}
		}
		return "(" + strings.Join(parts, ", ") + ")"
	default:
		return "?"
	}
}

func unwrapParens(node *syntax.Node) *syntax.Node {
	for node != nil && node.Kind() == syntax.Parenthesized {
		inner := node
		node = nil
		for _, child := range inner.Children() {
			switch child.Kind() {
			case syntax.LeftParen, syntax.RightParen, syntax.Space, syntax.Comma:
			default:
				node = child
			}
		}
		if node == nil {
			return inner
		}
	}
	return node
}

const reprLimit = 180

func truncatedRepr(v foundations.Value) string {
	repr := v.Repr()
	if len(repr) > reprLimit {
		repr = repr[:reprLimit] + ".."
	}
	return repr
}
