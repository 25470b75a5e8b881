package analysis

import (
	"strconv"
	"strings"

	"github.com/Myriad-Dreamin/tinymist-sub003/foundations"
	"github.com/Myriad-Dreamin/tinymist-sub003/syntax"
	"github.com/Myriad-Dreamin/tinymist-sub003/ty"
)

// SeedTypes builds the baseline type table for a source tree in one walk:
// literals get value types, let bindings allocate type variables bounded by
// their initializers, and closures become function values resolvable
// through the signature cache. The refiner sharpens this table per
// request; it never mutates it.
func SeedTypes(root *syntax.Node, scope *foundations.Scope) *ty.TypeInfo {
	info := ty.NewTypeInfo()
	s := &seeder{
		info:  info,
		ctx:   NewContext(info),
		scope: scope,
		env:   []map[string]ty.Ty{{}},
	}
	s.exprChildren(root)
	for name, t := range s.env[0] {
		s.info.Exports[name] = t
	}
	s.info.Valid = true
	return s.info
}

// maxSeedDepth bounds the seeding walk; parsed trees run a few nodes per
// expression level and stay well below it. Deeper nodes seed no
// information.
const maxSeedDepth = 2048

type seeder struct {
	info  *ty.TypeInfo
	ctx   *Context
	scope *foundations.Scope
	env   []map[string]ty.Ty
	depth int
}

func (s *seeder) pushScope() { s.env = append(s.env, map[string]ty.Ty{}) }
func (s *seeder) popScope()  { s.env = s.env[:len(s.env)-1] }

func (s *seeder) bind(name string, t ty.Ty) {
	if name != "" {
		s.env[len(s.env)-1][name] = t
	}
}

func (s *seeder) lookup(name string) ty.Ty {
	for i := len(s.env) - 1; i >= 0; i-- {
		if t, ok := s.env[i][name]; ok {
			return t
		}
	}
	if s.scope != nil {
		if val, ok := s.scope.Get(name); ok {
			return ty.NewValue(val)
		}
	}
	return nil
}

func (s *seeder) witness(node *syntax.Node, t ty.Ty) ty.Ty {
	if t != nil {
		s.info.Witness(node.Span(), t)
	}
	return t
}

func (s *seeder) exprChildren(node *syntax.Node) ty.Ty {
	var last ty.Ty
	for _, child := range node.Children() {
		if t := s.expr(child); t != nil {
			last = t
		}
	}
	return last
}

func (s *seeder) expr(node *syntax.Node) ty.Ty {
	if node == nil || s.depth >= maxSeedDepth {
		return nil
	}
	s.depth++
	t := s.exprNode(node)
	s.depth--
	return t
}

func (s *seeder) exprNode(node *syntax.Node) ty.Ty {
	switch node.Kind() {
	case syntax.IntLit:
		n, _ := strconv.ParseInt(node.Text(), 10, 64)
		return s.witness(node, ty.NewValue(foundations.Int(n)))
	case syntax.FloatLit:
		f, _ := strconv.ParseFloat(node.Text(), 64)
		return s.witness(node, ty.NewValue(foundations.Float(f)))
	case syntax.StrLit:
		return s.witness(node, ty.NewValue(foundations.Str(unquote(node.Text()))))
	case syntax.BoolLit:
		return s.witness(node, ty.NewValue(foundations.Bool(node.Text() == "true")))
	case syntax.NoneLit:
		return s.witness(node, ty.None)
	case syntax.AutoLit:
		return s.witness(node, ty.Auto)
	case syntax.Label:
		return nil
	case syntax.Ident:
		return s.witness(node, s.lookup(node.Text()))
	case syntax.Parenthesized:
		var inner ty.Ty
		for _, child := range node.Children() {
			if t := s.expr(child); t != nil {
				inner = t
			}
		}
		return s.witness(node, inner)
	case syntax.Array:
		return s.witness(node, s.collection(node))
	case syntax.Dict:
		return s.witness(node, s.record(node))
	case syntax.Unary:
		return s.witness(node, s.unary(node))
	case syntax.Binary:
		return s.witness(node, s.binary(node))
	case syntax.FieldAccess:
		return s.witness(node, s.fieldAccess(node))
	case syntax.FuncCall, syntax.SetRule:
		return s.witness(node, s.call(node))
	case syntax.LetBinding:
		return s.letBinding(node)
	case syntax.Closure:
		return s.witness(node, s.closure(node))
	case syntax.ModuleImport, syntax.ModuleInclude:
		s.exprChildren(node)
		return nil
	case syntax.Named:
		if named, ok := syntax.AsNamed(node); ok {
			return s.expr(named.Expr())
		}
		return nil
	case syntax.Spread:
		if spread, ok := syntax.AsSpread(node); ok {
			return s.expr(spread.Expr())
		}
		return nil
	case syntax.Code, syntax.ContentBlock, syntax.Args, syntax.Params:
		return s.exprChildren(node)
	}
	return nil
}

// collection types a parenthesized or bracketed literal: positional items
// make a tuple, named items make a record.
func (s *seeder) collection(node *syntax.Node) ty.Ty {
	var elems []ty.Ty
	var fields []ty.RecordField
	for _, child := range node.Children() {
		switch child.Kind() {
		case syntax.LeftParen, syntax.RightParen, syntax.Comma, syntax.Space, syntax.LineComment:
		case syntax.Named:
			named, ok := syntax.AsNamed(child)
			if !ok {
				continue
			}
			t := s.expr(named.Expr())
			if t == nil {
				t = ty.Any
			}
			fields = append(fields, ty.RecordField{Name: named.Name().Text(), Ty: t})
		case syntax.Spread:
			s.expr(child)
		default:
			t := s.expr(child)
			if t == nil {
				t = ty.Any
			}
			elems = append(elems, t)
		}
	}
	if len(fields) > 0 {
		return ty.NewDict(ty.NewRecord(fields))
	}
	return ty.NewTuple(elems)
}

func (s *seeder) record(node *syntax.Node) ty.Ty {
	var fields []ty.RecordField
	for _, child := range node.Children() {
		if child.Kind() != syntax.Named {
			s.expr(child)
			continue
		}
		named, ok := syntax.AsNamed(child)
		if !ok {
			continue
		}
		t := s.expr(named.Expr())
		if t == nil {
			t = ty.Any
		}
		fields = append(fields, ty.RecordField{Name: named.Name().Text(), Ty: t})
	}
	return ty.NewDict(ty.NewRecord(fields))
}

func (s *seeder) unary(node *syntax.Node) ty.Ty {
	op := syntax.Error
	var val ty.Ty
	for _, child := range node.Children() {
		switch child.Kind() {
		case syntax.Plus, syntax.Minus:
			op = child.Kind()
		case syntax.Space, syntax.LineComment:
		default:
			val = s.expr(child)
		}
	}
	if val == nil {
		return nil
	}
	return ty.NewUnary(op, val)
}

func (s *seeder) binary(node *syntax.Node) ty.Ty {
	op := syntax.Error
	var lhs, rhs ty.Ty
	for _, child := range node.Children() {
		switch child.Kind() {
		case syntax.Plus, syntax.Minus, syntax.Star, syntax.Slash:
			op = child.Kind()
		case syntax.Space, syntax.LineComment:
		default:
			t := s.expr(child)
			if lhs == nil {
				lhs = t
			} else {
				rhs = t
			}
		}
	}
	if lhs == nil || rhs == nil {
		return nil
	}
	return ty.NewBinary(op, lhs, rhs)
}

func (s *seeder) fieldAccess(node *syntax.Node) ty.Ty {
	target := s.expr(syntax.FieldAccessTarget(node))
	name := syntax.FieldAccessName(node)
	if target == nil || name == nil {
		return nil
	}
	return ty.NewSelect(target, name.Text())
}

func (s *seeder) call(node *syntax.Node) ty.Ty {
	call, ok := syntax.AsCall(node)
	if !ok {
		return nil
	}
	if name := syntax.FieldAccessName(call.Callee()); name != nil && name.Text() == "with" {
		return s.withCall(node, call)
	}
	callee := s.expr(call.Callee())
	if args := call.ArgsNode(); args != nil {
		s.exprChildren(args)
	}
	if callee == nil {
		return nil
	}
	// The call's result is the resolved signature's return type, when one
	// is statically visible.
	if sig := ty.SigRepr(callee, true, s.ctx); sig != nil && sig.Ret != nil {
		return sig.Ret
	}
	return nil
}

// withCall seeds `f.with(..)` as a partial application of f, so later
// argument binding shifts past the bound arguments.
func (s *seeder) withCall(node *syntax.Node, call syntax.Call) ty.Ty {
	target := s.expr(syntax.FieldAccessTarget(call.Callee()))
	args := call.ArgsNode()
	if args != nil {
		s.exprChildren(args)
	}
	val, ok := target.(*ty.Value)
	if !ok {
		return nil
	}
	fn, ok := val.Val.(*foundations.Func)
	if !ok {
		return nil
	}
	bound := foundations.Args{Span: node.Span()}
	for _, item := range syntax.ArgItems(args) {
		switch item.Kind() {
		case syntax.Named:
			named, ok := syntax.AsNamed(item)
			if !ok || named.Name() == nil {
				continue
			}
			bound.Items = append(bound.Items, foundations.Arg{Name: named.Name().Text(), Span: item.Span()})
		case syntax.Spread:
			// A spread's length is not statically known, so it
			// cannot shift positional slots.
		default:
			bound.Items = append(bound.Items, foundations.Arg{Span: item.Span()})
		}
	}
	// Keyed by span: each application site is a distinct function value.
	return ty.NewValueAt(fn.With(&bound), node.Span())
}

func (s *seeder) letBinding(node *syntax.Node) ty.Ty {
	let, ok := syntax.AsLetBinding(node)
	if !ok {
		return nil
	}
	if closureNode, isClosure := let.ClosureForm(); isClosure {
		t := s.closure(closureNode)
		if t == nil {
			return nil
		}
		if clo, ok := syntax.AsClosure(closureNode); ok {
			if name := clo.Name(); name != nil {
				s.info.Witness(name.Span(), t)
				s.bind(name.Text(), t)
			}
		}
		return nil
	}

	init := let.Init()
	initTy := s.expr(init)
	pattern := let.Pattern()
	if pattern == nil {
		return nil
	}
	if pattern.Kind() == syntax.Ident {
		entry := s.info.NewVar(pattern.Text())
		if initTy != nil {
			entry.AddLowerBound(initTy)
		}
		s.info.Witness(pattern.Span(), entry.Var)
		s.bind(pattern.Text(), entry.Var)
	}
	return nil
}

// closure types a closure literal as a function value; its parameters get
// fresh type variables so body usage can accrue bounds.
func (s *seeder) closure(node *syntax.Node) ty.Ty {
	closure, ok := syntax.AsClosure(node)
	if !ok {
		return nil
	}
	fn := foundations.NewClosure(node)
	// Keyed by span: distinct closures must not collapse to one canonical
	// value even when their rendering agrees.
	t := ty.NewValueAt(fn, node.Span())
	s.info.Witness(node.Span(), t)

	s.pushScope()
	defer s.popScope()
	for _, param := range closure.Params() {
		switch param.Kind() {
		case syntax.Ident:
			entry := s.info.NewVar(param.Text())
			s.info.Witness(param.Span(), entry.Var)
			s.bind(param.Text(), entry.Var)
		case syntax.Named:
			named, ok := syntax.AsNamed(param)
			if !ok {
				continue
			}
			entry := s.info.NewVar(named.Name().Text())
			if dflt := s.expr(named.Expr()); dflt != nil {
				entry.AddLowerBound(dflt)
			}
			s.info.Witness(named.Name().Span(), entry.Var)
			s.bind(named.Name().Text(), entry.Var)
		case syntax.Spread:
			spread, ok := syntax.AsSpread(param)
			if !ok || spread.SinkIdent() == nil {
				continue
			}
			sink := spread.SinkIdent()
			entry := s.info.NewVar(sink.Text())
			entry.AddLowerBound(ty.NewArray(ty.Any))
			s.info.Witness(sink.Span(), entry.Var)
			s.bind(sink.Text(), entry.Var)
		}
	}
	s.expr(closure.Body())
	return t
}

func unquote(text string) string {
	if unquoted, err := strconv.Unquote(text); err == nil {
		return unquoted
	}
	return strings.Trim(text, `"`)
}
