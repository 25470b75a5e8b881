// Package ty implements the canonical type representation of the analyzer:
// a closed, hash-consed union of type values with bound-carrying type
// variables, the signature shape shared by callables and records, and the
// traversal drivers built on top of them.
//
// Every composite type value is interned: structurally equal trees collapse
// to one shared instance, so equality is pointer identity and types are
// cheap map keys.
package ty

import (
	"fmt"
	"strings"

	"github.com/Myriad-Dreamin/tinymist-sub003/foundations"
	"github.com/Myriad-Dreamin/tinymist-sub003/syntax"
)

// Ty is a type value. Implementations are sealed in this package.
//
// Composite values are only created through the constructors here and are
// canonical: two structurally equal types are == as interface values.
type Ty interface {
	fmt.Stringer
	Hash() uint64
	equal(Ty) bool
}

// DefID identifies a type variable within one inference session. Bounds
// live in the session's arena, addressed by this id.
type DefID uint32

// Prim is a primitive type marker.
type Prim uint8

const (
	Any Prim = iota
	None
	Auto
	Infer
	Content
	Space
	Undef
	FlowNone
	Clause
)

var primNames = map[Prim]string{
	Any:      "Any",
	None:     "None",
	Auto:     "Auto",
	Infer:    "Infer",
	Content:  "Content",
	Space:    "Space",
	Undef:    "Undef",
	FlowNone: "FlowNone",
	Clause:   "Clause",
}

func (p Prim) String() string { return primNames[p] }
func (p Prim) Hash() uint64   { return 0x9e3779b97f4a7c15 ^ uint64(p)*31 }
func (p Prim) equal(other Ty) bool {
	o, ok := other.(Prim)
	return ok && p == o
}

// Boolean is the boolean type, optionally narrowed to one literal.
type Boolean struct {
	Known bool
	Value bool
}

func NewBoolean(v bool) Ty { return Boolean{Known: true, Value: v} }

func (b Boolean) String() string {
	if !b.Known {
		return "Boolean"
	}
	if b.Value {
		return "true"
	}
	return "false"
}

func (b Boolean) Hash() uint64 {
	h := uint64(0x100000001b3)
	if b.Known {
		h *= 53
	}
	if b.Value {
		h *= 59
	}
	return h
}

func (b Boolean) equal(other Ty) bool {
	o, ok := other.(Boolean)
	return ok && b == o
}

// Value wraps one concrete runtime value used as a type, with an optional
// documentation string and source span.
type Value struct {
	Val  foundations.Value
	Docs string
	Span syntax.Span

	repr string
	hash uint64
}

func NewValue(val foundations.Value) Ty { return newValue(val, "", syntax.Detached) }

func NewValueAt(val foundations.Value, span syntax.Span) Ty {
	return newValue(val, "", span)
}

func NewValueDoc(val foundations.Value, docs string) Ty {
	return newValue(val, docs, syntax.Detached)
}

// newValue hashes exactly the fields equal compares, so structurally equal
// values land in one pool bucket no matter which constructor built them.
func newValue(val foundations.Value, docs string, span syntax.Span) Ty {
	v := &Value{Val: val, Docs: docs, Span: span, repr: val.Repr()}
	v.hash = strHash(v.repr)*31 ^ strHash(docs)*43 ^ uint64(span)*37 ^ 41
	return intern(v)
}

func (v *Value) String() string { return v.repr }
func (v *Value) Hash() uint64   { return v.hash }
func (v *Value) equal(other Ty) bool {
	o, ok := other.(*Value)
	return ok && v.repr == o.repr && v.Docs == o.Docs && v.Span == o.Span
}

// Field is a named field carrying its value type and declaration site.
type Field struct {
	Name string
	Ty   Ty
	Span syntax.Span

	hash uint64
}

func NewField(name string, t Ty, span syntax.Span) Ty {
	f := &Field{Name: name, Ty: t, Span: span}
	f.hash = strHash(name)*47 ^ t.Hash()*53 ^ uint64(span)*59
	return intern(f)
}

func (f *Field) String() string { return fmt.Sprintf("%s: %s", f.Name, f.Ty) }
func (f *Field) Hash() uint64   { return f.hash }
func (f *Field) equal(other Ty) bool {
	o, ok := other.(*Field)
	return ok && f.Name == o.Name && f.Ty == o.Ty && f.Span == o.Span
}

// Var is a reference to a type variable. Instances are unique per DefID
// within a session; the variable's bounds live in the session arena.
type Var struct {
	Name string
	Def  DefID
}

func (v *Var) String() string { return "@" + v.Name }
func (v *Var) Hash() uint64   { return uint64(v.Def)*0x9e3779b9 ^ 61 }
func (v *Var) equal(other Ty) bool {
	o, ok := other.(*Var)
	return ok && v.Def == o.Def
}

// Union is a flat union of types. Construction flattens nested unions, so
// a Union never directly contains another Union.
type Union struct {
	Types []Ty

	hash uint64
}

func (u *Union) String() string {
	parts := make([]string, len(u.Types))
	for i, t := range u.Types {
		parts[i] = t.String()
	}
	return "(" + strings.Join(parts, " | ") + ")"
}

func (u *Union) Hash() uint64 { return u.hash }
func (u *Union) equal(other Ty) bool {
	o, ok := other.(*Union)
	if !ok || len(u.Types) != len(o.Types) {
		return false
	}
	for i, t := range u.Types {
		if t != o.Types[i] {
			return false
		}
	}
	return true
}

// Bounds is an accumulated lower/upper bound pair.
type Bounds struct {
	Lbs []Ty
	Ubs []Ty
}

// Let is a type given by bounds alone, the finalized form of contextual
// refinement.
type Let struct {
	Bounds

	hash uint64
}

func NewLet(bounds Bounds) Ty {
	l := &Let{Bounds: bounds}
	h := uint64(0x517cc1b727220a95)
	for _, t := range bounds.Lbs {
		h = h*31 ^ t.Hash()
	}
	h ^= 0xff51afd7ed558ccd
	for _, t := range bounds.Ubs {
		h = h*37 ^ t.Hash()
	}
	l.hash = h
	return intern(l)
}

func (l *Let) String() string {
	var sb strings.Builder
	sb.WriteString("(")
	for i, lb := range l.Lbs {
		if i == 0 {
			sb.WriteString("⪰ ")
		} else {
			sb.WriteString(" | ")
		}
		sb.WriteString(lb.String())
	}
	for i, ub := range l.Ubs {
		if i == 0 {
			if len(l.Lbs) > 0 {
				sb.WriteString(" ")
			}
			sb.WriteString("⪯ ")
		} else {
			sb.WriteString(" & ")
		}
		sb.WriteString(ub.String())
	}
	sb.WriteString(")")
	return sb.String()
}

func (l *Let) Hash() uint64 { return l.hash }
func (l *Let) equal(other Ty) bool {
	o, ok := other.(*Let)
	if !ok || len(l.Lbs) != len(o.Lbs) || len(l.Ubs) != len(o.Ubs) {
		return false
	}
	for i, t := range l.Lbs {
		if t != o.Lbs[i] {
			return false
		}
	}
	for i, t := range l.Ubs {
		if t != o.Ubs[i] {
			return false
		}
	}
	return true
}

// Func is a callable type.
type Func struct {
	Sig *SigTy
}

func NewFunc(sig *SigTy) Ty { return intern(&Func{Sig: sig}) }

func (f *Func) String() string { return f.Sig.String() }
func (f *Func) Hash() uint64   { return f.Sig.Hash() * 67 }
func (f *Func) equal(other Ty) bool {
	o, ok := other.(*Func)
	return ok && f.Sig == o.Sig
}

// Args is an argument-list shape, reusing the signature layout.
type Args struct {
	Sig *SigTy
}

func NewArgs(sig *SigTy) Ty { return intern(&Args{Sig: sig}) }

func (a *Args) String() string { return "&(" + a.Sig.String() + ")" }
func (a *Args) Hash() uint64   { return a.Sig.Hash() * 71 }
func (a *Args) equal(other Ty) bool {
	o, ok := other.(*Args)
	return ok && a.Sig == o.Sig
}

// With is a base callable type plus applied argument lists, oldest first.
type With struct {
	Sig  Ty
	Args []*SigTy

	hash uint64
}

func NewWith(sig Ty, args []*SigTy) Ty {
	w := &With{Sig: sig, Args: args}
	h := sig.Hash() * 73
	for _, a := range args {
		h = h*31 ^ a.Hash()
	}
	w.hash = h
	return intern(w)
}

func (w *With) String() string {
	parts := make([]string, len(w.Args))
	for i, a := range w.Args {
		parts[i] = a.String()
	}
	return fmt.Sprintf("(%s).with(%s)", w.Sig, strings.Join(parts, ", "))
}

func (w *With) Hash() uint64 { return w.hash }
func (w *With) equal(other Ty) bool {
	o, ok := other.(*With)
	if !ok || w.Sig != o.Sig || len(w.Args) != len(o.Args) {
		return false
	}
	for i, a := range w.Args {
		if a != o.Args[i] {
			return false
		}
	}
	return true
}

// Dict is a record type.
type Dict struct {
	Record
}

func NewDict(rec *Record) Ty { return intern(&Dict{Record: *rec}) }

func (d *Dict) String() string { return d.Record.String() }
func (d *Dict) Hash() uint64   { return d.Record.hashOf() * 79 }
func (d *Dict) equal(other Ty) bool {
	o, ok := other.(*Dict)
	return ok && d.Record.equalRecord(&o.Record)
}

// Array is a homogeneous array type.
type Array struct {
	Elem Ty
}

func NewArray(elem Ty) Ty { return intern(&Array{Elem: elem}) }

func (a *Array) String() string { return fmt.Sprintf("Array<%s>", a.Elem) }
func (a *Array) Hash() uint64   { return a.Elem.Hash() * 83 }
func (a *Array) equal(other Ty) bool {
	o, ok := other.(*Array)
	return ok && a.Elem == o.Elem
}

// Tuple is a fixed list of element types. It may contain spread types.
type Tuple struct {
	Elems []Ty

	hash uint64
}

func NewTuple(elems []Ty) Ty {
	t := &Tuple{Elems: elems}
	h := uint64(0xc4ceb9fe1a85ec53)
	for _, e := range elems {
		h = h*31 ^ e.Hash()
	}
	t.hash = h
	return intern(t)
}

func (t *Tuple) String() string {
	parts := make([]string, len(t.Elems))
	for i, e := range t.Elems {
		parts[i] = e.String()
	}
	return "(" + strings.Join(parts, ", ") + ")"
}

func (t *Tuple) Hash() uint64 { return t.hash }
func (t *Tuple) equal(other Ty) bool {
	o, ok := other.(*Tuple)
	if !ok || len(t.Elems) != len(o.Elems) {
		return false
	}
	for i, e := range t.Elems {
		if e != o.Elems[i] {
			return false
		}
	}
	return true
}

// Select is the not-yet-resolved type of a field selection.
type Select struct {
	Ty   Ty
	Name string

	hash uint64
}

func NewSelect(t Ty, name string) Ty {
	s := &Select{Ty: t, Name: name}
	s.hash = t.Hash()*89 ^ strHash(name)
	return intern(s)
}

func (s *Select) String() string { return fmt.Sprintf("%s.%s", s.Ty, s.Name) }
func (s *Select) Hash() uint64   { return s.hash }
func (s *Select) equal(other Ty) bool {
	o, ok := other.(*Select)
	return ok && s.Ty == o.Ty && s.Name == o.Name
}

// Unary is the symbolic type of an unevaluated unary expression.
type Unary struct {
	Op  syntax.Kind
	Val Ty

	hash uint64
}

func NewUnary(op syntax.Kind, val Ty) Ty {
	u := &Unary{Op: op, Val: val}
	u.hash = uint64(op)*97 ^ val.Hash()*101
	return intern(u)
}

func (u *Unary) String() string { return fmt.Sprintf("%s(%s)", u.Op, u.Val) }
func (u *Unary) Hash() uint64   { return u.hash }
func (u *Unary) equal(other Ty) bool {
	o, ok := other.(*Unary)
	return ok && u.Op == o.Op && u.Val == o.Val
}

// Binary is the symbolic type of an unevaluated binary expression.
type Binary struct {
	Op       syntax.Kind
	Lhs, Rhs Ty

	hash uint64
}

func NewBinary(op syntax.Kind, lhs, rhs Ty) Ty {
	b := &Binary{Op: op, Lhs: lhs, Rhs: rhs}
	b.hash = uint64(op)*103 ^ lhs.Hash()*107 ^ rhs.Hash()*109
	return intern(b)
}

func (b *Binary) String() string { return fmt.Sprintf("(%s %s %s)", b.Lhs, b.Op, b.Rhs) }
func (b *Binary) Hash() uint64   { return b.hash }
func (b *Binary) equal(other Ty) bool {
	o, ok := other.(*Binary)
	return ok && b.Op == o.Op && b.Lhs == o.Lhs && b.Rhs == o.Rhs
}

// If is the symbolic type of an unevaluated conditional.
type If struct {
	Cond, Then, Else Ty

	hash uint64
}

func NewIf(cond, then, els Ty) Ty {
	i := &If{Cond: cond, Then: then, Else: els}
	i.hash = cond.Hash()*113 ^ then.Hash()*127 ^ els.Hash()*131
	return intern(i)
}

func (i *If) String() string { return fmt.Sprintf("if %s then %s else %s", i.Cond, i.Then, i.Else) }
func (i *If) Hash() uint64   { return i.hash }
func (i *If) equal(other Ty) bool {
	o, ok := other.(*If)
	return ok && i.Cond == o.Cond && i.Then == o.Then && i.Else == o.Else
}

// FromTypes collapses a list of types: none yields Any, one yields itself,
// more yield a flat union.
func FromTypes(types ...Ty) Ty {
	switch len(types) {
	case 0:
		return Any
	case 1:
		return types[0]
	default:
		return IterUnion(types)
	}
}

// IterUnion builds a flat Union from types, flattening nested unions
// depth-first with order preserved. Flattening uses an explicit stack; input
// nesting depth is user-controlled.
func IterUnion(types []Ty) Ty {
	var flat []Ty
	stack := make([][]Ty, 0, 1)
	stack = append(stack, types)
	for len(stack) > 0 {
		top := stack[len(stack)-1]
		if len(top) == 0 {
			stack = stack[:len(stack)-1]
			continue
		}
		head := top[0]
		stack[len(stack)-1] = top[1:]
		if u, ok := head.(*Union); ok {
			stack = append(stack, u.Types)
			continue
		}
		flat = append(flat, head)
	}
	u := &Union{Types: flat}
	h := uint64(0x87c37b91114253d5)
	for _, t := range flat {
		h = h*31 ^ t.Hash()
	}
	u.hash = h
	return intern(u)
}

func strHash(s string) uint64 {
	h := uint64(0xcbf29ce484222325)
	for i := 0; i < len(s); i++ {
		h ^= uint64(s[i])
		h *= 0x100000001b3
	}
	return h
}

var (
	_ Ty = Prim(0)
	_ Ty = Boolean{}
	_ Ty = (*Value)(nil)
	_ Ty = (*Field)(nil)
	_ Ty = (*Var)(nil)
	_ Ty = (*Union)(nil)
	_ Ty = (*Let)(nil)
	_ Ty = (*Func)(nil)
	_ Ty = (*Args)(nil)
	_ Ty = (*With)(nil)
	_ Ty = (*Dict)(nil)
	_ Ty = (*Array)(nil)
	_ Ty = (*Tuple)(nil)
	_ Ty = (*Select)(nil)
	_ Ty = (*Unary)(nil)
	_ Ty = (*Binary)(nil)
	_ Ty = (*If)(nil)
)
