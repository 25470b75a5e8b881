// Package foundations models the runtime values and callables of the
// scripting language, as far as static analysis needs to see them: values
// appearing as parameter defaults, function objects with their declared
// parameters, and the declared-type grammar of native signatures.
package foundations

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// Value is a runtime value as visible to the analyzer.
type Value interface {
	Type() *Type
	Repr() string
}

type None struct{}

type Auto struct{}

type Bool bool

type Int int64

type Float float64

type Str string

type Label string

type Array []Value

type Dict map[string]Value

// Content is an opaque piece of document content, possibly produced by an
// element function.
type Content struct {
	Elem *Func
}

func (None) Type() *Type    { return TypeNone }
func (Auto) Type() *Type    { return TypeAuto }
func (Bool) Type() *Type    { return TypeBool }
func (Int) Type() *Type     { return TypeInt }
func (Float) Type() *Type   { return TypeFloat }
func (Str) Type() *Type     { return TypeStr }
func (Label) Type() *Type   { return TypeLabel }
func (Array) Type() *Type   { return TypeArray }
func (Dict) Type() *Type    { return TypeDict }
func (Content) Type() *Type { return TypeContent }
func (*Func) Type() *Type   { return TypeFunc }
func (*Type) Type() *Type   { return TypeType }

func (None) Repr() string    { return "none" }
func (Auto) Repr() string    { return "auto" }
func (v Bool) Repr() string  { return strconv.FormatBool(bool(v)) }
func (v Int) Repr() string   { return strconv.FormatInt(int64(v), 10) }
func (v Float) Repr() string { return strconv.FormatFloat(float64(v), 'g', -1, 64) }
func (v Str) Repr() string   { return strconv.Quote(string(v)) }
func (v Label) Repr() string { return "<" + string(v) + ">" }

func (v Array) Repr() string {
	parts := make([]string, len(v))
	for i, item := range v {
		parts[i] = item.Repr()
	}
	return "(" + strings.Join(parts, ", ") + ")"
}

func (v Dict) Repr() string {
	if len(v) == 0 {
		return "(:)"
	}
	keys := make([]string, 0, len(v))
	for k := range v {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = fmt.Sprintf("%s: %s", k, v[k].Repr())
	}
	return "(" + strings.Join(parts, ", ") + ")"
}

func (v Content) Repr() string {
	if v.Elem != nil {
		return "[" + v.Elem.Name() + "]"
	}
	return "[..]"
}

// Type is a runtime type tag. The canonical tags below are compared by
// pointer identity.
type Type struct {
	name string
}

func (t *Type) Name() string { return t.name }
func (t *Type) Repr() string { return t.name }

var (
	TypeNone    = &Type{name: "none"}
	TypeAuto    = &Type{name: "auto"}
	TypeBool    = &Type{name: "bool"}
	TypeInt     = &Type{name: "int"}
	TypeFloat   = &Type{name: "float"}
	TypeStr     = &Type{name: "str"}
	TypeLabel   = &Type{name: "label"}
	TypeArray   = &Type{name: "array"}
	TypeDict    = &Type{name: "dictionary"}
	TypeContent = &Type{name: "content"}
	TypeFunc    = &Type{name: "function"}
	TypeType    = &Type{name: "type"}
	TypeLength  = &Type{name: "length"}
	TypeColor   = &Type{name: "color"}
	TypeStroke  = &Type{name: "stroke"}
	TypeModule  = &Type{name: "module"}
)
