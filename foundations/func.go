package foundations

import (
	"sync"

	"github.com/Myriad-Dreamin/tinymist-sub003/syntax"
)

// ParamInfo describes one declared parameter of a native function.
type ParamInfo struct {
	Name       string
	Docs       string
	Input      CastInfo
	Default    func() Value
	Positional bool
	Named      bool
	Variadic   bool
	Required   bool
	Settable   bool
}

// NativeFunc is the introspection record of a built-in function.
type NativeFunc struct {
	Name    string
	Title   string
	Docs    string
	Params  []*ParamInfo
	Ret     CastInfo
	Element bool

	fnOnce sync.Once
	fn     *Func
}

// Func returns the canonical function value of this record. Repeated calls
// return the same pointer, preserving cache identity.
func (n *NativeFunc) Func() *Func {
	n.fnOnce.Do(func() { n.fn = &Func{native: n} })
	return n.fn
}

// Arg is one argument bound into a partial application. An empty Name means
// positional.
type Arg struct {
	Name  string
	Value Value
	Span  syntax.Span
}

// Args is an argument list captured by a `with` application.
type Args struct {
	Span  syntax.Span
	Items []Arg
}

// Func is a function value. Its identity, the pointer, is stable for the
// lifetime of a document revision and keys the signature cache.
//
// A Func is one of three representations: a native (possibly element)
// function, a closure defined in source, or a partial application wrapping
// another Func.
type Func struct {
	native  *NativeFunc
	closure *syntax.Node
	inner   *Func
	applied *Args
}

// NewNative wraps a native function record. The wrapper is canonical per
// record.
func NewNative(info *NativeFunc) *Func {
	return info.Func()
}

// NewClosure wraps the syntax node of a closure definition.
func NewClosure(node *syntax.Node) *Func {
	return &Func{closure: node}
}

// With returns a new function with args pre-bound, leaving f untouched.
func (f *Func) With(args *Args) *Func {
	return &Func{inner: f, applied: args}
}

func (f *Func) Native() (*NativeFunc, bool) {
	return f.native, f.native != nil
}

func (f *Func) Closure() (*syntax.Node, bool) {
	return f.closure, f.closure != nil
}

func (f *Func) Applied() (*Func, *Args, bool) {
	return f.inner, f.applied, f.inner != nil
}

// Name returns the function's declared name, unwrapping applications. Empty
// for anonymous closures.
func (f *Func) Name() string {
	for f.inner != nil {
		f = f.inner
	}
	if f.native != nil {
		return f.native.Name
	}
	if f.closure != nil {
		if c, ok := syntax.AsClosure(f.closure); ok {
			if name := c.Name(); name != nil {
				return name.Text()
			}
		}
	}
	return ""
}

func (f *Func) Repr() string {
	if name := f.Name(); name != "" {
		return name
	}
	return "(..) => .."
}

// Param looks up a declared parameter of a native function by name.
func (n *NativeFunc) Param(name string) *ParamInfo {
	for _, p := range n.Params {
		if p.Name == name {
			return p
		}
	}
	return nil
}
