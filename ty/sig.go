package ty

import "github.com/Myriad-Dreamin/tinymist-sub003/foundations"

// Sig is one callable surface found on a type: a signature type, a literal
// construction convention, or a runtime function value.
type Sig interface{ isSig() }

// SigOfType is a plain signature type.
type SigOfType struct {
	Sig *SigTy
}

// SigArrayCons is the construction surface of array literals.
type SigArrayCons struct {
	Elem Ty
}

// SigTupleCons is the construction surface of tuple literals.
type SigTupleCons struct {
	Elems []Ty
}

// SigDictCons is the construction surface of dictionary literals.
type SigDictCons struct {
	Rec *Record
}

// SigTypeCons is a runtime type used as a constructor.
type SigTypeCons struct {
	Type *foundations.Type
	At   Ty
}

// SigValue is a runtime function value.
type SigValue struct {
	Func *foundations.Func
	At   Ty
}

// SigPartialize marks a surface reached through a binder method such as
// `.with`, whose call partializes rather than invokes.
type SigPartialize struct {
	Inner Sig
}

func (SigOfType) isSig()    {}
func (SigArrayCons) isSig() {}
func (SigTupleCons) isSig() {}
func (SigDictCons) isSig()  {}
func (SigTypeCons) isSig()  {}
func (SigValue) isSig()     {}
func (SigPartialize) isSig() {}

// TyOf is the type this surface was found at, nil for partialized ones.
func TyOf(s Sig) Ty {
	switch v := s.(type) {
	case SigOfType:
		return NewFunc(v.Sig)
	case SigArrayCons:
		return NewArray(v.Elem)
	case SigTupleCons:
		return NewTuple(v.Elems)
	case SigDictCons:
		return NewDict(v.Rec)
	case SigTypeCons:
		return TypeTy(v.Type)
	case SigValue:
		return v.At
	}
	return nil
}

// FuncResolver turns a runtime function value into its signature shape.
// Implemented by the analysis layer; nil is allowed and degrades to no
// shape.
type FuncResolver interface {
	TypeOfFunc(fn *foundations.Func) *SigTy
}

// SigShape is a resolved surface: the canonical signature plus the bound
// argument lists of the partial-application chain, oldest first.
type SigShape struct {
	Sig   *SigTy
	Withs []*SigTy
}

// Shape resolves a surface to its signature shape.
func Shape(s Sig, withs []*SigTy, resolver FuncResolver) *SigShape {
	switch v := s.(type) {
	case SigOfType:
		return &SigShape{Sig: v.Sig, Withs: withs}
	case SigArrayCons:
		return &SigShape{Sig: ArrayCons(v.Elem, false), Withs: withs}
	case SigTupleCons:
		return &SigShape{Sig: TupleCons(v.Elems, false), Withs: withs}
	case SigDictCons:
		return &SigShape{Sig: DictCons(v.Rec, false), Withs: withs}
	case SigValue:
		if resolver == nil {
			return nil
		}
		// Partial applications carried by the value itself count as bound
		// argument lists, before any accumulated by the traversal.
		fn := v.Func
		var chain []*SigTy
		for {
			inner, args, ok := fn.Applied()
			if !ok {
				break
			}
			chain = append(chain, argsAsSig(args))
			fn = inner
		}
		sig := resolver.TypeOfFunc(fn)
		if sig == nil {
			return nil
		}
		if len(chain) == 0 {
			return &SigShape{Sig: sig, Withs: withs}
		}
		merged := make([]*SigTy, 0, len(chain)+len(withs))
		for i := len(chain) - 1; i >= 0; i-- {
			merged = append(merged, chain[i])
		}
		merged = append(merged, withs...)
		return &SigShape{Sig: sig, Withs: merged}
	}
	// type constructors and partialized surfaces have no shape here
	return nil
}

// argsAsSig renders a captured argument list as a signature type, typing
// every argument Any. Only the slot layout matters to binding.
func argsAsSig(args *foundations.Args) *SigTy {
	var pos []Ty
	var named []RecordField
	if args == nil {
		return NewSigTy(nil, nil, nil, nil)
	}
	for _, item := range args.Items {
		if item.Name != "" {
			named = append(named, RecordField{Name: item.Name, Ty: Any})
			continue
		}
		pos = append(pos, Any)
	}
	return NewSigTy(pos, named, nil, nil)
}

// SigSurfaceKind selects which construction conventions a surface traversal
// accepts.
type SigSurfaceKind uint8

const (
	SigSurfaceCall SigSurfaceKind = iota
	SigSurfaceArray
	SigSurfaceDict
	SigSurfaceArrayOrDict
)

// SigCheckContext carries traversal state: the surface kind and the bound
// argument lists accumulated while descending a with-chain, oldest first.
type SigCheckContext struct {
	Kind SigSurfaceKind
	Args []*SigTy
	At   Ty
}

// SigChecker receives each surface found by SigSurface.
type SigChecker interface {
	CheckSig(sig Sig, ctx *SigCheckContext, pol bool) bool
	// CheckVar resolves a variable's bounds during traversal, nil if
	// unknown.
	CheckVar(v *Var, pol bool) *Bounds
}

// SigSurface walks t and reports every callable or construction surface of
// the requested kind to checker.
func SigSurface(t Ty, pol bool, kind SigSurfaceKind, checker SigChecker) {
	driver := &sigCheckDriver{
		ctx:     SigCheckContext{Kind: kind, At: Any},
		checker: checker,
	}
	driver.ty(t, pol)
}

// SigRepr is the first Call-surface signature of t, if any. The resolver
// turns function values into signatures and may be nil.
func SigRepr(t Ty, pol bool, resolver FuncResolver) *SigTy {
	var primary *SigTy
	SigSurface(t, pol, SigSurfaceCall, sigCheckFunc(func(sig Sig, ctx *SigCheckContext, pol bool) bool {
		shape := Shape(sig, ctx.Args, resolver)
		if shape == nil {
			return false
		}
		primary = shape.Sig
		return true
	}))
	return primary
}

type sigCheckFunc func(sig Sig, ctx *SigCheckContext, pol bool) bool

func (f sigCheckFunc) CheckSig(sig Sig, ctx *SigCheckContext, pol bool) bool {
	return f(sig, ctx, pol)
}
func (sigCheckFunc) CheckVar(*Var, bool) *Bounds { return nil }

type sigCheckDriver struct {
	ctx     SigCheckContext
	checker SigChecker
}

func (d *sigCheckDriver) funcAsSig() bool { return d.ctx.Kind == SigSurfaceCall }

func (d *sigCheckDriver) arrayAsSig() bool {
	return d.ctx.Kind == SigSurfaceArray || d.ctx.Kind == SigSurfaceArrayOrDict
}

func (d *sigCheckDriver) dictAsSig() bool {
	return d.ctx.Kind == SigSurfaceDict || d.ctx.Kind == SigSurfaceArrayOrDict
}

func (d *sigCheckDriver) ty(t Ty, pol bool) {
	switch v := t.(type) {
	case Builtin:
		switch {
		case v.Kind == KindStroke && d.dictAsSig():
			d.checker.CheckSig(SigDictCons{Rec: StrokeDict()}, &d.ctx, pol)
		case v.Kind == KindMargin && d.dictAsSig():
			d.checker.CheckSig(SigDictCons{Rec: MarginDict()}, &d.ctx, pol)
		case v.Kind == KindInset && d.dictAsSig():
			d.checker.CheckSig(SigDictCons{Rec: InsetDict()}, &d.ctx, pol)
		case v.Kind == KindOutset && d.dictAsSig():
			d.checker.CheckSig(SigDictCons{Rec: OutsetDict()}, &d.ctx, pol)
		case v.Kind == KindRadius && d.dictAsSig():
			d.checker.CheckSig(SigDictCons{Rec: RadiusDict()}, &d.ctx, pol)
		case v.Kind == KindType && d.funcAsSig():
			d.checker.CheckSig(SigTypeCons{Type: v.Type, At: t}, &d.ctx, pol)
		case v.Kind == KindElement && d.funcAsSig():
			d.checker.CheckSig(SigValue{Func: v.Elem.Func(), At: t}, &d.ctx, pol)
		}
	case *Value:
		if d.funcAsSig() {
			switch val := v.Val.(type) {
			case *foundations.Func:
				d.checker.CheckSig(SigValue{Func: val, At: t}, &d.ctx, pol)
			case *foundations.Type:
				d.checker.CheckSig(SigTypeCons{Type: val, At: t}, &d.ctx, pol)
			}
		}
	case *Func:
		if d.funcAsSig() {
			d.checker.CheckSig(SigOfType{Sig: v.Sig}, &d.ctx, pol)
		}
	case *Array:
		if d.arrayAsSig() {
			d.checker.CheckSig(SigArrayCons{Elem: v.Elem}, &d.ctx, pol)
		}
	case *Tuple:
		if d.arrayAsSig() {
			d.checker.CheckSig(SigTupleCons{Elems: v.Elems}, &d.ctx, pol)
		}
	case *Dict:
		if d.dictAsSig() {
			d.checker.CheckSig(SigDictCons{Rec: &v.Record}, &d.ctx, pol)
		}
	case *With:
		if d.funcAsSig() {
			// deeper (older) applications must end up first
			saved := d.ctx.Args
			merged := make([]*SigTy, 0, len(v.Args)+len(saved))
			merged = append(merged, v.Args...)
			merged = append(merged, saved...)
			d.ctx.Args = merged
			d.ty(v.Sig, pol)
			d.ctx.Args = saved
		}
	case *Select:
		CheckBounds(v.Ty, pol, &methodDriver{driver: d, name: v.Name})
	case *Unary, *Binary, *If:
		// not evaluated here
	default:
		if HasBounds(t) {
			CheckBounds(t, pol, d)
		}
	}
}

func (d *sigCheckDriver) Collect(t Ty, pol bool) { d.ty(t, pol) }

func (d *sigCheckDriver) BoundOfVar(v *Var, pol bool) *Bounds {
	return d.checker.CheckVar(v, pol)
}

// methodDriver resolves a field selection on a callable: binder methods
// partialize the callee, everything else is ignored.
type methodDriver struct {
	driver *sigCheckDriver
	name   string
}

func (m *methodDriver) isBinder() bool { return m.name == "with" || m.name == "where" }

func (m *methodDriver) Collect(t Ty, pol bool) {
	if !m.isBinder() {
		return
	}
	switch v := t.(type) {
	case *Value:
		if fn, ok := v.Val.(*foundations.Func); ok {
			m.driver.checker.CheckSig(SigPartialize{Inner: SigValue{Func: fn, At: t}}, &m.driver.ctx, pol)
		}
	case Builtin:
		if v.Kind == KindElement {
			m.driver.checker.CheckSig(SigPartialize{Inner: SigValue{Func: v.Elem.Func(), At: t}}, &m.driver.ctx, pol)
		}
	case *Func:
		m.driver.checker.CheckSig(SigPartialize{Inner: SigOfType{Sig: v.Sig}}, &m.driver.ctx, pol)
	}
}

func (m *methodDriver) BoundOfVar(v *Var, pol bool) *Bounds {
	return m.driver.checker.CheckVar(v, pol)
}
