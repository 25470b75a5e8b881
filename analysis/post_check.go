package analysis

import (
	"log/slog"

	"github.com/hashicorp/go-set/v3"

	"github.com/Myriad-Dreamin/tinymist-sub003/syntax"
	"github.com/Myriad-Dreamin/tinymist-sub003/ty"
)

// PostTypeCheck refines the type of a node by reading its syntactic
// context against the baseline type table. Nil means no improvement;
// callers fall back to the baseline.
func PostTypeCheck(ctx *Context, info *ty.TypeInfo, node *syntax.Node) ty.Ty {
	return NewPostTypeChecker(ctx, info).Check(node)
}

// PostTypeChecker carries the state of one refinement request. It is owned
// by a single request and never shared.
type PostTypeChecker struct {
	ctx  *Context
	Info *ty.TypeInfo

	// checked memoizes results per span. A present nil entry is the cycle
	// sentinel: a node reached through its own context resolves to no
	// information instead of looping.
	checked map[syntax.Span]ty.Ty
	locals  *ty.TypeInfo
}

func NewPostTypeChecker(ctx *Context, info *ty.TypeInfo) *PostTypeChecker {
	return &PostTypeChecker{
		ctx:     ctx,
		Info:    info,
		checked: map[syntax.Span]ty.Ty{},
		locals:  ty.NewTypeInfo(),
	}
}

// Check computes the refined type of node, nil when context adds nothing.
// Context chains resolve over an explicit worklist so pathological nesting
// depth cannot overflow the stack: each node's contexts are queued and
// computed before the node itself.
func (pc *PostTypeChecker) Check(node *syntax.Node) ty.Ty {
	if node == nil {
		return nil
	}
	if t, ok := pc.checked[node.Span()]; ok {
		return t
	}
	expanded := map[syntax.Span]bool{}
	worklist := []*syntax.Node{node}
	for len(worklist) > 0 {
		n := worklist[len(worklist)-1]
		span := n.Span()
		if !expanded[span] {
			expanded[span] = true
			pc.checked[span] = nil
			for _, dep := range pc.contextsOf(n) {
				if _, ok := pc.checked[dep.Span()]; !ok {
					worklist = append(worklist, dep)
				}
			}
			continue
		}
		worklist = worklist[:len(worklist)-1]
		pc.checked[span] = pc.check(n)
	}
	return pc.checked[node.Span()]
}

// contextsOf lists the context nodes check(n) reads. It mirrors the
// dispatch of checkContext and checkSelf so Check can order the work.
func (pc *PostTypeChecker) contextsOf(node *syntax.Node) []*syntax.Node {
	context := node.Parent()
	if context == nil {
		return nil
	}
	var deps []*syntax.Node
	push := func(n *syntax.Node) {
		if n == nil {
			return
		}
		for _, d := range deps {
			if d.Span() == n.Span() {
				return
			}
		}
		deps = append(deps, n)
	}
	switch context.Kind() {
	case syntax.Args, syntax.Named:
		push(classifiedContext(syntax.ClassifyContext(node)))
	}
	switch node.Kind() {
	case syntax.Ident:
	case syntax.FieldAccess:
		if pc.simplify(pc.Info.TypeOfSpan(node.Span())) == nil {
			push(context)
		}
	default:
		if syntax.IsFieldAccessName(context, node) {
			push(context)
		} else {
			push(classifiedContext(syntax.ClassifyContext(node)))
		}
	}
	return deps
}

// classifiedContext is the node checkTarget resolves a classified position
// against, nil when the position resolves without one.
func classifiedContext(target syntax.SyntaxContext) *syntax.Node {
	switch t := target.(type) {
	case syntax.ContextArg:
		return t.Callee
	case syntax.ContextElement:
		return t.Container
	case syntax.ContextParen:
		return t.Container
	case syntax.ContextVarAccess:
		return t.Node
	case syntax.ContextNormal:
		return t.Node
	}
	return nil
}

func (pc *PostTypeChecker) check(node *syntax.Node) ty.Ty {
	context := node.Parent()
	if context == nil {
		return nil
	}
	pc.ctx.logger.Debug("post check",
		slog.String("context", context.Kind().String()),
		slog.String("node", node.Kind().String()))

	contextTy := pc.checkContext(context, node)
	return pc.checkSelf(context, node, contextTy)
}

// checkContext reads what the immediate parent says about node.
func (pc *PostTypeChecker) checkContext(context, node *syntax.Node) ty.Ty {
	switch context.Kind() {
	case syntax.LetBinding:
		let, ok := syntax.AsLetBinding(context)
		if !ok {
			return nil
		}
		if _, isClosure := let.ClosureForm(); isClosure {
			return nil
		}
		init := let.Init()
		if init == nil || init.Span() != node.Span() {
			return nil
		}
		return pc.destructLet(let.Pattern())
	case syntax.Args, syntax.Named:
		return pc.checkTarget(syntax.ClassifyContext(node), nil)
	}
	return nil
}

// checkSelf merges the node's own baseline type with its contextual
// position.
func (pc *PostTypeChecker) checkSelf(context, node *syntax.Node, contextTy ty.Ty) ty.Ty {
	switch node.Kind() {
	case syntax.Ident:
		return pc.simplify(pc.Info.TypeOfSpan(node.Span()))
	case syntax.FieldAccess:
		if t := pc.simplify(pc.Info.TypeOfSpan(node.Span())); t != nil {
			return t
		}
		return pc.checkContextOr(context, contextTy)
	}
	// Classifying the field name of an access would wrongly read it as an
	// expression inside the receiver.
	if syntax.IsFieldAccessName(context, node) {
		return pc.checkContextOr(context, contextTy)
	}
	return pc.checkTarget(syntax.ClassifyContext(node), contextTy)
}

// checkTarget resolves one classified syntactic position.
func (pc *PostTypeChecker) checkTarget(target syntax.SyntaxContext, contextTy ty.Ty) ty.Ty {
	if target == nil {
		return contextTy
	}

	switch t := target.(type) {
	case syntax.ContextArg:
		calleeTy := pc.checkContextOr(t.Callee, contextTy)
		if calleeTy == nil {
			return nil
		}
		recv := newSignatureReceiver()
		pc.checkSignatures(calleeTy, false, pc.slotChecker(recv, t.Target, t.IsSet))
		return pc.Info.Simplify(recv.finalize(), false)

	case syntax.ContextElement:
		containerTy := pc.checkContextOr(t.Container, contextTy)
		if containerTy == nil {
			return nil
		}
		recv := newSignatureReceiver()
		pc.checkElementOf(containerTy, false, t.Container, pc.slotChecker(recv, t.Target, false))
		return pc.Info.Simplify(recv.finalize(), false)

	case syntax.ContextParen:
		containerTy := pc.checkContextOr(t.Container, contextTy)
		if containerTy == nil {
			return nil
		}
		recv := newSignatureReceiver()
		// The parenthesized value may simply be read as the container's
		// own type.
		recv.bounds.Lbs = append(recv.bounds.Lbs, containerTy)
		// The inner expression reads as the first positional slot no
		// matter where it sits inside the parentheses.
		slot := positionalFromBefore(true)
		pc.checkElementOf(containerTy, false, t.Container, pc.slotChecker(recv, slot, false))
		return pc.Info.Simplify(recv.finalize(), false)

	case syntax.ContextImportPath, syntax.ContextIncludePath:
		return ty.PathTy(ty.PathSource)

	case syntax.ContextLabel:
		resolved := contextTy
		if resolved == nil {
			resolved = ty.RefLabel
		}
		if t.IsError {
			return ty.FromTypes(resolved, ty.Label)
		}
		return resolved

	case syntax.ContextVarAccess:
		return pc.checkContextOr(t.Node, contextTy)

	case syntax.ContextNormal:
		return pc.checkContextOr(t.Node, contextTy)
	}
	return contextTy
}

// checkContextOr unions a node's own refinement with an already-computed
// contextual type. The worklist in Check resolves the context before the
// node, so this is a memo read; an in-flight context reads as nil.
func (pc *PostTypeChecker) checkContextOr(context *syntax.Node, contextTy ty.Ty) ty.Ty {
	var checked ty.Ty
	if context != nil {
		checked = pc.checked[context.Span()]
	}
	if checked != nil && contextTy != nil {
		return ty.FromTypes(checked, contextTy)
	}
	if checked != nil {
		return checked
	}
	return contextTy
}

// destructLet pulls the bound identifier's baseline type out of a binding
// pattern.
func (pc *PostTypeChecker) destructLet(pattern *syntax.Node) ty.Ty {
	for pattern != nil {
		switch pattern.Kind() {
		case syntax.Ident:
			return pc.simplify(pc.Info.TypeOfSpan(pattern.Span()))
		case syntax.Underscore:
			return nil
		case syntax.Parenthesized:
			pattern = innerExpr(pattern)
		default:
			// TODO: pull element types out of destructuring patterns.
			return nil
		}
	}
	return nil
}

func (pc *PostTypeChecker) simplify(t ty.Ty) ty.Ty {
	if t == nil {
		return nil
	}
	return pc.Info.Simplify(t, false)
}

func (pc *PostTypeChecker) checkSignatures(t ty.Ty, pol bool, check postSigCheckFunc) {
	ty.SigSurface(t, pol, ty.SigSurfaceCall, &postSigWorker{pc: pc, check: check})
}

func (pc *PostTypeChecker) checkElementOf(t ty.Ty, pol bool, context *syntax.Node, check postSigCheckFunc) {
	ty.SigSurface(t, pol, sigContextOf(context), &postSigWorker{pc: pc, check: check})
}

// sigContextOf decides which construction surface a literal context
// exposes.
func sigContextOf(context *syntax.Node) ty.SigSurfaceKind {
	if context == nil {
		return ty.SigSurfaceArray
	}
	switch context.Kind() {
	case syntax.Parenthesized:
		return ty.SigSurfaceArrayOrDict
	case syntax.Array:
		for _, child := range context.Children() {
			switch child.Kind() {
			case syntax.LeftParen, syntax.RightParen, syntax.Comma, syntax.Space, syntax.LineComment:
			default:
				return ty.SigSurfaceArray
			}
		}
		// an empty literal could still become a dictionary
		return ty.SigSurfaceArrayOrDict
	case syntax.Dict:
		return ty.SigSurfaceDict
	}
	return ty.SigSurfaceArray
}

func positionalFromBefore(before bool) syntax.ArgClass {
	positional := 1
	if before {
		positional = 0
	}
	return syntax.PositionalArg{Positional: positional}
}

// signatureReceiver accumulates refined bounds, deduplicating each side.
type signatureReceiver struct {
	lbsSeen *set.Set[ty.Ty]
	ubsSeen *set.Set[ty.Ty]
	bounds  ty.Bounds
}

func newSignatureReceiver() *signatureReceiver {
	return &signatureReceiver{
		lbsSeen: set.New[ty.Ty](4),
		ubsSeen: set.New[ty.Ty](4),
	}
}

func (r *signatureReceiver) insert(t ty.Ty, pol bool) {
	if !pol {
		if r.lbsSeen.Insert(t) {
			r.bounds.Lbs = append(r.bounds.Lbs, t)
		}
		return
	}
	if r.ubsSeen.Insert(t) {
		r.bounds.Ubs = append(r.bounds.Ubs, t)
	}
}

func (r *signatureReceiver) finalize() ty.Ty { return ty.NewLet(r.bounds) }

type postSigCheckFunc func(sig ty.Sig, args []*ty.SigTy, pol bool) bool

// slotChecker resolves one argument slot against every signature surface
// the callee exposes.
func (pc *PostTypeChecker) slotChecker(recv *signatureReceiver, target syntax.ArgClass, isSet bool) postSigCheckFunc {
	return func(sig ty.Sig, args []*ty.SigTy, pol bool) bool {
		shape := ty.Shape(sig, args, pc.ctx)
		if shape == nil {
			return false
		}
		sigIns := shape.Sig

		switch target := target.(type) {
		case syntax.NamedArg:
			if target.Name == nil {
				return false
			}
			name := target.Name.Text()
			slot := sigIns.Named(name)
			if slot == nil || !pc.settableOK(sig, name, isSet) {
				return false
			}
			recv.insert(slot, !pol)
			return true

		case syntax.PositionalArg:
			if target.IsSpread {
				return false
			}
			// Bound argument lists shift which declared slot this is.
			shift := 0
			for _, bound := range shape.Withs {
				shift += bound.NameStarted
			}
			nth := sigIns.Pos(shift + target.Positional)
			if nth == nil {
				nth = sigIns.RestParam()
			}
			if nth != nil {
				recv.insert(nth, !pol)
			}

			// A positional slot can still be filled by naming any
			// parameter, so offer every named one as an alternative.
			for _, field := range sigIns.NamedParams() {
				if !pc.settableOK(sig, field.Name, isSet) {
					continue
				}
				recv.insert(ty.NewField(field.Name, ty.Any, syntax.Detached), !pol)
			}
			return true
		}
		return false
	}
}

// settableOK filters set-rule slots down to settable parameters where the
// surface carries parameter metadata.
func (pc *PostTypeChecker) settableOK(sig ty.Sig, name string, isSet bool) bool {
	if !isSet {
		return true
	}
	sv, ok := sig.(ty.SigValue)
	if !ok {
		return true
	}
	spec := pc.ctx.SignatureOf(sv.Func).Primary().GetNamed(name)
	return spec == nil || spec.Attrs.Settable
}

// postSigWorker adapts a slot checker to the surface traversal, resolving
// variables against the session's bounds and request-local binds.
type postSigWorker struct {
	pc    *PostTypeChecker
	check postSigCheckFunc
}

func (w *postSigWorker) CheckSig(sig ty.Sig, ctx *ty.SigCheckContext, pol bool) bool {
	return w.check(sig, ctx.Args, pol)
}

func (w *postSigWorker) CheckVar(v *ty.Var, pol bool) *ty.Bounds {
	if local := w.pc.locals.LocalBindOf(v); local != nil {
		return &ty.Bounds{Lbs: []ty.Ty{local}}
	}
	return w.pc.Info.GlobalBounds(v, pol)
}

// innerExpr is the sole expression child of a parenthesized node, nil when
// absent.
func innerExpr(node *syntax.Node) *syntax.Node {
	var inner *syntax.Node
	for _, child := range node.Children() {
		switch child.Kind() {
		case syntax.LeftParen, syntax.RightParen, syntax.Comma, syntax.Space, syntax.LineComment:
		default:
			inner = child
		}
	}
	return inner
}
