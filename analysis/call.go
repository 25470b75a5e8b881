package analysis

import (
	"github.com/Myriad-Dreamin/tinymist-sub003/foundations"
	"github.com/Myriad-Dreamin/tinymist-sub003/syntax"
	"github.com/Myriad-Dreamin/tinymist-sub003/ty"
	"github.com/Myriad-Dreamin/tinymist-sub003/util"
)

// ParamKind describes how an argument binds to a parameter.
type ParamKind uint8

const (
	// ParamPositional binds by position.
	ParamPositional ParamKind = iota
	// ParamNamed binds by name.
	ParamNamed
	// ParamRest binds into the rest parameter.
	ParamRest
)

// CallParamInfo describes one bound call argument.
type CallParamInfo struct {
	Kind ParamKind
	// IsContentBlock marks trailing block arguments.
	IsContentBlock bool
	Param          *ty.ParamSpec
}

// CallInfo describes a function call: the resolved signature and the
// mapping from argument nodes to parameters.
type CallInfo struct {
	Signature  Signature
	ArgMapping map[*syntax.Node]CallParamInfo
}

// AnalyzeCall binds the arguments of a call to the parameters of the
// callee. Argument lists bound earlier by partial application consume
// leading positional slots. Arguments beyond the signature's arity are
// dropped silently; binding is for navigation, not checking.
func AnalyzeCall(ctx *Context, fn *foundations.Func, args *syntax.Node) *CallInfo {
	if fn == nil || args == nil {
		return nil
	}

	// Unwrap the application chain, newest application first.
	var withArgs []*foundations.Args
	for {
		inner, bound, ok := fn.Applied()
		if !ok {
			break
		}
		withArgs = append(withArgs, bound)
		fn = inner
	}

	signature := ctx.SignatureOf(fn)
	info := &CallInfo{
		Signature:  signature,
		ArgMapping: map[*syntax.Node]CallParamInfo{},
	}

	builder := &posBuilder{sig: signature.Primary()}
	builder.advance(info, nil)

	// bound lists replay oldest first
	for bound := range util.Reverse(withArgs) {
		for _, arg := range bound.Items {
			if arg.Name == "" {
				builder.advance(info, nil)
			}
		}
	}

	for _, arg := range syntax.ArgItems(args) {
		switch arg.Kind() {
		case syntax.Named:
			named, ok := syntax.AsNamed(arg)
			if !ok {
				continue
			}
			param := signature.Primary().GetNamed(named.Name().Text())
			if param == nil {
				continue
			}
			info.ArgMapping[arg] = CallParamInfo{Kind: ParamNamed, Param: param}
		case syntax.Spread:
			builder.advanceRest(info, arg)
		default:
			builder.advance(info, arg)
		}
	}

	return info
}

// posBuilder tracks which positional slot the next argument falls into.
type posState uint8

const (
	stateInit posState = iota
	statePos
	stateVariadic
	stateFinal
)

type posBuilder struct {
	state posState
	idx   int
	sig   *PrimarySignature
}

func (b *posBuilder) next() {
	if b.idx+1 < b.sig.PosSize() {
		b.idx++
		return
	}
	if b.sig.Rest() != nil {
		b.state = stateVariadic
	} else {
		b.state = stateFinal
	}
}

func (b *posBuilder) advance(info *CallInfo, arg *syntax.Node) {
	var kind ParamKind
	var param *ty.ParamSpec
	switch b.state {
	case stateInit:
		if b.sig.PosSize() > 0 {
			b.state = statePos
		} else if b.sig.Rest() != nil {
			b.state = stateVariadic
		} else {
			b.state = stateFinal
		}
		return
	case statePos:
		kind, param = ParamPositional, b.sig.GetPos(b.idx)
		b.next()
	case stateVariadic:
		kind, param = ParamRest, b.sig.Rest()
	case stateFinal:
		return
	}

	if arg == nil || param == nil {
		return
	}
	info.ArgMapping[arg] = CallParamInfo{
		Kind:           kind,
		IsContentBlock: arg.Kind() == syntax.ContentBlock,
		Param:          param,
	}
}

func (b *posBuilder) advanceRest(info *CallInfo, arg *syntax.Node) {
	switch b.state {
	case statePos:
		// A spread swallows the remaining declared slots.
		if b.sig.Rest() != nil {
			b.state = stateVariadic
		} else {
			b.state = stateFinal
		}
	case stateVariadic:
	case stateFinal:
		return
	}

	rest := b.sig.Rest()
	if rest == nil || arg == nil {
		return
	}
	info.ArgMapping[arg] = CallParamInfo{
		Kind:           ParamRest,
		IsContentBlock: arg.Kind() == syntax.ContentBlock,
		Param:          rest,
	}
}
