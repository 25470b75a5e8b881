package analysis

import (
	"sort"

	"github.com/Myriad-Dreamin/tinymist-sub003/foundations"
	"github.com/Myriad-Dreamin/tinymist-sub003/syntax"
	"github.com/Myriad-Dreamin/tinymist-sub003/ty"
	"github.com/Myriad-Dreamin/tinymist-sub003/util"
)

// InlayHint is one parameter-name annotation in front of a positional
// argument.
type InlayHint struct {
	// Offset is the source position the label is rendered at.
	Offset int
	// Label is the rendered text, "name:".
	Label string
	// Span identifies the annotated argument.
	Span syntax.Span
}

// InlayHints annotates every call in the tree whose callee resolves to a
// known function, naming the parameter each positional argument binds to.
func InlayHints(ctx *Context, info *ty.TypeInfo, root *syntax.Node) []InlayHint {
	var hints []InlayHint

	stack := util.StackOf(root)
	for {
		node, ok := stack.Pop()
		if !ok {
			break
		}
		children := node.Children()
		for i := len(children) - 1; i >= 0; i-- {
			stack.Push(children[i])
		}

		if node.Kind() != syntax.FuncCall && node.Kind() != syntax.SetRule {
			continue
		}
		call, ok := syntax.AsCall(node)
		if !ok {
			continue
		}
		fn := resolveFunc(info, call.Callee())
		if fn == nil {
			continue
		}
		callInfo := AnalyzeCall(ctx, fn, call.ArgsNode())
		if callInfo == nil {
			continue
		}
		hints = append(hints, callHints(callInfo)...)
	}
	return hints
}

func callHints(info *CallInfo) []InlayHint {
	var hints []InlayHint
	for arg, bound := range info.ArgMapping {
		// Content blocks already read as their element; naming them is
		// noise.
		if bound.IsContentBlock || bound.Param == nil || bound.Param.Name == "" || bound.Param.Name == "_" {
			continue
		}
		var label string
		switch bound.Kind {
		case ParamPositional:
			label = bound.Param.Name + ":"
		case ParamRest:
			label = ".." + bound.Param.Name + ":"
		default:
			continue
		}
		hints = append(hints, InlayHint{Offset: arg.Offset(), Label: label, Span: arg.Span()})
	}
	// Map iteration order is not stable.
	sort.Slice(hints, func(i, j int) bool { return hints[i].Offset < hints[j].Offset })
	return hints
}

// resolveFunc extracts a function value from the callee's baseline type.
func resolveFunc(info *ty.TypeInfo, callee *syntax.Node) *foundations.Func {
	if callee == nil {
		return nil
	}
	t := info.TypeOfSpan(callee.Span())
	if t == nil {
		return nil
	}
	t = info.Simplify(t, false)

	var fn *foundations.Func
	stack := util.StackOf(t)
	for fn == nil {
		cur, ok := stack.Pop()
		if !ok {
			break
		}
		switch v := cur.(type) {
		case *ty.Value:
			if f, ok := v.Val.(*foundations.Func); ok {
				fn = f
			}
		case ty.Builtin:
			if v.Kind == ty.KindElement {
				fn = v.Elem.Func()
			}
		case *ty.Union:
			stack.Push(v.Types...)
		case *ty.Let:
			stack.Push(v.Lbs...)
		}
	}
	return fn
}
