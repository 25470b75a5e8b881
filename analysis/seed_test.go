package analysis_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Myriad-Dreamin/tinymist-sub003/analysis"
	"github.com/Myriad-Dreamin/tinymist-sub003/foundations"
	"github.com/Myriad-Dreamin/tinymist-sub003/syntax"
	"github.com/Myriad-Dreamin/tinymist-sub003/ty"
)

func seedSrc(t *testing.T, src string) (*syntax.Node, *ty.TypeInfo) {
	t.Helper()
	root, errs := syntax.Parse(src)
	assert.Empty(t, errs)
	info := analysis.SeedTypes(root, foundations.Library())
	require.True(t, info.Valid)
	return root, info
}

func TestSeedLiterals(t *testing.T) {
	root, info := seedSrc(t, `let x = (1, "s", true, none, auto)`)

	typeAt := func(kind syntax.Kind, text string) ty.Ty {
		node := findLeaf(root, kind, text)
		require.NotNil(t, node)
		return info.TypeOfSpan(node.Span())
	}

	assert.Equal(t, ty.NewValue(foundations.Int(1)), typeAt(syntax.IntLit, "1"))
	assert.Equal(t, ty.NewValue(foundations.Str("s")), typeAt(syntax.StrLit, `"s"`))
	assert.Equal(t, ty.NewValue(foundations.Bool(true)), typeAt(syntax.BoolLit, "true"))
	assert.Equal(t, ty.Ty(ty.None), typeAt(syntax.NoneLit, "none"))
	assert.Equal(t, ty.Ty(ty.Auto), typeAt(syntax.AutoLit, "auto"))
}

func TestSeedLetBinding(t *testing.T) {
	root, info := seedSrc(t, "let x = 1\nx")

	var idents []*syntax.Node
	stack := []*syntax.Node{root}
	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if n.Kind() == syntax.Ident && n.Text() == "x" {
			idents = append(idents, n)
		}
		children := n.Children()
		for i := len(children) - 1; i >= 0; i-- {
			stack = append(stack, children[i])
		}
	}
	require.Len(t, idents, 2)

	pattern := info.TypeOfSpan(idents[0].Span())
	use := info.TypeOfSpan(idents[1].Span())
	require.NotNil(t, pattern)
	// the use site sees the very variable the binding allocated
	assert.Same(t, pattern, use)

	assert.Equal(t, ty.NewValue(foundations.Int(1)), info.Simplify(pattern, false))
}

func TestSeedTupleBinding(t *testing.T) {
	root, info := seedSrc(t, `let x = (1, "s")`)

	pattern := findLeaf(root, syntax.Ident, "x")
	require.NotNil(t, pattern)
	got := info.Simplify(info.TypeOfSpan(pattern.Span()), false)

	want := ty.NewTuple([]ty.Ty{
		ty.NewValue(foundations.Int(1)),
		ty.NewValue(foundations.Str("s")),
	})
	assert.Equal(t, want, got)
}

func TestSeedClosureValuesDistinct(t *testing.T) {
	root, info := seedSrc(t, "let f(a) = a\nlet g(a) = a")

	fnAt := func(name string) *foundations.Func {
		node := findLeaf(root, syntax.Ident, name)
		require.NotNil(t, node)
		val, ok := info.TypeOfSpan(node.Span()).(*ty.Value)
		require.True(t, ok)
		fn, ok := val.Val.(*foundations.Func)
		require.True(t, ok)
		return fn
	}

	// identical-looking closures stay distinct function values
	assert.NotSame(t, fnAt("f"), fnAt("g"))
}

func TestSeedExports(t *testing.T) {
	_, info := seedSrc(t, "let x = 1\nlet f(a) = a")
	assert.Contains(t, info.Exports, "x")
	assert.Contains(t, info.Exports, "f")
	assert.NotContains(t, info.Exports, "a")
}

func TestSeedCallReturn(t *testing.T) {
	root, info := seedSrc(t, "rgb(30, 60, 90)")

	call := firstOfKind(root, syntax.FuncCall)
	require.NotNil(t, call)
	assert.Equal(t, ty.TypeTy(foundations.TypeColor), info.TypeOfSpan(call.Span()))
}

func TestSeedPartialApplication(t *testing.T) {
	root, info := seedSrc(t, "let f(a, b: 1) = a\nlet g = f.with(2)")

	pattern := findLeaf(root, syntax.Ident, "g")
	require.NotNil(t, pattern)
	got := info.Simplify(info.TypeOfSpan(pattern.Span()), false)

	val, ok := got.(*ty.Value)
	require.True(t, ok, "expected function value, got %v", got)
	fn, ok := val.Val.(*foundations.Func)
	require.True(t, ok)

	inner, args, ok := fn.Applied()
	require.True(t, ok)
	assert.Len(t, args.Items, 1)
	_, isClosure := inner.Closure()
	assert.True(t, isClosure)
}

func TestSeedDeepTreeBounded(t *testing.T) {
	// nodes past the walk's depth bound seed nothing instead of growing
	// the stack
	node := syntax.NewLeaf(syntax.StrLit, `"s"`)
	for i := 0; i < 10000; i++ {
		node = syntax.NewInner(syntax.Parenthesized, node)
	}
	root := syntax.NewInner(syntax.Code, node)

	assert.NotPanics(t, func() {
		info := analysis.SeedTypes(root, foundations.Library())
		require.True(t, info.Valid)
	})
}

func TestSeedUnknownIdent(t *testing.T) {
	root, info := seedSrc(t, "mystery")
	node := findLeaf(root, syntax.Ident, "mystery")
	require.NotNil(t, node)
	assert.Nil(t, info.TypeOfSpan(node.Span()))
}
