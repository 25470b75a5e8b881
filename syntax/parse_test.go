package syntax_test

import (
	"strings"
	"testing"

	"github.com/Myriad-Dreamin/tinymist-sub003/syntax"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testParse(t *testing.T, input string) *syntax.Node {
	t.Helper()
	root, errs := syntax.Parse(input)
	assert.Empty(t, errs)
	require.NotNil(t, root)
	return root
}

func firstOfKind(root *syntax.Node, kind syntax.Kind) *syntax.Node {
	stack := []*syntax.Node{root}
	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if n.Kind() == kind {
			return n
		}
		children := n.Children()
		for i := len(children) - 1; i >= 0; i-- {
			stack = append(stack, children[i])
		}
	}
	return nil
}

func TestNoPanics(t *testing.T) {
	files := map[string]string{
		"empty":              ``,
		"lone let":           `let`,
		"unclosed paren":     `f(1, 2`,
		"unclosed string":    `"abc`,
		"unclosed content":   `f[abc`,
		"stray punctuation":  `, : )`,
		"nested junk":        `let x = (a: (b: ))`,
		"spread without arg": `f(..)`,
	}
	for name, file := range files {
		t.Run(name, func(t *testing.T) {
			assert.NotPanics(t, func() {
				_, _ = syntax.Parse(file)
			})
		})
	}
}

func TestDeepNestingBounded(t *testing.T) {
	t.Run("parens", func(t *testing.T) {
		src := strings.Repeat("(", 10000) + `"s"` + strings.Repeat(")", 10000)
		assert.NotPanics(t, func() {
			_, errs := syntax.Parse(src)
			assert.NotEmpty(t, errs)
		})
	})

	t.Run("sign chains", func(t *testing.T) {
		src := strings.Repeat("-", 10000) + "1"
		assert.NotPanics(t, func() {
			_, errs := syntax.Parse(src)
			assert.NotEmpty(t, errs)
		})
	})

	t.Run("moderate depth stays clean", func(t *testing.T) {
		root := testParse(t, strings.Repeat("(", 64)+`"s"`+strings.Repeat(")", 64))
		assert.NotNil(t, firstOfKind(root, syntax.StrLit))
	})
}

func TestLetBinding(t *testing.T) {
	root := testParse(t, `let x = 1 + 2`)

	let := firstOfKind(root, syntax.LetBinding)
	require.NotNil(t, let)
	lb, ok := syntax.AsLetBinding(let)
	require.True(t, ok)

	_, closure := lb.ClosureForm()
	assert.False(t, closure)
	require.NotNil(t, lb.Pattern())
	assert.Equal(t, "x", lb.Pattern().Text())
	require.NotNil(t, lb.Init())
	assert.Equal(t, syntax.Binary, lb.Init().Kind())
}

func TestLetClosure(t *testing.T) {
	root := testParse(t, `let f(a, b: 1, ..rest) = a + b`)

	let := firstOfKind(root, syntax.LetBinding)
	require.NotNil(t, let)
	lb, ok := syntax.AsLetBinding(let)
	require.True(t, ok)

	body, isClosure := lb.ClosureForm()
	require.True(t, isClosure)

	c, ok := syntax.AsClosure(body)
	require.True(t, ok)
	require.NotNil(t, c.Name())
	assert.Equal(t, "f", c.Name().Text())

	params := c.Params()
	require.Len(t, params, 3)
	assert.Equal(t, syntax.Ident, params[0].Kind())
	assert.Equal(t, syntax.Named, params[1].Kind())
	assert.Equal(t, syntax.Spread, params[2].Kind())

	named, ok := syntax.AsNamed(params[1])
	require.True(t, ok)
	assert.Equal(t, "b", named.Name().Text())
	assert.Equal(t, "1", named.Expr().Text())

	spread, ok := syntax.AsSpread(params[2])
	require.True(t, ok)
	require.NotNil(t, spread.SinkIdent())
	assert.Equal(t, "rest", spread.SinkIdent().Text())

	require.NotNil(t, c.Body())
	assert.Equal(t, syntax.Binary, c.Body().Kind())
}

func TestArrowClosure(t *testing.T) {
	root := testParse(t, `let g = (x, y) => x`)

	closure := firstOfKind(root, syntax.Closure)
	require.NotNil(t, closure)
	c, ok := syntax.AsClosure(closure)
	require.True(t, ok)
	assert.Nil(t, c.Name())
	assert.Len(t, c.Params(), 2)
	require.NotNil(t, c.Body())
	assert.Equal(t, "x", c.Body().Text())
}

func TestSingleParamClosure(t *testing.T) {
	root := testParse(t, `let id = (x) => x`)

	closure := firstOfKind(root, syntax.Closure)
	require.NotNil(t, closure)
	c, _ := syntax.AsClosure(closure)
	assert.Len(t, c.Params(), 1)
}

func TestParenDisambiguation(t *testing.T) {
	cases := map[string]struct {
		src  string
		kind syntax.Kind
	}{
		"grouping":       {`(1 + 2)`, syntax.Parenthesized},
		"empty array":    {`()`, syntax.Array},
		"empty dict":     {`(:)`, syntax.Dict},
		"trailing comma": {`(1,)`, syntax.Array},
		"two items":      {`(1, 2)`, syntax.Array},
		"named item":     {`(a: 1)`, syntax.Dict},
		"mixed dict":     {`(a: 1, b: 2)`, syntax.Dict},
		"spread":         {`(..xs,)`, syntax.Array},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			root := testParse(t, tc.src)
			assert.NotNil(t, firstOfKind(root, tc.kind), "expected a %s node", tc.kind)
		})
	}
}

func TestFuncCallArgs(t *testing.T) {
	root := testParse(t, `f(1, a: 2, ..rest)[content]`)

	callNode := firstOfKind(root, syntax.FuncCall)
	require.NotNil(t, callNode)
	call, ok := syntax.AsCall(callNode)
	require.True(t, ok)
	assert.False(t, call.IsSet())
	assert.Equal(t, "f", call.Callee().Text())

	items := syntax.ArgItems(call.ArgsNode())
	require.Len(t, items, 4)
	assert.Equal(t, syntax.IntLit, items[0].Kind())
	assert.Equal(t, syntax.Named, items[1].Kind())
	assert.Equal(t, syntax.Spread, items[2].Kind())
	assert.Equal(t, syntax.ContentBlock, items[3].Kind())
}

func TestSetRule(t *testing.T) {
	root := testParse(t, `set text(size: 12)`)

	setNode := firstOfKind(root, syntax.SetRule)
	require.NotNil(t, setNode)
	call, ok := syntax.AsCall(setNode)
	require.True(t, ok)
	assert.True(t, call.IsSet())
	assert.Equal(t, "text", call.Callee().Text())
	assert.Len(t, syntax.ArgItems(call.ArgsNode()), 1)
}

func TestFieldAccessChain(t *testing.T) {
	root := testParse(t, `f.with(1)(2)`)

	// outermost call wraps the inner one
	outer := firstOfKind(root, syntax.FuncCall)
	require.NotNil(t, outer)
	outerCall, _ := syntax.AsCall(outer)
	inner := outerCall.Callee()
	require.Equal(t, syntax.FuncCall, inner.Kind())

	innerCall, _ := syntax.AsCall(inner)
	fa := innerCall.Callee()
	require.Equal(t, syntax.FieldAccess, fa.Kind())
	assert.Equal(t, "with", syntax.FieldAccessName(fa).Text())
	assert.Equal(t, "f", syntax.FieldAccessTarget(fa).Text())
}

func TestModulePaths(t *testing.T) {
	root := testParse(t, "import \"lib.src\"\ninclude \"chapter.src\"")

	imp := firstOfKind(root, syntax.ModuleImport)
	require.NotNil(t, imp)
	require.NotNil(t, syntax.ImportPathNode(imp))
	assert.Equal(t, syntax.StrLit, syntax.ImportPathNode(imp).Kind())

	inc := firstOfKind(root, syntax.ModuleInclude)
	require.NotNil(t, inc)
}

func TestSpansAndFind(t *testing.T) {
	root := testParse(t, `let x = f(12)`)

	lit := firstOfKind(root, syntax.IntLit)
	require.NotNil(t, lit)
	assert.False(t, lit.Span().IsDetached())

	found := root.Find(lit.Span())
	assert.Same(t, lit, found)

	start, end := lit.Range()
	assert.Equal(t, "12", `let x = f(12)`[start:end])
}

func TestLeafAt(t *testing.T) {
	src := `f(abc, de)`
	root := testParse(t, src)

	leaf := root.LeafAt(5) // after "abc"
	require.NotNil(t, leaf)
	assert.Equal(t, "abc", leaf.Text())

	leaf = root.LeafAt(9) // after "de"
	require.NotNil(t, leaf)
	assert.Equal(t, "de", leaf.Text())
}

func TestErrorRecovery(t *testing.T) {
	root, errs := syntax.Parse(`let x = f(1,`)
	assert.NotEmpty(t, errs)
	require.NotNil(t, root)
	// the call survives with its parsed argument
	call := firstOfKind(root, syntax.FuncCall)
	require.NotNil(t, call)
	assert.NotNil(t, firstOfKind(call, syntax.IntLit))
}
