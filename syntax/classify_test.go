package syntax_test

import (
	"strings"
	"testing"

	"github.com/Myriad-Dreamin/tinymist-sub003/syntax"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// classifyAt parses src and classifies the context right before the `|`
// marker in src.
func classifyAt(t *testing.T, src string) syntax.SyntaxContext {
	t.Helper()
	cursor := strings.Index(src, "|")
	require.GreaterOrEqual(t, cursor, 0, "missing cursor marker")
	clean := strings.Replace(src, "|", "", 1)
	root, _ := syntax.Parse(clean)
	require.NotNil(t, root)
	return syntax.ClassifyCursor(root, cursor)
}

func TestClassifyPositionalArg(t *testing.T) {
	ctx := classifyAt(t, `f(1, ab|c)`)
	arg, ok := ctx.(syntax.ContextArg)
	require.True(t, ok, "got %T", ctx)
	assert.Equal(t, "f", arg.Callee.Text())
	assert.False(t, arg.IsSet)

	pos, ok := arg.Target.(syntax.PositionalArg)
	require.True(t, ok, "got %T", arg.Target)
	assert.Equal(t, 1, pos.Positional)
	assert.False(t, pos.IsSpread)
	assert.Empty(t, pos.Spreads)
}

func TestClassifyNamedArg(t *testing.T) {
	ctx := classifyAt(t, `f(size: 1|2)`)
	arg, ok := ctx.(syntax.ContextArg)
	require.True(t, ok, "got %T", ctx)

	named, ok := arg.Target.(syntax.NamedArg)
	require.True(t, ok, "got %T", arg.Target)
	assert.Equal(t, "size", named.Name.Text())
}

func TestClassifyNamedArgName(t *testing.T) {
	ctx := classifyAt(t, `f(siz|e: 12)`)
	arg, ok := ctx.(syntax.ContextArg)
	require.True(t, ok, "got %T", ctx)

	named, ok := arg.Target.(syntax.NamedArg)
	require.True(t, ok, "got %T", arg.Target)
	assert.Equal(t, "size", named.Name.Text())
}

func TestClassifyArgAfterSpread(t *testing.T) {
	ctx := classifyAt(t, `f(..xs, y|)`)
	arg, ok := ctx.(syntax.ContextArg)
	require.True(t, ok, "got %T", ctx)

	pos, ok := arg.Target.(syntax.PositionalArg)
	require.True(t, ok, "got %T", arg.Target)
	assert.Equal(t, 0, pos.Positional)
	assert.Len(t, pos.Spreads, 1)
}

func TestClassifySetRuleArg(t *testing.T) {
	ctx := classifyAt(t, `set text(size: 1|2)`)
	arg, ok := ctx.(syntax.ContextArg)
	require.True(t, ok, "got %T", ctx)
	assert.True(t, arg.IsSet)
	assert.Equal(t, "text", arg.Callee.Text())
}

func TestClassifyArrayElement(t *testing.T) {
	ctx := classifyAt(t, `(1, x|y, 3)`)
	elem, ok := ctx.(syntax.ContextElement)
	require.True(t, ok, "got %T", ctx)
	assert.Equal(t, syntax.Array, elem.Container.Kind())

	pos, ok := elem.Target.(syntax.PositionalArg)
	require.True(t, ok, "got %T", elem.Target)
	assert.Equal(t, 1, pos.Positional)
}

func TestClassifyDictElement(t *testing.T) {
	ctx := classifyAt(t, `(a: 1, b: x|y)`)
	elem, ok := ctx.(syntax.ContextElement)
	require.True(t, ok, "got %T", ctx)
	assert.Equal(t, syntax.Dict, elem.Container.Kind())

	named, ok := elem.Target.(syntax.NamedArg)
	require.True(t, ok, "got %T", elem.Target)
	assert.Equal(t, "b", named.Name.Text())
}

func TestClassifyParen(t *testing.T) {
	ctx := classifyAt(t, `(ab|c)`)
	paren, ok := ctx.(syntax.ContextParen)
	require.True(t, ok, "got %T", ctx)
	assert.True(t, paren.IsBefore)
	assert.Equal(t, syntax.Parenthesized, paren.Container.Kind())

	ctx = classifyAt(t, `( ab|c)`)
	paren, ok = ctx.(syntax.ContextParen)
	require.True(t, ok, "got %T", ctx)
	assert.False(t, paren.IsBefore)
}

func TestClassifyVarAccess(t *testing.T) {
	ctx := classifyAt(t, `let y = ab|c`)
	va, ok := ctx.(syntax.ContextVarAccess)
	require.True(t, ok, "got %T", ctx)
	assert.Equal(t, "abc", va.Node.Text())
}

func TestClassifyImportPath(t *testing.T) {
	ctx := classifyAt(t, `import "li|b.src"`)
	_, ok := ctx.(syntax.ContextImportPath)
	assert.True(t, ok, "got %T", ctx)

	ctx = classifyAt(t, `include "ch|apter.src"`)
	_, ok = ctx.(syntax.ContextIncludePath)
	assert.True(t, ok, "got %T", ctx)
}

func TestClassifyLabel(t *testing.T) {
	ctx := classifyAt(t, `let x = <intro|>`)
	lbl, ok := ctx.(syntax.ContextLabel)
	require.True(t, ok, "got %T", ctx)
	assert.False(t, lbl.IsError)
}

func TestClassifyNormal(t *testing.T) {
	ctx := classifyAt(t, `let x = 4|2`)
	_, ok := ctx.(syntax.ContextNormal)
	assert.True(t, ok, "got %T", ctx)
}
