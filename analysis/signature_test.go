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

func libFunc(t *testing.T, name string) *foundations.Func {
	t.Helper()
	val, ok := foundations.Library().Get(name)
	require.True(t, ok)
	fn, ok := val.(*foundations.Func)
	require.True(t, ok)
	return fn
}

func closureFunc(t *testing.T, src string) *foundations.Func {
	t.Helper()
	root, errs := syntax.Parse(src)
	assert.Empty(t, errs)
	node := firstOfKind(root, syntax.Closure)
	require.NotNil(t, node)
	return foundations.NewClosure(node)
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

func TestNativeSignature(t *testing.T) {
	sig := analysis.FuncSignature(libFunc(t, "text"))
	primary := sig.Primary()

	t.Run("is primary", func(t *testing.T) {
		assert.Same(t, primary, sig.(*analysis.PrimarySignature))
		assert.Zero(t, sig.ParamShift())
		assert.Empty(t, sig.Bindings())
	})

	t.Run("positional body", func(t *testing.T) {
		require.Equal(t, 1, primary.PosSize())
		assert.Equal(t, "body", primary.GetPos(0).Name)
		assert.Nil(t, primary.GetPos(1))
	})

	t.Run("named in name order", func(t *testing.T) {
		names := make([]string, 0, len(primary.Named()))
		for _, spec := range primary.Named() {
			names = append(names, spec.Name)
		}
		assert.Equal(t, []string{"fill", "size", "weight"}, names)
	})

	t.Run("curated named types", func(t *testing.T) {
		assert.Equal(t, ty.Ty(ty.TextSize), primary.GetNamed("size").Ty)
		assert.Nil(t, primary.GetNamed("nope"))
	})

	t.Run("flags", func(t *testing.T) {
		assert.True(t, primary.HasFillOrSizeOrStroke)
		assert.False(t, primary.Broken)
		assert.Nil(t, primary.Rest())
	})

	t.Run("arity invariant", func(t *testing.T) {
		assert.Len(t, primary.SigTy.Types, primary.PosSize()+primary.SigTy.Names.Len())
	})
}

func TestVariadicSignature(t *testing.T) {
	sig := analysis.FuncSignature(libFunc(t, "min")).Primary()
	rest := sig.Rest()
	require.NotNil(t, rest)
	assert.Equal(t, "values", rest.Name)
	assert.True(t, rest.Attrs.Variadic)
	assert.Zero(t, sig.PosSize())
}

func TestClosureSignature(t *testing.T) {
	fn := closureFunc(t, "let f(a, b: 1 + 2, ..rest) = a")
	sig := analysis.FuncSignature(fn).Primary()

	t.Run("positional", func(t *testing.T) {
		require.Equal(t, 1, sig.PosSize())
		spec := sig.GetPos(0)
		assert.Equal(t, "a", spec.Name)
		assert.Equal(t, ty.Ty(ty.Any), spec.Ty)
	})

	t.Run("named default text", func(t *testing.T) {
		spec := sig.GetNamed("b")
		require.NotNil(t, spec)
		assert.Equal(t, "1 + 2", spec.Default)
		assert.Equal(t, "Default value: 1 + 2", spec.Docs)
	})

	t.Run("rest", func(t *testing.T) {
		rest := sig.Rest()
		require.NotNil(t, rest)
		assert.Equal(t, "rest", rest.Name)
	})

	t.Run("not broken", func(t *testing.T) {
		assert.False(t, sig.Broken)
	})
}

func TestBrokenSignature(t *testing.T) {
	fn := closureFunc(t, "let f(..a, ..b) = a")
	sig := analysis.FuncSignature(fn).Primary()
	assert.True(t, sig.Broken)
	// first rest wins
	assert.Equal(t, "a", sig.Rest().Name)
}

func TestPlaceholderParam(t *testing.T) {
	fn := closureFunc(t, "let f(_, b) = b")
	sig := analysis.FuncSignature(fn).Primary()
	require.Equal(t, 2, sig.PosSize())
	assert.Equal(t, "_", sig.GetPos(0).Name)
	assert.Equal(t, "b", sig.GetPos(1).Name)
}

func TestPartialSignature(t *testing.T) {
	base := libFunc(t, "rgb")
	once := base.With(&foundations.Args{Items: []foundations.Arg{
		{Value: foundations.Int(255)},
	}})
	twice := once.With(&foundations.Args{Items: []foundations.Arg{
		{Value: foundations.Int(128)},
		{Name: "blue", Value: foundations.Int(0)},
	}})

	sig := analysis.FuncSignature(twice)
	partial, ok := sig.(*analysis.PartialSignature)
	require.True(t, ok)

	t.Run("oldest binding first", func(t *testing.T) {
		require.Len(t, partial.WithStack, 2)
		assert.Len(t, partial.WithStack[0].Items, 1)
		assert.Len(t, partial.WithStack[1].Items, 2)
		assert.Equal(t, "blue", partial.WithStack[1].Items[1].Name)
	})

	t.Run("shift counts all bound items", func(t *testing.T) {
		assert.Equal(t, 3, sig.ParamShift())
	})

	t.Run("terms are value types", func(t *testing.T) {
		assert.Equal(t, ty.NewValue(foundations.Int(255)), partial.WithStack[0].Items[0].Term)
	})

	t.Run("primary is the base", func(t *testing.T) {
		assert.Equal(t, 3, sig.Primary().PosSize())
	})
}
