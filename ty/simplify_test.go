package ty_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Myriad-Dreamin/tinymist-sub003/ty"
)

func TestSimplify(t *testing.T) {
	t.Run("nil passes through", func(t *testing.T) {
		info := ty.NewTypeInfo()
		assert.Nil(t, info.Simplify(nil, true))
	})

	t.Run("positive var keeps single lower bound", func(t *testing.T) {
		info := ty.NewTypeInfo()
		x := info.NewVar("x")
		x.AddLowerBound(ty.Content)
		assert.Equal(t, ty.Ty(ty.Content), info.Simplify(x.Var, true))
	})

	t.Run("unbounded var is any", func(t *testing.T) {
		info := ty.NewTypeInfo()
		x := info.NewVar("x")
		assert.Equal(t, ty.Ty(ty.Any), info.Simplify(x.Var, true))
	})

	t.Run("non principal keeps both sides", func(t *testing.T) {
		info := ty.NewTypeInfo()
		x := info.NewVar("x")
		x.AddLowerBound(ty.Content)
		x.AddUpperBound(ty.Space)

		got := info.Simplify(x.Var, false)
		let, ok := got.(*ty.Let)
		require.True(t, ok)
		assert.Equal(t, []ty.Ty{ty.Content}, let.Lbs)
		assert.Equal(t, []ty.Ty{ty.Space}, let.Ubs)
	})

	t.Run("negative occurrence keeps upper bound", func(t *testing.T) {
		info := ty.NewTypeInfo()
		x := info.NewVar("x")
		x.AddUpperBound(ty.Space)

		fn := ty.NewFunc(ty.NewSigTy([]ty.Ty{x.Var}, nil, nil, ty.Content))
		got := info.Simplify(fn, true)

		sig, ok := got.(*ty.Func)
		require.True(t, ok)
		require.Len(t, sig.Sig.PositionalParams(), 1)
		assert.Equal(t, ty.Ty(ty.Space), sig.Sig.Pos(0))
		assert.Equal(t, ty.Ty(ty.Content), sig.Sig.Ret)
	})

	t.Run("union drops any members", func(t *testing.T) {
		info := ty.NewTypeInfo()
		x := info.NewVar("x")
		got := info.Simplify(ty.FromTypes(x.Var, ty.Content), true)
		assert.Equal(t, ty.Ty(ty.Content), got)
	})

	t.Run("self referential bound terminates", func(t *testing.T) {
		info := ty.NewTypeInfo()
		x := info.NewVar("x")
		x.AddLowerBound(ty.FromTypes(x.Var, ty.Content))
		assert.Equal(t, ty.Ty(ty.Content), info.Simplify(x.Var, true))
	})

	t.Run("mutually recursive bounds terminate", func(t *testing.T) {
		info := ty.NewTypeInfo()
		x := info.NewVar("x")
		y := info.NewVar("y")
		x.AddLowerBound(ty.FromTypes(y.Var, ty.Content))
		y.AddLowerBound(ty.FromTypes(x.Var, ty.Space))

		got := info.Simplify(x.Var, true)
		u, ok := got.(*ty.Union)
		require.True(t, ok)
		assert.ElementsMatch(t, []ty.Ty{ty.Content, ty.Space}, u.Types)
	})

	t.Run("results are cached", func(t *testing.T) {
		info := ty.NewTypeInfo()
		x := info.NewVar("x")
		x.AddLowerBound(ty.NewArray(ty.Content))
		a := info.Simplify(x.Var, true)
		b := info.Simplify(x.Var, true)
		assert.Same(t, a, b)
	})

	t.Run("duplicate bounds collapse", func(t *testing.T) {
		info := ty.NewTypeInfo()
		x := info.NewVar("x")
		x.AddLowerBound(ty.Content)
		x.AddLowerBound(ty.Content)
		assert.Equal(t, ty.Ty(ty.Content), info.Simplify(x.Var, true))
	})
}
