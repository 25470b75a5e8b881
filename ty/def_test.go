package ty_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Myriad-Dreamin/tinymist-sub003/foundations"
	"github.com/Myriad-Dreamin/tinymist-sub003/ty"
)

func TestInterningIdentity(t *testing.T) {
	t.Run("array", func(t *testing.T) {
		a := ty.NewArray(ty.Content)
		b := ty.NewArray(ty.Content)
		assert.Same(t, a, b)
	})

	t.Run("nested", func(t *testing.T) {
		a := ty.NewArray(ty.NewArray(ty.Content))
		b := ty.NewArray(ty.NewArray(ty.Content))
		assert.Same(t, a, b)
	})

	t.Run("distinct", func(t *testing.T) {
		a := ty.NewArray(ty.Content)
		b := ty.NewArray(ty.Space)
		assert.NotEqual(t, a, b)
	})

	t.Run("value by repr", func(t *testing.T) {
		a := ty.NewValue(foundations.Int(3))
		b := ty.NewValue(foundations.Int(3))
		c := ty.NewValue(foundations.Int(4))
		assert.Same(t, a, b)
		assert.NotEqual(t, a, c)
	})

	t.Run("field", func(t *testing.T) {
		a := ty.NewField("size", ty.Any, 0)
		b := ty.NewField("size", ty.Any, 0)
		assert.Same(t, a, b)
	})

	t.Run("value across constructors", func(t *testing.T) {
		a := ty.NewValue(foundations.Int(3))
		b := ty.NewValueAt(foundations.Int(3), 0)
		c := ty.NewValueDoc(foundations.Int(3), "")
		assert.Same(t, a, b)
		assert.Same(t, a, c)
		assert.NotEqual(t, a, ty.NewValueAt(foundations.Int(3), 7))
	})
}

func TestFromTypes(t *testing.T) {
	t.Run("empty is any", func(t *testing.T) {
		assert.Equal(t, ty.Ty(ty.Any), ty.FromTypes())
	})

	t.Run("singleton is itself", func(t *testing.T) {
		elem := ty.NewArray(ty.Content)
		assert.Equal(t, elem, ty.FromTypes(elem))
	})

	t.Run("union flattens nested members", func(t *testing.T) {
		inner := ty.FromTypes(ty.None, ty.Space)
		outer := ty.FromTypes(ty.Content, inner, ty.Undef)

		u, ok := outer.(*ty.Union)
		require.True(t, ok)
		assert.Equal(t, []ty.Ty{ty.Content, ty.None, ty.Space, ty.Undef}, u.Types)
	})

	t.Run("flattening is canonical", func(t *testing.T) {
		a := ty.FromTypes(ty.Content, ty.FromTypes(ty.None, ty.Space))
		b := ty.FromTypes(ty.FromTypes(ty.Content, ty.None), ty.Space)
		assert.Same(t, a, b)
	})

	t.Run("deep nesting stays flat", func(t *testing.T) {
		acc := ty.FromTypes(ty.None, ty.Space)
		for range 2048 {
			acc = ty.FromTypes(acc, ty.Content)
		}
		u, ok := acc.(*ty.Union)
		require.True(t, ok)
		assert.Len(t, u.Types, 2050)
	})
}

func TestWithChainIdentity(t *testing.T) {
	sig := ty.NewFunc(ty.NewSigTy([]ty.Ty{ty.Content}, nil, nil, ty.Content))
	args := ty.ArrayCons(ty.Content, false)

	a := ty.NewWith(sig, []*ty.SigTy{args})
	b := ty.NewWith(sig, []*ty.SigTy{args})
	assert.Same(t, a, b)
}
