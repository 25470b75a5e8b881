package ty_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Myriad-Dreamin/tinymist-sub003/ty"
)

type recordingChecker struct {
	seen   []ty.Ty
	pols   []bool
	bounds map[ty.DefID]*ty.Bounds
}

func (c *recordingChecker) Collect(t ty.Ty, pol bool) {
	c.seen = append(c.seen, t)
	c.pols = append(c.pols, pol)
}

func (c *recordingChecker) BoundOfVar(v *ty.Var, _ bool) *ty.Bounds {
	return c.bounds[v.Def]
}

func TestHasBounds(t *testing.T) {
	assert.True(t, ty.HasBounds(ty.FromTypes(ty.Content, ty.Space)))
	assert.True(t, ty.HasBounds(ty.NewLet(ty.Bounds{})))
	assert.True(t, ty.HasBounds(&ty.Var{Name: "x"}))
	assert.False(t, ty.HasBounds(ty.Content))
	assert.False(t, ty.HasBounds(ty.NewArray(ty.Content)))
}

func TestSources(t *testing.T) {
	x := &ty.Var{Name: "x", Def: 1}
	y := &ty.Var{Name: "y", Def: 2}

	t.Run("union order preserved", func(t *testing.T) {
		got := ty.Sources(ty.FromTypes(x, ty.Content, y))
		assert.Equal(t, []*ty.Var{x, y}, got)
	})

	t.Run("through field and select", func(t *testing.T) {
		got := ty.Sources(ty.NewSelect(ty.NewField("size", x, 0), "with"))
		assert.Equal(t, []*ty.Var{x}, got)
	})

	t.Run("none", func(t *testing.T) {
		assert.Empty(t, ty.Sources(ty.NewArray(ty.Content)))
	})
}

func TestCheckBounds(t *testing.T) {
	t.Run("union keeps polarity", func(t *testing.T) {
		c := &recordingChecker{}
		ty.CheckBounds(ty.FromTypes(ty.Content, ty.Space), true, c)
		assert.Equal(t, []ty.Ty{ty.Content, ty.Space}, c.seen)
		assert.Equal(t, []bool{true, true}, c.pols)
	})

	t.Run("let flips lower bounds", func(t *testing.T) {
		c := &recordingChecker{}
		let := ty.NewLet(ty.Bounds{Lbs: []ty.Ty{ty.None}, Ubs: []ty.Ty{ty.Content}})
		ty.CheckBounds(let, true, c)
		require.Equal(t, []ty.Ty{ty.Content, ty.None}, c.seen)
		assert.Equal(t, []bool{true, false}, c.pols)
	})

	t.Run("var resolves through checker", func(t *testing.T) {
		x := &ty.Var{Name: "x", Def: 7}
		c := &recordingChecker{bounds: map[ty.DefID]*ty.Bounds{
			7: {Lbs: []ty.Ty{ty.Space}, Ubs: []ty.Ty{ty.Content}},
		}}
		ty.CheckBounds(x, false, c)
		require.Equal(t, []ty.Ty{ty.Content, ty.Space}, c.seen)
		assert.Equal(t, []bool{false, true}, c.pols)
	})

	t.Run("unknown var is silent", func(t *testing.T) {
		c := &recordingChecker{}
		ty.CheckBounds(&ty.Var{Name: "x", Def: 9}, true, c)
		assert.Empty(t, c.seen)
	})
}
