package ty_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Myriad-Dreamin/tinymist-sub003/foundations"
	"github.com/Myriad-Dreamin/tinymist-sub003/ty"
)

func TestPathPreferenceOf(t *testing.T) {
	for path, want := range map[string]ty.PathPreference{
		"chapter.typ":     ty.PathSource,
		"photo.png":       ty.PathImage,
		"table.csv":       ty.PathCsv,
		"data.json":       ty.PathJson,
		"conf.yaml":       ty.PathYaml,
		"conf.yml":        ty.PathYaml,
		"refs.bib":        ty.PathBibliography,
		"theme.tmTheme":   ty.PathRawTheme,
		"lang.tmLanguage": ty.PathRawSyntax,
	} {
		t.Run(path, func(t *testing.T) {
			got, ok := ty.PathPreferenceOf(path)
			require.True(t, ok)
			assert.Equal(t, want, got)
		})
	}

	t.Run("no extension", func(t *testing.T) {
		_, ok := ty.PathPreferenceOf("Makefile")
		assert.False(t, ok)
	})

	t.Run("unknown extension", func(t *testing.T) {
		_, ok := ty.PathPreferenceOf("a.blob")
		assert.False(t, ok)
	})
}

func TestMatchExt(t *testing.T) {
	assert.True(t, ty.PathAny.MatchExt("blob"))
	assert.True(t, ty.PathSpecial.MatchExt("bib"))
	assert.False(t, ty.PathSpecial.MatchExt("blob"))
	assert.True(t, ty.PathImage.MatchExt("svg"))
	assert.False(t, ty.PathImage.MatchExt("csv"))
}

func TestFromCastInfo(t *testing.T) {
	t.Run("any", func(t *testing.T) {
		assert.Equal(t, ty.Ty(ty.Any), ty.FromCastInfo(foundations.CastAny{}))
	})

	t.Run("nil grammar", func(t *testing.T) {
		assert.Equal(t, ty.Ty(ty.Any), ty.FromCastInfo(nil))
	})

	t.Run("type tag", func(t *testing.T) {
		got := ty.FromCastInfo(foundations.CastType{Type: foundations.TypeStr})
		assert.Equal(t, ty.TypeTy(foundations.TypeStr), got)
	})

	t.Run("value", func(t *testing.T) {
		got := ty.FromCastInfo(foundations.CastValue{Value: foundations.Str("auto"), Docs: "keep default"})
		assert.Equal(t, ty.NewValueDoc(foundations.Str("auto"), "keep default"), got)
	})

	t.Run("nested unions flatten", func(t *testing.T) {
		info := foundations.Union(
			foundations.CastType{Type: foundations.TypeStr},
			foundations.Union(
				foundations.CastType{Type: foundations.TypeInt},
				foundations.CastType{Type: foundations.TypeFloat},
			),
		)
		got := ty.FromCastInfo(info)
		u, ok := got.(*ty.Union)
		require.True(t, ok)
		assert.Equal(t, []ty.Ty{
			ty.TypeTy(foundations.TypeStr),
			ty.TypeTy(foundations.TypeInt),
			ty.TypeTy(foundations.TypeFloat),
		}, u.Types)
	})
}

func TestFromParamSite(t *testing.T) {
	lib := foundations.Library()

	fnOf := func(name string) *foundations.Func {
		v, ok := lib.Get(name)
		require.True(t, ok)
		fn, ok := v.(*foundations.Func)
		require.True(t, ok)
		return fn
	}

	t.Run("curated text size", func(t *testing.T) {
		fn := fnOf("text")
		native, ok := fn.Native()
		require.True(t, ok)
		param := native.Param("size")
		require.NotNil(t, param)
		assert.Equal(t, ty.Ty(ty.TextSize), ty.FromParamSite(fn, param))
	})

	t.Run("curated image path", func(t *testing.T) {
		fn := fnOf("image")
		native, _ := fn.Native()
		param := native.Param("path")
		require.NotNil(t, param)
		assert.Equal(t, ty.PathTy(ty.PathImage), ty.FromParamSite(fn, param))
	})

	t.Run("mapping penetrates partial application", func(t *testing.T) {
		fn := fnOf("text")
		applied := fn.With(&foundations.Args{})
		native, _ := fn.Native()
		param := native.Param("size")
		assert.Equal(t, ty.Ty(ty.TextSize), ty.FromParamSite(applied, param))
	})
}
