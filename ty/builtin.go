package ty

import (
	"path/filepath"
	"strings"

	"github.com/Myriad-Dreamin/tinymist-sub003/foundations"
)

// PathPreference classifies which kind of file a path-typed parameter wants.
type PathPreference uint8

const (
	PathSource PathPreference = iota
	PathCsv
	PathImage
	PathJson
	PathYaml
	PathXml
	PathToml
	PathCsl
	PathBibliography
	PathRawTheme
	PathRawSyntax
	PathSpecial
	PathAny
)

var pathNames = map[PathPreference]string{
	PathSource:       "source",
	PathCsv:          "csv",
	PathImage:        "image",
	PathJson:         "json",
	PathYaml:         "yaml",
	PathXml:          "xml",
	PathToml:         "toml",
	PathCsl:          "csl",
	PathBibliography: "bibliography",
	PathRawTheme:     "raw-theme",
	PathRawSyntax:    "raw-syntax",
	PathSpecial:      "special",
	PathAny:          "any",
}

var pathExts = map[PathPreference][]string{
	PathSource:       {"src", "typ", "typc"},
	PathCsv:          {"csv"},
	PathImage:        {"ico", "bmp", "png", "webp", "jpg", "jpeg", "jfif", "tiff", "gif", "svg", "svgz"},
	PathJson:         {"json", "jsonc", "json5"},
	PathYaml:         {"yaml", "yml"},
	PathXml:          {"xml"},
	PathToml:         {"toml"},
	PathCsl:          {"csl"},
	PathBibliography: {"yaml", "yml", "bib"},
	PathRawTheme:     {"tmTheme", "xml"},
	PathRawSyntax:    {"tmLanguage", "sublime-syntax"},
}

func (p PathPreference) String() string { return pathNames[p] }

// MatchExt reports whether a file extension (without dot) satisfies the
// preference.
func (p PathPreference) MatchExt(ext string) bool {
	switch p {
	case PathAny:
		return true
	case PathSpecial:
		for _, exts := range pathExts {
			for _, e := range exts {
				if e == ext {
					return true
				}
			}
		}
		return false
	}
	for _, e := range pathExts[p] {
		if e == ext {
			return true
		}
	}
	return false
}

// PathPreferenceOf finds the first preference matching a path's extension.
func PathPreferenceOf(path string) (PathPreference, bool) {
	ext := strings.TrimPrefix(filepath.Ext(path), ".")
	if ext == "" {
		return 0, false
	}
	for p := PathSource; p <= PathRawSyntax; p++ {
		if p.MatchExt(ext) {
			return p, true
		}
	}
	return 0, false
}

// BuiltinKind tags a Builtin type.
type BuiltinKind uint8

const (
	KindColor BuiltinKind = iota
	KindLength
	KindFloat
	KindTextSize
	KindTextFont
	KindLabel
	KindRefLabel
	KindStroke
	KindMargin
	KindInset
	KindOutset
	KindRadius
	KindType
	KindTypeType
	KindElement
	KindModule
	KindPath
)

var builtinKindNames = map[BuiltinKind]string{
	KindColor:    "Color",
	KindLength:   "Length",
	KindFloat:    "Float",
	KindTextSize: "TextSize",
	KindTextFont: "TextFont",
	KindLabel:    "Label",
	KindRefLabel: "RefLabel",
	KindStroke:   "Stroke",
	KindMargin:   "Margin",
	KindInset:    "Inset",
	KindOutset:   "Outset",
	KindRadius:   "Radius",
	KindType:     "Type",
	KindTypeType: "TypeType",
	KindElement:  "Element",
	KindModule:   "Module",
	KindPath:     "Path",
}

// Builtin is a built-in type tag, optionally carrying a payload for the
// Type, Element, Module and Path kinds.
type Builtin struct {
	Kind   BuiltinKind
	Type   *foundations.Type
	Elem   *foundations.NativeFunc
	Module string
	Path   PathPreference
}

var (
	Color    Ty = Builtin{Kind: KindColor}
	Length   Ty = Builtin{Kind: KindLength}
	Float    Ty = Builtin{Kind: KindFloat}
	TextSize Ty = Builtin{Kind: KindTextSize}
	TextFont Ty = Builtin{Kind: KindTextFont}
	Label    Ty = Builtin{Kind: KindLabel}
	RefLabel Ty = Builtin{Kind: KindRefLabel}
	Stroke   Ty = Builtin{Kind: KindStroke}
	Margin   Ty = Builtin{Kind: KindMargin}
	Inset    Ty = Builtin{Kind: KindInset}
	Outset   Ty = Builtin{Kind: KindOutset}
	Radius   Ty = Builtin{Kind: KindRadius}
)

func TypeTy(t *foundations.Type) Ty    { return Builtin{Kind: KindType, Type: t} }
func TypeOfTy(t *foundations.Type) Ty  { return Builtin{Kind: KindTypeType, Type: t} }
func ModuleTy(name string) Ty          { return Builtin{Kind: KindModule, Module: name} }
func PathTy(pref PathPreference) Ty    { return Builtin{Kind: KindPath, Path: pref} }
func ElementTy(e *foundations.NativeFunc) Ty {
	return Builtin{Kind: KindElement, Elem: e}
}

func (b Builtin) String() string {
	switch b.Kind {
	case KindType, KindTypeType:
		return "Type(" + b.Type.Name() + ")"
	case KindElement:
		return "Element(" + b.Elem.Name + ")"
	case KindModule:
		return "Module(" + b.Module + ")"
	case KindPath:
		return "Path(" + b.Path.String() + ")"
	}
	return builtinKindNames[b.Kind]
}

func (b Builtin) Hash() uint64 {
	h := uint64(b.Kind)*0x2545f4914f6cdd1d ^ 137
	if b.Type != nil {
		h ^= strHash(b.Type.Name()) * 31
	}
	if b.Elem != nil {
		h ^= strHash(b.Elem.Name) * 37
	}
	h ^= strHash(b.Module) * 41
	h ^= uint64(b.Path) * 43
	return h
}

func (b Builtin) equal(other Ty) bool {
	o, ok := other.(Builtin)
	return ok && b == o
}

var _ Ty = Builtin{}

// FromCastInfo converts a declared-type grammar into a Ty, flattening
// nested unions depth-first with an explicit stack.
func FromCastInfo(info foundations.CastInfo) Ty {
	switch c := info.(type) {
	case foundations.CastAny:
		return Any
	case foundations.CastValue:
		return NewValueDoc(c.Value, c.Docs)
	case foundations.CastType:
		return TypeTy(c.Type)
	case foundations.CastUnion:
		var members []Ty
		stack := [][]foundations.CastInfo{c.Variants}
		for len(stack) > 0 {
			top := stack[len(stack)-1]
			if len(top) == 0 {
				stack = stack[:len(stack)-1]
				continue
			}
			head := top[0]
			stack[len(stack)-1] = top[1:]
			if u, ok := head.(foundations.CastUnion); ok {
				stack = append(stack, u.Variants)
				continue
			}
			members = append(members, FromCastInfo(head))
		}
		return IterUnion(members)
	}
	return Any
}

// FromParamSite resolves a native parameter's declared type, preferring the
// curated builtin mapping over the raw grammar.
func FromParamSite(fn *foundations.Func, param *foundations.ParamInfo) Ty {
	for {
		inner, _, ok := fn.Applied()
		if !ok {
			break
		}
		fn = inner
	}
	if native, ok := fn.Native(); ok {
		if mapped := paramMapping(native.Name, param); mapped != nil {
			return mapped
		}
	}
	if param.Input == nil {
		return Any
	}
	return FromCastInfo(param.Input)
}

// FromReturnSite resolves a function's return type. Element functions
// return their own element type.
func FromReturnSite(fn *foundations.Func, ret foundations.CastInfo) Ty {
	for {
		inner, _, ok := fn.Applied()
		if !ok {
			break
		}
		fn = inner
	}
	if native, ok := fn.Native(); ok && native.Element {
		return ElementTy(native)
	}
	if ret == nil {
		return Any
	}
	return FromCastInfo(ret)
}

func strValue(s string) Ty { return NewValue(foundations.Str(s)) }

func strUnion(options ...string) Ty {
	members := make([]Ty, len(options))
	for i, s := range options {
		members[i] = strValue(s)
	}
	return IterUnion(members)
}

// paramMapping refines well-known (function, parameter) pairs to builtin
// tags that the declared grammar is too coarse to express.
func paramMapping(funcName string, param *foundations.ParamInfo) Ty {
	switch {
	case param.Name == "path":
		switch funcName {
		case "cbor", "read":
			return PathTy(PathAny)
		case "csv":
			return PathTy(PathCsv)
		case "image":
			return PathTy(PathImage)
		case "json":
			return PathTy(PathJson)
		case "yaml":
			return PathTy(PathYaml)
		case "xml":
			return PathTy(PathXml)
		case "toml":
			return PathTy(PathToml)
		case "bibliography":
			return PathTy(PathBibliography)
		}
	case funcName == "raw" && param.Name == "theme":
		return PathTy(PathRawTheme)
	case funcName == "raw" && param.Name == "syntaxes":
		return PathTy(PathRawSyntax)
	case funcName == "ref" && param.Name == "target":
		return IterUnion([]Ty{RefLabel})
	case funcName == "text" && param.Name == "size":
		return TextSize
	case funcName == "text" && param.Name == "font":
		return IterUnion([]Ty{TextFont, NewArray(TextFont)})
	case param.Name == "fill":
		switch funcName {
		case "page", "highlight", "text", "path", "rect", "ellipse", "circle", "polygon", "box", "block", "table":
			return Color
		}
	case param.Name == "stroke":
		switch funcName {
		case "cancel", "highlight", "overline", "strike", "underline", "text", "path",
			"rect", "ellipse", "circle", "polygon", "box", "block", "table", "line":
			return Stroke
		}
	case param.Name == "inset":
		switch funcName {
		case "table", "cell", "block", "box", "circle", "ellipse", "rect", "square":
			return Inset
		}
	case param.Name == "outset":
		switch funcName {
		case "block", "box", "circle", "ellipse", "rect", "square":
			return Outset
		}
	case param.Name == "radius":
		switch funcName {
		case "block", "box", "rect", "square":
			return Radius
		}
	case funcName == "page" && param.Name == "margin":
		return Margin
	case funcName == "stroke" && param.Name == "dash":
		return strokeDashType()
	}
	return nil
}

func strokeDashType() Ty {
	dashArray := NewArray(IterUnion([]Ty{strValue("dot"), Float}))
	return IterUnion([]Ty{
		strUnion(
			"solid", "dotted", "densely-dotted", "loosely-dotted",
			"dashed", "densely-dashed", "loosely-dashed",
			"dash-dotted", "densely-dash-dotted", "loosely-dash-dotted",
		),
		dashArray,
		NewDict(NewRecord([]RecordField{
			{Name: "array", Ty: dashArray},
			{Name: "phase", Ty: Length},
		})),
	})
}

func sideRecord(extra ...RecordField) *Record {
	fields := []RecordField{
		{Name: "top", Ty: Length},
		{Name: "right", Ty: Length},
		{Name: "bottom", Ty: Length},
		{Name: "left", Ty: Length},
		{Name: "x", Ty: Length},
		{Name: "y", Ty: Length},
		{Name: "rest", Ty: Length},
	}
	return NewRecord(append(fields, extra...))
}

// Dictionary shapes behind the aggregate builtin tags, used when a literal
// is typed against one of them.
func StrokeDict() *Record {
	return NewRecord([]RecordField{
		{Name: "paint", Ty: Color},
		{Name: "thickness", Ty: Length},
		{Name: "cap", Ty: strUnion("butt", "round", "square")},
		{Name: "join", Ty: strUnion("miter", "round", "bevel")},
		{Name: "dash", Ty: strokeDashType()},
		{Name: "miter-limit", Ty: Float},
	})
}

func MarginDict() *Record {
	return sideRecord(
		RecordField{Name: "inside", Ty: Length},
		RecordField{Name: "outside", Ty: Length},
	)
}

func InsetDict() *Record  { return sideRecord() }
func OutsetDict() *Record { return sideRecord() }
func RadiusDict() *Record {
	return sideRecord(
		RecordField{Name: "top-left", Ty: Length},
		RecordField{Name: "top-right", Ty: Length},
		RecordField{Name: "bottom-left", Ty: Length},
		RecordField{Name: "bottom-right", Ty: Length},
	)
}
