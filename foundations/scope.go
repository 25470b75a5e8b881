package foundations

// Scope maps names to values, the resolution surface the analyzer sees for
// globals and module exports.
type Scope struct {
	values map[string]Value
}

func NewScope() *Scope {
	return &Scope{values: map[string]Value{}}
}

func (s *Scope) Define(name string, v Value) {
	s.values[name] = v
}

func (s *Scope) Get(name string) (Value, bool) {
	v, ok := s.values[name]
	return v, ok
}

func (s *Scope) Names() []string {
	names := make([]string, 0, len(s.values))
	for name := range s.values {
		names = append(names, name)
	}
	return names
}

// Library builds the default global scope: a small standard library of
// element and utility functions, enough for path, color and layout analysis.
func Library() *Scope {
	scope := NewScope()

	lengthOrAuto := Union(CastType{Type: TypeLength}, CastType{Type: TypeAuto})
	paint := Union(CastType{Type: TypeColor}, CastType{Type: TypeNone})

	scope.Define("text", NewNative(&NativeFunc{
		Name:    "text",
		Title:   "Text",
		Element: true,
		Params: []*ParamInfo{
			{Name: "size", Input: CastType{Type: TypeLength}, Named: true, Settable: true,
				Default: func() Value { return Float(11) }},
			{Name: "fill", Input: paint, Named: true, Settable: true},
			{Name: "weight", Input: Union(CastType{Type: TypeInt}, CastType{Type: TypeStr}), Named: true, Settable: true},
			{Name: "body", Input: CastType{Type: TypeContent}, Positional: true, Required: true},
		},
		Ret: CastType{Type: TypeContent},
	}))

	scope.Define("rect", NewNative(&NativeFunc{
		Name:    "rect",
		Title:   "Rectangle",
		Element: true,
		Params: []*ParamInfo{
			{Name: "width", Input: lengthOrAuto, Named: true, Settable: true,
				Default: func() Value { return Auto{} }},
			{Name: "height", Input: lengthOrAuto, Named: true, Settable: true,
				Default: func() Value { return Auto{} }},
			{Name: "fill", Input: paint, Named: true, Settable: true},
			{Name: "stroke", Input: Union(CastType{Type: TypeStroke}, CastType{Type: TypeNone}, CastType{Type: TypeAuto}), Named: true, Settable: true},
			{Name: "body", Input: Union(CastType{Type: TypeContent}, CastType{Type: TypeNone}), Positional: true},
		},
		Ret: CastType{Type: TypeContent},
	}))

	scope.Define("image", NewNative(&NativeFunc{
		Name:    "image",
		Title:   "Image",
		Element: true,
		Params: []*ParamInfo{
			{Name: "path", Input: CastType{Type: TypeStr}, Positional: true, Required: true},
			{Name: "width", Input: lengthOrAuto, Named: true, Settable: true},
			{Name: "alt", Input: Union(CastType{Type: TypeStr}, CastType{Type: TypeNone}), Named: true, Settable: true},
		},
		Ret: CastType{Type: TypeContent},
	}))

	scope.Define("rgb", NewNative(&NativeFunc{
		Name:  "rgb",
		Title: "RGB color",
		Params: []*ParamInfo{
			{Name: "red", Input: Union(CastType{Type: TypeInt}, CastType{Type: TypeStr}), Positional: true, Required: true},
			{Name: "green", Input: CastType{Type: TypeInt}, Positional: true},
			{Name: "blue", Input: CastType{Type: TypeInt}, Positional: true},
		},
		Ret: CastType{Type: TypeColor},
	}))

	scope.Define("min", NewNative(&NativeFunc{
		Name:  "min",
		Title: "Minimum",
		Params: []*ParamInfo{
			{Name: "values", Input: CastAny{}, Variadic: true},
		},
		Ret: CastAny{},
	}))

	return scope
}
