package ty

// ParamAttrs classifies how a parameter binds.
type ParamAttrs struct {
	Positional bool
	Named      bool
	Variadic   bool
	Settable   bool
}

// ParamSpec is one resolved parameter of a signature: the user-facing form
// consumed by completion and hover.
type ParamSpec struct {
	Name string
	Docs string
	// Default is the textual form of the default value, empty if none.
	Default string
	Ty      Ty
	Attrs   ParamAttrs
}

func PositionalSpec(name string, t Ty) *ParamSpec {
	return &ParamSpec{Name: name, Ty: t, Attrs: ParamAttrs{Positional: true}}
}

func NamedSpec(name string, t Ty) *ParamSpec {
	return &ParamSpec{Name: name, Ty: t, Attrs: ParamAttrs{Named: true}}
}

func RestSpec(name string, t Ty) *ParamSpec {
	return &ParamSpec{Name: name, Ty: t, Attrs: ParamAttrs{Variadic: true}}
}
