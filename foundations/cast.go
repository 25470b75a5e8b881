package foundations

import "strings"

// CastInfo is the declared-type grammar of a native parameter or return
// value: anything, one concrete value, one type tag, or a union of these.
type CastInfo interface {
	isCastInfo()
	Describe() string
}

type CastAny struct{}

// CastValue admits exactly one value, with documentation attached to it.
type CastValue struct {
	Value Value
	Docs  string
}

// CastType admits any value of one runtime type.
type CastType struct {
	Type *Type
}

// CastUnion admits anything one of its variants admits. Variants may nest.
type CastUnion struct {
	Variants []CastInfo
}

func (CastAny) isCastInfo()   {}
func (CastValue) isCastInfo() {}
func (CastType) isCastInfo()  {}
func (CastUnion) isCastInfo() {}

func (CastAny) Describe() string     { return "any" }
func (c CastValue) Describe() string { return c.Value.Repr() }
func (c CastType) Describe() string  { return c.Type.Name() }

func (c CastUnion) Describe() string {
	parts := make([]string, len(c.Variants))
	for i, v := range c.Variants {
		parts[i] = v.Describe()
	}
	return strings.Join(parts, " | ")
}

// Union builds a CastUnion without flattening; consumers flatten on
// conversion.
func Union(variants ...CastInfo) CastInfo {
	return CastUnion{Variants: variants}
}
