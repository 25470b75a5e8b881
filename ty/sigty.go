package ty

import (
	"sort"
	"strings"
)

// RecordField is one named field used to build records and signatures.
type RecordField struct {
	Name string
	Ty   Ty
}

// Record is a record shape: a name bone plus the aligned field types.
type Record struct {
	Names *NameBone
	Types []Ty
}

// shapeFields sorts fields by name and splits them into a bone and the
// aligned type slice. This canonicalization makes declaration order
// irrelevant to the resulting shape.
func shapeFields(fields []RecordField) (*NameBone, []Ty) {
	sorted := make([]RecordField, len(fields))
	copy(sorted, fields)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Name < sorted[j].Name })

	names := make([]string, len(sorted))
	types := make([]Ty, len(sorted))
	for i, f := range sorted {
		names[i] = f.Name
		types[i] = f.Ty
	}
	return NewNameBone(names), types
}

func NewRecord(fields []RecordField) *Record {
	names, types := shapeFields(fields)
	return &Record{Names: names, Types: types}
}

func (r *Record) Bone() *NameBone { return r.Names }

func (r *Record) FieldByBoneOffset(i int) Ty {
	if i < 0 || i >= len(r.Types) {
		return nil
	}
	return r.Types[i]
}

func (r *Record) Field(name string) Ty {
	idx, ok := r.Names.Find(name)
	if !ok {
		return nil
	}
	return r.Types[idx]
}

func (r *Record) String() string {
	parts := make([]string, len(r.Types))
	for i, t := range r.Types {
		parts[i] = r.Names.Names[i] + ": " + t.String()
	}
	return "{" + strings.Join(parts, ", ") + "}"
}

func (r *Record) hashOf() uint64 {
	h := r.Names.Hash() * 139
	for _, t := range r.Types {
		h = h*31 ^ t.Hash()
	}
	return h
}

func (r *Record) equalRecord(other *Record) bool {
	if r.Names != other.Names || len(r.Types) != len(other.Types) {
		return false
	}
	for i, t := range r.Types {
		if t != other.Types[i] {
			return false
		}
	}
	return true
}

// SigTy is the canonical shape of a callable's parameter list (also reused
// as an argument-list shape): one flat type list ordered as
// [positional..., named-in-name-order..., rest?], the boundary index where
// named types start, the name bone, spread flags, and an optional return
// type.
//
// Invariant: len(Types) == NameStarted + Names.Len() + (1 if SpreadRight).
type SigTy struct {
	Types       []Ty
	Ret         Ty
	Names       *NameBone
	NameStarted int
	SpreadLeft  bool
	SpreadRight bool

	hash uint64
}

func (s *SigTy) seal() *SigTy {
	h := uint64(0xa0761d6478bd642f)
	for _, t := range s.Types {
		h = h*31 ^ t.Hash()
	}
	if s.Ret != nil {
		h = h*37 ^ s.Ret.Hash()
	}
	h = h*41 ^ s.Names.Hash()
	h = h*43 ^ uint64(s.NameStarted)
	if s.SpreadLeft {
		h *= 47
	}
	if s.SpreadRight {
		h *= 53
	}
	s.hash = h
	return internSig(s)
}

// NewSigTy builds a signature from positional types, named fields (any
// order), an optional rest type and an optional return type.
func NewSigTy(pos []Ty, named []RecordField, rest, ret Ty) *SigTy {
	names, namedTypes := shapeFields(named)

	types := make([]Ty, 0, len(pos)+len(namedTypes)+1)
	types = append(types, pos...)
	types = append(types, namedTypes...)
	if rest != nil {
		types = append(types, rest)
	}

	return (&SigTy{
		Types:       types,
		Ret:         ret,
		Names:       names,
		NameStarted: len(pos),
		SpreadRight: rest != nil,
	}).seal()
}

// ArrayCons is the construction signature of array literals: every element
// feeds one rest slot.
func ArrayCons(elem Ty, anyify bool) *SigTy {
	ret := NewArray(elem)
	if anyify {
		ret = Any
	}
	return (&SigTy{
		Types:       []Ty{elem},
		Ret:         ret,
		Names:       EmptyBone(),
		SpreadRight: true,
	}).seal()
}

// DictCons is the construction signature of dictionary literals: every
// field is a named slot.
func DictCons(rec *Record, anyify bool) *SigTy {
	ret := NewDict(rec)
	if anyify {
		ret = Any
	}
	return (&SigTy{
		Types: rec.Types,
		Ret:   ret,
		Names: rec.Names,
	}).seal()
}

// TupleCons is the construction signature of tuple literals: one positional
// slot per element.
func TupleCons(elems []Ty, anyify bool) *SigTy {
	ret := NewTuple(elems)
	if anyify {
		ret = Any
	}
	return (&SigTy{
		Types:       elems,
		Ret:         ret,
		Names:       EmptyBone(),
		NameStarted: len(elems),
	}).seal()
}

func (s *SigTy) Hash() uint64 { return s.hash }

func (s *SigTy) equalSig(other *SigTy) bool {
	if s.Names != other.Names || s.NameStarted != other.NameStarted ||
		s.SpreadLeft != other.SpreadLeft || s.SpreadRight != other.SpreadRight ||
		s.Ret != other.Ret || len(s.Types) != len(other.Types) {
		return false
	}
	for i, t := range s.Types {
		if t != other.Types[i] {
			return false
		}
	}
	return true
}

// Inputs is the full flat type list.
func (s *SigTy) Inputs() []Ty { return s.Types }

// PositionalParams is the positional prefix.
func (s *SigTy) PositionalParams() []Ty { return s.Types[:s.NameStarted] }

// NamedParams zips the name bone with the named type slice.
func (s *SigTy) NamedParams() []RecordField {
	fields := make([]RecordField, s.Names.Len())
	for i := range fields {
		fields[i] = RecordField{Name: s.Names.Names[i], Ty: s.Types[s.NameStarted+i]}
	}
	return fields
}

// RestParam is the trailing rest type, if any.
func (s *SigTy) RestParam() Ty {
	if s.SpreadRight && len(s.Types) > 0 {
		return s.Types[len(s.Types)-1]
	}
	return nil
}

// Pos is the idx-th positional type.
func (s *SigTy) Pos(idx int) Ty {
	if idx < 0 || idx >= s.NameStarted {
		return nil
	}
	return s.Types[idx]
}

// Named looks a named slot up by name.
func (s *SigTy) Named(name string) Ty {
	idx, ok := s.Names.Find(name)
	if !ok {
		return nil
	}
	return s.Types[idx+s.NameStarted]
}

func (s *SigTy) Bone() *NameBone { return s.Names }

func (s *SigTy) FieldByBoneOffset(i int) Ty {
	idx := i + s.NameStarted
	if idx < 0 || idx >= len(s.Types) {
		return nil
	}
	return s.Types[idx]
}

func (s *SigTy) String() string {
	var parts []string
	for _, t := range s.PositionalParams() {
		parts = append(parts, t.String())
	}
	for _, f := range s.NamedParams() {
		parts = append(parts, f.Name+": "+f.Ty.String())
	}
	if rest := s.RestParam(); rest != nil {
		parts = append(parts, "...: "+rest.String()+"[]")
	}
	ret := "any"
	if s.Ret != nil {
		ret = s.Ret.String()
	}
	return "(" + strings.Join(parts, ", ") + ") => " + ret
}

// MatchPair is one (parameter type, argument type) correspondence.
type MatchPair struct {
	Param Ty
	Arg   Ty
}

// Matches pairs this signature's slots with an argument shape: positional
// prefixes are zipped, with either side's rest type absorbing the other
// side's overflow, then named slots common to both shapes are paired.
// Bound argument lists of a partial-application chain come first, oldest
// first. This is a coarse probe: named-only or rest-only mismatches do not
// stop the pairing.
func (s *SigTy) Matches(args *SigTy, withs []*SigTy) []MatchPair {
	withLen := 0
	for _, w := range withs {
		withLen += w.NameStarted
	}

	argPos := make([]Ty, 0, withLen+args.NameStarted)
	for _, w := range withs {
		argPos = append(argPos, w.PositionalParams()...)
	}
	argPos = append(argPos, args.PositionalParams()...)

	sigPos := s.PositionalParams()
	sigRest := s.RestParam()
	argRest := args.RestParam()

	maxLen := len(sigPos)
	if len(argPos) > maxLen {
		maxLen = len(argPos)
	}
	if sigRest != nil && argRest != nil {
		maxLen++
	}

	at := func(list []Ty, rest Ty, i int) Ty {
		if i < len(list) {
			return list[i]
		}
		return rest
	}

	var pairs []MatchPair
	for i := 0; i < maxLen; i++ {
		param := at(sigPos, sigRest, i)
		arg := at(argPos, argRest, i)
		if param == nil || arg == nil {
			break
		}
		pairs = append(pairs, MatchPair{Param: param, Arg: arg})
	}

	for _, w := range withs {
		pairs = appendCommonFields(pairs, s, w)
	}
	return appendCommonFields(pairs, s, args)
}

// fielder is a record-like shape with a bone and bone-indexed field access.
type fielder interface {
	Bone() *NameBone
	FieldByBoneOffset(i int) Ty
}

func appendCommonFields(pairs []MatchPair, lhs, rhs fielder) []MatchPair {
	for _, ij := range lhs.Bone().IntersectEnumerate(rhs.Bone()) {
		l := lhs.FieldByBoneOffset(ij[0])
		r := rhs.FieldByBoneOffset(ij[1])
		if l == nil || r == nil {
			continue
		}
		pairs = append(pairs, MatchPair{Param: l, Arg: r})
	}
	return pairs
}
