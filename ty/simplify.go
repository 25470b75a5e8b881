package ty

import (
	"github.com/hashicorp/go-set/v3"
)

// Simplify canonicalizes t against the accrued variable bounds. With
// principal set, a variable occurring only positively keeps just its lower
// bounds and one occurring only negatively keeps just its upper bounds;
// otherwise both sides are inlined. Results are cached per session.
func (info *TypeInfo) Simplify(t Ty, principal bool) Ty {
	if t == nil {
		return nil
	}
	info.canoMu.Lock()
	defer info.canoMu.Unlock()

	key := canoKey{t: t, principal: principal}
	if cached, ok := info.canoCache[key]; ok {
		return cached
	}

	// Variable inlining depends on the polarity occurrences of this
	// particular run, so the per-variable cache cannot survive it.
	clear(info.canoLocalCache)

	s := &simplifier{
		info:      info,
		principal: principal,
		positives: set.New[DefID](8),
		negatives: set.New[DefID](8),
	}
	s.analyze(t, true)
	result := s.transform(t, true)

	info.canoCache[key] = result
	return result
}

type simplifier struct {
	info      *TypeInfo
	principal bool
	positives *set.Set[DefID]
	negatives *set.Set[DefID]
}

// analyze marks on which polarities each variable occurs.
func (s *simplifier) analyze(t Ty, pol bool) {
	switch t := t.(type) {
	case *Var:
		var inserted bool
		if pol {
			inserted = s.positives.Insert(t.Def)
		} else {
			inserted = s.negatives.Insert(t.Def)
		}
		if !inserted {
			return
		}
		entry := s.info.VarBounds(t.Def)
		if entry == nil {
			return
		}
		if pol {
			for _, lb := range entry.Bounds.Lbs {
				s.analyze(lb, pol)
			}
		} else {
			for _, ub := range entry.Bounds.Ubs {
				s.analyze(ub, pol)
			}
		}
	case *Func:
		for _, input := range t.Sig.Inputs() {
			s.analyze(input, !pol)
		}
		if t.Sig.Ret != nil {
			s.analyze(t.Sig.Ret, pol)
		}
	case *Args:
		for _, input := range t.Sig.Inputs() {
			s.analyze(input, pol)
		}
	case *With:
		s.analyze(t.Sig, pol)
		for _, sig := range t.Args {
			for _, input := range sig.Inputs() {
				s.analyze(input, pol)
			}
		}
	case *Dict:
		for _, member := range t.Record.Types {
			s.analyze(member, pol)
		}
	case *Tuple:
		for _, elem := range t.Elems {
			s.analyze(elem, pol)
		}
	case *Array:
		s.analyze(t.Elem, pol)
	case *Union:
		for _, member := range t.Types {
			s.analyze(member, pol)
		}
	case *Let:
		for _, lb := range t.Lbs {
			s.analyze(lb, !pol)
		}
		for _, ub := range t.Ubs {
			s.analyze(ub, pol)
		}
	case *Field:
		s.analyze(t.Ty, pol)
	case *Select:
		s.analyze(t.Ty, pol)
	case *Unary:
		s.analyze(t.Val, pol)
	case *Binary:
		s.analyze(t.Lhs, pol)
		s.analyze(t.Rhs, pol)
	case *If:
		s.analyze(t.Cond, pol)
		s.analyze(t.Then, pol)
		s.analyze(t.Else, pol)
	}
}

func (s *simplifier) transform(t Ty, pol bool) Ty {
	switch t := t.(type) {
	case *Let:
		return s.transformLet(t.Lbs, t.Ubs, nil, pol)
	case *Var:
		key := localCanoKey{def: t.Def, principal: s.principal}
		if cached, ok := s.info.canoLocalCache[key]; ok {
			return cached
		}
		// Cycle sentinel: a variable reached through its own bounds
		// collapses to Any.
		s.info.canoLocalCache[key] = Any

		result := Ty(Any)
		if entry := s.info.VarBounds(t.Def); entry != nil {
			def := t.Def
			result = s.transformLet(entry.Bounds.Lbs, entry.Bounds.Ubs, &def, pol)
		}
		s.info.canoLocalCache[key] = result
		return result
	case *Func:
		return NewFunc(s.transformSig(t.Sig, pol))
	case *Args:
		return NewArgs(s.transformSig(t.Sig, !pol))
	case *With:
		sig := s.transform(t.Sig, pol)
		args := make([]*SigTy, len(t.Args))
		for i, w := range t.Args {
			// Arguments flow against the function they apply to.
			args[i] = s.transformSig(w, !pol)
		}
		return NewWith(sig, args)
	case *Dict:
		fields := make([]RecordField, len(t.Record.Names.Names))
		for i, name := range t.Record.Names.Names {
			fields[i] = RecordField{Name: name, Ty: s.transform(t.Record.Types[i], pol)}
		}
		return NewDict(NewRecord(fields))
	case *Tuple:
		return NewTuple(s.transformSeq(t.Elems, pol))
	case *Array:
		return NewArray(s.transform(t.Elem, pol))
	case *Union:
		members := make([]Ty, 0, len(t.Types))
		for _, member := range t.Types {
			canon := s.transform(member, pol)
			if canon == Any {
				continue
			}
			members = append(members, canon)
		}
		return FromTypes(members...)
	case *Field:
		return NewField(t.Name, s.transform(t.Ty, pol), t.Span)
	case *Select:
		return NewSelect(s.transform(t.Ty, pol), t.Name)
	case *Unary:
		return NewUnary(t.Op, s.transform(t.Val, pol))
	case *Binary:
		return NewBinary(t.Op, s.transform(t.Lhs, pol), s.transform(t.Rhs, pol))
	case *If:
		return NewIf(s.transform(t.Cond, pol), s.transform(t.Then, pol), s.transform(t.Else, pol))
	default:
		return t
	}
}

func (s *simplifier) transformLet(lbs, ubs []Ty, def *DefID, pol bool) Ty {
	lbsOut := make([]Ty, 0, len(lbs))
	ubsOut := make([]Ty, 0, len(ubs))
	lbsSeen := set.New[Ty](len(lbs))
	ubsSeen := set.New[Ty](len(ubs))

	if !s.principal || (pol && !(def != nil && s.negatives.Contains(*def))) {
		for _, lb := range lbs {
			canon := s.transform(lb, pol)
			if lbsSeen.Insert(canon) {
				lbsOut = append(lbsOut, canon)
			}
		}
	}
	if !s.principal || (!pol && !(def != nil && s.positives.Contains(*def))) {
		for _, ub := range ubs {
			canon := s.transform(ub, !pol)
			if ubsSeen.Insert(canon) {
				ubsOut = append(ubsOut, canon)
			}
		}
	}

	if len(ubsOut) == 0 {
		if len(lbsOut) == 1 {
			return lbsOut[0]
		}
		if len(lbsOut) == 0 {
			return Any
		}
	} else if len(lbsOut) == 0 && len(ubsOut) == 1 {
		return ubsOut[0]
	}

	sortTypes(lbsOut)
	sortTypes(ubsOut)
	return NewLet(Bounds{Lbs: lbsOut, Ubs: ubsOut})
}

func (s *simplifier) transformSig(sig *SigTy, pol bool) *SigTy {
	types := s.transformSeq(sig.Types, !pol)
	var ret Ty
	if sig.Ret != nil {
		ret = s.transform(sig.Ret, pol)
	}
	mutated := &SigTy{
		Types:       types,
		Names:       sig.Names,
		NameStarted: sig.NameStarted,
		SpreadLeft:  sig.SpreadLeft,
		SpreadRight: sig.SpreadRight,
		Ret:         ret,
	}
	return mutated.seal()
}

func (s *simplifier) transformSeq(types []Ty, pol bool) []Ty {
	out := make([]Ty, len(types))
	for i, t := range types {
		out[i] = s.transform(t, pol)
	}
	return out
}
