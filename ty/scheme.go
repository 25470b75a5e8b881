package ty

import (
	"sort"
	"sync"

	"github.com/benbjohnson/immutable"
	"github.com/google/uuid"
	"github.com/hashicorp/go-set/v3"

	"github.com/Myriad-Dreamin/tinymist-sub003/syntax"
)

// TypeVarBounds is one arena entry: a type variable together with its
// accumulated bounds. Bounds only grow; observations are appended, never
// retracted.
type TypeVarBounds struct {
	Var    *Var
	Bounds Bounds
}

func (b *TypeVarBounds) AsTy() Ty { return b.Var }

func (b *TypeVarBounds) AddLowerBound(t Ty) {
	b.Bounds.Lbs = append(b.Bounds.Lbs, t)
}

func (b *TypeVarBounds) AddUpperBound(t Ty) {
	b.Bounds.Ubs = append(b.Bounds.Ubs, t)
}

// Snap is a snapshot of the local binding scope.
type Snap = *immutable.Map[uint32, Ty]

// TypeInfo is the type information of one document revision: the baseline
// span-to-type table, the arena of type-variable bounds, and the
// canonicalization caches. It is the session object every analysis reads
// through.
type TypeInfo struct {
	// Valid reports whether typing completed.
	Valid bool
	// Revision identifies the session; a new revision invalidates every
	// cache keyed next to it.
	Revision uuid.UUID
	// Exports are the module's exported bindings.
	Exports map[string]Ty

	vars    []*TypeVarBounds
	mapping map[syntax.Span]*set.Set[Ty]

	localBinds *immutable.Map[uint32, Ty]

	canoMu         sync.Mutex
	canoCache      map[canoKey]Ty
	canoLocalCache map[localCanoKey]Ty
}

type canoKey struct {
	t         Ty
	principal bool
}

type localCanoKey struct {
	def       DefID
	principal bool
}

func NewTypeInfo() *TypeInfo {
	return &TypeInfo{
		Revision:       uuid.New(),
		Exports:        map[string]Ty{},
		mapping:        map[syntax.Span]*set.Set[Ty]{},
		localBinds:     immutable.NewMap[uint32, Ty](nil),
		canoCache:      map[canoKey]Ty{},
		canoLocalCache: map[localCanoKey]Ty{},
	}
}

// NewVar allocates a fresh type variable with empty bounds.
func (info *TypeInfo) NewVar(name string) *TypeVarBounds {
	def := DefID(len(info.vars))
	entry := &TypeVarBounds{Var: &Var{Name: name, Def: def}}
	info.vars = append(info.vars, entry)
	return entry
}

// VarBounds addresses an arena entry.
func (info *TypeInfo) VarBounds(def DefID) *TypeVarBounds {
	if int(def) >= len(info.vars) {
		return nil
	}
	return info.vars[def]
}

// GlobalBounds snapshots a variable's accrued bounds.
func (info *TypeInfo) GlobalBounds(v *Var, _ bool) *Bounds {
	entry := info.VarBounds(v.Def)
	if entry == nil {
		return nil
	}
	snapshot := Bounds{
		Lbs: append([]Ty(nil), entry.Bounds.Lbs...),
		Ubs: append([]Ty(nil), entry.Bounds.Ubs...),
	}
	return &snapshot
}

// Witness records an observed type at a source site.
func (info *TypeInfo) Witness(site syntax.Span, t Ty) {
	if site.IsDetached() || t == nil {
		return
	}
	types, ok := info.mapping[site]
	if !ok {
		types = set.New[Ty](1)
		info.mapping[site] = types
	}
	types.Insert(t)
}

// TypeOfSpan collapses every witnessed type at a site into one type, nil
// when nothing was witnessed.
func (info *TypeInfo) TypeOfSpan(site syntax.Span) Ty {
	types, ok := info.mapping[site]
	if !ok || types.Empty() {
		return nil
	}
	collected := types.Slice()
	sortTypes(collected)
	return FromTypes(collected...)
}

// StartScope opens a local binding scope, returning the snapshot to
// restore on exit.
func (info *TypeInfo) StartScope() Snap { return info.localBinds }

func (info *TypeInfo) EndScope(snap Snap) { info.localBinds = snap }

// BindLocal shadows a variable within the current scope.
func (info *TypeInfo) BindLocal(v *Var, t Ty) {
	info.localBinds = info.localBinds.Set(uint32(v.Def), t)
}

// LocalBindOf is the shadowed type of v, nil if unbound.
func (info *TypeInfo) LocalBindOf(v *Var) Ty {
	t, ok := info.localBinds.Get(uint32(v.Def))
	if !ok {
		return nil
	}
	return t
}

// sortTypes orders types deterministically, by hash then rendering.
func sortTypes(types []Ty) {
	sort.SliceStable(types, func(i, j int) bool {
		hi, hj := types[i].Hash(), types[j].Hash()
		if hi != hj {
			return hi < hj
		}
		return types[i].String() < types[j].String()
	})
}
