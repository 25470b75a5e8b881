package ty

import (
	"sort"
	"strings"
	"sync"

	xtset "github.com/xtgo/set"
)

// NameBone is an immutable, sorted field-name list shared by record-like
// shapes. Shapes with the same field-name set share one bone regardless of
// declaration order.
type NameBone struct {
	Names []string

	hash uint64
}

var bonePool = struct {
	mu    sync.Mutex
	bones map[string]*NameBone
}{bones: map[string]*NameBone{}}

var emptyBone = NewNameBone(nil)

// EmptyBone is the shared bone of field-less shapes.
func EmptyBone() *NameBone { return emptyBone }

// NewNameBone interns a bone for the given names. Names must already be
// sorted and unique.
func NewNameBone(names []string) *NameBone {
	key := strings.Join(names, "\x00")

	bonePool.mu.Lock()
	defer bonePool.mu.Unlock()
	if bone, ok := bonePool.bones[key]; ok {
		return bone
	}
	bone := &NameBone{Names: names, hash: strHash(key)}
	bonePool.bones[key] = bone
	return bone
}

func (b *NameBone) Hash() uint64 { return b.hash }
func (b *NameBone) Len() int     { return len(b.Names) }

// Find binary-searches for name, returning its index in the bone.
func (b *NameBone) Find(name string) (int, bool) {
	idx := sort.SearchStrings(b.Names, name)
	if idx < len(b.Names) && b.Names[idx] == name {
		return idx, true
	}
	return 0, false
}

// IntersectEnumerate returns the (lhs index, rhs index) pairs of names
// present in both bones, in name order.
func (b *NameBone) IntersectEnumerate(rhs *NameBone) [][2]int {
	if b.Len() == 0 || rhs.Len() == 0 {
		return nil
	}

	data := make(sort.StringSlice, 0, b.Len()+rhs.Len())
	data = append(data, b.Names...)
	data = append(data, rhs.Names...)
	n := xtset.Inter(data, b.Len())

	pairs := make([][2]int, 0, n)
	for _, name := range data[:n] {
		i, _ := b.Find(name)
		j, _ := rhs.Find(name)
		pairs = append(pairs, [2]int{i, j})
	}
	return pairs
}
