package ty

import "sync"

// pool is the hash-consing pool. Buckets hold every canonical value with a
// given hash; structural equality within a bucket decides identity.
type pool struct {
	mu      sync.Mutex
	buckets map[uint64][]Ty
}

var shared = &pool{buckets: map[uint64][]Ty{}}

// intern returns the canonical instance structurally equal to t, registering
// t if none exists. Children of t must already be canonical.
func intern[T Ty](t T) T {
	shared.mu.Lock()
	defer shared.mu.Unlock()

	h := t.Hash()
	for _, candidate := range shared.buckets[h] {
		if t.equal(candidate) {
			return candidate.(T)
		}
	}
	shared.buckets[h] = append(shared.buckets[h], t)
	return t
}

// SigTy is not itself a Ty but must be canonical so that Func, Args and
// With wrappers compare by pointer. It gets its own pool.
var sigPool = struct {
	mu      sync.Mutex
	buckets map[uint64][]*SigTy
}{buckets: map[uint64][]*SigTy{}}

func internSig(sig *SigTy) *SigTy {
	sigPool.mu.Lock()
	defer sigPool.mu.Unlock()

	h := sig.Hash()
	for _, candidate := range sigPool.buckets[h] {
		if sig.equalSig(candidate) {
			return candidate
		}
	}
	sigPool.buckets[h] = append(sigPool.buckets[h], sig)
	return sig
}
