package util

import "iter"

// Reverse iterates a slice from its last element to its first. Partial
// application chains are stored newest-first but bind oldest-first.
func Reverse[A any](slice []A) iter.Seq[A] {
	return func(yield func(A) bool) {
		for i := len(slice) - 1; i >= 0; i-- {
			if !yield(slice[i]) {
				return
			}
		}
	}
}
