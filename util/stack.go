package util

// Stack is a slice-backed LIFO. The analysis walks use it instead of
// recursion so tree depth is bounded by the caller, not the Go stack.
type Stack[A any] struct {
	items []A
}

func StackOf[A any](items ...A) *Stack[A] {
	return &Stack[A]{items: items}
}

func (s *Stack[A]) Push(items ...A) {
	s.items = append(s.items, items...)
}

func (s *Stack[A]) Pop() (ret A, ok bool) {
	if len(s.items) == 0 {
		return ret, false
	}
	last := len(s.items) - 1
	ret = s.items[last]
	s.items = s.items[:last]
	return ret, true
}

func (s *Stack[A]) Len() int {
	return len(s.items)
}
