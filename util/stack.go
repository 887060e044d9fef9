// Package util provides small helpers shared by the command line and the TUI.
package util

// Stack is a last-in-first-out list.
type Stack[T any] struct {
	items []T
}

// Push adds item on top.
func (s *Stack[T]) Push(item T) {
	s.items = append(s.items, item)
}

// Pop removes and returns the top item, or the zero value and false when empty.
func (s *Stack[T]) Pop() (item T, ok bool) {
	if len(s.items) == 0 {
		return item, false
	}
	idx := len(s.items) - 1
	item = s.items[idx]
	s.items = s.items[:idx]
	return item, true
}

// Peek returns the top item without removing it.
func (s *Stack[T]) Peek() (item T, ok bool) {
	if len(s.items) == 0 {
		return item, false
	}
	return s.items[len(s.items)-1], true
}

// Len returns the number of items.
func (s *Stack[T]) Len() int {
	return len(s.items)
}

// Clear removes every item.
func (s *Stack[T]) Clear() {
	s.items = nil
}
