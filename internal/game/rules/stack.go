package rules

import "errors"

// ErrStackEmpty is returned when popping an empty stack.
var ErrStackEmpty = errors.New("stack empty")

// StackItem is anything that can sit on the stack.
type StackItem interface {
	StackID() string
}

// Stack is the ordered list of declared but unresolved actions, topmost last.
// It carries no lock: the owning game is only ever touched by one caller.
type Stack[T StackItem] struct {
	Items []T `json:"items"`
}

// Push adds an item to the top of the stack.
func (s *Stack[T]) Push(item T) {
	s.Items = append(s.Items, item)
}

// Pop removes the top item from the stack.
func (s *Stack[T]) Pop() (T, error) {
	var zero T
	if len(s.Items) == 0 {
		return zero, ErrStackEmpty
	}
	idx := len(s.Items) - 1
	item := s.Items[idx]
	s.Items[idx] = zero
	s.Items = s.Items[:idx]
	return item, nil
}

// Remove deletes an item from anywhere in the stack by ID.
func (s *Stack[T]) Remove(id string) (T, bool) {
	var zero T
	for idx := len(s.Items) - 1; idx >= 0; idx-- {
		if s.Items[idx].StackID() == id {
			item := s.Items[idx]
			s.Items = append(s.Items[:idx], s.Items[idx+1:]...)
			return item, true
		}
	}
	return zero, false
}

// Peek returns the top item without removing it.
func (s *Stack[T]) Peek() (T, bool) {
	var zero T
	if len(s.Items) == 0 {
		return zero, false
	}
	return s.Items[len(s.Items)-1], true
}

// List returns a copy of all stack items (topmost last).
func (s *Stack[T]) List() []T {
	cpy := make([]T, len(s.Items))
	copy(cpy, s.Items)
	return cpy
}

// Len returns the number of items.
func (s *Stack[T]) Len() int {
	return len(s.Items)
}

// IsEmpty returns whether the stack is empty.
func (s *Stack[T]) IsEmpty() bool {
	return len(s.Items) == 0
}

// Clone copies the stack, cloning each item with fn.
func (s *Stack[T]) Clone(fn func(T) T) Stack[T] {
	out := Stack[T]{Items: make([]T, len(s.Items))}
	for i, item := range s.Items {
		out.Items[i] = fn(item)
	}
	return out
}
