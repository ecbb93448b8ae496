// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package operations

// UniqueStack is a LIFO stack that ignores pushes of elements already
// pending. An element can be pushed again once it has been popped.
type UniqueStack[T comparable] struct {
	items   []T
	pending map[T]struct{}
}

// NewUniqueStack creates an empty stack.
func NewUniqueStack[T comparable]() *UniqueStack[T] {
	return &UniqueStack[T]{pending: make(map[T]struct{})}
}

// Push adds x unless it is already pending and reports whether it did.
func (s *UniqueStack[T]) Push(x T) bool {
	if _, ok := s.pending[x]; ok {
		return false
	}
	s.pending[x] = struct{}{}
	s.items = append(s.items, x)
	return true
}

// Pop removes and returns the most recently pushed element.
func (s *UniqueStack[T]) Pop() (T, bool) {
	var zero T
	if len(s.items) == 0 {
		return zero, false
	}
	x := s.items[len(s.items)-1]
	s.items[len(s.items)-1] = zero
	s.items = s.items[:len(s.items)-1]
	delete(s.pending, x)
	return x, true
}

// Peek returns the top element without removing it.
func (s *UniqueStack[T]) Peek() (T, bool) {
	if len(s.items) == 0 {
		var zero T
		return zero, false
	}
	return s.items[len(s.items)-1], true
}

// Contains reports whether x is pending.
func (s *UniqueStack[T]) Contains(x T) bool {
	_, ok := s.pending[x]
	return ok
}

// Len returns the number of pending elements.
func (s *UniqueStack[T]) Len() int { return len(s.items) }

// IsEmpty reports whether nothing is pending.
func (s *UniqueStack[T]) IsEmpty() bool { return len(s.items) == 0 }
