// Package history implements the bounded undo/redo stack used by the
// annotation engine.
package history

// DefaultCapacity is the number of undo entries kept before the oldest is
// evicted.
const DefaultCapacity = 50

// Stack is a bounded undo/redo stack of snapshots. It never branches: any
// Push discards the redo entries.
type Stack[S any] struct {
	undo     []S
	redo     []S
	capacity int
}

// New creates a Stack holding at most capacity undo entries.
func New[S any](capacity int) *Stack[S] {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Stack[S]{capacity: capacity}
}

// Push records a snapshot, evicting the oldest entry when full, and clears
// the redo stack.
func (s *Stack[S]) Push(state S) {
	s.undo = pushBounded(s.undo, state, s.capacity)
	clear(s.redo)
	s.redo = s.redo[:0]
}

// Undo moves current onto the redo stack and pops the most recent undo
// entry. It reports false, leaving both stacks untouched, when there is
// nothing to undo.
func (s *Stack[S]) Undo(current S) (S, bool) {
	if len(s.undo) == 0 {
		var zero S
		return zero, false
	}
	last := s.undo[len(s.undo)-1]
	var zero S
	s.undo[len(s.undo)-1] = zero
	s.undo = s.undo[:len(s.undo)-1]
	s.redo = pushBounded(s.redo, current, s.capacity)
	return last, true
}

// Redo is the inverse of Undo.
func (s *Stack[S]) Redo(current S) (S, bool) {
	if len(s.redo) == 0 {
		var zero S
		return zero, false
	}
	last := s.redo[len(s.redo)-1]
	var zero S
	s.redo[len(s.redo)-1] = zero
	s.redo = s.redo[:len(s.redo)-1]
	s.undo = pushBounded(s.undo, current, s.capacity)
	return last, true
}

// CanUndo reports whether Undo would succeed.
func (s *Stack[S]) CanUndo() bool { return len(s.undo) > 0 }

// CanRedo reports whether Redo would succeed.
func (s *Stack[S]) CanRedo() bool { return len(s.redo) > 0 }

// Len returns the number of undo and redo entries.
func (s *Stack[S]) Len() (undo, redo int) { return len(s.undo), len(s.redo) }

// Reset drops every entry.
func (s *Stack[S]) Reset() {
	s.undo = nil
	s.redo = nil
}

func pushBounded[S any](stack []S, state S, capacity int) []S {
	if len(stack) >= capacity {
		n := copy(stack, stack[len(stack)-capacity+1:])
		var zero S
		for i := n; i < len(stack); i++ {
			stack[i] = zero
		}
		stack = stack[:n]
	}
	return append(stack, state)
}
