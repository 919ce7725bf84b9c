package history

import "testing"

func TestPushEvictsOldest(t *testing.T) {
	s := New[int](DefaultCapacity)
	for i := 0; i < DefaultCapacity; i++ {
		s.Push(i)
	}
	s.Push(DefaultCapacity)

	undo, _ := s.Len()
	if undo != DefaultCapacity {
		t.Fatalf("undo len = %d, want %d", undo, DefaultCapacity)
	}
	// Drain and check the oldest entry (0) is the one that went.
	var last int
	for s.CanUndo() {
		last, _ = s.Undo(-1)
	}
	if last != 1 {
		t.Errorf("oldest remaining = %d, want 1", last)
	}
}

func TestPushClearsRedo(t *testing.T) {
	s := New[string](3)
	s.Push("a")
	s.Push("b")
	if _, ok := s.Undo("c"); !ok {
		t.Fatal("undo failed")
	}
	if !s.CanRedo() {
		t.Fatal("expected redo after undo")
	}
	s.Push("d")
	if s.CanRedo() {
		t.Error("push did not clear redo")
	}
	if _, ok := s.Redo("e"); ok {
		t.Error("redo succeeded after push")
	}
}

func TestUndoRedoRoundTrip(t *testing.T) {
	s := New[string](DefaultCapacity)
	s.Push("before-stroke")

	restored, ok := s.Undo("after-stroke")
	if !ok || restored != "before-stroke" {
		t.Fatalf("Undo = %q, %v", restored, ok)
	}
	again, ok := s.Redo(restored)
	if !ok || again != "after-stroke" {
		t.Fatalf("Redo = %q, %v; want after-stroke", again, ok)
	}
	undo, redo := s.Len()
	if undo != 1 || redo != 0 {
		t.Errorf("Len = %d, %d; want 1, 0", undo, redo)
	}
}

func TestEmptyStackIsNoop(t *testing.T) {
	s := New[int](0)
	if _, ok := s.Undo(1); ok {
		t.Error("undo on empty stack succeeded")
	}
	if _, ok := s.Redo(1); ok {
		t.Error("redo on empty stack succeeded")
	}
	undo, redo := s.Len()
	if undo != 0 || redo != 0 {
		t.Errorf("empty stack changed: %d, %d", undo, redo)
	}
}

func TestRedoRespectsCapacity(t *testing.T) {
	s := New[int](2)
	s.Push(1)
	s.Push(2)
	s.Undo(3)
	s.Push(4)
	s.Undo(5)
	s.Redo(6)
	undo, _ := s.Len()
	if undo > 2 {
		t.Errorf("undo len = %d exceeds capacity", undo)
	}
}

func TestReset(t *testing.T) {
	s := New[int](4)
	s.Push(7)
	s.Push(8)
	s.Undo(9)
	s.Reset()
	if s.CanUndo() || s.CanRedo() {
		t.Error("reset left entries")
	}
}
