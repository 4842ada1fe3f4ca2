package board

import (
	"reflect"
	"testing"
)

func TestDragSessionLifecycle(t *testing.T) {
	s := newTestStore(t, nil)
	a, _ := s.AddTask("todo", "a")
	s.AddTask("done", "b")

	dragID, ok := s.StartDrag(a)
	if !ok || dragID == "" {
		t.Fatalf("expected drag session, got %q %v", dragID, ok)
	}
	if origin, ok := s.DragOrigin(dragID); !ok || origin != "todo" {
		t.Fatalf("unexpected origin: %q %v", origin, ok)
	}

	ok, err := s.DropDrag(dragID, "done", 1)
	if err != nil {
		t.Fatalf("drop: %v", err)
	}
	if !ok {
		t.Fatalf("expected drop to consume the session")
	}
	if texts := taskTexts(s.Snapshot().Columns[2]); !reflect.DeepEqual(texts, []string{"b", "a"}) {
		t.Fatalf("unexpected done column: %v", texts)
	}

	// A session is consumed exactly once.
	if ok, _ := s.DropDrag(dragID, "todo", 0); ok {
		t.Fatalf("second drop of the same session must be rejected")
	}
	if _, ok := s.DragOrigin(dragID); ok {
		t.Fatalf("consumed session must be gone")
	}
}

func TestDragStartUnknownTask(t *testing.T) {
	s := newTestStore(t, nil)
	if id, ok := s.StartDrag("missing"); ok || id != "" {
		t.Fatalf("expected no session for unknown task, got %q %v", id, ok)
	}
}

func TestDragCancelDiscardsWithoutMutation(t *testing.T) {
	s := newTestStore(t, nil)
	a, _ := s.AddTask("todo", "a")
	before := s.Serialize()

	dragID, _ := s.StartDrag(a)
	if !s.CancelDrag(dragID) {
		t.Fatalf("expected cancel to find the session")
	}
	if s.CancelDrag(dragID) {
		t.Fatalf("cancel must consume the session")
	}
	if !reflect.DeepEqual(s.Serialize(), before) {
		t.Fatalf("cancel mutated the board")
	}
	if ok, _ := s.DropDrag(dragID, "done", 0); ok {
		t.Fatalf("cancelled session must not be droppable")
	}
}

func TestDragDropAfterTaskDeleted(t *testing.T) {
	s := newTestStore(t, nil)
	a, _ := s.AddTask("todo", "a")
	dragID, _ := s.StartDrag(a)
	s.DeleteTask(a)
	before := s.Serialize()

	ok, err := s.DropDrag(dragID, "done", 0)
	if err != nil {
		t.Fatalf("drop: %v", err)
	}
	if !ok {
		t.Fatalf("session should still be consumed")
	}
	if !reflect.DeepEqual(s.Serialize(), before) {
		t.Fatalf("drop of a deleted task mutated the board")
	}
}
