package editor

import "testing"

func TestInsertRuneAdvancesCursor(t *testing.T) {
	e := New()
	e.InsertRune('h')
	e.InsertRune('i')
	if got := e.Lines()[0]; got != "hi" {
		t.Fatalf("got %q", got)
	}
	if e.Cursor().Col != 2 {
		t.Fatalf("cursor col = %d", e.Cursor().Col)
	}
}

func TestUndoRedoInsert(t *testing.T) {
	e := New()
	e.InsertRune('a')
	e.InsertRune('b')
	if !e.Undo() {
		t.Fatal("expected undo to succeed")
	}
	if got := e.Lines()[0]; got != "" {
		t.Fatalf("after undo, got %q", got)
	}
	if !e.Redo() {
		t.Fatal("expected redo to succeed")
	}
	if got := e.Lines()[0]; got != "ab" {
		t.Fatalf("after redo, got %q", got)
	}
}

func TestNewLineSplitsAtCursor(t *testing.T) {
	e := FromText("hello world")
	e.SetCursor(0, 5)
	e.NewLine()
	lines := e.Lines()
	if len(lines) != 2 || lines[0] != "hello" || lines[1] != " world" {
		t.Fatalf("lines = %+v", lines)
	}
	if e.Cursor().Row != 1 || e.Cursor().Col != 0 {
		t.Fatalf("cursor = %+v", e.Cursor())
	}
}

func TestBackspaceJoinsLines(t *testing.T) {
	e := FromText("hello\nworld")
	e.SetCursor(1, 0)
	e.Backspace()
	lines := e.Lines()
	if len(lines) != 1 || lines[0] != "helloworld" {
		t.Fatalf("lines = %+v", lines)
	}
	if e.Cursor().Row != 0 || e.Cursor().Col != 5 {
		t.Fatalf("cursor = %+v", e.Cursor())
	}
}

func TestBackspaceDeletesChar(t *testing.T) {
	e := FromText("hi")
	e.SetCursor(0, 2)
	e.Backspace()
	if got := e.Lines()[0]; got != "h" {
		t.Fatalf("got %q", got)
	}
}

func TestDirtyFlagTracksEdits(t *testing.T) {
	e := New()
	if e.Dirty() {
		t.Fatal("new editor should not be dirty")
	}
	e.InsertRune('x')
	if !e.Dirty() {
		t.Fatal("expected dirty after insert")
	}
	e.ClearDirty()
	if e.Dirty() {
		t.Fatal("expected clean after ClearDirty")
	}
}
