package history

import "testing"

func TestRecordAndUndo(t *testing.T) {
	h := New()
	pos := Position{0, 0}
	h.Record(Op{Kind: OpInsert, Pos: pos, Text: "a"}, pos, Position{0, 1})

	if !h.CanUndo() {
		t.Fatal("expected undo available")
	}
	if _, ok := h.PopUndo(); !ok {
		t.Fatal("expected entry")
	}
}

func TestRedo(t *testing.T) {
	h := New()
	pos := Position{0, 0}
	h.Record(Op{Kind: OpInsert, Pos: pos, Text: "a"}, pos, Position{0, 1})
	h.PopUndo()

	if _, ok := h.PopRedo(); !ok {
		t.Fatal("expected redo entry")
	}
}

func TestNewEditClearsRedo(t *testing.T) {
	h := New()
	pos := Position{0, 0}
	h.Record(Op{Kind: OpInsert, Pos: pos, Text: "a"}, pos, Position{0, 1})
	h.PopUndo()

	h.Record(Op{Kind: OpInsert, Pos: pos, Text: "b"}, pos, Position{0, 1})

	if h.CanRedo() {
		t.Fatal("expected redo stack cleared by new edit")
	}
}

func TestInverseOperations(t *testing.T) {
	insertOp := Op{Kind: OpInsert, Pos: Position{0, 0}, Text: "hello"}
	inverse := insertOp.Inverse()

	if inverse.Kind != OpDelete {
		t.Fatalf("expected Delete, got %v", inverse.Kind)
	}
	if inverse.Pos.Col != 0 || inverse.End.Col != 5 || inverse.Text != "hello" {
		t.Fatalf("unexpected inverse %+v", inverse)
	}
}

func TestMergeSingleCharInserts(t *testing.T) {
	h := New()
	pos := Position{0, 0}
	h.Record(Op{Kind: OpInsert, Pos: pos, Text: "a"}, pos, Position{0, 1})
	h.Record(Op{Kind: OpInsert, Pos: Position{0, 1}, Text: "b"}, Position{0, 1}, Position{0, 2})

	entry, ok := h.PopUndo()
	if !ok {
		t.Fatal("expected entry")
	}
	if len(entry.Operations) != 2 {
		t.Fatalf("expected merge into single entry with 2 ops, got %d", len(entry.Operations))
	}
}

func TestNoMergeAcrossWhitespace(t *testing.T) {
	h := New()
	pos := Position{0, 0}
	h.Record(Op{Kind: OpInsert, Pos: pos, Text: "a"}, pos, Position{0, 1})
	h.Record(Op{Kind: OpInsert, Pos: Position{0, 1}, Text: " "}, Position{0, 1}, Position{0, 2})

	if !h.CanUndo() {
		t.Fatal("expected entries recorded")
	}
	entry, _ := h.PopUndo()
	if len(entry.Operations) != 1 {
		t.Fatalf("expected whitespace insert to start a new entry, got %d ops merged", len(entry.Operations))
	}
}
