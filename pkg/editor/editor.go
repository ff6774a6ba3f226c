// Package editor composes pkg/buffer and pkg/history behind a cursor,
// the way the teacher's higher-level types compose a lower-level data
// structure with policy around it. Editor is the unit AppCore drives
// for the Edit mode: every mutating method records its own undo entry.
package editor

import (
	"github.com/hanebox/ekphos/pkg/buffer"
	"github.com/hanebox/ekphos/pkg/history"
)

// Editor is a TextBuffer plus undo/redo history and a cursor.
type Editor struct {
	buf     *buffer.TextBuffer
	hist    *history.History
	cursor  history.Position
	dirty   bool
	search  BufferSearch
}

// New returns an empty Editor.
func New() *Editor {
	return &Editor{buf: buffer.New(), hist: history.New()}
}

// FromText seeds an Editor from existing note content.
func FromText(text string) *Editor {
	return &Editor{buf: buffer.FromText(text), hist: history.New()}
}

func (e *Editor) Buffer() *buffer.TextBuffer  { return e.buf }
func (e *Editor) Cursor() history.Position    { return e.cursor }
func (e *Editor) Dirty() bool                  { return e.dirty }
func (e *Editor) ClearDirty()                  { e.dirty = false }
func (e *Editor) Lines() []string              { return e.buf.Lines() }
func (e *Editor) Text() string                 { return e.buf.Text() }

// SetCursor moves the cursor without recording an undo entry.
func (e *Editor) SetCursor(row, col int) {
	e.cursor = history.Position{Row: row, Col: col}
}

// InsertRune inserts c at the cursor and advances it, recording an undo
// entry (coalesced with the previous one when History.CanMerge allows).
func (e *Editor) InsertRune(c rune) {
	before := e.cursor
	e.buf.InsertChar(e.cursor.Row, e.cursor.Col, c)
	e.cursor.Col++
	e.dirty = true
	e.hist.Record(history.Op{Kind: history.OpInsert, Pos: before, Text: string(c)}, before, e.cursor)
}

// InsertText inserts s at the cursor. Newlines in s are not split into
// separate lines here; callers that need line splits use NewLine.
func (e *Editor) InsertText(s string) {
	before := e.cursor
	e.buf.InsertStr(e.cursor.Row, e.cursor.Col, s)
	e.cursor.Col += len([]rune(s))
	e.dirty = true
	e.hist.Record(history.Op{Kind: history.OpInsert, Pos: before, Text: s}, before, e.cursor)
}

// NewLine splits the current line at the cursor and moves to the start
// of the new line.
func (e *Editor) NewLine() {
	before := e.cursor
	if !e.buf.SplitLine(e.cursor.Row, e.cursor.Col) {
		return
	}
	e.cursor = history.Position{Row: before.Row + 1, Col: 0}
	e.dirty = true
	e.hist.Record(history.Op{Kind: history.OpSplitLine, Pos: before}, before, e.cursor)
}

// Backspace deletes the character before the cursor, joining with the
// previous line at column 0.
func (e *Editor) Backspace() {
	before := e.cursor
	if e.cursor.Col == 0 {
		if e.cursor.Row == 0 {
			return
		}
		prevLen := e.buf.LineLen(e.cursor.Row - 1)
		if !e.buf.JoinWithPrevious(e.cursor.Row) {
			return
		}
		e.cursor = history.Position{Row: before.Row - 1, Col: prevLen}
		e.dirty = true
		e.hist.Record(history.Op{Kind: history.OpJoinLine, Row: before.Row, Col: prevLen}, before, e.cursor)
		return
	}
	r, ok := e.buf.DeleteChar(e.cursor.Row, e.cursor.Col-1)
	if !ok {
		return
	}
	e.cursor.Col--
	e.dirty = true
	e.hist.Record(history.Op{Kind: history.OpDelete, Pos: e.cursor, End: history.Position{Row: e.cursor.Row, Col: e.cursor.Col + 1}, Text: string(r)}, before, e.cursor)
}

// Undo reverses the most recent entry, restoring CursorBefore.
func (e *Editor) Undo() bool {
	entry, ok := e.hist.PopUndo()
	if !ok {
		return false
	}
	for i := len(entry.Operations) - 1; i >= 0; i-- {
		e.applyOp(entry.Operations[i].Inverse())
	}
	e.cursor = entry.CursorBefore
	e.dirty = true
	return true
}

// Redo reapplies the most recently undone entry, restoring CursorAfter.
func (e *Editor) Redo() bool {
	entry, ok := e.hist.PopRedo()
	if !ok {
		return false
	}
	for _, op := range entry.Operations {
		e.applyOp(op)
	}
	e.cursor = entry.CursorAfter
	e.dirty = true
	return true
}

func (e *Editor) applyOp(op history.Op) {
	switch op.Kind {
	case history.OpInsert:
		e.buf.InsertStr(op.Pos.Row, op.Pos.Col, op.Text)
	case history.OpDelete:
		e.buf.DeleteRange(op.Pos.Row, op.Pos.Col, op.End.Col)
	case history.OpSplitLine:
		e.buf.SplitLine(op.Pos.Row, op.Pos.Col)
	case history.OpJoinLine:
		e.buf.JoinWithPrevious(op.Row)
	}
}

func (e *Editor) CanUndo() bool { return e.hist.CanUndo() }
func (e *Editor) CanRedo() bool { return e.hist.CanRedo() }
