package search

import (
	"context"
	"path/filepath"
	"testing"
)

func TestBuildAndQuery(t *testing.T) {
	idx := NewIndex("/notes")
	sources := []NoteSource{
		{NoteIndex: 0, RelPath: "a.md", Content: "Hello world\nSecond line", Mtime: 1},
		{NoteIndex: 1, RelPath: "b.md", Content: "Another world entirely", Mtime: 1},
	}
	if err := idx.Build(context.Background(), sources); err != nil {
		t.Fatalf("build: %v", err)
	}
	if !idx.Ready() {
		t.Fatal("expected index ready after build")
	}

	results := idx.Query("world")
	if len(results) != 2 {
		t.Fatalf("expected 2 postings for 'world', got %d", len(results))
	}
}

func TestGetStaleFiles(t *testing.T) {
	idx := NewIndex("/notes")
	idx.Build(context.Background(), []NoteSource{{NoteIndex: 0, RelPath: "a.md", Content: "x", Mtime: 5}})

	stale := idx.GetStaleFiles([]NoteSource{
		{RelPath: "a.md", Mtime: 10},
		{RelPath: "new.md", Mtime: 1},
	})
	if len(stale) != 2 {
		t.Fatalf("expected both files stale, got %d: %v", len(stale), stale)
	}

	fresh := idx.GetStaleFiles([]NoteSource{{RelPath: "a.md", Mtime: 5}})
	if len(fresh) != 0 {
		t.Fatalf("expected no stale files, got %v", fresh)
	}
}

func TestRemoveNoteKeepsIndicesStable(t *testing.T) {
	idx := NewIndex("/notes")
	idx.Build(context.Background(), []NoteSource{
		{NoteIndex: 0, RelPath: "a.md", Content: "alpha term", Mtime: 1},
		{NoteIndex: 1, RelPath: "b.md", Content: "beta term", Mtime: 1},
	})

	idx.RemoveNote("a.md")

	results := idx.Query("term")
	if len(results) != 1 || results[0].NoteIndex != 1 {
		t.Fatalf("expected only note 1's posting to remain, got %+v", results)
	}
	if len(idx.Lines) != 2 {
		t.Fatalf("expected note index slots preserved (stable indices), got %d", len(idx.Lines))
	}
}

func TestUpdateWithNotesReindexes(t *testing.T) {
	idx := NewIndex("/notes")
	idx.Build(context.Background(), []NoteSource{{NoteIndex: 0, RelPath: "a.md", Content: "old content", Mtime: 1}})

	idx.UpdateWithNotes([]NoteSource{{NoteIndex: 0, RelPath: "a.md", Content: "new content", Mtime: 2}})

	if len(idx.Query("old")) != 0 {
		t.Fatal("expected stale term removed")
	}
	if len(idx.Query("new")) != 1 {
		t.Fatal("expected new term indexed")
	}
}

func TestSaveAndLoadRoundTrip(t *testing.T) {
	dir := t.TempDir()
	idx := NewIndex("/notes")
	idx.Build(context.Background(), []NoteSource{{NoteIndex: 0, RelPath: "a.md", Content: "roundtrip content", Mtime: 1}})

	path := filepath.Join(dir, "index.bin")
	if err := idx.Save(path); err != nil {
		t.Fatalf("save: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if !loaded.Ready() {
		t.Fatal("expected loaded index marked ready")
	}
	if len(loaded.Query("roundtrip")) != 1 {
		t.Fatal("expected loaded index to preserve postings")
	}
}

func TestCachePathIsStableHash(t *testing.T) {
	p1 := CachePath("/cache", "/home/user/notes")
	p2 := CachePath("/cache", "/home/user/notes")
	if p1 != p2 {
		t.Fatalf("expected deterministic cache path, got %q vs %q", p1, p2)
	}
	if filepath.Base(p1) != "search_index.bin" {
		t.Fatalf("unexpected basename %q", p1)
	}
}
