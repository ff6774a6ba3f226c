package search

import (
	"context"
	"testing"
)

func TestSearchWordBoundaryScoring(t *testing.T) {
	idx := NewIndex("/notes")
	idx.Build(context.Background(), []NoteSource{
		{NoteIndex: 0, RelPath: "a.md", Content: "say hello world", Mtime: 1},
	})

	results := idx.Search("hello", nil)
	if len(results) != 1 {
		t.Fatalf("expected 1 result, got %+v", results)
	}
	r := results[0]
	if r.Score < 110 {
		t.Fatalf("expected score >= 110, got %d", r.Score)
	}
	if r.Preview != "say hello world" {
		t.Fatalf("preview = %q", r.Preview)
	}
	if r.MatchStart != 4 || r.MatchEnd != 9 {
		t.Fatalf("match span = [%d,%d)", r.MatchStart, r.MatchEnd)
	}
}

func TestSearchTitleBonus(t *testing.T) {
	idx := NewIndex("/notes")
	idx.Build(context.Background(), []NoteSource{
		{NoteIndex: 0, RelPath: "a.md", Content: "nothing relevant here", Mtime: 1},
		{NoteIndex: 1, RelPath: "b.md", Content: "widget count is five", Mtime: 1},
	})

	titles := map[int]string{0: "Plain Note", 1: "Widget Tracker"}
	results := idx.Search("widget", func(i int) string { return titles[i] })
	if len(results) != 1 {
		t.Fatalf("expected 1 result, got %+v", results)
	}
	if results[0].Score < 150 {
		t.Fatalf("expected title-bonus score >= 150, got %d", results[0].Score)
	}
}

func TestSearchPrefixMatch(t *testing.T) {
	idx := NewIndex("/notes")
	idx.Build(context.Background(), []NoteSource{
		{NoteIndex: 0, RelPath: "a.md", Content: "reindexing happens nightly", Mtime: 1},
	})
	results := idx.Search("reinde", nil)
	if len(results) != 1 {
		t.Fatalf("expected prefix match, got %+v", results)
	}
}

func TestSearchFallbackSubstring(t *testing.T) {
	idx := NewIndex("/notes")
	idx.Build(context.Background(), []NoteSource{
		{NoteIndex: 0, RelPath: "a.md", Content: "email: a.b@example.com", Mtime: 1},
	})
	results := idx.Search("b@example", nil)
	if len(results) != 1 {
		t.Fatalf("expected fallback substring match, got %+v", results)
	}
}

func TestSearchDeduplicatesByNoteAndLine(t *testing.T) {
	idx := NewIndex("/notes")
	idx.Build(context.Background(), []NoteSource{
		{NoteIndex: 0, RelPath: "a.md", Content: "test test test", Mtime: 1},
	})
	results := idx.Search("test", nil)
	if len(results) != 1 {
		t.Fatalf("expected one deduplicated result per line, got %d", len(results))
	}
}

func TestScanMatchesWithoutIndex(t *testing.T) {
	sources := []NoteSource{
		{NoteIndex: 0, Content: "say hello world"},
		{NoteIndex: 1, Content: "nothing here"},
	}
	results := Scan(sources, "hello", nil)
	if len(results) != 1 {
		t.Fatalf("expected 1 result, got %+v", results)
	}
	r := results[0]
	if r.NoteIndex != 0 || r.MatchStart != 4 || r.MatchEnd != 9 {
		t.Fatalf("result = %+v", r)
	}
	if r.Score < 110 {
		t.Fatalf("expected word-boundary score >= 110, got %d", r.Score)
	}
}

func TestSearchEmptyQuery(t *testing.T) {
	idx := NewIndex("/notes")
	idx.Build(context.Background(), []NoteSource{{NoteIndex: 0, RelPath: "a.md", Content: "x", Mtime: 1}})
	if results := idx.Search("", nil); results != nil {
		t.Fatalf("expected nil results for empty query, got %+v", results)
	}
}
