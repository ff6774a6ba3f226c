package wiki

import "testing"

func notes() []NoteRef {
	return []NoteRef{
		{Title: "Alpha", FilePath: "/notes/Alpha.md"},
		{Title: "Beta", FilePath: "/notes/sub/Beta.md"},
	}
}

func TestResolveRootNote(t *testing.T) {
	r := NewResolver(notes(), "/notes")
	idx, ok := r.Resolve("Alpha")
	if !ok || idx != 0 {
		t.Fatalf("idx=%d ok=%v", idx, ok)
	}
}

func TestResolveByFolderPath(t *testing.T) {
	r := NewResolver(notes(), "/notes")
	idx, ok := r.Resolve("sub/Beta")
	if !ok || idx != 1 {
		t.Fatalf("idx=%d ok=%v", idx, ok)
	}
}

func TestResolveMissing(t *testing.T) {
	r := NewResolver(notes(), "/notes")
	if r.Exists("Nope") {
		t.Fatal("expected no match")
	}
}

func TestExtractLinksSkipsInlineCode(t *testing.T) {
	r := NewResolver(notes(), "/notes")
	links := r.ExtractLinks("see `[[Alpha]]` and [[Beta]]")
	if len(links) != 1 || links[0].Target != "Beta" {
		t.Fatalf("links = %+v", links)
	}
}

func TestExtractLinksWithHeadingAndAlias(t *testing.T) {
	r := NewResolver(notes(), "/notes")
	links := r.ExtractLinks("[[Alpha#Intro|see here]]")
	if len(links) != 1 {
		t.Fatalf("expected 1 link, got %d", len(links))
	}
	l := links[0]
	if l.Target != "Alpha" || l.Heading != "Intro" || l.DisplayText != "see here" || !l.IsValid {
		t.Fatalf("link = %+v", l)
	}
}

func TestIsCursorInCodeFence(t *testing.T) {
	lines := []string{"```go", "code", "```", "normal"}
	if !IsCursorInCode(lines, 1, 2) {
		t.Fatal("expected inside code fence")
	}
	if IsCursorInCode(lines, 3, 2) {
		t.Fatal("expected outside code fence")
	}
}

func TestIsCursorInInlineCode(t *testing.T) {
	lines := []string{"see `code here` done"}
	if !IsCursorInCode(lines, 0, 8) {
		t.Fatal("expected inside inline code")
	}
	if IsCursorInCode(lines, 0, 20) {
		t.Fatal("expected outside inline code")
	}
}

func TestDetectUnclosedWikilinkNoteMode(t *testing.T) {
	lines := []string{"link to [[Alp"}
	state, ok := DetectUnclosedWikilink(lines, 0, len([]rune(lines[0])))
	if !ok {
		t.Fatal("expected detection")
	}
	if state.Mode != ModeNote || state.NoteQuery != "Alp" {
		t.Fatalf("state = %+v", state)
	}
}

func TestDetectUnclosedWikilinkHeadingMode(t *testing.T) {
	lines := []string{"[[Alpha#Int"}
	state, ok := DetectUnclosedWikilink(lines, 0, len([]rune(lines[0])))
	if !ok {
		t.Fatal("expected detection")
	}
	if state.Mode != ModeHeading || state.NoteQuery != "Alpha" || state.HeadingQuery != "Int" {
		t.Fatalf("state = %+v", state)
	}
}

func TestDetectClosedWikilinkReturnsNone(t *testing.T) {
	lines := []string{"[[Alpha]] more text"}
	_, ok := DetectUnclosedWikilink(lines, 0, len([]rune(lines[0])))
	if ok {
		t.Fatal("expected no detection once link is closed")
	}
}

func TestReplaceLinksInContent(t *testing.T) {
	content := "see [[Alpha]] and [[alpha#Heading]] and [[Other]]"
	out := ReplaceLinksInContent(content, "Alpha", "sub/Alpha", "Alpha")
	want := "see [[sub/Alpha]] and [[sub/Alpha#Heading]] and [[Other]]"
	if out != want {
		t.Fatalf("got %q want %q", out, want)
	}
}

func TestReplaceLinksOnRenameUsesNewTitle(t *testing.T) {
	content := "see [[Alpha]] and [[Alpha|shown]]"
	out := ReplaceLinksInContent(content, "Alpha", "Omega", "Alpha")
	want := "see [[Omega]] and [[Omega|shown]]"
	if out != want {
		t.Fatalf("got %q want %q", out, want)
	}
}

func TestReplaceLinksIdempotentWhenUnmoved(t *testing.T) {
	content := "see [[Alpha]] and [[Alpha#H|shown]]"
	out := ReplaceLinksInContent(content, "Alpha", "Alpha", "Alpha")
	if out != content {
		t.Fatalf("expected no change, got %q", out)
	}
}

func TestReplaceLinksRoundTripRestores(t *testing.T) {
	content := "see [[Alpha]] then [[Alpha#H|shown]]"
	moved := ReplaceLinksInContent(content, "Alpha", "sub/Alpha", "Alpha")
	back := ReplaceLinksInContent(moved, "sub/Alpha", "Alpha", "Alpha")
	if back != content {
		t.Fatalf("expected round trip to restore, got %q", back)
	}
}

func TestCalculateWikiPath(t *testing.T) {
	got := CalculateWikiPath("/notes/sub/Beta.md", "/notes")
	if got != "sub/Beta" {
		t.Fatalf("got %q", got)
	}
}
