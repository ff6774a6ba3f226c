package content

import "testing"

func TestBuildPlainText(t *testing.T) {
	m := Build("# Title\nbody line", nil, 0, false, false)
	if len(m.Items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(m.Items))
	}
	if m.Items[0].Kind != KindTextLine || m.Items[0].Text != "# Title" {
		t.Fatalf("item0 = %+v", m.Items[0])
	}
	if m.SourceLines[1] != 1 {
		t.Fatalf("source line 1 = %d", m.SourceLines[1])
	}
}

func TestBuildWithFrontmatter(t *testing.T) {
	text := "---\ntitle: x\n---\n# Heading\ncontent"
	fm, start := ParseFrontmatter(text)
	m := Build(text, fm, start, true, false)
	if m.Items[0].Kind != KindFrontmatterDelimiter {
		t.Fatalf("expected leading delimiter, got %+v", m.Items[0])
	}
	foundHeading := false
	for _, it := range m.Items {
		if it.Kind == KindTextLine && it.Text == "# Heading" {
			foundHeading = true
		}
	}
	if !foundHeading {
		t.Fatal("expected heading item after frontmatter")
	}
}

func TestBuildCodeFence(t *testing.T) {
	m := Build("```go\nfmt.Println(1)\n```", nil, 0, false, false)
	if m.Items[0].Kind != KindCodeFence || m.Items[0].Text != "go" {
		t.Fatalf("item0 = %+v", m.Items[0])
	}
	if m.Items[1].Kind != KindCodeLine {
		t.Fatalf("item1 = %+v", m.Items[1])
	}
	if m.Items[2].Kind != KindCodeFence {
		t.Fatalf("item2 = %+v", m.Items[2])
	}
}

func TestBuildTaskItem(t *testing.T) {
	m := Build("- [x] done\n- [ ] todo", nil, 0, false, false)
	if !m.Items[0].Checked || m.Items[0].Text != "done" {
		t.Fatalf("item0 = %+v", m.Items[0])
	}
	if m.Items[1].Checked || m.Items[1].Text != "todo" {
		t.Fatalf("item1 = %+v", m.Items[1])
	}
}

func TestBuildTable(t *testing.T) {
	text := "| a | b |\n| - | - |\n| 1 | 2 |"
	m := Build(text, nil, 0, false, false)
	if len(m.Items) != 3 {
		t.Fatalf("expected 3 rows, got %d", len(m.Items))
	}
	if !m.Items[0].IsHeader {
		t.Fatal("expected first row to be header")
	}
	if !m.Items[1].IsSeparator {
		t.Fatal("expected second row to be separator")
	}
}

func TestBuildDetailsBlock(t *testing.T) {
	text := "before\n<details>\n<summary>More</summary>\ninner1\ninner2\n</details>\nafter"
	m := Build(text, nil, 0, false, false)
	if len(m.Items) != 3 {
		t.Fatalf("expected 3 items (before, details, after), got %d: %+v", len(m.Items), m.Items)
	}
	d := m.Items[1]
	if d.Kind != KindDetails || d.Summary != "More" || d.ID != 1 {
		t.Fatalf("details item = %+v", d)
	}
	if len(d.ContentLines) != 2 || d.ContentLines[0] != "inner1" {
		t.Fatalf("content lines = %+v", d.ContentLines)
	}
	if m.Items[2].Text != "after" || m.SourceLines[2] != 6 {
		t.Fatalf("item after details = %+v line %d", m.Items[2], m.SourceLines[2])
	}
}

func TestBuildUnterminatedDetailsKeepsFollowingLines(t *testing.T) {
	text := "<details>\nline a\nline b"
	m := Build(text, nil, 0, false, false)
	if len(m.Items) != 3 {
		t.Fatalf("expected 3 text items, got %d: %+v", len(m.Items), m.Items)
	}
	for i, want := range []string{"<details>", "line a", "line b"} {
		if m.Items[i].Kind != KindTextLine || m.Items[i].Text != want {
			t.Fatalf("item %d = %+v, want TextLine %q", i, m.Items[i], want)
		}
		if m.SourceLines[i] != i {
			t.Fatalf("source line %d = %d", i, m.SourceLines[i])
		}
	}
}

func TestHeadingFoldVisibility(t *testing.T) {
	text := "# H1\nline a\n## H2\nline b\n# H3\nline c"
	m := Build(text, nil, 0, false, false)
	// indices: 0=H1 1=line a 2=H2 3=line b 4=H3 5=line c
	m.ToggleHeadingFold(0)
	if m.IsVisible(1) {
		t.Fatal("expected line a hidden when H1 folded")
	}
	if m.IsVisible(2) {
		t.Fatal("expected H2 hidden when H1 folded")
	}
	if !m.IsVisible(4) {
		t.Fatal("expected H3 (sibling) to remain visible")
	}
}

func TestNextContentLineSkipsFoldedChildren(t *testing.T) {
	text := "intro1\nintro2\n## Section\nchild1\nchild2\nchild3\nchild4\n## Next\ntail1\ntail2\ntail3"
	m := Build(text, nil, 0, false, false)
	if len(m.Items) != 11 {
		t.Fatalf("expected 11 items, got %d", len(m.Items))
	}
	start, end := m.ChildrenRange(2)
	if start != 3 || end != 7 {
		t.Fatalf("expected children range [3,7), got [%d,%d)", start, end)
	}
	m.ToggleHeadingFold(2)

	cursor := 2
	want := []int{7, 8, 9, 10, 10}
	for i, w := range want {
		cursor = m.NextContentLine(cursor)
		if cursor != w {
			t.Fatalf("step %d: expected cursor %d, got %d", i, w, cursor)
		}
	}
}

func TestOutline(t *testing.T) {
	text := "# A\ntext\n## B\nmore"
	m := Build(text, nil, 0, false, false)
	outline := m.Outline()
	if len(outline) != 2 {
		t.Fatalf("expected 2 outline entries, got %d", len(outline))
	}
	if outline[0].Title != "A" || outline[0].Level != 1 {
		t.Fatalf("entry0 = %+v", outline[0])
	}
	if outline[1].Title != "B" || outline[1].Level != 2 {
		t.Fatalf("entry1 = %+v", outline[1])
	}
}
