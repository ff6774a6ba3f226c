package highlight

import "testing"

func TestHighlightHeading(t *testing.T) {
	results := Highlight([]string{"## Section"})
	if len(results[0].Ranges) != 1 || results[0].Ranges[0].Kind != KindHeading2 {
		t.Fatalf("ranges = %+v", results[0].Ranges)
	}
}

func TestHighlightNoFalsePositiveHash(t *testing.T) {
	results := Highlight([]string{"#nospace", "####### toomany"})
	for i, r := range results {
		for _, rg := range r.Ranges {
			if rg.Kind >= KindHeading1 && rg.Kind <= KindHeading6 {
				t.Fatalf("line %d unexpectedly highlighted as heading: %+v", i, rg)
			}
		}
	}
}

func TestHighlightCodeBlock(t *testing.T) {
	results := Highlight([]string{"```go", "# not a heading in code", "```", "# heading outside"})
	if results[1].Ranges[0].Kind != KindCode {
		t.Fatalf("expected code line, got %+v", results[1])
	}
	if results[3].Ranges[0].Kind != KindHeading1 {
		t.Fatalf("expected heading outside code block, got %+v", results[3])
	}
}

func TestHighlightFrontmatter(t *testing.T) {
	results := Highlight([]string{"---", "title: x", "---", "# Body"})
	for i := 0; i < 3; i++ {
		if results[i].Ranges[0].Kind != KindFrontmatter {
			t.Fatalf("line %d expected frontmatter, got %+v", i, results[i])
		}
	}
	if results[3].Ranges[0].Kind != KindHeading1 {
		t.Fatalf("expected heading after frontmatter, got %+v", results[3])
	}
}

func TestHighlightInlineCodeNotBoldItalic(t *testing.T) {
	results := Highlight([]string{"use `*not bold*` here"})
	for _, r := range results[0].Ranges {
		if r.Kind == KindBold || r.Kind == KindItalic {
			t.Fatalf("expected emphasis inside inline code to be skipped, got %+v", r)
		}
	}
}

func TestHighlightNoSingleMarkerFalsePositive(t *testing.T) {
	results := Highlight([]string{"a * b _ c"})
	for _, r := range results[0].Ranges {
		if r.Kind == KindBold || r.Kind == KindItalic {
			t.Fatalf("unclosed markers should not highlight, got %+v", r)
		}
	}
}

func TestHighlightTaskBox(t *testing.T) {
	results := Highlight([]string{"- [x] done", "- [ ] todo"})
	found := false
	for _, r := range results[0].Ranges {
		if r.Kind == KindTaskBox {
			found = true
		}
	}
	if !found {
		t.Fatal("expected task box range")
	}
}

func TestHighlightWikiLinkRange(t *testing.T) {
	results := Highlight([]string{"see [[Alpha]] now"})
	if len(results[0].WikiLinks) != 1 {
		t.Fatalf("expected 1 wikilink, got %+v", results[0].WikiLinks)
	}
	if results[0].WikiLinks[0].Target != "Alpha" {
		t.Fatalf("expected target Alpha, got %q", results[0].WikiLinks[0].Target)
	}
	if results[0].WikiLinks[0].IsValid {
		t.Fatal("expected IsValid false until the caller re-evaluates it")
	}
}

func TestHighlightWikiLinkRangeStripsHeadingAndAlias(t *testing.T) {
	results := Highlight([]string{"[[Alpha#Section|shown]]"})
	if len(results[0].WikiLinks) != 1 {
		t.Fatalf("expected 1 wikilink, got %+v", results[0].WikiLinks)
	}
	if results[0].WikiLinks[0].Target != "Alpha" {
		t.Fatalf("expected target Alpha, got %q", results[0].WikiLinks[0].Target)
	}
}

func TestHighlightBracketWithoutParenIgnored(t *testing.T) {
	results := Highlight([]string{"[just text] no link"})
	for _, r := range results[0].Ranges {
		if r.Kind == KindLink {
			t.Fatal("expected no link without (url)")
		}
	}
}
