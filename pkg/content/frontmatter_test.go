package content

import "testing"

func TestParseValidFrontmatter(t *testing.T) {
	text := "---\ntitle: Test Note\ntags: [rust, cli]\ndate: 2024-01-15\n---\n# Heading\nContent here"
	fm, start := ParseFrontmatter(text)
	if fm == nil {
		t.Fatal("expected frontmatter")
	}
	if fm.Title != "Test Note" {
		t.Fatalf("title = %q", fm.Title)
	}
	if len(fm.Tags) != 2 || fm.Tags[0] != "rust" || fm.Tags[1] != "cli" {
		t.Fatalf("tags = %v", fm.Tags)
	}
	if fm.Date != "2024-01-15" {
		t.Fatalf("date = %q", fm.Date)
	}
	if start != 5 {
		t.Fatalf("start = %d", start)
	}
}

func TestParseNoFrontmatter(t *testing.T) {
	fm, start := ParseFrontmatter("# Just a heading\nSome content")
	if fm != nil {
		t.Fatal("expected no frontmatter")
	}
	if start != 0 {
		t.Fatalf("start = %d", start)
	}
}

func TestParseUnclosedFrontmatter(t *testing.T) {
	fm, start := ParseFrontmatter("---\ntitle: Test\nNo closing delimiter")
	if fm != nil {
		t.Fatal("expected no frontmatter")
	}
	if start != 0 {
		t.Fatalf("start = %d", start)
	}
}

func TestParseInvalidYAML(t *testing.T) {
	fm, start := ParseFrontmatter("---\n: invalid yaml [\n---\nContent")
	if fm != nil {
		t.Fatal("expected frontmatter to be nil on invalid yaml")
	}
	if start != 3 {
		t.Fatalf("expected content to still start after the delimiters, got %d", start)
	}
}

func TestParseTagsMultiline(t *testing.T) {
	text := "---\ntags:\n  - rust\n  - cli\n  - tui\n---\nContent"
	fm, start := ParseFrontmatter(text)
	if fm == nil {
		t.Fatal("expected frontmatter")
	}
	if len(fm.Tags) != 3 {
		t.Fatalf("tags = %v", fm.Tags)
	}
	if start != 6 {
		t.Fatalf("start = %d", start)
	}
}
