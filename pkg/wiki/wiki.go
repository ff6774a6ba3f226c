// Package wiki resolves and rewrites "[[target#heading|alias]]" links
// across a notes tree, following the same path-prefix matching the
// teacher's workspace loader uses to resolve repo-relative paths.
package wiki

import (
	"path/filepath"
	"strings"
)

// NoteRef is the minimal view a resolver needs of a note on disk.
type NoteRef struct {
	Title    string
	FilePath string // absolute path, "" if unsaved
}

// Resolver resolves wiki-link targets against a snapshot of notes.
type Resolver struct {
	notes     []NoteRef
	notesRoot string
}

// NewResolver builds a Resolver over notes rooted at notesRoot.
func NewResolver(notes []NoteRef, notesRoot string) *Resolver {
	return &Resolver{notes: notes, notesRoot: notesRoot}
}

// Resolve finds the note index matching target: "folder/note" matches
// by relative path, a bare "note" first tries the root directory, then
// falls back to a case-insensitive title search across every note.
// When several notes match, the first one in the notes slice wins.
func (r *Resolver) Resolve(target string) (int, bool) {
	if target == "" {
		return 0, false
	}

	if strings.Contains(target, "/") {
		expected := filepath.Join(r.notesRoot, target+".md")
		for idx, n := range r.notes {
			if n.FilePath != "" && filepath.Clean(n.FilePath) == filepath.Clean(expected) {
				return idx, true
			}
		}
		return 0, false
	}

	for idx, n := range r.notes {
		if strings.EqualFold(n.Title, target) && n.FilePath != "" && filepath.Dir(n.FilePath) == r.notesRoot {
			return idx, true
		}
	}
	for idx, n := range r.notes {
		if strings.EqualFold(n.Title, target) {
			return idx, true
		}
	}
	return 0, false
}

// Exists reports whether target resolves to a note.
func (r *Resolver) Exists(target string) bool {
	_, ok := r.Resolve(target)
	return ok
}

// WikiPathFor returns the wiki-link target string ("folder/note" or
// "note") for the note at idx.
func (r *Resolver) WikiPathFor(idx int) (string, bool) {
	if idx < 0 || idx >= len(r.notes) {
		return "", false
	}
	n := r.notes[idx]
	if n.FilePath == "" {
		return n.Title, true
	}
	return CalculateWikiPath(n.FilePath, r.notesRoot), true
}

// CalculateWikiPath returns filePath's wiki-link form relative to
// notesRoot, dropping the .md extension.
func CalculateWikiPath(filePath, notesRoot string) string {
	rel, err := filepath.Rel(notesRoot, filePath)
	if err != nil {
		return strings.TrimSuffix(filepath.Base(filePath), ".md")
	}
	rel = filepath.ToSlash(rel)
	return strings.TrimSuffix(rel, ".md")
}

// Link describes one parsed "[[...]]" occurrence in rendered text.
type Link struct {
	Target      string
	Heading     string
	DisplayText string
	StartCol    int
	EndCol      int
	IsValid     bool
}

// ExtractLinks scans text for "[[target#heading|alias]]" occurrences,
// skipping any that fall inside inline code spans, and validates each
// target against r.
func (r *Resolver) ExtractLinks(text string) []Link {
	var links []Link
	searchStart := 0

	for searchStart < len(text) {
		remaining := text[searchStart:]

		if backtickPos := strings.IndexByte(remaining, '`'); backtickPos >= 0 {
			wikiPos := strings.Index(remaining, "[[")
			if wikiPos < 0 || backtickPos < wikiPos {
				absBacktick := searchStart + backtickPos
				afterBacktick := text[absBacktick+1:]
				if closeBacktick := strings.IndexByte(afterBacktick, '`'); closeBacktick >= 0 {
					searchStart = absBacktick + 1 + closeBacktick + 1
					continue
				}
				break
			}
		}

		startPos := strings.Index(remaining, "[[")
		if startPos < 0 {
			break
		}
		absStart := searchStart + startPos
		afterBrackets := text[absStart+2:]

		endPos := strings.Index(afterBrackets, "]]")
		if endPos < 0 {
			break
		}

		rawContent := afterBrackets[:endPos]
		if rawContent != "" && !strings.ContainsAny(rawContent, "[]") {
			content := rawContent
			var displayText string
			hasDisplay := false
			if pipePos := strings.IndexByte(rawContent, '|'); pipePos >= 0 {
				content = rawContent[:pipePos]
				displayText = rawContent[pipePos+1:]
				hasDisplay = true
			}

			target := content
			var heading string
			hasHeading := false
			if hashPos := strings.IndexByte(content, '#'); hashPos >= 0 {
				target = content[:hashPos]
				heading = content[hashPos+1:]
				hasHeading = true
			}

			renderedStart := calcWikiRenderedPos(text, absStart)
			displayLen := len([]rune(rawContent))
			if hasDisplay {
				displayLen = len([]rune(displayText))
			}
			renderedEnd := renderedStart + displayLen

			link := Link{
				Target:   target,
				StartCol: renderedStart,
				EndCol:   renderedEnd,
				IsValid:  r.Exists(target),
			}
			if hasHeading {
				link.Heading = heading
			}
			if hasDisplay {
				link.DisplayText = displayText
			}
			links = append(links, link)
		}

		searchStart = absStart + 2 + endPos + 2
	}

	return links
}

// calcWikiRenderedPos counts the display column (rune index) of byte
// offset bytePos within text.
func calcWikiRenderedPos(text string, bytePos int) int {
	return len([]rune(text[:bytePos]))
}

// AutocompleteMode distinguishes what the user is currently typing
// inside an unclosed "[[" span.
type AutocompleteMode int

const (
	ModeNote AutocompleteMode = iota
	ModeHeading
	ModeAlias
)

// AutocompleteState is the parsed state of an in-progress wiki link.
type AutocompleteState struct {
	NoteQuery    string
	HeadingQuery string
	AliasQuery   string
	HasHeading   bool
	HasAlias     bool
	Mode         AutocompleteMode
}

// IsCursorInCode reports whether (row, col) sits inside a fenced code
// block or an inline-code span, counting ``` fences on every line
// before row and backtick pairs on row itself up to col.
func IsCursorInCode(lines []string, row, col int) bool {
	inCodeBlock := false
	for i := 0; i < row && i < len(lines); i++ {
		if strings.HasPrefix(strings.TrimLeft(lines[i], " \t"), "```") {
			inCodeBlock = !inCodeBlock
		}
	}

	if row < len(lines) {
		if strings.HasPrefix(strings.TrimLeft(lines[row], " \t"), "```") {
			return true
		}
	}
	if inCodeBlock {
		return true
	}

	if row >= len(lines) {
		return false
	}
	chars := []rune(lines[row])

	i := 0
	for i < col {
		if i < len(chars) && chars[i] == '`' {
			count := 0
			for i < col && i < len(chars) && chars[i] == '`' {
				count++
				i++
			}
			foundClosing := false
			j := i
			for j < col {
				if j < len(chars) && chars[j] == '`' {
					closeCount := 0
					for j < len(chars) && chars[j] == '`' {
						closeCount++
						j++
					}
					if closeCount == count {
						foundClosing = true
						i = j
						break
					}
				} else {
					j++
				}
			}
			if !foundClosing {
				return true
			}
		} else {
			i++
		}
	}
	return false
}

// DetectUnclosedWikilink inspects the line at row up to col for an
// unclosed "[[" before the cursor (no "]]" between them) and parses its partial
// content into an AutocompleteState.
func DetectUnclosedWikilink(lines []string, row, col int) (AutocompleteState, bool) {
	if row < 0 || row >= len(lines) {
		return AutocompleteState{}, false
	}
	chars := []rune(lines[row])

	openPos := -1
	i := col - 1
	if i < 0 {
		i = 0
	}
	for i > 0 {
		if i >= 1 && get(chars, i-1) == '[' && get(chars, i) == '[' {
			openPos = i - 1
			break
		}
		if i >= 1 && get(chars, i-1) == ']' && get(chars, i) == ']' {
			return AutocompleteState{}, false
		}
		i--
	}
	if openPos < 0 && i == 0 && col >= 2 {
		if get(chars, 0) == '[' && get(chars, 1) == '[' {
			openPos = 0
		}
	}
	if openPos < 0 {
		return AutocompleteState{}, false
	}

	start := openPos + 2
	if IsCursorInCode(lines, row, start) {
		return AutocompleteState{}, false
	}

	end := col - 1
	for j := start; j < end; j++ {
		if get(chars, j) == ']' && get(chars, j+1) == ']' {
			return AutocompleteState{}, false
		}
	}

	if start > len(chars) {
		start = len(chars)
	}
	endIdx := col
	if endIdx > len(chars) {
		endIdx = len(chars)
	}
	if start > endIdx {
		start = endIdx
	}
	content := string(chars[start:endIdx])

	if pipePos := strings.IndexByte(content, '|'); pipePos >= 0 {
		beforePipe := content[:pipePos]
		aliasQuery := content[pipePos+1:]
		if hashPos := strings.IndexByte(beforePipe, '#'); hashPos >= 0 {
			return AutocompleteState{
				NoteQuery: beforePipe[:hashPos], HeadingQuery: beforePipe[hashPos+1:], HasHeading: true,
				AliasQuery: aliasQuery, HasAlias: true, Mode: ModeAlias,
			}, true
		}
		return AutocompleteState{NoteQuery: beforePipe, AliasQuery: aliasQuery, HasAlias: true, Mode: ModeAlias}, true
	}
	if hashPos := strings.IndexByte(content, '#'); hashPos >= 0 {
		return AutocompleteState{
			NoteQuery: content[:hashPos], HeadingQuery: content[hashPos+1:], HasHeading: true, Mode: ModeHeading,
		}, true
	}
	return AutocompleteState{NoteQuery: content, Mode: ModeNote}, true
}

func get(chars []rune, i int) rune {
	if i < 0 || i >= len(chars) {
		return 0
	}
	return chars[i]
}

// ReplaceLinksInContent rewrites every "[[target...]]" in content whose
// target matches oldPath or oldTitle (case-insensitively) to point at
// newPath, preserving any #heading or |alias suffix. Used after a note
// or folder move to keep cross-note links valid.
func ReplaceLinksInContent(content, oldPath, newPath, oldTitle string) string {
	var result strings.Builder
	remaining := content

	for {
		start := strings.Index(remaining, "[[")
		if start < 0 {
			break
		}
		result.WriteString(remaining[:start])
		remaining = remaining[start+2:]

		end := strings.Index(remaining, "]]")
		if end < 0 {
			result.WriteString("[[")
			break
		}
		linkContent := remaining[:end]

		var target, suffix string
		if hashPos := strings.IndexByte(linkContent, '#'); hashPos >= 0 {
			target, suffix = linkContent[:hashPos], linkContent[hashPos:]
		} else if pipePos := strings.IndexByte(linkContent, '|'); pipePos >= 0 {
			target, suffix = linkContent[:pipePos], linkContent[pipePos:]
		} else {
			target, suffix = linkContent, ""
		}

		shouldReplace := strings.EqualFold(target, oldPath) || strings.EqualFold(target, oldTitle)

		if shouldReplace {
			// A nested destination needs the full wiki path; a root-level
			// one links by its bare title, which is exactly newPath when
			// it carries no directory component.
			newTarget := newPath
			result.WriteString("[[")
			result.WriteString(newTarget)
			result.WriteString(suffix)
			result.WriteString("]]")
		} else {
			result.WriteString("[[")
			result.WriteString(linkContent)
			result.WriteString("]]")
		}

		remaining = remaining[end+2:]
	}

	result.WriteString(remaining)
	return result.String()
}
