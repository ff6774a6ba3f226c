package editor

import "strings"

// SearchDirection distinguishes forward and backward buffer search.
type SearchDirection int

const (
	SearchForward SearchDirection = iota
	SearchBackward
)

// Match is one in-buffer search hit.
type Match struct {
	Row      int
	StartCol int
	EndCol   int
}

// BufferSearch is in-note forward/backward text search with wraparound,
// distinct from the cross-note SearchIndex in pkg/search: it scans the
// buffer currently open in the editor rather than a persisted index.
type BufferSearch struct {
	Active        bool
	Query         string
	CaseSensitive bool
	Direction     SearchDirection
	Matches       []Match
	CurrentIndex  int
}

// Start activates search in the given direction, clearing any previous
// query and matches.
func (b *BufferSearch) Start(direction SearchDirection) {
	b.Active = true
	b.Query = ""
	b.Matches = nil
	b.CurrentIndex = 0
	b.Direction = direction
}

// End deactivates search and clears all state.
func (b *BufferSearch) End() {
	*b = BufferSearch{}
}

// Current returns the active match, if any.
func (b *BufferSearch) Current() (Match, bool) {
	if len(b.Matches) == 0 {
		return Match{}, false
	}
	return b.Matches[b.CurrentIndex], true
}

// Perform recomputes Matches against lines for the current Query. Every
// overlapping occurrence is recorded (column advances by one per match,
// not by the query length), matching scan-every-offset substring search.
func (b *BufferSearch) Perform(lines []string) {
	b.Matches = nil
	b.CurrentIndex = 0
	if b.Query == "" {
		return
	}

	query := b.Query
	if !b.CaseSensitive {
		query = strings.ToLower(query)
	}
	queryChars := []rune(query)
	queryLen := len(queryChars)
	if queryLen == 0 {
		return
	}

	for row, line := range lines {
		searchLine := line
		if !b.CaseSensitive {
			searchLine = strings.ToLower(line)
		}
		chars := []rune(searchLine)
		for col := 0; col+queryLen <= len(chars); col++ {
			if runesEqual(chars[col:col+queryLen], queryChars) {
				b.Matches = append(b.Matches, Match{Row: row, StartCol: col, EndCol: col + queryLen})
			}
		}
	}
}

func runesEqual(a, b []rune) bool {
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// Next advances to the next match, wrapping to the first.
func (b *BufferSearch) Next() {
	if len(b.Matches) == 0 {
		return
	}
	b.CurrentIndex = (b.CurrentIndex + 1) % len(b.Matches)
}

// Prev moves to the previous match, wrapping to the last.
func (b *BufferSearch) Prev() {
	if len(b.Matches) == 0 {
		return
	}
	if b.CurrentIndex == 0 {
		b.CurrentIndex = len(b.Matches) - 1
		return
	}
	b.CurrentIndex--
}

// Search exposes the Editor's BufferSearch for the caller to drive
// (Start/Perform/Next/Prev) and read back via CurrentMatch.
func (e *Editor) Search() *BufferSearch { return &e.search }

// CurrentMatch returns the buffer search's active match and moves the
// cursor to its start column, mirroring scroll_to_current_match's
// editor-mode branch.
func (e *Editor) CurrentMatch() (Match, bool) {
	m, ok := e.search.Current()
	if !ok {
		return Match{}, false
	}
	e.SetCursor(m.Row, m.StartCol)
	return m, true
}
