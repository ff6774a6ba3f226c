// Package content turns raw Markdown note text into a flat list of
// typed display items (ContentItem) with a parallel map back to source
// line numbers, plus a lazily-folded heading outline. Built the way the
// teacher's analysis package builds its phase1 stats: a single linear
// pass that never needs the original text again once done.
package content

import "strings"

// ItemKind enumerates the variants of Item.
type ItemKind int

const (
	KindTextLine ItemKind = iota
	KindImage
	KindCodeLine
	KindCodeFence
	KindTaskItem
	KindTableRow
	KindDetails
	KindFrontmatterLine
	KindFrontmatterDelimiter
	KindTagBadges
)

// Item is one row of rendered content. Which fields are populated
// depends on Kind.
type Item struct {
	Kind ItemKind

	Text string // TextLine, CodeLine, CodeFence (language), Image (path)

	// TaskItem
	Checked   bool
	LineIndex int

	// TableRow
	Cells         []string
	IsSeparator   bool
	IsHeader      bool
	ColumnWidths  []int

	// Details
	Summary      string
	ContentLines []string
	ID           int

	// FrontmatterLine
	Key   string
	Value string

	// TagBadges
	Tags []string
	Date string
}

// Model is the parsed display form of one note: a flat item list, the
// source line each item maps to, and per-heading fold state.
type Model struct {
	Items            []Item
	SourceLines      []int
	HeadingFolded    map[int]bool
	DetailsOpen      map[int]bool
}

// Build parses text (with its already-resolved frontmatter and content
// start line) into a Model.
func Build(text string, fm *Frontmatter, contentStartLine int, showTags, frontmatterHidden bool) *Model {
	m := &Model{
		HeadingFolded: map[int]bool{},
		DetailsOpen:   map[int]bool{},
	}

	lines := strings.Split(text, "\n")
	i := 0
	inCodeBlock := false

	hasFrontmatter := fm != nil && contentStartLine > 0
	if hasFrontmatter && !frontmatterHidden {
		m.push(Item{Kind: KindFrontmatterDelimiter}, 0)

		for lineIdx := 1; lineIdx < contentStartLine-1; lineIdx++ {
			if lineIdx >= len(lines) {
				break
			}
			line := lines[lineIdx]
			if colon := strings.Index(line, ":"); colon >= 0 {
				m.push(Item{
					Kind:  KindFrontmatterLine,
					Key:   strings.TrimSpace(line[:colon]),
					Value: strings.TrimSpace(line[colon+1:]),
				}, lineIdx)
			} else {
				m.push(Item{Kind: KindFrontmatterLine, Key: "", Value: line}, lineIdx)
			}
		}

		if contentStartLine > 0 {
			closingIdx := contentStartLine - 1
			if closingIdx < 0 {
				closingIdx = 0
			}
			m.push(Item{Kind: KindFrontmatterDelimiter}, closingIdx)
		}
		i = contentStartLine
	} else if hasFrontmatter {
		if showTags && fm != nil && (len(fm.Tags) > 0 || fm.Date != "") {
			m.push(Item{Kind: KindTagBadges, Tags: fm.Tags, Date: fm.Date}, 0)
		}
		i = contentStartLine
	}

	for i < len(lines) {
		line := lines[i]
		lineIndex := i

		if strings.HasPrefix(line, "```") {
			lang := strings.TrimLeft(line, "`")
			m.push(Item{Kind: KindCodeFence, Text: lang}, lineIndex)
			inCodeBlock = !inCodeBlock
			i++
			continue
		}

		if inCodeBlock {
			m.push(Item{Kind: KindCodeLine, Text: line}, lineIndex)
			i++
			continue
		}

		if strings.HasPrefix(line, "![") && strings.Contains(line, "](") && strings.Contains(line, ")") {
			if start := strings.Index(line, "]("); start >= 0 {
				if end := strings.Index(line[start:], ")"); end >= 0 {
					path := line[start+2 : start+end]
					if path != "" {
						m.push(Item{Kind: KindImage, Text: path}, lineIndex)
						i++
						continue
					}
				}
			}
		}

		trimmed := strings.TrimLeft(line, " \t")
		if strings.HasPrefix(trimmed, "- [ ] ") || strings.HasPrefix(trimmed, "- [x] ") || strings.HasPrefix(trimmed, "- [X] ") {
			checked := strings.HasPrefix(trimmed, "- [x] ") || strings.HasPrefix(trimmed, "- [X] ")
			text := trimmed[6:]
			m.push(Item{Kind: KindTaskItem, Text: text, Checked: checked, LineIndex: lineIndex}, lineIndex)
			i++
			continue
		}

		trimmedLine := strings.TrimSpace(line)
		if strings.HasPrefix(trimmedLine, "<details") && (strings.HasSuffix(trimmedLine, ">") || strings.Contains(trimmedLine, "><")) {
			detailsStartLine := lineIndex
			summary := ""
			var contentLines []string
			foundEnd := false
			i++

			for i < len(lines) {
				dline := strings.TrimSpace(lines[i])

				if strings.Contains(dline, "</details>") {
					foundEnd = true
					i++
					break
				}

				if strings.HasPrefix(dline, "<summary>") || strings.Contains(dline, "<summary>") {
					if strings.Contains(dline, "</summary>") {
						start := strings.Index(dline, "<summary>")
						end := strings.Index(dline, "</summary>")
						if start >= 0 && end >= 0 {
							summary = strings.TrimSpace(dline[start+9 : end])
						}
					} else {
						summary = strings.TrimSpace(strings.TrimPrefix(dline, "<summary>"))
					}
					i++
					continue
				}

				if dline == "</summary>" {
					i++
					continue
				}

				contentLines = append(contentLines, lines[i])
				i++
			}

			if foundEnd {
				if summary == "" {
					summary = "Details"
				}
				m.push(Item{Kind: KindDetails, Summary: summary, ContentLines: contentLines, ID: detailsStartLine}, detailsStartLine)
				continue
			}
			// Unterminated block: the opening tag degrades to plain text
			// and parsing resumes on the line after it, so nothing the
			// scan consumed above is lost.
			m.push(Item{Kind: KindTextLine, Text: line}, lineIndex)
			i = detailsStartLine + 1
			continue
		}

		if strings.HasPrefix(trimmedLine, "|") && strings.HasSuffix(trimmedLine, "|") {
			tableStartLine := lineIndex
			type tableRow struct {
				cells       []string
				isSeparator bool
			}
			var rows []tableRow

			for i < len(lines) {
				tline := strings.TrimSpace(lines[i])
				if strings.HasPrefix(tline, "|") && strings.HasSuffix(tline, "|") {
					inner := tline[1 : len(tline)-1]
					parts := strings.Split(inner, "|")
					cells := make([]string, len(parts))
					for k, p := range parts {
						cells[k] = strings.TrimSpace(p)
					}
					isSep := isSeparatorRow(cells)
					rows = append(rows, tableRow{cells: cells, isSeparator: isSep})
					i++
				} else {
					break
				}
			}

			numCols := 0
			for _, r := range rows {
				if len(r.cells) > numCols {
					numCols = len(r.cells)
				}
			}
			columnWidths := make([]int, numCols)
			for _, r := range rows {
				if r.isSeparator {
					continue
				}
				for colIdx, cell := range r.cells {
					if colIdx < len(columnWidths) {
						if w := len([]rune(cell)); w > columnWidths[colIdx] {
							columnWidths[colIdx] = w
						}
					}
				}
			}
			for k, w := range columnWidths {
				if w < 3 {
					columnWidths[k] = 3
				}
			}

			separatorIdx := -1
			for idx, r := range rows {
				if r.isSeparator {
					separatorIdx = idx
					break
				}
			}

			for rowIdx, r := range rows {
				isHeader := separatorIdx >= 0 && rowIdx < separatorIdx
				cwCopy := make([]int, len(columnWidths))
				copy(cwCopy, columnWidths)
				m.push(Item{
					Kind:         KindTableRow,
					Cells:        r.cells,
					IsSeparator:  r.isSeparator,
					IsHeader:     isHeader,
					ColumnWidths: cwCopy,
				}, tableStartLine+rowIdx)
			}
			continue
		}

		m.push(Item{Kind: KindTextLine, Text: line}, lineIndex)
		i++
	}

	return m
}

func isSeparatorRow(cells []string) bool {
	for _, cell := range cells {
		c := strings.TrimSpace(cell)
		if c == "" {
			return false
		}
		for _, ch := range c {
			if ch != '-' && ch != ':' {
				return false
			}
		}
	}
	return true
}

func (m *Model) push(item Item, sourceLine int) {
	m.Items = append(m.Items, item)
	m.SourceLines = append(m.SourceLines, sourceLine)
}

// HeadingLevel returns 1-3 for "# "/"## "/"### " prefixed lines, 0
// otherwise.
func HeadingLevel(line string) int {
	switch {
	case strings.HasPrefix(line, "### "):
		return 3
	case strings.HasPrefix(line, "## "):
		return 2
	case strings.HasPrefix(line, "# "):
		return 1
	default:
		return 0
	}
}

// IsHeadingAt reports whether item idx is a heading TextLine.
func (m *Model) IsHeadingAt(idx int) bool {
	if idx < 0 || idx >= len(m.Items) {
		return false
	}
	item := m.Items[idx]
	return item.Kind == KindTextLine && HeadingLevel(item.Text) > 0
}

// ChildrenRange returns the half-open range of item indices nested
// under the heading at headingIdx (everything until a heading of equal
// or lesser level).
func (m *Model) ChildrenRange(headingIdx int) (int, int) {
	if headingIdx < 0 || headingIdx >= len(m.Items) {
		return headingIdx, headingIdx
	}
	item := m.Items[headingIdx]
	if item.Kind != KindTextLine {
		return headingIdx, headingIdx
	}
	level := HeadingLevel(item.Text)
	if level == 0 {
		return headingIdx, headingIdx
	}

	end := headingIdx + 1
	for end < len(m.Items) {
		it := m.Items[end]
		if it.Kind == KindTextLine {
			if l := HeadingLevel(it.Text); l > 0 && l <= level {
				break
			}
		}
		end++
	}
	return headingIdx + 1, end
}

// ToggleDetails flips the open state of the details block with the
// given id (the source line of its opening tag). Like heading folds,
// details-open state resets when the note is reloaded.
func (m *Model) ToggleDetails(id int) {
	m.DetailsOpen[id] = !m.DetailsOpen[id]
}

// IsDetailsOpen reports whether the details block with the given id is
// expanded. Blocks start collapsed.
func (m *Model) IsDetailsOpen(id int) bool {
	return m.DetailsOpen[id]
}

// ToggleHeadingFold flips the folded state of the heading at idx, a
// no-op if idx isn't a heading.
func (m *Model) ToggleHeadingFold(idx int) {
	if !m.IsHeadingAt(idx) {
		return
	}
	m.HeadingFolded[idx] = !m.HeadingFolded[idx]
}

// IsVisible reports whether item idx is visible given current fold
// state: hidden if any folded ancestor heading's children range
// contains it.
func (m *Model) IsVisible(idx int) bool {
	for headingIdx, folded := range m.HeadingFolded {
		if !folded || headingIdx >= idx {
			continue
		}
		start, end := m.ChildrenRange(headingIdx)
		if idx >= start && idx < end {
			return false
		}
	}
	return true
}

// NextContentLine returns the next visible item index after idx,
// skipping anything hidden under a folded heading, clamped to the last
// item once the end is reached — the navigation helper spec 4.3 calls
// out by name for cursor-down movement.
func (m *Model) NextContentLine(idx int) int {
	n := len(m.Items)
	if n == 0 {
		return idx
	}
	last := n - 1
	if idx >= last {
		return last
	}
	for i := idx + 1; i <= last; i++ {
		if m.IsVisible(i) {
			return i
		}
	}
	return last
}

// PrevContentLine returns the previous visible item index before idx,
// skipping folded children, clamped to the first item.
func (m *Model) PrevContentLine(idx int) int {
	if len(m.Items) == 0 {
		return idx
	}
	if idx <= 0 {
		return 0
	}
	for i := idx - 1; i >= 0; i-- {
		if m.IsVisible(i) {
			return i
		}
	}
	return 0
}

// HalfPageDown advances up to pageSize/2 visible items from idx, for
// the half-page-down navigation command.
func (m *Model) HalfPageDown(idx, pageSize int) int {
	steps := pageSize / 2
	if steps < 1 {
		steps = 1
	}
	for i := 0; i < steps; i++ {
		next := m.NextContentLine(idx)
		if next == idx {
			break
		}
		idx = next
	}
	return idx
}

// HalfPageUp is HalfPageDown's mirror for the half-page-up command.
func (m *Model) HalfPageUp(idx, pageSize int) int {
	steps := pageSize / 2
	if steps < 1 {
		steps = 1
	}
	for i := 0; i < steps; i++ {
		prev := m.PrevContentLine(idx)
		if prev == idx {
			break
		}
		idx = prev
	}
	return idx
}

// GotoVisible snaps idx forward to the nearest visible item, for
// jump-to-heading commands that may target a line hidden by an
// ancestor's fold.
func (m *Model) GotoVisible(idx int) int {
	if idx < 0 {
		idx = 0
	}
	if idx >= len(m.Items) {
		if len(m.Items) == 0 {
			return idx
		}
		idx = len(m.Items) - 1
	}
	if m.IsVisible(idx) {
		return idx
	}
	return m.NextContentLine(idx)
}

// OutlineEntry is one heading in the flattened outline.
type OutlineEntry struct {
	Level      int
	Title      string
	SourceLine int
	ItemIndex  int
}

// Outline extracts every heading TextLine as a flat, ordered outline —
// a supplementary feature the original kept in its sidebar.
func (m *Model) Outline() []OutlineEntry {
	var out []OutlineEntry
	for idx, item := range m.Items {
		if item.Kind != KindTextLine {
			continue
		}
		level := HeadingLevel(item.Text)
		if level == 0 {
			continue
		}
		out = append(out, OutlineEntry{
			Level:      level,
			Title:      strings.TrimSpace(strings.TrimLeft(item.Text, "#")),
			SourceLine: m.SourceLines[idx],
			ItemIndex:  idx,
		})
	}
	return out
}
