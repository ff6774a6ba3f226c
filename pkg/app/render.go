package app

import (
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/hanebox/ekphos/pkg/highlight"
)

// RenderHighlightedLine applies the theme's per-kind styles to one
// line's highlight ranges and returns the styled string. Wiki-link
// spans are colored by whether their target resolves, so callers
// should run resolveWikiLinkValidity (PollHighlight does) before
// rendering. This is where a highlight.Result actually becomes visible
// output: the TUI loop calls it once per on-screen line.
func (c *Core) RenderHighlightedLine(line string, lr highlight.LineResult) string {
	chars := []rune(line)

	type span struct {
		start, end int
		style      lipgloss.Style
	}
	spans := make([]span, 0, len(lr.Ranges)+len(lr.WikiLinks))
	for _, r := range lr.Ranges {
		spans = append(spans, span{start: r.Start, end: r.End, style: c.Theme.StyleFor(r.Kind)})
	}
	for _, wl := range lr.WikiLinks {
		spans = append(spans, span{start: wl.Start, end: wl.End, style: c.Theme.WikiLinkStyle(wl.IsValid)})
	}
	sort.SliceStable(spans, func(i, j int) bool { return spans[i].start < spans[j].start })

	var sb strings.Builder
	pos := 0
	for _, sp := range spans {
		if sp.start < pos || sp.start >= len(chars) {
			continue
		}
		end := sp.end
		if end > len(chars) {
			end = len(chars)
		}
		if end <= sp.start {
			continue
		}
		sb.WriteString(string(chars[pos:sp.start]))
		sb.WriteString(sp.style.Render(string(chars[sp.start:end])))
		pos = end
	}
	if pos < len(chars) {
		sb.WriteString(string(chars[pos:]))
	}
	return sb.String()
}

// RenderHighlightedLines renders every line of a highlight result
// against the editor's current text, line counts permitting (a result
// raced against an edit can be shorter or longer; extra entries on
// either side are ignored).
func (c *Core) RenderHighlightedLines(lines []string, res highlight.Result) []string {
	out := make([]string, len(lines))
	for i, line := range lines {
		if i < len(res.Lines) {
			out[i] = c.RenderHighlightedLine(line, res.Lines[i])
		} else {
			out[i] = line
		}
	}
	return out
}
