// Package theme adapts the teacher's lipgloss-backed palette
// (pkg/ui.DefaultTheme in the original beads_viewer board) into a
// note-app color table: headings, links, tasks, code, and the
// highlight-worker's per-kind colors all come from here so the TUI
// renderer (out of scope) and the highlighter agree on one palette.
package theme

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/hanebox/ekphos/pkg/highlight"
)

// Theme is the adaptive (light/dark aware) color and style table shared
// by the content renderer and the styling of highlight-worker results.
type Theme struct {
	Renderer *lipgloss.Renderer

	Primary   lipgloss.AdaptiveColor
	Secondary lipgloss.AdaptiveColor
	Subtext   lipgloss.AdaptiveColor

	Heading1 lipgloss.AdaptiveColor
	Heading2 lipgloss.AdaptiveColor
	Heading3 lipgloss.AdaptiveColor

	Link        lipgloss.AdaptiveColor
	LinkInvalid lipgloss.AdaptiveColor
	Code        lipgloss.AdaptiveColor
	Bold        lipgloss.AdaptiveColor
	Italic      lipgloss.AdaptiveColor
	Blockquote  lipgloss.AdaptiveColor
	ListMarker  lipgloss.AdaptiveColor
	TaskChecked lipgloss.AdaptiveColor
	TaskOpen    lipgloss.AdaptiveColor
	Frontmatter lipgloss.AdaptiveColor
	Rule        lipgloss.AdaptiveColor

	Border    lipgloss.AdaptiveColor
	Highlight lipgloss.AdaptiveColor

	Base     lipgloss.Style
	Selected lipgloss.Style
	Header   lipgloss.Style
}

// DefaultTheme returns the standard Dracula-inspired palette, adaptive
// to the terminal's reported background.
func DefaultTheme(r *lipgloss.Renderer) Theme {
	t := Theme{
		Renderer: r,

		Primary:   lipgloss.AdaptiveColor{Light: "#7D56F4", Dark: "#BD93F9"},
		Secondary: lipgloss.AdaptiveColor{Light: "#555555", Dark: "#6272A4"},
		Subtext:   lipgloss.AdaptiveColor{Light: "#999999", Dark: "#BFBFBF"},

		Heading1: lipgloss.AdaptiveColor{Light: "#7D56F4", Dark: "#BD93F9"},
		Heading2: lipgloss.AdaptiveColor{Light: "#007EA8", Dark: "#8BE9FD"},
		Heading3: lipgloss.AdaptiveColor{Light: "#00A800", Dark: "#50FA7B"},

		Link:        lipgloss.AdaptiveColor{Light: "#007EA8", Dark: "#8BE9FD"},
		LinkInvalid: lipgloss.AdaptiveColor{Light: "#D80000", Dark: "#FF5555"},
		Code:        lipgloss.AdaptiveColor{Light: "#D88000", Dark: "#FFB86C"},
		Bold:        lipgloss.AdaptiveColor{Light: "#000000", Dark: "#F8F8F2"},
		Italic:      lipgloss.AdaptiveColor{Light: "#555555", Dark: "#BFBFBF"},
		Blockquote:  lipgloss.AdaptiveColor{Light: "#999999", Dark: "#6272A4"},
		ListMarker:  lipgloss.AdaptiveColor{Light: "#7D56F4", Dark: "#BD93F9"},
		TaskChecked: lipgloss.AdaptiveColor{Light: "#00A800", Dark: "#50FA7B"},
		TaskOpen:    lipgloss.AdaptiveColor{Light: "#999999", Dark: "#BFBFBF"},
		Frontmatter: lipgloss.AdaptiveColor{Light: "#999999", Dark: "#6272A4"},
		Rule:        lipgloss.AdaptiveColor{Light: "#DDDDDD", Dark: "#44475A"},

		Border:    lipgloss.AdaptiveColor{Light: "#DDDDDD", Dark: "#44475A"},
		Highlight: lipgloss.AdaptiveColor{Light: "#EEEEEE", Dark: "#44475A"},
	}

	t.Base = r.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#000000", Dark: "#F8F8F2"})

	t.Selected = r.NewStyle().
		Background(t.Highlight).
		Border(lipgloss.ThickBorder(), false, false, false, true).
		BorderForeground(t.Primary).
		PaddingLeft(1).
		Bold(true)

	t.Header = r.NewStyle().
		Background(t.Primary).
		Foreground(lipgloss.AdaptiveColor{Light: "#FFFFFF", Dark: "#282A36"}).
		Bold(true).
		Padding(0, 1)

	return t
}

// HeadingColor returns the heading color for level (1-6); levels past 3
// repeat the level-3 color since the original palette only distinguishes
// the first three outline levels.
func (t Theme) HeadingColor(level int) lipgloss.AdaptiveColor {
	switch level {
	case 1:
		return t.Heading1
	case 2:
		return t.Heading2
	default:
		return t.Heading3
	}
}

// ColorFor maps a highlight classification to its palette color. This
// is the single place the highlighter's Kind space meets the theme, so
// the renderer and the highlight worker can't drift apart on what a
// range looks like.
func (t Theme) ColorFor(kind highlight.Kind) lipgloss.AdaptiveColor {
	switch kind {
	case highlight.KindHeading1:
		return t.Heading1
	case highlight.KindHeading2:
		return t.Heading2
	case highlight.KindHeading3, highlight.KindHeading4, highlight.KindHeading5, highlight.KindHeading6:
		return t.Heading3
	case highlight.KindHorizontalRule:
		return t.Rule
	case highlight.KindBlockquote:
		return t.Blockquote
	case highlight.KindListMarker:
		return t.ListMarker
	case highlight.KindTaskBox:
		return t.TaskOpen
	case highlight.KindHTMLTag:
		return t.Secondary
	case highlight.KindInlineCode, highlight.KindCode:
		return t.Code
	case highlight.KindLink:
		return t.Link
	case highlight.KindBold:
		return t.Bold
	case highlight.KindItalic:
		return t.Italic
	case highlight.KindFrontmatter:
		return t.Frontmatter
	}
	return t.Subtext
}

// StyleFor returns the full render style for a highlight kind: its
// ColorFor foreground plus the weight/slant the kind implies.
func (t Theme) StyleFor(kind highlight.Kind) lipgloss.Style {
	s := t.Renderer.NewStyle().Foreground(t.ColorFor(kind))
	switch kind {
	case highlight.KindHeading1, highlight.KindHeading2, highlight.KindHeading3,
		highlight.KindHeading4, highlight.KindHeading5, highlight.KindHeading6,
		highlight.KindBold:
		s = s.Bold(true)
	case highlight.KindItalic:
		s = s.Italic(true)
	}
	return s
}

// WikiLinkStyle styles a wiki-link span by whether its target resolves:
// valid links read as links, broken ones get the invalid color so the
// user sees at a glance which targets don't exist yet.
func (t Theme) WikiLinkStyle(valid bool) lipgloss.Style {
	color := t.LinkInvalid
	if valid {
		color = t.Link
	}
	return t.Renderer.NewStyle().Foreground(color)
}
