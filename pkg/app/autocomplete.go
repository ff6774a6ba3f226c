package app

import (
	"context"
	"fmt"

	"github.com/hanebox/ekphos/pkg/content"
	"github.com/hanebox/ekphos/pkg/fuzzy"
	"github.com/hanebox/ekphos/pkg/wiki"
)

// WikiSuggestion is one ranked candidate shown while completing a
// "[[" link: either an existing note or a folder the link could be
// created under.
type WikiSuggestion struct {
	Title    string
	IsFolder bool
	Score    int
}

// HeadingSuggestion is one ranked heading candidate shown after a
// "[[note#" query, scoped to the target note's own headings.
type HeadingSuggestion struct {
	Title string
	Level int
}

// WikiState holds the parsed autocomplete query and its ranked
// suggestions while ModeWikiAutocomplete is active.
type WikiState struct {
	State       wiki.AutocompleteState
	Row         int
	NoteSuggestions    []WikiSuggestion
	HeadingSuggestions []HeadingSuggestion
}

// DetectWikiAutocomplete inspects the editor's current cursor position
// for an unclosed "[[" and, if found, builds ranked suggestions and
// enters ModeWikiAutocomplete. Returns false (and exits the mode, if
// it was active) when the cursor no longer sits inside an open link.
func (c *Core) DetectWikiAutocomplete() bool {
	if c.Editor == nil {
		return false
	}
	pos := c.Editor.Cursor()
	lines := c.Editor.Lines()
	state, ok := wiki.DetectUnclosedWikilink(lines, pos.Row, pos.Col)
	if !ok {
		if c.Mode == ModeWikiAutocomplete {
			c.ExitWikiAutocomplete()
		}
		return false
	}

	ws := &WikiState{State: state, Row: pos.Row}
	switch state.Mode {
	case wiki.ModeHeading:
		ws.HeadingSuggestions = c.WikiHeadingSuggestions(state.NoteQuery, state.HeadingQuery)
	default:
		ws.NoteSuggestions = c.WikiNoteSuggestions(state.NoteQuery)
	}
	c.Wiki = ws
	if c.Mode != ModeWikiAutocomplete {
		c.EnterWikiAutocomplete()
	}
	return true
}

// WikiNoteSuggestions ranks every note title and folder path against
// query using the fuzzy scorer, notes ahead of folders on equal score.
func (c *Core) WikiNoteSuggestions(query string) []WikiSuggestion {
	titles := make([]string, len(c.Repo.Notes))
	for i, n := range c.Repo.Notes {
		titles[i] = n.Title
	}
	folders := c.Repo.FolderPaths()

	var out []WikiSuggestion
	for _, r := range fuzzy.Rank(titles, query) {
		out = append(out, WikiSuggestion{Title: titles[r.Index], Score: r.Score})
	}
	for _, r := range fuzzy.Rank(folders, query) {
		out = append(out, WikiSuggestion{Title: folders[r.Index], IsFolder: true, Score: r.Score})
	}
	sortSuggestions(out)
	return out
}

func sortSuggestions(s []WikiSuggestion) {
	for i := 1; i < len(s); i++ {
		for j := i; j > 0 && less(s[j], s[j-1]); j-- {
			s[j], s[j-1] = s[j-1], s[j]
		}
	}
}

func less(a, b WikiSuggestion) bool {
	if a.Score != b.Score {
		return a.Score > b.Score
	}
	return !a.IsFolder && b.IsFolder
}

// WikiHeadingSuggestions ranks noteTarget's level 1-3 headings against
// query, for the "[[note#" autocomplete stage.
func (c *Core) WikiHeadingSuggestions(noteTarget, query string) []HeadingSuggestion {
	if c.Resolver == nil {
		return nil
	}
	idx, ok := c.Resolver.Resolve(noteTarget)
	if !ok || idx < 0 || idx >= len(c.Repo.Notes) {
		return nil
	}
	n := c.Repo.Notes[idx]
	m := content.Build(n.Content, n.Frontmatter, n.ContentStartLine, true, false)

	var titles []string
	var levels []int
	for _, entry := range m.Outline() {
		if entry.Level > 3 {
			continue
		}
		titles = append(titles, entry.Title)
		levels = append(levels, entry.Level)
	}

	var out []HeadingSuggestion
	for _, r := range fuzzy.Rank(titles, query) {
		out = append(out, HeadingSuggestion{Title: titles[r.Index], Level: levels[r.Index]})
	}
	return out
}

// FollowWikiLink navigates to the note target resolves to, creating it
// first (with intermediate directories and a "# <title>" heading) if
// it doesn't yet exist.
func (c *Core) FollowWikiLink(ctx context.Context, target string) error {
	if idx, ok := c.Resolver.Resolve(target); ok {
		return c.OpenNote(idx)
	}

	abs, err := c.Repo.CreateNote(ctx, target)
	if err != nil {
		return fmt.Errorf("create note for wiki target %q: %w", target, err)
	}
	c.Resolver = wiki.NewResolver(c.Repo.WikiRefs(), c.Repo.Root)

	idx, ok := c.Repo.IndexOfPath(abs)
	if !ok {
		return fmt.Errorf("created note %q not found after reload", abs)
	}
	return c.OpenNote(idx)
}
