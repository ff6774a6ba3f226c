package app

import "github.com/hanebox/ekphos/pkg/content"

// EnterEdit switches to edit mode over the currently selected note. A
// no-op if no note is open.
func (c *Core) EnterEdit() {
	if c.Editor == nil {
		return
	}
	c.Mode = ModeEdit
}

// ExitEdit writes the editor's text back to the in-memory note (the
// caller is responsible for persisting to disk) and returns to view
// mode, rebuilding the ContentModel from the edited text.
func (c *Core) ExitEdit() {
	if c.Editor == nil {
		c.Mode = ModeView
		return
	}
	if c.SelectedNote >= 0 && c.SelectedNote < len(c.Repo.Notes) {
		n := &c.Repo.Notes[c.SelectedNote]
		n.Content = c.Editor.Text()
		c.Content = content.Build(n.Content, n.Frontmatter, n.ContentStartLine, true, false)
	}
	c.Mode = ModeView
}

// EnterSearch switches to search mode. It holds no query state of its
// own and so clears nothing.
func (c *Core) EnterSearch() {
	c.Mode = ModeSearch
}

// ExitSearch returns to view mode.
func (c *Core) ExitSearch() {
	c.Mode = ModeView
}

// EnterWikiAutocomplete switches to wiki-autocomplete mode, used once
// DetectWikiAutocomplete finds an unclosed "[[" at the cursor.
func (c *Core) EnterWikiAutocomplete() {
	c.Mode = ModeWikiAutocomplete
}

// ExitWikiAutocomplete returns to edit mode and clears suggestion state.
func (c *Core) ExitWikiAutocomplete() {
	c.Mode = ModeEdit
	c.Wiki = nil
}

// EnterGraph switches to graph mode.
func (c *Core) EnterGraph() {
	c.Mode = ModeGraph
}

// ExitGraph returns to view mode.
func (c *Core) ExitGraph() {
	c.Mode = ModeView
}

// ToggleFocus flips focus between the sidebar and the content pane,
// a no-op while a modal mode (search, graph, wiki-autocomplete) is active.
func (c *Core) ToggleFocus() {
	if c.Mode != ModeView && c.Mode != ModeEdit {
		return
	}
	if c.Focus == FocusSidebar {
		c.Focus = FocusContent
	} else {
		c.Focus = FocusSidebar
	}
}
