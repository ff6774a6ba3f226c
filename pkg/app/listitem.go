package app

import "github.com/charmbracelet/bubbles/list"

// NoteItem adapts a loaded note to bubbles/list's item interfaces
// (list.Item, list.DefaultItem) so an out-of-scope file-picker list
// widget could render Core's ranked note data directly, without this
// package depending on any rendering code itself.
type NoteItem struct {
	title, path string
}

// NoteItems builds the list.Item rows for every loaded note, in the
// repository's current sort order.
func (c *Core) NoteItems() []list.Item {
	items := make([]list.Item, len(c.Repo.Notes))
	for i, n := range c.Repo.Notes {
		items[i] = NoteItem{title: n.Title, path: n.Path}
	}
	return items
}

func (n NoteItem) Title() string       { return n.title }
func (n NoteItem) Description() string { return n.path }
func (n NoteItem) FilterValue() string { return n.title }

var _ list.DefaultItem = NoteItem{}
