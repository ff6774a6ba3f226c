package app

import (
	"fmt"
	"os"
	"time"

	"github.com/hanebox/ekphos/pkg/search"
)

// SaveCurrentNote writes the editor's text to disk for the selected
// note and updates the search index in place, matching spec section
// 5's rule that file-system writes happen only on the main thread and
// never leave the model partially mutated: either the write and the
// in-memory update both land, or neither does.
func (c *Core) SaveCurrentNote() error {
	if c.Editor == nil || c.SelectedNote < 0 || c.SelectedNote >= len(c.Repo.Notes) {
		return nil
	}
	n := &c.Repo.Notes[c.SelectedNote]
	text := c.Editor.Text()

	if err := os.WriteFile(n.Path, []byte(text), 0o644); err != nil {
		return fmt.Errorf("save note: %w", err)
	}
	n.Content = text
	n.Mtime = time.Now()
	c.Editor.ClearDirty()

	c.Index.UpdateWithNotes([]search.NoteSource{{
		NoteIndex: c.SelectedNote,
		RelPath:   c.relPath(*n),
		Content:   text,
		Mtime:     n.Mtime.Unix(),
	}})
	if c.CacheRoot != "" {
		if err := c.Index.Save(search.CachePath(c.CacheRoot, c.Repo.Root)); err != nil {
			c.logger.Printf("app: index save after edit: %v", err)
		}
	}
	return nil
}
