package app

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/hanebox/ekphos/pkg/content"
	"github.com/hanebox/ekphos/pkg/editor"
	"github.com/hanebox/ekphos/pkg/search"
)

// ToggleTask flips the checkbox of the task item at content index
// itemIdx, persists the note, and rebuilds the content model so the
// same item index shows the new checked state. A no-op when itemIdx
// isn't a task item.
func (c *Core) ToggleTask(itemIdx int) error {
	if c.Content == nil || itemIdx < 0 || itemIdx >= len(c.Content.Items) {
		return nil
	}
	item := c.Content.Items[itemIdx]
	if item.Kind != content.KindTaskItem {
		return nil
	}
	if c.SelectedNote < 0 || c.SelectedNote >= len(c.Repo.Notes) {
		return nil
	}
	n := &c.Repo.Notes[c.SelectedNote]

	lines := strings.Split(n.Content, "\n")
	if item.LineIndex < 0 || item.LineIndex >= len(lines) {
		return nil
	}
	toggled, ok := toggleTaskLine(lines[item.LineIndex])
	if !ok {
		return nil
	}
	lines[item.LineIndex] = toggled
	text := strings.Join(lines, "\n")

	if err := os.WriteFile(n.Path, []byte(text), 0o644); err != nil {
		return fmt.Errorf("toggle task: %w", err)
	}
	n.Content = text
	n.Mtime = time.Now()
	c.Content = content.Build(text, n.Frontmatter, n.ContentStartLine, true, false)
	c.Editor = editor.FromText(text)

	c.Index.UpdateWithNotes([]search.NoteSource{{
		NoteIndex: c.SelectedNote,
		RelPath:   c.relPath(*n),
		Content:   text,
		Mtime:     n.Mtime.Unix(),
	}})
	return nil
}

func toggleTaskLine(line string) (string, bool) {
	switch {
	case strings.Contains(line, "- [ ] "):
		return strings.Replace(line, "- [ ] ", "- [x] ", 1), true
	case strings.Contains(line, "- [x] "):
		return strings.Replace(line, "- [x] ", "- [ ] ", 1), true
	case strings.Contains(line, "- [X] "):
		return strings.Replace(line, "- [X] ", "- [ ] ", 1), true
	}
	return line, false
}
