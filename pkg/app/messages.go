package app

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/hanebox/ekphos/pkg/highlight"
	"github.com/hanebox/ekphos/pkg/search"
)

// These are the payloads Core produces for a bubbletea Update loop to
// dispatch on as tea.Msg, even though the renderer that would consume
// them is out of scope here.

// HighlightResultMsg carries a completed highlight pass back to the
// UI loop, to be applied only if Result.Version matches the editor's
// current highlight version.
type HighlightResultMsg struct {
	Result highlight.Result
}

// IndexReadyMsg signals the search index finished an incremental
// rebuild and is safe to query.
type IndexReadyMsg struct {
	Err error
}

// SearchResultMsg carries a completed ranked query's results. SearchID
// correlates the response with the query that launched it; the poller
// drops messages whose id is no longer current.
type SearchResultMsg struct {
	SearchID uint64
	Query    string
	Results  []search.SearchResult
}

// NotesChangedMsg is forwarded from notes.Watcher when an external
// process edits a file under the notes directory.
type NotesChangedMsg struct {
	Path string
}

// Poll drains at most one pending highlight result and wraps it as a
// tea.Msg-shaped value; the caller (a bubbletea Cmd in the full UI)
// would return this from its update loop.
func (c *Core) Poll() (HighlightResultMsg, bool) {
	res, ok := c.PollHighlight()
	if !ok {
		return HighlightResultMsg{}, false
	}
	return HighlightResultMsg{Result: res}, true
}

// PollCmd adapts Poll into a tea.Cmd: the bubbletea runtime calls this
// on its own goroutine and feeds the returned tea.Msg back through
// Update. Returns nil (bubbletea's "no message") when nothing is ready.
func (c *Core) PollCmd() tea.Cmd {
	return func() tea.Msg {
		msg, ok := c.Poll()
		if !ok {
			return nil
		}
		return msg
	}
}

// IndexReadyCmd adapts PollIndexReady into a tea.Cmd.
func (c *Core) IndexReadyCmd() tea.Cmd {
	return func() tea.Msg {
		msg, ok := c.PollIndexReady()
		if !ok {
			return nil
		}
		return msg
	}
}

// WatchCmd adapts PollWatchMsg into a tea.Cmd, surfacing one externally
// changed file per call.
func (c *Core) WatchCmd() tea.Cmd {
	return func() tea.Msg {
		msg, ok := c.PollWatchMsg()
		if !ok {
			return nil
		}
		return msg
	}
}
