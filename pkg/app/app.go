// Package app orchestrates the note-workbench subsystems: mode machine,
// focus, event wiring, and polling the highlight worker and search
// index for async results. It mirrors the teacher's AggregateLoader
// orchestration role (owning subsystems, wiring their errors through a
// logger, exposing one surface to the CLI) generalized from "load a set
// of repos" to "drive a notes workbench".
package app

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/hanebox/ekphos/pkg/config"
	"github.com/hanebox/ekphos/pkg/content"
	"github.com/hanebox/ekphos/pkg/editor"
	"github.com/hanebox/ekphos/pkg/graph"
	"github.com/hanebox/ekphos/pkg/highlight"
	"github.com/hanebox/ekphos/pkg/navigation"
	"github.com/hanebox/ekphos/pkg/notes"
	"github.com/hanebox/ekphos/pkg/search"
	"github.com/hanebox/ekphos/pkg/theme"
	"github.com/hanebox/ekphos/pkg/wiki"
)

// backgroundIndexTimeout bounds how long Load waits for an incremental
// rebuild before proceeding with whatever index state is ready — the
// spec's fallback to line-scan search on a slow index.
const backgroundIndexTimeout = 60 * time.Second

// Mode is the top-level interaction mode, mutually exclusive.
type Mode int

const (
	ModeView Mode = iota
	ModeEdit
	ModeSearch
	ModeGraph
	ModeWikiAutocomplete
)

func (m Mode) String() string {
	switch m {
	case ModeEdit:
		return "edit"
	case ModeSearch:
		return "search"
	case ModeGraph:
		return "graph"
	case ModeWikiAutocomplete:
		return "wiki-autocomplete"
	default:
		return "view"
	}
}

// Focus distinguishes which pane receives keyboard input while not in a
// modal mode.
type Focus int

const (
	FocusSidebar Focus = iota
	FocusContent
)

// Core wires every subsystem together: the notes repository, the
// search index, the highlight worker, the wiki resolver, navigation
// history, and the currently open editor (if any). It is the single
// type the CLI entry point constructs and drives.
type Core struct {
	Repo       *notes.Repository
	Index      *search.Index
	Worker     *highlight.Worker
	caller     highlight.Caller
	Resolver   *wiki.Resolver
	Nav        *navigation.History
	Editor     *editor.Editor
	Content    *content.Model
	Theme      theme.Theme
	Mode       Mode
	Focus      Focus
	SelectedNote int

	// ContentCursor/ContentScroll are the view-mode cursor (a content
	// item index) and scroll offset, saved into the navigation history
	// before every move so Back/Forward restore the exact view.
	ContentCursor int
	ContentScroll int

	logger     *log.Logger

	// CacheRoot, when set, enables persistent incremental indexing
	// (search index cached under CacheRoot, rebuilt incrementally on
	// Load) and directory watching. Left empty, Load keeps the
	// original synchronous full-rebuild behavior.
	CacheRoot  string
	Watcher    *notes.Watcher
	indexReady <-chan search.IncrementalResult

	// Live (pre-index) content search: one goroutine per query, each
	// stamped with a monotone id so stale answers get dropped.
	searchID uint64
	searchCh chan SearchResultMsg

	Wiki *WikiState
}

// New builds a Core over notesDir, with a highlight worker started in
// the background. The caller must call Close when done.
func New(notesDir string) (*Core, error) {
	c := &Core{
		Repo:   notes.New(notesDir),
		Index:  search.NewIndex(notesDir),
		Worker: highlight.NewWorker(),
		Nav:    navigation.New(),
		Theme:  theme.DefaultTheme(lipgloss.NewRenderer(os.Stdout)),
		Mode:   ModeView,
		Focus:  FocusSidebar,
		logger: log.Default(),
	}
	go c.Worker.Run()
	return c, nil
}

// SetLogger installs l on every subsystem that accepts one.
func (c *Core) SetLogger(l *log.Logger) {
	c.logger = l
	c.Repo.SetLogger(l)
	c.Index.SetLogger(l)
	c.Worker.SetLogger(l)
}

// SetCacheRoot enables persistent, incremental search indexing: Load
// will cache the index under root and only reindex stale files on
// subsequent runs, with a hard timeout protecting interactive startup.
func (c *Core) SetCacheRoot(root string) {
	c.CacheRoot = root
}

func (c *Core) relPath(n notes.Note) string {
	if rel, err := filepath.Rel(c.Repo.Root, n.Path); err == nil {
		return filepath.ToSlash(rel)
	}
	return n.Path
}

// Load reads the notes directory, seeds a welcome note if empty, builds
// the wiki resolver over the loaded notes, and rebuilds the search
// index. With no CacheRoot set, the index is rebuilt synchronously and
// fully, as before. With a CacheRoot set, Load loads any persisted
// index, reindexes only stale or new files in the background, and
// waits up to backgroundIndexTimeout before returning — on timeout it
// proceeds with whatever the index has finished so far, degrading
// gracefully to the line-scan search fallback.
func (c *Core) Load(ctx context.Context) error {
	if err := c.Repo.Load(ctx); err != nil {
		return fmt.Errorf("load notes: %w", err)
	}
	if len(c.Repo.Notes) == 0 {
		if err := c.Repo.EnsureWelcomeNote(ctx); err != nil {
			return fmt.Errorf("seed welcome note: %w", err)
		}
	}
	c.Resolver = wiki.NewResolver(c.Repo.WikiRefs(), c.Repo.Root)

	sources := make([]search.NoteSource, len(c.Repo.Notes))
	for i, n := range c.Repo.Notes {
		sources[i] = search.NoteSource{
			NoteIndex: i,
			RelPath:   c.relPath(n),
			Content:   n.Content,
			Mtime:     n.Mtime.Unix(),
		}
	}

	if c.CacheRoot == "" {
		if err := c.Index.Build(ctx, sources); err != nil {
			c.logger.Printf("app: index build: %v", err)
		}
		return nil
	}

	cachePath := search.CachePath(c.CacheRoot, c.Repo.Root)
	resultCh := search.StartBackgroundBuild(ctx, c.Repo.Root, cachePath, sources)
	timer := time.NewTimer(backgroundIndexTimeout)
	defer timer.Stop()
	select {
	case res := <-resultCh:
		c.applyIndexResult(res, cachePath)
	case <-timer.C:
		c.logger.Printf("app: index build did not finish within %s, continuing with partial results", backgroundIndexTimeout)
		c.indexReady = resultCh
	}
	return nil
}

func (c *Core) applyIndexResult(res search.IncrementalResult, cachePath string) {
	if res.Err != nil {
		c.logger.Printf("app: incremental index build: %v", res.Err)
	}
	if res.Index != nil {
		c.Index = res.Index
	}
	if err := c.Index.Save(cachePath); err != nil {
		c.logger.Printf("app: index save: %v", err)
	}
}

// PollIndexReady drains the background index build's result once it
// finishes after Load gave up waiting for it at the 60-second timeout,
// so the caller learns when search results stop being partial.
func (c *Core) PollIndexReady() (IndexReadyMsg, bool) {
	if c.indexReady == nil {
		return IndexReadyMsg{}, false
	}
	select {
	case res := <-c.indexReady:
		c.indexReady = nil
		c.applyIndexResult(res, search.CachePath(c.CacheRoot, c.Repo.Root))
		return IndexReadyMsg{Err: res.Err}, true
	default:
		return IndexReadyMsg{}, false
	}
}

// StartWatching begins watching the notes directory for filesystem
// changes so PollWatch can incrementally keep the index and repository
// in sync. No-op if CacheRoot isn't set, since only the persistent
// incremental path benefits from live invalidation.
func (c *Core) StartWatching() error {
	if c.CacheRoot == "" {
		return nil
	}
	w, err := notes.Watch(c.Repo.Root)
	if err != nil {
		return fmt.Errorf("start watcher: %w", err)
	}
	c.Watcher = w
	return nil
}

// PollWatchMsg drains at most one pending filesystem-change event,
// reloading the affected note and incrementally updating the search
// index, and reports it as a NotesChangedMsg. Safe to call when no
// watcher is running (reports false).
func (c *Core) PollWatchMsg() (NotesChangedMsg, bool) {
	if c.Watcher == nil {
		return NotesChangedMsg{}, false
	}
	select {
	case ev, ok := <-c.Watcher.Events:
		if !ok {
			return NotesChangedMsg{}, false
		}
		c.handleWatchEvent(context.Background(), ev)
		return NotesChangedMsg{Path: ev.Path}, true
	default:
		return NotesChangedMsg{}, false
	}
}

// PollWatch drains every pending filesystem-change event. Safe to call
// when no watcher is running (no-op).
func (c *Core) PollWatch() {
	for {
		if _, ok := c.PollWatchMsg(); !ok {
			return
		}
	}
}

func (c *Core) handleWatchEvent(ctx context.Context, ev notes.ChangedEvent) {
	if err := c.Repo.Load(ctx); err != nil {
		c.logger.Printf("app: reload after watch event: %v", err)
		return
	}
	c.Resolver = wiki.NewResolver(c.Repo.WikiRefs(), c.Repo.Root)

	changedClean := filepath.Clean(ev.Path)
	currentPaths := make([]string, len(c.Repo.Notes))
	var changed []search.NoteSource
	for i, n := range c.Repo.Notes {
		rel := c.relPath(n)
		currentPaths[i] = rel
		if filepath.Clean(n.Path) == changedClean {
			changed = append(changed, search.NoteSource{
				NoteIndex: i,
				RelPath:   rel,
				Content:   n.Content,
				Mtime:     n.Mtime.Unix(),
			})
		}
	}
	c.Index.RemoveDeleted(currentPaths)
	if len(changed) > 0 {
		c.Index.UpdateWithNotes(changed)
	}
	if c.CacheRoot != "" {
		if err := c.Index.Save(search.CachePath(c.CacheRoot, c.Repo.Root)); err != nil {
			c.logger.Printf("app: index save after watch event: %v", err)
		}
	}
}

// OpenNote switches the selected note, records navigation history
// (saving the current view state into the entry being left), rebuilds
// the ContentModel, and opens an Editor over its text.
func (c *Core) OpenNote(idx int) error {
	if idx < 0 || idx >= len(c.Repo.Notes) {
		return fmt.Errorf("note index out of range: %d", idx)
	}
	c.Nav.UpdateCurrentView(c.ContentCursor, c.ContentScroll)
	c.Nav.Navigate(idx)
	c.SelectedNote = idx
	c.ContentCursor = 0
	c.ContentScroll = 0
	n := c.Repo.Notes[idx]
	c.Content = content.Build(n.Content, n.Frontmatter, n.ContentStartLine, true, false)
	c.Editor = editor.FromText(n.Content)
	c.rememberLastNote(n.Path)
	return nil
}

func (c *Core) rememberLastNote(path string) {
	if c.CacheRoot == "" {
		return
	}
	if err := config.SaveLastNote(c.CacheRoot, path); err != nil {
		c.logger.Printf("app: remember last note: %v", err)
	}
}

// Back navigates to the previous history entry, saving the current view
// state first so Forward restores it.
func (c *Core) Back() bool {
	c.Nav.UpdateCurrentView(c.ContentCursor, c.ContentScroll)
	entry, ok := c.Nav.Back()
	if !ok {
		return false
	}
	return c.restoreEntry(entry)
}

// Forward navigates to the next history entry, if any.
func (c *Core) Forward() bool {
	c.Nav.UpdateCurrentView(c.ContentCursor, c.ContentScroll)
	entry, ok := c.Nav.Forward()
	if !ok {
		return false
	}
	return c.restoreEntry(entry)
}

func (c *Core) restoreEntry(entry navigation.Entry) bool {
	if entry.NoteIndex < 0 || entry.NoteIndex >= len(c.Repo.Notes) {
		return false
	}
	c.SelectedNote = entry.NoteIndex
	c.ContentCursor = entry.ContentCursor
	c.ContentScroll = entry.ScrollOffset
	n := c.Repo.Notes[entry.NoteIndex]
	c.Content = content.Build(n.Content, n.Frontmatter, n.ContentStartLine, true, false)
	c.Editor = editor.FromText(n.Content)
	c.rememberLastNote(n.Path)
	return true
}

// RequestHighlight submits the editor's current lines to the background
// worker, returning the version tag the caller should match against the
// next PollHighlight result. The send never blocks the main thread: if
// the request buffer is somehow full, the oldest queued request (stale
// by definition) is dropped to make room for this one.
func (c *Core) RequestHighlight() uint64 {
	if c.Editor == nil {
		return c.caller.CurrentVersion()
	}
	v := c.caller.NextVersion()
	req := highlight.Request{Lines: c.Editor.Lines(), Version: v}
	for {
		select {
		case c.Worker.In <- req:
			return v
		default:
		}
		select {
		case <-c.Worker.In:
		default:
		}
	}
}

// PollHighlight drains a pending highlight result, applying it only if
// it matches the most recently requested version (stale results are
// discarded per the worker's latest-wins contract).
func (c *Core) PollHighlight() (highlight.Result, bool) {
	select {
	case res := <-c.Worker.Out:
		if !c.caller.Apply(res) {
			return highlight.Result{}, false
		}
		c.resolveWikiLinkValidity(res)
		return res, true
	default:
		return highlight.Result{}, false
	}
}

// resolveWikiLinkValidity sets IsValid on every wikilink span the
// worker found, since the worker itself has no access to the live note
// set and always leaves IsValid false.
func (c *Core) resolveWikiLinkValidity(res highlight.Result) {
	if c.Resolver == nil {
		return
	}
	for i := range res.Lines {
		for j := range res.Lines[i].WikiLinks {
			wl := &res.Lines[i].WikiLinks[j]
			wl.IsValid = c.Resolver.Exists(wl.Target)
		}
	}
}

// Search runs a ranked query across the index.
func (c *Core) Search(query string) []search.SearchResult {
	return c.Index.Search(query, func(noteIdx int) string {
		if noteIdx < 0 || noteIdx >= len(c.Repo.Notes) {
			return ""
		}
		return c.Repo.Notes[noteIdx].Title
	})
}

// Graph builds a force-directed layout of the wikilink graph across all
// loaded notes. Nodes are keyed by wiki path so two notes sharing a
// title in different folders stay distinct; the displayed label is
// still the note's title.
func (c *Core) Graph() []graph.Node {
	b := graph.NewBuilder()
	keys := make([]string, len(c.Repo.Notes))
	for i, n := range c.Repo.Notes {
		key, ok := c.Resolver.WikiPathFor(i)
		if !ok {
			key = n.Title
		}
		keys[i] = key
		b.AddNodeKeyed(key, n.Title)
	}
	for i, n := range c.Repo.Notes {
		for _, l := range c.Resolver.ExtractLinks(n.Content) {
			if target, ok := c.Resolver.Resolve(l.Target); ok && target != i {
				b.AddEdge(keys[i], keys[target])
			}
		}
	}
	return graph.Layout(b.Nodes(), b.Edges())
}

// Close stops the background highlight worker and any active watcher.
func (c *Core) Close() {
	c.Worker.Stop()
	if c.Watcher != nil {
		c.Watcher.Close()
	}
}
