// Package search implements an incremental, persistent inverted index
// over note text. Parallel (re)indexing follows the errgroup pattern
// the teacher's workspace loader uses for concurrent repo loads;
// persistence uses encoding/gob rather than the original's bincode, the
// closest Go-native binary codec.
package search

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/gob"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
	"sync/atomic"
	"unicode"

	"golang.org/x/sync/errgroup"
)

// IndexVersion is bumped whenever the on-disk format changes; a
// mismatched version forces a full rebuild instead of a crash.
const IndexVersion = 2

// Posting is one occurrence of a term: which note, which line, and the
// rune offset within that line.
type Posting struct {
	NoteIndex int
	LineNum   int
	CharPos   int
}

type fileMeta struct {
	Mtime     int64
	NoteIndex int
}

// Index is the inverted index: term -> postings, plus cached line text
// per note (for snippet rendering) and per-file mtime bookkeeping for
// incremental rebuilds.
type Index struct {
	Version  int
	Terms    map[string][]Posting
	Lines    [][]string
	FileMeta map[string]fileMeta
	NotesDir string

	mu      sync.RWMutex
	logger  *log.Logger
	ready   bool
	done    int64
	total   int64
}

// Progress reports how many of the current build's files have been
// processed; callers may read it (e.g. to show a progress bar) but
// must never write it.
func (idx *Index) Progress() (done, total int) {
	return int(atomic.LoadInt64(&idx.done)), int(atomic.LoadInt64(&idx.total))
}

// NewIndex returns an empty index for notesDir.
func NewIndex(notesDir string) *Index {
	return &Index{
		Version:  IndexVersion,
		Terms:    map[string][]Posting{},
		FileMeta: map[string]fileMeta{},
		NotesDir: notesDir,
		logger:   log.Default(),
	}
}

// SetLogger overrides the default logger for IO/build failures.
func (idx *Index) SetLogger(l *log.Logger) { idx.logger = l }

// Ready reports whether the index has completed at least one full
// build or load.
func (idx *Index) Ready() bool {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	return idx.ready
}

// CachePath returns the on-disk location for notesDir's index: a
// cache-root-derived path keyed by an 8-hex-char hash of the directory,
// matching the original's get_index_path layout.
func CachePath(cacheRoot, notesDir string) string {
	sum := sha256.Sum256([]byte(notesDir))
	hash := fmt.Sprintf("%x", sum)[:8]
	return filepath.Join(cacheRoot, "ekphos", hash, "search_index.bin")
}

// Load reads a persisted index from path, rejecting it if its version
// doesn't match IndexVersion.
func Load(path string) (*Index, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var idx Index
	if err := gob.NewDecoder(bytes.NewReader(data)).Decode(&idx); err != nil {
		return nil, fmt.Errorf("decode index: %w", err)
	}
	if idx.Version != IndexVersion {
		return nil, fmt.Errorf("index version mismatch: have %d want %d", idx.Version, IndexVersion)
	}
	idx.ready = true
	idx.logger = log.Default()
	return &idx, nil
}

// Save persists idx to path, creating parent directories as needed.
func (idx *Index) Save(path string) error {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(idx); err != nil {
		return fmt.Errorf("encode index: %w", err)
	}
	return os.WriteFile(path, buf.Bytes(), 0o644)
}

// NoteSource is one note to (re)index: its stable index, its path
// relative to the notes directory, its content, and its modification
// time.
type NoteSource struct {
	NoteIndex int
	RelPath   string
	Content   string
	Mtime     int64
}

// indexNote tokenizes content and records postings for note_idx,
// replacing any previous entry for relPath.
func (idx *Index) indexNote(noteIdx int, relPath, content string, mtime int64) {
	lines := strings.Split(content, "\n")

	for lineNum, line := range lines {
		lineLower := strings.ToLower(line)
		lineChars := []rune(lineLower)

		for _, word := range tokenize(line) {
			wordLower := strings.ToLower(word)
			if charPos, ok := findCharPosition(lineChars, wordLower); ok {
				idx.Terms[wordLower] = append(idx.Terms[wordLower], Posting{
					NoteIndex: noteIdx, LineNum: lineNum, CharPos: charPos,
				})
			}
		}
	}

	for len(idx.Lines) <= noteIdx {
		idx.Lines = append(idx.Lines, nil)
	}
	idx.Lines[noteIdx] = lines
	idx.FileMeta[relPath] = fileMeta{Mtime: mtime, NoteIndex: noteIdx}
}

// tokenize splits on runs of non-alphanumeric characters, keeping only
// 1-50 character words (matching the original's bounds, which exist to
// cap pathological single-line blobs from flooding the index).
func tokenize(line string) []string {
	var words []string
	var cur []rune
	flush := func() {
		if n := len(cur); n >= 1 && n <= 50 {
			words = append(words, string(cur))
		}
		cur = cur[:0]
	}
	for _, r := range line {
		if isAlphanumeric(r) {
			cur = append(cur, r)
		} else {
			flush()
		}
	}
	flush()
	return words
}

func isAlphanumeric(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r)
}

func findCharPosition(haystack []rune, needle string) (int, bool) {
	needleChars := []rune(needle)
	n := len(needleChars)
	if n == 0 || n > len(haystack) {
		return 0, false
	}
outer:
	for i := 0; i <= len(haystack)-n; i++ {
		for j, nc := range needleChars {
			if haystack[i+j] != nc {
				continue outer
			}
		}
		return i, true
	}
	return 0, false
}

// GetStaleFiles returns the subset of currentFiles whose mtime is
// newer than what's cached (or that aren't cached at all).
func (idx *Index) GetStaleFiles(currentFiles []NoteSource) []string {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	var stale []string
	for _, f := range currentFiles {
		if meta, ok := idx.FileMeta[f.RelPath]; ok && meta.Mtime >= f.Mtime {
			continue
		}
		stale = append(stale, f.RelPath)
	}
	return stale
}

// RemoveDeleted clears index entries for any file no longer present in
// currentPaths, keeping note indices stable (never renumbering).
func (idx *Index) RemoveDeleted(currentPaths []string) {
	idx.mu.Lock()
	defer idx.mu.Unlock()

	current := make(map[string]struct{}, len(currentPaths))
	for _, p := range currentPaths {
		current[p] = struct{}{}
	}

	for path, meta := range idx.FileMeta {
		if _, ok := current[path]; ok {
			continue
		}
		delete(idx.FileMeta, path)
		if meta.NoteIndex < len(idx.Lines) {
			idx.Lines[meta.NoteIndex] = nil
		}
		idx.dropNotePostings(meta.NoteIndex)
	}
	idx.pruneEmptyTerms()
}

// RemoveNote clears index entries for relPath ahead of a re-index.
func (idx *Index) RemoveNote(relPath string) {
	idx.mu.Lock()
	defer idx.mu.Unlock()
	idx.removeNoteLocked(relPath)
}

func (idx *Index) removeNoteLocked(relPath string) {
	meta, ok := idx.FileMeta[relPath]
	if !ok {
		return
	}
	delete(idx.FileMeta, relPath)
	if meta.NoteIndex < len(idx.Lines) {
		idx.Lines[meta.NoteIndex] = nil
	}
	idx.dropNotePostings(meta.NoteIndex)
	idx.pruneEmptyTerms()
}

func (idx *Index) dropNotePostings(noteIdx int) {
	for term, postings := range idx.Terms {
		kept := postings[:0]
		for _, p := range postings {
			if p.NoteIndex != noteIdx {
				kept = append(kept, p)
			}
		}
		idx.Terms[term] = kept
	}
}

func (idx *Index) pruneEmptyTerms() {
	for term, postings := range idx.Terms {
		if len(postings) == 0 {
			delete(idx.Terms, term)
		}
	}
}

// UpdateWithNotes re-indexes each changed note, dropping its previous
// entries first.
func (idx *Index) UpdateWithNotes(notes []NoteSource) {
	idx.mu.Lock()
	defer idx.mu.Unlock()
	for _, n := range notes {
		idx.removeNoteLocked(n.RelPath)
		idx.indexNote(n.NoteIndex, n.RelPath, n.Content, n.Mtime)
	}
}

// Build tokenizes and indexes every source concurrently via errgroup,
// at most runtime.GOMAXPROCS(0) sources at a time,
// then merges results under the index's own lock (tokenizing is
// parallel-safe per source; only the shared map mutation is not).
func (idx *Index) Build(ctx context.Context, sources []NoteSource) error {
	type tokenized struct {
		src   NoteSource
		terms map[string][]Posting
		lines []string
	}
	results := make([]tokenized, len(sources))

	atomic.StoreInt64(&idx.total, int64(len(sources)))
	atomic.StoreInt64(&idx.done, 0)

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i, src := range sources {
		i, src := i, src
		g.Go(func() error {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}
			terms := map[string][]Posting{}
			lines := strings.Split(src.Content, "\n")
			for lineNum, line := range lines {
				lineChars := []rune(strings.ToLower(line))
				for _, word := range tokenize(line) {
					wordLower := strings.ToLower(word)
					if charPos, ok := findCharPosition(lineChars, wordLower); ok {
						terms[wordLower] = append(terms[wordLower], Posting{
							NoteIndex: src.NoteIndex, LineNum: lineNum, CharPos: charPos,
						})
					}
				}
			}
			results[i] = tokenized{src: src, terms: terms, lines: lines}
			atomic.AddInt64(&idx.done, 1)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		idx.logger.Printf("search: build failed: %v", err)
		return err
	}

	idx.mu.Lock()
	defer idx.mu.Unlock()
	for _, r := range results {
		for term, postings := range r.terms {
			idx.Terms[term] = append(idx.Terms[term], postings...)
		}
		for len(idx.Lines) <= r.src.NoteIndex {
			idx.Lines = append(idx.Lines, nil)
		}
		idx.Lines[r.src.NoteIndex] = r.lines
		idx.FileMeta[r.src.RelPath] = fileMeta{Mtime: r.src.Mtime, NoteIndex: r.src.NoteIndex}
	}
	idx.ready = true
	return nil
}

// IncrementalResult is what a background build produced.
type IncrementalResult struct {
	Index *Index
	Err   error
}

// BuildIncremental loads any persisted index at cachePath whose
// NotesDir matches notesDir, purges files no longer present, reindexes
// only stale or new sources, and returns the updated index — the spec
// 4.5 incremental-update algorithm. With no matching cache it falls
// back to a full, parallel Build.
func BuildIncremental(ctx context.Context, notesDir, cachePath string, sources []NoteSource) (*Index, error) {
	idx, err := Load(cachePath)
	if err != nil || idx.NotesDir != notesDir {
		idx = NewIndex(notesDir)
		if buildErr := idx.Build(ctx, sources); buildErr != nil {
			return idx, buildErr
		}
		return idx, nil
	}

	currentPaths := make([]string, len(sources))
	for i, s := range sources {
		currentPaths[i] = s.RelPath
	}
	idx.RemoveDeleted(currentPaths)

	stale := idx.GetStaleFiles(sources)
	staleSet := make(map[string]bool, len(stale))
	for _, p := range stale {
		staleSet[p] = true
	}
	var toIndex []NoteSource
	for _, s := range sources {
		if staleSet[s.RelPath] {
			toIndex = append(toIndex, s)
		}
	}

	atomic.StoreInt64(&idx.total, int64(len(toIndex)))
	atomic.StoreInt64(&idx.done, 0)
	idx.UpdateWithNotes(toIndex)
	atomic.StoreInt64(&idx.done, int64(len(toIndex)))

	idx.mu.Lock()
	idx.ready = true
	idx.mu.Unlock()
	return idx, nil
}

// StartBackgroundBuild runs BuildIncremental on its own goroutine and
// delivers its result exactly once on the returned channel, matching
// the spec's one-shot indexer thread per notes-directory load.
func StartBackgroundBuild(ctx context.Context, notesDir, cachePath string, sources []NoteSource) <-chan IncrementalResult {
	out := make(chan IncrementalResult, 1)
	go func() {
		idx, err := BuildIncremental(ctx, notesDir, cachePath, sources)
		out <- IncrementalResult{Index: idx, Err: err}
	}()
	return out
}

// Result is one matched line, ready for display.
type Result struct {
	NoteIndex int
	LineNum   int
	CharPos   int
	Line      string
}

// Query returns every occurrence of term (lowercased before lookup),
// with line text attached.
func (idx *Index) Query(term string) []Result {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	postings := idx.Terms[strings.ToLower(term)]
	results := make([]Result, 0, len(postings))
	for _, p := range postings {
		var line string
		if p.NoteIndex < len(idx.Lines) && p.LineNum < len(idx.Lines[p.NoteIndex]) {
			line = idx.Lines[p.NoteIndex][p.LineNum]
		}
		results = append(results, Result{NoteIndex: p.NoteIndex, LineNum: p.LineNum, CharPos: p.CharPos, Line: line})
	}
	return results
}
