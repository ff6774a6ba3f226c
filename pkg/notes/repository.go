// Package notes owns the note list and on-disk tree: loading, sorting,
// folder expansion state, and CRUD operations (create/rename/move/
// delete) that keep wiki links valid across moves. Parallel file
// loading follows the errgroup pattern the teacher's workspace loader
// uses for concurrent repo loads.
package notes

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/hanebox/ekphos/pkg/content"
	"github.com/hanebox/ekphos/pkg/wiki"
)

// Note is one loaded Markdown file.
type Note struct {
	Title            string
	Path             string // absolute
	Content          string
	Mtime            time.Time
	Ctime            time.Time
	Frontmatter      *content.Frontmatter
	ContentStartLine int
}

// Repository owns every note under a root directory plus the folder
// tree view over them.
type Repository struct {
	Root  string
	Notes []Note

	tree             *Node
	expansion        map[string]bool
	sortMode         SortMode
	foldersFirst     bool
	showEmptyFolders bool
	logger           *log.Logger
}

// New returns an empty Repository rooted at root.
func New(root string) *Repository {
	return &Repository{
		Root:         root,
		expansion:    map[string]bool{},
		sortMode:     NameAsc,
		foldersFirst: true,
		logger:       log.Default(),
	}
}

// SetLogger overrides the default logger used for IO failures.
func (r *Repository) SetLogger(l *log.Logger) { r.logger = l }

// SetShowEmptyFolders controls whether folders with no Markdown files
// (transitively) appear in the tree.
func (r *Repository) SetShowEmptyFolders(show bool) { r.showEmptyFolders = show }

// Load walks Root, reading every .md file (skipping dot-directories)
// concurrently via errgroup, then rebuilds the tree. Individual file
// read failures are logged and the file is skipped rather than failing
// the whole load.
func (r *Repository) Load(ctx context.Context) error {
	var paths []string
	err := filepath.Walk(r.Root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return nil
		}
		if info.IsDir() {
			if path != r.Root && strings.HasPrefix(filepath.Base(path), ".") {
				return filepath.SkipDir
			}
			return nil
		}
		if strings.EqualFold(filepath.Ext(path), ".md") {
			paths = append(paths, path)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("walk notes dir: %w", err)
	}

	sort.Strings(paths)

	notes := make([]Note, len(paths))
	g, _ := errgroup.WithContext(ctx)
	for i, p := range paths {
		i, p := i, p
		g.Go(func() error {
			n, err := r.readNote(p)
			if err != nil {
				r.logger.Printf("notes: skipping %s: %v", p, err)
				return nil
			}
			notes[i] = n
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	compact := notes[:0]
	for _, n := range notes {
		if n.Path != "" {
			compact = append(compact, n)
		}
	}
	r.Notes = compact
	r.Sort()
	r.rebuildTree()
	return nil
}

func (r *Repository) readNote(path string) (Note, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Note{}, err
	}
	info, err := os.Stat(path)
	if err != nil {
		return Note{}, err
	}
	text := string(data)
	fm, start := content.ParseFrontmatter(text)

	title := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	if fm != nil && fm.Title != "" {
		title = fm.Title
	}

	return Note{
		Title:            title,
		Path:             path,
		Content:          text,
		Mtime:            info.ModTime(),
		Ctime:            creationTime(info),
		Frontmatter:      fm,
		ContentStartLine: start,
	}, nil
}

// EnsureWelcomeNote seeds a single starter note when the directory has
// no Markdown files, grounded on the original's welcome-onboarding path.
// Writing happens only here, on the main thread, per the IO-ownership
// rule.
func (r *Repository) EnsureWelcomeNote(ctx context.Context) error {
	if len(r.Notes) > 0 {
		return nil
	}
	if err := os.MkdirAll(r.Root, 0o755); err != nil {
		return fmt.Errorf("create notes dir: %w", err)
	}
	path := filepath.Join(r.Root, "Welcome.md")
	if _, err := os.Stat(path); err == nil {
		return r.Load(ctx)
	}
	body := "# Welcome\n\nThis is your first note. Start typing, or use [[Another Note]] to link to a new one.\n"
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		return fmt.Errorf("write welcome note: %w", err)
	}
	return r.Load(ctx)
}

// IndexOfPath returns the note index for an absolute path, if loaded.
func (r *Repository) IndexOfPath(path string) (int, bool) {
	clean := filepath.Clean(path)
	for i, n := range r.Notes {
		if filepath.Clean(n.Path) == clean {
			return i, true
		}
	}
	return 0, false
}

// WikiRefs returns the minimal note view pkg/wiki needs for resolution.
func (r *Repository) WikiRefs() []wiki.NoteRef {
	refs := make([]wiki.NoteRef, len(r.Notes))
	for i, n := range r.Notes {
		refs[i] = wiki.NoteRef{Title: n.Title, FilePath: n.Path}
	}
	return refs
}

func creationTime(info os.FileInfo) time.Time {
	// os.FileInfo has no portable creation time; platform-specific stats
	// (syscall.Stat_t on Linux) would be needed for a true ctime. Falling
	// back to mtime keeps behavior defined without importing
	// syscall-specific sys fields that don't exist on every GOOS.
	return info.ModTime()
}
