package notes

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/hanebox/ekphos/pkg/wiki"
)

// CreateNote writes a new note at relPath (relative to Root, ".md"
// appended if missing) holding only a "# <title>" heading, creating
// parent directories as needed, and reloads the repository. Fails if a
// file already exists there.
func (r *Repository) CreateNote(ctx context.Context, relPath string) (string, error) {
	if !strings.HasSuffix(relPath, ".md") {
		relPath += ".md"
	}
	abs := filepath.Join(r.Root, relPath)
	if _, err := os.Stat(abs); err == nil {
		return "", fmt.Errorf("note already exists: %s", relPath)
	}
	if err := os.MkdirAll(filepath.Dir(abs), 0o755); err != nil {
		return "", fmt.Errorf("create parent dir: %w", err)
	}
	title := strings.TrimSuffix(filepath.Base(abs), ".md")
	body := "# " + title + "\n\n"
	if err := os.WriteFile(abs, []byte(body), 0o644); err != nil {
		return "", fmt.Errorf("write note: %w", err)
	}
	if err := r.Load(ctx); err != nil {
		return "", err
	}
	return abs, nil
}

// CreateFolder creates an empty directory at relPath and reloads.
func (r *Repository) CreateFolder(ctx context.Context, relPath string) (string, error) {
	abs := filepath.Join(r.Root, relPath)
	if info, err := os.Stat(abs); err == nil {
		if info.IsDir() {
			return "", fmt.Errorf("folder already exists: %s", relPath)
		}
		return "", fmt.Errorf("a file already exists at: %s", relPath)
	}
	if err := os.MkdirAll(abs, 0o755); err != nil {
		return "", fmt.Errorf("create folder: %w", err)
	}
	if err := r.Load(ctx); err != nil {
		return "", err
	}
	return abs, nil
}

// DeleteNote removes the file at path and reloads.
func (r *Repository) DeleteNote(ctx context.Context, path string) error {
	if err := os.Remove(path); err != nil {
		return fmt.Errorf("delete note: %w", err)
	}
	return r.Load(ctx)
}

// DeleteFolder removes the directory at path (recursively) and reloads.
func (r *Repository) DeleteFolder(ctx context.Context, path string) error {
	if err := os.RemoveAll(path); err != nil {
		return fmt.Errorf("delete folder: %w", err)
	}
	return r.Load(ctx)
}

// MoveNote relocates the note at oldPath to newPath (both absolute),
// rewrites every cross-note wikilink that pointed at the old location,
// and reloads. A failed rename leaves the note where it was. A link
// rewrite that fails after a successful rename is logged and does not
// undo the move, so some links may still point at the old location.
func (r *Repository) MoveNote(ctx context.Context, oldPath, newPath string) error {
	if filepath.Clean(oldPath) == filepath.Clean(newPath) {
		return nil
	}
	if _, err := os.Stat(newPath); err == nil {
		return fmt.Errorf("destination already exists: %s", newPath)
	}
	if err := os.MkdirAll(filepath.Dir(newPath), 0o755); err != nil {
		return fmt.Errorf("create destination dir: %w", err)
	}

	oldTitle := strings.TrimSuffix(filepath.Base(oldPath), filepath.Ext(oldPath))
	oldWikiPath := wiki.CalculateWikiPath(oldPath, r.Root)
	newWikiPath := wiki.CalculateWikiPath(newPath, r.Root)

	if err := os.Rename(oldPath, newPath); err != nil {
		return fmt.Errorf("rename note: %w", err)
	}

	if err := r.rewriteLinksAfterMove(oldWikiPath, newWikiPath, oldTitle); err != nil {
		r.logger.Printf("notes: link rewrite after move failed: %v", err)
	}

	return r.Load(ctx)
}

// MoveFolder relocates an entire directory and rewrites every wikilink
// under it, one note at a time, matching MoveNote's semantics per file.
func (r *Repository) MoveFolder(ctx context.Context, oldPath, newPath string) error {
	oldClean, newClean := filepath.Clean(oldPath), filepath.Clean(newPath)
	if strings.HasPrefix(newClean, oldClean+string(filepath.Separator)) || newClean == oldClean {
		return fmt.Errorf("cannot move folder into itself")
	}
	if _, err := os.Stat(newPath); err == nil {
		return fmt.Errorf("destination already exists: %s", newPath)
	}

	type rewrite struct{ oldWiki, newWiki, title string }
	var rewrites []rewrite
	err := filepath.Walk(oldPath, func(p string, info os.FileInfo, err error) error {
		if err != nil || info.IsDir() || !strings.EqualFold(filepath.Ext(p), ".md") {
			return nil
		}
		rel, relErr := filepath.Rel(oldPath, p)
		if relErr != nil {
			return nil
		}
		newNotePath := filepath.Join(newPath, rel)
		rewrites = append(rewrites, rewrite{
			oldWiki: wiki.CalculateWikiPath(p, r.Root),
			newWiki: wiki.CalculateWikiPath(newNotePath, r.Root),
			title:   strings.TrimSuffix(filepath.Base(p), filepath.Ext(p)),
		})
		return nil
	})
	if err != nil {
		return fmt.Errorf("walk folder to move: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(newPath), 0o755); err != nil {
		return fmt.Errorf("create destination parent: %w", err)
	}
	if err := os.Rename(oldPath, newPath); err != nil {
		return fmt.Errorf("rename folder: %w", err)
	}

	for _, rw := range rewrites {
		if err := r.rewriteLinksAfterMove(rw.oldWiki, rw.newWiki, rw.title); err != nil {
			r.logger.Printf("notes: link rewrite after folder move failed: %v", err)
		}
	}

	return r.Load(ctx)
}

// rewriteLinksAfterMove rewrites every "[[X]]" across every Markdown
// file under Root where X matches oldWikiPath or oldTitle.
func (r *Repository) rewriteLinksAfterMove(oldWikiPath, newWikiPath, oldTitle string) error {
	var mdFiles []string
	err := filepath.Walk(r.Root, func(p string, info os.FileInfo, err error) error {
		if err != nil {
			return nil
		}
		if info.IsDir() {
			if p != r.Root && strings.HasPrefix(filepath.Base(p), ".") {
				return filepath.SkipDir
			}
			return nil
		}
		if strings.EqualFold(filepath.Ext(p), ".md") {
			mdFiles = append(mdFiles, p)
		}
		return nil
	})
	if err != nil {
		return err
	}

	for _, p := range mdFiles {
		data, err := os.ReadFile(p)
		if err != nil {
			r.logger.Printf("notes: reading %s during rewrite: %v", p, err)
			continue
		}
		original := string(data)
		rewritten := wiki.ReplaceLinksInContent(original, oldWikiPath, newWikiPath, oldTitle)
		if rewritten == original {
			continue
		}
		if err := os.WriteFile(p, []byte(rewritten), 0o644); err != nil {
			r.logger.Printf("notes: writing %s during rewrite: %v", p, err)
		}
	}
	return nil
}

// RenameNote renames the note's basename in place (no directory
// change) and rewrites links, delegating to MoveNote.
func (r *Repository) RenameNote(ctx context.Context, path, newTitle string) error {
	newPath := filepath.Join(filepath.Dir(path), newTitle+".md")
	return r.MoveNote(ctx, path, newPath)
}
