package notes

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/fsnotify/fsnotify"
)

// ChangedEvent signals that a Markdown file under Root was created,
// written, renamed, or removed, or that any other path there was
// created. Changes made by this process are reported as well as those
// from outside (an external editor, sync client, etc).
type ChangedEvent struct {
	Path string
	Op   fsnotify.Op
}

// Watcher wraps fsnotify to watch every directory under Root for
// changes to .md files, feeding ChangedEvents the orchestrator uses to
// invalidate the search index's mtime cache.
type Watcher struct {
	fs     *fsnotify.Watcher
	Events chan ChangedEvent
}

// Watch starts watching root and every existing subdirectory
// (dot-directories excluded), non-recursively per fsnotify's model —
// new subdirectories are picked up via their own Create event.
func Watch(root string) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	w := &Watcher{fs: fsw, Events: make(chan ChangedEvent, 64)}

	if err := w.addTree(root); err != nil {
		fsw.Close()
		return nil, err
	}

	go w.run()
	return w, nil
}

func (w *Watcher) addTree(root string) error {
	return filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return nil
		}
		if !info.IsDir() {
			return nil
		}
		if path != root && strings.HasPrefix(filepath.Base(path), ".") {
			return filepath.SkipDir
		}
		return w.fs.Add(path)
	})
}

func (w *Watcher) run() {
	for {
		select {
		case event, ok := <-w.fs.Events:
			if !ok {
				close(w.Events)
				return
			}
			if !strings.EqualFold(filepath.Ext(event.Name), ".md") && event.Op&fsnotify.Create == 0 {
				continue
			}
			select {
			case w.Events <- ChangedEvent{Path: event.Name, Op: event.Op}:
			default:
			}
			if event.Op&fsnotify.Create != 0 {
				w.fs.Add(event.Name)
			}
		case _, ok := <-w.fs.Errors:
			if !ok {
				return
			}
		}
	}
}

// Close stops watching and releases the underlying inotify/kqueue handle.
func (w *Watcher) Close() error {
	return w.fs.Close()
}
