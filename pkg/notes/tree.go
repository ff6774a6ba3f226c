package notes

import (
	"path/filepath"
	"sort"
	"strings"
	"time"
)

// SortMode orders siblings within the tree.
type SortMode int

const (
	NameAsc SortMode = iota
	NameDesc
	ModifiedOldest
	ModifiedNewest
	CreatedOldest
	CreatedNewest
)

// NodeKind distinguishes a Folder from a Note leaf.
type NodeKind int

const (
	KindFolder NodeKind = iota
	KindNote
)

// Node is one entry in the folder tree.
type Node struct {
	Kind     NodeKind
	Path     string // folder: absolute dir path; note: unused (see NoteIndex)
	Name     string
	Expanded bool
	Children []*Node
	NoteIndex int
}

// SetSortMode changes how siblings are ordered and rebuilds the tree.
func (r *Repository) SetSortMode(mode SortMode) {
	r.sortMode = mode
	r.Sort()
	r.rebuildTree()
}

// SetFoldersFirst toggles whether folders are grouped ahead of notes at
// each tree level.
func (r *Repository) SetFoldersFirst(first bool) {
	r.foldersFirst = first
	r.rebuildTree()
}

// Sort orders r.Notes in place by the current SortMode. Stable so ties
// preserve the previous relative order (matching the spec's "sorting is
// recursive and stable").
func (r *Repository) Sort() {
	less := r.sortLess()
	sort.SliceStable(r.Notes, less)
}

func (r *Repository) sortLess() func(i, j int) bool {
	switch r.sortMode {
	case NameDesc:
		return func(i, j int) bool { return strings.ToLower(r.Notes[i].Title) > strings.ToLower(r.Notes[j].Title) }
	case ModifiedOldest:
		return func(i, j int) bool { return r.Notes[i].Mtime.Before(r.Notes[j].Mtime) }
	case ModifiedNewest:
		return func(i, j int) bool { return r.Notes[i].Mtime.After(r.Notes[j].Mtime) }
	case CreatedOldest:
		return func(i, j int) bool { return r.Notes[i].Ctime.Before(r.Notes[j].Ctime) }
	case CreatedNewest:
		return func(i, j int) bool { return r.Notes[i].Ctime.After(r.Notes[j].Ctime) }
	default:
		return func(i, j int) bool { return strings.ToLower(r.Notes[i].Title) < strings.ToLower(r.Notes[j].Title) }
	}
}

// rebuildTree regenerates the folder tree from r.Notes, migrating
// existing expansion state by folder path.
func (r *Repository) rebuildTree() {
	root := &Node{Kind: KindFolder, Path: r.Root, Expanded: true}
	folders := map[string]*Node{r.Root: root}

	var getOrCreate func(dir string) *Node
	getOrCreate = func(dir string) *Node {
		if n, ok := folders[dir]; ok {
			return n
		}
		parent := getOrCreate(filepath.Dir(dir))
		node := &Node{Kind: KindFolder, Path: dir, Name: filepath.Base(dir), Expanded: r.expansionFor(dir)}
		folders[dir] = node
		parent.Children = append(parent.Children, node)
		return node
	}

	for idx, n := range r.Notes {
		dir := filepath.Dir(n.Path)
		if strings.HasPrefix(filepath.Base(dir), ".") {
			continue
		}
		parent := getOrCreate(dir)
		parent.Children = append(parent.Children, &Node{Kind: KindNote, Name: n.Title, NoteIndex: idx})
	}

	if !r.showEmptyFolders {
		pruneEmptyFolders(root)
	}
	sortChildren(root, r.foldersFirst, r.sortMode, r.Notes)

	r.tree = root
	r.migrateExpansion(folders)
}

func (r *Repository) expansionFor(dir string) bool {
	if v, ok := r.expansion[dir]; ok {
		return v
	}
	return true
}

func (r *Repository) migrateExpansion(folders map[string]*Node) {
	fresh := map[string]bool{}
	for path, node := range folders {
		fresh[path] = node.Expanded
	}
	r.expansion = fresh
}

// pruneEmptyFolders removes folders that contain no Markdown file
// transitively, unless showEmptyFolders is set (handled by the caller
// skipping this pass).
func pruneEmptyFolders(node *Node) bool {
	var kept []*Node
	hasContent := false
	for _, child := range node.Children {
		if child.Kind == KindNote {
			kept = append(kept, child)
			hasContent = true
			continue
		}
		if pruneEmptyFolders(child) {
			kept = append(kept, child)
			hasContent = true
		}
	}
	node.Children = kept
	return hasContent
}

func sortChildren(node *Node, foldersFirst bool, mode SortMode, notes []Note) {
	sort.SliceStable(node.Children, func(i, j int) bool {
		a, b := node.Children[i], node.Children[j]
		if foldersFirst && a.Kind != b.Kind {
			return a.Kind == KindFolder
		}
		return siblingLess(a, b, mode, notes)
	})
	for _, child := range node.Children {
		if child.Kind == KindFolder {
			sortChildren(child, foldersFirst, mode, notes)
		}
	}
}

func siblingLess(a, b *Node, mode SortMode, notes []Note) bool {
	nameOf := func(n *Node) string {
		if n.Kind == KindFolder {
			return n.Name
		}
		return notes[n.NoteIndex].Title
	}
	switch mode {
	case NameDesc:
		return strings.ToLower(nameOf(a)) > strings.ToLower(nameOf(b))
	case ModifiedOldest, ModifiedNewest, CreatedOldest, CreatedNewest:
		if a.Kind == KindNote && b.Kind == KindNote {
			ta, tb := timeOf(notes[a.NoteIndex], mode), timeOf(notes[b.NoteIndex], mode)
			if mode == ModifiedOldest || mode == CreatedOldest {
				return ta.Before(tb)
			}
			return ta.After(tb)
		}
		return strings.ToLower(nameOf(a)) < strings.ToLower(nameOf(b))
	default:
		return strings.ToLower(nameOf(a)) < strings.ToLower(nameOf(b))
	}
}

func timeOf(n Note, mode SortMode) time.Time {
	if mode == CreatedOldest || mode == CreatedNewest {
		return n.Ctime
	}
	return n.Mtime
}

// Tree returns the current folder tree's root.
func (r *Repository) Tree() *Node { return r.tree }

// ToggleFolder flips a folder's expansion state by path.
func (r *Repository) ToggleFolder(path string) {
	if node := findFolder(r.tree, path); node != nil {
		node.Expanded = !node.Expanded
		r.expansion[path] = node.Expanded
	}
}

func findFolder(node *Node, path string) *Node {
	if node == nil {
		return nil
	}
	if node.Kind == KindFolder && node.Path == path {
		return node
	}
	for _, c := range node.Children {
		if found := findFolder(c, path); found != nil {
			return found
		}
	}
	return nil
}

// FolderPaths returns every folder's slash-separated path relative to
// Root (excluding Root itself), for wiki-autocomplete's folder
// suggestions.
func (r *Repository) FolderPaths() []string {
	if r.tree == nil {
		return nil
	}
	var out []string
	var walk func(n *Node)
	walk = func(n *Node) {
		for _, c := range n.Children {
			if c.Kind != KindFolder {
				continue
			}
			if rel, err := filepath.Rel(r.Root, c.Path); err == nil {
				out = append(out, filepath.ToSlash(rel))
			}
			walk(c)
		}
	}
	walk(r.tree)
	return out
}

// FlatEntry is one row of the sidebar's flattened tree view.
type FlatEntry struct {
	Depth     int
	Node      *Node
}

// FlatList regenerates the sidebar's flat row list, skipping children
// of collapsed folders.
func (r *Repository) FlatList() []FlatEntry {
	var out []FlatEntry
	if r.tree == nil {
		return out
	}
	var walk func(n *Node, depth int)
	walk = func(n *Node, depth int) {
		for _, c := range n.Children {
			out = append(out, FlatEntry{Depth: depth, Node: c})
			if c.Kind == KindFolder && c.Expanded {
				walk(c, depth+1)
			}
		}
	}
	walk(r.tree, 0)
	return out
}
