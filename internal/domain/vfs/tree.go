package vfs

import (
	"errors"
	"io/fs"
	"sort"
	"strings"
	"sync"
	"time"
)

// Separator is the path separator used inside the tree.
const Separator = "/"

// Tree owns every node of the virtual filesystem.
type Tree struct {
	mu    sync.RWMutex
	root  *Node
	count int
	now   func() time.Time
}

// Option configures a Tree.
type Option func(*Tree)

// WithClock overrides the time source used for modification times.
func WithClock(now func() time.Time) Option {
	return func(t *Tree) {
		t.now = now
	}
}

// NewTree creates a tree holding only the root directory.
func NewTree(opts ...Option) *Tree {
	t := &Tree{now: time.Now}
	for _, opt := range opts {
		opt(t)
	}
	t.root = newNode("", KindDir, t.now())
	t.count = 1
	return t
}

// Root returns the root directory.
func (t *Tree) Root() *Node {
	return t.root
}

// Len returns the number of nodes in the tree, root included.
func (t *Tree) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.count
}

// Attached reports whether n is still reachable from the root.
func (t *Tree) Attached(n *Node) bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.attachedLocked(n)
}

func (t *Tree) attachedLocked(n *Node) bool {
	for ; n != nil; n = n.parent {
		if n == t.root {
			return true
		}
	}
	return false
}

// CreateChild adds a new node named name below parent. It never replaces an
// existing sibling.
func (t *Tree) CreateChild(parent *Node, name string, kind Kind) (*Node, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.createChildLocked(parent, name, kind)
}

func (t *Tree) createChildLocked(parent *Node, name string, kind Kind) (*Node, error) {
	if !ValidName(name) {
		return nil, ErrInvalidName
	}
	if !t.attachedLocked(parent) {
		return nil, ErrNotFound
	}
	if !parent.IsDir() {
		return nil, ErrNotDir
	}
	if _, exists := parent.children[name]; exists {
		return nil, ErrExist
	}

	now := t.now()
	child := newNode(name, kind, now)
	child.parent = parent
	parent.children[name] = child
	parent.modTime = now
	t.count++
	return child, nil
}

// MkdirAll creates the directory p and any missing parents, starting from
// cursor for relative paths. Existing directories along the way are reused.
// Nothing is created when an existing component is a file.
func (t *Tree) MkdirAll(cursor *Node, p string) (*Node, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	cur := t.startLocked(cursor, p)
	if !t.attachedLocked(cur) {
		return nil, ErrNotFound
	}

	components := splitPath(p)
	if err := checkMkdirAll(cur, components); err != nil {
		return nil, err
	}

	for _, name := range components {
		switch name {
		case ".":
			continue
		case "..":
			if cur.parent != nil {
				cur = cur.parent
			}
			continue
		}
		if child, ok := cur.children[name]; ok {
			if !child.IsDir() {
				return nil, ErrNotDir
			}
			cur = child
			continue
		}
		created, err := t.createChildLocked(cur, name, KindDir)
		if err != nil {
			return nil, err
		}
		cur = created
	}
	return cur, nil
}

// checkMkdirAll replays components without mutating anything. pending counts
// the directories that would have been created below cur.
func checkMkdirAll(cur *Node, components []string) error {
	pending := 0
	for _, name := range components {
		switch {
		case name == ".":
		case name == ".." && pending > 0:
			pending--
		case name == "..":
			if cur.parent != nil {
				cur = cur.parent
			}
		case pending > 0:
			pending++
		default:
			child, ok := cur.children[name]
			switch {
			case !ok:
				pending++
			case !child.IsDir():
				return ErrNotDir
			default:
				cur = child
			}
		}
	}
	return nil
}

// Remove detaches n from its parent. Directories with children require
// recursive. The tree is unchanged when an error is returned.
func (t *Tree) Remove(n *Node, recursive bool) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if n == t.root {
		return ErrIsRoot
	}
	if !t.attachedLocked(n) {
		return ErrNotFound
	}
	if n.IsDir() && len(n.children) > 0 && !recursive {
		return ErrNotEmpty
	}

	parent := n.parent
	delete(parent.children, n.name)
	parent.modTime = t.now()
	t.count -= detach(n)
	return nil
}

// detach clears parent links below and including n and returns how many
// nodes were removed.
func detach(n *Node) int {
	removed := 1
	for _, child := range n.children {
		removed += detach(child)
	}
	n.parent = nil
	if n.children != nil {
		n.children = make(map[string]*Node)
	}
	return removed
}

// List returns the children of dir sorted by name.
func (t *Tree) List(dir *Node) ([]Entry, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	if !t.attachedLocked(dir) {
		return nil, ErrNotFound
	}
	if !dir.IsDir() {
		return nil, ErrNotDir
	}
	return sortedEntries(dir), nil
}

func sortedEntries(dir *Node) []Entry {
	entries := make([]Entry, 0, len(dir.children))
	for _, child := range dir.children {
		entries = append(entries, child.entry())
	}
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Name < entries[j].Name
	})
	return entries
}

// Read returns a copy of a file's content.
func (t *Tree) Read(f *Node) ([]byte, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	if !t.attachedLocked(f) {
		return nil, ErrNotFound
	}
	if f.IsDir() {
		return nil, ErrIsDir
	}
	out := make([]byte, len(f.content))
	copy(out, f.content)
	return out, nil
}

// Write replaces a file's content with a copy of data.
func (t *Tree) Write(f *Node, data []byte) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if !t.attachedLocked(f) {
		return ErrNotFound
	}
	if f.IsDir() {
		return ErrIsDir
	}
	f.content = append([]byte(nil), data...)
	f.modTime = t.now()
	return nil
}

// Touch refreshes the modification time of n.
func (t *Tree) Touch(n *Node) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if !t.attachedLocked(n) {
		return ErrNotFound
	}
	n.modTime = t.now()
	return nil
}

// Chmod replaces the permission bits of n.
func (t *Tree) Chmod(n *Node, perm fs.FileMode) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if !t.attachedLocked(n) {
		return ErrNotFound
	}
	n.mode = perm & fs.ModePerm
	return nil
}

// Stat describes n.
func (t *Tree) Stat(n *Node) (Info, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	if !t.attachedLocked(n) {
		return Info{}, ErrNotFound
	}
	return Info{Entry: n.entry(), Path: t.pathLocked(n)}, nil
}

// PathOf returns the canonical absolute path of n.
func (t *Tree) PathOf(n *Node) string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.pathLocked(n)
}

func (t *Tree) pathLocked(n *Node) string {
	var names []string
	for ; n != nil && n != t.root; n = n.parent {
		names = append(names, n.name)
	}
	if len(names) == 0 {
		return Separator
	}
	for i, j := 0, len(names)-1; i < j; i, j = i+1, j-1 {
		names[i], names[j] = names[j], names[i]
	}
	return Separator + strings.Join(names, Separator)
}

// WalkFunc is called for every node visited by Walk. depth is 0 for the
// starting node. Returning fs.SkipDir from a directory skips its contents.
type WalkFunc func(p string, e Entry, depth int) error

type walkItem struct {
	path  string
	entry Entry
	depth int
}

// Walk visits n and its descendants depth-first in name order. The visit
// works on a snapshot taken under the read lock, so fn may call back into the
// tree.
func (t *Tree) Walk(n *Node, fn WalkFunc) error {
	t.mu.RLock()
	if !t.attachedLocked(n) {
		t.mu.RUnlock()
		return ErrNotFound
	}
	var items []walkItem
	var collect func(node *Node, p string, depth int)
	collect = func(node *Node, p string, depth int) {
		items = append(items, walkItem{path: p, entry: node.entry(), depth: depth})
		if !node.IsDir() {
			return
		}
		for _, e := range sortedEntries(node) {
			collect(node.children[e.Name], joinPath(p, e.Name), depth+1)
		}
	}
	collect(n, t.pathLocked(n), 0)
	t.mu.RUnlock()

	skipPrefix := ""
	for _, item := range items {
		if skipPrefix != "" && strings.HasPrefix(item.path, skipPrefix) {
			continue
		}
		skipPrefix = ""
		if err := fn(item.path, item.entry, item.depth); err != nil {
			if errors.Is(err, fs.SkipDir) && item.entry.Kind == KindDir {
				skipPrefix = joinPath(item.path, "")
				continue
			}
			return err
		}
	}
	return nil
}

func joinPath(dir, name string) string {
	if strings.HasSuffix(dir, Separator) {
		return dir + name
	}
	return dir + Separator + name
}

func splitPath(p string) []string {
	parts := strings.Split(p, Separator)
	out := parts[:0]
	for _, part := range parts {
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}

func (t *Tree) startLocked(cursor *Node, p string) *Node {
	if strings.HasPrefix(p, Separator) || cursor == nil {
		return t.root
	}
	return cursor
}

// Contains reports whether n is ancestor itself or lies below it.
func (t *Tree) Contains(ancestor, n *Node) bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	for ; n != nil; n = n.parent {
		if n == ancestor {
			return true
		}
	}
	return false
}
