package vfs

import (
	"fmt"
	"strings"
)

// Resolved is the outcome of a successful path walk.
type Resolved struct {
	Node *Node
	// Components are the path components consumed, in order, including "."
	// and "..".
	Components []string
}

// Resolve walks p starting at cursor, or at the root when p is absolute or
// cursor is nil. Empty components are ignored, "." stays put and ".." moves
// to the parent (the root is its own parent).
func (t *Tree) Resolve(cursor *Node, p string) (Resolved, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.resolveLocked(cursor, p)
}

func (t *Tree) resolveLocked(cursor *Node, p string) (Resolved, error) {
	cur := t.startLocked(cursor, p)
	if !t.attachedLocked(cur) {
		return Resolved{}, fmt.Errorf("cursor detached: %w", ErrNotFound)
	}

	components := splitPath(p)
	consumed := make([]string, 0, len(components))
	for _, name := range components {
		switch name {
		case ".":
		case "..":
			if cur.parent != nil {
				cur = cur.parent
			}
		default:
			child, ok := cur.children[name]
			if !cur.IsDir() || !ok {
				return Resolved{}, &ResolveError{
					Path:      p,
					Component: name,
					Consumed:  t.pathLocked(cur),
				}
			}
			cur = child
		}
		consumed = append(consumed, name)
	}
	return Resolved{Node: cur, Components: consumed}, nil
}

// ResolveParent splits p into its parent directory and final name, resolving
// the parent. Trailing separators are ignored. The final name must be a
// valid child name.
func (t *Tree) ResolveParent(cursor *Node, p string) (*Node, string, error) {
	trimmed := strings.TrimRight(p, Separator)
	dir, name := "", trimmed
	if i := strings.LastIndex(trimmed, Separator); i >= 0 {
		dir, name = trimmed[:i+1], trimmed[i+1:]
	}
	if !ValidName(name) {
		return nil, "", ErrInvalidName
	}

	t.mu.RLock()
	defer t.mu.RUnlock()

	res, err := t.resolveLocked(cursor, dir)
	if err != nil {
		return nil, "", err
	}
	if !res.Node.IsDir() {
		return nil, "", ErrNotDir
	}
	return res.Node, name, nil
}
