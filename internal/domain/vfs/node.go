package vfs

import (
	"io/fs"
	"strings"
	"time"
)

// Kind distinguishes directories from regular files
type Kind int

const (
	KindFile Kind = iota
	KindDir
)

// String returns the string representation of the kind
func (k Kind) String() string {
	switch k {
	case KindDir:
		return "directory"
	case KindFile:
		return "file"
	default:
		return "unknown"
	}
}

const (
	DefaultDirMode  fs.FileMode = 0o755
	DefaultFileMode fs.FileMode = 0o644
)

// Node is a single entry of the tree. All mutable fields are guarded by the
// owning Tree's lock; name and kind never change after creation.
type Node struct {
	name     string
	kind     Kind
	mode     fs.FileMode
	modTime  time.Time
	content  []byte
	children map[string]*Node
	parent   *Node
}

func newNode(name string, kind Kind, now time.Time) *Node {
	n := &Node{
		name:    name,
		kind:    kind,
		modTime: now,
	}
	if kind == KindDir {
		n.mode = DefaultDirMode
		n.children = make(map[string]*Node)
	} else {
		n.mode = DefaultFileMode
	}
	return n
}

// Name returns the node's name; the root's name is empty.
func (n *Node) Name() string { return n.name }

// Kind returns whether the node is a file or a directory.
func (n *Node) Kind() Kind { return n.kind }

// IsDir reports whether the node is a directory.
func (n *Node) IsDir() bool { return n.kind == KindDir }

func (n *Node) size() int64 {
	if n.kind == KindDir {
		return int64(len(n.children))
	}
	return int64(len(n.content))
}

func (n *Node) fileMode() fs.FileMode {
	if n.kind == KindDir {
		return fs.ModeDir | n.mode
	}
	return n.mode
}

// Entry describes one child of a listed directory.
type Entry struct {
	Name    string
	Kind    Kind
	Size    int64
	Mode    fs.FileMode
	ModTime time.Time
}

// Info describes a single node.
type Info struct {
	Entry
	Path string
}

func (n *Node) entry() Entry {
	return Entry{
		Name:    n.name,
		Kind:    n.kind,
		Size:    n.size(),
		Mode:    n.fileMode(),
		ModTime: n.modTime,
	}
}

// ValidName reports whether name can be used for a child node.
func ValidName(name string) bool {
	return name != "" && name != "." && name != ".." && !strings.Contains(name, Separator)
}
