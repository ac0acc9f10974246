package vfs

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildTree(t *testing.T) (*Tree, *Node) {
	t.Helper()
	tree := NewTree()
	home, err := tree.MkdirAll(tree.Root(), "/home/user")
	require.NoError(t, err)
	_, err = tree.MkdirAll(tree.Root(), "/etc")
	require.NoError(t, err)
	_, err = tree.CreateChild(home, "notes.txt", KindFile)
	require.NoError(t, err)
	return tree, home
}

func TestResolve(t *testing.T) {
	tree, home := buildTree(t)

	tests := []struct {
		name   string
		cursor *Node
		path   string
		want   string
	}{
		{"empty is cursor", home, "", "/home/user"},
		{"dot", home, ".", "/home/user"},
		{"parent", home, "..", "/home"},
		{"root parent is root", tree.Root(), "../../..", "/"},
		{"absolute", home, "/etc", "/etc"},
		{"repeated separators", home, "//etc///", "/etc"},
		{"relative file", home, "notes.txt", "/home/user/notes.txt"},
		{"mixed", home, "./../user/./notes.txt", "/home/user/notes.txt"},
		{"nil cursor starts at root", nil, "home", "/home"},
		{"root", home, "/", "/"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := tree.Resolve(tt.cursor, tt.path)
			require.NoError(t, err)
			assert.Equal(t, tt.want, tree.PathOf(res.Node))

			// The canonical path leads back to the same node.
			again, err := tree.Resolve(tree.Root(), tree.PathOf(res.Node))
			require.NoError(t, err)
			require.Same(t, res.Node, again.Node)
		})
	}
}

func TestResolveComponents(t *testing.T) {
	tree, home := buildTree(t)

	res, err := tree.Resolve(home, "./..//user")
	require.NoError(t, err)
	assert.Equal(t, []string{".", "..", "user"}, res.Components)
	assert.Same(t, home, res.Node)
}

func TestResolveNotFound(t *testing.T) {
	tree, home := buildTree(t)

	tests := []struct {
		name      string
		path      string
		component string
		consumed  string
	}{
		{"missing child", "missing", "missing", "/home/user"},
		{"missing deep", "/etc/ssh/config", "ssh", "/etc"},
		{"through file", "notes.txt/x", "x", "/home/user/notes.txt"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tree.Resolve(home, tt.path)
			require.ErrorIs(t, err, ErrNotFound)

			var rerr *ResolveError
			require.True(t, errors.As(err, &rerr))
			assert.Equal(t, tt.component, rerr.Component)
			assert.Equal(t, tt.consumed, rerr.Consumed)
			assert.Equal(t, tt.path, rerr.Path)
		})
	}
}

func TestResolveIsPure(t *testing.T) {
	tree, home := buildTree(t)
	before := tree.Len()

	_, _ = tree.Resolve(home, "a/b/c")
	_, _ = tree.Resolve(home, "../..")

	assert.Equal(t, before, tree.Len())
}

func TestResolveDetachedCursor(t *testing.T) {
	tree, home := buildTree(t)
	homeDir, err := tree.Resolve(nil, "/home")
	require.NoError(t, err)
	require.NoError(t, tree.Remove(homeDir.Node, true))

	_, err = tree.Resolve(home, ".")
	assert.ErrorIs(t, err, ErrNotFound)

	// Absolute paths still work from a detached cursor.
	res, err := tree.Resolve(home, "/etc")
	require.NoError(t, err)
	assert.Equal(t, "/etc", tree.PathOf(res.Node))
}

func TestResolveParent(t *testing.T) {
	tree, home := buildTree(t)

	parent, name, err := tree.ResolveParent(home, "docs")
	require.NoError(t, err)
	assert.Same(t, home, parent)
	assert.Equal(t, "docs", name)

	parent, name, err = tree.ResolveParent(home, "/etc/hosts/")
	require.NoError(t, err)
	assert.Equal(t, "/etc", tree.PathOf(parent))
	assert.Equal(t, "hosts", name)

	_, _, err = tree.ResolveParent(home, "/")
	assert.ErrorIs(t, err, ErrInvalidName)

	_, _, err = tree.ResolveParent(home, "..")
	assert.ErrorIs(t, err, ErrInvalidName)

	_, _, err = tree.ResolveParent(home, "nope/x")
	assert.ErrorIs(t, err, ErrNotFound)

	_, _, err = tree.ResolveParent(home, "notes.txt/x")
	assert.ErrorIs(t, err, ErrNotDir)
}
