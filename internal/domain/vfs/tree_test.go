package vfs

import (
	"io/fs"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixedClock() func() time.Time {
	ts := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	return func() time.Time { return ts }
}

func TestNewTree(t *testing.T) {
	tree := NewTree()

	root := tree.Root()
	require.NotNil(t, root)
	assert.True(t, root.IsDir())
	assert.Equal(t, "", root.Name())
	assert.Equal(t, 1, tree.Len())
	assert.Equal(t, "/", tree.PathOf(root))

	entries, err := tree.List(root)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestCreateChild(t *testing.T) {
	tree := NewTree()
	root := tree.Root()

	dir, err := tree.CreateChild(root, "docs", KindDir)
	require.NoError(t, err)
	assert.True(t, dir.IsDir())

	file, err := tree.CreateChild(dir, "a.txt", KindFile)
	require.NoError(t, err)
	assert.Equal(t, KindFile, file.Kind())
	assert.Equal(t, "/docs/a.txt", tree.PathOf(file))
	assert.Equal(t, 3, tree.Len())

	tests := []struct {
		name   string
		parent *Node
		child  string
		want   error
	}{
		{"duplicate", root, "docs", ErrExist},
		{"file parent", file, "x", ErrNotDir},
		{"empty name", root, "", ErrInvalidName},
		{"dot", root, ".", ErrInvalidName},
		{"dotdot", root, "..", ErrInvalidName},
		{"separator", root, "a/b", ErrInvalidName},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tree.CreateChild(tt.parent, tt.child, KindFile)
			assert.ErrorIs(t, err, tt.want)
			assert.Equal(t, 3, tree.Len())
		})
	}
}

func TestCreateChildKeepsExistingSibling(t *testing.T) {
	tree := NewTree()
	file, err := tree.CreateChild(tree.Root(), "notes", KindFile)
	require.NoError(t, err)
	require.NoError(t, tree.Write(file, []byte("keep")))

	_, err = tree.CreateChild(tree.Root(), "notes", KindDir)
	require.ErrorIs(t, err, ErrExist)

	data, err := tree.Read(file)
	require.NoError(t, err)
	assert.Equal(t, "keep", string(data))
}

func TestListSortedWithSizes(t *testing.T) {
	tree := NewTree(WithClock(fixedClock()))
	root := tree.Root()

	for _, name := range []string{"zeta", "alpha", "mid"} {
		_, err := tree.CreateChild(root, name, KindDir)
		require.NoError(t, err)
	}
	f, err := tree.CreateChild(root, "file.txt", KindFile)
	require.NoError(t, err)
	require.NoError(t, tree.Write(f, []byte("hello")))

	alpha, err := tree.Resolve(root, "alpha")
	require.NoError(t, err)
	_, err = tree.CreateChild(alpha.Node, "inner", KindFile)
	require.NoError(t, err)

	entries, err := tree.List(root)
	require.NoError(t, err)

	names := make([]string, len(entries))
	for i, e := range entries {
		names[i] = e.Name
	}
	assert.Equal(t, []string{"alpha", "file.txt", "mid", "zeta"}, names)

	assert.Equal(t, int64(1), entries[0].Size)
	assert.Equal(t, fs.ModeDir|DefaultDirMode, entries[0].Mode)
	assert.Equal(t, int64(5), entries[1].Size)
	assert.Equal(t, DefaultFileMode, entries[1].Mode)
	assert.Equal(t, fixedClock()(), entries[1].ModTime)

	_, err = tree.List(f)
	assert.ErrorIs(t, err, ErrNotDir)
}

func TestReadWriteCopies(t *testing.T) {
	tree := NewTree()
	f, err := tree.CreateChild(tree.Root(), "f", KindFile)
	require.NoError(t, err)

	buf := []byte("abc")
	require.NoError(t, tree.Write(f, buf))
	buf[0] = 'X'

	got, err := tree.Read(f)
	require.NoError(t, err)
	assert.Equal(t, "abc", string(got))

	got[1] = 'Y'
	again, err := tree.Read(f)
	require.NoError(t, err)
	assert.Equal(t, "abc", string(again))

	_, err = tree.Read(tree.Root())
	assert.ErrorIs(t, err, ErrIsDir)
	assert.ErrorIs(t, tree.Write(tree.Root(), nil), ErrIsDir)
}

func TestRemove(t *testing.T) {
	tree := NewTree()
	root := tree.Root()

	dir, err := tree.MkdirAll(root, "/a/b/c")
	require.NoError(t, err)
	_, err = tree.CreateChild(dir, "leaf", KindFile)
	require.NoError(t, err)
	require.Equal(t, 5, tree.Len())

	a, err := tree.Resolve(root, "/a")
	require.NoError(t, err)

	assert.ErrorIs(t, tree.Remove(root, true), ErrIsRoot)
	assert.ErrorIs(t, tree.Remove(a.Node, false), ErrNotEmpty)
	assert.Equal(t, 5, tree.Len())

	require.NoError(t, tree.Remove(a.Node, true))
	assert.Equal(t, 1, tree.Len())
	assert.False(t, tree.Attached(a.Node))
	assert.False(t, tree.Attached(dir))

	_, err = tree.Resolve(root, "/a")
	assert.ErrorIs(t, err, ErrNotFound)

	// A second removal of a detached node is an error.
	assert.ErrorIs(t, tree.Remove(a.Node, true), ErrNotFound)

	_, err = tree.CreateChild(dir, "late", KindFile)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRemoveEmptyDirWithoutRecursive(t *testing.T) {
	tree := NewTree()
	dir, err := tree.CreateChild(tree.Root(), "empty", KindDir)
	require.NoError(t, err)

	require.NoError(t, tree.Remove(dir, false))
	assert.Equal(t, 1, tree.Len())
}

func TestMkdirAll(t *testing.T) {
	tree := NewTree()
	root := tree.Root()

	n, err := tree.MkdirAll(root, "x/y/z")
	require.NoError(t, err)
	assert.Equal(t, "/x/y/z", tree.PathOf(n))

	// Existing directories are reused.
	again, err := tree.MkdirAll(root, "/x/y/z/")
	require.NoError(t, err)
	assert.Same(t, n, again)
	assert.Equal(t, 4, tree.Len())

	n, err = tree.MkdirAll(n, "../../w/./v/..")
	require.NoError(t, err)
	assert.Equal(t, "/x/w", tree.PathOf(n))
}

func TestMkdirAllFileInTheWay(t *testing.T) {
	tree := NewTree()
	root := tree.Root()
	_, err := tree.CreateChild(root, "f", KindFile)
	require.NoError(t, err)

	_, err = tree.MkdirAll(root, "new/../f/sub")
	assert.ErrorIs(t, err, ErrNotDir)

	// Nothing was created on failure.
	assert.Equal(t, 2, tree.Len())
	_, err = tree.Resolve(root, "new")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestChmodAndStat(t *testing.T) {
	tree := NewTree(WithClock(fixedClock()))
	dir, err := tree.MkdirAll(tree.Root(), "/srv/data")
	require.NoError(t, err)

	require.NoError(t, tree.Chmod(dir, 0o700|fs.ModeSetuid))

	info, err := tree.Stat(dir)
	require.NoError(t, err)
	assert.Equal(t, "/srv/data", info.Path)
	assert.Equal(t, "data", info.Name)
	assert.Equal(t, fs.ModeDir|0o700, info.Mode)
	assert.Equal(t, KindDir, info.Kind)
}

func TestWalk(t *testing.T) {
	tree := NewTree()
	root := tree.Root()
	_, err := tree.MkdirAll(root, "/b/inner")
	require.NoError(t, err)
	_, err = tree.MkdirAll(root, "/a")
	require.NoError(t, err)
	a, err := tree.Resolve(root, "/a")
	require.NoError(t, err)
	_, err = tree.CreateChild(a.Node, "file", KindFile)
	require.NoError(t, err)

	var visited []string
	var depths []int
	err = tree.Walk(root, func(p string, e Entry, depth int) error {
		visited = append(visited, p)
		depths = append(depths, depth)
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"/", "/a", "/a/file", "/b", "/b/inner"}, visited)
	assert.Equal(t, []int{0, 1, 2, 1, 2}, depths)

	visited = nil
	err = tree.Walk(root, func(p string, e Entry, depth int) error {
		visited = append(visited, p)
		if p == "/a" {
			return fs.SkipDir
		}
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"/", "/a", "/b", "/b/inner"}, visited)
}

func TestWalkCallbackMayMutate(t *testing.T) {
	tree := NewTree()
	root := tree.Root()
	_, err := tree.MkdirAll(root, "/tmp/cache")
	require.NoError(t, err)

	err = tree.Walk(root, func(p string, e Entry, depth int) error {
		if p == "/tmp/cache" {
			res, err := tree.Resolve(root, p)
			if err != nil {
				return err
			}
			return tree.Remove(res.Node, true)
		}
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 2, tree.Len())
}

func TestValidName(t *testing.T) {
	assert.True(t, ValidName("a"))
	assert.True(t, ValidName(".hidden"))
	assert.True(t, ValidName("..."))
	assert.False(t, ValidName(""))
	assert.False(t, ValidName("."))
	assert.False(t, ValidName(".."))
	assert.False(t, ValidName("a/b"))
}
