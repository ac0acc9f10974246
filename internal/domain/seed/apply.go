package seed

import (
	"fmt"
	"io/fs"
	"path"
	"strconv"

	"github.com/GriffinCanCode/myvfs/internal/domain/vfs"
	"github.com/GriffinCanCode/myvfs/internal/shared/paths"
)

// Stats counts what a seeding step created.
type Stats struct {
	Dirs    int `json:"dirs"`
	Files   int `json:"files"`
	Skipped int `json:"skipped"`
}

func (s *Stats) add(o Stats) {
	s.Dirs += o.Dirs
	s.Files += o.Files
	s.Skipped += o.Skipped
}

// Apply creates doc's entries below target, creating target itself if
// needed. Existing directories are merged; an existing file is an error.
// Entries applied before an error stay in the tree.
func Apply(tree *vfs.Tree, target string, doc *Document) (Stats, error) {
	var stats Stats
	dir, err := tree.MkdirAll(tree.Root(), target)
	if err != nil {
		return stats, &vfs.PathError{Op: "seed", Path: target, Err: err}
	}
	for _, e := range doc.Entries {
		if err := applyEntry(tree, dir, tree.PathOf(dir), e, &stats); err != nil {
			return stats, err
		}
	}
	return stats, nil
}

func applyEntry(tree *vfs.Tree, parent *vfs.Node, parentPath string, e Entry, stats *Stats) error {
	p := path.Join(parentPath, e.Name)

	mode, err := parseMode(e.Mode)
	if err != nil {
		return &vfs.PathError{Op: "seed", Path: p, Err: err}
	}

	switch e.Kind() {
	case TypeDir:
		node, err := tree.CreateChild(parent, e.Name, vfs.KindDir)
		if err != nil {
			node, err = existingDir(tree, parent, e.Name, err)
		} else {
			stats.Dirs++
		}
		if err != nil {
			return &vfs.PathError{Op: "seed", Path: p, Err: err}
		}
		if mode != 0 {
			if err := tree.Chmod(node, mode); err != nil {
				return &vfs.PathError{Op: "seed", Path: p, Err: err}
			}
		}
		for _, child := range e.Children {
			if err := applyEntry(tree, node, p, child, stats); err != nil {
				return err
			}
		}
	case TypeFile:
		if len(e.Children) > 0 {
			return &vfs.PathError{Op: "seed", Path: p, Err: fmt.Errorf("file entry has children")}
		}
		node, err := tree.CreateChild(parent, e.Name, vfs.KindFile)
		if err != nil {
			return &vfs.PathError{Op: "seed", Path: p, Err: err}
		}
		if err := tree.Write(node, []byte(e.Content)); err != nil {
			return &vfs.PathError{Op: "seed", Path: p, Err: err}
		}
		if mode != 0 {
			if err := tree.Chmod(node, mode); err != nil {
				return &vfs.PathError{Op: "seed", Path: p, Err: err}
			}
		}
		stats.Files++
	default:
		return &vfs.PathError{Op: "seed", Path: p, Err: fmt.Errorf("unknown entry type %q", e.Type)}
	}
	return nil
}

// existingDir returns the directory that made CreateChild fail with
// ErrExist, so that seeding merges into it.
func existingDir(tree *vfs.Tree, parent *vfs.Node, name string, createErr error) (*vfs.Node, error) {
	res, err := tree.Resolve(parent, name)
	if err != nil || !res.Node.IsDir() {
		return nil, createErr
	}
	return res.Node, nil
}

// parseMode reads an octal permission string such as "0644". Empty means
// the default mode.
func parseMode(s string) (fs.FileMode, error) {
	if s == "" {
		return 0, nil
	}
	v, err := strconv.ParseUint(s, 8, 32)
	if err != nil || v == 0 || v > uint64(fs.ModePerm) {
		return 0, fmt.Errorf("invalid mode %q", s)
	}
	return fs.FileMode(v), nil
}

// DefaultLayout creates the standard directories for user and returns the
// user's home directory.
func DefaultLayout(tree *vfs.Tree, user string) (string, Stats, error) {
	var stats Stats
	for _, dir := range paths.StandardDirectories(user) {
		before := tree.Len()
		if _, err := tree.MkdirAll(tree.Root(), dir); err != nil {
			return "", stats, &vfs.PathError{Op: "seed", Path: dir, Err: err}
		}
		stats.Dirs += tree.Len() - before
	}
	return paths.UserHome(user), stats, nil
}
