package seed

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sync"

	"github.com/charlievieth/fastwalk"
	"go.uber.org/zap"

	"github.com/GriffinCanCode/myvfs/internal/domain/vfs"
)

// HostOptions controls FromHostDir.
type HostOptions struct {
	// MaxFileSize caps the bytes copied per file. Larger files are created
	// empty. Zero means no limit.
	MaxFileSize int64
	Logger      *zap.Logger
}

// FromHostDir copies the host directory hostDir into the tree below target.
// Symbolic links and special files are skipped. The walk runs in parallel;
// the tree's own locking keeps it consistent.
func FromHostDir(ctx context.Context, tree *vfs.Tree, hostDir, target string, opts HostOptions) (Stats, error) {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	var (
		mu    sync.Mutex
		stats Stats
	)
	count := func(fn func(*Stats)) {
		mu.Lock()
		fn(&stats)
		mu.Unlock()
	}

	base, err := tree.MkdirAll(tree.Root(), target)
	if err != nil {
		return stats, &vfs.PathError{Op: "seed", Path: target, Err: err}
	}
	basePath := tree.PathOf(base)

	conf := fastwalk.Config{Follow: false}
	err = fastwalk.Walk(&conf, hostDir, func(p string, d os.DirEntry, err error) error {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		if err != nil {
			logger.Warn("skipping unreadable host path", zap.String("path", p), zap.Error(err))
			count(func(s *Stats) { s.Skipped++ })
			return nil
		}

		rel, err := filepath.Rel(hostDir, p)
		if err != nil {
			return err
		}
		if rel == "." {
			return nil
		}
		vpath := path.Join(basePath, filepath.ToSlash(rel))

		info, err := d.Info()
		if err != nil {
			count(func(s *Stats) { s.Skipped++ })
			return nil
		}

		switch {
		case d.IsDir():
			node, err := tree.MkdirAll(tree.Root(), vpath)
			if err != nil {
				return &vfs.PathError{Op: "seed", Path: vpath, Err: err}
			}
			if err := tree.Chmod(node, info.Mode().Perm()); err != nil {
				return &vfs.PathError{Op: "seed", Path: vpath, Err: err}
			}
			count(func(s *Stats) { s.Dirs++ })
		case d.Type().IsRegular():
			if err := copyHostFile(tree, p, vpath, info, opts.MaxFileSize, logger); err != nil {
				return err
			}
			count(func(s *Stats) { s.Files++ })
		default:
			logger.Debug("skipping special host file", zap.String("path", p), zap.Stringer("type", d.Type()))
			count(func(s *Stats) { s.Skipped++ })
		}
		return nil
	})
	if err != nil {
		return stats, fmt.Errorf("seed from %s: %w", hostDir, err)
	}
	return stats, nil
}

func copyHostFile(tree *vfs.Tree, hostPath, vpath string, info fs.FileInfo, maxSize int64, logger *zap.Logger) error {
	parent, name, err := tree.ResolveParent(tree.Root(), vpath)
	if err != nil {
		// The parent directory callback may still be running on another
		// goroutine.
		if _, mkErr := tree.MkdirAll(tree.Root(), path.Dir(vpath)); mkErr != nil {
			return &vfs.PathError{Op: "seed", Path: vpath, Err: mkErr}
		}
		if parent, name, err = tree.ResolveParent(tree.Root(), vpath); err != nil {
			return &vfs.PathError{Op: "seed", Path: vpath, Err: err}
		}
	}

	node, err := tree.CreateChild(parent, name, vfs.KindFile)
	if err != nil {
		return &vfs.PathError{Op: "seed", Path: vpath, Err: err}
	}

	if maxSize > 0 && info.Size() > maxSize {
		logger.Warn("host file too large, created empty",
			zap.String("path", hostPath),
			zap.Int64("size", info.Size()),
			zap.Int64("max", maxSize))
	} else {
		data, err := os.ReadFile(hostPath)
		if err != nil {
			return fmt.Errorf("read %s: %w", hostPath, err)
		}
		if err := tree.Write(node, data); err != nil {
			return &vfs.PathError{Op: "seed", Path: vpath, Err: err}
		}
	}
	return tree.Chmod(node, info.Mode().Perm())
}
