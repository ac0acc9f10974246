package seed

import (
	"context"

	"go.uber.org/zap"

	"github.com/GriffinCanCode/myvfs/internal/domain/vfs"
)

// Options selects the seeding steps run by Bootstrap.
type Options struct {
	DefaultLayout bool
	User          string
	File          string
	HostDir       string
	Target        string
	MaxFileSize   int64
	Logger        *zap.Logger
}

// Bootstrap populates a fresh tree: the standard layout first, then the seed
// file, then the host directory. It returns the user's home when the layout
// was created and "" otherwise.
func Bootstrap(ctx context.Context, tree *vfs.Tree, opts Options) (string, Stats, error) {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	target := opts.Target
	if target == "" {
		target = vfs.Separator
	}

	var (
		total Stats
		home  string
	)

	if opts.DefaultLayout {
		h, stats, err := DefaultLayout(tree, opts.User)
		if err != nil {
			return "", total, err
		}
		home = h
		total.add(stats)
	}

	if opts.File != "" {
		doc, err := LoadFile(opts.File)
		if err != nil {
			return home, total, err
		}
		stats, err := Apply(tree, target, doc)
		total.add(stats)
		if err != nil {
			return home, total, err
		}
		logger.Info("seed file applied",
			zap.String("file", opts.File),
			zap.Int("dirs", stats.Dirs),
			zap.Int("files", stats.Files))
	}

	if opts.HostDir != "" {
		stats, err := FromHostDir(ctx, tree, opts.HostDir, target, HostOptions{
			MaxFileSize: opts.MaxFileSize,
			Logger:      logger,
		})
		total.add(stats)
		if err != nil {
			return home, total, err
		}
		logger.Info("host directory imported",
			zap.String("dir", opts.HostDir),
			zap.Int("dirs", stats.Dirs),
			zap.Int("files", stats.Files),
			zap.Int("skipped", stats.Skipped))
	}

	return home, total, nil
}
