package plugins

import (
	"context"
	"errors"
	"io/fs"
	"os"

	serrors "git.home.luguber.info/inful/sitegen/internal/errors"
	"git.home.luguber.info/inful/sitegen/internal/logfields"
	"git.home.luguber.info/inful/sitegen/internal/render"
	"git.home.luguber.info/inful/sitegen/internal/site"
)

// Build erases and recreates the output directory, then copies the static
// assets directory into it when one exists.
type Build struct {
	opts Options
}

// NewBuild returns the build plugin.
func NewBuild(opts Options) *Build { return &Build{opts: opts.withDefaults()} }

func (*Build) Name() string { return "build" }

func (b *Build) Run(ctx context.Context, _ *site.Site) error {
	out := b.opts.OutputDir
	if out == "" {
		return serrors.ValidationFailed("output", "output directory is not set")
	}
	if err := render.ResetDir(out); err != nil {
		return serrors.OutputFailed(out, err)
	}

	assets := b.opts.AssetsDir
	if assets == "" {
		return nil
	}
	info, err := os.Stat(assets)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		b.opts.Logger.DebugContext(ctx, "No assets directory", logfields.Path(assets))
		return nil
	case err != nil:
		return serrors.DirectoryUnreadable(assets, err)
	case !info.IsDir():
		return serrors.DirectoryUnreadable(assets, errors.New("not a directory"))
	}

	if err := render.CopyDir(assets, out); err != nil {
		return serrors.OutputFailed(out, err)
	}
	b.opts.Logger.DebugContext(ctx, "Copied assets", logfields.Path(assets))
	return nil
}
