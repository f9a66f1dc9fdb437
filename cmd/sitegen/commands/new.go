package commands

import (
	"fmt"
	"time"

	"git.home.luguber.info/inful/sitegen/internal/config"
	serrors "git.home.luguber.info/inful/sitegen/internal/errors"
	"git.home.luguber.info/inful/sitegen/internal/scaffold"
)

// NewCmd implements the 'new' command.
type NewCmd struct {
	Dir string `help:"Posts directory (overrides paths.posts)" type:"path"`
}

func (n *NewCmd) Run(g *Global, root *CLI) error {
	dir := n.Dir
	if dir == "" {
		cfg, err := config.Load(root.Config)
		if err != nil {
			return err
		}
		dir = cfg.Paths.Posts
	}

	path, err := scaffold.NewPost(dir, time.Now())
	if err != nil {
		return serrors.OutputFailed(dir, err)
	}
	_, _ = fmt.Fprintf(g.out(), "Successfully created new post:\n%s\n", path)
	return nil
}
