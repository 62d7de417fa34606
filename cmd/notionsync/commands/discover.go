package commands

import (
	"fmt"
	"log/slog"

	"git.home.luguber.info/inful/notionsync/internal/config"
	"git.home.luguber.info/inful/notionsync/internal/discovery"
)

// DiscoverCmd implements the 'discover' command.
type DiscoverCmd struct {
	Root string `arg:"" optional:"" default:"." type:"path" help:"Repository root"`
}

func (d *DiscoverCmd) Run(g *Global, root *CLI) error {
	cfg, err := config.Load(config.LoadOptions{RepositoryRoot: d.Root, ConfigPath: root.Config})
	if err != nil {
		return err
	}
	paths, err := discovery.Discover(cfg.RepositoryRoot, discovery.Options{
		Extensions: cfg.Extensions,
		Ignored:    cfg.IgnoredPathSubstrings,
	})
	if err != nil {
		return err
	}
	for _, p := range paths {
		_, _ = fmt.Fprintln(g.Stdout, p)
	}
	slog.Info("Discovery completed", slog.Int("documents", len(paths)))
	return nil
}
