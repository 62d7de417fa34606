package commands

import (
	"context"
	"path/filepath"
	"time"

	"git.home.luguber.info/inful/notionsync/internal/config"
	"git.home.luguber.info/inful/notionsync/internal/daemon"
	"git.home.luguber.info/inful/notionsync/internal/discovery"
)

// WatchCmd implements the 'watch' command.
type WatchCmd struct {
	RunFlags
	Debounce time.Duration `default:"500ms" help:"Quiet period before a change triggers a sync"`
}

func (w *WatchCmd) Run(g *Global, root *CLI) error {
	s, err := newSession(w.RunFlags, root, g.Stdout)
	if err != nil {
		return err
	}
	defer s.Close()

	// Validate configuration up front so a broken setup fails fast.
	cfg, err := s.loadConfig()
	if err != nil {
		return err
	}
	opts := discovery.Options{Extensions: cfg.Extensions, Ignored: cfg.IgnoredPathSubstrings}
	cfgFile := filepath.Base(root.Config)
	if root.Config == "" {
		cfgFile = config.DefaultFileName
	}

	watcher := daemon.NewWatcher(cfg.RepositoryRoot, daemon.WatchOptions{
		Debounce: w.Debounce,
		Relevant: func(rel string) bool {
			return discovery.Qualifies(rel, opts) || filepath.Base(rel) == cfgFile
		},
	}, func(ctx context.Context) error {
		_, err := s.run(ctx)
		return err
	})
	return watcher.Run(g.Context)
}
