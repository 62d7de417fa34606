package commands

import (
	"git.home.luguber.info/inful/notionsync/internal/metrics"
)

// SyncCmd implements the 'sync' command.
type SyncCmd struct {
	RunFlags
	MetricsFile string `type:"path" help:"Write Prometheus metrics to this textfile after the run"`
}

func (c *SyncCmd) Run(g *Global, root *CLI) error {
	s, err := newSession(c.RunFlags, root, g.Stdout)
	if err != nil {
		return err
	}
	defer s.Close()

	_, runErr := s.run(g.Context)
	if c.MetricsFile != "" {
		if err := metrics.WriteTextfile(s.registry, c.MetricsFile); err != nil && runErr == nil {
			return err
		}
	}
	return runErr
}
