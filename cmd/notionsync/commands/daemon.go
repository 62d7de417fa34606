package commands

import (
	"context"
	"log/slog"
	"time"

	"git.home.luguber.info/inful/notionsync/internal/daemon"
	"git.home.luguber.info/inful/notionsync/internal/logfields"
	"git.home.luguber.info/inful/notionsync/internal/metrics"
)

// DaemonCmd implements the 'daemon' command.
type DaemonCmd struct {
	RunFlags
	Interval time.Duration `default:"15m" help:"Time between syncs"`
	Listen   string        `help:"Serve /healthz and /metrics on this address (e.g. :9464)"`
}

func (d *DaemonCmd) Run(g *Global, root *CLI) error {
	s, err := newSession(d.RunFlags, root, g.Stdout)
	if err != nil {
		return err
	}
	defer s.Close()

	if _, err := s.loadConfig(); err != nil {
		return err
	}

	sched, err := daemon.NewScheduler(func(ctx context.Context) error {
		_, err := s.run(ctx)
		return err
	})
	if err != nil {
		return err
	}
	if _, err := sched.SchedulePeriodicSync(g.Context, d.Interval); err != nil {
		return err
	}

	var status *daemon.StatusServer
	if d.Listen != "" {
		status = daemon.NewStatusServer(d.Listen, sched.Status, metrics.HTTPHandler(s.registry))
		if err := status.Start(); err != nil {
			return err
		}
	}

	sched.Start()
	slog.Info("Daemon started", slog.String("interval", d.Interval.String()))
	<-g.Context.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if status != nil {
		if err := status.Stop(shutdownCtx); err != nil {
			slog.Warn("Status server shutdown error", logfields.Error(err))
		}
	}
	return sched.Stop()
}
