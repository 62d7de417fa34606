package commands

import (
	"fmt"
	"sort"
	"strings"
	"time"

	ferrors "git.home.luguber.info/inful/notionsync/internal/foundation/errors"
	"git.home.luguber.info/inful/notionsync/internal/journal"
)

// HistoryCmd implements the 'history' command.
type HistoryCmd struct {
	Journal string        `required:"" type:"path" help:"SQLite journal written by --journal"`
	RunID   string        `name:"run" help:"Show a single run"`
	Since   time.Duration `default:"168h" help:"How far back to list runs"`
}

func (h *HistoryCmd) Run(g *Global, _ *CLI) error {
	j, err := journal.OpenSQLite(h.Journal)
	if err != nil {
		return err
	}
	defer func() { _ = j.Close() }()

	var summaries []journal.RunSummary
	if h.RunID != "" {
		s, err := journal.LoadSummary(g.Context, j, h.RunID)
		if err != nil {
			return err
		}
		if s.StartedAt.IsZero() && s.CompletedAt.IsZero() {
			return ferrors.ValidationError("run not found in journal").WithContext("run_id", h.RunID).Build()
		}
		summaries = append(summaries, s)
	} else {
		now := time.Now()
		events, err := j.Range(g.Context, now.Add(-h.Since), now)
		if err != nil {
			return err
		}
		byRun := map[string][]journal.Event{}
		var order []string
		for _, e := range events {
			if _, ok := byRun[e.RunID]; !ok {
				order = append(order, e.RunID)
			}
			byRun[e.RunID] = append(byRun[e.RunID], e)
		}
		for _, id := range order {
			summaries = append(summaries, journal.Summarize(byRun[id]))
		}
	}

	for _, s := range summaries {
		_, _ = fmt.Fprintln(g.Stdout, formatSummary(s))
	}
	return nil
}

func formatSummary(s journal.RunSummary) string {
	var counts []string
	for status, n := range s.Documents {
		counts = append(counts, fmt.Sprintf("%s=%d", status, n))
	}
	sort.Strings(counts)
	if len(s.Failed) > 0 {
		counts = append(counts, fmt.Sprintf("failed=%d", len(s.Failed)))
	}
	started := "-"
	if !s.StartedAt.IsZero() {
		started = s.StartedAt.Local().Format(time.DateTime)
	}
	line := fmt.Sprintf("%s  %s  %-9s %s", started, s.RunID, s.Status, strings.Join(counts, " "))
	if s.Detail != "" && s.Status == "failed" {
		line += "  " + s.Detail
	}
	return strings.TrimRight(line, " ")
}
