package commands

import (
	"context"
	"io"
	"log/slog"
	"os"

	"github.com/alecthomas/kong"
	prom "github.com/prometheus/client_golang/prometheus"

	"git.home.luguber.info/inful/notionsync/internal/config"
	"git.home.luguber.info/inful/notionsync/internal/docsync"
	"git.home.luguber.info/inful/notionsync/internal/journal"
	"git.home.luguber.info/inful/notionsync/internal/logfields"
	"git.home.luguber.info/inful/notionsync/internal/markdown"
	"git.home.luguber.info/inful/notionsync/internal/metrics"
	"git.home.luguber.info/inful/notionsync/internal/notion"
	"git.home.luguber.info/inful/notionsync/internal/retry"
	"git.home.luguber.info/inful/notionsync/internal/version"
	"git.home.luguber.info/inful/notionsync/internal/walker"
)

// Global carries process-wide state into subcommands.
type Global struct {
	Context context.Context
	Stdout  io.Writer
}

// CLI definition & global flags.
type CLI struct {
	Config  string           `short:"c" help:"Configuration file path (default: <root>/.notionsync.yaml)" type:"path"`
	Verbose bool             `short:"v" help:"Enable verbose logging"`
	Version kong.VersionFlag `name:"version" help:"Show version and exit"`

	Sync     SyncCmd     `cmd:"" default:"withargs" help:"Sync a repository's Markdown documents once"`
	Discover DiscoverCmd `cmd:"" help:"List the documents a sync would process"`
	Watch    WatchCmd    `cmd:"" help:"Sync, then re-sync whenever Markdown files change"`
	Daemon   DaemonCmd   `cmd:"" help:"Sync periodically"`
	History  HistoryCmd  `cmd:"" help:"Show recorded runs from a sync journal"`
	Init     InitCmd     `cmd:"" help:"Write an example configuration file"`
}

// AfterApply runs after flag parsing; setup logging once.
// nolint:unparam // AfterApply currently never returns an error.
func (c *CLI) AfterApply() error {
	level := slog.LevelInfo
	if c.Verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)
	return nil
}

// RunFlags are shared by every command that talks to the remote store.
type RunFlags struct {
	Root        string `arg:"" optional:"" default:"." type:"path" help:"Repository root"`
	DryRun      bool   `help:"Sync into an in-memory store instead of Notion"`
	Force       bool   `help:"Re-render every document even when its digest is unchanged"`
	Journal     string `type:"path" help:"Record run outcomes in this SQLite journal"`
	Concurrency int    `help:"Documents synced in parallel (overrides configuration)"`
}

// session holds what survives between runs of a long-lived command.
type session struct {
	flags    RunFlags
	cli      *CLI
	out      io.Writer
	registry *prom.Registry
	recorder *metrics.PrometheusRecorder
	journal  journal.Journal
	// memory and dryRoot are reused across runs so dry runs show idempotence.
	memory  *notion.MemoryStore
	dryRoot *notion.Page
}

func newSession(flags RunFlags, cli *CLI, out io.Writer) (*session, error) {
	reg := prom.NewRegistry()
	s := &session{
		flags:    flags,
		cli:      cli,
		out:      out,
		registry: reg,
		recorder: metrics.NewPrometheusRecorder(reg),
	}
	if flags.Journal != "" {
		j, err := journal.OpenSQLite(flags.Journal)
		if err != nil {
			return nil, err
		}
		s.journal = j
	}
	if flags.DryRun {
		s.memory = notion.NewMemoryStore()
	}
	return s, nil
}

func (s *session) Close() {
	if s.journal != nil {
		if err := s.journal.Close(); err != nil {
			slog.Warn("Closing journal failed", logfields.Error(err))
		}
	}
}

func (s *session) loadConfig() (*config.SyncConfig, error) {
	cfg, err := config.Load(config.LoadOptions{RepositoryRoot: s.flags.Root, ConfigPath: s.cli.Config})
	if err != nil {
		return nil, err
	}
	if s.flags.Concurrency > 0 {
		cfg.Concurrency = s.flags.Concurrency
	}
	return cfg, nil
}

func (s *session) store(cfg *config.SyncConfig) (notion.Store, *config.SyncConfig, error) {
	if s.memory != nil {
		if s.dryRoot == nil {
			s.dryRoot = s.memory.AddRoot(cfg.RootPage)
		}
		dry := *cfg
		dry.RootPage = s.dryRoot.ID
		return s.memory, &dry, nil
	}
	client, err := notion.NewClient(notion.ClientOptions{
		Token:     cfg.Token,
		BaseURL:   cfg.APIURL,
		Retry:     retry.FromConfig(cfg.Retry),
		UserAgent: "notionsync/" + version.Resolved(),
	})
	if err != nil {
		return nil, nil, err
	}
	return client, cfg, nil
}

// run performs one sync with freshly loaded configuration.
func (s *session) run(ctx context.Context) (*walker.Summary, error) {
	cfg, err := s.loadConfig()
	if err != nil {
		return nil, err
	}
	store, cfg, err := s.store(cfg)
	if err != nil {
		return nil, err
	}
	r := &walker.Runner{
		Store:     store,
		Converter: markdown.NewConverter(markdown.Options{}),
		Progress:  s.out,
		Recorder:  s.recorder,
		Journal:   s.journal,
	}
	if s.flags.Force {
		r.UpToDate = docsync.Never
	}
	summary, err := r.Run(ctx, cfg)
	if err != nil {
		return nil, err
	}
	if s.memory != nil {
		st := s.memory.Stats()
		slog.Info("Dry run store mutations",
			logfields.RunID(summary.RunID),
			slog.Int("pages_created", st.PagesCreated),
			slog.Int("blocks_removed", st.BlocksRemoved),
			slog.Int("blocks_appended", st.BlocksAppended))
	}
	return summary, nil
}
