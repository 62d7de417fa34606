package commands

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/notionsync/internal/config"
	"git.home.luguber.info/inful/notionsync/internal/journal"
)

func writeRepo(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	files := map[string]string{
		"README.md":            "# Readme\n\nHello.\n",
		"docs/guide.md":        "Guide\n\n- one\n- two\n",
		"docs/.draft.md":       "Draft\n",
		"vendor/lib/README.md": "# Vendored\n",
		"notes.txt":            "not markdown\n",
	}
	for rel, body := range files {
		path := filepath.Join(dir, filepath.FromSlash(rel))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o750))
		require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	}
	return dir
}

func setEnv(t *testing.T) {
	t.Helper()
	t.Setenv(config.EnvRootPage, "Engineering")
	t.Setenv(config.EnvIgnoreDirs, "vendor")
	t.Setenv(config.EnvSourceLinkBase, "https://example.com/repo/blob/main/")
	t.Setenv(config.EnvToken, "")
}

func TestDiscoverListsQualifyingDocuments(t *testing.T) {
	dir := writeRepo(t)
	setEnv(t)

	var out bytes.Buffer
	cmd := &DiscoverCmd{Root: dir}
	require.NoError(t, cmd.Run(&Global{Context: t.Context(), Stdout: &out}, &CLI{}))

	assert.Equal(t, "README.md\ndocs/guide.md\ndocs/.draft.md\n", out.String())
}

func TestSyncDryRunPrintsProgressAndJournals(t *testing.T) {
	dir := writeRepo(t)
	setEnv(t)
	journalPath := filepath.Join(t.TempDir(), "journal.db")
	metricsPath := filepath.Join(t.TempDir(), "notionsync.prom")

	var out bytes.Buffer
	cmd := &SyncCmd{
		RunFlags:    RunFlags{Root: dir, DryRun: true, Journal: journalPath},
		MetricsFile: metricsPath,
	}
	require.NoError(t, cmd.Run(&Global{Context: t.Context(), Stdout: &out}, &CLI{}))
	assert.Equal(t, "README.md\ndocs/guide.md\ndocs/.draft.md\n", out.String())

	data, err := os.ReadFile(metricsPath)
	require.NoError(t, err)
	assert.Contains(t, string(data), `notionsync_documents_total{outcome="created"} 3`)

	var hist bytes.Buffer
	h := &HistoryCmd{Journal: journalPath, Since: time.Hour}
	require.NoError(t, h.Run(&Global{Context: t.Context(), Stdout: &hist}, &CLI{}))
	assert.Contains(t, hist.String(), "completed")
	assert.Contains(t, hist.String(), "created=3")
}

func TestSyncDryRunSessionIsIdempotent(t *testing.T) {
	dir := writeRepo(t)
	setEnv(t)

	s, err := newSession(RunFlags{Root: dir, DryRun: true}, &CLI{}, nil)
	require.NoError(t, err)
	defer s.Close()

	first, err := s.run(t.Context())
	require.NoError(t, err)
	assert.Equal(t, 3, first.Created)

	before := s.memory.Stats()
	second, err := s.run(t.Context())
	require.NoError(t, err)
	assert.Equal(t, 3, second.Unchanged)
	assert.Equal(t, before, s.memory.Stats())
}

func TestSyncForceRewritesUnchangedDocuments(t *testing.T) {
	dir := writeRepo(t)
	setEnv(t)

	s, err := newSession(RunFlags{Root: dir, DryRun: true}, &CLI{}, nil)
	require.NoError(t, err)
	defer s.Close()
	_, err = s.run(t.Context())
	require.NoError(t, err)

	s.flags.Force = true
	summary, err := s.run(t.Context())
	require.NoError(t, err)
	assert.Equal(t, 3, summary.Updated)
}

func TestSyncWithoutRootPageFails(t *testing.T) {
	dir := writeRepo(t)
	setEnv(t)
	t.Setenv(config.EnvRootPage, "")

	cmd := &SyncCmd{RunFlags: RunFlags{Root: dir, DryRun: true}}
	err := cmd.Run(&Global{Context: t.Context(), Stdout: &bytes.Buffer{}}, &CLI{})
	require.Error(t, err)
}

func TestSyncWithoutTokenFails(t *testing.T) {
	dir := writeRepo(t)
	setEnv(t)

	cmd := &SyncCmd{RunFlags: RunFlags{Root: dir}}
	err := cmd.Run(&Global{Context: t.Context(), Stdout: &bytes.Buffer{}}, &CLI{})
	require.Error(t, err)
}

func TestInitRefusesToOverwriteWithoutForce(t *testing.T) {
	path := filepath.Join(t.TempDir(), config.DefaultFileName)

	var out bytes.Buffer
	require.NoError(t, (&InitCmd{}).Run(&Global{Context: t.Context(), Stdout: &out}, &CLI{Config: path}))
	assert.Contains(t, out.String(), "Initialized successfully")

	require.Error(t, (&InitCmd{}).Run(&Global{Context: t.Context(), Stdout: &out}, &CLI{Config: path}))
	require.NoError(t, (&InitCmd{Force: true}).Run(&Global{Context: t.Context(), Stdout: &out}, &CLI{Config: path}))
}

func TestFormatSummary(t *testing.T) {
	line := formatSummary(journal.RunSummary{
		RunID:     "r1",
		Status:    "failed",
		Documents: map[string]int{"updated": 1, "created": 2},
		Failed:    []string{"a.md"},
		Detail:    "boom",
	})
	assert.Equal(t, "-  r1  failed    created=2 updated=1 failed=1  boom", line)
}
