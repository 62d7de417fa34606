package metrics

import (
	"io"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNoopRecorderSatisfiesInterface(t *testing.T) {
	var r Recorder = NoopRecorder{}
	r.IncDocumentOutcome(OutcomeCreated)
	r.ObserveDocumentDuration(time.Second)
	r.IncPagesCreated()
	r.ObserveRunDuration(time.Second)
	r.IncRunOutcome(RunSuccess)
}

func TestPrometheusRecorderCounts(t *testing.T) {
	reg := prom.NewRegistry()
	pr := NewPrometheusRecorder(reg)
	pr.IncDocumentOutcome(OutcomeCreated)
	pr.IncDocumentOutcome(OutcomeUnchanged)
	pr.IncDocumentOutcome(OutcomeUnchanged)
	pr.IncPagesCreated()
	pr.ObserveDocumentDuration(20 * time.Millisecond)
	pr.ObserveRunDuration(2 * time.Second)
	pr.IncRunOutcome(RunSuccess)

	assert.InDelta(t, 2, testutil.ToFloat64(pr.documentOutcomes.WithLabelValues("unchanged")), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(pr.pagesCreated), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(pr.runOutcomes.WithLabelValues("success")), 0)

	mfs, err := reg.Gather()
	require.NoError(t, err)
	assert.NotEmpty(t, mfs)
}

func TestNilPrometheusRecorderIsSafe(t *testing.T) {
	var pr *PrometheusRecorder
	assert.NotPanics(t, func() {
		pr.IncDocumentOutcome(OutcomeFailed)
		pr.IncRunOutcome(RunFailed)
	})
}

func TestWriteTextfile(t *testing.T) {
	reg := prom.NewRegistry()
	pr := NewPrometheusRecorder(reg)
	pr.IncDocumentOutcome(OutcomeUpdated)

	path := filepath.Join(t.TempDir(), "notionsync.prom")
	require.NoError(t, WriteTextfile(reg, path))
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `notionsync_documents_total{outcome="updated"} 1`)
}

func TestHTTPHandlerServesRegistry(t *testing.T) {
	reg := prom.NewRegistry()
	NewPrometheusRecorder(reg).IncPagesCreated()

	rec := httptest.NewRecorder()
	HTTPHandler(reg).ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	body, err := io.ReadAll(rec.Result().Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "notionsync_pages_created_total 1")
}
