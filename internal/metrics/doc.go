// Package metrics provides the observability hooks of a sync run.
//
// Components receive a Recorder through dependency injection and default to
// NoopRecorder, so no nil checks are needed at call sites:
//
//	engine := docsync.New(store, conv, docsync.WithRecorder(metrics.NoopRecorder{}))
//
// PrometheusRecorder forwards to client_golang collectors. Its registry can be
// served over HTTP (HTTPHandler) or written once per run to a node-exporter
// textfile (WriteTextfile).
package metrics
