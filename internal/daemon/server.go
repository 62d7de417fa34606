package daemon

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"time"

	"git.home.luguber.info/inful/notionsync/internal/version"
)

// HealthResponse is served at /healthz.
type HealthResponse struct {
	Status    string `json:"status"` // healthy or degraded
	Version   string `json:"version"`
	Uptime    string `json:"uptime"`
	Sync      Status `json:"sync"`
	Timestamp string `json:"timestamp"`
}

// StatusServer exposes /healthz and, when a metrics handler is set, /metrics.
type StatusServer struct {
	srv     *http.Server
	started time.Time
}

// NewStatusServer builds a server on addr. status is polled per request.
func NewStatusServer(addr string, status func() Status, metrics http.Handler) *StatusServer {
	s := &StatusServer{started: time.Now()}
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		st := status()
		resp := HealthResponse{
			Status:    "healthy",
			Version:   version.Version,
			Uptime:    time.Since(s.started).Truncate(time.Second).String(),
			Sync:      st,
			Timestamp: time.Now().UTC().Format(time.RFC3339),
		}
		code := http.StatusOK
		if st.LastError != "" {
			resp.Status = "degraded"
			code = http.StatusServiceUnavailable
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(code)
		_ = json.NewEncoder(w).Encode(resp)
	})
	if metrics != nil {
		mux.Handle("/metrics", metrics)
	}
	s.srv = &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	return s
}

// Handler returns the server's routes, for tests.
func (s *StatusServer) Handler() http.Handler { return s.srv.Handler }

// Start listens in the background.
func (s *StatusServer) Start() error {
	ln, err := net.Listen("tcp", s.srv.Addr)
	if err != nil {
		return err
	}
	slog.Info("Status server listening", slog.String("addr", ln.Addr().String()))
	go func() {
		if err := s.srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("Status server stopped", slog.String("error", err.Error()))
		}
	}()
	return nil
}

// Stop shuts the server down gracefully.
func (s *StatusServer) Stop(ctx context.Context) error {
	return s.srv.Shutdown(ctx)
}
