package watch

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"

	"git.home.luguber.info/inful/sitegen/internal/logfields"
	"git.home.luguber.info/inful/sitegen/internal/metrics"
)

// StatusPath reports the latest build outcome as JSON.
const StatusPath = "/_sitegen/status"

type statusResponse struct {
	Builds       int       `json:"builds"`
	HasGoodBuild bool      `json:"has_good_build"`
	LastError    string    `json:"last_error,omitempty"`
	FinishedAt   time.Time `json:"finished_at"`
}

type server struct {
	http *http.Server
	ln   net.Listener
}

func startServer(addr, outDir string, reg *prom.Registry, status *buildStatus, logger *slog.Logger) (*server, error) {
	if outDir == "" {
		return nil, errors.New("watch: output directory is required to serve")
	}
	mux := http.NewServeMux()
	mux.Handle("/", http.FileServer(http.Dir(outDir)))
	mux.HandleFunc(StatusPath, func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(status.snapshot()); err != nil {
			logger.Warn("Failed to write status", logfields.Error(err))
		}
	})
	if reg != nil {
		mux.Handle("/metrics", metrics.HTTPHandler(reg))
	}

	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("listen %s: %w", addr, err)
	}
	s := &server{
		http: &http.Server{Handler: mux, ReadHeaderTimeout: 10 * time.Second, ReadTimeout: 30 * time.Second, WriteTimeout: 30 * time.Second, IdleTimeout: 120 * time.Second},
		ln:   ln,
	}
	go func() {
		if err := s.http.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("HTTP server stopped", logfields.Error(err))
		}
	}()
	return s, nil
}

// Addr is the address the server is listening on.
func (s *server) Addr() string { return s.ln.Addr().String() }

func stopServer(s *server, logger *slog.Logger) {
	if s == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := s.http.Shutdown(ctx); err != nil {
		logger.Warn("HTTP server shutdown error", logfields.Error(err))
	}
}
