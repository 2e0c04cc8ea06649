// Package httpapi serves the governance operations over JSON/HTTP.
package httpapi

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/trebuchet-org/treb-dao/internal/adapters/metrics"
	"github.com/trebuchet-org/treb-dao/internal/domain/config"
	"github.com/trebuchet-org/treb-dao/internal/usecase"
)

const (
	shutdownTimeout = 5 * time.Second

	// RequestIDHeader carries the request id. A client supplied id is echoed back.
	RequestIDHeader = "X-Request-Id"
)

// UseCases bundles the operations exposed over HTTP
type UseCases struct {
	CreateDao          *usecase.CreateDao
	ShowDao            *usecase.ShowDao
	ListDaos           *usecase.ListDaos
	CreateProposal     *usecase.CreateProposal
	ShowProposal       *usecase.ShowProposal
	ListProposals      *usecase.ListProposals
	CastVote           *usecase.CastVote
	ExecuteProposal    *usecase.ExecuteProposal
	ResolveVotingPower *usecase.ResolveVotingPower
}

// Server is the governance HTTP API
type Server struct {
	cfg      *config.RuntimeConfig
	log      *slog.Logger
	metrics  *metrics.Metrics
	useCases UseCases
}

// NewServer creates a new API server
func NewServer(cfg *config.RuntimeConfig, log *slog.Logger, m *metrics.Metrics, useCases UseCases) *Server {
	return &Server{
		cfg:      cfg,
		log:      log.With("component", "httpapi"),
		metrics:  m,
		useCases: useCases,
	}
}

// Handler builds the route table
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	s.RegisterHTTPHandlers("/api/", mux)
	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.Handle("GET /metrics", s.metrics.Handler())
	return mux
}

// RegisterHTTPHandlers registers the governance routes under prefix.
// The prefix should include the trailing slash (e.g., "/api/").
func (s *Server) RegisterHTTPHandlers(prefix string, mux *http.ServeMux) {
	s.route(mux, "GET", prefix+"daos", s.handleListDaos)
	s.route(mux, "POST", prefix+"daos", s.handleCreateDao)
	s.route(mux, "GET", prefix+"daos/{dao}", s.handleShowDao)
	s.route(mux, "GET", prefix+"daos/{dao}/proposals", s.handleListProposals)
	s.route(mux, "POST", prefix+"daos/{dao}/proposals", s.handleCreateProposal)
	s.route(mux, "GET", prefix+"proposals/{proposal}", s.handleShowProposal)
	s.route(mux, "GET", prefix+"proposals/{proposal}/power/{voter}", s.handleVotingPower)
	s.route(mux, "POST", prefix+"proposals/{proposal}/votes", s.handleCastVote)
	s.route(mux, "POST", prefix+"proposals/{proposal}/execute", s.handleExecute)
}

// route registers h and records its latency under the route pattern
func (s *Server) route(mux *http.ServeMux, method, pattern string, h http.HandlerFunc) {
	mux.HandleFunc(method+" "+pattern, func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		requestID := r.Header.Get(RequestIDHeader)
		if requestID == "" {
			requestID = uuid.NewString()
		}
		w.Header().Set(RequestIDHeader, requestID)

		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		h(rec, r)
		elapsed := time.Since(start)

		s.metrics.ObserveRequest(pattern, method, rec.status, elapsed)
		s.log.Debug("request",
			"request_id", requestID,
			"method", method,
			"route", pattern,
			"path", r.URL.Path,
			"status", rec.status,
			"elapsed", elapsed.Round(time.Microsecond).String())
	})
}

// ListenAndServe serves until ctx is cancelled, then shuts down gracefully
func (s *Server) ListenAndServe(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.cfg.ServerAddr)
	if err != nil {
		return err
	}
	return s.Serve(ctx, ln)
}

// Serve serves on ln until ctx is cancelled
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info("listening", "addr", ln.Addr().String())
		errCh <- srv.Serve(ln)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	s.log.Info("server stopped")
	return nil
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}
