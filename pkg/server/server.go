package server

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/arnet/pkg/buildinfo"
	"github.com/matzehuels/arnet/pkg/errors"
	"github.com/matzehuels/arnet/pkg/graph"
	"github.com/matzehuels/arnet/pkg/layout"
	"github.com/matzehuels/arnet/pkg/metrics"
	"github.com/matzehuels/arnet/pkg/render/nodelink"
	"github.com/matzehuels/arnet/pkg/synchronizer"
	"github.com/matzehuels/arnet/pkg/topology"
)

// StrategyFactory builds the strategy installed by
// POST /api/layout/recalculate.
type StrategyFactory func(name string, seed uint64) (layout.Strategy, error)

// Option configures a [Server].
type Option func(*Server)

// WithStrategyFactory makes the recalculate endpoint build strategies with
// fn instead of [layout.New], e.g. to keep a layout cache in front of them.
func WithStrategyFactory(fn StrategyFactory) Option {
	return func(s *Server) { s.newStrategy = fn }
}

// Server serves the model held by a synchronizer.
type Server struct {
	sync        *synchronizer.Synchronizer
	metrics     *metrics.Registry
	logger      *log.Logger
	newStrategy StrategyFactory
}

// New returns a server. A nil registry disables /metrics.
func New(s *synchronizer.Synchronizer, reg *metrics.Registry, logger *log.Logger, opts ...Option) *Server {
	srv := &Server{sync: s, metrics: reg, logger: orDiscard(logger), newStrategy: layout.New}
	for _, opt := range opts {
		opt(srv)
	}
	return srv
}

func orDiscard(logger *log.Logger) *log.Logger {
	if logger == nil {
		return log.NewWithOptions(io.Discard, log.Options{})
	}
	return logger
}

// Handler returns the routed handler.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.logRequests)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/plain")
		_, _ = io.WriteString(w, "ok\n")
	})
	if s.metrics != nil {
		r.Handle("/metrics", s.metrics.Handler())
	}

	r.Route("/api", func(r chi.Router) {
		r.Get("/version", s.handleVersion)
		r.Get("/topology", s.handleTopology)
		r.Get("/vertices/{id}", s.handleVertex)
		r.Get("/alarms", s.handleAlarms)
		r.Get("/layout.svg", s.handleSVG)
		r.Post("/layout/recalculate", s.handleRecalculate)
	})
	return r
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.logger.Debug("http request",
			"method", r.Method, "path", r.URL.Path, "status", ww.Status(),
			"elapsed", time.Since(start), "request_id", middleware.GetReqID(r.Context()))
	})
}

func (s *Server) handleVersion(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, buildinfo.Get())
}

func (s *Server) handleTopology(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.sync.Layout())
}

type vertexResponse struct {
	graph.Node
	Alarms     []topology.Alarm     `json:"alarms"`
	Situations []topology.Situation `json:"situations"`
}

func (s *Server) handleVertex(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := errors.ValidateID(id); err != nil {
		writeError(w, err)
		return
	}
	node, ok := s.sync.Layout().Node(id)
	if !ok {
		writeError(w, errors.New(errors.ErrCodeNotFound, "vertex %q not found", id))
		return
	}
	resp := vertexResponse{Node: node, Alarms: []topology.Alarm{}, Situations: []topology.Situation{}}
	for _, a := range s.sync.Alarms() {
		if a.VertexID == id {
			resp.Alarms = append(resp.Alarms, a)
		}
	}
	for _, sit := range s.sync.Situations() {
		if sit.VertexID == id {
			resp.Situations = append(resp.Situations, sit)
		}
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleAlarms(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"alarms":     s.sync.Alarms(),
		"situations": s.sync.Situations(),
	})
}

func (s *Server) handleSVG(w http.ResponseWriter, r *http.Request) {
	detailed, _ := strconv.ParseBool(r.URL.Query().Get("detailed"))
	dot := nodelink.ToDOT(s.sync.Layout(), nodelink.Options{Detailed: detailed})
	svg, err := nodelink.RenderSVG(r.Context(), dot)
	if err != nil {
		writeError(w, errors.Wrap(errors.ErrCodeInternal, err, "render svg"))
		return
	}
	w.Header().Set("Content-Type", "image/svg+xml")
	_, _ = w.Write(svg)
}

// handleRecalculate switches strategy when ?strategy= or ?seed= is given
// and recalculates. A seed alone reseeds the current strategy.
func (s *Server) handleRecalculate(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	name, rawSeed := q.Get("strategy"), q.Get("seed")
	if name != "" || rawSeed != "" {
		seed, err := parseSeed(rawSeed)
		if err != nil {
			writeError(w, err)
			return
		}
		if name == "" {
			name = s.sync.Layout().Strategy
		}
		st, err := s.newStrategy(name, seed)
		if err != nil {
			if errors.GetCode(err) == "" {
				err = errors.Wrap(errors.ErrCodeInvalidStrategy, err, "strategy %q", name)
			}
			writeError(w, err)
			return
		}
		s.sync.SetStrategy(st)
	}
	s.sync.Recalculate()
	writeJSON(w, http.StatusOK, s.sync.Layout())
}

func parseSeed(v string) (uint64, error) {
	if v == "" {
		return 0, nil
	}
	seed, err := strconv.ParseUint(v, 10, 64)
	if err != nil {
		return 0, errors.Wrap(errors.ErrCodeInvalidInput, err, "seed %q", v)
	}
	return seed, nil
}

// =============================================================================
// Responses
// =============================================================================

type errorResponse struct {
	Code    errors.Code `json:"code"`
	Message string      `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(v)
}

func writeError(w http.ResponseWriter, err error) {
	code := errors.GetCode(err)
	if code == "" {
		code = errors.ErrCodeInternal
	}
	writeJSON(w, statusFor(code), errorResponse{Code: code, Message: errors.UserMessage(err)})
}

func statusFor(code errors.Code) int {
	switch code {
	case errors.ErrCodeInvalidInput, errors.ErrCodeInvalidID, errors.ErrCodeInvalidStrategy:
		return http.StatusBadRequest
	case errors.ErrCodeNotFound:
		return http.StatusNotFound
	case errors.ErrCodeTimeout:
		return http.StatusGatewayTimeout
	}
	return http.StatusInternalServerError
}

// =============================================================================
// Lifecycle
// =============================================================================

// ShutdownTimeout bounds graceful shutdown in [ListenAndServe].
const ShutdownTimeout = 10 * time.Second

// ListenAndServe serves h on addr until ctx is done, then shuts down
// gracefully.
func ListenAndServe(ctx context.Context, addr string, h http.Handler, logger *log.Logger) error {
	logger = orDiscard(logger)
	srv := &http.Server{
		Addr:              addr,
		Handler:           h,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
		MaxHeaderBytes:    1 << 20,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if stderrors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return errors.Wrap(errors.ErrCodeNetwork, err, "listen on %s", addr)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), ShutdownTimeout)
	defer cancel()
	logger.Info("shutting down", "timeout", ShutdownTimeout)
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "shutdown")
	}
	return nil
}
