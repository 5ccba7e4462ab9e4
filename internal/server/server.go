package server

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"io"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/floodprep/pkg/boundary"
	"github.com/matzehuels/floodprep/pkg/buildinfo"
	"github.com/matzehuels/floodprep/pkg/errors"
	"github.com/matzehuels/floodprep/pkg/frame"
	"github.com/matzehuels/floodprep/pkg/geom"
	"github.com/matzehuels/floodprep/pkg/pipeline"
	"github.com/matzehuels/floodprep/pkg/scenario"
	"github.com/matzehuels/floodprep/pkg/store"
)

// Request body limits.
const (
	DefaultMaxBody = 64 << 20
	shutdownGrace  = 5 * time.Second
)

// Server serves the HTTP API.
type Server struct {
	Runner  *pipeline.Runner
	Store   store.Store
	Metrics *Metrics
	Logger  *log.Logger

	// MaxBody caps request bodies. Zero selects DefaultMaxBody.
	MaxBody int64
}

// New creates a server. A nil logger discards output; a nil metrics value
// disables /metrics.
func New(runner *pipeline.Runner, st store.Store, metrics *Metrics, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Server{Runner: runner, Store: st, Metrics: metrics, Logger: logger}
}

// Handler returns the routed API.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.instrument)

	r.Get("/healthz", s.handleHealth)
	if s.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", s.Metrics.Handler())
	}

	r.Route("/v1", func(r chi.Router) {
		r.Post("/compile", s.handleCompile)
		r.Post("/frames/decode", s.handleDecode)
		r.Get("/runs", s.handleListRuns)
		r.Route("/runs/{id}", func(r chi.Router) {
			r.Get("/", s.handleGetRun)
			r.Delete("/", s.handleDeleteRun)
			r.Get("/artifacts/{name}", s.handleGetArtifact)
		})
	})
	return r
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(_ net.Listener) context.Context { return ctx },
	}

	errc := make(chan error, 1)
	go func() {
		s.Logger.Info("server listening", "addr", addr)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if stderrors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
	defer cancel()
	s.Logger.Info("shutting down server")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return nil
}

// =============================================================================
// Middleware
// =============================================================================

func (s *Server) instrument(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		route := chi.RouteContext(r.Context()).RoutePattern()
		if route == "" {
			route = "unmatched"
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		elapsed := time.Since(start)
		if s.Metrics != nil {
			s.Metrics.observeRequest(r.Method, route, status, elapsed)
		}
		s.Logger.Debug("request",
			"method", r.Method,
			"route", route,
			"status", status,
			"elapsed", elapsed.Round(time.Microsecond),
			"request_id", middleware.GetReqID(r.Context()))
	})
}

// =============================================================================
// Handlers
// =============================================================================

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, healthResponse{Status: "ok", Build: buildinfo.Get()})
}

type healthResponse struct {
	Status string         `json:"status"`
	Build  buildinfo.Info `json:"build"`
}

// compileRequest is a Scenario whose xyz field is plain text.
type compileRequest struct {
	scenario.Scenario
	XYZ     string `json:"xyz,omitempty"`
	Refresh bool   `json:"refresh,omitempty"`
}

type compileResponse struct {
	ID        string             `json:"id"`
	Name      string             `json:"name"`
	Hash      string             `json:"hash"`
	Header    geom.Header        `json:"header"`
	Artifacts []string           `json:"artifacts"`
	Warnings  []boundary.Warning `json:"warnings,omitempty"`
	Stats     pipeline.Stats     `json:"stats"`
	CacheHit  bool               `json:"cache_hit"`
}

func (s *Server) handleCompile(w http.ResponseWriter, r *http.Request) {
	var req compileRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, s.maxBody()))
	if err := dec.Decode(&req); err != nil {
		writeError(w, errors.Wrap(errors.ErrCodeInvalidInput, err, "decode request"))
		return
	}
	sc := req.Scenario
	if req.XYZ != "" {
		sc.XYZ = []byte(req.XYZ)
	}

	res, err := s.Runner.Compile(r.Context(), &sc, pipeline.Options{Refresh: req.Refresh})
	if err != nil {
		writeError(w, err)
		return
	}

	run := store.NewRun(res.Name, res.Hash, res.Header, res.Artifacts)
	run.Warnings = res.Warnings
	if s.Store != nil {
		if err := s.Store.Save(r.Context(), run); err != nil {
			writeError(w, errors.Wrap(errors.ErrCodeStorage, err, "save run"))
			return
		}
	}

	s.Logger.Info("compiled scenario",
		"id", run.ID,
		"name", res.Name,
		"artifacts", len(res.Artifacts),
		"warnings", len(res.Warnings),
		"cache_hit", res.CacheHit)

	writeJSON(w, http.StatusCreated, compileResponse{
		ID:        run.ID,
		Name:      res.Name,
		Hash:      res.Hash,
		Header:    res.Header,
		Artifacts: res.Artifacts.Names(),
		Warnings:  res.Warnings,
		Stats:     res.Stats,
		CacheHit:  res.CacheHit,
	})
}

type decodeResponse struct {
	Header    geom.Header   `json:"header"`
	Min       float64       `json:"min"`
	Max       float64       `json:"max"`
	Count     int           `json:"count"`
	Truncated bool          `json:"truncated,omitempty"`
	Summary   frame.Summary `json:"summary"`
	CacheHit  bool          `json:"cache_hit"`
}

func (s *Server) handleDecode(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	threshold, err := floatParam(q.Get("threshold"), frame.DefaultWetThreshold)
	if err != nil {
		writeError(w, errors.New(errors.ErrCodeInvalidInput, "invalid threshold %q", q.Get("threshold")))
		return
	}
	frameID, err := intParam(q.Get("frame"), 0)
	if err != nil {
		writeError(w, errors.New(errors.ErrCodeInvalidInput, "invalid frame %q", q.Get("frame")))
		return
	}

	raw, err := io.ReadAll(http.MaxBytesReader(w, r.Body, s.maxBody()))
	if err != nil {
		writeError(w, errors.Wrap(errors.ErrCodeInvalidInput, err, "read body"))
		return
	}

	f, err := s.Runner.Decode(r.Context(), raw)
	if err != nil {
		writeError(w, err)
		return
	}
	sum, hit := s.Runner.SummarizeFrame(r.Context(), raw, f, frameID, threshold)

	writeJSON(w, http.StatusOK, decodeResponse{
		Header:    f.Header,
		Min:       f.Min,
		Max:       f.Max,
		Count:     f.Count,
		Truncated: f.Truncated,
		Summary:   sum,
		CacheHit:  hit,
	})
}

func (s *Server) handleListRuns(w http.ResponseWriter, r *http.Request) {
	if !s.requireStore(w) {
		return
	}
	limit, err := intParam(r.URL.Query().Get("limit"), store.DefaultListLimit)
	if err != nil {
		writeError(w, errors.New(errors.ErrCodeInvalidInput, "invalid limit %q", r.URL.Query().Get("limit")))
		return
	}
	runs, err := s.Store.List(r.Context(), limit)
	if err != nil {
		writeError(w, errors.Wrap(errors.ErrCodeStorage, err, "list runs"))
		return
	}
	if runs == nil {
		runs = []store.Summary{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"runs": runs})
}

type runResponse struct {
	store.Summary
	Header       geom.Header        `json:"header"`
	WarningsList []boundary.Warning `json:"warning_details,omitempty"`
}

func (s *Server) handleGetRun(w http.ResponseWriter, r *http.Request) {
	run, ok := s.loadRun(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, runResponse{
		Summary:      run.Summary(),
		Header:       run.Header,
		WarningsList: run.Warnings,
	})
}

func (s *Server) handleDeleteRun(w http.ResponseWriter, r *http.Request) {
	if !s.requireStore(w) {
		return
	}
	id := chi.URLParam(r, "id")
	if err := errors.ValidateRunID(id); err != nil {
		writeError(w, err)
		return
	}
	if err := s.Store.Delete(r.Context(), id); err != nil {
		writeError(w, errors.Wrap(errors.ErrCodeStorage, err, "delete run"))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleGetArtifact(w http.ResponseWriter, r *http.Request) {
	run, ok := s.loadRun(w, r)
	if !ok {
		return
	}
	name := chi.URLParam(r, "name")
	if err := errors.ValidateArtifactName(name); err != nil {
		writeError(w, err)
		return
	}
	data, found := run.Artifacts[name]
	if !found {
		writeError(w, errors.New(errors.ErrCodeArtifactNotFound, "run %s has no artifact %q", run.ID, name))
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

// =============================================================================
// Helpers
// =============================================================================

func (s *Server) loadRun(w http.ResponseWriter, r *http.Request) (*store.Run, bool) {
	if !s.requireStore(w) {
		return nil, false
	}
	id := chi.URLParam(r, "id")
	if err := errors.ValidateRunID(id); err != nil {
		writeError(w, err)
		return nil, false
	}
	run, err := s.Store.Get(r.Context(), id)
	if stderrors.Is(err, store.ErrNotFound) {
		writeError(w, errors.New(errors.ErrCodeRunNotFound, "run %s not found", id))
		return nil, false
	}
	if err != nil {
		writeError(w, errors.Wrap(errors.ErrCodeStorage, err, "get run"))
		return nil, false
	}
	return run, true
}

func (s *Server) requireStore(w http.ResponseWriter) bool {
	if s.Store == nil {
		writeError(w, errors.New(errors.ErrCodeUnsupported, "run storage is disabled"))
		return false
	}
	return true
}

func (s *Server) maxBody() int64 {
	if s.MaxBody > 0 {
		return s.MaxBody
	}
	return DefaultMaxBody
}

func floatParam(v string, def float64) (float64, error) {
	if v == "" {
		return def, nil
	}
	return strconv.ParseFloat(v, 64)
}

func intParam(v string, def int) (int, error) {
	if v == "" {
		return def, nil
	}
	return strconv.Atoi(v)
}
