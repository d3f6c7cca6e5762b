package http

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"sync"
	"time"

	sharedobs "github.com/couchcryptid/storm-data-shared/observability"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/couchcryptid/temperature-heatmap/internal/adapter/svg"
	"github.com/couchcryptid/temperature-heatmap/internal/heatmap"
	"github.com/couchcryptid/temperature-heatmap/internal/observability"
	"github.com/couchcryptid/temperature-heatmap/internal/pipeline"
)

// Renderer serves snapshots and measurement lookups. *pipeline.Pipeline implements it.
type Renderer interface {
	sharedobs.ReadinessChecker
	Snapshot() (*heatmap.Snapshot, error)
	Render(layout heatmap.Layout) (*heatmap.Snapshot, error)
	Lookup(year, month int) (heatmap.Measurement, float64, error)
}

// Server exposes the heat-map, tooltip, health, readiness, and metrics endpoints.
type Server struct {
	httpServer *http.Server
	renderer   Renderer
	layout     heatmap.Layout
	metrics    *observability.Metrics
	logger     *slog.Logger

	mu      sync.Mutex // serializes pointer events into the tooltip
	tooltip *heatmap.Tooltip
}

// NewServer creates an HTTP server. layout is the base layout that width and
// height query parameters override.
func NewServer(addr string, r Renderer, layout heatmap.Layout, metrics *observability.Metrics, logger *slog.Logger) *Server {
	mux := http.NewServeMux()

	s := &Server{
		httpServer: &http.Server{
			Addr:         addr,
			Handler:      mux,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 10 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		renderer: r,
		layout:   layout,
		metrics:  metrics,
		logger:   logger,
	}
	s.tooltip = heatmap.NewTooltip(s.observeTooltip)

	mux.HandleFunc("GET /healthz", sharedobs.LivenessHandler())
	mux.HandleFunc("GET /readyz", sharedobs.ReadinessHandler(r))
	mux.Handle("GET /metrics", promhttp.Handler())

	mux.HandleFunc("GET /api/heatmap", s.handleHeatmap)
	mux.HandleFunc("GET /heatmap.svg", s.handleSVG)
	mux.HandleFunc("GET /api/tooltip", s.handleTooltip)
	mux.HandleFunc("POST /api/tooltip/hover", s.handleHover)
	mux.HandleFunc("POST /api/tooltip/unhover", s.handleUnhover)

	return s
}

// Start begins listening. Returns http.ErrServerClosed on graceful shutdown.
func (s *Server) Start() error {
	s.logger.Info("http server starting", "addr", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully drains connections within the given context deadline.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// ServeHTTP delegates to the underlying handler, useful for testing.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.httpServer.Handler.ServeHTTP(w, r)
}

func (s *Server) handleHeatmap(w http.ResponseWriter, r *http.Request) {
	snap, ok := s.snapshotFor(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, snap)
}

func (s *Server) handleSVG(w http.ResponseWriter, r *http.Request) {
	snap, ok := s.snapshotFor(w, r)
	if !ok {
		return
	}
	var buf bytes.Buffer
	if err := svg.Render(&buf, snap); err != nil {
		s.logger.Error("svg render failed", "error", err)
		writeError(w, http.StatusInternalServerError, errors.New("render svg"))
		return
	}
	w.Header().Set("Content-Type", "image/svg+xml")
	w.WriteHeader(http.StatusOK)
	w.Write(buf.Bytes()) //nolint:errcheck // client went away
}

// snapshotFor resolves the snapshot for the request's optional width and height.
func (s *Server) snapshotFor(w http.ResponseWriter, r *http.Request) (*heatmap.Snapshot, bool) {
	layout, err := s.layoutFromQuery(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return nil, false
	}

	var snap *heatmap.Snapshot
	if layout == s.layout {
		snap, err = s.renderer.Snapshot()
	} else {
		snap, err = s.renderer.Render(layout)
	}
	if err != nil {
		writeError(w, statusFor(err), err)
		return nil, false
	}
	return snap, true
}

func (s *Server) layoutFromQuery(r *http.Request) (heatmap.Layout, error) {
	layout := s.layout
	q := r.URL.Query()
	if v := q.Get("width"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return layout, errors.New("invalid width")
		}
		layout.Width = f
	}
	if v := q.Get("height"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return layout, errors.New("invalid height")
		}
		layout.Height = f
	}
	return layout, layout.Validate()
}

type hoverRequest struct {
	Year  int     `json:"year"`
	Month int     `json:"month"`
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
}

func (s *Server) handleHover(w http.ResponseWriter, r *http.Request) {
	var req hoverRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, errors.New("invalid hover request"))
		return
	}
	m, base, err := s.renderer.Lookup(req.Year, req.Month)
	if err != nil {
		writeError(w, statusFor(err), err)
		return
	}

	s.mu.Lock()
	st := s.tooltip.OnHover(m, base, req.X, req.Y)
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, st)
}

func (s *Server) handleUnhover(w http.ResponseWriter, _ *http.Request) {
	s.mu.Lock()
	st := s.tooltip.OnUnhover()
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, st)
}

func (s *Server) handleTooltip(w http.ResponseWriter, _ *http.Request) {
	s.mu.Lock()
	st := s.tooltip.State()
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, st)
}

func (s *Server) observeTooltip(st heatmap.TooltipState) {
	state := "hidden"
	if st.Visible {
		state = "visible"
	}
	s.metrics.TooltipTransitions.WithLabelValues(state).Inc()
	s.logger.Debug("tooltip transition", "state", state, "year", st.ActiveYear, "text", st.DisplayText)
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, pipeline.ErrNotReady):
		return http.StatusServiceUnavailable
	case errors.Is(err, pipeline.ErrNoMeasurement):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

// writeJSON encodes v before committing the status, so an encoding failure
// becomes a 500 instead of a truncated response.
func writeJSON(w http.ResponseWriter, status int, v any) {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(v); err != nil {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		fmt.Fprintf(w, "{\"error\":%q}\n", "encode response: "+err.Error())
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(buf.Bytes()) //nolint:errcheck // client went away
}
