package server

import (
	"encoding/json"
	stderrors "errors"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/archviz/pkg/cache"
	"github.com/matzehuels/archviz/pkg/diagram"
	"github.com/matzehuels/archviz/pkg/errors"
	"github.com/matzehuels/archviz/pkg/export"
	"github.com/matzehuels/archviz/pkg/layout"
	"github.com/matzehuels/archviz/pkg/observability"
	"github.com/matzehuels/archviz/pkg/pipeline"
	"github.com/matzehuels/archviz/pkg/store"
)

// HealthResponse is the body of GET /health.
type HealthResponse struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
	Version   string `json:"version"`
	Cache     string `json:"cache"`
	Backend   string `json:"cache_backend"`
}

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Error     string `json:"error"`
	Code      string `json:"code,omitempty"`
	RequestID string `json:"request_id,omitempty"`
}

// LayoutResponse is the body of POST /layout.
type LayoutResponse struct {
	DiagramHash string        `json:"diagram_hash"`
	Layout      layout.Layout `json:"layout"`
}

// RenderList is the body of GET /renders.
type RenderList struct {
	Renders []*store.Record `json:"renders"`
	Total   int             `json:"total"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	resp := HealthResponse{
		Status:    "OK",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Version:   s.cfg.Version,
		Cache:     "disabled",
		Backend:   cache.BackendName(s.runner.Cache),
	}
	if resp.Backend == cache.BackendNone {
		writeJSON(w, http.StatusOK, resp)
		return
	}
	resp.Cache = "ok"
	if p, ok := s.runner.Cache.(Pinger); ok {
		if err := p.Ping(r.Context()); err != nil {
			s.logger.Warn("cache ping failed", "error", err)
			resp.Cache = "unavailable"
		}
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	d, err := s.readDiagram(w, r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	opts, err := s.options(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	format := r.URL.Query().Get("format")
	if format == "" {
		format = pipeline.FormatSVG
	}
	opts.Formats = []string{format}

	res, err := s.runner.Execute(r.Context(), d, opts)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	rec := store.NewRecord(d.Title(), res.DiagramHash)
	rec.Formats = opts.Formats
	rec.Nodes, rec.Groups, rec.Edges = res.Stats.NodeCount, res.Stats.GroupCount, res.Stats.EdgeCount
	rec.Width, rec.Height = res.Layout.Canvas.W, res.Layout.Canvas.H
	if err := s.store.Save(r.Context(), rec); err != nil {
		s.logger.Warn("save render record failed", "error", err)
	}

	w.Header().Set("Content-Type", contentType(format))
	w.Header().Set("X-Render-ID", rec.ID)
	w.Header().Set("X-Cache", cacheStatus(res.CacheInfo.RenderHit))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(res.Artifacts[format])
}

func (s *Server) handleLayout(w http.ResponseWriter, r *http.Request) {
	d, err := s.readDiagram(w, r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	opts, err := s.options(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	l, err := s.runner.Layout(r.Context(), d, opts)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	hash, _ := pipeline.HashDiagram(d)
	writeJSON(w, http.StatusOK, LayoutResponse{DiagramHash: hash, Layout: l})
}

func (s *Server) handleListRenders(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			s.writeError(w, r, errors.New(errors.ErrCodeInvalidInput, "invalid limit %q", v))
			return
		}
		limit = n
	}
	recs, err := s.store.List(r.Context(), limit)
	if err != nil {
		s.writeError(w, r, errors.Wrap(errors.ErrCodeInternal, err, "list renders"))
		return
	}
	if recs == nil {
		recs = []*store.Record{}
	}
	writeJSON(w, http.StatusOK, RenderList{Renders: recs, Total: len(recs)})
}

func (s *Server) handleGetRender(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	rec, err := s.store.Get(r.Context(), id)
	if stderrors.Is(err, store.ErrNotFound) {
		s.writeError(w, r, errors.New(errors.ErrCodeNotFound, "render %q not found", id))
		return
	}
	if err != nil {
		s.writeError(w, r, errors.Wrap(errors.ErrCodeInternal, err, "get render"))
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

// readDiagram decodes the request body as a description in the format named
// by ?input (json by default).
func (s *Server) readDiagram(w http.ResponseWriter, r *http.Request) (*diagram.Diagram, error) {
	input := r.URL.Query().Get("input")
	if input == "" {
		input = "json"
	}
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, s.cfg.MaxBodyBytes))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "read request body")
	}
	if len(body) == 0 {
		return nil, errors.New(errors.ErrCodeInvalidInput, "empty request body")
	}
	return pipeline.Parse(body, input)
}

// options applies query parameters over the configured defaults.
func (s *Server) options(r *http.Request) (pipeline.Options, error) {
	opts := s.cfg.Defaults
	opts.Logger = s.logger
	q := r.URL.Query()

	if v := q.Get("engine"); v != "" {
		opts.Engine = v
	}
	if v := q.Get("direction"); v != "" {
		opts.Direction = v
	}
	if v := q.Get("legend"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return opts, errors.New(errors.ErrCodeInvalidInput, "invalid legend %q", v)
		}
		opts.Legend = b
	}
	for name, dst := range map[string]*float64{
		"scale":   &opts.Scale,
		"padding": &opts.Padding,
	} {
		if v := q.Get(name); v != "" {
			f, err := strconv.ParseFloat(v, 64)
			if err != nil {
				return opts, errors.New(errors.ErrCodeInvalidInput, "invalid %s %q", name, v)
			}
			*dst = f
		}
	}
	return opts, nil
}

// statusFor maps an error code to an HTTP status.
func statusFor(err error) int {
	switch errors.GetCode(err) {
	case errors.ErrCodeInvalidInput, errors.ErrCodeInvalidFormat, errors.ErrCodeInvalidStyle,
		errors.ErrCodeInvalidReference, errors.ErrCodeInvalidConfig, errors.ErrCodeInvalidPath,
		errors.ErrCodeUnknownReference, errors.ErrCodeDuplicateID:
		return http.StatusBadRequest
	case errors.ErrCodeLayoutOverflow:
		return http.StatusUnprocessableEntity
	case errors.ErrCodeNotFound:
		return http.StatusNotFound
	}
	return http.StatusInternalServerError
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	code := string(errors.GetCode(err))
	observability.HTTP().OnError(r.Context(), r.Method, r.URL.Path, code, err)
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", "path", r.URL.Path, "error", err)
	}
	writeJSON(w, status, ErrorResponse{
		Error:     errors.UserMessage(err),
		Code:      code,
		RequestID: middleware.GetReqID(r.Context()),
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func contentType(format string) string {
	if format == pipeline.FormatDOT {
		return "text/vnd.graphviz; charset=utf-8"
	}
	if f, err := export.ParseFormat(format); err == nil {
		return f.ContentType()
	}
	return "application/octet-stream"
}

func cacheStatus(hit bool) string {
	if hit {
		return "hit"
	}
	return "miss"
}
