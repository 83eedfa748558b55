package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/archviz/pkg/cache"
	aerrors "github.com/matzehuels/archviz/pkg/errors"
	"github.com/matzehuels/archviz/pkg/pipeline"
	"github.com/matzehuels/archviz/pkg/store"
)

const description = `{
  "title": "Redis",
  "children": [
    {"id": "app", "label": "App", "style": "compute"},
    {"id": "redis", "label": "Redis", "style": "database"}
  ],
  "edges": [{"from": "app", "to": "redis", "label": "6379"}]
}`

func newTestServer(t *testing.T) *Server {
	t.Helper()
	logger := log.NewWithOptions(io.Discard, log.Options{})
	runner := pipeline.NewRunner(nil, nil, logger)
	return New(Config{Version: "test"}, runner, store.NewMemoryStore(), logger)
}

func do(t *testing.T, s *Server, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, r)
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(w.Body.Bytes(), &v); err != nil {
		t.Fatalf("decode %q: %v", w.Body.String(), err)
	}
	return v
}

func TestHealth(t *testing.T) {
	s := newTestServer(t)
	w := do(t, s, http.MethodGet, "/health", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	resp := decode[HealthResponse](t, w)
	if resp.Status != "OK" || resp.Version != "test" || resp.Cache != "disabled" || resp.Backend != cache.BackendNone {
		t.Errorf("health = %+v", resp)
	}
	if _, err := time.Parse(time.RFC3339, resp.Timestamp); err != nil {
		t.Errorf("timestamp %q: %v", resp.Timestamp, err)
	}
}

type pingCache struct {
	cache.Cache
	err error
}

func (p pingCache) Ping(context.Context) error { return p.err }

func TestHealthCachePing(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{nil, "ok"},
		{errors.New("connection refused"), "unavailable"},
	}
	for _, tt := range tests {
		runner := pipeline.NewRunner(pingCache{Cache: cache.NewNullCache(), err: tt.err}, nil, nil)
		s := New(Config{}, runner, nil, log.NewWithOptions(io.Discard, log.Options{}))
		w := do(t, s, http.MethodGet, "/health", "")
		if got := decode[HealthResponse](t, w).Cache; got != tt.want {
			t.Errorf("cache = %q, want %q", got, tt.want)
		}
	}
}

func TestHealthFileCache(t *testing.T) {
	fc, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	s := New(Config{}, pipeline.NewRunner(fc, nil, nil), nil, log.NewWithOptions(io.Discard, log.Options{}))
	resp := decode[HealthResponse](t, do(t, s, http.MethodGet, "/health", ""))
	if resp.Cache != "ok" || resp.Backend != cache.BackendFile {
		t.Errorf("health = %+v, want ok/file", resp)
	}
}

func TestRender(t *testing.T) {
	tests := []struct {
		query       string
		contentType string
		prefix      []byte
	}{
		{"", "image/svg+xml", []byte("<svg")},
		{"?format=png", "image/png", []byte("\x89PNG")},
		{"?format=dot", "text/vnd.graphviz; charset=utf-8", []byte("digraph")},
		{"?format=svg&engine=graphviz", "image/svg+xml", nil},
	}
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			s := newTestServer(t)
			w := do(t, s, http.MethodPost, "/render"+tt.query, description)
			if w.Code != http.StatusOK {
				t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
			}
			if got := w.Header().Get("Content-Type"); got != tt.contentType {
				t.Errorf("Content-Type = %q, want %q", got, tt.contentType)
			}
			if tt.prefix != nil && !bytes.HasPrefix(w.Body.Bytes(), tt.prefix) {
				t.Errorf("body starts with %q", w.Body.Bytes()[:min(16, w.Body.Len())])
			}
			if w.Header().Get("X-Render-ID") == "" {
				t.Error("missing X-Render-ID")
			}
		})
	}
}

func TestRenderYAMLInput(t *testing.T) {
	s := newTestServer(t)
	body := "children:\n  - id: a\n  - id: b\nedges:\n  - {from: a, to: b}\n"
	w := do(t, s, http.MethodPost, "/render?input=yaml", body)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
	}
}

func TestRenderErrors(t *testing.T) {
	tests := []struct {
		name   string
		query  string
		body   string
		status int
		code   aerrors.Code
	}{
		{"empty body", "", "", http.StatusBadRequest, aerrors.ErrCodeInvalidInput},
		{"malformed json", "", "{", http.StatusBadRequest, aerrors.ErrCodeInvalidFormat},
		{"unknown reference", "", `{"children":[{"id":"a"}],"edges":[{"from":"a","to":"zz"}]}`, http.StatusBadRequest, aerrors.ErrCodeUnknownReference},
		{"duplicate id", "", `{"children":[{"id":"a"},{"id":"a"}]}`, http.StatusBadRequest, aerrors.ErrCodeDuplicateID},
		{"bad format", "?format=gif", description, http.StatusBadRequest, aerrors.ErrCodeInvalidFormat},
		{"bad engine", "?engine=dagre", description, http.StatusBadRequest, aerrors.ErrCodeInvalidInput},
		{"bad scale", "?scale=big", description, http.StatusBadRequest, aerrors.ErrCodeInvalidInput},
		{"overflow", "?padding=5000", description, http.StatusUnprocessableEntity, aerrors.ErrCodeLayoutOverflow},
		{"png scale over limit", "?format=png&scale=1e9", description, http.StatusUnprocessableEntity, aerrors.ErrCodeLayoutOverflow},
		{"nan scale", "?format=png&scale=NaN", description, http.StatusBadRequest, aerrors.ErrCodeInvalidInput},
		{"inf scale", "?format=png&scale=Inf", description, http.StatusBadRequest, aerrors.ErrCodeInvalidInput},
		{"nan padding", "?padding=NaN", description, http.StatusBadRequest, aerrors.ErrCodeInvalidInput},
		{"quoted edge color", "", `{"children":[{"id":"a"},{"id":"b"}],"edges":[{"from":"a","to":"b","color":"#f00\" onmouseover=\"alert(1)"}]}`, http.StatusBadRequest, aerrors.ErrCodeInvalidStyle},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := New(Config{Defaults: pipeline.Options{MaxWidth: 4096, MaxHeight: 4096}}, nil, nil,
				log.NewWithOptions(io.Discard, log.Options{}))
			w := do(t, s, http.MethodPost, "/render"+tt.query, tt.body)
			if w.Code != tt.status {
				t.Errorf("status = %d, want %d (body %s)", w.Code, tt.status, w.Body.String())
			}
			resp := decode[ErrorResponse](t, w)
			if resp.Code != string(tt.code) {
				t.Errorf("code = %q, want %q", resp.Code, tt.code)
			}
			if resp.Error == "" {
				t.Error("empty error message")
			}
		})
	}
}

func TestRenderSVGEscapesTitle(t *testing.T) {
	s := newTestServer(t)
	body := `{"title":"<script>x</script>","children":[{"id":"a","label":"\"><img onerror=1>"}]}`
	w := do(t, s, http.MethodPost, "/render", body)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
	}
	out := w.Body.String()
	if strings.Contains(out, "<script>") || strings.Contains(out, "<img") {
		t.Errorf("unescaped markup in svg:\n%s", out)
	}
}

func TestLayout(t *testing.T) {
	s := newTestServer(t)
	w := do(t, s, http.MethodPost, "/layout?direction=LR", description)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
	}
	resp := decode[LayoutResponse](t, w)
	app, redis := resp.Layout.Rects["app"], resp.Layout.Rects["redis"]
	if app.Y != redis.Y || redis.X <= app.X {
		t.Errorf("LR layout: app=%+v redis=%+v", app, redis)
	}
	if resp.DiagramHash == "" {
		t.Error("missing diagram hash")
	}
}

func TestRendersHistory(t *testing.T) {
	s := newTestServer(t)

	w := do(t, s, http.MethodGet, "/renders", "")
	if got := decode[RenderList](t, w); got.Total != 0 || got.Renders == nil {
		t.Errorf("empty history = %+v", got)
	}

	render := do(t, s, http.MethodPost, "/render", description)
	id := render.Header().Get("X-Render-ID")

	list := decode[RenderList](t, do(t, s, http.MethodGet, "/renders?limit=10", ""))
	if list.Total != 1 || list.Renders[0].ID != id {
		t.Fatalf("history = %+v", list)
	}

	w = do(t, s, http.MethodGet, "/renders/"+id, "")
	if w.Code != http.StatusOK {
		t.Fatalf("get status = %d", w.Code)
	}
	rec := decode[store.Record](t, w)
	if rec.Title != "Redis" || rec.Nodes != 2 || rec.Edges != 1 || rec.Width == 0 {
		t.Errorf("record = %+v", rec)
	}
	if len(rec.Formats) != 1 || rec.Formats[0] != "svg" {
		t.Errorf("formats = %v", rec.Formats)
	}

	w = do(t, s, http.MethodGet, "/renders/00000000-0000-0000-0000-000000000000", "")
	if w.Code != http.StatusNotFound {
		t.Errorf("missing record status = %d, want 404", w.Code)
	}

	w = do(t, s, http.MethodGet, "/renders?limit=-1", "")
	if w.Code != http.StatusBadRequest {
		t.Errorf("negative limit status = %d, want 400", w.Code)
	}
}

func TestMethodNotAllowed(t *testing.T) {
	s := newTestServer(t)
	if w := do(t, s, http.MethodGet, "/render", ""); w.Code != http.StatusMethodNotAllowed {
		t.Errorf("GET /render status = %d, want 405", w.Code)
	}
}

func TestStatusFor(t *testing.T) {
	tests := []struct {
		code aerrors.Code
		want int
	}{
		{aerrors.ErrCodeInvalidInput, 400},
		{aerrors.ErrCodeUnknownReference, 400},
		{aerrors.ErrCodeDuplicateID, 400},
		{aerrors.ErrCodeLayoutOverflow, 422},
		{aerrors.ErrCodeNotFound, 404},
		{aerrors.ErrCodeExportIO, 500},
	}
	for _, tt := range tests {
		if got := statusFor(aerrors.New(tt.code, "x")); got != tt.want {
			t.Errorf("statusFor(%s) = %d, want %d", tt.code, got, tt.want)
		}
	}
	if got := statusFor(errors.New("plain")); got != 500 {
		t.Errorf("statusFor(plain) = %d, want 500", got)
	}
}
