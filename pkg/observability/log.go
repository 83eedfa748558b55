package observability

import (
	"context"
	"time"

	"github.com/charmbracelet/log"
)

// LogHooks implements every hook interface by writing debug-level entries to
// a charmbracelet logger. The CLI registers it under --verbose and the
// service registers it at startup.
type LogHooks struct {
	logger *log.Logger
}

// NewLogHooks returns hooks that log through logger. A nil logger uses the
// package default.
func NewLogHooks(logger *log.Logger) *LogHooks {
	if logger == nil {
		logger = log.Default()
	}
	return &LogHooks{logger: logger}
}

func (h *LogHooks) OnLayoutStart(_ context.Context, nodeCount, groupCount int) {
	h.logger.Debug("layout start", "nodes", nodeCount, "groups", groupCount)
}

func (h *LogHooks) OnLayoutComplete(_ context.Context, d time.Duration, err error) {
	if err != nil {
		h.logger.Debug("layout failed", "duration", d, "error", err)
		return
	}
	h.logger.Debug("layout complete", "duration", d)
}

func (h *LogHooks) OnRenderStart(_ context.Context, formats []string) {
	h.logger.Debug("render start", "formats", formats)
}

func (h *LogHooks) OnRenderComplete(_ context.Context, formats []string, d time.Duration, err error) {
	if err != nil {
		h.logger.Debug("render failed", "formats", formats, "duration", d, "error", err)
		return
	}
	h.logger.Debug("render complete", "formats", formats, "duration", d)
}

func (h *LogHooks) OnExportStart(_ context.Context, format, path string) {
	h.logger.Debug("export start", "format", format, "path", path)
}

func (h *LogHooks) OnExportComplete(_ context.Context, format, path string, size int, err error) {
	if err != nil {
		h.logger.Debug("export failed", "format", format, "path", path, "error", err)
		return
	}
	h.logger.Debug("export complete", "format", format, "path", path, "bytes", size)
}

func (h *LogHooks) OnCacheHit(_ context.Context, keyType string) {
	h.logger.Debug("cache hit", "type", keyType)
}

func (h *LogHooks) OnCacheMiss(_ context.Context, keyType string) {
	h.logger.Debug("cache miss", "type", keyType)
}

func (h *LogHooks) OnCacheSet(_ context.Context, keyType string, size int) {
	h.logger.Debug("cache set", "type", keyType, "bytes", size)
}

func (h *LogHooks) OnRequest(_ context.Context, method, path string) {
	h.logger.Debug("request", "method", method, "path", path)
}

func (h *LogHooks) OnResponse(_ context.Context, method, path string, status int, d time.Duration) {
	h.logger.Info("response", "method", method, "path", path, "status", status, "duration", d)
}

func (h *LogHooks) OnError(_ context.Context, method, path, code string, err error) {
	h.logger.Warn("request failed", "method", method, "path", path, "code", code, "error", err)
}

var (
	_ PipelineHooks = (*LogHooks)(nil)
	_ CacheHooks    = (*LogHooks)(nil)
	_ HTTPHooks     = (*LogHooks)(nil)
)
