// Package api exposes the HTTP surface of the security log analyzer.
package api

import (
	"context"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/log-sentinel/backend/internal/analyzer"
	"github.com/log-sentinel/backend/internal/enrich"
	"github.com/log-sentinel/backend/internal/models"
	"github.com/log-sentinel/backend/internal/storage"
	"github.com/log-sentinel/backend/internal/upload"
)

// SessionManager defines the interface the handlers need from the session
// layer. It allows mocking in tests.
type SessionManager interface {
	StartAnalysis(fileIDs []string) (*models.AnalysisSession, error)
	GetSession(id string) (*models.AnalysisSession, bool)
	GetSnapshot(id string) (*models.AnalysisSnapshot, bool)
	GetEvents(ctx context.Context, id string, page, pageSize int) ([]models.SecurityEvent, int, bool)
	TouchSession(id string) bool
	DeleteSession(id string)
	SetEngine(engine *analyzer.Engine)
}

// EnrichmentSettings carries the advisory service configuration into the
// enrich handler. A zero Timeout keeps the advisor's default.
type EnrichmentSettings struct {
	Enabled  bool
	Endpoint string
	Timeout  time.Duration
}

// Handler handles API requests.
type Handler struct {
	store         storage.Store
	sessions      SessionManager
	uploadManager *upload.Manager
	enrichment    EnrichmentSettings

	mu     sync.RWMutex
	engine *analyzer.Engine

	allowedExtensions map[string]bool // nil allows any
}

// NewHandler creates a new API handler.
func NewHandler(store storage.Store, sessions SessionManager, uploadMgr *upload.Manager, engine *analyzer.Engine) *Handler {
	return &Handler{
		store:         store,
		sessions:      sessions,
		uploadManager: uploadMgr,
		engine:        engine,
	}
}

// SetEnrichment configures the external advisory service.
func (h *Handler) SetEnrichment(settings EnrichmentSettings) {
	h.enrichment = settings
}

// SetAllowedFileTypes restricts uploads to the given comma-separated
// extension list (".log,.txt,..."). An empty list allows any extension.
func (h *Handler) SetAllowedFileTypes(list string) {
	if strings.TrimSpace(list) == "" {
		h.allowedExtensions = nil
		return
	}
	allowed := make(map[string]bool)
	for _, ext := range strings.Split(list, ",") {
		ext = strings.ToLower(strings.TrimSpace(ext))
		ext = strings.TrimPrefix(ext, ".")
		if ext != "" {
			allowed[ext] = true
		}
	}
	h.allowedExtensions = allowed
}

func (h *Handler) extensionAllowed(filename string) bool {
	if h.allowedExtensions == nil {
		return true
	}
	idx := strings.LastIndexByte(filename, '.')
	if idx < 0 {
		return false
	}
	return h.allowedExtensions[strings.ToLower(filename[idx+1:])]
}

// currentEngine returns the engine backing new classifications.
func (h *Handler) currentEngine() *analyzer.Engine {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.engine
}

// swapEngine replaces the engine after a catalog change and propagates it to
// the session layer.
func (h *Handler) swapEngine(engine *analyzer.Engine) {
	h.mu.Lock()
	h.engine = engine
	h.mu.Unlock()
	h.sessions.SetEngine(engine)
}

// newAdvisor builds an enrichment client for one request.
func (h *Handler) newAdvisor(apiKey string) *enrich.Advisor {
	var opts []enrich.Option
	if h.enrichment.Timeout > 0 {
		opts = append(opts, enrich.WithTimeout(h.enrichment.Timeout))
	}
	return enrich.New(h.enrichment.Endpoint, apiKey, opts...)
}

// HandleHealth returns server health status.
func (h *Handler) HandleHealth(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"status": "ok",
	})
}
