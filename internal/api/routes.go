// routes.go - Route registration
package api

import (
	"github.com/labstack/echo/v4"
)

// RegisterRoutes registers all API routes with the Echo instance.
// allowDeletion gates the file deletion endpoint per configuration.
func RegisterRoutes(e *echo.Echo, h *Handler, ws *WebSocketHandler, allowDeletion bool) {
	apiGroup := e.Group("/api")

	// Health check
	apiGroup.GET("/health", h.HandleHealth)

	// WebSocket progress stream
	apiGroup.GET("/ws/analysis/:sessionId", ws.HandleAnalysisProgress)

	// File management
	apiGroup.POST("/files/upload", h.HandleUploadFile)
	apiGroup.POST("/files/upload/chunk", h.HandleUploadChunk)
	apiGroup.POST("/files/upload/complete", h.HandleCompleteUpload)
	apiGroup.GET("/files/upload/:jobId/status", h.HandleUploadJobStatus)
	apiGroup.GET("/files/recent", h.HandleRecentFiles)
	apiGroup.GET("/files/:id", h.HandleGetFile)
	apiGroup.PUT("/files/:id", h.HandleRenameFile)
	if allowDeletion {
		apiGroup.DELETE("/files/:id", h.HandleDeleteFile)
	}

	// Analysis sessions
	apiGroup.POST("/analyze", h.HandleStartAnalysis)
	apiGroup.GET("/analyze/:sessionId/status", h.HandleAnalysisStatus)
	apiGroup.GET("/analyze/:sessionId/result", h.HandleAnalysisResult)
	apiGroup.GET("/analyze/:sessionId/events", h.HandleAnalysisEvents)
	apiGroup.GET("/analyze/:sessionId/events/msgpack", h.HandleAnalysisEventsMsgpack)
	apiGroup.POST("/analyze/:sessionId/keepalive", h.HandleSessionKeepAlive)
	apiGroup.DELETE("/analyze/:sessionId", h.HandleDeleteSession)
	apiGroup.POST("/analyze/:sessionId/enrich", h.HandleEnrich)

	// Signature catalog
	apiGroup.GET("/catalog", h.HandleGetCatalog)
	apiGroup.POST("/catalog", h.HandleUploadCatalog)
}
