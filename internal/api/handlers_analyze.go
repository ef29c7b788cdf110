// handlers_analyze.go - Analysis session handlers
package api

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/log-sentinel/backend/internal/models"
)

const (
	defaultEventPageSize = 500
	maxEventPageSize     = 5000
)

// HandleStartAnalysis starts an analysis session for one or more uploaded
// files. Accepts either {"fileId": "id"} or {"fileIds": ["id1", ...]}.
func (h *Handler) HandleStartAnalysis(c echo.Context) error {
	var req struct {
		FileID  string   `json:"fileId"`
		FileIDs []string `json:"fileIds"`
	}
	if err := c.Bind(&req); err != nil {
		return NewBadRequestError("invalid request body", err)
	}

	var fileIDs []string
	if len(req.FileIDs) > 0 {
		fileIDs = req.FileIDs
	} else if req.FileID != "" {
		fileIDs = []string{req.FileID}
	} else {
		return NewValidationError("fileId")
	}

	for _, id := range fileIDs {
		if _, err := h.store.Get(id); err != nil {
			return NewNotFoundError("file", id)
		}
	}

	session, err := h.sessions.StartAnalysis(fileIDs)
	if err != nil {
		return NewInternalError("failed to start analysis", err)
	}

	return c.JSON(http.StatusAccepted, session)
}

// HandleAnalysisStatus returns session metadata including progress.
func (h *Handler) HandleAnalysisStatus(c echo.Context) error {
	id := c.Param("sessionId")
	session, ok := h.sessions.GetSession(id)
	if !ok {
		return NewNotFoundError("session", id)
	}
	return c.JSON(http.StatusOK, session)
}

// HandleAnalysisResult returns the finished snapshot. Per-file failures are
// reported in the session's errors; successfully analyzed files still
// contribute.
func (h *Handler) HandleAnalysisResult(c echo.Context) error {
	id := c.Param("sessionId")
	session, ok := h.sessions.GetSession(id)
	if !ok {
		return NewNotFoundError("session", id)
	}

	snapshot, ok := h.sessions.GetSnapshot(id)
	if !ok {
		return c.JSON(http.StatusAccepted, map[string]interface{}{
			"status":   session.Status,
			"progress": session.Progress,
		})
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"session":  session,
		"snapshot": snapshot,
	})
}

// HandleAnalysisEvents returns one page of the session's security events.
func (h *Handler) HandleAnalysisEvents(c echo.Context) error {
	id := c.Param("sessionId")
	page, pageSize := eventPaging(c)

	ctx, cancel := context.WithTimeout(c.Request().Context(), 30*time.Second)
	defer cancel()

	events, total, ok := h.sessions.GetEvents(ctx, id, page, pageSize)
	if !ok {
		return NewNotFoundError("session", id)
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"events":   events,
		"total":    total,
		"page":     page,
		"pageSize": pageSize,
	})
}

// HandleAnalysisEventsMsgpack returns one page of events msgpack-encoded
// for large result sets.
func (h *Handler) HandleAnalysisEventsMsgpack(c echo.Context) error {
	id := c.Param("sessionId")
	page, pageSize := eventPaging(c)

	ctx, cancel := context.WithTimeout(c.Request().Context(), 30*time.Second)
	defer cancel()

	events, total, ok := h.sessions.GetEvents(ctx, id, page, pageSize)
	if !ok {
		return NewNotFoundError("session", id)
	}

	data, err := msgpack.Marshal(map[string]interface{}{
		"events":   events,
		"total":    total,
		"page":     page,
		"pageSize": pageSize,
	})
	if err != nil {
		return NewInternalError("failed to encode msgpack", err)
	}

	return c.Blob(http.StatusOK, "application/msgpack", data)
}

// HandleSessionKeepAlive refreshes a session's cleanup timer.
func (h *Handler) HandleSessionKeepAlive(c echo.Context) error {
	id := c.Param("sessionId")
	if !h.sessions.TouchSession(id) {
		return NewNotFoundError("session", id)
	}
	return c.NoContent(http.StatusNoContent)
}

// HandleDeleteSession discards a session and its spooled events.
func (h *Handler) HandleDeleteSession(c echo.Context) error {
	h.sessions.DeleteSession(c.Param("sessionId"))
	return c.NoContent(http.StatusNoContent)
}

// HandleEnrich forwards a session's events to the external advisory
// service. Upstream failure degrades to an empty recommendation list with
// the error surfaced; the baseline snapshot is unaffected.
func (h *Handler) HandleEnrich(c echo.Context) error {
	id := c.Param("sessionId")

	var req struct {
		APIKey string `json:"apiKey"`
	}
	if err := c.Bind(&req); err != nil {
		return NewBadRequestError("invalid request body", err)
	}
	if req.APIKey == "" {
		return NewValidationError("apiKey")
	}
	if !h.enrichment.Enabled || h.enrichment.Endpoint == "" {
		return NewBadRequestError("enrichment is not configured", nil)
	}

	snapshot, ok := h.sessions.GetSnapshot(id)
	if !ok {
		return NewNotFoundError("session", id)
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 60*time.Second)
	defer cancel()

	recommendations, err := h.newAdvisor(req.APIKey).Advise(ctx, snapshot.Events)
	if err != nil {
		return c.JSON(http.StatusBadGateway, map[string]interface{}{
			"recommendations": []models.Recommendation{},
			"error":           err.Error(),
		})
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"recommendations": recommendations,
	})
}

func eventPaging(c echo.Context) (page, pageSize int) {
	page, _ = strconv.Atoi(c.QueryParam("page"))
	if page < 1 {
		page = 1
	}
	pageSize, _ = strconv.Atoi(c.QueryParam("pageSize"))
	if pageSize < 1 {
		pageSize = defaultEventPageSize
	}
	if pageSize > maxEventPageSize {
		pageSize = maxEventPageSize
	}
	return page, pageSize
}
