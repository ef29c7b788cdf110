// handlers_catalog.go - Signature catalog handlers
package api

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/log-sentinel/backend/internal/analyzer"
	"github.com/log-sentinel/backend/internal/catalog"
)

// HandleGetCatalog returns the active signature catalog in declaration
// (priority) order.
func (h *Handler) HandleGetCatalog(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]interface{}{
		"signatures": h.currentEngine().Catalog().Signatures(),
	})
}

// HandleUploadCatalog replaces the active catalog with an operator-supplied
// YAML catalog, uploaded as a multipart form field named "file". The new
// catalog applies to sessions started after the swap.
func (h *Handler) HandleUploadCatalog(c echo.Context) error {
	file, err := c.FormFile("file")
	if err != nil {
		return NewBadRequestError("catalog file is required", err)
	}
	src, err := file.Open()
	if err != nil {
		return NewBadRequestError("failed to open catalog file", err)
	}
	defer src.Close()

	cat, err := catalog.ParseFromReader(src)
	if err != nil {
		return NewBadRequestError("invalid catalog", err)
	}

	h.swapEngine(analyzer.NewEngine(cat))

	return c.JSON(http.StatusCreated, map[string]interface{}{
		"signatureCount": cat.Len(),
	})
}
