// handlers_upload.go - File upload and file management handlers
package api

import (
	"encoding/base64"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/log-sentinel/backend/internal/models"
)

// HandleUploadFile accepts one log file, either as a multipart form field
// named "file" or as base64 JSON {"name": ..., "data": ...}.
func (h *Handler) HandleUploadFile(c echo.Context) error {
	if file, err := c.FormFile("file"); err == nil {
		if !h.extensionAllowed(file.Filename) {
			return NewBadRequestError("file type not allowed: "+file.Filename, nil)
		}
		src, err := file.Open()
		if err != nil {
			return NewBadRequestError("failed to open uploaded file", err)
		}
		defer src.Close()

		info, err := h.store.Save(file.Filename, src)
		if err != nil {
			return NewInternalError("failed to save file", err)
		}
		return c.JSON(http.StatusCreated, info)
	}

	var req struct {
		Name string `json:"name"`
		Data string `json:"data"` // base64-encoded file content
	}
	if err := c.Bind(&req); err != nil {
		return NewBadRequestError("invalid request body", err)
	}
	if req.Name == "" {
		return NewValidationError("name")
	}
	if req.Data == "" {
		return NewValidationError("data")
	}
	if !h.extensionAllowed(req.Name) {
		return NewBadRequestError("file type not allowed: "+req.Name, nil)
	}

	decoded, err := base64.StdEncoding.DecodeString(req.Data)
	if err != nil {
		return NewBadRequestError("invalid base64 data", err)
	}

	info, err := h.store.SaveBytes(req.Name, decoded)
	if err != nil {
		return NewInternalError("failed to save file", err)
	}
	return c.JSON(http.StatusCreated, info)
}

// HandleUploadChunk accepts a single chunk of a chunked upload, either as a
// multipart form with "uploadId", "chunkIndex" and "file" fields or as
// base64 JSON {"uploadId": ..., "chunkIndex": ..., "data": ...}.
func (h *Handler) HandleUploadChunk(c echo.Context) error {
	if file, err := c.FormFile("file"); err == nil {
		uploadID := c.FormValue("uploadId")
		if uploadID == "" {
			return NewValidationError("uploadId")
		}
		chunkIndex, err := strconv.Atoi(c.FormValue("chunkIndex"))
		if err != nil || chunkIndex < 0 {
			return NewValidationError("chunkIndex")
		}

		src, err := file.Open()
		if err != nil {
			return NewBadRequestError("failed to open chunk", err)
		}
		defer src.Close()

		if err := h.store.SaveChunk(uploadID, chunkIndex, src); err != nil {
			return NewInternalError("failed to save chunk", err)
		}
		return c.NoContent(http.StatusAccepted)
	}

	var req struct {
		UploadID   string `json:"uploadId"`
		ChunkIndex int    `json:"chunkIndex"`
		Data       string `json:"data"` // base64-encoded chunk content
	}
	if err := c.Bind(&req); err != nil {
		return NewBadRequestError("invalid request body", err)
	}
	if req.UploadID == "" {
		return NewValidationError("uploadId")
	}
	if req.ChunkIndex < 0 {
		return NewValidationError("chunkIndex")
	}
	if req.Data == "" {
		return NewValidationError("data")
	}

	decoded, err := base64.StdEncoding.DecodeString(req.Data)
	if err != nil {
		return NewBadRequestError("invalid base64 data", err)
	}

	if err := h.store.SaveChunkBytes(req.UploadID, req.ChunkIndex, decoded); err != nil {
		return NewInternalError("failed to save chunk", err)
	}
	return c.NoContent(http.StatusAccepted)
}

// HandleCompleteUpload completes a chunked upload and starts async
// assembly/decompression.
func (h *Handler) HandleCompleteUpload(c echo.Context) error {
	var req struct {
		UploadID       string `json:"uploadId"`
		Name           string `json:"name"`
		TotalChunks    int    `json:"totalChunks"`
		OriginalSize   int64  `json:"originalSize"`
		CompressedSize int64  `json:"compressedSize"`
		Encoding       string `json:"encoding"` // "gzip" or ""
	}
	if err := c.Bind(&req); err != nil {
		return NewBadRequestError("invalid request body", err)
	}
	if req.UploadID == "" {
		return NewValidationError("uploadId")
	}
	if req.Name == "" {
		return NewValidationError("name")
	}
	if req.TotalChunks <= 0 {
		return NewValidationError("totalChunks")
	}
	if !h.extensionAllowed(req.Name) {
		return NewBadRequestError("file type not allowed: "+req.Name, nil)
	}

	job := h.uploadManager.StartJob(
		req.UploadID,
		req.Name,
		req.TotalChunks,
		req.OriginalSize,
		req.CompressedSize,
		req.Encoding,
	)

	return c.JSON(http.StatusAccepted, map[string]interface{}{
		"jobId":  job.ID,
		"status": job.Status,
	})
}

// HandleUploadJobStatus returns the status of an async upload job.
func (h *Handler) HandleUploadJobStatus(c echo.Context) error {
	job, ok := h.uploadManager.GetJob(c.Param("jobId"))
	if !ok {
		return NewNotFoundError("upload job", c.Param("jobId"))
	}
	return c.JSON(http.StatusOK, job)
}

// HandleRecentFiles returns a list of recently uploaded files.
func (h *Handler) HandleRecentFiles(c echo.Context) error {
	files, err := h.store.List(20)
	if err != nil {
		return NewInternalError("failed to list files", err)
	}
	if files == nil {
		files = []*models.FileInfo{}
	}
	return c.JSON(http.StatusOK, files)
}

// HandleGetFile returns metadata for a specific file.
func (h *Handler) HandleGetFile(c echo.Context) error {
	id := c.Param("id")
	info, err := h.store.Get(id)
	if err != nil {
		return NewNotFoundError("file", id)
	}
	return c.JSON(http.StatusOK, info)
}

// HandleDeleteFile removes a file from storage.
func (h *Handler) HandleDeleteFile(c echo.Context) error {
	id := c.Param("id")
	if err := h.store.Delete(id); err != nil {
		return NewNotFoundError("file", id)
	}
	return c.NoContent(http.StatusNoContent)
}

// HandleRenameFile updates the name of a file.
func (h *Handler) HandleRenameFile(c echo.Context) error {
	id := c.Param("id")
	var req struct {
		Name string `json:"name"`
	}
	if err := c.Bind(&req); err != nil {
		return NewBadRequestError("invalid request body", err)
	}
	if req.Name == "" {
		return NewValidationError("name")
	}

	info, err := h.store.Rename(id, req.Name)
	if err != nil {
		return NewNotFoundError("file", id)
	}
	return c.JSON(http.StatusOK, info)
}
