package handler

import (
	"bytes"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"docgen/internal/domain"
	"docgen/internal/service"
)

// BatchHandler handles spreadsheet batch endpoints.
type BatchHandler struct {
	batchService service.BatchService
}

// NewBatchHandler creates a new BatchHandler.
func NewBatchHandler(batchService service.BatchService) *BatchHandler {
	return &BatchHandler{batchService: batchService}
}

// Create handles POST /api/v1/batches. With auto=true the sheet is processed
// immediately and the session discarded; with queue=true the session is
// handed to the background worker.
func (h *BatchHandler) Create(c *gin.Context) {
	templateID, err := uuid.Parse(c.PostForm("template_id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_ID", "invalid template_id")
		return
	}

	file, header, err := c.Request.FormFile("file")
	if err != nil {
		RespondError(c, http.StatusBadRequest, "MISSING_FILE", "file field is required")
		return
	}
	defer func() { _ = file.Close() }()

	input := &service.BatchUploadInput{
		TemplateID:  templateID,
		FileName:    header.Filename,
		Size:        header.Size,
		File:        file,
		NotifyEmail: c.PostForm("notify_email"),
	}

	ctx := c.Request.Context()
	if c.PostForm("auto") == "true" || c.Query("auto") == "true" {
		result, err := h.batchService.UploadAndGenerate(ctx, input)
		if err != nil {
			HandleError(c, err)
			return
		}
		RespondCreated(c, result)
		return
	}

	session, err := h.batchService.CreateSession(ctx, input)
	if err != nil {
		HandleError(c, err)
		return
	}

	if c.PostForm("queue") == "true" || c.Query("queue") == "true" {
		session, err = h.batchService.Queue(ctx, session.ID)
		if err != nil {
			HandleError(c, err)
			return
		}
	}

	RespondCreated(c, session)
}

// GetByID handles GET /api/v1/batches/:id
func (h *BatchHandler) GetByID(c *gin.Context) {
	id, ok := parseID(c, "id", "batch")
	if !ok {
		return
	}

	session, err := h.batchService.GetSession(c.Request.Context(), id)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, session)
}

// UpdateRow handles PATCH /api/v1/batches/:id/rows/:index
func (h *BatchHandler) UpdateRow(c *gin.Context) {
	id, ok := parseID(c, "id", "batch")
	if !ok {
		return
	}
	index, err := strconv.Atoi(c.Param("index"))
	if err != nil || index < 1 {
		RespondError(c, http.StatusBadRequest, "INVALID_ROW", "row index must be a positive integer")
		return
	}

	var req struct {
		Status domain.BatchRowStatus `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", "status is required")
		return
	}

	row, err := h.batchService.UpdateRowStatus(c.Request.Context(), id, index, req.Status)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, row)
}

// Process handles POST /api/v1/batches/:id/process
func (h *BatchHandler) Process(c *gin.Context) {
	id, ok := parseID(c, "id", "batch")
	if !ok {
		return
	}

	result, err := h.batchService.Process(c.Request.Context(), id)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, result)
}

// Report handles GET /api/v1/batches/:id/report
func (h *BatchHandler) Report(c *gin.Context) {
	id, ok := parseID(c, "id", "batch")
	if !ok {
		return
	}

	var buf bytes.Buffer
	filename, err := h.batchService.WriteReport(c.Request.Context(), id, &buf)
	if err != nil {
		HandleError(c, err)
		return
	}

	attachment(c, filename, "text/csv; charset=utf-8")
	c.Data(http.StatusOK, "text/csv; charset=utf-8", buf.Bytes())
}

// Delete handles DELETE /api/v1/batches/:id
func (h *BatchHandler) Delete(c *gin.Context) {
	id, ok := parseID(c, "id", "batch")
	if !ok {
		return
	}

	if err := h.batchService.Delete(c.Request.Context(), id); err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, gin.H{"message": "batch session deleted"})
}
