package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"docgen/internal/csvexport"
	"docgen/internal/domain"
	"docgen/internal/logging"
	"docgen/internal/service"
)

// BulkHandler handles filter-driven bulk delete and download endpoints.
type BulkHandler struct {
	bulkService service.BulkService
}

// NewBulkHandler creates a new BulkHandler.
func NewBulkHandler(bulkService service.BulkService) *BulkHandler {
	return &BulkHandler{bulkService: bulkService}
}

func bindFilter(c *gin.Context) (domain.BulkFilter, bool) {
	var filter domain.BulkFilter
	if err := c.ShouldBindJSON(&filter); err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_FILTER", "invalid bulk filter: "+err.Error())
		return filter, false
	}
	if filter.DateField != "" && filter.DateField != domain.DateFieldCreated && filter.DateField != domain.DateFieldUpdated {
		RespondError(c, http.StatusBadRequest, "INVALID_FILTER", "date_field must be created or updated")
		return filter, false
	}
	return filter, true
}

// PreviewDelete handles POST /api/v1/bulk/delete/preview
func (h *BulkHandler) PreviewDelete(c *gin.Context) {
	filter, ok := bindFilter(c)
	if !ok {
		return
	}

	p, err := h.bulkService.PreviewDelete(c.Request.Context(), filter)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, p)
}

// Delete handles POST /api/v1/bulk/delete
func (h *BulkHandler) Delete(c *gin.Context) {
	filter, ok := bindFilter(c)
	if !ok {
		return
	}

	result, err := h.bulkService.Delete(c.Request.Context(), filter)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, result)
}

// PreviewDownload handles POST /api/v1/bulk/download/preview
func (h *BulkHandler) PreviewDownload(c *gin.Context) {
	filter, ok := bindFilter(c)
	if !ok {
		return
	}

	p, err := h.bulkService.PreviewDownload(c.Request.Context(), filter)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, p)
}

// Download handles POST /api/v1/bulk/download. The zip is streamed to the
// client as it is built.
func (h *BulkHandler) Download(c *gin.Context) {
	filter, ok := bindFilter(c)
	if !ok {
		return
	}

	attachment(c, csvexport.BuildFilename("documents", "zip"), "application/zip")
	c.Status(http.StatusOK)

	result, err := h.bulkService.Download(c.Request.Context(), filter, c.Writer)
	if err != nil {
		if !c.Writer.Written() {
			c.Writer.Header().Del("Content-Disposition")
			c.Writer.Header().Del("Content-Type")
			HandleError(c, err)
			return
		}
		logging.FromContext(c.Request.Context()).Errorf("handler.BulkDownload: stream aborted: %v", err)
		return
	}
	logging.FromContext(c.Request.Context()).Infof("handler.BulkDownload: added=%d missing=%d", result.Added, result.Missing)
}
