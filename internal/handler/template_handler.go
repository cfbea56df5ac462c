package handler

import (
	"bytes"
	"net/http"

	"github.com/gin-gonic/gin"

	"docgen/internal/csvexport"
	"docgen/internal/domain"
	"docgen/internal/service"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// TemplateHandler handles template management endpoints.
type TemplateHandler struct {
	templateService service.TemplateService
}

// NewTemplateHandler creates a new TemplateHandler.
func NewTemplateHandler(templateService service.TemplateService) *TemplateHandler {
	return &TemplateHandler{templateService: templateService}
}

// Upload handles POST /api/v1/templates
func (h *TemplateHandler) Upload(c *gin.Context) {
	file, header, err := c.Request.FormFile("file")
	if err != nil {
		RespondError(c, http.StatusBadRequest, "MISSING_FILE", "file field is required")
		return
	}
	defer func() { _ = file.Close() }()

	tpl, err := h.templateService.Upload(c.Request.Context(), service.TemplateUploadInput{
		Name:        c.PostForm("name"),
		Category:    c.PostForm("category"),
		Description: c.PostForm("description"),
		FileName:    header.Filename,
		Size:        header.Size,
		File:        file,
	})
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondCreated(c, tpl)
}

// List handles GET /api/v1/templates
func (h *TemplateHandler) List(c *gin.Context) {
	offset, limit := parsePagination(c)

	tpls, total, err := h.templateService.List(c.Request.Context(), offset, limit)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondPaginated(c, tpls, PagMeta{Total: total, Offset: offset, Limit: limit})
}

// GetByID handles GET /api/v1/templates/:id
func (h *TemplateHandler) GetByID(c *gin.Context) {
	id, ok := parseID(c, "id", "template")
	if !ok {
		return
	}

	tpl, err := h.templateService.GetByID(c.Request.Context(), id)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, tpl)
}

// Delete handles DELETE /api/v1/templates/:id?cascade=true
func (h *TemplateHandler) Delete(c *gin.Context) {
	id, ok := parseID(c, "id", "template")
	if !ok {
		return
	}

	cascade := c.Query("cascade") == "true"
	if err := h.templateService.Delete(c.Request.Context(), id, cascade); err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, gin.H{"message": "template deleted"})
}

// RefreshFields handles POST /api/v1/templates/:id/refresh-fields
func (h *TemplateHandler) RefreshFields(c *gin.Context) {
	id, ok := parseID(c, "id", "template")
	if !ok {
		return
	}

	tpl, err := h.templateService.RefreshFields(c.Request.Context(), id)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, tpl)
}

// SampleSheet handles GET /api/v1/templates/:id/sample-sheet
func (h *TemplateHandler) SampleSheet(c *gin.Context) {
	id, ok := parseID(c, "id", "template")
	if !ok {
		return
	}

	var buf bytes.Buffer
	tpl, err := h.templateService.WriteSampleSheet(c.Request.Context(), id, &buf)
	if err != nil {
		HandleError(c, err)
		return
	}

	filename := csvexport.BuildFilename(tpl.Name+"_batch", "xlsx")
	attachment(c, filename, xlsxContentType)
	c.Data(http.StatusOK, xlsxContentType, buf.Bytes())
}

// Preview handles POST /api/v1/templates/:id/preview
func (h *TemplateHandler) Preview(c *gin.Context) {
	id, ok := parseID(c, "id", "template")
	if !ok {
		return
	}

	var req struct {
		Values domain.FieldValues `json:"values"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", "values must be an object of field names to strings")
		return
	}

	result, err := h.templateService.Preview(c.Request.Context(), id, req.Values)
	if err != nil {
		HandleError(c, err)
		return
	}

	respondPreview(c, result)
}
