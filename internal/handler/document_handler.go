package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"docgen/internal/domain"
	"docgen/internal/logging"
	"docgen/internal/preview"
	"docgen/internal/service"
)

// DocumentHandler handles document generation endpoints.
type DocumentHandler struct {
	documentService service.DocumentService
}

// NewDocumentHandler creates a new DocumentHandler.
func NewDocumentHandler(documentService service.DocumentService) *DocumentHandler {
	return &DocumentHandler{documentService: documentService}
}

// Generate handles POST /api/v1/documents
func (h *DocumentHandler) Generate(c *gin.Context) {
	var req struct {
		TemplateID uuid.UUID          `json:"template_id" binding:"required"`
		Name       string             `json:"name"`
		Values     domain.FieldValues `json:"values"`
		Strict     bool               `json:"strict"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", "template_id is required")
		return
	}

	doc, err := h.documentService.Generate(c.Request.Context(), &service.GenerateInput{
		TemplateID: req.TemplateID,
		Name:       req.Name,
		Values:     req.Values,
		Strict:     req.Strict,
	})
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondCreated(c, doc)
}

// List handles GET /api/v1/documents with an optional search query.
func (h *DocumentHandler) List(c *gin.Context) {
	offset, limit := parsePagination(c)

	var (
		docs  []domain.Document
		total int
		err   error
	)
	if search := strings.TrimSpace(c.Query("search")); search != "" {
		docs, total, err = h.documentService.Search(c.Request.Context(), search, offset, limit)
	} else {
		docs, total, err = h.documentService.List(c.Request.Context(), offset, limit)
	}
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondPaginated(c, docs, PagMeta{Total: total, Offset: offset, Limit: limit})
}

// GetByID handles GET /api/v1/documents/:id
func (h *DocumentHandler) GetByID(c *gin.Context) {
	id, ok := parseID(c, "id", "document")
	if !ok {
		return
	}

	doc, err := h.documentService.GetByID(c.Request.Context(), id)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, doc)
}

// Regenerate handles PUT /api/v1/documents/:id
func (h *DocumentHandler) Regenerate(c *gin.Context) {
	id, ok := parseID(c, "id", "document")
	if !ok {
		return
	}

	var req struct {
		Name   string             `json:"name"`
		Values domain.FieldValues `json:"values"`
		Strict bool               `json:"strict"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", "invalid request body")
		return
	}

	doc, err := h.documentService.Regenerate(c.Request.Context(), &service.RegenerateInput{
		DocumentID: id,
		Name:       req.Name,
		Values:     req.Values,
		Strict:     req.Strict,
	})
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, doc)
}

// Delete handles DELETE /api/v1/documents/:id
func (h *DocumentHandler) Delete(c *gin.Context) {
	id, ok := parseID(c, "id", "document")
	if !ok {
		return
	}

	if err := h.documentService.Delete(c.Request.Context(), id); err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, gin.H{"message": "document deleted"})
}

// Download handles GET /api/v1/documents/:id/download
func (h *DocumentHandler) Download(c *gin.Context) {
	id, ok := parseID(c, "id", "document")
	if !ok {
		return
	}

	file, err := h.documentService.Download(c.Request.Context(), id)
	if err != nil {
		HandleError(c, err)
		return
	}

	attachment(c, file.FileName, domain.DocxContentType)
	c.Data(http.StatusOK, domain.DocxContentType, file.Data)
}

// DownloadURL handles GET /api/v1/documents/:id/download-url
func (h *DocumentHandler) DownloadURL(c *gin.Context) {
	id, ok := parseID(c, "id", "document")
	if !ok {
		return
	}

	url, err := h.documentService.DownloadURL(c.Request.Context(), id)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, gin.H{"download_url": url})
}

// Preview handles GET /api/v1/documents/:id/preview?format=html|markdown
func (h *DocumentHandler) Preview(c *gin.Context) {
	id, ok := parseID(c, "id", "document")
	if !ok {
		return
	}

	result, err := h.documentService.Preview(c.Request.Context(), id)
	if err != nil {
		HandleError(c, err)
		return
	}

	respondPreview(c, result)
}

// respondPreview writes a preview result, converting it to Markdown when
// the caller asks for format=markdown.
func respondPreview(c *gin.Context, result *preview.Result) {
	body := gin.H{
		"html":     result.HTML,
		"stage":    result.Stage,
		"failures": result.Failures,
	}

	switch c.DefaultQuery("format", "html") {
	case "html":
	case "markdown":
		md, err := preview.Markdown(result.HTML)
		if err != nil {
			logging.FromContext(c.Request.Context()).Warnf("handler.Preview: markdown conversion failed: %v", err)
			RespondError(c, http.StatusInternalServerError, "CONVERSION_FAILED", "preview could not be converted to markdown")
			return
		}
		body["markdown"] = md
	default:
		RespondError(c, http.StatusBadRequest, "INVALID_FORMAT", "format must be html or markdown")
		return
	}

	RespondOK(c, body)
}
