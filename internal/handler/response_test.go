package handler_test

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"docgen/internal/domain"
	"docgen/internal/handler"
)

func TestMapDomainError(t *testing.T) {
	tests := []struct {
		err        error
		wantStatus int
		wantCode   string
	}{
		{domain.ErrTemplateNotFound, http.StatusNotFound, "TEMPLATE_NOT_FOUND"},
		{domain.ErrDocumentNotFound, http.StatusNotFound, "DOCUMENT_NOT_FOUND"},
		{domain.ErrBatchNotFound, http.StatusNotFound, "BATCH_NOT_FOUND"},
		{domain.ErrBlobNotFound, http.StatusNotFound, "FILE_MISSING"},
		{fmt.Errorf("row 9: %w", domain.ErrNotFound), http.StatusNotFound, "NOT_FOUND"},
		{&domain.ValidationError{Missing: []string{"a"}}, http.StatusBadRequest, "VALIDATION_FAILED"},
		{domain.ErrInvalidTemplate, http.StatusBadRequest, "INVALID_TEMPLATE"},
		{fmt.Errorf("%w: .pdf", domain.ErrUnsupportedFileType), http.StatusBadRequest, "UNSUPPORTED_FILE_TYPE"},
		{domain.ErrFileTooLarge, http.StatusRequestEntityTooLarge, "FILE_TOO_LARGE"},
		{domain.ErrEmptySheet, http.StatusBadRequest, "EMPTY_SHEET"},
		{domain.ErrTooManyRows, http.StatusBadRequest, "TOO_MANY_ROWS"},
		{domain.ErrConfirmationRequired, http.StatusBadRequest, "CONFIRMATION_REQUIRED"},
		{domain.ErrInvalidRowStatus, http.StatusBadRequest, "INVALID_ROW_STATUS"},
		{domain.ErrBatchAlreadyProcessed, http.StatusConflict, "BATCH_ALREADY_PROCESSED"},
		{domain.ErrTemplateHasDocuments, http.StatusConflict, "TEMPLATE_HAS_DOCUMENTS"},
		{domain.ErrUploadFailed, http.StatusInternalServerError, "UPLOAD_FAILED"},
		{&domain.RenderError{Err: errors.New("unexpected end")}, http.StatusUnprocessableEntity, "RENDER_FAILED"},
		{errors.New("boom"), http.StatusInternalServerError, "INTERNAL_ERROR"},
	}
	for _, tt := range tests {
		t.Run(tt.wantCode, func(t *testing.T) {
			status, code, _ := handler.MapDomainError(tt.err)
			assert.Equal(t, tt.wantStatus, status)
			assert.Equal(t, tt.wantCode, code)
		})
	}
}

func TestMapDomainError_RenderMessage(t *testing.T) {
	_, _, msg := handler.MapDomainError(&domain.RenderError{Part: "word/header1.xml", Err: errors.New("unknown filter")})
	assert.Equal(t, "render word/header1.xml: unknown filter", msg)
}

func TestHandleError_ValidationDetails(t *testing.T) {
	c, w := newContext(http.MethodPost, "/api/v1/documents", nil)

	handler.HandleError(c, &domain.ValidationError{Missing: []string{"client_name", "due_date"}})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	resp := decode(t, w)
	assert.False(t, resp.Success)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "missing required fields: client_name, due_date", resp.Error.Message)
	assert.Equal(t, []interface{}{"client_name", "due_date"}, resp.Error.Details["missing_fields"])
}
