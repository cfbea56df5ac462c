package handler_test

import (
	"errors"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"docgen/internal/domain"
	"docgen/internal/handler"
	"docgen/internal/preview"
	"docgen/internal/service"
	"docgen/mocks"
)

func newDocumentHandler() (*handler.DocumentHandler, *mocks.MockDocumentService) {
	mockSvc := new(mocks.MockDocumentService)
	return handler.NewDocumentHandler(mockSvc), mockSvc
}

func TestDocumentHandler_Generate_Success(t *testing.T) {
	h, mockSvc := newDocumentHandler()
	tplID := uuid.New()
	expected := &domain.Document{ID: uuid.New(), TemplateID: tplID, Name: "Acme lease"}

	mockSvc.On("Generate", mock.Anything, mock.MatchedBy(func(in *service.GenerateInput) bool {
		return in.TemplateID == tplID && in.Name == "Acme lease" && in.Strict &&
			in.Values.ValueOf("client_name") == "Acme"
	})).Return(expected, nil)

	c, w := newContext(http.MethodPost, "/api/v1/documents", map[string]interface{}{
		"template_id": tplID.String(),
		"name":        "Acme lease",
		"values":      map[string]string{"client_name": "Acme"},
		"strict":      true,
	})
	h.Generate(c)

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.True(t, decode(t, w).Success)
	mockSvc.AssertExpectations(t)
}

func TestDocumentHandler_Generate_MissingTemplateID(t *testing.T) {
	h, mockSvc := newDocumentHandler()

	c, w := newContext(http.MethodPost, "/api/v1/documents", map[string]interface{}{"name": "x"})
	h.Generate(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "INVALID_REQUEST", decode(t, w).Error.Code)
	mockSvc.AssertNotCalled(t, "Generate", mock.Anything, mock.Anything)
}

func TestDocumentHandler_Generate_Errors(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{"validation", &domain.ValidationError{Missing: []string{"client_name"}}, http.StatusBadRequest, "VALIDATION_FAILED"},
		{"render", &domain.RenderError{Err: errors.New("unexpected end of template")}, http.StatusUnprocessableEntity, "RENDER_FAILED"},
		{"template missing", domain.ErrTemplateNotFound, http.StatusNotFound, "TEMPLATE_NOT_FOUND"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, mockSvc := newDocumentHandler()
			mockSvc.On("Generate", mock.Anything, mock.Anything).Return(nil, tt.err)

			c, w := newContext(http.MethodPost, "/api/v1/documents", map[string]interface{}{"template_id": uuid.New().String()})
			h.Generate(c)

			assert.Equal(t, tt.wantStatus, w.Code)
			assert.Equal(t, tt.wantCode, decode(t, w).Error.Code)
		})
	}
}

func TestDocumentHandler_List_UsesSearch(t *testing.T) {
	h, mockSvc := newDocumentHandler()
	mockSvc.On("Search", mock.Anything, "lease", 10, 5).Return([]domain.Document{{Name: "Lease"}}, 11, nil)

	c, w := newContext(http.MethodGet, "/api/v1/documents?search=%20lease%20&offset=10&limit=5", nil)
	h.List(c)

	assert.Equal(t, http.StatusOK, w.Code)
	resp := decode(t, w)
	assert.Equal(t, 11, resp.Meta.Total)
	mockSvc.AssertNotCalled(t, "List", mock.Anything, mock.Anything, mock.Anything)
}

func TestDocumentHandler_List_Plain(t *testing.T) {
	h, mockSvc := newDocumentHandler()
	mockSvc.On("List", mock.Anything, 0, 20).Return([]domain.Document{}, 0, nil)

	c, w := newContext(http.MethodGet, "/api/v1/documents", nil)
	h.List(c)

	assert.Equal(t, http.StatusOK, w.Code)
	mockSvc.AssertExpectations(t)
}

func TestDocumentHandler_Regenerate(t *testing.T) {
	h, mockSvc := newDocumentHandler()
	id := uuid.New()
	mockSvc.On("Regenerate", mock.Anything, mock.MatchedBy(func(in *service.RegenerateInput) bool {
		return in.DocumentID == id && in.Values.ValueOf("client_name") == "Beta"
	})).Return(&domain.Document{ID: id}, nil)

	c, w := newContext(http.MethodPut, "/api/v1/documents/"+id.String(), `{"values": {"client_name": "Beta"}}`)
	c.Params = gin.Params{{Key: "id", Value: id.String()}}
	h.Regenerate(c)

	assert.Equal(t, http.StatusOK, w.Code)
	mockSvc.AssertExpectations(t)
}

func TestDocumentHandler_Download(t *testing.T) {
	h, mockSvc := newDocumentHandler()
	id := uuid.New()
	mockSvc.On("Download", mock.Anything, id).Return(&service.DocumentFile{FileName: "Acme.docx", Data: []byte("PK")}, nil)

	c, w := newContext(http.MethodGet, "/api/v1/documents/"+id.String()+"/download", nil)
	c.Params = gin.Params{{Key: "id", Value: id.String()}}
	h.Download(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "PK", w.Body.String())
	assert.Equal(t, `attachment; filename="Acme.docx"`, w.Header().Get("Content-Disposition"))
	assert.Equal(t, domain.DocxContentType, w.Header().Get("Content-Type"))
}

func TestDocumentHandler_Download_MissingFile(t *testing.T) {
	h, mockSvc := newDocumentHandler()
	id := uuid.New()
	mockSvc.On("Download", mock.Anything, id).Return(nil, domain.ErrBlobNotFound)

	c, w := newContext(http.MethodGet, "/api/v1/documents/"+id.String()+"/download", nil)
	c.Params = gin.Params{{Key: "id", Value: id.String()}}
	h.Download(c)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "FILE_MISSING", decode(t, w).Error.Code)
}

func TestDocumentHandler_DownloadURL(t *testing.T) {
	h, mockSvc := newDocumentHandler()
	id := uuid.New()
	mockSvc.On("DownloadURL", mock.Anything, id).Return("https://signed", nil)

	c, w := newContext(http.MethodGet, "/api/v1/documents/"+id.String()+"/download-url", nil)
	c.Params = gin.Params{{Key: "id", Value: id.String()}}
	h.DownloadURL(c)

	assert.Equal(t, http.StatusOK, w.Code)
	data := decode(t, w).Data.(map[string]interface{})
	assert.Equal(t, "https://signed", data["download_url"])
}

func TestDocumentHandler_Preview_HTML(t *testing.T) {
	h, mockSvc := newDocumentHandler()
	id := uuid.New()
	mockSvc.On("Preview", mock.Anything, id).Return(&preview.Result{
		HTML:     "<dl></dl>",
		Stage:    preview.StageFieldList,
		Failures: []preview.StageFailure{{Stage: preview.StageRendered, Error: "boom"}},
	}, nil)

	c, w := newContext(http.MethodGet, "/api/v1/documents/"+id.String()+"/preview", nil)
	c.Params = gin.Params{{Key: "id", Value: id.String()}}
	h.Preview(c)

	require.Equal(t, http.StatusOK, w.Code)
	data := decode(t, w).Data.(map[string]interface{})
	assert.Equal(t, "field-list", data["stage"])
	assert.Equal(t, "<dl></dl>", data["html"])
	assert.NotContains(t, data, "markdown")
	assert.Len(t, data["failures"], 1)
}

func TestDocumentHandler_Delete_NotFound(t *testing.T) {
	h, mockSvc := newDocumentHandler()
	id := uuid.New()
	mockSvc.On("Delete", mock.Anything, id).Return(domain.ErrDocumentNotFound)

	c, w := newContext(http.MethodDelete, "/api/v1/documents/"+id.String(), nil)
	c.Params = gin.Params{{Key: "id", Value: id.String()}}
	h.Delete(c)

	assert.Equal(t, http.StatusNotFound, w.Code)
}
