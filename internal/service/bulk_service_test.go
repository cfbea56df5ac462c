package service_test

import (
	"archive/zip"
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"docgen/internal/bulk"
	"docgen/internal/domain"
	"docgen/internal/service"
	"docgen/mocks"
)

func bulkDocs() []domain.Document {
	lease, memo := uuid.New(), uuid.New()
	return []domain.Document{
		{ID: uuid.New(), TemplateID: lease, TemplateName: "Lease", Name: "Acme", BlobID: "b1"},
		{ID: uuid.New(), TemplateID: lease, TemplateName: "Lease", Name: "Beta", BlobID: "b2"},
		{ID: uuid.New(), TemplateID: memo, TemplateName: "Memo", Name: "Gamma", BlobID: "b3"},
	}
}

func searchQuery(search string) interface{} {
	return mock.MatchedBy(func(q bulk.Query) bool {
		return q.Search == search && !q.Archived && q.DateField == domain.DateFieldCreated
	})
}

func TestBulkService_PreviewDelete(t *testing.T) {
	docRepo := new(mocks.MockDocumentRepo)
	storage := new(mocks.MockBlobStorage)
	svc := service.NewBulkService(docRepo, storage, 4)
	docs := bulkDocs()
	docRepo.On("ListByFilter", mock.Anything, searchQuery("a")).Return(docs, nil)

	p, err := svc.PreviewDelete(context.Background(), domain.BulkFilter{Search: " a "})

	require.NoError(t, err)
	assert.Equal(t, 3, p.Total)
	require.Len(t, p.Groups, 2)
	assert.Equal(t, "Lease", p.Groups[0].TemplateName)
	assert.Equal(t, 2, p.Groups[0].Count)
	assert.Len(t, p.Sample, 3)
	storage.AssertNotCalled(t, "Exists", mock.Anything, mock.Anything)
}

func TestBulkService_PreviewDownload_ProbesFiles(t *testing.T) {
	docRepo := new(mocks.MockDocumentRepo)
	storage := new(mocks.MockBlobStorage)
	svc := service.NewBulkService(docRepo, storage, 2)
	docRepo.On("ListByFilter", mock.Anything, mock.Anything).Return(bulkDocs(), nil)
	storage.On("Exists", mock.Anything, "b1").Return(true, nil)
	storage.On("Exists", mock.Anything, "b2").Return(false, nil)
	storage.On("Exists", mock.Anything, "b3").Return(false, errors.New("timeout"))

	p, err := svc.PreviewDownload(context.Background(), domain.BulkFilter{})

	require.NoError(t, err)
	require.Len(t, p.Sample, 3)
	assert.Equal(t, domain.FileStatusExists, p.Sample[0].FileStatus)
	assert.Equal(t, domain.FileStatusMissing, p.Sample[1].FileStatus)
	assert.Equal(t, domain.FileStatusUnknown, p.Sample[2].FileStatus)
}

func TestBulkService_Delete_RequiresConfirmation(t *testing.T) {
	docRepo := new(mocks.MockDocumentRepo)
	svc := service.NewBulkService(docRepo, new(mocks.MockBlobStorage), 1)

	_, err := svc.Delete(context.Background(), domain.BulkFilter{Search: "x"})

	assert.ErrorIs(t, err, domain.ErrConfirmationRequired)
	docRepo.AssertNotCalled(t, "ListByFilter", mock.Anything, mock.Anything)
}

func TestBulkService_Delete_PartialFailures(t *testing.T) {
	docRepo := new(mocks.MockDocumentRepo)
	storage := new(mocks.MockBlobStorage)
	svc := service.NewBulkService(docRepo, storage, 1)
	docs := bulkDocs()

	docRepo.On("ListByFilter", mock.Anything, mock.Anything).Return(docs, nil)
	storage.On("Delete", mock.Anything, "b1").Return(nil)
	storage.On("Delete", mock.Anything, "b2").Return(domain.ErrBlobNotFound)
	storage.On("Delete", mock.Anything, "b3").Return(errors.New("access denied"))
	docRepo.On("Delete", mock.Anything, docs[0].ID).Return(nil)
	docRepo.On("Delete", mock.Anything, docs[1].ID).Return(nil)

	result, err := svc.Delete(context.Background(), domain.BulkFilter{Confirm: true})

	require.NoError(t, err)
	assert.Equal(t, 2, result.Deleted)
	assert.Equal(t, 1, result.Failed)
	require.Len(t, result.Errors, 1)
	assert.Equal(t, docs[2].ID, result.Errors[0].DocumentID)
	assert.Equal(t, "access denied", result.Errors[0].Error)
	docRepo.AssertNotCalled(t, "Delete", mock.Anything, docs[2].ID)
}

func TestBulkService_Download_SkipsMissingFiles(t *testing.T) {
	docRepo := new(mocks.MockDocumentRepo)
	storage := new(mocks.MockBlobStorage)
	svc := service.NewBulkService(docRepo, storage, 1)

	docRepo.On("ListByFilter", mock.Anything, mock.Anything).Return(bulkDocs(), nil)
	storage.On("Open", mock.Anything, "b1").Return(io.NopCloser(strings.NewReader("acme")), nil)
	storage.On("Open", mock.Anything, "b2").Return(nil, domain.ErrBlobNotFound)
	storage.On("Open", mock.Anything, "b3").Return(io.NopCloser(strings.NewReader("gamma")), nil)

	var buf bytes.Buffer
	result, err := svc.Download(context.Background(), domain.BulkFilter{}, &buf)

	require.NoError(t, err)
	assert.Equal(t, 2, result.Added)
	assert.Equal(t, 1, result.Missing)
	assert.Equal(t, []string{"Beta"}, result.MissingNames)

	zr, err := zip.NewReader(bytes.NewReader(buf.Bytes()), int64(buf.Len()))
	require.NoError(t, err)
	var names []string
	for _, f := range zr.File {
		names = append(names, f.Name)
	}
	assert.Equal(t, []string{"Lease/Acme.docx", "Memo/Gamma.docx", "MISSING_FILES.txt"}, names)

	rc, err := zr.File[2].Open()
	require.NoError(t, err)
	manifest, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.Contains(t, string(manifest), "Beta")
}

func TestBulkService_Download_NoManifestWhenComplete(t *testing.T) {
	docRepo := new(mocks.MockDocumentRepo)
	storage := new(mocks.MockBlobStorage)
	svc := service.NewBulkService(docRepo, storage, 1)
	docs := bulkDocs()[:1]

	docRepo.On("ListByFilter", mock.Anything, mock.Anything).Return(docs, nil)
	storage.On("Open", mock.Anything, "b1").Return(io.NopCloser(strings.NewReader("acme")), nil)

	var buf bytes.Buffer
	result, err := svc.Download(context.Background(), domain.BulkFilter{}, &buf)

	require.NoError(t, err)
	assert.Equal(t, 1, result.Added)
	zr, err := zip.NewReader(bytes.NewReader(buf.Bytes()), int64(buf.Len()))
	require.NoError(t, err)
	assert.Len(t, zr.File, 1)
}

func TestBulkService_PreviewAndExecuteShareQuery(t *testing.T) {
	docRepo := new(mocks.MockDocumentRepo)
	storage := new(mocks.MockBlobStorage)
	svc := service.NewBulkService(docRepo, storage, 1)
	filter := domain.BulkFilter{Search: "  lease ", TemplateIDs: []uuid.UUID{uuid.New()}, Confirm: true}

	docRepo.On("ListByFilter", mock.Anything, mock.Anything).Return([]domain.Document{}, nil)

	_, err := svc.PreviewDelete(context.Background(), filter)
	require.NoError(t, err)
	_, err = svc.Delete(context.Background(), filter)
	require.NoError(t, err)

	require.Len(t, docRepo.Calls, 2)
	assert.Equal(t, docRepo.Calls[0].Arguments.Get(1), docRepo.Calls[1].Arguments.Get(1))
	assert.Equal(t, bulk.Normalize(filter), docRepo.Calls[0].Arguments.Get(1))
}
