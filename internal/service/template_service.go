package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"docgen/internal/bulk"
	"docgen/internal/config"
	"docgen/internal/docx"
	"docgen/internal/domain"
	"docgen/internal/fields"
	"docgen/internal/logging"
	"docgen/internal/port"
	"docgen/internal/preview"
	"docgen/internal/sheet"
)

// TemplateUploadInput is the DTO for template upload requests.
type TemplateUploadInput struct {
	Name        string
	Category    string
	Description string
	FileName    string
	Size        int64
	File        io.Reader
}

// TemplateService defines the template management contract.
type TemplateService interface {
	Upload(ctx context.Context, input TemplateUploadInput) (*domain.Template, error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Template, error)
	List(ctx context.Context, offset, limit int) ([]domain.Template, int, error)
	Delete(ctx context.Context, id uuid.UUID, cascade bool) error
	RefreshFields(ctx context.Context, id uuid.UUID) (*domain.Template, error)
	WriteSampleSheet(ctx context.Context, id uuid.UUID, w io.Writer) (*domain.Template, error)
	Preview(ctx context.Context, id uuid.UUID, values domain.FieldValues) (*preview.Result, error)
}

type templateService struct {
	templateRepo port.TemplateRepository
	docRepo      port.DocumentRepository
	storage      port.BlobStorage
	pipeline     *preview.Pipeline
	cfg          *config.S3Config
}

// NewTemplateService creates a new TemplateService implementation.
func NewTemplateService(
	templateRepo port.TemplateRepository,
	docRepo port.DocumentRepository,
	storage port.BlobStorage,
	pipeline *preview.Pipeline,
	cfg *config.S3Config,
) TemplateService {
	return &templateService{
		templateRepo: templateRepo,
		docRepo:      docRepo,
		storage:      storage,
		pipeline:     pipeline,
		cfg:          cfg,
	}
}

func (s *templateService) Upload(ctx context.Context, input TemplateUploadInput) (*domain.Template, error) {
	log := logging.FromContext(ctx)

	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(input.FileName), "."))
	if ext != "docx" {
		return nil, domain.ErrUnsupportedFileType
	}
	maxBytes := s.cfg.MaxFileSize()
	if input.Size > maxBytes {
		return nil, domain.ErrFileTooLarge
	}

	data, err := io.ReadAll(io.LimitReader(input.File, maxBytes+1))
	if err != nil {
		return nil, fmt.Errorf("reading template: %w", err)
	}
	if int64(len(data)) > maxBytes {
		return nil, domain.ErrFileTooLarge
	}
	if err := validatePackage(data); err != nil {
		return nil, err
	}

	name := strings.TrimSpace(input.Name)
	if name == "" {
		name = strings.TrimSuffix(filepath.Base(input.FileName), filepath.Ext(input.FileName))
	}

	catalog := fields.BuildCatalog(data)
	tpl := &domain.Template{
		ID:          uuid.New(),
		Name:        name,
		Category:    strings.TrimSpace(input.Category),
		Description: strings.TrimSpace(input.Description),
		BlobID:      uuid.New().String(),
		FileName:    filepath.Base(input.FileName),
		FileSize:    int64(len(data)),
		Fields:      catalog,
		FieldCount:  len(catalog),
	}

	log.Infof("templateService.Upload: storing template %q (%d bytes, %d fields)", tpl.Name, tpl.FileSize, tpl.FieldCount)

	if _, err := s.storage.Upload(ctx, port.UploadInput{
		ID:          tpl.BlobID,
		Body:        bytes.NewReader(data),
		ContentType: domain.DocxContentType,
		Size:        tpl.FileSize,
	}); err != nil {
		log.Errorf("templateService.Upload: storage upload failed: %v", err)
		return nil, domain.ErrUploadFailed
	}

	if err := s.templateRepo.Create(ctx, tpl); err != nil {
		log.Errorf("templateService.Upload: failed to create template: %v", err)
		s.deleteBlob(ctx, tpl.BlobID)
		return nil, fmt.Errorf("creating template: %w", err)
	}
	return tpl, nil
}

// validatePackage rejects anything that is not a zip holding a main document part.
func validatePackage(data []byte) error {
	if !docx.IsZip(data) {
		return domain.ErrInvalidTemplate
	}
	pkg, err := docx.Open(data)
	if err != nil || !pkg.Has(docx.DocumentPart) {
		return domain.ErrInvalidTemplate
	}
	return nil
}

func (s *templateService) GetByID(ctx context.Context, id uuid.UUID) (*domain.Template, error) {
	return s.templateRepo.GetByID(ctx, id)
}

func (s *templateService) List(ctx context.Context, offset, limit int) ([]domain.Template, int, error) {
	return s.templateRepo.List(ctx, offset, limit)
}

// Delete removes a template. Without cascade a template that still has
// documents is refused; with cascade its documents and their files go too.
func (s *templateService) Delete(ctx context.Context, id uuid.UUID, cascade bool) error {
	log := logging.FromContext(ctx)

	tpl, err := s.templateRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	count, err := s.docRepo.CountByTemplate(ctx, id)
	if err != nil {
		return fmt.Errorf("counting documents: %w", err)
	}
	if count > 0 && !cascade {
		return domain.ErrTemplateHasDocuments
	}

	if count > 0 {
		for _, archived := range []bool{false, true} {
			docs, err := s.docRepo.ListByFilter(ctx, bulk.Query{TemplateIDs: []uuid.UUID{id}, Archived: archived})
			if err != nil {
				return fmt.Errorf("listing documents: %w", err)
			}
			for i := range docs {
				s.deleteBlob(ctx, docs[i].BlobID)
				if err := s.docRepo.Delete(ctx, docs[i].ID); err != nil && !errors.Is(err, domain.ErrDocumentNotFound) {
					return fmt.Errorf("deleting document %s: %w", docs[i].ID, err)
				}
			}
		}
		log.Infof("templateService.Delete: cascaded delete of %d documents for template %s", count, id)
	}

	if err := s.templateRepo.Delete(ctx, id); err != nil {
		return err
	}
	s.deleteBlob(ctx, tpl.BlobID)
	return nil
}

// RefreshFields re-extracts the field catalog from the stored template file.
func (s *templateService) RefreshFields(ctx context.Context, id uuid.UUID) (*domain.Template, error) {
	tpl, err := s.templateRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	data, err := s.storage.Download(ctx, tpl.BlobID)
	if err != nil {
		return nil, fmt.Errorf("downloading template %s: %w", id, err)
	}
	tpl.Fields = fields.BuildCatalog(data)
	tpl.FieldCount = len(tpl.Fields)
	if err := s.templateRepo.UpdateFields(ctx, tpl); err != nil {
		return nil, fmt.Errorf("updating fields: %w", err)
	}
	return tpl, nil
}

func (s *templateService) WriteSampleSheet(ctx context.Context, id uuid.UUID, w io.Writer) (*domain.Template, error) {
	tpl, err := s.templateRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := sheet.WriteSample(w, tpl); err != nil {
		return nil, err
	}
	return tpl, nil
}

// Preview renders unsaved values against a template. A missing template file
// still yields the field-list preview.
func (s *templateService) Preview(ctx context.Context, id uuid.UUID, values domain.FieldValues) (*preview.Result, error) {
	tpl, err := s.templateRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	data, err := s.storage.Download(ctx, tpl.BlobID)
	if err != nil {
		logging.FromContext(ctx).Warnf("templateService.Preview: template file unavailable for %s: %v", id, err)
		data = nil
	}
	res := s.pipeline.Preview(data, tpl.Fields, values)
	return &res, nil
}

func (s *templateService) deleteBlob(ctx context.Context, id string) {
	if id == "" {
		return
	}
	if err := s.storage.Delete(ctx, id); err != nil && !errors.Is(err, domain.ErrBlobNotFound) {
		logrus.Warnf("templateService: failed to delete blob %s: %v", id, err)
	}
}
