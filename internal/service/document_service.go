package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"docgen/internal/bulk"
	"docgen/internal/csvexport"
	"docgen/internal/domain"
	"docgen/internal/logging"
	"docgen/internal/port"
	"docgen/internal/preview"
)

// GenerateInput is the DTO for creating a document from a template.
type GenerateInput struct {
	TemplateID uuid.UUID
	Name       string
	Values     domain.FieldValues
	// Strict rejects the request when a required field has no value.
	Strict bool
}

// RegenerateInput is the DTO for editing a document. The document is
// rendered again from its template with the new values.
type RegenerateInput struct {
	DocumentID uuid.UUID
	Name       string
	Values     domain.FieldValues
	Strict     bool
}

// DocumentFile is a document's package ready for download.
type DocumentFile struct {
	FileName string
	Data     []byte
}

// DocumentService defines the document management contract.
type DocumentService interface {
	Generate(ctx context.Context, input *GenerateInput) (*domain.Document, error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Document, error)
	List(ctx context.Context, offset, limit int) ([]domain.Document, int, error)
	Search(ctx context.Context, search string, offset, limit int) ([]domain.Document, int, error)
	Regenerate(ctx context.Context, input *RegenerateInput) (*domain.Document, error)
	Delete(ctx context.Context, id uuid.UUID) error
	Download(ctx context.Context, id uuid.UUID) (*DocumentFile, error)
	DownloadURL(ctx context.Context, id uuid.UUID) (string, error)
	Preview(ctx context.Context, id uuid.UUID) (*preview.Result, error)
}

type documentService struct {
	templateRepo port.TemplateRepository
	docRepo      port.DocumentRepository
	storage      port.BlobStorage
	pipeline     *preview.Pipeline
	gen          *generator
	urlExpiry    time.Duration
}

// NewDocumentService creates a new DocumentService implementation.
func NewDocumentService(
	templateRepo port.TemplateRepository,
	docRepo port.DocumentRepository,
	storage port.BlobStorage,
	renderer port.Renderer,
	pipeline *preview.Pipeline,
	urlExpiry time.Duration,
) DocumentService {
	return &documentService{
		templateRepo: templateRepo,
		docRepo:      docRepo,
		storage:      storage,
		pipeline:     pipeline,
		gen:          &generator{renderer: renderer, storage: storage, docRepo: docRepo},
		urlExpiry:    urlExpiry,
	}
}

func (s *documentService) loadTemplate(ctx context.Context, id uuid.UUID) (*domain.Template, []byte, error) {
	tpl, err := s.templateRepo.GetByID(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	data, err := s.storage.Download(ctx, tpl.BlobID)
	if err != nil {
		return nil, nil, fmt.Errorf("downloading template %s: %w", id, err)
	}
	return tpl, data, nil
}

// Generate renders a single document. Render failures are returned to the
// caller as *domain.RenderError.
func (s *documentService) Generate(ctx context.Context, input *GenerateInput) (*domain.Document, error) {
	log := logging.FromContext(ctx)

	tpl, data, err := s.loadTemplate(ctx, input.TemplateID)
	if err != nil {
		return nil, err
	}
	if input.Strict {
		if missing := missingRequired(tpl.Fields, input.Values); len(missing) > 0 {
			return nil, &domain.ValidationError{Missing: missing}
		}
	}

	name := strings.TrimSpace(input.Name)
	if name == "" {
		name = fmt.Sprintf("%s %s", tpl.Name, time.Now().Format("2006-01-02 15:04"))
	}

	doc, err := s.gen.create(ctx, &buildJob{
		Template:     tpl,
		TemplateData: data,
		Name:         name,
		Values:       input.Values,
	})
	if err != nil {
		log.Warnf("documentService.Generate: template %s: %v", tpl.ID, err)
		return nil, err
	}
	log.Infof("documentService.Generate: created document %s from template %s", doc.ID, tpl.ID)
	return doc, nil
}

func (s *documentService) GetByID(ctx context.Context, id uuid.UUID) (*domain.Document, error) {
	return s.docRepo.GetByID(ctx, id)
}

func (s *documentService) List(ctx context.Context, offset, limit int) ([]domain.Document, int, error) {
	return s.docRepo.List(ctx, offset, limit)
}

// Search returns unarchived documents whose name contains search, ranked by
// phrase position then recency.
func (s *documentService) Search(ctx context.Context, search string, offset, limit int) ([]domain.Document, int, error) {
	docs, err := s.docRepo.ListByFilter(ctx, bulk.Normalize(domain.BulkFilter{Search: search}))
	if err != nil {
		return nil, 0, err
	}
	bulk.Rank(docs, search)

	total := len(docs)
	if offset >= total {
		return []domain.Document{}, total, nil
	}
	end := offset + limit
	if limit <= 0 || end > total {
		end = total
	}
	return docs[offset:end], total, nil
}

// Regenerate renders the document again with new values and replaces its
// file. The previous file is removed once the new one is recorded.
func (s *documentService) Regenerate(ctx context.Context, input *RegenerateInput) (*domain.Document, error) {
	log := logging.FromContext(ctx)

	doc, err := s.docRepo.GetByID(ctx, input.DocumentID)
	if err != nil {
		return nil, err
	}
	tpl, data, err := s.loadTemplate(ctx, doc.TemplateID)
	if err != nil {
		return nil, err
	}
	if input.Strict {
		if missing := missingRequired(tpl.Fields, input.Values); len(missing) > 0 {
			return nil, &domain.ValidationError{Missing: missing}
		}
	}

	name := strings.TrimSpace(input.Name)
	if name == "" {
		name = doc.Name
	}
	out, err := s.gen.build(&buildJob{Template: tpl, TemplateData: data, Name: name, Values: input.Values})
	if err != nil {
		return nil, err
	}

	oldBlob := doc.BlobID
	doc.BlobID = uuid.New().String()
	if err := s.gen.put(ctx, doc.BlobID, out); err != nil {
		return nil, err
	}
	doc.Name = name
	doc.Values = input.Values.Clone()
	doc.FileSize = int64(len(out))
	doc.Degraded = false
	if err := s.docRepo.Update(ctx, doc); err != nil {
		s.gen.remove(ctx, doc.BlobID)
		return nil, err
	}
	s.gen.remove(ctx, oldBlob)

	log.Infof("documentService.Regenerate: regenerated document %s", doc.ID)
	return doc, nil
}

func (s *documentService) Delete(ctx context.Context, id uuid.UUID) error {
	doc, err := s.docRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.docRepo.Delete(ctx, id); err != nil {
		return err
	}
	s.gen.remove(ctx, doc.BlobID)
	return nil
}

func (s *documentService) Download(ctx context.Context, id uuid.UUID) (*DocumentFile, error) {
	doc, err := s.docRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	data, err := s.storage.Download(ctx, doc.BlobID)
	if err != nil {
		return nil, err
	}
	name := csvexport.SanitizeFilename(doc.Name)
	if name == "" {
		name = "document"
	}
	return &DocumentFile{FileName: name + ".docx", Data: data}, nil
}

// DownloadURL returns a time-limited direct link to the document's file.
func (s *documentService) DownloadURL(ctx context.Context, id uuid.UUID) (string, error) {
	doc, err := s.docRepo.GetByID(ctx, id)
	if err != nil {
		return "", err
	}
	exists, err := s.storage.Exists(ctx, doc.BlobID)
	if err != nil {
		return "", fmt.Errorf("checking file: %w", err)
	}
	if !exists {
		return "", domain.ErrBlobNotFound
	}
	return s.storage.GetPresignedURL(ctx, doc.BlobID, s.urlExpiry)
}

// Preview re-renders a stored document from its template and values.
func (s *documentService) Preview(ctx context.Context, id uuid.UUID) (*preview.Result, error) {
	doc, err := s.docRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	tpl, err := s.templateRepo.GetByID(ctx, doc.TemplateID)
	if err != nil {
		return nil, err
	}
	data, err := s.storage.Download(ctx, tpl.BlobID)
	if err != nil {
		logging.FromContext(ctx).Warnf("documentService.Preview: template file unavailable for %s: %v", tpl.ID, err)
		data = nil
	}
	res := s.pipeline.Preview(data, tpl.Fields, doc.Values)
	return &res, nil
}
