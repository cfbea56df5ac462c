package service

import (
	"bytes"
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"docgen/internal/docx"
	"docgen/internal/domain"
	"docgen/internal/port"
)

// generator turns field values into a stored document. It is shared by the
// single-document and batch paths.
type generator struct {
	renderer port.Renderer
	storage  port.BlobStorage
	docRepo  port.DocumentRepository
}

// buildJob describes one document to produce.
type buildJob struct {
	Template *domain.Template
	// TemplateData is ignored when Degraded is set.
	TemplateData []byte
	Name         string
	Values       domain.FieldValues
	// Degraded builds the plain name/value fallback instead of rendering.
	Degraded bool
	BatchID  *uuid.UUID
}

// build returns the package bytes for job.
func (g *generator) build(job *buildJob) ([]byte, error) {
	if job.Degraded {
		return docx.BuildFallback(job.Name, job.Values)
	}
	return g.renderer.Render(job.TemplateData, job.Values)
}

// create renders, stores and persists a new document. A stored blob whose
// row cannot be written is removed again.
func (g *generator) create(ctx context.Context, job *buildJob) (*domain.Document, error) {
	data, err := g.build(job)
	if err != nil {
		return nil, err
	}

	doc := &domain.Document{
		ID:           uuid.New(),
		TemplateID:   job.Template.ID,
		TemplateName: job.Template.Name,
		Name:         job.Name,
		BlobID:       uuid.New().String(),
		FileSize:     int64(len(data)),
		Values:       job.Values.Clone(),
		Degraded:     job.Degraded,
		BatchID:      job.BatchID,
	}
	if err := g.put(ctx, doc.BlobID, data); err != nil {
		return nil, err
	}
	if err := g.docRepo.Create(ctx, doc); err != nil {
		g.remove(ctx, doc.BlobID)
		return nil, err
	}
	return doc, nil
}

func (g *generator) put(ctx context.Context, id string, data []byte) error {
	_, err := g.storage.Upload(ctx, port.UploadInput{
		ID:          id,
		Body:        bytes.NewReader(data),
		ContentType: domain.DocxContentType,
		Size:        int64(len(data)),
	})
	if err != nil {
		logrus.Errorf("generator.put: storage upload failed for %s: %v", id, err)
		return domain.ErrUploadFailed
	}
	return nil
}

func (g *generator) remove(ctx context.Context, id string) {
	if err := g.storage.Delete(ctx, id); err != nil && !errors.Is(err, domain.ErrBlobNotFound) {
		logrus.Warnf("generator.remove: failed to delete blob %s: %v", id, err)
	}
}

// missingRequired lists required catalog fields with no non-blank value.
func missingRequired(catalog []domain.FieldDefinition, values domain.FieldValues) []string {
	var missing []string
	for i := range catalog {
		if !catalog[i].Required {
			continue
		}
		if strings.TrimSpace(values.ValueOf(catalog[i].Name)) == "" {
			missing = append(missing, catalog[i].Name)
		}
	}
	return missing
}
