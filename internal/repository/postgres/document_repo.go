package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"docgen/internal/bulk"
	"docgen/internal/domain"
	"docgen/internal/port"
)

// documentSelect joins the template name every read returns.
const documentSelect = `SELECT d.*, t.name AS template_name
	FROM documents d JOIN templates t ON t.id = d.template_id`

type documentRepo struct {
	db *sqlx.DB
}

// NewDocumentRepo creates a new PostgreSQL-backed DocumentRepository.
func NewDocumentRepo(db *sqlx.DB) port.DocumentRepository {
	return &documentRepo{db: db}
}

func (r *documentRepo) Create(ctx context.Context, doc *domain.Document) error {
	now := time.Now().UTC()
	doc.CreatedAt = now
	doc.UpdatedAt = now

	query := `INSERT INTO documents (
		id, template_id, name, blob_id, file_size, field_values,
		degraded, archived, batch_id, created_at, updated_at
	) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`

	_, err := r.db.ExecContext(ctx, query,
		doc.ID, doc.TemplateID, doc.Name, doc.BlobID, doc.FileSize, doc.Values,
		doc.Degraded, doc.Archived, doc.BatchID, doc.CreatedAt, doc.UpdatedAt)
	if err != nil {
		return fmt.Errorf("documentRepo.Create: %w", err)
	}
	return nil
}

func (r *documentRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Document, error) {
	var doc domain.Document
	err := r.db.GetContext(ctx, &doc, documentSelect+" WHERE d.id = $1", id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrDocumentNotFound
		}
		return nil, fmt.Errorf("documentRepo.GetByID: %w", err)
	}
	return &doc, nil
}

func (r *documentRepo) List(ctx context.Context, offset, limit int) ([]domain.Document, int, error) {
	var total int
	if err := r.db.GetContext(ctx, &total, "SELECT COUNT(*) FROM documents WHERE archived = FALSE"); err != nil {
		return nil, 0, fmt.Errorf("documentRepo.List count: %w", err)
	}

	var docs []domain.Document
	err := r.db.SelectContext(ctx, &docs,
		documentSelect+" WHERE d.archived = FALSE ORDER BY d.created_at DESC LIMIT $1 OFFSET $2",
		limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("documentRepo.List: %w", err)
	}
	return docs, total, nil
}

// ListByFilter builds its predicate from bulk.Where only.
func (r *documentRepo) ListByFilter(ctx context.Context, q bulk.Query) ([]domain.Document, error) {
	where, args := bulk.Where(q, "d")
	docs := []domain.Document{}
	err := r.db.SelectContext(ctx, &docs,
		documentSelect+" WHERE "+where+" ORDER BY d.created_at DESC, d.id", args...)
	if err != nil {
		return nil, fmt.Errorf("documentRepo.ListByFilter: %w", err)
	}
	return docs, nil
}

func (r *documentRepo) CountByTemplate(ctx context.Context, templateID uuid.UUID) (int, error) {
	var count int
	err := r.db.GetContext(ctx, &count, "SELECT COUNT(*) FROM documents WHERE template_id = $1", templateID)
	if err != nil {
		return 0, fmt.Errorf("documentRepo.CountByTemplate: %w", err)
	}
	return count, nil
}

func (r *documentRepo) Update(ctx context.Context, doc *domain.Document) error {
	doc.UpdatedAt = time.Now().UTC()
	result, err := r.db.ExecContext(ctx,
		`UPDATE documents SET name = $1, blob_id = $2, file_size = $3, field_values = $4,
		 degraded = $5, archived = $6, updated_at = $7 WHERE id = $8`,
		doc.Name, doc.BlobID, doc.FileSize, doc.Values, doc.Degraded, doc.Archived, doc.UpdatedAt, doc.ID)
	if err != nil {
		return fmt.Errorf("documentRepo.Update: %w", err)
	}
	return expectOneRow(result, domain.ErrDocumentNotFound)
}

func (r *documentRepo) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, "DELETE FROM documents WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("documentRepo.Delete: %w", err)
	}
	return expectOneRow(result, domain.ErrDocumentNotFound)
}
