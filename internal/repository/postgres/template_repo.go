package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"docgen/internal/domain"
	"docgen/internal/port"
)

type templateRepo struct {
	db *sqlx.DB
}

// NewTemplateRepo creates a new PostgreSQL-backed TemplateRepository.
func NewTemplateRepo(db *sqlx.DB) port.TemplateRepository {
	return &templateRepo{db: db}
}

func (r *templateRepo) Create(ctx context.Context, tpl *domain.Template) error {
	now := time.Now().UTC()
	tpl.CreatedAt = now
	tpl.UpdatedAt = now

	query := `INSERT INTO templates (
		id, name, category, description, blob_id, file_name, file_size,
		fields, field_count, created_at, updated_at
	) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`

	_, err := r.db.ExecContext(ctx, query,
		tpl.ID, tpl.Name, tpl.Category, tpl.Description, tpl.BlobID, tpl.FileName, tpl.FileSize,
		tpl.Fields, tpl.FieldCount, tpl.CreatedAt, tpl.UpdatedAt)
	if err != nil {
		return fmt.Errorf("templateRepo.Create: %w", err)
	}
	return nil
}

func (r *templateRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Template, error) {
	var tpl domain.Template
	err := r.db.GetContext(ctx, &tpl, "SELECT * FROM templates WHERE id = $1", id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrTemplateNotFound
		}
		return nil, fmt.Errorf("templateRepo.GetByID: %w", err)
	}
	return &tpl, nil
}

func (r *templateRepo) List(ctx context.Context, offset, limit int) ([]domain.Template, int, error) {
	var total int
	if err := r.db.GetContext(ctx, &total, "SELECT COUNT(*) FROM templates"); err != nil {
		return nil, 0, fmt.Errorf("templateRepo.List count: %w", err)
	}

	var tpls []domain.Template
	err := r.db.SelectContext(ctx, &tpls,
		"SELECT * FROM templates ORDER BY created_at DESC LIMIT $1 OFFSET $2", limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("templateRepo.List: %w", err)
	}
	return tpls, total, nil
}

func (r *templateRepo) UpdateFields(ctx context.Context, tpl *domain.Template) error {
	tpl.UpdatedAt = time.Now().UTC()
	result, err := r.db.ExecContext(ctx,
		"UPDATE templates SET fields = $1, field_count = $2, updated_at = $3 WHERE id = $4",
		tpl.Fields, tpl.FieldCount, tpl.UpdatedAt, tpl.ID)
	if err != nil {
		return fmt.Errorf("templateRepo.UpdateFields: %w", err)
	}
	return expectOneRow(result, domain.ErrTemplateNotFound)
}

func (r *templateRepo) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, "DELETE FROM templates WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("templateRepo.Delete: %w", err)
	}
	return expectOneRow(result, domain.ErrTemplateNotFound)
}

// expectOneRow maps an update or delete that touched nothing to notFound.
func expectOneRow(result sql.Result, notFound error) error {
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if rows == 0 {
		return notFound
	}
	return nil
}
