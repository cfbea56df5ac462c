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

type batchRepo struct {
	db *sqlx.DB
}

// NewBatchRepo creates a new PostgreSQL-backed BatchRepository.
func NewBatchRepo(db *sqlx.DB) port.BatchRepository {
	return &batchRepo{db: db}
}

// Create inserts the session and all its rows in one transaction.
func (r *batchRepo) Create(ctx context.Context, session *domain.BatchSession) error {
	now := time.Now().UTC()
	session.CreatedAt = now
	session.UpdatedAt = now

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("batchRepo.Create begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO batch_sessions (
			id, template_id, source_name, mapping, status,
			created_count, failed_count, notify_email, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		session.ID, session.TemplateID, session.SourceName, session.Mapping, session.Status,
		session.CreatedCount, session.FailedCount, session.NotifyEmail, session.CreatedAt, session.UpdatedAt)
	if err != nil {
		return fmt.Errorf("batchRepo.Create session: %w", err)
	}

	for i := range session.Rows {
		row := &session.Rows[i]
		row.BatchID = session.ID
		_, err = tx.ExecContext(ctx,
			`INSERT INTO batch_rows (batch_id, row_index, document_name, field_values, status, error, document_id)
			 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
			row.BatchID, row.Index, row.DocumentName, row.Values, row.Status, row.Error, row.DocumentID)
		if err != nil {
			return fmt.Errorf("batchRepo.Create row %d: %w", row.Index, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("batchRepo.Create commit: %w", err)
	}
	return nil
}

func (r *batchRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.BatchSession, error) {
	var session domain.BatchSession
	err := r.db.GetContext(ctx, &session, "SELECT * FROM batch_sessions WHERE id = $1", id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrBatchNotFound
		}
		return nil, fmt.Errorf("batchRepo.GetByID: %w", err)
	}
	if err := r.loadRows(ctx, &session); err != nil {
		return nil, err
	}
	return &session, nil
}

func (r *batchRepo) loadRows(ctx context.Context, session *domain.BatchSession) error {
	rows := []domain.BatchRow{}
	err := r.db.SelectContext(ctx, &rows,
		"SELECT * FROM batch_rows WHERE batch_id = $1 ORDER BY row_index", session.ID)
	if err != nil {
		return fmt.Errorf("batchRepo.loadRows: %w", err)
	}
	session.Rows = rows
	return nil
}

func (r *batchRepo) UpdateRow(ctx context.Context, row *domain.BatchRow) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE batch_rows SET status = $1, error = $2, document_id = $3
		 WHERE batch_id = $4 AND row_index = $5`,
		row.Status, row.Error, row.DocumentID, row.BatchID, row.Index)
	if err != nil {
		return fmt.Errorf("batchRepo.UpdateRow: %w", err)
	}
	return expectOneRow(result, domain.ErrBatchNotFound)
}

func (r *batchRepo) UpdateStatus(ctx context.Context, session *domain.BatchSession) error {
	session.UpdatedAt = time.Now().UTC()
	result, err := r.db.ExecContext(ctx,
		`UPDATE batch_sessions SET status = $1, created_count = $2, failed_count = $3, updated_at = $4
		 WHERE id = $5`,
		session.Status, session.CreatedCount, session.FailedCount, session.UpdatedAt, session.ID)
	if err != nil {
		return fmt.Errorf("batchRepo.UpdateStatus: %w", err)
	}
	return expectOneRow(result, domain.ErrBatchNotFound)
}

func (r *batchRepo) TransitionStatus(ctx context.Context, id uuid.UUID, from, to domain.BatchStatus) (*domain.BatchSession, error) {
	var session domain.BatchSession
	err := r.db.GetContext(ctx, &session,
		`UPDATE batch_sessions SET status = $1, updated_at = NOW()
		 WHERE id = $2 AND status = $3 RETURNING *`,
		to, id, from)
	if err != nil {
		if !errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("batchRepo.TransitionStatus: %w", err)
		}
		var exists bool
		if err := r.db.GetContext(ctx, &exists,
			"SELECT EXISTS (SELECT 1 FROM batch_sessions WHERE id = $1)", id); err != nil {
			return nil, fmt.Errorf("batchRepo.TransitionStatus: %w", err)
		}
		if !exists {
			return nil, domain.ErrBatchNotFound
		}
		return nil, domain.ErrBatchAlreadyProcessed
	}
	if err := r.loadRows(ctx, &session); err != nil {
		return nil, err
	}
	return &session, nil
}

// ClaimQueued uses SKIP LOCKED so concurrent workers never claim the same session.
func (r *batchRepo) ClaimQueued(ctx context.Context, limit int) ([]domain.BatchSession, error) {
	sessions := []domain.BatchSession{}
	err := r.db.SelectContext(ctx, &sessions,
		`UPDATE batch_sessions SET status = $1, updated_at = NOW()
		 WHERE id IN (
			SELECT id FROM batch_sessions WHERE status = $2
			ORDER BY created_at LIMIT $3 FOR UPDATE SKIP LOCKED
		 ) RETURNING *`,
		domain.BatchStatusProcessing, domain.BatchStatusQueued, limit)
	if err != nil {
		return nil, fmt.Errorf("batchRepo.ClaimQueued: %w", err)
	}
	for i := range sessions {
		if err := r.loadRows(ctx, &sessions[i]); err != nil {
			return nil, err
		}
	}
	return sessions, nil
}

func (r *batchRepo) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, "DELETE FROM batch_sessions WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("batchRepo.Delete: %w", err)
	}
	return expectOneRow(result, domain.ErrBatchNotFound)
}
