package port

import (
	"context"

	"github.com/google/uuid"

	"docgen/internal/domain"
)

// TemplateRepository defines the contract for template persistence.
type TemplateRepository interface {
	Create(ctx context.Context, tpl *domain.Template) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Template, error)
	List(ctx context.Context, offset, limit int) ([]domain.Template, int, error)
	UpdateFields(ctx context.Context, tpl *domain.Template) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// BatchRepository defines the contract for batch session persistence.
// Sessions are stored with their rows.
type BatchRepository interface {
	Create(ctx context.Context, session *domain.BatchSession) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.BatchSession, error)
	UpdateRow(ctx context.Context, row *domain.BatchRow) error
	UpdateStatus(ctx context.Context, session *domain.BatchSession) error
	// TransitionStatus moves a session from one status to another in a single
	// conditional write and returns it with its rows. A session not in from
	// yields domain.ErrBatchAlreadyProcessed.
	TransitionStatus(ctx context.Context, id uuid.UUID, from, to domain.BatchStatus) (*domain.BatchSession, error)
	// ClaimQueued atomically moves up to limit queued sessions to processing
	// and returns them with their rows.
	ClaimQueued(ctx context.Context, limit int) ([]domain.BatchSession, error)
	Delete(ctx context.Context, id uuid.UUID) error
}
