package port

import (
	"context"

	"docgen/internal/domain"
)

// BatchNotifier tells a requester that a batch session finished processing.
type BatchNotifier interface {
	SendBatchProcessed(ctx context.Context, toEmail string, session *domain.BatchSession, templateName string) error
}
