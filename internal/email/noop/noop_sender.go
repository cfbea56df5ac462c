package noop

import (
	"context"

	"github.com/sirupsen/logrus"

	"docgen/internal/domain"
	"docgen/internal/email"
	"docgen/internal/port"
)

type noopSender struct {
	frontendURL string
}

// NewNoopSender creates a no-op BatchNotifier that logs the message instead of sending it.
func NewNoopSender(frontendURL string) port.BatchNotifier {
	return &noopSender{frontendURL: frontendURL}
}

func (s *noopSender) SendBatchProcessed(_ context.Context, toEmail string, session *domain.BatchSession, templateName string) error {
	msg := email.BatchProcessed(session, templateName, s.frontendURL)
	logrus.WithField("to", toEmail).Infof("[NOOP EMAIL] %s", msg.Subject)
	return nil
}
