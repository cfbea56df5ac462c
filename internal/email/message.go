// Package email builds the batch completion message shared by the delivery
// adapters in its subpackages.
package email

import (
	"fmt"
	"html"

	"docgen/internal/domain"
)

// Message is a rendered notification.
type Message struct {
	Subject string
	Text    string
	HTML    string
}

// BatchProcessed builds the message sent when a batch session finishes.
func BatchProcessed(session *domain.BatchSession, templateName, frontendURL string) Message {
	sessionURL := fmt.Sprintf("%s/batches/%s", frontendURL, session.ID)
	subject := fmt.Sprintf("Batch %q finished: %d created, %d failed", session.SourceName, session.CreatedCount, session.FailedCount)

	text := fmt.Sprintf("Hi,\n\nThe batch upload %q for template %q has been processed.\n\nCreated: %d\nFailed: %d\n\nReview the results at:\n%s\n\nDocgen",
		session.SourceName, templateName, session.CreatedCount, session.FailedCount, sessionURL)

	body := fmt.Sprintf(`<!DOCTYPE html>
<html>
<head><meta charset="UTF-8"></head>
<body style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto; padding: 20px;">
  <h2 style="color: #333;">Batch processed</h2>
  <p>The batch upload <strong>%s</strong> for template <strong>%s</strong> has been processed.</p>
  <table style="margin: 20px 0;">
    <tr><td>Created</td><td style="padding-left: 16px;">%d</td></tr>
    <tr><td>Failed</td><td style="padding-left: 16px;">%d</td></tr>
  </table>
  <p style="text-align: center; margin: 30px 0;">
    <a href="%s" style="background-color: #4F46E5; color: white; padding: 12px 24px; text-decoration: none; border-radius: 6px; display: inline-block;">View results</a>
  </p>
  <hr style="border: none; border-top: 1px solid #eee; margin: 20px 0;">
  <p style="color: #999; font-size: 12px;">Docgen</p>
</body>
</html>`, html.EscapeString(session.SourceName), html.EscapeString(templateName),
		session.CreatedCount, session.FailedCount, html.EscapeString(sessionURL))

	return Message{Subject: subject, Text: text, HTML: body}
}
