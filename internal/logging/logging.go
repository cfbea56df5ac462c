// Package logging configures the process-wide logrus logger.
package logging

import (
	"context"
	"os"
	"strings"

	"github.com/sirupsen/logrus"

	"docgen/internal/config"
)

type contextKey string

// RequestIDKey carries the request id through a context.
const RequestIDKey contextKey = "request_id"

// Setup applies the configured level and format to the standard logger.
// Unknown levels fall back to info; "json" selects JSON output, anything
// else human-readable text.
func Setup(cfg config.LogConfig) {
	logrus.SetOutput(os.Stdout)

	level, err := logrus.ParseLevel(cfg.Level)
	if err != nil {
		logrus.Warnf("logging.Setup: unknown level %q, using info", cfg.Level)
		level = logrus.InfoLevel
	}
	logrus.SetLevel(level)

	if strings.EqualFold(cfg.Format, "json") {
		logrus.SetFormatter(&logrus.JSONFormatter{})
		return
	}
	logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
}

// WithRequestID returns a context carrying id.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, RequestIDKey, id)
}

// FromContext returns a log entry tagged with the request id held by ctx.
func FromContext(ctx context.Context) *logrus.Entry {
	entry := logrus.NewEntry(logrus.StandardLogger())
	if id, ok := ctx.Value(RequestIDKey).(string); ok && id != "" {
		entry = entry.WithField("request_id", id)
	}
	return entry
}
