package logging

import (
	"context"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"

	"docgen/internal/config"
)

func TestSetup(t *testing.T) {
	t.Cleanup(func() {
		logrus.SetLevel(logrus.InfoLevel)
		logrus.SetFormatter(&logrus.TextFormatter{})
	})

	Setup(config.LogConfig{Level: "warn", Format: "json"})
	assert.Equal(t, logrus.WarnLevel, logrus.GetLevel())
	assert.IsType(t, &logrus.JSONFormatter{}, logrus.StandardLogger().Formatter)

	Setup(config.LogConfig{Level: "nonsense", Format: "console"})
	assert.Equal(t, logrus.InfoLevel, logrus.GetLevel())
	assert.IsType(t, &logrus.TextFormatter{}, logrus.StandardLogger().Formatter)
}

func TestFromContext(t *testing.T) {
	entry := FromContext(WithRequestID(context.Background(), "req-1"))
	assert.Equal(t, "req-1", entry.Data["request_id"])

	entry = FromContext(context.Background())
	_, ok := entry.Data["request_id"]
	assert.False(t, ok)
}
