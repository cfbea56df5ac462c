package service_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"docgen/internal/config"
	"docgen/internal/docx"
)

func testS3Config() *config.S3Config {
	return &config.S3Config{
		Region:        "us-east-1",
		Bucket:        "test-bucket",
		MaxFileSizeMB: 1,
		PresignExpiry: 3600,
	}
}

// docxWithText returns a package whose body is one paragraph per line.
func docxWithText(t *testing.T, lines ...string) []byte {
	t.Helper()
	var body string
	for _, l := range lines {
		body += `<w:p><w:r><w:t xml:space="preserve">` + l + `</w:t></w:r></w:p>`
	}
	data, err := docx.NewPackage([]byte(body))
	require.NoError(t, err)
	return data
}
