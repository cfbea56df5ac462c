package csvexport

import (
	"bytes"
	"encoding/csv"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"docgen/internal/domain"
)

func sampleSession() *domain.BatchSession {
	docID := uuid.MustParse("11111111-2222-3333-4444-555555555555")
	return &domain.BatchSession{
		Mapping: domain.MappingList{
			{Column: 0, Header: "Document Name", Rule: domain.MatchDocumentName},
			{Column: 1, Header: "Client", Field: "client", Rule: domain.MatchFoldName},
			{Column: 2, Header: "Amount", Field: "amount", Rule: domain.MatchExactDisplayName},
		},
		Rows: []domain.BatchRow{
			{
				Index:        1,
				DocumentName: "Acme letter",
				Values:       domain.NewFieldValues("client", "Acme", "amount", "10"),
				Status:       domain.RowStatusCreated,
				DocumentID:   &docID,
			},
			{
				Index:        2,
				DocumentName: "Broken",
				Values:       domain.NewFieldValues("client", "Globex", "amount", "20", "extra", "x"),
				Status:       domain.RowStatusFailed,
				Error:        "render word/document.xml: boom",
			},
		},
	}
}

func TestFieldColumns(t *testing.T) {
	assert.Equal(t, []string{"client", "amount", "extra"}, FieldColumns(sampleSession()))
}

func TestWriteHeader(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf, []string{"client", "amount"})
	require.NoError(t, w.WriteHeader())
	w.Flush()
	require.NoError(t, w.Error())

	row, err := csv.NewReader(&buf).Read()
	require.NoError(t, err)
	assert.Equal(t, []string{"Row", "Document Name", "Status", "Error", "Document ID", "client", "amount"}, row)
}

func TestWriteRows(t *testing.T) {
	session := sampleSession()
	var buf bytes.Buffer
	w := NewWriter(&buf, FieldColumns(session))
	require.NoError(t, w.WriteHeader())
	require.NoError(t, w.WriteRows(session.Rows))
	w.Flush()
	require.NoError(t, w.Error())

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)

	assert.Equal(t, []string{"1", "Acme letter", "created", "", "11111111-2222-3333-4444-555555555555", "Acme", "10", ""}, records[1])
	assert.Equal(t, []string{"2", "Broken", "failed", "render word/document.xml: boom", "", "Globex", "20", "x"}, records[2])
}

func TestSanitizeFilename(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"simple", "Q3 Offer Letters", "Q3_Offer_Letters"},
		{"special chars", "FY 2024-25 / Q3 (Oct–Dec)", "FY_2024-25_Q3_Oct_Dec"},
		{"unicode letters kept", "Contrat été", "Contrat_été"},
		{"hyphens and underscores preserved", "my-template_2025", "my-template_2025"},
		{"consecutive underscores collapsed", "test___template", "test_template"},
		{"leading/trailing cleaned", "  hello  ", "hello"},
		{
			"long name truncated",
			"abcdefghijklmnopqrstuvwxyz-abcdefghijklmnopqrstuvwxyz-abcdefghijklmnopqrstuvwxyz-abcdefghijklmnopqrstuvwxyz-extra",
			"abcdefghijklmnopqrstuvwxyz-abcdefghijklmnopqrstuvwxyz-abcdefghijklmnopqrstuvwxyz-abcdefghijklmnopqrs",
		},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, SanitizeFilename(tt.input))
		})
	}
}

func TestBuildFilename(t *testing.T) {
	today := time.Now().Format("2006-01-02")
	assert.Equal(t, "Offer_Letters_"+today+".csv", BuildFilename("Offer Letters", "csv"))
	assert.Equal(t, "export_"+today+".zip", BuildFilename("///", "zip"))
}
