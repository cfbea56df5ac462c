package sheet_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"docgen/internal/domain"
	"docgen/internal/sheet"
)

var catalog = []domain.FieldDefinition{
	{Name: "client_name", DisplayName: "Client name"},
	{Name: "due_date", DisplayName: "Due date"},
	{Name: "total_amount", DisplayName: "Total amount"},
	{Name: "order_status", DisplayName: "Order status"},
	{Name: "notes", DisplayName: "Notes"},
}

func TestMapHeaders_RulesInOrder(t *testing.T) {
	headers := []string{"Name", "client_name", "DUE DATE", "Total-Amount", "Region", "", "ORDER_STATUS", "Notes"}

	m := sheet.MapHeaders(headers, catalog)

	assert.Equal(t, 0, m.DocumentNameColumn)
	assert.Equal(t, domain.MappingList{
		{Column: 0, Header: "Name", Rule: domain.MatchDocumentName},
		{Column: 1, Header: "client_name", Field: "client_name", Rule: domain.MatchExactName},
		{Column: 2, Header: "DUE DATE", Field: "due_date", Rule: domain.MatchFoldDisplayName},
		{Column: 3, Header: "Total-Amount", Field: "total_amount", Rule: domain.MatchNormalized},
		{Column: 4, Header: "Region", Field: "Region", Rule: domain.MatchPassThrough},
		{Column: 5, Header: "", Rule: domain.MatchIgnored},
		{Column: 6, Header: "ORDER_STATUS", Field: "order_status", Rule: domain.MatchFoldName},
		{Column: 7, Header: "Notes", Field: "notes", Rule: domain.MatchExactDisplayName},
	}, m.Columns)
}

func TestMapHeaders_DocumentNameColumn(t *testing.T) {
	tests := []struct {
		name    string
		headers []string
		want    int
	}{
		{"first column preferred", []string{"document_name", "Notes", "File Name"}, 0},
		{"found anywhere", []string{"Notes", "Document Title"}, 1},
		{"doc name alias", []string{"Notes", "Doc-Name"}, 1},
		{"absent", []string{"Notes", "client_name"}, -1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, sheet.MapHeaders(tt.headers, catalog).DocumentNameColumn)
		})
	}
}

func TestMapHeaders_FieldClaimedOnce(t *testing.T) {
	m := sheet.MapHeaders([]string{"client_name", "Client name", "client_name"}, catalog)

	require.Len(t, m.Columns, 3)
	assert.Equal(t, domain.MatchExactName, m.Columns[0].Rule)
	assert.Equal(t, domain.MatchPassThrough, m.Columns[1].Rule)
	assert.Equal(t, "Client name", m.Columns[1].Field)
	assert.Equal(t, domain.MatchIgnored, m.Columns[2].Rule)
}

func TestExpandRows(t *testing.T) {
	table := &sheet.Table{
		Headers: []string{"Client name", "Document Name", "Region"},
		Rows: [][]string{
			{" Acme ", "Acme lease", " north "},
			{"", "  ", ""},
			{"Beta"},
			{"Gamma", "", "south"},
		},
	}
	m := sheet.MapHeaders(table.Headers, catalog)

	rows := sheet.ExpandRows(table, m, "Lease")

	require.Len(t, rows, 3)
	assert.Equal(t, 1, rows[0].Index)
	assert.Equal(t, "Acme lease", rows[0].DocumentName)
	assert.Equal(t, domain.NewFieldValues("client_name", "Acme", "Region", "north"), rows[0].Values)

	assert.Equal(t, 3, rows[1].Index)
	assert.Equal(t, "Lease #3", rows[1].DocumentName)
	assert.Equal(t, domain.NewFieldValues("client_name", "Beta", "Region", ""), rows[1].Values)

	assert.Equal(t, 4, rows[2].Index)
	assert.Equal(t, "Lease #4", rows[2].DocumentName)
}

func TestExpandRows_NoNameColumn(t *testing.T) {
	table := &sheet.Table{Headers: []string{"notes"}, Rows: [][]string{{"x"}, {"y"}}}

	rows := sheet.ExpandRows(table, sheet.MapHeaders(table.Headers, catalog), "Memo")

	require.Len(t, rows, 2)
	assert.Equal(t, "Memo #1", rows[0].DocumentName)
	assert.Equal(t, "Memo #2", rows[1].DocumentName)
	assert.Equal(t, "x", rows[0].Values.ValueOf("notes"))
}

func TestExpandRows_CapsLongNames(t *testing.T) {
	long := strings.Repeat("é", sheet.MaxDocumentNameLength+40)
	table := &sheet.Table{Headers: []string{"Document Name", "notes"}, Rows: [][]string{{long, "x"}, {"short", "y"}}}

	rows := sheet.ExpandRows(table, sheet.MapHeaders(table.Headers, catalog), "Memo")

	require.Len(t, rows, 2)
	assert.Equal(t, strings.Repeat("é", sheet.MaxDocumentNameLength), rows[0].DocumentName)
	assert.Equal(t, "short", rows[1].DocumentName)
}
