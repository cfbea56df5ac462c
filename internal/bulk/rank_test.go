package bulk_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"docgen/internal/bulk"
	"docgen/internal/domain"
)

func names(docs []domain.Document) []string {
	out := make([]string, len(docs))
	for i := range docs {
		out[i] = docs[i].Name
	}
	return out
}

func TestRank(t *testing.T) {
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	docs := []domain.Document{
		{Name: "Old lease", UpdatedAt: base},
		{Name: "Unrelated", UpdatedAt: base.Add(5 * time.Hour)},
		{Name: "Lease renewal", UpdatedAt: base.Add(time.Hour)},
		{Name: "New lease", UpdatedAt: base.Add(2 * time.Hour)},
		{Name: "Lease draft", UpdatedAt: base.Add(3 * time.Hour)},
	}

	bulk.Rank(docs, " LEASE ")

	assert.Equal(t, []string{"Lease draft", "Lease renewal", "New lease", "Old lease", "Unrelated"}, names(docs))
}

func TestRank_EmptySearchOrdersByRecency(t *testing.T) {
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	docs := []domain.Document{
		{Name: "a", UpdatedAt: base},
		{Name: "b", UpdatedAt: base.Add(time.Hour)},
	}

	bulk.Rank(docs, "")

	assert.Equal(t, []string{"b", "a"}, names(docs))
}
