package bulk_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"docgen/internal/bulk"
	"docgen/internal/domain"
)

func ptrTime(t time.Time) *time.Time { return &t }
func ptrBool(b bool) *bool           { return &b }

func TestNormalize_Defaults(t *testing.T) {
	q := bulk.Normalize(domain.BulkFilter{Search: "  lease  "})

	assert.Equal(t, "lease", q.Search)
	assert.Equal(t, domain.DateFieldCreated, q.DateField)
	assert.False(t, q.Archived)
	assert.Nil(t, q.DateFrom)
	assert.Nil(t, q.DateTo)
	assert.Empty(t, q.TemplateIDs)
}

func TestNormalize_TemplateIDsDeduplicated(t *testing.T) {
	a, b := uuid.New(), uuid.New()

	q := bulk.Normalize(domain.BulkFilter{TemplateIDs: []uuid.UUID{a, uuid.Nil, b, a}})

	assert.Equal(t, []uuid.UUID{a, b}, q.TemplateIDs)
}

func TestNormalize_DateToMidnightCoversDay(t *testing.T) {
	day := time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC)

	q := bulk.Normalize(domain.BulkFilter{DateTo: ptrTime(day), DateField: domain.DateFieldUpdated, Archived: ptrBool(true)})

	require.NotNil(t, q.DateTo)
	assert.Equal(t, time.Date(2024, 3, 10, 23, 59, 59, 999999999, time.UTC), *q.DateTo)
	assert.Equal(t, domain.DateFieldUpdated, q.DateField)
	assert.True(t, q.Archived)

	exact := time.Date(2024, 3, 10, 12, 30, 0, 0, time.UTC)
	q = bulk.Normalize(domain.BulkFilter{DateTo: ptrTime(exact)})
	assert.Equal(t, exact, *q.DateTo)
}

func TestNormalize_UnknownDateFieldFallsBackToCreated(t *testing.T) {
	q := bulk.Normalize(domain.BulkFilter{DateField: "deleted"})
	assert.Equal(t, domain.DateFieldCreated, q.DateField)
}

func TestWhere(t *testing.T) {
	a, b := uuid.New(), uuid.New()
	from := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC)
	q := bulk.Normalize(domain.BulkFilter{
		Search:      "50%_off",
		TemplateIDs: []uuid.UUID{a, b},
		DateField:   domain.DateFieldUpdated,
		DateFrom:    &from,
		DateTo:      &to,
	})

	where, args := bulk.Where(q, "d")

	assert.Equal(t,
		`d.archived = $1 AND d.name ILIKE $2 ESCAPE '\' AND d.template_id IN ($3, $4) AND d.updated_at >= $5 AND d.updated_at <= $6`,
		where)
	require.Len(t, args, 6)
	assert.Equal(t, false, args[0])
	assert.Equal(t, `%50\%\_off%`, args[1])
	assert.Equal(t, a, args[2])
	assert.Equal(t, b, args[3])
	assert.Equal(t, from, args[4])
	assert.Equal(t, *q.DateTo, args[5])
}

func TestWhere_NoAlias(t *testing.T) {
	where, args := bulk.Where(bulk.Normalize(domain.BulkFilter{}), "")

	assert.Equal(t, "archived = $1", where)
	assert.Equal(t, []interface{}{false}, args)
}

func TestMatch(t *testing.T) {
	tplA, tplB := uuid.New(), uuid.New()
	created := time.Date(2024, 5, 2, 15, 0, 0, 0, time.UTC)
	doc := &domain.Document{
		Name:       "Lease Agreement - Acme",
		TemplateID: tplA,
		CreatedAt:  created,
		UpdatedAt:  created.AddDate(0, 1, 0),
	}
	day := time.Date(2024, 5, 2, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name   string
		filter domain.BulkFilter
		want   bool
	}{
		{"empty filter", domain.BulkFilter{}, true},
		{"search case-insensitive", domain.BulkFilter{Search: "acme"}, true},
		{"search miss", domain.BulkFilter{Search: "beta"}, false},
		{"template in set", domain.BulkFilter{TemplateIDs: []uuid.UUID{tplB, tplA}}, true},
		{"template not in set", domain.BulkFilter{TemplateIDs: []uuid.UUID{tplB}}, false},
		{"date to midnight same day", domain.BulkFilter{DateTo: &day}, true},
		{"date from after created", domain.BulkFilter{DateFrom: ptrTime(created.Add(time.Hour))}, false},
		{"updated field", domain.BulkFilter{DateField: domain.DateFieldUpdated, DateTo: &day}, false},
		{"archived only", domain.BulkFilter{Archived: ptrBool(true)}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, bulk.Match(bulk.Normalize(tt.filter), doc))
		})
	}
}
