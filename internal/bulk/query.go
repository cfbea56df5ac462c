// Package bulk holds the filter shared by bulk preview and bulk execute.
// Both phases go through Normalize, so the documents a preview counts are
// the documents an execute acts on.
package bulk

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"docgen/internal/domain"
)

// SampleSize bounds the sample returned by a preview.
const SampleSize = 10

// Query is a BulkFilter with every default applied.
type Query struct {
	Search      string
	TemplateIDs []uuid.UUID
	DateField   domain.DateField
	DateFrom    *time.Time
	DateTo      *time.Time
	Archived    bool
}

// Normalize applies the filter defaults: archived false, date field created,
// trimmed search, template ids de-duplicated. A DateTo at midnight covers
// the whole day.
func Normalize(f domain.BulkFilter) Query {
	q := Query{
		Search:    strings.TrimSpace(f.Search),
		DateField: domain.DateFieldCreated,
		DateFrom:  f.DateFrom,
	}
	if f.DateField == domain.DateFieldUpdated {
		q.DateField = domain.DateFieldUpdated
	}
	if f.Archived != nil {
		q.Archived = *f.Archived
	}
	if f.DateTo != nil {
		to := *f.DateTo
		if to.Hour() == 0 && to.Minute() == 0 && to.Second() == 0 && to.Nanosecond() == 0 {
			to = to.AddDate(0, 0, 1).Add(-time.Nanosecond)
		}
		q.DateTo = &to
	}
	seen := make(map[uuid.UUID]bool, len(f.TemplateIDs))
	for _, id := range f.TemplateIDs {
		if id == uuid.Nil || seen[id] {
			continue
		}
		seen[id] = true
		q.TemplateIDs = append(q.TemplateIDs, id)
	}
	return q
}

func (q Query) dateColumn() string {
	if q.DateField == domain.DateFieldUpdated {
		return "updated_at"
	}
	return "created_at"
}

func (q Query) dateOf(d *domain.Document) time.Time {
	if q.DateField == domain.DateFieldUpdated {
		return d.UpdatedAt
	}
	return d.CreatedAt
}

// Where renders the query as a SQL predicate over the documents table
// aliased as alias, with positional arguments starting at $1.
func Where(q Query, alias string) (string, []interface{}) {
	col := func(name string) string {
		if alias == "" {
			return name
		}
		return alias + "." + name
	}

	args := []interface{}{q.Archived}
	clauses := []string{col("archived") + " = $1"}
	next := func(v interface{}) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if q.Search != "" {
		clauses = append(clauses, col("name")+" ILIKE "+next("%"+escapeLike(q.Search)+"%")+` ESCAPE '\'`)
	}
	if len(q.TemplateIDs) > 0 {
		placeholders := make([]string, len(q.TemplateIDs))
		for i, id := range q.TemplateIDs {
			placeholders[i] = next(id)
		}
		clauses = append(clauses, col("template_id")+" IN ("+strings.Join(placeholders, ", ")+")")
	}
	if q.DateFrom != nil {
		clauses = append(clauses, col(q.dateColumn())+" >= "+next(*q.DateFrom))
	}
	if q.DateTo != nil {
		clauses = append(clauses, col(q.dateColumn())+" <= "+next(*q.DateTo))
	}
	return strings.Join(clauses, " AND "), args
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}

// Match reports whether a document satisfies the query. It mirrors Where
// for callers that filter in memory.
func Match(q Query, d *domain.Document) bool {
	if d.Archived != q.Archived {
		return false
	}
	if q.Search != "" && !strings.Contains(strings.ToLower(d.Name), strings.ToLower(q.Search)) {
		return false
	}
	if len(q.TemplateIDs) > 0 {
		found := false
		for _, id := range q.TemplateIDs {
			if id == d.TemplateID {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	at := q.dateOf(d)
	if q.DateFrom != nil && at.Before(*q.DateFrom) {
		return false
	}
	if q.DateTo != nil && at.After(*q.DateTo) {
		return false
	}
	return true
}
