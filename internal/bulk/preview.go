package bulk

import (
	"sort"

	"github.com/google/uuid"

	"docgen/internal/domain"
)

// TemplateGroup counts matching documents of one template.
type TemplateGroup struct {
	TemplateID   uuid.UUID `json:"template_id"`
	TemplateName string    `json:"template_name"`
	Count        int       `json:"count"`
}

// SampleItem is one document of a preview sample.
type SampleItem struct {
	Document   domain.Document   `json:"document"`
	FileStatus domain.FileStatus `json:"file_status"`
}

// Preview summarizes what an execute with the same filter would act on.
type Preview struct {
	Total  int             `json:"total"`
	Groups []TemplateGroup `json:"groups"`
	Sample []SampleItem    `json:"sample"`
}

// Summarize groups docs per template and takes the first SampleSize as the
// sample, with file status unknown.
func Summarize(docs []domain.Document) *Preview {
	p := &Preview{Total: len(docs), Groups: Group(docs), Sample: []SampleItem{}}
	for i := range docs {
		if i == SampleSize {
			break
		}
		p.Sample = append(p.Sample, SampleItem{Document: docs[i], FileStatus: domain.FileStatusUnknown})
	}
	return p
}

// Group counts documents per template, largest group first, ties by name.
func Group(docs []domain.Document) []TemplateGroup {
	index := make(map[uuid.UUID]int)
	groups := []TemplateGroup{}
	for i := range docs {
		d := &docs[i]
		pos, ok := index[d.TemplateID]
		if !ok {
			pos = len(groups)
			index[d.TemplateID] = pos
			groups = append(groups, TemplateGroup{TemplateID: d.TemplateID, TemplateName: d.TemplateName})
		}
		groups[pos].Count++
	}
	sort.SliceStable(groups, func(i, j int) bool {
		if groups[i].Count != groups[j].Count {
			return groups[i].Count > groups[j].Count
		}
		return groups[i].TemplateName < groups[j].TemplateName
	})
	return groups
}

// ItemError describes a document a bulk execute could not handle.
type ItemError struct {
	DocumentID uuid.UUID `json:"document_id"`
	Name       string    `json:"name"`
	Error      string    `json:"error"`
}

// DeleteResult is the partial result of a bulk delete.
type DeleteResult struct {
	Deleted int         `json:"deleted"`
	Failed  int         `json:"failed"`
	Errors  []ItemError `json:"errors,omitempty"`
}

// DownloadResult is the partial result of a bulk download.
type DownloadResult struct {
	Added        int      `json:"added"`
	Missing      int      `json:"missing"`
	MissingNames []string `json:"missing_names,omitempty"`
}
