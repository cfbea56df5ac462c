package bulk_test

import (
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"docgen/internal/bulk"
	"docgen/internal/domain"
)

func TestGroup(t *testing.T) {
	lease, memo, nda := uuid.New(), uuid.New(), uuid.New()
	docs := []domain.Document{
		{TemplateID: memo, TemplateName: "Memo"},
		{TemplateID: lease, TemplateName: "Lease"},
		{TemplateID: nda, TemplateName: "NDA"},
		{TemplateID: lease, TemplateName: "Lease"},
		{TemplateID: nda, TemplateName: "NDA"},
	}

	groups := bulk.Group(docs)

	assert.Equal(t, []bulk.TemplateGroup{
		{TemplateID: lease, TemplateName: "Lease", Count: 2},
		{TemplateID: nda, TemplateName: "NDA", Count: 2},
		{TemplateID: memo, TemplateName: "Memo", Count: 1},
	}, groups)
}

func TestSummarize(t *testing.T) {
	tpl := uuid.New()
	var docs []domain.Document
	for i := 0; i < bulk.SampleSize+5; i++ {
		docs = append(docs, domain.Document{ID: uuid.New(), TemplateID: tpl, Name: fmt.Sprintf("doc %d", i)})
	}

	p := bulk.Summarize(docs)

	assert.Equal(t, len(docs), p.Total)
	require.Len(t, p.Groups, 1)
	assert.Equal(t, len(docs), p.Groups[0].Count)
	require.Len(t, p.Sample, bulk.SampleSize)
	assert.Equal(t, "doc 0", p.Sample[0].Document.Name)
	for _, s := range p.Sample {
		assert.Equal(t, domain.FileStatusUnknown, s.FileStatus)
	}
}

func TestSummarize_Empty(t *testing.T) {
	p := bulk.Summarize(nil)

	assert.Equal(t, 0, p.Total)
	assert.NotNil(t, p.Groups)
	assert.NotNil(t, p.Sample)
}
