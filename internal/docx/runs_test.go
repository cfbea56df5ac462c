package docx_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"docgen/internal/docx"
)

func TestMergeSplitTokens_JoinsTagAcrossRuns(t *testing.T) {
	part := []byte(`<w:body><w:p><w:r><w:t>Dear {{ cli</w:t></w:r>` +
		`<w:r><w:rPr><w:b/></w:rPr><w:t>ent_name }}, hi</w:t></w:r></w:p></w:body>`)

	merged := docx.MergeSplitTokens(part)

	assert.Contains(t, string(merged), `<w:t xml:space="preserve">Dear {{ client_name }}</w:t>`)
	assert.Contains(t, string(merged), `<w:t xml:space="preserve">, hi</w:t>`)
	assert.Contains(t, string(merged), `<w:rPr><w:b/></w:rPr>`)
	assert.Equal(t, docx.ParagraphTexts(part), docx.ParagraphTexts(merged))
}

func TestMergeSplitTokens_TagOverThreeRuns(t *testing.T) {
	part := []byte(`<w:p><w:r><w:t>{{</w:t></w:r><w:r><w:t>amount</w:t></w:r><w:r><w:t>}} due</w:t></w:r></w:p>`)

	merged := docx.MergeSplitTokens(part)

	assert.Contains(t, string(merged), `>{{amount}}</w:t>`)
	assert.Equal(t, []string{"{{amount}} due"}, docx.ParagraphTexts(merged))
}

func TestMergeSplitTokens_TwoTagsSharingARun(t *testing.T) {
	part := []byte(`<w:p><w:r><w:t>{{ a</w:t></w:r><w:r><w:t> }} and {{ b</w:t></w:r><w:r><w:t> }}</w:t></w:r></w:p>`)

	merged := docx.MergeSplitTokens(part)

	assert.Equal(t, []string{"{{ a }} and {{ b }}"}, docx.ParagraphTexts(merged))
	assert.Contains(t, string(merged), `>{{ a }}</w:t>`)
	assert.Contains(t, string(merged), `> and {{ b }}</w:t>`)
}

func TestMergeSplitTokens_LeavesIntactParagraphsAlone(t *testing.T) {
	part := []byte(`<w:p><w:r><w:t>{{ whole }}</w:t></w:r><w:r><w:t> text</w:t></w:r></w:p>`)
	assert.Equal(t, string(part), string(docx.MergeSplitTokens(part)))
}

func TestParagraphTexts_Unescapes(t *testing.T) {
	part := []byte(`<w:p><w:r><w:t>A &amp; B</w:t></w:r></w:p><w:p><w:pPr/><w:r><w:t>second</w:t></w:r></w:p>`)
	assert.Equal(t, []string{"A & B", "second"}, docx.ParagraphTexts(part))
}

func TestStripMarkup(t *testing.T) {
	part := []byte(`<w:p><w:r><w:t>one</w:t><w:br/><w:t>two &lt;3</w:t></w:r></w:p><w:p><w:r><w:t>three</w:t></w:r></w:p>`)
	assert.Equal(t, "one\ntwo <3\nthree\n", docx.StripMarkup(part))
	assert.Equal(t, "plain", docx.StripTags("<b>plain</b>"))
}
