package docx_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"docgen/internal/docx"
	"docgen/internal/domain"
)

func TestBuildFallback_ListsValuesInOrder(t *testing.T) {
	values := domain.NewFieldValues("client_name", "Acme <Ltd>", "notes", "line one\nline two", "amount", "")

	data, err := docx.BuildFallback("Contract #3", values)
	require.NoError(t, err)

	text, err := docx.PlainText(data)
	require.NoError(t, err)
	assert.Equal(t, "Contract #3\nclient_name: Acme <Ltd>\nnotes: line one\nline two\namount: ", text)

	html, err := docx.ToHTML(data)
	require.NoError(t, err)
	assert.Contains(t, html, "<h1>Contract #3</h1>")
	assert.Contains(t, html, "<p>client_name: Acme &lt;Ltd&gt;</p>")
}

func TestBuildFallback_NoValues(t *testing.T) {
	data, err := docx.BuildFallback("Empty", domain.FieldValues{})
	require.NoError(t, err)

	text, err := docx.PlainText(data)
	require.NoError(t, err)
	assert.Equal(t, "Empty", text)
}

func TestNewPackage_HasRequiredParts(t *testing.T) {
	data, err := docx.NewPackage([]byte(`<w:p/>`))
	require.NoError(t, err)

	pkg, err := docx.Open(data)
	require.NoError(t, err)
	for _, part := range []string{"[Content_Types].xml", "_rels/.rels", docx.DocumentPart, "word/styles.xml"} {
		assert.True(t, pkg.Has(part), part)
	}
}

func TestTextToRunContent(t *testing.T) {
	assert.Equal(t, `a &amp; b`, docx.TextToRunContent("a & b"))
	assert.Equal(t,
		`x&lt;y</w:t><w:br/><w:t xml:space="preserve">&quot;z&apos;`,
		docx.TextToRunContent("x<y\n\"z'"))
}
