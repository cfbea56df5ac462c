package bulk_test

import (
	"archive/zip"
	"bytes"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"docgen/internal/bulk"
)

func TestArchive_FoldersAndUniqueNames(t *testing.T) {
	var buf bytes.Buffer
	a := bulk.NewArchive(&buf)
	now := time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC)

	var names []string
	for _, in := range []struct{ tpl, doc string }{
		{"Lease", "Acme"},
		{"Lease", "Acme.docx"},
		{"Lease", "Acme"},
		{"Memo", "Acme"},
		{"", ""},
	} {
		name, err := a.Add(in.tpl, in.doc, now, strings.NewReader(in.tpl+"/"+in.doc))
		require.NoError(t, err)
		names = append(names, name)
	}
	require.NoError(t, a.AddFile("MISSING_FILES.txt", now, strings.NewReader("none")))
	require.NoError(t, a.Close())

	assert.Equal(t, []string{
		"Lease/Acme.docx",
		"Lease/Acme_2.docx",
		"Lease/Acme_3.docx",
		"Memo/Acme.docx",
		"untitled/document.docx",
	}, names)

	zr, err := zip.NewReader(bytes.NewReader(buf.Bytes()), int64(buf.Len()))
	require.NoError(t, err)
	require.Len(t, zr.File, 6)
	rc, err := zr.File[1].Open()
	require.NoError(t, err)
	body, err := io.ReadAll(rc)
	require.NoError(t, err)
	_ = rc.Close()
	assert.Equal(t, "Lease/Acme.docx", string(body))
	assert.Equal(t, "MISSING_FILES.txt", zr.File[5].Name)
}

func TestFolderName(t *testing.T) {
	assert.Equal(t, "untitled", bulk.FolderName("   "))
	assert.Equal(t, "Lease", bulk.FolderName("Lease"))
}
