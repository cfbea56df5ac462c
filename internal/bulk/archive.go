package bulk

import (
	"archive/zip"
	"fmt"
	"io"
	"path"
	"strings"
	"time"

	"docgen/internal/csvexport"
)

// Archive streams documents into a zip, one folder per template.
type Archive struct {
	zw   *zip.Writer
	used map[string]bool
}

// NewArchive creates an Archive writing to w. Entries are written as they
// are added; nothing is buffered beyond the current entry.
func NewArchive(w io.Writer) *Archive {
	return &Archive{zw: zip.NewWriter(w), used: make(map[string]bool)}
}

// Add copies r into a new entry under the folder of templateName and returns
// the entry path. Colliding names get a numeric suffix.
func (a *Archive) Add(templateName, docName string, modified time.Time, r io.Reader) (string, error) {
	name := a.uniqueName(FolderName(templateName), docName)
	hdr := &zip.FileHeader{Name: name, Method: zip.Deflate, Modified: modified}
	w, err := a.zw.CreateHeader(hdr)
	if err != nil {
		return "", fmt.Errorf("archive entry %s: %w", name, err)
	}
	if _, err := io.Copy(w, r); err != nil {
		return "", fmt.Errorf("archive entry %s: %w", name, err)
	}
	return name, nil
}

// AddFile writes a top-level entry named name.
func (a *Archive) AddFile(name string, modified time.Time, r io.Reader) error {
	w, err := a.zw.CreateHeader(&zip.FileHeader{Name: name, Method: zip.Deflate, Modified: modified})
	if err != nil {
		return fmt.Errorf("archive entry %s: %w", name, err)
	}
	if _, err := io.Copy(w, r); err != nil {
		return fmt.Errorf("archive entry %s: %w", name, err)
	}
	a.used[name] = true
	return nil
}

// Close finishes the zip central directory.
func (a *Archive) Close() error {
	return a.zw.Close()
}

func (a *Archive) uniqueName(folder, docName string) string {
	base := csvexport.SanitizeFilename(strings.TrimSuffix(docName, ".docx"))
	if base == "" {
		base = "document"
	}
	name := path.Join(folder, base+".docx")
	for n := 2; a.used[name]; n++ {
		name = path.Join(folder, fmt.Sprintf("%s_%d.docx", base, n))
	}
	a.used[name] = true
	return name
}

// FolderName is the archive folder for a template.
func FolderName(templateName string) string {
	if s := csvexport.SanitizeFilename(templateName); s != "" {
		return s
	}
	return "untitled"
}
