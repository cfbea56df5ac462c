// Package docx reads and writes the parts of Office Open XML word-processing
// packages: placeholder-aware run handling, HTML conversion, and a minimal
// package builder.
package docx

import (
	"archive/zip"
	"bytes"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"
)

// DocumentPart is the main body part of a word-processing package.
const DocumentPart = "word/document.xml"

// ErrPartNotFound is returned when a package lacks a requested part.
var ErrPartNotFound = errors.New("docx: part not found")

// Package is a read-only view over a zipped docx package.
type Package struct {
	files []*zip.File
	index map[string]*zip.File
}

// Open parses data as a zip package.
func Open(data []byte) (*Package, error) {
	r, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("open zip: %w", err)
	}
	p := &Package{
		files: r.File,
		index: make(map[string]*zip.File, len(r.File)),
	}
	for _, f := range r.File {
		p.index[f.Name] = f
	}
	return p, nil
}

// Has reports whether the package contains the named part.
func (p *Package) Has(name string) bool {
	_, ok := p.index[name]
	return ok
}

// Read returns the uncompressed content of a part.
func (p *Package) Read(name string) ([]byte, error) {
	f, ok := p.index[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrPartNotFound, name)
	}
	rc, err := f.Open()
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", name, err)
	}
	defer rc.Close()

	data, err := io.ReadAll(rc)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", name, err)
	}
	return data, nil
}

// TextParts returns the parts that may carry placeholders: the document
// body first, then headers and footers in name order.
func (p *Package) TextParts() []string {
	var parts []string
	if p.Has(DocumentPart) {
		parts = append(parts, DocumentPart)
	}
	var extra []string
	for _, f := range p.files {
		name := f.Name
		if !strings.HasPrefix(name, "word/") || !strings.HasSuffix(name, ".xml") {
			continue
		}
		base := strings.TrimPrefix(name, "word/")
		if strings.Contains(base, "/") {
			continue
		}
		if strings.HasPrefix(base, "header") || strings.HasPrefix(base, "footer") {
			extra = append(extra, name)
		}
	}
	sort.Strings(extra)
	return append(parts, extra...)
}

// Write copies the package to w, substituting the parts present in replace.
// Entry order is preserved; untouched entries are copied without recompression.
func (p *Package) Write(w io.Writer, replace map[string][]byte) error {
	zw := zip.NewWriter(w)
	for _, f := range p.files {
		data, ok := replace[f.Name]
		if !ok {
			if err := zw.Copy(f); err != nil {
				return fmt.Errorf("copy %s: %w", f.Name, err)
			}
			continue
		}
		hdr := &zip.FileHeader{
			Name:     f.Name,
			Method:   zip.Deflate,
			Modified: f.Modified,
		}
		fw, err := zw.CreateHeader(hdr)
		if err != nil {
			return fmt.Errorf("create %s: %w", f.Name, err)
		}
		if _, err := fw.Write(data); err != nil {
			return fmt.Errorf("write %s: %w", f.Name, err)
		}
	}
	return zw.Close()
}

// Bytes is Write into a buffer.
func (p *Package) Bytes(replace map[string][]byte) ([]byte, error) {
	var buf bytes.Buffer
	if err := p.Write(&buf, replace); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// IsZip reports whether data starts with a zip local file header.
func IsZip(data []byte) bool {
	return len(data) >= 4 && data[0] == 'P' && data[1] == 'K' && data[2] == 3 && data[3] == 4
}
