package port

import "docgen/internal/domain"

// Renderer fills a docx template with field values.
type Renderer interface {
	Render(tpl []byte, values domain.FieldValues) ([]byte, error)
	// Check reports whether the template compiles, without rendering it.
	Check(tpl []byte) error
}
