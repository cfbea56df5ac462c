package domain

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// FieldDefinition describes one placeholder of a template.
type FieldDefinition struct {
	Name        string    `json:"name"`
	DisplayName string    `json:"display_name"`
	Type        FieldType `json:"type"`
	Required    bool      `json:"required"`
	Options     []string  `json:"options,omitempty"`
}

// FieldList is the ordered field catalog of a template, stored as JSONB.
type FieldList []FieldDefinition

// Value implements driver.Valuer.
func (l FieldList) Value() (driver.Value, error) {
	if l == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(l)
}

// Scan implements sql.Scanner.
func (l *FieldList) Scan(src interface{}) error {
	switch v := src.(type) {
	case nil:
		*l = nil
		return nil
	case []byte:
		return json.Unmarshal(v, l)
	case string:
		return json.Unmarshal([]byte(v), l)
	default:
		return fmt.Errorf("field list: cannot scan %T", src)
	}
}

// Names returns the field names in catalog order.
func (l FieldList) Names() []string {
	out := make([]string, len(l))
	for i := range l {
		out[i] = l[i].Name
	}
	return out
}

// Template is a reusable document skeleton with its extracted field catalog.
type Template struct {
	ID          uuid.UUID `db:"id" json:"id"`
	Name        string    `db:"name" json:"name"`
	Category    string    `db:"category" json:"category"`
	Description string    `db:"description" json:"description"`
	BlobID      string    `db:"blob_id" json:"-"`
	FileName    string    `db:"file_name" json:"file_name"`
	FileSize    int64     `db:"file_size" json:"file_size"`
	Fields      FieldList `db:"fields" json:"fields"`
	FieldCount  int       `db:"field_count" json:"field_count"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time `db:"updated_at" json:"updated_at"`
}

// Document is a concrete document rendered from a template.
type Document struct {
	ID           uuid.UUID   `db:"id" json:"id"`
	TemplateID   uuid.UUID   `db:"template_id" json:"template_id"`
	TemplateName string      `db:"template_name" json:"template_name"`
	Name         string      `db:"name" json:"name"`
	BlobID       string      `db:"blob_id" json:"-"`
	FileSize     int64       `db:"file_size" json:"file_size"`
	Values       FieldValues `db:"field_values" json:"field_values"`
	Degraded     bool        `db:"degraded" json:"degraded"`
	Archived     bool        `db:"archived" json:"archived"`
	BatchID      *uuid.UUID  `db:"batch_id" json:"batch_id,omitempty"`
	CreatedAt    time.Time   `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time   `db:"updated_at" json:"updated_at"`
}

// HeaderMapping records how one spreadsheet header was resolved.
type HeaderMapping struct {
	Column int       `json:"column"`
	Header string    `json:"header"`
	Field  string    `json:"field,omitempty"`
	Rule   MatchRule `json:"rule"`
}

// MappingList is the ordered header mapping of a batch session, stored as JSONB.
type MappingList []HeaderMapping

// Value implements driver.Valuer.
func (l MappingList) Value() (driver.Value, error) {
	if l == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(l)
}

// Scan implements sql.Scanner.
func (l *MappingList) Scan(src interface{}) error {
	switch v := src.(type) {
	case nil:
		*l = nil
		return nil
	case []byte:
		return json.Unmarshal(v, l)
	case string:
		return json.Unmarshal([]byte(v), l)
	default:
		return fmt.Errorf("mapping list: cannot scan %T", src)
	}
}

// BatchRow is one pending document of a batch session.
type BatchRow struct {
	BatchID      uuid.UUID      `db:"batch_id" json:"-"`
	Index        int            `db:"row_index" json:"index"`
	DocumentName string         `db:"document_name" json:"document_name"`
	Values       FieldValues    `db:"field_values" json:"field_values"`
	Status       BatchRowStatus `db:"status" json:"status"`
	Error        string         `db:"error" json:"error,omitempty"`
	DocumentID   *uuid.UUID     `db:"document_id" json:"document_id,omitempty"`
}

// BatchSession is a bulk-creation job derived from an uploaded spreadsheet.
type BatchSession struct {
	ID           uuid.UUID   `db:"id" json:"id"`
	TemplateID   uuid.UUID   `db:"template_id" json:"template_id"`
	SourceName   string      `db:"source_name" json:"source_name"`
	Mapping      MappingList `db:"mapping" json:"mapping"`
	Status       BatchStatus `db:"status" json:"status"`
	CreatedCount int         `db:"created_count" json:"created_count"`
	FailedCount  int         `db:"failed_count" json:"failed_count"`
	NotifyEmail  string      `db:"notify_email" json:"notify_email,omitempty"`
	Rows         []BatchRow  `db:"-" json:"rows"`
	CreatedAt    time.Time   `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time   `db:"updated_at" json:"updated_at"`
}

// BulkFilter is the declarative predicate shared by bulk preview and execute.
type BulkFilter struct {
	Search      string      `json:"search"`
	TemplateIDs []uuid.UUID `json:"template_ids"`
	DateField   DateField   `json:"date_field"`
	DateFrom    *time.Time  `json:"date_from"`
	DateTo      *time.Time  `json:"date_to"`
	Archived    *bool       `json:"archived"`
	Confirm     bool        `json:"confirm"`
}
