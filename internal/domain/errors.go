package domain

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrNotFound              = errors.New("resource not found")
	ErrTemplateNotFound      = errors.New("template not found")
	ErrDocumentNotFound      = errors.New("document not found")
	ErrBatchNotFound         = errors.New("batch session not found")
	ErrBlobNotFound          = errors.New("stored file not found")
	ErrInvalidTemplate       = errors.New("template is not a readable docx package")
	ErrUnsupportedFileType   = errors.New("unsupported file type")
	ErrFileTooLarge          = errors.New("file exceeds maximum allowed size")
	ErrUploadFailed          = errors.New("file upload to storage failed")
	ErrRenderFailed          = errors.New("template rendering failed")
	ErrConversionFailed      = errors.New("html conversion failed")
	ErrValidationFailed      = errors.New("required fields are missing")
	ErrConfirmationRequired  = errors.New("bulk delete requires confirmation")
	ErrInvalidRowStatus      = errors.New("invalid batch row status")
	ErrBatchAlreadyProcessed = errors.New("batch session already processed")
	ErrEmptySheet            = errors.New("spreadsheet has no data rows")
	ErrTooManyRows           = errors.New("spreadsheet exceeds maximum row count")
	ErrTemplateHasDocuments  = errors.New("template still has documents")
)

// RenderError reports a template that could not be rendered.
type RenderError struct {
	Part string
	Err  error
}

func (e *RenderError) Error() string {
	if e.Part == "" {
		return fmt.Sprintf("render: %v", e.Err)
	}
	return fmt.Sprintf("render %s: %v", e.Part, e.Err)
}

func (e *RenderError) Unwrap() []error {
	return []error{ErrRenderFailed, e.Err}
}

// ConversionError reports a package that could not be converted to HTML.
type ConversionError struct {
	Err error
}

func (e *ConversionError) Error() string {
	return fmt.Sprintf("convert to html: %v", e.Err)
}

func (e *ConversionError) Unwrap() []error {
	return []error{ErrConversionFailed, e.Err}
}

// ValidationError lists required fields that were absent under strict validation.
type ValidationError struct {
	Missing []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("missing required fields: %s", strings.Join(e.Missing, ", "))
}

func (e *ValidationError) Unwrap() error {
	return ErrValidationFailed
}
