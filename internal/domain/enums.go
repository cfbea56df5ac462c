package domain

// FieldType is the inferred input type of a template field.
type FieldType string

const (
	FieldTypeText     FieldType = "text"
	FieldTypeTextarea FieldType = "textarea"
	FieldTypeNumber   FieldType = "number"
	FieldTypeDate     FieldType = "date"
	FieldTypeSelect   FieldType = "select"
)

// MatchRule names the header matching rule that resolved a spreadsheet column.
type MatchRule string

const (
	MatchDocumentName     MatchRule = "document_name"
	MatchExactName        MatchRule = "exact_name"
	MatchExactDisplayName MatchRule = "exact_display_name"
	MatchFoldName         MatchRule = "case_insensitive_name"
	MatchFoldDisplayName  MatchRule = "case_insensitive_display_name"
	MatchNormalized       MatchRule = "normalized"
	MatchPassThrough      MatchRule = "pass_through"
	MatchIgnored          MatchRule = "ignored"
)

// BatchStatus represents the lifecycle of a batch session.
type BatchStatus string

const (
	BatchStatusPending    BatchStatus = "pending"
	BatchStatusQueued     BatchStatus = "queued"
	BatchStatusProcessing BatchStatus = "processing"
	BatchStatusProcessed  BatchStatus = "processed"
)

// BatchRowStatus represents the lifecycle of a single batch row.
type BatchRowStatus string

const (
	RowStatusPending  BatchRowStatus = "pending"
	RowStatusApproved BatchRowStatus = "approved"
	RowStatusRejected BatchRowStatus = "rejected"
	RowStatusCreated  BatchRowStatus = "created"
	RowStatusFailed   BatchRowStatus = "failed"
)

// ReviewableRowStatuses are the statuses a caller may set on a pending row.
var ReviewableRowStatuses = map[BatchRowStatus]bool{
	RowStatusPending:  true,
	RowStatusApproved: true,
	RowStatusRejected: true,
}

// Processable reports whether a row is still waiting for document creation.
func (s BatchRowStatus) Processable() bool {
	return s == RowStatusPending || s == RowStatusApproved
}

// DateField selects the timestamp a bulk filter date bound applies to.
type DateField string

const (
	DateFieldCreated DateField = "created"
	DateFieldUpdated DateField = "updated"
)

// FileStatus reports whether a document's backing blob is present.
type FileStatus string

const (
	FileStatusExists  FileStatus = "exists"
	FileStatusMissing FileStatus = "missing"
	FileStatusUnknown FileStatus = "unknown"
)

// DocxContentType is the MIME type of generated and uploaded packages.
const DocxContentType = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"

// SheetExtensions lists the tabular formats accepted for batch uploads.
var SheetExtensions = map[string]bool{
	"xlsx": true,
	"csv":  true,
}
