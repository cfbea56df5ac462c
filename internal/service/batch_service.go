package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"docgen/internal/config"
	"docgen/internal/csvexport"
	"docgen/internal/domain"
	"docgen/internal/logging"
	"docgen/internal/port"
	"docgen/internal/sheet"
)

// BatchUploadInput is the DTO for creating a batch session from a spreadsheet.
type BatchUploadInput struct {
	TemplateID  uuid.UUID
	FileName    string
	Size        int64
	File        io.Reader
	NotifyEmail string
}

// RowError reports a batch row that could not be turned into a document.
type RowError struct {
	Index        int    `json:"index"`
	DocumentName string `json:"document_name"`
	Error        string `json:"error"`
}

// BatchResult is the partial result of processing a batch session.
type BatchResult struct {
	SessionID uuid.UUID         `json:"session_id"`
	Created   int               `json:"created"`
	Failed    int               `json:"failed"`
	Skipped   int               `json:"skipped"`
	Degraded  bool              `json:"degraded"`
	Errors    []RowError        `json:"errors"`
	Documents []domain.Document `json:"documents"`
}

// BatchService defines the spreadsheet batch contract.
type BatchService interface {
	CreateSession(ctx context.Context, input *BatchUploadInput) (*domain.BatchSession, error)
	GetSession(ctx context.Context, id uuid.UUID) (*domain.BatchSession, error)
	UpdateRowStatus(ctx context.Context, id uuid.UUID, index int, status domain.BatchRowStatus) (*domain.BatchRow, error)
	Process(ctx context.Context, id uuid.UUID) (*BatchResult, error)
	ProcessSession(ctx context.Context, session *domain.BatchSession) (*BatchResult, error)
	UploadAndGenerate(ctx context.Context, input *BatchUploadInput) (*BatchResult, error)
	Queue(ctx context.Context, id uuid.UUID) (*domain.BatchSession, error)
	Delete(ctx context.Context, id uuid.UUID) error
	WriteReport(ctx context.Context, id uuid.UUID, w io.Writer) (string, error)
}

type batchService struct {
	templateRepo port.TemplateRepository
	batchRepo    port.BatchRepository
	storage      port.BlobStorage
	notifier     port.BatchNotifier
	gen          *generator
	cfg          config.BatchConfig
	maxFileSize  int64
}

// NewBatchService creates a new BatchService implementation.
func NewBatchService(
	templateRepo port.TemplateRepository,
	batchRepo port.BatchRepository,
	docRepo port.DocumentRepository,
	storage port.BlobStorage,
	renderer port.Renderer,
	notifier port.BatchNotifier,
	cfg config.BatchConfig,
	maxFileSize int64,
) BatchService {
	return &batchService{
		templateRepo: templateRepo,
		batchRepo:    batchRepo,
		storage:      storage,
		notifier:     notifier,
		gen:          &generator{renderer: renderer, storage: storage, docRepo: docRepo},
		cfg:          cfg,
		maxFileSize:  maxFileSize,
	}
}

// CreateSession reads the sheet, maps its headers onto the template's fields
// and records every non-blank row as pending.
func (s *batchService) CreateSession(ctx context.Context, input *BatchUploadInput) (*domain.BatchSession, error) {
	log := logging.FromContext(ctx)

	tpl, err := s.templateRepo.GetByID(ctx, input.TemplateID)
	if err != nil {
		return nil, err
	}
	if s.maxFileSize > 0 && input.Size > s.maxFileSize {
		return nil, domain.ErrFileTooLarge
	}
	data, err := io.ReadAll(input.File)
	if err != nil {
		return nil, fmt.Errorf("reading sheet: %w", err)
	}

	table, err := sheet.Read(data, input.FileName)
	if err != nil {
		return nil, err
	}
	mapping := sheet.MapHeaders(table.Headers, tpl.Fields)
	rows := sheet.ExpandRows(table, mapping, tpl.Name)
	if len(rows) == 0 {
		return nil, domain.ErrEmptySheet
	}
	if s.cfg.MaxRows > 0 && len(rows) > s.cfg.MaxRows {
		return nil, fmt.Errorf("%w: %d rows, limit %d", domain.ErrTooManyRows, len(rows), s.cfg.MaxRows)
	}

	session := &domain.BatchSession{
		ID:          uuid.New(),
		TemplateID:  tpl.ID,
		SourceName:  filepath.Base(input.FileName),
		Mapping:     mapping.Columns,
		Status:      domain.BatchStatusPending,
		NotifyEmail: input.NotifyEmail,
		Rows:        make([]domain.BatchRow, len(rows)),
	}
	for i, rv := range rows {
		session.Rows[i] = domain.BatchRow{
			BatchID:      session.ID,
			Index:        rv.Index,
			DocumentName: rv.DocumentName,
			Values:       rv.Values,
			Status:       domain.RowStatusPending,
		}
	}

	if err := s.batchRepo.Create(ctx, session); err != nil {
		return nil, fmt.Errorf("creating batch session: %w", err)
	}
	log.Infof("batchService.CreateSession: session %s with %d rows for template %s", session.ID, len(session.Rows), tpl.ID)
	return session, nil
}

func (s *batchService) GetSession(ctx context.Context, id uuid.UUID) (*domain.BatchSession, error) {
	return s.batchRepo.GetByID(ctx, id)
}

// UpdateRowStatus approves or rejects a row that has not been processed yet.
func (s *batchService) UpdateRowStatus(ctx context.Context, id uuid.UUID, index int, status domain.BatchRowStatus) (*domain.BatchRow, error) {
	if !domain.ReviewableRowStatuses[status] {
		return nil, domain.ErrInvalidRowStatus
	}
	session, err := s.batchRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if session.Status == domain.BatchStatusProcessed || session.Status == domain.BatchStatusProcessing {
		return nil, domain.ErrBatchAlreadyProcessed
	}
	for i := range session.Rows {
		row := &session.Rows[i]
		if row.Index != index {
			continue
		}
		if !domain.ReviewableRowStatuses[row.Status] {
			return nil, domain.ErrInvalidRowStatus
		}
		row.Status = status
		if err := s.batchRepo.UpdateRow(ctx, row); err != nil {
			return nil, err
		}
		return row, nil
	}
	return nil, fmt.Errorf("row %d: %w", index, domain.ErrNotFound)
}

// Process creates documents for a session's pending and approved rows.
// Only a pending session is accepted: it is claimed with a conditional
// status write, so a queued session stays with the worker and concurrent
// calls process it once. It runs detached from ctx's cancellation so a
// dropped client cannot leave a session half processed.
func (s *batchService) Process(ctx context.Context, id uuid.UUID) (*BatchResult, error) {
	ctx = context.WithoutCancel(ctx)

	session, err := s.batchRepo.TransitionStatus(ctx, id, domain.BatchStatusPending, domain.BatchStatusProcessing)
	if err != nil {
		return nil, err
	}
	result, err := s.ProcessSession(ctx, session)
	if err != nil {
		// no row has run yet; hand the session back
		session.Status = domain.BatchStatusPending
		if uerr := s.batchRepo.UpdateStatus(ctx, session); uerr != nil {
			logging.FromContext(ctx).Errorf("batchService.Process: failed to release session %s: %v", id, uerr)
		}
		return nil, err
	}
	return result, nil
}

// ProcessSession processes an already loaded session. A template that cannot
// be compiled switches every row to the fallback document. Row failures are
// isolated and reported in row order.
func (s *batchService) ProcessSession(ctx context.Context, session *domain.BatchSession) (*BatchResult, error) {
	log := logging.FromContext(ctx)

	tpl, err := s.templateRepo.GetByID(ctx, session.TemplateID)
	if err != nil {
		return nil, err
	}
	data, err := s.storage.Download(ctx, tpl.BlobID)
	if err != nil && !errors.Is(err, domain.ErrBlobNotFound) {
		return nil, fmt.Errorf("downloading template %s: %w", tpl.ID, err)
	}
	degraded := err != nil
	if !degraded {
		if cerr := s.gen.renderer.Check(data); cerr != nil {
			log.Warnf("batchService.ProcessSession: template %s does not compile, using fallback documents: %v", tpl.ID, cerr)
			degraded = true
		}
	} else {
		log.Warnf("batchService.ProcessSession: template file for %s is missing, using fallback documents", tpl.ID)
	}

	session.Status = domain.BatchStatusProcessing
	if err := s.batchRepo.UpdateStatus(ctx, session); err != nil {
		return nil, fmt.Errorf("marking session processing: %w", err)
	}

	docs := make([]*domain.Document, len(session.Rows))
	errs := make([]error, len(session.Rows))

	var g errgroup.Group
	g.SetLimit(max(s.cfg.Concurrency, 1))
	for i := range session.Rows {
		row := &session.Rows[i]
		if !row.Status.Processable() {
			continue
		}
		g.Go(func() error {
			docs[i], errs[i] = s.processRow(ctx, session, tpl, data, degraded, row)
			return nil
		})
	}
	_ = g.Wait()

	result := &BatchResult{SessionID: session.ID, Degraded: degraded, Errors: []RowError{}, Documents: []domain.Document{}}
	for i := range session.Rows {
		row := &session.Rows[i]
		switch {
		case docs[i] != nil:
			result.Created++
			result.Documents = append(result.Documents, *docs[i])
		case errs[i] != nil:
			result.Failed++
			result.Errors = append(result.Errors, RowError{Index: row.Index, DocumentName: row.DocumentName, Error: errs[i].Error()})
		default:
			result.Skipped++
		}
	}

	session.Status = domain.BatchStatusProcessed
	session.CreatedCount += result.Created
	session.FailedCount += result.Failed
	if err := s.batchRepo.UpdateStatus(ctx, session); err != nil {
		log.Errorf("batchService.ProcessSession: failed to mark session %s processed: %v", session.ID, err)
	}

	log.Infof("batchService.ProcessSession: session %s created=%d failed=%d skipped=%d degraded=%t",
		session.ID, result.Created, result.Failed, result.Skipped, degraded)

	if session.NotifyEmail != "" && s.notifier != nil {
		if err := s.notifier.SendBatchProcessed(ctx, session.NotifyEmail, session, tpl.Name); err != nil {
			log.Warnf("batchService.ProcessSession: notification to %s failed: %v", session.NotifyEmail, err)
		}
	}
	return result, nil
}

func (s *batchService) processRow(
	ctx context.Context,
	session *domain.BatchSession,
	tpl *domain.Template,
	data []byte,
	degraded bool,
	row *domain.BatchRow,
) (*domain.Document, error) {
	batchID := session.ID
	doc, err := s.gen.create(ctx, &buildJob{
		Template:     tpl,
		TemplateData: data,
		Name:         row.DocumentName,
		Values:       row.Values,
		Degraded:     degraded,
		BatchID:      &batchID,
	})
	if err != nil {
		row.Status = domain.RowStatusFailed
		row.Error = err.Error()
	} else {
		row.Status = domain.RowStatusCreated
		row.Error = ""
		row.DocumentID = &doc.ID
	}
	if uerr := s.batchRepo.UpdateRow(ctx, row); uerr != nil {
		logging.FromContext(ctx).Errorf("batchService.processRow: failed to record row %d of %s: %v", row.Index, session.ID, uerr)
	}
	return doc, err
}

// UploadAndGenerate creates a session, processes every row and removes the
// session again.
func (s *batchService) UploadAndGenerate(ctx context.Context, input *BatchUploadInput) (*BatchResult, error) {
	ctx = context.WithoutCancel(ctx)

	session, err := s.CreateSession(ctx, input)
	if err != nil {
		return nil, err
	}
	result, err := s.ProcessSession(ctx, session)
	if err != nil {
		return nil, err
	}
	if err := s.batchRepo.Delete(ctx, session.ID); err != nil {
		logging.FromContext(ctx).Warnf("batchService.UploadAndGenerate: failed to delete session %s: %v", session.ID, err)
	}
	return result, nil
}

// Queue hands a pending session to the background worker.
func (s *batchService) Queue(ctx context.Context, id uuid.UUID) (*domain.BatchSession, error) {
	return s.batchRepo.TransitionStatus(ctx, id, domain.BatchStatusPending, domain.BatchStatusQueued)
}

func (s *batchService) Delete(ctx context.Context, id uuid.UUID) error {
	return s.batchRepo.Delete(ctx, id)
}

// WriteReport writes the per-row CSV report of a session and returns its
// download file name.
func (s *batchService) WriteReport(ctx context.Context, id uuid.UUID, w io.Writer) (string, error) {
	session, err := s.batchRepo.GetByID(ctx, id)
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	buf.Write(csvexport.BOM)
	cw := csvexport.NewWriter(&buf, csvexport.FieldColumns(session))
	if err := cw.WriteHeader(); err != nil {
		return "", err
	}
	if err := cw.WriteRows(session.Rows); err != nil {
		return "", err
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return "", err
	}
	if _, err := w.Write(buf.Bytes()); err != nil {
		return "", err
	}
	base := strings.TrimSuffix(session.SourceName, filepath.Ext(session.SourceName))
	return csvexport.BuildFilename(base+"_report", "csv"), nil
}
