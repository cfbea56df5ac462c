package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"docgen/internal/bulk"
	"docgen/internal/domain"
	"docgen/internal/logging"
	"docgen/internal/port"
)

// missingManifest lists documents left out of a bulk download.
const missingManifest = "MISSING_FILES.txt"

// BulkService defines the bulk delete and bulk download contract. Preview
// and execute share one filter normalization and one repository query.
type BulkService interface {
	PreviewDelete(ctx context.Context, filter domain.BulkFilter) (*bulk.Preview, error)
	PreviewDownload(ctx context.Context, filter domain.BulkFilter) (*bulk.Preview, error)
	Delete(ctx context.Context, filter domain.BulkFilter) (*bulk.DeleteResult, error)
	Download(ctx context.Context, filter domain.BulkFilter, w io.Writer) (*bulk.DownloadResult, error)
}

type bulkService struct {
	docRepo          port.DocumentRepository
	storage          port.BlobStorage
	probeConcurrency int
}

// NewBulkService creates a new BulkService implementation.
func NewBulkService(docRepo port.DocumentRepository, storage port.BlobStorage, probeConcurrency int) BulkService {
	return &bulkService{docRepo: docRepo, storage: storage, probeConcurrency: max(probeConcurrency, 1)}
}

func (s *bulkService) match(ctx context.Context, filter domain.BulkFilter) ([]domain.Document, error) {
	docs, err := s.docRepo.ListByFilter(ctx, bulk.Normalize(filter))
	if err != nil {
		return nil, fmt.Errorf("listing documents: %w", err)
	}
	return docs, nil
}

func (s *bulkService) PreviewDelete(ctx context.Context, filter domain.BulkFilter) (*bulk.Preview, error) {
	docs, err := s.match(ctx, filter)
	if err != nil {
		return nil, err
	}
	return bulk.Summarize(docs), nil
}

// PreviewDownload also reports whether each sampled document's file exists.
func (s *bulkService) PreviewDownload(ctx context.Context, filter domain.BulkFilter) (*bulk.Preview, error) {
	docs, err := s.match(ctx, filter)
	if err != nil {
		return nil, err
	}
	p := bulk.Summarize(docs)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.probeConcurrency)
	for i := range p.Sample {
		item := &p.Sample[i]
		g.Go(func() error {
			ok, err := s.storage.Exists(gctx, item.Document.BlobID)
			switch {
			case err != nil:
				logging.FromContext(ctx).Warnf("bulkService.PreviewDownload: probe %s: %v", item.Document.ID, err)
				item.FileStatus = domain.FileStatusUnknown
			case ok:
				item.FileStatus = domain.FileStatusExists
			default:
				item.FileStatus = domain.FileStatusMissing
			}
			return nil
		})
	}
	_ = g.Wait()
	return p, nil
}

// Delete removes every matching document and its file. It requires the
// filter's confirmation flag. Missing files do not count as failures.
func (s *bulkService) Delete(ctx context.Context, filter domain.BulkFilter) (*bulk.DeleteResult, error) {
	if !filter.Confirm {
		return nil, domain.ErrConfirmationRequired
	}
	log := logging.FromContext(ctx)

	docs, err := s.match(ctx, filter)
	if err != nil {
		return nil, err
	}

	result := &bulk.DeleteResult{}
	for i := range docs {
		d := &docs[i]
		if err := s.storage.Delete(ctx, d.BlobID); err != nil && !errors.Is(err, domain.ErrBlobNotFound) {
			result.Failed++
			result.Errors = append(result.Errors, bulk.ItemError{DocumentID: d.ID, Name: d.Name, Error: err.Error()})
			continue
		}
		if err := s.docRepo.Delete(ctx, d.ID); err != nil && !errors.Is(err, domain.ErrDocumentNotFound) {
			result.Failed++
			result.Errors = append(result.Errors, bulk.ItemError{DocumentID: d.ID, Name: d.Name, Error: err.Error()})
			continue
		}
		result.Deleted++
	}
	log.Infof("bulkService.Delete: deleted=%d failed=%d", result.Deleted, result.Failed)
	return result, nil
}

// Download streams matching documents into a zip written to w, one folder
// per template. Documents whose file cannot be opened are skipped, counted
// and listed in a manifest entry.
func (s *bulkService) Download(ctx context.Context, filter domain.BulkFilter, w io.Writer) (*bulk.DownloadResult, error) {
	log := logging.FromContext(ctx)

	docs, err := s.match(ctx, filter)
	if err != nil {
		return nil, err
	}

	archive := bulk.NewArchive(w)
	result := &bulk.DownloadResult{}
	for i := range docs {
		d := &docs[i]
		rc, err := s.storage.Open(ctx, d.BlobID)
		if err != nil {
			if !errors.Is(err, domain.ErrBlobNotFound) {
				log.Warnf("bulkService.Download: open %s: %v", d.ID, err)
			}
			result.Missing++
			result.MissingNames = append(result.MissingNames, d.Name)
			continue
		}
		_, err = archive.Add(d.TemplateName, d.Name, d.UpdatedAt, rc)
		_ = rc.Close()
		if err != nil {
			return result, err
		}
		result.Added++
	}

	if result.Missing > 0 {
		manifest := "The following documents had no stored file:\n" + strings.Join(result.MissingNames, "\n") + "\n"
		if err := archive.AddFile(missingManifest, time.Now(), strings.NewReader(manifest)); err != nil {
			return result, err
		}
	}
	if err := archive.Close(); err != nil {
		return result, err
	}
	log.Infof("bulkService.Download: added=%d missing=%d", result.Added, result.Missing)
	return result, nil
}
