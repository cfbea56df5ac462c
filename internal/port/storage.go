package port

import (
	"context"
	"io"
	"time"
)

// UploadInput encapsulates the parameters needed to store a blob.
type UploadInput struct {
	ID          string
	Body        io.Reader
	ContentType string
	Size        int64
}

// UploadOutput contains the result of a successful upload.
type UploadOutput struct {
	Location string
	ETag     string
}

// BlobStorage abstracts the store holding template and document packages.
// Blobs are addressed by an opaque identifier; adapters decide where the
// bytes live. Missing blobs are reported as domain.ErrBlobNotFound.
type BlobStorage interface {
	Upload(ctx context.Context, input UploadInput) (*UploadOutput, error)
	Download(ctx context.Context, id string) ([]byte, error)
	Open(ctx context.Context, id string) (io.ReadCloser, error)
	Exists(ctx context.Context, id string) (bool, error)
	Delete(ctx context.Context, id string) error
	GetPresignedURL(ctx context.Context, id string, expiry time.Duration) (string, error)
}
