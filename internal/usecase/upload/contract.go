package upload

import (
	"context"

	domupload "github.com/kailas-cloud/kbsearch/internal/domain/upload"
)

// Uploader sends files to the search API.
type Uploader interface {
	// UploadFile sends one file; a nil error means the file was accepted.
	UploadFile(ctx context.Context, f domupload.File, progress func(written, total int64)) (domupload.Receipt, error)
	// UploadFiles sends files in one request and returns one entry per
	// file in request order.
	UploadFiles(ctx context.Context, files []domupload.File, progress domupload.ProgressFunc) ([]domupload.Receipt, error)
}
