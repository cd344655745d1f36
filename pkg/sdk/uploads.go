package kbsearch

import (
	"context"
	"fmt"
	"time"

	domupload "github.com/kailas-cloud/kbsearch/internal/domain/upload"
	uploaduc "github.com/kailas-cloud/kbsearch/internal/usecase/upload"
)

// UploadService tracks uploads. One file is sent to the single-upload
// endpoint; several files go out as one batch request.
type UploadService struct {
	svc uploadUseCase
	obs *observer
}

// UploadBatch is the handle of one Submit call. A nil batch is complete.
type UploadBatch struct {
	b *uploaduc.Batch
}

// Submit starts uploading files. Every file is tracked as its own Upload,
// already uploading when Submit returns. Submitting nothing returns nil.
func (s *UploadService) Submit(ctx context.Context, files ...File) *UploadBatch {
	if len(files) == 0 {
		return nil
	}
	start := time.Now()
	b := s.svc.Submit(ctx, files)
	if b == nil {
		return nil
	}
	go func() {
		<-b.Done()
		s.obs.uploaded(start, b.Snapshots())
	}()
	return &UploadBatch{b: b}
}

// SubmitPaths opens files on disk and submits them as one call.
func (s *UploadService) SubmitPaths(ctx context.Context, paths ...string) (*UploadBatch, error) {
	files := make([]File, 0, len(paths))
	for _, p := range paths {
		f, err := domupload.FromPath(p)
		if err != nil {
			return nil, fmt.Errorf("submit: %w", err)
		}
		files = append(files, f)
	}
	return s.Submit(ctx, files...), nil
}

// List returns every tracked upload in submission order.
func (s *UploadService) List() []Upload {
	return fromSnapshots(s.svc.Snapshots())
}

// Filter returns the uploads in one state.
func (s *UploadService) Filter(status UploadStatus) []Upload {
	return fromSnapshots(s.svc.Filter(status))
}

// Summary aggregates the tracked uploads.
func (s *UploadService) Summary() UploadSummary {
	sum := s.svc.Summary()
	return UploadSummary{
		AnySucceeded: sum.AnySucceeded,
		AnyFailed:    sum.AnyFailed,
		Counts: UploadCounts{
			Queued:    sum.Counts.Queued,
			Uploading: sum.Counts.Uploading,
			Succeeded: sum.Counts.Succeeded,
			Failed:    sum.Counts.Failed,
			Total:     sum.Counts.Total,
		},
	}
}

// Pending reports whether any submit call is still in flight.
func (s *UploadService) Pending() bool { return s.svc.Pending() }

// Remove stops tracking u. Uploads are matched by identity, never by name.
func (s *UploadService) Remove(u Upload) bool {
	if u.item == nil {
		return false
	}
	return s.svc.Remove(u.item)
}

// Clear stops tracking every upload.
func (s *UploadService) Clear() { s.svc.Clear() }

// Wait blocks until every upload of the batch is terminal or ctx ends.
func (b *UploadBatch) Wait(ctx context.Context) error {
	if b == nil {
		return nil
	}
	return b.b.Wait(ctx) //nolint:wrapcheck // caller's own context
}

// Done is closed when the batch resolves.
func (b *UploadBatch) Done() <-chan struct{} {
	if b == nil {
		return (*uploaduc.Batch)(nil).Done()
	}
	return b.b.Done()
}

// Uploads returns the batch's uploads in file order.
func (b *UploadBatch) Uploads() []Upload {
	if b == nil {
		return nil
	}
	return fromSnapshots(b.b.Snapshots())
}

// Err summarizes failed uploads as an error matching ErrItemOutcome; nil when
// none failed or the batch is not finished.
func (b *UploadBatch) Err() error {
	if b == nil {
		return nil
	}
	select {
	case <-b.b.Done():
		return batchError(b.b.Snapshots())
	default:
		return nil
	}
}

func batchError(snaps []domupload.Snapshot) error {
	failed := 0
	var first string
	for _, s := range snaps {
		if s.Status == domupload.StatusFailed {
			if failed == 0 {
				first = s.Error
			}
			failed++
		}
	}
	if failed == 0 {
		return nil
	}
	return fmt.Errorf("%d of %d uploads failed (first: %s): %w", failed, len(snaps), first, ErrItemOutcome)
}

func fromSnapshots(snaps []domupload.Snapshot) []Upload {
	out := make([]Upload, len(snaps))
	for i, s := range snaps {
		out[i] = fromSnapshot(s)
	}
	return out
}

func fromSnapshot(s domupload.Snapshot) Upload {
	u := Upload{
		ID:       s.ID,
		Name:     s.Name,
		Size:     s.Size,
		Status:   s.Status,
		Progress: s.Progress,
		Error:    s.Error,
		item:     s.Item,
	}
	if s.Receipt != nil {
		u.Receipt = &Receipt{
			Filename:        s.Receipt.Filename,
			Message:         s.Receipt.Message,
			Status:          s.Receipt.Status,
			FileType:        s.Receipt.FileType,
			ChunksProcessed: s.Receipt.ChunksProcessed,
			Raw:             s.Receipt.Raw,
		}
	}
	return u
}
