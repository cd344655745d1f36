package kbsearch

import (
	"context"
	"fmt"
	"time"

	domdoc "github.com/kailas-cloud/kbsearch/internal/domain/document"
)

// DocumentService lists and removes indexed documents and reads stats.
type DocumentService struct {
	svc   documentUseCase
	stats statsReader
	obs   *observer
}

// Refresh reloads the cached document list and stats.
func (s *DocumentService) Refresh(ctx context.Context) (err error) {
	start := time.Now()
	defer func() { s.obs.call(callDocumentsReload, start, err) }()

	if err = s.svc.Refresh(ctx); err != nil {
		return fmt.Errorf("refresh: %w", err)
	}
	return nil
}

// List queries the server with optional type and category filters.
func (s *DocumentService) List(ctx context.Context, f ListFilter) (_ []Document, err error) {
	start := time.Now()
	defer func() { s.obs.call(callDocumentsList, start, err) }()

	docs, err := s.svc.List(ctx, f)
	if err != nil {
		return nil, err //nolint:wrapcheck // wrapped by the use case
	}
	return fromInternalDocuments(docs), nil
}

// Cached returns the document list loaded by the last Refresh.
func (s *DocumentService) Cached() []Document {
	return fromInternalDocuments(s.svc.Documents())
}

// Filtered returns cached documents matching f.
func (s *DocumentService) Filtered(f ListFilter) []Document {
	return fromInternalDocuments(s.svc.Filtered(f))
}

// CachedStats returns the stats loaded by the last Refresh.
func (s *DocumentService) CachedStats() (Stats, bool) {
	return s.svc.Stats()
}

// Stats fetches fresh counters from the server.
func (s *DocumentService) Stats(ctx context.Context) (_ Stats, err error) {
	start := time.Now()
	defer func() { s.obs.call(callDocumentsStats, start, err) }()

	st, err := s.stats.Stats(ctx)
	if err != nil {
		return Stats{}, fmt.Errorf("stats: %w", err)
	}
	return st, nil
}

// Delete removes a document by ID.
func (s *DocumentService) Delete(ctx context.Context, id string) (err error) {
	start := time.Now()
	defer func() { s.obs.call(callDocumentsDelete, start, err) }()
	return s.svc.Delete(ctx, id) //nolint:wrapcheck // wrapped by the use case
}

// Clear removes every document.
func (s *DocumentService) Clear(ctx context.Context) (err error) {
	start := time.Now()
	defer func() { s.obs.call(callDocumentsClear, start, err) }()
	return s.svc.Clear(ctx) //nolint:wrapcheck // wrapped by the use case
}

func fromInternalDocuments(docs []domdoc.Document) []Document {
	out := make([]Document, len(docs))
	for i, d := range docs {
		out[i] = Document{
			ID:           d.ID(),
			Title:        d.Title(),
			Content:      d.Content(),
			DocumentType: d.DocumentType(),
			Category:     d.Category(),
			FileName:     d.FileName(),
			ChunkCount:   d.ChunkCount(),
			Metadata:     d.Metadata(),
		}
	}
	return out
}
