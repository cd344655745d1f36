// Package document manages the indexed document list and backend counters.
package document

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	domdoc "github.com/kailas-cloud/kbsearch/internal/domain/document"
)

// Service caches the document list and stats. Safe for concurrent use.
type Service struct {
	api    API
	logger *zap.Logger

	mu     sync.RWMutex
	docs   []domdoc.Document
	total  int
	stats  domdoc.Stats
	loaded bool
}

// New creates a document service.
func New(api API, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{api: api, logger: logger}
}

// Refresh reloads documents and stats concurrently. The cache is replaced
// only when both calls succeed.
func (s *Service) Refresh(ctx context.Context) error {
	var (
		docs  []domdoc.Document
		total int
		stats domdoc.Stats
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		docs, total, err = s.api.ListDocuments(gctx, domdoc.ListFilter{})
		if err != nil {
			return fmt.Errorf("list documents: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		stats, err = s.api.Stats(gctx)
		if err != nil {
			return fmt.Errorf("get stats: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return err //nolint:wrapcheck // already wrapped per call
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.docs, s.total, s.stats, s.loaded = docs, total, stats, true
	return nil
}

// List queries the API with server-side filters without touching the cache.
func (s *Service) List(ctx context.Context, f domdoc.ListFilter) ([]domdoc.Document, error) {
	docs, _, err := s.api.ListDocuments(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}
	return docs, nil
}

// Documents returns the cached list.
func (s *Service) Documents() []domdoc.Document {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.docs)
}

// Filtered returns cached documents matching f.
func (s *Service) Filtered(f domdoc.ListFilter) []domdoc.Document {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return f.Apply(s.docs)
}

// Stats returns cached counters; ok is false before the first Refresh.
func (s *Service) Stats() (domdoc.Stats, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.stats, s.loaded
}

// Total returns the server-reported document count from the last Refresh.
func (s *Service) Total() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.total
}

// Delete removes a document, drops it from the cache and subtracts its
// chunks from the cached counters.
func (s *Service) Delete(ctx context.Context, id string) error {
	if err := s.api.DeleteDocument(ctx, id); err != nil {
		return fmt.Errorf("delete document %s: %w", id, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if i := slices.IndexFunc(s.docs, func(d domdoc.Document) bool { return d.ID() == id }); i >= 0 {
		s.stats = s.stats.Without(s.docs[i].ChunkCount())
		s.docs = slices.Delete(s.docs, i, i+1)
		s.total = max(0, s.total-1)
	}
	s.logger.Info("document deleted", zap.String("id", id))
	return nil
}

// Clear removes every document and zeroes the cached counters.
func (s *Service) Clear(ctx context.Context) error {
	if err := s.api.ClearDocuments(ctx); err != nil {
		return fmt.Errorf("clear documents: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.docs = nil
	s.total = 0
	s.stats = s.stats.Cleared()
	s.logger.Info("all documents cleared")
	return nil
}
