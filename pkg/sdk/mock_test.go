package kbsearch

import (
	"context"

	domdoc "github.com/kailas-cloud/kbsearch/internal/domain/document"
	"github.com/kailas-cloud/kbsearch/internal/domain/search/filter"
	"github.com/kailas-cloud/kbsearch/internal/domain/search/result"
	domupload "github.com/kailas-cloud/kbsearch/internal/domain/upload"
	healthuc "github.com/kailas-cloud/kbsearch/internal/usecase/health"
	searchuc "github.com/kailas-cloud/kbsearch/internal/usecase/search"
	uploaduc "github.com/kailas-cloud/kbsearch/internal/usecase/upload"
)

// --- searchUseCase mock ---

type mockSearchUC struct {
	searchFn func(ctx context.Context, query string, f filter.Filters) (result.Result, error)
	status   searchuc.Status
	resets   int
}

func (m *mockSearchUC) Search(ctx context.Context, query string, f filter.Filters) (result.Result, error) {
	return m.searchFn(ctx, query, f)
}

func (m *mockSearchUC) Status() searchuc.Status { return m.status }

func (m *mockSearchUC) Reset() { m.resets++ }

// --- documentUseCase mock ---

type mockDocumentUC struct {
	refreshFn func(ctx context.Context) error
	listFn    func(ctx context.Context, f domdoc.ListFilter) ([]domdoc.Document, error)
	deleteFn  func(ctx context.Context, id string) error
	clearFn   func(ctx context.Context) error
	docs      []domdoc.Document
	stats     domdoc.Stats
	loaded    bool
}

func (m *mockDocumentUC) Refresh(ctx context.Context) error { return m.refreshFn(ctx) }

func (m *mockDocumentUC) List(ctx context.Context, f domdoc.ListFilter) ([]domdoc.Document, error) {
	return m.listFn(ctx, f)
}

func (m *mockDocumentUC) Documents() []domdoc.Document { return m.docs }

func (m *mockDocumentUC) Filtered(f domdoc.ListFilter) []domdoc.Document { return f.Apply(m.docs) }

func (m *mockDocumentUC) Stats() (domdoc.Stats, bool) { return m.stats, m.loaded }

func (m *mockDocumentUC) Delete(ctx context.Context, id string) error { return m.deleteFn(ctx, id) }

func (m *mockDocumentUC) Clear(ctx context.Context) error { return m.clearFn(ctx) }

// --- statsReader mock ---

type mockStats struct {
	stats domdoc.Stats
	err   error
}

func (m *mockStats) Stats(_ context.Context) (domdoc.Stats, error) { return m.stats, m.err }

// --- healthUseCase mock ---

type mockHealthUC struct {
	report healthuc.Report
}

func (m *mockHealthUC) Check(_ context.Context) healthuc.Report { return m.report }

// --- uploader mock (drives the real upload use case) ---

type mockUploader struct {
	singleFn func(ctx context.Context, f domupload.File) (domupload.Receipt, error)
	batchFn  func(ctx context.Context, files []domupload.File) ([]domupload.Receipt, error)
}

func (m *mockUploader) UploadFile(
	ctx context.Context, f domupload.File, _ func(written, total int64),
) (domupload.Receipt, error) {
	return m.singleFn(ctx, f)
}

func (m *mockUploader) UploadFiles(
	ctx context.Context, files []domupload.File, _ domupload.ProgressFunc,
) ([]domupload.Receipt, error) {
	return m.batchFn(ctx, files)
}

// --- helpers ---

func testClient(
	up uploadUseCase,
	searchSvc searchUseCase,
	docSvc documentUseCase,
	stats statsReader,
	health healthUseCase,
) *Client {
	return &Client{
		uploadSvc: up,
		searchSvc: searchSvc,
		docSvc:    docSvc,
		stats:     stats,
		healthSvc: health,
	}
}

func uploadService(up *mockUploader) uploadUseCase {
	return uploaduc.New(up, nil)
}
