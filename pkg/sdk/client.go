package kbsearch

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	domdoc "github.com/kailas-cloud/kbsearch/internal/domain/document"
	"github.com/kailas-cloud/kbsearch/internal/domain/search/filter"
	"github.com/kailas-cloud/kbsearch/internal/domain/search/result"
	domupload "github.com/kailas-cloud/kbsearch/internal/domain/upload"
	"github.com/kailas-cloud/kbsearch/internal/transport/httpapi"
	documentuc "github.com/kailas-cloud/kbsearch/internal/usecase/document"
	healthuc "github.com/kailas-cloud/kbsearch/internal/usecase/health"
	searchuc "github.com/kailas-cloud/kbsearch/internal/usecase/search"
	uploaduc "github.com/kailas-cloud/kbsearch/internal/usecase/upload"
	"github.com/kailas-cloud/kbsearch/internal/version"
)

// Внутренние интерфейсы для подмены в тестах.
type uploadUseCase interface {
	Submit(ctx context.Context, files []domupload.File) *uploaduc.Batch
	Remove(item *domupload.Item) bool
	Clear()
	Snapshots() []domupload.Snapshot
	Filter(status domupload.Status) []domupload.Snapshot
	Summary() uploaduc.Summary
	Pending() bool
}

type searchUseCase interface {
	Search(ctx context.Context, query string, f filter.Filters) (result.Result, error)
	Status() searchuc.Status
	Reset()
}

type documentUseCase interface {
	Refresh(ctx context.Context) error
	List(ctx context.Context, f domdoc.ListFilter) ([]domdoc.Document, error)
	Documents() []domdoc.Document
	Filtered(f domdoc.ListFilter) []domdoc.Document
	Stats() (domdoc.Stats, bool)
	Delete(ctx context.Context, id string) error
	Clear(ctx context.Context) error
}

type statsReader interface {
	Stats(ctx context.Context) (domdoc.Stats, error)
}

// Client is the knowledge-base search SDK entry point. Safe for concurrent use.
type Client struct {
	api       *httpapi.Client
	uploadSvc uploadUseCase
	searchSvc searchUseCase
	docSvc    documentUseCase
	stats     statsReader
	healthSvc healthUseCase
	obs       *observer
}

// New creates a Client. No network call is made.
func New(opts ...Option) (*Client, error) {
	cfg := &clientConfig{}
	for _, o := range opts {
		o.apply(cfg)
	}

	obs, err := newObserver(cfg.logger, cfg.metricsReg)
	if err != nil {
		return nil, err
	}
	return wireClient(cfg, obs), nil
}

func wireClient(cfg *clientConfig, obs *observer) *Client {
	zl := cfg.zapLogger
	if zl == nil {
		zl = zap.NewNop()
	}
	ua := cfg.userAgent
	if ua == "" {
		ua = "kbsearch-go/" + version.Version
	}

	api := httpapi.New(httpapi.Config{
		BaseURL:    cfg.baseURL,
		Timeout:    cfg.timeout,
		HTTPClient: cfg.httpClient,
		UserAgent:  ua,
		APIKey:     cfg.apiKey,
		Logger:     zl.Named("api"),
	})

	searchSvc := searchuc.New(api, zl.Named("search")).
		WithFailurePolicy(cfg.failurePolicy).
		WithLatestWins(cfg.latestWins)

	return &Client{
		api:       api,
		uploadSvc: uploaduc.New(api, zl.Named("upload")),
		searchSvc: searchSvc,
		docSvc:    documentuc.New(api, zl.Named("documents")),
		stats:     api,
		healthSvc: healthuc.New(api),
		obs:       obs,
	}
}

// BaseURL returns the server root the client talks to.
func (c *Client) BaseURL() string {
	if c.api == nil {
		return ""
	}
	return c.api.BaseURL()
}

// Close releases idle connections.
func (c *Client) Close() {
	if c.api != nil {
		c.api.CloseIdleConnections()
	}
}

// Uploads returns the upload service.
func (c *Client) Uploads() *UploadService {
	return &UploadService{svc: c.uploadSvc, obs: c.obs}
}

// Search returns the search service.
func (c *Client) Search() *SearchService {
	return &SearchService{svc: c.searchSvc, obs: c.obs}
}

// Documents returns the document service.
func (c *Client) Documents() *DocumentService {
	return &DocumentService{svc: c.docSvc, stats: c.stats, obs: c.obs}
}

func toInternalFilters(f Filters) (filter.Filters, error) {
	ff, err := filter.New(f.DocumentTypes, f.Categories, f.SimilarityThreshold, f.UseRAG)
	if err != nil {
		return filter.Filters{}, fmt.Errorf("validate filters: %w", err)
	}
	return ff, nil
}

var (
	_ uploaduc.Uploader = (*httpapi.Client)(nil)
	_ searchuc.Searcher = (*httpapi.Client)(nil)
	_ documentuc.API    = (*httpapi.Client)(nil)
	_ healthuc.Prober   = (*httpapi.Client)(nil)
	_ statsReader       = (*httpapi.Client)(nil)
)
