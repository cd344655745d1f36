package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"

	"github.com/kailas-cloud/kbsearch/internal/domain"
	"github.com/kailas-cloud/kbsearch/internal/domain/document"
	"github.com/kailas-cloud/kbsearch/internal/domain/search/request"
	"github.com/kailas-cloud/kbsearch/internal/domain/search/result"
	"github.com/kailas-cloud/kbsearch/internal/domain/upload"
)

// Endpoint paths relative to BasePath.
const (
	PathUpload         = "/upload"
	PathUploadMultiple = "/upload-multiple"
	PathSearch         = "/search"
	PathDocuments      = "/documents"
	PathDocument       = "/documents/{id}"
	PathClearDocuments = "/documents/clear"
	PathStats          = "/stats"
	PathHealth         = "/health"
)

// Multipart field names.
const (
	FieldFile  = "file"
	FieldFiles = "files"
)

// UploadFile sends one file to the single-upload endpoint.
// A 2xx response means the file was accepted.
func (c *Client) UploadFile(
	ctx context.Context, f upload.File, progress func(written, total int64),
) (upload.Receipt, error) {
	var pf upload.ProgressFunc
	if progress != nil {
		pf = func(_ int, written, total int64) { progress(written, total) }
	}

	var raw json.RawMessage
	if err := c.Do(ctx, http.MethodPost, PathUpload, nil, &raw,
		WithMultipart(FieldFile, []upload.File{f}, pf)); err != nil {
		return upload.Receipt{}, err
	}
	rec, err := upload.DecodeReceipt(raw)
	if err != nil {
		// The file was accepted; keep the payload even if it is not an object.
		return upload.Receipt{Raw: raw}, nil
	}
	return rec, nil
}

// UploadFiles sends files in one batch request. Entries are returned in
// response order, which the server aligns with the request order.
func (c *Client) UploadFiles(
	ctx context.Context, files []upload.File, progress upload.ProgressFunc,
) ([]upload.Receipt, error) {
	var resp batchUploadResponse
	if err := c.Do(ctx, http.MethodPost, PathUploadMultiple, nil, &resp,
		WithMultipart(FieldFiles, files, progress)); err != nil {
		return nil, err
	}
	out := make([]upload.Receipt, len(resp.Results))
	for i, raw := range resp.Results {
		rec, err := upload.DecodeReceipt(raw)
		if err != nil {
			rec = upload.Receipt{Error: "malformed result entry", Raw: raw}
		}
		out[i] = rec
	}
	return out, nil
}

// Search runs a query and discriminates the response shape on response_type.
func (c *Client) Search(ctx context.Context, req request.Request) (result.Result, error) {
	f := req.Filters()
	body := searchRequest{
		Query:               req.Query(),
		TopK:                req.TopK(),
		DocumentTypes:       f.DocumentTypes(),
		Categories:          f.Categories(),
		SimilarityThreshold: f.SimilarityThreshold(),
		UseRAG:              f.UseRAG(),
	}

	var resp searchResponse
	if err := c.Do(ctx, http.MethodPost, PathSearch, body, &resp); err != nil {
		return result.Result{}, err
	}

	if resp.ResponseType == result.ResponseTypeRAG {
		return result.NewAnswer(req.Query(), result.Answer{
			Text:             resp.Answer,
			ConfidenceScore:  resp.ConfidenceScore,
			TotalResults:     resp.TotalResults,
			Sources:          toRefs(resp.Sources),
			SuggestedQueries: resp.SuggestedQueries,
		}), nil
	}
	return result.NewRanked(req.Query(), result.Ranked{
		TotalResults:     resp.TotalResults,
		Results:          toRefs(resp.Results),
		SuggestedQueries: resp.SuggestedQueries,
	}), nil
}

// ListDocuments returns indexed documents, optionally filtered server-side.
func (c *Client) ListDocuments(ctx context.Context, f document.ListFilter) ([]document.Document, int, error) {
	q := url.Values{}
	if err := QueryParam(q, "document_type", f.DocumentType); err != nil {
		return nil, 0, err
	}
	if err := QueryParam(q, "category", f.Category); err != nil {
		return nil, 0, err
	}

	var resp listDocumentsResponse
	if err := c.Do(ctx, http.MethodGet, PathDocuments, nil, &resp, WithQuery(q)); err != nil {
		return nil, 0, err
	}
	docs := make([]document.Document, 0, len(resp.Documents))
	for _, d := range resp.Documents {
		docs = append(docs, document.New(d.ID, d.Title, d.Content, d.DocumentType, d.Category, d.ChunkCount, d.Metadata))
	}
	total := resp.TotalDocuments
	if total == 0 {
		total = len(docs)
	}
	return docs, total, nil
}

// DeleteDocument removes one document. A 404 also matches domain.ErrDocumentNotFound.
func (c *Client) DeleteDocument(ctx context.Context, id string) error {
	seg, err := PathParam("id", id)
	if err != nil {
		return err
	}
	err = c.Do(ctx, http.MethodDelete, PathDocuments+"/"+seg, nil, nil, WithRoute(PathDocument))
	var apiErr *Error
	if errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound {
		return fmt.Errorf("%w: %w", domain.ErrDocumentNotFound, err)
	}
	return err
}

// ClearDocuments removes every document.
func (c *Client) ClearDocuments(ctx context.Context) error {
	return c.Do(ctx, http.MethodPost, PathClearDocuments, nil, nil)
}

// Stats returns backend counters.
func (c *Client) Stats(ctx context.Context) (document.Stats, error) {
	var resp statsResponse
	if err := c.Do(ctx, http.MethodGet, PathStats, nil, &resp); err != nil {
		return document.Stats{}, err
	}
	return document.Stats{
		TotalDocuments: resp.TotalDocuments,
		TotalChunks:    resp.TotalChunks,
		ChunkSize:      resp.ChunkSize,
		ChunkOverlap:   resp.ChunkOverlap,
		VectorStore: document.VectorStore{
			CollectionName: resp.VectorStore.CollectionName,
			TotalChunks:    resp.VectorStore.TotalChunks,
			EmbeddingModel: resp.VectorStore.EmbeddingModel,
		},
	}, nil
}

// Health returns the backend health report.
func (c *Client) Health(ctx context.Context) (document.Health, error) {
	var resp healthResponse
	if err := c.Do(ctx, http.MethodGet, PathHealth, nil, &resp); err != nil {
		return document.Health{}, err
	}
	return document.Health{Status: resp.Status, Message: resp.Message}, nil
}

func toRefs(in []resultRef) []result.Ref {
	if len(in) == 0 {
		return nil
	}
	out := make([]result.Ref, len(in))
	for i, r := range in {
		out[i] = result.Ref{
			DocumentID:      r.DocumentID,
			Title:           r.Title,
			Content:         r.Content,
			SimilarityScore: r.SimilarityScore,
			DocumentType:    r.DocumentType,
			ChunkIndex:      r.ChunkIndex,
		}
		if r.Category != nil {
			out[i].Category = *r.Category
		}
	}
	return out
}
