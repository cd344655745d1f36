package kbsearch

import (
	"encoding/json"
	"time"

	domdoc "github.com/kailas-cloud/kbsearch/internal/domain/document"
	"github.com/kailas-cloud/kbsearch/internal/domain/search/result"
	domupload "github.com/kailas-cloud/kbsearch/internal/domain/upload"
	searchuc "github.com/kailas-cloud/kbsearch/internal/usecase/search"
)

// --- Uploads ---

// File is an immutable handle to one file to upload.
type File = domupload.File

// NewFile creates a file handle from an opener.
func NewFile(name string, size int64, open domupload.Opener) (File, error) {
	return domupload.NewFile(name, size, open) //nolint:wrapcheck // validation error
}

// FileFromPath creates a handle for a file on disk.
func FileFromPath(path string) (File, error) {
	return domupload.FromPath(path) //nolint:wrapcheck // already descriptive
}

// FileFromBytes creates an in-memory file handle.
func FileFromBytes(name string, data []byte) (File, error) {
	return domupload.FromBytes(name, data) //nolint:wrapcheck // validation error
}

// UploadStatus is the lifecycle state of one upload.
type UploadStatus = domupload.Status

// Upload status constants.
const (
	UploadQueued    = domupload.StatusQueued
	UploadUploading = domupload.StatusUploading
	UploadSucceeded = domupload.StatusSucceeded
	UploadFailed    = domupload.StatusFailed
)

// Receipt is the server's payload for an accepted file.
type Receipt struct {
	Filename        string
	Message         string
	Status          string
	FileType        string
	ChunksProcessed int
	Raw             json.RawMessage
}

// Upload is a point-in-time view of one tracked file.
type Upload struct {
	ID       string
	Name     string
	Size     int64
	Status   UploadStatus
	Progress int      // 0-100
	Receipt  *Receipt // set when succeeded
	Error    string   // set when failed

	item *domupload.Item
}

// UploadCounts tallies uploads per state.
type UploadCounts struct {
	Queued    int
	Uploading int
	Succeeded int
	Failed    int
	Total     int
}

// UploadSummary aggregates the tracked uploads.
type UploadSummary struct {
	AnySucceeded bool
	AnyFailed    bool
	Counts       UploadCounts
}

// --- Search ---

// Filters narrows a search.
type Filters struct {
	DocumentTypes       []string // empty = all types
	Categories          []string // empty = all categories
	SimilarityThreshold float64  // 0..1
	UseRAG              bool     // request a generated answer
}

// DefaultFilters returns unfiltered search with threshold 0.7 and RAG enabled.
func DefaultFilters() Filters {
	return Filters{SimilarityThreshold: 0.7, UseRAG: true}
}

// SearchResult is exactly one of an answer or a ranked list; switch on Kind().
type SearchResult = result.Result

// ResultKind discriminates search results.
type ResultKind = result.Kind

// Result kinds.
const (
	KindAnswer = result.KindAnswer
	KindRanked = result.KindRanked
)

// Answer is a generated answer with its sources.
type Answer = result.Answer

// Ranked is a plain ranked list.
type Ranked = result.Ranked

// ResultRef is one retrieved passage.
type ResultRef = result.Ref

// Percent formats a [0,1] score with one decimal place, e.g. 0.842 → "84.2%".
func Percent(score float64) string { return result.Percent(score) }

// FailurePolicy decides what a failed search does to the previous result.
type FailurePolicy = searchuc.FailurePolicy

// Failure policies.
const (
	RetainOnFailure = searchuc.RetainOnFailure
	ClearOnFailure  = searchuc.ClearOnFailure
)

// ParseFailurePolicy reads "retain" (or empty) and "clear".
func ParseFailurePolicy(s string) (FailurePolicy, error) {
	return searchuc.ParseFailurePolicy(s) //nolint:wrapcheck // already descriptive
}

// SearchState is the search lifecycle state.
type SearchState = searchuc.State

// Search states.
const (
	SearchIdle      = searchuc.StateIdle
	SearchSearching = searchuc.StateSearching
	SearchSucceeded = searchuc.StateSucceeded
	SearchFailed    = searchuc.StateFailed
)

// SearchStatus is the current search state.
type SearchStatus struct {
	// State is SearchSearching while InFlight > 0, otherwise the outcome
	// of the last applied call.
	State    SearchState
	Query    string
	Last     SearchResult // zero when none
	Err      error
	InFlight int
}

// --- Documents ---

// Document is an indexed document.
type Document struct {
	ID           string
	Title        string
	Content      string
	DocumentType string
	Category     string
	FileName     string
	ChunkCount   int
	Metadata     map[string]any
}

// ListFilter narrows a document listing. Empty fields are unfiltered.
type ListFilter = domdoc.ListFilter

// Stats is the backend's aggregate counters.
type Stats = domdoc.Stats

// VectorStore describes the backend's vector store.
type VectorStore = domdoc.VectorStore

// HealthStatus is the result of a health probe.
type HealthStatus struct {
	Status  string            // "ok", "degraded", "error"
	Checks  map[string]string // check → "ok"/"error"
	Message string
	Latency time.Duration
}
