package document

import (
	"context"

	domdoc "github.com/kailas-cloud/kbsearch/internal/domain/document"
)

// Lister lists indexed documents.
type Lister interface {
	ListDocuments(ctx context.Context, f domdoc.ListFilter) ([]domdoc.Document, int, error)
}

// Remover deletes documents.
type Remover interface {
	DeleteDocument(ctx context.Context, id string) error
	ClearDocuments(ctx context.Context) error
}

// StatsReader reads backend counters.
type StatsReader interface {
	Stats(ctx context.Context) (domdoc.Stats, error)
}

// API is the full documents surface of the search API.
type API interface {
	Lister
	Remover
	StatsReader
}
