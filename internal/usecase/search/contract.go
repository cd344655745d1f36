package search

import (
	"context"

	"github.com/kailas-cloud/kbsearch/internal/domain/search/request"
	"github.com/kailas-cloud/kbsearch/internal/domain/search/result"
)

// Searcher runs one query against the search API.
type Searcher interface {
	Search(ctx context.Context, req request.Request) (result.Result, error)
}
