package request

import (
	"strings"

	"github.com/kailas-cloud/kbsearch/internal/domain"
	"github.com/kailas-cloud/kbsearch/internal/domain/search/filter"
)

// TopK is the fixed result-count ceiling sent with every query.
const TopK = 5

// Request is a validated search query.
type Request struct {
	query   string
	filters filter.Filters
}

// New trims and validates a query. A blank query returns domain.ErrEmptyQuery.
func New(query string, f filter.Filters) (Request, error) {
	q := strings.TrimSpace(query)
	if q == "" {
		return Request{}, domain.ErrEmptyQuery
	}
	return Request{query: q, filters: f}, nil
}

// Query returns the trimmed query text.
func (r *Request) Query() string { return r.query }

// TopK returns the result-count ceiling.
func (r *Request) TopK() int { return TopK }

// Filters returns the search filters.
func (r *Request) Filters() filter.Filters { return r.filters }
