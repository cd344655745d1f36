package kbsearch

import (
	"context"
	"fmt"
	"time"
)

// SearchService runs queries and keeps the last-known result.
type SearchService struct {
	svc searchUseCase
	obs *observer
}

// Query runs a search. A blank query returns ErrEmptyQuery without a
// network call. Result order is the server's relevance order.
func (s *SearchService) Query(ctx context.Context, query string, f Filters) (res SearchResult, err error) {
	start := time.Now()
	defer func() { s.obs.searched(start, res, err) }()

	ff, err := toInternalFilters(f)
	if err != nil {
		return SearchResult{}, fmt.Errorf("search: %w", err)
	}
	res, err = s.svc.Search(ctx, query, ff)
	if err != nil {
		return SearchResult{}, fmt.Errorf("search: %w", err)
	}
	return res, nil
}

// Status returns the current search state.
func (s *SearchService) Status() SearchStatus {
	st := s.svc.Status()
	return SearchStatus{
		State:    st.State,
		Query:    st.Query,
		Last:     st.Last,
		Err:      st.Err,
		InFlight: st.InFlight,
	}
}

// Last returns the last applied result; ok is false when there is none.
func (s *SearchService) Last() (SearchResult, bool) {
	st := s.svc.Status()
	return st.Last, !st.Last.IsZero()
}

// Reset forgets the last result and returns to idle.
func (s *SearchService) Reset() { s.svc.Reset() }
