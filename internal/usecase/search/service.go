// Package search runs knowledge-base queries and keeps the last-known result.
package search

import (
	"context"
	"errors"
	"sync"

	"go.uber.org/zap"

	"github.com/kailas-cloud/kbsearch/internal/domain"
	"github.com/kailas-cloud/kbsearch/internal/domain/search/filter"
	"github.com/kailas-cloud/kbsearch/internal/domain/search/request"
	"github.com/kailas-cloud/kbsearch/internal/domain/search/result"
)

// State is the search lifecycle state.
type State string

// Search states.
const (
	StateIdle      State = "idle"
	StateSearching State = "searching"
	StateSucceeded State = "succeeded"
	StateFailed    State = "failed"
)

// FailurePolicy decides what a failed search does to the last result.
type FailurePolicy int

const (
	// RetainOnFailure keeps the previous successful result.
	RetainOnFailure FailurePolicy = iota
	// ClearOnFailure drops the previous result when a search fails.
	ClearOnFailure
)

// ParseFailurePolicy maps "retain" / "clear" to a policy.
func ParseFailurePolicy(s string) (FailurePolicy, error) {
	switch s {
	case "", "retain":
		return RetainOnFailure, nil
	case "clear":
		return ClearOnFailure, nil
	default:
		return RetainOnFailure, errors.New(`failure policy must be "retain" or "clear"`)
	}
}

// String returns the config spelling of the policy.
func (p FailurePolicy) String() string {
	if p == ClearOnFailure {
		return "clear"
	}
	return "retain"
}

// Status is the externally visible search state.
type Status struct {
	// State is StateSearching while any call is unresolved, then the
	// outcome of the last applied call.
	State State
	// Query is the most recently issued query.
	Query string
	// Last is the last applied successful result (zero when none).
	Last result.Result
	// Err is the error of the last applied failure, nil otherwise.
	Err error
	// InFlight counts unresolved calls.
	InFlight int
}

// Service runs searches and tracks the last-known result. Safe for concurrent use.
type Service struct {
	searcher   Searcher
	logger     *zap.Logger
	policy     FailurePolicy
	latestWins bool

	mu      sync.Mutex
	seq     uint64
	status  Status
	settled State
}

// New creates a search service with the retain-on-failure policy.
func New(searcher Searcher, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		searcher: searcher,
		logger:   logger,
		status:   Status{State: StateIdle},
		settled:  StateIdle,
	}
}

// WithFailurePolicy sets the failure policy.
func (s *Service) WithFailurePolicy(p FailurePolicy) *Service {
	s.policy = p
	return s
}

// WithLatestWins makes only the most recently issued search update the
// state. Responses to superseded calls are still returned to their callers.
func (s *Service) WithLatestWins(enabled bool) *Service {
	s.latestWins = enabled
	return s
}

// Search runs a query. A blank query returns domain.ErrEmptyQuery without a
// network call or any state change. Results keep the server's order.
func (s *Service) Search(ctx context.Context, query string, f filter.Filters) (result.Result, error) {
	req, err := request.New(query, f)
	if err != nil {
		return result.Result{}, err //nolint:wrapcheck // domain validation error
	}

	s.mu.Lock()
	s.seq++
	seq := s.seq
	s.status.State = StateSearching
	s.status.Query = req.Query()
	s.status.InFlight++
	s.mu.Unlock()

	res, err := s.searcher.Search(ctx, req)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.status.InFlight--

	if s.latestWins && seq != s.seq {
		s.logger.Debug("discarding superseded search response",
			zap.Uint64("seq", seq),
			zap.Uint64("latest", s.seq),
		)
		s.settle()
		return res, err
	}

	if err != nil {
		s.logger.Info("search failed", zap.String("query", req.Query()), zap.String("error", domain.Message(err)))
		s.settled = StateFailed
		s.status.Err = err
		if s.policy == ClearOnFailure {
			s.status.Last = result.Result{}
		}
		s.settle()
		return result.Result{}, err
	}

	s.logger.Debug("search completed",
		zap.String("query", req.Query()),
		zap.String("kind", string(res.Kind())),
		zap.Int("refs", len(res.Refs())),
	)
	s.settled = StateSucceeded
	s.status.Err = nil
	s.status.Last = res
	s.settle()
	return res, nil
}

// settle publishes the last applied outcome once no call is pending.
// Callers hold s.mu.
func (s *Service) settle() {
	if s.status.InFlight > 0 {
		s.status.State = StateSearching
		return
	}
	s.status.State = s.settled
}

// Status returns the current state.
func (s *Service) Status() Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status
}

// Last returns the last applied result; ok is false when there is none.
func (s *Service) Last() (result.Result, bool) {
	st := s.Status()
	return st.Last, !st.Last.IsZero()
}

// Reset forgets the last result and returns to idle once no call is
// pending. Calls still in flight are superseded when latest-wins is enabled.
func (s *Service) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seq++
	s.settled = StateIdle
	s.status = Status{InFlight: s.status.InFlight}
	s.settle()
}
