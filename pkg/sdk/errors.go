package kbsearch

import (
	"github.com/kailas-cloud/kbsearch/internal/domain"
	"github.com/kailas-cloud/kbsearch/internal/transport/httpapi"
)

// Sentinel errors re-exported from the domain layer.
// Use errors.Is() to check.
var (
	ErrTransport        = domain.ErrTransport
	ErrTimeout          = domain.ErrTimeout
	ErrItemOutcome      = domain.ErrItemOutcome
	ErrEmptyQuery       = domain.ErrEmptyQuery
	ErrInvalidFilters   = domain.ErrInvalidFilters
	ErrDocumentNotFound = domain.ErrDocumentNotFound
)

// APIError is a normalized transport failure (network, timeout or non-2xx).
// Use errors.As to inspect StatusCode and Timeout.
type APIError = httpapi.Error

// ErrorMessage returns the human-readable message of any SDK error.
func ErrorMessage(err error) string {
	return domain.Message(err)
}
