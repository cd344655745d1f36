package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrTransport signals a failed call to the search API (network, timeout or non-2xx).
	ErrTransport = errors.New("transport error")
	// ErrTimeout signals that a call exceeded the client timeout.
	ErrTimeout = errors.New("request timed out")
	// ErrItemOutcome signals a per-item failure reported inside a successful response.
	ErrItemOutcome = errors.New("item outcome error")
	// ErrEmptyQuery signals a blank search query.
	ErrEmptyQuery = errors.New("query is empty")
	// ErrInvalidFilters signals out-of-range search filters.
	ErrInvalidFilters = errors.New("invalid search filters")
	// ErrInvalidTransition signals an illegal upload state change.
	ErrInvalidTransition = errors.New("invalid upload state transition")
	// ErrDocumentNotFound signals a missing document.
	ErrDocumentNotFound = errors.New("document not found")
)

// ItemOutcomeError is a failure attributed to one entry of a batch response.
type ItemOutcomeError struct {
	Index   int
	Status  string
	Message string
}

func (e *ItemOutcomeError) Error() string {
	return fmt.Sprintf("item %d: %s", e.Index, e.Message)
}

func (e *ItemOutcomeError) Unwrap() error { return ErrItemOutcome }

// NewItemOutcome creates a per-item outcome error.
func NewItemOutcome(index int, status, message string) error {
	return &ItemOutcomeError{Index: index, Status: status, Message: message}
}

// GenericMessage is shown when a failure carries no text.
const GenericMessage = "An error occurred"

// userMessager is implemented by errors carrying a normalized, user-facing message.
type userMessager interface {
	UserMessage() string
}

// Message returns the user-facing text of err: the normalized message of the
// first error in the chain that has one, otherwise err's own text.
func Message(err error) string {
	if err == nil {
		return ""
	}
	var um userMessager
	if errors.As(err, &um) {
		return um.UserMessage()
	}
	if msg := err.Error(); msg != "" {
		return msg
	}
	return GenericMessage
}
