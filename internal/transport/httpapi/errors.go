package httpapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"strings"

	"github.com/kailas-cloud/kbsearch/internal/domain"
)

// Fallback messages used when nothing more specific is known.
const (
	statusMessageFormat = "Request failed with status code %d"
	genericMessage      = domain.GenericMessage
)

// Error is a normalized API failure. Message is always human-readable.
// StatusCode is 0 when no response arrived.
type Error struct {
	Message    string
	StatusCode int
	Timeout    bool
	cause      error
}

func (e *Error) Error() string { return e.Message }

// Unwrap exposes domain.ErrTransport, domain.ErrTimeout for timeouts and the underlying cause.
func (e *Error) Unwrap() []error {
	errs := []error{domain.ErrTransport}
	if e.Timeout {
		errs = append(errs, domain.ErrTimeout)
	}
	if e.cause != nil {
		errs = append(errs, e.cause)
	}
	return errs
}

// UserMessage returns the normalized message.
func (e *Error) UserMessage() string { return e.Message }

// Message extracts the user-facing message from any error.
func Message(err error) string { return domain.Message(err) }

// statusError builds an Error for a non-2xx response.
func statusError(code int, body []byte) *Error {
	msg := extractDetail(body)
	if msg == "" {
		msg = fmt.Sprintf(statusMessageFormat, code)
	}
	return &Error{Message: msg, StatusCode: code}
}

// networkError builds an Error for a call that produced no response.
func networkError(err error) *Error {
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return &Error{Message: "timeout exceeded", Timeout: true, cause: err}
	}
	msg := err.Error()
	if msg == "" {
		msg = genericMessage
	}
	return &Error{Message: msg, cause: err}
}

// extractDetail reads the FastAPI "detail" field: either a string
// or a validation list whose "msg" entries are joined.
func extractDetail(body []byte) string {
	var parsed struct {
		Detail json.RawMessage `json:"detail"`
	}
	if json.Unmarshal(body, &parsed) != nil || len(parsed.Detail) == 0 {
		return ""
	}
	var s string
	if json.Unmarshal(parsed.Detail, &s) == nil {
		return strings.TrimSpace(s)
	}
	var list []struct {
		Msg string `json:"msg"`
	}
	if json.Unmarshal(parsed.Detail, &list) == nil {
		msgs := make([]string, 0, len(list))
		for _, item := range list {
			if item.Msg != "" {
				msgs = append(msgs, item.Msg)
			}
		}
		return strings.Join(msgs, "; ")
	}
	return ""
}
