package upload

// Outcome is the resolved result for one submitted file, aligned by position
// with the submitted sequence.
type Outcome struct {
	index   int
	receipt *Receipt
	message string
}

// NewAccepted creates a successful outcome.
func NewAccepted(index int, r Receipt) Outcome {
	return Outcome{index: index, receipt: &r}
}

// NewRejected creates a failed outcome.
func NewRejected(index int, message string) Outcome {
	return Outcome{index: index, message: message}
}

// Index returns the position in the submitted sequence.
func (o Outcome) Index() int { return o.index }

// OK reports whether the file was accepted.
func (o Outcome) OK() bool { return o.receipt != nil }

// Receipt returns the success payload (nil when rejected).
func (o Outcome) Receipt() *Receipt { return o.receipt }

// Message returns the failure message ("" when accepted).
func (o Outcome) Message() string { return o.message }

// FromBatchEntry classifies one batch response entry by its status field.
func FromBatchEntry(index int, r Receipt) Outcome {
	if r.Status == AcceptedStatus {
		return NewAccepted(index, r)
	}
	return NewRejected(index, r.FailureMessage())
}

// AllRejected fails every position with the same message.
func AllRejected(n int, message string) []Outcome {
	out := make([]Outcome, n)
	for i := range out {
		out[i] = NewRejected(i, message)
	}
	return out
}
