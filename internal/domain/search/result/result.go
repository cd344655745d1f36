package result

import (
	"fmt"
	"slices"
)

// Kind discriminates the two result shapes.
type Kind string

// Result kinds.
const (
	KindAnswer Kind = "answer"
	KindRanked Kind = "ranked"
)

// ResponseTypeRAG is the server's response_type for a generated answer.
// Any other value selects the ranked shape.
const ResponseTypeRAG = "rag"

// Ref is one retrieved passage. Order in the enclosing list is relevance order.
type Ref struct {
	DocumentID      string
	Title           string
	Content         string
	SimilarityScore float64
	DocumentType    string
	Category        string // empty when the document has none
	ChunkIndex      int
}

// Answer is a generated answer with its sources.
type Answer struct {
	Text             string
	ConfidenceScore  float64
	TotalResults     int
	Sources          []Ref
	SuggestedQueries []string
}

// Ranked is a plain ranked list.
type Ranked struct {
	TotalResults     int
	Results          []Ref
	SuggestedQueries []string
}

// Result is exactly one of Answer or Ranked.
type Result struct {
	kind   Kind
	query  string
	answer Answer
	ranked Ranked
}

// NewAnswer wraps an answer-shaped result.
func NewAnswer(query string, a Answer) Result {
	return Result{kind: KindAnswer, query: query, answer: a}
}

// NewRanked wraps a ranked-list result.
func NewRanked(query string, r Ranked) Result {
	return Result{kind: KindRanked, query: query, ranked: r}
}

// Kind returns the variant tag ("" for the zero Result).
func (r Result) Kind() Kind { return r.kind }

// Query returns the query that produced the result.
func (r Result) Query() string { return r.query }

// IsZero reports whether r holds no result.
func (r Result) IsZero() bool { return r.kind == "" }

// Answer returns the answer variant; ok is false for any other kind.
func (r Result) Answer() (Answer, bool) {
	if r.kind != KindAnswer {
		return Answer{}, false
	}
	a := r.answer
	a.Sources = slices.Clone(a.Sources)
	a.SuggestedQueries = slices.Clone(a.SuggestedQueries)
	return a, true
}

// Ranked returns the ranked variant; ok is false for any other kind.
func (r Result) Ranked() (Ranked, bool) {
	if r.kind != KindRanked {
		return Ranked{}, false
	}
	rk := r.ranked
	rk.Results = slices.Clone(rk.Results)
	rk.SuggestedQueries = slices.Clone(rk.SuggestedQueries)
	return rk, true
}

// Refs returns the ordered passages of whichever variant is set.
func (r Result) Refs() []Ref {
	switch r.kind {
	case KindAnswer:
		return slices.Clone(r.answer.Sources)
	case KindRanked:
		return slices.Clone(r.ranked.Results)
	default:
		return nil
	}
}

// SuggestedQueries returns follow-up queries of whichever variant is set.
func (r Result) SuggestedQueries() []string {
	switch r.kind {
	case KindAnswer:
		return slices.Clone(r.answer.SuggestedQueries)
	case KindRanked:
		return slices.Clone(r.ranked.SuggestedQueries)
	default:
		return nil
	}
}

// Percent formats a [0,1] score as a percentage with one decimal place.
func Percent(score float64) string {
	return fmt.Sprintf("%.1f%%", score*100)
}
