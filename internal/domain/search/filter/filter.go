package filter

import (
	"fmt"
	"slices"
	"strings"

	"github.com/kailas-cloud/kbsearch/internal/domain"
)

// Filter defaults.
const (
	DefaultSimilarityThreshold = 0.7
	DefaultUseRAG              = true
)

// Filters narrows a search. Empty sets mean "unfiltered".
type Filters struct {
	documentTypes []string
	categories    []string
	threshold     float64
	useRAG        bool
}

// Default returns unfiltered search options with the default threshold and RAG enabled.
func Default() Filters {
	return Filters{threshold: DefaultSimilarityThreshold, useRAG: DefaultUseRAG}
}

// New validates and creates Filters. Set members are trimmed and de-duplicated
// keeping first-seen order; blanks are dropped.
func New(documentTypes, categories []string, threshold float64, useRAG bool) (Filters, error) {
	if threshold < 0 || threshold > 1 {
		return Filters{}, fmt.Errorf("%w: similarity threshold must be between 0 and 1, got %g",
			domain.ErrInvalidFilters, threshold)
	}
	return Filters{
		documentTypes: normalizeSet(documentTypes),
		categories:    normalizeSet(categories),
		threshold:     threshold,
		useRAG:        useRAG,
	}, nil
}

// DocumentTypes returns the document type set (nil when unfiltered).
func (f Filters) DocumentTypes() []string { return slices.Clone(f.documentTypes) }

// Categories returns the category set (nil when unfiltered).
func (f Filters) Categories() []string { return slices.Clone(f.categories) }

// SimilarityThreshold returns the minimum similarity score.
func (f Filters) SimilarityThreshold() float64 { return f.threshold }

// UseRAG reports whether a generated answer is requested.
func (f Filters) UseRAG() bool { return f.useRAG }

func normalizeSet(in []string) []string {
	if len(in) == 0 {
		return nil
	}
	out := make([]string, 0, len(in))
	for _, v := range in {
		v = strings.TrimSpace(v)
		if v == "" || slices.Contains(out, v) {
			continue
		}
		out = append(out, v)
	}
	if len(out) == 0 {
		return nil
	}
	return out
}
