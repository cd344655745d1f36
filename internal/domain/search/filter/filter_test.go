package filter

import (
	"errors"
	"slices"
	"testing"

	"github.com/kailas-cloud/kbsearch/internal/domain"
)

func TestDefault(t *testing.T) {
	f := Default()
	if f.SimilarityThreshold() != 0.7 {
		t.Errorf("threshold = %g, want 0.7", f.SimilarityThreshold())
	}
	if !f.UseRAG() {
		t.Error("UseRAG should default to true")
	}
	if f.DocumentTypes() != nil || f.Categories() != nil {
		t.Error("default filters must be unfiltered")
	}
}

func TestNew_ThresholdRange(t *testing.T) {
	tests := []struct {
		threshold float64
		wantErr   bool
	}{
		{0, false},
		{0.5, false},
		{1, false},
		{-0.01, true},
		{1.01, true},
	}
	for _, tc := range tests {
		_, err := New(nil, nil, tc.threshold, true)
		if (err != nil) != tc.wantErr {
			t.Errorf("threshold %g: err = %v, wantErr %v", tc.threshold, err, tc.wantErr)
		}
		if err != nil && !errors.Is(err, domain.ErrInvalidFilters) {
			t.Errorf("threshold %g: err = %v, want ErrInvalidFilters", tc.threshold, err)
		}
	}
}

func TestNew_NormalizesSets(t *testing.T) {
	f, err := New([]string{"pdf", " csv ", "pdf", ""}, []string{"  "}, 0.7, false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := f.DocumentTypes(); !slices.Equal(got, []string{"pdf", "csv"}) {
		t.Errorf("DocumentTypes() = %v", got)
	}
	if f.Categories() != nil {
		t.Errorf("Categories() = %v, want nil", f.Categories())
	}
	if f.UseRAG() {
		t.Error("UseRAG() = true, want false")
	}
}

func TestFilters_AccessorsReturnCopies(t *testing.T) {
	f, _ := New([]string{"pdf"}, nil, 0.7, true)
	got := f.DocumentTypes()
	got[0] = "csv"
	if f.DocumentTypes()[0] != "pdf" {
		t.Error("mutating the returned slice must not change the filters")
	}
}
