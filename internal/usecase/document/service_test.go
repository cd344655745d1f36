package document

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/kailas-cloud/kbsearch/internal/domain"
	domdoc "github.com/kailas-cloud/kbsearch/internal/domain/document"
)

// --- Mocks ---

type mockAPI struct {
	mu         sync.Mutex
	docs       []domdoc.Document
	stats      domdoc.Stats
	listErr    error
	statsErr   error
	deleteErr  error
	clearErr   error
	lastFilter domdoc.ListFilter
	deleted    []string
	cleared    int
}

func (m *mockAPI) ListDocuments(_ context.Context, f domdoc.ListFilter) ([]domdoc.Document, int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lastFilter = f
	if m.listErr != nil {
		return nil, 0, m.listErr
	}
	out := f.Apply(m.docs)
	return out, len(out), nil
}

func (m *mockAPI) Stats(_ context.Context) (domdoc.Stats, error) {
	return m.stats, m.statsErr
}

func (m *mockAPI) DeleteDocument(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.deleted = append(m.deleted, id)
	return m.deleteErr
}

func (m *mockAPI) ClearDocuments(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cleared++
	return m.clearErr
}

func sampleDocs() []domdoc.Document {
	return []domdoc.Document{
		domdoc.New("1", "Reset password", "", domdoc.TypeKBArticle, "account", 2, nil),
		domdoc.New("2", "Invoice missing", "", domdoc.TypeSupportCase, "billing", 1, nil),
		domdoc.New("3", "Manual", "", domdoc.TypePDF, "account", 7, nil),
	}
}

func sampleStats() domdoc.Stats {
	return domdoc.Stats{
		TotalDocuments: 3, TotalChunks: 10, ChunkSize: 1000, ChunkOverlap: 200,
		VectorStore: domdoc.VectorStore{CollectionName: "documents", TotalChunks: 10, EmbeddingModel: "m"},
	}
}

// --- Tests ---

func TestRefresh(t *testing.T) {
	api := &mockAPI{docs: sampleDocs(), stats: sampleStats()}
	svc := New(api, nil)

	if _, ok := svc.Stats(); ok {
		t.Error("stats must not be loaded before Refresh")
	}
	if err := svc.Refresh(context.Background()); err != nil {
		t.Fatalf("Refresh: %v", err)
	}
	if got := svc.Documents(); len(got) != 3 {
		t.Errorf("documents = %d, want 3", len(got))
	}
	st, ok := svc.Stats()
	if !ok || st.TotalChunks != 10 {
		t.Errorf("stats = %+v, loaded = %v", st, ok)
	}
	if svc.Total() != 3 {
		t.Errorf("total = %d", svc.Total())
	}
	if !api.lastFilter.IsEmpty() {
		t.Error("Refresh must list unfiltered")
	}
}

func TestRefresh_ErrorKeepsCache(t *testing.T) {
	api := &mockAPI{docs: sampleDocs(), stats: sampleStats()}
	svc := New(api, nil)
	if err := svc.Refresh(context.Background()); err != nil {
		t.Fatal(err)
	}

	boom := errors.New("Request failed with status code 500")
	api.statsErr = boom
	err := svc.Refresh(context.Background())
	if !errors.Is(err, boom) {
		t.Fatalf("err = %v, want wrapped boom", err)
	}
	if domain.Message(err) == "" {
		t.Error("expected a message")
	}
	if len(svc.Documents()) != 3 {
		t.Error("failed refresh must keep the previous cache")
	}
}

func TestFiltered(t *testing.T) {
	svc := New(&mockAPI{docs: sampleDocs(), stats: sampleStats()}, nil)
	if err := svc.Refresh(context.Background()); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name   string
		filter domdoc.ListFilter
		want   []string
	}{
		{"all", domdoc.ListFilter{}, []string{"1", "2", "3"}},
		{"by type", domdoc.ListFilter{DocumentType: domdoc.TypePDF}, []string{"3"}},
		{"by category", domdoc.ListFilter{Category: "account"}, []string{"1", "3"}},
		{"both", domdoc.ListFilter{DocumentType: domdoc.TypeKBArticle, Category: "billing"}, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := svc.Filtered(tt.filter)
			if len(got) != len(tt.want) {
				t.Fatalf("got %d docs, want %d", len(got), len(tt.want))
			}
			for i, id := range tt.want {
				if got[i].ID() != id {
					t.Errorf("[%d] = %s, want %s", i, got[i].ID(), id)
				}
			}
		})
	}
}

func TestList_ServerSideFilter(t *testing.T) {
	api := &mockAPI{docs: sampleDocs()}
	svc := New(api, nil)

	got, err := svc.List(context.Background(), domdoc.ListFilter{Category: "billing"})
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 || api.lastFilter.Category != "billing" {
		t.Errorf("got %d docs with filter %+v", len(got), api.lastFilter)
	}
	if len(svc.Documents()) != 0 {
		t.Error("List must not fill the cache")
	}
}

func TestDelete(t *testing.T) {
	api := &mockAPI{docs: sampleDocs(), stats: sampleStats()}
	svc := New(api, nil)
	if err := svc.Refresh(context.Background()); err != nil {
		t.Fatal(err)
	}

	if err := svc.Delete(context.Background(), "2"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	docs := svc.Documents()
	if len(docs) != 2 || docs[0].ID() != "1" || docs[1].ID() != "3" {
		t.Errorf("documents after delete = %v", docs)
	}
	st, _ := svc.Stats()
	if st.TotalDocuments != 2 {
		t.Errorf("total documents = %d, want 2", st.TotalDocuments)
	}
	if st.TotalChunks != 9 || st.VectorStore.TotalChunks != 9 {
		t.Errorf("chunks = %d/%d, want 9/9", st.TotalChunks, st.VectorStore.TotalChunks)
	}
	if len(api.deleted) != 1 || api.deleted[0] != "2" {
		t.Errorf("deleted = %v", api.deleted)
	}
}

func TestDelete_UncachedKeepsCounters(t *testing.T) {
	api := &mockAPI{docs: sampleDocs(), stats: sampleStats()}
	svc := New(api, nil)
	if err := svc.Refresh(context.Background()); err != nil {
		t.Fatal(err)
	}

	if err := svc.Delete(context.Background(), "404"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if st, _ := svc.Stats(); st != sampleStats() {
		t.Errorf("stats = %+v, want unchanged", st)
	}
}

func TestDelete_ErrorKeepsCache(t *testing.T) {
	api := &mockAPI{docs: sampleDocs(), stats: sampleStats()}
	svc := New(api, nil)
	if err := svc.Refresh(context.Background()); err != nil {
		t.Fatal(err)
	}

	api.deleteErr = domain.ErrDocumentNotFound
	err := svc.Delete(context.Background(), "9")
	if !errors.Is(err, domain.ErrDocumentNotFound) {
		t.Fatalf("err = %v", err)
	}
	if len(svc.Documents()) != 3 {
		t.Error("cache must be unchanged on failure")
	}
}

func TestClear(t *testing.T) {
	api := &mockAPI{docs: sampleDocs(), stats: sampleStats()}
	svc := New(api, nil)
	if err := svc.Refresh(context.Background()); err != nil {
		t.Fatal(err)
	}

	if err := svc.Clear(context.Background()); err != nil {
		t.Fatalf("Clear: %v", err)
	}
	if len(svc.Documents()) != 0 || svc.Total() != 0 {
		t.Error("expected empty cache")
	}
	st, _ := svc.Stats()
	if st.TotalDocuments != 0 || st.TotalChunks != 0 || st.VectorStore.TotalChunks != 0 {
		t.Errorf("counters not zeroed: %+v", st)
	}
	if st.ChunkSize != 1000 || st.VectorStore.CollectionName != "documents" {
		t.Errorf("configuration must survive clear: %+v", st)
	}
	if api.cleared != 1 {
		t.Errorf("clear calls = %d", api.cleared)
	}
}

func TestClear_Error(t *testing.T) {
	api := &mockAPI{docs: sampleDocs(), stats: sampleStats(), clearErr: errors.New("down")}
	svc := New(api, nil)
	if err := svc.Refresh(context.Background()); err != nil {
		t.Fatal(err)
	}
	if err := svc.Clear(context.Background()); err == nil {
		t.Fatal("expected error")
	}
	if len(svc.Documents()) != 3 {
		t.Error("cache must be unchanged on failure")
	}
}
