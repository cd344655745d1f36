package document

// VectorStore describes the backend's vector store.
type VectorStore struct {
	CollectionName string
	TotalChunks    int
	EmbeddingModel string
}

// Stats is the aggregate counters reported by GET /stats.
type Stats struct {
	TotalDocuments int
	TotalChunks    int
	ChunkSize      int
	ChunkOverlap   int
	VectorStore    VectorStore
}

// Cleared returns a copy with document and chunk counters zeroed.
func (s Stats) Cleared() Stats {
	s.TotalDocuments = 0
	s.TotalChunks = 0
	s.VectorStore.TotalChunks = 0
	return s
}

// Without returns a copy with one document of the given chunk count removed.
// Counters never go below zero.
func (s Stats) Without(chunks int) Stats {
	s.TotalDocuments = max(0, s.TotalDocuments-1)
	s.TotalChunks = max(0, s.TotalChunks-chunks)
	s.VectorStore.TotalChunks = max(0, s.VectorStore.TotalChunks-chunks)
	return s
}

// Health is the backend health report.
type Health struct {
	Status  string
	Message string
}

// IsHealthy reports whether the backend says it is healthy.
func (h Health) IsHealthy() bool { return h.Status == "healthy" }
