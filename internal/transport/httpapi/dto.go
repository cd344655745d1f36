package httpapi

import "encoding/json"

// Wire shapes of the search API.

type searchRequest struct {
	Query               string   `json:"query"`
	TopK                int      `json:"top_k"`
	DocumentTypes       []string `json:"document_types,omitempty"`
	Categories          []string `json:"categories,omitempty"`
	SimilarityThreshold float64  `json:"similarity_threshold"`
	UseRAG              bool     `json:"use_rag"`
}

type resultRef struct {
	DocumentID      string  `json:"document_id"`
	Title           string  `json:"title"`
	Content         string  `json:"content"`
	SimilarityScore float64 `json:"similarity_score"`
	DocumentType    string  `json:"document_type"`
	Category        *string `json:"category"`
	ChunkIndex      int     `json:"chunk_index"`
}

type searchResponse struct {
	Query            string      `json:"query"`
	ResponseType     string      `json:"response_type"`
	Answer           string      `json:"answer"`
	ConfidenceScore  float64     `json:"confidence_score"`
	TotalResults     int         `json:"total_results"`
	Sources          []resultRef `json:"sources"`
	Results          []resultRef `json:"results"`
	SuggestedQueries []string    `json:"suggested_queries"`
}

type batchUploadResponse struct {
	Results []json.RawMessage `json:"results"`
}

type documentEntry struct {
	ID           string         `json:"id"`
	Title        string         `json:"title"`
	Content      string         `json:"content"`
	DocumentType string         `json:"document_type"`
	Category     string         `json:"category"`
	ChunkCount   int            `json:"chunk_count"`
	Metadata     map[string]any `json:"metadata"`
}

type listDocumentsResponse struct {
	Documents      []documentEntry `json:"documents"`
	TotalDocuments int             `json:"total_documents"`
}

type vectorStoreInfo struct {
	CollectionName string `json:"collection_name"`
	TotalChunks    int    `json:"total_chunks"`
	EmbeddingModel string `json:"embedding_model"`
}

type statsResponse struct {
	TotalDocuments int             `json:"total_documents"`
	TotalChunks    int             `json:"total_chunks"`
	VectorStore    vectorStoreInfo `json:"vector_store"`
	ChunkSize      int             `json:"chunk_size"`
	ChunkOverlap   int             `json:"chunk_overlap"`
}

type healthResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

