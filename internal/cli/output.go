package cli

import (
	"encoding/json"
	"fmt"
	"io"

	kbsearch "github.com/kailas-cloud/kbsearch/pkg/sdk"
)

type jsonRef struct {
	DocumentID      string  `json:"document_id"`
	Title           string  `json:"title"`
	Content         string  `json:"content"`
	SimilarityScore float64 `json:"similarity_score"`
	DocumentType    string  `json:"document_type"`
	Category        string  `json:"category,omitempty"`
	ChunkIndex      int     `json:"chunk_index"`
}

type jsonResult struct {
	Query            string    `json:"query"`
	Kind             string    `json:"kind"`
	Answer           string    `json:"answer,omitempty"`
	ConfidenceScore  *float64  `json:"confidence_score,omitempty"`
	TotalResults     int       `json:"total_results"`
	Results          []jsonRef `json:"results"`
	SuggestedQueries []string  `json:"suggested_queries,omitempty"`
}

type jsonDocument struct {
	ID           string         `json:"id"`
	Title        string         `json:"title"`
	DocumentType string         `json:"document_type"`
	Category     string         `json:"category,omitempty"`
	FileName     string         `json:"file_name,omitempty"`
	ChunkCount   int            `json:"chunk_count"`
	Metadata     map[string]any `json:"metadata,omitempty"`
}

type jsonStats struct {
	TotalDocuments int    `json:"total_documents"`
	TotalChunks    int    `json:"total_chunks"`
	ChunkSize      int    `json:"chunk_size"`
	ChunkOverlap   int    `json:"chunk_overlap"`
	Collection     string `json:"collection_name,omitempty"`
	EmbeddingModel string `json:"embedding_model,omitempty"`
}

func toJSONResult(res kbsearch.SearchResult) jsonResult {
	out := jsonResult{
		Query:            res.Query(),
		Kind:             string(res.Kind()),
		SuggestedQueries: res.SuggestedQueries(),
	}
	var refs []kbsearch.ResultRef
	if a, ok := res.Answer(); ok {
		out.Answer = a.Text
		out.ConfidenceScore = &a.ConfidenceScore
		out.TotalResults = a.TotalResults
		refs = a.Sources
	} else if r, ok := res.Ranked(); ok {
		out.TotalResults = r.TotalResults
		refs = r.Results
	}
	out.Results = make([]jsonRef, len(refs))
	for i, r := range refs {
		out.Results[i] = jsonRef{
			DocumentID:      r.DocumentID,
			Title:           r.Title,
			Content:         r.Content,
			SimilarityScore: r.SimilarityScore,
			DocumentType:    r.DocumentType,
			Category:        r.Category,
			ChunkIndex:      r.ChunkIndex,
		}
	}
	return out
}

func toJSONDocuments(docs []kbsearch.Document) []jsonDocument {
	out := make([]jsonDocument, len(docs))
	for i, d := range docs {
		out[i] = jsonDocument{
			ID:           d.ID,
			Title:        d.Title,
			DocumentType: d.DocumentType,
			Category:     d.Category,
			FileName:     d.FileName,
			ChunkCount:   d.ChunkCount,
			Metadata:     d.Metadata,
		}
	}
	return out
}

func toJSONStats(st kbsearch.Stats) jsonStats {
	return jsonStats{
		TotalDocuments: st.TotalDocuments,
		TotalChunks:    st.TotalChunks,
		ChunkSize:      st.ChunkSize,
		ChunkOverlap:   st.ChunkOverlap,
		Collection:     st.VectorStore.CollectionName,
		EmbeddingModel: st.VectorStore.EmbeddingModel,
	}
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("failed to marshal output: %w", err)
	}
	return nil
}
