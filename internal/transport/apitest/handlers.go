package apitest

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
)

type searchBody struct {
	Query               string   `json:"query"`
	TopK                int      `json:"top_k"`
	DocumentTypes       []string `json:"document_types"`
	Categories          []string `json:"categories"`
	SimilarityThreshold float64  `json:"similarity_threshold"`
	UseRAG              bool     `json:"use_rag"`
}

type validationError struct {
	Loc  []string `json:"loc"`
	Msg  string   `json:"msg"`
	Type string   `json:"type"`
}

func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	rec, _ := capture(r, RouteUpload)
	files := filesIn(rec, "file")
	if len(files) != 1 {
		writeJSON(w, http.StatusUnprocessableEntity, map[string][]validationError{
			"detail": {{Loc: []string{"body", "file"}, Msg: "Field required", Type: "missing"}},
		})
		return
	}
	f := files[0]
	fileType, chunks, err := s.store.addFile(f.Name, f.Data)
	if err != nil {
		writeDetail(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"message":          "Document processed successfully",
		"filename":         f.Name,
		"chunks_processed": chunks,
		"file_type":        fileType,
	})
}

func (s *Server) handleUploadMultiple(w http.ResponseWriter, r *http.Request) {
	rec, _ := capture(r, RouteUploadMultiple)
	files := filesIn(rec, "files")
	results := make([]map[string]any, 0, len(files))
	for _, f := range files {
		fileType, chunks, err := s.store.addFile(f.Name, f.Data)
		if err != nil {
			results = append(results, map[string]any{
				"filename": f.Name,
				"status":   "error",
				"error":    err.Error(),
			})
			continue
		}
		results = append(results, map[string]any{
			"filename":         f.Name,
			"status":           "processing",
			"file_type":        fileType,
			"chunks_processed": chunks,
		})
	}
	writeJSON(w, http.StatusOK, map[string]any{"results": results})
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	var body searchBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeDetail(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if body.Query == "" {
		writeJSON(w, http.StatusUnprocessableEntity, map[string][]validationError{
			"detail": {{Loc: []string{"body", "query"}, Msg: "Field required", Type: "missing"}},
		})
		return
	}

	docs := s.store.search(body.Query, body.DocumentTypes, body.Categories, body.TopK)
	refs := make([]map[string]any, 0, len(docs))
	for i, d := range docs {
		var category any
		if d.Category != "" {
			category = d.Category
		}
		refs = append(refs, map[string]any{
			"document_id":      d.ID,
			"title":            d.Title,
			"content":          d.Content,
			"similarity_score": 0.95 - 0.05*float64(i),
			"document_type":    d.DocumentType,
			"category":         category,
			"chunk_index":      0,
		})
	}
	suggestions := []string{body.Query + " examples", body.Query + " troubleshooting"}

	if body.UseRAG {
		writeJSON(w, http.StatusOK, map[string]any{
			"query":             body.Query,
			"response_type":     "rag",
			"answer":            fmt.Sprintf("Found %d relevant passages for %q.", len(refs), body.Query),
			"confidence_score":  0.8,
			"total_results":     len(refs),
			"sources":           refs,
			"suggested_queries": suggestions,
		})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"query":             body.Query,
		"response_type":     "search",
		"total_results":     len(refs),
		"results":           refs,
		"suggested_queries": suggestions,
	})
}

func (s *Server) handleListDocuments(w http.ResponseWriter, r *http.Request) {
	docs := s.store.list(r.URL.Query().Get("document_type"), r.URL.Query().Get("category"))
	out := make([]map[string]any, 0, len(docs))
	for _, d := range docs {
		out = append(out, map[string]any{
			"id":      d.ID,
			"content": d.Content,
			"metadata": map[string]any{
				"title":         d.Title,
				"document_type": d.DocumentType,
				"category":      d.Category,
				"chunk_count":   d.ChunkCount,
			},
		})
	}
	writeJSON(w, http.StatusOK, map[string]any{"documents": out, "total_documents": len(out)})
}

func (s *Server) handleDeleteDocument(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if !s.store.delete(id) {
		writeDetail(w, http.StatusNotFound, "Document not found")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Document deleted successfully", "doc_id": id})
}

func (s *Server) handleClearDocuments(w http.ResponseWriter, _ *http.Request) {
	s.store.clear()
	writeJSON(w, http.StatusOK, map[string]string{"message": "All documents cleared successfully"})
}

func (s *Server) handleStats(w http.ResponseWriter, _ *http.Request) {
	docs := s.store.list("", "")
	chunks := 0
	for _, d := range docs {
		chunks += d.ChunkCount
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"total_documents": len(docs),
		"total_chunks":    chunks,
		"vector_store": map[string]any{
			"collection_name": CollectionName,
			"total_chunks":    chunks,
			"embedding_model": EmbeddingModel,
		},
		"chunk_size":    ChunkSize,
		"chunk_overlap": ChunkOverlap,
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

func filesIn(rec Request, field string) []FilePart {
	var out []FilePart
	for _, f := range rec.Files {
		if f.Field == field && f.Name != "" {
			out = append(out, f)
		}
	}
	return out
}
