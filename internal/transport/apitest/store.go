package apitest

import (
	"fmt"
	"path/filepath"
	"slices"
	"strings"
	"sync"
)

// Stub backend constants reported by /stats.
const (
	CollectionName = "documents"
	EmbeddingModel = "simple-hash-embedding"
	ChunkSize      = 1000
	ChunkOverlap   = 200
)

// allowedExtensions are the file types the stub indexes.
var allowedExtensions = []string{".pdf", ".csv", ".txt"}

// Document is a stored document.
type Document struct {
	ID           string
	Title        string
	Content      string
	DocumentType string
	Category     string
	ChunkCount   int
}

type store struct {
	mu   sync.Mutex
	seq  int
	docs []Document
}

func newStore() *store { return &store{} }

func (s *store) add(d Document) Document {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seq++
	if d.ID == "" {
		d.ID = fmt.Sprintf("doc-%d", s.seq)
	}
	if d.ChunkCount == 0 {
		d.ChunkCount = 1
	}
	s.docs = append(s.docs, d)
	return d
}

// addFile indexes an uploaded file, returning its type or an error message.
func (s *store) addFile(name string, data []byte) (string, int, error) {
	ext := strings.ToLower(filepath.Ext(name))
	if !slices.Contains(allowedExtensions, ext) {
		return "", 0, fmt.Errorf("Unsupported file type. Allowed types: %s", //nolint:staticcheck // server message
			strings.Join(allowedExtensions, ", "))
	}
	fileType := ext[1:]
	chunks := max(1, (len(data)+ChunkSize-1)/ChunkSize)
	s.add(Document{
		Title:        strings.TrimSuffix(name, ext),
		Content:      string(data),
		DocumentType: fileType,
		ChunkCount:   chunks,
	})
	return fileType, chunks, nil
}

func (s *store) list(docType, category string) []Document {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Document, 0, len(s.docs))
	for _, d := range s.docs {
		if docType != "" && d.DocumentType != docType {
			continue
		}
		if category != "" && d.Category != category {
			continue
		}
		out = append(out, d)
	}
	return out
}

func (s *store) delete(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := slices.IndexFunc(s.docs, func(d Document) bool { return d.ID == id })
	if i < 0 {
		return false
	}
	s.docs = slices.Delete(s.docs, i, i+1)
	return true
}

func (s *store) clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.docs = nil
}

// search returns documents containing any query term, in insertion order.
func (s *store) search(query string, types, categories []string, limit int) []Document {
	terms := strings.Fields(strings.ToLower(query))
	var out []Document
	for _, d := range s.list("", "") {
		if len(types) > 0 && !slices.Contains(types, d.DocumentType) {
			continue
		}
		if len(categories) > 0 && !slices.Contains(categories, d.Category) {
			continue
		}
		text := strings.ToLower(d.Title + " " + d.Content)
		if slices.ContainsFunc(terms, func(t string) bool { return strings.Contains(text, t) }) {
			out = append(out, d)
		}
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out
}
