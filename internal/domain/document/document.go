package document

import "slices"

// Document type values known to the backend.
const (
	TypeKBArticle   = "kb_article"
	TypeSupportCase = "support_case"
	TypePDF         = "pdf"
	TypeCSV         = "csv"
	TypeTXT         = "txt"
)

// Document is an indexed document as listed by the API (immutable value object).
type Document struct {
	id           string
	title        string
	content      string
	documentType string
	category     string
	fileName     string
	chunkCount   int
	metadata     map[string]any
}

// New creates a Document. Title, type, category and file name fall back to
// the metadata entries of the same name when empty.
func New(
	id, title, content, documentType, category string,
	chunkCount int, metadata map[string]any,
) Document {
	d := Document{
		id:           id,
		title:        title,
		content:      content,
		documentType: documentType,
		category:     category,
		chunkCount:   chunkCount,
		metadata:     metadata,
	}
	if d.title == "" {
		d.title = metaString(metadata, "title")
	}
	if d.documentType == "" {
		d.documentType = metaString(metadata, "document_type")
	}
	if d.category == "" {
		d.category = metaString(metadata, "category")
	}
	d.fileName = metaString(metadata, "file_name")
	if d.chunkCount == 0 {
		if n, ok := metadata["chunk_count"].(float64); ok {
			d.chunkCount = int(n)
		}
	}
	return d
}

// ID returns the document identifier.
func (d Document) ID() string { return d.id }

// Title returns the document title.
func (d Document) Title() string { return d.title }

// Content returns the stored content (or a chunk of it).
func (d Document) Content() string { return d.content }

// DocumentType returns the document type.
func (d Document) DocumentType() string { return d.documentType }

// Category returns the category ("" when absent).
func (d Document) Category() string { return d.category }

// FileName returns the originating file name, if known.
func (d Document) FileName() string { return d.fileName }

// ChunkCount returns the number of indexed chunks.
func (d Document) ChunkCount() int { return d.chunkCount }

// Metadata returns the raw metadata map.
func (d Document) Metadata() map[string]any { return d.metadata }

// ListFilter narrows a document listing. Empty fields are unfiltered.
type ListFilter struct {
	DocumentType string
	Category     string
}

// IsEmpty reports whether the filter matches everything.
func (f ListFilter) IsEmpty() bool { return f.DocumentType == "" && f.Category == "" }

// Matches reports whether d passes the filter.
func (f ListFilter) Matches(d Document) bool {
	if f.DocumentType != "" && d.documentType != f.DocumentType {
		return false
	}
	if f.Category != "" && d.category != f.Category {
		return false
	}
	return true
}

// Apply returns the documents matching f, keeping order.
func (f ListFilter) Apply(docs []Document) []Document {
	if f.IsEmpty() {
		return slices.Clone(docs)
	}
	out := make([]Document, 0, len(docs))
	for _, d := range docs {
		if f.Matches(d) {
			out = append(out, d)
		}
	}
	return out
}

func metaString(m map[string]any, key string) string {
	if s, ok := m[key].(string); ok {
		return s
	}
	return ""
}
