package view

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/dustin/go-humanize"

	kbsearch "github.com/kailas-cloud/kbsearch/pkg/sdk"
)

// snippetLen bounds passage previews.
const snippetLen = 160

// Uploads writes one line per upload followed by a summary line.
func Uploads(w io.Writer, ups []kbsearch.Upload, sum kbsearch.UploadSummary) {
	for _, u := range ups {
		_, _ = fmt.Fprintln(w, UploadLine(u))
	}
	_, _ = fmt.Fprintln(w, SummaryLine(sum))
}

// UploadLine renders one upload with its state marker.
func UploadLine(u kbsearch.Upload) string {
	size := mutedStyle.Render("(" + humanize.Bytes(uint64(max(u.Size, 0))) + ")")
	switch u.Status {
	case kbsearch.UploadSucceeded:
		detail := ""
		if r := u.Receipt; r != nil && r.ChunksProcessed > 0 {
			detail = mutedStyle.Render(fmt.Sprintf(" %s, %s", r.FileType,
				plural(r.ChunksProcessed, "chunk")))
		}
		return successStyle.Render("✓ ") + u.Name + " " + size + detail
	case kbsearch.UploadFailed:
		return errorStyle.Render("✗ ") + u.Name + " " + size + " " + errorStyle.Render(u.Error)
	default:
		return warningStyle.Render("… ") + u.Name + " " + size + fmt.Sprintf(" %d%%", u.Progress)
	}
}

// SummaryLine renders aggregate upload counts.
func SummaryLine(sum kbsearch.UploadSummary) string {
	c := sum.Counts
	parts := []string{successStyle.Render(fmt.Sprintf("%d succeeded", c.Succeeded))}
	if c.Failed > 0 {
		parts = append(parts, errorStyle.Render(fmt.Sprintf("%d failed", c.Failed)))
	}
	if pending := c.Queued + c.Uploading; pending > 0 {
		parts = append(parts, warningStyle.Render(fmt.Sprintf("%d pending", pending)))
	}
	return strings.Join(parts, ", ") + mutedStyle.Render(fmt.Sprintf(" of %d", c.Total))
}

// Result writes an answer or a ranked list.
func Result(w io.Writer, res kbsearch.SearchResult) {
	switch res.Kind() {
	case kbsearch.KindAnswer:
		a, _ := res.Answer()
		_, _ = fmt.Fprintln(w, titleStyle.Render("Answer")+" "+
			mutedStyle.Render(kbsearch.Percent(a.ConfidenceScore)+" confidence"))
		_, _ = fmt.Fprintln(w, answerStyle.Render(a.Text))
		if len(a.Sources) > 0 {
			_, _ = fmt.Fprintln(w, titleStyle.Render(fmt.Sprintf("Sources (%d)", a.TotalResults)))
			refs(w, a.Sources)
		}
	case kbsearch.KindRanked:
		r, _ := res.Ranked()
		if len(r.Results) == 0 {
			_, _ = fmt.Fprintln(w, mutedStyle.Render("No results found."))
		} else {
			_, _ = fmt.Fprintln(w, titleStyle.Render(plural(r.TotalResults, "result")))
			refs(w, r.Results)
		}
	default:
		return
	}
	if qs := res.SuggestedQueries(); len(qs) > 0 {
		_, _ = fmt.Fprintln(w, mutedStyle.Render("Try: "+strings.Join(qs, " · ")))
	}
}

func refs(w io.Writer, rs []kbsearch.ResultRef) {
	for i, r := range rs {
		label := r.DocumentType
		if r.Category != "" {
			label += "/" + r.Category
		}
		_, _ = fmt.Fprintf(w, "  [%d] %s %s %s\n", i+1, r.Title,
			successStyle.Render(kbsearch.Percent(r.SimilarityScore)), mutedStyle.Render(label))
		if s := snippet(r.Content); s != "" {
			_, _ = fmt.Fprintln(w, "      "+mutedStyle.Render(s))
		}
	}
}

// Documents writes a document table.
func Documents(w io.Writer, docs []kbsearch.Document) {
	if len(docs) == 0 {
		_, _ = fmt.Fprintln(w, mutedStyle.Render("No documents."))
		return
	}
	rows := make([][]string, len(docs))
	for i, d := range docs {
		title := d.Title
		if title == "" {
			title = d.FileName
		}
		rows[i] = []string{d.ID, title, d.DocumentType, d.Category, humanize.Comma(int64(d.ChunkCount))}
	}
	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(mutedStyle).
		Headers("ID", "TITLE", "TYPE", "CATEGORY", "CHUNKS").
		Rows(rows...)
	_, _ = fmt.Fprintln(w, t.String())
	_, _ = fmt.Fprintln(w, mutedStyle.Render(plural(len(docs), "document")))
}

// Stats writes backend counters.
func Stats(w io.Writer, st kbsearch.Stats) {
	_, _ = fmt.Fprintln(w, titleStyle.Render("Knowledge base"))
	kv(w, "documents", humanize.Comma(int64(st.TotalDocuments)))
	kv(w, "chunks", humanize.Comma(int64(st.TotalChunks)))
	kv(w, "chunk size", fmt.Sprintf("%d (overlap %d)", st.ChunkSize, st.ChunkOverlap))
	if vs := st.VectorStore; vs.CollectionName != "" || vs.EmbeddingModel != "" {
		kv(w, "collection", vs.CollectionName)
		kv(w, "embedding model", vs.EmbeddingModel)
	}
}

// Health writes a probe result.
func Health(w io.Writer, h kbsearch.HealthStatus) {
	var status string
	switch h.Status {
	case "ok":
		status = successStyle.Render(h.Status)
	case "degraded":
		status = warningStyle.Render(h.Status)
	default:
		status = errorStyle.Render(h.Status)
	}
	_, _ = fmt.Fprintf(w, "%s %s\n", status, mutedStyle.Render(h.Latency.Round(time.Millisecond).String()))
	for _, name := range []string{"api", "backend"} {
		if v, ok := h.Checks[name]; ok {
			kv(w, name, v)
		}
	}
	if h.Message != "" {
		kv(w, "message", h.Message)
	}
}

func kv(w io.Writer, k, v string) {
	_, _ = fmt.Fprintf(w, "  %s %s\n", mutedStyle.Render(fmt.Sprintf("%-16s", k+":")), v)
}

func plural(n int, noun string) string {
	if n == 1 {
		return "1 " + noun
	}
	return humanize.Comma(int64(n)) + " " + noun + "s"
}

func snippet(s string) string {
	s = strings.Join(strings.Fields(s), " ")
	if r := []rune(s); len(r) > snippetLen {
		return string(r[:snippetLen]) + "…"
	}
	return s
}
