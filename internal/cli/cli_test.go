package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/kailas-cloud/kbsearch/internal/transport/apitest"
)

type runResult struct {
	out, err string
}

func run(t *testing.T, srv *apitest.Server, args ...string) (runResult, error) {
	t.Helper()
	root := NewRootCommand()
	var out, errb bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&errb)

	base := []string{"--env", "test"}
	if srv != nil {
		base = append(base, "--base-url", srv.URL)
	}
	root.SetArgs(append(base, args...))
	err := root.ExecuteContext(context.Background())
	return runResult{out: out.String(), err: errb.String()}, err
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	if err := os.WriteFile(p, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	return p
}

func TestUpload_Single(t *testing.T) {
	srv := apitest.New(t)
	p := writeFile(t, t.TempDir(), "faq.txt", "How do I reset my password?")

	res, err := run(t, srv, "upload", "-q", p)
	if err != nil {
		t.Fatalf("unexpected error: %v\n%s", err, res.err)
	}
	for _, w := range []string{"✓", "faq.txt", "1 chunk", "1 succeeded"} {
		if !strings.Contains(res.out, w) {
			t.Errorf("output missing %q:\n%s", w, res.out)
		}
	}
	if n := len(srv.RequestsTo(http.MethodPost, apitest.RouteUpload)); n != 1 {
		t.Errorf("single-upload calls = %d", n)
	}
}

func TestUpload_BatchPartialFailure(t *testing.T) {
	srv := apitest.New(t)
	dir := t.TempDir()
	good := writeFile(t, dir, "cases.csv", "id,title\n1,VPN")
	bad := writeFile(t, dir, "logo.png", "PNG")

	res, err := run(t, srv, "upload", "-q", good, bad)
	if err == nil {
		t.Fatal("expected error when a file fails")
	}
	for _, w := range []string{"✓", "cases.csv", "✗", "logo.png", "Unsupported file type", "1 succeeded", "1 failed"} {
		if !strings.Contains(res.out, w) {
			t.Errorf("output missing %q:\n%s", w, res.out)
		}
	}
	reqs := srv.RequestsTo(http.MethodPost, apitest.RouteUploadMultiple)
	if len(reqs) != 1 || len(reqs[0].Files) != 2 {
		t.Fatalf("batch calls = %+v", reqs)
	}
}

func TestUpload_MissingFile(t *testing.T) {
	srv := apitest.New(t)
	if _, err := run(t, srv, "upload", "/no/such/file.txt"); err == nil {
		t.Fatal("expected error")
	}
	if len(srv.Requests()) != 0 {
		t.Error("nothing must be sent for a missing file")
	}
}

func seed(srv *apitest.Server) {
	srv.AddDocument(apitest.Document{Title: "Password reset", Content: "reset your password", DocumentType: "kb_article", Category: "account"})
	srv.AddDocument(apitest.Document{Title: "Billing FAQ", Content: "password for invoices", DocumentType: "pdf", Category: "billing"})
}

func searchBody(t *testing.T, srv *apitest.Server) map[string]any {
	t.Helper()
	reqs := srv.RequestsTo(http.MethodPost, apitest.RouteSearch)
	if len(reqs) == 0 {
		t.Fatal("no search request recorded")
	}
	var body map[string]any
	if err := json.Unmarshal(reqs[len(reqs)-1].Body, &body); err != nil {
		t.Fatal(err)
	}
	return body
}

func TestSearch_Answer(t *testing.T) {
	srv := apitest.New(t)
	seed(srv)

	res, err := run(t, srv, "search", "reset", "password")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, w := range []string{"Answer", "80.0% confidence", "Sources (2)", "[1] Password reset", "kb_article/account"} {
		if !strings.Contains(res.out, w) {
			t.Errorf("output missing %q:\n%s", w, res.out)
		}
	}

	body := searchBody(t, srv)
	if body["query"] != "reset password" || body["use_rag"] != true || body["similarity_threshold"] != 0.7 {
		t.Errorf("body = %v", body)
	}
	if _, ok := body["document_types"]; ok {
		t.Errorf("unfiltered search must omit document_types: %v", body)
	}
}

func TestSearch_RankedWithFilters(t *testing.T) {
	srv := apitest.New(t)
	seed(srv)

	res, err := run(t, srv, "search", "password", "--no-rag", "--type", "pdf", "--category", "billing", "--threshold", "0.4")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(res.out, "1 result") || !strings.Contains(res.out, "Billing FAQ") {
		t.Errorf("output:\n%s", res.out)
	}
	if strings.Contains(res.out, "Password reset") {
		t.Errorf("filtered-out document rendered:\n%s", res.out)
	}

	body := searchBody(t, srv)
	if body["use_rag"] != false || body["similarity_threshold"] != 0.4 {
		t.Errorf("body = %v", body)
	}
	if types, _ := body["document_types"].([]any); len(types) != 1 || types[0] != "pdf" {
		t.Errorf("document_types = %v", body["document_types"])
	}
}

func TestSearch_JSON(t *testing.T) {
	srv := apitest.New(t)
	seed(srv)

	res, err := run(t, srv, "search", "invoices", "--json")
	if err != nil {
		t.Fatal(err)
	}
	var got jsonResult
	if err := json.Unmarshal([]byte(res.out), &got); err != nil {
		t.Fatalf("invalid JSON: %v\n%s", err, res.out)
	}
	if got.Kind != "answer" || got.ConfidenceScore == nil || len(got.Results) != 1 || got.Results[0].Title != "Billing FAQ" {
		t.Errorf("json = %+v", got)
	}
}

func TestSearch_Blank(t *testing.T) {
	srv := apitest.New(t)
	if _, err := run(t, srv, "search", "  "); err == nil {
		t.Fatal("expected error for blank query")
	}
	if n := len(srv.RequestsTo(http.MethodPost, apitest.RouteSearch)); n != 0 {
		t.Errorf("search calls = %d", n)
	}
}

func TestSearch_InvalidThreshold(t *testing.T) {
	srv := apitest.New(t)
	if _, err := run(t, srv, "search", "vpn", "--threshold", "2"); err == nil {
		t.Fatal("expected error")
	}
}

func TestDocs_ListDeleteClear(t *testing.T) {
	srv := apitest.New(t)
	seed(srv)

	res, err := run(t, srv, "docs", "list", "--type", "pdf")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(res.out, "Billing FAQ") || strings.Contains(res.out, "Password reset") {
		t.Errorf("list output:\n%s", res.out)
	}
	reqs := srv.RequestsTo(http.MethodGet, apitest.RouteDocuments)
	if got := reqs[0].Query.Get("document_type"); got != "pdf" {
		t.Errorf("document_type = %q", got)
	}

	id := srv.Documents()[0].ID
	res, err = run(t, srv, "docs", "delete", id, "missing-id")
	if err == nil {
		t.Fatal("expected error for the missing document")
	}
	if !strings.Contains(res.out, "deleted "+id) || !strings.Contains(res.err, "Document not found") {
		t.Errorf("out=%q err=%q", res.out, res.err)
	}
	if len(srv.Documents()) != 1 {
		t.Errorf("documents left = %d", len(srv.Documents()))
	}

	if _, err := run(t, srv, "docs", "clear"); err == nil {
		t.Fatal("clear without --yes must fail")
	}
	if len(srv.RequestsTo(http.MethodPost, apitest.RouteClearDocuments)) != 0 {
		t.Error("clear without --yes must not call the API")
	}
	if _, err := run(t, srv, "docs", "clear", "--yes"); err != nil {
		t.Fatal(err)
	}
	if len(srv.Documents()) != 0 {
		t.Error("clear --yes must empty the store")
	}
}

func TestDocs_ListJSON(t *testing.T) {
	srv := apitest.New(t)
	seed(srv)

	res, err := run(t, srv, "documents", "list", "--json")
	if err != nil {
		t.Fatal(err)
	}
	var docs []jsonDocument
	if err := json.Unmarshal([]byte(res.out), &docs); err != nil {
		t.Fatalf("invalid JSON: %v\n%s", err, res.out)
	}
	if len(docs) != 2 || docs[1].Category != "billing" {
		t.Errorf("docs = %+v", docs)
	}
}

func TestStats(t *testing.T) {
	srv := apitest.New(t)
	seed(srv)

	res, err := run(t, srv, "stats", "--json")
	if err != nil {
		t.Fatal(err)
	}
	var st jsonStats
	if err := json.Unmarshal([]byte(res.out), &st); err != nil {
		t.Fatal(err)
	}
	if st.TotalDocuments != 2 || st.ChunkSize != apitest.ChunkSize || st.EmbeddingModel != apitest.EmbeddingModel {
		t.Errorf("stats = %+v", st)
	}
}

func TestHealth(t *testing.T) {
	srv := apitest.New(t)

	res, err := run(t, srv, "health")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(res.out, "ok") {
		t.Errorf("output:\n%s", res.out)
	}

	srv.Handle(http.MethodGet, apitest.RouteHealth, apitest.JSON(http.StatusOK, map[string]string{"status": "starting"}))
	res, err = run(t, srv, "health")
	if err == nil {
		t.Fatal("expected error when degraded")
	}
	if !strings.Contains(res.out, "degraded") {
		t.Errorf("output:\n%s", res.out)
	}
}

func TestAPIKeyFromConfig(t *testing.T) {
	srv := apitest.New(t, apitest.WithAPIKeys("s3cret"))
	cfg := writeFile(t, t.TempDir(), "kb.yaml", "api:\n  api_key: s3cret\n")

	if _, err := run(t, srv, "stats"); err == nil {
		t.Fatal("expected 401 without key")
	}
	if _, err := run(t, srv, "--config", cfg, "stats"); err != nil {
		t.Fatalf("with key: %v", err)
	}
}

func TestInvalidBaseURL(t *testing.T) {
	root := NewRootCommand()
	root.SetOut(&bytes.Buffer{})
	root.SetErr(&bytes.Buffer{})
	root.SetArgs([]string{"--env", "test", "--base-url", "ftp://kb", "health"})
	err := root.Execute()
	if err == nil || !strings.Contains(err.Error(), "--base-url") {
		t.Errorf("err = %v", err)
	}
}

func TestVersion(t *testing.T) {
	res, err := run(t, nil, "--config", "/does/not/exist.yaml", "version")
	if err != nil {
		t.Fatalf("version must not load config: %v", err)
	}
	if !strings.HasPrefix(res.out, "kbsearch dev") {
		t.Errorf("output = %q", res.out)
	}
}

func TestExecute_ExitCode(t *testing.T) {
	if code := Execute(context.Background(), []string{"--env", "test", "version"}); code != 0 {
		t.Errorf("version exit = %d", code)
	}
	if code := Execute(context.Background(), []string{"--env", "test", "docs", "clear"}); code != 1 {
		t.Errorf("clear without --yes exit = %d", code)
	}
}
