// Package kbsearch is a Go client for a knowledge-base search service:
// document upload with per-file tracking, semantic search with optional
// generated answers, and document management.
//
// # Uploads
//
// One file goes to the single-upload endpoint; several files are sent as
// one batch request whose per-file results are matched back by position.
//
//	client, _ := kbsearch.New(kbsearch.WithBaseURL("http://localhost:8000"))
//	batch, _ := client.Uploads().SubmitPaths(ctx, "faq.pdf", "cases.csv")
//	_ = batch.Wait(ctx)
//	for _, u := range batch.Uploads() {
//	    fmt.Println(u.Name, u.Status, u.Error)
//	}
//
// # Search
//
// A result is either a generated answer with sources or a ranked list:
//
//	res, err := client.Search().Query(ctx, "reset password", kbsearch.DefaultFilters())
//	if ans, ok := res.Answer(); ok {
//	    fmt.Println(ans.Text, kbsearch.Percent(ans.ConfidenceScore))
//	}
//	if ranked, ok := res.Ranked(); ok {
//	    for _, r := range ranked.Results {
//	        fmt.Println(r.Title, kbsearch.Percent(r.SimilarityScore))
//	    }
//	}
//
// Transport failures are *APIError values matching ErrTransport; use
// ErrorMessage for the user-facing text.
package kbsearch
