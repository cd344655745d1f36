package apitest

import (
	"bytes"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"
)

// FilePart is one uploaded file as received.
type FilePart struct {
	Field string
	Name  string
	Data  []byte
}

// Request is a recorded inbound call.
type Request struct {
	Method string
	Path   string
	Route  string
	Query  url.Values
	Header http.Header
	Body   []byte
	Files  []FilePart
}

// BodyString returns the body as text.
func (r Request) BodyString() string { return string(r.Body) }

// capture reads the body for recording and restores it for the handler.
func capture(r *http.Request, route string) (Request, error) {
	rec := Request{
		Method: r.Method,
		Path:   r.URL.Path,
		Route:  route,
		Query:  r.URL.Query(),
		Header: r.Header.Clone(),
	}
	body, err := io.ReadAll(r.Body)
	if err != nil {
		return rec, err //nolint:wrapcheck // test helper
	}
	_ = r.Body.Close()
	r.Body = io.NopCloser(bytes.NewReader(body))
	rec.Body = body

	mediaType, params, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if err != nil || !strings.HasPrefix(mediaType, "multipart/") {
		return rec, nil
	}
	mr := multipart.NewReader(bytes.NewReader(body), params["boundary"])
	for {
		part, err := mr.NextPart()
		if err != nil {
			break
		}
		data, _ := io.ReadAll(part)
		rec.Files = append(rec.Files, FilePart{Field: part.FormName(), Name: part.FileName(), Data: data})
	}
	return rec, nil
}
