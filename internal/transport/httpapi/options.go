package httpapi

import (
	"net/http"
	"net/url"

	"github.com/kailas-cloud/kbsearch/internal/domain/upload"
)

// RequestOption customizes a single call.
type RequestOption func(*requestConfig)

type requestConfig struct {
	query     url.Values
	header    http.Header
	route     string
	multipart *multipartBody
}

type multipartBody struct {
	field    string
	files    []upload.File
	progress upload.ProgressFunc
}

// WithQuery appends query parameters.
func WithQuery(q url.Values) RequestOption {
	return func(c *requestConfig) {
		for k, vs := range q {
			for _, v := range vs {
				c.query.Add(k, v)
			}
		}
	}
}

// WithHeader sets a request header.
func WithHeader(key, value string) RequestOption {
	return func(c *requestConfig) { c.header.Set(key, value) }
}

// WithRoute sets the path template used as the metrics label (e.g. "/documents/{id}").
func WithRoute(route string) RequestOption {
	return func(c *requestConfig) { c.route = route }
}

// WithMultipart sends files as multipart/form-data under field.
// The JSON body argument of Do is ignored.
func WithMultipart(field string, files []upload.File, progress upload.ProgressFunc) RequestOption {
	return func(c *requestConfig) {
		c.multipart = &multipartBody{field: field, files: files, progress: progress}
	}
}
