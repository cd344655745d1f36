package httpapi

import (
	"fmt"
	"io"
	"mime/multipart"

	"github.com/kailas-cloud/kbsearch/internal/domain/upload"
)

// stream writes the multipart body into a pipe on its own goroutine and
// returns the reader end with its content type.
func (m *multipartBody) stream() (io.ReadCloser, string) {
	pr, pw := io.Pipe()
	mw := multipart.NewWriter(pw)
	go func() {
		pw.CloseWithError(m.write(mw))
	}()
	return pr, mw.FormDataContentType()
}

func (m *multipartBody) write(mw *multipart.Writer) error {
	for i, f := range m.files {
		part, err := mw.CreateFormFile(m.field, f.Name())
		if err != nil {
			return fmt.Errorf("create form file %s: %w", f.Name(), err)
		}
		if err := m.copyFile(i, part); err != nil {
			return err
		}
	}
	if err := mw.Close(); err != nil {
		return fmt.Errorf("close multipart writer: %w", err)
	}
	return nil
}

func (m *multipartBody) copyFile(index int, dst io.Writer) error {
	f := m.files[index]
	rc, err := f.Open()
	if err != nil {
		return fmt.Errorf("open %s: %w", f.Name(), err)
	}
	defer rc.Close()

	w := dst
	if m.progress != nil {
		w = &progressWriter{w: dst, index: index, total: f.Size(), report: m.progress}
	}
	if _, err := io.Copy(w, rc); err != nil {
		return fmt.Errorf("write %s: %w", f.Name(), err)
	}
	return nil
}

type progressWriter struct {
	w       io.Writer
	index   int
	written int64
	total   int64
	report  upload.ProgressFunc
}

func (p *progressWriter) Write(b []byte) (int, error) {
	n, err := p.w.Write(b)
	p.written += int64(n)
	p.report(p.index, p.written, p.total)
	return n, err //nolint:wrapcheck // io.Writer contract
}
