package upload

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// ProgressFunc reports bytes written for the file at index out of total.
type ProgressFunc func(index int, written, total int64)

// Opener returns a fresh reader over the file contents.
type Opener func() (io.ReadCloser, error)

// File is an immutable handle to one file accepted for upload.
type File struct {
	name string
	size int64
	open Opener
}

// NewFile creates a file handle. Name is the base name sent to the server.
func NewFile(name string, size int64, open Opener) (File, error) {
	if name == "" {
		return File{}, errors.New("file name is required")
	}
	if size < 0 {
		return File{}, fmt.Errorf("file %q: negative size", name)
	}
	if open == nil {
		return File{}, fmt.Errorf("file %q: opener is required", name)
	}
	return File{name: name, size: size, open: open}, nil
}

// FromPath creates a handle for a file on disk.
func FromPath(path string) (File, error) {
	info, err := os.Stat(path)
	if err != nil {
		return File{}, fmt.Errorf("stat %s: %w", path, err)
	}
	if info.IsDir() {
		return File{}, fmt.Errorf("%s is a directory", path)
	}
	clean := filepath.Clean(path)
	return NewFile(filepath.Base(clean), info.Size(), func() (io.ReadCloser, error) {
		f, err := os.Open(clean)
		if err != nil {
			return nil, fmt.Errorf("open %s: %w", clean, err)
		}
		return f, nil
	})
}

// FromBytes creates an in-memory file handle.
func FromBytes(name string, data []byte) (File, error) {
	return NewFile(name, int64(len(data)), func() (io.ReadCloser, error) {
		return io.NopCloser(bytes.NewReader(data)), nil
	})
}

// Name returns the file name.
func (f File) Name() string { return f.name }

// Size returns the file size in bytes.
func (f File) Size() int64 { return f.size }

// Open returns a reader over the contents.
func (f File) Open() (io.ReadCloser, error) {
	if f.open == nil {
		return nil, fmt.Errorf("file %q has no opener", f.name)
	}
	return f.open()
}
