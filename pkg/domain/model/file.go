package model

import (
	"io"
	"os"
	"strings"

	"github.com/m-mizutani/goerr/v2"
)

// SelectedFile is a local file the user picked for upload or analysis
type SelectedFile struct {
	Path        string
	Name        string
	ContentType string
	Size        int64
}

// Open opens the file for streaming into a multipart body
func (f *SelectedFile) Open() (io.ReadCloser, error) {
	fd, err := os.Open(f.Path)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to open selected file", goerr.V(PathKey, f.Path))
	}
	return fd, nil
}

// IsPDF reports whether the file was classified as a PDF
func (f *SelectedFile) IsPDF() bool {
	return f.ContentType == "application/pdf"
}

// IsImage reports whether the file was classified as an image
func (f *SelectedFile) IsImage() bool {
	return strings.HasPrefix(f.ContentType, "image/")
}
