package models

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// Upload is a file attached to a multipart request.
type Upload struct {
	Name   string
	Reader io.Reader
}

// OpenUpload opens path for upload. The caller closes the returned closer
// once the request has been sent.
func OpenUpload(path string) (*Upload, io.Closer, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("open upload %s: %w", path, err)
	}
	return &Upload{Name: filepath.Base(path), Reader: f}, f, nil
}
