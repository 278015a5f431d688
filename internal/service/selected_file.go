package service

import (
	"fmt"
	"io"
	"path/filepath"

	"github.com/gabriel-vasile/mimetype"

	"stmtview/internal/domain"
)

// NewSelectedFile wraps raw file bytes with their display name and detected MIME type.
// The type is informational only; no file is rejected here.
func NewSelectedFile(name string, data []byte) domain.SelectedFile {
	return domain.SelectedFile{
		Name:        filepath.Base(name),
		ContentType: mimetype.Detect(data).String(),
		Size:        int64(len(data)),
		Data:        data,
	}
}

// ReadSelectedFile reads at most maxBytes from r. A non-positive maxBytes disables the limit.
func ReadSelectedFile(name string, r io.Reader, maxBytes int64) (domain.SelectedFile, error) {
	if maxBytes > 0 {
		r = io.LimitReader(r, maxBytes+1)
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return domain.SelectedFile{}, fmt.Errorf("reading %s: %w", name, err)
	}
	if maxBytes > 0 && int64(len(data)) > maxBytes {
		return domain.SelectedFile{}, domain.ErrFileTooLarge
	}
	return NewSelectedFile(name, data), nil
}
