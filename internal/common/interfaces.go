package common

import (
	"context"
	"io"
)

// StoredFile describes a payload held by the file store.
type StoredFile struct {
	ID       string `json:"id"`
	Filename string `json:"filename"`
	Size     int64  `json:"size"`
}

// FileStore persists message attachments under collision-resistant references.
// Implementations reject non-whitelisted extensions and oversized payloads.
type FileStore interface {
	Upload(ctx context.Context, filename string, content io.Reader) (*StoredFile, error)
	Download(ctx context.Context, fileID string) (io.ReadCloser, *StoredFile, error)
	Exists(ctx context.Context, fileID string) (bool, error)
	Delete(ctx context.Context, fileID string) error
}
