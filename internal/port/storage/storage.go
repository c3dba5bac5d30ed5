package storage

import (
	"context"
	"errors"
	"io"
)

// Upload failures are classified so the caller can report why a submission
// died. Anything that is neither unauthorized nor cancelled is "unknown".
var (
	ErrUnauthorized = errors.New("storage: unauthorized")
	ErrCancelled    = errors.New("storage: upload cancelled")
)

// Progress describes one progress event of a single upload.
type Progress struct {
	Key         string
	Transferred int64
	Total       int64
}

// ProgressFunc consumes progress events. It may be called from the
// uploading goroutine and must not block.
type ProgressFunc func(Progress)

type FileStorage interface {
	// Upload stores size bytes from r under key and returns the public
	// download URL. onProgress may be nil.
	Upload(ctx context.Context, key string, r io.Reader, size int64, contentType string, onProgress ProgressFunc) (string, error)
}
