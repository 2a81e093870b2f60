package storage

import (
	"context"
	"io"
)

// FileStorage holds generated report workbooks. Uploads are best-effort
// mirrors of data that can always be recomputed from the event log.
type FileStorage interface {
	// Upload writes a file and returns the stored path/key
	Upload(ctx context.Context, file io.Reader, path string) (string, error)

	// Download retrieves a stored file
	Download(ctx context.Context, path string) (io.ReadCloser, error)

	// Exists checks if a file exists
	Exists(ctx context.Context, path string) (bool, error)
}
