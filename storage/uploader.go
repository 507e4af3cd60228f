package storage

import (
	"context"
	"io"
)

type UploadResult struct {
	Key      string
	Location string
	ETag     string
}

// SnapshotUploader publishes generated schedule snapshots for public
// consumption. Uploads are best effort; the engine degrades to a warning when
// the store is unreachable. The result's Location carries the public URL.
type SnapshotUploader interface {
	Upload(ctx context.Context, key string, contentType string, reader io.Reader) (*UploadResult, error)
}
