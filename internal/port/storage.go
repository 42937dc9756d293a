package port

import (
	"context"
	"io"
	"time"
)

// FileInfo represents metadata about a stored object.
type FileInfo struct {
	Key          string
	SizeBytes    int64
	ContentType  string
	LastModified time.Time
}

// Storage defines the object storage operations used by the commit and
// reconciliation flows.
type Storage interface {
	InitBucket(bucket string) error
	SaveFile(ctx context.Context, bucket, fileKey string, reader io.Reader, fileSize int64, opts map[string]string) error
	RemoveFile(ctx context.Context, bucket, fileKey string) error
	StatFile(ctx context.Context, bucket, fileKey string) (FileInfo, error)
	FileExists(ctx context.Context, bucket, fileKey string) (bool, error)
	ListFiles(ctx context.Context, bucket, prefix string) ([]FileInfo, error)
	// PublicURL returns the durable, publicly resolvable URL of an object.
	PublicURL(bucket, fileKey string) string
	// ObjectKeyFromURL is the inverse of PublicURL. Query strings are ignored.
	ObjectKeyFromURL(bucket, rawURL string) (string, error)
}
