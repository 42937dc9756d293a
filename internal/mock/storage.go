package mock

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/fhuszti/video-studio-ms-go/internal/port"
)

// Storage implements port.Storage for tests.
type Storage struct {
	// stored values
	StatInfoOut port.FileInfo
	ExistsOut   bool
	ListOut     []port.FileInfo
	BaseURL     string

	// captured inputs
	Bucket      string
	ObjectKey   string
	SavedData   []byte
	SavedOpts   map[string]string
	RemovedKeys []string

	// errors
	InitBucketErr error
	StatErr       error
	RemoveErr     error
	SaveErr       error
	FileExistsErr error
	ListErr       error
	KeyFromURLErr error

	// call flags
	InitBucketCalled bool
	StatCalled       bool
	RemoveCalled     bool
	SaveCalled       bool
	FileExistsCalled bool
	ListCalled       bool
}

var _ port.Storage = (*Storage)(nil)

func (m *Storage) InitBucket(bucket string) error {
	m.InitBucketCalled = true
	m.Bucket = bucket
	return m.InitBucketErr
}

func (m *Storage) SaveFile(ctx context.Context, bucket, fileKey string, reader io.Reader, fileSize int64, opts map[string]string) error {
	m.SaveCalled = true
	m.Bucket = bucket
	m.ObjectKey = fileKey
	m.SavedOpts = opts
	if m.SaveErr != nil {
		return m.SaveErr
	}
	data, err := io.ReadAll(reader)
	if err != nil {
		return err
	}
	m.SavedData = data
	return nil
}

func (m *Storage) RemoveFile(ctx context.Context, bucket, fileKey string) error {
	m.RemoveCalled = true
	m.RemovedKeys = append(m.RemovedKeys, fileKey)
	return m.RemoveErr
}

func (m *Storage) StatFile(ctx context.Context, bucket, fileKey string) (port.FileInfo, error) {
	m.StatCalled = true
	if m.StatErr != nil {
		return port.FileInfo{}, m.StatErr
	}
	return m.StatInfoOut, nil
}

func (m *Storage) FileExists(ctx context.Context, bucket, fileKey string) (bool, error) {
	m.FileExistsCalled = true
	if m.FileExistsErr != nil {
		return false, m.FileExistsErr
	}
	return m.ExistsOut, nil
}

func (m *Storage) ListFiles(ctx context.Context, bucket, prefix string) ([]port.FileInfo, error) {
	m.ListCalled = true
	if m.ListErr != nil {
		return nil, m.ListErr
	}
	return m.ListOut, nil
}

func (m *Storage) baseURL() string {
	if m.BaseURL != "" {
		return m.BaseURL
	}
	return "https://cdn.example.com"
}

func (m *Storage) PublicURL(bucket, fileKey string) string {
	return m.baseURL() + "/" + bucket + "/" + fileKey
}

func (m *Storage) ObjectKeyFromURL(bucket, rawURL string) (string, error) {
	if m.KeyFromURLErr != nil {
		return "", m.KeyFromURLErr
	}
	prefix := m.baseURL() + "/" + bucket + "/"
	if !strings.HasPrefix(rawURL, prefix) {
		return "", fmt.Errorf("%q is outside bucket %q", rawURL, bucket)
	}
	key := strings.TrimPrefix(rawURL, prefix)
	if i := strings.IndexByte(key, '?'); i >= 0 {
		key = key[:i]
	}
	return key, nil
}
