package testutil

import (
	"context"
	"fmt"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

type TestBucket struct {
	Name    string
	Client  *minio.Client
	Cleanup func() error
}

// SetupTestBucket creates a fresh, uniquely named bucket so tests sharing
// the MinIO instance never see each other's objects.
func SetupTestBucket(endpoint, accessKey, secretKey string) (*TestBucket, error) {
	ctx := context.Background()
	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(accessKey, secretKey, ""),
		Secure: false,
	})
	if err != nil {
		return nil, fmt.Errorf("minio client: %w", err)
	}

	name := fmt.Sprintf("videos-%d", time.Now().UnixNano())
	if err := client.MakeBucket(ctx, name, minio.MakeBucketOptions{}); err != nil {
		return nil, fmt.Errorf("could not create bucket %q: %w", name, err)
	}

	cleanup := func() error {
		// list and remove every object before dropping the bucket
		for obj := range client.ListObjects(ctx, name, minio.ListObjectsOptions{Recursive: true}) {
			if obj.Err != nil {
				continue
			}
			_ = client.RemoveObject(ctx, name, obj.Key, minio.RemoveObjectOptions{})
		}
		if err := client.RemoveBucket(ctx, name); err != nil {
			return fmt.Errorf("could not remove bucket %q: %w", name, err)
		}
		return nil
	}

	return &TestBucket{Name: name, Client: client, Cleanup: cleanup}, nil
}
