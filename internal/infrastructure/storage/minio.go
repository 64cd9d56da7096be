package storage

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/johnquangdev/earnings-transcripts/internal/domain/repositories"
	"github.com/johnquangdev/earnings-transcripts/pkg/config"
	"github.com/johnquangdev/earnings-transcripts/pkg/retry"
)

// MinIOClient wraps MinIO operations on the transcript bucket
type MinIOClient struct {
	client *minio.Client
	bucket string
	region string
}

var _ repositories.BlobStore = (*MinIOClient)(nil)

// NewMinIOClient creates a new MinIO client for bucket and makes sure the
// bucket exists
func NewMinIOClient(ctx context.Context, cfg *config.StorageConfig, bucket string) (*MinIOClient, error) {
	minioClient, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		Secure: cfg.UseSSL,
		Region: cfg.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create MinIO client: %w", err)
	}

	client := &MinIOClient{
		client: minioClient,
		bucket: bucket,
		region: cfg.Region,
	}

	if err := retry.Connect(ctx, "minio", retry.DefaultMaxElapsed, func() error {
		return client.ensureBucket(ctx)
	}); err != nil {
		return nil, fmt.Errorf("failed to initialize bucket: %w", err)
	}

	return client, nil
}

// ensureBucket creates the bucket when it does not exist yet
func (m *MinIOClient) ensureBucket(ctx context.Context) error {
	exists, err := m.client.BucketExists(ctx, m.bucket)
	if err != nil {
		return fmt.Errorf("failed to check bucket existence: %w", err)
	}

	if !exists {
		err = m.client.MakeBucket(ctx, m.bucket, minio.MakeBucketOptions{Region: m.region})
		if err != nil {
			return fmt.Errorf("failed to create bucket: %w", err)
		}
	}

	return nil
}

// Bucket returns the bucket name
func (m *MinIOClient) Bucket() string {
	return m.bucket
}

// Put uploads an object, overwriting whatever is stored at the same key
func (m *MinIOClient) Put(ctx context.Context, object repositories.BlobObject) error {
	_, err := m.client.PutObject(ctx, m.bucket, object.Key, bytes.NewReader(object.Body), int64(len(object.Body)), minio.PutObjectOptions{
		ContentType:  object.ContentType,
		UserMetadata: object.Metadata,
	})
	if err != nil {
		return fmt.Errorf("failed to upload object %s: %w", object.Key, err)
	}

	return nil
}

// Get downloads an object. A missing key returns nil, nil.
func (m *MinIOClient) Get(ctx context.Context, key string) (*repositories.BlobObject, error) {
	obj, err := m.client.GetObject(ctx, m.bucket, key, minio.GetObjectOptions{})
	if err != nil {
		if isNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get object %s: %w", key, err)
	}
	defer obj.Close()

	// GetObject is lazy; errors such as NoSuchKey surface on first read
	info, err := obj.Stat()
	if err != nil {
		if isNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to stat object %s: %w", key, err)
	}

	body, err := io.ReadAll(obj)
	if err != nil {
		return nil, fmt.Errorf("failed to read object %s: %w", key, err)
	}

	return &repositories.BlobObject{
		Key:         key,
		Body:        body,
		ContentType: info.ContentType,
		Metadata:    info.UserMetadata,
	}, nil
}

// List lists all keys in the bucket under prefix
func (m *MinIOClient) List(ctx context.Context, prefix string) ([]string, error) {
	var files []string

	objectCh := m.client.ListObjects(ctx, m.bucket, minio.ListObjectsOptions{
		Prefix:    prefix,
		Recursive: true,
	})

	for object := range objectCh {
		if object.Err != nil {
			return nil, fmt.Errorf("error listing objects: %w", object.Err)
		}
		files = append(files, object.Key)
	}

	return files, nil
}

// Ping checks that the bucket is reachable
func (m *MinIOClient) Ping(ctx context.Context) error {
	exists, err := m.client.BucketExists(ctx, m.bucket)
	if err != nil {
		return fmt.Errorf("failed to check bucket: %w", err)
	}
	if !exists {
		return fmt.Errorf("bucket %s does not exist", m.bucket)
	}
	return nil
}

func isNotFound(err error) bool {
	resp := minio.ToErrorResponse(err)
	return resp.Code == "NoSuchKey" || (resp.StatusCode == http.StatusNotFound && resp.Code != "NoSuchBucket")
}
