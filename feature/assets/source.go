package assets

import (
	"context"
	"errors"
	"fmt"
	"path"
	"strings"

	"datajoin/core/storage"

	"github.com/minio/minio-go/v7"
)

// ErrBucketNotFound is returned when the configured bucket does not exist.
var ErrBucketNotFound = errors.New("bucket not found")

// Source lists the objects of a bucket under a prefix.
type Source struct {
	client    storage.Client
	bucket    string
	prefix    string
	extension string
}

// NewSource creates a listing source. An empty extension keeps every object.
func NewSource(client storage.Client, bucket, prefix, extension string) *Source {
	if extension != "" && !strings.HasPrefix(extension, ".") {
		extension = "." + extension
	}
	return &Source{
		client:    client,
		bucket:    bucket,
		prefix:    prefix,
		extension: extension,
	}
}

// Name returns the source name.
func (s *Source) Name() string {
	if s.prefix == "" {
		return "assets"
	}
	return "assets:" + s.prefix
}

// Load lists the objects in key order.
func (s *Source) Load(ctx context.Context) ([]Object, error) {
	exists, err := s.client.BucketExists(ctx, s.bucket)
	if err != nil {
		return nil, fmt.Errorf("failed to check bucket %s: %w", s.bucket, err)
	}
	if !exists {
		return nil, fmt.Errorf("%w: %s", ErrBucketNotFound, s.bucket)
	}

	opts := minio.ListObjectsOptions{
		Prefix:    s.prefix,
		Recursive: true,
	}

	var objects []Object
	for obj := range s.client.ListObjects(ctx, s.bucket, opts) {
		if obj.Err != nil {
			return nil, fmt.Errorf("failed to list objects: %w", obj.Err)
		}
		if strings.HasSuffix(obj.Key, "/") || !s.matches(obj.Key) {
			continue
		}
		objects = append(objects, Object{
			Key:          obj.Key,
			ETag:         obj.ETag,
			Size:         obj.Size,
			LastModified: obj.LastModified,
		})
	}
	return objects, nil
}

func (s *Source) matches(key string) bool {
	return s.extension == "" || strings.EqualFold(path.Ext(key), s.extension)
}
