// Package storage provides an abstraction layer for object storage services.
//
// It wraps the MinIO Go client behind a narrow interface: checking bucket existence and
// listing objects. Both AWS S3 and self-hosted MinIO instances are supported.
//
// # Client Interface
//
// The Client interface abstracts the underlying storage provider, making it easier
// to mock storage interactions for unit testing (see core/storage/mocks).
//
// # Usage
//
//	client, err := storage.NewClient(config)
//	exists, err := client.BucketExists(ctx, "assets")
//	for obj := range client.ListObjects(ctx, "assets", minio.ListObjectsOptions{Prefix: "bundled/", Recursive: true}) {
//	    ...
//	}
package storage
