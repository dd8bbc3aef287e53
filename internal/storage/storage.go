package storage

import (
	"context"
	"io"
)

// Bucket names the two stores images land in.
type Bucket string

const (
	BucketAvatars       Bucket = "avatars"
	BucketProductImages Bucket = "product-images"
)

// ObjectStore uploads image files and hands back their public URLs.
// Superseded files are never deleted; the upload-then-URL pattern is the
// whole contract.
type ObjectStore interface {
	Upload(ctx context.Context, bucket Bucket, key string, contentType string, body io.Reader) (string, error)
	PublicURL(bucket Bucket, key string) string
}
