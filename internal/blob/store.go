// Package blob abstracts the object storage holding uploaded story images.
// Two backends exist: an S3-compatible service (MinIO, AWS S3) and a local
// directory served by the API itself under /uploads/.
package blob

import (
	"context"
	"io"
)

// LocalURLPrefix is the public namespace of locally stored assets.
const LocalURLPrefix = "/uploads/"

// Store writes uploaded assets and returns their public URL.
type Store interface {
	// Put stores the object under key and returns its public URL. The URL is
	// opaque to callers; it is embedded in stories verbatim.
	Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) (string, error)
	// Remove deletes the object under key.
	Remove(ctx context.Context, key string) error
	// LocalKey reports whether url addresses this store's local namespace,
	// returning the storage key when it does. Remote stores always report
	// false: their assets outlive the stories that reference them.
	LocalKey(url string) (string, bool)
}
