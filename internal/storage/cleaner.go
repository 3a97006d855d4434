package storage

import (
	"context"
	"log"
	"net/url"
	"strings"
)

// ObjectKey extracts the storage key from a public object URL. The key is
// everything after the bucket segment in the URL path. Returns false when the
// URL does not reference the bucket at all, which callers treat as "nothing
// to delete".
func ObjectKey(rawURL, bucket string) (string, bool) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", false
	}

	segments := strings.Split(strings.Trim(u.Path, "/"), "/")
	for i, segment := range segments {
		if segment == bucket && i+1 < len(segments) {
			return strings.Join(segments[i+1:], "/"), true
		}
	}
	return "", false
}

// Cleaner deletes orphaned storage objects referenced by public URLs.
//
// Cleanup is advisory: the record lifecycle that triggers it must proceed
// regardless of the outcome, so Cleanup exposes no error channel. Failures
// are logged and swallowed at this boundary.
type Cleaner struct {
	store  ObjectStore
	bucket string
}

func NewCleaner(store ObjectStore, bucket string) *Cleaner {
	return &Cleaner{store: store, bucket: bucket}
}

// Cleanup requests deletion of the object behind a public URL.
func (c *Cleaner) Cleanup(ctx context.Context, rawURL string) {
	key, ok := ObjectKey(rawURL, c.bucket)
	if !ok {
		return
	}

	if err := c.store.Remove(ctx, key); err != nil {
		log.Printf("storage cleanup: failed to remove object %q: %v", key, err)
	}
}
