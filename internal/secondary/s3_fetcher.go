package secondary

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"idpportal/internal/port"
	"idpportal/internal/result"
)

// ErrForeignBucket is returned when a link points outside the configured bucket.
var ErrForeignBucket = errors.New("presigned link points to an unexpected bucket")

// ObjectRef identifies an S3 object.
type ObjectRef struct {
	Bucket string
	Key    string
}

// S3Fetcher resolves presigned links to bucket and key and reads the object
// with the service's own credentials.
type S3Fetcher struct {
	store  port.ObjectStorage
	bucket string
}

// NewS3Fetcher creates a fetcher reading through store. A non-empty bucket
// restricts links to that bucket.
func NewS3Fetcher(store port.ObjectStorage, bucket string) *S3Fetcher {
	return &S3Fetcher{store: store, bucket: bucket}
}

// Fetch downloads and parses the object behind link.
func (f *S3Fetcher) Fetch(ctx context.Context, link string) (*result.Node, error) {
	ref, err := ParseObjectURL(link)
	if err != nil {
		return nil, err
	}
	if f.bucket != "" && ref.Bucket != f.bucket {
		return nil, fmt.Errorf("%w: %s", ErrForeignBucket, ref.Bucket)
	}

	data, err := f.store.Download(ctx, ref.Bucket, ref.Key)
	if err != nil {
		return nil, fmt.Errorf("downloading %s/%s: %w", ref.Bucket, ref.Key, err)
	}
	doc, err := result.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parsing %s/%s: %w", ref.Bucket, ref.Key, err)
	}
	return doc, nil
}

// ParseObjectURL extracts bucket and key from a virtual-hosted style
// (bucket.s3.region.amazonaws.com/key) or path-style (host/bucket/key) URL.
// The query string, which carries the presigned signature, is ignored.
func ParseObjectURL(link string) (ObjectRef, error) {
	u, err := parseLink(link)
	if err != nil {
		return ObjectRef{}, err
	}

	host := strings.ToLower(u.Hostname())
	objPath := strings.TrimPrefix(u.Path, "/")

	var ref ObjectRef
	if bucket, ok := virtualHostBucket(host); ok {
		ref = ObjectRef{Bucket: bucket, Key: objPath}
	} else {
		bucket, key, _ := strings.Cut(objPath, "/")
		ref = ObjectRef{Bucket: bucket, Key: key}
	}

	if ref.Bucket == "" || ref.Key == "" {
		return ObjectRef{}, fmt.Errorf("%w: no bucket or key in %s", ErrInvalidLink, redact(u))
	}
	return ref, nil
}

func virtualHostBucket(host string) (string, bool) {
	if !strings.HasSuffix(host, ".amazonaws.com") {
		return "", false
	}
	idx := strings.Index(host, ".s3.")
	if idx < 0 {
		idx = strings.Index(host, ".s3-")
	}
	if idx <= 0 {
		return "", false
	}
	return host[:idx], true
}

// redact drops the signature query from u for error messages.
func redact(u *url.URL) string {
	c := *u
	c.RawQuery = ""
	return c.String()
}
