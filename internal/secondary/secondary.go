// Package secondary retrieves the supplementary result document referenced by
// the presigned link in a processing response.
package secondary

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	"idpportal/internal/config"
	"idpportal/internal/port"
)

var (
	// ErrUnsupportedScheme is returned for links that are not http or https.
	ErrUnsupportedScheme = errors.New("presigned link scheme must be http or https")
	// ErrInvalidLink is returned for links that cannot be resolved.
	ErrInvalidLink = errors.New("invalid presigned link")
)

// NewFetcher creates the ResultFetcher selected by cfg.Source. The S3 source
// requires store.
func NewFetcher(cfg *config.SecondaryConfig, s3cfg *config.S3Config, store port.ObjectStorage) (port.ResultFetcher, error) {
	switch cfg.Source {
	case "", "http":
		return NewHTTPFetcher(cfg.Timeout), nil
	case "s3":
		if store == nil {
			return nil, fmt.Errorf("s3 secondary source requires object storage")
		}
		return NewS3Fetcher(store, s3cfg.Bucket), nil
	default:
		return nil, fmt.Errorf("unknown secondary source: %s", cfg.Source)
	}
}

func parseLink(link string) (*url.URL, error) {
	link = strings.TrimSpace(link)
	if link == "" {
		return nil, ErrInvalidLink
	}
	u, err := url.Parse(link)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidLink, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, ErrUnsupportedScheme
	}
	if u.Host == "" {
		return nil, fmt.Errorf("%w: missing host", ErrInvalidLink)
	}
	return u, nil
}
