package port

import (
	"context"

	"idpportal/internal/result"
)

// ResultFetcher retrieves the supplementary result document behind a presigned link.
type ResultFetcher interface {
	Fetch(ctx context.Context, link string) (*result.Node, error)
}
