package port

import (
	"context"
	"io"
	"time"

	"idpportal/internal/result"
)

// SubmitInput carries a file and its descriptive metadata to the processing backend.
type SubmitInput struct {
	File        io.Reader
	FileName    string
	Size        int64
	ContentType string
	SubmittedAt time.Time
}

// DocumentProcessor submits a document to the processing backend and returns
// the parsed response body.
type DocumentProcessor interface {
	Submit(ctx context.Context, input SubmitInput) (*result.Node, error)
}
