// Package processor submits documents to the remote processing endpoint.
package processor

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"strconv"
	"strings"
	"time"

	"idpportal/internal/config"
	"idpportal/internal/port"
	"idpportal/internal/result"
)

// maxResponseBytes caps how much of a response body is read.
const maxResponseBytes = 32 << 20

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

// HTTPProcessor implements port.DocumentProcessor with a multipart POST.
type HTTPProcessor struct {
	endpoint     string
	documentType string
	client       *http.Client
}

// NewHTTPProcessor creates a processor for cfg.Endpoint.
func NewHTTPProcessor(cfg *config.ProcessorConfig) (*HTTPProcessor, error) {
	return NewHTTPProcessorWithClient(cfg, nil)
}

// NewHTTPProcessorWithClient creates a processor that sends requests through client.
// A nil client gets one bounded by cfg.Timeout.
func NewHTTPProcessorWithClient(cfg *config.ProcessorConfig, client *http.Client) (*HTTPProcessor, error) {
	if err := checkScheme(cfg.Endpoint); err != nil {
		return nil, err
	}
	if client == nil {
		timeout := cfg.Timeout
		if timeout == 0 {
			timeout = 60 * time.Second
		}
		client = &http.Client{Timeout: timeout}
	}
	docType := cfg.DocumentType
	if docType == "" {
		docType = "Document"
	}
	return &HTTPProcessor{
		endpoint:     cfg.Endpoint,
		documentType: docType,
		client:       client,
	}, nil
}

func checkScheme(rawURL string) error {
	u, err := url.Parse(rawURL)
	if err != nil {
		return fmt.Errorf("parsing endpoint: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return ErrUnsupportedScheme
	}
	if u.Host == "" {
		return fmt.Errorf("endpoint %q has no host", rawURL)
	}
	return nil
}

// Submit posts the file and its metadata and parses the JSON response.
func (p *HTTPProcessor) Submit(ctx context.Context, input port.SubmitInput) (*result.Node, error) {
	body, contentType, err := p.buildForm(input)
	if err != nil {
		return nil, fmt.Errorf("building form: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.endpoint, body)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Accept", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("calling processing endpoint: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("reading response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &StatusError{Code: resp.StatusCode, Body: truncate(string(respBody), 500)}
	}

	node, err := result.Parse(respBody)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidResponse, err)
	}
	return node, nil
}

func (p *HTTPProcessor) buildForm(input port.SubmitInput) (io.Reader, string, error) {
	buf := &bytes.Buffer{}
	w := multipart.NewWriter(buf)

	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition",
		fmt.Sprintf(`form-data; name="file"; filename="%s"`, quoteEscaper.Replace(input.FileName)))
	ct := input.ContentType
	if ct == "" {
		ct = "application/octet-stream"
	}
	h.Set("Content-Type", ct)

	part, err := w.CreatePart(h)
	if err != nil {
		return nil, "", err
	}
	if _, err := io.Copy(part, input.File); err != nil {
		return nil, "", fmt.Errorf("copying file: %w", err)
	}

	submittedAt := input.SubmittedAt
	if submittedAt.IsZero() {
		submittedAt = time.Now()
	}
	fields := [][2]string{
		{"fileName", input.FileName},
		{"fileSize", strconv.FormatInt(input.Size, 10)},
		{"documentType", p.documentType},
		{"contentType", input.ContentType},
		{"timestamp", submittedAt.UTC().Format("2006-01-02T15:04:05.000Z07:00")},
	}
	for _, f := range fields {
		if err := w.WriteField(f[0], f[1]); err != nil {
			return nil, "", err
		}
	}

	if err := w.Close(); err != nil {
		return nil, "", err
	}
	return buf, w.FormDataContentType(), nil
}
