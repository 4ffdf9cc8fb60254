package s3_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"idpportal/internal/config"
	"idpportal/internal/domain"
	s3store "idpportal/internal/storage/s3"
)

func newFakeS3(t *testing.T) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/results/run-1/output.json":
			body := []byte(`{"inference_result":{"employer_info":{"employer_name":"Acme"}}}`)
			w.Header().Set("Content-Type", "application/json")
			w.Header().Set("Content-Length", strconv.Itoa(len(body)))
			if r.Method == http.MethodHead {
				return
			}
			_, _ = w.Write(body)
		case "/results/huge.json":
			w.Header().Set("Content-Length", strconv.Itoa(64<<20))
			if r.Method == http.MethodHead {
				return
			}
			t.Errorf("unexpected %s for oversized object", r.Method)
		default:
			if r.Method == http.MethodHead {
				w.WriteHeader(http.StatusNotFound)
				return
			}
			w.Header().Set("Content-Type", "application/xml")
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte(`<?xml version="1.0" encoding="UTF-8"?><Error><Code>NoSuchKey</Code><Message>The specified key does not exist.</Message></Error>`))
		}
	}))
}

func TestDownload_PathStyleEndpoint(t *testing.T) {
	srv := newFakeS3(t)
	defer srv.Close()

	store, err := s3store.NewS3Client(context.Background(), &config.S3Config{
		Region:    "us-east-1",
		Endpoint:  srv.URL,
		AccessKey: "test",
		SecretKey: "test",
	})
	require.NoError(t, err)

	data, err := store.Download(context.Background(), "results", "run-1/output.json")
	require.NoError(t, err)
	assert.JSONEq(t, `{"inference_result":{"employer_info":{"employer_name":"Acme"}}}`, string(data))

	_, err = store.Download(context.Background(), "results", "missing.json")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = store.Download(context.Background(), "results", "huge.json")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "limit")
}
