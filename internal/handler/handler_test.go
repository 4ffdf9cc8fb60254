package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"idpportal/internal/confidence"
	"idpportal/internal/domain"
	"idpportal/internal/handler"
	"idpportal/internal/result"
	"idpportal/internal/service"
	"idpportal/internal/validator"
	"idpportal/mocks"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func multipartBody(t *testing.T, name, contentType, content string) (*bytes.Buffer, string) {
	t.Helper()
	body := &bytes.Buffer{}
	w := multipart.NewWriter(body)
	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename="%s"`, name))
	if contentType != "" {
		h.Set("Content-Type", contentType)
	}
	part, err := w.CreatePart(h)
	require.NoError(t, err)
	_, _ = part.Write([]byte(content))
	require.NoError(t, w.Close())
	return body, w.FormDataContentType()
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func errorOf(t *testing.T, w *httptest.ResponseRecorder) (string, string) {
	t.Helper()
	var resp handler.APIResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.False(t, resp.Success)
	require.NotNil(t, resp.Error)
	return resp.Error.Code, resp.Error.Message
}

func newRecord() *domain.UploadRecord {
	return &domain.UploadRecord{
		ID:          uuid.New(),
		Name:        "w2.pdf",
		Size:        2048,
		ContentType: "application/pdf",
		Result:      result.MustParse(`{"data":{"id":"1"},"secondaryUnavailable":true}`),
		CreatedAt:   time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
	}
}

func TestUploadHandler_Upload_Success(t *testing.T) {
	svc := new(mocks.MockUploadService)
	h := handler.NewUploadHandler(svc)
	rec := newRecord()

	svc.On("Submit", mock.Anything, mock.MatchedBy(func(in service.UploadInput) bool {
		return in.Name == "w2.pdf" && in.ContentType == "application/pdf" && in.Size == int64(len("%PDF-1.7"))
	})).Return(rec, nil)

	body, ct := multipartBody(t, "w2.pdf", "application/pdf", "%PDF-1.7")
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest(http.MethodPost, "/api/v1/uploads", body)
	c.Request.Header.Set("Content-Type", ct)

	h.Upload(c)

	assert.Equal(t, http.StatusCreated, w.Code)
	resp := decode(t, w)
	assert.Equal(t, true, resp["success"])
	data := resp["data"].(map[string]interface{})
	assert.Equal(t, rec.ID.String(), data["id"])
	assert.Equal(t, map[string]interface{}{"data": map[string]interface{}{"id": "1"}, "secondaryUnavailable": true}, data["result"])
	svc.AssertExpectations(t)
}

func TestUploadHandler_Upload_ContentTypeFromExtension(t *testing.T) {
	svc := new(mocks.MockUploadService)
	h := handler.NewUploadHandler(svc)

	svc.On("Submit", mock.Anything, mock.MatchedBy(func(in service.UploadInput) bool {
		return in.ContentType == "image/png"
	})).Return(newRecord(), nil)

	body, ct := multipartBody(t, "scan.png", "application/octet-stream", "png")
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest(http.MethodPost, "/api/v1/uploads", body)
	c.Request.Header.Set("Content-Type", ct)

	h.Upload(c)

	assert.Equal(t, http.StatusCreated, w.Code)
	svc.AssertExpectations(t)
}

func TestUploadHandler_Upload_MissingFile(t *testing.T) {
	svc := new(mocks.MockUploadService)
	h := handler.NewUploadHandler(svc)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest(http.MethodPost, "/api/v1/uploads", strings.NewReader(""))

	h.Upload(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	code, _ := errorOf(t, w)
	assert.Equal(t, "MISSING_FILE", code)
	svc.AssertNotCalled(t, "Submit", mock.Anything, mock.Anything)
}

func TestUploadHandler_Upload_Errors(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		code   string
		msg    string
	}{
		{"unsupported type", domain.ErrUnsupportedFileType, http.StatusBadRequest, "UNSUPPORTED_FILE_TYPE", "unsupported file type"},
		{"too large", domain.ErrFileTooLarge, http.StatusRequestEntityTooLarge, "FILE_TOO_LARGE", "file too large"},
		{"busy", domain.ErrAlreadyInProgress, http.StatusConflict, "UPLOAD_IN_PROGRESS", "an upload is already in progress"},
		{
			"client rejected",
			&domain.UploadError{Category: domain.FailureClientRejected, Err: errors.New("status 400: bad scan")},
			http.StatusUnprocessableEntity, "CLIENT_REJECTED", "file cannot be processed, try a different file",
		},
		{
			"service unavailable",
			&domain.UploadError{Category: domain.FailureServiceUnavailable, Err: errors.New("status 503: upstream exploded")},
			http.StatusServiceUnavailable, "SERVICE_UNAVAILABLE", "processing service currently unavailable, retry later",
		},
		{
			"timeout",
			&domain.UploadError{Category: domain.FailureTimeout, Err: context.DeadlineExceeded},
			http.StatusServiceUnavailable, "UPLOAD_TIMEOUT", "processing service currently unavailable, retry later",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(mocks.MockUploadService)
			h := handler.NewUploadHandler(svc)
			svc.On("Submit", mock.Anything, mock.AnythingOfType("service.UploadInput")).Return(nil, tt.err)

			body, ct := multipartBody(t, "notes.txt", "text/plain", "hello")
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			c.Request, _ = http.NewRequest(http.MethodPost, "/api/v1/uploads", body)
			c.Request.Header.Set("Content-Type", ct)

			h.Upload(c)

			assert.Equal(t, tt.status, w.Code)
			code, msg := errorOf(t, w)
			assert.Equal(t, tt.code, code)
			assert.Equal(t, tt.msg, msg)
			assert.NotContains(t, w.Body.String(), "upstream exploded")
		})
	}
}

func TestUploadHandler_List(t *testing.T) {
	svc := new(mocks.MockUploadService)
	h := handler.NewUploadHandler(svc)
	first, second := newRecord(), newRecord()

	svc.On("List").Return([]*domain.UploadRecord{first, second})
	svc.On("Selected").Return(second, true)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest(http.MethodGet, "/api/v1/uploads", http.NoBody)

	h.List(c)

	assert.Equal(t, http.StatusOK, w.Code)
	items := decode(t, w)["data"].([]interface{})
	require.Len(t, items, 2)
	assert.Equal(t, false, items[0].(map[string]interface{})["selected"])
	assert.Equal(t, true, items[1].(map[string]interface{})["selected"])
	assert.Equal(t, "2 KB", items[0].(map[string]interface{})["size_label"])
	assert.Equal(t, false, items[0].(map[string]interface{})["secondary_available"])
}

func TestUploadHandler_Get(t *testing.T) {
	svc := new(mocks.MockUploadService)
	h := handler.NewUploadHandler(svc)
	rec := newRecord()
	missing := uuid.New()

	svc.On("Get", rec.ID).Return(rec, nil)
	svc.On("Get", missing).Return(nil, domain.ErrNotFound)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest(http.MethodGet, "/", http.NoBody)
	c.Params = gin.Params{{Key: "id", Value: rec.ID.String()}}
	h.Get(c)
	assert.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	c, _ = gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest(http.MethodGet, "/", http.NoBody)
	c.Params = gin.Params{{Key: "id", Value: missing.String()}}
	h.Get(c)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = httptest.NewRecorder()
	c, _ = gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest(http.MethodGet, "/", http.NoBody)
	c.Params = gin.Params{{Key: "id", Value: "not-a-uuid"}}
	h.Get(c)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	code, _ := errorOf(t, w)
	assert.Equal(t, "INVALID_ID", code)
}

func TestUploadHandler_DeleteAndSelect(t *testing.T) {
	svc := new(mocks.MockUploadService)
	h := handler.NewUploadHandler(svc)
	rec := newRecord()

	svc.On("Remove", rec.ID).Return(nil)
	svc.On("Select", rec.ID).Return(nil)
	svc.On("Get", rec.ID).Return(rec, nil)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest(http.MethodDelete, "/", http.NoBody)
	c.Params = gin.Params{{Key: "id", Value: rec.ID.String()}}
	h.Delete(c)
	assert.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	c, _ = gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest(http.MethodPost, "/", http.NoBody)
	c.Params = gin.Params{{Key: "id", Value: rec.ID.String()}}
	h.Select(c)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, true, decode(t, w)["data"].(map[string]interface{})["selected"])

	svc.AssertExpectations(t)
}

func TestUploadHandler_Confidence(t *testing.T) {
	svc := new(mocks.MockUploadService)
	h := handler.NewUploadHandler(svc)
	id := uuid.New()
	report := confidence.Analyze(result.MustParse(`{"employer_info":{"ein":{"value":"12-3456789","confidence":0.75}}}`))

	svc.On("Confidence", id).Return(&report, nil)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest(http.MethodGet, "/", http.NoBody)
	c.Params = gin.Params{{Key: "id", Value: id.String()}}
	h.Confidence(c)

	assert.Equal(t, http.StatusOK, w.Code)
	data := decode(t, w)["data"].(map[string]interface{})
	fields := data["fields"].([]interface{})
	require.Len(t, fields, 1)
	f := fields[0].(map[string]interface{})
	assert.Equal(t, "employer_info ein", f["label"])
	assert.Equal(t, "12-3456789", f["value"])
	assert.Equal(t, float64(75), f["percent"])
	assert.Equal(t, "medium", f["band"])
	assert.Equal(t, "Medium", f["band_label"])
	assert.Equal(t, "medium", data["overall"])
}

func TestUploadHandler_Validation(t *testing.T) {
	svc := new(mocks.MockUploadService)
	h := handler.NewUploadHandler(svc)
	rec := newRecord()
	other := newRecord()
	outcome := validator.Validate(result.MustParse(`{"inference_result":{"employer_info":{"employer_name":"Acme"}}}`))

	svc.On("Get", rec.ID).Return(rec, nil)
	svc.On("Validation", rec.ID).Return(&outcome, nil)
	svc.On("Get", other.ID).Return(other, nil)
	svc.On("Validation", other.ID).Return(nil, nil)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest(http.MethodGet, "/", http.NoBody)
	c.Params = gin.Params{{Key: "id", Value: rec.ID.String()}}
	h.Validation(c)

	assert.Equal(t, http.StatusOK, w.Code)
	data := decode(t, w)["data"].(map[string]interface{})
	assert.Equal(t, true, data["available"])
	assert.Equal(t, false, data["is_valid"])
	assert.Equal(t, "Required Information Missing", data["title"])
	assert.Equal(t, []interface{}{"EIN", "SSN", "Employee Last Name"}, data["fields"])

	w = httptest.NewRecorder()
	c, _ = gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest(http.MethodGet, "/", http.NoBody)
	c.Params = gin.Params{{Key: "id", Value: other.ID.String()}}
	h.Validation(c)

	assert.Equal(t, http.StatusOK, w.Code)
	data = decode(t, w)["data"].(map[string]interface{})
	assert.Equal(t, false, data["available"])
}

func TestUploadHandler_Export(t *testing.T) {
	svc := new(mocks.MockUploadService)
	h := handler.NewUploadHandler(svc)
	rec := newRecord()
	report := confidence.Analyze(result.MustParse(`{"a":{"value":"x","confidence":0.5}}`))

	svc.On("Get", rec.ID).Return(rec, nil)
	svc.On("Confidence", rec.ID).Return(&report, nil)
	svc.On("Validation", rec.ID).Return(nil, nil)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest(http.MethodGet, "/?format=csv", http.NoBody)
	c.Params = gin.Params{{Key: "id", Value: rec.ID.String()}}
	h.Export(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "text/csv; charset=utf-8", w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), "w2_confidence_")
	assert.Contains(t, w.Body.String(), "Field,Value,Confidence,Confidence %,Band")
	assert.Contains(t, w.Body.String(), "a,x,0.5000,50%,Low")

	w = httptest.NewRecorder()
	c, _ = gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest(http.MethodGet, "/?format=xlsx", http.NoBody)
	c.Params = gin.Params{{Key: "id", Value: rec.ID.String()}}
	h.Export(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", w.Header().Get("Content-Type"))
	assert.True(t, bytes.HasPrefix(w.Body.Bytes(), []byte("PK")))

	w = httptest.NewRecorder()
	c, _ = gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest(http.MethodGet, "/?format=pdf", http.NoBody)
	c.Params = gin.Params{{Key: "id", Value: rec.ID.String()}}
	h.Export(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSessionHandler(t *testing.T) {
	svc := new(mocks.MockUploadService)
	h := handler.NewSessionHandler(svc)
	id := uuid.New()

	svc.On("Session").Return(service.Session{
		State:      domain.UploadState{Phase: domain.PhaseFailed, Category: domain.FailureClientRejected, Message: domain.MsgClientRejected},
		Alert:      &domain.Alert{Message: domain.MsgClientRejected, Type: domain.AlertError},
		SelectedID: &id,
		Uploads:    3,
	})
	svc.On("DismissAlert").Return()

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest(http.MethodGet, "/api/v1/session", http.NoBody)
	h.Get(c)

	assert.Equal(t, http.StatusOK, w.Code)
	data := decode(t, w)["data"].(map[string]interface{})
	state := data["state"].(map[string]interface{})
	assert.Equal(t, "failed", state["phase"])
	assert.Equal(t, "client_rejected", state["category"])
	assert.Equal(t, id.String(), data["selected_id"])
	assert.Equal(t, "error", data["alert"].(map[string]interface{})["type"])

	w = httptest.NewRecorder()
	c, _ = gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest(http.MethodDelete, "/api/v1/session/alert", http.NoBody)
	h.DismissAlert(c)

	assert.Equal(t, http.StatusOK, w.Code)
	svc.AssertCalled(t, "DismissAlert")
}

func TestHealthHandler(t *testing.T) {
	h := handler.NewHealthHandler(true, nil)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest(http.MethodGet, "/readyz", http.NoBody)
	h.Readiness(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, true, decode(t, w)["mock_mode"])

	notReady := handler.NewHealthHandler(false, func() bool { return false })
	w = httptest.NewRecorder()
	c, _ = gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest(http.MethodGet, "/readyz", http.NoBody)
	notReady.Readiness(c)

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestMapDomainError_Default(t *testing.T) {
	status, code, msg := handler.MapDomainError(errors.New("db exploded"))
	assert.Equal(t, http.StatusInternalServerError, status)
	assert.Equal(t, "INTERNAL_ERROR", code)
	assert.NotContains(t, msg, "exploded")
}
