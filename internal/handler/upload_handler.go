package handler

import (
	"bytes"
	"mime"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"idpportal/internal/confidence"
	"idpportal/internal/domain"
	"idpportal/internal/export"
	"idpportal/internal/filecheck"
	"idpportal/internal/result"
	"idpportal/internal/service"
)

// UploadHandler handles document upload and result endpoints.
type UploadHandler struct {
	uploadService service.UploadService
}

// NewUploadHandler creates a new UploadHandler.
func NewUploadHandler(uploadService service.UploadService) *UploadHandler {
	return &UploadHandler{uploadService: uploadService}
}

// UploadSummary is an entry of the upload list.
type UploadSummary struct {
	ID                 uuid.UUID `json:"id"`
	Name               string    `json:"name"`
	Size               int64     `json:"size"`
	SizeLabel          string    `json:"size_label"`
	ContentType        string    `json:"content_type"`
	CreatedAt          time.Time `json:"created_at"`
	Selected           bool      `json:"selected"`
	SecondaryAvailable bool      `json:"secondary_available"`
}

func summarize(rec *domain.UploadRecord, selected bool) UploadSummary {
	return UploadSummary{
		ID:                 rec.ID,
		Name:               rec.Name,
		Size:               rec.Size,
		SizeLabel:          filecheck.FormatSize(rec.Size),
		ContentType:        rec.ContentType,
		CreatedAt:          rec.CreatedAt,
		Selected:           selected,
		SecondaryAvailable: !rec.SecondaryUnavailable(),
	}
}

// FieldView is one row of the confidence table.
type FieldView struct {
	Label      string                `json:"label"`
	Path       []string              `json:"path"`
	Value      *result.Node          `json:"value"`
	Confidence float64               `json:"confidence"`
	Percent    int                   `json:"percent"`
	Band       domain.ConfidenceBand `json:"band"`
	BandLabel  string                `json:"band_label"`
}

// ConfidenceView is the confidence report for one upload.
type ConfidenceView struct {
	Fields  []FieldView           `json:"fields"`
	Stats   confidence.Stats      `json:"stats"`
	Overall domain.ConfidenceBand `json:"overall"`
}

// ValidationView is the required-field banner for one upload.
type ValidationView struct {
	Available   bool        `json:"available"`
	IsValid     bool        `json:"is_valid"`
	Title       string      `json:"title,omitempty"`
	Description string      `json:"description,omitempty"`
	Fields      []string    `json:"fields,omitempty"`
	Outcome     interface{} `json:"outcome,omitempty"`
}

// Upload handles POST /api/v1/uploads
func (h *UploadHandler) Upload(c *gin.Context) {
	file, header, err := c.Request.FormFile("file")
	if err != nil {
		RespondError(c, http.StatusBadRequest, "MISSING_FILE", "file field is required")
		return
	}
	defer func() { _ = file.Close() }()

	contentType := header.Header.Get("Content-Type")
	if contentType == "" || contentType == "application/octet-stream" {
		if byExt := mime.TypeByExtension(strings.ToLower(filepath.Ext(header.Filename))); byExt != "" {
			contentType = byExt
		}
	}
	if mediaType, _, parseErr := mime.ParseMediaType(contentType); parseErr == nil {
		contentType = mediaType
	}

	rec, err := h.uploadService.Submit(c.Request.Context(), service.UploadInput{
		File:        file,
		Name:        filepath.Base(header.Filename),
		Size:        header.Size,
		ContentType: contentType,
	})
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondCreated(c, rec)
}

// List handles GET /api/v1/uploads
func (h *UploadHandler) List(c *gin.Context) {
	records := h.uploadService.List()
	var selectedID uuid.UUID
	if sel, ok := h.uploadService.Selected(); ok {
		selectedID = sel.ID
	}

	items := make([]UploadSummary, 0, len(records))
	for _, rec := range records {
		items = append(items, summarize(rec, rec.ID == selectedID))
	}
	RespondOK(c, items)
}

// Get handles GET /api/v1/uploads/:id
func (h *UploadHandler) Get(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	rec, err := h.uploadService.Get(id)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, rec)
}

// Delete handles DELETE /api/v1/uploads/:id
func (h *UploadHandler) Delete(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	if err := h.uploadService.Remove(id); err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, gin.H{"message": "upload removed"})
}

// Select handles POST /api/v1/uploads/:id/select
func (h *UploadHandler) Select(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	if err := h.uploadService.Select(id); err != nil {
		HandleError(c, err)
		return
	}
	rec, err := h.uploadService.Get(id)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, summarize(rec, true))
}

// Confidence handles GET /api/v1/uploads/:id/confidence
func (h *UploadHandler) Confidence(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	report, err := h.uploadService.Confidence(id)
	if err != nil {
		HandleError(c, err)
		return
	}

	view := ConfidenceView{
		Fields:  make([]FieldView, 0, len(report.Fields)),
		Stats:   report.Stats,
		Overall: report.Overall,
	}
	for _, f := range report.Fields {
		band := f.Band()
		view.Fields = append(view.Fields, FieldView{
			Label:      f.Label(),
			Path:       f.Path,
			Value:      f.Value,
			Confidence: f.Confidence,
			Percent:    confidence.Percent(f.Confidence),
			Band:       band,
			BandLabel:  band.Label(),
		})
	}
	RespondOK(c, view)
}

// Validation handles GET /api/v1/uploads/:id/validation
func (h *UploadHandler) Validation(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	rec, err := h.uploadService.Get(id)
	if err != nil {
		HandleError(c, err)
		return
	}
	outcome, err := h.uploadService.Validation(id)
	if err != nil {
		HandleError(c, err)
		return
	}
	if outcome == nil {
		RespondOK(c, ValidationView{Available: false})
		return
	}

	listed := outcome.Listed()
	names := make([]string, 0, len(listed))
	for _, f := range listed {
		names = append(names, f.DisplayName)
	}
	RespondOK(c, ValidationView{
		Available:   true,
		IsValid:     outcome.IsValid,
		Title:       outcome.Title(),
		Description: outcome.Description(rec.Name),
		Fields:      names,
		Outcome:     outcome,
	})
}

// Export handles GET /api/v1/uploads/:id/export?format=csv|xlsx
func (h *UploadHandler) Export(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	format, err := export.ParseFormat(c.Query("format"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_FORMAT", "format must be csv or xlsx")
		return
	}

	rec, err := h.uploadService.Get(id)
	if err != nil {
		HandleError(c, err)
		return
	}
	report, err := h.uploadService.Confidence(id)
	if err != nil {
		HandleError(c, err)
		return
	}
	outcome, err := h.uploadService.Validation(id)
	if err != nil {
		HandleError(c, err)
		return
	}

	now := time.Now()
	doc := export.Document{Name: rec.Name, Report: *report, Validation: outcome, ExportedAt: now}

	var buf bytes.Buffer
	if format == export.FormatXLSX {
		err = export.WriteXLSX(&buf, doc)
	} else {
		err = export.WriteCSV(&buf, doc)
	}
	if err != nil {
		HandleError(c, err)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="`+export.BuildFilename(rec.Name, format, now)+`"`)
	c.Data(http.StatusOK, format.ContentType(), buf.Bytes())
}
