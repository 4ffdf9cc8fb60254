package export

import (
	"bytes"
	"encoding/csv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"idpportal/internal/confidence"
	"idpportal/internal/result"
	"idpportal/internal/validator"
)

func sampleDocument(t *testing.T) Document {
	t.Helper()
	doc := result.MustParse(`{
		"inference_result": {"employer_info": {"employer_name": "Acme, Inc."}},
		"explainability_info": {
			"employer_info": {"employer_name": {"value": "Acme, Inc.", "confidence": 0.97}},
			"wages": {"value": 1234.50, "confidence": 0.55},
			"ssn": {"value": null, "confidence": 0.1}
		}
	}`)
	outcome := validator.Validate(doc)
	return Document{
		Name:       "w2.pdf",
		Report:     confidence.Analyze(confidence.ExplainabilityRoot(doc)),
		Validation: &outcome,
		ExportedAt: time.Date(2026, 2, 3, 4, 5, 6, 0, time.UTC),
	}
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, sampleDocument(t)))

	require.True(t, bytes.HasPrefix(buf.Bytes(), BOM))
	rows, err := csv.NewReader(bytes.NewReader(buf.Bytes()[len(BOM):])).ReadAll()
	require.NoError(t, err)

	require.Len(t, rows, 4)
	assert.Equal(t, columns, rows[0])
	assert.Equal(t, []string{"employer_info employer_name", "Acme, Inc.", "0.9700", "97%", "High"}, rows[1])
	assert.Equal(t, []string{"wages", "1234.50", "0.5500", "55%", "Low"}, rows[2])
	assert.Equal(t, "", rows[3][1])
}

func TestWriteCSV_EmptyReport(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, Document{Name: "x.pdf"}))

	rows, err := csv.NewReader(bytes.NewReader(buf.Bytes()[len(BOM):])).ReadAll()
	require.NoError(t, err)
	assert.Len(t, rows, 1)
}

func TestWriteXLSX(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteXLSX(&buf, sampleDocument(t)))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer func() { _ = f.Close() }()

	assert.Equal(t, []string{"Confidence", "Summary", "Validation"}, f.GetSheetList())

	rows, err := f.GetRows("Confidence")
	require.NoError(t, err)
	require.Len(t, rows, 4)
	assert.Equal(t, "Field", rows[0][0])
	assert.Equal(t, "Acme, Inc.", rows[1][1])

	summary, err := f.GetRows("Summary")
	require.NoError(t, err)
	assert.Equal(t, []string{"Document", "w2.pdf"}, summary[0])
	assert.Equal(t, []string{"Exported At", "2026-02-03T04:05:06Z"}, summary[1])
	assert.Equal(t, []string{"Overall", "Low"}, summary[2])
	assert.Equal(t, []string{"Fields", "3"}, summary[3])

	validation, err := f.GetRows("Validation")
	require.NoError(t, err)
	require.Len(t, validation, 5)
	assert.Equal(t, []string{"Employer Name", "inference_result.employer_info.employer_name", "Found"}, validation[1])
	assert.Equal(t, "Missing", validation[2][2])
}

func TestWriteXLSX_WithoutValidation(t *testing.T) {
	doc := sampleDocument(t)
	doc.Validation = nil

	var buf bytes.Buffer
	require.NoError(t, WriteXLSX(&buf, doc))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer func() { _ = f.Close() }()
	assert.Equal(t, []string{"Confidence", "Summary"}, f.GetSheetList())
}

func TestParseFormat(t *testing.T) {
	f, err := ParseFormat("")
	require.NoError(t, err)
	assert.Equal(t, FormatCSV, f)

	f, err = ParseFormat("XLSX")
	require.NoError(t, err)
	assert.Equal(t, FormatXLSX, f)

	_, err = ParseFormat("pdf")
	assert.Error(t, err)
}

func TestBuildFilename(t *testing.T) {
	now := time.Date(2026, 7, 4, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, "my_W-2_2025_confidence_2026-07-04.xlsx", BuildFilename("my W-2 (2025).pdf", FormatXLSX, now))
	assert.Equal(t, "document_confidence_2026-07-04.csv", BuildFilename("???", FormatCSV, now))
}

func TestSanitizeFilename(t *testing.T) {
	assert.Equal(t, "a_b_c", SanitizeFilename("a  b//c"))
	assert.Len(t, SanitizeFilename(string(bytes.Repeat([]byte("x"), 150))), 100)
}

func TestValueText(t *testing.T) {
	assert.Equal(t, "", valueText(nil))
	assert.Equal(t, "", valueText(result.Null()))
	assert.Equal(t, "Acme", valueText(result.String("Acme")))
	assert.Equal(t, "68450.12", valueText(result.MustParse(`68450.12`)))
	assert.Equal(t, "W-2; 1099; 3", valueText(result.MustParse(`["W-2", "1099", 3]`)))
	assert.Equal(t, `{"a":1}`, valueText(result.MustParse(`{"a":1}`)))
}
