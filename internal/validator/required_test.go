package validator_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"idpportal/internal/result"
	"idpportal/internal/validator"
)

func keys(fields []validator.RequiredField) []string {
	out := make([]string, 0, len(fields))
	for _, f := range fields {
		out = append(out, f.Key)
	}
	return out
}

func assertPartition(t *testing.T, o validator.Outcome) {
	t.Helper()
	all := append(keys(o.Found), keys(o.Missing)...)
	assert.ElementsMatch(t, keys(validator.RequiredFields), all)
	for _, f := range o.Found {
		assert.NotContains(t, keys(o.Missing), f.Key)
	}
	assert.Equal(t, len(o.Missing) == 0, o.IsValid)
}

func TestValidate_EmptyObject(t *testing.T) {
	o := validator.Validate(result.MustParse(`{}`))

	assert.False(t, o.IsValid)
	assert.Empty(t, o.Found)
	assert.Equal(t, []string{"employerName", "ein", "ssn", "employeeLastName"}, keys(o.Missing))
	assertPartition(t, o)
}

func TestValidate_OneFound(t *testing.T) {
	doc := result.MustParse(`{"inference_result": {"employer_info": {"employer_name": "Acme"}}}`)

	o := validator.Validate(doc)

	assert.False(t, o.IsValid)
	assert.Equal(t, []string{"employerName"}, keys(o.Found))
	assert.Equal(t, []string{"ein", "ssn", "employeeLastName"}, keys(o.Missing))
	assertPartition(t, o)
}

func TestValidate_AllFound(t *testing.T) {
	doc := result.MustParse(`{"inference_result": {
		"employer_info": {"employer_name": "Acme", "ein": "12-3456789"},
		"employee_general_info": {"ssn": "123-45-6789", "employee_last_name": "Doe"}
	}}`)

	o := validator.Validate(doc)

	assert.True(t, o.IsValid)
	assert.Empty(t, o.Missing)
	assert.Equal(t, keys(validator.RequiredFields), keys(o.Found))
	assert.Equal(t, "Required Information Found", o.Title())
	assert.Equal(t, o.Found, o.Listed())
	assertPartition(t, o)
}

func TestValidate_EmptyLikeValuesAreMissing(t *testing.T) {
	cases := map[string]string{
		"empty string":    `""`,
		"whitespace":      `"   "`,
		"byte order mark": `"\ufeff"`,
		"mixed blanks":    `" \u00a0\ufeff\t\u3000"`,
		"null":            `null`,
		"number zero":     `0`,
		"boolean":         `true`,
		"object":          `{"value": "Acme"}`,
		"array":           `["Acme"]`,
	}
	for name, raw := range cases {
		t.Run(name, func(t *testing.T) {
			doc := result.MustParse(`{"inference_result": {"employer_info": {"employer_name": ` + raw + `}}}`)
			o := validator.Validate(doc)
			assert.NotContains(t, keys(o.Found), "employerName")
			assertPartition(t, o)
		})
	}
}

func TestValidate_StringZeroIsFound(t *testing.T) {
	doc := result.MustParse(`{"inference_result": {"employer_info": {"employer_name": "0"}}}`)

	o := validator.Validate(doc)

	assert.Contains(t, keys(o.Found), "employerName")
}

func TestValidate_MalformedTreesNeverPanic(t *testing.T) {
	inputs := []string{
		`null`,
		`"text"`,
		`42`,
		`[]`,
		`{"inference_result": "flat"}`,
		`{"inference_result": [1, 2]}`,
		`{"inference_result": {"employer_info": null}}`,
		`{"inference_result": {"employer_info": 7, "employee_general_info": {"ssn": {}}}}`,
	}
	for _, in := range inputs {
		require.NotPanics(t, func() {
			o := validator.Validate(result.MustParse(in))
			assert.False(t, o.IsValid)
			assertPartition(t, o)
		}, in)
	}

	require.NotPanics(t, func() {
		o := validator.Validate(nil)
		assert.Len(t, o.Missing, len(validator.RequiredFields))
	})
}

func TestOutcome_BannerText(t *testing.T) {
	o := validator.Validate(result.MustParse(`{}`))

	assert.Equal(t, "Required Information Missing", o.Title())
	assert.Equal(t, "We were unable to find the following data elements in w2.pdf:", o.Description("w2.pdf"))
	assert.Equal(t, o.Missing, o.Listed())
	require.Len(t, o.Results, 4)
	assert.Equal(t, "EIN: inference_result.employer_info.ein is missing or empty", o.Results[1].Message)
}
