// Package validator checks a processing result for the fixed set of fields
// a usable document must carry.
package validator

import (
	"fmt"
	"strings"
	"unicode"

	"idpportal/internal/result"
)

// RequiredField is one entry of the required-field schema.
type RequiredField struct {
	Key         string   `json:"key"`
	DisplayName string   `json:"display_name"`
	Path        []string `json:"path"`
}

// FieldPath joins the path with dots.
func (f RequiredField) FieldPath() string {
	return strings.Join(f.Path, ".")
}

// RequiredFields is the static schema, in display order.
var RequiredFields = []RequiredField{
	{
		Key:         "employerName",
		DisplayName: "Employer Name",
		Path:        []string{"inference_result", "employer_info", "employer_name"},
	},
	{
		Key:         "ein",
		DisplayName: "EIN",
		Path:        []string{"inference_result", "employer_info", "ein"},
	},
	{
		Key:         "ssn",
		DisplayName: "SSN",
		Path:        []string{"inference_result", "employee_general_info", "ssn"},
	},
	{
		Key:         "employeeLastName",
		DisplayName: "Employee Last Name",
		Path:        []string{"inference_result", "employee_general_info", "employee_last_name"},
	},
}

// FieldResult is the outcome for a single required field.
type FieldResult struct {
	Field   RequiredField `json:"field"`
	Passed  bool          `json:"passed"`
	Message string        `json:"message"`
}

// Outcome partitions the required fields into found and missing.
type Outcome struct {
	IsValid bool            `json:"is_valid"`
	Found   []RequiredField `json:"found_fields"`
	Missing []RequiredField `json:"missing_fields"`
	Results []FieldResult   `json:"results"`
}

// Validate checks doc against RequiredFields.
func Validate(doc *result.Node) Outcome {
	return ValidateFields(doc, RequiredFields)
}

// ValidateFields checks doc against fields. A field is found only when the
// value at its path is a string that is non-empty after trimming; anything
// else, including absent paths and wrong intermediate types, is missing.
func ValidateFields(doc *result.Node, fields []RequiredField) Outcome {
	out := Outcome{
		Found:   []RequiredField{},
		Missing: []RequiredField{},
		Results: make([]FieldResult, 0, len(fields)),
	}
	for _, f := range fields {
		passed := isPresent(doc, f.Path)
		if passed {
			out.Found = append(out.Found, f)
		} else {
			out.Missing = append(out.Missing, f)
		}
		out.Results = append(out.Results, FieldResult{
			Field:   f,
			Passed:  passed,
			Message: fieldMessage(passed, f),
		})
	}
	out.IsValid = len(out.Missing) == 0
	return out
}

func isPresent(doc *result.Node, path []string) bool {
	v, ok := doc.Lookup(path...)
	if !ok {
		return false
	}
	s, ok := v.Str()
	return ok && strings.TrimFunc(s, isTrimmable) != ""
}

// isTrimmable matches Unicode white space and the byte order mark.
func isTrimmable(r rune) bool {
	return unicode.IsSpace(r) || r == '\ufeff'
}

func fieldMessage(passed bool, f RequiredField) string {
	if passed {
		return fmt.Sprintf("%s: %s is present", f.DisplayName, f.FieldPath())
	}
	return fmt.Sprintf("%s: %s is missing or empty", f.DisplayName, f.FieldPath())
}

// Title is the banner heading for the outcome.
func (o Outcome) Title() string {
	if o.IsValid {
		return "Required Information Found"
	}
	return "Required Information Missing"
}

// Description is the banner sentence for fileName.
func (o Outcome) Description(fileName string) string {
	if o.IsValid {
		return fmt.Sprintf("We successfully found the following data elements in %s:", fileName)
	}
	return fmt.Sprintf("We were unable to find the following data elements in %s:", fileName)
}

// Listed returns the fields shown under the banner: found when valid, missing otherwise.
func (o Outcome) Listed() []RequiredField {
	if o.IsValid {
		return o.Found
	}
	return o.Missing
}
