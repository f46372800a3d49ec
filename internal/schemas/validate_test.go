package schemas

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidate_SectionSchemas(t *testing.T) {
	tests := []struct {
		schema string
		valid  string
	}{
		{"basics", `{"basics": {"name": "Jane Doe", "email": "jane@example.com", "profiles": [{"network": "GitHub", "url": "https://github.com/jane"}]}}`},
		{"work", `{"work": [{"name": "Acme", "position": "Engineer", "highlights": ["Built things"]}]}`},
		{"education", `{"education": [{"institution": "MIT", "courses": []}]}`},
		{"skills", `{"skills": [{"name": "Languages", "keywords": ["Go", "Python"]}]}`},
		{"projects", `{"projects": [{"name": "scorer", "technologies": ["Go"], "url": null}]}`},
		{"awards", `{"awards": []}`},
	}

	for _, tt := range tests {
		t.Run(tt.schema, func(t *testing.T) {
			assert.NoError(t, Validate(tt.schema, []byte(tt.valid)))
		})
	}
}

func TestValidate_WrongShape(t *testing.T) {
	err := Validate("skills", []byte(`{"skills": ["Go", "Python"]}`))
	require.Error(t, err)

	var validationErr *ValidationError
	require.ErrorAs(t, err, &validationErr)
	assert.Equal(t, "skills", validationErr.Schema)
	require.NotEmpty(t, validationErr.Errors)
	assert.Equal(t, "skills.0", validationErr.Errors[0].Field)
	assert.Contains(t, validationErr.Summary(), "- skills.0:")
}

func TestValidate_MissingRequired(t *testing.T) {
	err := Validate("work", []byte(`{"jobs": []}`))
	require.Error(t, err)

	var validationErr *ValidationError
	require.ErrorAs(t, err, &validationErr)
	assert.Equal(t, "(root)", validationErr.Errors[0].Field)
	assert.Contains(t, validationErr.Errors[0].Message, "work")
}

func TestValidate_MalformedJSON(t *testing.T) {
	err := Validate("awards", []byte(`{"awards": [`))
	require.Error(t, err)

	var validationErr *ValidationError
	require.ErrorAs(t, err, &validationErr)
	assert.Contains(t, validationErr.Errors[0].Message, "invalid JSON")
}

func TestValidate_UnknownSchema(t *testing.T) {
	err := Validate("nope", []byte(`{}`))
	require.Error(t, err)

	var loadErr *SchemaLoadError
	require.ErrorAs(t, err, &loadErr)
	assert.Equal(t, "nope.schema.json", loadErr.Path)
}

func TestValidate_ScoreReportBounds(t *testing.T) {
	report := func(openSource, bonus string) []byte {
		return []byte(`{
			"scores": {
				"open_source": {"score": ` + openSource + `, "evidence": "x"},
				"self_projects": {"score": 10, "evidence": "x"},
				"production": {"score": 10, "evidence": "x"},
				"technical_skills": {"score": 5, "evidence": "x"}
			},
			"bonus_points": {"total": ` + bonus + `, "breakdown": ""},
			"deductions": {"total": 0, "reasons": ""}
		}`)
	}

	assert.NoError(t, Validate(ScoreReport, report("35", "20")))

	err := Validate(ScoreReport, report("36", "0"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "scores.open_source.score")

	err = Validate(ScoreReport, report("10", "21"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bonus_points.total")
}

func TestValidateJSONString_Valid(t *testing.T) {
	schema := `{"type": "object", "required": ["name"], "properties": {"name": {"type": "string"}}}`
	assert.NoError(t, ValidateJSONString(schema, `{"name": "test"}`))
}

func TestValidateJSONString_Invalid(t *testing.T) {
	schema := `{"type": "object", "required": ["name"], "properties": {"name": {"type": "string"}}}`
	err := ValidateJSONString(schema, `{"name": 123}`)
	require.Error(t, err)

	validationErr, ok := err.(*ValidationError)
	require.True(t, ok, "error should be ValidationError type")
	assert.Equal(t, "name", validationErr.Errors[0].Field)
}

func TestValidationError_Error(t *testing.T) {
	err := &ValidationError{
		Schema: "work",
		Errors: []FieldError{
			{Field: "work.0.name", Message: "Invalid type. Expected: string, given: integer"},
			{Field: "(root)", Message: "work is required"},
		},
	}

	msg := err.Error()
	assert.Contains(t, msg, "work validation failed")
	assert.Contains(t, msg, "1. work.0.name: Invalid type")
	assert.Contains(t, msg, "2. (root): work is required")
}

func TestLoad_Caches(t *testing.T) {
	s1, err := Load(ProjectSelection)
	require.NoError(t, err)
	s2, err := Load(ProjectSelection)
	require.NoError(t, err)
	assert.Same(t, s1, s2)
}
