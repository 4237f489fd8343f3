// Package schemas provides JSON Schema validation for LLM-produced
// structured payloads before they are merged into tool results.
package schemas

import (
	_ "embed"
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

//go:embed gap_analysis.schema.json
var gapAnalysisSchema string

// ValidationError reports which fields of a payload failed schema
// validation.
type ValidationError struct {
	Errors []FieldError
}

// FieldError is a single validation failure at a specific field.
type FieldError struct {
	Field   string
	Message string
}

func (ve *ValidationError) Error() string {
	var sb strings.Builder
	sb.WriteString("schema validation failed:")
	for _, fe := range ve.Errors {
		sb.WriteString(fmt.Sprintf(" %s: %s;", fe.Field, fe.Message))
	}
	return strings.TrimSuffix(sb.String(), ";")
}

// ValidateGapAnalysis checks a gap-analysis JSON payload against the
// embedded schema. A nil return means the payload is safe to decode.
func ValidateGapAnalysis(payload string) error {
	return validate(gapAnalysisSchema, payload)
}

func validate(schema, payload string) error {
	result, err := gojsonschema.Validate(
		gojsonschema.NewStringLoader(schema),
		gojsonschema.NewStringLoader(payload),
	)
	if err != nil {
		return fmt.Errorf("failed to run schema validation: %w", err)
	}

	if result.Valid() {
		return nil
	}

	ve := &ValidationError{}
	for _, desc := range result.Errors() {
		ve.Errors = append(ve.Errors, FieldError{
			Field:   desc.Field(),
			Message: desc.Description(),
		})
	}
	return ve
}
