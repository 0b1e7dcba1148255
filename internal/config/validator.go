package config

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

//go:embed schema/job-schema.json
var embeddedSchema []byte

const schemaURL = "https://estatekit.dev/schemas/job/v1/job-schema.json"

var printer = message.NewPrinter(language.English)

var (
	schemaOnce     sync.Once
	compiledSchema *jsonschema.Schema
	schemaInitErr  error
)

// GetEmbeddedSchema returns the embedded job schema.
func GetEmbeddedSchema() []byte {
	return embeddedSchema
}

// getCompiledSchema returns the compiled JSON schema, compiling it on first use.
func getCompiledSchema() (*jsonschema.Schema, error) {
	schemaOnce.Do(func() {
		schemaDoc, err := jsonschema.UnmarshalJSON(bytes.NewReader(embeddedSchema))
		if err != nil {
			schemaInitErr = fmt.Errorf("failed to parse embedded schema: %w", err)
			return
		}

		compiler := jsonschema.NewCompiler()
		if err := compiler.AddResource(schemaURL, schemaDoc); err != nil {
			schemaInitErr = fmt.Errorf("failed to add schema resource: %w", err)
			return
		}
		compiledSchema, err = compiler.Compile(schemaURL)
		if err != nil {
			schemaInitErr = fmt.Errorf("failed to compile schema: %w", err)
		}
	})

	if schemaInitErr != nil {
		return nil, schemaInitErr
	}
	return compiledSchema, nil
}

// ValidateConfig validates a decoded job document against the job schema.
// The document is normalised through JSON first so YAML and JSON input
// validate identically.
func ValidateConfig(data map[string]interface{}) *ValidationResult {
	result := &ValidationResult{Valid: true}

	if data == nil {
		result.Valid = false
		result.Errors = append(result.Errors, ValidationError{
			Path:    "/",
			Type:    "required",
			Message: "configuration data is nil",
		})
		return result
	}

	schema, err := getCompiledSchema()
	if err != nil {
		result.Valid = false
		result.Errors = append(result.Errors, ValidationError{
			Path:    "/",
			Type:    "schema",
			Message: fmt.Sprintf("failed to load schema: %v", err),
		})
		return result
	}

	instance, err := normalize(data)
	if err != nil {
		result.Valid = false
		result.Errors = append(result.Errors, ValidationError{
			Path:    "/",
			Type:    "type",
			Message: fmt.Sprintf("configuration is not representable as JSON: %v", err),
		})
		return result
	}

	if validationErr := schema.Validate(instance); validationErr != nil {
		result.Valid = false
		var detailedErr *jsonschema.ValidationError
		if errors.As(validationErr, &detailedErr) {
			result.Errors = convertValidationErrors(detailedErr)
		}
		if len(result.Errors) == 0 {
			result.Errors = append(result.Errors, ValidationError{
				Path:    "/",
				Type:    "validation",
				Message: validationErr.Error(),
			})
		}
	}

	return result
}

// normalize round-trips data through encoding/json into the value model
// the validator expects.
func normalize(data map[string]interface{}) (interface{}, error) {
	raw, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}
	return jsonschema.UnmarshalJSON(bytes.NewReader(raw))
}

// convertValidationErrors flattens a jsonschema error tree into leaf errors.
func convertValidationErrors(err *jsonschema.ValidationError) []ValidationError {
	if len(err.Causes) == 0 {
		return []ValidationError{{
			Path:    formatInstanceLocation(err.InstanceLocation),
			Type:    extractErrorType(err),
			Message: leafMessage(err),
		}}
	}

	var out []ValidationError
	for _, cause := range err.Causes {
		out = append(out, convertValidationErrors(cause)...)
	}
	return out
}

// leafMessage returns the message of a single error without the location
// prefix jsonschema adds to Error().
func leafMessage(err *jsonschema.ValidationError) string {
	if err.ErrorKind != nil {
		return err.ErrorKind.LocalizedString(printer)
	}
	return err.Error()
}

// formatInstanceLocation formats the instance location as a JSON pointer.
func formatInstanceLocation(loc []string) string {
	if len(loc) == 0 {
		return "/"
	}
	return "/" + strings.Join(loc, "/")
}

// extractErrorType maps a validation error to a simplified keyword family.
func extractErrorType(err *jsonschema.ValidationError) string {
	msg := strings.ToLower(leafMessage(err))

	switch {
	case strings.Contains(msg, "additional properties"):
		return "additionalProperties"
	case strings.Contains(msg, "missing propert"):
		return "required"
	case strings.Contains(msg, "value must be one of"):
		return "enum"
	case strings.Contains(msg, "minimum") || strings.Contains(msg, "maximum") ||
		strings.Contains(msg, "must be >=") || strings.Contains(msg, "must be <="):
		return "range"
	case strings.Contains(msg, "minlength") || strings.Contains(msg, "length must be"):
		return "length"
	case strings.Contains(msg, "got ") && strings.Contains(msg, "want "):
		return "type"
	default:
		return "validation"
	}
}
