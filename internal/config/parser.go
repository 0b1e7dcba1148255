package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Supported job file formats.
const (
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// ParseFile reads a job file and decodes it. The format comes from the file
// extension, falling back to content sniffing for other names.
func ParseFile(path string) *ParseResult {
	result := &ParseResult{FilePath: path}

	content, err := os.ReadFile(path)
	if err != nil {
		result.Errors = append(result.Errors, ParseError{
			Path:    path,
			Message: fmt.Sprintf("failed to read file: %v", err),
			Type:    ErrorTypeIO,
		})
		return result
	}

	format := DetectFormat(path)
	if format == "" {
		format = sniffFormat(string(content))
	}

	var parsed *ParseResult
	switch format {
	case FormatJSON:
		parsed = ParseJSONString(string(content))
	case FormatYAML:
		parsed = ParseYAMLString(string(content))
	default:
		result.Errors = append(result.Errors, ParseError{
			Path:    path,
			Message: "unable to detect configuration format: not valid JSON or YAML",
			Type:    ErrorTypeFormat,
		})
		return result
	}

	result.Data = parsed.Data
	result.Format = parsed.Format
	result.Errors = parsed.Errors
	for i := range result.Errors {
		if result.Errors[i].Path == "" {
			result.Errors[i].Path = path
		}
	}
	return result
}

// ParseJSONString parses JSON job content.
func ParseJSONString(content string) *ParseResult {
	result := &ParseResult{Format: FormatJSON}

	content = strings.TrimSpace(content)
	if content == "" {
		result.Errors = append(result.Errors, ParseError{
			Message: "empty content: expected JSON object",
			Type:    ErrorTypeSyntax,
		})
		return result
	}

	var data interface{}
	if err := json.Unmarshal([]byte(content), &data); err != nil {
		result.Errors = append(result.Errors, parseJSONError(err, content))
		return result
	}
	return setData(result, data, "JSON object")
}

// ParseYAMLString parses YAML job content.
func ParseYAMLString(content string) *ParseResult {
	result := &ParseResult{Format: FormatYAML}

	if strings.TrimSpace(content) == "" {
		result.Errors = append(result.Errors, ParseError{
			Message: "empty content: expected YAML document",
			Type:    ErrorTypeSyntax,
		})
		return result
	}

	var data interface{}
	if err := yaml.Unmarshal([]byte(content), &data); err != nil {
		result.Errors = append(result.Errors, parseYAMLError(err))
		return result
	}
	return setData(result, data, "YAML mapping")
}

// setData stores a decoded document, which must be an object. A null
// document (comments only) leaves Data nil.
func setData(result *ParseResult, data interface{}, want string) *ParseResult {
	if data == nil {
		return result
	}
	dataMap, ok := data.(map[string]interface{})
	if !ok {
		result.Errors = append(result.Errors, ParseError{
			Message: fmt.Sprintf("invalid configuration: expected %s, got %T", want, data),
			Type:    ErrorTypeFormat,
		})
		return result
	}
	result.Data = dataMap
	return result
}

// parseJSONError extracts location information from a JSON decoding error.
func parseJSONError(err error, content string) ParseError {
	parseErr := ParseError{
		Message: err.Error(),
		Type:    ErrorTypeSyntax,
	}

	var syntaxErr *json.SyntaxError
	if errors.As(err, &syntaxErr) {
		parseErr.Offset = syntaxErr.Offset
		parseErr.Line, parseErr.Column = offsetToLineColumn(content, syntaxErr.Offset)
		parseErr.Message = fmt.Sprintf("JSON syntax error at offset %d: %s", syntaxErr.Offset, syntaxErr.Error())
	}
	return parseErr
}

// parseYAMLError extracts location information from a YAML decoding error.
// yaml.v3 reports it as "yaml: line N: ...".
func parseYAMLError(err error) ParseError {
	parseErr := ParseError{
		Message: err.Error(),
		Type:    ErrorTypeSyntax,
	}

	var typeErr *yaml.TypeError
	if errors.As(err, &typeErr) {
		parseErr.Message = fmt.Sprintf("YAML type error: %s", strings.Join(typeErr.Errors, "; "))
	}

	var line int
	if _, scanErr := fmt.Sscanf(err.Error(), "yaml: line %d:", &line); scanErr == nil {
		parseErr.Line = line
	}
	return parseErr
}

// offsetToLineColumn converts a byte offset to line and column numbers (1-based).
func offsetToLineColumn(content string, offset int64) (line, column int) {
	line, column = 1, 1
	for i := int64(0); i < offset && i < int64(len(content)); i++ {
		if content[i] == '\n' {
			line++
			column = 1
		} else {
			column++
		}
	}
	return line, column
}

// DetectFormat detects the job file format from its extension.
// Returns "json", "yaml", or empty string if it cannot tell.
func DetectFormat(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return ""
	}
}

// sniffFormat guesses the format of extensionless content. JSON is also
// valid YAML, so JSON is tried first.
func sniffFormat(content string) string {
	trimmed := strings.TrimSpace(content)
	if trimmed == "" {
		return ""
	}
	if strings.HasPrefix(trimmed, "{") {
		return FormatJSON
	}
	var data interface{}
	if err := yaml.Unmarshal([]byte(trimmed), &data); err == nil {
		return FormatYAML
	}
	return ""
}
