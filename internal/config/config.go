// Package config provides functionality for parsing and validating
// job configuration files (JSON/YAML).
package config

import (
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/adrg/xdg"

	"github.com/estatekit/runtime/internal/errhandling"
	"github.com/estatekit/runtime/internal/logger"
)

// AppName names the per-user configuration directory.
const AppName = "estatekit"

// DefaultFileName is the job file looked up in the configuration directory.
const DefaultFileName = "config.yaml"

// ErrInvalidConfig is returned when a job file fails parsing or validation.
var ErrInvalidConfig = errors.New("invalid job configuration")

// DefaultPath returns $XDG_CONFIG_HOME/estatekit/config.yaml.
func DefaultPath() string {
	return filepath.Join(xdg.ConfigHome, AppName, DefaultFileName)
}

// ParseConfig decodes and validates a job file.
func ParseConfig(path string) *Result {
	parsed := ParseFile(path)
	result := &Result{
		Data:        parsed.Data,
		ParseErrors: parsed.Errors,
		FilePath:    path,
		Format:      parsed.Format,
	}
	if !parsed.IsValid() {
		return result
	}
	// A document holding only comments configures nothing.
	if result.Data == nil {
		result.Data = map[string]interface{}{}
	}
	result.ValidationErrors = ValidateConfig(result.Data).Errors
	return result
}

// Load returns the job configuration. An explicit path must exist. With
// no path the default location is tried, and built-in defaults are used
// when nothing is there. The returned Result is non-nil whenever a file
// was read, so callers can report its errors in detail.
func Load(path string) (*Job, *Result, error) {
	explicit := path != ""
	if !explicit {
		path = DefaultPath()
		if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
			logger.Debug("no job file found; using defaults", slog.String("path", path))
			return Defaults(), nil, nil
		}
	}

	result := ParseConfig(path)
	if !result.IsValid() {
		if len(result.ParseErrors) > 0 && result.ParseErrors[0].Type == ErrorTypeIO {
			return nil, result, errhandling.NewIOError(result.ParseErrors[0].Message, nil)
		}
		return nil, result, errhandling.NewConfigError(path, ErrInvalidConfig)
	}

	job, err := ConvertToJob(result.Data)
	if err != nil {
		return nil, result, errhandling.NewConfigError(path, err)
	}
	job.Source = path

	logger.Debug("job file loaded",
		slog.String("path", path),
		slog.String("format", result.Format),
	)
	return job, result, nil
}
