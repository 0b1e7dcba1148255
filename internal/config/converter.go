package config

import (
	"fmt"
)

// Built-in job defaults.
const (
	DefaultFillInput    = "dataset.csv"
	DefaultFillOutput   = "filled_dataset.csv"
	DefaultFillPreview  = 5
	DefaultSearchInput  = "filled_dataset.csv"
	DefaultSearchFormat = "markdown"
)

// Defaults returns the job used when no job file exists.
func Defaults() *Job {
	return &Job{
		Fill: FillJob{
			Input:   DefaultFillInput,
			Output:  DefaultFillOutput,
			Preview: DefaultFillPreview,
		},
		Search: SearchJob{
			Input:  DefaultSearchInput,
			Format: DefaultSearchFormat,
		},
	}
}

// ConvertToJob overlays a validated job document on the defaults.
//
// The document has this structure, every key optional:
//
//	fill:    {input, output, preview}
//	search:  {input, format, where, onError}
//	logging: {level, format}
func ConvertToJob(data map[string]interface{}) (*Job, error) {
	job := Defaults()
	if data == nil {
		return job, nil
	}

	if fill, ok, err := section(data, "fill"); err != nil {
		return nil, err
	} else if ok {
		if err := setString(fill, "input", "fill", &job.Fill.Input); err != nil {
			return nil, err
		}
		if err := setString(fill, "output", "fill", &job.Fill.Output); err != nil {
			return nil, err
		}
		if err := setInt(fill, "preview", "fill", &job.Fill.Preview); err != nil {
			return nil, err
		}
	}

	if search, ok, err := section(data, "search"); err != nil {
		return nil, err
	} else if ok {
		for key, dst := range map[string]*string{
			"input":   &job.Search.Input,
			"format":  &job.Search.Format,
			"where":   &job.Search.Where,
			"onError": &job.Search.OnError,
		} {
			if err := setString(search, key, "search", dst); err != nil {
				return nil, err
			}
		}
	}

	if logging, ok, err := section(data, "logging"); err != nil {
		return nil, err
	} else if ok {
		if err := setString(logging, "level", "logging", &job.Logging.Level); err != nil {
			return nil, err
		}
		if err := setString(logging, "format", "logging", &job.Logging.Format); err != nil {
			return nil, err
		}
	}

	return job, nil
}

func section(data map[string]interface{}, name string) (map[string]interface{}, bool, error) {
	raw, ok := data[name]
	if !ok || raw == nil {
		return nil, false, nil
	}
	m, ok := raw.(map[string]interface{})
	if !ok {
		return nil, false, fmt.Errorf("invalid '%s' section: expected object, got %T", name, raw)
	}
	return m, true, nil
}

func setString(m map[string]interface{}, key, sectionName string, dst *string) error {
	raw, ok := m[key]
	if !ok || raw == nil {
		return nil
	}
	s, ok := raw.(string)
	if !ok {
		return fmt.Errorf("invalid '%s.%s': expected string, got %T", sectionName, key, raw)
	}
	*dst = s
	return nil
}

// setInt accepts the integer representations produced by the JSON and
// YAML decoders.
func setInt(m map[string]interface{}, key, sectionName string, dst *int) error {
	raw, ok := m[key]
	if !ok || raw == nil {
		return nil
	}
	switch v := raw.(type) {
	case int:
		*dst = v
	case int64:
		*dst = int(v)
	case uint64:
		*dst = int(v)
	case float64:
		if v != float64(int(v)) {
			return fmt.Errorf("invalid '%s.%s': expected integer, got %v", sectionName, key, v)
		}
		*dst = int(v)
	default:
		return fmt.Errorf("invalid '%s.%s': expected integer, got %T", sectionName, key, raw)
	}
	return nil
}
