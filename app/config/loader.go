package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Loader handles loading and validation of source definitions
type Loader struct {
	path string
}

// NewLoader creates a new source configuration loader
func NewLoader(path string) *Loader {
	return &Loader{path: path}
}

// Load reads and validates the sources YAML file. A missing file is not an
// error; sources may have been registered by a previous run.
func (l *Loader) Load() ([]SourceConfig, error) {
	data, err := os.ReadFile(l.path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read sources file: %w", err)
	}

	var file SourcesFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse sources file: %w", err)
	}

	for i := range file.Sources {
		if err := l.validate(&file.Sources[i]); err != nil {
			return nil, fmt.Errorf("invalid source %d in %s: %w", i+1, l.path, err)
		}
	}

	return file.Sources, nil
}

func (l *Loader) validate(source *SourceConfig) error {
	if source.Name == "" {
		return fmt.Errorf("missing name")
	}
	if source.URL == "" {
		return fmt.Errorf("missing url")
	}
	if source.Type == "" {
		source.Type = "rss"
	}
	if source.CheckIntervalHours <= 0 {
		source.CheckIntervalHours = 1
	}

	return nil
}
