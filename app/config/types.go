package config

// SourceConfig is one RSS source definition from the sources YAML file
type SourceConfig struct {
	Name               string `yaml:"name"`
	URL                string `yaml:"url"`
	Type               string `yaml:"type"`
	Active             *bool  `yaml:"active"`
	CheckIntervalHours int    `yaml:"check_interval_hours"`
}

// SourcesFile is the top-level structure of the sources YAML file
type SourcesFile struct {
	Sources []SourceConfig `yaml:"sources"`
}

// IsActive returns the activity flag, defaulting to true when omitted
func (s SourceConfig) IsActive() bool {
	if s.Active == nil {
		return true
	}
	return *s.Active
}
