package main

import (
	_ "embed"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Embedded configuration files
//
//go:embed config/settings.yaml
var defaultSettings string

//go:embed config/search-prompt.md
var searchPromptTemplate string

// SearchSettings configures the web-search provider calls
type SearchSettings struct {
	Model     string `yaml:"model"`
	MaxTokens int    `yaml:"max_tokens"`
}

// DigestSettings configures the optional run digest
type DigestSettings struct {
	Enabled   bool   `yaml:"enabled"`
	Model     string `yaml:"model"`
	MaxTokens int    `yaml:"max_tokens"`
}

// Settings represents the YAML configuration structure
type Settings struct {
	ArchiveDirectory  string         `yaml:"archive_directory"`
	SummaryPath       string         `yaml:"summary_path"`
	QueryDelaySeconds int            `yaml:"query_delay_seconds"`
	Search            SearchSettings `yaml:"search"`
	Digest            DigestSettings `yaml:"digest"`
	Queries           []string       `yaml:"queries"`
}

// Delay returns the enforced pause between provider calls
func (s *Settings) Delay() time.Duration {
	return time.Duration(s.QueryDelaySeconds) * time.Second
}

// loadSettings starts from the embedded defaults and, when a path is given,
// overlays the file on top. Keys missing from the file keep their defaults.
func loadSettings(path string) (*Settings, error) {
	var settings Settings
	if err := yaml.Unmarshal([]byte(defaultSettings), &settings); err != nil {
		return nil, fmt.Errorf("parsing embedded settings: %w", err)
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading settings file %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, &settings); err != nil {
			return nil, fmt.Errorf("parsing settings YAML: %w", err)
		}
	}

	if err := validateSettings(&settings); err != nil {
		return nil, err
	}

	return &settings, nil
}

func validateSettings(settings *Settings) error {
	if len(settings.Queries) == 0 {
		return fmt.Errorf("settings must define at least one query")
	}
	if settings.QueryDelaySeconds < 0 {
		return fmt.Errorf("query_delay_seconds must not be negative")
	}
	if settings.ArchiveDirectory == "" {
		return fmt.Errorf("archive_directory must not be empty")
	}
	if settings.SummaryPath == "" {
		return fmt.Errorf("summary_path must not be empty")
	}
	if settings.Search.Model == "" {
		return fmt.Errorf("search.model must not be empty")
	}
	if settings.Search.MaxTokens <= 0 {
		return fmt.Errorf("search.max_tokens must be positive")
	}
	return nil
}
