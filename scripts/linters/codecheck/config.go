package main

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config controls which rules run and which paths are skipped.
type Config struct {
	ExcludePaths      []string `yaml:"exclude_paths"`
	ForbiddenPatterns []string `yaml:"forbidden_patterns"`
	CheckUnused       bool     `yaml:"check_unused"`
	ExitOnUnused      bool     `yaml:"exit_on_unused"`
	ExitOnViolations  bool     `yaml:"exit_on_violations"`
	Verbose           bool     `yaml:"verbose"`
}

func defaultConfig() *Config {
	return &Config{
		// pkg/errors cannot build codes out of itself, and the client wire
		// layer wraps with go-faster/errors instead
		ExcludePaths:      []string{"_examples/", "scripts/", "pkg/errors/", "client/protocols/", "vendor/", ".git/"},
		ForbiddenPatterns: []string{`fmt\.Errorf`, `errors\.Wrap\(`, `errors\.Errorf\(`},
		CheckUnused:       true,
		ExitOnViolations:  true,
	}
}

// loadConfig reads configPath over the defaults. A missing file is not an error.
func loadConfig(configPath string) (*Config, error) {
	config := defaultConfig()
	if configPath == "" {
		return config, nil
	}

	data, err := os.ReadFile(configPath)
	if os.IsNotExist(err) {
		return config, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	return config, nil
}
