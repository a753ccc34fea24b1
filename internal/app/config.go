package app

import (
	"errors"
	"fmt"
	"strings"
)

// Config holds all the necessary configuration for an App instance to run.
type Config struct {
	ProjectPath string // dbt project root containing models/metadv
	Package     string // backend convention selector
	OutputPath  string // optional custom output directory

	ValidateOnly    bool
	RequireAllSlots bool // promote partially mapped relations to errors

	JSON    bool // machine-readable result output
	Verbose bool // include warnings in console output

	LogFormat string
	LogLevel  string
}

// NewConfig validates a Config and returns it. The package selector itself
// is checked later by the render package; here only presence matters.
func NewConfig(cfg Config) (*Config, error) {
	if cfg.ProjectPath == "" {
		return nil, errors.New("ProjectPath is a required configuration field and cannot be empty")
	}
	if strings.TrimSpace(cfg.Package) == "" {
		return nil, fmt.Errorf("Package is a required configuration field and cannot be empty")
	}
	return &cfg, nil
}
