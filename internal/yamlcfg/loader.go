package yamlcfg

import (
	"context"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/metadv/metadv/internal/config"
	"github.com/metadv/metadv/internal/ctxlog"
)

// document mirrors the top-level file layout: the whole declaration lives
// under a single "metadv" key.
type document struct {
	Metadv *config.Document `yaml:"metadv"`
}

// Loader reads a metadv YAML declaration into the agnostic config model.
type Loader struct{}

// NewLoader creates a new YAML loader.
func NewLoader() *Loader {
	return &Loader{}
}

// Load implements config.Loader.
func (l *Loader) Load(ctx context.Context, path string) (*config.Document, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Loading YAML declaration.", "path", path)

	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read '%s': %w", path, err)
	}

	var doc document
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("%w: failed to parse '%s': %v", config.ErrMalformedConfig, path, err)
	}
	if doc.Metadv == nil {
		return nil, fmt.Errorf("%w: '%s' has no top-level 'metadv' section", config.ErrMalformedConfig, path)
	}

	if err := doc.Metadv.CheckShape(); err != nil {
		return nil, err
	}

	logger.Debug("YAML declaration loaded.",
		"targets", len(doc.Metadv.Targets),
		"sources", len(doc.Metadv.Sources),
	)
	return doc.Metadv, nil
}
