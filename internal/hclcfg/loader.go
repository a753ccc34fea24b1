package hclcfg

import (
	"context"
	"fmt"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"

	"github.com/metadv/metadv/internal/config"
	"github.com/metadv/metadv/internal/ctxlog"
)

// Loader reads a metadv HCL declaration into the agnostic config model.
type Loader struct {
	parser *hclparse.Parser
}

// NewLoader creates a new HCL loader.
func NewLoader() *Loader {
	return &Loader{parser: hclparse.NewParser()}
}

// Load implements config.Loader.
func (l *Loader) Load(ctx context.Context, path string) (*config.Document, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Loading HCL declaration.", "path", path)

	file, diags := l.parser.ParseHCLFile(path)
	if diags.HasErrors() {
		return nil, fmt.Errorf("%w: failed to parse '%s': %s", config.ErrMalformedConfig, path, diags.Error())
	}

	var doc documentSchema
	if diags := gohcl.DecodeBody(file.Body, nil, &doc); diags.HasErrors() {
		return nil, fmt.Errorf("%w: failed to decode '%s': %s", config.ErrMalformedConfig, path, diags.Error())
	}

	translated := translateDocument(&doc)
	if err := translated.CheckShape(); err != nil {
		return nil, err
	}

	logger.Debug("HCL declaration loaded.",
		"targets", len(translated.Targets),
		"sources", len(translated.Sources),
	)
	return translated, nil
}

// translateDocument converts the HCL-specific schema into the agnostic model.
func translateDocument(doc *documentSchema) *config.Document {
	out := &config.Document{}
	for _, t := range doc.Targets {
		out.Targets = append(out.Targets, &config.Target{
			Name:        t.Name,
			Type:        t.Type,
			Description: t.Description,
			Entities:    t.Entities,
		})
	}
	for _, s := range doc.Sources {
		source := &config.Source{Name: s.Name}
		for _, c := range s.Columns {
			column := &config.Column{Name: c.Name}
			for _, conn := range c.Connections {
				column.Target = append(column.Target, &config.Connection{
					TargetName:      conn.TargetName,
					EntityName:      conn.EntityName,
					EntityIndex:     conn.EntityIndex,
					AttributeOf:     conn.AttributeOf,
					TargetAttribute: conn.TargetAttribute,
					MultiactiveKey:  conn.MultiactiveKey,
				})
			}
			source.Columns = append(source.Columns, column)
		}
		out.Sources = append(out.Sources, source)
	}
	return out
}
