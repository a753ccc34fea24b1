package render

import (
	"context"
	"errors"
	"fmt"
	"path"
	"strings"

	"github.com/metadv/metadv/internal/ctxlog"
	"github.com/metadv/metadv/internal/resolve"
	"github.com/metadv/metadv/internal/stage"
)

// ErrUnsupportedPackage marks an unknown backend convention selector.
var ErrUnsupportedPackage = errors.New("unsupported package")

// Artifact is one rendered output file: a path relative to the output
// directory plus its full text.
type Artifact struct {
	Path string
	Text string
}

// Convention maps resolved models onto the macro-call style of one Data
// Vault package. Implementations know parameter names and template text,
// never SQL semantics.
type Convention interface {
	// PackageName is the selector identifier this convention answers to.
	PackageName() string

	Stage(spec *stage.Spec) (string, error)
	Hub(entity *resolve.Entity) (string, error)
	Link(relation *resolve.Relation) (string, error)
	Satellite(sat *resolve.Satellite, source string) (string, error)
	MultiactiveSatellite(sat *resolve.Satellite, source string) (string, error)
}

// ConventionFor returns the convention registered under the given package
// identifier.
func ConventionFor(packageName string) (Convention, error) {
	switch strings.ToLower(packageName) {
	case "datavault-uk/automate_dv":
		return newAutomateDV(), nil
	case "scalefreecom/datavault4dbt":
		return newDatavault4DBT(), nil
	default:
		return nil, fmt.Errorf("%w: '%s' (supported: datavault-uk/automate_dv, scalefreecom/datavault4dbt)", ErrUnsupportedPackage, packageName)
	}
}

// Render turns the resolved model and stage specs into the full artifact
// set, in deterministic order: stages, hubs, links, satellites. Nothing is
// written here; a failing render leaves no partial output behind.
func Render(ctx context.Context, model *resolve.Model, specs []*stage.Spec, conv Convention) ([]Artifact, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Rendering started.", "package", conv.PackageName())

	var artifacts []Artifact

	for _, spec := range specs {
		text, err := conv.Stage(spec)
		if err != nil {
			return nil, fmt.Errorf("failed to render stage model for source '%s': %w", spec.Source, err)
		}
		artifacts = append(artifacts, Artifact{
			Path: path.Join("stage", "stg_"+spec.Source+".sql"),
			Text: text,
		})
	}

	for _, entity := range model.Entities {
		if len(entity.HashKeyColumns) == 0 {
			continue
		}
		text, err := conv.Hub(entity)
		if err != nil {
			return nil, fmt.Errorf("failed to render hub for entity '%s': %w", entity.Name, err)
		}
		artifacts = append(artifacts, Artifact{
			Path: path.Join("hub", "hub_"+entity.Name+".sql"),
			Text: text,
		})
	}

	for _, relation := range model.Relations {
		if len(relation.HashKeyColumns) == 0 {
			continue
		}
		text, err := conv.Link(relation)
		if err != nil {
			return nil, fmt.Errorf("failed to render link for relation '%s': %w", relation.Name, err)
		}
		artifacts = append(artifacts, Artifact{
			Path: path.Join("link", "link_"+strings.Join(relation.Entities, "_")+".sql"),
			Text: text,
		})
	}

	for _, sat := range model.Satellites {
		for _, source := range sat.Sources {
			artifact, err := renderSatellite(sat, source, conv)
			if err != nil {
				return nil, err
			}
			artifacts = append(artifacts, artifact)
		}
	}

	logger.Debug("Rendering finished.", "artifacts", len(artifacts))
	return artifacts, nil
}

func renderSatellite(sat *resolve.Satellite, source string, conv Convention) (Artifact, error) {
	if sat.Multiactive {
		text, err := conv.MultiactiveSatellite(sat, source)
		if err != nil {
			return Artifact{}, fmt.Errorf("failed to render multiactive satellite for target '%s' from source '%s': %w", sat.Target, source, err)
		}
		return Artifact{
			Path: path.Join("sat", "ma_sat_"+sat.Target+"__"+source+".sql"),
			Text: text,
		}, nil
	}

	text, err := conv.Satellite(sat, source)
	if err != nil {
		return Artifact{}, fmt.Errorf("failed to render satellite for target '%s' from source '%s': %w", sat.Target, source, err)
	}
	return Artifact{
		Path: path.Join("sat", "sat_"+sat.Target+"__"+source+".sql"),
		Text: text,
	}, nil
}

// OutputFolders are the subdirectories the artifact set is organized into.
var OutputFolders = []string{"stage", "hub", "link", "sat"}
