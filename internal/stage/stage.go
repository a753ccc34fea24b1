package stage

import (
	"context"

	"github.com/metadv/metadv/internal/ctxlog"
	"github.com/metadv/metadv/internal/resolve"
)

// DerivedColumn is one name -> expression mapping in a stage model.
type DerivedColumn struct {
	Name       string
	Expression string
}

// HashedColumn is one hash definition in a stage model: a plain composite
// hash key, or a hashdiff over a satellite payload.
type HashedColumn struct {
	Name       string
	Columns    []string
	IsHashdiff bool
}

// Spec is the derived stage model of one source: the natural key aliases,
// hash key compositions and hashdiff definitions its columns feed. The
// record source literal is fixed here; how the metadata columns are named
// is left to the backend convention.
type Spec struct {
	Source              string
	DerivedColumns      []DerivedColumn
	HashedColumns       []HashedColumn
	RecordSourceLiteral string
}

// Build derives one stage spec per source that contributes to the resolved
// model, in declared source order. Sources without any connection produce
// no spec.
func Build(ctx context.Context, model *resolve.Model) []*Spec {
	logger := ctxlog.FromContext(ctx)

	var specs []*Spec
	for _, source := range model.Sources {
		spec := buildSource(source, model)
		if len(spec.DerivedColumns) == 0 && len(spec.HashedColumns) == 0 {
			continue
		}
		specs = append(specs, spec)
	}

	logger.Debug("Stage derivation finished.", "sources", len(model.Sources), "stage_models", len(specs))
	return specs
}

func buildSource(source string, model *resolve.Model) *Spec {
	spec := &Spec{
		Source:              source,
		RecordSourceLiteral: "!" + source,
	}

	for _, entity := range model.Entities {
		keyCols := columnsIn(entity.HashKeyColumns, source)
		if len(keyCols) == 0 {
			continue
		}
		spec.DerivedColumns = append(spec.DerivedColumns, DerivedColumn{
			Name:       entity.NaturalKeyAlias(),
			Expression: keyCols[0],
		})
		spec.HashedColumns = append(spec.HashedColumns, HashedColumn{
			Name:    entity.HashKeyName(),
			Columns: keyCols,
		})
	}

	for _, relation := range model.Relations {
		for slot := range relation.Entities {
			slotCols := columnsIn(relation.SlotColumns[slot], source)
			if len(slotCols) == 0 {
				continue
			}
			keyName := relation.SlotKeyName(slot)
			spec.DerivedColumns = append(spec.DerivedColumns, DerivedColumn{
				Name:       keyName + "_id",
				Expression: slotCols[0],
			})
			spec.HashedColumns = append(spec.HashedColumns, HashedColumn{
				Name:    keyName + "_hk",
				Columns: slotCols,
			})
		}
		// The link hash key keeps the fold order of the resolved union, not
		// slot order, so the composition matches the resolved model exactly.
		unionCols := columnsIn(relation.HashKeyColumns, source)
		if len(unionCols) > 0 {
			spec.HashedColumns = append(spec.HashedColumns, HashedColumn{
				Name:    relation.HashKeyName(),
				Columns: unionCols,
			})
		}
	}

	for _, sat := range model.Satellites {
		payload := refNames(sat.PayloadIn(source))
		if len(payload) == 0 {
			continue
		}
		spec.HashedColumns = append(spec.HashedColumns, HashedColumn{
			Name:       sat.Target + "_hashdiff",
			Columns:    payload,
			IsHashdiff: true,
		})
	}

	return spec
}

// columnsIn projects the refs belonging to one source onto their column
// names, preserving order.
func columnsIn(refs []resolve.ColumnRef, source string) []string {
	var out []string
	for _, ref := range refs {
		if ref.Source == source {
			out = append(out, ref.Column)
		}
	}
	return out
}

func refNames(refs []resolve.ColumnRef) []string {
	var out []string
	for _, ref := range refs {
		out = append(out, ref.Column)
	}
	return out
}
