package render

import (
	"text/template"

	"github.com/metadv/metadv/internal/resolve"
	"github.com/metadv/metadv/internal/stage"
)

// datavault4DBT renders models in the scalefreecom/datavault4dbt macro
// style: ldts/rsrc metadata names, business_keys/foreign_hashkeys
// parameters, and ma_key_columns for multiactive satellites.
type datavault4DBT struct {
	stage *template.Template
	hub   *template.Template
	link  *template.Template
	sat   *template.Template
	maSat *template.Template
}

func newDatavault4DBT() *datavault4DBT {
	return &datavault4DBT{
		stage: newTemplate("datavault4dbt_stage", datavault4DBTStage),
		hub:   newTemplate("datavault4dbt_hub", datavault4DBTHub),
		link:  newTemplate("datavault4dbt_link", datavault4DBTLink),
		sat:   newTemplate("datavault4dbt_sat", datavault4DBTSat),
		maSat: newTemplate("datavault4dbt_ma_sat", datavault4DBTMaSat),
	}
}

func (c *datavault4DBT) PackageName() string { return "scalefreecom/datavault4dbt" }

func (c *datavault4DBT) Stage(spec *stage.Spec) (string, error) {
	return execute(c.stage, map[string]any{
		"Source":       spec.Source,
		"RecordSource": spec.RecordSourceLiteral,
		"Derived":      spec.DerivedColumns,
		"Hashed":       spec.HashedColumns,
	})
}

func (c *datavault4DBT) Hub(entity *resolve.Entity) (string, error) {
	return execute(c.hub, map[string]any{
		"HashKey":      entity.HashKeyName(),
		"BusinessKeys": []string{entity.NaturalKeyAlias()},
		"SourceModels": stageModelNames(entity.Sources),
	})
}

func (c *datavault4DBT) Link(relation *resolve.Relation) (string, error) {
	foreignKeys := make([]string, len(relation.Entities))
	for slot := range relation.Entities {
		foreignKeys[slot] = relation.SlotKeyName(slot) + "_hk"
	}
	return execute(c.link, map[string]any{
		"HashKey":      relation.HashKeyName(),
		"ForeignKeys":  foreignKeys,
		"SourceModels": stageModelNames(relation.Sources),
	})
}

func (c *datavault4DBT) Satellite(sat *resolve.Satellite, source string) (string, error) {
	return execute(c.sat, map[string]any{
		"ParentKey":   sat.Target + "_hk",
		"Hashdiff":    sat.Target + "_hashdiff",
		"Payload":     columnNames(sat.PayloadIn(source)),
		"SourceModel": stageModelName(source),
	})
}

func (c *datavault4DBT) MultiactiveSatellite(sat *resolve.Satellite, source string) (string, error) {
	return execute(c.maSat, map[string]any{
		"ParentKey":    sat.Target + "_hk",
		"Hashdiff":     sat.Target + "_hashdiff",
		"Payload":      columnNames(sat.PayloadIn(source)),
		"MaKeyColumns": columnNames(sat.MultiactiveKeysIn(source)),
		"SourceModel":  stageModelName(source),
	})
}

const datavault4DBTStage = `{{ config(materialized='view') }}

{%- set yaml_metadata -%}
source_model: "[[.Source]]"
ldts: "CURRENT_TIMESTAMP()"
rsrc: "[[.RecordSource]]"
derived_columns:
[[- range .Derived]]
  [[.Name]]: "[[.Expression]]"
[[- end]]
hashed_columns:
[[- range .Hashed]]
[[- if .IsHashdiff]]
  [[.Name]]:
    is_hashdiff: true
    columns:
[[- range .Columns]]
      - "[[.]]"
[[- end]]
[[- else if eq (len .Columns) 1]]
  [[.Name]]: "[[index .Columns 0]]"
[[- else]]
  [[.Name]]:
[[- range .Columns]]
    - "[[.]]"
[[- end]]
[[- end]]
[[- end]]
{%- endset -%}

{% set metadata_dict = fromyaml(yaml_metadata) %}

{{ datavault4dbt.stage(source_model=metadata_dict['source_model'],
                       ldts=metadata_dict['ldts'],
                       rsrc=metadata_dict['rsrc'],
                       derived_columns=metadata_dict['derived_columns'],
                       hashed_columns=metadata_dict['hashed_columns']) }}
`

const datavault4DBTHub = `{{ config(materialized='incremental') }}

{{ datavault4dbt.hub(hashkey='[[.HashKey]]',
                     business_keys=[[qlist .BusinessKeys]],
                     source_models=[[qlist .SourceModels]]) }}
`

const datavault4DBTLink = `{{ config(materialized='incremental') }}

{{ datavault4dbt.link(link_hashkey='[[.HashKey]]',
                      foreign_hashkeys=[[qlist .ForeignKeys]],
                      source_models=[[qlist .SourceModels]]) }}
`

const datavault4DBTSat = `{{ config(materialized='incremental') }}

{{ datavault4dbt.sat_v0(parent_hashkey='[[.ParentKey]]',
                        src_hashdiff='[[.Hashdiff]]',
                        src_payload=[[qlist .Payload]],
                        source_model='[[.SourceModel]]') }}
`

const datavault4DBTMaSat = `{{ config(materialized='incremental') }}

{{ datavault4dbt.ma_sat_v0(parent_hashkey='[[.ParentKey]]',
                           src_hashdiff='[[.Hashdiff]]',
                           ma_key_columns=[[qlist .MaKeyColumns]],
                           src_payload=[[qlist .Payload]],
                           source_model='[[.SourceModel]]') }}
`
