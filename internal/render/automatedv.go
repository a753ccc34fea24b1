package render

import (
	"text/template"

	"github.com/metadv/metadv/internal/resolve"
	"github.com/metadv/metadv/internal/stage"
)

// automateDV renders models in the datavault-uk/automate_dv macro style:
// upper-case metadata column names, src_* parameter names, and a cdk list
// for multiactive satellites.
type automateDV struct {
	stage *template.Template
	hub   *template.Template
	link  *template.Template
	sat   *template.Template
	maSat *template.Template
}

func newAutomateDV() *automateDV {
	return &automateDV{
		stage: newTemplate("automate_dv_stage", automateDVStage),
		hub:   newTemplate("automate_dv_hub", automateDVHub),
		link:  newTemplate("automate_dv_link", automateDVLink),
		sat:   newTemplate("automate_dv_sat", automateDVSat),
		maSat: newTemplate("automate_dv_ma_sat", automateDVMaSat),
	}
}

func (c *automateDV) PackageName() string { return "datavault-uk/automate_dv" }

func (c *automateDV) Stage(spec *stage.Spec) (string, error) {
	return execute(c.stage, map[string]any{
		"Source":       spec.Source,
		"RecordSource": spec.RecordSourceLiteral,
		"Derived":      spec.DerivedColumns,
		"Hashed":       spec.HashedColumns,
	})
}

func (c *automateDV) Hub(entity *resolve.Entity) (string, error) {
	return execute(c.hub, map[string]any{
		"HashKey":      entity.HashKeyName(),
		"NaturalKey":   entity.NaturalKeyAlias(),
		"SourceModels": stageModelNames(entity.Sources),
	})
}

func (c *automateDV) Link(relation *resolve.Relation) (string, error) {
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

func (c *automateDV) Satellite(sat *resolve.Satellite, source string) (string, error) {
	return execute(c.sat, map[string]any{
		"ParentKey":   sat.Target + "_hk",
		"Hashdiff":    sat.Target + "_hashdiff",
		"Payload":     columnNames(sat.PayloadIn(source)),
		"SourceModel": stageModelName(source),
	})
}

func (c *automateDV) MultiactiveSatellite(sat *resolve.Satellite, source string) (string, error) {
	return execute(c.maSat, map[string]any{
		"ParentKey":   sat.Target + "_hk",
		"Hashdiff":    sat.Target + "_hashdiff",
		"Payload":     columnNames(sat.PayloadIn(source)),
		"CdkColumns":  columnNames(sat.MultiactiveKeysIn(source)),
		"SourceModel": stageModelName(source),
	})
}

func columnNames(refs []resolve.ColumnRef) []string {
	out := make([]string, len(refs))
	for i, ref := range refs {
		out[i] = ref.Column
	}
	return out
}

const automateDVStage = `{{ config(materialized='view') }}

{%- set yaml_metadata -%}
source_model: "[[.Source]]"
derived_columns:
  RECORD_SOURCE: "[[.RecordSource]]"
  LOAD_DATETIME: "CURRENT_TIMESTAMP()"
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

{{ automate_dv.stage(include_source_columns=true,
                     source_model=metadata_dict['source_model'],
                     derived_columns=metadata_dict['derived_columns'],
                     hashed_columns=metadata_dict['hashed_columns']) }}
`

const automateDVHub = `{{ config(materialized='incremental') }}

{{ automate_dv.hub(src_pk='[[.HashKey]]',
                   src_nk='[[.NaturalKey]]',
                   src_ldts='LOAD_DATETIME',
                   src_source='RECORD_SOURCE',
                   source_model=[[qlist .SourceModels]]) }}
`

const automateDVLink = `{{ config(materialized='incremental') }}

{{ automate_dv.link(src_pk='[[.HashKey]]',
                    src_fk=[[qlist .ForeignKeys]],
                    src_ldts='LOAD_DATETIME',
                    src_source='RECORD_SOURCE',
                    source_model=[[qlist .SourceModels]]) }}
`

const automateDVSat = `{{ config(materialized='incremental') }}

{{ automate_dv.sat(src_pk='[[.ParentKey]]',
                   src_hashdiff='[[.Hashdiff]]',
                   src_payload=[[qlist .Payload]],
                   src_ldts='LOAD_DATETIME',
                   src_source='RECORD_SOURCE',
                   source_model='[[.SourceModel]]') }}
`

const automateDVMaSat = `{{ config(materialized='incremental') }}

{{ automate_dv.ma_sat(src_pk='[[.ParentKey]]',
                      src_cdk=[[qlist .CdkColumns]],
                      src_hashdiff='[[.Hashdiff]]',
                      src_payload=[[qlist .Payload]],
                      src_ldts='LOAD_DATETIME',
                      src_source='RECORD_SOURCE',
                      source_model='[[.SourceModel]]') }}
`
