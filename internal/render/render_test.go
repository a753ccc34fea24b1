package render

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/metadv/metadv/internal/resolve"
	"github.com/metadv/metadv/internal/stage"
)

func ref(source, column string) resolve.ColumnRef {
	return resolve.ColumnRef{Source: source, Column: column}
}

func canonicalModel() *resolve.Model {
	return &resolve.Model{
		Entities: []*resolve.Entity{
			{
				Name:           "customer",
				HashKeyColumns: []resolve.ColumnRef{ref("stg_customers", "id")},
				Sources:        []string{"stg_customers"},
			},
			{
				Name:           "order",
				HashKeyColumns: []resolve.ColumnRef{ref("stg_orders", "order_id")},
				Sources:        []string{"stg_orders"},
			},
		},
		Relations: []*resolve.Relation{
			{
				Name:     "customer_order",
				Entities: []string{"customer", "order"},
				SlotColumns: [][]resolve.ColumnRef{
					{ref("stg_orders", "customer_id")},
					{ref("stg_orders", "order_id")},
				},
				HashKeyColumns: []resolve.ColumnRef{ref("stg_orders", "customer_id"), ref("stg_orders", "order_id")},
				Sources:        []string{"stg_orders"},
			},
		},
		Satellites: []*resolve.Satellite{
			{
				Target:         "customer",
				PayloadColumns: []resolve.ColumnRef{ref("stg_customers", "name"), ref("stg_customers", "email")},
				Sources:        []string{"stg_customers"},
			},
			{
				Target:                "order",
				MultiactiveKeyColumns: []resolve.ColumnRef{ref("stg_orders", "order_date")},
				Multiactive:           true,
				Sources:               []string{"stg_orders"},
			},
		},
		Sources: []string{"stg_customers", "stg_orders"},
	}
}

func canonicalSpecs() []*stage.Spec {
	return []*stage.Spec{
		{
			Source:              "stg_customers",
			RecordSourceLiteral: "!stg_customers",
			DerivedColumns: []stage.DerivedColumn{
				{Name: "customer_id", Expression: "id"},
			},
			HashedColumns: []stage.HashedColumn{
				{Name: "customer_hk", Columns: []string{"id"}},
				{Name: "customer_hashdiff", Columns: []string{"name", "email"}, IsHashdiff: true},
			},
		},
		{
			Source:              "stg_orders",
			RecordSourceLiteral: "!stg_orders",
			DerivedColumns: []stage.DerivedColumn{
				{Name: "order_id", Expression: "order_id"},
			},
			HashedColumns: []stage.HashedColumn{
				{Name: "order_hk", Columns: []string{"order_id"}},
				{Name: "customer_order_hk", Columns: []string{"customer_id", "order_id"}},
			},
		},
	}
}

func artifactPaths(artifacts []Artifact) []string {
	out := make([]string, len(artifacts))
	for i, a := range artifacts {
		out[i] = a.Path
	}
	return out
}

func TestConventionFor(t *testing.T) {
	t.Parallel()

	conv, err := ConventionFor("datavault-uk/automate_dv")
	require.NoError(t, err)
	require.Equal(t, "datavault-uk/automate_dv", conv.PackageName())

	conv, err = ConventionFor("ScaleFreeCom/DataVault4DBT")
	require.NoError(t, err)
	require.Equal(t, "scalefreecom/datavault4dbt", conv.PackageName())

	_, err = ConventionFor("dbtvault")
	require.ErrorIs(t, err, ErrUnsupportedPackage)
}

func TestRender_ArtifactPaths(t *testing.T) {
	t.Parallel()

	conv, err := ConventionFor("datavault-uk/automate_dv")
	require.NoError(t, err)

	artifacts, err := Render(context.Background(), canonicalModel(), canonicalSpecs(), conv)
	require.NoError(t, err)

	require.Equal(t, []string{
		"stage/stg_stg_customers.sql",
		"stage/stg_stg_orders.sql",
		"hub/hub_customer.sql",
		"hub/hub_order.sql",
		"link/link_customer_order.sql",
		"sat/sat_customer__stg_customers.sql",
		"sat/ma_sat_order__stg_orders.sql",
	}, artifactPaths(artifacts))
}

func TestRender_AutomateDVText(t *testing.T) {
	t.Parallel()

	conv, err := ConventionFor("datavault-uk/automate_dv")
	require.NoError(t, err)

	artifacts, err := Render(context.Background(), canonicalModel(), canonicalSpecs(), conv)
	require.NoError(t, err)

	byPath := make(map[string]string, len(artifacts))
	for _, a := range artifacts {
		byPath[a.Path] = a.Text
	}

	stageText := byPath["stage/stg_stg_customers.sql"]
	require.Contains(t, stageText, `RECORD_SOURCE: "!stg_customers"`)
	require.Contains(t, stageText, `LOAD_DATETIME: "CURRENT_TIMESTAMP()"`)
	require.Contains(t, stageText, `customer_id: "id"`)
	require.Contains(t, stageText, `customer_hk: "id"`)
	require.Contains(t, stageText, "is_hashdiff: true")
	require.Contains(t, stageText, "{{ automate_dv.stage(")

	hubText := byPath["hub/hub_customer.sql"]
	require.Contains(t, hubText, "src_pk='customer_hk'")
	require.Contains(t, hubText, "src_nk='customer_id'")
	require.Contains(t, hubText, "source_model=['stg_stg_customers']")

	linkText := byPath["link/link_customer_order.sql"]
	require.Contains(t, linkText, "src_pk='customer_order_hk'")
	require.Contains(t, linkText, "src_fk=['customer_order_customer_hk', 'customer_order_order_hk']")

	satText := byPath["sat/sat_customer__stg_customers.sql"]
	require.Contains(t, satText, "src_hashdiff='customer_hashdiff'")
	require.Contains(t, satText, "src_payload=['name', 'email']")

	maSatText := byPath["sat/ma_sat_order__stg_orders.sql"]
	require.Contains(t, maSatText, "automate_dv.ma_sat(")
	require.Contains(t, maSatText, "src_cdk=['order_date']")
}

func TestRender_Datavault4DBTText(t *testing.T) {
	t.Parallel()

	conv, err := ConventionFor("scalefreecom/datavault4dbt")
	require.NoError(t, err)

	artifacts, err := Render(context.Background(), canonicalModel(), canonicalSpecs(), conv)
	require.NoError(t, err)

	byPath := make(map[string]string, len(artifacts))
	for _, a := range artifacts {
		byPath[a.Path] = a.Text
	}

	stageText := byPath["stage/stg_stg_orders.sql"]
	require.Contains(t, stageText, `rsrc: "!stg_orders"`)
	require.Contains(t, stageText, `ldts: "CURRENT_TIMESTAMP()"`)
	require.Contains(t, stageText, "{{ datavault4dbt.stage(")

	hubText := byPath["hub/hub_customer.sql"]
	require.Contains(t, hubText, "hashkey='customer_hk'")
	require.Contains(t, hubText, "business_keys=['customer_id']")

	linkText := byPath["link/link_customer_order.sql"]
	require.Contains(t, linkText, "link_hashkey='customer_order_hk'")
	require.Contains(t, linkText, "foreign_hashkeys=['customer_order_customer_hk', 'customer_order_order_hk']")

	maSatText := byPath["sat/ma_sat_order__stg_orders.sql"]
	require.Contains(t, maSatText, "datavault4dbt.ma_sat_v0(")
	require.Contains(t, maSatText, "ma_key_columns=['order_date']")
}

func TestRender_SkipsEmptyTargets(t *testing.T) {
	t.Parallel()

	model := canonicalModel()
	model.Entities = append(model.Entities, &resolve.Entity{Name: "unfed"})
	model.Relations = append(model.Relations, &resolve.Relation{
		Name:     "unfed_link",
		Entities: []string{"a", "b"},
	})

	conv, err := ConventionFor("datavault-uk/automate_dv")
	require.NoError(t, err)

	artifacts, err := Render(context.Background(), model, canonicalSpecs(), conv)
	require.NoError(t, err)
	for _, a := range artifacts {
		require.NotContains(t, a.Path, "unfed")
	}
}

func TestRender_Deterministic(t *testing.T) {
	t.Parallel()

	conv, err := ConventionFor("scalefreecom/datavault4dbt")
	require.NoError(t, err)

	first, err := Render(context.Background(), canonicalModel(), canonicalSpecs(), conv)
	require.NoError(t, err)
	second, err := Render(context.Background(), canonicalModel(), canonicalSpecs(), conv)
	require.NoError(t, err)
	require.Equal(t, first, second)
}
