package config

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCheckShape_ValidDocument(t *testing.T) {
	t.Parallel()

	doc := &Document{
		Targets: []*Target{
			{Name: "customer", Type: TypeEntity},
			{Name: "order", Type: TypeEntity},
			{Name: "customer_order", Type: TypeRelation, Entities: []string{"customer", "order"}},
		},
		Sources: []*Source{
			{
				Name: "stg_customers",
				Columns: []*Column{
					{Name: "customer_id", Target: []*Connection{{TargetName: "customer"}}},
				},
			},
		},
	}

	require.NoError(t, doc.CheckShape())
}

func TestCheckShape_SelfReferencingRelationIsValid(t *testing.T) {
	t.Parallel()

	// Repeats count as distinct slots.
	doc := &Document{
		Targets: []*Target{
			{Name: "order", Type: TypeEntity},
			{Name: "order_self_link", Type: TypeRelation, Entities: []string{"order", "order"}},
		},
	}

	require.NoError(t, doc.CheckShape())
}

func TestCheckShape_Violations(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		doc  *Document
		want string
	}{
		{
			name: "unknown target type",
			doc: &Document{
				Targets: []*Target{{Name: "customer", Type: "hub"}},
			},
			want: "unknown type",
		},
		{
			name: "relation with one entity slot",
			doc: &Document{
				Targets: []*Target{{Name: "solo", Type: TypeRelation, Entities: []string{"customer"}}},
			},
			want: "at least 2 entity slots",
		},
		{
			name: "entity declaring entities",
			doc: &Document{
				Targets: []*Target{{Name: "customer", Type: TypeEntity, Entities: []string{"x"}}},
			},
			want: "must not declare entities",
		},
		{
			name: "duplicate target name",
			doc: &Document{
				Targets: []*Target{
					{Name: "customer", Type: TypeEntity},
					{Name: "customer", Type: TypeEntity},
				},
			},
			want: "duplicate target",
		},
		{
			name: "duplicate source name",
			doc: &Document{
				Sources: []*Source{{Name: "stg_a"}, {Name: "stg_a"}},
			},
			want: "duplicate source",
		},
		{
			name: "connection with both kinds set",
			doc: &Document{
				Sources: []*Source{
					{
						Name: "stg_a",
						Columns: []*Column{
							{Name: "c", Target: []*Connection{{TargetName: "x", AttributeOf: "y"}}},
						},
					},
				},
			},
			want: "both target_name and attribute_of",
		},
		{
			name: "connection with neither kind set",
			doc: &Document{
				Sources: []*Source{
					{
						Name: "stg_a",
						Columns: []*Column{
							{Name: "c", Target: []*Connection{{}}},
						},
					},
				},
			},
			want: "neither target_name nor attribute_of",
		},
		{
			name: "attribute connection with entity_name",
			doc: &Document{
				Sources: []*Source{
					{
						Name: "stg_a",
						Columns: []*Column{
							{Name: "c", Target: []*Connection{{AttributeOf: "y", EntityName: "x"}}},
						},
					},
				},
			},
			want: "must not set entity_name",
		},
		{
			name: "key connection with multiactive_key",
			doc: &Document{
				Sources: []*Source{
					{
						Name: "stg_a",
						Columns: []*Column{
							{Name: "c", Target: []*Connection{{TargetName: "x", MultiactiveKey: true}}},
						},
					},
				},
			},
			want: "must not set multiactive_key",
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			err := tt.doc.CheckShape()
			require.ErrorIs(t, err, ErrMalformedConfig)
			require.Contains(t, err.Error(), tt.want)
		})
	}
}
