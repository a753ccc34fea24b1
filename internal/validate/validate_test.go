package validate

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/metadv/metadv/internal/config"
)

func codes(messages []Message) []string {
	out := make([]string, len(messages))
	for i, m := range messages {
		out[i] = m.Code
	}
	return out
}

func TestRun_RelationWithoutEntityConnectionsIsError(t *testing.T) {
	t.Parallel()

	doc := &config.Document{
		Targets: []*config.Target{
			{Name: "customer", Type: config.TypeEntity, Description: "A customer"},
			{Name: "order", Type: config.TypeEntity, Description: "An order"},
			{Name: "customer_order", Type: config.TypeRelation, Description: "Link", Entities: []string{"customer", "order"}},
		},
		Sources: []*config.Source{
			{
				Name: "stg_customers",
				Columns: []*config.Column{
					{Name: "customer_id", Target: []*config.Connection{{TargetName: "customer"}}},
					{Name: "order_id", Target: []*config.Connection{{TargetName: "order"}}},
				},
			},
		},
	}

	result := Run(context.Background(), doc, Options{})

	require.Len(t, result.Errors, 1)
	require.Equal(t, "relation_no_entity_connection", result.Errors[0].Code)
	require.Contains(t, result.Errors[0].Message, "customer_order")
	require.False(t, result.OK())
}

func TestRun_PartiallyMappedRelationIsWarning(t *testing.T) {
	t.Parallel()

	doc := &config.Document{
		Targets: []*config.Target{
			{Name: "customer", Type: config.TypeEntity, Description: "A customer"},
			{Name: "order", Type: config.TypeEntity, Description: "An order"},
			{Name: "customer_order", Type: config.TypeRelation, Description: "Link", Entities: []string{"customer", "order"}},
		},
		Sources: []*config.Source{
			{
				Name: "stg_orders",
				Columns: []*config.Column{
					{Name: "order_id", Target: []*config.Connection{{TargetName: "order"}}},
					{Name: "customer_id", Target: []*config.Connection{{TargetName: "customer_order", EntityName: "customer"}}},
				},
			},
		},
	}

	result := Run(context.Background(), doc, Options{})
	require.Empty(t, result.Errors)
	require.Contains(t, codes(result.Warnings), "relation_entity_slot_unmapped")

	// The strict option promotes the same finding to an error.
	strict := Run(context.Background(), doc, Options{RequireAllSlots: true})
	require.Contains(t, codes(strict.Errors), "relation_entity_slot_unmapped")
	require.NotContains(t, codes(strict.Warnings), "relation_entity_slot_unmapped")
}

func TestRun_EntityWithoutSourceIsWarning(t *testing.T) {
	t.Parallel()

	doc := &config.Document{
		Targets: []*config.Target{
			{Name: "customer", Type: config.TypeEntity, Description: "A customer"},
		},
	}

	result := Run(context.Background(), doc, Options{})

	require.Empty(t, result.Errors)
	require.Contains(t, codes(result.Warnings), "entity_no_source")
	require.True(t, result.OK())
}

func TestRun_EntityFedThroughRelationSlotCounts(t *testing.T) {
	t.Parallel()

	// The customer entity has no direct key connection, but a relation slot
	// names it; that still counts as a source.
	doc := &config.Document{
		Targets: []*config.Target{
			{Name: "customer", Type: config.TypeEntity, Description: "A customer"},
			{Name: "order", Type: config.TypeEntity, Description: "An order"},
			{Name: "customer_order", Type: config.TypeRelation, Description: "Link", Entities: []string{"customer", "order"}},
		},
		Sources: []*config.Source{
			{
				Name: "stg_orders",
				Columns: []*config.Column{
					{Name: "order_id", Target: []*config.Connection{{TargetName: "order"}}},
					{Name: "customer_id", Target: []*config.Connection{{TargetName: "customer_order", EntityName: "customer"}}},
				},
			},
		},
	}

	result := Run(context.Background(), doc, Options{})
	require.NotContains(t, codes(result.Warnings), "entity_no_source")
}

func TestRun_MissingDescriptionAndUnconnectedColumn(t *testing.T) {
	t.Parallel()

	doc := &config.Document{
		Targets: []*config.Target{
			{Name: "customer", Type: config.TypeEntity},
		},
		Sources: []*config.Source{
			{
				Name: "stg_customers",
				Columns: []*config.Column{
					{Name: "customer_id", Target: []*config.Connection{{TargetName: "customer"}}},
					{Name: "ignored_col"},
				},
			},
		},
	}

	result := Run(context.Background(), doc, Options{})

	require.Empty(t, result.Errors)
	require.Contains(t, codes(result.Warnings), "target_no_description")
	require.Contains(t, codes(result.Warnings), "column_no_connection")
	require.Equal(t, 2, result.Summary.TotalColumns)
	require.Equal(t, 1, result.Summary.ColumnsWithConnections)
}

func TestRun_UnknownTargetIsError(t *testing.T) {
	t.Parallel()

	doc := &config.Document{
		Targets: []*config.Target{
			{Name: "customer", Type: config.TypeEntity, Description: "A customer"},
		},
		Sources: []*config.Source{
			{
				Name: "stg_customers",
				Columns: []*config.Column{
					{Name: "customer_id", Target: []*config.Connection{{TargetName: "customer"}}},
					{Name: "typo_col", Target: []*config.Connection{{AttributeOf: "custmoer"}}},
				},
			},
		},
	}

	result := Run(context.Background(), doc, Options{})

	require.Contains(t, codes(result.Errors), "unknown_target")
	require.Contains(t, result.Errors[0].Message, "custmoer")
}

func TestRun_CollectsAllFindingsInOnePass(t *testing.T) {
	t.Parallel()

	// Several independent problems at once; none may shadow another.
	doc := &config.Document{
		Targets: []*config.Target{
			{Name: "customer", Type: config.TypeEntity},
			{Name: "product", Type: config.TypeEntity},
			{Name: "a_b", Type: config.TypeRelation, Entities: []string{"customer", "product"}},
		},
		Sources: []*config.Source{
			{
				Name: "stg_misc",
				Columns: []*config.Column{
					{Name: "dangling"},
				},
			},
		},
	}

	result := Run(context.Background(), doc, Options{})

	require.Equal(t, []string{"relation_no_entity_connection"}, codes(result.Errors))
	warningCodes := codes(result.Warnings)
	require.Contains(t, warningCodes, "entity_no_source")
	require.Contains(t, warningCodes, "target_no_description")
	require.Contains(t, warningCodes, "column_no_connection")
	require.Equal(t, result.Summary.ErrorCount, len(result.Errors))
	require.Equal(t, result.Summary.WarningCount, len(result.Warnings))
}
