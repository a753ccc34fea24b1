package validate

import (
	"context"
	"fmt"

	"github.com/metadv/metadv/internal/config"
	"github.com/metadv/metadv/internal/ctxlog"
)

// Message is a single validation finding.
type Message struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Summary carries the counts reported alongside the findings.
type Summary struct {
	TotalTargets           int `json:"total_targets"`
	TotalColumns           int `json:"total_columns"`
	ColumnsWithConnections int `json:"columns_with_connections"`
	ErrorCount             int `json:"error_count"`
	WarningCount           int `json:"warning_count"`
}

// Result is the outcome of a full validation pass. Errors block generation;
// warnings never do. Callers decide what non-empty Errors means for them.
type Result struct {
	Errors   []Message `json:"errors"`
	Warnings []Message `json:"warnings"`
	Summary  Summary   `json:"summary"`
}

// OK reports whether the document may proceed to generation.
func (r *Result) OK() bool { return len(r.Errors) == 0 }

// Options tunes rule strictness.
type Options struct {
	// RequireAllSlots promotes partially mapped relations (some but not all
	// entity slots key-connected) from a warning to an error.
	RequireAllSlots bool
}

// Run checks the document against every rule in one pass and collects all
// findings; rules are never short-circuited. The document must already have
// passed config.CheckShape.
func Run(ctx context.Context, doc *config.Document, opts Options) *Result {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Validation pass started.", "targets", len(doc.Targets), "sources", len(doc.Sources))

	stats := collectStats(doc)
	result := &Result{}

	for _, target := range doc.Targets {
		if target.Description == "" {
			result.Warnings = append(result.Warnings, Message{
				Code:    "target_no_description",
				Message: fmt.Sprintf("target '%s' has no description", target.Name),
			})
		}

		switch target.Type {
		case config.TypeEntity:
			if !stats.connectedEntities[target.Name] {
				result.Warnings = append(result.Warnings, Message{
					Code:    "entity_no_source",
					Message: fmt.Sprintf("entity '%s' has no source column connected to it", target.Name),
				})
			}
		case config.TypeRelation:
			checkRelationCoverage(target, stats, opts, result)
		}
	}

	for _, msg := range stats.unknownTargets {
		result.Errors = append(result.Errors, msg)
	}
	for _, msg := range stats.unconnectedColumns {
		result.Warnings = append(result.Warnings, msg)
	}

	result.Summary = Summary{
		TotalTargets:           len(doc.Targets),
		TotalColumns:           stats.totalColumns,
		ColumnsWithConnections: stats.connectedColumns,
		ErrorCount:             len(result.Errors),
		WarningCount:           len(result.Warnings),
	}

	logger.Debug("Validation pass finished.",
		"errors", result.Summary.ErrorCount,
		"warnings", result.Summary.WarningCount,
	)
	return result
}

// checkRelationCoverage flags relations nobody key-connects to (error) and
// relations with unmapped entity slots (warning, or error under
// RequireAllSlots).
func checkRelationCoverage(target *config.Target, stats *connectionStats, opts Options, result *Result) {
	if !stats.referencedRelations[target.Name] {
		result.Errors = append(result.Errors, Message{
			Code:    "relation_no_entity_connection",
			Message: fmt.Sprintf("relation '%s' has no entity connections from sources", target.Name),
		})
		return
	}

	slots := stats.relationSlots[target.Name]
	var unmapped []string
	for i, entity := range target.Entities {
		if !slots[i] {
			unmapped = append(unmapped, fmt.Sprintf("%s[%d]", entity, i))
		}
	}
	if len(unmapped) == 0 {
		return
	}

	msg := Message{
		Code:    "relation_entity_slot_unmapped",
		Message: fmt.Sprintf("relation '%s' has unmapped entity slots: %v", target.Name, unmapped),
	}
	if opts.RequireAllSlots {
		result.Errors = append(result.Errors, msg)
	} else {
		result.Warnings = append(result.Warnings, msg)
	}
}
