package validate

import (
	"fmt"

	"github.com/metadv/metadv/internal/config"
)

// connectionStats is the per-document accumulation the rules read from. It
// is built in one forward pass and discarded with the Result.
type connectionStats struct {
	// connectedEntities marks entity targets with at least one key
	// connection, either direct or through a relation's entity slot.
	connectedEntities map[string]bool
	// referencedRelations marks relation targets named by any key connection.
	referencedRelations map[string]bool
	// relationSlots marks, per relation, which entity slot indices have a
	// key connection. Slot resolution here is tolerant: bad indices and
	// ambiguous names are left for the resolver to reject.
	relationSlots map[string]map[int]bool

	unknownTargets     []Message
	unconnectedColumns []Message

	totalColumns     int
	connectedColumns int
}

func collectStats(doc *config.Document) *connectionStats {
	stats := &connectionStats{
		connectedEntities:   make(map[string]bool),
		referencedRelations: make(map[string]bool),
		relationSlots:       make(map[string]map[int]bool),
	}
	seenUnknown := make(map[string]bool)

	for _, source := range doc.Sources {
		for _, column := range source.Columns {
			stats.totalColumns++
			if len(column.Target) == 0 {
				stats.unconnectedColumns = append(stats.unconnectedColumns, Message{
					Code:    "column_no_connection",
					Message: fmt.Sprintf("column '%s.%s' has no connection to any target", source.Name, column.Name),
				})
				continue
			}
			stats.connectedColumns++

			for _, conn := range column.Target {
				name := conn.TargetName
				if conn.IsAttribute() {
					name = conn.AttributeOf
				}
				target := doc.TargetByName(name)
				if target == nil {
					if !seenUnknown[name] {
						seenUnknown[name] = true
						stats.unknownTargets = append(stats.unknownTargets, Message{
							Code:    "unknown_target",
							Message: fmt.Sprintf("column '%s.%s' references undeclared target '%s'", source.Name, column.Name, name),
						})
					}
					continue
				}

				if conn.IsKey() {
					stats.recordKeyConnection(conn, target)
				}
			}
		}
	}
	return stats
}

func (s *connectionStats) recordKeyConnection(conn *config.Connection, target *config.Target) {
	if target.Type == config.TypeEntity {
		s.connectedEntities[target.Name] = true
		return
	}

	s.referencedRelations[target.Name] = true
	slot, ok := tolerantSlot(conn, target)
	if !ok {
		return
	}
	if s.relationSlots[target.Name] == nil {
		s.relationSlots[target.Name] = make(map[int]bool)
	}
	s.relationSlots[target.Name][slot] = true
	// A slot connection also feeds the slot's entity hash key.
	s.connectedEntities[target.Entities[slot]] = true
}

// tolerantSlot resolves a relation connection to a slot index without
// failing: anything the resolver would reject simply reports no slot.
func tolerantSlot(conn *config.Connection, relation *config.Target) (int, bool) {
	if conn.EntityIndex != nil {
		idx := *conn.EntityIndex
		if idx < 0 || idx >= len(relation.Entities) {
			return 0, false
		}
		if conn.EntityName != "" && relation.Entities[idx] != conn.EntityName {
			return 0, false
		}
		return idx, true
	}
	if conn.EntityName == "" {
		return 0, false
	}
	found := -1
	for i, entity := range relation.Entities {
		if entity != conn.EntityName {
			continue
		}
		if found >= 0 {
			return 0, false // ambiguous self-reference
		}
		found = i
	}
	if found < 0 {
		return 0, false
	}
	return found, true
}
