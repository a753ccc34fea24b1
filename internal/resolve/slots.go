package resolve

import (
	"errors"
	"fmt"

	"github.com/metadv/metadv/internal/config"
)

// ErrInvalidEntityReference marks key connections whose entity slot cannot
// be resolved: out-of-range indices, names outside the relation, or
// ambiguous self-references.
var ErrInvalidEntityReference = errors.New("invalid entity reference")

// slotOf resolves a relation key connection to the index of the entity slot
// it feeds. entity_index wins when present; entity_name alone is enough
// only while it is unambiguous.
func slotOf(conn *config.Connection, relation *config.Target, source, column string) (int, error) {
	at := fmt.Sprintf("column '%s.%s', relation '%s'", source, column, relation.Name)

	if conn.EntityIndex != nil {
		idx := *conn.EntityIndex
		if idx < 0 || idx >= len(relation.Entities) {
			return 0, fmt.Errorf("%w: %s: entity_index %d out of range [0,%d)", ErrInvalidEntityReference, at, idx, len(relation.Entities))
		}
		if conn.EntityName != "" && relation.Entities[idx] != conn.EntityName {
			return 0, fmt.Errorf("%w: %s: entity_index %d names slot '%s', not '%s'", ErrInvalidEntityReference, at, idx, relation.Entities[idx], conn.EntityName)
		}
		return idx, nil
	}

	if conn.EntityName == "" {
		return 0, fmt.Errorf("%w: %s: key connection to a relation must set entity_name or entity_index", ErrInvalidEntityReference, at)
	}

	found := -1
	for i, entity := range relation.Entities {
		if entity != conn.EntityName {
			continue
		}
		if found >= 0 {
			return 0, fmt.Errorf("%w: %s: entity '%s' fills more than one slot, entity_index required", ErrInvalidEntityReference, at, conn.EntityName)
		}
		found = i
	}
	if found < 0 {
		return 0, fmt.Errorf("%w: %s: entity '%s' is not among the relation's entities %v", ErrInvalidEntityReference, at, conn.EntityName, relation.Entities)
	}
	return found, nil
}
