package resolve

import "fmt"

// ColumnRef identifies one source column. Two refs are the same column only
// when both source and column name match; deduplication always uses this
// identity, never the bare column name, so same-named columns from
// different sources stay distinct.
type ColumnRef struct {
	Source string
	Column string
}

// Entity is the resolved model of an entity target: the ordered set of
// source columns feeding its natural key hash, plus every source that
// contributes to it.
type Entity struct {
	Name           string
	Description    string
	HashKeyColumns []ColumnRef
	Sources        []string
}

// NaturalKeyAlias is the derived column name the entity's business key is
// staged under.
func (e *Entity) NaturalKeyAlias() string { return e.Name + "_id" }

// HashKeyName is the name of the entity's hash key column in stage models.
func (e *Entity) HashKeyName() string { return e.Name + "_hk" }

// Relation is the resolved model of a relation target: per-slot foreign key
// columns and the ordered union forming the link hash key.
type Relation struct {
	Name        string
	Description string
	// Entities are the declared entity slots, in order. The same entity
	// name may appear more than once (self-reference).
	Entities []string
	// SlotColumns holds, per slot index, the ordered foreign key columns.
	SlotColumns [][]ColumnRef
	// HashKeyColumns is the ordered union across all slots, deduped by
	// column identity.
	HashKeyColumns []ColumnRef
	Sources        []string
}

// HashKeyName is the name of the link's hash key column in stage models.
func (r *Relation) HashKeyName() string { return r.Name + "_hk" }

// SelfReferencing reports whether any entity appears in more than one slot.
func (r *Relation) SelfReferencing() bool {
	seen := make(map[string]bool, len(r.Entities))
	for _, e := range r.Entities {
		if seen[e] {
			return true
		}
		seen[e] = true
	}
	return false
}

// SlotKeyName returns the derived key name for one entity slot. For
// self-referencing relations the slot sequence number (1-based) keeps the
// repeated entity names apart.
func (r *Relation) SlotKeyName(slot int) string {
	entity := r.Entities[slot]
	if !r.SelfReferencing() {
		return r.Name + "_" + entity
	}
	seq := 0
	for i := 0; i <= slot; i++ {
		if r.Entities[i] == entity {
			seq++
		}
	}
	return fmt.Sprintf("%s_%s_%d", r.Name, entity, seq)
}

// Satellite is the resolved payload model of one target. Multiactive key
// columns are excluded from the payload; any multiactive key makes the
// whole satellite multiactive.
type Satellite struct {
	Target                string
	PayloadColumns        []ColumnRef
	MultiactiveKeyColumns []ColumnRef
	Multiactive           bool
	Sources               []string
}

// PayloadIn returns the payload columns contributed by one source, in order.
func (s *Satellite) PayloadIn(source string) []ColumnRef {
	return filterBySource(s.PayloadColumns, source)
}

// MultiactiveKeysIn returns the multiactive key columns contributed by one
// source, in order.
func (s *Satellite) MultiactiveKeysIn(source string) []ColumnRef {
	return filterBySource(s.MultiactiveKeyColumns, source)
}

// Model is the complete resolved representation of one declaration. It is
// built fresh per resolution run and never mutated afterwards; the stage
// and render packages share it read-only.
type Model struct {
	Entities   []*Entity
	Relations  []*Relation
	Satellites []*Satellite
	// Sources preserves the declared source order, which anchors every
	// first-seen ordering rule downstream.
	Sources []string
}

// EntityByName returns the resolved entity with the given name, or nil.
func (m *Model) EntityByName(name string) *Entity {
	for _, e := range m.Entities {
		if e.Name == name {
			return e
		}
	}
	return nil
}

// RelationByName returns the resolved relation with the given name, or nil.
func (m *Model) RelationByName(name string) *Relation {
	for _, r := range m.Relations {
		if r.Name == name {
			return r
		}
	}
	return nil
}

// SatelliteFor returns the resolved satellite of the given target, or nil.
func (m *Model) SatelliteFor(target string) *Satellite {
	for _, s := range m.Satellites {
		if s.Target == target {
			return s
		}
	}
	return nil
}

func filterBySource(cols []ColumnRef, source string) []ColumnRef {
	var out []ColumnRef
	for _, c := range cols {
		if c.Source == source {
			out = append(out, c)
		}
	}
	return out
}
