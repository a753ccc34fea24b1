package resolve

import (
	"context"
	"fmt"

	"github.com/metadv/metadv/internal/config"
	"github.com/metadv/metadv/internal/ctxlog"
)

// Resolve folds every (source, column, connection) triple of the document
// into the resolved model. The fold is a single forward pass over sources,
// columns and connections in declared order, so every ordered set comes out
// in first-seen order and the result is byte-for-byte reproducible.
func Resolve(ctx context.Context, doc *config.Document) (*Model, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Resolution started.", "targets", len(doc.Targets), "sources", len(doc.Sources))

	b := newBuilder(doc)

	for _, source := range doc.Sources {
		for _, column := range source.Columns {
			for _, conn := range column.Target {
				if err := b.fold(source.Name, column.Name, conn); err != nil {
					return nil, err
				}
			}
		}
	}

	model := b.finish()
	logger.Debug("Resolution finished.",
		"entities", len(model.Entities),
		"relations", len(model.Relations),
		"satellites", len(model.Satellites),
	)
	return model, nil
}

// builder accumulates resolved state for one resolution call. It is
// discarded once finish() hands out the immutable model, so no state ever
// leaks between runs.
type builder struct {
	doc        *config.Document
	entities   map[string]*Entity
	relations  map[string]*Relation
	satellites map[string]*Satellite
}

func newBuilder(doc *config.Document) *builder {
	b := &builder{
		doc:        doc,
		entities:   make(map[string]*Entity),
		relations:  make(map[string]*Relation),
		satellites: make(map[string]*Satellite),
	}
	for _, t := range doc.Targets {
		switch t.Type {
		case config.TypeEntity:
			b.entities[t.Name] = &Entity{Name: t.Name, Description: t.Description}
		case config.TypeRelation:
			b.relations[t.Name] = &Relation{
				Name:        t.Name,
				Description: t.Description,
				Entities:    t.Entities,
				SlotColumns: make([][]ColumnRef, len(t.Entities)),
			}
		}
	}
	return b
}

// fold applies one connection. A column carrying several connections passes
// through here once per connection, and each application is independent.
func (b *builder) fold(source, column string, conn *config.Connection) error {
	ref := ColumnRef{Source: source, Column: column}

	if conn.IsAttribute() {
		return b.foldAttribute(ref, conn)
	}

	target := b.doc.TargetByName(conn.TargetName)
	if target == nil {
		return fmt.Errorf("column '%s.%s' references undeclared target '%s'", source, column, conn.TargetName)
	}

	switch target.Type {
	case config.TypeEntity:
		if conn.EntityName != "" || conn.EntityIndex != nil {
			return fmt.Errorf("%w: column '%s.%s': entity_name/entity_index are only valid on relation connections", ErrInvalidEntityReference, source, column)
		}
		entity := b.entities[target.Name]
		entity.HashKeyColumns = append(entity.HashKeyColumns, ref)
		entity.Sources = appendUnique(entity.Sources, source)
	case config.TypeRelation:
		slot, err := slotOf(conn, target, source, column)
		if err != nil {
			return err
		}
		relation := b.relations[target.Name]
		relation.SlotColumns[slot] = append(relation.SlotColumns[slot], ref)
		relation.HashKeyColumns = appendUniqueRef(relation.HashKeyColumns, ref)
		relation.Sources = appendUnique(relation.Sources, source)
	}
	return nil
}

func (b *builder) foldAttribute(ref ColumnRef, conn *config.Connection) error {
	target := b.doc.TargetByName(conn.AttributeOf)
	if target == nil {
		return fmt.Errorf("column '%s.%s' references undeclared target '%s'", ref.Source, ref.Column, conn.AttributeOf)
	}

	sat := b.satellites[target.Name]
	if sat == nil {
		sat = &Satellite{Target: target.Name}
		b.satellites[target.Name] = sat
	}
	sat.Sources = appendUnique(sat.Sources, ref.Source)

	if conn.MultiactiveKey {
		sat.Multiactive = true
		sat.MultiactiveKeyColumns = appendUniqueRef(sat.MultiactiveKeyColumns, ref)
		// The same column may already have been folded as payload through
		// an earlier connection; a multiactive key never stays in the
		// payload of its target.
		sat.PayloadColumns = removeRef(sat.PayloadColumns, ref)
		return nil
	}

	for _, key := range sat.MultiactiveKeyColumns {
		if key == ref {
			return nil
		}
	}
	sat.PayloadColumns = appendUniqueRef(sat.PayloadColumns, ref)
	return nil
}

// finish assembles the immutable model. Entities and relations keep the
// target declaration order; satellites keep the declaration order of the
// targets that accumulated attributes.
func (b *builder) finish() *Model {
	model := &Model{}
	for _, t := range b.doc.Targets {
		switch t.Type {
		case config.TypeEntity:
			model.Entities = append(model.Entities, b.entities[t.Name])
		case config.TypeRelation:
			model.Relations = append(model.Relations, b.relations[t.Name])
		}
		if sat := b.satellites[t.Name]; sat != nil {
			model.Satellites = append(model.Satellites, sat)
		}
	}
	for _, s := range b.doc.Sources {
		model.Sources = append(model.Sources, s.Name)
	}
	return model
}

func appendUnique(list []string, s string) []string {
	for _, existing := range list {
		if existing == s {
			return list
		}
	}
	return append(list, s)
}

func appendUniqueRef(list []ColumnRef, ref ColumnRef) []ColumnRef {
	for _, existing := range list {
		if existing == ref {
			return list
		}
	}
	return append(list, ref)
}

func removeRef(list []ColumnRef, ref ColumnRef) []ColumnRef {
	out := list[:0]
	for _, existing := range list {
		if existing != ref {
			out = append(out, existing)
		}
	}
	return out
}
