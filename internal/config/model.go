package config

import (
	"errors"
	"fmt"
)

// ErrMalformedConfig marks shape violations in the raw document: missing or
// mistyped fields that make resolution impossible. No semantic checks happen
// here; those belong to the validate package.
var ErrMalformedConfig = errors.New("malformed config")

// Target types.
const (
	TypeEntity   = "entity"
	TypeRelation = "relation"
)

// Document is the unified, format-agnostic representation of a metadv
// declaration: all targets plus all sources with their column connections.
// It is the single source of truth for the validate, resolve and stage
// packages.
type Document struct {
	Targets []*Target `yaml:"targets"`
	Sources []*Source `yaml:"sources"`
}

// Target declares a business object. An entity target generates a hub (and
// optionally a satellite); a relation target generates a link over its
// ordered entity slots.
type Target struct {
	Name        string   `yaml:"name"`
	Type        string   `yaml:"type"`
	Description string   `yaml:"description,omitempty"`
	Entities    []string `yaml:"entities,omitempty"`
}

// Source declares one staging model and its columns, in declaration order.
type Source struct {
	Name    string    `yaml:"name"`
	Columns []*Column `yaml:"columns"`
}

// Column declares one source column and the list of connections tying it to
// targets. A column may carry more than one connection; each connection
// takes effect independently.
type Column struct {
	Name   string        `yaml:"name"`
	Target []*Connection `yaml:"target,omitempty"`
}

// Connection ties a column to a target. Exactly one of TargetName or
// AttributeOf must be set: a key connection identifies an entity (or one
// entity slot of a relation), an attribute connection contributes satellite
// payload. EntityIndex is a pointer so that slot 0 stays distinguishable
// from "not set".
type Connection struct {
	TargetName      string `yaml:"target_name,omitempty"`
	EntityName      string `yaml:"entity_name,omitempty"`
	EntityIndex     *int   `yaml:"entity_index,omitempty"`
	AttributeOf     string `yaml:"attribute_of,omitempty"`
	TargetAttribute string `yaml:"target_attribute,omitempty"`
	MultiactiveKey  bool   `yaml:"multiactive_key,omitempty"`
}

// IsKey reports whether the connection is a key connection.
func (c *Connection) IsKey() bool { return c.TargetName != "" }

// IsAttribute reports whether the connection is an attribute connection.
func (c *Connection) IsAttribute() bool { return c.AttributeOf != "" }

// TargetByName returns the declared target with the given name, or nil.
func (d *Document) TargetByName(name string) *Target {
	for _, t := range d.Targets {
		if t.Name == name {
			return t
		}
	}
	return nil
}

// CheckShape verifies that the document is structurally sound. It returns an
// error wrapping ErrMalformedConfig on the first violation found; semantic
// consistency is deliberately out of scope here.
func (d *Document) CheckShape() error {
	seenTargets := make(map[string]struct{})
	for _, t := range d.Targets {
		if t.Name == "" {
			return fmt.Errorf("%w: target with empty name", ErrMalformedConfig)
		}
		if _, dup := seenTargets[t.Name]; dup {
			return fmt.Errorf("%w: duplicate target '%s'", ErrMalformedConfig, t.Name)
		}
		seenTargets[t.Name] = struct{}{}

		switch t.Type {
		case TypeEntity:
			if len(t.Entities) > 0 {
				return fmt.Errorf("%w: entity target '%s' must not declare entities", ErrMalformedConfig, t.Name)
			}
		case TypeRelation:
			// Repeats count as distinct slots, so a self-referencing
			// relation over one entity listed twice is fine.
			if len(t.Entities) < 2 {
				return fmt.Errorf("%w: relation target '%s' needs at least 2 entity slots, got %d", ErrMalformedConfig, t.Name, len(t.Entities))
			}
		default:
			return fmt.Errorf("%w: target '%s' has unknown type '%s'", ErrMalformedConfig, t.Name, t.Type)
		}
	}

	seenSources := make(map[string]struct{})
	for _, s := range d.Sources {
		if s.Name == "" {
			return fmt.Errorf("%w: source with empty name", ErrMalformedConfig)
		}
		if _, dup := seenSources[s.Name]; dup {
			return fmt.Errorf("%w: duplicate source '%s'", ErrMalformedConfig, s.Name)
		}
		seenSources[s.Name] = struct{}{}

		for _, col := range s.Columns {
			if col.Name == "" {
				return fmt.Errorf("%w: source '%s' has a column with empty name", ErrMalformedConfig, s.Name)
			}
			for _, conn := range col.Target {
				if err := checkConnectionShape(s.Name, col.Name, conn); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

func checkConnectionShape(source, column string, conn *Connection) error {
	switch {
	case conn.IsKey() && conn.IsAttribute():
		return fmt.Errorf("%w: column '%s.%s' connection sets both target_name and attribute_of", ErrMalformedConfig, source, column)
	case !conn.IsKey() && !conn.IsAttribute():
		return fmt.Errorf("%w: column '%s.%s' connection sets neither target_name nor attribute_of", ErrMalformedConfig, source, column)
	case conn.IsAttribute() && (conn.EntityName != "" || conn.EntityIndex != nil):
		return fmt.Errorf("%w: column '%s.%s' attribute connection must not set entity_name or entity_index", ErrMalformedConfig, source, column)
	case conn.IsKey() && conn.MultiactiveKey:
		return fmt.Errorf("%w: column '%s.%s' key connection must not set multiactive_key", ErrMalformedConfig, source, column)
	}
	return nil
}
