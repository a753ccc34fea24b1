// Package validate checks the structural consistency of a declaration
// before resolution. It runs every rule in a single pass and returns all
// findings at once: errors (which callers should treat as blocking) and
// warnings (which never block).
//
// The rules operate on a document that already passed config.CheckShape, so
// they are about meaning, not shape: relations nobody connects to, entities
// without sources, columns that feed nothing, references to undeclared
// targets.
package validate
