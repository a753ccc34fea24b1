// Package config defines the format-agnostic configuration model for a
// metadv declaration, along with the Loader interface for reading it from
// various document formats.
//
// The config.Document is the single source of truth for the validate,
// resolve and stage packages. It is a pure data carrier: CheckShape rejects
// structurally broken documents, and everything semantic is left to the
// validate package. Concrete loaders, such as for YAML and HCL, are provided
// in separate packages.
package config
