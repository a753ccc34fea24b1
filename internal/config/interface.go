package config

import "context"

// Loader is the interface for a format-specific configuration loader.
type Loader interface {
	// Load reads the declaration from the given path, translates it into the
	// format-agnostic Document, and checks its shape.
	Load(ctx context.Context, path string) (*Document, error)
}
