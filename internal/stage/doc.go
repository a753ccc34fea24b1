// Package stage derives per-source stage model specs from the resolved
// model: natural key aliases, composite hash key definitions for every hub
// and link hash key the source feeds, and hashdiff definitions for every
// satellite whose payload appears in the source.
package stage
