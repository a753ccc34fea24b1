// Package app wires the pipeline together and is the library entry point:
// construct an App from a Config, then call Validate or Generate. The
// control flow is a single batch pass (load, validate, resolve, derive
// stage models, render, write) with no state shared between runs; a
// validation error halts the pass before anything is written.
package app
