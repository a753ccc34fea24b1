package app

import (
	"context"
	"fmt"

	"github.com/metadv/metadv/internal/config"
	"github.com/metadv/metadv/internal/ctxlog"
	"github.com/metadv/metadv/internal/fsutil"
	"github.com/metadv/metadv/internal/render"
	"github.com/metadv/metadv/internal/resolve"
	"github.com/metadv/metadv/internal/stage"
	"github.com/metadv/metadv/internal/validate"
)

// load reads and shape-checks the declaration.
func (a *App) load(ctx context.Context) (*config.Document, error) {
	path, loader, err := a.locateDeclaration()
	if err != nil {
		return nil, err
	}
	doc, err := loader.Load(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("failed to load declaration: %w", err)
	}
	return doc, nil
}

// Validate runs the full validation pass and returns every finding.
func (a *App) Validate(ctx context.Context) (*validate.Result, error) {
	ctx = ctxlog.WithLogger(ctx, a.logger)

	doc, err := a.load(ctx)
	if err != nil {
		return nil, err
	}
	return validate.Run(ctx, doc, validate.Options{
		RequireAllSlots: a.config.RequireAllSlots,
	}), nil
}

// Generate runs the whole pipeline: load, validate, resolve, derive stage
// models, render, then write. The artifact set is computed fully before the
// first write, and generation is refused while validation errors exist. It
// returns the written file paths in output order, plus the validation
// result for reporting.
func (a *App) Generate(ctx context.Context) ([]string, *validate.Result, error) {
	ctx = ctxlog.WithLogger(ctx, a.logger)
	logger := a.logger

	doc, err := a.load(ctx)
	if err != nil {
		return nil, nil, err
	}

	result := validate.Run(ctx, doc, validate.Options{
		RequireAllSlots: a.config.RequireAllSlots,
	})
	if !result.OK() {
		return nil, result, fmt.Errorf("validation found %d error(s), generation blocked", len(result.Errors))
	}

	model, err := resolve.Resolve(ctx, doc)
	if err != nil {
		return nil, result, err
	}

	specs := stage.Build(ctx, model)

	convention, err := render.ConventionFor(a.config.Package)
	if err != nil {
		return nil, result, err
	}

	artifacts, err := render.Render(ctx, model, specs, convention)
	if err != nil {
		return nil, result, err
	}

	outputDir := a.outputDir()
	if err := fsutil.CleanGenerated(outputDir, render.OutputFolders); err != nil {
		return nil, result, err
	}

	files := make([]string, 0, len(artifacts))
	for _, artifact := range artifacts {
		path, err := fsutil.WriteFile(outputDir, artifact.Path, artifact.Text)
		if err != nil {
			return files, result, err
		}
		files = append(files, path)
	}

	logger.Info("Generation finished.", "package", convention.PackageName(), "files", len(files))
	return files, result, nil
}
