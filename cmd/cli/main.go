package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/metadv/metadv/internal/app"
	"github.com/metadv/metadv/internal/cli"
)

// main is the entrypoint for the metadv generator.
func main() {
	// Use a minimal logger until the full one is configured.
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelWarn,
	})))

	// The real main function handles errors and exit codes.
	if err := run(os.Stdout, os.Args[1:]); err != nil {
		if exitErr, ok := err.(*cli.ExitError); ok {
			fmt.Fprintln(os.Stderr, exitErr.Message)
			os.Exit(exitErr.Code)
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// run encapsulates the main application logic for easier testing and error handling.
func run(outW io.Writer, args []string) error {
	appConfig, shouldExit, err := cli.Parse(args, outW)
	if err != nil {
		return err
	}
	if shouldExit {
		return nil
	}

	generator := app.New(os.Stderr, appConfig)
	ctx := context.Background()

	if appConfig.ValidateOnly {
		result, err := generator.Validate(ctx)
		cli.ReportValidation(outW, result, err, appConfig.JSON, appConfig.Verbose)
		if err != nil {
			return &cli.ExitError{Code: 1, Message: err.Error()}
		}
		if !result.OK() {
			return &cli.ExitError{Code: 1, Message: "validation failed"}
		}
		return nil
	}

	files, result, err := generator.Generate(ctx)
	cli.ReportGeneration(outW, files, result, err, appConfig.JSON, appConfig.Verbose)
	if err != nil {
		return &cli.ExitError{Code: 1, Message: err.Error()}
	}
	return nil
}
