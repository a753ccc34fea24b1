package cli

import (
	"flag"
	"fmt"
	"io"
	"strings"

	"github.com/metadv/metadv/internal/app"
)

// ExitError is a custom error type that includes a specific exit code.
type ExitError struct {
	Code    int
	Message string
}

// Error implements the error interface for ExitError.
func (e *ExitError) Error() string {
	return e.Message
}

// Parse processes command-line arguments. It returns a populated app.Config,
// a boolean indicating if the program should exit cleanly, or an ExitError.
func Parse(args []string, output io.Writer) (*app.Config, bool, error) {
	flagSet := flag.NewFlagSet("metadv", flag.ContinueOnError)
	flagSet.SetOutput(output)

	flagSet.Usage = func() {
		fmt.Fprint(output, `
metadv - Generate Data Vault 2.0 dbt models from a metadv declaration.

Usage:
  metadv [options] PROJECT_PATH

Arguments:
  PROJECT_PATH
    Path to the dbt project root (the declaration is read from
    models/metadv/metadv.yml or metadv.hcl).

Options:
`)
		flagSet.PrintDefaults()
	}

	packageFlag := flagSet.String("package", "", "Data Vault package to generate for: 'datavault-uk/automate_dv' or 'scalefreecom/datavault4dbt'.")
	pFlag := flagSet.String("p", "", "Data Vault package to generate for (shorthand).")
	validateOnlyFlag := flagSet.Bool("validate-only", false, "Only validate the declaration without generating models.")
	outputFlag := flagSet.String("output", "", "Custom output directory for generated models.")
	oFlag := flagSet.String("o", "", "Custom output directory (shorthand).")
	strictFlag := flagSet.Bool("strict-relations", false, "Treat relations with unmapped entity slots as errors.")
	jsonFlag := flagSet.Bool("json", false, "Output results in JSON format.")
	verboseFlag := flagSet.Bool("verbose", false, "Show detailed output including warnings.")
	logFormatFlag := flagSet.String("log-format", "text", "Log output format. Options: 'text' or 'json'.")
	logLevelFlag := flagSet.String("log-level", "warn", "Set the logging level. Options: 'debug', 'info', 'warn', 'error'.")

	if err := flagSet.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return nil, true, nil
		}
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}

	projectPath := ""
	if flagSet.NArg() > 0 {
		projectPath = flagSet.Arg(0)
	}
	if projectPath == "" {
		flagSet.Usage()
		return nil, true, nil
	}

	packageName := *packageFlag
	if packageName == "" {
		packageName = *pFlag
	}
	if packageName == "" {
		return nil, false, &ExitError{Code: 2, Message: "missing required flag: --package"}
	}

	outputPath := *outputFlag
	if outputPath == "" {
		outputPath = *oFlag
	}

	logFormat := strings.ToLower(*logFormatFlag)
	if logFormat != "text" && logFormat != "json" {
		return nil, false, &ExitError{Code: 2, Message: "invalid log-format: must be 'text' or 'json'"}
	}

	logLevel := strings.ToLower(*logLevelFlag)
	switch logLevel {
	case "debug", "info", "warn", "error":
		// valid
	default:
		return nil, false, &ExitError{Code: 2, Message: "invalid log-level: must be 'debug', 'info', 'warn', or 'error'"}
	}

	config, err := app.NewConfig(app.Config{
		ProjectPath:     projectPath,
		Package:         packageName,
		OutputPath:      outputPath,
		ValidateOnly:    *validateOnlyFlag,
		RequireAllSlots: *strictFlag,
		JSON:            *jsonFlag,
		Verbose:         *verboseFlag,
		LogFormat:       logFormat,
		LogLevel:        logLevel,
	})
	if err != nil {
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}

	return config, false, nil
}
