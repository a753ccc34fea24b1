package cli

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/fatih/color"

	"github.com/metadv/metadv/internal/validate"
)

// validationReport is the JSON shape of a validate-only run.
type validationReport struct {
	Success bool             `json:"success"`
	Error   string           `json:"error,omitempty"`
	Result  *validate.Result `json:"validation,omitempty"`
}

// generationReport is the JSON shape of a generation run.
type generationReport struct {
	Success        bool             `json:"success"`
	Error          string           `json:"error,omitempty"`
	GeneratedFiles []string         `json:"generated_files"`
	Result         *validate.Result `json:"validation,omitempty"`
}

// ReportValidation writes a validation result to the console or as JSON.
func ReportValidation(w io.Writer, result *validate.Result, runErr error, jsonOut, verbose bool) {
	if jsonOut {
		report := validationReport{Success: runErr == nil && result != nil && result.OK(), Result: result}
		if runErr != nil {
			report.Error = runErr.Error()
		}
		writeJSON(w, report)
		return
	}

	if runErr != nil && result == nil {
		color.New(color.FgRed).Fprintf(w, "Error: %v\n", runErr)
		return
	}

	fmt.Fprintf(w, "Targets: %d\n", result.Summary.TotalTargets)
	fmt.Fprintf(w, "Source columns: %d\n", result.Summary.TotalColumns)
	fmt.Fprintf(w, "Columns with connections: %d\n", result.Summary.ColumnsWithConnections)

	printFindings(w, result, verbose)

	if result.OK() {
		color.New(color.FgGreen).Fprintln(w, "Validation PASSED")
		if !verbose && len(result.Warnings) > 0 {
			fmt.Fprintf(w, "  (%d warnings - use --verbose to see)\n", len(result.Warnings))
		}
	} else {
		color.New(color.FgRed).Fprintln(w, "Validation FAILED - please fix errors before generating")
	}
}

// ReportGeneration writes a generation outcome to the console or as JSON.
func ReportGeneration(w io.Writer, files []string, result *validate.Result, runErr error, jsonOut, verbose bool) {
	if jsonOut {
		report := generationReport{Success: runErr == nil, GeneratedFiles: files, Result: result}
		if runErr != nil {
			report.Error = runErr.Error()
		}
		writeJSON(w, report)
		return
	}

	if result != nil {
		printFindings(w, result, verbose)
	}

	if runErr != nil {
		color.New(color.FgRed).Fprintf(w, "Error: %v\n", runErr)
		return
	}

	color.New(color.FgGreen).Fprintf(w, "Generated %d model(s):\n", len(files))
	for _, f := range files {
		fmt.Fprintf(w, "  - %s\n", f)
	}
}

func printFindings(w io.Writer, result *validate.Result, verbose bool) {
	if len(result.Errors) > 0 {
		color.New(color.FgRed).Fprintf(w, "Errors (%d):\n", len(result.Errors))
		for _, e := range result.Errors {
			fmt.Fprintf(w, "  - %s\n", e.Message)
		}
	}
	if verbose && len(result.Warnings) > 0 {
		color.New(color.FgYellow).Fprintf(w, "Warnings (%d):\n", len(result.Warnings))
		for _, warn := range result.Warnings {
			fmt.Fprintf(w, "  - %s\n", warn.Message)
		}
	}
}

func writeJSON(w io.Writer, v any) {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	// Encoding a plain report struct cannot fail; ignore the writer error
	// the same way fmt.Fprintf callers do.
	_ = enc.Encode(v)
}
