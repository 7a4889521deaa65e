package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/metasql/metasql/internal/model"
)

// ValidateOptions holds flags for the validate command.
type ValidateOptions struct {
	*RootOptions
}

// ModelReport is the JSON payload for one validated model.
type ModelReport struct {
	Model       string `json:"model"`
	Valid       bool   `json:"valid"`
	Error       string `json:"error,omitempty"`
	Fingerprint string `json:"fingerprint,omitempty"`
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ValidateOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "validate <models-dir>",
		Short: "Validate query model definitions",
		Long: `Validate the structure of CUE query model definitions.

Checks every model's structural invariants (unique table aliases, join
endpoints present, one edge per table pair) and reports its content
fingerprint. All problems are collected before the command fails.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(opts, args[0], cmd)
		},
	}

	return cmd
}

func runValidate(opts *ValidateOptions, modelsDir string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	loadResult, loadErrors := LoadModels(modelsDir, LoadModeCollectAll)
	if loadResult == nil || (len(loadResult.Models) == 0 && len(loadErrors) > 0) {
		return reportLoadError(formatter, loadErrors[0])
	}
	formatter.VerboseLog("Found %d CUE file(s) in %s", loadResult.FileCount, modelsDir)

	var reports []ModelReport
	failed := len(loadErrors) > 0
	for _, err := range loadErrors {
		reports = append(reports, ModelReport{Valid: false, Error: err.Error()})
	}

	for _, name := range loadResult.Names {
		m := loadResult.Models[name]
		report := ModelReport{Model: name, Valid: true}
		if err := model.Validate(m); err != nil {
			report.Valid = false
			report.Error = err.Error()
			failed = true
		} else if fp, err := model.Fingerprint(m); err != nil {
			report.Valid = false
			report.Error = err.Error()
			failed = true
		} else {
			report.Fingerprint = fp
		}
		reports = append(reports, report)
	}

	if opts.Format == "json" {
		if err := formatter.Success(reports); err != nil {
			return err
		}
	} else {
		var sb strings.Builder
		for i, r := range reports {
			if i > 0 {
				sb.WriteString("\n")
			}
			if r.Valid {
				fmt.Fprintf(&sb, "ok    %s %s", r.Model, r.Fingerprint)
			} else {
				fmt.Fprintf(&sb, "error %s %s", r.Model, r.Error)
			}
		}
		if err := formatter.Success(sb.String()); err != nil {
			return err
		}
	}

	if failed {
		return NewExitError(ExitFailure, "validation failed")
	}
	return nil
}
